package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"casavia-backend/internal/application/emails"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	sent []emails.ContactMessage
	err  error
}

func (m *mockSender) SendContact(ctx context.Context, msg emails.ContactMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func setupApp(sender emails.Sender) *fiber.App {
	app := fiber.New()
	h := &Handlers{Sender: sender}
	app.Post("/api/v1/contact", h.Submit)
	return app
}

func post(t *testing.T, app *fiber.App, body map[string]string) (int, map[string]interface{}) {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/api/v1/contact", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var parsed map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	return resp.StatusCode, parsed
}

func validForm() map[string]string {
	return map[string]string{
		"name":    "Jordan Buyer",
		"email":   "jordan@example.com",
		"phone":   "555-0100",
		"message": "Interested in the ocean view villa, please call back.",
	}
}

func TestSubmit_SendsMail(t *testing.T) {
	sender := &mockSender{}
	app := setupApp(sender)

	code, _ := post(t, app, validForm())
	require.Equal(t, 200, code)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "jordan@example.com", sender.sent[0].Email)
	assert.Equal(t, "Jordan Buyer", sender.sent[0].Name)
}

func TestSubmit_ValidationIssuesListed(t *testing.T) {
	sender := &mockSender{}
	app := setupApp(sender)

	code, body := post(t, app, map[string]string{
		"name":    "  ",
		"email":   "not-an-email",
		"message": "too short",
	})
	require.Equal(t, 400, code)
	assert.Empty(t, sender.sent)

	errObj := body["error"].(map[string]interface{})
	issues := errObj["details"].(map[string]interface{})["issues"].([]interface{})
	fields := map[string]bool{}
	for _, raw := range issues {
		fields[raw.(map[string]interface{})["field"].(string)] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["email"])
	assert.True(t, fields["message"])
}

func TestSubmit_SendFailure(t *testing.T) {
	app := setupApp(&mockSender{err: errors.New("smtp down")})

	code, _ := post(t, app, validForm())
	assert.Equal(t, 500, code)
}

func TestSubmit_NoSenderConfigured(t *testing.T) {
	app := setupApp(nil)

	code, _ := post(t, app, validForm())
	assert.Equal(t, 500, code)
}
