package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	eventsvc "casavia-backend/internal/application/events"
	listsvc "casavia-backend/internal/application/listings"
	"casavia-backend/internal/constants"
	"casavia-backend/internal/domain"
	"casavia-backend/internal/middleware"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAssets struct {
	calls  []string
	failOn map[string]bool
}

func (f *fakeAssets) DeleteAsset(ctx context.Context, publicID string) error {
	f.calls = append(f.calls, publicID)
	if f.failOn[publicID] {
		return errors.New("destroy failed")
	}
	return nil
}

// asRole injects a session user the way the session middleware would.
func asRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"email": "staff@test.com",
			"role":  role,
		})
		return c.Next()
	}
}

func setupApp(t *testing.T, role string) (*fiber.App, *gorm.DB, *fakeAssets) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Listing{}, &domain.ListingImage{}, &domain.ListingEvent{}))

	assets := &fakeAssets{failOn: map[string]bool{}}
	h := &Handlers{
		Listings: &listsvc.Service{DB: db, Assets: assets},
		Events:   &eventsvc.Service{DB: db},
	}

	app := fiber.New()
	grp := app.Group("/api/v1/admin", asRole(role), middleware.RequireAuth())
	grp.Get("/listings", middleware.AuthorizePermission(constants.ManageListings), h.List)
	grp.Post("/listings", middleware.AuthorizePermission(constants.ManageListings), h.Create)
	grp.Get("/listings/:id", middleware.AuthorizePermission(constants.ManageListings), h.Get)
	grp.Put("/listings/:id", middleware.AuthorizePermission(constants.ManageListings), h.Update)
	grp.Delete("/listings/:id", middleware.AuthorizePermission(constants.ManageListings), h.Delete)
	grp.Patch("/listings/:id/featured", middleware.AuthorizePermission(constants.FeatureListing), h.SetFeatured)
	grp.Get("/listings/:id/events", middleware.AuthorizePermission(constants.ViewAuditTrail), h.ListingEvents)
	return app, db, assets
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (int, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var parsed map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	return resp.StatusCode, parsed
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"title":         "Ocean View Villa",
		"price":         750000,
		"location":      "Malibu",
		"bedrooms":      4,
		"bathrooms":     3.5,
		"property_type": "house",
	}
}

func TestCreate_Success(t *testing.T) {
	app, db, _ := setupApp(t, constants.Editor)

	code, body := doJSON(t, app, "POST", "/api/v1/admin/listings", validBody())
	require.Equal(t, 201, code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "ocean-view-villa", data["slug"])
	assert.NotEmpty(t, data["id"])

	var n int64
	require.NoError(t, db.Model(&domain.Listing{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCreate_ValidationIssuesListed(t *testing.T) {
	app, _, _ := setupApp(t, constants.Editor)

	b := validBody()
	delete(b, "title")
	b["bedrooms"] = -1
	code, body := doJSON(t, app, "POST", "/api/v1/admin/listings", b)
	require.Equal(t, 400, code)

	errObj := body["error"].(map[string]interface{})
	issues := errObj["details"].(map[string]interface{})["issues"].([]interface{})
	fields := map[string]bool{}
	for _, raw := range issues {
		fields[raw.(map[string]interface{})["field"].(string)] = true
	}
	assert.True(t, fields["title"])
	assert.True(t, fields["bedrooms"])
	assert.Len(t, issues, 2)
}

func TestUpdate_AndGet(t *testing.T) {
	app, _, _ := setupApp(t, constants.Editor)

	code, body := doJSON(t, app, "POST", "/api/v1/admin/listings", validBody())
	require.Equal(t, 201, code)
	id := body["data"].(map[string]interface{})["id"].(string)

	code, body = doJSON(t, app, "PUT", "/api/v1/admin/listings/"+id, map[string]interface{}{
		"price": 800000,
	})
	require.Equal(t, 200, code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 800000.0, data["price"])
	assert.Equal(t, "Ocean View Villa", data["title"])

	code, body = doJSON(t, app, "GET", "/api/v1/admin/listings/"+id, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, 800000.0, body["data"].(map[string]interface{})["price"])
}

func TestDelete_NoContent(t *testing.T) {
	app, db, _ := setupApp(t, constants.Editor)

	_, body := doJSON(t, app, "POST", "/api/v1/admin/listings", validBody())
	id := body["data"].(map[string]interface{})["id"].(string)

	code, _ := doJSON(t, app, "DELETE", "/api/v1/admin/listings/"+id, nil)
	assert.Equal(t, 204, code)

	var n int64
	require.NoError(t, db.Model(&domain.Listing{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestDelete_RemoteFailureIs500(t *testing.T) {
	app, db, assets := setupApp(t, constants.Editor)

	b := validBody()
	b["images"] = []map[string]string{{"public_id": "p1", "url": "u1"}}
	_, body := doJSON(t, app, "POST", "/api/v1/admin/listings", b)
	id := body["data"].(map[string]interface{})["id"].(string)

	assets.failOn["p1"] = true
	code, body := doJSON(t, app, "DELETE", "/api/v1/admin/listings/"+id, nil)
	require.Equal(t, 500, code)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "Failed to update remote assets", errObj["message"])

	var n int64
	require.NoError(t, db.Model(&domain.Listing{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestSetFeatured(t *testing.T) {
	app, _, _ := setupApp(t, constants.Admin)

	_, body := doJSON(t, app, "POST", "/api/v1/admin/listings", validBody())
	id := body["data"].(map[string]interface{})["id"].(string)

	code, _ := doJSON(t, app, "PATCH", "/api/v1/admin/listings/"+id+"/featured", map[string]interface{}{})
	assert.Equal(t, 400, code)

	code, body = doJSON(t, app, "PATCH", "/api/v1/admin/listings/"+id+"/featured", map[string]interface{}{
		"featured": true,
	})
	require.Equal(t, 200, code)
	assert.Equal(t, true, body["data"].(map[string]interface{})["featured"])
}

func TestSetFeatured_EditorForbidden(t *testing.T) {
	app, _, _ := setupApp(t, constants.Editor)

	_, body := doJSON(t, app, "POST", "/api/v1/admin/listings", validBody())
	id := body["data"].(map[string]interface{})["id"].(string)

	code, _ := doJSON(t, app, "PATCH", "/api/v1/admin/listings/"+id+"/featured", map[string]interface{}{
		"featured": true,
	})
	assert.Equal(t, 403, code)
}

func TestListingEvents_TrailAfterMutations(t *testing.T) {
	app, _, _ := setupApp(t, constants.Editor)

	_, body := doJSON(t, app, "POST", "/api/v1/admin/listings", validBody())
	id := body["data"].(map[string]interface{})["id"].(string)
	code, _ := doJSON(t, app, "PUT", "/api/v1/admin/listings/"+id, map[string]interface{}{"price": 1})
	require.Equal(t, 200, code)

	code, body = doJSON(t, app, "GET", "/api/v1/admin/listings/"+id+"/events", nil)
	require.Equal(t, 200, code)
	events := body["data"].([]interface{})
	require.Len(t, events, 2)
	// Newest first.
	assert.Equal(t, domain.EventUpdated, events[0].(map[string]interface{})["event_type"])
	assert.Equal(t, domain.EventCreated, events[1].(map[string]interface{})["event_type"])
}

func TestInvalidID(t *testing.T) {
	app, _, _ := setupApp(t, constants.Editor)
	code, _ := doJSON(t, app, "GET", "/api/v1/admin/listings/not-a-uuid", nil)
	assert.Equal(t, 400, code)
}

func TestNotFound(t *testing.T) {
	app, _, _ := setupApp(t, constants.Editor)
	code, _ := doJSON(t, app, "GET", "/api/v1/admin/listings/6a3cbd3e-8a4f-4c34-b5ae-3f9f36cf17f4", nil)
	assert.Equal(t, 404, code)
}
