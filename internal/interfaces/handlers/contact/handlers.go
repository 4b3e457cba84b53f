package contact

import (
	"strings"

	"casavia-backend/internal/application/emails"
	"casavia-backend/internal/pkg/response"
	"casavia-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers serves the public contact form.
type Handlers struct {
	Sender emails.Sender
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Submit POST /api/v1/contact: validate and forward the inquiry by mail.
func (h *Handlers) Submit(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	var issues []issue
	if strings.TrimSpace(req.Name) == "" {
		issues = append(issues, issue{Field: "name", Message: "is required"})
	}
	if !validation.IsValidEmail(req.Email) {
		issues = append(issues, issue{Field: "email", Message: "must be a valid email address"})
	}
	if len(strings.TrimSpace(req.Message)) < 10 {
		issues = append(issues, issue{Field: "message", Message: "must be at least 10 characters"})
	}
	if len(issues) > 0 {
		return response.ValidationFailed(c, issues)
	}

	if h.Sender == nil {
		return response.Error(c, "Failed to send message", 500, nil)
	}
	err := h.Sender.SendContact(c.Context(), emails.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		log.Error().Err(err).Msg("contact: send failed")
		return response.Error(c, "Failed to send message", 500, nil)
	}
	return response.Success(c, "Message sent successfully", nil, nil)
}
