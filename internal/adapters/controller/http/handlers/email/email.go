package email

import (
	"context"
	"errors"

	"github.com/Badsnus/campus-hub/cmd/server"
	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/service"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
	"github.com/gofiber/fiber/v2"
)

type emailService interface {
	Send(ctx context.Context, req dto.EmailRequest) error
}

type Handler struct {
	emailService emailService
	logger       *types.Logger
}

func New(s *server.Server) *Handler {
	return &Handler{
		emailService: service.NewEmailService(s.Mailer, s.Logger),
		logger:       s.Logger,
	}
}

type result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Send handles POST /api/send-email.
func (h Handler) Send(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(result{Message: "Invalid request body"})
	}

	err := h.emailService.Send(c.UserContext(), req)
	switch {
	case err == nil:
		return c.JSON(result{Success: true, Message: "Email sent successfully"})
	case errorz.IsValidation(err):
		var verr *errorz.ValidationError
		errors.As(err, &verr)
		return c.Status(fiber.StatusBadRequest).JSON(result{Message: verr.Message})
	case errors.Is(err, errorz.ErrEmailNotConfigured):
		return c.Status(fiber.StatusInternalServerError).JSON(result{Message: "Email service not configured"})
	}
	h.logger.Errorf("Error sending email: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(result{Message: "Failed to send email"})
}

func (h Handler) Setup(router fiber.Router) {
	router.Post("/send-email", h.Send)
}
