package reminders

import (
	"context"

	"github.com/Badsnus/campus-hub/cmd/server"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/middlewares"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/response"
	"github.com/Badsnus/campus-hub/internal/adapters/database/postgres"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/service"
	"github.com/Badsnus/campus-hub/internal/domain/utils/timefmt"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
	"github.com/gofiber/fiber/v2"
)

type reminderService interface {
	Create(ctx context.Context, session dto.Session, form dto.ReminderForm) (*entity.Reminder, error)
	Options(ctx context.Context, eventID string) ([]timefmt.ReminderOption, error)
	MarkSent(ctx context.Context, id string) error
	ListForUser(ctx context.Context, session dto.Session) ([]entity.Reminder, error)
	Delete(ctx context.Context, session dto.Session, id string) error
}

type Handler struct {
	reminderService reminderService
	logger          *types.Logger
}

func New(s *server.Server) *Handler {
	emailService := service.NewEmailService(s.Mailer, s.Logger)
	notificationStorage := postgres.NewNotificationStorage(s.DB, s.Rows)

	return &Handler{
		reminderService: service.NewReminderService(
			s.Logger,
			postgres.NewReminderStorage(s.DB, s.Rows),
			s.Rows,
			emailService,
			service.NewNotificationService(s.Logger, notificationStorage, s.Rows, emailService),
			postgres.NewUserStorage(s.DB),
			postgres.NewEventStorage(s.DB),
		),
		logger: s.Logger,
	}
}

func (h Handler) List(c *fiber.Ctx) error {
	reminders, err := h.reminderService.ListForUser(c.UserContext(), middlewares.Session(c))
	if err != nil {
		return response.Error(c, err, "Failed to list reminders")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Reminders fetched", reminders)
}

func (h Handler) Create(c *fiber.Ctx) error {
	var form dto.ReminderForm
	if err := c.BodyParser(&form); err != nil {
		return response.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	reminder, err := h.reminderService.Create(c.UserContext(), middlewares.Session(c), form)
	if err != nil {
		return response.Error(c, err, "Failed to set reminder")
	}
	if reminder == nil {
		return response.HandleSuccess(c, fiber.StatusOK, "Event reminders are disabled in your settings", nil)
	}
	return response.HandleSuccess(c, fiber.StatusCreated, "Reminder set", reminder)
}

func (h Handler) Options(c *fiber.Ctx) error {
	options, err := h.reminderService.Options(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.Error(c, err, "Failed to list reminder options")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Reminder options", options)
}

func (h Handler) MarkSent(c *fiber.Ctx) error {
	if err := h.reminderService.MarkSent(c.UserContext(), c.Params("id")); err != nil {
		return response.Error(c, err, "Failed to mark reminder as sent")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Reminder marked as sent", nil)
}

func (h Handler) Delete(c *fiber.Ctx) error {
	if err := h.reminderService.Delete(c.UserContext(), middlewares.Session(c), c.Params("id")); err != nil {
		return response.Error(c, err, "Failed to delete reminder")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Reminder deleted", nil)
}

func (h Handler) Setup(router fiber.Router) {
	router.Get("/events/:id/reminder-options", h.Options)
	router.Get("/reminders", h.List)
	router.Post("/reminders", h.Create)
	router.Delete("/reminders/:id", h.Delete)
	router.Post("/reminders/:id/sent", middlewares.RequireRole(entity.Admin), h.MarkSent)
}
