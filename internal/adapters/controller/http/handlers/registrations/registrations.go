package registrations

import (
	"context"
	"errors"

	"github.com/Badsnus/campus-hub/cmd/server"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/middlewares"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/response"
	"github.com/Badsnus/campus-hub/internal/adapters/database/postgres"
	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/service"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
	"github.com/gofiber/fiber/v2"
)

type registrationService interface {
	Register(ctx context.Context, session dto.Session, eventID string, form dto.RegistrationForm) (*entity.Registration, error)
	Unregister(ctx context.Context, session dto.Session, eventID string) error
	State(ctx context.Context, userID, eventID string) (service.RegistrationState, error)
	Get(ctx context.Context, session dto.Session, eventID string) (*entity.Registration, error)
	ListMine(ctx context.Context, session dto.Session) ([]entity.Registration, error)
}

type Handler struct {
	registrationService registrationService
	logger              *types.Logger
}

func New(s *server.Server) *Handler {
	userStorage := postgres.NewUserStorage(s.DB)
	eventStorage := postgres.NewEventStorage(s.DB)
	registrationStorage := postgres.NewRegistrationStorage(s.DB)
	reminderStorage := postgres.NewReminderStorage(s.DB, s.Rows)
	notificationStorage := postgres.NewNotificationStorage(s.DB, s.Rows)

	emailService := service.NewEmailService(s.Mailer, s.Logger)
	notificationService := service.NewNotificationService(s.Logger, notificationStorage, s.Rows, emailService)
	reminderService := service.NewReminderService(s.Logger, reminderStorage, s.Rows, emailService, notificationService, userStorage, eventStorage)

	return &Handler{
		registrationService: service.NewRegistrationService(
			s.Logger,
			registrationStorage,
			s.Rows,
			s.Guard,
			userStorage,
			eventStorage,
			emailService,
			reminderService,
			notificationService,
		),
		logger: s.Logger,
	}
}

type status struct {
	State        service.RegistrationState `json:"state"`
	Registration *entity.Registration      `json:"registration,omitempty"`
}

func (h Handler) Register(c *fiber.Ctx) error {
	var form dto.RegistrationForm
	if err := c.BodyParser(&form); err != nil {
		return response.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	registration, err := h.registrationService.Register(c.UserContext(), middlewares.Session(c), c.Params("id"), form)
	if err != nil {
		return response.Error(c, err, "Failed to register for event")
	}
	return response.HandleSuccess(c, fiber.StatusCreated, "Successfully registered for the event!", registration)
}

func (h Handler) Unregister(c *fiber.Ctx) error {
	if err := h.registrationService.Unregister(c.UserContext(), middlewares.Session(c), c.Params("id")); err != nil {
		return response.Error(c, err, "Failed to unregister from event")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Successfully unregistered from the event.", nil)
}

func (h Handler) Status(c *fiber.Ctx) error {
	session := middlewares.Session(c)
	eventID := c.Params("id")

	state, err := h.registrationService.State(c.UserContext(), session.UserID, eventID)
	if err != nil {
		return response.Error(c, err, "Failed to get registration")
	}
	out := status{State: state}
	if state == service.Registered {
		out.Registration, err = h.registrationService.Get(c.UserContext(), session, eventID)
		if err != nil && !errors.Is(err, errorz.ErrNotFound) {
			return response.Error(c, err, "Failed to get registration")
		}
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Registration status", out)
}

func (h Handler) ListMine(c *fiber.Ctx) error {
	registrations, err := h.registrationService.ListMine(c.UserContext(), middlewares.Session(c))
	if err != nil {
		return response.Error(c, err, "Failed to list registrations")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Registrations fetched", registrations)
}

func (h Handler) Setup(router fiber.Router) {
	router.Get("/registrations/me", h.ListMine)
	router.Get("/events/:id/registration", h.Status)
	router.Post("/events/:id/registration", h.Register)
	router.Delete("/events/:id/registration", h.Unregister)
}
