package notifications

import (
	"context"

	"github.com/Badsnus/campus-hub/cmd/server"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/middlewares"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/response"
	"github.com/Badsnus/campus-hub/internal/adapters/database/postgres"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/service"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
	"github.com/gofiber/fiber/v2"
)

const defaultLimit = 50

type notificationService interface {
	List(ctx context.Context, session dto.Session, unreadOnly bool, limit int) ([]entity.Notification, error)
	UnreadCount(ctx context.Context, session dto.Session) (int64, error)
	MarkRead(ctx context.Context, session dto.Session, id string) error
	MarkAllRead(ctx context.Context, session dto.Session) (int, error)
	Preferences(user entity.User) service.Preferences
}

type Handler struct {
	notificationService notificationService
	logger              *types.Logger
}

func New(s *server.Server) *Handler {
	return &Handler{
		notificationService: service.NewNotificationService(
			s.Logger,
			postgres.NewNotificationStorage(s.DB, s.Rows),
			s.Rows,
			service.NewEmailService(s.Mailer, s.Logger),
		),
		logger: s.Logger,
	}
}

func (h Handler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultLimit)
	notifications, err := h.notificationService.List(c.UserContext(), middlewares.Session(c), c.QueryBool("unread"), limit)
	if err != nil {
		return response.Error(c, err, "Failed to list notifications")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Notifications fetched", notifications)
}

func (h Handler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.notificationService.UnreadCount(c.UserContext(), middlewares.Session(c))
	if err != nil {
		return response.Error(c, err, "Failed to count notifications")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Unread notifications", fiber.Map{"count": count})
}

func (h Handler) MarkRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkRead(c.UserContext(), middlewares.Session(c), c.Params("id")); err != nil {
		return response.Error(c, err, "Failed to mark notification as read")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Notification marked as read", nil)
}

func (h Handler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.notificationService.MarkAllRead(c.UserContext(), middlewares.Session(c))
	if err != nil {
		return response.Error(c, err, "Failed to mark notifications as read")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Notifications marked as read", fiber.Map{"updated": n})
}

func (h Handler) Preferences(c *fiber.Ctx) error {
	user := middlewares.User(c)
	if user == nil {
		return response.HandleError(c, fiber.StatusUnauthorized, "Not signed in", nil)
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Notification preferences", h.notificationService.Preferences(*user))
}

func (h Handler) Setup(router fiber.Router) {
	group := router.Group("/notifications")
	group.Get("/", h.List)
	group.Get("/unread-count", h.UnreadCount)
	group.Get("/preferences", h.Preferences)
	group.Post("/read-all", h.MarkAllRead)
	group.Post("/:id/read", h.MarkRead)
}
