package comments

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

type commentService interface {
	Post(ctx context.Context, session dto.Session, eventID string, form dto.CommentForm) (*entity.Comment, error)
	Reply(ctx context.Context, session dto.Session, parentID string, form dto.CommentForm) (*entity.Comment, error)
	Like(ctx context.Context, session dto.Session, id string) error
	Delete(ctx context.Context, session dto.Session, id string) error
	Threads(ctx context.Context, eventID string) ([]service.CommentThread, error)
}

type Handler struct {
	commentService commentService
	logger         *types.Logger
}

func New(s *server.Server) *Handler {
	notificationStorage := postgres.NewNotificationStorage(s.DB, s.Rows)
	emailService := service.NewEmailService(s.Mailer, s.Logger)

	return &Handler{
		commentService: service.NewCommentService(
			s.Logger,
			postgres.NewCommentStorage(s.DB),
			s.Rows,
			postgres.NewUserStorage(s.DB),
			postgres.NewEventStorage(s.DB),
			service.NewNotificationService(s.Logger, notificationStorage, s.Rows, emailService),
		),
		logger: s.Logger,
	}
}

func (h Handler) List(c *fiber.Ctx) error {
	threads, err := h.commentService.Threads(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.Error(c, err, "Failed to list comments")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Comments fetched", threads)
}

func (h Handler) Post(c *fiber.Ctx) error {
	var form dto.CommentForm
	if err := c.BodyParser(&form); err != nil {
		return response.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	comment, err := h.commentService.Post(c.UserContext(), middlewares.Session(c), c.Params("id"), form)
	if err != nil {
		return response.Error(c, err, "Failed to post comment")
	}
	return response.HandleSuccess(c, fiber.StatusCreated, "Comment posted", comment)
}

func (h Handler) Reply(c *fiber.Ctx) error {
	var form dto.CommentForm
	if err := c.BodyParser(&form); err != nil {
		return response.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	comment, err := h.commentService.Reply(c.UserContext(), middlewares.Session(c), c.Params("id"), form)
	if err != nil {
		return response.Error(c, err, "Failed to post reply")
	}
	return response.HandleSuccess(c, fiber.StatusCreated, "Reply posted", comment)
}

func (h Handler) Like(c *fiber.Ctx) error {
	if err := h.commentService.Like(c.UserContext(), middlewares.Session(c), c.Params("id")); err != nil {
		return response.Error(c, err, "Failed to like comment")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Comment liked", nil)
}

func (h Handler) Delete(c *fiber.Ctx) error {
	if err := h.commentService.Delete(c.UserContext(), middlewares.Session(c), c.Params("id")); err != nil {
		return response.Error(c, err, "Failed to delete comment")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Comment deleted", nil)
}

func (h Handler) Setup(router fiber.Router) {
	router.Get("/events/:id/comments", h.List)
	router.Post("/events/:id/comments", h.Post)
	router.Post("/comments/:id/replies", h.Reply)
	router.Post("/comments/:id/like", h.Like)
	router.Delete("/comments/:id", h.Delete)
}
