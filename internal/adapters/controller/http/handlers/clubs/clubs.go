package clubs

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

type clubService interface {
	Request(ctx context.Context, session dto.Session, form dto.ClubRequest) (*entity.Club, error)
	SetStatus(ctx context.Context, session dto.Session, clubID string, status entity.ApprovalStatus) error
	Get(ctx context.Context, id string) (*entity.Club, error)
	List(ctx context.Context, session dto.Session, status entity.ApprovalStatus) ([]entity.Club, error)
	ListMine(ctx context.Context, session dto.Session) ([]entity.Club, error)
}

type Handler struct {
	clubService clubService
	logger      *types.Logger
}

func New(s *server.Server) *Handler {
	return &Handler{
		clubService: service.NewClubService(s.Logger, postgres.NewClubStorage(s.DB), postgres.NewUserStorage(s.DB), s.Rows),
		logger:      s.Logger,
	}
}

type statusForm struct {
	Status entity.ApprovalStatus `json:"status"`
}

func (h Handler) List(c *fiber.Ctx) error {
	status := entity.ApprovalStatus(c.Query("status", string(entity.StatusApproved)))
	clubs, err := h.clubService.List(c.UserContext(), middlewares.Session(c), status)
	if err != nil {
		return response.Error(c, err, "Failed to list clubs")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Clubs fetched", clubs)
}

func (h Handler) Mine(c *fiber.Ctx) error {
	clubs, err := h.clubService.ListMine(c.UserContext(), middlewares.Session(c))
	if err != nil {
		return response.Error(c, err, "Failed to list clubs")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Clubs fetched", clubs)
}

func (h Handler) Get(c *fiber.Ctx) error {
	club, err := h.clubService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.Error(c, err, "Failed to load club")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Club", club)
}

func (h Handler) Request(c *fiber.Ctx) error {
	var form dto.ClubRequest
	if err := c.BodyParser(&form); err != nil {
		return response.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	club, err := h.clubService.Request(c.UserContext(), middlewares.Session(c), form)
	if err != nil {
		return response.Error(c, err, "Failed to request club")
	}
	return response.HandleSuccess(c, fiber.StatusCreated, "Club request submitted", club)
}

func (h Handler) SetStatus(c *fiber.Ctx) error {
	var form statusForm
	if err := c.BodyParser(&form); err != nil {
		return response.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.clubService.SetStatus(c.UserContext(), middlewares.Session(c), c.Params("id"), form.Status); err != nil {
		return response.Error(c, err, "Failed to change club status")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Club status updated", nil)
}

func (h Handler) Setup(router fiber.Router) {
	group := router.Group("/clubs")
	group.Get("/", h.List)
	group.Post("/", h.Request)
	group.Get("/mine", h.Mine)
	group.Get("/:id", h.Get)
	group.Put("/:id/status", middlewares.RequireRole(entity.Admin), h.SetStatus)
}
