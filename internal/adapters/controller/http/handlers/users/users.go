package users

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

type userService interface {
	Get(ctx context.Context, id string) (*entity.User, error)
	Count(ctx context.Context) (int64, error)
	UpdateProfile(ctx context.Context, session dto.Session, form dto.ProfileForm) (*entity.User, error)
	UpdateSettings(ctx context.Context, session dto.Session, form dto.SettingsForm) (*entity.User, error)
	SetRole(ctx context.Context, session dto.Session, userID string, role entity.Role) error
	SetOrganizerStatus(ctx context.Context, session dto.Session, userID string, status entity.ApprovalStatus) error
	ListPendingOrganizers(ctx context.Context, session dto.Session) ([]entity.User, error)
}

type Handler struct {
	userService userService
	logger      *types.Logger
}

func New(s *server.Server) *Handler {
	return &Handler{
		userService: service.NewUserService(s.Logger, postgres.NewUserStorage(s.DB), s.Rows),
		logger:      s.Logger,
	}
}

type roleForm struct {
	Role entity.Role `json:"role"`
}

type statusForm struct {
	Status entity.ApprovalStatus `json:"status"`
}

func (h Handler) Me(c *fiber.Ctx) error {
	user := middlewares.User(c)
	if user == nil {
		return response.HandleError(c, fiber.StatusUnauthorized, "Not signed in", nil)
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Profile", user)
}

func (h Handler) UpdateProfile(c *fiber.Ctx) error {
	var form dto.ProfileForm
	if err := c.BodyParser(&form); err != nil {
		return response.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	user, err := h.userService.UpdateProfile(c.UserContext(), middlewares.Session(c), form)
	if err != nil {
		return response.Error(c, err, "Failed to update profile")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Profile updated", user)
}

func (h Handler) UpdateSettings(c *fiber.Ctx) error {
	var form dto.SettingsForm
	if err := c.BodyParser(&form); err != nil {
		return response.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	user, err := h.userService.UpdateSettings(c.UserContext(), middlewares.Session(c), form)
	if err != nil {
		return response.Error(c, err, "Failed to update settings")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Settings updated", user)
}

func (h Handler) Get(c *fiber.Ctx) error {
	user, err := h.userService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.Error(c, err, "Failed to load user")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "User", user)
}

func (h Handler) PendingOrganizers(c *fiber.Ctx) error {
	users, err := h.userService.ListPendingOrganizers(c.UserContext(), middlewares.Session(c))
	if err != nil {
		return response.Error(c, err, "Failed to list organizers")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Pending organizers", users)
}

func (h Handler) SetRole(c *fiber.Ctx) error {
	var form roleForm
	if err := c.BodyParser(&form); err != nil {
		return response.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.userService.SetRole(c.UserContext(), middlewares.Session(c), c.Params("id"), form.Role); err != nil {
		return response.Error(c, err, "Failed to change role")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Role updated", nil)
}

func (h Handler) SetOrganizerStatus(c *fiber.Ctx) error {
	var form statusForm
	if err := c.BodyParser(&form); err != nil {
		return response.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.userService.SetOrganizerStatus(c.UserContext(), middlewares.Session(c), c.Params("id"), form.Status); err != nil {
		return response.Error(c, err, "Failed to change organizer status")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Organizer status updated", nil)
}

func (h Handler) Count(c *fiber.Ctx) error {
	count, err := h.userService.Count(c.UserContext())
	if err != nil {
		return response.Error(c, err, "Failed to count users")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Users", fiber.Map{"count": count})
}

func (h Handler) Setup(router fiber.Router) {
	group := router.Group("/users")
	group.Get("/me", h.Me)
	group.Put("/me", h.UpdateProfile)
	group.Put("/me/settings", h.UpdateSettings)

	admin := middlewares.RequireRole(entity.Admin)
	group.Get("/count", admin, h.Count)
	group.Get("/organizers/pending", admin, h.PendingOrganizers)
	group.Get("/:id", admin, h.Get)
	group.Put("/:id/role", admin, h.SetRole)
	group.Put("/:id/organizer-status", admin, h.SetOrganizerStatus)
}
