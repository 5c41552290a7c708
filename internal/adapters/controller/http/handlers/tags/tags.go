package tags

import (
	"context"
	"errors"

	"github.com/Badsnus/campus-hub/cmd/server"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/response"
	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/service"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
	"github.com/gofiber/fiber/v2"
)

const suggestionFailed = "Failed to get suggestions. Please try again later."

type tagService interface {
	Suggest(ctx context.Context, req dto.TagRequest) (dto.TagSuggestions, error)
}

type Handler struct {
	tagService tagService
	logger     *types.Logger
}

func New(s *server.Server) *Handler {
	return &Handler{
		tagService: service.NewTagService(s.Logger, s.Tagger),
		logger:     s.Logger,
	}
}

func (h Handler) Suggest(c *fiber.Ctx) error {
	var req dto.TagRequest
	if err := c.BodyParser(&req); err != nil {
		return response.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	out, err := h.tagService.Suggest(c.UserContext(), req)
	switch {
	case err == nil:
		return response.HandleSuccess(c, fiber.StatusOK, "Tags suggested", out)
	case errorz.IsValidation(err), errors.Is(err, errorz.ErrTagModelUnavailable):
		return response.Error(c, err, suggestionFailed)
	}
	return response.HandleError(c, fiber.StatusBadGateway, suggestionFailed, err)
}

func (h Handler) Setup(router fiber.Router) {
	router.Post("/tags/suggest", h.Suggest)
}
