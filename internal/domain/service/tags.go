package service

import (
	"context"
	"strings"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/utils/validator"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
)

const shortDescriptionMessage = "Description must be at least 20 characters long."

type tagModel interface {
	SuggestTags(ctx context.Context, description string) ([]string, error)
}

type TagService struct {
	logger *types.Logger
	model  tagModel
}

func NewTagService(logger *types.Logger, model tagModel) *TagService {
	return &TagService{
		logger: logger,
		model:  model,
	}
}

// Suggest asks the model for tags. Short descriptions are rejected before any
// model call and the model output is returned as is.
func (s *TagService) Suggest(ctx context.Context, req dto.TagRequest) (dto.TagSuggestions, error) {
	if !validator.TagDescription(req.Description, nil) {
		return dto.TagSuggestions{}, errorz.NewValidationError("description", shortDescriptionMessage)
	}
	if s.model == nil {
		return dto.TagSuggestions{}, errorz.ErrTagModelUnavailable
	}
	tags, err := s.model.SuggestTags(ctx, strings.TrimSpace(req.Description))
	if err != nil {
		s.logger.Errorf("tag suggestion failed: %v", err)
		return dto.TagSuggestions{}, err
	}
	if tags == nil {
		tags = []string{}
	}
	return dto.TagSuggestions{Tags: tags}, nil
}
