package service

import (
	"context"
	"slices"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/utils/validator"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
	"github.com/lib/pq"
)

type ClubStorage interface {
	Get(ctx context.Context, id string) (*entity.Club, error)
	GetByStatus(ctx context.Context, status entity.ApprovalStatus) ([]entity.Club, error)
	GetByOrganizer(ctx context.Context, organizerID string) ([]entity.Club, error)
}

type ClubService struct {
	logger  *types.Logger
	storage ClubStorage
	users   userGetter
	rows    rowWriter
}

func NewClubService(logger *types.Logger, storage ClubStorage, users userGetter, rows rowWriter) *ClubService {
	return &ClubService{
		logger:  logger,
		storage: storage,
		users:   users,
		rows:    rows,
	}
}

// Request files a new club for admin approval.
func (s *ClubService) Request(ctx context.Context, session dto.Session, form dto.ClubRequest) (*entity.Club, error) {
	if session.Role != entity.ClubOrganizer && !session.IsAdmin() {
		return nil, errorz.Forbidden
	}
	if err := validator.Struct(form); err != nil {
		return nil, err
	}
	if !validator.ClubName(form.Name, nil) {
		return nil, errorz.NewValidationError("name", "must be 3 to 80 characters")
	}
	club := &entity.Club{
		Name:        form.Name,
		Description: form.Description,
		Logo:        form.Logo,
		OrganizerID: session.UserID,
		Status:      entity.StatusPending,
	}
	if err := s.rows.Create(ctx, club); err != nil {
		return nil, err
	}
	return club, nil
}

// SetStatus approves or rejects a club. Approval adds the club to its
// organizer's managed clubs.
func (s *ClubService) SetStatus(ctx context.Context, session dto.Session, clubID string, status entity.ApprovalStatus) error {
	if !session.IsAdmin() {
		return errorz.Forbidden
	}
	if !status.Valid() {
		return errorz.NewValidationError("status", "unknown status")
	}
	club, err := s.storage.Get(ctx, clubID)
	if err != nil {
		return err
	}
	if err = s.rows.Update(ctx, club, map[string]interface{}{"status": status}); err != nil {
		return err
	}
	if status != entity.StatusApproved {
		return nil
	}

	organizer, err := s.users.Get(ctx, club.OrganizerID)
	if err != nil {
		s.logger.Warnf("club %s approved but organizer %s not loaded: %v", club.ID, club.OrganizerID, err)
		return nil
	}
	if slices.Contains(organizer.ClubIDs, club.ID) {
		return nil
	}
	clubIDs := append(pq.StringArray{}, organizer.ClubIDs...)
	clubIDs = append(clubIDs, club.ID)
	if err = s.rows.Update(ctx, organizer, map[string]interface{}{"club_ids": clubIDs}); err != nil {
		s.logger.Warnf("failed to link club %s to organizer %s: %v", club.ID, organizer.ID, err)
	}
	return nil
}

func (s *ClubService) Get(ctx context.Context, id string) (*entity.Club, error) {
	return s.storage.Get(ctx, id)
}

// List returns clubs by status; only admins may see non-approved clubs.
func (s *ClubService) List(ctx context.Context, session dto.Session, status entity.ApprovalStatus) ([]entity.Club, error) {
	if status != entity.StatusApproved && !session.IsAdmin() {
		return nil, errorz.Forbidden
	}
	return s.storage.GetByStatus(ctx, status)
}

func (s *ClubService) ListPending(ctx context.Context, session dto.Session) ([]entity.Club, error) {
	return s.List(ctx, session, entity.StatusPending)
}

func (s *ClubService) ListMine(ctx context.Context, session dto.Session) ([]entity.Club, error) {
	return s.storage.GetByOrganizer(ctx, session.UserID)
}
