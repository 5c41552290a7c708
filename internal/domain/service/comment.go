package service

import (
	"context"
	"strings"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/utils/validator"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
)

type CommentStorage interface {
	Get(ctx context.Context, id string) (*entity.Comment, error)
	GetByEvent(ctx context.Context, eventID string) ([]entity.Comment, error)
}

type commentNotifier interface {
	NotifyEventComment(ctx context.Context, event entity.Event, commenterName, commentText string) error
	SendCommentEmail(ctx context.Context, organizer entity.User, commenterName, commentText, eventTitle string) error
}

// CommentThread is a top-level comment with its replies, oldest first.
type CommentThread struct {
	entity.Comment
	Replies []entity.Comment `json:"replies"`
}

type CommentService struct {
	logger   *types.Logger
	storage  CommentStorage
	rows     rowWriter
	users    userGetter
	events   eventGetter
	notifier commentNotifier
}

func NewCommentService(
	logger *types.Logger,
	storage CommentStorage,
	rows rowWriter,
	users userGetter,
	events eventGetter,
	notifier commentNotifier,
) *CommentService {
	return &CommentService{
		logger:   logger,
		storage:  storage,
		rows:     rows,
		users:    users,
		events:   events,
		notifier: notifier,
	}
}

// Post adds a comment to a past event and lets the organizer know.
func (s *CommentService) Post(ctx context.Context, session dto.Session, eventID string, form dto.CommentForm) (*entity.Comment, error) {
	return s.create(ctx, session, eventID, nil, form)
}

// Reply answers an existing comment on the same event. Threads are one level
// deep: a reply to a reply is attached to the top-level comment.
func (s *CommentService) Reply(ctx context.Context, session dto.Session, parentID string, form dto.CommentForm) (*entity.Comment, error) {
	parent, err := s.storage.Get(ctx, parentID)
	if err != nil {
		return nil, err
	}
	rootID := parent.ID
	if parent.IsReply() {
		rootID = *parent.ParentID
	}
	return s.create(ctx, session, parent.EventID, &rootID, form)
}

func (s *CommentService) create(ctx context.Context, session dto.Session, eventID string, parentID *string, form dto.CommentForm) (*entity.Comment, error) {
	if session.Anonymous() {
		return nil, errorz.Unauthorized
	}
	if !validator.CommentContent(form.Content, nil) {
		return nil, errorz.NewValidationError("content", "Comment cannot be empty.")
	}
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsPast {
		return nil, errorz.ErrEventNotPast
	}
	user, err := s.users.Get(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	name := user.FullName()
	if name == "" {
		name = user.Email
	}
	comment := &entity.Comment{
		EventID:         event.ID,
		UserID:          user.ID,
		UserDisplayName: name,
		Content:         strings.TrimSpace(form.Content),
		ParentID:        parentID,
	}
	if err = s.rows.Create(ctx, comment); err != nil {
		return nil, err
	}

	if event.OrganizerID != "" && event.OrganizerID != user.ID {
		s.notifyOrganizer(context.WithoutCancel(ctx), *event, name, comment.Content)
	}
	return comment, nil
}

func (s *CommentService) notifyOrganizer(ctx context.Context, event entity.Event, name, content string) {
	if err := s.notifier.NotifyEventComment(ctx, event, name, content); err != nil {
		s.logger.Warnf("failed to notify organizer of event %s: %v", event.ID, err)
	}
	organizer, err := s.users.Get(ctx, event.OrganizerID)
	if err != nil {
		s.logger.Warnf("failed to load organizer %s: %v", event.OrganizerID, err)
		return
	}
	if err = s.notifier.SendCommentEmail(ctx, *organizer, name, content, event.Title); err != nil {
		s.logger.Warnf("failed to email organizer %s: %v", organizer.ID, err)
	}
}

// Like bumps the like counter. Any signed-in user may like any comment any
// number of times.
func (s *CommentService) Like(ctx context.Context, session dto.Session, id string) error {
	if session.Anonymous() {
		return errorz.Unauthorized
	}
	comment, err := s.storage.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.rows.Increment(ctx, comment, "likes", 1)
}

func (s *CommentService) Delete(ctx context.Context, session dto.Session, id string) error {
	comment, err := s.storage.Get(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != session.UserID && !session.IsAdmin() {
		return errorz.Forbidden
	}
	return s.rows.Delete(ctx, comment)
}

// Threads groups the comments of an event under their top-level comment.
// Replies whose parent is gone are dropped.
func (s *CommentService) Threads(ctx context.Context, eventID string) ([]CommentThread, error) {
	comments, err := s.storage.GetByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	threads := make([]CommentThread, 0, len(comments))
	index := map[string]int{}
	for _, c := range comments {
		if c.IsReply() {
			continue
		}
		index[c.ID] = len(threads)
		threads = append(threads, CommentThread{Comment: c, Replies: []entity.Comment{}})
	}
	for _, c := range comments {
		if !c.IsReply() {
			continue
		}
		if i, ok := index[*c.ParentID]; ok {
			threads[i].Replies = append(threads[i].Replies, c)
		}
	}
	return threads, nil
}
