package chat

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"artnexus/internal/domain/auth"
	"artnexus/internal/domain/notification"
)

const maxBodyLength = 4000

// Collaborations is implemented by the collaboration service. IsCollaborator
// fails with a NotFound error when the collaboration does not exist.
type Collaborations interface {
	IsCollaborator(ctx context.Context, collabID, userID int64) (bool, error)
	Collaborators(ctx context.Context, collabID int64) ([]int64, error)
}

// UserLookup is implemented by auth.UserRepository
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
}

// Service handles chat business logic
type Service struct {
	db       *gorm.DB
	repo     Repository
	collab   Collaborations
	users    UserLookup
	notifier notification.Sink
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewService(db *gorm.DB, repo Repository, collab Collaborations, users UserLookup, notifier notification.Sink, log logrus.FieldLogger) *Service {
	return &Service{db: db, repo: repo, collab: collab, users: users, notifier: notifier, log: log, now: time.Now}
}

// ---- Collaboration threads ----

// SendInCollaboration appends to the project thread, creating it on first
// use. The sender must be on the roster.
func (s *Service) SendInCollaboration(ctx context.Context, senderID, collabID int64, body string) (*Message, error) {
	ok, err := s.collab.IsCollaborator(ctx, collabID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}
	body, err = cleanBody(body)
	if err != nil {
		return nil, err
	}

	members, err := s.collab.Collaborators(ctx, collabID)
	if err != nil {
		return nil, err
	}

	id := collabID
	return s.post(ctx, &Thread{
		Kind:            ThreadKindCollaboration,
		Key:             CollaborationKey(collabID),
		CollaborationID: &id,
		IsActive:        true,
	}, senderID, body, members...)
}

func (s *Service) GetCollaborationThread(ctx context.Context, requesterID, collabID int64, limit, offset int) (*ThreadView, error) {
	ok, err := s.collab.IsCollaborator(ctx, collabID, requesterID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}
	return s.view(ctx, CollaborationKey(collabID), limit, offset)
}

// DeleteCollaborationThread runs inside the collaboration delete transaction.
func (s *Service) DeleteCollaborationThread(ctx context.Context, tx *gorm.DB, collabID int64) error {
	return s.repo.WithTx(tx).DeleteThreadByKey(ctx, CollaborationKey(collabID))
}

// ---- Admin threads ----

// SendToAdmin appends to the artiste's admin channel. Every admin can read
// it.
func (s *Service) SendToAdmin(ctx context.Context, artisteID int64, body string) (*Message, error) {
	body, err := cleanBody(body)
	if err != nil {
		return nil, err
	}
	if err := s.requireArtiste(ctx, artisteID); err != nil {
		return nil, err
	}

	return s.post(ctx, adminThread(artisteID), artisteID, body, artisteID)
}

// ReplyToArtiste lets an admin write into an artiste's admin channel.
func (s *Service) ReplyToArtiste(ctx context.Context, adminID, artisteID int64, body string) (*Message, error) {
	body, err := cleanBody(body)
	if err != nil {
		return nil, err
	}
	if err := s.requireArtiste(ctx, artisteID); err != nil {
		return nil, err
	}

	msg, err := s.post(ctx, adminThread(artisteID), adminID, body, artisteID, adminID)
	if err != nil {
		return nil, err
	}

	notification.Emit(ctx, s.notifier, s.log, artisteID, notification.TypeAdminMessage,
		"You have a new message from the admin team.",
		map[string]any{"message_id": msg.ID})
	return msg, nil
}

func (s *Service) ListAdminThreads(ctx context.Context) ([]ThreadSummary, error) {
	threads, err := s.repo.ListThreadsByKind(ctx, ThreadKindAdmin)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(threads))
	for _, t := range threads {
		ids = append(ids, t.ID)
	}
	counts, err := s.repo.CountMessages(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ThreadSummary, 0, len(threads))
	for _, t := range threads {
		out = append(out, ThreadSummary{Thread: t, MessageCount: counts[t.ID]})
	}
	return out, nil
}

// GetAdminThread: admins may read any artiste's channel, an artiste only
// their own.
func (s *Service) GetAdminThread(ctx context.Context, requester auth.Identity, artisteID int64, limit, offset int) (*ThreadView, error) {
	switch requester.Role {
	case auth.RoleAdmin:
		if err := s.requireArtiste(ctx, artisteID); err != nil {
			return nil, err
		}
	case auth.RoleArtiste:
		if requester.UserID != artisteID {
			return nil, ErrNotParticipant
		}
	default:
		return nil, ErrNotParticipant
	}
	return s.view(ctx, AdminKey(artisteID), limit, offset)
}

// ---- helpers ----

func (s *Service) post(ctx context.Context, seed *Thread, senderID int64, body string, participants ...int64) (*Message, error) {
	msg := &Message{SenderID: senderID, Body: body, CreatedAt: s.now()}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		t, err := repo.GetOrCreateThread(ctx, seed)
		if err != nil {
			return err
		}
		if err := repo.AddParticipants(ctx, t.ID, participants...); err != nil {
			return err
		}
		msg.ThreadID = t.ID
		return repo.CreateMessage(ctx, msg)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("thread", seed.Key).WithField("sender_id", senderID).Debug("message posted")
	return msg, nil
}

func (s *Service) view(ctx context.Context, key string, limit, offset int) (*ThreadView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	v := &ThreadView{Key: key, Messages: []Message{}}
	t, err := s.repo.GetThreadByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return v, nil
	}
	v.Thread = t

	msgs, err := s.repo.GetMessages(ctx, t.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	v.Messages = msgs
	return v, nil
}

func (s *Service) requireArtiste(ctx context.Context, userID int64) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return ErrArtisteNotFound
		}
		return err
	}
	if u.Role != auth.RoleArtiste {
		return ErrArtisteNotFound
	}
	return nil
}

func adminThread(artisteID int64) *Thread {
	id := artisteID
	return &Thread{
		Kind:      ThreadKindAdmin,
		Key:       AdminKey(artisteID),
		ArtisteID: &id,
		IsActive:  true,
	}
}

func cleanBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(body) > maxBodyLength {
		return "", ErrMessageTooLong
	}
	return body, nil
}
