package chat

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles all DB operations for the chat domain
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// Threads
	GetOrCreateThread(ctx context.Context, t *Thread) (*Thread, error)
	GetThreadByKey(ctx context.Context, key string) (*Thread, error)
	ListThreadsByKind(ctx context.Context, kind ThreadKind) ([]Thread, error)
	CountMessages(ctx context.Context, threadIDs []string) (map[string]int64, error)
	DeleteThreadByKey(ctx context.Context, key string) error

	// Participants
	AddParticipants(ctx context.Context, threadID string, userIDs ...int64) error
	IsParticipant(ctx context.Context, threadID string, userID int64) (bool, error)

	// Messages
	CreateMessage(ctx context.Context, msg *Message) error
	GetMessages(ctx context.Context, threadID string, limit, offset int) ([]Message, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// GetOrCreateThread inserts t unless a thread with t.Key exists, then
// returns the stored row either way.
func (r *repository) GetOrCreateThread(ctx context.Context, t *Thread) (*Thread, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "thread_key"}}, DoNothing: true}).
		Omit(clause.Associations).
		Create(t).Error
	if err != nil {
		return nil, err
	}
	return r.GetThreadByKey(ctx, t.Key)
}

// GetThreadByKey returns nil, nil when the thread does not exist yet.
func (r *repository) GetThreadByKey(ctx context.Context, key string) (*Thread, error) {
	var t Thread
	err := r.db.WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at ASC") }).
		Where("thread_key = ?", key).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) ListThreadsByKind(ctx context.Context, kind ThreadKind) ([]Thread, error) {
	var threads []Thread
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("kind = ?", kind).
		Order("last_message_at DESC").
		Order("created_at DESC").
		Find(&threads).Error
	return threads, err
}

func (r *repository) CountMessages(ctx context.Context, threadIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(threadIDs))
	if len(threadIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ThreadID string
		N        int64
	}
	err := r.db.WithContext(ctx).
		Model(&Message{}).
		Select("thread_id, COUNT(*) AS n").
		Where("thread_id IN ?", threadIDs).
		Group("thread_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ThreadID] = row.N
	}
	return counts, nil
}

func (r *repository) DeleteThreadByKey(ctx context.Context, key string) error {
	t, err := r.GetThreadByKey(ctx, key)
	if err != nil || t == nil {
		return err
	}

	db := r.db.WithContext(ctx)
	if err := db.Where("thread_id = ?", t.ID).Delete(&Message{}).Error; err != nil {
		return err
	}
	if err := db.Where("thread_id = ?", t.ID).Delete(&Participant{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", t.ID).Delete(&Thread{}).Error
}

func (r *repository) AddParticipants(ctx context.Context, threadID string, userIDs ...int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]Participant, 0, len(userIDs))
	for _, uid := range userIDs {
		rows = append(rows, Participant{ThreadID: threadID, UserID: uid, JoinedAt: now})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "thread_id"}, {Name: "user_id"}}, DoNothing: true}).
		Create(&rows).Error
}

func (r *repository) IsParticipant(ctx context.Context, threadID string, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Participant{}).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateMessage(ctx context.Context, msg *Message) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(msg).Error; err != nil {
		return err
	}
	return db.Model(&Thread{}).
		Where("id = ?", msg.ThreadID).
		Update("last_message_at", msg.CreatedAt).Error
}

func (r *repository) GetMessages(ctx context.Context, threadID string, limit, offset int) ([]Message, error) {
	var msgs []Message
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).Offset(offset).
		Find(&msgs).Error
	return msgs, err
}
