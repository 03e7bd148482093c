package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ThreadKind distinguishes project threads from artiste-to-admin threads
type ThreadKind string

const (
	ThreadKindCollaboration ThreadKind = "collaboration"
	ThreadKindAdmin         ThreadKind = "admin"
)

func CollaborationKey(collabID int64) string {
	return fmt.Sprintf("collab:%d", collabID)
}

func AdminKey(artisteID int64) string {
	return fmt.Sprintf("admin:%d", artisteID)
}

// Thread is created on first message. Key is unique per collaboration or
// per artiste admin channel.
type Thread struct {
	ID              string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	Kind            ThreadKind `gorm:"column:kind;size:20;not null;index" json:"kind"`
	Key             string     `gorm:"column:thread_key;size:64;not null;uniqueIndex" json:"key"`
	CollaborationID *int64     `gorm:"column:collaboration_id;index" json:"collaboration_id,omitempty"`
	ArtisteID       *int64     `gorm:"column:artiste_id;index" json:"artiste_id,omitempty"`
	IsActive        bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"created_at"`
	LastMessageAt   *time.Time `gorm:"column:last_message_at;index" json:"last_message_at,omitempty"`

	Participants []Participant `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
}

func (Thread) TableName() string { return "chat_threads" }

func (t *Thread) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Participant is a user attached to a thread
type Participant struct {
	ThreadID string    `gorm:"column:thread_id;primaryKey;size:36" json:"thread_id"`
	UserID   int64     `gorm:"column:user_id;primaryKey;autoIncrement:false;index" json:"user_id"`
	JoinedAt time.Time `gorm:"column:joined_at;not null" json:"joined_at"`
}

func (Participant) TableName() string { return "chat_thread_participants" }

// Message ids are UUIDv7, so id order breaks created_at ties chronologically.
type Message struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	ThreadID  string    `gorm:"column:thread_id;size:36;not null;index:idx_chat_messages_thread_created" json:"thread_id"`
	SenderID  int64     `gorm:"column:sender_id;not null;index" json:"sender_id"`
	Body      string    `gorm:"column:body;type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_chat_messages_thread_created" json:"created_at"`

	Thread *Thread `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Message) TableName() string { return "chat_messages" }

func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		m.ID = id.String()
	}
	return nil
}

// ThreadView is a thread with a page of its messages, oldest first. Thread
// is nil when nobody has written yet.
type ThreadView struct {
	Key      string    `json:"key"`
	Thread   *Thread   `json:"thread"`
	Messages []Message `json:"messages"`
}

// ThreadSummary is used in the admin inbox
type ThreadSummary struct {
	Thread
	MessageCount int64 `json:"message_count"`
}
