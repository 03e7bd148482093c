package notification

import (
	"context"
	"time"
)

// Type represents notification type
type Type string

const (
	TypeArtPurchased      Type = "art_purchased"      // artiste: someone bought their art
	TypePurchaseApproved  Type = "purchase_approved"  // artiste: sale approved, wallet credited
	TypePurchaseConfirmed Type = "purchase_confirmed" // buyer: their purchase was approved
	TypePurchaseRejected  Type = "purchase_rejected"  // buyer: rejected and refunded
	TypeArtApproved       Type = "art_approved"       // artiste: listing is live
	TypeAdminMessage      Type = "admin_message"      // artiste: admin replied
)

// Notification represents a user notification
type Notification struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	RecipientID int64      `gorm:"not null;index:idx_notifications_recipient_unread" json:"recipient_id"`
	Type        Type       `gorm:"type:varchar(40);not null" json:"type"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	Data        string     `gorm:"type:text" json:"data,omitempty"`
	IsRead      bool       `gorm:"not null;default:false;index:idx_notifications_recipient_unread" json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}

// TableName specifies table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// Sink is how workflows emit notifications. Callers log a failure and move
// on; a notification never undoes the write that triggered it.
type Sink interface {
	Notify(ctx context.Context, recipientID int64, t Type, message string, data map[string]any) error
}
