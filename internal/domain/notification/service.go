package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"artnexus/internal/pkg/apperr"
	"artnexus/internal/pkg/metrics"
)

var ErrNotificationNotFound = apperr.New(apperr.NotFound, "notification not found")

type Service struct {
	repo Repository
	log  logrus.FieldLogger
}

func NewService(repo Repository, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, log: log}
}

// Notify stores one inbox entry. It implements Sink.
func (s *Service) Notify(ctx context.Context, recipientID int64, t Type, message string, data map[string]any) error {
	n := &Notification{
		RecipientID: recipientID,
		Type:        t,
		Message:     message,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode notification data: %w", err)
		}
		n.Data = string(raw)
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, recipientID int64, limit int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.ListByRecipient(ctx, recipientID, limit)
	if err != nil {
		return nil, 0, err
	}

	// the list is still useful without the badge count
	unread, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		s.log.WithError(err).WithField("recipient_id", recipientID).Warn("count unread notifications")
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, recipientID int64) error {
	ok, err := s.repo.MarkAsRead(ctx, notificationID, recipientID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *Service) MarkAllAsRead(ctx context.Context, recipientID int64) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}

// Emit sends through sink and only logs a failure. Workflows call it after
// their transaction has committed.
func Emit(ctx context.Context, sink Sink, log logrus.FieldLogger, recipientID int64, t Type, message string, data map[string]any) {
	if sink == nil {
		return
	}
	if err := sink.Notify(ctx, recipientID, t, message, data); err != nil {
		metrics.RecordNotificationFailure()
		log.WithError(err).
			WithField("recipient_id", recipientID).
			WithField("type", string(t)).
			Warn("notification dropped")
	}
}

func ArtPurchasedMessage(title string, price decimal.Decimal) string {
	return fmt.Sprintf("Your art %q was purchased for %s. The sale is awaiting admin approval.", title, price.StringFixed(2))
}

func PurchaseApprovedMessage(title string, price decimal.Decimal) string {
	return fmt.Sprintf("The purchase of %q was approved; %s was credited to your wallet.", title, price.StringFixed(2))
}

func PurchaseConfirmedMessage(title string) string {
	return fmt.Sprintf("Your purchase of %q was approved.", title)
}

func PurchaseRejectedMessage(title string, refund decimal.Decimal) string {
	return fmt.Sprintf("Your purchase of %q was rejected; %s was refunded to your wallet.", title, refund.StringFixed(2))
}
