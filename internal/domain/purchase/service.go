package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"artnexus/internal/domain/catalog"
	"artnexus/internal/domain/notification"
	"artnexus/internal/domain/wallet"
	"artnexus/internal/pkg/metrics"
)

type Service struct {
	db       *gorm.DB
	repo     Repository
	arts     catalog.Repository
	ledger   Ledger
	notifier notification.Sink
	log      logrus.FieldLogger

	artLocks *keyedMutex
	now      func() time.Time
}

func NewService(db *gorm.DB, repo Repository, arts catalog.Repository, ledger Ledger, notifier notification.Sink, log logrus.FieldLogger) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		arts:     arts,
		ledger:   ledger,
		notifier: notifier,
		log:      log,
		artLocks: newKeyedMutex(),
		now:      time.Now,
	}
}

// BuyArt debits the buyer, records a pending purchase and takes the art off
// sale in one transaction. Checks run in order: art exists, art is approved
// and available, buyer is not the owner, buyer can pay.
func (s *Service) BuyArt(ctx context.Context, buyerID, artID int64) (*View, error) {
	unlock := s.artLocks.Lock(artID)
	defer unlock()

	var (
		p     *Purchase
		art   *catalog.Art
		debit *wallet.Transaction
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		arts := s.arts.WithTx(tx)

		var err error
		art, err = arts.GetForUpdate(ctx, artID)
		if err != nil {
			return err
		}
		if !art.Purchasable() {
			return ErrNotAvailable
		}
		if art.OwnerID == buyerID {
			return ErrOwnArt
		}

		_, debit, err = s.ledger.DebitForPurchase(tx, buyerID, art.Price, fmt.Sprintf("art:%d", artID))
		if err != nil {
			return err
		}

		p = &Purchase{
			BuyerID:      buyerID,
			ArtID:        artID,
			Price:        debit.Amount,
			PurchaseDate: s.now(),
			IsApproved:   false,
			Status:       StatusPending,
		}
		if err := s.repo.WithTx(tx).Create(ctx, p); err != nil {
			return err
		}

		if err := arts.SetAvailability(ctx, artID, false); err != nil {
			return err
		}
		art.IsAvailableForPurchase = false
		p.Art = art
		return nil
	})
	metrics.RecordPurchaseTransition("buy", err)
	if err != nil {
		return nil, err
	}
	wallet.RecordCommitted(debit)

	s.log.WithField("purchase_id", p.ID).
		WithField("art_id", artID).
		WithField("buyer_id", buyerID).
		WithField("price", p.Price.StringFixed(2)).
		Info("art purchased")

	notification.Emit(ctx, s.notifier, s.log, art.OwnerID, notification.TypeArtPurchased,
		notification.ArtPurchasedMessage(art.Title, p.Price),
		map[string]any{"purchase_id": p.ID, "art_id": artID, "buyer_id": buyerID})

	return s.committedView(ctx, p), nil
}

// ApprovePurchase is one-shot: a second call fails with ErrAlreadyApproved.
// The art owner is credited the price the buyer paid.
func (s *Service) ApprovePurchase(ctx context.Context, purchaseID, adminID int64) (*View, error) {
	var (
		p      *Purchase
		art    *catalog.Art
		credit *wallet.Transaction
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		p, err = repo.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if err := pendingOrErr(p); err != nil {
			return err
		}

		art, err = s.arts.WithTx(tx).GetForUpdate(ctx, p.ArtID)
		if err != nil {
			return err
		}

		now := s.now()
		if err := repo.MarkApproved(ctx, p.ID, adminID, now); err != nil {
			return err
		}
		p.IsApproved, p.Status, p.DecidedBy, p.ApprovedAt = true, StatusApproved, &adminID, &now
		p.Art = art

		_, credit, err = s.ledger.CreditForApproval(tx, art.OwnerID, p.Price, fmt.Sprintf("purchase:%d", p.ID))
		return err
	})
	metrics.RecordPurchaseTransition("approve", err)
	if err != nil {
		return nil, err
	}
	wallet.RecordCommitted(credit)

	s.log.WithField("purchase_id", purchaseID).
		WithField("admin_id", adminID).
		WithField("artiste_id", art.OwnerID).
		Info("purchase approved")

	data := map[string]any{"purchase_id": p.ID, "art_id": art.ID}
	notification.Emit(ctx, s.notifier, s.log, art.OwnerID, notification.TypePurchaseApproved,
		notification.PurchaseApprovedMessage(art.Title, p.Price), data)
	notification.Emit(ctx, s.notifier, s.log, p.BuyerID, notification.TypePurchaseConfirmed,
		notification.PurchaseConfirmedMessage(art.Title), data)

	return s.committedView(ctx, p), nil
}

// RejectPurchase refunds the buyer and puts the art back on sale.
func (s *Service) RejectPurchase(ctx context.Context, purchaseID, adminID int64) (*View, error) {
	var (
		p      *Purchase
		art    *catalog.Art
		refund *wallet.Transaction
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		arts := s.arts.WithTx(tx)

		var err error
		p, err = repo.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if err := pendingOrErr(p); err != nil {
			return err
		}

		art, err = arts.GetForUpdate(ctx, p.ArtID)
		if err != nil {
			return err
		}

		now := s.now()
		if err := repo.MarkRejected(ctx, p.ID, adminID, now); err != nil {
			return err
		}
		p.Status, p.DecidedBy, p.RejectedAt = StatusRejected, &adminID, &now

		_, refund, err = s.ledger.Refund(tx, p.BuyerID, p.Price, fmt.Sprintf("purchase:%d", p.ID))
		if err != nil {
			return err
		}

		if err := arts.SetAvailability(ctx, art.ID, true); err != nil {
			return err
		}
		art.IsAvailableForPurchase = true
		p.Art = art
		return nil
	})
	metrics.RecordPurchaseTransition("reject", err)
	if err != nil {
		return nil, err
	}
	wallet.RecordCommitted(refund)

	s.log.WithField("purchase_id", purchaseID).
		WithField("admin_id", adminID).
		Info("purchase rejected")

	notification.Emit(ctx, s.notifier, s.log, p.BuyerID, notification.TypePurchaseRejected,
		notification.PurchaseRejectedMessage(art.Title, p.Price),
		map[string]any{"purchase_id": p.ID, "art_id": art.ID})

	return s.committedView(ctx, p), nil
}

func (s *Service) ListMyPurchases(ctx context.Context, buyerID int64) ([]View, error) {
	ps, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	return NewViews(ps), nil
}

// GetPurchasedArt returns the buyer's latest purchase of artID.
func (s *Service) GetPurchasedArt(ctx context.Context, buyerID, artID int64) (*View, error) {
	p, err := s.repo.FindByBuyerAndArt(ctx, buyerID, artID)
	if err != nil {
		return nil, err
	}
	v := NewView(p)
	return &v, nil
}

func (s *Service) ListPurchases(ctx context.Context, status *Status) ([]View, error) {
	if status != nil && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	ps, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	return NewViews(ps), nil
}

func (s *Service) GetPurchase(ctx context.Context, id int64) (*View, error) {
	return s.view(ctx, id)
}

func (s *Service) view(ctx context.Context, id int64) (*View, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := NewView(p)
	return &v, nil
}

// committedView reloads p with its art enriched. The transition has already
// committed, so a failed reload falls back to the row as written.
func (s *Service) committedView(ctx context.Context, p *Purchase) *View {
	v, err := s.view(ctx, p.ID)
	if err != nil {
		s.log.WithError(err).WithField("purchase_id", p.ID).Warn("reload purchase after commit")
		fallback := NewView(p)
		return &fallback
	}
	return v
}

func pendingOrErr(p *Purchase) error {
	switch {
	case p.IsApproved || p.Status == StatusApproved:
		return ErrAlreadyApproved
	case p.Status == StatusRejected:
		return ErrAlreadyProcessed
	}
	return nil
}
