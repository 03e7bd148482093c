package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"artnexus/internal/domain/auth"
	"artnexus/internal/domain/notification"
	"artnexus/internal/pkg/validator"
)

// UserLookup is the part of auth.UserRepository the catalog needs.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
}

// PurchaseChecker reports whether an art is referenced by any purchase, or
// by one that is still pending or approved. tx is the caller's transaction.
type PurchaseChecker interface {
	HasPurchasesForArt(ctx context.Context, tx *gorm.DB, artID int64) (bool, error)
	HasOpenPurchasesForArt(ctx context.Context, tx *gorm.DB, artID int64) (bool, error)
}

type Service struct {
	db        *gorm.DB
	repo      Repository
	users     UserLookup
	purchases PurchaseChecker
	notifier  notification.Sink
	log       logrus.FieldLogger
}

func NewService(db *gorm.DB, repo Repository, users UserLookup, purchases PurchaseChecker, notifier notification.Sink, log logrus.FieldLogger) *Service {
	return &Service{
		db:        db,
		repo:      repo,
		users:     users,
		purchases: purchases,
		notifier:  notifier,
		log:       log,
	}
}

func (s *Service) CreateArt(ctx context.Context, ownerID int64, in CreateArtInput) (*ArtView, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, ErrEmptyTitle
	}
	if !in.Price.IsPositive() {
		return nil, ErrNonPositivePrice
	}
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}
	if owner.Role != auth.RoleArtiste {
		return nil, ErrOwnerNotFound
	}
	if err := s.checkRefs(ctx, &in.CountryID, &in.ArtTypeID); err != nil {
		return nil, err
	}

	art := &Art{
		Title:                  in.Title,
		Price:                  in.Price.Round(2),
		Description:            in.Description,
		OwnerID:                ownerID,
		CountryID:              in.CountryID,
		ArtTypeID:              in.ArtTypeID,
		IsApproved:             false,
		IsAvailableForPurchase: true,
	}
	if err := s.repo.Create(ctx, art); err != nil {
		return nil, fmt.Errorf("create art: %w", err)
	}

	s.log.WithField("art_id", art.ID).WithField("owner_id", ownerID).Info("art created")
	return s.view(ctx, art.ID)
}

func (s *Service) UpdateArt(ctx context.Context, artID, requesterID int64, in UpdateArtInput) (*ArtView, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		fields["title"] = title
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, ErrNonPositivePrice
		}
		fields["price"] = in.Price.Round(2)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if err := s.checkRefs(ctx, in.CountryID, in.ArtTypeID); err != nil {
		return nil, err
	}
	if in.CountryID != nil {
		fields["country_id"] = *in.CountryID
	}
	if in.ArtTypeID != nil {
		fields["art_type_id"] = *in.ArtTypeID
	}
	if in.IsAvailableForPurchase != nil {
		fields["is_available_for_purchase"] = *in.IsAvailableForPurchase
	}

	// Relisting takes the same row lock as BuyArt, so a sale cannot slip in
	// between the purchase check and the write.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		art, err := repo.GetForUpdate(ctx, artID)
		if err != nil {
			return err
		}
		if art.OwnerID != requesterID {
			return ErrNotArtOwner
		}

		if in.IsAvailableForPurchase != nil && *in.IsAvailableForPurchase && s.purchases != nil {
			open, err := s.purchases.HasOpenPurchasesForArt(ctx, tx, artID)
			if err != nil {
				return fmt.Errorf("check open purchases for art %d: %w", artID, err)
			}
			if open {
				return ErrArtSold
			}
		}

		return repo.Update(ctx, artID, fields)
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, artID)
}

// DeleteArt removes an art that no purchase references. The purchase check
// and the delete share a transaction holding the art row lock, which is the
// same lock BuyArt takes.
func (s *Service) DeleteArt(ctx context.Context, artID, requesterID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		art, err := repo.GetForUpdate(ctx, artID)
		if err != nil {
			return err
		}
		if art.OwnerID != requesterID {
			return ErrNotArtOwner
		}

		if s.purchases != nil {
			has, err := s.purchases.HasPurchasesForArt(ctx, tx, artID)
			if err != nil {
				return fmt.Errorf("check purchases for art %d: %w", artID, err)
			}
			if has {
				return ErrArtHasPurchases
			}
		}

		return repo.Delete(ctx, artID)
	})
	if err != nil {
		return err
	}

	s.log.WithField("art_id", artID).WithField("owner_id", requesterID).Info("art deleted")
	return nil
}

// ApproveArt is idempotent: approving an approved art returns it unchanged
// and notifies nobody.
func (s *Service) ApproveArt(ctx context.Context, artID, adminID int64) (*ArtView, error) {
	changed, err := s.repo.Approve(ctx, artID, adminID, time.Now())
	if err != nil {
		return nil, err
	}

	v, err := s.view(ctx, artID)
	if err != nil {
		return nil, err
	}

	if changed {
		s.log.WithField("art_id", artID).WithField("admin_id", adminID).Info("art approved")
		notification.Emit(ctx, s.notifier, s.log, v.OwnerID, notification.TypeArtApproved,
			fmt.Sprintf("Your art %q was approved and is now listed.", v.Title),
			map[string]any{"art_id": artID})
	}
	return v, nil
}

func (s *Service) GetArt(ctx context.Context, artID int64) (*ArtView, error) {
	return s.view(ctx, artID)
}

// GetApprovedArt hides unapproved art from visitors.
func (s *Service) GetApprovedArt(ctx context.Context, artID int64) (*ArtView, error) {
	v, err := s.view(ctx, artID)
	if err != nil {
		return nil, err
	}
	if !v.IsApproved {
		return nil, ErrArtNotFound
	}
	return v, nil
}

func (s *Service) ListArts(ctx context.Context, f Filter) ([]ArtView, error) {
	arts, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	views := make([]ArtView, 0, len(arts))
	for i := range arts {
		views = append(views, NewArtView(&arts[i]))
	}
	return views, nil
}

// ListApprovedArtsByCountryAndType backs the visitor browse route.
func (s *Service) ListApprovedArtsByCountryAndType(ctx context.Context, countryID, artTypeID int64) ([]ArtView, error) {
	if err := s.checkRefs(ctx, &countryID, &artTypeID); err != nil {
		return nil, err
	}
	approved := true
	return s.ListArts(ctx, Filter{CountryID: &countryID, ArtTypeID: &artTypeID, IsApproved: &approved})
}

func (s *Service) ListCountries(ctx context.Context) ([]Country, error) {
	return s.repo.ListCountries(ctx)
}

func (s *Service) ListArtTypes(ctx context.Context) ([]ArtType, error) {
	return s.repo.ListArtTypes(ctx)
}

func (s *Service) checkRefs(ctx context.Context, countryID, artTypeID *int64) error {
	if countryID != nil {
		ok, err := s.repo.CountryExists(ctx, *countryID)
		if err != nil {
			return fmt.Errorf("check country: %w", err)
		}
		if !ok {
			return ErrCountryNotFound
		}
	}
	if artTypeID != nil {
		ok, err := s.repo.ArtTypeExists(ctx, *artTypeID)
		if err != nil {
			return fmt.Errorf("check art type: %w", err)
		}
		if !ok {
			return ErrArtTypeNotFound
		}
	}
	return nil
}

func (s *Service) view(ctx context.Context, artID int64) (*ArtView, error) {
	art, err := s.repo.GetByID(ctx, artID)
	if err != nil {
		return nil, err
	}
	v := NewArtView(art)
	return &v, nil
}
