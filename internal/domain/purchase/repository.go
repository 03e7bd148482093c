package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, p *Purchase) error
	GetByID(ctx context.Context, id int64) (*Purchase, error)
	GetForUpdate(ctx context.Context, id int64) (*Purchase, error)
	MarkApproved(ctx context.Context, id, adminID int64, at time.Time) error
	MarkRejected(ctx context.Context, id, adminID int64, at time.Time) error
	ListByBuyer(ctx context.Context, buyerID int64) ([]Purchase, error)
	FindByBuyerAndArt(ctx context.Context, buyerID, artID int64) (*Purchase, error)
	List(ctx context.Context, status *Status) ([]Purchase, error)

	// HasPurchasesForArt runs on tx when given, so catalog can check inside
	// its delete transaction.
	HasPurchasesForArt(ctx context.Context, tx *gorm.DB, artID int64) (bool, error)
	// HasOpenPurchasesForArt ignores rejected purchases.
	HasOpenPurchasesForArt(ctx context.Context, tx *gorm.DB, artID int64) (bool, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) WithTx(tx *gorm.DB) Repository {
	return &purchaseRepository{db: tx}
}

func (r *purchaseRepository) Create(ctx context.Context, p *Purchase) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

func (r *purchaseRepository) GetByID(ctx context.Context, id int64) (*Purchase, error) {
	var p Purchase
	err := r.enriched(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get purchase %d: %w", id, err)
	}
	return &p, nil
}

func (r *purchaseRepository) GetForUpdate(ctx context.Context, id int64) (*Purchase, error) {
	var p Purchase
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock purchase %d: %w", id, err)
	}
	return &p, nil
}

func (r *purchaseRepository) MarkApproved(ctx context.Context, id, adminID int64, at time.Time) error {
	return r.transition(ctx, id, map[string]interface{}{
		"is_approved": true,
		"status":      StatusApproved,
		"decided_by":  adminID,
		"approved_at": at,
	})
}

func (r *purchaseRepository) MarkRejected(ctx context.Context, id, adminID int64, at time.Time) error {
	return r.transition(ctx, id, map[string]interface{}{
		"status":      StatusRejected,
		"decided_by":  adminID,
		"rejected_at": at,
	})
}

// transition only moves a pending row; the caller holds its lock.
func (r *purchaseRepository) transition(ctx context.Context, id int64, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Purchase{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update purchase %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("purchase %d is no longer pending", id)
	}
	return nil
}

func (r *purchaseRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]Purchase, error) {
	var ps []Purchase
	if err := r.enriched(ctx).Where("buyer_id = ?", buyerID).Order("purchase_date DESC").Order("id DESC").Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("list purchases for buyer %d: %w", buyerID, err)
	}
	return ps, nil
}

func (r *purchaseRepository) FindByBuyerAndArt(ctx context.Context, buyerID, artID int64) (*Purchase, error) {
	var p Purchase
	err := r.enriched(ctx).
		Where("buyer_id = ? AND art_id = ?", buyerID, artID).
		Order("id DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find purchase: %w", err)
	}
	return &p, nil
}

func (r *purchaseRepository) List(ctx context.Context, status *Status) ([]Purchase, error) {
	q := r.enriched(ctx)
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var ps []Purchase
	if err := q.Order("purchase_date DESC").Order("id DESC").Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return ps, nil
}

func (r *purchaseRepository) HasPurchasesForArt(ctx context.Context, tx *gorm.DB, artID int64) (bool, error) {
	db := r.db
	if tx != nil {
		db = tx
	}

	var count int64
	if err := db.WithContext(ctx).Model(&Purchase{}).Where("art_id = ?", artID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *purchaseRepository) HasOpenPurchasesForArt(ctx context.Context, tx *gorm.DB, artID int64) (bool, error) {
	db := r.db
	if tx != nil {
		db = tx
	}

	var count int64
	err := db.WithContext(ctx).Model(&Purchase{}).
		Where("art_id = ? AND status IN ?", artID, []Status{StatusPending, StatusApproved}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *purchaseRepository) enriched(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Art").
		Preload("Art.Owner").
		Preload("Art.Country").
		Preload("Art.ArtType")
}
