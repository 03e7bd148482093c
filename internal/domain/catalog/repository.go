package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// WithTx returns a Repository bound to tx.
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, art *Art) error
	GetByID(ctx context.Context, id int64) (*Art, error)
	GetForUpdate(ctx context.Context, id int64) (*Art, error)
	List(ctx context.Context, f Filter) ([]Art, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	SetAvailability(ctx context.Context, id int64, available bool) error
	// Approve flips is_approved and reports whether this call changed it.
	Approve(ctx context.Context, id, adminID int64, at time.Time) (bool, error)

	CountryExists(ctx context.Context, id int64) (bool, error)
	ArtTypeExists(ctx context.Context, id int64) (bool, error)
	ListCountries(ctx context.Context) ([]Country, error)
	ListArtTypes(ctx context.Context) ([]ArtType, error)
}

type artRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &artRepository{db: db}
}

func (r *artRepository) WithTx(tx *gorm.DB) Repository {
	return &artRepository{db: tx}
}

func (r *artRepository) Create(ctx context.Context, art *Art) error {
	return r.db.WithContext(ctx).Create(art).Error
}

func (r *artRepository) GetByID(ctx context.Context, id int64) (*Art, error) {
	var art Art
	err := r.enriched(ctx).First(&art, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get art %d: %w", id, err)
	}
	return &art, nil
}

func (r *artRepository) GetForUpdate(ctx context.Context, id int64) (*Art, error) {
	var art Art
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&art, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock art %d: %w", id, err)
	}
	return &art, nil
}

func (r *artRepository) List(ctx context.Context, f Filter) ([]Art, error) {
	q := r.enriched(ctx)

	if f.CountryID != nil {
		q = q.Where("country_id = ?", *f.CountryID)
	}
	if f.ArtTypeID != nil {
		q = q.Where("art_type_id = ?", *f.ArtTypeID)
	}
	if f.OwnerID != nil {
		q = q.Where("owner_id = ?", *f.OwnerID)
	}
	if f.IsApproved != nil {
		q = q.Where("is_approved = ?", *f.IsApproved)
	}
	if f.Available != nil {
		q = q.Where("is_available_for_purchase = ?", *f.Available)
	}

	var arts []Art
	if err := q.Order("created_at DESC").Order("id DESC").Find(&arts).Error; err != nil {
		return nil, fmt.Errorf("list arts: %w", err)
	}
	return arts, nil
}

func (r *artRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Art{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *artRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&Art{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update art %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrArtNotFound
	}
	return nil
}

func (r *artRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Art{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete art %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrArtNotFound
	}
	return nil
}

func (r *artRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	return r.Update(ctx, id, map[string]interface{}{"is_available_for_purchase": available})
}

func (r *artRepository) Approve(ctx context.Context, id, adminID int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Art{}).
		Where("id = ? AND is_approved = ?", id, false).
		Updates(map[string]interface{}{
			"is_approved": true,
			"approved_by": adminID,
			"approved_at": at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("approve art %d: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&Art{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check art %d: %w", id, err)
	}
	if count == 0 {
		return false, ErrArtNotFound
	}
	return false, nil
}

func (r *artRepository) CountryExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Country{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *artRepository) ArtTypeExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ArtType{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *artRepository) ListCountries(ctx context.Context) ([]Country, error) {
	var countries []Country
	err := r.db.WithContext(ctx).Order("name ASC").Find(&countries).Error
	return countries, err
}

func (r *artRepository) ListArtTypes(ctx context.Context) ([]ArtType, error) {
	var types []ArtType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error
	return types, err
}

func (r *artRepository) enriched(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Country").
		Preload("ArtType")
}
