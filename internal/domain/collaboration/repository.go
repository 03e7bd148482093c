package collaboration

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

	Create(ctx context.Context, c *Collaboration) error
	GetByID(ctx context.Context, id int64) (*Collaboration, error)
	GetForUpdate(ctx context.Context, id int64) (*Collaboration, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Collaboration, error)
	ListByMember(ctx context.Context, userID int64) ([]Collaboration, error)
	CountByMember(ctx context.Context, userID int64) (int64, error)

	// AddMember reports false when userID was already on the roster.
	AddMember(ctx context.Context, collabID, userID int64, at time.Time) (bool, error)
	IsMember(ctx context.Context, collabID, userID int64) (bool, error)
	MemberIDs(ctx context.Context, collabID int64) ([]int64, error)
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

func (r *repository) Create(ctx context.Context, c *Collaboration) error {
	c.Members = nil
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		return fmt.Errorf("create collaboration: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Collaboration, error) {
	var c Collaboration
	err := r.withMembers(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCollaborationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get collaboration %d: %w", id, err)
	}
	return &c, nil
}

func (r *repository) GetForUpdate(ctx context.Context, id int64) (*Collaboration, error) {
	var c Collaboration
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCollaborationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock collaboration %d: %w", id, err)
	}
	return &c, nil
}

func (r *repository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&Collaboration{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update collaboration %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCollaborationNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("collaboration_id = ?", id).Delete(&Member{}).Error; err != nil {
		return fmt.Errorf("delete members of collaboration %d: %w", id, err)
	}
	res := db.Delete(&Collaboration{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete collaboration %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCollaborationNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]Collaboration, error) {
	var list []Collaboration
	if err := r.withMembers(ctx).Order("created_at DESC").Order("id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list collaborations: %w", err)
	}
	return list, nil
}

func (r *repository) ListByMember(ctx context.Context, userID int64) ([]Collaboration, error) {
	var list []Collaboration
	err := r.withMembers(ctx).
		Where("id IN (?)", r.db.Model(&Member{}).Select("collaboration_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list collaborations for user %d: %w", userID, err)
	}
	return list, nil
}

func (r *repository) CountByMember(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Member{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *repository) AddMember(ctx context.Context, collabID, userID int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collaboration_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Omit(clause.Associations).
		Create(&Member{CollaborationID: collabID, UserID: userID, JoinedAt: at})
	if res.Error != nil {
		return false, fmt.Errorf("add member %d to collaboration %d: %w", userID, collabID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) IsMember(ctx context.Context, collabID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Member{}).
		Where("collaboration_id = ? AND user_id = ?", collabID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) MemberIDs(ctx context.Context, collabID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&Member{}).
		Where("collaboration_id = ?", collabID).
		Order("joined_at ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *repository) withMembers(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Preload("Members.User")
}
