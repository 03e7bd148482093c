package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"artnexus/internal/database"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	UpdateArtisteProfile(ctx context.Context, p *ArtisteProfile) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user and, for artistes, the profile row in one
// transaction.
func (r *userRepository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile := u.ArtisteProfile
		u.ArtisteProfile = nil
		if err := tx.Create(u).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrEmailAlreadyExists
			}
			return fmt.Errorf("create user: %w", err)
		}

		if u.Role == RoleArtiste {
			if profile == nil {
				profile = &ArtisteProfile{}
			}
			profile.UserID = u.ID
			if err := tx.Create(profile).Error; err != nil {
				return fmt.Errorf("create artiste profile: %w", err)
			}
			u.ArtisteProfile = profile
		}
		return nil
	})
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Preload("ArtisteProfile").First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Preload("ArtisteProfile").Where("email = ?", normalizeEmail(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role Role) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Preload("ArtisteProfile").
		Where("role = ?", role).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

// UpdateArtisteProfile writes only the membership payload; the identity row
// is never touched.
func (r *userRepository) UpdateArtisteProfile(ctx context.Context, p *ArtisteProfile) error {
	res := r.db.WithContext(ctx).
		Model(&ArtisteProfile{}).
		Where("user_id = ?", p.UserID).
		Updates(map[string]any{
			"is_membership_paid": p.IsMembershipPaid,
			"membership_expiry":  p.MembershipExpiry,
		})
	if res.Error != nil {
		return fmt.Errorf("update artiste profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
