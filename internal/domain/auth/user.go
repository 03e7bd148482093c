package auth

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
	RoleArtiste Role = "artiste"
)

// ParseRole accepts only the three known roles.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleUser, RoleArtiste:
		return Role(s), true
	}
	return "", false
}

// HasWallet reports whether the role carries a wallet balance.
func (r Role) HasWallet() bool {
	return r == RoleUser || r == RoleArtiste
}

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:120;not null"`
	Email        string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	ArtisteProfile *ArtisteProfile `json:"artiste_profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeUpdate keeps the role tag immutable once the row exists.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("Role") {
		return ErrRoleImmutable
	}
	return nil
}

// ArtisteProfile is the payload only artistes carry.
type ArtisteProfile struct {
	UserID           int64      `json:"user_id" gorm:"primaryKey"`
	IsMembershipPaid bool       `json:"is_membership_paid" gorm:"not null;default:false"`
	MembershipExpiry *time.Time `json:"membership_expiry,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Variant is the role-specific view of a user. The method set is sealed,
// so a type switch over the three implementations is exhaustive.
type Variant interface {
	Role() Role
	variant()
}

type AdminVariant struct{}

type RegisteredVariant struct{}

type ArtisteVariant struct {
	Profile ArtisteProfile `json:"profile"`
}

func (AdminVariant) Role() Role      { return RoleAdmin }
func (RegisteredVariant) Role() Role { return RoleUser }
func (ArtisteVariant) Role() Role    { return RoleArtiste }

func (AdminVariant) variant()      {}
func (RegisteredVariant) variant() {}
func (ArtisteVariant) variant()    {}

// Variant resolves the payload for u's role tag. Artistes without a loaded
// profile get a zero profile.
func (u *User) Variant() (Variant, error) {
	switch u.Role {
	case RoleAdmin:
		return AdminVariant{}, nil
	case RoleUser:
		return RegisteredVariant{}, nil
	case RoleArtiste:
		v := ArtisteVariant{Profile: ArtisteProfile{UserID: u.ID}}
		if u.ArtisteProfile != nil {
			v.Profile = *u.ArtisteProfile
		}
		return v, nil
	default:
		return nil, ErrUnknownRole
	}
}

// Identity is what a verified credential resolves to.
type Identity struct {
	UserID int64
	Role   Role
}
