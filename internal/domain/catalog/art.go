package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"artnexus/internal/domain/auth"
)

type Country struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:100;not null;uniqueIndex"`
}

// ArtType is the art category (painting, sculpture, ...).
type ArtType struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:100;not null;uniqueIndex"`
}

// Art is a listing owned by one artiste. It can be bought only while
// IsApproved && IsAvailableForPurchase.
type Art struct {
	ID                     int64           `json:"id" gorm:"primaryKey"`
	Title                  string          `json:"title" gorm:"size:200;not null"`
	Price                  decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	Description            string          `json:"description" gorm:"size:500"`
	OwnerID                int64           `json:"owner_id" gorm:"not null;index"`
	CountryID              int64           `json:"country_id" gorm:"not null;index"`
	ArtTypeID              int64           `json:"art_type_id" gorm:"not null;index"`
	IsApproved             bool            `json:"is_approved" gorm:"not null;default:false;index"`
	ApprovedBy             *int64          `json:"approved_by,omitempty"`
	ApprovedAt             *time.Time      `json:"approved_at,omitempty"`
	IsAvailableForPurchase bool            `json:"is_available_for_purchase" gorm:"not null;default:true"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`

	Owner   *auth.User `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT"`
	Country *Country   `json:"-" gorm:"foreignKey:CountryID;constraint:OnDelete:RESTRICT"`
	ArtType *ArtType   `json:"-" gorm:"foreignKey:ArtTypeID;constraint:OnDelete:RESTRICT"`
}

func (Art) TableName() string {
	return "arts"
}

func (a *Art) Purchasable() bool {
	return a.IsApproved && a.IsAvailableForPurchase
}

type Summary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type OwnerSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ArtView is an Art with owner, country and type denormalized for listing.
type ArtView struct {
	*Art
	Owner   *OwnerSummary `json:"owner,omitempty"`
	Country *Summary      `json:"country,omitempty"`
	ArtType *Summary      `json:"art_type,omitempty"`
}

func NewArtView(a *Art) ArtView {
	v := ArtView{Art: a}
	if a.Owner != nil {
		v.Owner = &OwnerSummary{ID: a.Owner.ID, Name: a.Owner.Name, Email: a.Owner.Email}
	}
	if a.Country != nil {
		v.Country = &Summary{ID: a.Country.ID, Name: a.Country.Name}
	}
	if a.ArtType != nil {
		v.ArtType = &Summary{ID: a.ArtType.ID, Name: a.ArtType.Name}
	}
	return v
}

type Filter struct {
	CountryID  *int64
	ArtTypeID  *int64
	OwnerID    *int64
	IsApproved *bool
	Available  *bool
}

type CreateArtInput struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Price       decimal.Decimal `json:"price" validate:"required,gt=0"`
	Description string          `json:"description" validate:"max=500"`
	CountryID   int64           `json:"country_id" validate:"required"`
	ArtTypeID   int64           `json:"art_type_id" validate:"required"`
}

// UpdateArtInput is a patch: nil fields are left alone. Approval is not
// patchable.
type UpdateArtInput struct {
	Title                  *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Price                  *decimal.Decimal `json:"price" validate:"omitempty,gt=0"`
	Description            *string          `json:"description" validate:"omitempty,max=500"`
	CountryID              *int64           `json:"country_id"`
	ArtTypeID              *int64           `json:"art_type_id"`
	IsAvailableForPurchase *bool            `json:"is_available_for_purchase"`
}
