package purchase

import (
	"time"

	"github.com/shopspring/decimal"

	"artnexus/internal/domain/auth"
	"artnexus/internal/domain/catalog"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Purchase moves pending -> approved or pending -> rejected, once.
// Price is the art price at buy time; it is what the buyer was debited and
// what approval credits or rejection refunds.
type Purchase struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	BuyerID      int64           `json:"buyer_id" gorm:"not null;index"`
	ArtID        int64           `json:"art_id" gorm:"not null;index"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	PurchaseDate time.Time       `json:"purchase_date" gorm:"not null"`
	IsApproved   bool            `json:"is_approved" gorm:"not null;default:false"`
	Status       Status          `json:"status" gorm:"type:varchar(20);not null;default:'pending';index;check:status IN ('pending','approved','rejected')"`
	DecidedBy    *int64          `json:"decided_by,omitempty"`
	ApprovedAt   *time.Time      `json:"approved_at,omitempty"`
	RejectedAt   *time.Time      `json:"rejected_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Buyer *auth.User   `json:"-" gorm:"foreignKey:BuyerID;constraint:OnDelete:RESTRICT"`
	Art   *catalog.Art `json:"-" gorm:"foreignKey:ArtID;constraint:OnDelete:RESTRICT"`
}

func (Purchase) TableName() string {
	return "purchases"
}

// View is a Purchase with its art enriched for listing.
type View struct {
	*Purchase
	Art *catalog.ArtView `json:"art,omitempty"`
}

func NewView(p *Purchase) View {
	v := View{Purchase: p}
	if p.Art != nil {
		av := catalog.NewArtView(p.Art)
		v.Art = &av
	}
	return v
}

func NewViews(ps []Purchase) []View {
	views := make([]View, 0, len(ps))
	for i := range ps {
		views = append(views, NewView(&ps[i]))
	}
	return views
}
