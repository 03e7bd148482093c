package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	EntryTopUp          = "TOPUP"
	EntryPurchaseDebit  = "PURCHASE_DEBIT"
	EntryApprovalCredit = "APPROVAL_CREDIT"
	EntryRefund         = "REFUND"
)

// Wallet stores a user's balance. Only this package writes Balance.
type Wallet struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    int64           `json:"user_id" gorm:"not null;uniqueIndex"`
	Balance   decimal.Decimal `json:"balance" gorm:"type:decimal(20,2);not null;default:0"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

func (w *Wallet) BeforeCreate(_ *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// Transaction is one ledger entry. Amount is always positive; Type says
// which direction it moved the balance.
type Transaction struct {
	ID           uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	WalletID     uuid.UUID       `json:"wallet_id" gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	BalanceAfter decimal.Decimal `json:"balance_after" gorm:"type:decimal(20,2);not null"`
	Type         string          `json:"type" gorm:"type:varchar(20);not null;index;check:type IN ('TOPUP','PURCHASE_DEBIT','APPROVAL_CREDIT','REFUND')"`
	Reference    string          `json:"reference,omitempty" gorm:"size:64;index"`
	CreatedAt    time.Time       `json:"created_at" gorm:"autoCreateTime"`

	Wallet *Wallet `json:"-" gorm:"foreignKey:WalletID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Transaction) TableName() string {
	return "wallet_transactions"
}

func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Credit reports whether the entry increased the balance.
func (t *Transaction) Credit() bool {
	return t.Type != EntryPurchaseDebit
}
