package purchase

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"artnexus/internal/domain/wallet"
)

// Ledger is the slice of wallet.Service the workflow moves money through.
// Every call runs inside the workflow's transaction.
type Ledger interface {
	DebitForPurchase(tx *gorm.DB, buyerID int64, amount decimal.Decimal, ref string) (*wallet.Wallet, *wallet.Transaction, error)
	CreditForApproval(tx *gorm.DB, artisteID int64, amount decimal.Decimal, ref string) (*wallet.Wallet, *wallet.Transaction, error)
	Refund(tx *gorm.DB, userID int64, amount decimal.Decimal, ref string) (*wallet.Wallet, *wallet.Transaction, error)
}
