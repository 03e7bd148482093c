package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"artnexus/internal/database"
	"artnexus/internal/pkg/metrics"
)

// Service is the ledger: the only code path that changes a balance. The
// *gorm.DB-taking methods run inside the caller's transaction so the balance
// change commits or rolls back with the event that caused it.
type Service struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewService(db *gorm.DB, log logrus.FieldLogger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) GetOrCreateWallet(ctx context.Context, userID int64) (*Wallet, error) {
	wallet, err := s.getWalletByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = &Wallet{UserID: userID, Balance: decimal.Zero}
	if err := s.db.WithContext(ctx).Create(wallet).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return s.getWalletByUserID(ctx, userID)
		}
		return nil, err
	}
	return wallet, nil
}

func (s *Service) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}

// TopUp is a trusted direct credit; there is no payment processor behind it.
func (s *Service) TopUp(ctx context.Context, userID int64, amount decimal.Decimal) (*Wallet, *Transaction, error) {
	var wallet *Wallet
	var txn *Transaction

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, txn, err = s.apply(tx, userID, amount, EntryTopUp, "")
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	RecordCommitted(txn)
	s.log.WithField("user_id", userID).WithField("amount", txn.Amount.StringFixed(2)).Info("wallet topped up")
	return wallet, txn, nil
}

// DebitForPurchase fails with ErrInsufficientFunds, leaving the balance
// untouched, when the buyer cannot cover amount.
func (s *Service) DebitForPurchase(tx *gorm.DB, buyerID int64, amount decimal.Decimal, ref string) (*Wallet, *Transaction, error) {
	return s.apply(tx, buyerID, amount, EntryPurchaseDebit, ref)
}

func (s *Service) CreditForApproval(tx *gorm.DB, artisteID int64, amount decimal.Decimal, ref string) (*Wallet, *Transaction, error) {
	return s.apply(tx, artisteID, amount, EntryApprovalCredit, ref)
}

func (s *Service) Refund(tx *gorm.DB, userID int64, amount decimal.Decimal, ref string) (*Wallet, *Transaction, error) {
	return s.apply(tx, userID, amount, EntryRefund, ref)
}

func (s *Service) ListTransactions(ctx context.Context, userID int64) ([]Transaction, error) {
	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	var txns []Transaction
	if err := s.db.WithContext(ctx).Where("wallet_id = ?", wallet.ID).Order("created_at desc").Find(&txns).Error; err != nil {
		return nil, err
	}

	return txns, nil
}

// RecordCommitted counts ledger entries once their transaction committed.
func RecordCommitted(entries ...*Transaction) {
	for _, e := range entries {
		if e != nil {
			metrics.RecordWalletOperation(e.Type)
		}
	}
}

func (s *Service) apply(tx *gorm.DB, userID int64, amount decimal.Decimal, entryType, ref string) (*Wallet, *Transaction, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	var wallet Wallet
	if err := getOrCreateWalletForUpdate(tx, userID, &wallet); err != nil {
		return nil, nil, fmt.Errorf("lock wallet for user %d: %w", userID, err)
	}

	next := wallet.Balance.Add(amount)
	if entryType == EntryPurchaseDebit {
		if wallet.Balance.LessThan(amount) {
			return nil, nil, ErrInsufficientFunds
		}
		next = wallet.Balance.Sub(amount)
	}

	if err := tx.Model(&Wallet{}).Where("id = ?", wallet.ID).Update("balance", next).Error; err != nil {
		return nil, nil, fmt.Errorf("update balance: %w", err)
	}
	wallet.Balance = next

	txn := &Transaction{WalletID: wallet.ID, Amount: amount, BalanceAfter: next, Type: entryType, Reference: ref}
	if err := tx.Create(txn).Error; err != nil {
		return nil, nil, fmt.Errorf("record %s: %w", entryType, err)
	}
	return &wallet, txn, nil
}

func (s *Service) getWalletByUserID(ctx context.Context, userID int64) (*Wallet, error) {
	var wallet Wallet
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func getOrCreateWalletForUpdate(tx *gorm.DB, userID int64, wallet *Wallet) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(wallet).Error
	if err == nil || !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// ON CONFLICT keeps a concurrent first-create from aborting the
	// surrounding postgres transaction.
	*wallet = Wallet{UserID: userID, Balance: decimal.Zero}
	res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).Create(wallet)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(wallet).Error
	}
	return nil
}
