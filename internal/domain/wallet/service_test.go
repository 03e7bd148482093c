package wallet

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"artnexus/internal/database"
	"artnexus/internal/pkg/logging"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:wallet_test_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn, database.Silent())
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&Wallet{}, &Transaction{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewService(db, logging.Discard())
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestGetOrCreateWalletCreatesOnFirstRequest(t *testing.T) {
	svc := setupTestService(t)

	wallet, err := svc.GetOrCreateWallet(context.Background(), 1001)
	if err != nil {
		t.Fatalf("GetOrCreateWallet returned error: %v", err)
	}
	if !wallet.Balance.IsZero() {
		t.Fatalf("expected zero initial balance, got %s", wallet.Balance)
	}

	again, err := svc.GetOrCreateWallet(context.Background(), 1001)
	if err != nil {
		t.Fatalf("GetOrCreateWallet second call returned error: %v", err)
	}
	if wallet.ID != again.ID {
		t.Fatalf("expected same wallet id, got %s and %s", wallet.ID, again.ID)
	}
}

func TestTopUpAndDebitFlow(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	wallet, addTxn, err := svc.TopUp(ctx, 101, dec(150))
	if err != nil {
		t.Fatalf("TopUp returned error: %v", err)
	}
	if !wallet.Balance.Equal(dec(150)) {
		t.Fatalf("expected balance 150, got %s", wallet.Balance)
	}
	if addTxn.Type != EntryTopUp {
		t.Fatalf("expected txn type %s, got %s", EntryTopUp, addTxn.Type)
	}

	var debit *Transaction
	err = svc.db.Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, debit, err = svc.DebitForPurchase(tx, 101, dec(100), "purchase:1")
		return err
	})
	if err != nil {
		t.Fatalf("DebitForPurchase returned error: %v", err)
	}
	if !wallet.Balance.Equal(dec(50)) {
		t.Fatalf("expected balance 50, got %s", wallet.Balance)
	}
	if debit.Type != EntryPurchaseDebit || debit.Credit() || !debit.BalanceAfter.Equal(dec(50)) {
		t.Fatalf("unexpected debit entry: %+v", debit)
	}

	txns, err := svc.ListTransactions(ctx, 101)
	if err != nil {
		t.Fatalf("ListTransactions returned error: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
}

func TestTopUpRejectsNonPositiveAmount(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, _, err := svc.TopUp(ctx, 7, dec(20)); err != nil {
		t.Fatalf("TopUp returned error: %v", err)
	}

	for _, amount := range []decimal.Decimal{dec(-5), decimal.Zero, decimal.RequireFromString("0.001")} {
		if _, _, err := svc.TopUp(ctx, 7, amount); err != ErrInvalidAmount {
			t.Fatalf("TopUp(%s): expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	balance, err := svc.Balance(ctx, 7)
	if err != nil {
		t.Fatalf("Balance returned error: %v", err)
	}
	if !balance.Equal(dec(20)) {
		t.Fatalf("expected balance unchanged at 20, got %s", balance)
	}
}

func TestDebitInsufficientFundsLeavesBalance(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, _, err := svc.TopUp(ctx, 9, dec(30)); err != nil {
		t.Fatalf("TopUp returned error: %v", err)
	}

	err := svc.db.Transaction(func(tx *gorm.DB) error {
		_, _, err := svc.DebitForPurchase(tx, 9, dec(31), "purchase:2")
		return err
	})
	if err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balance, _ := svc.Balance(ctx, 9)
	if !balance.Equal(dec(30)) {
		t.Fatalf("expected balance 30, got %s", balance)
	}
	txns, _ := svc.ListTransactions(ctx, 9)
	if len(txns) != 1 {
		t.Fatalf("expected only the top-up entry, got %d", len(txns))
	}
}

func TestCreditRollsBackWithCallerTransaction(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	boom := fmt.Errorf("later step failed")
	err := svc.db.Transaction(func(tx *gorm.DB) error {
		if _, _, err := svc.CreditForApproval(tx, 11, dec(100), "purchase:3"); err != nil {
			return err
		}
		return boom
	})
	if err != boom {
		t.Fatalf("expected caller error, got %v", err)
	}

	balance, _ := svc.Balance(ctx, 11)
	if !balance.IsZero() {
		t.Fatalf("expected rolled back credit, got %s", balance)
	}
}

func TestRefundCreditsBalance(t *testing.T) {
	svc := setupTestService(t)

	var wallet *Wallet
	err := svc.db.Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, _, err = svc.Refund(tx, 12, decimal.RequireFromString("12.345"), "purchase:4")
		return err
	})
	if err != nil {
		t.Fatalf("Refund returned error: %v", err)
	}
	if !wallet.Balance.Equal(decimal.RequireFromString("12.35")) {
		t.Fatalf("expected rounded balance 12.35, got %s", wallet.Balance)
	}
}
