package purchase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"artnexus/internal/database"
	"artnexus/internal/domain/auth"
	"artnexus/internal/domain/catalog"
	"artnexus/internal/domain/notification"
	"artnexus/internal/domain/wallet"
	"artnexus/internal/pkg/apperr"
	"artnexus/internal/pkg/logging"
)

type env struct {
	db       *gorm.DB
	svc      *Service
	wallets  *wallet.Service
	notifier *notification.Service
	artiste  *auth.User
	buyer    *auth.User
	country  *catalog.Country
	artType  *catalog.ArtType
}

func setup(t *testing.T) *env {
	t.Helper()
	dsn := fmt.Sprintf("file:purchase_test_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn, database.Silent())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&auth.User{}, &auth.ArtisteProfile{},
		&catalog.Country{}, &catalog.ArtType{}, &catalog.Art{},
		&Purchase{},
		&wallet.Wallet{}, &wallet.Transaction{},
		&notification.Notification{},
	))

	log := logging.Discard()
	e := &env{
		db:       db,
		wallets:  wallet.NewService(db, log),
		notifier: notification.NewService(notification.NewRepository(db), log),
		artiste:  newUser(t, db, "Frida", auth.RoleArtiste),
		buyer:    newUser(t, db, "Bob", auth.RoleUser),
		country:  &catalog.Country{Name: "Mexico"},
		artType:  &catalog.ArtType{Name: "Painting"},
	}
	require.NoError(t, db.Create(e.country).Error)
	require.NoError(t, db.Create(e.artType).Error)

	e.svc = NewService(db, NewRepository(db), catalog.NewRepository(db), e.wallets, e.notifier, log)
	return e
}

func newUser(t *testing.T, db *gorm.DB, name string, role auth.Role) *auth.User {
	t.Helper()
	u := &auth.User{Name: name, Email: strings.ToLower(name) + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, auth.NewUserRepository(db).Create(context.Background(), u))
	return u
}

func (e *env) art(t *testing.T, price string, approved bool) *catalog.Art {
	t.Helper()
	a := &catalog.Art{
		Title:                  "Piece",
		Price:                  decimal.RequireFromString(price),
		OwnerID:                e.artiste.ID,
		CountryID:              e.country.ID,
		ArtTypeID:              e.artType.ID,
		IsAvailableForPurchase: true,
	}
	require.NoError(t, e.db.Create(a).Error)
	if approved {
		require.NoError(t, e.db.Model(a).Update("is_approved", true).Error)
		a.IsApproved = true
	}
	return a
}

func (e *env) fund(t *testing.T, userID int64, amount string) {
	t.Helper()
	_, _, err := e.wallets.TopUp(context.Background(), userID, decimal.RequireFromString(amount))
	require.NoError(t, err)
}

func (e *env) balance(t *testing.T, userID int64) string {
	t.Helper()
	b, err := e.wallets.Balance(context.Background(), userID)
	require.NoError(t, err)
	return b.StringFixed(2)
}

func (e *env) artAvailable(t *testing.T, artID int64) bool {
	t.Helper()
	var a catalog.Art
	require.NoError(t, e.db.First(&a, artID).Error)
	return a.IsAvailableForPurchase
}

func (e *env) purchaseCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&Purchase{}).Count(&n).Error)
	return n
}

func (e *env) inbox(t *testing.T, userID int64) []notification.Notification {
	t.Helper()
	list, _, err := e.notifier.List(context.Background(), userID, 100)
	require.NoError(t, err)
	return list
}

func TestBuyAndApproveScenario(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	art := e.art(t, "100", true)
	e.fund(t, e.buyer.ID, "150")

	p, err := e.svc.BuyArt(ctx, e.buyer.ID, art.ID)
	require.NoError(t, err)
	assert.False(t, p.IsApproved)
	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, "100.00", p.Price.StringFixed(2))
	assert.Equal(t, "50.00", e.balance(t, e.buyer.ID))
	assert.Equal(t, "0.00", e.balance(t, e.artiste.ID))
	assert.False(t, e.artAvailable(t, art.ID))

	inbox := e.inbox(t, e.artiste.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, notification.TypeArtPurchased, inbox[0].Type)

	approved, err := e.svc.ApprovePurchase(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	assert.Equal(t, StatusApproved, approved.Status)
	assert.Equal(t, "100.00", e.balance(t, e.artiste.ID))
	assert.Equal(t, "50.00", e.balance(t, e.buyer.ID))

	_, err = e.svc.ApprovePurchase(ctx, p.ID, 1)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
	assert.Equal(t, apperr.AlreadyApproved, apperr.KindOf(err))
	assert.Equal(t, "100.00", e.balance(t, e.artiste.ID))

	assert.Len(t, e.inbox(t, e.artiste.ID), 2)
	buyerInbox := e.inbox(t, e.buyer.ID)
	require.Len(t, buyerInbox, 1)
	assert.Equal(t, notification.TypePurchaseConfirmed, buyerInbox[0].Type)
}

func TestWalletConservation(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	art := e.art(t, "37.45", true)
	e.fund(t, e.buyer.ID, "80")
	e.fund(t, e.artiste.ID, "12.10")

	total := func() decimal.Decimal {
		var ws []wallet.Wallet
		require.NoError(t, e.db.Find(&ws).Error)
		sum := decimal.Zero
		for _, w := range ws {
			sum = sum.Add(w.Balance)
		}
		return sum
	}
	before := total()

	p, err := e.svc.BuyArt(ctx, e.buyer.ID, art.ID)
	require.NoError(t, err)
	_, err = e.svc.ApprovePurchase(ctx, p.ID, 1)
	require.NoError(t, err)

	assert.True(t, before.Equal(total()), "before %s after %s", before, total())
	assert.Equal(t, "42.55", e.balance(t, e.buyer.ID))
	assert.Equal(t, "49.55", e.balance(t, e.artiste.ID))
}

func TestBuyArtAvailabilityGate(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	unapproved := e.art(t, "10", false)
	e.fund(t, e.buyer.ID, "1000")

	_, err := e.svc.BuyArt(ctx, e.buyer.ID, unapproved.ID)
	assert.ErrorIs(t, err, ErrNotAvailable)

	withdrawn := e.art(t, "10", true)
	require.NoError(t, e.db.Model(withdrawn).Update("is_available_for_purchase", false).Error)
	_, err = e.svc.BuyArt(ctx, e.buyer.ID, withdrawn.ID)
	assert.ErrorIs(t, err, ErrNotAvailable)

	_, err = e.svc.BuyArt(ctx, e.buyer.ID, 999)
	assert.ErrorIs(t, err, catalog.ErrArtNotFound)

	assert.Equal(t, "1000.00", e.balance(t, e.buyer.ID))
	assert.Zero(t, e.purchaseCount(t))
}

func TestBuyArtCheckOrder(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	// a broke buyer still gets NotAvailable for unapproved art
	unapproved := e.art(t, "10", false)
	_, err := e.svc.BuyArt(ctx, e.buyer.ID, unapproved.ID)
	assert.ErrorIs(t, err, ErrNotAvailable)

	approved := e.art(t, "10", true)
	_, err = e.svc.BuyArt(ctx, e.buyer.ID, approved.ID)
	assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)

	_, err = e.svc.BuyArt(ctx, e.artiste.ID, approved.ID)
	assert.ErrorIs(t, err, ErrOwnArt)
}

func TestBuyArtInsufficientFundsLeavesNoTrace(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	art := e.art(t, "100", true)
	e.fund(t, e.buyer.ID, "99.99")

	_, err := e.svc.BuyArt(ctx, e.buyer.ID, art.ID)
	assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)
	assert.Equal(t, apperr.InsufficientFunds, apperr.KindOf(err))

	assert.Equal(t, "99.99", e.balance(t, e.buyer.ID))
	assert.Zero(t, e.purchaseCount(t))
	assert.True(t, e.artAvailable(t, art.ID))
	assert.Empty(t, e.inbox(t, e.artiste.ID))
}

type failingCreateRepo struct {
	Repository
}

func (r failingCreateRepo) WithTx(tx *gorm.DB) Repository {
	return failingCreateRepo{Repository: r.Repository.WithTx(tx)}
}

func (failingCreateRepo) Create(context.Context, *Purchase) error {
	return errors.New("disk full")
}

func TestBuyArtRollsBackDebitWhenInsertFails(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	art := e.art(t, "40", true)
	e.fund(t, e.buyer.ID, "50")

	svc := NewService(e.db, failingCreateRepo{NewRepository(e.db)}, catalog.NewRepository(e.db), e.wallets, e.notifier, logging.Discard())
	_, err := svc.BuyArt(ctx, e.buyer.ID, art.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Internal, apperr.KindOf(err))

	assert.Equal(t, "50.00", e.balance(t, e.buyer.ID))
	assert.True(t, e.artAvailable(t, art.ID))

	txns, err := e.wallets.ListTransactions(ctx, e.buyer.ID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, wallet.EntryTopUp, txns[0].Type)
}

type brokenSink struct{}

func (brokenSink) Notify(context.Context, int64, notification.Type, string, map[string]any) error {
	return errors.New("inbox unavailable")
}

func TestNotificationFailureDoesNotUndoPurchase(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	art := e.art(t, "20", true)
	e.fund(t, e.buyer.ID, "20")

	svc := NewService(e.db, NewRepository(e.db), catalog.NewRepository(e.db), e.wallets, brokenSink{}, logging.Discard())
	p, err := svc.BuyArt(ctx, e.buyer.ID, art.ID)
	require.NoError(t, err)

	_, err = svc.ApprovePurchase(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "0.00", e.balance(t, e.buyer.ID))
	assert.Equal(t, "20.00", e.balance(t, e.artiste.ID))
}

func TestConcurrentBuyersSingleSale(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	art := e.art(t, "10", true)

	const buyers = 6
	ids := make([]int64, buyers)
	for i := range ids {
		u := newUser(t, e.db, fmt.Sprintf("buyer%d", i), auth.RoleUser)
		e.fund(t, u.ID, "10")
		ids[i] = u.ID
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			_, errs[i] = e.svc.BuyArt(ctx, id, art.ID)
		}(i, id)
	}
	wg.Wait()

	var ok, unavailable int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrNotAvailable):
			unavailable++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, buyers-1, unavailable)
	assert.Equal(t, int64(1), e.purchaseCount(t))

	charged := 0
	for _, id := range ids {
		if e.balance(t, id) == "0.00" {
			charged++
		}
	}
	assert.Equal(t, 1, charged)
	assert.Zero(t, e.svc.artLocks.size())
}

func TestRejectPurchaseRefunds(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	art := e.art(t, "60", true)
	e.fund(t, e.buyer.ID, "100")

	p, err := e.svc.BuyArt(ctx, e.buyer.ID, art.ID)
	require.NoError(t, err)
	assert.Equal(t, "40.00", e.balance(t, e.buyer.ID))

	rejected, err := e.svc.RejectPurchase(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.False(t, rejected.IsApproved)
	assert.Equal(t, "100.00", e.balance(t, e.buyer.ID))
	assert.Equal(t, "0.00", e.balance(t, e.artiste.ID))
	assert.True(t, e.artAvailable(t, art.ID))

	_, err = e.svc.RejectPurchase(ctx, p.ID, 1)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	_, err = e.svc.ApprovePurchase(ctx, p.ID, 1)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	// the art can be sold again
	_, err = e.svc.BuyArt(ctx, e.buyer.ID, art.ID)
	require.NoError(t, err)
}

func TestRejectApprovedPurchase(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	art := e.art(t, "5", true)
	e.fund(t, e.buyer.ID, "5")
	p, err := e.svc.BuyArt(ctx, e.buyer.ID, art.ID)
	require.NoError(t, err)
	_, err = e.svc.ApprovePurchase(ctx, p.ID, 1)
	require.NoError(t, err)

	_, err = e.svc.RejectPurchase(ctx, p.ID, 1)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
	assert.Equal(t, "0.00", e.balance(t, e.buyer.ID))
}

func TestApproveMissingPurchase(t *testing.T) {
	e := setup(t)

	_, err := e.svc.ApprovePurchase(context.Background(), 404, 1)
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
	_, err = e.svc.RejectPurchase(context.Background(), 404, 1)
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
}

func TestOwnerCannotRelistWhileSaleOpen(t *testing.T) {
	tests := []struct {
		name    string
		approve bool
	}{
		{name: "pending", approve: false},
		{name: "approved", approve: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setup(t)
			ctx := context.Background()
			arts := catalog.NewService(e.db, catalog.NewRepository(e.db), auth.NewUserRepository(e.db), NewRepository(e.db), nil, logging.Discard())

			art := e.art(t, "100", true)
			second := newUser(t, e.db, "Carol", auth.RoleUser)
			e.fund(t, e.buyer.ID, "100")
			e.fund(t, second.ID, "100")

			p, err := e.svc.BuyArt(ctx, e.buyer.ID, art.ID)
			require.NoError(t, err)
			if tt.approve {
				_, err = e.svc.ApprovePurchase(ctx, p.ID, 1)
				require.NoError(t, err)
			}

			on := true
			_, err = arts.UpdateArt(ctx, art.ID, e.artiste.ID, catalog.UpdateArtInput{IsAvailableForPurchase: &on})
			assert.ErrorIs(t, err, catalog.ErrArtSold)
			assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
			assert.False(t, e.artAvailable(t, art.ID))

			_, err = e.svc.BuyArt(ctx, second.ID, art.ID)
			assert.ErrorIs(t, err, ErrNotAvailable)
			assert.Equal(t, int64(1), e.purchaseCount(t))
			assert.Equal(t, "100.00", e.balance(t, second.ID))
		})
	}
}

func TestOwnerCanRelistAfterReject(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	arts := catalog.NewService(e.db, catalog.NewRepository(e.db), auth.NewUserRepository(e.db), NewRepository(e.db), nil, logging.Discard())

	art := e.art(t, "30", true)
	e.fund(t, e.buyer.ID, "30")
	p, err := e.svc.BuyArt(ctx, e.buyer.ID, art.ID)
	require.NoError(t, err)
	_, err = e.svc.RejectPurchase(ctx, p.ID, 1)
	require.NoError(t, err)

	off, on := false, true
	_, err = arts.UpdateArt(ctx, art.ID, e.artiste.ID, catalog.UpdateArtInput{IsAvailableForPurchase: &off})
	require.NoError(t, err)
	updated, err := arts.UpdateArt(ctx, art.ID, e.artiste.ID, catalog.UpdateArtInput{IsAvailableForPurchase: &on})
	require.NoError(t, err)
	assert.True(t, updated.IsAvailableForPurchase)

	open, err := NewRepository(e.db).HasOpenPurchasesForArt(ctx, nil, art.ID)
	require.NoError(t, err)
	assert.False(t, open)
}

type failingReloadRepo struct {
	Repository
}

func (failingReloadRepo) GetByID(context.Context, int64) (*Purchase, error) {
	return nil, errors.New("connection reset")
}

func TestCommittedTransitionSurvivesFailedReload(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	art := e.art(t, "25", true)
	e.fund(t, e.buyer.ID, "25")

	svc := NewService(e.db, failingReloadRepo{NewRepository(e.db)}, catalog.NewRepository(e.db), e.wallets, e.notifier, logging.Discard())

	bought, err := svc.BuyArt(ctx, e.buyer.ID, art.ID)
	require.NoError(t, err)
	assert.NotZero(t, bought.ID)
	assert.Equal(t, StatusPending, bought.Status)
	require.NotNil(t, bought.Art)
	assert.False(t, bought.Art.IsAvailableForPurchase)

	approved, err := svc.ApprovePurchase(ctx, bought.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	assert.True(t, approved.IsApproved)
	require.NotNil(t, approved.DecidedBy)
	assert.Equal(t, int64(7), *approved.DecidedBy)

	stored, err := e.svc.GetPurchase(ctx, bought.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, stored.Status)
	assert.Equal(t, "25.00", e.balance(t, e.artiste.ID))
}

func TestPurchaseQueries(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	first := e.art(t, "10", true)
	second := e.art(t, "10", true)
	e.fund(t, e.buyer.ID, "20")

	p1, err := e.svc.BuyArt(ctx, e.buyer.ID, first.ID)
	require.NoError(t, err)
	_, err = e.svc.BuyArt(ctx, e.buyer.ID, second.ID)
	require.NoError(t, err)
	_, err = e.svc.ApprovePurchase(ctx, p1.ID, 1)
	require.NoError(t, err)

	mine, err := e.svc.ListMyPurchases(ctx, e.buyer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.NotNil(t, mine[0].Art)
	assert.Equal(t, "Frida", mine[0].Art.Owner.Name)

	got, err := e.svc.GetPurchasedArt(ctx, e.buyer.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, p1.ID, got.ID)

	_, err = e.svc.GetPurchasedArt(ctx, e.artiste.ID, first.ID)
	assert.ErrorIs(t, err, ErrPurchaseNotFound)

	pending := StatusPending
	queue, err := e.svc.ListPurchases(ctx, &pending)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, second.ID, queue[0].ArtID)

	bogus := Status("lost")
	_, err = e.svc.ListPurchases(ctx, &bogus)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	has, err := NewRepository(e.db).HasPurchasesForArt(ctx, nil, first.ID)
	require.NoError(t, err)
	assert.True(t, has)
}
