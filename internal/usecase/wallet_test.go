package usecase

import (
	"testing"

	"chore-clash/internal/entity"
	"chore-clash/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func walletFixture(t *testing.T) (*memStore, WalletUseCase) {
	t.Helper()
	store := newMemStore()
	store.addChild("fam-1", "anna")
	store.settings = &entity.FamilySettings{FamilyID: "fam-1", StarRatePence: 10}

	uc := NewWalletUseCase(
		fakeWalletRepo{store}, fakeStarPurchaseRepo{store}, fakeFamilyRepo{store},
		nil, nil, logger.New(),
	)
	return store, uc
}

func TestGetWallet_CreatesOnFirstAccess(t *testing.T) {
	_, uc := walletFixture(t)

	wallet, err := uc.GetWallet("fam-1", "anna")
	assert.NoError(t, err)
	assert.Equal(t, 0, wallet.BalancePence)
	assert.Equal(t, 0, wallet.BalanceStars)
}

func TestGetWallet_UnknownChild(t *testing.T) {
	_, uc := walletFixture(t)

	_, err := uc.GetWallet("fam-1", "stranger")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestTopUp(t *testing.T) {
	_, uc := walletFixture(t)

	wallet, err := uc.TopUp("fam-1", "anna", 300)
	assert.NoError(t, err)
	assert.Equal(t, 300, wallet.BalancePence)

	_, err = uc.TopUp("fam-1", "anna", 0)
	assert.Error(t, err)

	txs, err := uc.Transactions("fam-1", "anna", 10, 0)
	assert.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, entity.SourceTopUp, txs[0].Source)
}

func TestRequestStarPurchase_DebitsAtFamilyRate(t *testing.T) {
	_, uc := walletFixture(t)

	_, err := uc.TopUp("fam-1", "anna", 300)
	assert.NoError(t, err)

	outcome, err := uc.RequestStarPurchase("fam-1", "anna", 10)
	assert.NoError(t, err)
	assert.Equal(t, entity.StarPurchasePending, outcome.Purchase.Status)
	assert.Equal(t, 100, outcome.Purchase.AmountPence) // 10 stars at 10p each
	assert.Equal(t, 10, outcome.Purchase.ConversionRatePence)
	assert.Equal(t, 200, outcome.Wallet.BalancePence) // money reserved up front
	assert.Equal(t, 0, outcome.Wallet.BalanceStars)   // no stars until approval
}

func TestRequestStarPurchase_InsufficientFunds(t *testing.T) {
	_, uc := walletFixture(t)

	_, err := uc.TopUp("fam-1", "anna", 50)
	assert.NoError(t, err)

	_, err = uc.RequestStarPurchase("fam-1", "anna", 10)
	assert.ErrorIs(t, err, entity.ErrInsufficientFunds)

	// The failed request must leave no trace.
	wallet, _ := uc.GetWallet("fam-1", "anna")
	assert.Equal(t, 50, wallet.BalancePence)
	pending, _ := uc.ListPendingStarPurchases("fam-1")
	assert.Len(t, pending, 0)
}

func TestApproveStarPurchase_CreditsStarsOnly(t *testing.T) {
	_, uc := walletFixture(t)

	_, _ = uc.TopUp("fam-1", "anna", 300)
	requested, err := uc.RequestStarPurchase("fam-1", "anna", 10)
	assert.NoError(t, err)

	outcome, err := uc.ApproveStarPurchase("fam-1", "parent-1", requested.Purchase.ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.StarPurchaseApproved, outcome.Purchase.Status)
	assert.Equal(t, 200, outcome.Wallet.BalancePence) // money stays debited
	assert.Equal(t, 10, outcome.Wallet.BalanceStars)
}

func TestRejectStarPurchase_RefundsMoneyOnly(t *testing.T) {
	_, uc := walletFixture(t)

	_, _ = uc.TopUp("fam-1", "anna", 300)
	requested, err := uc.RequestStarPurchase("fam-1", "anna", 10)
	assert.NoError(t, err)

	outcome, err := uc.RejectStarPurchase("fam-1", "parent-1", requested.Purchase.ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.StarPurchaseRejected, outcome.Purchase.Status)
	assert.Equal(t, 300, outcome.Wallet.BalancePence) // full refund
	assert.Equal(t, 0, outcome.Wallet.BalanceStars)
}

func TestSettleStarPurchase_Twice(t *testing.T) {
	_, uc := walletFixture(t)

	_, _ = uc.TopUp("fam-1", "anna", 300)
	requested, _ := uc.RequestStarPurchase("fam-1", "anna", 5)

	_, err := uc.ApproveStarPurchase("fam-1", "parent-1", requested.Purchase.ID)
	assert.NoError(t, err)

	_, err = uc.ApproveStarPurchase("fam-1", "parent-1", requested.Purchase.ID)
	assert.ErrorIs(t, err, entity.ErrAlreadyProcessed)

	_, err = uc.RejectStarPurchase("fam-1", "parent-1", requested.Purchase.ID)
	assert.ErrorIs(t, err, entity.ErrAlreadyProcessed)
}

func TestListStarPurchases(t *testing.T) {
	_, uc := walletFixture(t)

	_, _ = uc.TopUp("fam-1", "anna", 300)
	first, _ := uc.RequestStarPurchase("fam-1", "anna", 5)
	_, _ = uc.RequestStarPurchase("fam-1", "anna", 3)

	all, err := uc.ListStarPurchases("fam-1", "anna")
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = uc.ApproveStarPurchase("fam-1", "parent-1", first.Purchase.ID)
	assert.NoError(t, err)

	pending, err := uc.ListPendingStarPurchases("fam-1")
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
}
