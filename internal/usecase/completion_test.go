package usecase

import (
	"errors"
	"sync"
	"testing"
	"time"

	"chore-clash/internal/entity"
	"chore-clash/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type completionFixture struct {
	store      *memStore
	uc         CompletionUseCase
	chore      *entity.Chore
	assignment *entity.Assignment
}

func newCompletionFixture(t *testing.T, biddingEnabled bool) *completionFixture {
	t.Helper()
	store := newMemStore()
	store.addChild("fam-1", "anna")
	store.addChild("fam-1", "ben")

	chore := &entity.Chore{FamilyID: "fam-1", Title: "Empty the dishwasher", RewardPence: 50, Active: true}
	assert.NoError(t, fakeChoreRepo{store}.Create(chore))

	assignment := &entity.Assignment{FamilyID: "fam-1", ChoreID: chore.ID, BiddingEnabled: biddingEnabled}
	if !biddingEnabled {
		assignment.ChildID = "anna"
	}
	assert.NoError(t, fakeAssignmentRepo{store}.Create(assignment))

	uc := NewCompletionUseCase(
		fakeCompletionRepo{store}, fakeAssignmentRepo{store}, fakeChoreRepo{store},
		fakeBidRepo{store}, fakeStreakRepo{store}, fakeWalletRepo{store}, fakeFamilyRepo{store},
		nil, nil, logger.New(),
	)
	return &completionFixture{store: store, uc: uc, chore: chore, assignment: assignment}
}

// seedPending inserts a pending completion directly, with the streak row at
// the given length, so approval paths can be tested at any streak state.
func (f *completionFixture) seedPending(childID string, streakLength int) *entity.Completion {
	completion := &entity.Completion{
		ID:           f.store.nextID("completion"),
		AssignmentID: f.assignment.ID,
		ChoreID:      f.chore.ID,
		FamilyID:     "fam-1",
		ChildID:      childID,
		Status:       entity.CompletionPending,
		SubmittedAt:  time.Now().UTC(),
	}
	f.store.completions[completion.ID] = completion
	if streakLength > 0 {
		f.store.streaks[streakKey(childID, f.chore.ID)] = &entity.Streak{
			FamilyID:          "fam-1",
			ChildID:           childID,
			ChoreID:           f.chore.ID,
			Current:           streakLength,
			Best:              streakLength,
			LastIncrementDate: toDay(time.Now().UTC()),
		}
	}
	return completion
}

func TestSubmit_CreatesPendingAndStartsStreak(t *testing.T) {
	f := newCompletionFixture(t, false)

	completion, err := f.uc.Submit("fam-1", "anna", f.assignment.ID, "done before school", "")
	assert.NoError(t, err)
	assert.Equal(t, entity.CompletionPending, completion.Status)
	assert.Equal(t, f.chore.ID, completion.ChoreID)

	streak, err := fakeStreakRepo{f.store}.Get("fam-1", "anna", f.chore.ID)
	assert.NoError(t, err)
	assert.NotNil(t, streak)
	assert.Equal(t, 1, streak.Current)
}

func TestSubmit_SameDayResubmissionDoesNotBumpStreak(t *testing.T) {
	f := newCompletionFixture(t, false)

	_, err := f.uc.Submit("fam-1", "anna", f.assignment.ID, "", "")
	assert.NoError(t, err)
	_, err = f.uc.Submit("fam-1", "anna", f.assignment.ID, "again", "")
	assert.NoError(t, err)

	streak, _ := fakeStreakRepo{f.store}.Get("fam-1", "anna", f.chore.ID)
	assert.Equal(t, 1, streak.Current)

	pending, _ := f.uc.ListPending("fam-1")
	assert.Len(t, pending, 2)
}

func TestSubmit_WrongChildRejected(t *testing.T) {
	f := newCompletionFixture(t, false)

	_, err := f.uc.Submit("fam-1", "ben", f.assignment.ID, "", "")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestSubmit_BiddingRequiresChampion(t *testing.T) {
	f := newCompletionFixture(t, true)

	_, err := f.uc.Submit("fam-1", "anna", f.assignment.ID, "", "")
	assert.ErrorIs(t, err, entity.ErrNoChampionYet)
}

func TestSubmit_NonChampionLockedOut(t *testing.T) {
	f := newCompletionFixture(t, true)

	bidRepo := fakeBidRepo{f.store}
	assert.NoError(t, bidRepo.Create(&entity.Bid{AssignmentID: f.assignment.ID, FamilyID: "fam-1", ChildID: "anna", AmountPence: 40}))
	assert.NoError(t, bidRepo.Create(&entity.Bid{AssignmentID: f.assignment.ID, FamilyID: "fam-1", ChildID: "ben", AmountPence: 60}))

	_, err := f.uc.Submit("fam-1", "ben", f.assignment.ID, "", "")
	assert.ErrorIs(t, err, entity.ErrChallengeLocked)

	completion, err := f.uc.Submit("fam-1", "anna", f.assignment.ID, "", "")
	assert.NoError(t, err)
	assert.NotNil(t, completion.BidAmountPence)
	assert.Equal(t, 40, *completion.BidAmountPence)
}

func TestApprove_CreditsRewardAndStars(t *testing.T) {
	f := newCompletionFixture(t, false)
	completion := f.seedPending("anna", 1)

	outcome, err := f.uc.Approve("fam-1", "parent-1", completion.ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.CompletionApproved, outcome.Completion.Status)
	assert.Equal(t, "parent-1", outcome.Completion.ApprovedBy)
	assert.Equal(t, 50, outcome.RewardPence)
	assert.Equal(t, 5, outcome.Stars) // 50p at 1 star per 10p
	assert.False(t, outcome.RivalryBonus)
	assert.Nil(t, outcome.StreakBonus)
	assert.Equal(t, 50, outcome.Wallet.BalancePence)
	assert.Equal(t, 5, outcome.Wallet.BalanceStars)

	txs, err := fakeWalletRepo{f.store}.Transactions(outcome.Wallet.ID, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, entity.SourceChoreReward, txs[0].Source)
	assert.Equal(t, completion.ID, txs[0].Meta.CompletionID)
}

func TestApprove_AlreadyProcessed(t *testing.T) {
	f := newCompletionFixture(t, false)
	completion := f.seedPending("anna", 1)

	_, err := f.uc.Approve("fam-1", "parent-1", completion.ID)
	assert.NoError(t, err)

	_, err = f.uc.Approve("fam-1", "parent-1", completion.ID)
	assert.ErrorIs(t, err, entity.ErrAlreadyProcessed)
}

func TestApprove_ConcurrentDoubleApproveExactlyOneSucceeds(t *testing.T) {
	f := newCompletionFixture(t, false)
	completion := f.seedPending("anna", 1)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Approve("fam-1", "parent-1", completion.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		if err == nil {
			successes++
		} else if errors.Is(err, entity.ErrAlreadyProcessed) {
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	wallet, err := fakeWalletRepo{f.store}.GetByChild("fam-1", "anna")
	assert.NoError(t, err)
	assert.Equal(t, 50, wallet.BalancePence) // credited exactly once
}

func TestApprove_LedgerFailureLeavesPending(t *testing.T) {
	f := newCompletionFixture(t, false)
	completion := f.seedPending("anna", 1)

	f.store.creditErr = errors.New("connection reset")
	_, err := f.uc.Approve("fam-1", "parent-1", completion.ID)
	assert.Error(t, err)

	reloaded, err := f.uc.Get("fam-1", completion.ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.CompletionPending, reloaded.Status)

	// Retry succeeds once the ledger recovers.
	f.store.creditErr = nil
	outcome, err := f.uc.Approve("fam-1", "parent-1", completion.ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.CompletionApproved, outcome.Completion.Status)
}

func TestApprove_RivalryPaysBidAndDoublesStars(t *testing.T) {
	f := newCompletionFixture(t, true)

	bidRepo := fakeBidRepo{f.store}
	assert.NoError(t, bidRepo.Create(&entity.Bid{AssignmentID: f.assignment.ID, FamilyID: "fam-1", ChildID: "anna", AmountPence: 40}))
	assert.NoError(t, bidRepo.Create(&entity.Bid{AssignmentID: f.assignment.ID, FamilyID: "fam-1", ChildID: "ben", AmountPence: 60}))

	completion, err := f.uc.Submit("fam-1", "anna", f.assignment.ID, "", "")
	assert.NoError(t, err)

	outcome, err := f.uc.Approve("fam-1", "parent-1", completion.ID)
	assert.NoError(t, err)
	assert.True(t, outcome.RivalryBonus)
	assert.Equal(t, 40, outcome.RewardPence) // the winning bid, not the listed 50p
	assert.Equal(t, 8, outcome.Stars)        // stars from 40p doubled

	txs, _ := fakeWalletRepo{f.store}.Transactions(outcome.Wallet.ID, 10, 0)
	assert.Len(t, txs, 1)
	assert.True(t, txs[0].Meta.RivalryBonus)
	assert.Equal(t, 50, txs[0].Meta.BaseRewardPence)
}

func TestApprove_StreakMilestoneBonusOnce(t *testing.T) {
	f := newCompletionFixture(t, false)
	f.store.settings = &entity.FamilySettings{
		FamilyID:      "fam-1",
		BonusEnabled:  true,
		BonusDays:     3,
		BonusStars:    5,
		BonusType:     entity.BonusStars,
		StarRatePence: 10,
	}

	first := f.seedPending("anna", 3)
	outcome, err := f.uc.Approve("fam-1", "parent-1", first.ID)
	assert.NoError(t, err)
	assert.NotNil(t, outcome.StreakBonus)
	assert.Equal(t, 3, outcome.StreakBonus.StreakLength)
	assert.Equal(t, 10, outcome.Wallet.BalanceStars) // 5 reward stars + 5 bonus

	// A second approval at the same milestone length must not pay again.
	second := f.seedPending("anna", 3)
	outcome, err = f.uc.Approve("fam-1", "parent-1", second.ID)
	assert.NoError(t, err)
	assert.Nil(t, outcome.StreakBonus)
	assert.Equal(t, 15, outcome.Wallet.BalanceStars) // reward stars only
}

func TestApprove_NoBonusOffMilestone(t *testing.T) {
	f := newCompletionFixture(t, false)
	f.store.settings = &entity.FamilySettings{
		FamilyID:      "fam-1",
		BonusEnabled:  true,
		BonusDays:     3,
		BonusStars:    5,
		BonusType:     entity.BonusStars,
		StarRatePence: 10,
	}

	completion := f.seedPending("anna", 4)
	outcome, err := f.uc.Approve("fam-1", "parent-1", completion.ID)
	assert.NoError(t, err)
	assert.Nil(t, outcome.StreakBonus)
	assert.Equal(t, 5, outcome.Wallet.BalanceStars)
}

func TestReject_NoLedgerEffectStreakStands(t *testing.T) {
	f := newCompletionFixture(t, false)
	completion := f.seedPending("anna", 2)

	rejected, err := f.uc.Reject("fam-1", "parent-1", completion.ID, "not actually done")
	assert.NoError(t, err)
	assert.Equal(t, entity.CompletionRejected, rejected.Status)
	assert.Contains(t, rejected.Note, "not actually done")

	_, err = fakeWalletRepo{f.store}.GetByChild("fam-1", "anna")
	assert.ErrorIs(t, err, entity.ErrNotFound) // no wallet was ever touched

	streak, _ := fakeStreakRepo{f.store}.Get("fam-1", "anna", f.chore.ID)
	assert.Equal(t, 2, streak.Current)
}

func TestReject_AlreadyProcessed(t *testing.T) {
	f := newCompletionFixture(t, false)
	completion := f.seedPending("anna", 1)

	_, err := f.uc.Reject("fam-1", "parent-1", completion.ID, "")
	assert.NoError(t, err)

	_, err = f.uc.Reject("fam-1", "parent-1", completion.ID, "")
	assert.ErrorIs(t, err, entity.ErrAlreadyProcessed)
}
