package usecase

import (
	"testing"

	"chore-clash/internal/entity"
	"chore-clash/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func biddingFixture(t *testing.T) (*memStore, BiddingUseCase, *entity.Assignment) {
	t.Helper()
	store := newMemStore()
	store.addChild("fam-1", "anna")
	store.addChild("fam-1", "ben")
	store.addChild("fam-1", "cara")
	store.addChild("fam-1", "dan")

	chore := &entity.Chore{FamilyID: "fam-1", Title: "Wash the car", RewardPence: 200, Active: true}
	assert.NoError(t, fakeChoreRepo{store}.Create(chore))

	assignment := &entity.Assignment{FamilyID: "fam-1", ChoreID: chore.ID, BiddingEnabled: true}
	assert.NoError(t, fakeAssignmentRepo{store}.Create(assignment))

	uc := NewBiddingUseCase(fakeAssignmentRepo{store}, fakeBidRepo{store}, fakeFamilyRepo{store}, logger.New())
	return store, uc, assignment
}

func TestPlaceBid_RejectsNonPositiveAmount(t *testing.T) {
	_, uc, assignment := biddingFixture(t)

	_, _, err := uc.PlaceBid("fam-1", "anna", assignment.ID, 0)
	assert.Error(t, err)

	_, _, err = uc.PlaceBid("fam-1", "anna", assignment.ID, -10)
	assert.Error(t, err)
}

func TestPlaceBid_RejectsNonBiddingAssignment(t *testing.T) {
	store, uc, _ := biddingFixture(t)

	plain := &entity.Assignment{FamilyID: "fam-1", ChoreID: "chore-x", ChildID: "anna"}
	assert.NoError(t, fakeAssignmentRepo{store}.Create(plain))

	_, _, err := uc.PlaceBid("fam-1", "anna", plain.ID, 50)
	assert.Error(t, err)
}

func TestChampion_NoBids(t *testing.T) {
	_, uc, assignment := biddingFixture(t)

	_, err := uc.Champion("fam-1", assignment.ID)
	assert.ErrorIs(t, err, entity.ErrNoChampionYet)
}

func TestChampion_LowestBidWins(t *testing.T) {
	_, uc, assignment := biddingFixture(t)

	_, _, err := uc.PlaceBid("fam-1", "anna", assignment.ID, 50)
	assert.NoError(t, err)
	_, disrupted, err := uc.PlaceBid("fam-1", "ben", assignment.ID, 30)
	assert.NoError(t, err)
	assert.True(t, disrupted)

	champion, err := uc.Champion("fam-1", assignment.ID)
	assert.NoError(t, err)
	assert.Equal(t, "ben", champion.ChildID)
	assert.Equal(t, 30, champion.AmountPence)
}

func TestChampion_TieGoesToEarlierBid(t *testing.T) {
	_, uc, assignment := biddingFixture(t)

	_, _, err := uc.PlaceBid("fam-1", "anna", assignment.ID, 50)
	assert.NoError(t, err)
	_, _, err = uc.PlaceBid("fam-1", "ben", assignment.ID, 30)
	assert.NoError(t, err)
	// Matching cara's bid arrives later, so ben keeps the lock.
	_, disrupted, err := uc.PlaceBid("fam-1", "cara", assignment.ID, 30)
	assert.NoError(t, err)
	assert.False(t, disrupted)

	champion, err := uc.Champion("fam-1", assignment.ID)
	assert.NoError(t, err)
	assert.Equal(t, "ben", champion.ChildID)

	// A strictly lower bid takes it.
	_, disrupted, err = uc.PlaceBid("fam-1", "dan", assignment.ID, 20)
	assert.NoError(t, err)
	assert.True(t, disrupted)

	champion, err = uc.Champion("fam-1", assignment.ID)
	assert.NoError(t, err)
	assert.Equal(t, "dan", champion.ChildID)
	assert.Equal(t, 20, champion.AmountPence)
}

func TestPlaceBid_OwnLowerBidDoesNotDisrupt(t *testing.T) {
	_, uc, assignment := biddingFixture(t)

	_, _, err := uc.PlaceBid("fam-1", "anna", assignment.ID, 50)
	assert.NoError(t, err)
	_, disrupted, err := uc.PlaceBid("fam-1", "anna", assignment.ID, 40)
	assert.NoError(t, err)
	assert.False(t, disrupted)
}

func TestListBids_KeepsFullHistory(t *testing.T) {
	_, uc, assignment := biddingFixture(t)

	_, _, _ = uc.PlaceBid("fam-1", "anna", assignment.ID, 50)
	_, _, _ = uc.PlaceBid("fam-1", "ben", assignment.ID, 30)
	_, _, _ = uc.PlaceBid("fam-1", "anna", assignment.ID, 25)

	bids, err := uc.ListBids("fam-1", assignment.ID)
	assert.NoError(t, err)
	assert.Len(t, bids, 3)
}
