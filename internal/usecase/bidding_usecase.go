package usecase

import (
	"fmt"

	"chore-clash/internal/entity"
	"chore-clash/internal/repo/persistent"
	"chore-clash/pkg/logger"
)

// championOf picks the winning bid: lowest amount, ties broken by earliest
// createdAt so the first bidder keeps the lock at equal price. Returns nil
// when there are no bids.
func championOf(bids []*entity.Bid) *entity.Bid {
	var champion *entity.Bid
	for _, bid := range bids {
		if champion == nil ||
			bid.AmountPence < champion.AmountPence ||
			(bid.AmountPence == champion.AmountPence && bid.CreatedAt.Before(champion.CreatedAt)) {
			champion = bid
		}
	}
	return champion
}

type BiddingUseCase interface {
	// PlaceBid records a bid and reports whether it disrupted the previous
	// champion. Bids are append-only; older bids stay in history.
	PlaceBid(familyID, childID, assignmentID string, amountPence int) (*entity.Bid, bool, error)
	ListBids(familyID, assignmentID string) ([]*entity.Bid, error)
	Champion(familyID, assignmentID string) (*entity.Bid, error)
}

type biddingUseCase struct {
	assignmentRepo persistent.AssignmentRepository
	bidRepo        persistent.BidRepository
	familyRepo     persistent.FamilyRepository
	logger         *logger.Logger
}

func NewBiddingUseCase(
	assignmentRepo persistent.AssignmentRepository,
	bidRepo persistent.BidRepository,
	familyRepo persistent.FamilyRepository,
	logger *logger.Logger,
) BiddingUseCase {
	return &biddingUseCase{
		assignmentRepo: assignmentRepo,
		bidRepo:        bidRepo,
		familyRepo:     familyRepo,
		logger:         logger,
	}
}

func (uc *biddingUseCase) PlaceBid(familyID, childID, assignmentID string, amountPence int) (*entity.Bid, bool, error) {
	if amountPence <= 0 {
		return nil, false, fmt.Errorf("bid amount must be positive")
	}

	assignment, err := uc.assignmentRepo.GetByID(familyID, assignmentID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load assignment: %w", err)
	}
	if !assignment.BiddingEnabled {
		return nil, false, fmt.Errorf("assignment is not open for bidding")
	}
	if _, err := uc.familyRepo.GetChild(familyID, childID); err != nil {
		return nil, false, fmt.Errorf("failed to load child: %w", err)
	}

	existing, err := uc.bidRepo.ListByAssignment(assignmentID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load bids: %w", err)
	}
	previous := championOf(existing)

	bid := &entity.Bid{
		AssignmentID: assignmentID,
		FamilyID:     familyID,
		ChildID:      childID,
		AmountPence:  amountPence,
	}
	if err := uc.bidRepo.Create(bid); err != nil {
		return nil, false, fmt.Errorf("failed to place bid: %w", err)
	}

	disrupted := previous != nil && amountPence < previous.AmountPence && previous.ChildID != childID
	if disrupted {
		uc.logger.Info("Bid %s disrupted champion %s on assignment %s", bid.ID, previous.ChildID, assignmentID)
	}
	return bid, disrupted, nil
}

func (uc *biddingUseCase) ListBids(familyID, assignmentID string) ([]*entity.Bid, error) {
	if _, err := uc.assignmentRepo.GetByID(familyID, assignmentID); err != nil {
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}
	bids, err := uc.bidRepo.ListByAssignment(assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bids: %w", err)
	}
	return bids, nil
}

func (uc *biddingUseCase) Champion(familyID, assignmentID string) (*entity.Bid, error) {
	bids, err := uc.ListBids(familyID, assignmentID)
	if err != nil {
		return nil, err
	}
	champion := championOf(bids)
	if champion == nil {
		return nil, entity.ErrNoChampionYet
	}
	return champion, nil
}
