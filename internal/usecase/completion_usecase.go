package usecase

import (
	"fmt"
	"time"

	"chore-clash/internal/entity"
	"chore-clash/internal/repo/persistent"
	"chore-clash/pkg/logger"
)

// ApproveOutcome is what an approval paid out.
type ApproveOutcome struct {
	Completion   *entity.Completion `json:"completion"`
	Wallet       *entity.Wallet     `json:"wallet"`
	RewardPence  int                `json:"reward_pence"`
	Stars        int                `json:"stars"`
	RivalryBonus bool               `json:"rivalry_bonus"`
	StreakBonus  *entity.BonusAward `json:"streak_bonus,omitempty"`
}

type CompletionUseCase interface {
	// Submit creates a pending completion and applies the streak update in
	// one atomic unit. For bidding-enabled assignments only the current
	// champion may submit.
	Submit(familyID, childID, assignmentID, note, proofURL string) (*entity.Completion, error)
	// Approve flips a pending completion to approved and credits the reward
	// (and any due streak bonus) atomically. A ledger failure leaves the
	// completion pending.
	Approve(familyID, approverID, completionID string) (*ApproveOutcome, error)
	// Reject flips a pending completion to rejected. No ledger effect, and
	// the streak increment from submission deliberately stands.
	Reject(familyID, approverID, completionID, reason string) (*entity.Completion, error)
	Get(familyID, completionID string) (*entity.Completion, error)
	ListByChild(familyID, childID string, limit, offset int) ([]*entity.Completion, error)
	ListPending(familyID string) ([]*entity.Completion, error)
}

type completionUseCase struct {
	completionRepo persistent.CompletionRepository
	assignmentRepo persistent.AssignmentRepository
	choreRepo      persistent.ChoreRepository
	bidRepo        persistent.BidRepository
	streakRepo     persistent.StreakRepository
	walletRepo     persistent.WalletRepository
	familyRepo     persistent.FamilyRepository
	events         EventPublisher
	cache          CacheInvalidator
	logger         *logger.Logger
}

func NewCompletionUseCase(
	completionRepo persistent.CompletionRepository,
	assignmentRepo persistent.AssignmentRepository,
	choreRepo persistent.ChoreRepository,
	bidRepo persistent.BidRepository,
	streakRepo persistent.StreakRepository,
	walletRepo persistent.WalletRepository,
	familyRepo persistent.FamilyRepository,
	events EventPublisher,
	cache CacheInvalidator,
	logger *logger.Logger,
) CompletionUseCase {
	return &completionUseCase{
		completionRepo: completionRepo,
		assignmentRepo: assignmentRepo,
		choreRepo:      choreRepo,
		bidRepo:        bidRepo,
		streakRepo:     streakRepo,
		walletRepo:     walletRepo,
		familyRepo:     familyRepo,
		events:         events,
		cache:          cache,
		logger:         logger,
	}
}

func (uc *completionUseCase) Submit(familyID, childID, assignmentID, note, proofURL string) (*entity.Completion, error) {
	assignment, err := uc.assignmentRepo.GetByID(familyID, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}
	if _, err := uc.familyRepo.GetChild(familyID, childID); err != nil {
		return nil, fmt.Errorf("failed to load child: %w", err)
	}
	if assignment.ChildID != "" && assignment.ChildID != childID {
		return nil, fmt.Errorf("assignment belongs to another child: %w", entity.ErrNotFound)
	}

	chore, err := uc.choreRepo.GetByID(familyID, assignment.ChoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chore: %w", err)
	}

	now := time.Now().UTC()
	completion := &entity.Completion{
		AssignmentID: assignmentID,
		ChoreID:      assignment.ChoreID,
		FamilyID:     familyID,
		ChildID:      childID,
		Status:       entity.CompletionPending,
		Note:         note,
		ProofURL:     proofURL,
		SubmittedAt:  now,
	}

	// The streak mutates on submission, not approval, so the submission
	// timestamp is what keeps the streak alive.
	streak, err := uc.streakRepo.Get(familyID, childID, assignment.ChoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}
	if streak == nil {
		streak = &entity.Streak{
			FamilyID: familyID,
			ChildID:  childID,
			ChoreID:  assignment.ChoreID,
		}
	}
	if !ApplySubmission(streak, now) {
		streak = nil // same-day resubmission, nothing to write
	}

	var gate func(bids []*entity.Bid) error
	if assignment.BiddingEnabled {
		gate = func(bids []*entity.Bid) error {
			champion := championOf(bids)
			if champion == nil {
				return entity.ErrNoChampionYet
			}
			if champion.ChildID != childID {
				return entity.ErrChallengeLocked
			}
			completion.BidAmountPence = &champion.AmountPence
			return nil
		}
	}

	created, err := uc.completionRepo.CreateWithStreak(completion, streak, gate)
	if err != nil {
		return nil, fmt.Errorf("failed to submit completion: %w", err)
	}

	uc.publish(entity.EventCompletionCreated, &entity.CompletionEvent{
		Completion: created,
		Chore:      chore,
	})
	uc.invalidateFamily(familyID)

	return created, nil
}

func (uc *completionUseCase) Approve(familyID, approverID, completionID string) (*ApproveOutcome, error) {
	completion, err := uc.completionRepo.GetByID(familyID, completionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completion: %w", err)
	}
	if completion.Status != entity.CompletionPending {
		return nil, entity.ErrAlreadyProcessed
	}

	chore, err := uc.choreRepo.GetByID(familyID, completion.ChoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chore: %w", err)
	}
	assignment, err := uc.assignmentRepo.GetByID(familyID, completion.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}
	settings, err := uc.familyRepo.GetSettings(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load family settings: %w", err)
	}
	wallet, err := uc.walletRepo.GetOrCreate(familyID, completion.ChildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	rewardPence := chore.RewardPence
	rivalry := false
	if assignment.BiddingEnabled {
		// Same recomputation as at submit time. No new-bid path exists once
		// a completion is created, so the champion cannot have changed.
		bids, err := uc.bidRepo.ListByAssignment(assignment.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load bids: %w", err)
		}
		champion := championOf(bids)
		if champion != nil && champion.ChildID == completion.ChildID {
			// The prize for winning the showdown is not more cash: the bid
			// amount replaces the reward and the stars computed from it are
			// doubled.
			rewardPence = champion.AmountPence
			rivalry = true
		}
	}

	stars := chore.StarsFor(rewardPence)
	if rivalry {
		stars *= 2
	}

	plan := &persistent.ApprovalPlan{
		FamilyID:     familyID,
		CompletionID: completionID,
		ApproverID:   approverID,
		WalletID:     wallet.ID,
		RewardPence:  rewardPence,
		Stars:        stars,
		RewardMeta: entity.TxMeta{
			Type:            entity.SourceChoreReward,
			CompletionID:    completionID,
			RivalryBonus:    rivalry,
			BaseRewardPence: chore.RewardPence,
		},
	}

	// The streak is already current from submission; consult the awarder on
	// the post-submission length.
	var bonusAward *entity.BonusAward
	streak, err := uc.streakRepo.Get(familyID, completion.ChildID, completion.ChoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}
	if streak != nil {
		if award := MilestoneBonus(settings, streak.Current); award != nil {
			bonusAward = award
			plan.Bonus = &persistent.BonusCredit{
				MoneyPence: award.MoneyPence,
				Stars:      award.Stars,
				Meta: entity.TxMeta{
					Type:         entity.SourceStreakBonus,
					StreakLength: award.StreakLength,
				},
			}
		}
	}

	result, err := uc.completionRepo.ApplyApproval(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to approve completion: %w", err)
	}
	if !result.BonusApplied {
		bonusAward = nil
	}

	if rivalry {
		uc.logger.Info("Rivalry win: completion %s approved for champion bid %dp (double stars)", completionID, rewardPence)
	}

	outcome := &ApproveOutcome{
		Completion:   result.Completion,
		Wallet:       result.Wallet,
		RewardPence:  rewardPence,
		Stars:        stars,
		RivalryBonus: rivalry,
		StreakBonus:  bonusAward,
	}

	uc.publish(entity.EventCompletionApproved, &entity.CompletionEvent{
		Completion:   result.Completion,
		Chore:        chore,
		Wallet:       result.Wallet,
		RewardPence:  rewardPence,
		Stars:        stars,
		RivalryBonus: rivalry,
		StreakBonus:  bonusAward,
	})
	uc.invalidateFamily(familyID)
	uc.invalidateWallet(wallet.ID)

	return outcome, nil
}

func (uc *completionUseCase) Reject(familyID, approverID, completionID, reason string) (*entity.Completion, error) {
	rejected, err := uc.completionRepo.Reject(familyID, completionID, approverID, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to reject completion: %w", err)
	}

	chore, err := uc.choreRepo.GetByID(familyID, rejected.ChoreID)
	if err != nil {
		uc.logger.Warn("Failed to load chore for rejection event: %v", err)
	}

	uc.publish(entity.EventCompletionRejected, &entity.CompletionEvent{
		Completion: rejected,
		Chore:      chore,
	})
	uc.invalidateFamily(familyID)

	return rejected, nil
}

func (uc *completionUseCase) Get(familyID, completionID string) (*entity.Completion, error) {
	completion, err := uc.completionRepo.GetByID(familyID, completionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completion: %w", err)
	}
	return completion, nil
}

func (uc *completionUseCase) ListByChild(familyID, childID string, limit, offset int) ([]*entity.Completion, error) {
	completions, err := uc.completionRepo.ListByChild(familyID, childID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	return completions, nil
}

func (uc *completionUseCase) ListPending(familyID string) ([]*entity.Completion, error) {
	completions, err := uc.completionRepo.ListPending(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending completions: %w", err)
	}
	return completions, nil
}

func (uc *completionUseCase) publish(routingKey string, payload interface{}) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(routingKey, payload); err != nil {
		uc.logger.Warn("Failed to publish %s event: %v", routingKey, err)
	}
}

func (uc *completionUseCase) invalidateFamily(familyID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateFamily(familyID); err != nil {
		uc.logger.Warn("Failed to invalidate family cache: %v", err)
	}
}

func (uc *completionUseCase) invalidateWallet(walletID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateWallet(walletID); err != nil {
		uc.logger.Warn("Failed to invalidate wallet cache: %v", err)
	}
}
