package persistent

import (
	"errors"
	"time"

	"chore-clash/internal/entity"
	"chore-clash/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// bonusLookbackDays bounds the duplicate-payout scan. A milestone number can
// only legitimately recur outside this window; inside it the wallet row lock
// serializes the scan, so a milestone is paid at most once.
const bonusLookbackDays = 7

// BonusCredit is a candidate bonus the approval transaction applies only if
// no transaction with the same (meta type, milestone value) already exists
// in the lookback window.
type BonusCredit struct {
	MoneyPence int
	Stars      int
	Meta       entity.TxMeta
}

// ApprovalPlan is the precomputed outcome of approving one completion. The
// repository re-checks the pending precondition and the bonus dedup under
// row locks; everything in the plan that fails aborts the whole approval and
// leaves the completion pending.
type ApprovalPlan struct {
	FamilyID     string
	CompletionID string
	ApproverID   string
	WalletID     string
	RewardPence  int
	Stars        int
	RewardMeta   entity.TxMeta
	Bonus        *BonusCredit
}

type ApprovalResult struct {
	Completion   *entity.Completion
	Wallet       *entity.Wallet
	BonusApplied bool
}

type CompletionRepository interface {
	// CreateWithStreak inserts the completion and applies the streak update
	// as one atomic unit. The assignment row is locked first; when gate is
	// non-nil it is invoked with a consistent snapshot of the assignment's
	// bids, so the champion check and the insert are serialized per
	// assignment.
	CreateWithStreak(completion *entity.Completion, streak *entity.Streak, gate func(bids []*entity.Bid) error) (*entity.Completion, error)
	GetByID(familyID, completionID string) (*entity.Completion, error)
	ListByChild(familyID, childID string, limit, offset int) ([]*entity.Completion, error)
	ListPending(familyID string) ([]*entity.Completion, error)
	// SubmissionTimes returns the child's pending and approved submission
	// timestamps. Rejected completions are excluded going forward but a
	// rejection never removes a day already counted (see Reject).
	SubmissionTimes(familyID, childID string) ([]time.Time, error)
	ApprovedDays(familyID, childID string, from, to time.Time) ([]time.Time, error)
	CountApprovedInRange(familyID, childID string, from, to time.Time) (int, error)
	ApplyApproval(plan *ApprovalPlan) (*ApprovalResult, error)
	Reject(familyID, completionID, approverID, reason string) (*entity.Completion, error)
}

type completionRepository struct {
	db *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) CompletionRepository {
	return &completionRepository{db: db}
}

func (r *completionRepository) CreateWithStreak(completion *entity.Completion, streak *entity.Streak, gate func(bids []*entity.Bid) error) (*entity.Completion, error) {
	completionModel := ToCompletionModel(completion)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var assignmentModel model.AssignmentModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", completion.AssignmentID).
			First(&assignmentModel).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entity.ErrNotFound
			}
			return err
		}

		if gate != nil {
			var bidModels []model.BidModel
			err := tx.Where("assignment_id = ?", completion.AssignmentID).
				Order("created_at ASC").
				Find(&bidModels).Error
			if err != nil {
				return err
			}
			bids := make([]*entity.Bid, len(bidModels))
			for i := range bidModels {
				bids[i] = ToBidEntity(&bidModels[i])
			}
			if err := gate(bids); err != nil {
				return err
			}
		}

		if err := tx.Create(completionModel).Error; err != nil {
			return err
		}

		if streak != nil {
			streakModel := ToStreakModel(streak)
			if streakModel.ID == "" {
				if err := tx.Create(streakModel).Error; err != nil {
					return err
				}
				streak.ID = streakModel.ID
			} else {
				if err := tx.Save(streakModel).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return ToCompletionEntity(completionModel), nil
}

func (r *completionRepository) GetByID(familyID, completionID string) (*entity.Completion, error) {
	var completionModel model.CompletionModel
	if err := r.db.Where("family_id = ? AND id = ?", familyID, completionID).First(&completionModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToCompletionEntity(&completionModel), nil
}

func (r *completionRepository) ListByChild(familyID, childID string, limit, offset int) ([]*entity.Completion, error) {
	query := r.db.Where("family_id = ? AND child_id = ?", familyID, childID).Order("submitted_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var completionModels []model.CompletionModel
	if err := query.Find(&completionModels).Error; err != nil {
		return nil, err
	}
	return toCompletionEntities(completionModels), nil
}

func (r *completionRepository) ListPending(familyID string) ([]*entity.Completion, error) {
	var completionModels []model.CompletionModel
	err := r.db.Where("family_id = ? AND status = ?", familyID, string(entity.CompletionPending)).
		Order("submitted_at ASC").
		Find(&completionModels).Error
	if err != nil {
		return nil, err
	}
	return toCompletionEntities(completionModels), nil
}

func (r *completionRepository) SubmissionTimes(familyID, childID string) ([]time.Time, error) {
	var times []time.Time
	err := r.db.Model(&model.CompletionModel{}).
		Where("family_id = ? AND child_id = ? AND status IN ?", familyID, childID,
			[]string{string(entity.CompletionPending), string(entity.CompletionApproved)}).
		Order("submitted_at DESC").
		Pluck("submitted_at", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

func (r *completionRepository) ApprovedDays(familyID, childID string, from, to time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.Model(&model.CompletionModel{}).
		Where("family_id = ? AND child_id = ? AND status = ? AND submitted_at >= ? AND submitted_at < ?",
			familyID, childID, string(entity.CompletionApproved), from, to).
		Order("submitted_at ASC").
		Pluck("submitted_at", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

func (r *completionRepository) CountApprovedInRange(familyID, childID string, from, to time.Time) (int, error) {
	var count int64
	err := r.db.Model(&model.CompletionModel{}).
		Where("family_id = ? AND child_id = ? AND status = ? AND submitted_at >= ? AND submitted_at < ?",
			familyID, childID, string(entity.CompletionApproved), from, to).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// ApplyApproval performs the whole approval as one serialized unit: lock the
// completion row, re-check pending, credit the reward, apply the bonus if
// its dedup check still passes, then flip the status. Any failure rolls the
// entire unit back and the completion stays pending.
func (r *completionRepository) ApplyApproval(plan *ApprovalPlan) (*ApprovalResult, error) {
	result := &ApprovalResult{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var completionModel model.CompletionModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("family_id = ? AND id = ?", plan.FamilyID, plan.CompletionID).
			First(&completionModel).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entity.ErrNotFound
			}
			return err
		}
		if completionModel.Status != string(entity.CompletionPending) {
			return entity.ErrAlreadyProcessed
		}

		wallet, err := creditWalletTx(tx, plan.WalletID, plan.RewardPence, plan.Stars, entity.SourceChoreReward, plan.RewardMeta)
		if err != nil {
			return err
		}

		if plan.Bonus != nil {
			applied, err := applyBonusTx(tx, plan.WalletID, plan.Bonus)
			if err != nil {
				return err
			}
			result.BonusApplied = applied
			if applied {
				wallet.BalancePence += plan.Bonus.MoneyPence
				wallet.BalanceStars += plan.Bonus.Stars
			}
		}

		now := time.Now().UTC()
		completionModel.Status = string(entity.CompletionApproved)
		completionModel.ApprovedBy = &plan.ApproverID
		completionModel.ProcessedAt = &now
		if err := tx.Save(&completionModel).Error; err != nil {
			return err
		}

		result.Completion = ToCompletionEntity(&completionModel)
		result.Wallet = wallet
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// applyBonusTx credits the bonus unless a transaction with the same
// discriminator and milestone value already exists in the lookback window.
// The scan runs inside the approval transaction, so two concurrent approvals
// of the same milestone cannot both pass it.
func applyBonusTx(tx *gorm.DB, walletID string, bonus *BonusCredit) (bool, error) {
	// Take the wallet lock before scanning so concurrent approvals cannot
	// both see an empty window.
	if _, err := lockWallet(tx, walletID); err != nil {
		return false, err
	}

	since := time.Now().UTC().AddDate(0, 0, -bonusLookbackDays)

	var count int64
	err := tx.Model(&model.TransactionModel{}).
		Where("wallet_id = ? AND meta->>'type' = ? AND (meta->>'streak_length')::int = ? AND created_at >= ?",
			walletID, bonus.Meta.Type, bonus.Meta.StreakLength, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if _, err := creditWalletTx(tx, walletID, bonus.MoneyPence, bonus.Stars, entity.SourceStreakBonus, bonus.Meta); err != nil {
		return false, err
	}
	return true, nil
}

func (r *completionRepository) Reject(familyID, completionID, approverID, reason string) (*entity.Completion, error) {
	var rejected *entity.Completion

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var completionModel model.CompletionModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("family_id = ? AND id = ?", familyID, completionID).
			First(&completionModel).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entity.ErrNotFound
			}
			return err
		}
		if completionModel.Status != string(entity.CompletionPending) {
			return entity.ErrAlreadyProcessed
		}

		now := time.Now().UTC()
		completionModel.Status = string(entity.CompletionRejected)
		completionModel.ApprovedBy = &approverID
		completionModel.ProcessedAt = &now
		if reason != "" {
			if completionModel.Note != "" {
				completionModel.Note += " | "
			}
			completionModel.Note += "rejected: " + reason
		}
		if err := tx.Save(&completionModel).Error; err != nil {
			return err
		}

		rejected = ToCompletionEntity(&completionModel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rejected, nil
}

func toCompletionEntities(completionModels []model.CompletionModel) []*entity.Completion {
	completions := make([]*entity.Completion, len(completionModels))
	for i := range completionModels {
		completions[i] = ToCompletionEntity(&completionModels[i])
	}
	return completions
}
