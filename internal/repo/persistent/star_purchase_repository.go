package persistent

import (
	"errors"
	"time"

	"chore-clash/internal/entity"
	"chore-clash/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StarPurchaseResult struct {
	Purchase *entity.StarPurchase
	Wallet   *entity.Wallet
}

type StarPurchaseRepository interface {
	// Request debits the wallet and creates the pending purchase as one
	// atomic unit: the money is reserved before parent review. Fails with
	// ErrInsufficientFunds without any side effect.
	Request(purchase *entity.StarPurchase, walletID string) (*StarPurchaseResult, error)
	// Approve credits the requested stars and marks the purchase approved.
	Approve(familyID, purchaseID, approverID string, walletID string) (*StarPurchaseResult, error)
	// Reject refunds the reserved money and marks the purchase rejected.
	Reject(familyID, purchaseID, approverID string, walletID string) (*StarPurchaseResult, error)
	GetByID(familyID, purchaseID string) (*entity.StarPurchase, error)
	ListByChild(familyID, childID string) ([]*entity.StarPurchase, error)
	ListPending(familyID string) ([]*entity.StarPurchase, error)
}

type starPurchaseRepository struct {
	db *gorm.DB
}

func NewStarPurchaseRepository(db *gorm.DB) StarPurchaseRepository {
	return &starPurchaseRepository{db: db}
}

func (r *starPurchaseRepository) Request(purchase *entity.StarPurchase, walletID string) (*StarPurchaseResult, error) {
	purchaseModel := ToStarPurchaseModel(purchase)
	result := &StarPurchaseResult{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(purchaseModel).Error; err != nil {
			return err
		}

		wallet, err := debitWalletTx(tx, walletID, purchase.AmountPence, entity.SourceStarPurchase, entity.TxMeta{
			Type:           entity.SourceStarPurchase,
			StarPurchaseID: purchaseModel.ID,
		})
		if err != nil {
			return err
		}

		result.Purchase = ToStarPurchaseEntity(purchaseModel)
		result.Wallet = wallet
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *starPurchaseRepository) Approve(familyID, purchaseID, approverID string, walletID string) (*StarPurchaseResult, error) {
	return r.settle(familyID, purchaseID, approverID, walletID, entity.StarPurchaseApproved)
}

func (r *starPurchaseRepository) Reject(familyID, purchaseID, approverID string, walletID string) (*StarPurchaseResult, error) {
	return r.settle(familyID, purchaseID, approverID, walletID, entity.StarPurchaseRejected)
}

// settle performs a terminal transition: lock the purchase row, re-check
// pending, apply the matching ledger mutation and flip the status, all in
// one transaction. Approval credits stars only; rejection refunds the money
// only, so neither side can double-credit.
func (r *starPurchaseRepository) settle(familyID, purchaseID, approverID, walletID string, target entity.StarPurchaseStatus) (*StarPurchaseResult, error) {
	result := &StarPurchaseResult{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var purchaseModel model.StarPurchaseModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("family_id = ? AND id = ?", familyID, purchaseID).
			First(&purchaseModel).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entity.ErrNotFound
			}
			return err
		}
		if purchaseModel.Status != string(entity.StarPurchasePending) {
			return entity.ErrAlreadyProcessed
		}

		var wallet *entity.Wallet
		if target == entity.StarPurchaseApproved {
			wallet, err = creditWalletTx(tx, walletID, 0, purchaseModel.StarsRequested, entity.SourceStarPurchase, entity.TxMeta{
				Type:           entity.SourceStarPurchase,
				StarPurchaseID: purchaseModel.ID,
			})
		} else {
			wallet, err = creditWalletTx(tx, walletID, purchaseModel.AmountPence, 0, entity.SourceStarPurchaseRefund, entity.TxMeta{
				Type:           entity.SourceStarPurchaseRefund,
				StarPurchaseID: purchaseModel.ID,
			})
		}
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		purchaseModel.Status = string(target)
		purchaseModel.ProcessedBy = &approverID
		purchaseModel.ProcessedAt = &now
		if err := tx.Save(&purchaseModel).Error; err != nil {
			return err
		}

		result.Purchase = ToStarPurchaseEntity(&purchaseModel)
		result.Wallet = wallet
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *starPurchaseRepository) GetByID(familyID, purchaseID string) (*entity.StarPurchase, error) {
	var purchaseModel model.StarPurchaseModel
	if err := r.db.Where("family_id = ? AND id = ?", familyID, purchaseID).First(&purchaseModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToStarPurchaseEntity(&purchaseModel), nil
}

func (r *starPurchaseRepository) ListByChild(familyID, childID string) ([]*entity.StarPurchase, error) {
	var purchaseModels []model.StarPurchaseModel
	err := r.db.Where("family_id = ? AND child_id = ?", familyID, childID).
		Order("created_at DESC").
		Find(&purchaseModels).Error
	if err != nil {
		return nil, err
	}
	return toStarPurchaseEntities(purchaseModels), nil
}

func (r *starPurchaseRepository) ListPending(familyID string) ([]*entity.StarPurchase, error) {
	var purchaseModels []model.StarPurchaseModel
	err := r.db.Where("family_id = ? AND status = ?", familyID, string(entity.StarPurchasePending)).
		Order("created_at ASC").
		Find(&purchaseModels).Error
	if err != nil {
		return nil, err
	}
	return toStarPurchaseEntities(purchaseModels), nil
}

func toStarPurchaseEntities(purchaseModels []model.StarPurchaseModel) []*entity.StarPurchase {
	purchases := make([]*entity.StarPurchase, len(purchaseModels))
	for i := range purchaseModels {
		purchases[i] = ToStarPurchaseEntity(&purchaseModels[i])
	}
	return purchases
}
