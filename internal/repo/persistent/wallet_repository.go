package persistent

import (
	"errors"
	"time"

	"chore-clash/internal/entity"
	"chore-clash/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository interface {
	GetOrCreate(familyID, childID string) (*entity.Wallet, error)
	GetByChild(familyID, childID string) (*entity.Wallet, error)
	Credit(walletID string, amountPence, stars int, source string, meta entity.TxMeta) (*entity.Wallet, error)
	Debit(walletID string, amountPence int, source string, meta entity.TxMeta) (*entity.Wallet, error)
	Transactions(walletID string, limit, offset int) ([]*entity.Transaction, error)
	// RecentByMetaType returns transactions whose metadata discriminator
	// matches metaType, newest first, created at or after since. This is the
	// lookup behind every bonus idempotency check.
	RecentByMetaType(walletID, metaType string, since time.Time) ([]*entity.Transaction, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetOrCreate(familyID, childID string) (*entity.Wallet, error) {
	var walletModel model.WalletModel
	if err := r.db.Where("child_id = ?", childID).First(&walletModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			walletModel = model.WalletModel{
				FamilyID: familyID,
				ChildID:  childID,
			}
			if err := r.db.Create(&walletModel).Error; err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	return ToWalletEntity(&walletModel), nil
}

func (r *walletRepository) GetByChild(familyID, childID string) (*entity.Wallet, error) {
	var walletModel model.WalletModel
	if err := r.db.Where("family_id = ? AND child_id = ?", familyID, childID).First(&walletModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToWalletEntity(&walletModel), nil
}

// Credit atomically increments balances and appends one transaction. Credits
// never fail for overdraft.
func (r *walletRepository) Credit(walletID string, amountPence, stars int, source string, meta entity.TxMeta) (*entity.Wallet, error) {
	var wallet *entity.Wallet
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, err = creditWalletTx(tx, walletID, amountPence, stars, source, meta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// Debit atomically decrements the cash balance and appends one transaction.
// It fails with ErrInsufficientFunds without touching anything when the
// balance cannot cover the amount. Stars are never debited.
func (r *walletRepository) Debit(walletID string, amountPence int, source string, meta entity.TxMeta) (*entity.Wallet, error) {
	var wallet *entity.Wallet
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, err = debitWalletTx(tx, walletID, amountPence, source, meta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (r *walletRepository) Transactions(walletID string, limit, offset int) ([]*entity.Transaction, error) {
	query := r.db.Where("wallet_id = ?", walletID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var transactionModels []model.TransactionModel
	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}
	return toTransactionEntities(transactionModels), nil
}

func (r *walletRepository) RecentByMetaType(walletID, metaType string, since time.Time) ([]*entity.Transaction, error) {
	var transactionModels []model.TransactionModel
	err := r.db.
		Where("wallet_id = ? AND meta->>'type' = ? AND created_at >= ?", walletID, metaType, since).
		Order("created_at DESC").
		Find(&transactionModels).Error
	if err != nil {
		return nil, err
	}
	return toTransactionEntities(transactionModels), nil
}

// lockWallet takes the row lock that serializes every balance mutation.
func lockWallet(tx *gorm.DB, walletID string) (*model.WalletModel, error) {
	var walletModel model.WalletModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", walletID).
		First(&walletModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &walletModel, nil
}

func creditWalletTx(tx *gorm.DB, walletID string, amountPence, stars int, source string, meta entity.TxMeta) (*entity.Wallet, error) {
	walletModel, err := lockWallet(tx, walletID)
	if err != nil {
		return nil, err
	}

	walletModel.BalancePence += amountPence
	walletModel.BalanceStars += stars
	if err := tx.Save(walletModel).Error; err != nil {
		return nil, err
	}

	transactionModel := ToTransactionModel(&entity.Transaction{
		WalletID:    walletID,
		Type:        entity.TransactionCredit,
		AmountPence: amountPence,
		Stars:       stars,
		Source:      source,
		Meta:        meta,
	})
	if err := tx.Create(transactionModel).Error; err != nil {
		return nil, err
	}

	return ToWalletEntity(walletModel), nil
}

func debitWalletTx(tx *gorm.DB, walletID string, amountPence int, source string, meta entity.TxMeta) (*entity.Wallet, error) {
	walletModel, err := lockWallet(tx, walletID)
	if err != nil {
		return nil, err
	}

	if walletModel.BalancePence < amountPence {
		return nil, entity.ErrInsufficientFunds
	}

	walletModel.BalancePence -= amountPence
	if err := tx.Save(walletModel).Error; err != nil {
		return nil, err
	}

	transactionModel := ToTransactionModel(&entity.Transaction{
		WalletID:    walletID,
		Type:        entity.TransactionDebit,
		AmountPence: amountPence,
		Source:      source,
		Meta:        meta,
	})
	if err := tx.Create(transactionModel).Error; err != nil {
		return nil, err
	}

	return ToWalletEntity(walletModel), nil
}

func toTransactionEntities(transactionModels []model.TransactionModel) []*entity.Transaction {
	transactions := make([]*entity.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = ToTransactionEntity(&transactionModels[i])
	}
	return transactions
}
