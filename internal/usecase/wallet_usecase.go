package usecase

import (
	"fmt"

	"chore-clash/internal/entity"
	"chore-clash/internal/repo/persistent"
	"chore-clash/pkg/logger"
)

type StarPurchaseOutcome struct {
	Purchase *entity.StarPurchase `json:"purchase"`
	Wallet   *entity.Wallet       `json:"wallet"`
}

type WalletUseCase interface {
	GetWallet(familyID, childID string) (*entity.Wallet, error)
	// TopUp is a parent crediting pocket money straight into the wallet.
	TopUp(familyID, childID string, amountPence int) (*entity.Wallet, error)
	Transactions(familyID, childID string, limit, offset int) ([]*entity.Transaction, error)

	// RequestStarPurchase debits money at the family's conversion rate and
	// creates a pending purchase; the money is reserved before review.
	RequestStarPurchase(familyID, childID string, starsRequested int) (*StarPurchaseOutcome, error)
	ApproveStarPurchase(familyID, approverID, purchaseID string) (*StarPurchaseOutcome, error)
	RejectStarPurchase(familyID, approverID, purchaseID string) (*StarPurchaseOutcome, error)
	ListStarPurchases(familyID, childID string) ([]*entity.StarPurchase, error)
	ListPendingStarPurchases(familyID string) ([]*entity.StarPurchase, error)
}

type walletUseCase struct {
	walletRepo       persistent.WalletRepository
	starPurchaseRepo persistent.StarPurchaseRepository
	familyRepo       persistent.FamilyRepository
	events           EventPublisher
	cache            CacheInvalidator
	logger           *logger.Logger
}

func NewWalletUseCase(
	walletRepo persistent.WalletRepository,
	starPurchaseRepo persistent.StarPurchaseRepository,
	familyRepo persistent.FamilyRepository,
	events EventPublisher,
	cache CacheInvalidator,
	logger *logger.Logger,
) WalletUseCase {
	return &walletUseCase{
		walletRepo:       walletRepo,
		starPurchaseRepo: starPurchaseRepo,
		familyRepo:       familyRepo,
		events:           events,
		cache:            cache,
		logger:           logger,
	}
}

func (uc *walletUseCase) GetWallet(familyID, childID string) (*entity.Wallet, error) {
	if _, err := uc.familyRepo.GetChild(familyID, childID); err != nil {
		return nil, fmt.Errorf("failed to load child: %w", err)
	}
	wallet, err := uc.walletRepo.GetOrCreate(familyID, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

func (uc *walletUseCase) TopUp(familyID, childID string, amountPence int) (*entity.Wallet, error) {
	if amountPence <= 0 {
		return nil, fmt.Errorf("top up amount must be positive")
	}
	wallet, err := uc.GetWallet(familyID, childID)
	if err != nil {
		return nil, err
	}

	wallet, err = uc.walletRepo.Credit(wallet.ID, amountPence, 0, entity.SourceTopUp, entity.TxMeta{Type: entity.SourceTopUp})
	if err != nil {
		return nil, fmt.Errorf("failed to top up wallet: %w", err)
	}

	uc.invalidateWallet(wallet.ID)
	return wallet, nil
}

func (uc *walletUseCase) Transactions(familyID, childID string, limit, offset int) ([]*entity.Transaction, error) {
	wallet, err := uc.GetWallet(familyID, childID)
	if err != nil {
		return nil, err
	}
	transactions, err := uc.walletRepo.Transactions(wallet.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}

func (uc *walletUseCase) RequestStarPurchase(familyID, childID string, starsRequested int) (*StarPurchaseOutcome, error) {
	if starsRequested <= 0 {
		return nil, fmt.Errorf("stars requested must be positive")
	}

	settings, err := uc.familyRepo.GetSettings(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load family settings: %w", err)
	}
	wallet, err := uc.GetWallet(familyID, childID)
	if err != nil {
		return nil, err
	}

	purchase := &entity.StarPurchase{
		FamilyID:            familyID,
		ChildID:             childID,
		AmountPence:         starsRequested * settings.StarRatePence,
		StarsRequested:      starsRequested,
		ConversionRatePence: settings.StarRatePence,
		Status:              entity.StarPurchasePending,
	}

	result, err := uc.starPurchaseRepo.Request(purchase, wallet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to request star purchase: %w", err)
	}

	uc.publish(entity.EventStarPurchaseCreated, &entity.StarPurchaseEvent{Purchase: result.Purchase, Wallet: result.Wallet})
	uc.invalidateWallet(wallet.ID)
	uc.invalidateFamily(familyID)

	return &StarPurchaseOutcome{Purchase: result.Purchase, Wallet: result.Wallet}, nil
}

func (uc *walletUseCase) ApproveStarPurchase(familyID, approverID, purchaseID string) (*StarPurchaseOutcome, error) {
	return uc.settleStarPurchase(familyID, approverID, purchaseID, true)
}

func (uc *walletUseCase) RejectStarPurchase(familyID, approverID, purchaseID string) (*StarPurchaseOutcome, error) {
	return uc.settleStarPurchase(familyID, approverID, purchaseID, false)
}

func (uc *walletUseCase) settleStarPurchase(familyID, approverID, purchaseID string, approve bool) (*StarPurchaseOutcome, error) {
	purchase, err := uc.starPurchaseRepo.GetByID(familyID, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load star purchase: %w", err)
	}
	wallet, err := uc.walletRepo.GetOrCreate(familyID, purchase.ChildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	var result *persistent.StarPurchaseResult
	var event string
	if approve {
		result, err = uc.starPurchaseRepo.Approve(familyID, purchaseID, approverID, wallet.ID)
		event = entity.EventStarPurchaseApproved
	} else {
		result, err = uc.starPurchaseRepo.Reject(familyID, purchaseID, approverID, wallet.ID)
		event = entity.EventStarPurchaseRejected
	}
	if err != nil {
		return nil, fmt.Errorf("failed to settle star purchase: %w", err)
	}

	uc.publish(event, &entity.StarPurchaseEvent{Purchase: result.Purchase, Wallet: result.Wallet})
	uc.invalidateWallet(wallet.ID)
	uc.invalidateFamily(familyID)

	return &StarPurchaseOutcome{Purchase: result.Purchase, Wallet: result.Wallet}, nil
}

func (uc *walletUseCase) ListStarPurchases(familyID, childID string) ([]*entity.StarPurchase, error) {
	purchases, err := uc.starPurchaseRepo.ListByChild(familyID, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to list star purchases: %w", err)
	}
	return purchases, nil
}

func (uc *walletUseCase) ListPendingStarPurchases(familyID string) ([]*entity.StarPurchase, error) {
	purchases, err := uc.starPurchaseRepo.ListPending(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending star purchases: %w", err)
	}
	return purchases, nil
}

func (uc *walletUseCase) publish(routingKey string, payload interface{}) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(routingKey, payload); err != nil {
		uc.logger.Warn("Failed to publish %s event: %v", routingKey, err)
	}
}

func (uc *walletUseCase) invalidateWallet(walletID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateWallet(walletID); err != nil {
		uc.logger.Warn("Failed to invalidate wallet cache: %v", err)
	}
}

func (uc *walletUseCase) invalidateFamily(familyID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateFamily(familyID); err != nil {
		uc.logger.Warn("Failed to invalidate family cache: %v", err)
	}
}
