package persistent

import (
	"encoding/json"

	"chore-clash/internal/entity"
	"chore-clash/internal/model"
)

// Optional uuid references are NULL in the database but plain strings on the
// entities; "" maps to NULL and back.

func toNullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func fromNullableID(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

func ToChoreEntity(m *model.ChoreModel) *entity.Chore {
	if m == nil {
		return nil
	}

	return &entity.Chore{
		ID:           m.ID,
		FamilyID:     m.FamilyID,
		Title:        m.Title,
		RewardPence:  m.RewardPence,
		StarOverride: m.StarOverride,
		Frequency:    entity.ChoreFrequency(m.Frequency),
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToChoreModel(e *entity.Chore) *model.ChoreModel {
	if e == nil {
		return nil
	}

	return &model.ChoreModel{
		ID:           e.ID,
		FamilyID:     e.FamilyID,
		Title:        e.Title,
		RewardPence:  e.RewardPence,
		StarOverride: e.StarOverride,
		Frequency:    string(e.Frequency),
		Active:       e.Active,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func ToAssignmentEntity(m *model.AssignmentModel) *entity.Assignment {
	if m == nil {
		return nil
	}

	return &entity.Assignment{
		ID:             m.ID,
		FamilyID:       m.FamilyID,
		ChoreID:        m.ChoreID,
		ChildID:        fromNullableID(m.ChildID),
		BiddingEnabled: m.BiddingEnabled,
		CreatedAt:      m.CreatedAt,
	}
}

func ToAssignmentModel(e *entity.Assignment) *model.AssignmentModel {
	if e == nil {
		return nil
	}

	return &model.AssignmentModel{
		ID:             e.ID,
		FamilyID:       e.FamilyID,
		ChoreID:        e.ChoreID,
		ChildID:        toNullableID(e.ChildID),
		BiddingEnabled: e.BiddingEnabled,
		CreatedAt:      e.CreatedAt,
	}
}

func ToBidEntity(m *model.BidModel) *entity.Bid {
	if m == nil {
		return nil
	}

	return &entity.Bid{
		ID:           m.ID,
		AssignmentID: m.AssignmentID,
		FamilyID:     m.FamilyID,
		ChildID:      m.ChildID,
		AmountPence:  m.AmountPence,
		CreatedAt:    m.CreatedAt,
	}
}

func ToBidModel(e *entity.Bid) *model.BidModel {
	if e == nil {
		return nil
	}

	return &model.BidModel{
		ID:           e.ID,
		AssignmentID: e.AssignmentID,
		FamilyID:     e.FamilyID,
		ChildID:      e.ChildID,
		AmountPence:  e.AmountPence,
		CreatedAt:    e.CreatedAt,
	}
}

func ToCompletionEntity(m *model.CompletionModel) *entity.Completion {
	if m == nil {
		return nil
	}

	return &entity.Completion{
		ID:             m.ID,
		AssignmentID:   m.AssignmentID,
		ChoreID:        m.ChoreID,
		FamilyID:       m.FamilyID,
		ChildID:        m.ChildID,
		Status:         entity.CompletionStatus(m.Status),
		BidAmountPence: m.BidAmountPence,
		Note:           m.Note,
		ProofURL:       m.ProofURL,
		SubmittedAt:    m.SubmittedAt,
		ApprovedBy:     fromNullableID(m.ApprovedBy),
		ProcessedAt:    m.ProcessedAt,
	}
}

func ToCompletionModel(e *entity.Completion) *model.CompletionModel {
	if e == nil {
		return nil
	}

	return &model.CompletionModel{
		ID:             e.ID,
		AssignmentID:   e.AssignmentID,
		ChoreID:        e.ChoreID,
		FamilyID:       e.FamilyID,
		ChildID:        e.ChildID,
		Status:         string(e.Status),
		BidAmountPence: e.BidAmountPence,
		Note:           e.Note,
		ProofURL:       e.ProofURL,
		SubmittedAt:    e.SubmittedAt,
		ApprovedBy:     toNullableID(e.ApprovedBy),
		ProcessedAt:    e.ProcessedAt,
	}
}

func ToStreakEntity(m *model.StreakModel) *entity.Streak {
	if m == nil {
		return nil
	}

	return &entity.Streak{
		ID:                m.ID,
		FamilyID:          m.FamilyID,
		ChildID:           m.ChildID,
		ChoreID:           m.ChoreID,
		Current:           m.Current,
		Best:              m.Best,
		LastIncrementDate: m.LastIncrementDate,
		IsDisrupted:       m.IsDisrupted,
		UpdatedAt:         m.UpdatedAt,
	}
}

func ToStreakModel(e *entity.Streak) *model.StreakModel {
	if e == nil {
		return nil
	}

	return &model.StreakModel{
		ID:                e.ID,
		FamilyID:          e.FamilyID,
		ChildID:           e.ChildID,
		ChoreID:           e.ChoreID,
		Current:           e.Current,
		Best:              e.Best,
		LastIncrementDate: e.LastIncrementDate,
		IsDisrupted:       e.IsDisrupted,
		UpdatedAt:         e.UpdatedAt,
	}
}

func ToWalletEntity(m *model.WalletModel) *entity.Wallet {
	if m == nil {
		return nil
	}

	return &entity.Wallet{
		ID:           m.ID,
		FamilyID:     m.FamilyID,
		ChildID:      m.ChildID,
		BalancePence: m.BalancePence,
		BalanceStars: m.BalanceStars,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToWalletModel(e *entity.Wallet) *model.WalletModel {
	if e == nil {
		return nil
	}

	return &model.WalletModel{
		ID:           e.ID,
		FamilyID:     e.FamilyID,
		ChildID:      e.ChildID,
		BalancePence: e.BalancePence,
		BalanceStars: e.BalanceStars,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func ToTransactionEntity(m *model.TransactionModel) *entity.Transaction {
	if m == nil {
		return nil
	}

	var meta entity.TxMeta
	if m.MetaJSON != "" {
		// a malformed row leaves meta zero-valued
		_ = json.Unmarshal([]byte(m.MetaJSON), &meta)
	}

	return &entity.Transaction{
		ID:          m.ID,
		WalletID:    m.WalletID,
		Type:        entity.TransactionType(m.Type),
		AmountPence: m.AmountPence,
		Stars:       m.Stars,
		Source:      m.Source,
		Meta:        meta,
		CreatedAt:   m.CreatedAt,
	}
}

func ToTransactionModel(e *entity.Transaction) *model.TransactionModel {
	if e == nil {
		return nil
	}

	raw, err := json.Marshal(e.Meta)
	if err != nil {
		raw = []byte("{}")
	}

	return &model.TransactionModel{
		ID:          e.ID,
		WalletID:    e.WalletID,
		Type:        string(e.Type),
		AmountPence: e.AmountPence,
		Stars:       e.Stars,
		Source:      e.Source,
		MetaJSON:    string(raw),
		CreatedAt:   e.CreatedAt,
	}
}

func ToStarPurchaseEntity(m *model.StarPurchaseModel) *entity.StarPurchase {
	if m == nil {
		return nil
	}

	return &entity.StarPurchase{
		ID:                  m.ID,
		FamilyID:            m.FamilyID,
		ChildID:             m.ChildID,
		AmountPence:         m.AmountPence,
		StarsRequested:      m.StarsRequested,
		ConversionRatePence: m.ConversionRatePence,
		Status:              entity.StarPurchaseStatus(m.Status),
		ProcessedBy:         fromNullableID(m.ProcessedBy),
		ProcessedAt:         m.ProcessedAt,
		CreatedAt:           m.CreatedAt,
	}
}

func ToStarPurchaseModel(e *entity.StarPurchase) *model.StarPurchaseModel {
	if e == nil {
		return nil
	}

	return &model.StarPurchaseModel{
		ID:                  e.ID,
		FamilyID:            e.FamilyID,
		ChildID:             e.ChildID,
		AmountPence:         e.AmountPence,
		StarsRequested:      e.StarsRequested,
		ConversionRatePence: e.ConversionRatePence,
		Status:              string(e.Status),
		ProcessedBy:         toNullableID(e.ProcessedBy),
		ProcessedAt:         e.ProcessedAt,
		CreatedAt:           e.CreatedAt,
	}
}

func ToFamilySettingsEntity(m *model.FamilySettingsModel) *entity.FamilySettings {
	if m == nil {
		return nil
	}

	return &entity.FamilySettings{
		FamilyID:           m.FamilyID,
		ProtectionDays:     m.ProtectionDays,
		BonusEnabled:       m.BonusEnabled,
		BonusDays:          m.BonusDays,
		BonusMoneyPence:    m.BonusMoneyPence,
		BonusStars:         m.BonusStars,
		BonusType:          entity.BonusType(m.BonusType),
		StarRatePence:      m.StarRatePence,
		PerfectWeekEnabled: m.PerfectWeekEnabled,
		PerfectWeekPence:   m.PerfectWeekPence,
		PerfectWeekStars:   m.PerfectWeekStars,
		UpdatedAt:          m.UpdatedAt,
	}
}

func ToChildEntity(m *model.ChildModel) *entity.Child {
	if m == nil {
		return nil
	}

	return &entity.Child{
		ID:       m.ID,
		FamilyID: m.FamilyID,
		Name:     m.Name,
	}
}
