package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WalletModel struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	FamilyID     string    `gorm:"type:uuid;not null;index" json:"family_id"`
	ChildID      string    `gorm:"type:uuid;uniqueIndex;not null" json:"child_id"`
	BalancePence int       `gorm:"default:0" json:"balance_pence"`
	BalanceStars int       `gorm:"default:0" json:"balance_stars"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (WalletModel) TableName() string {
	return "wallets"
}

func (w *WalletModel) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}

type TransactionModel struct {
	ID          string    `gorm:"type:uuid;primary_key" json:"id"`
	WalletID    string    `gorm:"type:uuid;not null;index" json:"wallet_id"`
	Type        string    `gorm:"type:varchar(10);not null" json:"type"`
	AmountPence int       `gorm:"not null" json:"amount_pence"`
	Stars       int       `gorm:"default:0" json:"stars"`
	Source      string    `gorm:"type:varchar(40);not null" json:"source"`
	MetaJSON    string    `gorm:"column:meta;type:jsonb;default:'{}'" json:"meta"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}

func (t *TransactionModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
