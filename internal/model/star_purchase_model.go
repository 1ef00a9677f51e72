package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StarPurchaseModel struct {
	ID                  string     `gorm:"type:uuid;primary_key" json:"id"`
	FamilyID            string     `gorm:"type:uuid;not null;index" json:"family_id"`
	ChildID             string     `gorm:"type:uuid;not null;index" json:"child_id"`
	AmountPence         int        `gorm:"not null" json:"amount_pence"`
	StarsRequested      int        `gorm:"not null" json:"stars_requested"`
	ConversionRatePence int        `gorm:"not null" json:"conversion_rate_pence"`
	Status              string     `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	ProcessedBy         *string    `gorm:"type:uuid" json:"processed_by,omitempty"`
	ProcessedAt         *time.Time `json:"processed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func (StarPurchaseModel) TableName() string {
	return "star_purchases"
}

func (s *StarPurchaseModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
