package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BidModel struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	AssignmentID string    `gorm:"type:uuid;not null;index" json:"assignment_id"`
	FamilyID     string    `gorm:"type:uuid;not null;index" json:"family_id"`
	ChildID      string    `gorm:"type:uuid;not null;index" json:"child_id"`
	AmountPence  int       `gorm:"not null" json:"amount_pence"`
	CreatedAt    time.Time `json:"created_at"`
}

func (BidModel) TableName() string {
	return "bids"
}

func (b *BidModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}
