package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompletionModel struct {
	ID             string     `gorm:"type:uuid;primary_key" json:"id"`
	AssignmentID   string     `gorm:"type:uuid;not null;index" json:"assignment_id"`
	ChoreID        string     `gorm:"type:uuid;not null;index" json:"chore_id"`
	FamilyID       string     `gorm:"type:uuid;not null;index" json:"family_id"`
	ChildID        string     `gorm:"type:uuid;not null;index" json:"child_id"`
	Status         string     `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	BidAmountPence *int       `json:"bid_amount_pence,omitempty"`
	Note           string     `gorm:"type:text" json:"note,omitempty"`
	ProofURL       string     `gorm:"type:text" json:"proof_url,omitempty"`
	SubmittedAt    time.Time  `gorm:"not null;index" json:"submitted_at"`
	ApprovedBy     *string    `gorm:"type:uuid" json:"approved_by,omitempty"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
}

func (CompletionModel) TableName() string {
	return "completions"
}

func (c *CompletionModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
