package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChoreModel struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	FamilyID     string    `gorm:"type:uuid;not null;index" json:"family_id"`
	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	RewardPence  int       `gorm:"not null" json:"reward_pence"`
	StarOverride *int      `json:"star_override,omitempty"`
	Frequency    string    `gorm:"type:varchar(10);not null;default:'once'" json:"frequency"`
	Active       bool      `gorm:"default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ChoreModel) TableName() string {
	return "chores"
}

func (c *ChoreModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

type AssignmentModel struct {
	ID             string    `gorm:"type:uuid;primary_key" json:"id"`
	FamilyID       string    `gorm:"type:uuid;not null;index" json:"family_id"`
	ChoreID        string    `gorm:"type:uuid;not null;index" json:"chore_id"`
	// nil for open assignments, so no empty string reaches the uuid column
	ChildID        *string   `gorm:"type:uuid;index" json:"child_id,omitempty"`
	BiddingEnabled bool      `gorm:"default:false" json:"bidding_enabled"`
	CreatedAt      time.Time `json:"created_at"`
}

func (AssignmentModel) TableName() string {
	return "assignments"
}

func (a *AssignmentModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
