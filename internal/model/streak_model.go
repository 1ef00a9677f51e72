package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StreakModel struct {
	ID                string    `gorm:"type:uuid;primary_key" json:"id"`
	FamilyID          string    `gorm:"type:uuid;not null;index" json:"family_id"`
	ChildID           string    `gorm:"type:uuid;not null;uniqueIndex:idx_streak_child_chore" json:"child_id"`
	ChoreID           string    `gorm:"type:uuid;not null;uniqueIndex:idx_streak_child_chore" json:"chore_id"`
	Current           int       `gorm:"default:0" json:"current"`
	Best              int       `gorm:"default:0" json:"best"`
	LastIncrementDate time.Time `json:"last_increment_date"`
	IsDisrupted       bool      `gorm:"default:false" json:"is_disrupted"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (StreakModel) TableName() string {
	return "streaks"
}

func (s *StreakModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
