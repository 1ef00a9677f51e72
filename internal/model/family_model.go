package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FamilyModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (FamilyModel) TableName() string {
	return "families"
}

func (f *FamilyModel) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

type ChildModel struct {
	ID       string `gorm:"type:uuid;primary_key" json:"id"`
	FamilyID string `gorm:"type:uuid;not null;index" json:"family_id"`
	Name     string `gorm:"type:varchar(120);not null" json:"name"`
}

func (ChildModel) TableName() string {
	return "children"
}

func (c *ChildModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

type FamilySettingsModel struct {
	FamilyID           string    `gorm:"type:uuid;primary_key" json:"family_id"`
	ProtectionDays     int       `gorm:"default:0" json:"protection_days"`
	BonusEnabled       bool      `gorm:"default:false" json:"bonus_enabled"`
	BonusDays          int       `gorm:"default:0" json:"bonus_days"`
	BonusMoneyPence    int       `gorm:"default:0" json:"bonus_money_pence"`
	BonusStars         int       `gorm:"default:0" json:"bonus_stars"`
	BonusType          string    `gorm:"type:varchar(10);default:'money'" json:"bonus_type"`
	StarRatePence      int       `gorm:"default:10" json:"star_rate_pence"`
	PerfectWeekEnabled bool      `gorm:"default:false" json:"perfect_week_enabled"`
	PerfectWeekPence   int       `gorm:"default:0" json:"perfect_week_pence"`
	PerfectWeekStars   int       `gorm:"default:0" json:"perfect_week_stars"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (FamilySettingsModel) TableName() string {
	return "family_settings"
}
