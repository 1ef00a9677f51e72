package entity

import "time"

type BonusType string

const (
	BonusMoney BonusType = "money"
	BonusStars BonusType = "stars"
	BonusBoth  BonusType = "both"
)

// Family is the single trust domain. Member management lives in an external
// collaborator; this core only reads families and their children.
type Family struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Child is the read model of a family member with the child role.
type Child struct {
	ID       string `json:"id"`
	FamilyID string `json:"family_id"`
	Name     string `json:"name"`
}

// FamilySettings is the per-family bonus and protection configuration. It is
// read-only to the core: fetched once per operation and threaded through as
// an immutable value, never held as ambient state.
type FamilySettings struct {
	FamilyID           string    `json:"family_id"`
	ProtectionDays     int       `json:"protection_days"`
	BonusEnabled       bool      `json:"bonus_enabled"`
	BonusDays          int       `json:"bonus_days"`
	BonusMoneyPence    int       `json:"bonus_money_pence"`
	BonusStars         int       `json:"bonus_stars"`
	BonusType          BonusType `json:"bonus_type"`
	StarRatePence      int       `json:"star_rate_pence"` // pence per star for purchases
	PerfectWeekEnabled bool      `json:"perfect_week_enabled"`
	PerfectWeekPence   int       `json:"perfect_week_pence"`
	PerfectWeekStars   int       `json:"perfect_week_stars"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type BonusKind string

const (
	BonusKindStreak      BonusKind = "streak"
	BonusKindMonthly     BonusKind = "monthly"
	BonusKindPerfectWeek BonusKind = "perfect_week"
)

// BonusAward is an authorized bonus payout. Only the fields relevant to its
// kind are populated; an award with zero money and zero stars is never
// recorded and does not count as awarded.
type BonusAward struct {
	Kind         BonusKind `json:"kind"`
	MoneyPence   int       `json:"money_pence,omitempty"`
	Stars        int       `json:"stars,omitempty"`
	StreakLength int       `json:"streak_length,omitempty"` // streak kind only
	Threshold    int       `json:"threshold,omitempty"`     // monthly kind only
}

// Empty reports whether the award carries no value at all.
func (a *BonusAward) Empty() bool {
	return a == nil || (a.MoneyPence == 0 && a.Stars == 0)
}
