package entity

import "time"

// Streak is the incrementally maintained consecutive-day counter for one
// (child, chore) pair. It is updated on every submission, not on approval:
// same-day resubmission is a no-op, a consecutive day increments Current,
// any other gap resets Current to 1 and marks the streak disrupted.
type Streak struct {
	ID                string    `json:"id"`
	FamilyID          string    `json:"family_id"`
	ChildID           string    `json:"child_id"`
	ChoreID           string    `json:"chore_id"`
	Current           int       `json:"current"`
	Best              int       `json:"best"`
	LastIncrementDate time.Time `json:"last_increment_date"`
	IsDisrupted       bool      `json:"is_disrupted"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// StreakSummary is the derived all-chores view for one child: the walk over
// their full submission history plus the informational display percentage.
// BonusPercent does not feed the milestone awarder, which uses the family's
// own configured amounts.
type StreakSummary struct {
	ChildID      string `json:"child_id"`
	Current      int    `json:"current"`
	Best         int    `json:"best"`
	BonusPercent int    `json:"bonus_percent"`
}
