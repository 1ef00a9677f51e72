package entity

import "time"

type ChoreFrequency string

const (
	FrequencyDaily  ChoreFrequency = "daily"
	FrequencyWeekly ChoreFrequency = "weekly"
	FrequencyOnce   ChoreFrequency = "once"
)

// Chore is a task definition owned by the family. RewardPence is the base
// cash reward in minor currency units; StarOverride, when set, replaces the
// derived star award for every completion of this chore.
type Chore struct {
	ID           string         `json:"id"`
	FamilyID     string         `json:"family_id"`
	Title        string         `json:"title"`
	RewardPence  int            `json:"reward_pence"`
	StarOverride *int           `json:"star_override,omitempty"`
	Frequency    ChoreFrequency `json:"frequency"`
	Active       bool           `json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// StarsFor derives the star award for a given cash reward: the chore's
// fixed override if set, otherwise one star per 10 pence with a floor of 1.
func (c *Chore) StarsFor(rewardPence int) int {
	if c.StarOverride != nil {
		return *c.StarOverride
	}
	stars := rewardPence / 10
	if stars < 1 {
		stars = 1
	}
	return stars
}

// Assignment binds a chore to one specific child or leaves it open to the
// whole family. BiddingEnabled switches the assignment into showdown mode
// where only the current bid champion may submit a completion.
type Assignment struct {
	ID             string    `json:"id"`
	FamilyID       string    `json:"family_id"`
	ChoreID        string    `json:"chore_id"`
	ChildID        string    `json:"child_id,omitempty"` // empty = open assignment
	BiddingEnabled bool      `json:"bidding_enabled"`
	CreatedAt      time.Time `json:"created_at"`
}
