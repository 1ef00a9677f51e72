package entity

import "time"

// Bid is one child's offer to perform a contested assignment for a given
// amount. Bids are never mutated or deleted; a lower bid from a sibling
// simply changes who the champion is on the next query.
type Bid struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	FamilyID     string    `json:"family_id"`
	ChildID      string    `json:"child_id"`
	AmountPence  int       `json:"amount_pence"`
	CreatedAt    time.Time `json:"created_at"`
}
