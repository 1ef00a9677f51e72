package entity

import "time"

type CompletionStatus string

const (
	CompletionPending  CompletionStatus = "pending"
	CompletionApproved CompletionStatus = "approved"
	CompletionRejected CompletionStatus = "rejected"
)

// Completion is one attempt by one child to finish one assignment. Status
// moves pending→approved or pending→rejected exactly once and is never
// reversed. SubmittedAt is the authoritative moment for streak purposes,
// so a slow parent review never costs the child a streak day.
type Completion struct {
	ID             string           `json:"id"`
	AssignmentID   string           `json:"assignment_id"`
	ChoreID        string           `json:"chore_id"`
	FamilyID       string           `json:"family_id"`
	ChildID        string           `json:"child_id"`
	Status         CompletionStatus `json:"status"`
	BidAmountPence *int             `json:"bid_amount_pence,omitempty"` // champion's winning bid, captured at submit
	Note           string           `json:"note,omitempty"`
	ProofURL       string           `json:"proof_url,omitempty"`
	SubmittedAt    time.Time        `json:"submitted_at"`
	ApprovedBy     string           `json:"approved_by,omitempty"`
	ProcessedAt    *time.Time       `json:"processed_at,omitempty"`
}
