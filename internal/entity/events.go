package entity

// Routing keys for domain events published to the notification collaborator.
// Delivery is best-effort: a failed publish never rolls back the state
// change it announces.
const (
	EventCompletionCreated    = "completion.created"
	EventCompletionApproved   = "completion.approved"
	EventCompletionRejected   = "completion.rejected"
	EventStarPurchaseCreated  = "starpurchase.created"
	EventStarPurchaseApproved = "starpurchase.approved"
	EventStarPurchaseRejected = "starpurchase.rejected"
)

// CompletionEvent carries the completion, its chore and, for approvals, the
// resulting wallet snapshot plus any rivalry/streak-bonus payload.
type CompletionEvent struct {
	Completion   *Completion `json:"completion"`
	Chore        *Chore      `json:"chore"`
	Wallet       *Wallet     `json:"wallet,omitempty"`
	RewardPence  int         `json:"reward_pence,omitempty"`
	Stars        int         `json:"stars,omitempty"`
	RivalryBonus bool        `json:"rivalry_bonus,omitempty"`
	StreakBonus  *BonusAward `json:"streak_bonus,omitempty"`
}

// StarPurchaseEvent carries a star purchase transition and the wallet after it.
type StarPurchaseEvent struct {
	Purchase *StarPurchase `json:"purchase"`
	Wallet   *Wallet       `json:"wallet,omitempty"`
}
