package entity

import "time"

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// Transaction sources.
const (
	SourceChoreReward        = "chore_reward"
	SourceStreakBonus        = "streak_bonus"
	SourceMonthlyBonus       = "monthly_bonus"
	SourcePerfectWeekBonus   = "perfect_week_bonus"
	SourceStarPurchase       = "star_purchase"
	SourceStarPurchaseRefund = "star_purchase_refund"
	SourceTopUp              = "top_up"
)

// Wallet is the per-child balance record: cash in pence plus stars. It is
// mutated only through ledger transactions, never written directly.
type Wallet struct {
	ID           string    `json:"id"`
	FamilyID     string    `json:"family_id"`
	ChildID      string    `json:"child_id"`
	BalancePence int       `json:"balance_pence"`
	BalanceStars int       `json:"balance_stars"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TxMeta is the structured metadata attached to every transaction. The Type
// discriminator plus the value fields (StreakLength, Threshold, Month,
// WeekStart) are the ledger's only "already paid" memory, so bonus writers
// must always populate them.
type TxMeta struct {
	Type            string `json:"type,omitempty"`
	CompletionID    string `json:"completion_id,omitempty"`
	StarPurchaseID  string `json:"star_purchase_id,omitempty"`
	RivalryBonus    bool   `json:"rivalry_bonus,omitempty"`
	BaseRewardPence int    `json:"base_reward_pence,omitempty"`
	StreakLength    int    `json:"streak_length,omitempty"`
	Threshold       int    `json:"threshold,omitempty"`
	Month           string `json:"month,omitempty"`      // YYYY-MM
	WeekStart       string `json:"week_start,omitempty"` // YYYY-MM-DD
}

// Transaction is one append-only ledger entry. AmountPence and Stars are the
// deltas applied to the wallet; for debits AmountPence is the amount taken.
type Transaction struct {
	ID          string          `json:"id"`
	WalletID    string          `json:"wallet_id"`
	Type        TransactionType `json:"type"`
	AmountPence int             `json:"amount_pence"`
	Stars       int             `json:"stars"`
	Source      string          `json:"source"`
	Meta        TxMeta          `json:"meta"`
	CreatedAt   time.Time       `json:"created_at"`
}
