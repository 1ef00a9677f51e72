package entity

import "errors"

var (
	// ErrNotFound is returned when an assignment, child, completion,
	// wallet or star purchase does not exist in the caller's family.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyProcessed is returned when a completion or star purchase
	// is no longer pending. The transition out of pending happens exactly
	// once; a repeat is a conflict, not a retryable failure.
	ErrAlreadyProcessed = errors.New("already processed")

	// ErrChallengeLocked is returned when another child holds the lowest
	// bid on a bidding-enabled assignment.
	ErrChallengeLocked = errors.New("another child holds the winning bid")

	// ErrNoChampionYet is returned when a bidding-enabled assignment has
	// no bids at all, so nobody may submit yet.
	ErrNoChampionYet = errors.New("no bids placed on this assignment yet")

	// ErrInsufficientFunds is returned when a debit would overdraw the
	// wallet. No partial debit ever occurs.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
