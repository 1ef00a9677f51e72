package usecase

// EventPublisher delivers domain events to the notification collaborator.
// Delivery is best-effort: publish failures are logged and swallowed by the
// callers, never propagated.
type EventPublisher interface {
	Publish(routingKey string, payload interface{}) error
}

// CacheInvalidator signals the cache-invalidation collaborator after any
// wallet, completion or streak mutation. Invalidation is fire-and-forget
// and idempotent.
type CacheInvalidator interface {
	InvalidateFamily(familyID string) error
	InvalidateWallet(walletID string) error
}
