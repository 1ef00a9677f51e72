package entity

import "time"

type StarPurchaseStatus string

const (
	StarPurchasePending  StarPurchaseStatus = "pending"
	StarPurchaseApproved StarPurchaseStatus = "approved"
	StarPurchaseRejected StarPurchaseStatus = "rejected"
)

// StarPurchase converts wallet money into stars at the family's conversion
// rate. The money is debited at request time as an optimistic reservation;
// approval credits the stars, rejection refunds the money. A purchase leaves
// pending exactly once.
type StarPurchase struct {
	ID                  string             `json:"id"`
	FamilyID            string             `json:"family_id"`
	ChildID             string             `json:"child_id"`
	AmountPence         int                `json:"amount_pence"`
	StarsRequested      int                `json:"stars_requested"`
	ConversionRatePence int                `json:"conversion_rate_pence"`
	Status              StarPurchaseStatus `json:"status"`
	ProcessedBy         string             `json:"processed_by,omitempty"`
	ProcessedAt         *time.Time         `json:"processed_at,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
}
