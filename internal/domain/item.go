package domain

import "time"

type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusApproved ItemStatus = "approved"
	ItemStatusRejected ItemStatus = "rejected"
)

type Item struct {
	ID      string     `json:"id"`
	OwnerID string     `json:"owner_id"`
	Title   string     `json:"title"`
	Status  ItemStatus `json:"status"`

	PricePerDay   float64 `json:"price_per_day"`
	PricePerMonth float64 `json:"price_per_month"`
	Deposit       float64 `json:"deposit"`

	// Per-item overrides for the owner's default approval settings. Either
	// field may be set independently of the other.
	ApprovalMode      *ApprovalMode `json:"approval_mode,omitempty"`
	ApprovalThreshold *float64      `json:"approval_threshold,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
