package domain

import "time"

type ReviewType string

const (
	// ReviewTypeRenter is a review written by the renter about the deal.
	ReviewTypeRenter ReviewType = "renter_review"
	// ReviewTypeOwner is a review written by the owner about the renter.
	ReviewTypeOwner ReviewType = "owner_review"
)

type Review struct {
	ID        string     `json:"id"`
	BookingID string     `json:"booking_id"`
	ItemID    string     `json:"item_id"`
	UserID    string     `json:"user_id"` // author
	Rating    int        `json:"rating"`
	Text      string     `json:"text"`
	Type      ReviewType `json:"type"`
	CreatedAt time.Time  `json:"created_at"`
}
