package service

import (
	"context"
	"time"

	"arendol-backend/internal/domain"
)

// CreateBookingRequest is the renter-supplied input for a new booking.
type CreateBookingRequest struct {
	ItemID     string
	StartDate  time.Time
	EndDate    time.Time
	RentalType domain.RentalType
	IsInsured  bool
}

// HandoverFlags is one actor's confirmation of the face-to-face exchange.
type HandoverFlags struct {
	Deposit   bool
	Remainder bool
}

type ApprovalService interface {
	// Decide resolves the effective approval policy for the item and evaluates
	// it against the renter's profile.
	Decide(ctx context.Context, itemID, renterID string) (*domain.ApprovalDecision, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, renterID string, req CreateBookingRequest) (*domain.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]domain.Booking, error)

	Approve(ctx context.Context, actorID, bookingID string) (*domain.Booking, error)
	Reject(ctx context.Context, actorID, bookingID, reason string) (*domain.Booking, error)
	Cancel(ctx context.Context, actorID, bookingID, reason string) (*domain.Booking, error)
	ConfirmPayment(ctx context.Context, actorID, bookingID string) (*domain.Booking, error)
	ConfirmHandover(ctx context.Context, actorID, bookingID string, flags HandoverFlags) (*domain.Booking, error)
	ConfirmReturn(ctx context.Context, actorID, bookingID string) (*domain.Booking, error)

	// SweepExpiredApprovals cancels every booking whose approval deadline has
	// elapsed. Returns the number cancelled and the per-booking failures; a
	// failure on one booking never aborts the rest.
	SweepExpiredApprovals(ctx context.Context) (int, []error)
}

type ReviewService interface {
	CreateReview(ctx context.Context, authorID, bookingID string, rating int, text string) (*domain.Review, error)
}
