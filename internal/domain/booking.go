package domain

import "time"

type BookingStatus string

const (
	BookingStatusPendingApproval BookingStatus = "pending_approval"
	BookingStatusPendingPayment  BookingStatus = "pending_payment"
	BookingStatusPaid            BookingStatus = "paid"
	BookingStatusActive          BookingStatus = "active"
	BookingStatusCompleted       BookingStatus = "completed"
	BookingStatusCancelled       BookingStatus = "cancelled"
)

// BlockingStatuses are the statuses that keep an item's dates occupied.
var BlockingStatuses = []BookingStatus{
	BookingStatusPendingApproval,
	BookingStatusPendingPayment,
	BookingStatusPaid,
	BookingStatusActive,
}

// IsTerminal reports whether no further transition is allowed from s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

type DepositStatus string

const (
	DepositStatusHeld     DepositStatus = "held"
	DepositStatusReturned DepositStatus = "returned"
)

type RentalType string

const (
	RentalTypeDay   RentalType = "day"
	RentalTypeMonth RentalType = "month"
)

type Booking struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	RenterID string `json:"renter_id"`

	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	RentalType RentalType `json:"rental_type"`

	// Price snapshot taken at creation. Later tariff changes never touch an
	// existing booking.
	RentalPrice float64 `json:"rental_price"`
	Deposit     float64 `json:"deposit"`
	Commission  float64 `json:"commission"`
	Insurance   float64 `json:"insurance"`
	TotalPrice  float64 `json:"total_price"`
	Prepayment  float64 `json:"prepayment"`
	IsInsured   bool    `json:"is_insured"`

	Status          BookingStatus `json:"status"`
	DepositStatus   DepositStatus `json:"deposit_status,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	PaymentID       string        `json:"payment_id,omitempty"`

	DepositConfirmedByRenter   bool `json:"deposit_confirmed_by_renter"`
	RemainderConfirmedByRenter bool `json:"remainder_confirmed_by_renter"`
	DepositConfirmedByOwner    bool `json:"deposit_confirmed_by_owner"`
	RemainderConfirmedByOwner  bool `json:"remainder_confirmed_by_owner"`

	CreatedAt           time.Time  `json:"created_at"`
	ApprovalDeadline    *time.Time `json:"approval_deadline,omitempty"`
	ApprovedAt          *time.Time `json:"approved_at,omitempty"`
	PaidAt              *time.Time `json:"paid_at,omitempty"`
	RejectedAt          *time.Time `json:"rejected_at,omitempty"`
	HandoverConfirmedAt *time.Time `json:"handover_confirmed_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}

// HandoverComplete reports whether both sides confirmed both the deposit and
// the remainder payment at handover.
func (b *Booking) HandoverComplete() bool {
	return b.DepositConfirmedByRenter && b.RemainderConfirmedByRenter &&
		b.DepositConfirmedByOwner && b.RemainderConfirmedByOwner
}
