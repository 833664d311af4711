package repository

import (
	"context"
	"time"

	"arendol-backend/internal/domain"
)

// BookingUpdate carries the fields a status transition writes alongside the new
// status. Nil pointers are left untouched.
type BookingUpdate struct {
	Status          domain.BookingStatus
	DepositStatus   *domain.DepositStatus
	RejectionReason *string
	PaymentID       *string

	ApprovedAt          *time.Time
	PaidAt              *time.Time
	RejectedAt          *time.Time
	HandoverConfirmedAt *time.Time
	CompletedAt         *time.Time

	DepositConfirmedByRenter   *bool
	RemainderConfirmedByRenter *bool
	DepositConfirmedByOwner    *bool
	RemainderConfirmedByOwner  *bool
}

// BookingFilter narrows FindMany. Zero values mean "any".
type BookingFilter struct {
	RenterID string
	OwnerID  string
	Statuses []domain.BookingStatus
	Limit    int
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	FindMany(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)

	// FindByStatusAndDeadlineBefore returns bookings in the given status whose
	// approval deadline has elapsed.
	FindByStatusAndDeadlineBefore(ctx context.Context, status domain.BookingStatus, t time.Time) ([]domain.Booking, error)

	// FindByStatusEndingBetween returns bookings in the given status whose end
	// date falls inside [from, to].
	FindByStatusEndingBetween(ctx context.Context, status domain.BookingStatus, from, to time.Time) ([]domain.Booking, error)

	// FindCompletedBefore returns completed bookings whose completion stamp is
	// at or before t.
	FindCompletedBefore(ctx context.Context, t time.Time) ([]domain.Booking, error)

	// CountOverlapping counts bookings for the item in a blocking status whose
	// date range overlaps [start, end].
	CountOverlapping(ctx context.Context, itemID string, start, end time.Time) (int, error)

	// CompareAndSwapStatus applies upd only if the stored status still equals
	// expected. Returns false (and no error) when the row was not in the
	// expected status, meaning the caller lost the race.
	CompareAndSwapStatus(ctx context.Context, id string, expected domain.BookingStatus, upd BookingUpdate) (bool, error)
}

type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Item, error)

	// ListPendingModeration returns items awaiting moderation created at or
	// before the cutoff.
	ListPendingModeration(ctx context.Context, before time.Time) ([]domain.Item, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetUserRating(ctx context.Context, id string) (*float64, error)
	IsUserVerified(ctx context.Context, id string) (bool, error)

	// ListStaff returns non-blocked admins and moderators.
	ListStaff(ctx context.Context) ([]domain.User, error)

	// ListPendingVerification returns users whose verification request was
	// submitted at or before the cutoff and is still undecided.
	ListPendingVerification(ctx context.Context, before time.Time) ([]domain.User, error)

	// RecalculateRating recomputes the user's rating from the reviews written
	// about them and stores it.
	RecalculateRating(ctx context.Context, id string) error
}

type MessageRepository interface {
	// CountUnread counts messages in the booking's chat that the recipient has
	// not read (sent by someone else).
	CountUnread(ctx context.Context, bookingID, recipientID string) (int, error)

	// GroupUnreadOlderThan groups unread messages created at or before the
	// cutoff by (booking, sender).
	GroupUnreadOlderThan(ctx context.Context, cutoff time.Time) ([]domain.UnreadGroup, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByBooking(ctx context.Context, bookingID string) ([]domain.Review, error)
}

type NotificationLogRepository interface {
	// Claim atomically inserts a delivery slot. Returns true when this call
	// created the entry; false when the tuple already exists. Only a genuine
	// storage fault produces an error.
	Claim(ctx context.Context, entityType, entityID, eventType, recipientID string) (bool, error)

	// DeleteClaim removes a slot so the event can fire again when its
	// condition recurs.
	DeleteClaim(ctx context.Context, entityType, entityID, eventType, recipientID string) error

	ListByEventType(ctx context.Context, eventType string) ([]domain.NotificationLog, error)
}
