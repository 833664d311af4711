package jobs

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"arendol-backend/internal/domain"
	"arendol-backend/internal/notify"
	"arendol-backend/internal/repository"
	"arendol-backend/internal/service"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) FindMany(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) FindByStatusAndDeadlineBefore(ctx context.Context, status domain.BookingStatus, t time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, status, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) FindByStatusEndingBetween(ctx context.Context, status domain.BookingStatus, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, status, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) FindCompletedBefore(ctx context.Context, t time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) CountOverlapping(ctx context.Context, itemID string, start, end time.Time) (int, error) {
	args := m.Called(ctx, itemID, start, end)
	return args.Int(0), args.Error(1)
}
func (m *MockBookingRepo) CompareAndSwapStatus(ctx context.Context, id string, expected domain.BookingStatus, upd repository.BookingUpdate) (bool, error) {
	args := m.Called(ctx, id, expected, upd)
	return args.Bool(0), args.Error(1)
}

// MockItemRepo
type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) ListPendingModeration(ctx context.Context, before time.Time) ([]domain.Item, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetUserRating(ctx context.Context, id string) (*float64, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}
func (m *MockUserRepo) IsUserVerified(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) ListStaff(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) ListPendingVerification(ctx context.Context, before time.Time) ([]domain.User, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) RecalculateRating(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMessageRepo
type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) CountUnread(ctx context.Context, bookingID, recipientID string) (int, error) {
	args := m.Called(ctx, bookingID, recipientID)
	return args.Int(0), args.Error(1)
}
func (m *MockMessageRepo) GroupUnreadOlderThan(ctx context.Context, cutoff time.Time) ([]domain.UnreadGroup, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnreadGroup), args.Error(1)
}

// MockReviewRepo
type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}
func (m *MockReviewRepo) ListByBooking(ctx context.Context, bookingID string) ([]domain.Review, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

// MockLogRepo
type MockLogRepo struct {
	mock.Mock
}

func (m *MockLogRepo) Claim(ctx context.Context, entityType, entityID, eventType, recipientID string) (bool, error) {
	args := m.Called(ctx, entityType, entityID, eventType, recipientID)
	return args.Bool(0), args.Error(1)
}
func (m *MockLogRepo) DeleteClaim(ctx context.Context, entityType, entityID, eventType, recipientID string) error {
	args := m.Called(ctx, entityType, entityID, eventType, recipientID)
	return args.Error(0)
}
func (m *MockLogRepo) ListByEventType(ctx context.Context, eventType string) ([]domain.NotificationLog, error) {
	args := m.Called(ctx, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationLog), args.Error(1)
}

// MockDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Send(ctx context.Context, userID string, event notify.Event) notify.Result {
	args := m.Called(ctx, userID, event)
	if args.Get(0) == nil {
		return notify.Result{}
	}
	return args.Get(0).(notify.Result)
}

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

var _ service.BookingService = (*MockBookingService)(nil)

func (m *MockBookingService) CreateBooking(ctx context.Context, renterID string, req service.CreateBookingRequest) (*domain.Booking, error) {
	args := m.Called(ctx, renterID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) GetBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingService) Approve(ctx context.Context, actorID, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, actorID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) Reject(ctx context.Context, actorID, bookingID, reason string) (*domain.Booking, error) {
	args := m.Called(ctx, actorID, bookingID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) Cancel(ctx context.Context, actorID, bookingID, reason string) (*domain.Booking, error) {
	args := m.Called(ctx, actorID, bookingID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ConfirmPayment(ctx context.Context, actorID, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, actorID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ConfirmHandover(ctx context.Context, actorID, bookingID string, flags service.HandoverFlags) (*domain.Booking, error) {
	args := m.Called(ctx, actorID, bookingID, flags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ConfirmReturn(ctx context.Context, actorID, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, actorID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) SweepExpiredApprovals(ctx context.Context) (int, []error) {
	args := m.Called(ctx)
	if args.Get(1) == nil {
		return args.Int(0), nil
	}
	return args.Int(0), args.Get(1).([]error)
}
