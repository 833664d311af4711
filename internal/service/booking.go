package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"arendol-backend/internal/config"
	"arendol-backend/internal/domain"
	"arendol-backend/internal/logger"
	"arendol-backend/internal/metrics"
	"arendol-backend/internal/notify"
	"arendol-backend/internal/repository"
)

const (
	// expiredApprovalReason is stored on bookings the deadline sweep cancels.
	expiredApprovalReason = "Время ожидания подтверждения истекло (24 часа)"
	// expiredApprovalNotice is the reason shown to the renter.
	expiredApprovalNotice = "Владелец не ответил в течение 24 часов"
	// fallbackItemTitle labels notifications whose item row is gone.
	fallbackItemTitle = "Лот"

	cancelledByRenterReason = "Отменено арендатором"
	cancelledByOwnerReason  = "Отменено владельцем"

	dateLayout = "02.01.2006"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	approvalSvc ApprovalService
	dispatcher  notify.Dispatcher
	cfg         config.BookingConfig
	now         func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	approvalSvc ApprovalService,
	dispatcher notify.Dispatcher,
	cfg config.BookingConfig,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		approvalSvc: approvalSvc,
		dispatcher:  dispatcher,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, renterID string, req CreateBookingRequest) (*domain.Booking, error) {
	item, err := s.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.ItemStatusApproved {
		return nil, domain.NewInvalidState("item is not available for booking")
	}
	if item.OwnerID == renterID {
		return nil, domain.NewInvalidState("cannot book your own item")
	}

	owner, err := s.userRepo.GetByID(ctx, item.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner.IsBlocked {
		return nil, domain.NewInvalidState("item owner is blocked")
	}

	if req.EndDate.Before(req.StartDate) {
		return nil, domain.NewInvalidState("end date must not precede start date")
	}

	overlapping, err := s.bookingRepo.CountOverlapping(ctx, item.ID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, domain.ErrConflict
	}

	decision, err := s.approvalSvc.Decide(ctx, item.ID, renterID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	booking := &domain.Booking{
		ID:         uuid.New().String(),
		ItemID:     item.ID,
		RenterID:   renterID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		RentalType: req.RentalType,
		IsInsured:  req.IsInsured,
		CreatedAt:  now,
	}
	s.priceBooking(booking, item)

	if decision.ShouldAutoApprove {
		booking.Status = domain.BookingStatusPendingPayment
		booking.ApprovedAt = &now
	} else {
		booking.Status = domain.BookingStatusPendingApproval
		deadline := now.Add(time.Duration(s.cfg.ApprovalDeadlineHours) * time.Hour)
		booking.ApprovalDeadline = &deadline
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	renter, err := s.userRepo.GetByID(ctx, renterID)
	renterName := ""
	if err == nil {
		renterName = renter.Name
	}
	event := notify.Event{
		Type: notify.EventBookingNew,
		Data: bookingEventData(booking, item.Title, map[string]string{"renterName": renterName}),
	}
	if !decision.ShouldAutoApprove {
		event.Type = notify.EventBookingApprovalRequest
	}
	s.dispatch(ctx, item.OwnerID, event)

	if decision.ShouldAutoApprove {
		s.dispatch(ctx, renterID, notify.Event{
			Type: notify.EventBookingPaymentRequired,
			Data: bookingEventData(booking, item.Title, nil),
		})
	}

	return booking, nil
}

// priceBooking snapshots the commercial terms from the item's current tariff.
// Day rentals count both endpoint dates; month rentals round up to whole
// 30-day months.
func (s *bookingService) priceBooking(b *domain.Booking, item *domain.Item) {
	days := int(math.Ceil(b.EndDate.Sub(b.StartDate).Hours()/24)) + 1
	if b.RentalType == domain.RentalTypeMonth {
		months := int(math.Ceil(float64(days) / 30))
		if months < 1 {
			months = 1
		}
		b.RentalPrice = item.PricePerMonth * float64(months)
	} else {
		b.RentalPrice = item.PricePerDay * float64(days)
	}
	b.Deposit = item.Deposit
	b.Commission = b.RentalPrice * s.cfg.CommissionRate
	if b.IsInsured {
		b.Insurance = b.RentalPrice * s.cfg.InsuranceRate
	}
	b.TotalPrice = b.RentalPrice + b.Deposit + b.Commission + b.Insurance
	b.Prepayment = b.TotalPrice * s.cfg.PrepaymentRate
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	booking, item, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != userID && item.OwnerID != userID {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil || !user.IsStaff() {
			return nil, domain.ErrForbidden
		}
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookingRepo.FindMany(ctx, repository.BookingFilter{
		RenterID: userID,
		OwnerID:  userID,
	})
}

func (s *bookingService) Approve(ctx context.Context, actorID, bookingID string) (*domain.Booking, error) {
	booking, item, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}
	if booking.Status != domain.BookingStatusPendingApproval {
		return nil, domain.NewInvalidState("booking is not awaiting approval")
	}

	now := s.now()
	held := domain.DepositStatusHeld
	upd := repository.BookingUpdate{
		Status:        domain.BookingStatusPaid,
		DepositStatus: &held,
		ApprovedAt:    &now,
		PaidAt:        &now,
	}
	if err := s.swap(ctx, booking, domain.BookingStatusPendingApproval, upd); err != nil {
		return nil, err
	}

	s.dispatch(ctx, booking.RenterID, notify.Event{
		Type: notify.EventBookingApproved,
		Data: bookingEventData(booking, item.Title, nil),
	})
	return booking, nil
}

func (s *bookingService) Reject(ctx context.Context, actorID, bookingID, reason string) (*domain.Booking, error) {
	if reason == "" {
		return nil, domain.NewInvalidState("rejection reason is required")
	}

	booking, item, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}
	if booking.Status != domain.BookingStatusPendingApproval {
		return nil, domain.NewInvalidState("booking is not awaiting approval")
	}

	now := s.now()
	upd := repository.BookingUpdate{
		Status:          domain.BookingStatusCancelled,
		RejectionReason: &reason,
		RejectedAt:      &now,
	}
	if err := s.swap(ctx, booking, domain.BookingStatusPendingApproval, upd); err != nil {
		return nil, err
	}

	s.dispatch(ctx, booking.RenterID, notify.Event{
		Type: notify.EventBookingRejected,
		Data: bookingEventData(booking, item.Title, map[string]string{"reason": reason}),
	})
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, actorID, bookingID, reason string) (*domain.Booking, error) {
	booking, item, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var counterparty string
	switch actorID {
	case booking.RenterID:
		counterparty = item.OwnerID
		if reason == "" {
			reason = cancelledByRenterReason
		}
	case item.OwnerID:
		counterparty = booking.RenterID
		if reason == "" {
			reason = cancelledByOwnerReason
		}
	default:
		return nil, domain.ErrForbidden
	}

	if booking.Status != domain.BookingStatusPendingApproval && booking.Status != domain.BookingStatusPendingPayment {
		return nil, domain.NewInvalidState("booking can no longer be cancelled")
	}

	now := s.now()
	upd := repository.BookingUpdate{
		Status:          domain.BookingStatusCancelled,
		RejectionReason: &reason,
		RejectedAt:      &now,
	}
	if err := s.swap(ctx, booking, booking.Status, upd); err != nil {
		return nil, err
	}

	s.dispatch(ctx, counterparty, notify.Event{
		Type: notify.EventBookingCancelled,
		Data: bookingEventData(booking, item.Title, map[string]string{"reason": reason}),
	})
	return booking, nil
}

func (s *bookingService) ConfirmPayment(ctx context.Context, actorID, bookingID string) (*domain.Booking, error) {
	booking, item, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != actorID {
		return nil, domain.ErrForbidden
	}
	if booking.Status != domain.BookingStatusPendingPayment {
		return nil, domain.NewInvalidState("booking is not awaiting payment")
	}

	now := s.now()
	held := domain.DepositStatusHeld
	paymentID := "MOCK_" + uuid.New().String()
	upd := repository.BookingUpdate{
		Status:        domain.BookingStatusPaid,
		DepositStatus: &held,
		PaymentID:     &paymentID,
		PaidAt:        &now,
	}
	if err := s.swap(ctx, booking, domain.BookingStatusPendingPayment, upd); err != nil {
		return nil, err
	}

	s.dispatch(ctx, item.OwnerID, notify.Event{
		Type: notify.EventBookingPaymentReceived,
		Data: bookingEventData(booking, item.Title, nil),
	})
	return booking, nil
}

func (s *bookingService) ConfirmHandover(ctx context.Context, actorID, bookingID string, flags HandoverFlags) (*domain.Booking, error) {
	booking, item, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actorID != booking.RenterID && actorID != item.OwnerID {
		return nil, domain.ErrForbidden
	}
	if booking.Status != domain.BookingStatusPaid {
		return nil, domain.NewInvalidState("booking is not awaiting handover")
	}

	upd := repository.BookingUpdate{Status: domain.BookingStatusPaid}
	if actorID == booking.RenterID {
		upd.DepositConfirmedByRenter = &flags.Deposit
		upd.RemainderConfirmedByRenter = &flags.Remainder
		booking.DepositConfirmedByRenter = flags.Deposit
		booking.RemainderConfirmedByRenter = flags.Remainder
	} else {
		upd.DepositConfirmedByOwner = &flags.Deposit
		upd.RemainderConfirmedByOwner = &flags.Remainder
		booking.DepositConfirmedByOwner = flags.Deposit
		booking.RemainderConfirmedByOwner = flags.Remainder
	}

	if booking.HandoverComplete() {
		now := s.now()
		upd.Status = domain.BookingStatusActive
		upd.HandoverConfirmedAt = &now
		booking.HandoverConfirmedAt = &now
	}

	if err := s.swap(ctx, booking, domain.BookingStatusPaid, upd); err != nil {
		return nil, err
	}
	if booking.Status == domain.BookingStatusActive {
		return booking, nil
	}

	// The counterparty may have written its confirmations between our read
	// and our write, so neither snapshot showed all four flags. Re-read the
	// stored row and promote it, so the later writer always converges the
	// booking.
	fresh, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		logger.Warn("handover re-read failed", "booking_id", bookingID, "error", err)
		return booking, nil
	}
	if fresh.Status == domain.BookingStatusPaid && fresh.HandoverComplete() {
		now := s.now()
		promote := repository.BookingUpdate{
			Status:              domain.BookingStatusActive,
			HandoverConfirmedAt: &now,
		}
		switch err := s.swap(ctx, fresh, domain.BookingStatusPaid, promote); {
		case err == nil:
			fresh.HandoverConfirmedAt = &now
		case errors.Is(err, domain.ErrConflict):
			// Only the promotion competes for paid here, so the
			// counterparty already activated the booking.
			fresh.Status = domain.BookingStatusActive
		default:
			return nil, err
		}
	}
	return fresh, nil
}

func (s *bookingService) ConfirmReturn(ctx context.Context, actorID, bookingID string) (*domain.Booking, error) {
	booking, item, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}
	if booking.Status != domain.BookingStatusActive {
		return nil, domain.NewInvalidState("booking is not active")
	}

	now := s.now()
	returned := domain.DepositStatusReturned
	upd := repository.BookingUpdate{
		Status:        domain.BookingStatusCompleted,
		DepositStatus: &returned,
		CompletedAt:   &now,
	}
	if err := s.swap(ctx, booking, domain.BookingStatusActive, upd); err != nil {
		return nil, err
	}

	for _, id := range []string{booking.RenterID, item.OwnerID} {
		if err := s.userRepo.RecalculateRating(ctx, id); err != nil {
			logger.Warn("rating recalculation failed", "user_id", id, "error", err)
		}
	}

	s.dispatch(ctx, booking.RenterID, notify.Event{
		Type: notify.EventBookingCompleted,
		Data: bookingEventData(booking, item.Title, nil),
	})
	return booking, nil
}

func (s *bookingService) SweepExpiredApprovals(ctx context.Context) (int, []error) {
	now := s.now()
	expired, err := s.bookingRepo.FindByStatusAndDeadlineBefore(ctx, domain.BookingStatusPendingApproval, now)
	if err != nil {
		return 0, []error{fmt.Errorf("listing expired approvals: %w", err)}
	}

	var cancelled int
	var errs []error
	for i := range expired {
		booking := &expired[i]
		reason := expiredApprovalReason
		upd := repository.BookingUpdate{
			Status:          domain.BookingStatusCancelled,
			RejectionReason: &reason,
			RejectedAt:      &now,
		}
		ok, err := s.bookingRepo.CompareAndSwapStatus(ctx, booking.ID, domain.BookingStatusPendingApproval, upd)
		if err != nil {
			errs = append(errs, fmt.Errorf("cancelling booking %s: %w", booking.ID, err))
			continue
		}
		if !ok {
			// Owner acted between the query and the swap. Not a failure.
			continue
		}
		cancelled++
		metrics.BookingsAutoRejected.Inc()

		title := fallbackItemTitle
		if item, err := s.itemRepo.GetByID(ctx, booking.ItemID); err == nil {
			title = item.Title
		}
		res := s.dispatch(ctx, booking.RenterID, notify.Event{
			Type: notify.EventBookingRejected,
			Data: bookingEventData(booking, title, map[string]string{"reason": expiredApprovalNotice}),
		})
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("notifying renter of booking %s: %w", booking.ID, res.Err))
		}
	}
	return cancelled, errs
}

// load fetches the booking and its item together. A missing item surfaces as
// NotFound since every transition needs the ownership link.
func (s *bookingService) load(ctx context.Context, bookingID string) (*domain.Booking, *domain.Item, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	item, err := s.itemRepo.GetByID(ctx, booking.ItemID)
	if err != nil {
		return nil, nil, err
	}
	return booking, item, nil
}

// swap applies the conditional update and mutates the in-memory booking to
// match on success. A lost race surfaces as Conflict with no side effects.
func (s *bookingService) swap(ctx context.Context, booking *domain.Booking, expected domain.BookingStatus, upd repository.BookingUpdate) error {
	ok, err := s.bookingRepo.CompareAndSwapStatus(ctx, booking.ID, expected, upd)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConflict
	}
	booking.Status = upd.Status
	if upd.DepositStatus != nil {
		booking.DepositStatus = *upd.DepositStatus
	}
	if upd.RejectionReason != nil {
		booking.RejectionReason = *upd.RejectionReason
	}
	if upd.PaymentID != nil {
		booking.PaymentID = *upd.PaymentID
	}
	if upd.ApprovedAt != nil {
		booking.ApprovedAt = upd.ApprovedAt
	}
	if upd.PaidAt != nil {
		booking.PaidAt = upd.PaidAt
	}
	if upd.RejectedAt != nil {
		booking.RejectedAt = upd.RejectedAt
	}
	if upd.CompletedAt != nil {
		booking.CompletedAt = upd.CompletedAt
	}
	return nil
}

func (s *bookingService) dispatch(ctx context.Context, userID string, event notify.Event) notify.Result {
	if s.dispatcher == nil {
		return notify.Result{}
	}
	return s.dispatcher.Send(ctx, userID, event)
}

func bookingEventData(b *domain.Booking, itemTitle string, extra map[string]string) map[string]string {
	data := map[string]string{
		"itemId":     b.ItemID,
		"itemTitle":  itemTitle,
		"startDate":  b.StartDate.Format(dateLayout),
		"endDate":    b.EndDate.Format(dateLayout),
		"totalPrice": formatAmount(b.TotalPrice),
		"commission": formatAmount(b.Commission),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
