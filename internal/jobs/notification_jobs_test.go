package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"arendol-backend/internal/config"
	"arendol-backend/internal/domain"
	"arendol-backend/internal/notify"
)

var frozenNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type testDeps struct {
	bookings   *MockBookingRepo
	items      *MockItemRepo
	users      *MockUserRepo
	messages   *MockMessageRepo
	reviews    *MockReviewRepo
	logs       *MockLogRepo
	dispatcher *MockDispatcher
	bookingSvc *MockBookingService
}

func newTestRunner() (*JobRunner, *testDeps) {
	deps := &testDeps{
		bookings:   new(MockBookingRepo),
		items:      new(MockItemRepo),
		users:      new(MockUserRepo),
		messages:   new(MockMessageRepo),
		reviews:    new(MockReviewRepo),
		logs:       new(MockLogRepo),
		dispatcher: new(MockDispatcher),
		bookingSvc: new(MockBookingService),
	}
	cfg := &config.Config{
		Booking: config.BookingConfig{
			ApprovalDeadlineHours:    24,
			ChatUnreadWindowMinutes:  30,
			ModerationWindowMinutes:  30,
			ReviewReminderDelayHours: 24,
		},
	}
	jr := NewJobRunner(Repos{
		Bookings: deps.bookings,
		Items:    deps.items,
		Users:    deps.users,
		Messages: deps.messages,
		Reviews:  deps.reviews,
		Logs:     deps.logs,
	}, deps.bookingSvc, deps.dispatcher, cfg)
	jr.now = func() time.Time { return frozenNow }
	return jr, deps
}

func sweepItem() *domain.Item {
	return &domain.Item{ID: "item-1", OwnerID: "owner-1", Title: "Камера Sony"}
}

func TestSweepChatUnread(t *testing.T) {
	ctx := context.Background()
	cutoff := frozenNow.Add(-30 * time.Minute)

	t.Run("ClaimWinnerDispatchesOnce", func(t *testing.T) {
		jr, deps := newTestRunner()

		deps.logs.On("ListByEventType", ctx, notify.EventChatUnread).
			Return([]domain.NotificationLog{}, nil).Once()
		deps.messages.On("GroupUnreadOlderThan", ctx, cutoff).
			Return([]domain.UnreadGroup{{BookingID: "booking-1", SenderID: "renter-1", Count: 3}}, nil).Once()
		deps.bookings.On("GetByID", ctx, "booking-1").
			Return(&domain.Booking{ID: "booking-1", ItemID: "item-1", RenterID: "renter-1"}, nil).Once()
		deps.items.On("GetByID", ctx, "item-1").Return(sweepItem(), nil).Once()
		deps.logs.On("Claim", ctx, domain.EntityTypeMessageBatch, "owner-1:booking-1", notify.EventChatUnread, "owner-1").
			Return(true, nil).Once()
		deps.dispatcher.On("Send", ctx, "owner-1", mock.MatchedBy(func(e notify.Event) bool {
			return e.Type == notify.EventChatUnread &&
				e.Data["unreadCount"] == "3" &&
				e.Data["itemTitle"] == "Камера Sony"
		})).Return(notify.Result{}).Once()

		sent, errs := jr.sweepChatUnread(ctx)
		assert.Equal(t, 1, sent)
		assert.Empty(t, errs)
		deps.dispatcher.AssertExpectations(t)
	})

	t.Run("ExistingClaimSuppressesRepeat", func(t *testing.T) {
		jr, deps := newTestRunner()

		deps.logs.On("ListByEventType", ctx, notify.EventChatUnread).
			Return([]domain.NotificationLog{}, nil).Once()
		deps.messages.On("GroupUnreadOlderThan", ctx, cutoff).
			Return([]domain.UnreadGroup{{BookingID: "booking-1", SenderID: "renter-1", Count: 5}}, nil).Once()
		deps.bookings.On("GetByID", ctx, "booking-1").
			Return(&domain.Booking{ID: "booking-1", ItemID: "item-1", RenterID: "renter-1"}, nil).Once()
		deps.items.On("GetByID", ctx, "item-1").Return(sweepItem(), nil).Once()
		deps.logs.On("Claim", ctx, domain.EntityTypeMessageBatch, "owner-1:booking-1", notify.EventChatUnread, "owner-1").
			Return(false, nil).Once()

		sent, errs := jr.sweepChatUnread(ctx)
		assert.Equal(t, 0, sent)
		assert.Empty(t, errs)
		deps.dispatcher.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("DispatchFailureSurfacesAndKeepsClaim", func(t *testing.T) {
		jr, deps := newTestRunner()

		deps.logs.On("ListByEventType", ctx, notify.EventChatUnread).
			Return([]domain.NotificationLog{}, nil).Once()
		deps.messages.On("GroupUnreadOlderThan", ctx, cutoff).
			Return([]domain.UnreadGroup{{BookingID: "booking-1", SenderID: "renter-1", Count: 3}}, nil).Once()
		deps.bookings.On("GetByID", ctx, "booking-1").
			Return(&domain.Booking{ID: "booking-1", ItemID: "item-1", RenterID: "renter-1"}, nil).Once()
		deps.items.On("GetByID", ctx, "item-1").Return(sweepItem(), nil).Once()
		deps.logs.On("Claim", ctx, domain.EntityTypeMessageBatch, "owner-1:booking-1", notify.EventChatUnread, "owner-1").
			Return(true, nil).Once()
		deps.dispatcher.On("Send", ctx, "owner-1", mock.Anything).
			Return(notify.Result{Err: errors.New("email: sendgrid 503")}).Once()

		sent, errs := jr.sweepChatUnread(ctx)
		assert.Equal(t, 0, sent)
		assert.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "dispatching to owner-1")
		deps.logs.AssertNotCalled(t, "DeleteClaim", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ReconciliationReleasesCaughtUpClaims", func(t *testing.T) {
		jr, deps := newTestRunner()

		deps.logs.On("ListByEventType", ctx, notify.EventChatUnread).
			Return([]domain.NotificationLog{{
				EntityType:  domain.EntityTypeMessageBatch,
				EntityID:    "owner-1:booking-1",
				EventType:   notify.EventChatUnread,
				RecipientID: "owner-1",
			}}, nil).Once()
		deps.messages.On("CountUnread", ctx, "booking-1", "owner-1").Return(0, nil).Once()
		deps.logs.On("DeleteClaim", ctx, domain.EntityTypeMessageBatch, "owner-1:booking-1", notify.EventChatUnread, "owner-1").
			Return(nil).Once()
		deps.messages.On("GroupUnreadOlderThan", ctx, cutoff).
			Return([]domain.UnreadGroup{}, nil).Once()

		sent, errs := jr.sweepChatUnread(ctx)
		assert.Equal(t, 0, sent)
		assert.Empty(t, errs)
		deps.logs.AssertExpectations(t)
	})

	t.Run("StillUnreadClaimKept", func(t *testing.T) {
		jr, deps := newTestRunner()

		deps.logs.On("ListByEventType", ctx, notify.EventChatUnread).
			Return([]domain.NotificationLog{{
				EntityType:  domain.EntityTypeMessageBatch,
				EntityID:    "owner-1:booking-1",
				EventType:   notify.EventChatUnread,
				RecipientID: "owner-1",
			}}, nil).Once()
		deps.messages.On("CountUnread", ctx, "booking-1", "owner-1").Return(2, nil).Once()
		deps.messages.On("GroupUnreadOlderThan", ctx, cutoff).
			Return([]domain.UnreadGroup{}, nil).Once()

		_, errs := jr.sweepChatUnread(ctx)
		assert.Empty(t, errs)
		deps.logs.AssertNotCalled(t, "DeleteClaim", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSweepModerationBacklog(t *testing.T) {
	ctx := context.Background()
	cutoff := frozenNow.Add(-30 * time.Minute)

	t.Run("EveryStaffMemberGetsOwnClaim", func(t *testing.T) {
		jr, deps := newTestRunner()

		staff := []domain.User{{ID: "admin-1"}, {ID: "admin-2"}}
		deps.users.On("ListStaff", ctx).Return(staff, nil).Once()
		deps.items.On("ListPendingModeration", ctx, cutoff).
			Return([]domain.Item{{ID: "item-7", Title: "Дрель"}}, nil).Once()
		deps.users.On("ListPendingVerification", ctx, cutoff).
			Return([]domain.User{{ID: "user-9", Name: "Пётр"}}, nil).Once()

		deps.logs.On("Claim", ctx, domain.EntityTypeItem, "item-7", notify.EventModerationPendingItem, "admin-1").
			Return(true, nil).Once()
		deps.logs.On("Claim", ctx, domain.EntityTypeItem, "item-7", notify.EventModerationPendingItem, "admin-2").
			Return(false, nil).Once()
		deps.logs.On("Claim", ctx, domain.EntityTypeUser, "user-9", "verification_pending_reminder", "admin-1").
			Return(true, nil).Once()
		deps.logs.On("Claim", ctx, domain.EntityTypeUser, "user-9", "verification_pending_reminder", "admin-2").
			Return(true, nil).Once()

		deps.dispatcher.On("Send", ctx, "admin-1", mock.MatchedBy(func(e notify.Event) bool {
			return e.Type == notify.EventModerationPendingItem && e.Data["itemTitle"] == "Дрель"
		})).Return(notify.Result{}).Once()
		deps.dispatcher.On("Send", ctx, "admin-1", mock.MatchedBy(func(e notify.Event) bool {
			return e.Type == notify.EventModerationPendingUser && e.Data["userName"] == "Пётр"
		})).Return(notify.Result{}).Once()
		deps.dispatcher.On("Send", ctx, "admin-2", mock.MatchedBy(func(e notify.Event) bool {
			return e.Type == notify.EventModerationPendingUser
		})).Return(notify.Result{}).Once()

		sent, errs := jr.sweepModerationBacklog(ctx)
		assert.Equal(t, 3, sent)
		assert.Empty(t, errs)
		deps.dispatcher.AssertExpectations(t)
	})

	t.Run("NoStaffSkipsListing", func(t *testing.T) {
		jr, deps := newTestRunner()

		deps.users.On("ListStaff", ctx).Return([]domain.User{}, nil).Once()

		sent, errs := jr.sweepModerationBacklog(ctx)
		assert.Equal(t, 0, sent)
		assert.Empty(t, errs)
		deps.items.AssertNotCalled(t, "ListPendingModeration", mock.Anything, mock.Anything)
	})
}

func TestSweepReturnReminders(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1).Add(-time.Millisecond)

	t.Run("BothPartiesReminded", func(t *testing.T) {
		jr, deps := newTestRunner()

		deps.bookings.On("FindByStatusEndingBetween", ctx, domain.BookingStatusActive, from, to).
			Return([]domain.Booking{{ID: "booking-1", ItemID: "item-1", RenterID: "renter-1"}}, nil).Once()
		deps.items.On("GetByID", ctx, "item-1").Return(sweepItem(), nil).Once()
		deps.users.On("GetByID", ctx, "renter-1").Return(&domain.User{ID: "renter-1", Name: "Мария"}, nil).Once()
		deps.logs.On("Claim", ctx, domain.EntityTypeBooking, "booking-1", notify.EventRentalReturnReminder, "renter-1").
			Return(true, nil).Once()
		deps.logs.On("Claim", ctx, domain.EntityTypeBooking, "booking-1", notify.EventRentalReturnReminder, "owner-1").
			Return(true, nil).Once()
		deps.dispatcher.On("Send", ctx, "renter-1", mock.MatchedBy(func(e notify.Event) bool {
			return e.Type == notify.EventRentalReturnReminder && e.Data["isOwner"] == "false"
		})).Return(notify.Result{}).Once()
		deps.dispatcher.On("Send", ctx, "owner-1", mock.MatchedBy(func(e notify.Event) bool {
			return e.Type == notify.EventRentalReturnReminder &&
				e.Data["isOwner"] == "true" &&
				e.Data["renterName"] == "Мария"
		})).Return(notify.Result{}).Once()

		sent, errs := jr.sweepReturnReminders(ctx)
		assert.Equal(t, 2, sent)
		assert.Empty(t, errs)
		deps.dispatcher.AssertExpectations(t)
	})

	t.Run("SecondRunSendsNothing", func(t *testing.T) {
		jr, deps := newTestRunner()

		deps.bookings.On("FindByStatusEndingBetween", ctx, domain.BookingStatusActive, from, to).
			Return([]domain.Booking{{ID: "booking-1", ItemID: "item-1", RenterID: "renter-1"}}, nil).Once()
		deps.items.On("GetByID", ctx, "item-1").Return(sweepItem(), nil).Once()
		deps.users.On("GetByID", ctx, "renter-1").Return(&domain.User{ID: "renter-1"}, nil).Once()
		deps.logs.On("Claim", ctx, domain.EntityTypeBooking, "booking-1", notify.EventRentalReturnReminder, "renter-1").
			Return(false, nil).Once()
		deps.logs.On("Claim", ctx, domain.EntityTypeBooking, "booking-1", notify.EventRentalReturnReminder, "owner-1").
			Return(false, nil).Once()

		sent, errs := jr.sweepReturnReminders(ctx)
		assert.Equal(t, 0, sent)
		assert.Empty(t, errs)
		deps.dispatcher.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSweepReviewReminders(t *testing.T) {
	ctx := context.Background()
	cutoff := frozenNow.Add(-24 * time.Hour)

	t.Run("OnlyMissingSideReminded", func(t *testing.T) {
		jr, deps := newTestRunner()

		deps.bookings.On("FindCompletedBefore", ctx, cutoff).
			Return([]domain.Booking{{ID: "booking-1", ItemID: "item-1", RenterID: "renter-1"}}, nil).Once()
		deps.reviews.On("ListByBooking", ctx, "booking-1").
			Return([]domain.Review{{Type: domain.ReviewTypeRenter}}, nil).Once()
		deps.items.On("GetByID", ctx, "item-1").Return(sweepItem(), nil).Once()
		deps.logs.On("Claim", ctx, domain.EntityTypeBooking, "booking-1", notify.EventReviewReminder, "owner-1").
			Return(true, nil).Once()
		deps.dispatcher.On("Send", ctx, "owner-1", mock.MatchedBy(func(e notify.Event) bool {
			return e.Type == notify.EventReviewReminder
		})).Return(notify.Result{}).Once()

		sent, errs := jr.sweepReviewReminders(ctx)
		assert.Equal(t, 1, sent)
		assert.Empty(t, errs)
		deps.dispatcher.AssertExpectations(t)
	})

	t.Run("FullyReviewedBookingSkipped", func(t *testing.T) {
		jr, deps := newTestRunner()

		deps.bookings.On("FindCompletedBefore", ctx, cutoff).
			Return([]domain.Booking{{ID: "booking-1", ItemID: "item-1", RenterID: "renter-1"}}, nil).Once()
		deps.reviews.On("ListByBooking", ctx, "booking-1").
			Return([]domain.Review{{Type: domain.ReviewTypeRenter}, {Type: domain.ReviewTypeOwner}}, nil).Once()

		sent, errs := jr.sweepReviewReminders(ctx)
		assert.Equal(t, 0, sent)
		assert.Empty(t, errs)
		deps.logs.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRunNotificationCron_FailureIsolation(t *testing.T) {
	ctx := context.Background()
	jr, deps := newTestRunner()

	deps.logs.On("ListByEventType", ctx, notify.EventChatUnread).
		Return([]domain.NotificationLog{}, nil).Once()
	deps.messages.On("GroupUnreadOlderThan", ctx, mock.Anything).
		Return(nil, errors.New("db down")).Once()
	deps.users.On("ListStaff", ctx).Return([]domain.User{}, nil).Once()
	deps.bookings.On("FindByStatusEndingBetween", ctx, domain.BookingStatusActive, mock.Anything, mock.Anything).
		Return([]domain.Booking{}, nil).Once()
	deps.bookings.On("FindCompletedBefore", ctx, mock.Anything).
		Return([]domain.Booking{}, nil).Once()
	deps.bookingSvc.On("SweepExpiredApprovals", ctx).Return(2, nil).Once()

	result := jr.RunNotificationCron(ctx)

	assert.Equal(t, 0, result.ChatUnread)
	assert.Equal(t, 2, result.AutoRejected)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "chatUnread:")
	deps.bookingSvc.AssertExpectations(t)
}

func TestRunDeadlineSweep(t *testing.T) {
	ctx := context.Background()
	jr, deps := newTestRunner()

	deps.bookingSvc.On("SweepExpiredApprovals", ctx).Return(3, nil).Once()

	count, errs := jr.RunDeadlineSweep(ctx)
	assert.Equal(t, 3, count)
	assert.Empty(t, errs)
}
