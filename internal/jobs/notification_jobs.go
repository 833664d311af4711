package jobs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"arendol-backend/internal/domain"
	"arendol-backend/internal/logger"
	"arendol-backend/internal/notify"
)

// SweepResult aggregates one notification-cron invocation. Counters reflect
// successful dispatches; Errors carries the per-sub-sweep failures without any
// of them having aborted the run.
type SweepResult struct {
	ChatUnread          int      `json:"chat_unread"`
	ModerationReminders int      `json:"moderation_reminders"`
	ReturnReminders     int      `json:"return_reminders"`
	ReviewReminders     int      `json:"review_reminders"`
	AutoRejected        int      `json:"auto_rejected"`
	Errors              []string `json:"errors"`
}

// RunNotificationCron executes the five independent sub-sweeps and always
// returns an aggregate result, never an error.
func (jr *JobRunner) RunNotificationCron(ctx context.Context) *SweepResult {
	result := &SweepResult{Errors: []string{}}

	record := func(count int, errs []error) int {
		for _, err := range errs {
			result.Errors = append(result.Errors, err.Error())
		}
		return count
	}

	result.ChatUnread = record(jr.runSubSweep("chatUnread", func() (int, []error) {
		return jr.sweepChatUnread(ctx)
	}))
	result.ModerationReminders = record(jr.runSubSweep("moderation", func() (int, []error) {
		return jr.sweepModerationBacklog(ctx)
	}))
	result.ReturnReminders = record(jr.runSubSweep("returnReminders", func() (int, []error) {
		return jr.sweepReturnReminders(ctx)
	}))
	result.ReviewReminders = record(jr.runSubSweep("reviewReminders", func() (int, []error) {
		return jr.sweepReviewReminders(ctx)
	}))
	result.AutoRejected = record(jr.runSubSweep("autoReject", func() (int, []error) {
		return jr.bookingSvc.SweepExpiredApprovals(ctx)
	}))

	logger.Info("Notification cron completed",
		"chat_unread", result.ChatUnread,
		"moderation_reminders", result.ModerationReminders,
		"return_reminders", result.ReturnReminders,
		"review_reminders", result.ReviewReminders,
		"auto_rejected", result.AutoRejected,
		"errors", len(result.Errors))
	return result
}

// RunDeadlineSweep runs only the approval-expiry pass, for the tighter
// deadline schedule.
func (jr *JobRunner) RunDeadlineSweep(ctx context.Context) (int, []error) {
	return jr.runSubSweep("autoReject", func() (int, []error) {
		return jr.bookingSvc.SweepExpiredApprovals(ctx)
	})
}

// sweepChatUnread reminds booking parties about unread chat messages older
// than the trailing window. Before claiming new slots it reconciles existing
// claims: a conversation the recipient caught up on gets its claim deleted so
// a future burst notifies again.
func (jr *JobRunner) sweepChatUnread(ctx context.Context) (int, []error) {
	var errs []error

	existing, err := jr.repos.Logs.ListByEventType(ctx, notify.EventChatUnread)
	if err != nil {
		errs = append(errs, fmt.Errorf("listing existing claims: %w", err))
	}
	for _, entry := range existing {
		recipientID, bookingID, ok := splitChatEntityID(entry.EntityID)
		if !ok {
			continue
		}
		count, err := jr.repos.Messages.CountUnread(ctx, bookingID, recipientID)
		if err != nil {
			errs = append(errs, fmt.Errorf("reconciling claim for booking %s: %w", bookingID, err))
			continue
		}
		if count == 0 {
			err := jr.repos.Logs.DeleteClaim(ctx, entry.EntityType, entry.EntityID, entry.EventType, entry.RecipientID)
			if err != nil {
				errs = append(errs, fmt.Errorf("deleting claim for booking %s: %w", bookingID, err))
			}
		}
	}

	cutoff := jr.now().Add(-time.Duration(jr.config.Booking.ChatUnreadWindowMinutes) * time.Minute)
	groups, err := jr.repos.Messages.GroupUnreadOlderThan(ctx, cutoff)
	if err != nil {
		errs = append(errs, fmt.Errorf("grouping unread messages: %w", err))
		return 0, errs
	}

	sent := 0
	for _, g := range groups {
		booking, err := jr.repos.Bookings.GetByID(ctx, g.BookingID)
		if err != nil {
			errs = append(errs, fmt.Errorf("loading booking %s: %w", g.BookingID, err))
			continue
		}
		item, err := jr.repos.Items.GetByID(ctx, booking.ItemID)
		if err != nil {
			errs = append(errs, fmt.Errorf("loading item for booking %s: %w", g.BookingID, err))
			continue
		}

		// The recipient is whichever booking party did not send the messages.
		recipientID := booking.RenterID
		if g.SenderID == booking.RenterID {
			recipientID = item.OwnerID
		}

		entityID := recipientID + ":" + g.BookingID
		claimed, err := jr.repos.Logs.Claim(ctx, domain.EntityTypeMessageBatch, entityID, notify.EventChatUnread, recipientID)
		if err != nil {
			errs = append(errs, fmt.Errorf("claiming slot for booking %s: %w", g.BookingID, err))
			continue
		}
		if !claimed {
			continue
		}

		res := jr.dispatcher.Send(ctx, recipientID, notify.Event{
			Type: notify.EventChatUnread,
			Data: map[string]string{
				"itemTitle":   item.Title,
				"unreadCount": strconv.Itoa(g.Count),
			},
		})
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("dispatching to %s: %w", recipientID, res.Err))
			continue
		}
		sent++
	}
	return sent, errs
}

// sweepModerationBacklog reminds every staff account about items and
// verification requests that have waited past the moderation window. Each
// staff member holds an independent claim per pending entity.
func (jr *JobRunner) sweepModerationBacklog(ctx context.Context) (int, []error) {
	var errs []error

	staff, err := jr.repos.Users.ListStaff(ctx)
	if err != nil {
		return 0, []error{fmt.Errorf("listing staff: %w", err)}
	}
	if len(staff) == 0 {
		return 0, nil
	}

	cutoff := jr.now().Add(-time.Duration(jr.config.Booking.ModerationWindowMinutes) * time.Minute)

	sent := 0
	pendingItems, err := jr.repos.Items.ListPendingModeration(ctx, cutoff)
	if err != nil {
		errs = append(errs, fmt.Errorf("listing pending items: %w", err))
	}
	for _, item := range pendingItems {
		for _, admin := range staff {
			claimed, err := jr.repos.Logs.Claim(ctx, domain.EntityTypeItem, item.ID, notify.EventModerationPendingItem, admin.ID)
			if err != nil {
				errs = append(errs, fmt.Errorf("claiming slot for item %s: %w", item.ID, err))
				continue
			}
			if !claimed {
				continue
			}
			res := jr.dispatcher.Send(ctx, admin.ID, notify.Event{
				Type: notify.EventModerationPendingItem,
				Data: map[string]string{"itemTitle": item.Title},
			})
			if res.Err != nil {
				errs = append(errs, fmt.Errorf("dispatching to %s: %w", admin.ID, res.Err))
				continue
			}
			sent++
		}
	}

	pendingUsers, err := jr.repos.Users.ListPendingVerification(ctx, cutoff)
	if err != nil {
		errs = append(errs, fmt.Errorf("listing pending verifications: %w", err))
	}
	for _, pending := range pendingUsers {
		for _, admin := range staff {
			claimed, err := jr.repos.Logs.Claim(ctx, domain.EntityTypeUser, pending.ID, notify.EventVerificationPendingClaim, admin.ID)
			if err != nil {
				errs = append(errs, fmt.Errorf("claiming slot for user %s: %w", pending.ID, err))
				continue
			}
			if !claimed {
				continue
			}
			res := jr.dispatcher.Send(ctx, admin.ID, notify.Event{
				Type: notify.EventModerationPendingUser,
				Data: map[string]string{"userName": pending.Name},
			})
			if res.Err != nil {
				errs = append(errs, fmt.Errorf("dispatching to %s: %w", admin.ID, res.Err))
				continue
			}
			sent++
		}
	}
	return sent, errs
}

// sweepReturnReminders notifies both parties of active bookings ending
// tomorrow. Each party holds its own claim, so a fully-notified booking
// contributes two to the counter.
func (jr *JobRunner) sweepReturnReminders(ctx context.Context) (int, []error) {
	var errs []error

	now := jr.now()
	tomorrow := now.AddDate(0, 0, 1)
	from := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1).Add(-time.Millisecond)

	ending, err := jr.repos.Bookings.FindByStatusEndingBetween(ctx, domain.BookingStatusActive, from, to)
	if err != nil {
		return 0, []error{fmt.Errorf("listing ending bookings: %w", err)}
	}

	sent := 0
	for i := range ending {
		booking := &ending[i]
		title := "Лот"
		ownerID := ""
		if item, err := jr.repos.Items.GetByID(ctx, booking.ItemID); err == nil {
			title = item.Title
			ownerID = item.OwnerID
		} else {
			errs = append(errs, fmt.Errorf("loading item for booking %s: %w", booking.ID, err))
		}

		renterName := ""
		if renter, err := jr.repos.Users.GetByID(ctx, booking.RenterID); err == nil {
			renterName = renter.Name
		}

		claimed, err := jr.repos.Logs.Claim(ctx, domain.EntityTypeBooking, booking.ID, notify.EventRentalReturnReminder, booking.RenterID)
		if err != nil {
			errs = append(errs, fmt.Errorf("claiming renter slot for booking %s: %w", booking.ID, err))
		} else if claimed {
			res := jr.dispatcher.Send(ctx, booking.RenterID, notify.Event{
				Type: notify.EventRentalReturnReminder,
				Data: map[string]string{"itemTitle": title, "isOwner": "false"},
			})
			if res.Err != nil {
				errs = append(errs, fmt.Errorf("dispatching to %s: %w", booking.RenterID, res.Err))
			} else {
				sent++
			}
		}

		if ownerID == "" {
			continue
		}
		claimed, err = jr.repos.Logs.Claim(ctx, domain.EntityTypeBooking, booking.ID, notify.EventRentalReturnReminder, ownerID)
		if err != nil {
			errs = append(errs, fmt.Errorf("claiming owner slot for booking %s: %w", booking.ID, err))
		} else if claimed {
			res := jr.dispatcher.Send(ctx, ownerID, notify.Event{
				Type: notify.EventRentalReturnReminder,
				Data: map[string]string{"itemTitle": title, "isOwner": "true", "renterName": renterName},
			})
			if res.Err != nil {
				errs = append(errs, fmt.Errorf("dispatching to %s: %w", ownerID, res.Err))
			} else {
				sent++
			}
		}
	}
	return sent, errs
}

// sweepReviewReminders nudges whichever side of a completed booking has not
// left a review yet, once the post-completion delay has passed.
func (jr *JobRunner) sweepReviewReminders(ctx context.Context) (int, []error) {
	var errs []error

	cutoff := jr.now().Add(-time.Duration(jr.config.Booking.ReviewReminderDelayHours) * time.Hour)
	completed, err := jr.repos.Bookings.FindCompletedBefore(ctx, cutoff)
	if err != nil {
		return 0, []error{fmt.Errorf("listing completed bookings: %w", err)}
	}

	sent := 0
	for i := range completed {
		booking := &completed[i]
		reviews, err := jr.repos.Reviews.ListByBooking(ctx, booking.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("listing reviews for booking %s: %w", booking.ID, err))
			continue
		}
		hasRenterReview := false
		hasOwnerReview := false
		for _, rv := range reviews {
			switch rv.Type {
			case domain.ReviewTypeRenter:
				hasRenterReview = true
			case domain.ReviewTypeOwner:
				hasOwnerReview = true
			}
		}
		if hasRenterReview && hasOwnerReview {
			continue
		}

		title := "Лот"
		ownerID := ""
		if item, err := jr.repos.Items.GetByID(ctx, booking.ItemID); err == nil {
			title = item.Title
			ownerID = item.OwnerID
		} else {
			errs = append(errs, fmt.Errorf("loading item for booking %s: %w", booking.ID, err))
		}

		remind := func(recipientID string) {
			claimed, err := jr.repos.Logs.Claim(ctx, domain.EntityTypeBooking, booking.ID, notify.EventReviewReminder, recipientID)
			if err != nil {
				errs = append(errs, fmt.Errorf("claiming slot for booking %s: %w", booking.ID, err))
				return
			}
			if !claimed {
				return
			}
			res := jr.dispatcher.Send(ctx, recipientID, notify.Event{
				Type: notify.EventReviewReminder,
				Data: map[string]string{"itemTitle": title},
			})
			if res.Err != nil {
				errs = append(errs, fmt.Errorf("dispatching to %s: %w", recipientID, res.Err))
				return
			}
			sent++
		}

		if !hasRenterReview {
			remind(booking.RenterID)
		}
		if !hasOwnerReview && ownerID != "" {
			remind(ownerID)
		}
	}
	return sent, errs
}

// splitChatEntityID parses the "{recipientId}:{bookingId}" composite key.
func splitChatEntityID(entityID string) (recipientID, bookingID string, ok bool) {
	parts := strings.SplitN(entityID, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
