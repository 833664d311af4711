package notify

import "context"

// Event types covered by the delivery templates.
const (
	EventBookingNew             = "booking_new"
	EventBookingCancelled       = "booking_cancelled"
	EventBookingCompleted       = "booking_completed"
	EventBookingApprovalRequest = "booking_approval_request"
	EventBookingApproved        = "booking_approved"
	EventBookingRejected        = "booking_rejected"
	EventBookingPaymentRequired = "booking_payment_required"
	EventBookingPaymentReceived = "booking_payment_received"
	EventReviewReceived         = "review_received"
	EventChatUnread             = "chat_unread"
	EventModerationPendingItem  = "moderation_pending_item"
	EventModerationPendingUser  = "moderation_pending_user"
	EventRentalReturnReminder   = "rental_return_reminder"
	EventReviewReminder         = "review_reminder"

	// EventVerificationPendingClaim keys the dedup slot for staff
	// verification reminders; the dispatched event is
	// EventModerationPendingUser.
	EventVerificationPendingClaim = "verification_pending_reminder"
)

// Event is one notification to render and deliver. Data keys are
// template-specific (itemTitle, renterName, reason, ...).
type Event struct {
	Type string
	Data map[string]string
}

// Result records which channels accepted the message. Err aggregates the
// recipient lookup failure or the failures of channels that were attempted
// but did not deliver.
type Result struct {
	Email    bool
	Telegram bool
	Push     bool
	Err      error
}

// Delivered reports whether at least one channel accepted the message.
func (r Result) Delivered() bool {
	return r.Email || r.Telegram || r.Push
}

// Dispatcher delivers an event to a user over every channel the user enabled.
type Dispatcher interface {
	Send(ctx context.Context, userID string, event Event) Result
}

// EmailSender delivers a rendered email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, text, html string) error
}

// TelegramSender delivers a plain-text message to a chat.
type TelegramSender interface {
	SendTelegram(ctx context.Context, chatID int64, text string) error
}

// PushSender delivers a push notification to a device token.
type PushSender interface {
	SendPush(ctx context.Context, token, title, body string) error
}
