package domain

import "time"

type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleOwner     UserRole = "owner"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"
)

type VerificationStatus string

const (
	VerificationStatusNone     VerificationStatus = "none"
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"
)

type User struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone,omitempty"`
	Role       UserRole `json:"role"`
	IsBlocked  bool     `json:"is_blocked"`
	IsVerified bool     `json:"is_verified"`

	// Rating is nil until the user has at least one review; policy evaluation
	// treats a missing rating as 5.0.
	Rating *float64 `json:"rating,omitempty"`

	DefaultApprovalMode      ApprovalMode `json:"default_approval_mode"`
	DefaultApprovalThreshold float64      `json:"default_approval_threshold"`

	VerificationStatus      VerificationStatus `json:"verification_status"`
	VerificationSubmittedAt *time.Time         `json:"verification_submitted_at,omitempty"`

	// Notification channel preferences and addresses.
	NotifyEmail    bool   `json:"notify_email"`
	NotifyTelegram bool   `json:"notify_telegram"`
	NotifyPush     bool   `json:"notify_push"`
	TelegramChatID int64  `json:"telegram_chat_id,omitempty"`
	PushToken      string `json:"push_token,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// IsStaff reports whether the user receives moderation backlog reminders.
func (u *User) IsStaff() bool {
	return u.Role == UserRoleAdmin || u.Role == UserRoleModerator
}
