package domain

import "time"

// Entity types used as the first component of a notification-log key.
const (
	EntityTypeBooking      = "booking"
	EntityTypeItem         = "item"
	EntityTypeUser         = "user"
	EntityTypeMessageBatch = "message_batch"
)

// NotificationLog is one claimed delivery slot. The storage layer enforces a
// uniqueness constraint on (EntityType, EntityID, EventType, RecipientID);
// winning the insert is the only permission to dispatch.
type NotificationLog struct {
	ID          string    `json:"id"`
	EntityType  string    `json:"entity_type"`
	EntityID    string    `json:"entity_id"`
	EventType   string    `json:"event_type"`
	RecipientID string    `json:"recipient_id"`
	CreatedAt   time.Time `json:"created_at"`
}
