package domain

import "time"

type Message struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// UnreadGroup is the aggregate used by the chat-unread sweep: unread message
// count per (booking, sender) pair.
type UnreadGroup struct {
	BookingID string
	SenderID  string
	Count     int
}
