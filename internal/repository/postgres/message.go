package postgres

import (
	"context"
	"database/sql"
	"time"

	"arendol-backend/internal/domain"
	"arendol-backend/internal/repository"
)

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) CountUnread(ctx context.Context, bookingID, recipientID string) (int, error) {
	query := `SELECT count(*) FROM messages
		WHERE booking_id = $1 AND sender_id <> $2 AND is_read = FALSE`
	var count int
	err := r.db.QueryRowContext(ctx, query, bookingID, recipientID).Scan(&count)
	return count, err
}

func (r *messageRepository) GroupUnreadOlderThan(ctx context.Context, cutoff time.Time) ([]domain.UnreadGroup, error) {
	query := `SELECT booking_id, sender_id, count(*)
		FROM messages
		WHERE is_read = FALSE AND created_at <= $1
		GROUP BY booking_id, sender_id`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []domain.UnreadGroup
	for rows.Next() {
		var g domain.UnreadGroup
		if err := rows.Scan(&g.BookingID, &g.SenderID, &g.Count); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
