package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"arendol-backend/internal/domain"
	"arendol-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint breach.
const uniqueViolation = "23505"

type notificationLogRepository struct {
	db *sql.DB
}

func NewNotificationLogRepository(db *sql.DB) repository.NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

// Claim inserts a delivery slot. Losing to an existing row is not an error:
// the uniqueness constraint on (entity_type, entity_id, event_type,
// recipient_id) is what makes dispatch idempotent.
func (r *notificationLogRepository) Claim(ctx context.Context, entityType, entityID, eventType, recipientID string) (bool, error) {
	query := `INSERT INTO notification_logs (id, entity_type, entity_id, event_type, recipient_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(), entityType, entityID, eventType, recipientID, time.Now().UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *notificationLogRepository) DeleteClaim(ctx context.Context, entityType, entityID, eventType, recipientID string) error {
	query := `DELETE FROM notification_logs
		WHERE entity_type = $1 AND entity_id = $2 AND event_type = $3 AND recipient_id = $4`
	_, err := r.db.ExecContext(ctx, query, entityType, entityID, eventType, recipientID)
	return err
}

func (r *notificationLogRepository) ListByEventType(ctx context.Context, eventType string) ([]domain.NotificationLog, error) {
	query := `SELECT id, entity_type, entity_id, event_type, recipient_id, created_at
		FROM notification_logs WHERE event_type = $1`
	rows, err := r.db.QueryContext(ctx, query, eventType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.NotificationLog
	for rows.Next() {
		var l domain.NotificationLog
		err := rows.Scan(&l.ID, &l.EntityType, &l.EntityID, &l.EventType, &l.RecipientID, &l.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
