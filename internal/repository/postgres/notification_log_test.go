package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestNotificationLogRepository_Claim(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstInsertWins", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		repo := NewNotificationLogRepository(db)

		mock.ExpectExec("INSERT INTO notification_logs").
			WithArgs(sqlmock.AnyArg(), "booking", "booking-1", "review_reminder", "renter-1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		claimed, err := repo.Claim(ctx, "booking", "booking-1", "review_reminder", "renter-1")
		assert.NoError(t, err)
		assert.True(t, claimed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateIsNotAnError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		repo := NewNotificationLogRepository(db)

		mock.ExpectExec("INSERT INTO notification_logs").
			WillReturnError(&pq.Error{Code: "23505"})

		claimed, err := repo.Claim(ctx, "booking", "booking-1", "review_reminder", "renter-1")
		assert.NoError(t, err)
		assert.False(t, claimed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("StorageFaultSurfaces", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		repo := NewNotificationLogRepository(db)

		mock.ExpectExec("INSERT INTO notification_logs").
			WillReturnError(errors.New("connection reset"))

		claimed, err := repo.Claim(ctx, "booking", "booking-1", "review_reminder", "renter-1")
		assert.Error(t, err)
		assert.False(t, claimed)
	})
}

func TestNotificationLogRepository_DeleteClaim(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := NewNotificationLogRepository(db)

	mock.ExpectExec("DELETE FROM notification_logs").
		WithArgs("message_batch", "owner-1:booking-1", "chat_unread", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.DeleteClaim(ctx, "message_batch", "owner-1:booking-1", "chat_unread", "owner-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationLogRepository_ListByEventType(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := NewNotificationLogRepository(db)

	created := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "entity_type", "entity_id", "event_type", "recipient_id", "created_at"}).
		AddRow("log-1", "message_batch", "owner-1:booking-1", "chat_unread", "owner-1", created)
	mock.ExpectQuery("SELECT (.+) FROM notification_logs WHERE event_type = \\$1").
		WithArgs("chat_unread").
		WillReturnRows(rows)

	logs, err := repo.ListByEventType(ctx, "chat_unread")
	assert.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Equal(t, "owner-1:booking-1", logs[0].EntityID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
