package postgres

import (
	"database/sql"

	"arendol-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.BookingRepository
	repository.ItemRepository
	repository.UserRepository
	repository.MessageRepository
	repository.ReviewRepository
	repository.NotificationLogRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                        db,
		BookingRepository:         NewBookingRepository(db),
		ItemRepository:            NewItemRepository(db),
		UserRepository:            NewUserRepository(db),
		MessageRepository:         NewMessageRepository(db),
		ReviewRepository:          NewReviewRepository(db),
		NotificationLogRepository: NewNotificationLogRepository(db),
	}
}
