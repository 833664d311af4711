package postgres

import (
	"context"
	"database/sql"

	"arendol-backend/internal/domain"
	"arendol-backend/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `INSERT INTO reviews (id, booking_id, item_id, user_id, rating, text, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		review.ID, review.BookingID, review.ItemID, review.UserID,
		review.Rating, nullString(review.Text), review.Type, review.CreatedAt)
	return err
}

func (r *reviewRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.Review, error) {
	query := `SELECT id, booking_id, item_id, user_id, rating, text, type, created_at
		FROM reviews WHERE booking_id = $1`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		var text sql.NullString
		err := rows.Scan(&rv.ID, &rv.BookingID, &rv.ItemID, &rv.UserID,
			&rv.Rating, &text, &rv.Type, &rv.CreatedAt)
		if err != nil {
			return nil, err
		}
		rv.Text = text.String
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
