package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"arendol-backend/internal/domain"
	"arendol-backend/internal/repository"
)

const userColumns = `id, name, email, phone, role, is_blocked, is_verified, rating,
	default_approval_mode, default_approval_threshold,
	verification_status, verification_submitted_at,
	notify_email, notify_telegram, notify_push, telegram_chat_id, push_token,
	created_at`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetUserRating(ctx context.Context, id string) (*float64, error) {
	var rating sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `SELECT rating FROM users WHERE id = $1`, id).Scan(&rating)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !rating.Valid {
		return nil, nil
	}
	v := rating.Float64
	return &v, nil
}

func (r *userRepository) IsUserVerified(ctx context.Context, id string) (bool, error) {
	var verified bool
	err := r.db.QueryRowContext(ctx, `SELECT is_verified FROM users WHERE id = $1`, id).Scan(&verified)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domain.ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return verified, nil
}

func (r *userRepository) ListStaff(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE role IN ($1, $2) AND is_blocked = FALSE`
	return r.queryUsers(ctx, query, domain.UserRoleAdmin, domain.UserRoleModerator)
}

func (r *userRepository) ListPendingVerification(ctx context.Context, before time.Time) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE verification_status = $1
		  AND verification_submitted_at IS NOT NULL
		  AND verification_submitted_at <= $2
		ORDER BY verification_submitted_at ASC`
	return r.queryUsers(ctx, query, domain.VerificationStatusPending, before)
}

// RecalculateRating averages every review written about the user: renter
// reviews on items they own plus owner reviews on bookings where they rented.
func (r *userRepository) RecalculateRating(ctx context.Context, id string) error {
	query := `UPDATE users SET rating = (
		SELECT AVG(rv.rating)::numeric(3,2)
		FROM reviews rv
		JOIN bookings b ON b.id = rv.booking_id
		JOIN items i ON i.id = b.item_id
		WHERE (rv.type = $2 AND i.owner_id = $1)
		   OR (rv.type = $3 AND b.renter_id = $1)
	) WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, domain.ReviewTypeRenter, domain.ReviewTypeOwner)
	return err
}

func (r *userRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var phone, pushToken sql.NullString
	var rating sql.NullFloat64
	var telegramChatID sql.NullInt64
	var verificationSubmittedAt sql.NullTime

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &phone, &u.Role, &u.IsBlocked, &u.IsVerified, &rating,
		&u.DefaultApprovalMode, &u.DefaultApprovalThreshold,
		&u.VerificationStatus, &verificationSubmittedAt,
		&u.NotifyEmail, &u.NotifyTelegram, &u.NotifyPush, &telegramChatID, &pushToken,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.Phone = phone.String
	u.PushToken = pushToken.String
	u.TelegramChatID = telegramChatID.Int64
	if rating.Valid {
		v := rating.Float64
		u.Rating = &v
	}
	u.VerificationSubmittedAt = timePtr(verificationSubmittedAt)
	return &u, nil
}
