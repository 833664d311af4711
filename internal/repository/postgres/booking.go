package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"arendol-backend/internal/domain"
	"arendol-backend/internal/repository"
)

const bookingColumns = `id, item_id, renter_id, start_date, end_date, rental_type,
	rental_price, deposit, commission, insurance, total_price, prepayment, is_insured,
	status, deposit_status, rejection_reason, payment_id,
	deposit_confirmed_by_renter, remainder_confirmed_by_renter,
	deposit_confirmed_by_owner, remainder_confirmed_by_owner,
	created_at, approval_deadline, approved_at, paid_at, rejected_at,
	handover_confirmed_at, completed_at`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (id, item_id, renter_id, start_date, end_date, rental_type,
		rental_price, deposit, commission, insurance, total_price, prepayment, is_insured,
		status, deposit_status, payment_id, created_at, approval_deadline, approved_at, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	var depositStatus interface{}
	if b.DepositStatus != "" {
		depositStatus = string(b.DepositStatus)
	}
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.ItemID, b.RenterID, b.StartDate, b.EndDate, b.RentalType,
		b.RentalPrice, b.Deposit, b.Commission, b.Insurance, b.TotalPrice, b.Prepayment, b.IsInsured,
		b.Status, depositStatus, nullString(b.PaymentID), b.CreatedAt,
		b.ApprovalDeadline, b.ApprovedAt, b.PaidAt)
	return err
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) FindMany(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	query := `SELECT ` + strings.ReplaceAll(bookingColumns, "id,", "b.id,") + `
		FROM bookings b JOIN items i ON i.id = b.item_id WHERE 1=1`
	var args []interface{}
	idx := 1
	if filter.RenterID != "" && filter.OwnerID != "" {
		query += fmt.Sprintf(" AND (b.renter_id = $%d OR i.owner_id = $%d)", idx, idx+1)
		args = append(args, filter.RenterID, filter.OwnerID)
		idx += 2
	} else if filter.RenterID != "" {
		query += fmt.Sprintf(" AND b.renter_id = $%d", idx)
		args = append(args, filter.RenterID)
		idx++
	} else if filter.OwnerID != "" {
		query += fmt.Sprintf(" AND i.owner_id = $%d", idx)
		args = append(args, filter.OwnerID)
		idx++
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			placeholders = append(placeholders, fmt.Sprintf("$%d", idx))
			args = append(args, s)
			idx++
		}
		query += " AND b.status IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY b.created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", idx)
		args = append(args, filter.Limit)
	}
	return r.queryBookings(ctx, query, args...)
}

func (r *bookingRepository) FindByStatusAndDeadlineBefore(ctx context.Context, status domain.BookingStatus, t time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE status = $1 AND approval_deadline IS NOT NULL AND approval_deadline <= $2`
	return r.queryBookings(ctx, query, status, t)
}

func (r *bookingRepository) FindByStatusEndingBetween(ctx context.Context, status domain.BookingStatus, from, to time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE status = $1 AND end_date >= $2 AND end_date <= $3`
	return r.queryBookings(ctx, query, status, from, to)
}

func (r *bookingRepository) FindCompletedBefore(ctx context.Context, t time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE status = $1 AND completed_at IS NOT NULL AND completed_at <= $2`
	return r.queryBookings(ctx, query, domain.BookingStatusCompleted, t)
}

func (r *bookingRepository) CountOverlapping(ctx context.Context, itemID string, start, end time.Time) (int, error) {
	query := `SELECT count(*) FROM bookings
		WHERE item_id = $1
		  AND status IN ($2, $3, $4, $5)
		  AND start_date <= $6 AND end_date >= $7`
	var count int
	err := r.db.QueryRowContext(ctx, query, itemID,
		domain.BookingStatusPendingApproval, domain.BookingStatusPendingPayment,
		domain.BookingStatusPaid, domain.BookingStatusActive,
		end, start).Scan(&count)
	return count, err
}

// CompareAndSwapStatus applies the update with a conditional UPDATE: the WHERE
// clause pins the status observed by the caller, so a concurrent transition
// makes RowsAffected zero instead of silently overwriting.
func (r *bookingRepository) CompareAndSwapStatus(ctx context.Context, id string, expected domain.BookingStatus, upd repository.BookingUpdate) (bool, error) {
	set := []string{"status = $1"}
	args := []interface{}{upd.Status}
	idx := 2
	add := func(col string, val interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if upd.DepositStatus != nil {
		add("deposit_status", *upd.DepositStatus)
	}
	if upd.RejectionReason != nil {
		add("rejection_reason", *upd.RejectionReason)
	}
	if upd.PaymentID != nil {
		add("payment_id", *upd.PaymentID)
	}
	if upd.ApprovedAt != nil {
		add("approved_at", *upd.ApprovedAt)
	}
	if upd.PaidAt != nil {
		add("paid_at", *upd.PaidAt)
	}
	if upd.RejectedAt != nil {
		add("rejected_at", *upd.RejectedAt)
	}
	if upd.HandoverConfirmedAt != nil {
		add("handover_confirmed_at", *upd.HandoverConfirmedAt)
	}
	if upd.CompletedAt != nil {
		add("completed_at", *upd.CompletedAt)
	}
	if upd.DepositConfirmedByRenter != nil {
		add("deposit_confirmed_by_renter", *upd.DepositConfirmedByRenter)
	}
	if upd.RemainderConfirmedByRenter != nil {
		add("remainder_confirmed_by_renter", *upd.RemainderConfirmedByRenter)
	}
	if upd.DepositConfirmedByOwner != nil {
		add("deposit_confirmed_by_owner", *upd.DepositConfirmedByOwner)
	}
	if upd.RemainderConfirmedByOwner != nil {
		add("remainder_confirmed_by_owner", *upd.RemainderConfirmedByOwner)
	}

	query := fmt.Sprintf("UPDATE bookings SET %s WHERE id = $%d AND status = $%d",
		strings.Join(set, ", "), idx, idx+1)
	args = append(args, id, expected)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *bookingRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var depositStatus, rejectionReason, paymentID sql.NullString
	var approvalDeadline, approvedAt, paidAt, rejectedAt, handoverAt, completedAt sql.NullTime

	err := row.Scan(
		&b.ID, &b.ItemID, &b.RenterID, &b.StartDate, &b.EndDate, &b.RentalType,
		&b.RentalPrice, &b.Deposit, &b.Commission, &b.Insurance, &b.TotalPrice, &b.Prepayment, &b.IsInsured,
		&b.Status, &depositStatus, &rejectionReason, &paymentID,
		&b.DepositConfirmedByRenter, &b.RemainderConfirmedByRenter,
		&b.DepositConfirmedByOwner, &b.RemainderConfirmedByOwner,
		&b.CreatedAt, &approvalDeadline, &approvedAt, &paidAt, &rejectedAt,
		&handoverAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	if depositStatus.Valid {
		b.DepositStatus = domain.DepositStatus(depositStatus.String)
	}
	b.RejectionReason = rejectionReason.String
	b.PaymentID = paymentID.String
	b.ApprovalDeadline = timePtr(approvalDeadline)
	b.ApprovedAt = timePtr(approvedAt)
	b.PaidAt = timePtr(paidAt)
	b.RejectedAt = timePtr(rejectedAt)
	b.HandoverConfirmedAt = timePtr(handoverAt)
	b.CompletedAt = timePtr(completedAt)
	return &b, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
