package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"arendol-backend/internal/domain"
	"arendol-backend/internal/repository"
)

const itemColumns = `id, owner_id, title, status, price_per_day, price_per_month,
	deposit, approval_mode, approval_threshold, created_at`

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepository) ListPendingModeration(ctx context.Context, before time.Time) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE status = $1 AND created_at <= $2
		ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, domain.ItemStatusPending, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	var approvalMode sql.NullString
	var approvalThreshold sql.NullFloat64

	err := row.Scan(
		&item.ID, &item.OwnerID, &item.Title, &item.Status,
		&item.PricePerDay, &item.PricePerMonth, &item.Deposit,
		&approvalMode, &approvalThreshold, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if approvalMode.Valid {
		mode := domain.ApprovalMode(approvalMode.String)
		item.ApprovalMode = &mode
	}
	if approvalThreshold.Valid {
		threshold := approvalThreshold.Float64
		item.ApprovalThreshold = &threshold
	}
	return &item, nil
}
