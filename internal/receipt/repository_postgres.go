package receipt

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const receiptColumns = `
	id, user_id, restaurant_name, address, date, price, image_url, status, error, created_at
`

func scanReceipt(row pgx.Row) (*Receipt, error) {
	var r Receipt
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.RestaurantName,
		&r.Address,
		&r.Date,
		&r.Price,
		&r.ImageURL,
		&r.Status,
		&r.Error,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (p *PostgresRepository) Create(ctx context.Context, r *Receipt) error {
	return p.db.QueryRow(ctx, `
		INSERT INTO receipts (user_id, restaurant_name, address, date, price, image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at
	`,
		r.UserID,
		r.RestaurantName,
		r.Address,
		r.Date,
		r.Price,
		r.ImageURL,
		StatusPending,
	).Scan(&r.ID, &r.Status, &r.CreatedAt)
}

func (p *PostgresRepository) ListByUser(ctx context.Context, userID string, month *time.Time) ([]*Receipt, error) {
	query := `
		SELECT ` + receiptColumns + `
		FROM receipts
		WHERE user_id = $1
	`
	args := []any{userID}

	if month != nil {
		query += ` AND date >= $2 AND date < $3`
		start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
		args = append(args, start, start.AddDate(0, 1, 0))
	}

	query += ` ORDER BY date DESC, restaurant_name`

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimPending locks the oldest PENDING row and flips it to PROCESSING
// in one transaction. SKIP LOCKED keeps concurrent workers from
// claiming the same receipt.
func (p *PostgresRepository) ClaimPending(ctx context.Context) (*Receipt, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	r, err := scanReceipt(tx.QueryRow(ctx, `
		SELECT `+receiptColumns+`
		FROM receipts
		WHERE status = $1
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`, StatusPending))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE receipts
		SET status = $1, updated_at = now()
		WHERE id = $2
	`, StatusProcessing, r.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.Status = StatusProcessing
	return r, nil
}

func (p *PostgresRepository) MarkProcessed(ctx context.Context, id int) error {
	_, err := p.db.Exec(ctx, `
		UPDATE receipts
		SET status = $1, error = NULL, updated_at = now()
		WHERE id = $2
	`, StatusProcessed, id)
	return err
}

func (p *PostgresRepository) MarkFailed(ctx context.Context, id int, reason string) error {
	_, err := p.db.Exec(ctx, `
		UPDATE receipts
		SET status = $1, error = $2, updated_at = now()
		WHERE id = $3
	`, StatusFailed, reason, id)
	return err
}
