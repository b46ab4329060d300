package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PostgresRepo persists bookings in the booking_requests table.
type PostgresRepo struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db, clock: time.Now}
}

func (r *PostgresRepo) Insert(ctx context.Context, b Request) error {
	const q = `
INSERT INTO booking_requests (
  id, name, phone, email, topic, locale, preferred_at, message, status, created_at, updated_at
) VALUES (
  $1,$2,$3,NULLIF($4,''),NULLIF($5,''),$6,$7,NULLIF($8,''),$9,$10,$11
)
`
	_, err := r.db.ExecContext(ctx, q,
		b.ID, b.Name, b.Phone, b.Email, b.Topic, b.Locale, b.PreferredAt, b.Message, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

const selectBooking = `
SELECT id, name, phone, COALESCE(email,''), COALESCE(topic,''), locale, preferred_at,
       COALESCE(message,''), status, created_at, updated_at
FROM booking_requests
`

func (r *PostgresRepo) Get(ctx context.Context, id string) (Request, bool, error) {
	var b Request
	err := r.db.QueryRowContext(ctx, selectBooking+`WHERE id = $1`, id).Scan(
		&b.ID, &b.Name, &b.Phone, &b.Email, &b.Topic, &b.Locale, &b.PreferredAt,
		&b.Message, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Request{}, false, nil
		}
		return Request{}, false, err
	}
	return b, true, nil
}

func (r *PostgresRepo) List(ctx context.Context, status Status) ([]Request, error) {
	q := selectBooking + `ORDER BY created_at DESC`
	args := []any{}
	if status != "" {
		q = selectBooking + `WHERE status = $1 ORDER BY created_at DESC`
		args = append(args, status)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		var b Request
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Phone, &b.Email, &b.Topic, &b.Locale, &b.PreferredAt,
			&b.Message, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) UpdateStatus(ctx context.Context, id string, status Status) (bool, error) {
	const q = `
UPDATE booking_requests
SET status = $2, updated_at = $3
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q, id, status, r.clock().UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
