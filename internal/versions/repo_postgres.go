package versions

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PostgresRepo persists versions and approvals.
// document_versions.number is unique per document; version_approvals has a
// unique (version_id, locale) constraint making approval grants idempotent.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Insert(ctx context.Context, v Version) (int, error) {
	const q = `
INSERT INTO document_versions (id, document_id, number, status, created_by, created_at, updated_at)
VALUES (
	$1, $2,
	COALESCE(NULLIF($3, 0), (SELECT COALESCE(MAX(number), 0) + 1 FROM document_versions WHERE document_id = $2)),
	$4, NULLIF($5,''), $6, $7
)
RETURNING number
`
	var number int
	err := r.db.QueryRowContext(ctx, q, v.ID, v.DocumentID, v.Number, v.Status, v.CreatedBy, v.CreatedAt, v.UpdatedAt).Scan(&number)
	if err != nil {
		return 0, err
	}
	return number, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Version, bool, error) {
	const q = `
SELECT id, document_id, number, status, COALESCE(created_by,''), created_at, updated_at
FROM document_versions
WHERE id = $1
`
	var v Version
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&v.ID, &v.DocumentID, &v.Number, &v.Status, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Version{}, false, nil
		}
		return Version{}, false, err
	}
	return v, true, nil
}

func (r *PostgresRepo) ListByDocument(ctx context.Context, documentID string) ([]Version, error) {
	const q = `
SELECT id, document_id, number, status, COALESCE(created_by,''), created_at, updated_at
FROM document_versions
WHERE document_id = $1
ORDER BY number ASC
`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Version
	for rows.Next() {
		var v Version
		if err := rows.Scan(&v.ID, &v.DocumentID, &v.Number, &v.Status, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error {
	const q = `
UPDATE document_versions
SET status = $2, updated_at = $3
WHERE id = $1
`
	_, err := r.db.ExecContext(ctx, q, id, status, updatedAt)
	return err
}

func (r *PostgresRepo) InsertApproval(ctx context.Context, a Approval) error {
	const q = `
INSERT INTO version_approvals (id, version_id, locale, approved_by, created_at)
VALUES ($1,$2,$3,NULLIF($4,''),$5)
ON CONFLICT (version_id, locale) DO NOTHING
`
	_, err := r.db.ExecContext(ctx, q, a.ID, a.VersionID, a.Locale, a.ApprovedBy, a.CreatedAt)
	return err
}

func (r *PostgresRepo) ListApprovals(ctx context.Context, versionID string) ([]Approval, error) {
	const q = `
SELECT id, version_id, locale, COALESCE(approved_by,''), created_at
FROM version_approvals
WHERE version_id = $1
ORDER BY created_at ASC
`
	rows, err := r.db.QueryContext(ctx, q, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Approval
	for rows.Next() {
		var a Approval
		if err := rows.Scan(&a.ID, &a.VersionID, &a.Locale, &a.ApprovedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
