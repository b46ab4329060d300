package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepo persists documents in the documents table.
// The data column is JSONB; payload shape is validated in the service layer
// via DecodeFields before anything reaches this repository.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Insert(ctx context.Context, d Document) error {
	data, err := EncodeFields(d.Data)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO documents (
  id, document_type, name, date, locale, data, case_id, is_case_linked, created_at, updated_at
) VALUES (
  $1,$2,$3,NULLIF($4,''),$5,$6,$7,$8,$9,$10
)
`
	_, err = r.db.ExecContext(ctx, q,
		d.ID, d.Type, d.Name, d.Date, d.Locale, data, d.CaseID, d.IsCaseLinked, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

const selectDocument = `
SELECT id, document_type, name, COALESCE(date,''), locale, data, case_id, is_case_linked, created_at, updated_at
FROM documents
`

func scanDocument(scan func(dest ...any) error) (Document, error) {
	var d Document
	var raw []byte
	if err := scan(
		&d.ID, &d.Type, &d.Name, &d.Date, &d.Locale, &raw, &d.CaseID, &d.IsCaseLinked, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return Document{}, err
	}
	data, err := DecodeFields(d.Type, raw)
	if err != nil {
		return Document{}, err
	}
	d.Data = data
	return d, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Document, bool, error) {
	row := r.db.QueryRowContext(ctx, selectDocument+`WHERE id = $1`, id)
	d, err := scanDocument(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, false, nil
		}
		return Document{}, false, err
	}
	return d, true, nil
}

func (r *PostgresRepo) List(ctx context.Context, caseID string) ([]Document, error) {
	q := selectDocument + `ORDER BY created_at DESC`
	args := []any{}
	if caseID != "" {
		q = selectDocument + `WHERE case_id = $1 ORDER BY created_at DESC`
		args = append(args, caseID)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, d Document) error {
	data, err := EncodeFields(d.Data)
	if err != nil {
		return err
	}
	const q = `
UPDATE documents
SET document_type = $2, name = $3, date = NULLIF($4,''), locale = $5, data = $6,
    case_id = $7, is_case_linked = $8, updated_at = $9
WHERE id = $1
`
	_, err = r.db.ExecContext(ctx, q,
		d.ID, d.Type, d.Name, d.Date, d.Locale, data, d.CaseID, d.IsCaseLinked, d.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresRepo) UnlinkCase(ctx context.Context, caseID string) (int, error) {
	const q = `
UPDATE documents
SET case_id = NULL, is_case_linked = FALSE
WHERE case_id = $1
`
	res, err := r.db.ExecContext(ctx, q, caseID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
