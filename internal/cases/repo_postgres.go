package cases

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"lawdesk-platform/pkg/utils"
)

// PostgresRepo persists cases in the cases table.
// case_data is JSONB; see scripts/schema.sql.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Insert(ctx context.Context, c Case) error {
	fields, err := json.Marshal(c.Fields)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO cases (id, case_number, case_name, case_data, created_at, updated_at)
VALUES ($1, NULLIF($2,''), $3, $4, $5, $6)
`
	_, err = r.db.ExecContext(ctx, q, c.ID, c.CaseNumber, c.CaseName, fields, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Case, bool, error) {
	const q = `
SELECT id, COALESCE(case_number,''), case_name, case_data, created_at, updated_at
FROM cases
WHERE id = $1
`
	var c Case
	var fields []byte
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID,
		&c.CaseNumber,
		&c.CaseName,
		&fields,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Case{}, false, nil
		}
		return Case{}, false, err
	}
	if err := json.Unmarshal(fields, &c.Fields); err != nil {
		return Case{}, false, err
	}
	return c, true, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]Case, error) {
	const q = `
SELECT id, COALESCE(case_number,''), case_name, case_data, created_at, updated_at
FROM cases
ORDER BY created_at DESC
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Case
	for rows.Next() {
		var c Case
		var fields []byte
		if err := rows.Scan(&c.ID, &c.CaseNumber, &c.CaseName, &fields, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(fields, &c.Fields); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, c Case) error {
	fields, err := json.Marshal(c.Fields)
	if err != nil {
		return err
	}
	const q = `
UPDATE cases
SET case_number = NULLIF($2,''), case_name = $3, case_data = $4, updated_at = $5
WHERE id = $1
`
	_, err = r.db.ExecContext(ctx, q, c.ID, c.CaseNumber, c.CaseName, fields, c.UpdatedAt)
	return err
}

// Delete removes the case row and nulls the linkage on dependent documents in
// one transaction. The documents FK is declared ON DELETE SET NULL as well, so
// documents survive the case even if this path is bypassed.
func (r *PostgresRepo) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE documents SET case_id = NULL, is_case_linked = FALSE WHERE case_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM cases WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
