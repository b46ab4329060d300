package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo persists events in the audit_events table.
// The table is INSERT-only; see scripts/schema.sql for the enforcing trigger.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (
  id, case_id, entity_type, entity_id, action, meta, actor_id, created_at
) VALUES (
  $1,$2,$3,$4,$5,NULLIF($6,'')::jsonb,NULLIF($7,''),$8
)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.CaseID,
		e.EntityType,
		e.EntityID,
		e.Action,
		e.Meta,
		e.ActorID,
		e.CreatedAt,
	)
	return err
}

func (r *PostgresRepo) ListByCase(ctx context.Context, caseID string) ([]Event, error) {
	const q = `
SELECT id, case_id, entity_type, entity_id, action, COALESCE(meta::text,''), COALESCE(actor_id,''), created_at
FROM audit_events
WHERE case_id = $1
ORDER BY created_at ASC, seq ASC
`
	rows, err := r.db.QueryContext(ctx, q, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(
			&e.ID,
			&e.CaseID,
			&e.EntityType,
			&e.EntityID,
			&e.Action,
			&e.Meta,
			&e.ActorID,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
