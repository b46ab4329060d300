package audit

import "time"

// Event is an immutable, append-only audit log record.
//
// Invariants:
// - Events are never updated or deleted.
// - CaseID is nil for events not attributable to a case (e.g. standalone documents).
// - Ordering within a case is ascending CreatedAt, insertion order breaking ties.
//
// Storage (Postgres):
// - Table audit_events with an INSERT-only policy (see scripts/schema.sql).
// - seq bigserial provides a stable tiebreaker for equal timestamps.
type Event struct {
	ID string `json:"id" db:"id"`

	// CaseID keys the event to the originating case when one exists.
	CaseID *string `json:"case_id,omitempty" db:"case_id"`

	EntityType EntityType `json:"entity_type" db:"entity_type"`
	EntityID   string     `json:"entity_id" db:"entity_id"`

	// Action is a short stable verb, e.g. "case_created", "export_created".
	Action string `json:"action" db:"action"`

	// Meta is optional JSON with action-specific details (store as JSONB).
	Meta string `json:"meta,omitempty" db:"meta"`

	// ActorID is the authenticated user causing the event, empty for system actions.
	ActorID string `json:"actor_id,omitempty" db:"actor_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EntityType string

const (
	EntityTypeCase        EntityType = "case"
	EntityTypeDocument    EntityType = "document"
	EntityTypeVersion     EntityType = "version"
	EntityTypeTranslation EntityType = "translation"
	EntityTypeApproval    EntityType = "approval"
	EntityTypeExport      EntityType = "export"
)

func validEntityType(t EntityType) bool {
	switch t {
	case EntityTypeCase, EntityTypeDocument, EntityTypeVersion,
		EntityTypeTranslation, EntityTypeApproval, EntityTypeExport:
		return true
	default:
		return false
	}
}

// Well-known actions. Keep these stable; dashboards and the admin UI key off them.
const (
	ActionCaseCreated      = "case_created"
	ActionCaseUpdated      = "case_updated"
	ActionCaseDeleted      = "case_deleted"
	ActionDocumentCreated  = "document_created"
	ActionDocumentUpdated  = "document_updated"
	ActionDocumentDeleted  = "document_deleted"
	ActionVersionCreated   = "version_created"
	ActionVersionSubmitted = "version_submitted"
	ActionVersionApproved  = "version_approved"
	ActionApprovalGranted  = "approval_granted"
	ActionExportCreated    = "export_created"
)
