package versions

import "time"

// Version is a snapshot of a document progressing through the approval
// lifecycle. The lifecycle is forward-only:
//
//	draft -> pending_approval -> approved -> exported
//
// exported is terminal; re-exports reuse the same version.
type Version struct {
	ID         string `json:"id" db:"id"`
	DocumentID string `json:"document_id" db:"document_id"`

	// Number is 1-based and monotonic per document.
	Number int `json:"number" db:"number"`

	Status Status `json:"status" db:"status"`

	CreatedBy string    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusExported        Status = "exported"
)

// CanTransition reports whether from -> to is a legal forward step.
// No regression transitions are modeled.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusDraft:
		return to == StatusPendingApproval
	case StatusPendingApproval:
		return to == StatusApproved
	case StatusApproved:
		return to == StatusExported
	default:
		return false
	}
}

// Approval is a per-locale translation approval of a version.
// Insert-only; one row per (version, locale).
type Approval struct {
	ID         string    `json:"id" db:"id"`
	VersionID  string    `json:"version_id" db:"version_id"`
	Locale     string    `json:"locale" db:"locale"`
	ApprovedBy string    `json:"approved_by,omitempty" db:"approved_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
