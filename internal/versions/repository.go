package versions

import (
	"context"
	"time"
)

// Repository abstracts version and approval persistence.
// Approvals are insert-only; versions only ever move status forward.
//
// Insert assigns the next number for the document when v.Number is zero and
// returns the stored number, so numbering stays consistent under concurrent
// draft creation.
type Repository interface {
	Insert(ctx context.Context, v Version) (int, error)
	Get(ctx context.Context, id string) (Version, bool, error)
	ListByDocument(ctx context.Context, documentID string) ([]Version, error)
	UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error

	InsertApproval(ctx context.Context, a Approval) error
	ListApprovals(ctx context.Context, versionID string) ([]Approval, error)
}
