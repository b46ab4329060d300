package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only: no Update/Delete methods exist, and the
// audit_events table carries a trigger rejecting both.
type Repository interface {
	Append(ctx context.Context, e Event) error
	ListByCase(ctx context.Context, caseID string) ([]Event, error)
}

// Service owns the audit ledger.
//
// IMPORTANT:
//   - Callers mutating domain state must call Record after their own write succeeds.
//   - Record is best-effort: a failed audit insert is logged and swallowed so it
//     never masks the success of the primary operation.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

// Append validates, stamps and stores an event, returning the stored record.
func (s *Service) Append(ctx context.Context, e Event) (Event, error) {
	if s.repo == nil {
		return Event{}, errors.New("audit: repository not configured")
	}
	if !validEntityType(e.EntityType) {
		return Event{}, ErrInvalidEvent
	}
	if e.EntityID == "" || e.Action == "" {
		return Event{}, ErrInvalidEvent
	}
	if e.CaseID != nil && *e.CaseID == "" {
		e.CaseID = nil
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Record is the best-effort variant of Append used after primary state changes.
// Failures are logged, never returned.
func (s *Service) Record(ctx context.Context, e Event) {
	if _, err := s.Append(ctx, e); err != nil {
		slog.ErrorContext(ctx, "audit append failed",
			"entity_type", e.EntityType,
			"entity_id", e.EntityID,
			"action", e.Action,
			"err", err,
		)
	}
}

// Trail returns the full history for a case, ascending by creation time.
// No pagination: the trail is the authoritative, restartable read of a case's history.
func (s *Service) Trail(ctx context.Context, caseID string) ([]Event, error) {
	if s.repo == nil {
		return nil, errors.New("audit: repository not configured")
	}
	if caseID == "" {
		return nil, ErrInvalidEvent
	}
	return s.repo.ListByCase(ctx, caseID)
}
