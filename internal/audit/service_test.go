package audit

import (
	"context"
	"testing"
	"time"
)

func strptr(s string) *string { return &s }

func TestService_AppendRequiresEntityAndAction(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if _, err := svc.Append(context.Background(), Event{EntityType: "bogus", EntityID: "x", Action: "a"}); err == nil {
		t.Fatalf("expected error for unknown entity type")
	}
	if _, err := svc.Append(context.Background(), Event{EntityType: EntityTypeCase, Action: "a"}); err == nil {
		t.Fatalf("expected error for missing entity id")
	}
	if _, err := svc.Append(context.Background(), Event{EntityType: EntityTypeCase, EntityID: "x"}); err == nil {
		t.Fatalf("expected error for missing action")
	}
}

func TestService_AppendStampsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	fixed := time.Unix(1700000000, 0).UTC()
	svc.clock = func() time.Time { return fixed }

	e, err := svc.Append(context.Background(), Event{
		CaseID:     strptr("case-1"),
		EntityType: EntityTypeDocument,
		EntityID:   "doc-1",
		Action:     ActionDocumentCreated,
		ActorID:    "u1",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected server-assigned id")
	}
	if !e.CreatedAt.Equal(fixed) {
		t.Fatalf("expected clock timestamp, got %v", e.CreatedAt)
	}
}

func TestService_TrailOrderedAndScopedToCase(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	base := time.Unix(1700000000, 0).UTC()
	for i, ev := range []Event{
		{CaseID: strptr("case-1"), EntityType: EntityTypeCase, EntityID: "case-1", Action: ActionCaseCreated},
		{CaseID: strptr("case-2"), EntityType: EntityTypeCase, EntityID: "case-2", Action: ActionCaseCreated},
		{CaseID: strptr("case-1"), EntityType: EntityTypeDocument, EntityID: "doc-1", Action: ActionDocumentCreated},
		{CaseID: strptr("case-1"), EntityType: EntityTypeExport, EntityID: "ver-1", Action: ActionExportCreated},
	} {
		ev.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if _, err := svc.Append(context.Background(), ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	trail, err := svc.Trail(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("trail: %v", err)
	}
	if len(trail) != 3 {
		t.Fatalf("expected 3 events for case-1, got %d", len(trail))
	}
	for i := 1; i < len(trail); i++ {
		if trail[i].CreatedAt.Before(trail[i-1].CreatedAt) {
			t.Fatalf("trail not ascending at %d", i)
		}
	}
	for _, e := range trail {
		if e.CaseID == nil || *e.CaseID != "case-1" {
			t.Fatalf("foreign case event leaked into trail: %+v", e)
		}
	}
}

type failingRepo struct{}

func (failingRepo) Append(ctx context.Context, e Event) error { return context.DeadlineExceeded }
func (failingRepo) ListByCase(ctx context.Context, caseID string) ([]Event, error) {
	return nil, context.DeadlineExceeded
}

func TestService_RecordSwallowsRepositoryFailure(t *testing.T) {
	svc := NewService(failingRepo{})

	// Must not panic or propagate; failure only surfaces in logs.
	svc.Record(context.Background(), Event{
		EntityType: EntityTypeVersion,
		EntityID:   "ver-1",
		Action:     ActionVersionSubmitted,
	})
}
