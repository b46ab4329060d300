package cases

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lawdesk-platform/internal/audit"
)

// recordingRefresher stands in for the documents service.
type recordingRefresher struct {
	refreshed []Case
	unlinked  []string
	failWith  error
}

func (r *recordingRefresher) RefreshForCase(ctx context.Context, c Case, actorID string) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.refreshed = append(r.refreshed, c)
	return nil
}

func (r *recordingRefresher) UnlinkCase(ctx context.Context, caseID string) (int, error) {
	r.unlinked = append(r.unlinked, caseID)
	return 2, nil
}

func newTestService(t *testing.T) (*Service, *recordingRefresher, *audit.MemoryRepo) {
	t.Helper()
	docs := &recordingRefresher{}
	auditRepo := audit.NewMemoryRepo()
	svc := NewService(NewMemoryRepo(), docs, audit.NewService(auditRepo))
	return svc, docs, auditRepo
}

func TestCreateValidatesName(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Create(context.Background(), CreateRequest{}, "admin-1"); err == nil {
		t.Fatal("expected validation error for empty case_name")
	}
}

func TestCreateRecordsAuditEvent(t *testing.T) {
	svc, _, auditRepo := newTestService(t)
	c, err := svc.Create(context.Background(), CreateRequest{CaseName: "Kim v. ABC"}, "admin-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	events := auditRepo.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.Action != audit.ActionCaseCreated || e.EntityID != c.ID || e.ActorID != "admin-1" {
		t.Fatalf("unexpected event: %+v", e)
	}
}

func TestUpdateWithoutCascadeSkipsDocuments(t *testing.T) {
	svc, docs, _ := newTestService(t)
	c, err := svc.Create(context.Background(), CreateRequest{CaseName: "Kim v. ABC"}, "admin-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(context.Background(), c.ID, UpdateRequest{CaseName: "Kim v. ABC Logistics"}, "admin-1"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(docs.refreshed) != 0 {
		t.Fatalf("documents refreshed without update_linked_documents: %+v", docs.refreshed)
	}
}

func TestUpdateCascadesToLinkedDocuments(t *testing.T) {
	svc, docs, _ := newTestService(t)
	c, err := svc.Create(context.Background(), CreateRequest{CaseName: "Kim v. ABC"}, "admin-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Update(context.Background(), c.ID, UpdateRequest{
		CaseName:              "Kim v. ABC Logistics",
		UpdateLinkedDocuments: true,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(docs.refreshed) != 1 {
		t.Fatalf("refreshed %d times, want 1", len(docs.refreshed))
	}
	// The refresher must see the post-update case, not the stale one.
	if docs.refreshed[0].CaseName != got.CaseName {
		t.Fatalf("refresher saw %q, want %q", docs.refreshed[0].CaseName, got.CaseName)
	}
}

func TestUpdateSurfacesRefreshFailure(t *testing.T) {
	svc, docs, _ := newTestService(t)
	c, err := svc.Create(context.Background(), CreateRequest{CaseName: "Kim v. ABC"}, "admin-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	docs.failWith = errors.New("unsupported document type")
	_, err = svc.Update(context.Background(), c.ID, UpdateRequest{
		CaseName:              "renamed",
		UpdateLinkedDocuments: true,
	}, "admin-1")
	if err == nil || !strings.Contains(err.Error(), "unsupported document type") {
		t.Fatalf("err = %v, want refresh failure surfaced", err)
	}
}

func TestDeleteUnlinksDocumentsFirst(t *testing.T) {
	svc, docs, auditRepo := newTestService(t)
	c, err := svc.Create(context.Background(), CreateRequest{CaseName: "Kim v. ABC"}, "admin-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), c.ID, "admin-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(docs.unlinked) != 1 || docs.unlinked[0] != c.ID {
		t.Fatalf("documents not unlinked: %+v", docs.unlinked)
	}
	if _, err := svc.Get(context.Background(), c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("case still readable after delete: %v", err)
	}

	events := auditRepo.Events()
	last := events[len(events)-1]
	if last.Action != audit.ActionCaseDeleted {
		t.Fatalf("last event %q, want case_deleted", last.Action)
	}
	if !strings.Contains(last.Meta, `"documents_unlinked":2`) {
		t.Fatalf("meta missing unlink count: %s", last.Meta)
	}
}

func TestDeleteUnknownCase(t *testing.T) {
	svc, _, _ := newTestService(t)
	if err := svc.Delete(context.Background(), "missing", "admin-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
