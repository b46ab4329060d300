package documents

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"lawdesk-platform/internal/audit"
	"lawdesk-platform/internal/cases"
)

func newTestService(t *testing.T) (*Service, *MemoryRepo, *cases.MemoryRepo, *audit.MemoryRepo) {
	t.Helper()
	docsRepo := NewMemoryRepo()
	casesRepo := cases.NewMemoryRepo()
	auditRepo := audit.NewMemoryRepo()
	svc := NewService(docsRepo, casesRepo, audit.NewService(auditRepo))
	return svc, docsRepo, casesRepo, auditRepo
}

func seedCase(t *testing.T, repo *cases.MemoryRepo, name string, cf cases.CaseFields) cases.Case {
	t.Helper()
	c := cases.Case{
		ID:        "case-1",
		CaseName:  name,
		Fields:    cf,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Insert(context.Background(), c); err != nil {
		t.Fatalf("seed case: %v", err)
	}
	return c
}

func TestCreateLinkedDocumentTakesCaseName(t *testing.T) {
	svc, _, casesRepo, auditRepo := newTestService(t)
	c := seedCase(t, casesRepo, "Kim v. ABC", cases.CaseFields{
		ClientName:   "Kim Minji",
		OpponentName: "ABC Logistics",
	})

	d, err := svc.Create(context.Background(), CreateRequest{
		Type:   TypeAgreement,
		Name:   "client supplied name",
		Locale: "ko",
		CaseID: c.ID,
	}, "lawyer-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if d.Name != "Kim v. ABC" {
		t.Fatalf("Name = %q, client value must be overridden by case name", d.Name)
	}
	if !d.IsCaseLinked || d.CaseID == nil || *d.CaseID != c.ID {
		t.Fatalf("document not linked: %+v", d)
	}
	a := d.Data.(*AgreementFields)
	if a.ClientName != "Kim Minji" || a.OpponentName != "ABC Logistics" {
		t.Fatalf("case facts not mapped: %+v", a)
	}

	events := auditRepo.Events()
	if len(events) != 1 || events[0].Action != audit.ActionDocumentCreated {
		t.Fatalf("expected one document_created event, got %+v", events)
	}
	if events[0].CaseID == nil || *events[0].CaseID != c.ID {
		t.Fatalf("event not attributed to case: %+v", events[0])
	}
}

func TestCreateLinkedDocumentKeepsHandEnteredData(t *testing.T) {
	svc, _, casesRepo, _ := newTestService(t)
	c := seedCase(t, casesRepo, "Kim v. ABC", cases.CaseFields{ClientName: "Kim Minji"})

	raw, _ := json.Marshal(AgreementFields{SettlementAmount: "30,000,000 KRW"})
	d, err := svc.Create(context.Background(), CreateRequest{
		Type:   TypeAgreement,
		Locale: "ko",
		CaseID: c.ID,
		Data:   raw,
	}, "lawyer-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	a := d.Data.(*AgreementFields)
	if a.SettlementAmount != "30,000,000 KRW" {
		t.Fatalf("hand-entered amount lost: %+v", a)
	}
	if a.ClientName != "Kim Minji" {
		t.Fatalf("case fact not merged on top: %+v", a)
	}
}

func TestCreateStandaloneRequiresName(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), CreateRequest{
		Type:   TypeAgreement,
		Locale: "ko",
	}, "lawyer-1")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestCreateUnknownCase(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), CreateRequest{
		Type:   TypeAgreement,
		Locale: "ko",
		CaseID: "missing",
	}, "lawyer-1")
	if !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("err = %v, want ErrCaseNotFound", err)
	}
}

func TestUpdateReassertsNameInvariant(t *testing.T) {
	svc, _, casesRepo, _ := newTestService(t)
	c := seedCase(t, casesRepo, "Kim v. ABC", cases.CaseFields{ClientName: "Kim Minji"})

	d, err := svc.Create(context.Background(), CreateRequest{
		Type:   TypeAgreement,
		Locale: "ko",
		CaseID: c.ID,
	}, "lawyer-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Update(context.Background(), d.ID, UpdateRequest{
		Name:   "renamed by hand",
		Locale: "ko",
	}, "lawyer-1")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "Kim v. ABC" {
		t.Fatalf("Name = %q, linked documents must mirror the case name", got.Name)
	}
}

func TestRefreshForCaseAbortsBatchOnUnsupportedType(t *testing.T) {
	svc, docsRepo, casesRepo, _ := newTestService(t)
	c := seedCase(t, casesRepo, "Kim v. ABC", cases.CaseFields{ClientName: "Kim Minji"})

	good := Document{
		ID: "doc-good", Type: TypeAgreement, Name: "stale name", Locale: "ko",
		Data: &AgreementFields{}, CaseID: &c.ID, IsCaseLinked: true,
	}
	bad := Document{
		ID: "doc-bad", Type: Type("lease_contract"), Name: "stale name", Locale: "ko",
		CaseID: &c.ID, IsCaseLinked: true,
	}
	if err := docsRepo.Insert(context.Background(), good); err != nil {
		t.Fatal(err)
	}
	if err := docsRepo.Insert(context.Background(), bad); err != nil {
		t.Fatal(err)
	}

	if err := svc.RefreshForCase(context.Background(), c, "lawyer-1"); !errors.Is(err, ErrUnsupportedDocumentType) {
		t.Fatalf("err = %v, want ErrUnsupportedDocumentType", err)
	}

	// The good document must be untouched: the batch aborts before any write.
	stored, ok, _ := docsRepo.Get(context.Background(), "doc-good")
	if !ok || stored.Name != "stale name" {
		t.Fatalf("batch was partially applied: %+v", stored)
	}
}

func TestUnlinkCaseKeepsDocuments(t *testing.T) {
	svc, docsRepo, casesRepo, _ := newTestService(t)
	c := seedCase(t, casesRepo, "Kim v. ABC", cases.CaseFields{})

	d, err := svc.Create(context.Background(), CreateRequest{
		Type:   TypeAgreement,
		Locale: "ko",
		CaseID: c.ID,
	}, "lawyer-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := svc.UnlinkCase(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("UnlinkCase: %v", err)
	}
	if n != 1 {
		t.Fatalf("unlinked %d documents, want 1", n)
	}

	stored, ok, _ := docsRepo.Get(context.Background(), d.ID)
	if !ok {
		t.Fatal("document was deleted, must survive case removal")
	}
	if stored.CaseID != nil || stored.IsCaseLinked {
		t.Fatalf("linkage not cleared: %+v", stored)
	}
}
