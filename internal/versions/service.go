package versions

import (
	"context"
	"errors"
	"time"

	"lawdesk-platform/internal/audit"
	"lawdesk-platform/internal/documents"

	"github.com/google/uuid"
)

// DocumentLookup is the read-side dependency on the document store.
// documents.Repository satisfies it directly.
type DocumentLookup interface {
	Get(ctx context.Context, id string) (documents.Document, bool, error)
}

// Service owns the version lifecycle and per-locale approvals.
type Service struct {
	repo  Repository
	docs  DocumentLookup
	audit *audit.Service
	clock func() time.Time
}

func NewService(repo Repository, docs DocumentLookup, auditSvc *audit.Service) *Service {
	return &Service{repo: repo, docs: docs, audit: auditSvc, clock: time.Now}
}

var (
	ErrNotFound          = errors.New("version not found")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid version transition")
)

// CreateDraft opens a new draft version for a document.
func (s *Service) CreateDraft(ctx context.Context, documentID, actorID string) (Version, error) {
	if documentID == "" {
		return Version{}, ErrInvalidArgument
	}
	doc, ok, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return Version{}, err
	}
	if !ok {
		return Version{}, ErrDocumentNotFound
	}

	now := s.clock().UTC()
	v := Version{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Status:     StatusDraft,
		CreatedBy:  actorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	number, err := s.repo.Insert(ctx, v)
	if err != nil {
		return Version{}, err
	}
	v.Number = number

	s.audit.Record(ctx, audit.Event{
		CaseID:     doc.CaseID,
		EntityType: audit.EntityTypeVersion,
		EntityID:   v.ID,
		Action:     audit.ActionVersionCreated,
		Meta:       audit.Meta(map[string]any{"document_id": documentID, "number": v.Number}),
		ActorID:    actorID,
	})
	return v, nil
}

func (s *Service) Get(ctx context.Context, id string) (Version, error) {
	if id == "" {
		return Version{}, ErrInvalidArgument
	}
	v, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return Version{}, err
	}
	if !ok {
		return Version{}, ErrNotFound
	}
	return v, nil
}

func (s *Service) ListByDocument(ctx context.Context, documentID string) ([]Version, error) {
	if documentID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.ListByDocument(ctx, documentID)
}

// Submit moves draft -> pending_approval.
func (s *Service) Submit(ctx context.Context, versionID, actorID string) (Version, error) {
	return s.transition(ctx, versionID, StatusPendingApproval, audit.ActionVersionSubmitted, actorID)
}

// Approve moves pending_approval -> approved.
func (s *Service) Approve(ctx context.Context, versionID, actorID string) (Version, error) {
	return s.transition(ctx, versionID, StatusApproved, audit.ActionVersionApproved, actorID)
}

// MarkExported moves approved -> exported. Called by the export handler only
// after a package render succeeded; already-exported versions pass through so
// re-exports stay idempotent.
func (s *Service) MarkExported(ctx context.Context, versionID, actorID string) (Version, error) {
	v, ok, err := s.repo.Get(ctx, versionID)
	if err != nil {
		return Version{}, err
	}
	if !ok {
		return Version{}, ErrNotFound
	}
	if v.Status == StatusExported {
		return v, nil
	}
	return s.transition(ctx, versionID, StatusExported, "", actorID)
}

func (s *Service) transition(ctx context.Context, versionID string, to Status, action string, actorID string) (Version, error) {
	if versionID == "" {
		return Version{}, ErrInvalidArgument
	}
	v, ok, err := s.repo.Get(ctx, versionID)
	if err != nil {
		return Version{}, err
	}
	if !ok {
		return Version{}, ErrNotFound
	}
	if !CanTransition(v.Status, to) {
		return Version{}, ErrInvalidTransition
	}

	now := s.clock().UTC()
	if err := s.repo.UpdateStatus(ctx, v.ID, to, now); err != nil {
		return Version{}, err
	}
	v.Status = to
	v.UpdatedAt = now

	if action != "" {
		var caseID *string
		if doc, ok, err := s.docs.Get(ctx, v.DocumentID); err == nil && ok {
			caseID = doc.CaseID
		}
		s.audit.Record(ctx, audit.Event{
			CaseID:     caseID,
			EntityType: audit.EntityTypeVersion,
			EntityID:   v.ID,
			Action:     action,
			Meta:       audit.Meta(map[string]any{"document_id": v.DocumentID, "status": v.Status}),
			ActorID:    actorID,
		})
	}
	return v, nil
}

// GrantLocaleApproval records a translation approval for one locale.
// Idempotent per (version, locale).
func (s *Service) GrantLocaleApproval(ctx context.Context, versionID, locale, actorID string) (Approval, error) {
	if versionID == "" || locale == "" {
		return Approval{}, ErrInvalidArgument
	}
	v, ok, err := s.repo.Get(ctx, versionID)
	if err != nil {
		return Approval{}, err
	}
	if !ok {
		return Approval{}, ErrNotFound
	}

	a := Approval{
		ID:         uuid.NewString(),
		VersionID:  v.ID,
		Locale:     locale,
		ApprovedBy: actorID,
		CreatedAt:  s.clock().UTC(),
	}
	if err := s.repo.InsertApproval(ctx, a); err != nil {
		return Approval{}, err
	}

	var caseID *string
	if doc, ok, err := s.docs.Get(ctx, v.DocumentID); err == nil && ok {
		caseID = doc.CaseID
	}
	s.audit.Record(ctx, audit.Event{
		CaseID:     caseID,
		EntityType: audit.EntityTypeTranslation,
		EntityID:   v.ID,
		Action:     audit.ActionApprovalGranted,
		Meta:       audit.Meta(map[string]any{"locale": locale}),
		ActorID:    actorID,
	})
	return a, nil
}

// CheckExportReadiness is the read-only export gate. It never mutates status;
// callers must treat anything but Ready as "export forbidden".
func (s *Service) CheckExportReadiness(ctx context.Context, versionID string, targetLocales []string) (Readiness, error) {
	if versionID == "" || len(targetLocales) == 0 {
		return Readiness{}, ErrInvalidArgument
	}

	v, ok, err := s.repo.Get(ctx, versionID)
	if err != nil {
		return Readiness{}, err
	}
	if !ok {
		return EvaluateReadiness(nil, nil, targetLocales), nil
	}

	approvals, err := s.repo.ListApprovals(ctx, versionID)
	if err != nil {
		return Readiness{}, err
	}
	return EvaluateReadiness(&v, approvals, targetLocales), nil
}
