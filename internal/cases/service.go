package cases

import (
	"context"
	"errors"
	"time"

	"lawdesk-platform/internal/audit"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// LinkedDocumentRefresher is implemented by the documents service.
// Declared here so cases does not import documents (documents imports cases
// for the field mapper).
type LinkedDocumentRefresher interface {
	// RefreshForCase re-runs the case-to-document mapper over every document
	// linked to c (merge semantics) and re-enforces the name invariant.
	// Must be all-or-nothing: an unsupported document type aborts before any write.
	RefreshForCase(ctx context.Context, c Case, actorID string) error

	// UnlinkCase nulls the case linkage on every document linked to caseID
	// without deleting the documents. Returns the number of documents touched.
	UnlinkCase(ctx context.Context, caseID string) (int, error)
}

// Service owns case records.
//
// Concurrency note: there is no optimistic locking; two concurrent edits to
// the same case race and the last write wins. Acceptable for a low-volume
// admin back office.
type Service struct {
	repo  Repository
	docs  LinkedDocumentRefresher
	audit *audit.Service
	clock func() time.Time
}

func NewService(repo Repository, docs LinkedDocumentRefresher, auditSvc *audit.Service) *Service {
	return &Service{repo: repo, docs: docs, audit: auditSvc, clock: time.Now}
}

var (
	ErrNotFound        = errors.New("case not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

type CreateRequest struct {
	CaseNumber string     `json:"case_number"`
	CaseName   string     `json:"case_name"`
	Fields     CaseFields `json:"case_data"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CaseName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.CaseNumber, validation.Length(0, 100)),
	)
}

type UpdateRequest struct {
	CaseNumber string     `json:"case_number"`
	CaseName   string     `json:"case_name"`
	Fields     CaseFields `json:"case_data"`

	// UpdateLinkedDocuments re-runs the mapper over all linked documents.
	UpdateLinkedDocuments bool `json:"update_linked_documents"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CaseName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.CaseNumber, validation.Length(0, 100)),
	)
}

func (s *Service) Create(ctx context.Context, req CreateRequest, actorID string) (Case, error) {
	if err := req.Validate(); err != nil {
		return Case{}, err
	}

	now := s.clock().UTC()
	c := Case{
		ID:         uuid.NewString(),
		CaseNumber: req.CaseNumber,
		CaseName:   req.CaseName,
		Fields:     req.Fields,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return Case{}, err
	}

	s.audit.Record(ctx, audit.Event{
		CaseID:     &c.ID,
		EntityType: audit.EntityTypeCase,
		EntityID:   c.ID,
		Action:     audit.ActionCaseCreated,
		Meta:       audit.Meta(map[string]any{"case_name": c.CaseName}),
		ActorID:    actorID,
	})
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (Case, error) {
	if id == "" {
		return Case{}, ErrInvalidArgument
	}
	c, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return Case{}, err
	}
	if !ok {
		return Case{}, ErrNotFound
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]Case, error) {
	return s.repo.List(ctx)
}

// Update replaces the case identity and fields. When UpdateLinkedDocuments is
// set, linked documents are remapped in the same call; a mapper failure there
// is surfaced to the caller, but the case update itself has already been
// committed at that point (documented last-write-wins model, no rollback).
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest, actorID string) (Case, error) {
	if id == "" {
		return Case{}, ErrInvalidArgument
	}
	if err := req.Validate(); err != nil {
		return Case{}, err
	}

	c, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return Case{}, err
	}
	if !ok {
		return Case{}, ErrNotFound
	}

	c.CaseNumber = req.CaseNumber
	c.CaseName = req.CaseName
	c.Fields = req.Fields
	c.UpdatedAt = s.clock().UTC()

	if err := s.repo.Update(ctx, c); err != nil {
		return Case{}, err
	}

	s.audit.Record(ctx, audit.Event{
		CaseID:     &c.ID,
		EntityType: audit.EntityTypeCase,
		EntityID:   c.ID,
		Action:     audit.ActionCaseUpdated,
		Meta:       audit.Meta(map[string]any{"case_name": c.CaseName, "cascade": req.UpdateLinkedDocuments}),
		ActorID:    actorID,
	})

	if req.UpdateLinkedDocuments && s.docs != nil {
		if err := s.docs.RefreshForCase(ctx, c, actorID); err != nil {
			return Case{}, err
		}
	}
	return c, nil
}

// Delete removes the case. Linked documents are kept and their case linkage is
// nulled first; referential integrity is "set null on delete", never cascade.
func (s *Service) Delete(ctx context.Context, id string, actorID string) error {
	if id == "" {
		return ErrInvalidArgument
	}
	c, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	unlinked := 0
	if s.docs != nil {
		n, err := s.docs.UnlinkCase(ctx, c.ID)
		if err != nil {
			return err
		}
		unlinked = n
	}

	ok, err = s.repo.Delete(ctx, c.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	s.audit.Record(ctx, audit.Event{
		CaseID:     &c.ID,
		EntityType: audit.EntityTypeCase,
		EntityID:   c.ID,
		Action:     audit.ActionCaseDeleted,
		Meta:       audit.Meta(map[string]any{"case_name": c.CaseName, "documents_unlinked": unlinked}),
		ActorID:    actorID,
	})
	return nil
}
