package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lawdesk-platform/internal/audit"
	"lawdesk-platform/internal/cases"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// CaseLookup is the read-side dependency on the case store.
// cases.Repository satisfies it directly.
type CaseLookup interface {
	Get(ctx context.Context, id string) (cases.Case, bool, error)
}

// Service owns document records and implements cases.LinkedDocumentRefresher.
//
// Name invariant: a case-linked document's name always equals the linked
// case's case_name. Every write path re-derives the name server-side and
// ignores client-supplied values for linked documents.
type Service struct {
	repo    Repository
	caseSrc CaseLookup
	audit   *audit.Service
	clock   func() time.Time
}

func NewService(repo Repository, caseSrc CaseLookup, auditSvc *audit.Service) *Service {
	return &Service{repo: repo, caseSrc: caseSrc, audit: auditSvc, clock: time.Now}
}

var (
	ErrNotFound        = errors.New("document not found")
	ErrCaseNotFound    = errors.New("linked case not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

type CreateRequest struct {
	Type   Type   `json:"document_type"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Locale string `json:"locale"`

	// CaseID links the document to a case. Linked documents take their name
	// from the case and their payload is seeded by the mapper.
	CaseID string `json:"case_id"`

	// Data optionally carries a hand-entered payload matching Type's shape.
	Data json.RawMessage `json:"data"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.By(validDocumentType)),
		validation.Field(&r.Locale, validation.Required, validation.Length(2, 10)),
		validation.Field(&r.Name, validation.Length(0, 200)),
		validation.Field(&r.Date, validation.Length(0, 40)),
	)
}

type UpdateRequest struct {
	Name   string          `json:"name"`
	Date   string          `json:"date"`
	Locale string          `json:"locale"`
	Data   json.RawMessage `json:"data"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Locale, validation.Required, validation.Length(2, 10)),
		validation.Field(&r.Name, validation.Length(0, 200)),
		validation.Field(&r.Date, validation.Length(0, 40)),
	)
}

func validDocumentType(value any) error {
	t, _ := value.(Type)
	if !t.Valid() {
		return fmt.Errorf("must be a supported document type")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest, actorID string) (Document, error) {
	if err := req.Validate(); err != nil {
		return Document{}, err
	}

	now := s.clock().UTC()
	d := Document{
		ID:        uuid.NewString(),
		Type:      req.Type,
		Name:      req.Name,
		Date:      req.Date,
		Locale:    req.Locale,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.CaseID != "" {
		c, ok, err := s.caseSrc.Get(ctx, req.CaseID)
		if err != nil {
			return Document{}, err
		}
		if !ok {
			return Document{}, ErrCaseNotFound
		}

		data, err := MapCaseToDocument(c.Fields, req.Type)
		if err != nil {
			return Document{}, err
		}
		if len(req.Data) > 0 {
			// Hand-entered payload first, then case facts merged on top.
			existing, err := DecodeFields(req.Type, req.Data)
			if err != nil {
				return Document{}, err
			}
			data, err = UpdateDocumentFromCase(existing, c.Fields, req.Type)
			if err != nil {
				return Document{}, err
			}
		}

		d.CaseID = &c.ID
		d.IsCaseLinked = true
		d.Name = c.CaseName // server-enforced, overrides req.Name
		d.Data = data
	} else {
		if d.Name == "" {
			return Document{}, ErrInvalidArgument
		}
		data, err := DecodeFields(req.Type, req.Data)
		if err != nil {
			return Document{}, err
		}
		d.Data = data
	}

	if err := s.repo.Insert(ctx, d); err != nil {
		return Document{}, err
	}

	s.audit.Record(ctx, audit.Event{
		CaseID:     d.CaseID,
		EntityType: audit.EntityTypeDocument,
		EntityID:   d.ID,
		Action:     audit.ActionDocumentCreated,
		Meta:       audit.Meta(map[string]any{"document_type": d.Type, "name": d.Name, "locale": d.Locale}),
		ActorID:    actorID,
	})
	return d, nil
}

func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if id == "" {
		return Document{}, ErrInvalidArgument
	}
	d, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if !ok {
		return Document{}, ErrNotFound
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, caseID string) ([]Document, error) {
	return s.repo.List(ctx, caseID)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest, actorID string) (Document, error) {
	if id == "" {
		return Document{}, ErrInvalidArgument
	}
	if err := req.Validate(); err != nil {
		return Document{}, err
	}

	d, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if !ok {
		return Document{}, ErrNotFound
	}

	d.Name = req.Name
	d.Date = req.Date
	d.Locale = req.Locale
	if len(req.Data) > 0 {
		data, err := DecodeFields(d.Type, req.Data)
		if err != nil {
			return Document{}, err
		}
		d.Data = data
	}

	if d.IsCaseLinked && d.CaseID != nil {
		c, ok, err := s.caseSrc.Get(ctx, *d.CaseID)
		if err != nil {
			return Document{}, err
		}
		if ok {
			d.Name = c.CaseName // invariant wins over client value
		}
	}
	if d.Name == "" {
		return Document{}, ErrInvalidArgument
	}
	d.UpdatedAt = s.clock().UTC()

	if err := s.repo.Update(ctx, d); err != nil {
		return Document{}, err
	}

	s.audit.Record(ctx, audit.Event{
		CaseID:     d.CaseID,
		EntityType: audit.EntityTypeDocument,
		EntityID:   d.ID,
		Action:     audit.ActionDocumentUpdated,
		Meta:       audit.Meta(map[string]any{"document_type": d.Type, "name": d.Name}),
		ActorID:    actorID,
	})
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id string, actorID string) error {
	if id == "" {
		return ErrInvalidArgument
	}
	d, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	ok, err = s.repo.Delete(ctx, d.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	s.audit.Record(ctx, audit.Event{
		CaseID:     d.CaseID,
		EntityType: audit.EntityTypeDocument,
		EntityID:   d.ID,
		Action:     audit.ActionDocumentDeleted,
		Meta:       audit.Meta(map[string]any{"document_type": d.Type, "name": d.Name}),
		ActorID:    actorID,
	})
	return nil
}

// RefreshForCase implements cases.LinkedDocumentRefresher.
// All documents are remapped in memory before the first write, so an
// unsupported type aborts the batch without partial updates.
func (s *Service) RefreshForCase(ctx context.Context, c cases.Case, actorID string) error {
	docs, err := s.repo.List(ctx, c.ID)
	if err != nil {
		return err
	}

	now := s.clock().UTC()
	updated := make([]Document, 0, len(docs))
	for _, d := range docs {
		data, err := UpdateDocumentFromCase(d.Data, c.Fields, d.Type)
		if err != nil {
			return err
		}
		d.Data = data
		d.Name = c.CaseName
		d.UpdatedAt = now
		updated = append(updated, d)
	}

	for _, d := range updated {
		if err := s.repo.Update(ctx, d); err != nil {
			return err
		}
		s.audit.Record(ctx, audit.Event{
			CaseID:     d.CaseID,
			EntityType: audit.EntityTypeDocument,
			EntityID:   d.ID,
			Action:     audit.ActionDocumentUpdated,
			Meta:       audit.Meta(map[string]any{"document_type": d.Type, "name": d.Name, "refreshed_from_case": true}),
			ActorID:    actorID,
		})
	}
	return nil
}

// UnlinkCase implements cases.LinkedDocumentRefresher.
func (s *Service) UnlinkCase(ctx context.Context, caseID string) (int, error) {
	if caseID == "" {
		return 0, ErrInvalidArgument
	}
	return s.repo.UnlinkCase(ctx, caseID)
}
