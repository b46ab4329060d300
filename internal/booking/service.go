package booking

import (
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// Service owns public consultation requests.
// Create is reachable without authentication; the HTTP layer applies the
// per-IP rate limit before it is ever called.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var (
	ErrNotFound        = errors.New("booking not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

type CreateRequest struct {
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	Topic       string     `json:"topic"`
	Locale      string     `json:"locale"`
	PreferredAt *time.Time `json:"preferred_at"`
	Message     string     `json:"message"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Phone, validation.Required, validation.Length(5, 30)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Topic, validation.Length(0, 100)),
		validation.Field(&r.Locale, validation.Required, validation.Length(2, 10)),
		validation.Field(&r.Message, validation.Length(0, 2000)),
	)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Request, error) {
	if err := req.Validate(); err != nil {
		return Request{}, err
	}

	now := s.clock().UTC()
	b := Request{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Topic:       req.Topic,
		Locale:      req.Locale,
		PreferredAt: req.PreferredAt,
		Message:     req.Message,
		Status:      StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, b); err != nil {
		return Request{}, err
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, status Status) ([]Request, error) {
	if status != "" && !validStatus(status) {
		return nil, ErrInvalidArgument
	}
	return s.repo.List(ctx, status)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) error {
	if id == "" || !validStatus(status) {
		return ErrInvalidArgument
	}
	ok, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
