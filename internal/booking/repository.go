package booking

import "context"

// Repository abstracts booking persistence.
type Repository interface {
	Insert(ctx context.Context, r Request) error
	Get(ctx context.Context, id string) (Request, bool, error)
	// List returns requests, newest first; status filters when non-empty.
	List(ctx context.Context, status Status) ([]Request, error)
	UpdateStatus(ctx context.Context, id string, status Status) (bool, error)
}
