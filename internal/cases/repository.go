package cases

import "context"

// Repository abstracts case persistence.
type Repository interface {
	Insert(ctx context.Context, c Case) error
	Get(ctx context.Context, id string) (Case, bool, error)
	List(ctx context.Context) ([]Case, error)
	Update(ctx context.Context, c Case) error
	Delete(ctx context.Context, id string) (bool, error)
}
