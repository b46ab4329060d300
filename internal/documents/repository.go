package documents

import "context"

// Repository abstracts document persistence.
type Repository interface {
	Insert(ctx context.Context, d Document) error
	Get(ctx context.Context, id string) (Document, bool, error)
	// List returns all documents; caseID filters to a linked case when non-empty.
	List(ctx context.Context, caseID string) ([]Document, error)
	Update(ctx context.Context, d Document) error
	Delete(ctx context.Context, id string) (bool, error)
	// UnlinkCase nulls case linkage for all documents of caseID, returning how
	// many rows were touched. Documents themselves are never deleted here.
	UnlinkCase(ctx context.Context, caseID string) (int, error)
}
