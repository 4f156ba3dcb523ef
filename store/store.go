package store

import "context"

// A Store reads and writes redirect records.
//
// Implementations return errors wrapping golink.ErrNotFound when no record matches
// and golink.ErrExists when an alias is already taken.
type Store interface {
	// Get retrieves the record whose public reference or alias equals ref.
	Get(ctx context.Context, ref string) (Record, error)

	// Create stores a new record, assigning it a public reference.
	Create(ctx context.Context, alias, destination string, by User) (Record, error)

	// Update replaces the destination of the record ref names.
	Update(ctx context.Context, ref, destination string, by User) (Record, error)

	// Delete removes the record ref names, returning it.
	Delete(ctx context.Context, ref string) (Record, error)

	// List retrieves the records in page, ordered by creation.
	List(ctx context.Context, page Page) (List, error)
}
