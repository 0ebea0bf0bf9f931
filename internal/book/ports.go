package book

import (
	"context"
)

// Repository defines the contract for book data storage.
//
// FindByTitle returns ErrNotFound when no row matches; callers for which
// absence is a valid outcome check with errors.Is. Update and DeleteByTitle
// treat a missing row as a no-op.
type Repository interface {
	Save(ctx context.Context, b *Book) error
	FindAll(ctx context.Context) ([]Book, error)
	FindByTitle(ctx context.Context, title string) (Book, error)
	Update(ctx context.Context, b Book) error
	DeleteByTitle(ctx context.Context, title string) error
	FindByIDs(ctx context.Context, ids []int64) ([]Book, error)
}
