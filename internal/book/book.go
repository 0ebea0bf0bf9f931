package book

import (
	"errors"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Book represents a book entity.
//
// ID is zero until the record has been persisted; the repository assigns it on
// Save and it is immutable afterwards. Title is the natural lookup key for
// title-addressed operations. CoverFilename references a file held by the
// asset store; empty means no cover. The book does not own the file's
// lifecycle.
type Book struct {
	ID            int64  `json:"id,omitempty"`
	Title         string `json:"title"`
	Author        string `json:"author,omitempty"`
	Year          int    `json:"year"`
	CoverFilename string `json:"cover_filename,omitempty"`
}

// Persisted reports whether the book has been saved and assigned an ID.
func (b Book) Persisted() bool {
	return b.ID != 0
}
