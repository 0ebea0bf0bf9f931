package book

import (
	"context"
	"strings"
)

// Service provides book-related business logic on top of a Repository.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add persists a new book. The repository assigns the ID into b.
// Input validation (non-empty title) is the caller's responsibility.
func (s *Service) Add(ctx context.Context, b *Book) error {
	return s.repo.Save(ctx, b)
}

// List returns all books in repository order.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.FindAll(ctx)
}

// FindByAuthor returns books whose author matches case-insensitively.
// The filter runs in memory over the full set; fine at catalog scale, not
// meant for large tables.
func (s *Service) FindByAuthor(ctx context.Context, author string) ([]Book, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := []Book{}
	for _, b := range all {
		if strings.EqualFold(b.Author, author) {
			matched = append(matched, b)
		}
	}
	return matched, nil
}

// GetByTitle returns the book with the given title, or ErrNotFound. Unlike
// list-style queries, absence here is a failure: callers expect a usable
// record.
func (s *Service) GetByTitle(ctx context.Context, title string) (Book, error) {
	return s.repo.FindByTitle(ctx, title)
}

// Update asserts the book exists (by title) and then updates it (by id).
// Title and id must address the same logical record; the existence check
// never runs against a different row than the update because Update callers
// pass a record obtained via GetByTitle.
func (s *Service) Update(ctx context.Context, b Book) error {
	if _, err := s.repo.FindByTitle(ctx, b.Title); err != nil {
		return err
	}
	return s.repo.Update(ctx, b)
}

// Delete removes the book with the given title. Deleting a title that does
// not exist is a no-op. The book's cover asset, if any, is not removed.
func (s *Service) Delete(ctx context.Context, title string) error {
	return s.repo.DeleteByTitle(ctx, title)
}

// Total returns the number of books in the catalog.
func (s *Service) Total(ctx context.Context) (int, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}
