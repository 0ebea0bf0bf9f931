package book

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// Save inserts a new row and writes the generated identifier back into b.
// RETURNING names the id column explicitly; Postgres can expose every column
// as a generated key, so the insert must not rely on positional keys.
func (r *PostgresRepo) Save(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (title, author, publication_year, cover_filename)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, b.Title, b.Author, b.Year, nullIfEmpty(b.CoverFilename)).Scan(&b.ID)
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]Book, error) {
	const query = `
		SELECT id, title, author, publication_year, cover_filename
		FROM books
		ORDER BY id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (r *PostgresRepo) FindByTitle(ctx context.Context, title string) (Book, error) {
	const query = `
		SELECT id, title, author, publication_year, cover_filename
		FROM books
		WHERE title = $1
		LIMIT 1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var b Book
	var cover *string
	err := r.db.QueryRow(timeoutCtx, query, title).Scan(&b.ID, &b.Title, &b.Author, &b.Year, &cover)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	if cover != nil {
		b.CoverFilename = *cover
	}
	return b, nil
}

// Update mutates the mutable columns by id. Title is immutable and is not in
// the SET list. Matching zero rows is not an error.
func (r *PostgresRepo) Update(ctx context.Context, b Book) error {
	const query = `
		UPDATE books
		SET author = $2, publication_year = $3, cover_filename = $4
		WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, b.ID, b.Author, b.Year, nullIfEmpty(b.CoverFilename))
	return err
}

// DeleteByTitle removes zero or one row; deleting zero rows is a no-op.
func (r *PostgresRepo) DeleteByTitle(ctx context.Context, title string) error {
	const query = `DELETE FROM books WHERE title = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, title)
	return err
}

// FindByIDs returns the rows matching ids, order unspecified. An empty input
// returns an empty slice without touching the database.
func (r *PostgresRepo) FindByIDs(ctx context.Context, ids []int64) ([]Book, error) {
	if len(ids) == 0 {
		return []Book{}, nil
	}
	const query = `
		SELECT id, title, author, publication_year, cover_filename
		FROM books
		WHERE id = ANY($1)
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

func scanBooks(rows pgx.Rows) ([]Book, error) {
	var out []Book
	for rows.Next() {
		var b Book
		var cover *string
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Year, &cover); err != nil {
			return nil, err
		}
		if cover != nil {
			b.CoverFilename = *cover
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
