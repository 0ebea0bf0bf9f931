// Package bookimport parses uploaded CSV payloads into book records.
//
// The format is deliberately naive: lines are split on every comma with no
// quoting or escaping support, so titles or authors containing commas will
// corrupt their row. Malformed rows are dropped, not reported; the importer
// is built for messy user-supplied files.
package bookimport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"booklibrary/internal/book"
)

// ErrNotCSV is returned when the uploaded file does not carry a .csv
// extension. The match is case-sensitive, as the import contract requires
// the literal suffix.
var ErrNotCSV = errors.New("file must have a .csv extension")

// ImportBooks reads the whole payload in one pass and returns the accepted
// records in file order. The first line is always discarded as a header.
// A data line is silently skipped when it has fewer than 3 comma-separated
// fields or its third field is not an integer. Fields map positionally to
// title, author, year and are trimmed of surrounding whitespace; no further
// validation happens here.
//
// A read failure aborts the import and discards everything parsed so far.
func ImportBooks(r io.Reader, filename string) ([]book.Book, error) {
	if !strings.HasSuffix(filename, ".csv") {
		return nil, ErrNotCSV
	}

	books := []book.Book{}
	scanner := bufio.NewScanner(r)
	first := true

	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			continue
		}

		year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			continue
		}

		books = append(books, book.Book{
			Title:  strings.TrimSpace(parts[0]),
			Author: strings.TrimSpace(parts[1]),
			Year:   year,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading csv payload: %w", err)
	}

	return books, nil
}
