package bookimport

import (
	"errors"
	"strings"
	"testing"

	"booklibrary/internal/book"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportBooks_RequiresCSVExtension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{name: "csv", filename: "books.csv", wantErr: false},
		{name: "txt", filename: "books.txt", wantErr: true},
		{name: "no extension", filename: "books", wantErr: true},
		{name: "uppercase is rejected", filename: "books.CSV", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportBooks(strings.NewReader("title,author,year\n"), tt.filename)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotCSV)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestImportBooks_SkipsMalformedRows(t *testing.T) {
	payload := strings.Join([]string{
		"title,author,year",
		"Good,Auth,2020",
		"Bad,Auth,notanumber",
		"TooShort,Auth",
	}, "\n")

	books, err := ImportBooks(strings.NewReader(payload), "books.csv")

	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, book.Book{Title: "Good", Author: "Auth", Year: 2020}, books[0])
}

func TestImportBooks_HeaderAlwaysDiscarded(t *testing.T) {
	// The first line is dropped even when it looks like valid data.
	payload := "First,Line,1999\nSecond,Line,2000\n"

	books, err := ImportBooks(strings.NewReader(payload), "books.csv")

	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Second", books[0].Title)
}

func TestImportBooks_TrimsWhitespace(t *testing.T) {
	payload := "title,author,year\n  Solaris ,  Stanislaw Lem ,  1961 \n"

	books, err := ImportBooks(strings.NewReader(payload), "books.csv")

	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, book.Book{Title: "Solaris", Author: "Stanislaw Lem", Year: 1961}, books[0])
}

func TestImportBooks_EmptyAndHeaderOnlyFiles(t *testing.T) {
	for _, payload := range []string{"", "title,author,year\n"} {
		books, err := ImportBooks(strings.NewReader(payload), "books.csv")

		assert.NoError(t, err)
		assert.Empty(t, books)
	}
}

func TestImportBooks_AcceptsUnvalidatedFields(t *testing.T) {
	// Empty titles and negative years pass: this stage only checks shape.
	payload := "title,author,year\n,NoTitle,-5\n"

	books, err := ImportBooks(strings.NewReader(payload), "books.csv")

	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "", books[0].Title)
	assert.Equal(t, -5, books[0].Year)
}

type failingReader struct {
	data string
	read bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.read {
		f.read = true
		return copy(p, f.data), nil
	}
	return 0, errors.New("disk error")
}

func TestImportBooks_ReadFailureDiscardsParsedRows(t *testing.T) {
	r := &failingReader{data: "title,author,year\nGood,Auth,2020\n"}

	books, err := ImportBooks(r, "books.csv")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotCSV)
	assert.Nil(t, books)
}
