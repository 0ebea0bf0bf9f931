package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"booklibrary/internal/asset"
	"booklibrary/internal/book"
	"booklibrary/internal/bookimport"
	"booklibrary/internal/httpx"
)

// maxUploadMemory bounds the in-memory part of multipart parsing; larger
// bodies spill to temp files.
const maxUploadMemory = 10 << 20

type BookHandler struct {
	service *book.Service
	assets  *asset.Store
}

func NewBookHandler(service *book.Service, assets *asset.Store) *BookHandler {
	return &BookHandler{service: service, assets: assets}
}

type CreateBookRequest struct {
	Title  string `json:"title" validate:"required,max=500"`
	Author string `json:"author" validate:"max=500"`
	Year   int    `json:"year"`
}

type UpdateBookRequest struct {
	Author string `json:"author" validate:"max=500"`
	Year   int    `json:"year"`
}

// @Summary List books
// @Description Get all books in the catalog
// @Tags books
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /books [get]
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		httpx.JSONError(r, w, http.StatusInternalServerError, "server_error", "server error", nil)
		return
	}
	httpx.JSONSuccess(r, w, books, map[string]interface{}{"total": len(books)})
}

// @Summary Create a book
// @Description Create a book from JSON, or from a multipart form with an optional cover image
// @Tags books
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /books [post]
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.createWithCover(w, r)
		return
	}

	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "invalid_body", "invalid JSON body", nil)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if details := validationDetails(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "validation_failed", "validation failed", details)
		return
	}

	b := book.Book{Title: req.Title, Author: req.Author, Year: req.Year}
	if err := h.service.Add(r.Context(), &b); err != nil {
		httpx.JSONError(r, w, http.StatusInternalServerError, "server_error", "server error", nil)
		return
	}
	httpx.JSONSuccessCreated(r, w, b)
}

func (h *BookHandler) createWithCover(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "invalid_body", "invalid multipart form", nil)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	author := r.FormValue("author")
	year, _ := strconv.Atoi(r.FormValue("year"))

	req := CreateBookRequest{Title: title, Author: author, Year: year}
	if details := validationDetails(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "validation_failed", "validation failed", details)
		return
	}

	b := book.Book{Title: title, Author: author, Year: year}

	file, header, err := r.FormFile("cover")
	switch {
	case err == nil:
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			httpx.JSONError(r, w, http.StatusInternalServerError, "server_error", "server error", nil)
			return
		}
		filename, saveErr := h.assets.Save(data, header.Filename, title)
		if saveErr != nil {
			h.writeError(w, r, saveErr)
			return
		}
		b.CoverFilename = filename
	case errors.Is(err, http.ErrMissingFile):
		// Cover is optional.
	default:
		httpx.JSONError(r, w, http.StatusBadRequest, "invalid_body", "invalid cover upload", nil)
		return
	}

	if err := h.service.Add(r.Context(), &b); err != nil {
		httpx.JSONError(r, w, http.StatusInternalServerError, "server_error", "server error", nil)
		return
	}
	httpx.JSONSuccessCreated(r, w, b)
}

// @Summary Get book by title
// @Tags books
// @Produce json
// @Param title path string true "Book title"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /books/{title} [get]
func (h *BookHandler) GetByTitle(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")
	b, err := h.service.GetByTitle(r.Context(), title)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(r, w, b, nil)
}

// @Summary Update a book
// @Description Update the author and year of an existing book; the title is immutable
// @Tags books
// @Accept json
// @Produce json
// @Param title path string true "Book title"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /books/{title} [put]
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")

	var req UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "invalid_body", "invalid JSON body", nil)
		return
	}
	if details := validationDetails(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "validation_failed", "validation failed", details)
		return
	}

	// Existence is checked by title; the row itself is updated by id, so the
	// record must come from the store rather than the request body.
	existing, err := h.service.GetByTitle(r.Context(), title)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	existing.Author = req.Author
	existing.Year = req.Year

	if err := h.service.Update(r.Context(), existing); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(r, w, existing, nil)
}

// @Summary Delete a book
// @Description Delete a book by title; deleting an absent title is a no-op
// @Tags books
// @Param title path string true "Book title"
// @Success 204
// @Router /books/{title} [delete]
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")
	if err := h.service.Delete(r.Context(), title); err != nil {
		httpx.JSONError(r, w, http.StatusInternalServerError, "server_error", "server error", nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// @Summary Download a book's cover image
// @Tags books
// @Param title path string true "Book title"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{}
// @Router /books/{title}/cover [get]
func (h *BookHandler) DownloadCover(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")
	b, err := h.service.GetByTitle(r.Context(), title)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if b.CoverFilename == "" {
		httpx.JSONError(r, w, http.StatusNotFound, "not_found", "book has no cover", nil)
		return
	}

	path, err := h.assets.Load(b.CoverFilename)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := os.Stat(path); err != nil {
		httpx.JSONError(r, w, http.StatusNotFound, "not_found", "cover file not found", nil)
		return
	}
	http.ServeFile(w, r, path)
}

// @Summary Import books from CSV
// @Description Parse an uploaded CSV file and persist each accepted row individually; malformed rows are skipped
// @Tags books
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /books/import [post]
func (h *BookHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "invalid_body", "invalid multipart form", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "invalid_body", "missing file field", nil)
		return
	}
	defer file.Close()

	books, err := bookimport.ImportBooks(file, header.Filename)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	// Each record is persisted on its own; a failure midway leaves the
	// earlier records in place (no transactional import).
	for i := range books {
		if err := h.service.Add(r.Context(), &books[i]); err != nil {
			httpx.JSONError(r, w, http.StatusInternalServerError, "server_error", "server error", nil)
			return
		}
	}
	httpx.JSONSuccess(r, w, map[string]interface{}{"imported": len(books)}, nil)
}

// @Summary List books by author
// @Description Case-insensitive exact author match
// @Tags books
// @Produce json
// @Param author path string true "Author name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /authors/{author}/books [get]
func (h *BookHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	author := r.PathValue("author")
	books, err := h.service.FindByAuthor(r.Context(), author)
	if err != nil {
		httpx.JSONError(r, w, http.StatusInternalServerError, "server_error", "server error", nil)
		return
	}
	if len(books) == 0 {
		httpx.JSONError(r, w, http.StatusNotFound, "not_found", "no books for author", nil)
		return
	}
	httpx.JSONSuccess(r, w, books, nil)
}

func (h *BookHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, book.ErrNotFound):
		httpx.JSONError(r, w, http.StatusNotFound, "not_found", "book not found", nil)
	case errors.Is(err, asset.ErrInvalidFile):
		httpx.JSONError(r, w, http.StatusBadRequest, "invalid_file", err.Error(), nil)
	case errors.Is(err, bookimport.ErrNotCSV):
		httpx.JSONError(r, w, http.StatusBadRequest, "invalid_file", err.Error(), nil)
	default:
		httpx.JSONError(r, w, http.StatusInternalServerError, "server_error", "server error", nil)
	}
}

func validationDetails(s interface{}) []httpx.ErrorDetail {
	fieldErrors := ValidateStruct(s)
	if fieldErrors == nil {
		return nil
	}
	details := make([]httpx.ErrorDetail, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		details = append(details, httpx.ErrorDetail{Field: fe.Field, Message: fe.Message})
	}
	return details
}
