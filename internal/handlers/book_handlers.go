package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/models"
	"github.com/bookhaven/bookstore-backend/internal/service"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

// BookHandler handles book catalog routes
type BookHandler struct {
	bookService *service.BookService
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(bookService *service.BookService) *BookHandler {
	return &BookHandler{
		bookService: bookService,
	}
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// ListBooks returns a page of books
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	params := utils.GetPaginationParams(r)

	response, err := h.bookService.ListBooks(r.Context(), params.Page, params.PageSize)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, response)
}

// GetBook returns a single book with author and category names
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, constants.ParamBookID)
	if err != nil {
		utils.BadRequest(w, "Invalid book ID", nil)
		return
	}

	book, err := h.bookService.GetBookByID(r.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, book)
}

// CreateBook adds a new book to the catalog
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var create models.BookCreate
	if err := utils.DecodeAndValidate(r, &create); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	book, err := h.bookService.CreateBook(r.Context(), &create)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusCreated, book)
}

// UpdateBook updates a book's fields
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, constants.ParamBookID)
	if err != nil {
		utils.BadRequest(w, "Invalid book ID", nil)
		return
	}

	var update models.BookUpdate
	if err := utils.DecodeAndValidate(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	book, err := h.bookService.UpdateBook(r.Context(), id, &update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, book)
}

// DeleteBook removes a book from the catalog
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, constants.ParamBookID)
	if err != nil {
		utils.BadRequest(w, "Invalid book ID", nil)
		return
	}

	if err := h.bookService.DeleteBook(r.Context(), id); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}

// UploadCover accepts a multipart cover image upload for a book
func (h *BookHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, constants.ParamBookID)
	if err != nil {
		utils.BadRequest(w, "Invalid book ID", nil)
		return
	}

	if err := r.ParseMultipartForm(constants.MaxCoverImageSize); err != nil {
		utils.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("cover")
	if err != nil {
		utils.BadRequest(w, "Cover image file is required", nil)
		return
	}
	defer file.Close()

	book, err := h.bookService.UploadCover(r.Context(), id, file, header)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, book)
}
