package handlers

import (
	"net/http"

	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/models"
	"github.com/bookhaven/bookstore-backend/internal/service"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

// AuthorHandler handles author catalog routes
type AuthorHandler struct {
	authorService *service.AuthorService
}

// NewAuthorHandler creates a new AuthorHandler
func NewAuthorHandler(authorService *service.AuthorService) *AuthorHandler {
	return &AuthorHandler{
		authorService: authorService,
	}
}

// ListAuthors returns a page of authors
func (h *AuthorHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	params := utils.GetPaginationParams(r)

	response, err := h.authorService.ListAuthors(r.Context(), params.Page, params.PageSize)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, response)
}

// GetAuthor returns a single author
func (h *AuthorHandler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, constants.ParamAuthorID)
	if err != nil {
		utils.BadRequest(w, "Invalid author ID", nil)
		return
	}

	author, err := h.authorService.GetAuthorByID(r.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, author)
}

// CreateAuthor adds a new author
func (h *AuthorHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	var create models.AuthorCreate
	if err := utils.DecodeAndValidate(r, &create); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	author, err := h.authorService.CreateAuthor(r.Context(), &create)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusCreated, author)
}

// UpdateAuthor updates an author's fields
func (h *AuthorHandler) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, constants.ParamAuthorID)
	if err != nil {
		utils.BadRequest(w, "Invalid author ID", nil)
		return
	}

	var update models.AuthorUpdate
	if err := utils.DecodeAndValidate(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	author, err := h.authorService.UpdateAuthor(r.Context(), id, &update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, author)
}

// DeleteAuthor removes an author without books
func (h *AuthorHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, constants.ParamAuthorID)
	if err != nil {
		utils.BadRequest(w, "Invalid author ID", nil)
		return
	}

	if err := h.authorService.DeleteAuthor(r.Context(), id); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}
