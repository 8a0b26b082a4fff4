package handlers

import (
	"net/http"

	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/models"
	"github.com/bookhaven/bookstore-backend/internal/service"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

// CategoryHandler handles category catalog routes
type CategoryHandler struct {
	categoryService *service.CategoryService
	bookService     *service.BookService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService, bookService *service.BookService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		bookService:     bookService,
	}
}

// ListCategories returns all categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, categories)
}

// GetCategory returns a single category
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, constants.ParamCategoryID)
	if err != nil {
		utils.BadRequest(w, "Invalid category ID", nil)
		return
	}

	category, err := h.categoryService.GetCategoryByID(r.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, category)
}

// ListCategoryBooks returns a page of books within a category
func (h *CategoryHandler) ListCategoryBooks(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, constants.ParamCategoryID)
	if err != nil {
		utils.BadRequest(w, "Invalid category ID", nil)
		return
	}

	params := utils.GetPaginationParams(r)

	response, err := h.bookService.ListBooksByCategory(r.Context(), id, params.Page, params.PageSize)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, response)
}

// CreateCategory adds a new category
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var create models.CategoryCreate
	if err := utils.DecodeAndValidate(r, &create); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	category, err := h.categoryService.CreateCategory(r.Context(), &create)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusCreated, category)
}

// UpdateCategory renames a category
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, constants.ParamCategoryID)
	if err != nil {
		utils.BadRequest(w, "Invalid category ID", nil)
		return
	}

	var update models.CategoryUpdate
	if err := utils.DecodeAndValidate(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	category, err := h.categoryService.UpdateCategory(r.Context(), id, &update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, category)
}

// DeleteCategory removes a category without books
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, constants.ParamCategoryID)
	if err != nil {
		utils.BadRequest(w, "Invalid category ID", nil)
		return
	}

	if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}
