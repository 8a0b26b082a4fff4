package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookstore-backend/internal/constants"
)

func TestJSONSuccessResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, constants.StatusOK, map[string]string{"hello": "world"})

	assert.Equal(t, constants.StatusOK, rec.Code)
	assert.Equal(t, constants.ContentTypeJSON, rec.Header().Get(constants.HeaderContentType))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, constants.StatusBadRequest, constants.CodeBadRequest, "bad input", map[string]string{"field": "broken"})

	assert.Equal(t, constants.StatusBadRequest, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, constants.CodeBadRequest, resp.Error.Code)
	assert.Equal(t, "bad input", resp.Error.Message)
	assert.Equal(t, "broken", resp.Error.Details["field"])
}

func TestErrorFromAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorFromAppError(rec, NewInvalidTokenError())

	assert.Equal(t, constants.StatusUnauthorized, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, constants.CodeTokenInvalid, resp.Error.Code)
}

func TestPaginatedResponseMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, constants.StatusOK, []int{1, 2, 3}, 2, 3, 7)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.PageSize)
	assert.Equal(t, 7, resp.Meta.TotalItems)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestGetPaginationParams(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/books?page=3&page_size=50", nil)
	params := GetPaginationParams(req)
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 50, params.PageSize)

	// Defaults when absent
	req = httptest.NewRequest("GET", "/api/books", nil)
	params = GetPaginationParams(req)
	assert.Equal(t, constants.DefaultPage, params.Page)
	assert.Equal(t, constants.DefaultPageSize, params.PageSize)

	// Oversized page size is clamped
	req = httptest.NewRequest("GET", "/api/books?page_size=5000", nil)
	params = GetPaginationParams(req)
	assert.Equal(t, constants.MaxPageSize, params.PageSize)
}
