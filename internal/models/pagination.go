package models

// PaginatedResponse wraps a page of results with paging metadata.
type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalCount int64       `json:"total_count"`
	TotalPages int         `json:"total_pages"`
}

// NewPaginatedResponse creates a paginated response with computed page count.
func NewPaginatedResponse(items interface{}, page, pageSize int, totalCount int64) *PaginatedResponse {
	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}
	return &PaginatedResponse{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
