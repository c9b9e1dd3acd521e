package utils

const pageSizeDefault = 10
const pageSizeMax = 100

// PagedResult is the envelope returned by every paginated listing.
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// NewPagedResult builds a result envelope, deriving the page count.
func NewPagedResult[T any](items []T, totalCount int64, pageNumber, pageSize int) PagedResult[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	}
	return PagedResult[T]{
		Items:      items,
		TotalCount: totalCount,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// GetPaginationParams normalizes 1-based page parameters. Out-of-range values
// fall back to defaults and the page size is capped at a maximum value.
func GetPaginationParams(pageNumber *int, pageSize *int) (int, int) {
	finalPage := 1
	finalSize := pageSizeDefault

	if pageNumber != nil && *pageNumber >= 1 {
		finalPage = *pageNumber
	}

	if pageSize != nil && *pageSize > 0 {
		finalSize = min(*pageSize, pageSizeMax)
	}

	return finalPage, finalSize
}

// Offset converts 1-based page parameters into a query offset.
func Offset(pageNumber, pageSize int) int {
	return (pageNumber - 1) * pageSize
}
