package services

import (
	"fmt"

	"streamcharts/backend-go/internal/models"
)

const MaxPageSize = 500

// Paginate slices items into the requested page. A page past the end yields an
// empty slice positioned just after the last item: startIndex is totalItems+1
// and endIndex is totalItems.
func Paginate[T any](items []T, page, pageSize int) ([]T, models.Pagination, error) {
	if page < 1 {
		return nil, models.Pagination{}, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, models.Pagination{}, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidLimit, MaxPageSize)
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	// page is only multiplied once it is known to be in range.
	start, end := total, total
	if page <= totalPages {
		start = (page - 1) * pageSize
		end = min(start+pageSize, total)
	}
	startIndex := start + 1
	endIndex := end

	paged := make([]T, end-start)
	copy(paged, items[start:end])

	return paged, models.Pagination{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalItems:      total,
		Limit:           pageSize,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
		StartIndex:      startIndex,
		EndIndex:        endIndex,
	}, nil
}

// SinglePage reports items as one page, used when a search result replaces pagination.
func SinglePage[T any](items []T) models.Pagination {
	total := len(items)
	return models.Pagination{
		CurrentPage:     1,
		TotalPages:      1,
		TotalItems:      total,
		Limit:           total,
		HasNextPage:     false,
		HasPreviousPage: false,
		StartIndex:      1,
		EndIndex:        total,
	}
}
