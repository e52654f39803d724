package utils

import (
	"github.com/gin-gonic/gin"
)

// PageCount calculates the number of pages needed for totalItems at the
// given page size. An empty collection has zero pages.
func PageCount(totalItems, limit int) int {
	if limit < 1 {
		return 0
	}
	return (totalItems + limit - 1) / limit
}

// ClampPage clamps a requested page number into the valid range
// [1, totalPages]. Page 1 is always valid so that an empty collection
// still resolves to an (empty) first page.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageBounds returns the half-open slice range [start, end) for the given
// page, clipped to the collection's bounds. The page number is clamped
// before the offset is computed.
func PageBounds(page, limit, totalItems int) (int, int) {
	page = ClampPage(page, PageCount(totalItems, limit))

	start := (page - 1) * limit
	if start > totalItems {
		start = totalItems
	}

	end := start + limit
	if end > totalItems {
		end = totalItems
	}

	return start, end
}

// PaginationMetadata represents the standardized pagination metadata
type PaginationMetadata struct {
	TotalItems   int `json:"totalItems"`
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// NewPaginationMetadata creates a new pagination metadata object
func NewPaginationMetadata(totalItems, page, limit int) PaginationMetadata {
	return PaginationMetadata{
		TotalItems:   totalItems,
		CurrentPage:  ClampPage(page, PageCount(totalItems, limit)),
		TotalPages:   PageCount(totalItems, limit),
		ItemsPerPage: limit,
	}
}

// SendErrorResponse sends a standardized error response
func SendErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}
