package utils

import (
	"fmt"
	"testing"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		totalItems int
		limit      int
		want       int
	}{
		{0, 5, 0},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{23, 5, 5},
		{100, 10, 10},
		{10, 0, 0},
	}

	for _, tt := range tests {
		if got := PageCount(tt.totalItems, tt.limit); got != tt.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tt.totalItems, tt.limit, got, tt.want)
		}
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page       int
		totalPages int
		want       int
	}{
		{0, 5, 1},
		{-3, 5, 1},
		{1, 5, 1},
		{5, 5, 5},
		{6, 5, 5},
		{100, 5, 5},
		{1, 0, 1},
		{2, 0, 1},
		{99, 0, 1},
		{5, -1, 1},
	}

	for _, tt := range tests {
		if got := ClampPage(tt.page, tt.totalPages); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.totalPages, got, tt.want)
		}
	}
}

// Concatenating every page in order must reconstruct the collection, with
// every page full except possibly the last.
func TestPageBoundsReconstruction(t *testing.T) {
	for _, total := range []int{0, 1, 4, 5, 6, 23, 50} {
		for _, limit := range []int{1, 5, 10} {
			items := make([]int, total)
			for i := range items {
				items[i] = i
			}

			pages := PageCount(total, limit)
			var rebuilt []int
			for page := 1; page <= pages; page++ {
				start, end := PageBounds(page, limit, total)
				rebuilt = append(rebuilt, items[start:end]...)

				wantLen := limit
				if page == pages {
					if rem := total % limit; rem != 0 {
						wantLen = rem
					}
				}
				if end-start != wantLen {
					t.Errorf("total=%d limit=%d page=%d: page length %d, want %d",
						total, limit, page, end-start, wantLen)
				}
			}

			if len(rebuilt) != total {
				t.Fatalf("total=%d limit=%d: rebuilt %d items", total, limit, len(rebuilt))
			}
			for i, v := range rebuilt {
				if v != i {
					t.Fatalf("total=%d limit=%d: rebuilt[%d] = %d", total, limit, i, v)
				}
			}
		}
	}
}

// An out-of-range page request must behave exactly like the nearest valid
// page.
func TestPageBoundsClamping(t *testing.T) {
	const total, limit = 23, 5
	pages := PageCount(total, limit)

	tests := []struct {
		requested int
		valid     int
	}{
		{0, 1},
		{-7, 1},
		{pages + 1, pages},
		{pages + 100, pages},
	}

	for _, tt := range tests {
		gotStart, gotEnd := PageBounds(tt.requested, limit, total)
		wantStart, wantEnd := PageBounds(tt.valid, limit, total)
		if gotStart != wantStart || gotEnd != wantEnd {
			t.Errorf("PageBounds(%d) = [%d, %d), want same as page %d [%d, %d)",
				tt.requested, gotStart, gotEnd, tt.valid, wantStart, wantEnd)
		}
	}
}

func TestPageBoundsEmptyCollection(t *testing.T) {
	for _, page := range []int{0, 1, 7} {
		start, end := PageBounds(page, 10, 0)
		if start != 0 || end != 0 {
			t.Errorf("PageBounds(%d, 10, 0) = [%d, %d), want [0, 0)", page, start, end)
		}
	}
}

func TestNewPaginationMetadata(t *testing.T) {
	meta := NewPaginationMetadata(23, 9, 5)

	if meta.TotalItems != 23 {
		t.Errorf("TotalItems = %d, want 23", meta.TotalItems)
	}
	if meta.TotalPages != 5 {
		t.Errorf("TotalPages = %d, want 5", meta.TotalPages)
	}
	if meta.CurrentPage != 5 {
		t.Errorf("CurrentPage = %d, want clamped 5", meta.CurrentPage)
	}
	if meta.ItemsPerPage != 5 {
		t.Errorf("ItemsPerPage = %d, want 5", meta.ItemsPerPage)
	}
}

// An empty collection reports zero pages but still resolves the current
// page to 1, whatever page was requested.
func TestNewPaginationMetadataEmptyCollection(t *testing.T) {
	meta := NewPaginationMetadata(0, 99, 5)

	if meta.TotalPages != 0 {
		t.Errorf("TotalPages = %d, want 0", meta.TotalPages)
	}
	if meta.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d, want 1", meta.CurrentPage)
	}
}

func ExamplePageBounds() {
	start, end := PageBounds(2, 5, 12)
	fmt.Println(start, end)
	// Output: 5 10
}
