package service

import "fmt"

// DefaultLimit and DefaultPage are applied by callers before pagination math
const (
	DefaultLimit = 10
	DefaultPage  = 1
)

// pageWindow carries the pagination metadata for one page of results.
// Next and Prev are relative links, nil when the neighbor page does not exist.
type pageWindow struct {
	MaxPages int
	Next     *string
	Prev     *string
}

// offsetFor converts a 1-based page number to a store offset.
// Assumes sanitized positive limit and page.
func offsetFor(limit, page int) int {
	return (page - 1) * limit
}

// paginate computes page count and adjacent-page links from the total record
// count. Assumes sanitized positive limit and page; total = 0 yields zero
// pages and no links.
func paginate(total, limit, page int) pageWindow {
	maxPages := (total + limit - 1) / limit

	window := pageWindow{MaxPages: maxPages}
	if page+1 <= maxPages {
		window.Next = pageLink(page+1, limit)
	}
	if page-1 > 0 {
		window.Prev = pageLink(page-1, limit)
	}

	return window
}

func pageLink(page, limit int) *string {
	link := fmt.Sprintf("/api/products?page=%d&limit=%d", page, limit)
	return &link
}
