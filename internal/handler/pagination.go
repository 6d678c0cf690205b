// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Pagination holds pagination data for the paged admin lists. Pages are
// numbered from 1 in URLs; the backend numbers them from 0.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
	Pages       []PaginationPage
	BaseURL     string
	QueryString string
}

// PaginationPage represents a single page link.
type PaginationPage struct {
	Number     int
	URL        string
	IsCurrent  bool
	IsEllipsis bool
}

// pageWindow is the number of page links shown on each side of the
// current page.
const pageWindow = 2

// BuildPagination creates pagination data for a list with totalPages pages.
// baseURL is the path without query string (e.g., "/admin/events");
// query holds the current query parameters, kept on every link except
// "page".
func BuildPagination(currentPage, totalPages int, baseURL string, query url.Values) Pagination {
	totalPages = max(totalPages, 1)
	currentPage = clampPage(currentPage, totalPages)

	p := Pagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		PrevPage:    currentPage - 1,
		NextPage:    currentPage + 1,
		BaseURL:     baseURL,
		QueryString: keptQuery(query),
	}
	p.Pages = p.links()
	return p
}

func keptQuery(query url.Values) string {
	kept := make(url.Values)
	for k, v := range query {
		if k != "page" && len(v) > 0 && v[0] != "" {
			kept[k] = v
		}
	}
	return kept.Encode()
}

// links lists a sliding window of pages around the current one, plus the
// first and last pages behind an ellipsis when they fall outside it.
func (p Pagination) links() []PaginationPage {
	width := 2*pageWindow + 1
	first := max(p.CurrentPage-pageWindow, 1)
	last := min(first+width-1, p.TotalPages)
	first = max(last-width+1, 1)

	var links []PaginationPage
	add := func(n int) {
		links = append(links, PaginationPage{Number: n, URL: p.PageURL(n), IsCurrent: n == p.CurrentPage})
	}

	if first > 1 {
		add(1)
		if first > 2 {
			links = append(links, PaginationPage{IsEllipsis: true})
		}
	}
	for n := first; n <= last; n++ {
		add(n)
	}
	if last < p.TotalPages {
		if last < p.TotalPages-1 {
			links = append(links, PaginationPage{IsEllipsis: true})
		}
		add(p.TotalPages)
	}
	return links
}

// PageURL returns the URL for a specific page number.
func (p Pagination) PageURL(page int) string {
	if p.QueryString != "" {
		return fmt.Sprintf("%s?%s&page=%d", p.BaseURL, p.QueryString, page)
	}
	return fmt.Sprintf("%s?page=%d", p.BaseURL, page)
}

// PrevURL returns the URL for the previous page.
func (p Pagination) PrevURL() string {
	return p.PageURL(p.PrevPage)
}

// NextURL returns the URL for the next page.
func (p Pagination) NextURL() string {
	return p.PageURL(p.NextPage)
}

// ShouldShow returns true if pagination should be displayed (more than 1 page).
func (p Pagination) ShouldShow() bool {
	return p.TotalPages > 1
}

// clampPage keeps page within [1, totalPages].
func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// parsePageParam reads the 1-based "page" query parameter. Missing or
// invalid values give 1.
func parsePageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
