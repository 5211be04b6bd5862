// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination holds the page/limit window used by listing endpoints
// and the metadata returned next to a page of results.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPage is the first page; pages are 1-indexed.
	DefaultPage = 1
	// DefaultLimit applies when no limit, or an out-of-range one, is given.
	DefaultLimit = 20
	// MaxLimit caps the page size.
	MaxLimit = 100
)

// Query parameter names read by [FromRequest].
const (
	QueryPage  = "page"
	QueryLimit = "limit"
)

// Params is a clamped page window.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit into the accepted range.
//
// A page below 1 becomes [DefaultPage]; a limit below 1 or above [MaxLimit]
// becomes [DefaultLimit].
func Normalize(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset is the number of rows skipped before this page.
func (params Params) Offset() int {
	if params.Page <= 1 || params.Limit <= 0 {
		return 0
	}
	return (params.Page - 1) * params.Limit
}

// Meta describes one page of a listing.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewMeta builds the metadata for the page params out of total matching rows.
func NewMeta(params Params, total int) Meta {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	return Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
	}
}

// FromRequest reads ?page= and ?limit= and clamps them with [Normalize].
// Missing or non-numeric values fall back to the defaults.
func FromRequest(request *http.Request) Params {
	query := request.URL.Query()
	return Normalize(
		queryInt(query.Get(QueryPage), DefaultPage),
		queryInt(query.Get(QueryLimit), DefaultLimit),
	)
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
