// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/worldtravels/pkg/pagination"
)

/*
TestFromRequest_Clamping covers defaults and out-of-range query values.
*/
func TestFromRequest_Clamping(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  pagination.Params
	}{
		{"defaults", "", pagination.Params{Page: 1, Limit: 20}},
		{"explicit", "?page=3&limit=50", pagination.Params{Page: 3, Limit: 50}},
		{"negative_page", "?page=-2&limit=5", pagination.Params{Page: 1, Limit: 5}},
		{"limit_over_max", "?limit=1000", pagination.Params{Page: 1, Limit: 20}},
		{"not_numbers", "?page=two&limit=ten", pagination.Params{Page: 1, Limit: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/users"+tt.query, nil)
			assert.Equal(t, tt.want, pagination.FromRequest(request))
		})
	}
}

func TestMeta(t *testing.T) {
	params := pagination.Normalize(2, 10)
	assert.Equal(t, 10, params.Offset())

	meta := pagination.NewMeta(params, 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)

	last := pagination.NewMeta(pagination.Normalize(3, 10), 25)
	assert.False(t, last.HasNext)

	empty := pagination.NewMeta(pagination.Normalize(1, 10), 0)
	assert.Zero(t, empty.TotalPages)
	assert.False(t, empty.HasNext)
}
