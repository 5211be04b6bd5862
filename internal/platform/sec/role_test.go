// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/worldtravels/internal/platform/sec"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw  string
		want sec.Role
		ok   bool
	}{
		{"tourist", sec.RoleTourist, true},
		{" Company ", sec.RoleCompany, true},
		{"ADMIN", sec.RoleAdmin, true},
		{"superuser", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			role, ok := sec.ParseRole(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, role)
		})
	}
}

/*
TestRole_In checks set membership without any implied hierarchy.
*/
func TestRole_In(t *testing.T) {
	assert.True(t, sec.RoleAdmin.In(sec.RoleAdmin))
	assert.False(t, sec.RoleAdmin.In(sec.RoleTourist))
	assert.True(t, sec.RoleCompany.In(sec.RoleTourist, sec.RoleCompany))
	assert.True(t, sec.RoleTourist.In())
	assert.False(t, sec.Role("ghost").In())
	assert.False(t, sec.Role("ADMIN").Valid())
}
