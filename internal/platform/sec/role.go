// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "strings"

// # Account Roles

// Role is the authorization tag carried by every account and token.
type Role string

const (
	// Travellers booking activities
	RoleTourist Role = "tourist"

	// Operators publishing activities
	RoleCompany Role = "company"

	// Platform administrators; the only role allowed on catalog mutations
	RoleAdmin Role = "admin"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleTourist, RoleCompany, RoleAdmin}

// ParseRole converts a raw role tag into a [Role].
//
// Matching is case-insensitive. The second return value is false for
// anything outside [Roles].
func ParseRole(raw string) (Role, bool) {
	candidate := Role(strings.ToLower(strings.TrimSpace(raw)))
	for _, role := range Roles {
		if candidate == role {
			return role, true
		}
	}
	return "", false
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// In reports whether r is contained in allowed.
//
// An empty allowed set means the route accepts any authenticated role.
func (r Role) In(allowed ...Role) bool {
	if len(allowed) == 0 {
		return r.Valid()
	}
	for _, candidate := range allowed {
		if r == candidate {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}
