// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer provides small generic helpers for optional fields.

Key Functions:
  - To: Creates a pointer from a value literal.
  - NonEmpty: Like To for strings, but maps "" to nil.
*/
package pointer

// To returns a pointer to the provided value.
// It is useful when you need to pass a primitive value to a function or struct field
// that expects a pointer (e.g. pointer.To("something")).
func To[T any](v T) *T {
	return &v
}

// NonEmpty returns nil for an empty string and a pointer to s otherwise.
// Nullable text columns use it so that "" is never stored.
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
