// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/worldtravels/internal/platform/sec"
)

/*
TestHashPassword_Salted verifies that the same input produces distinct digests
that both verify.
*/
func TestHashPassword_Salted(t *testing.T) {
	first, err := sec.HashPassword("secret123")
	require.NoError(t, err)
	second, err := sec.HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "secret123")
	assert.True(t, sec.CheckPasswordHash("secret123", first))
	assert.True(t, sec.CheckPasswordHash("secret123", second))
	assert.False(t, sec.CheckPasswordHash("secret124", first))
}

/*
TestCheckPasswordHash_GarbageDigest never panics on malformed input.
*/
func TestCheckPasswordHash_GarbageDigest(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("secret123", "not-a-bcrypt-digest"))
	assert.NotPanics(t, func() { sec.BurnPasswordCheck("anything") })
}
