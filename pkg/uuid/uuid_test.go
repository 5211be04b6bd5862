// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/worldtravels/pkg/uuid"
)

/*
TestNew_TimeOrdered ensures consecutive IDs are valid and sort by creation.
*/
func TestNew_TimeOrdered(t *testing.T) {
	first, second := uuid.New(), uuid.New()

	assert.True(t, uuid.Valid(first))
	assert.NotEqual(t, first, second)
	assert.Equal(t, byte('7'), first[14])
	assert.LessOrEqual(t, first[:13], second[:13])
}

func TestValid(t *testing.T) {
	assert.False(t, uuid.Valid(""))
	assert.False(t, uuid.Valid("not-a-uuid"))
	assert.False(t, uuid.Valid("{0190f0c8-0f3a-7c3e-9d1a-6b2f5e8a4c11}"))
	assert.True(t, uuid.Valid("0190F0C8-0F3A-7C3E-9D1A-6B2F5E8A4C11"))
}
