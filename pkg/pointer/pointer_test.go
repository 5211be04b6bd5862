// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/worldtravels/pkg/pointer"
)

func TestNonEmpty(t *testing.T) {
	assert.Nil(t, pointer.NonEmpty(""))
	assert.Equal(t, "Leticia", *pointer.NonEmpty("Leticia"))
	assert.Equal(t, 3, *pointer.To(3))
}
