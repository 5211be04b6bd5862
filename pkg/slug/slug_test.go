// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/worldtravels/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := map[string]string{
		"Ecoturismo Amazónico":      "ecoturismo-amazonico",
		"  Turismo   de Aventura  ": "turismo-de-aventura",
		"Año Nuevo / Playa":         "ano-nuevo-playa",
		"Café--Tour 2026":           "cafe-tour-2026",
		"!!!":                       "",
		"":                          "",
	}

	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, slug.From(input))
		})
	}
}
