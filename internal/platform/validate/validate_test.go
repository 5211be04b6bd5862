// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/worldtravels/internal/platform/apperr"
	"github.com/taibuivan/worldtravels/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "Lucia", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("name", tt.value)

			if !tt.hasError {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
				return
			}

			ae := apperr.As(v.Err())
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			assert.Equal(t, "name", ae.Details[0].Field)
		})
	}
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("name", "").
		MinLen("password", "short", 8).
		Email("email", "not-an-email").
		Err()

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 3)
}

type signup struct {
	Role        string `json:"role"         validate:"required,oneof=tourist company"`
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=8"`
	Nationality string `json:"nationality"  validate:"required_if=Role tourist"`
	TaxID       string `json:"tax_id"       validate:"required_if=Role company"`
}

/*
TestStruct_ConditionalFields verifies role-conditional requirements and JSON
field naming in the reported details.
*/
func TestStruct_ConditionalFields(t *testing.T) {
	t.Run("valid_company", func(t *testing.T) {
		err := validate.Struct(signup{Role: "company", Email: "c@x.io", Password: "secret123", TaxID: "900123"})
		assert.NoError(t, err)
	})

	t.Run("company_without_tax_id", func(t *testing.T) {
		err := validate.Struct(signup{Role: "company", Email: "c@x.io", Password: "secret123"})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		require.Len(t, ae.Details, 1)
		assert.Equal(t, "tax_id", ae.Details[0].Field)
	})

	t.Run("everything_wrong", func(t *testing.T) {
		err := validate.Struct(signup{Role: "pirate", Email: "nope", Password: "short"})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		fields := make([]string, 0, len(ae.Details))
		for _, detail := range ae.Details {
			fields = append(fields, detail.Field)
		}
		assert.ElementsMatch(t, []string{"role", "email", "password"}, fields)
	})
}

/*
TestValidator_UUIDAndSlug covers the identifier formats used in routes.
*/
func TestValidator_UUIDAndSlug(t *testing.T) {
	v := &validate.Validator{}
	v.UUID("id", "0190f0c8-0f3a-7c3e-9d1a-6b2f5e8a4c11").Slug("slug", "ecoturismo-amazonico")
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.UUID("id", "42").Slug("slug", "Not A Slug")
	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 2)
}

type secret struct {
	Password string  `json:"password"     validate:"required,min=8,maxbytes=72"`
	Next     *string `json:"new_password" validate:"omitnil,maxbytes=72"`
}

/*
TestStruct_MaxBytes bounds encoded length rather than rune count.
*/
func TestStruct_MaxBytes(t *testing.T) {
	assert.NoError(t, validate.Struct(secret{Password: strings.Repeat("a", 72)}))
	assert.NoError(t, validate.Struct(secret{Password: strings.Repeat("é", 36)}))

	multibyte := strings.Repeat("é", 40)
	ae := apperr.As(validate.Struct(secret{Password: multibyte, Next: &multibyte}))
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 2)
	assert.Equal(t, "password", ae.Details[0].Field)
	assert.Equal(t, "Maximum 72 bytes", ae.Details[0].Message)
	assert.Equal(t, "new_password", ae.Details[1].Field)
}
