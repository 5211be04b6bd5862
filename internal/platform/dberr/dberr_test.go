// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/worldtravels/internal/platform/apperr"
	"github.com/taibuivan/worldtravels/internal/platform/dberr"
)

/*
TestWrap_Classification pins how driver errors surface to clients.
*/
func TestWrap_Classification(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		code  string
		field string
	}{
		{"no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.CodeNotFound, ""},
		{"account_email", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "uq_account_email"}, apperr.CodeDuplicateEmail, "email"},
		{"profile_email", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "uq_touristprofile_email"}, apperr.CodeDuplicateEmail, "email"},
		{"tax_id", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "uq_companyprofile_taxid"}, apperr.CodeDuplicateKey, "tax_id"},
		{"document", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "uq_adminprofile_document"}, apperr.CodeDuplicateKey, "document"},
		{"foreign_key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, apperr.CodeValidation, ""},
		{"unknown", errors.New("connection reset"), apperr.CodeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := apperr.As(dberr.Wrap(tt.err, "Account", "account_store_create_failed"))
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
			if tt.field != "" {
				require.NotEmpty(t, ae.Details)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			}
		})
	}
}

func TestWrap_PassThrough(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "Account", "noop"))

	original := apperr.AccountBlocked()
	assert.Same(t, original, dberr.Wrap(original, "Account", "noop"))
}
