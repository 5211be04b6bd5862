// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/worldtravels/internal/platform/apperr"
)

// constraintFields maps unique constraint names onto the request field that
// caused the collision.
var constraintFields = map[string]string{
	"uq_companyprofile_taxid":  "tax_id",
	"uq_adminprofile_document": "document",
	"uq_category_slug":         "name",
}

// Wrap inspects a database error and converts it into an [apperr.AppError].
//
// # Classification
//   - pgx.ErrNoRows → NotFound(resource)
//   - 23505 on an email constraint → DuplicateEmail
//   - 23505 elsewhere → DuplicateKey(field)
//   - 23503 / 23514 → ValidationError
//   - anything else → Internal, with action kept in the cause for logs
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack.
	if apperr.IsAppError(err) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return uniqueViolation(pgError)
		case pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError(fmt.Sprintf("Referenced %s does not exist", strings.ToLower(resource)))
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return apperr.ValidationError("Value rejected by the database")
		}
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

func uniqueViolation(pgError *pgconn.PgError) error {
	if strings.Contains(pgError.ConstraintName, "email") {
		return apperr.DuplicateEmail()
	}
	if field, ok := constraintFields[pgError.ConstraintName]; ok {
		return apperr.DuplicateKey(field)
	}
	return apperr.DuplicateKey("value")
}
