// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages existing identities: profile edits, password changes,
blocking and deletion.

# Architecture

  - Storage: reuses [auth.AccountRepository]; every write touches the account
    and its profile in one transaction.
  - Security: blocking and deletion revoke every outstanding token of the
    account through [TokenRevoker].
*/
package account

import (
	"context"
	"strings"

	"github.com/taibuivan/worldtravels/internal/platform/sec"
)

// # Contracts

// TokenRevoker invalidates every token issued to an account so far.
type TokenRevoker interface {
	RevokeAccount(ctx context.Context, accountID string) error
}

// # Inputs & Results

// UpdateInput is a partial update. Nil fields are left unchanged; fields that
// do not belong to the account's role are ignored.
type UpdateInput struct {
	Email    *string `json:"email"    validate:"omitnil,email,max=255"`
	Password *string `json:"password" validate:"omitnil,min=8,maxbytes=72"`

	Name        *string `json:"name"         validate:"omitnil,min=1,max=100"`
	Surname     *string `json:"surname"      validate:"omitnil,min=1,max=100"`
	Phone       *string `json:"phone"        validate:"omitnil,min=1,max=32"`
	Nationality *string `json:"nationality"  validate:"omitnil,min=1,max=64"`
	CompanyName *string `json:"company_name" validate:"omitnil,min=1,max=255"`
	TaxID       *string `json:"tax_id"       validate:"omitnil,min=1,max=64"`
	Address     *string `json:"address"      validate:"omitnil,max=255"`
	City        *string `json:"city"         validate:"omitnil,max=128"`
	Document    *string `json:"document"     validate:"omitnil,min=1,max=64"`
}

func (input *UpdateInput) normalize() {
	for _, field := range []*string{
		input.Name, input.Surname, input.Phone, input.Nationality,
		input.CompanyName, input.TaxID, input.Address, input.City, input.Document,
	} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
	if input.Email != nil {
		*input.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
}

// ChangePasswordInput replaces the password after proving the current one.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// BlockState is the result of a block toggle.
type BlockState struct {
	AccountID string `json:"id"`
	IsBlocked bool   `json:"is_blocked"`
}

// ListInput narrows the admin account listing.
type ListInput struct {
	Role  sec.Role
	Page  int
	Limit int
}

// # Log Events

const (
	EventAccountUpdated   = "account_updated"
	EventPasswordChanged  = "account_password_changed"
	EventBlockToggled     = "account_blocked_toggled"
	EventAccountDeleted   = "account_deleted"
	EventRevocationFailed = "account_token_revocation_failed"
)
