// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/worldtravels/internal/platform/sec"
	"github.com/taibuivan/worldtravels/pkg/pagination"
)

// # Account Data Access

// ListFilter narrows an account listing.
type ListFilter struct {
	// Role restricts results to one role when set.
	Role sec.Role
	Page pagination.Params
}

// AccountMutation edits a freshly read profile inside an update transaction.
// Returning an error aborts the update.
type AccountMutation func(account *Account, profile Profile) error

// AccountRepository defines the data access contract for accounts and their
// role profiles. Every method that writes touches both records atomically.
type AccountRepository interface {

	/*
		Create persists an account and its profile in one transaction.

		Returns:
		  - error: DuplicateEmail / DuplicateKey on unique collisions,
		    TransactionFailure when the pair could not be written
	*/
	Create(context context.Context, account *Account, profile Profile) error

	/*
		FindByEmail returns the account bound to a normalized email.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	// FindByID returns the account with the given ID, or apperr.NotFound.
	FindByID(context context.Context, id string) (*Account, error)

	// FindProfile loads the profile variant selected by account.Role.
	FindProfile(context context.Context, account *Account) (Profile, error)

	/*
		Update re-reads both records of an account under a row lock, applies
		mutate, mirrors the profile onto the account and writes both.

		The blocked flag is never written here; only ToggleBlocked changes it.

		Returns:
		  - *AccountView: The stored state after the update
		  - error: apperr.NotFound, the error of mutate, DuplicateEmail /
		    DuplicateKey or TransactionFailure
	*/
	Update(context context.Context, id string, mutate AccountMutation) (*AccountView, error)

	/*
		ToggleBlocked flips the blocked flag of the account (and of the
		tourist profile, when present) in one transaction.

		Returns:
		  - bool: The new blocked state
		  - error: apperr.NotFound when absent
	*/
	ToggleBlocked(context context.Context, id string) (bool, error)

	// Delete removes the profile, then the account, in one transaction.
	Delete(context context.Context, id string) error

	// EmailTaken reports whether email belongs to an account other than excludeID.
	EmailTaken(context context.Context, email, excludeID string) (bool, error)

	// List returns one page of accounts and the total matching count.
	List(context context.Context, filter ListFilter) ([]*Account, int, error)

	// SetVerificationCode mirrors the outstanding code on the tourist profile (nil clears it).
	SetVerificationCode(context context.Context, accountID string, code *string) error
}

// # Volatile Data Access

// VerificationCodeRepository stores the single outstanding code per tourist.
type VerificationCodeRepository interface {

	// Set replaces the code for accountID; it expires after ttl.
	Set(context context.Context, accountID, code string, ttl time.Duration) error

	// Get returns the outstanding code, or apperr.NotFound.
	Get(context context.Context, accountID string) (string, error)

	/*
		Consume deletes the code only if it still equals code.

		Returns:
		  - bool: false when another request consumed it first or it expired
	*/
	Consume(context context.Context, accountID, code string) (bool, error)
}
