// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/worldtravels/internal/platform/apperr"
	"github.com/taibuivan/worldtravels/internal/platform/ctxutil"
	"github.com/taibuivan/worldtravels/internal/platform/sec"
	"github.com/taibuivan/worldtravels/internal/platform/validate"
	"github.com/taibuivan/worldtravels/internal/users/auth"
	"github.com/taibuivan/worldtravels/pkg/pagination"
	"github.com/taibuivan/worldtravels/pkg/pointer"
)

// # Service Layer

// Service orchestrates the lifecycle of existing accounts.
type Service struct {
	accountRepository auth.AccountRepository
	tokenRevoker      TokenRevoker
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo auth.AccountRepository, revoker TokenRevoker) *Service {
	return &Service{
		accountRepository: accountRepo,
		tokenRevoker:      revoker,
	}
}

// # Queries

/*
GetAccount returns an account together with its profile.

Returns:
  - *auth.AccountView: Account and profile
  - error: NOT_FOUND when absent
*/
func (service *Service) GetAccount(context context.Context, accountID string) (*auth.AccountView, error) {
	account, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}

	profile, err := service.accountRepository.FindProfile(context, account)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}

	return &auth.AccountView{Account: account, Profile: profile}, nil
}

// ListAccounts returns one page of accounts, optionally restricted to a role.
func (service *Service) ListAccounts(context context.Context, input ListInput) ([]*auth.Account, pagination.Meta, error) {
	params := pagination.Normalize(input.Page, input.Limit)

	accounts, total, err := service.accountRepository.List(context, auth.ListFilter{Role: input.Role, Page: params})
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_list_failed: %w", err)
	}

	return accounts, pagination.NewMeta(params, total), nil
}

// # Mutations

/*
UpdateAccount applies a partial update to both records of an account.

Description: A new password is hashed once and written to both records. An
email change is checked for uniqueness against every other account.

Parameters:
  - context: context.Context
  - accountID: string
  - input: UpdateInput

Returns:
  - *auth.AccountView: The updated account and profile
  - error: VALIDATION_ERROR, DUPLICATE_EMAIL, DUPLICATE_KEY, NOT_FOUND or
    TRANSACTION_FAILED
*/
func (service *Service) UpdateAccount(context context.Context, accountID string, input UpdateInput) (*auth.AccountView, error) {
	input.normalize()
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	if input.Email != nil {
		taken, err := service.accountRepository.EmailTaken(context, *input.Email, accountID)
		if err != nil {
			return nil, fmt.Errorf("account_service_email_check_failed: %w", err)
		}
		if taken {
			return nil, apperr.DuplicateEmail()
		}
	}

	// Hash before the row lock is taken.
	var hashedPassword string
	if input.Password != nil {
		hashed, err := sec.HashPassword(*input.Password)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("account_service_hash_failed: %w", err))
		}
		hashedPassword = hashed
	}

	view, err := service.accountRepository.Update(context, accountID, func(_ *auth.Account, profile auth.Profile) error {
		credentials := profile.Credential()
		if input.Email != nil {
			credentials.Email = *input.Email
		}
		if hashedPassword != "" {
			credentials.PasswordHash = hashedPassword
		}
		applyProfileFields(profile, input)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, EventAccountUpdated,
		slog.String("account_id", accountID),
		slog.Bool("password_changed", input.Password != nil),
	)

	return view, nil
}

func applyProfileFields(profile auth.Profile, input UpdateInput) {
	switch typed := profile.(type) {
	case *auth.TouristProfile:
		assign(&typed.Name, input.Name)
		assign(&typed.Surname, input.Surname)
		assign(&typed.Phone, input.Phone)
		assign(&typed.Nationality, input.Nationality)
	case *auth.CompanyProfile:
		assign(&typed.Name, input.CompanyName)
		assign(&typed.TaxID, input.TaxID)
		if input.Address != nil {
			typed.Address = pointer.NonEmpty(*input.Address)
		}
		if input.City != nil {
			typed.City = pointer.NonEmpty(*input.City)
		}
	case *auth.AdminProfile:
		assign(&typed.Name, input.Name)
		assign(&typed.Surname, input.Surname)
		assign(&typed.Phone, input.Phone)
		assign(&typed.Document, input.Document)
	}
}

/*
ChangePassword replaces the password once the current one is proven.

Existing tokens stay valid.
*/
func (service *Service) ChangePassword(context context.Context, accountID string, input ChangePasswordInput) error {
	validator := &validate.Validator{}
	validator.Required(auth.FieldCurrentPassword, input.CurrentPassword).
		Required(auth.FieldNewPassword, input.NewPassword).
		MinLen(auth.FieldNewPassword, input.NewPassword, 8).
		Custom(auth.FieldNewPassword, len(input.NewPassword) > auth.MaxPasswordLength, "Maximum 72 bytes")
	if err := validator.Err(); err != nil {
		return err
	}

	view, err := service.GetAccount(context, accountID)
	if err != nil {
		return err
	}
	verifiedHash := view.Profile.Credential().PasswordHash

	wrongPassword := validate.RequiredError(auth.FieldCurrentPassword, "Current password is incorrect")
	if !sec.CheckPasswordHash(input.CurrentPassword, verifiedHash) {
		return wrongPassword
	}

	hashedPassword, err := sec.HashPassword(input.NewPassword)
	if err != nil {
		return apperr.Internal(fmt.Errorf("account_service_hash_failed: %w", err))
	}

	_, err = service.accountRepository.Update(context, accountID, func(_ *auth.Account, profile auth.Profile) error {
		credentials := profile.Credential()

		// Changed by another request since the check above.
		if credentials.PasswordHash != verifiedHash {
			return wrongPassword
		}
		credentials.PasswordHash = hashedPassword
		return nil
	})
	if err != nil {
		return fmt.Errorf("account_service_change_password_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, EventPasswordChanged, slog.String("account_id", accountID))
	return nil
}

/*
ToggleBlock flips the blocked flag of an account and its profile.

Description: Blocking also revokes every token the account holds. The flag
is already committed when revocation runs, so a revocation failure is logged
and not returned; a blocked account cannot log in again either way.

Parameters:
  - context: context.Context
  - actorID: string (the administrator performing the action)
  - accountID: string

Returns:
  - *BlockState: The new state
  - error: FORBIDDEN when actorID == accountID, NOT_FOUND, TRANSACTION_FAILED
*/
func (service *Service) ToggleBlock(context context.Context, actorID, accountID string) (*BlockState, error) {
	if actorID == accountID {
		return nil, apperr.Forbidden("Administrators cannot block their own account")
	}

	blocked, err := service.accountRepository.ToggleBlocked(context, accountID)
	if err != nil {
		return nil, fmt.Errorf("account_service_toggle_block_failed: %w", err)
	}

	if blocked {
		service.revoke(context, accountID)
	}

	ctxutil.GetLogger(context).InfoContext(context, EventBlockToggled,
		slog.String("account_id", accountID),
		slog.String("actor_id", actorID),
		slog.Bool("is_blocked", blocked),
	)

	return &BlockState{AccountID: accountID, IsBlocked: blocked}, nil
}

/*
DeleteAccount removes the profile and the account in one transaction and
revokes the account's tokens.
*/
func (service *Service) DeleteAccount(context context.Context, accountID string) error {
	if err := service.accountRepository.Delete(context, accountID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.revoke(context, accountID)

	ctxutil.GetLogger(context).WarnContext(context, EventAccountDeleted, slog.String("account_id", accountID))
	return nil
}

func (service *Service) revoke(context context.Context, accountID string) {
	if err := service.tokenRevoker.RevokeAccount(context, accountID); err != nil {
		ctxutil.GetLogger(context).ErrorContext(context, EventRevocationFailed,
			slog.String("account_id", accountID),
			slog.Any("error", err),
		)
	}
}

func assign(target *string, value *string) {
	if value != nil {
		*target = *value
	}
}
