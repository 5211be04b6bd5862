// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/worldtravels/internal/platform/apperr"
	"github.com/taibuivan/worldtravels/internal/platform/constants"
	"github.com/taibuivan/worldtravels/internal/platform/ctxutil"
	"github.com/taibuivan/worldtravels/internal/platform/sec"
	"github.com/taibuivan/worldtravels/internal/platform/validate"
	"github.com/taibuivan/worldtravels/pkg/pointer"
	"github.com/taibuivan/worldtravels/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and invalidating access tokens.
type TokenProvider interface {
	// IssueToken creates a signed token bound to an account and role.
	IssueToken(accountID string, role sec.Role) (*sec.Token, error)

	// InvalidateToken denylists the token described by claims.
	InvalidateToken(ctx context.Context, claims *sec.AuthClaims) error
}

// CodeSender delivers verification codes to their owner.
type CodeSender interface {
	SendVerificationCode(ctx context.Context, account *Account, code string) error
}

// LogCodeSender writes codes to the request logger at debug level.
type LogCodeSender struct{}

// SendVerificationCode implements [CodeSender].
func (LogCodeSender) SendVerificationCode(ctx context.Context, account *Account, code string) error {
	ctxutil.GetLogger(ctx).DebugContext(ctx, "verification_code_delivery",
		slog.String("account_id", account.ID),
		slog.String("code", code),
	)
	return nil
}

// Service implements registration, login, logout and tourist verification.
type Service struct {
	accountRepository AccountRepository
	codeRepository    VerificationCodeRepository
	tokenProvider     TokenProvider
	codeSender        CodeSender
	codeTTL           time.Duration
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	accountRepo AccountRepository,
	codeRepo VerificationCodeRepository,
	tokenProv TokenProvider,
	sender CodeSender,
	codeTTL time.Duration,
) *Service {
	if sender == nil {
		sender = LogCodeSender{}
	}
	if codeTTL <= 0 {
		codeTTL = DefaultVerificationCodeTTL
	}

	return &Service{
		accountRepository: accountRepo,
		codeRepository:    codeRepo,
		tokenProvider:     tokenProv,
		codeSender:        sender,
		codeTTL:           codeTTL,
	}
}

// # Registration Flow

// RegisterInput is the registration payload. Which fields are mandatory
// depends on Role.
type RegisterInput struct {
	Role     string `json:"role"     validate:"required,oneof=tourist company admin"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`

	// Tourist and admin
	Name    string `json:"name"    validate:"required_if=Role tourist,required_if=Role admin,max=100"`
	Surname string `json:"surname" validate:"required_if=Role tourist,required_if=Role admin,max=100"`
	Phone   string `json:"phone"   validate:"required_if=Role tourist,required_if=Role admin,max=32"`

	// Tourist
	Nationality string `json:"nationality" validate:"required_if=Role tourist,max=64"`

	// Company
	CompanyName string  `json:"company_name" validate:"required_if=Role company,max=255"`
	TaxID       string  `json:"tax_id"       validate:"required_if=Role company,max=64"`
	Address     *string `json:"address"      validate:"omitempty,max=255"`
	City        *string `json:"city"         validate:"omitempty,max=128"`

	// Admin
	Document string `json:"document" validate:"required_if=Role admin,max=64"`
}

// normalize trims every text field and canonicalizes role and email.
func (input *RegisterInput) normalize() {
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))
	input.Email = NormalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	input.Surname = strings.TrimSpace(input.Surname)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Nationality = strings.TrimSpace(input.Nationality)
	input.CompanyName = strings.TrimSpace(input.CompanyName)
	input.TaxID = strings.TrimSpace(input.TaxID)
	input.Document = strings.TrimSpace(input.Document)
	input.Address = trimOptional(input.Address)
	input.City = trimOptional(input.City)
}

// Registration is the result of a successful sign-up.
type Registration struct {
	Account *Account   `json:"account"`
	Profile Profile    `json:"profile"`
	Token   *sec.Token `json:"token"`
}

/*
Register validates, hashes, and persists a new account with its profile.

Description: The password is hashed exactly once and the same digest is
written to both records. A token failure after the records are committed is
reported as TOKEN_ISSUANCE_FAILED; the account stays and the caller can log in.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Registration: Created account, profile and token
  - error: VALIDATION_ERROR, DUPLICATE_EMAIL, DUPLICATE_KEY,
    TRANSACTION_FAILED or TOKEN_ISSUANCE_FAILED
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Registration, error) {
	input.normalize()

	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	role, _ := sec.ParseRole(input.Role)

	// Early uniqueness check for a friendly error; the unique index still
	// decides concurrent races at commit time.
	taken, err := service.accountRepository.EmailTaken(context, input.Email, "")
	if err != nil {
		return nil, fmt.Errorf("auth_service_email_check_failed: %w", err)
	}
	if taken {
		return nil, apperr.DuplicateEmail()
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	account := &Account{ID: uuid.New()}
	profile := buildProfile(role, account.ID, input, Credentials{Email: input.Email, PasswordHash: hashedPassword})

	// Tourists start with an outstanding verification code.
	var verificationCode string
	if tourist, ok := profile.(*TouristProfile); ok {
		verificationCode, err = sec.GenerateCode(constants.VerificationCodeLength)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("auth_service_code_generation_failed: %w", err))
		}
		tourist.VerificationCode = &verificationCode
	}

	Mirror(account, profile)

	if err := service.accountRepository.Create(context, account, profile); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	logger := ctxutil.GetLogger(context)
	logger.InfoContext(context, EventAccountRegistered,
		slog.String("account_id", account.ID),
		slog.String("role", account.Role.String()),
	)

	if verificationCode != "" {
		service.deliverCode(context, account, verificationCode)
	}

	token, err := service.tokenProvider.IssueToken(account.ID, account.Role)
	if err != nil {
		return nil, apperr.TokenIssuanceFailed(fmt.Errorf("auth_service_register_token_failed: %w", err))
	}

	return &Registration{Account: account, Profile: profile, Token: token}, nil
}

func buildProfile(role sec.Role, accountID string, input RegisterInput, credentials Credentials) Profile {
	switch role {
	case sec.RoleCompany:
		return &CompanyProfile{
			AccountID:   accountID,
			Credentials: credentials,
			Name:        input.CompanyName,
			TaxID:       input.TaxID,
			Address:     input.Address,
			City:        input.City,
		}
	case sec.RoleAdmin:
		return &AdminProfile{
			AccountID:   accountID,
			Credentials: credentials,
			Name:        input.Name,
			Surname:     input.Surname,
			Phone:       input.Phone,
			Document:    input.Document,
		}
	default:
		return &TouristProfile{
			AccountID:   accountID,
			Credentials: credentials,
			Name:        input.Name,
			Surname:     input.Surname,
			Phone:       input.Phone,
			Nationality: input.Nationality,
		}
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is a freshly issued token with the caller's public identity.
type LoginResult struct {
	Token *sec.Token `json:"token"`
	User  Summary    `json:"user"`
}

/*
Login validates credentials and issues an access token.

Description: Unknown emails and wrong passwords produce the same
INVALID_CREDENTIALS error, and both cost one bcrypt comparison. The blocked
check runs only after the password verified, so it does not reveal whether
an email is registered.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Token and public identity
  - error: VALIDATION_ERROR, INVALID_CREDENTIALS, ACCOUNT_BLOCKED or
    TOKEN_ISSUANCE_FAILED
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	email := NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	logger := ctxutil.GetLogger(context)

	account, err := service.accountRepository.FindByEmail(context, email)
	if err != nil {
		if !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
		}
		sec.BurnPasswordCheck(input.Password)
		logger.WarnContext(context, EventLoginRejected, slog.String("reason", "unknown_email"))
		return nil, apperr.InvalidCredentials()
	}

	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		logger.WarnContext(context, EventLoginRejected,
			slog.String("reason", "wrong_password"),
			slog.String("account_id", account.ID),
		)
		return nil, apperr.InvalidCredentials()
	}

	if account.IsBlocked {
		logger.WarnContext(context, EventLoginRejected,
			slog.String("reason", "blocked"),
			slog.String("account_id", account.ID),
		)
		return nil, apperr.AccountBlocked()
	}

	token, err := service.tokenProvider.IssueToken(account.ID, account.Role)
	if err != nil {
		return nil, apperr.TokenIssuanceFailed(fmt.Errorf("auth_service_login_token_failed: %w", err))
	}

	logger.InfoContext(context, EventLoginSucceeded,
		slog.String("account_id", account.ID),
		slog.String("role", account.Role.String()),
	)

	return &LoginResult{Token: token, User: account.Summary()}, nil
}

/*
Logout invalidates the exact token the request was authenticated with.

Other tokens of the same account stay valid.
*/
func (service *Service) Logout(context context.Context, claims *sec.AuthClaims) error {
	if claims == nil {
		return apperr.MissingToken("Authentication required")
	}

	if err := service.tokenProvider.InvalidateToken(context, claims); err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_logout_failed: %w", err))
	}

	ctxutil.GetLogger(context).InfoContext(context, EventLoggedOut,
		slog.String("account_id", claims.AccountID),
	)
	return nil
}

// # Tourist Verification

/*
IssueVerificationCode replaces the outstanding code of a tourist and delivers
the new one.

Returns:
  - error: VALIDATION_ERROR when already verified, NOT_FOUND when the
    account is gone, FORBIDDEN for non-tourists
*/
func (service *Service) IssueVerificationCode(context context.Context, accountID string) error {
	account, tourist, err := service.loadTourist(context, accountID)
	if err != nil {
		return err
	}
	if tourist.IsVerified() {
		return validate.RequiredError(FieldCode, "Account is already verified")
	}

	code, err := sec.GenerateCode(constants.VerificationCodeLength)
	if err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_code_generation_failed: %w", err))
	}

	if err := service.accountRepository.SetVerificationCode(context, account.ID, &code); err != nil {
		return fmt.Errorf("auth_service_code_persist_failed: %w", err)
	}
	if err := service.codeRepository.Set(context, account.ID, code, service.codeTTL); err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_code_store_failed: %w", err))
	}
	if err := service.codeSender.SendVerificationCode(context, account, code); err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_code_send_failed: %w", err))
	}

	ctxutil.GetLogger(context).InfoContext(context, EventVerificationIssued, slog.String("account_id", account.ID))
	return nil
}

/*
ConfirmVerificationCode consumes a code. Each code succeeds at most once.

Returns:
  - error: VALIDATION_ERROR on a wrong, expired or already used code
*/
func (service *Service) ConfirmVerificationCode(context context.Context, accountID, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))

	validator := &validate.Validator{}
	validator.Required(FieldCode, code).MaxLen(FieldCode, code, constants.VerificationCodeLength)
	if err := validator.Err(); err != nil {
		return err
	}

	account, _, err := service.loadTourist(context, accountID)
	if err != nil {
		return err
	}

	rejected := validate.RequiredError(FieldCode, "Code is invalid or expired")

	stored, err := service.codeRepository.Get(context, account.ID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return rejected
		}
		return apperr.Internal(fmt.Errorf("auth_service_code_lookup_failed: %w", err))
	}
	if !sec.CodesEqual(stored, code) {
		return rejected
	}

	consumed, err := service.codeRepository.Consume(context, account.ID, stored)
	if err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_code_consume_failed: %w", err))
	}
	if !consumed {
		return rejected
	}

	if err := service.accountRepository.SetVerificationCode(context, account.ID, nil); err != nil {
		return fmt.Errorf("auth_service_code_clear_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, EventVerificationConfirmed, slog.String("account_id", account.ID))
	return nil
}

func (service *Service) loadTourist(context context.Context, accountID string) (*Account, *TouristProfile, error) {
	account, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("auth_service_find_account_failed: %w", err)
	}

	profile, err := service.accountRepository.FindProfile(context, account)
	if err != nil {
		return nil, nil, fmt.Errorf("auth_service_find_profile_failed: %w", err)
	}

	tourist, ok := profile.(*TouristProfile)
	if !ok {
		return nil, nil, apperr.Forbidden("Only tourist accounts carry verification codes")
	}
	return account, tourist, nil
}

// deliverCode stores and sends a registration code. Failures are logged
// only: the account already exists and a new code can be requested.
func (service *Service) deliverCode(context context.Context, account *Account, code string) {
	logger := ctxutil.GetLogger(context)

	err := service.codeRepository.Set(context, account.ID, code, service.codeTTL)
	if err == nil {
		err = service.codeSender.SendVerificationCode(context, account, code)
	}
	if err != nil {
		logger.WarnContext(context, "verification_code_delivery_failed",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)
		return
	}

	logger.InfoContext(context, EventVerificationIssued, slog.String("account_id", account.ID))
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	return pointer.NonEmpty(strings.TrimSpace(*value))
}
