// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/taibuivan/worldtravels/internal/platform/apperr"
	"github.com/taibuivan/worldtravels/internal/platform/sec"
	"github.com/taibuivan/worldtravels/internal/users/auth"
	"github.com/taibuivan/worldtravels/internal/users/auth/authtest"
)

type failingTokenProvider struct{}

func (failingTokenProvider) IssueToken(string, sec.Role) (*sec.Token, error) {
	return nil, errors.New("signer unavailable")
}

func (failingTokenProvider) InvalidateToken(context.Context, *sec.AuthClaims) error {
	return errors.New("denylist unavailable")
}

/*
ServiceSuite exercises registration, login, logout and verification against
in-memory stores and a real token service.
*/
type ServiceSuite struct {
	suite.Suite

	ctx      context.Context
	accounts *authtest.AccountRepository
	codes    *authtest.CodeRepository
	sender   *authtest.CodeSender
	tokens   *sec.TokenService
	service  *auth.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.accounts = authtest.NewAccountRepository()
	s.codes = authtest.NewCodeRepository()
	s.sender = authtest.NewCodeSender()
	s.tokens, _ = authtest.NewTokenService()
	s.service = auth.NewService(s.accounts, s.codes, s.tokens, s.sender, 0)
}

func touristInput(email string) auth.RegisterInput {
	return auth.RegisterInput{
		Role:        "tourist",
		Email:       email,
		Password:    "longpass1",
		Name:        "Ana",
		Surname:     "Gómez",
		Phone:       "3001234567",
		Nationality: "CO",
	}
}

func (s *ServiceSuite) register(input auth.RegisterInput) *auth.Registration {
	registration, err := s.service.Register(s.ctx, input)
	s.Require().NoError(err)
	return registration
}

// # Registration

func (s *ServiceSuite) TestRegister_PairsAccountAndProfile() {
	registration := s.register(touristInput("  Ana@Example.com "))

	s.Equal(1, s.accounts.Count())
	s.Equal("ana@example.com", registration.Account.Email)
	s.Equal("Ana Gómez", registration.Account.Name)
	s.Equal(sec.RoleTourist, registration.Account.Role)

	stored, ok := s.accounts.Profile(registration.Account.ID)
	s.Require().True(ok)
	tourist, ok := stored.(*auth.TouristProfile)
	s.Require().True(ok)

	s.Equal(registration.Account.Email, tourist.Email)
	s.Equal(registration.Account.PasswordHash, tourist.PasswordHash)
	s.True(sec.CheckPasswordHash("longpass1", tourist.PasswordHash))
	s.False(tourist.IsVerified())

	claims, err := s.tokens.VerifyToken(s.ctx, registration.Token.Value)
	s.Require().NoError(err)
	s.Equal(registration.Account.ID, claims.AccountID)
	s.Equal(sec.RoleTourist, claims.Role)

	code, sent := s.sender.Last(registration.Account.ID)
	s.True(sent)
	s.Equal(*tourist.VerificationCode, code)
}

func (s *ServiceSuite) TestRegister_CompanyExample() {
	registration := s.register(auth.RegisterInput{
		Role:        "company",
		CompanyName: "Tours SA",
		TaxID:       "900123",
		Email:       "a@b.com",
		Password:    "longpass1",
	})

	s.Equal(sec.RoleCompany, registration.Account.Role)
	s.Equal("Tours SA", registration.Account.Name)
	s.Require().NotNil(registration.Account.TaxID)
	s.Equal("900123", *registration.Account.TaxID)

	company, ok := registration.Profile.(*auth.CompanyProfile)
	s.Require().True(ok)
	s.Equal("900123", company.TaxID)
	s.Nil(company.Address)
}

func (s *ServiceSuite) TestRegister_DuplicateEmail() {
	s.register(touristInput("dup@example.com"))

	_, err := s.service.Register(s.ctx, touristInput("DUP@example.com"))

	s.True(apperr.HasCode(err, apperr.CodeDuplicateEmail))
	s.Equal(1, s.accounts.Count())
}

func (s *ServiceSuite) TestRegister_DuplicateDocument() {
	admin := auth.RegisterInput{
		Role: "admin", Email: "one@example.com", Password: "longpass1",
		Name: "Root", Surname: "User", Phone: "1", Document: "CC-1",
	}
	s.register(admin)

	admin.Email = "two@example.com"
	_, err := s.service.Register(s.ctx, admin)

	s.True(apperr.HasCode(err, apperr.CodeDuplicateKey))
	s.Equal(1, s.accounts.Count())
}

func (s *ServiceSuite) TestRegister_RoleConditionalValidation() {
	tests := []struct {
		name    string
		input   auth.RegisterInput
		missing []string
	}{
		{
			name:    "tourist_without_profile_fields",
			input:   auth.RegisterInput{Role: "tourist", Email: "t@example.com", Password: "longpass1"},
			missing: []string{auth.FieldName, auth.FieldSurname, auth.FieldPhone, auth.FieldNationality},
		},
		{
			name:    "company_without_tax_id",
			input:   auth.RegisterInput{Role: "company", Email: "c@example.com", Password: "longpass1", CompanyName: "X"},
			missing: []string{auth.FieldTaxID},
		},
		{
			name:    "admin_without_document",
			input:   auth.RegisterInput{Role: "admin", Email: "a@example.com", Password: "longpass1", Name: "A", Surname: "B", Phone: "1"},
			missing: []string{auth.FieldDocument},
		},
		{
			name:    "short_password_and_unknown_role",
			input:   auth.RegisterInput{Role: "guide", Email: "g@example.com", Password: "short"},
			missing: []string{auth.FieldRole, auth.FieldPassword},
		},
		{
			name:    "multibyte_password_over_72_bytes",
			input:   auth.RegisterInput{Role: "company", Email: "m@example.com", Password: strings.Repeat("é", 40), CompanyName: "X", TaxID: "1"},
			missing: []string{auth.FieldPassword},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.Register(s.ctx, tt.input)

			appError := apperr.As(err)
			s.Require().NotNil(appError)
			s.Equal(apperr.CodeValidation, appError.Code)

			fields := make([]string, 0, len(appError.Details))
			for _, detail := range appError.Details {
				fields = append(fields, detail.Field)
			}
			s.Subset(fields, tt.missing)
			s.Zero(s.accounts.Count())
		})
	}
}

func (s *ServiceSuite) TestRegister_TokenFailureKeepsAccount() {
	service := auth.NewService(s.accounts, s.codes, failingTokenProvider{}, s.sender, 0)

	_, err := service.Register(s.ctx, touristInput("keep@example.com"))

	s.True(apperr.HasCode(err, apperr.CodeTokenIssuanceFailed))
	s.Equal(1, s.accounts.Count())
}

func (s *ServiceSuite) TestRegister_RolledBackWriteLeavesNothing() {
	s.accounts.FailWrites = true

	_, err := s.service.Register(s.ctx, touristInput("tx@example.com"))

	s.True(apperr.HasCode(err, apperr.CodeTransactionFailure))
	s.Zero(s.accounts.Count())
}

// # Login

func (s *ServiceSuite) TestLogin_IssuesVerifiableToken() {
	registration := s.register(touristInput("login@example.com"))

	result, err := s.service.Login(s.ctx, auth.LoginInput{Email: "LOGIN@example.com", Password: "longpass1"})
	s.Require().NoError(err)

	claims, err := s.tokens.VerifyToken(s.ctx, result.Token.Value)
	s.Require().NoError(err)
	s.Equal(registration.Account.ID, claims.AccountID)
	s.Equal(sec.RoleTourist, claims.Role)
	s.Equal(registration.Account.Summary(), result.User)
}

func (s *ServiceSuite) TestLogin_FailuresAreIndistinguishable() {
	s.register(touristInput("known@example.com"))

	_, wrongPassword := s.service.Login(s.ctx, auth.LoginInput{Email: "known@example.com", Password: "not-the-password"})
	_, unknownEmail := s.service.Login(s.ctx, auth.LoginInput{Email: "ghost@example.com", Password: "longpass1"})

	first, second := apperr.As(wrongPassword), apperr.As(unknownEmail)
	s.Require().NotNil(first)
	s.Require().NotNil(second)
	s.Equal(first, second)
	s.Equal(apperr.CodeInvalidCredentials, first.Code)
}

func (s *ServiceSuite) TestLogin_BlockedAccount() {
	registration := s.register(touristInput("blocked@example.com"))
	blocked, err := s.accounts.ToggleBlocked(s.ctx, registration.Account.ID)
	s.Require().NoError(err)
	s.Require().True(blocked)

	_, err = s.service.Login(s.ctx, auth.LoginInput{Email: "blocked@example.com", Password: "longpass1"})
	s.True(apperr.HasCode(err, apperr.CodeAccountBlocked))

	// A blocked account with a wrong password still looks like any bad login.
	_, err = s.service.Login(s.ctx, auth.LoginInput{Email: "blocked@example.com", Password: "wrong-pass"})
	s.True(apperr.HasCode(err, apperr.CodeInvalidCredentials))
}

func (s *ServiceSuite) TestLogin_ShapeValidation() {
	_, err := s.service.Login(s.ctx, auth.LoginInput{Email: "not-an-email"})
	s.True(apperr.HasCode(err, apperr.CodeValidation))
}

// # Logout

func (s *ServiceSuite) TestLogout_InvalidatesOnlyThatToken() {
	s.register(touristInput("out@example.com"))
	credentials := auth.LoginInput{Email: "out@example.com", Password: "longpass1"}

	first, err := s.service.Login(s.ctx, credentials)
	s.Require().NoError(err)
	second, err := s.service.Login(s.ctx, credentials)
	s.Require().NoError(err)

	claims, err := s.tokens.VerifyToken(s.ctx, first.Token.Value)
	s.Require().NoError(err)
	s.Require().NoError(s.service.Logout(s.ctx, claims))

	_, err = s.tokens.VerifyToken(s.ctx, first.Token.Value)
	s.ErrorIs(err, sec.ErrTokenInvalidated)

	_, err = s.tokens.VerifyToken(s.ctx, second.Token.Value)
	s.NoError(err)
}

func (s *ServiceSuite) TestLogout_DenylistFailure() {
	service := auth.NewService(s.accounts, s.codes, failingTokenProvider{}, s.sender, 0)

	err := service.Logout(s.ctx, &sec.AuthClaims{AccountID: "x", Role: sec.RoleTourist})
	s.True(apperr.HasCode(err, apperr.CodeInternal))
}

// # Verification Codes

func (s *ServiceSuite) TestVerificationCode_SingleUse() {
	registration := s.register(touristInput("verify@example.com"))
	accountID := registration.Account.ID

	err := s.service.ConfirmVerificationCode(s.ctx, accountID, "ZZZZZZ")
	s.True(apperr.HasCode(err, apperr.CodeValidation))

	code, ok := s.sender.Last(accountID)
	s.Require().True(ok)
	s.Require().NoError(s.service.ConfirmVerificationCode(s.ctx, accountID, " "+code+" "))

	profile, _ := s.accounts.Profile(accountID)
	s.True(profile.(*auth.TouristProfile).IsVerified())

	err = s.service.ConfirmVerificationCode(s.ctx, accountID, code)
	s.True(apperr.HasCode(err, apperr.CodeValidation))

	err = s.service.IssueVerificationCode(s.ctx, accountID)
	s.True(apperr.HasCode(err, apperr.CodeValidation))
}

func (s *ServiceSuite) TestVerificationCode_ExpiredAndReissued() {
	registration := s.register(touristInput("expire@example.com"))
	accountID := registration.Account.ID
	stale, _ := s.sender.Last(accountID)

	s.codes.Expire(accountID)
	err := s.service.ConfirmVerificationCode(s.ctx, accountID, stale)
	s.True(apperr.HasCode(err, apperr.CodeValidation))

	s.Require().NoError(s.service.IssueVerificationCode(s.ctx, accountID))
	fresh, _ := s.sender.Last(accountID)
	s.NoError(s.service.ConfirmVerificationCode(s.ctx, accountID, fresh))
}

func (s *ServiceSuite) TestVerificationCode_OnlyTourists() {
	registration := s.register(auth.RegisterInput{
		Role: "company", CompanyName: "Andes Trips", TaxID: "800", Email: "c@example.com", Password: "longpass1",
	})

	err := s.service.IssueVerificationCode(s.ctx, registration.Account.ID)
	s.True(apperr.HasCode(err, apperr.CodeForbidden))
}
