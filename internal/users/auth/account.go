// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the identity layer of World Travels.

It defines the account entity, its role-specific profile, and the use cases
that create credentials and exchange them for bearer tokens.

# Architecture

Every account owns exactly one profile whose variant is selected by the
account role. Name, email and password digest live on both records and are
always written together in one transaction; [Mirror] is the single place
that derives the account side from the profile side.
*/
package auth

import (
	"strings"
	"time"

	"github.com/taibuivan/worldtravels/internal/platform/sec"
)

// # Domain Entities

// Account is the identity record every role shares.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         sec.Role  `json:"role"`
	IsBlocked    bool      `json:"is_blocked"`
	TaxID        *string   `json:"tax_id,omitempty"`
	Address      *string   `json:"address,omitempty"`
	City         *string   `json:"city,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summary is the public identity returned next to a fresh token.
type Summary struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  sec.Role `json:"role"`
}

// Summary projects the account onto its public identity.
func (account *Account) Summary() Summary {
	return Summary{ID: account.ID, Name: account.Name, Email: account.Email, Role: account.Role}
}

// Credentials are the login fields mirrored on every profile.
type Credentials struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Profile is the role-specific half of an account.
//
// The set of implementations is closed: [TouristProfile], [CompanyProfile]
// and [AdminProfile].
type Profile interface {
	// Role is the account role this variant belongs to.
	Role() sec.Role

	// DisplayName is the value mirrored into Account.Name.
	DisplayName() string

	// Credential exposes the mirrored login fields for in-place updates.
	Credential() *Credentials

	sealed()
}

// TouristProfile belongs to travellers booking activities.
type TouristProfile struct {
	AccountID string `json:"account_id"`
	Credentials
	Name             string    `json:"name"`
	Surname          string    `json:"surname"`
	Phone            string    `json:"phone"`
	Nationality      string    `json:"nationality"`
	RegisteredAt     time.Time `json:"registered_at"`
	IsBlocked        bool      `json:"is_blocked"`
	VerificationCode *string   `json:"-"`
}

func (profile *TouristProfile) Role() sec.Role { return sec.RoleTourist }

func (profile *TouristProfile) DisplayName() string {
	return strings.TrimSpace(profile.Name + " " + profile.Surname)
}

func (profile *TouristProfile) Credential() *Credentials { return &profile.Credentials }

func (profile *TouristProfile) sealed() {}

// IsVerified reports whether no verification code is outstanding.
func (profile *TouristProfile) IsVerified() bool {
	return profile.VerificationCode == nil
}

// CompanyProfile belongs to operators publishing activities.
type CompanyProfile struct {
	AccountID string `json:"account_id"`
	Credentials
	Name    string  `json:"company_name"`
	TaxID   string  `json:"tax_id"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
}

func (profile *CompanyProfile) Role() sec.Role { return sec.RoleCompany }

func (profile *CompanyProfile) DisplayName() string { return profile.Name }

func (profile *CompanyProfile) Credential() *Credentials { return &profile.Credentials }

func (profile *CompanyProfile) sealed() {}

// AdminProfile belongs to platform administrators.
type AdminProfile struct {
	AccountID string `json:"account_id"`
	Credentials
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
}

func (profile *AdminProfile) Role() sec.Role { return sec.RoleAdmin }

func (profile *AdminProfile) DisplayName() string {
	return strings.TrimSpace(profile.Name + " " + profile.Surname)
}

func (profile *AdminProfile) Credential() *Credentials { return &profile.Credentials }

func (profile *AdminProfile) sealed() {}

// NewProfile returns an empty profile variant for role.
func NewProfile(role sec.Role, accountID string) (Profile, bool) {
	switch role {
	case sec.RoleTourist:
		return &TouristProfile{AccountID: accountID}, true
	case sec.RoleCompany:
		return &CompanyProfile{AccountID: accountID}, true
	case sec.RoleAdmin:
		return &AdminProfile{AccountID: accountID}, true
	default:
		return nil, false
	}
}

// Mirror copies every shared field from profile onto account.
//
// Callers mutate the profile, then call Mirror before persisting both
// records in one transaction.
func Mirror(account *Account, profile Profile) {
	credentials := profile.Credential()

	account.Role = profile.Role()
	account.Name = profile.DisplayName()
	account.Email = credentials.Email
	account.PasswordHash = credentials.PasswordHash

	// Role-specific columns on the account row
	account.TaxID, account.Address, account.City = nil, nil, nil

	switch typed := profile.(type) {
	case *TouristProfile:
		typed.IsBlocked = account.IsBlocked
	case *CompanyProfile:
		taxID := typed.TaxID
		account.TaxID = &taxID
		account.Address = typed.Address
		account.City = typed.City
	}
}

// AccountView is an account together with its profile.
type AccountView struct {
	Account *Account `json:"account"`
	Profile Profile  `json:"profile"`
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// # Field Identifiers

// Field names for validation details in the identity domain.
const (
	FieldRole            = "role"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldName            = "name"
	FieldSurname         = "surname"
	FieldPhone           = "phone"
	FieldNationality     = "nationality"
	FieldCompanyName     = "company_name"
	FieldTaxID           = "tax_id"
	FieldAddress         = "address"
	FieldCity            = "city"
	FieldDocument        = "document"
	FieldCode            = "code"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
)
