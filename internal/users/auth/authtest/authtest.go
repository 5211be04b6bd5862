// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides in-memory implementations of the identity
// repositories and the token denylist for use in tests.
package authtest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/worldtravels/internal/platform/apperr"
	"github.com/taibuivan/worldtravels/internal/platform/sec"
	"github.com/taibuivan/worldtravels/internal/users/auth"
)

var errWriteFailed = errors.New("authtest: write failed")

// # Accounts

type record struct {
	account auth.Account
	profile auth.Profile
}

// AccountRepository is a map-backed [auth.AccountRepository].
//
// It enforces the same unique keys as the Postgres schema. Set FailWrites
// to make every write return a TRANSACTION_FAILED error without applying it.
type AccountRepository struct {
	mu         sync.Mutex
	records    map[string]*record
	FailWrites bool
}

// NewAccountRepository returns an empty repository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{records: make(map[string]*record)}
}

// Count returns the number of stored accounts.
func (repository *AccountRepository) Count() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.records)
}

func (repository *AccountRepository) Create(_ context.Context, account *auth.Account, profile auth.Profile) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.FailWrites {
		return apperr.TransactionFailure(errWriteFailed)
	}
	if err := repository.checkUnique("", account, profile); err != nil {
		return err
	}

	now := time.Now().UTC()
	account.CreatedAt, account.UpdatedAt = now, now
	if tourist, ok := profile.(*auth.TouristProfile); ok && tourist.RegisteredAt.IsZero() {
		tourist.RegisteredAt = now
	}

	repository.records[account.ID] = &record{account: *account, profile: cloneProfile(profile)}
	return nil
}

func (repository *AccountRepository) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, stored := range repository.records {
		if stored.account.Email == email {
			account := stored.account
			return &account, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (repository *AccountRepository) FindByID(_ context.Context, id string) (*auth.Account, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.records[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	account := stored.account
	return &account, nil
}

func (repository *AccountRepository) FindProfile(_ context.Context, account *auth.Account) (auth.Profile, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.records[account.ID]
	if !ok || stored.profile.Role() != account.Role {
		return nil, apperr.NotFound("Profile")
	}
	return cloneProfile(stored.profile), nil
}

func (repository *AccountRepository) Update(_ context.Context, id string, mutate auth.AccountMutation) (*auth.AccountView, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.records[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	if repository.FailWrites {
		return nil, apperr.TransactionFailure(errWriteFailed)
	}

	account := stored.account
	profile := cloneProfile(stored.profile)
	if err := mutate(&account, profile); err != nil {
		return nil, err
	}
	auth.Mirror(&account, profile)
	if err := repository.checkUnique(id, &account, profile); err != nil {
		return nil, err
	}

	// The blocked flag only changes through ToggleBlocked.
	account.IsBlocked = stored.account.IsBlocked
	if tourist, ok := profile.(*auth.TouristProfile); ok {
		tourist.IsBlocked = account.IsBlocked
	}

	account.UpdatedAt = time.Now().UTC()
	stored.account = account
	stored.profile = cloneProfile(profile)
	return &auth.AccountView{Account: &account, Profile: profile}, nil
}

func (repository *AccountRepository) ToggleBlocked(_ context.Context, id string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.records[id]
	if !ok {
		return false, apperr.NotFound("Account")
	}
	if repository.FailWrites {
		return false, apperr.TransactionFailure(errWriteFailed)
	}

	stored.account.IsBlocked = !stored.account.IsBlocked
	if tourist, ok := stored.profile.(*auth.TouristProfile); ok {
		tourist.IsBlocked = stored.account.IsBlocked
	}
	return stored.account.IsBlocked, nil
}

func (repository *AccountRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.records[id]; !ok {
		return apperr.NotFound("Account")
	}
	if repository.FailWrites {
		return apperr.TransactionFailure(errWriteFailed)
	}
	delete(repository.records, id)
	return nil
}

func (repository *AccountRepository) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for id, stored := range repository.records {
		if id != excludeID && stored.account.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (repository *AccountRepository) List(_ context.Context, filter auth.ListFilter) ([]*auth.Account, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matched := make([]*auth.Account, 0, len(repository.records))
	for _, stored := range repository.records {
		if filter.Role != "" && stored.account.Role != filter.Role {
			continue
		}
		account := stored.account
		matched = append(matched, &account)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	start := min(filter.Page.Offset(), total)
	end := total
	if filter.Page.Limit > 0 {
		end = min(start+filter.Page.Limit, total)
	}
	return matched[start:end], total, nil
}

func (repository *AccountRepository) SetVerificationCode(_ context.Context, accountID string, code *string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.records[accountID]
	if !ok {
		return apperr.NotFound("Account")
	}
	tourist, ok := stored.profile.(*auth.TouristProfile)
	if !ok {
		return apperr.NotFound("Tourist profile")
	}
	if code == nil {
		tourist.VerificationCode = nil
		return nil
	}
	value := *code
	tourist.VerificationCode = &value
	return nil
}

// checkUnique mirrors the unique indexes of the users schema.
func (repository *AccountRepository) checkUnique(selfID string, account *auth.Account, profile auth.Profile) error {
	for id, stored := range repository.records {
		if id == selfID {
			continue
		}
		if stored.account.Email == account.Email {
			return apperr.DuplicateEmail()
		}

		switch candidate := profile.(type) {
		case *auth.CompanyProfile:
			if existing, ok := stored.profile.(*auth.CompanyProfile); ok && existing.TaxID == candidate.TaxID {
				return apperr.DuplicateKey(auth.FieldTaxID)
			}
		case *auth.AdminProfile:
			if existing, ok := stored.profile.(*auth.AdminProfile); ok && existing.Document == candidate.Document {
				return apperr.DuplicateKey(auth.FieldDocument)
			}
		}
	}
	return nil
}

// Profile returns the stored profile of accountID for assertions.
func (repository *AccountRepository) Profile(accountID string) (auth.Profile, bool) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.records[accountID]
	if !ok {
		return nil, false
	}
	return cloneProfile(stored.profile), true
}

func cloneProfile(profile auth.Profile) auth.Profile {
	switch typed := profile.(type) {
	case *auth.TouristProfile:
		copied := *typed
		if typed.VerificationCode != nil {
			code := *typed.VerificationCode
			copied.VerificationCode = &code
		}
		return &copied
	case *auth.CompanyProfile:
		copied := *typed
		return &copied
	case *auth.AdminProfile:
		copied := *typed
		return &copied
	default:
		return profile
	}
}

// # Verification Codes

type storedCode struct {
	value     string
	expiresAt time.Time
}

// CodeRepository is a map-backed [auth.VerificationCodeRepository].
type CodeRepository struct {
	mu    sync.Mutex
	codes map[string]storedCode
	now   func() time.Time
}

// NewCodeRepository returns an empty repository using the wall clock.
func NewCodeRepository() *CodeRepository {
	return &CodeRepository{codes: make(map[string]storedCode), now: time.Now}
}

func (repository *CodeRepository) Set(_ context.Context, accountID, code string, ttl time.Duration) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.codes[accountID] = storedCode{value: code, expiresAt: repository.now().Add(ttl)}
	return nil
}

func (repository *CodeRepository) Get(_ context.Context, accountID string) (string, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.codes[accountID]
	if !ok || !repository.now().Before(stored.expiresAt) {
		return "", apperr.NotFound("Verification code")
	}
	return stored.value, nil
}

func (repository *CodeRepository) Consume(_ context.Context, accountID, code string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.codes[accountID]
	if !ok || stored.value != code || !repository.now().Before(stored.expiresAt) {
		return false, nil
	}
	delete(repository.codes, accountID)
	return true, nil
}

// Expire drops the code of accountID as if its TTL had elapsed.
func (repository *CodeRepository) Expire(accountID string) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	delete(repository.codes, accountID)
}

// # Token Denylist

// Denylist is an in-memory [sec.Denylist]. Entries never expire; tests run
// well within token lifetimes.
type Denylist struct {
	mu      sync.Mutex
	tokens  map[string]struct{}
	revoked map[string]time.Time
}

// NewDenylist returns an empty denylist.
func NewDenylist() *Denylist {
	return &Denylist{tokens: make(map[string]struct{}), revoked: make(map[string]time.Time)}
}

func (denylist *Denylist) Add(_ context.Context, tokenID string, _ time.Duration) error {
	denylist.mu.Lock()
	defer denylist.mu.Unlock()
	denylist.tokens[tokenID] = struct{}{}
	return nil
}

func (denylist *Denylist) Contains(_ context.Context, tokenID string) (bool, error) {
	denylist.mu.Lock()
	defer denylist.mu.Unlock()
	_, ok := denylist.tokens[tokenID]
	return ok, nil
}

func (denylist *Denylist) RevokeSubject(_ context.Context, accountID string, before time.Time, _ time.Duration) error {
	denylist.mu.Lock()
	defer denylist.mu.Unlock()
	denylist.revoked[accountID] = before.Truncate(time.Microsecond)
	return nil
}

func (denylist *Denylist) RevokedBefore(_ context.Context, accountID string) (time.Time, bool, error) {
	denylist.mu.Lock()
	defer denylist.mu.Unlock()
	before, ok := denylist.revoked[accountID]
	return before, ok, nil
}

// # Token Service

// Secret is a signing key long enough for [sec.NewTokenService].
const Secret = "test-secret-that-is-definitely-32-bytes-long"

// NewTokenService builds a token service backed by an in-memory denylist.
func NewTokenService() (*sec.TokenService, *Denylist) {
	denylist := NewDenylist()
	service, err := sec.NewTokenService(Secret, "worldtravels.test", time.Hour, denylist)
	if err != nil {
		panic(err)
	}
	return service, denylist
}

// # Code Sender

// CodeSender records every delivered code per account.
type CodeSender struct {
	mu   sync.Mutex
	sent map[string][]string
}

// NewCodeSender returns an empty recorder.
func NewCodeSender() *CodeSender {
	return &CodeSender{sent: make(map[string][]string)}
}

func (sender *CodeSender) SendVerificationCode(_ context.Context, account *auth.Account, code string) error {
	sender.mu.Lock()
	defer sender.mu.Unlock()
	sender.sent[account.ID] = append(sender.sent[account.ID], code)
	return nil
}

// Last returns the most recent code delivered to accountID.
func (sender *CodeSender) Last(accountID string) (string, bool) {
	sender.mu.Lock()
	defer sender.mu.Unlock()
	codes := sender.sent[accountID]
	if len(codes) == 0 {
		return "", false
	}
	return codes[len(codes)-1], true
}
