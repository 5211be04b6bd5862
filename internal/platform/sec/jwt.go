// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [TokenProvider] and [middleware.TokenVerifier]
// interfaces.
package sec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/worldtravels/pkg/uuid"
)

// MinSecretLength is the shortest HMAC secret accepted at startup.
const MinSecretLength = 32

// # Verification Failures

var (
	// ErrTokenInvalid covers malformed tokens, bad signatures and foreign issuers.
	ErrTokenInvalid = errors.New("sec: token invalid")

	// ErrTokenExpired is returned once the exp claim is in the past.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenInvalidated is returned for tokens on the denylist, even though
	// their signature and expiry are still valid.
	ErrTokenInvalidated = errors.New("sec: token invalidated")
)

// AuthClaims represents the payload embedded inside an access token.
//
// The jti (RegisteredClaims.ID) is what logout writes to the denylist.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	AccountID string `json:"uid"`
	Role      Role   `json:"rol"`

	// IssuedMicros is the issue time in unix microseconds; iat only carries
	// whole seconds.
	IssuedMicros int64 `json:"iat_us,omitempty"`
}

// IssuedAtPrecise returns the most precise issue time the token carries.
func (claims *AuthClaims) IssuedAtPrecise() time.Time {
	if claims.IssuedMicros != 0 {
		return time.UnixMicro(claims.IssuedMicros)
	}
	if claims.IssuedAt != nil {
		return claims.IssuedAt.Time
	}
	return time.Time{}
}

// Token is a freshly signed access token.
type Token struct {
	Value     string    `json:"access_token"`
	Type      string    `json:"token_type"`
	ID        string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Denylist is the revocation set consulted on every verification.
//
// Implementations must be shared by every request handler (no per-process
// caching) so that a logout is visible to the next verification anywhere.
type Denylist interface {
	// Add stores a token id until ttl elapses.
	Add(ctx context.Context, tokenID string, ttl time.Duration) error

	// Contains reports whether the token id has been invalidated.
	Contains(ctx context.Context, tokenID string) (bool, error)

	// RevokeSubject invalidates every token of accountID issued at or before
	// the given time. Implementations keep at least microsecond precision.
	RevokeSubject(ctx context.Context, accountID string, before time.Time, ttl time.Duration) error

	// RevokedBefore returns the revocation mark for accountID, if any.
	RevokedBefore(ctx context.Context, accountID string) (time.Time, bool, error)
}

// TokenService handles generation and verification of HS256 access tokens.
type TokenService struct {
	secret   []byte
	issuer   string
	ttl      time.Duration
	denylist Denylist
	now      func() time.Time
}

// Option customises a [TokenService].
type Option func(*TokenService)

// WithClock overrides the time source. Used by tests to mint expired tokens.
func WithClock(now func() time.Time) Option {
	return func(service *TokenService) {
		service.now = now
	}
}

// NewTokenService creates a new TokenService.
//
// The secret is process-wide configuration and is injected here rather than
// read from a global.
func NewTokenService(secret, issuer string, ttl time.Duration, denylist Denylist, opts ...Option) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("auth: jwt secret must be at least %d bytes", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("auth: token ttl must be positive, got %s", ttl)
	}
	if denylist == nil {
		return nil, errors.New("auth: a token denylist is required")
	}

	service := &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		ttl:      ttl,
		denylist: denylist,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// TTL returns the fixed lifetime of issued tokens.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// IssueToken creates a new signed access token bound to an account and role.
func (service *TokenService) IssueToken(accountID string, role Role) (*Token, error) {
	currentTime := service.now()
	expiresAt := currentTime.Add(service.ttl)
	tokenID := uuid.New()

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   accountID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		AccountID:    accountID,
		Role:         role,
		IssuedMicros: currentTime.UnixMicro(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to sign token: %w", err)
	}

	return &Token{
		Value:     signedToken,
		Type:      "Bearer",
		ID:        tokenID,
		ExpiresAt: expiresAt,
	}, nil
}

// VerifyToken checks signature, expiry and revocation state of a token.
//
// # Returns
//   - [*AuthClaims] when the token is usable.
//   - An error matching [ErrTokenInvalid], [ErrTokenExpired] or
//     [ErrTokenInvalidated]; any other error is a denylist outage.
func (service *TokenService) VerifyToken(ctx context.Context, tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(service.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || claims.ID == "" || claims.AccountID == "" || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: incomplete claims", ErrTokenInvalid)
	}

	// Explicit logout of this exact token
	denied, err := service.denylist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("auth: denylist lookup failed: %w", err)
	}
	if denied {
		return nil, ErrTokenInvalidated
	}

	// Account-wide revocation (block, delete)
	before, found, err := service.denylist.RevokedBefore(ctx, claims.AccountID)
	if err != nil {
		return nil, fmt.Errorf("auth: revocation lookup failed: %w", err)
	}
	if found && !claims.IssuedAtPrecise().After(before) {
		return nil, ErrTokenInvalidated
	}

	return claims, nil
}

// InvalidateToken places the token's jti on the denylist until its natural expiry.
func (service *TokenService) InvalidateToken(ctx context.Context, claims *AuthClaims) error {
	if claims == nil || claims.ID == "" {
		return fmt.Errorf("%w: token has no identifier", ErrTokenInvalid)
	}

	ttl := service.ttl
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(service.now())
	}

	// Already expired; verification rejects it anyway.
	if ttl <= 0 {
		return nil
	}

	if err := service.denylist.Add(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("auth: failed to invalidate token: %w", err)
	}
	return nil
}

// RevokeAccount invalidates every token issued to accountID up to now.
//
// The mark only needs to outlive the longest token that could predate it.
func (service *TokenService) RevokeAccount(ctx context.Context, accountID string) error {
	if err := service.denylist.RevokeSubject(ctx, accountID, service.now(), service.ttl); err != nil {
		return fmt.Errorf("auth: failed to revoke account tokens: %w", err)
	}
	return nil
}
