// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/taibuivan/worldtravels/internal/platform/apperr"
	"github.com/taibuivan/worldtravels/internal/platform/constants"
	"github.com/taibuivan/worldtravels/internal/platform/ctxutil"
	"github.com/taibuivan/worldtravels/internal/platform/respond"
	"github.com/taibuivan/worldtravels/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing fakes during unit testing.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the bearer token from the Authorization header.
//
// # Flow
//  1. If the header is absent, the request proceeds as anonymous.
//  2. A header that is not "Bearer <token>" is rejected with MISSING_TOKEN.
//  3. The token is verified (signature, expiry, denylist) via [TokenVerifier].
//  4. [*sec.AuthClaims] are injected into the request context.
//
// Protected routes add [RequireAuth] or [RequireRole] on top.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			token, ok := bearerToken(authHeader)
			if !ok {
				respond.Error(writer, request, apperr.MissingToken("Authorization header must be 'Bearer <token>'"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(request.Context(), token)
			if err != nil {
				respond.Error(writer, request, classifyTokenError(err))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			if caller, found := request.Context().Value(callerIdentityKey{}).(*callerIdentity); found {
				caller.accountID = claims.AccountID
				caller.role = claims.Role.String()
			}

			ctx := ctxutil.WithClaims(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks anonymous requests with 401 MISSING_TOKEN.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return RequireRole()(next)
}

// RequireRole admits a request only if the caller's role is in roles.
//
// Matching is plain set membership; an admin is not implicitly a company.
// With no roles it behaves like [RequireAuth].
//
// # Flow
//  1. No claims in context → 401 MISSING_TOKEN.
//  2. Role outside the allowed set → 403 FORBIDDEN.
func RequireRole(roles ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetClaims(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.MissingToken("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !claims.Role.In(roles...) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions for this resource"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// bearerToken splits "Bearer <token>" case-insensitively on the scheme.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, strings.TrimSpace(constants.BearerPrefix)) {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.Contains(token, " ") {
		return "", false
	}
	return token, true
}

// classifyTokenError maps verifier failures onto client-facing codes.
// Anything unrecognised (e.g. the denylist being unreachable) is a 500.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, sec.ErrTokenExpired):
		return apperr.ExpiredToken()
	case errors.Is(err, sec.ErrTokenInvalidated):
		return apperr.InvalidatedToken()
	case errors.Is(err, sec.ErrTokenInvalid):
		return apperr.InvalidToken()
	default:
		return apperr.Internal(err)
	}
}
