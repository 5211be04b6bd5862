// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey holds the context keys shared by middleware and handlers.
// The key type is unexported, so no other package can collide with them.
package ctxkey

type key string

const (
	// KeyRequestID carries the correlation id of the request.
	KeyRequestID key = "request_id"

	// KeyClaims carries the [sec.AuthClaims] of an authenticated caller.
	KeyClaims key = "auth_claims"

	// KeyClientIP carries the caller address after proxy headers were vetted.
	KeyClientIP key = "client_ip"

	// KeyLogger carries the request-scoped *slog.Logger.
	KeyLogger key = "logger"
)
