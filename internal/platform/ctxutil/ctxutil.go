// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil reads and writes the per-request values that middleware
// places on [context.Context]: correlation id, request logger and the
// verified token claims.
//
// The caller address resolved by the client-IP middleware is kept here too.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/worldtravels/internal/platform/ctxkey"
	"github.com/taibuivan/worldtravels/internal/platform/sec"
)

// # Correlation

// WithRequestID attaches the X-Request-ID value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the correlation id, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// WithClientIP attaches the resolved caller address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClientIP, ip)
}

// GetClientIP returns the resolved caller address, or "" when unresolved.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ctxkey.KeyClientIP).(string)
	return ip
}

// # Logging

// WithLogger attaches the request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request logger, falling back to [slog.Default]
// for background work and tests.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, _ := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); logger != nil {
		return logger
	}
	return slog.Default()
}

// # Caller Identity

// WithClaims attaches the claims of a verified bearer token.
func WithClaims(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClaims, claims)
}

// GetClaims returns the verified claims, or nil for anonymous requests.
func GetClaims(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(ctxkey.KeyClaims).(*sec.AuthClaims)
	return claims
}
