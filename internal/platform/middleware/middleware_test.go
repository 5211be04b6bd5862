// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/worldtravels/internal/platform/middleware"
)

/*
TestRateLimiter_PerIP verifies that one client's burst does not affect another.
*/
func TestRateLimiter_PerIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := middleware.NewRateLimiter(ctx, 1, 2)
	handler := limiter.Handler(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	call := func(ip string) int {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = ip + ":52000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))
}

/*
TestPanicRecovery converts panics into the standard 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "boom")
}

func TestRequestID_Propagates(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "given-id")
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "given-id", recorder.Header().Get("X-Request-ID"))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, recorder.Header().Get("X-Request-ID"), 36)
}

/*
TestClientIP_TrustedProxies checks which peers may report the client address.
*/
func TestClientIP_TrustedProxies(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name      string
		trusted   []netip.Prefix
		peer      string
		realIP    string
		forwarded string
		want      string
	}{
		{"no_trusted_ignores_headers", nil, "203.0.113.9:4000", "1.1.1.1", "2.2.2.2", "203.0.113.9"},
		{"untrusted_peer_ignores_headers", trusted, "203.0.113.9:4000", "1.1.1.1", "", "203.0.113.9"},
		{"trusted_peer_real_ip", trusted, "10.1.2.3:4000", "198.51.100.7", "", "198.51.100.7"},
		{"trusted_peer_forwarded_chain", trusted, "10.1.2.3:4000", "", "6.6.6.6, 198.51.100.7, 10.9.9.9", "198.51.100.7"},
		{"trusted_peer_without_headers", trusted, "10.1.2.3:4000", "", "", "10.1.2.3"},
		{"malformed_hop", trusted, "10.1.2.3:4000", "", "not-an-ip", "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resolved string
			handler := middleware.ClientIP(tt.trusted)(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
				resolved = middleware.RealIP(request)
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.RemoteAddr = tt.peer
			if tt.realIP != "" {
				request.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				request.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			handler.ServeHTTP(httptest.NewRecorder(), request)

			assert.Equal(t, tt.want, resolved)
		})
	}
}

/*
TestRateLimiter_IgnoresSpoofedHeaders keeps a client in one bucket no matter
which forwarding headers it sends.
*/
func TestRateLimiter_IgnoresSpoofedHeaders(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := middleware.NewRateLimiter(ctx, 1, 1)
	handler := middleware.ClientIP(nil)(limiter.Handler(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})))

	call := func(spoofed string) int {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "203.0.113.9:4000"
		request.Header.Set("X-Forwarded-For", spoofed)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusOK, call("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("2.2.2.2"))
}
