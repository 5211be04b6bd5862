// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/worldtravels/internal/platform/apperr"
	"github.com/taibuivan/worldtravels/internal/platform/middleware"
	"github.com/taibuivan/worldtravels/internal/users/account"
	"github.com/taibuivan/worldtravels/internal/users/auth"
	"github.com/taibuivan/worldtravels/internal/users/auth/authtest"
)

type fixture struct {
	router  http.Handler
	auth    *auth.Service
	tourist *auth.Registration
	admin   *auth.Registration
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	accounts := authtest.NewAccountRepository()
	tokens, _ := authtest.NewTokenService()
	authService := auth.NewService(accounts, authtest.NewCodeRepository(), tokens, authtest.NewCodeSender(), 0)

	tourist, err := authService.Register(ctx, auth.RegisterInput{
		Role: "tourist", Email: "tourist@example.com", Password: "longpass1",
		Name: "Eva", Surname: "Mora", Phone: "1", Nationality: "PE",
	})
	require.NoError(t, err)

	admin, err := authService.Register(ctx, auth.RegisterInput{
		Role: "admin", Email: "admin@example.com", Password: "longpass1",
		Name: "Ada", Surname: "Root", Phone: "2", Document: "DOC-1",
	})
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount("/", account.NewHandler(account.NewService(accounts, tokens)).Routes())

	return &fixture{router: router, auth: authService, tourist: tourist, admin: admin}
}

func (f *fixture) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)

	decoded := map[string]any{}
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder.Code, decoded
}

/*
TestHandler_AdminGate verifies that admin routes reject tourist tokens and
admit admin tokens.
*/
func TestHandler_AdminGate(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodGet, "/users", f.tourist.Token.Value, "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperr.CodeForbidden, body["code"])

	status, body = f.do(t, http.MethodGet, "/users?role=tourist", f.admin.Token.Value, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, _ = f.do(t, http.MethodGet, "/users/not-a-uuid", f.admin.Token.Value, "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

/*
TestHandler_BlockFlow blocks a tourist over HTTP and checks the effects.
*/
func TestHandler_BlockFlow(t *testing.T) {
	f := newFixture(t)
	path := "/users/" + f.tourist.Account.ID + "/block"

	status, body := f.do(t, http.MethodPut, path, f.admin.Token.Value, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["data"].(map[string]any)["is_blocked"])

	// The tourist's outstanding token is revoked.
	status, body = f.do(t, http.MethodGet, "/me", f.tourist.Token.Value, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperr.CodeInvalidatedToken, body["code"])

	_, err := f.auth.Login(context.Background(), auth.LoginInput{Email: "tourist@example.com", Password: "longpass1"})
	assert.True(t, apperr.HasCode(err, apperr.CodeAccountBlocked))

	// Admins cannot block themselves.
	status, _ = f.do(t, http.MethodPut, "/users/"+f.admin.Account.ID+"/block", f.admin.Token.Value, "")
	assert.Equal(t, http.StatusForbidden, status)
}

/*
TestHandler_SelfService covers /me reads, partial updates and deletion.
*/
func TestHandler_SelfService(t *testing.T) {
	f := newFixture(t)
	token := f.tourist.Token.Value

	status, body := f.do(t, http.MethodGet, "/me", token, "")
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, body["data"].(map[string]any)["account"], "password_hash")

	status, body = f.do(t, http.MethodPatch, "/me", token, `{"email":"admin@example.com"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, apperr.CodeDuplicateEmail, body["code"])

	status, _ = f.do(t, http.MethodPatch, "/me", token, `{"phone":"999"}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = f.do(t, http.MethodPut, "/me/password", token, `{"current_password":"longpass1","new_password":"anotherpass2"}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = f.do(t, http.MethodDelete, "/me", token, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = f.do(t, http.MethodGet, "/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = f.do(t, http.MethodGet, "/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
