// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/worldtravels/internal/platform/middleware"
	requestutil "github.com/taibuivan/worldtravels/internal/platform/request"
	"github.com/taibuivan/worldtravels/internal/platform/respond"
	"github.com/taibuivan/worldtravels/internal/platform/sec"
)

// # Definitions & Constructors

// Handler implements the authentication entry points.
//
// # Scope
//
// Registration, login, logout and tourist verification. Account management
// after sign-up lives in the account package.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /registrar                   : Creates an account and its profile.
//   - POST /login                       : Authenticates and returns a token.
//   - POST /logout                      : Invalidates the presented token.
//   - POST /verification-code           : Issues a new tourist code.
//   - POST /verification-code/confirm   : Consumes a tourist code.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/registrar", handler.register)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleTourist))
		r.Post("/verification-code", handler.issueVerificationCode)
		r.Post("/verification-code/confirm", handler.confirmVerificationCode)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type confirmCodeRequest struct {
	Code string `json:"code"`
}

/*
Register handles the creation of a new account.

POST /api/v1/registrar

Request:
  - Body: RegisterInput (role plus the fields that role requires)

Response:
  - 201: Registration: Account, profile and token
  - 422: VALIDATION_ERROR, DUPLICATE_EMAIL or DUPLICATE_KEY
  - 500: TOKEN_ISSUANCE_FAILED when the account was stored but no token could be signed
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	registration, err := handler.authService.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, registration)
}

/*
Login authenticates a caller.

POST /api/v1/login

Response:
  - 200: LoginResult: Token and public identity
  - 401: INVALID_CREDENTIALS
  - 403: ACCOUNT_BLOCKED
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
Logout invalidates the bearer token of the request.

POST /api/v1/logout

Response:
  - 200: Message
  - 500: The denylist could not be written; the token remains valid
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), claims); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Successfully logged out")
}

func (handler *Handler) issueVerificationCode(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.IssueVerificationCode(request.Context(), accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "A new verification code has been sent")
}

func (handler *Handler) confirmVerificationCode(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input confirmCodeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ConfirmVerificationCode(request.Context(), accountID, input.Code); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Account verified")
}
