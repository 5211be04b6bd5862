// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/worldtravels/internal/platform/middleware"
	requestutil "github.com/taibuivan/worldtravels/internal/platform/request"
	"github.com/taibuivan/worldtravels/internal/platform/respond"
	"github.com/taibuivan/worldtravels/internal/platform/sec"
	"github.com/taibuivan/worldtravels/internal/platform/validate"
	"github.com/taibuivan/worldtravels/pkg/pagination"
)

// Handler implements the HTTP layer for account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account endpoints.
//
// # Security
//
// Self-service routes need any valid token; /users routes are admin-only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self-service
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getMe)
		r.Patch("/me", handler.updateMe)
		r.Delete("/me", handler.deleteMe)
		r.Put("/me/password", handler.changePassword)
	})

	// Administration
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/users", handler.listUsers)
		r.Get("/users/{id}", handler.getUser)
		r.Patch("/users/{id}", handler.updateUser)
		r.Delete("/users/{id}", handler.deleteUser)
		r.Put("/users/{id}/block", handler.toggleBlock)
	})

	return router
}

// # Self-service Endpoints

/*
GET /api/v1/me.

Response:
  - 200: AccountView: Account and profile of the caller
  - 401: MISSING_TOKEN or token failures
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.accountService.GetAccount(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
PATCH /api/v1/me.

Request:
  - body: UpdateInput (Partial JSON)

Response:
  - 200: AccountView: The updated account
  - 422: VALIDATION_ERROR, DUPLICATE_EMAIL, DUPLICATE_KEY
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.update(writer, request, accountID)
}

// DELETE /api/v1/me.
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// PUT /api/v1/me/password.
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ChangePasswordInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.ChangePassword(request.Context(), accountID, input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password updated")
}

// # Administration Endpoints

/*
GET /api/v1/users.

Query:
  - role: tourist | company | admin (optional)
  - page, limit: pagination

Response:
  - 200: Paginated list of accounts
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	input := ListInput{}

	if raw := request.URL.Query().Get("role"); raw != "" {
		role, ok := sec.ParseRole(raw)
		if !ok {
			respond.Error(writer, request, validate.RequiredError("role", "Must be one of: tourist, company, admin"))
			return
		}
		input.Role = role
	}

	params := pagination.FromRequest(request)
	input.Page, input.Limit = params.Page, params.Limit

	accounts, meta, err := handler.accountService.ListAccounts(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, accounts, meta)
}

// GET /api/v1/users/{id}.
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	accountID, err := pathID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.accountService.GetAccount(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// PATCH /api/v1/users/{id}.
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	accountID, err := pathID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.update(writer, request, accountID)
}

// DELETE /api/v1/users/{id}.
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	accountID, err := pathID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
PUT /api/v1/users/{id}/block.

Description: Toggles the blocked flag. Blocking revokes the target's tokens.

Response:
  - 200: BlockState: The new state
  - 403: FORBIDDEN when an administrator targets their own account
  - 404: NOT_FOUND
*/
func (handler *Handler) toggleBlock(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	accountID, err := pathID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	state, err := handler.accountService.ToggleBlock(request.Context(), actorID, accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, state)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request, accountID string) {
	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.accountService.UpdateAccount(request.Context(), accountID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// pathID reads and validates the {id} URL parameter.
func pathID(request *http.Request) (string, error) {
	accountID := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	if err := validator.UUID("id", accountID).Err(); err != nil {
		return "", err
	}
	return accountID, nil
}
