// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/laurel/internal/platform/middleware"
	"github.com/taibuivan/laurel/internal/platform/perm"
	requestutil "github.com/taibuivan/laurel/internal/platform/request"
	"github.com/taibuivan/laurel/internal/platform/respond"
	"github.com/taibuivan/laurel/internal/platform/sec"
	"github.com/taibuivan/laurel/internal/platform/validate"
	"github.com/taibuivan/laurel/internal/users/auth"
	"github.com/taibuivan/laurel/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the user administration and self-service HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the /users surface.
//
// # Endpoints
//   - GET    /me         : Own profile (any authenticated user).
//   - PATCH  /me         : Partial self-update (role soft-denied for plain users).
//   - GET    /           : List accounts (admin only).
//   - POST   /           : Provision an account (admin only).
//   - GET    /{username} : Lookup by username (admin only).
//   - PATCH  /{username} : Partial update (admin only).
//   - DELETE /{username} : Remove the account (admin only).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self-service: any authenticated member. Registered before the
	// wildcard so "me" is never treated as a username.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getMe)
		r.Patch("/me", handler.patchMe)
	})

	// Administration: the whole collection is admin only (staff accounts
	// pass regardless of role).
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/", handler.list)
		r.Post("/", handler.create)
		r.Get("/{username}", handler.getByUsername)
		r.Patch("/{username}", handler.patchByUsername)
		r.Delete("/{username}", handler.deleteByUsername)
	})

	return router
}

// # Request Payloads

type createUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

type updateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

// validateUpdate applies the shared field rules for partial updates.
func validateUpdate(input updateUserRequest) error {
	validator := &validate.Validator{}

	if input.Username != nil {
		validator.Required(auth.FieldUsername, *input.Username).
			MaxLen(auth.FieldUsername, *input.Username, auth.UsernameMaxLen).
			NotReserved(auth.FieldUsername, *input.Username, auth.ReservedUsername)
	}
	if input.Email != nil {
		validator.Required(auth.FieldEmail, *input.Email).
			Email(auth.FieldEmail, *input.Email).
			MaxLen(auth.FieldEmail, *input.Email, auth.EmailMaxLen)
	}
	if input.Role != nil {
		validator.OneOf(auth.FieldRole, *input.Role,
			string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))
	}

	return validator.Err()
}

// # Administration Endpoints

/*
List returns a paginated page of accounts.

GET /api/v1/users?page=&limit=&search=

Response:
  - 200: Paginated accounts
  - 403: ErrForbidden: Requires admin privileges
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	users, total, err := handler.accountService.List(request.Context(), params, search)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Create provisions a new account.

POST /api/v1/users

Response:
  - 201: Created account
  - 400: Validation failure
  - 409: ErrConflict: Username or email already exists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, input.Username).
		MaxLen(auth.FieldUsername, input.Username, auth.UsernameMaxLen).
		NotReserved(auth.FieldUsername, input.Username, auth.ReservedUsername).
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		MaxLen(auth.FieldEmail, input.Email, auth.EmailMaxLen)

	if input.Role != "" {
		validator.OneOf(auth.FieldRole, input.Role,
			string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), CreateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
GetByUsername looks up a single account.

GET /api/v1/users/{username}

Response:
  - 200: The account
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) getByUsername(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	user, err := handler.accountService.GetByUsername(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PatchByUsername partially updates an arbitrary account, role included.

PATCH /api/v1/users/{username}

Response:
  - 200: The updated account
  - 400: Validation failure
  - 404: ErrNotFound: Unknown username
  - 409: ErrConflict: New username or email collides
*/
func (handler *Handler) patchByUsername(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := validateUpdate(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateByUsername(request.Context(), username, UpdateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DeleteByUsername removes an account permanently.

DELETE /api/v1/users/{username}

Response:
  - 204: No Content
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) deleteByUsername(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	if err := handler.accountService.DeleteByUsername(request.Context(), username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Self-Service Endpoints

/*
GetMe returns the requesting user's own record.

GET /api/v1/users/me

Response:
  - 200: Own profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PatchMe partially updates the requesting user's own record.

PATCH /api/v1/users/me

Description: A submitted role field is applied only for moderators and
admins. For plain users it is silently dropped and the remaining fields are
still updated (soft-deny).

Response:
  - 200: Updated profile
  - 400: Validation failure
  - 409: ErrConflict: New username or email collides
*/
func (handler *Handler) patchMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := validateUpdate(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), perm.FromClaims(claims), UpdateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
