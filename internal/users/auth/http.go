// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth provides the HTTP delivery layer for the identity workflows.

It implements the two public entry points of the platform: claiming an
identity (signup) and exchanging a confirmation code for a JWT (token).

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: No cookies, no sessions; the JWT in the response body is the
    only session artifact.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/laurel/internal/platform/request"
	"github.com/taibuivan/laurel/internal/platform/respond"
	"github.com/taibuivan/laurel/internal/platform/validate"
)

// usernameRegex bounds usernames to word characters plus . @ + - (the same
// alphabet the storage schema accepts).
var usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the public, unauthenticated entry points of the user
// lifecycle. Everything behind them requires a token it issued.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /signup : Registers an identity pair and emails a confirmation code.
//   - POST /token  : Exchanges a confirmation code for a signed JWT.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Both endpoints are public: signup is the front door, and token is the
	// exchange for the code signup delivered.
	router.Post("/signup", handler.signup)
	router.Post("/token", handler.token)

	return router
}

// # Request Payloads

type signupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type tokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

/*
Signup registers (or re-registers) an identity pair.

POST /api/v1/auth/signup

Description: Validates the pair, delegates the idempotent find-or-create to
the service, and confirms the echo of the accepted pair. The response never
contains the confirmation code; it travels by email only.

Request:
  - Body: signupRequest (Email, Username)

Response:
  - 200: Accepted pair echoed back
  - 400: ErrInvalidJSON: Bad input, reserved username, or validation failure
  - 409: ErrConflict: Username or email belongs to a different pair
  - 429: RateLimited: Too many code issuances for this email
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, EmailMaxLen).
		Required(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, UsernameMaxLen).
		NotReserved(FieldUsername, input.Username, ReservedUsername).
		Custom(FieldUsername, input.Username != "" && !usernameRegex.MatchString(input.Username),
			"May contain only letters, digits and . @ + - characters")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Signup(request.Context(), SignupInput{
		Username: input.Username,
		Email:    input.Email,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldEmail:    user.Email,
		FieldUsername: user.Username,
	})
}

/*
Token exchanges a confirmation code for a signed access token.

POST /api/v1/auth/token

Description: Resolves the username, verifies the code through either
acceptance path, and returns a JWT whose subject is the user's ID.

Request:
  - Body: tokenRequest (Username, ConfirmationCode)

Response:
  - 200: Signed JWT
  - 400: Field-scoped validation error on confirmation_code mismatch
  - 404: ErrNotFound: Username is not registered
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.IssueToken(request.Context(), TokenInput{
		Username:         input.Username,
		ConfirmationCode: input.ConfirmationCode,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldToken: token,
	})
}
