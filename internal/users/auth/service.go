// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the core identity workflows: self-registration and
token issuance.

Registration is idempotent and atomic: a repeated (email, username) pair
re-issues a fresh confirmation code instead of failing, and races between
identical concurrent signups are settled by the storage layer's uniqueness
guarantees, never by a read-then-write check in this service.

Architecture:

  - Service: Orchestrates business logic (Signup, IssueToken).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Throttle).
  - Security: HMAC-derived confirmation tokens, bcrypt-hashed opaque codes,
    RSA-signed JWTs.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/laurel/internal/platform/apperr"
	"github.com/taibuivan/laurel/internal/platform/mail"
	"github.com/taibuivan/laurel/internal/platform/sec"
	"github.com/taibuivan/laurel/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - isStaff: The operational staff flag, carried as a claim.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username, role string, isStaff bool, timeToLive time.Duration) (string, error)
}

// CodeVerifier defines the contract for state-bound confirmation tokens.
type CodeVerifier interface {
	// Check reports whether candidate matches the token derived from the
	// user's persisted state.
	Check(userID, email string, codeIssuedAt time.Time, candidate string) bool
}

// Service implements the identity use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to code issuance,
// verification, or token logic must be reviewed by the security team.
type Service struct {
	userRepository     UserRepository
	throttleRepository SignupThrottleRepository
	tokenProvider      TokenProvider
	codeVerifier       CodeVerifier
	mailer             mail.Mailer
	supportEmail       string
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	throttleRepo SignupThrottleRepository,
	tokenProv TokenProvider,
	codeVerifier CodeVerifier,
	mailer mail.Mailer,
	supportEmail string,
) *Service {
	return &Service{
		userRepository:     userRepo,
		throttleRepository: throttleRepo,
		tokenProvider:      tokenProv,
		codeVerifier:       codeVerifier,
		mailer:             mailer,
		supportEmail:       supportEmail,
	}
}

// # Registration Flow

// SignupInput holds the identity pair claimed by a registration request.
type SignupInput struct {
	Username string
	Email    string
}

/*
Signup registers the identity pair (or re-registers it) and emails a fresh
confirmation code.

Description: Find-or-create on the exact (username, email) pair. A pair that
already exists is NOT an error: the account is reused and a new code is
issued, making retries safe for clients that lost the first email. A partial
match (username taken with a different email, or vice versa) is a Conflict.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *User: The account the code was issued for
  - error: Conflict, RateLimited, delivery or storage failures
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {

	// Throttle code issuance per email before touching persistent storage.
	allowed, retryAfter, err := service.throttleRepository.Acquire(context, input.Email, SignupWindow, SignupMaxPerWindow)
	if err != nil {
		return nil, fmt.Errorf("auth_service_signup_throttle_failed: %w", err)
	}
	if !allowed {
		return nil, apperr.RateLimited(retryAfter)
	}

	user, err := service.findOrCreate(context, input)
	if err != nil {
		return nil, err
	}

	// Issue a fresh opaque code. The same write rotates the derived token by
	// moving the issuance instant forward.
	plainCode, err := sec.GenerateConfirmationCode(ConfirmationCodeLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_generate_code_failed: %w", err)
	}

	codeHash, err := sec.HashCode(plainCode)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_code_failed: %w", err)
	}

	issuedAt := time.Now()
	if err := service.userRepository.SetConfirmationCode(context, user.ID, codeHash, issuedAt); err != nil {
		return nil, fmt.Errorf("auth_service_store_code_failed: %w", err)
	}
	user.ConfirmationCodeHash = codeHash
	user.CodeIssuedAt = issuedAt

	// Delivery failures propagate: registration must not report success if
	// the code never reached the relay.
	if err := service.sendConfirmationEmail(context, user, plainCode); err != nil {
		return nil, err
	}

	return user, nil
}

// findOrCreate resolves the identity pair to exactly one account.
//
// The storage layer's unique indexes are the single authority on duplicates.
// A Conflict raised by Create is re-checked against the exact pair: if the
// pair now exists, an identical signup won the race and its account is
// reused; any other collision is a genuine Conflict.
func (service *Service) findOrCreate(context context.Context, input SignupInput) (*User, error) {
	user, err := service.userRepository.FindByPair(context, input.Username, input.Email)
	if err == nil {
		return user, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_pair_lookup_failed: %w", err)
	}

	user = &User{
		ID:       uuidv7.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}

	err = service.userRepository.Create(context, user)
	if err == nil {
		return user, nil
	}

	if apperr.IsConflict(err) {
		// Either a concurrent identical signup, or a partial collision with
		// somebody else's account. The exact pair decides which.
		existing, findErr := service.userRepository.FindByPair(context, input.Username, input.Email)
		if findErr == nil {
			return existing, nil
		}
		return nil, apperr.Conflict("Username or email is already in use")
	}

	return nil, fmt.Errorf("auth_service_create_failed: %w", err)
}

// sendConfirmationEmail delivers the plain-text code to the user.
func (service *Service) sendConfirmationEmail(context context.Context, user *User, plainCode string) error {
	subject := "Your Laurel confirmation code"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour confirmation code is:\n\n    %s\n\nExchange it at POST /api/v1/auth/token to receive an access token.\n",
		user.Username, plainCode,
	)

	if err := service.mailer.Send(context, subject, body, service.supportEmail, []string{user.Email}); err != nil {
		return fmt.Errorf("auth_service_code_delivery_failed: %w", err)
	}

	return nil
}

// # Token Issuance Flow

// TokenInput holds the credentials for a token exchange.
type TokenInput struct {
	Username         string
	ConfirmationCode string
}

/*
IssueToken exchanges a valid confirmation code for a signed access token.

Description: The code is accepted through EITHER of two independent paths:
the token derived from the user's persisted state, or the opaque code that
was emailed (checked against its stored hash). Both paths rotate together
on every re-issue, so only the most recent code is ever valid.

Parameters:
  - context: context.Context
  - input: TokenInput

Returns:
  - string: Signed JWT whose subject is the user's ID
  - error: NotFound (unknown username), field-scoped validation error
    (code mismatch), or signing failures
*/
func (service *Service) IssueToken(context context.Context, input TokenInput) (string, error) {

	// An unknown username is 404, not 400: the username is a resource
	// locator here, the code is the credential.
	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.NotFound("User")
		}
		return "", fmt.Errorf("auth_service_token_lookup_failed: %w", err)
	}

	if !service.codeAccepted(user, input.ConfirmationCode) {
		return "", apperr.FieldValidationError(FieldConfirmationCode, "Invalid confirmation code")
	}

	token, err := service.tokenProvider.GenerateAccessToken(
		user.ID, user.Username, string(user.Role), user.IsStaff, AccessTokenTTL,
	)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return token, nil
}

// codeAccepted runs both acceptance paths. OR semantics: one match suffices.
func (service *Service) codeAccepted(user *User, candidate string) bool {
	if candidate == "" {
		return false
	}

	if service.codeVerifier.Check(user.ID, user.Email, user.CodeIssuedAt, candidate) {
		return true
	}

	// An account that never had a code issued has no stored hash.
	if user.ConfirmationCodeHash == "" {
		return false
	}

	return sec.CheckCodeHash(candidate, user.ConfirmationCodeHash)
}
