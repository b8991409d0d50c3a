// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/laurel/internal/platform/perm"
	"github.com/taibuivan/laurel/internal/platform/sec"
	"github.com/taibuivan/laurel/internal/users/auth"
	"github.com/taibuivan/laurel/pkg/pagination"
	"github.com/taibuivan/laurel/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates business logic for user administration and the
// self-service profile.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

// # Administration

/*
List returns a page of accounts, optionally filtered by username substring.

Parameters:
  - context: context.Context
  - params: pagination.Params
  - search: string

Returns:
  - []auth.User: Page of accounts
  - int: Total matching count
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, params pagination.Params, search string) ([]auth.User, int, error) {
	users, total, err := service.accountRepository.List(context, params, search)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

// CreateInput holds the fields of an administratively provisioned account.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

/*
Create provisions a new account without the signup flow.

Description: The account is created without a confirmation code; the user
obtains one through the regular signup endpoint when they first log in.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *auth.User: Created entity
  - error: Conflict or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {
	role := sec.UserRole(input.Role)
	if input.Role == "" {
		role = sec.RoleUser
	}

	user := &auth.User{
		ID:        uuidv7.New(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      role,
	}

	if err := service.accountRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	service.logger.Info("user_account_provisioned",
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

/*
GetByUsername resolves a username to its account.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *auth.User: The account
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetByUsername(context context.Context, username string) (*auth.User, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return user, nil
}

// UpdateInput defines the mutable subset of account fields. Nil pointers
// leave the current value untouched.
type UpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

// apply copies the provided fields onto the user. The role field is only
// applied when allowed; callers decide through the allowRole flag.
func (input UpdateInput) apply(user *auth.User, allowRole bool) {
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Role != nil && allowRole {
		user.Role = sec.UserRole(*input.Role)
	}
}

/*
UpdateByUsername applies a partial set of changes to an arbitrary account.

Description: Admin-only path; every provided field, including role, is applied.

Parameters:
  - context: context.Context
  - username: string
  - input: UpdateInput

Returns:
  - *auth.User: The updated account
  - error: NotFound, Conflict, or storage failures
*/
func (service *Service) UpdateByUsername(context context.Context, username string, input UpdateInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	input.apply(user, true)

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_account_updated", slog.String("username", user.Username))

	return user, nil
}

/*
DeleteByUsername permanently removes an account.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: apperr.NotFound or execution failures
*/
func (service *Service) DeleteByUsername(context context.Context, username string) error {
	if err := service.accountRepository.Delete(context, username); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.Warn("user_account_deleted", slog.String("username", username))

	return nil
}

// # Self-Service Profile

/*
GetProfile retrieves the full private identity of the requesting user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

/*
UpdateProfile applies a partial set of changes to the actor's own record.

Description: The role field is governed by the permission evaluator. When
the actor may not assign roles, a submitted role is silently dropped and the
rest of the update succeeds; the request is never rejected for it.

Parameters:
  - context: context.Context
  - actor: *perm.Actor (The requesting identity)
  - input: UpdateInput

Returns:
  - *auth.User: The updated profile
  - error: NotFound, Conflict, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, actor *perm.Actor, input UpdateInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("account_service_profile_lookup_failed: %w", err)
	}

	allowRole := perm.CanAssignRole(actor)
	input.apply(user, allowRole)

	if input.Role != nil && !allowRole {
		service.logger.Info("user_role_change_dropped",
			slog.String("user_id", actor.UserID),
			slog.String("requested_role", *input.Role),
		)
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_profile_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", actor.UserID))

	return user, nil
}
