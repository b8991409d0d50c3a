// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user administration and self-service profile access.

It provides the admin-only management surface over the accounts collection
(keyed by username) and the /users/me endpoints through which any member
reads and edits their own record.

# Architecture

  - Entities: This package depends on the auth package for the User entity.
  - Authorization: Collection access is admin-only; the role field on the
    self record is guarded by the permission evaluator (soft-deny).
*/
package account

import (
	"context"

	"github.com/taibuivan/laurel/internal/users/auth"
	"github.com/taibuivan/laurel/pkg/pagination"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user administration.
type AccountRepository interface {
	/*
		List returns a page of accounts ordered by username.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params
		  - search: string (Optional substring filter on username)

		Returns:
		  - []auth.User: Page of accounts
		  - int: Total number of matching accounts
		  - error: Retrieval failures
	*/
	List(context context.Context, params pagination.Params, search string) ([]auth.User, int, error)

	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		FindByUsername retrieves a user record by their unique username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		Create persists a new, administratively provisioned account.

		Description: Uniqueness of username and email is enforced by the
		storage schema; duplicates surface as Conflict.

		Parameters:
		  - context: context.Context
		  - user: *auth.User

		Returns:
		  - error: Conflict or storage failures
	*/
	Create(context context.Context, user *auth.User) error

	/*
		Update modifies the mutable fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Conflict or storage failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		Delete permanently removes the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - error: apperr.NotFound if absent, execution failures otherwise
	*/
	Delete(context context.Context, username string) error
}
