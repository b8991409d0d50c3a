// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByPair returns the account matching BOTH username and email.

		Description: The identity unit of registration is the exact
		(username, email) pair; a partial match is not this account.

		Parameters:
		  - context: context.Context
		  - username: string
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByPair(context context.Context, username, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Description: Uniqueness of username and email is enforced by the
		storage schema; a duplicate surfaces as a Conflict error.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Conflict or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		SetConfirmationCode replaces the stored code hash and issuance instant.

		Description: This single write rotates both acceptance paths: the
		previous opaque code stops matching the hash, and every token derived
		from the previous issuance instant stops verifying.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - codeHash: string
		  - issuedAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	SetConfirmationCode(context context.Context, userID, codeHash string, issuedAt time.Time) error
}

// # Volatile Data Access

// SignupThrottleRepository tracks recent code issuances per email address.
type SignupThrottleRepository interface {

	/*
		Acquire counts an issuance attempt against the email's window.

		Parameters:
		  - context: context.Context
		  - email: string
		  - window: time.Duration
		  - max: int

		Returns:
		  - bool: true if the attempt is within the allowance
		  - int: seconds until the window resets (meaningful when denied)
		  - error: Connectivity failures
	*/
	Acquire(context context.Context, email string, window time.Duration, max int) (bool, int, error)
}
