// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the password-less identity layer.

Membership is claimed with a (email, username) pair and proven with a one-time
confirmation code delivered by email. There are no passwords anywhere in the
system; the code is the only credential, and a signed JWT is the only session
artifact.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/taibuivan/laurel/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Laurel platform.
type User struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name,omitempty"`
	LastName  string       `json:"last_name,omitempty"`
	Bio       string       `json:"bio,omitempty"`
	Role      sec.UserRole `json:"role"`

	// IsStaff is the operational back-office flag. A staff account is treated
	// as admin-equivalent by the permission evaluator regardless of Role.
	IsStaff bool `json:"-"`

	// ConfirmationCodeHash is the bcrypt hash of the most recently issued
	// opaque confirmation code. Explicitly omitted from JSON for security.
	ConfirmationCodeHash string `json:"-"`

	// CodeIssuedAt anchors the derived confirmation token. Re-issuing a code
	// moves this instant forward, rotating both acceptance paths at once.
	CodeIssuedAt time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldToken            = "token"
	FieldRole             = "role"
	FieldMessage          = "message"
)
