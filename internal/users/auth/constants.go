// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Identity Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// One day balances convenience for a read-heavy review platform against
	// the blast radius of a leaked token.
	AccessTokenTTL = 24 * time.Hour

	// ConfirmationCodeLength is the byte length of the random opaque code
	// emailed to the user (base32-encoded before delivery).
	ConfirmationCodeLength = 16

	// ReservedUsername can never be registered: it is the literal path
	// segment of the self-service endpoint /users/me.
	ReservedUsername = "me"

	// UsernameMaxLen and EmailMaxLen bound identity fields at the API edge.
	// The same limits are enforced by the storage schema.
	UsernameMaxLen = 150
	EmailMaxLen    = 254

	// SignupWindow and SignupMaxPerWindow throttle code issuance per email.
	// The window is generous enough that legitimate retries (lost email,
	// typo recovery) never hit it.
	SignupWindow       = 15 * time.Minute
	SignupMaxPerWindow = 5
)
