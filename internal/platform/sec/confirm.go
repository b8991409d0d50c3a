// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"strconv"
	"time"
)

// # Confirmation Codes

// Registration is password-less: a user proves control of a claimed identity
// with a one-time confirmation code delivered by email. Two independent code
// forms are accepted:
//
//  1. The opaque random code that was emailed (stored hashed on the record).
//  2. A deterministic token derived from the user's persisted state via HMAC.
//
// Both rotate together: each issuance overwrites the stored hash and refreshes
// the issued-at instant the derived token is bound to.

// codeEncoding is unpadded base32 without ambiguous characters, matching the
// character set users are asked to retype from an email.
var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateConfirmationCode returns a new opaque random code of n random bytes,
// base32-encoded.
func GenerateConfirmationCode(n int) (string, error) {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("sec: failed to generate confirmation code: %w", err)
	}
	return codeEncoding.EncodeToString(raw), nil
}

// CodeDeriver computes state-bound confirmation tokens.
//
// # Verification Model
//
// The derived token is an HMAC-SHA256 over the user's identity and the instant
// the current code was issued. It can be re-computed from the persisted record
// at any time, so verification never depends on the token itself having been
// stored. Re-issuing a code changes the issued-at instant and therefore
// invalidates every previously derived token.
type CodeDeriver struct {
	secret []byte
}

// NewCodeDeriver constructs a [CodeDeriver] keyed with the server-wide secret.
func NewCodeDeriver(secret string) *CodeDeriver {
	return &CodeDeriver{secret: []byte(secret)}
}

// Derive computes the confirmation token bound to the given user state.
func (deriver *CodeDeriver) Derive(userID, email string, codeIssuedAt time.Time) string {
	mac := hmac.New(sha256.New, deriver.secret)
	mac.Write([]byte(userID))
	mac.Write([]byte{0})
	mac.Write([]byte(email))
	mac.Write([]byte{0})
	mac.Write([]byte(strconv.FormatInt(codeIssuedAt.Unix(), 10)))
	return codeEncoding.EncodeToString(mac.Sum(nil))
}

// Check reports whether candidate equals the token derived from the user state.
// The comparison is constant-time.
func (deriver *CodeDeriver) Check(userID, email string, codeIssuedAt time.Time, candidate string) bool {
	expected := deriver.Derive(userID, email, codeIssuedAt)
	return hmac.Equal([]byte(expected), []byte(candidate))
}
