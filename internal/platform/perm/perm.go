// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package perm is the permission evaluator for the Laurel API.

It concentrates every authorization decision into a small set of pure
functions over an [Actor], so the rules live in one place instead of being
re-derived ad hoc in each handler.

Decision table:

  - Catalog (categories, genres, titles): read anyone; write admin only.
  - Reviews and comments: read anyone; create any authenticated user;
    update/delete the author, a moderator, or an admin.
  - Accounts collection (/users): admin only.
  - Self record (/users/me): the owner; the role field may only be changed
    by a moderator or admin (plain users get a soft-deny, see CanAssignRole).

Read operations are universally permitted and never consult this package.
*/
package perm

import (
	"github.com/taibuivan/laurel/internal/platform/sec"
)

// Actor is the authenticated identity a permission decision is made for.
//
// A nil *Actor represents an anonymous request.
type Actor struct {
	UserID   string
	Username string
	Role     sec.UserRole

	// IsStaff mirrors the operational staff flag on the account. A staff
	// account is treated as admin-equivalent regardless of its role value.
	IsStaff bool
}

// FromClaims builds an [Actor] from verified JWT claims.
// Returns nil for nil claims, preserving the anonymous case.
func FromClaims(claims *sec.AuthClaims) *Actor {
	if claims == nil {
		return nil
	}
	return &Actor{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     sec.UserRole(claims.Role),
		IsStaff:  claims.IsStaff,
	}
}

// IsAdmin reports whether the actor has unrestricted access.
func (actor *Actor) IsAdmin() bool {
	if actor == nil {
		return false
	}
	return actor.Role.AtLeast(sec.RoleAdmin) || actor.IsStaff
}

// IsModerator reports whether the actor holds at least moderator privileges.
// Staff accounts qualify implicitly.
func (actor *Actor) IsModerator() bool {
	if actor == nil {
		return false
	}
	return actor.Role.AtLeast(sec.RoleModerator) || actor.IsStaff
}

// # Catalog (Categories, Genres, Titles)

// CanWriteCatalog decides create/update/delete on catalog reference data.
func CanWriteCatalog(actor *Actor) bool {
	return actor.IsAdmin()
}

// # Owned Content (Reviews, Comments)

// CanCreateContent decides whether the actor may post a new review or comment.
// Any authenticated user qualifies; ownership is irrelevant at creation.
func CanCreateContent(actor *Actor) bool {
	return actor != nil
}

// CanMutateContent decides update/delete on a review or comment owned by
// authorID. Owns means the resource's author IS the actor; otherwise at
// least moderator privileges are required.
func CanMutateContent(actor *Actor, authorID string) bool {
	if actor == nil {
		return false
	}
	if actor.UserID == authorID {
		return true
	}
	return actor.IsModerator()
}

// # Accounts

// CanManageAccounts decides access to the /users collection
// (list, create, lookup, update, delete arbitrary accounts).
func CanManageAccounts(actor *Actor) bool {
	return actor.IsAdmin()
}

// CanAssignRole decides whether a role change submitted by the actor is
// applied. For a plain user the change is silently dropped rather than
// rejected — the request still succeeds without it. Callers implement that
// soft-deny; this function only answers whether the field survives.
func CanAssignRole(actor *Actor) bool {
	return actor.IsModerator()
}
