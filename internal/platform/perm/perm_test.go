// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package perm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/laurel/internal/platform/perm"
	"github.com/taibuivan/laurel/internal/platform/sec"
)

func user(id string) *perm.Actor {
	return &perm.Actor{UserID: id, Role: sec.RoleUser}
}

func moderator(id string) *perm.Actor {
	return &perm.Actor{UserID: id, Role: sec.RoleModerator}
}

func admin(id string) *perm.Actor {
	return &perm.Actor{UserID: id, Role: sec.RoleAdmin}
}

func staff(id string) *perm.Actor {
	return &perm.Actor{UserID: id, Role: sec.RoleUser, IsStaff: true}
}

/*
TestCanWriteCatalog covers the admin-only rule for reference data.
*/
func TestCanWriteCatalog(t *testing.T) {
	tests := []struct {
		name    string
		actor   *perm.Actor
		allowed bool
	}{
		{"anonymous", nil, false},
		{"plain_user", user("u1"), false},
		{"moderator", moderator("m1"), false},
		{"admin", admin("a1"), true},
		{"staff_flag_is_admin_equivalent", staff("s1"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, perm.CanWriteCatalog(tt.actor))
		})
	}
}

/*
TestCanCreateContent: any authenticated user may post, anonymous may not.
*/
func TestCanCreateContent(t *testing.T) {
	assert.False(t, perm.CanCreateContent(nil))
	assert.True(t, perm.CanCreateContent(user("u1")))
	assert.True(t, perm.CanCreateContent(moderator("m1")))
}

/*
TestCanMutateContent covers the author-or-moderator-or-admin ownership rule
for reviews and comments.
*/
func TestCanMutateContent(t *testing.T) {
	const authorID = "author-1"

	tests := []struct {
		name    string
		actor   *perm.Actor
		allowed bool
	}{
		{"anonymous", nil, false},
		{"author_owns_resource", user(authorID), true},
		{"other_plain_user", user("stranger"), false},
		{"moderator_not_author", moderator("m1"), true},
		{"admin_not_author", admin("a1"), true},
		{"staff_not_author", staff("s1"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, perm.CanMutateContent(tt.actor, authorID))
		})
	}
}

/*
TestCanManageAccounts: the /users collection is admin-only.
*/
func TestCanManageAccounts(t *testing.T) {
	assert.False(t, perm.CanManageAccounts(nil))
	assert.False(t, perm.CanManageAccounts(user("u1")))
	assert.False(t, perm.CanManageAccounts(moderator("m1")))
	assert.True(t, perm.CanManageAccounts(admin("a1")))
	assert.True(t, perm.CanManageAccounts(staff("s1")))
}

/*
TestCanAssignRole: plain users lose the role field (soft-deny), moderators
and above keep it.
*/
func TestCanAssignRole(t *testing.T) {
	assert.False(t, perm.CanAssignRole(nil))
	assert.False(t, perm.CanAssignRole(user("u1")))
	assert.True(t, perm.CanAssignRole(moderator("m1")))
	assert.True(t, perm.CanAssignRole(admin("a1")))
	assert.True(t, perm.CanAssignRole(staff("s1")))
}

/*
TestFromClaims verifies claim-to-actor mapping including the anonymous case.
*/
func TestFromClaims(t *testing.T) {
	assert.Nil(t, perm.FromClaims(nil))

	actor := perm.FromClaims(&sec.AuthClaims{
		UserID:   "u1",
		Username: "alice",
		Role:     "moderator",
		IsStaff:  false,
	})

	assert.Equal(t, "u1", actor.UserID)
	assert.Equal(t, "alice", actor.Username)
	assert.True(t, actor.IsModerator())
	assert.False(t, actor.IsAdmin())
}
