// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/laurel/internal/platform/apperr"
	"github.com/taibuivan/laurel/internal/platform/perm"
	"github.com/taibuivan/laurel/internal/platform/sec"
	"github.com/taibuivan/laurel/internal/users/account"
	"github.com/taibuivan/laurel/internal/users/auth"
	"github.com/taibuivan/laurel/pkg/pagination"
	"github.com/taibuivan/laurel/pkg/pointer"
)

// fakeAccountRepo is an in-memory AccountRepository.
type fakeAccountRepo struct {
	users []*auth.User
}

func (repo *fakeAccountRepo) List(_ context.Context, params pagination.Params, _ string) ([]auth.User, int, error) {
	out := make([]auth.User, 0, len(repo.users))
	for _, u := range repo.users {
		out = append(out, *u)
	}
	return out, len(repo.users), nil
}

func (repo *fakeAccountRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	for _, u := range repo.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeAccountRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, u := range repo.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeAccountRepo) Create(_ context.Context, user *auth.User) error {
	for _, u := range repo.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperr.Conflict("Resource already exists")
		}
	}
	clone := *user
	repo.users = append(repo.users, &clone)
	return nil
}

func (repo *fakeAccountRepo) Update(_ context.Context, user *auth.User) error {
	for i, u := range repo.users {
		if u.ID == user.ID {
			clone := *user
			repo.users[i] = &clone
			return nil
		}
	}
	return apperr.NotFound("User")
}

func (repo *fakeAccountRepo) Delete(_ context.Context, username string) error {
	for i, u := range repo.users {
		if u.Username == username {
			repo.users = append(repo.users[:i], repo.users[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("User")
}

func newService(repo *fakeAccountRepo) *account.Service {
	return account.NewService(repo, slog.Default())
}

func seedUser(repo *fakeAccountRepo, id, username string, role sec.UserRole) {
	repo.users = append(repo.users, &auth.User{
		ID:       id,
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	})
}

func TestCreate_DefaultsRoleToUser(t *testing.T) {
	repo := &fakeAccountRepo{}
	service := newService(repo)

	user, err := service.Create(context.Background(), account.CreateInput{
		Username: "alice",
		Email:    "alice@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)
}

func TestCreate_DuplicateIsConflict(t *testing.T) {
	repo := &fakeAccountRepo{}
	seedUser(repo, "u1", "alice", sec.RoleUser)
	service := newService(repo)

	_, err := service.Create(context.Background(), account.CreateInput{
		Username: "alice",
		Email:    "different@example.com",
	})

	assert.True(t, apperr.IsConflict(err))
}

func TestUpdateByUsername_AppliesRole(t *testing.T) {
	repo := &fakeAccountRepo{}
	seedUser(repo, "u1", "alice", sec.RoleUser)
	service := newService(repo)

	user, err := service.UpdateByUsername(context.Background(), "alice", account.UpdateInput{
		Role: pointer.To("moderator"),
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, user.Role)
}

func TestUpdateProfile_RoleSoftDeny(t *testing.T) {
	tests := []struct {
		name     string
		actor    *perm.Actor
		wantRole sec.UserRole
	}{
		{
			name:     "plain_user_role_change_dropped",
			actor:    &perm.Actor{UserID: "u1", Role: sec.RoleUser},
			wantRole: sec.RoleUser,
		},
		{
			name:     "moderator_keeps_role_change",
			actor:    &perm.Actor{UserID: "u1", Role: sec.RoleModerator},
			wantRole: sec.RoleAdmin,
		},
		{
			name:     "staff_flag_keeps_role_change",
			actor:    &perm.Actor{UserID: "u1", Role: sec.RoleUser, IsStaff: true},
			wantRole: sec.RoleAdmin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAccountRepo{}
			seedUser(repo, "u1", "alice", tt.actor.Role)
			service := newService(repo)

			user, err := service.UpdateProfile(context.Background(), tt.actor, account.UpdateInput{
				Bio:  pointer.To("new bio"),
				Role: pointer.To("admin"),
			})

			// The request always succeeds; only the role field is gated.
			require.NoError(t, err)
			assert.Equal(t, "new bio", user.Bio)
			assert.Equal(t, tt.wantRole, user.Role)
		})
	}
}

func TestDeleteByUsername_UnknownIsNotFound(t *testing.T) {
	service := newService(&fakeAccountRepo{})

	err := service.DeleteByUsername(context.Background(), "ghost")

	assert.True(t, apperr.IsNotFound(err))
}
