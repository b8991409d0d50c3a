package review

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/laurel/internal/catalog/title"
	"github.com/taibuivan/laurel/internal/platform/apperr"
	"github.com/taibuivan/laurel/internal/platform/perm"
	"github.com/taibuivan/laurel/internal/platform/sec"
	"github.com/taibuivan/laurel/pkg/pagination"
	"github.com/taibuivan/laurel/pkg/pointer"
)

type fakeReviewRepo struct {
	reviews map[string]*Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*Review)}
}

func (f *fakeReviewRepo) ListByTitle(_ context.Context, titleID string, _ pagination.Params) ([]Review, int, error) {
	var out []Review
	for _, r := range f.reviews {
		if r.TitleID == titleID {
			out = append(out, *r)
		}
	}
	return out, len(out), nil
}

func (f *fakeReviewRepo) GetByID(_ context.Context, titleID, reviewID string) (*Review, error) {
	r, ok := f.reviews[reviewID]
	if !ok || r.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	copied := *r
	return &copied, nil
}

// Create mirrors the unique index on (titleid, authorid).
func (f *fakeReviewRepo) Create(_ context.Context, review *Review) error {
	for _, existing := range f.reviews {
		if existing.TitleID == review.TitleID && existing.AuthorID == review.AuthorID {
			return apperr.Conflict("You have already reviewed this title")
		}
	}
	copied := *review
	f.reviews[review.ID] = &copied
	return nil
}

func (f *fakeReviewRepo) Update(_ context.Context, review *Review) error {
	if _, ok := f.reviews[review.ID]; !ok {
		return apperr.NotFound("Review")
	}
	copied := *review
	f.reviews[review.ID] = &copied
	return nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, titleID, reviewID string) error {
	r, ok := f.reviews[reviewID]
	if !ok || r.TitleID != titleID {
		return apperr.NotFound("Review")
	}
	delete(f.reviews, reviewID)
	return nil
}

type fakeTitles struct {
	ids map[string]bool
}

func (f *fakeTitles) GetByID(_ context.Context, id string) (*title.Title, error) {
	if !f.ids[id] {
		return nil, apperr.NotFound("Title")
	}
	return &title.Title{ID: id, Name: "Some Work"}, nil
}

func actorFor(id, username string, role sec.UserRole) *perm.Actor {
	return &perm.Actor{UserID: id, Username: username, Role: role}
}

func newTestService() (*Service, *fakeReviewRepo) {
	repo := newFakeReviewRepo()
	titles := &fakeTitles{ids: map[string]bool{"title-1": true}}
	return NewService(repo, titles, slog.Default()), repo
}

func TestCreate_SetsAuthorFromActor(t *testing.T) {
	service, _ := newTestService()
	actor := actorFor("user-1", "alice", sec.RoleUser)

	created, err := service.Create(context.Background(), actor, "title-1", CreateInput{
		Text:  "Loved it",
		Score: 9,
	})

	require.NoError(t, err)
	assert.Equal(t, "user-1", created.AuthorID)
	assert.Equal(t, "alice", created.Author)
	assert.Equal(t, 9, created.Score)
}

func TestCreate_MissingTitleIsNotFound(t *testing.T) {
	service, _ := newTestService()
	actor := actorFor("user-1", "alice", sec.RoleUser)

	_, err := service.Create(context.Background(), actor, "no-such-title", CreateInput{
		Text:  "Loved it",
		Score: 9,
	})

	assert.True(t, apperr.IsNotFound(err))
}

func TestCreate_SecondReviewBySameAuthorIsConflict(t *testing.T) {
	service, _ := newTestService()
	actor := actorFor("user-1", "alice", sec.RoleUser)

	_, err := service.Create(context.Background(), actor, "title-1", CreateInput{Text: "First", Score: 8})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), actor, "title-1", CreateInput{Text: "Second", Score: 3})
	assert.True(t, apperr.IsConflict(err))

	other := actorFor("user-2", "bob", sec.RoleUser)
	_, err = service.Create(context.Background(), other, "title-1", CreateInput{Text: "Mine", Score: 5})
	assert.NoError(t, err)
}

func TestUpdate_OwnershipRules(t *testing.T) {
	service, _ := newTestService()
	author := actorFor("user-1", "alice", sec.RoleUser)

	created, err := service.Create(context.Background(), author, "title-1", CreateInput{Text: "First", Score: 8})
	require.NoError(t, err)

	cases := []struct {
		name    string
		actor   *perm.Actor
		allowed bool
	}{
		{name: "author", actor: author, allowed: true},
		{name: "other user", actor: actorFor("user-2", "bob", sec.RoleUser), allowed: false},
		{name: "moderator", actor: actorFor("user-3", "mods", sec.RoleModerator), allowed: true},
		{name: "admin", actor: actorFor("user-4", "root", sec.RoleAdmin), allowed: true},
		{name: "staff flagged user", actor: &perm.Actor{UserID: "user-5", Username: "ops", Role: sec.RoleUser, IsStaff: true}, allowed: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Update(context.Background(), tc.actor, "title-1", created.ID, UpdateInput{
				Score: pointer.To(5),
			})

			if tc.allowed {
				assert.NoError(t, err)
				return
			}

			var appErr *apperr.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 403, appErr.HTTPStatus)
		})
	}
}

func TestDelete_NonAuthorPlainUserForbidden(t *testing.T) {
	service, repo := newTestService()
	author := actorFor("user-1", "alice", sec.RoleUser)

	created, err := service.Create(context.Background(), author, "title-1", CreateInput{Text: "First", Score: 8})
	require.NoError(t, err)

	err = service.Delete(context.Background(), actorFor("user-2", "bob", sec.RoleUser), "title-1", created.ID)
	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.HTTPStatus)

	err = service.Delete(context.Background(), author, "title-1", created.ID)
	require.NoError(t, err)
	assert.Empty(t, repo.reviews)
}

func TestListByTitle_MissingTitleIsNotFound(t *testing.T) {
	service, _ := newTestService()

	_, _, err := service.ListByTitle(context.Background(), "no-such-title", pagination.Params{Page: 1, Limit: 10})

	assert.True(t, apperr.IsNotFound(err))
}
