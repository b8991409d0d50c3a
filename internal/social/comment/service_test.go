package comment

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/laurel/internal/platform/apperr"
	"github.com/taibuivan/laurel/internal/platform/perm"
	"github.com/taibuivan/laurel/internal/platform/sec"
	"github.com/taibuivan/laurel/internal/social/review"
	"github.com/taibuivan/laurel/pkg/pagination"
	"github.com/taibuivan/laurel/pkg/pointer"
)

type fakeCommentRepo struct {
	comments map[string]*Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*Comment)}
}

func (f *fakeCommentRepo) ListByReview(_ context.Context, reviewID string, _ pagination.Params) ([]Comment, int, error) {
	var out []Comment
	for _, c := range f.comments {
		if c.ReviewID == reviewID {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (f *fakeCommentRepo) GetByID(_ context.Context, reviewID, commentID string) (*Comment, error) {
	c, ok := f.comments[commentID]
	if !ok || c.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *Comment) error {
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) Update(_ context.Context, comment *Comment) error {
	if _, ok := f.comments[comment.ID]; !ok {
		return apperr.NotFound("Comment")
	}
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, reviewID, commentID string) error {
	c, ok := f.comments[commentID]
	if !ok || c.ReviewID != reviewID {
		return apperr.NotFound("Comment")
	}
	delete(f.comments, commentID)
	return nil
}

// fakeReviews resolves (titleID, reviewID) pairs the way the real store does:
// a review ID under the wrong title is a miss.
type fakeReviews struct {
	byTitle map[string]string
}

func (f *fakeReviews) GetByID(_ context.Context, titleID, reviewID string) (*review.Review, error) {
	if f.byTitle[titleID] != reviewID {
		return nil, apperr.NotFound("Review")
	}
	return &review.Review{ID: reviewID, TitleID: titleID}, nil
}

func actorFor(id, username string, role sec.UserRole) *perm.Actor {
	return &perm.Actor{UserID: id, Username: username, Role: role}
}

func newTestService() (*Service, *fakeCommentRepo) {
	repo := newFakeCommentRepo()
	reviews := &fakeReviews{byTitle: map[string]string{"title-1": "review-1"}}
	return NewService(repo, reviews, slog.Default()), repo
}

func TestCreate_SetsAuthorFromActor(t *testing.T) {
	service, _ := newTestService()
	actor := actorFor("user-1", "alice", sec.RoleUser)

	created, err := service.Create(context.Background(), actor, "title-1", "review-1", CreateInput{
		Text: "Agreed",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-1", created.AuthorID)
	assert.Equal(t, "alice", created.Author)
	assert.Equal(t, "review-1", created.ReviewID)
}

func TestCreate_ReviewUnderWrongTitleIsNotFound(t *testing.T) {
	service, _ := newTestService()
	actor := actorFor("user-1", "alice", sec.RoleUser)

	_, err := service.Create(context.Background(), actor, "title-2", "review-1", CreateInput{
		Text: "Agreed",
	})

	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdate_OwnershipRules(t *testing.T) {
	service, _ := newTestService()
	author := actorFor("user-1", "alice", sec.RoleUser)

	created, err := service.Create(context.Background(), author, "title-1", "review-1", CreateInput{Text: "Mine"})
	require.NoError(t, err)

	cases := []struct {
		name    string
		actor   *perm.Actor
		allowed bool
	}{
		{name: "author", actor: author, allowed: true},
		{name: "other user", actor: actorFor("user-2", "bob", sec.RoleUser), allowed: false},
		{name: "moderator", actor: actorFor("user-3", "mods", sec.RoleModerator), allowed: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Update(context.Background(), tc.actor, "title-1", "review-1", created.ID, UpdateInput{
				Text: pointer.To("Edited"),
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

func TestDelete_AuthorCanDelete(t *testing.T) {
	service, repo := newTestService()
	author := actorFor("user-1", "alice", sec.RoleUser)

	created, err := service.Create(context.Background(), author, "title-1", "review-1", CreateInput{Text: "Mine"})
	require.NoError(t, err)

	err = service.Delete(context.Background(), author, "title-1", "review-1", created.ID)

	require.NoError(t, err)
	assert.Empty(t, repo.comments)
}

func TestListByReview_MissingParentIsNotFound(t *testing.T) {
	service, _ := newTestService()

	_, _, err := service.ListByReview(context.Background(), "title-1", "no-such-review", pagination.Params{Page: 1, Limit: 10})

	assert.True(t, apperr.IsNotFound(err))
}
