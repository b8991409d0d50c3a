package title

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/laurel/internal/catalog/category"
	"github.com/taibuivan/laurel/internal/catalog/genre"
	"github.com/taibuivan/laurel/internal/platform/apperr"
	"github.com/taibuivan/laurel/pkg/pagination"
	"github.com/taibuivan/laurel/pkg/pointer"
)

type fakeTitleRepo struct {
	titles map[string]*Title
}

func newFakeTitleRepo() *fakeTitleRepo {
	return &fakeTitleRepo{titles: make(map[string]*Title)}
}

func (f *fakeTitleRepo) List(_ context.Context, _ pagination.Params, _ Filter) ([]Title, int, error) {
	out := make([]Title, 0, len(f.titles))
	for _, t := range f.titles {
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (f *fakeTitleRepo) GetByID(_ context.Context, id string) (*Title, error) {
	t, ok := f.titles[id]
	if !ok {
		return nil, apperr.NotFound("Title")
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTitleRepo) Create(_ context.Context, title *Title) error {
	copied := *title
	f.titles[title.ID] = &copied
	return nil
}

func (f *fakeTitleRepo) Update(_ context.Context, title *Title) error {
	if _, ok := f.titles[title.ID]; !ok {
		return apperr.NotFound("Title")
	}
	copied := *title
	f.titles[title.ID] = &copied
	return nil
}

func (f *fakeTitleRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.titles[id]; !ok {
		return apperr.NotFound("Title")
	}
	delete(f.titles, id)
	return nil
}

type fakeCategoryRepo struct {
	bySlug map[string]category.Category
}

func (f *fakeCategoryRepo) List(_ context.Context, _ pagination.Params, _ string) ([]category.Category, int, error) {
	return nil, 0, nil
}

func (f *fakeCategoryRepo) GetBySlug(_ context.Context, slug string) (*category.Category, error) {
	c, ok := f.bySlug[slug]
	if !ok {
		return nil, apperr.NotFound("Category")
	}
	return &c, nil
}

func (f *fakeCategoryRepo) Create(_ context.Context, _ *category.Category) error { return nil }
func (f *fakeCategoryRepo) Delete(_ context.Context, _ string) error             { return nil }

type fakeGenreRepo struct {
	bySlug map[string]genre.Genre
}

func (f *fakeGenreRepo) List(_ context.Context, _ pagination.Params, _ string) ([]genre.Genre, int, error) {
	return nil, 0, nil
}

func (f *fakeGenreRepo) GetBySlug(_ context.Context, slug string) (*genre.Genre, error) {
	g, ok := f.bySlug[slug]
	if !ok {
		return nil, apperr.NotFound("Genre")
	}
	return &g, nil
}

func (f *fakeGenreRepo) GetBySlugs(_ context.Context, slugs []string) ([]genre.Genre, error) {
	var out []genre.Genre
	for _, slug := range slugs {
		if g, ok := f.bySlug[slug]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGenreRepo) Create(_ context.Context, _ *genre.Genre) error { return nil }
func (f *fakeGenreRepo) Delete(_ context.Context, _ string) error       { return nil }

func newTestService() (*Service, *fakeTitleRepo) {
	repo := newFakeTitleRepo()
	categories := &fakeCategoryRepo{bySlug: map[string]category.Category{
		"books": {ID: "cat-1", Name: "Books", Slug: "books"},
	}}
	genres := &fakeGenreRepo{bySlug: map[string]genre.Genre{
		"drama":  {ID: "gen-1", Name: "Drama", Slug: "drama"},
		"comedy": {ID: "gen-2", Name: "Comedy", Slug: "comedy"},
	}}

	service := NewService(repo, categories, genres, slog.Default())
	return service, repo
}

func TestCreate_ResolvesCategoryAndGenres(t *testing.T) {
	service, repo := newTestService()

	created, err := service.Create(context.Background(), CreateInput{
		Name:     "Middlemarch",
		Year:     1871,
		Category: "books",
		Genres:   []string{"drama", "comedy"},
	})

	require.NoError(t, err)
	require.NotNil(t, created.Category)
	assert.Equal(t, "books", created.Category.Slug)
	assert.Len(t, created.Genres, 2)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Middlemarch", stored.Name)
}

func TestCreate_YearBounds(t *testing.T) {
	service, _ := newTestService()

	cases := []struct {
		name string
		year int
		ok   bool
	}{
		{name: "negative", year: -1, ok: false},
		{name: "zero", year: 0, ok: true},
		{name: "current", year: time.Now().Year(), ok: true},
		{name: "future", year: time.Now().Year() + 1, ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), CreateInput{
				Name: "Some Work",
				Year: tc.year,
			})

			if tc.ok {
				assert.NoError(t, err)
				return
			}

			var appErr *apperr.AppError
			require.ErrorAs(t, err, &appErr)
			require.Len(t, appErr.Details, 1)
			assert.Equal(t, "year", appErr.Details[0].Field)
		})
	}
}

func TestCreate_UnknownCategorySlugIsFieldError(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), CreateInput{
		Name:     "Some Work",
		Year:     2000,
		Category: "does-not-exist",
	})

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "category", appErr.Details[0].Field)
}

func TestCreate_UnknownGenreSlugIsFieldError(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), CreateInput{
		Name:   "Some Work",
		Year:   2000,
		Genres: []string{"drama", "does-not-exist"},
	})

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "genre", appErr.Details[0].Field)
}

func TestUpdate_PartialFieldsOnly(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Create(context.Background(), CreateInput{
		Name:     "Original",
		Year:     1999,
		Category: "books",
		Genres:   []string{"drama"},
	})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), created.ID, UpdateInput{
		Name: pointer.To("Renamed"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 1999, updated.Year)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "books", updated.Category.Slug)
	assert.Len(t, updated.Genres, 1)
}

func TestUpdate_RejectsFutureYear(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Create(context.Background(), CreateInput{Name: "Original", Year: 1999})
	require.NoError(t, err)

	_, err = service.Update(context.Background(), created.ID, UpdateInput{
		Year: pointer.To(time.Now().Year() + 1),
	})

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "year", appErr.Details[0].Field)
}

func TestDelete_UnknownIsNotFound(t *testing.T) {
	service, _ := newTestService()

	err := service.Delete(context.Background(), "missing-id")

	assert.True(t, apperr.IsNotFound(err))
}
