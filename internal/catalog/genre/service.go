package genre

import (
	"context"
	"log/slog"

	"github.com/taibuivan/laurel/pkg/pagination"
	"github.com/taibuivan/laurel/pkg/slug"
	"github.com/taibuivan/laurel/pkg/uuidv7"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) List(context context.Context, params pagination.Params, search string) ([]Genre, int, error) {
	return service.repo.List(context, params, search)
}

type CreateInput struct {
	Name string
	Slug string
}

func (service *Service) Create(context context.Context, input CreateInput) (*Genre, error) {
	genreSlug := input.Slug
	if genreSlug == "" {
		genreSlug = slug.From(input.Name)
	}

	genre := &Genre{
		ID:   uuidv7.New(),
		Name: input.Name,
		Slug: genreSlug,
	}

	if err := service.repo.Create(context, genre); err != nil {
		return nil, err
	}

	service.logger.Info("genre_created", slog.String("slug", genre.Slug))
	return genre, nil
}

func (service *Service) Delete(context context.Context, slug string) error {
	if err := service.repo.Delete(context, slug); err != nil {
		return err
	}

	service.logger.Info("genre_deleted", slog.String("slug", slug))
	return nil
}
