package category

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

func (service *Service) List(context context.Context, params pagination.Params, search string) ([]Category, int, error) {
	return service.repo.List(context, params, search)
}

type CreateInput struct {
	Name string
	Slug string
}

// Create persists a new category. An omitted slug is generated from the name;
// duplicate slugs surface as Conflict from the unique index.
func (service *Service) Create(context context.Context, input CreateInput) (*Category, error) {
	categorySlug := input.Slug
	if categorySlug == "" {
		categorySlug = slug.From(input.Name)
	}

	category := &Category{
		ID:   uuidv7.New(),
		Name: input.Name,
		Slug: categorySlug,
	}

	if err := service.repo.Create(context, category); err != nil {
		return nil, err
	}

	service.logger.Info("category_created", slog.String("slug", category.Slug))
	return category, nil
}

func (service *Service) Delete(context context.Context, slug string) error {
	if err := service.repo.Delete(context, slug); err != nil {
		return err
	}

	service.logger.Info("category_deleted", slog.String("slug", slug))
	return nil
}
