package title

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/laurel/internal/catalog/category"
	"github.com/taibuivan/laurel/internal/catalog/genre"
	"github.com/taibuivan/laurel/internal/platform/apperr"
	"github.com/taibuivan/laurel/pkg/pagination"
	"github.com/taibuivan/laurel/pkg/uuidv7"
)

type Service struct {
	repo       Repository
	categories category.Repository
	genres     genre.Repository
	logger     *slog.Logger
}

func NewService(repo Repository, categories category.Repository, genres genre.Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		genres:     genres,
		logger:     logger,
	}
}

func (service *Service) List(context context.Context, params pagination.Params, filter Filter) ([]Title, int, error) {
	return service.repo.List(context, params, filter)
}

func (service *Service) GetByID(context context.Context, id string) (*Title, error) {
	return service.repo.GetByID(context, id)
}

type CreateInput struct {
	Name        string
	Year        int
	Description string
	Category    string
	Genres      []string
}

func (service *Service) Create(context context.Context, input CreateInput) (*Title, error) {
	if err := validateYear(input.Year); err != nil {
		return nil, err
	}

	resolvedCategory, resolvedGenres, err := service.resolveRelations(context, input.Category, input.Genres)
	if err != nil {
		return nil, err
	}

	title := &Title{
		ID:          uuidv7.New(),
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    resolvedCategory,
		Genres:      resolvedGenres,
	}

	if err := service.repo.Create(context, title); err != nil {
		return nil, err
	}

	service.logger.Info("title_created", slog.String("title_id", title.ID))
	return title, nil
}

type UpdateInput struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Title, error) {
	title, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		title.Name = *input.Name
	}
	if input.Year != nil {
		if err := validateYear(*input.Year); err != nil {
			return nil, err
		}
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = *input.Description
	}
	if input.Category != nil {
		resolved, err := service.resolveCategory(context, *input.Category)
		if err != nil {
			return nil, err
		}
		title.Category = resolved
	}
	if input.Genres != nil {
		resolved, err := service.resolveGenres(context, *input.Genres)
		if err != nil {
			return nil, err
		}
		title.Genres = resolved
	}

	if err := service.repo.Update(context, title); err != nil {
		return nil, err
	}

	service.logger.Info("title_updated", slog.String("title_id", title.ID))
	return title, nil
}

func (service *Service) Delete(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("title_deleted", slog.String("title_id", id))
	return nil
}

// validateYear bounds the release year to [0, current year]. The upper bound
// follows the wall clock so unreleased works cannot be cataloged.
func validateYear(year int) error {
	currentYear := time.Now().Year()
	if year < MinYear || year > currentYear {
		return apperr.FieldValidationError("year",
			fmt.Sprintf("Must be between %d and %d", MinYear, currentYear))
	}
	return nil
}

func (service *Service) resolveRelations(context context.Context, categorySlug string, genreSlugs []string) (*category.Category, []genre.Genre, error) {
	resolvedCategory, err := service.resolveCategory(context, categorySlug)
	if err != nil {
		return nil, nil, err
	}

	resolvedGenres, err := service.resolveGenres(context, genreSlugs)
	if err != nil {
		return nil, nil, err
	}

	return resolvedCategory, resolvedGenres, nil
}

func (service *Service) resolveCategory(context context.Context, slug string) (*category.Category, error) {
	if slug == "" {
		return nil, nil
	}

	resolved, err := service.categories.GetBySlug(context, slug)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.FieldValidationError("category",
				fmt.Sprintf("Unknown category %q", slug))
		}
		return nil, err
	}

	return resolved, nil
}

func (service *Service) resolveGenres(context context.Context, slugs []string) ([]genre.Genre, error) {
	resolved, err := service.genres.GetBySlugs(context, slugs)
	if err != nil {
		return nil, err
	}

	if len(resolved) != len(slugs) {
		known := make(map[string]bool, len(resolved))
		for _, g := range resolved {
			known[g.Slug] = true
		}
		for _, slug := range slugs {
			if !known[slug] {
				return nil, apperr.FieldValidationError("genre",
					fmt.Sprintf("Unknown genre %q", slug))
			}
		}
	}

	return resolved, nil
}
