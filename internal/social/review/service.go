package review

import (
	"context"
	"log/slog"

	"github.com/taibuivan/laurel/internal/catalog/title"
	"github.com/taibuivan/laurel/internal/platform/apperr"
	"github.com/taibuivan/laurel/internal/platform/perm"
	"github.com/taibuivan/laurel/pkg/pagination"
	"github.com/taibuivan/laurel/pkg/uuidv7"
)

// TitleResolver confirms the parent title exists before any nested operation.
type TitleResolver interface {
	GetByID(context context.Context, id string) (*title.Title, error)
}

type Service struct {
	repo   Repository
	titles TitleResolver
	logger *slog.Logger
}

func NewService(repo Repository, titles TitleResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		titles: titles,
		logger: logger,
	}
}

func (service *Service) ListByTitle(context context.Context, titleID string, params pagination.Params) ([]Review, int, error) {
	if _, err := service.titles.GetByID(context, titleID); err != nil {
		return nil, 0, err
	}

	return service.repo.ListByTitle(context, titleID, params)
}

func (service *Service) GetByID(context context.Context, titleID, reviewID string) (*Review, error) {
	return service.repo.GetByID(context, titleID, reviewID)
}

type CreateInput struct {
	Text  string
	Score int
}

func (service *Service) Create(context context.Context, actor *perm.Actor, titleID string, input CreateInput) (*Review, error) {
	if !perm.CanCreateContent(actor) {
		return nil, apperr.Unauthorized("Authentication required")
	}

	if _, err := service.titles.GetByID(context, titleID); err != nil {
		return nil, err
	}

	review := &Review{
		ID:       uuidv7.New(),
		TitleID:  titleID,
		AuthorID: actor.UserID,
		Author:   actor.Username,
		Text:     input.Text,
		Score:    input.Score,
	}

	if err := service.repo.Create(context, review); err != nil {
		return nil, err
	}

	service.logger.Info("review_created",
		slog.String("review_id", review.ID),
		slog.String("title_id", titleID))
	return review, nil
}

type UpdateInput struct {
	Text  *string
	Score *int
}

func (service *Service) Update(context context.Context, actor *perm.Actor, titleID, reviewID string, input UpdateInput) (*Review, error) {
	review, err := service.repo.GetByID(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !perm.CanMutateContent(actor, review.AuthorID) {
		return nil, apperr.Forbidden("You do not have permission to modify this review")
	}

	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.Score != nil {
		review.Score = *input.Score
	}

	if err := service.repo.Update(context, review); err != nil {
		return nil, err
	}

	service.logger.Info("review_updated", slog.String("review_id", review.ID))
	return review, nil
}

func (service *Service) Delete(context context.Context, actor *perm.Actor, titleID, reviewID string) error {
	review, err := service.repo.GetByID(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if !perm.CanMutateContent(actor, review.AuthorID) {
		return apperr.Forbidden("You do not have permission to delete this review")
	}

	if err := service.repo.Delete(context, titleID, reviewID); err != nil {
		return err
	}

	service.logger.Info("review_deleted", slog.String("review_id", reviewID))
	return nil
}
