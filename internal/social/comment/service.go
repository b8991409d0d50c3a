package comment

import (
	"context"
	"log/slog"

	"github.com/taibuivan/laurel/internal/platform/apperr"
	"github.com/taibuivan/laurel/internal/platform/perm"
	"github.com/taibuivan/laurel/internal/social/review"
	"github.com/taibuivan/laurel/pkg/pagination"
	"github.com/taibuivan/laurel/pkg/uuidv7"
)

// ReviewResolver confirms the parent review exists under the given title.
// Resolving through the title keeps a review ID from another title out of
// this comment thread.
type ReviewResolver interface {
	GetByID(context context.Context, titleID, reviewID string) (*review.Review, error)
}

type Service struct {
	repo    Repository
	reviews ReviewResolver
	logger  *slog.Logger
}

func NewService(repo Repository, reviews ReviewResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		reviews: reviews,
		logger:  logger,
	}
}

func (service *Service) ListByReview(context context.Context, titleID, reviewID string, params pagination.Params) ([]Comment, int, error) {
	if _, err := service.reviews.GetByID(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	return service.repo.ListByReview(context, reviewID, params)
}

func (service *Service) GetByID(context context.Context, titleID, reviewID, commentID string) (*Comment, error) {
	if _, err := service.reviews.GetByID(context, titleID, reviewID); err != nil {
		return nil, err
	}

	return service.repo.GetByID(context, reviewID, commentID)
}

type CreateInput struct {
	Text string
}

func (service *Service) Create(context context.Context, actor *perm.Actor, titleID, reviewID string, input CreateInput) (*Comment, error) {
	if !perm.CanCreateContent(actor) {
		return nil, apperr.Unauthorized("Authentication required")
	}

	if _, err := service.reviews.GetByID(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:       uuidv7.New(),
		ReviewID: reviewID,
		AuthorID: actor.UserID,
		Author:   actor.Username,
		Text:     input.Text,
	}

	if err := service.repo.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("review_id", reviewID))
	return comment, nil
}

type UpdateInput struct {
	Text *string
}

func (service *Service) Update(context context.Context, actor *perm.Actor, titleID, reviewID, commentID string, input UpdateInput) (*Comment, error) {
	comment, err := service.GetByID(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !perm.CanMutateContent(actor, comment.AuthorID) {
		return nil, apperr.Forbidden("You do not have permission to modify this comment")
	}

	if input.Text != nil {
		comment.Text = *input.Text
	}

	if err := service.repo.Update(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_updated", slog.String("comment_id", comment.ID))
	return comment, nil
}

func (service *Service) Delete(context context.Context, actor *perm.Actor, titleID, reviewID, commentID string) error {
	comment, err := service.GetByID(context, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !perm.CanMutateContent(actor, comment.AuthorID) {
		return apperr.Forbidden("You do not have permission to delete this comment")
	}

	if err := service.repo.Delete(context, reviewID, commentID); err != nil {
		return err
	}

	service.logger.Info("comment_deleted", slog.String("comment_id", commentID))
	return nil
}
