package comment

import (
	"context"
	"time"

	"github.com/taibuivan/laurel/pkg/pagination"
)

const TextMaxLen = 2000

// Comment is a reply attached to a review.
type Comment struct {
	ID        string    `json:"id"`
	ReviewID  string    `json:"-"`
	AuthorID  string    `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

type Repository interface {
	ListByReview(context context.Context, reviewID string, params pagination.Params) ([]Comment, int, error)
	GetByID(context context.Context, reviewID, commentID string) (*Comment, error)
	Create(context context.Context, comment *Comment) error
	Update(context context.Context, comment *Comment) error
	Delete(context context.Context, reviewID, commentID string) error
}
