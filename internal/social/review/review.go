package review

import (
	"context"
	"time"

	"github.com/taibuivan/laurel/pkg/pagination"
)

const (
	ScoreMin   = 1
	ScoreMax   = 10
	TextMaxLen = 4000
)

// Review is a scored opinion on a title. Each author gets exactly one per
// title, enforced by a unique index on (titleid, authorid).
type Review struct {
	ID        string    `json:"id"`
	TitleID   string    `json:"-"`
	AuthorID  string    `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

type Repository interface {
	ListByTitle(context context.Context, titleID string, params pagination.Params) ([]Review, int, error)
	GetByID(context context.Context, titleID, reviewID string) (*Review, error)
	Create(context context.Context, review *Review) error
	Update(context context.Context, review *Review) error
	Delete(context context.Context, titleID, reviewID string) error
}
