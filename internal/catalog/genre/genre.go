package genre

import (
	"context"
	"time"

	"github.com/taibuivan/laurel/pkg/pagination"
)

const (
	NameMaxLen = 256
	SlugMaxLen = 50
)

// Genre is a fine-grained label a title carries, many per title.
type Genre struct {
	ID        string    `json:"-"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

type Repository interface {
	List(context context.Context, params pagination.Params, search string) ([]Genre, int, error)
	GetBySlug(context context.Context, slug string) (*Genre, error)
	GetBySlugs(context context.Context, slugs []string) ([]Genre, error)
	Create(context context.Context, genre *Genre) error
	Delete(context context.Context, slug string) error
}
