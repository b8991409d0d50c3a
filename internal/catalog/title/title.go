package title

import (
	"context"
	"time"

	"github.com/taibuivan/laurel/internal/catalog/category"
	"github.com/taibuivan/laurel/internal/catalog/genre"
	"github.com/taibuivan/laurel/pkg/pagination"
)

const (
	NameMaxLen        = 256
	DescriptionMaxLen = 4000
	MinYear           = 0
)

// Title is a reviewable work.
type Title struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Year        int                `json:"year"`
	Description string             `json:"description"`
	Category    *category.Category `json:"category"`
	Genres      []genre.Genre      `json:"genres"`
	CreatedAt   time.Time          `json:"-"`
	UpdatedAt   time.Time          `json:"-"`
}

// Filter narrows a title listing. Zero values mean "no constraint".
type Filter struct {
	CategorySlug string
	GenreSlugs   []string
	Name         string
	Year         int
}

type Repository interface {
	List(context context.Context, params pagination.Params, filter Filter) ([]Title, int, error)
	GetByID(context context.Context, id string) (*Title, error)
	Create(context context.Context, title *Title) error
	Update(context context.Context, title *Title) error
	Delete(context context.Context, id string) error
}
