package category

import (
	"context"
	"time"

	"github.com/taibuivan/laurel/pkg/pagination"
)

const (
	NameMaxLen = 256
	SlugMaxLen = 50
)

// Category is a coarse content class a title belongs to (book, film, music).
type Category struct {
	ID        string    `json:"-"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

type Repository interface {
	List(context context.Context, params pagination.Params, search string) ([]Category, int, error)
	GetBySlug(context context.Context, slug string) (*Category, error)
	Create(context context.Context, category *Category) error
	Delete(context context.Context, slug string) error
}
