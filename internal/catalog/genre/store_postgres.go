package genre

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/laurel/internal/platform/apperr"
	"github.com/taibuivan/laurel/internal/platform/database/schema"
	"github.com/taibuivan/laurel/internal/platform/dberr"
	"github.com/taibuivan/laurel/pkg/pagination"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, params pagination.Params, search string) ([]Genre, int, error) {
	t := schema.CatalogGenre

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')`,
		t.Table, t.Name)

	var total int
	if err := repository.db.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_genres")
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3`,
		t.ID, t.Name, t.Slug, t.CreatedAt, t.Table, t.Name, t.Name)

	rows, err := repository.db.Query(context, query, search, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_genres")
	}
	defer rows.Close()

	genres := make([]Genre, 0, params.Limit)
	for rows.Next() {
		g := Genre{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_genre")
		}
		genres = append(genres, g)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_genres")
	}

	return genres, total, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Genre, error) {
	t := schema.CatalogGenre

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		t.ID, t.Name, t.Slug, t.CreatedAt, t.Table, t.Slug)

	g := &Genre{}
	err := repository.db.QueryRow(context, query, slug).Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "get_genre_by_slug")
	}

	return g, nil
}

// GetBySlugs resolves a batch of slugs in one round trip. Callers detect
// unknown slugs by comparing lengths.
func (repository *PostgresRepository) GetBySlugs(context context.Context, slugs []string) ([]Genre, error) {
	if len(slugs) == 0 {
		return []Genre{}, nil
	}

	t := schema.CatalogGenre

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = ANY($1) ORDER BY %s ASC`,
		t.ID, t.Name, t.Slug, t.CreatedAt, t.Table, t.Slug, t.Name)

	rows, err := repository.db.Query(context, query, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, "get_genres_by_slugs")
	}
	defer rows.Close()

	genres := make([]Genre, 0, len(slugs))
	for rows.Next() {
		g := Genre{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_genre")
		}
		genres = append(genres, g)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_genres")
	}

	return genres, nil
}

func (repository *PostgresRepository) Create(context context.Context, genre *Genre) error {
	t := schema.CatalogGenre

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		t.Table, t.ID, t.Name, t.Slug, t.CreatedAt)

	genre.CreatedAt = time.Now()
	if _, err := repository.db.Exec(context, query,
		genre.ID, genre.Name, genre.Slug, genre.CreatedAt); err != nil {
		return dberr.Wrap(err, "create_genre")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, slug string) error {
	t := schema.CatalogGenre

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.Slug)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_genre")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Genre")
	}

	return nil
}
