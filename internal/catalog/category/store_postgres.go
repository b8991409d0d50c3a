package category

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

func (repository *PostgresRepository) List(context context.Context, params pagination.Params, search string) ([]Category, int, error) {
	t := schema.CatalogCategory

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')`,
		t.Table, t.Name)

	var total int
	if err := repository.db.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_categories")
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3`,
		t.ID, t.Name, t.Slug, t.CreatedAt, t.Table, t.Name, t.Name)

	rows, err := repository.db.Query(context, query, search, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]Category, 0, params.Limit)
	for rows.Next() {
		c := Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_categories")
	}

	return categories, total, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Category, error) {
	t := schema.CatalogCategory

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		t.ID, t.Name, t.Slug, t.CreatedAt, t.Table, t.Slug)

	c := &Category{}
	err := repository.db.QueryRow(context, query, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category_by_slug")
	}

	return c, nil
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	t := schema.CatalogCategory

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		t.Table, t.ID, t.Name, t.Slug, t.CreatedAt)

	category.CreatedAt = time.Now()
	if _, err := repository.db.Exec(context, query,
		category.ID, category.Name, category.Slug, category.CreatedAt); err != nil {
		return dberr.Wrap(err, "create_category")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, slug string) error {
	t := schema.CatalogCategory

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.Slug)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}

	return nil
}
