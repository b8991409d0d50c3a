package title

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/laurel/internal/catalog/category"
	"github.com/taibuivan/laurel/internal/catalog/genre"
	"github.com/taibuivan/laurel/internal/platform/apperr"
	"github.com/taibuivan/laurel/internal/platform/database/schema"
	"github.com/taibuivan/laurel/internal/platform/dberr"
	"github.com/taibuivan/laurel/pkg/pagination"
	"github.com/taibuivan/laurel/pkg/slice"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectClause projects a title row joined to its optional category.
func selectClause() string {
	t := schema.CatalogTitle
	c := schema.CatalogCategory

	return fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, t.%s, t.%s,
			c.%s, c.%s, c.%s
		FROM %s t
		LEFT JOIN %s c ON c.%s = t.%s`,
		t.ID, t.Name, t.Year, t.Description, t.CreatedAt, t.UpdatedAt,
		c.ID, c.Name, c.Slug,
		t.Table, c.Table, c.ID, t.CategoryID)
}

func scanTitle(scan func(dest ...any) error) (*Title, error) {
	title := &Title{}
	var categoryID, categoryName, categorySlug *string

	err := scan(&title.ID, &title.Name, &title.Year, &title.Description,
		&title.CreatedAt, &title.UpdatedAt,
		&categoryID, &categoryName, &categorySlug)
	if err != nil {
		return nil, err
	}

	if categoryID != nil {
		title.Category = &category.Category{
			ID:   *categoryID,
			Name: *categoryName,
			Slug: *categorySlug,
		}
	}

	return title, nil
}

func (repository *PostgresRepository) List(context context.Context, params pagination.Params, filter Filter) ([]Title, int, error) {
	t := schema.CatalogTitle
	c := schema.CatalogCategory
	g := schema.CatalogGenre
	tg := schema.CatalogTitleGenre

	conditions := []string{"TRUE"}
	args := []any{}

	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		conditions = append(conditions, fmt.Sprintf(
			"t.%s = (SELECT %s FROM %s WHERE %s = $%d)",
			t.CategoryID, c.ID, c.Table, c.Slug, len(args)))
	}
	if len(filter.GenreSlugs) > 0 {
		args = append(args, filter.GenreSlugs)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s tg JOIN %s g ON g.%s = tg.%s WHERE tg.%s = t.%s AND g.%s = ANY($%d))",
			tg.Table, g.Table, g.ID, tg.GenreID, tg.TitleID, t.ID, g.Slug, len(args)))
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		conditions = append(conditions, fmt.Sprintf(
			"t.%s ILIKE '%%' || $%d || '%%'", t.Name, len(args)))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		conditions = append(conditions, fmt.Sprintf("t.%s = $%d", t.Year, len(args)))
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s t WHERE %s", t.Table, where)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_titles")
	}

	args = append(args, params.Limit, params.Offset())
	query := fmt.Sprintf("%s WHERE %s ORDER BY t.%s ASC, t.%s ASC LIMIT $%d OFFSET $%d",
		selectClause(), where, t.Name, t.ID, len(args)-1, len(args))

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	titles := make([]Title, 0, params.Limit)
	for rows.Next() {
		title, err := scanTitle(rows.Scan)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_title")
		}
		titles = append(titles, *title)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_titles")
	}

	if err := repository.attachGenres(context, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Title, error) {
	t := schema.CatalogTitle

	query := fmt.Sprintf("%s WHERE t.%s = $1", selectClause(), t.ID)

	row := repository.db.QueryRow(context, query, id)
	title, err := scanTitle(row.Scan)
	if err != nil {
		wrapped := dberr.Wrap(err, "get_title")
		if apperr.IsNotFound(wrapped) {
			return nil, apperr.NotFound("Title")
		}
		return nil, wrapped
	}

	titles := []Title{*title}
	if err := repository.attachGenres(context, titles); err != nil {
		return nil, err
	}

	return &titles[0], nil
}

func (repository *PostgresRepository) Create(context context.Context, title *Title) error {
	t := schema.CatalogTitle

	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_title")
	}
	defer tx.Rollback(context)

	now := time.Now()
	title.CreatedAt = now
	title.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.Table, t.ID, t.Name, t.Year, t.Description, t.CategoryID, t.CreatedAt, t.UpdatedAt)

	if _, err := tx.Exec(context, query,
		title.ID, title.Name, title.Year, title.Description,
		categoryID(title), title.CreatedAt, title.UpdatedAt); err != nil {
		return dberr.Wrap(err, "create_title")
	}

	if err := insertGenreLinks(context, tx.Exec, title); err != nil {
		return err
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_title")
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, title *Title) error {
	t := schema.CatalogTitle
	tg := schema.CatalogTitleGenre

	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_update_title")
	}
	defer tx.Rollback(context)

	title.UpdatedAt = time.Now()

	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6 WHERE %s = $1`,
		t.Table, t.Name, t.Year, t.Description, t.CategoryID, t.UpdatedAt, t.ID)

	tag, err := tx.Exec(context, query,
		title.ID, title.Name, title.Year, title.Description, categoryID(title), title.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_title")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	deleteLinks := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, tg.Table, tg.TitleID)
	if _, err := tx.Exec(context, deleteLinks, title.ID); err != nil {
		return dberr.Wrap(err, "clear_title_genres")
	}

	if err := insertGenreLinks(context, tx.Exec, title); err != nil {
		return err
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_update_title")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	t := schema.CatalogTitle

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_title")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	return nil
}

// attachGenres loads genre rows for a page of titles in a single query.
func (repository *PostgresRepository) attachGenres(context context.Context, titles []Title) error {
	if len(titles) == 0 {
		return nil
	}

	g := schema.CatalogGenre
	tg := schema.CatalogTitleGenre

	ids := slice.Map(titles, func(t Title) string { return t.ID })

	query := fmt.Sprintf(`
		SELECT tg.%s, g.%s, g.%s, g.%s
		FROM %s tg
		JOIN %s g ON g.%s = tg.%s
		WHERE tg.%s = ANY($1)
		ORDER BY g.%s ASC`,
		tg.TitleID, g.ID, g.Name, g.Slug,
		tg.Table, g.Table, g.ID, tg.GenreID,
		tg.TitleID, g.Name)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "load_title_genres")
	}
	defer rows.Close()

	byTitle := make(map[string][]genre.Genre, len(titles))
	for rows.Next() {
		var titleID string
		item := genre.Genre{}
		if err := rows.Scan(&titleID, &item.ID, &item.Name, &item.Slug); err != nil {
			return dberr.Wrap(err, "scan_title_genre")
		}
		byTitle[titleID] = append(byTitle[titleID], item)
	}

	if err := rows.Err(); err != nil {
		return dberr.Wrap(err, "iterate_title_genres")
	}

	for i := range titles {
		if genres := byTitle[titles[i].ID]; genres != nil {
			titles[i].Genres = genres
		} else {
			titles[i].Genres = []genre.Genre{}
		}
	}

	return nil
}

func insertGenreLinks(context context.Context, exec func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error), title *Title) error {
	tg := schema.CatalogTitleGenre

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		tg.Table, tg.TitleID, tg.GenreID)

	for _, g := range title.Genres {
		if _, err := exec(context, query, title.ID, g.ID); err != nil {
			return dberr.Wrap(err, "link_title_genre")
		}
	}

	return nil
}

func categoryID(title *Title) *string {
	if title.Category == nil {
		return nil
	}
	return &title.Category.ID
}
