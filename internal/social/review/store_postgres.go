package review

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

func selectClause() string {
	r := schema.SocialReview
	u := schema.UserAccount

	return fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, u.%s, r.%s, r.%s, r.%s, r.%s
		FROM %s r
		JOIN %s u ON u.%s = r.%s`,
		r.ID, r.TitleID, r.AuthorID, u.Username, r.Text, r.Score, r.CreatedAt, r.UpdatedAt,
		r.Table, u.Table, u.ID, r.AuthorID)
}

func scanReview(scan func(dest ...any) error) (*Review, error) {
	review := &Review{}
	err := scan(&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (repository *PostgresRepository) ListByTitle(context context.Context, titleID string, params pagination.Params) ([]Review, int, error) {
	r := schema.SocialReview

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, r.Table, r.TitleID)

	var total int
	if err := repository.db.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_reviews")
	}

	query := fmt.Sprintf(`%s WHERE r.%s = $1 ORDER BY r.%s DESC LIMIT $2 OFFSET $3`,
		selectClause(), r.TitleID, r.CreatedAt)

	rows, err := repository.db.Query(context, query, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	reviews := make([]Review, 0, params.Limit)
	for rows.Next() {
		review, err := scanReview(rows.Scan)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, *review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_reviews")
	}

	return reviews, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, titleID, reviewID string) (*Review, error) {
	r := schema.SocialReview

	query := fmt.Sprintf(`%s WHERE r.%s = $1 AND r.%s = $2`, selectClause(), r.ID, r.TitleID)

	row := repository.db.QueryRow(context, query, reviewID, titleID)
	review, err := scanReview(row.Scan)
	if err != nil {
		wrapped := dberr.Wrap(err, "get_review")
		if apperr.IsNotFound(wrapped) {
			return nil, apperr.NotFound("Review")
		}
		return nil, wrapped
	}

	return review, nil
}

func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	r := schema.SocialReview

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.Table, r.ID, r.TitleID, r.AuthorID, r.Text, r.Score, r.CreatedAt, r.UpdatedAt)

	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	if _, err := repository.db.Exec(context, query,
		review.ID, review.TitleID, review.AuthorID, review.Text, review.Score,
		review.CreatedAt, review.UpdatedAt); err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("You have already reviewed this title")
		}
		return dberr.Wrap(err, "create_review")
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, review *Review) error {
	r := schema.SocialReview

	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		r.Table, r.Text, r.Score, r.UpdatedAt, r.ID)

	review.UpdatedAt = time.Now()

	tag, err := repository.db.Exec(context, query,
		review.ID, review.Text, review.Score, review.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_review")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, titleID, reviewID string) error {
	r := schema.SocialReview

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, r.Table, r.ID, r.TitleID)

	tag, err := repository.db.Exec(context, query, reviewID, titleID)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}
