package comment

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
	c := schema.SocialComment
	u := schema.UserAccount

	return fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, u.%s, c.%s, c.%s, c.%s
		FROM %s c
		JOIN %s u ON u.%s = c.%s`,
		c.ID, c.ReviewID, c.AuthorID, u.Username, c.Text, c.CreatedAt, c.UpdatedAt,
		c.Table, u.Table, u.ID, c.AuthorID)
}

func scanComment(scan func(dest ...any) error) (*Comment, error) {
	comment := &Comment{}
	err := scan(&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
		&comment.Text, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (repository *PostgresRepository) ListByReview(context context.Context, reviewID string, params pagination.Params) ([]Comment, int, error) {
	c := schema.SocialComment

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, c.Table, c.ReviewID)

	var total int
	if err := repository.db.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_comments")
	}

	query := fmt.Sprintf(`%s WHERE c.%s = $1 ORDER BY c.%s ASC LIMIT $2 OFFSET $3`,
		selectClause(), c.ReviewID, c.CreatedAt)

	rows, err := repository.db.Query(context, query, reviewID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := make([]Comment, 0, params.Limit)
	for rows.Next() {
		comment, err := scanComment(rows.Scan)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, *comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_comments")
	}

	return comments, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, reviewID, commentID string) (*Comment, error) {
	c := schema.SocialComment

	query := fmt.Sprintf(`%s WHERE c.%s = $1 AND c.%s = $2`, selectClause(), c.ID, c.ReviewID)

	row := repository.db.QueryRow(context, query, commentID, reviewID)
	comment, err := scanComment(row.Scan)
	if err != nil {
		wrapped := dberr.Wrap(err, "get_comment")
		if apperr.IsNotFound(wrapped) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, wrapped
	}

	return comment, nil
}

func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	c := schema.SocialComment

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.Table, c.ID, c.ReviewID, c.AuthorID, c.Text, c.CreatedAt, c.UpdatedAt)

	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	if _, err := repository.db.Exec(context, query,
		comment.ID, comment.ReviewID, comment.AuthorID, comment.Text,
		comment.CreatedAt, comment.UpdatedAt); err != nil {
		return dberr.Wrap(err, "create_comment")
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, comment *Comment) error {
	c := schema.SocialComment

	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		c.Table, c.Text, c.UpdatedAt, c.ID)

	comment.UpdatedAt = time.Now()

	tag, err := repository.db.Exec(context, query, comment.ID, comment.Text, comment.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_comment")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, reviewID, commentID string) error {
	c := schema.SocialComment

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, c.Table, c.ID, c.ReviewID)

	tag, err := repository.db.Exec(context, query, commentID, reviewID)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}
