package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/agora/discuss"
)

const tableComments = "comments"

type CommentRepository struct {
	db sq.StdSqlCtx
}

var _ discuss.CommentRepository = (*CommentRepository)(nil)

func NewCommentRepository(db sq.StdSqlCtx) *CommentRepository {
	return &CommentRepository{db: db}
}

const (
	commentFieldID        = "id"
	commentFieldPostID    = "post_id"
	commentFieldAuthorID  = "author_id"
	commentFieldReplyTo   = "reply_to"
	commentFieldContent   = "content"
	commentFieldVoteCount = "vote_count"
	commentFieldCreatedAt = "created_at"
	commentFieldRemovedAt = "removed_at"
)

func commentColumns() []string {
	return []string{
		commentFieldID,
		commentFieldPostID,
		commentFieldAuthorID,
		commentFieldReplyTo,
		commentFieldContent,
		commentFieldVoteCount,
		commentFieldCreatedAt,
		commentFieldRemovedAt,
	}
}

func scanComment(row sq.RowScanner) (*discuss.Comment, error) {
	var comment discuss.Comment

	err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.ReplyTo,
		&comment.Content,
		&comment.VoteCount,
		&comment.CreatedAt,
		&comment.RemovedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &comment, nil
}

func (repo *CommentRepository) Insert(ctx context.Context, comment *discuss.Comment) error {
	q := sq.Insert(tableComments).
		Columns(commentColumns()...).
		Values(
			comment.ID,
			comment.PostID,
			comment.AuthorID,
			comment.ReplyTo,
			comment.Content,
			comment.VoteCount,
			comment.CreatedAt,
			comment.RemovedAt,
		)

	q = q.RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *CommentRepository) Find(ctx context.Context, commentID string) (*discuss.Comment, error) {
	q := sq.Select(commentColumns()...).
		From(tableComments).
		Where(sq.Eq{commentFieldID: commentID})

	q = q.RunWith(repo.db)

	comment, err := scanComment(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &discuss.CommentNotFoundError{ID: commentID}
		}

		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}

	return comment, nil
}

func (repo *CommentRepository) List(
	ctx context.Context,
	params *discuss.ListCommentsParams,
) ([]*discuss.Comment, error) {
	query := sq.Select(commentColumns()...).
		From(tableComments).
		OrderBy(commentFieldCreatedAt+" ASC", "rowid ASC")

	if params.PostID != "" {
		query = query.Where(sq.Eq{commentFieldPostID: params.PostID})
	}

	query = query.RunWith(repo.db)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	comments := make([]*discuss.Comment, 0)

	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}

		comments = append(comments, comment)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return comments, nil
}

func (repo *CommentRepository) AddVotes(ctx context.Context, commentID string, delta int) (int, error) {
	q := sq.Update(tableComments).
		Set(commentFieldVoteCount, sq.Expr(commentFieldVoteCount+" + ?", delta)).
		Where(sq.Eq{commentFieldID: commentID, commentFieldRemovedAt: nil}).
		Suffix("RETURNING " + commentFieldVoteCount)

	q = q.RunWith(repo.db)

	var voteCount int

	err := q.QueryRowContext(ctx).Scan(&voteCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &discuss.CommentNotFoundError{ID: commentID}
		}

		return 0, fmt.Errorf("failed to add votes: %w", err)
	}

	return voteCount, nil
}

func (repo *CommentRepository) MarkRemoved(ctx context.Context, commentID string, at time.Time) error {
	q := sq.Update(tableComments).
		Set(commentFieldRemovedAt, at).
		Set(commentFieldContent, discuss.TombstoneContent).
		Where(sq.Eq{commentFieldID: commentID, commentFieldRemovedAt: nil})

	q = q.RunWith(repo.db)

	result, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec update: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &discuss.CommentNotFoundError{ID: commentID}
	}

	return nil
}
