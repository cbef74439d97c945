package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/agora/contents"
)

const tablePosts = "posts"

type PostRepository struct {
	db sq.StdSqlCtx
}

var _ contents.PostRepository = (*PostRepository)(nil)

func NewPostRepository(db sq.StdSqlCtx) *PostRepository {
	return &PostRepository{db: db}
}

const (
	postFieldID           = "id"
	postFieldAuthorID     = "author_id"
	postFieldContent      = "content"
	postFieldVoteCount    = "vote_count"
	postFieldCommentCount = "comment_count"
	postFieldHotScore     = "hot_score"
	postFieldCreatedAt    = "created_at"
	postFieldRemovedAt    = "removed_at"
)

func postColumns() []string {
	return []string{
		postFieldID,
		postFieldAuthorID,
		postFieldContent,
		postFieldVoteCount,
		postFieldCommentCount,
		postFieldHotScore,
		postFieldCreatedAt,
		postFieldRemovedAt,
	}
}

func scanPost(row sq.RowScanner) (*contents.Post, error) {
	var post contents.Post

	err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Content,
		&post.VoteCount,
		&post.CommentCount,
		&post.HotScore,
		&post.CreatedAt,
		&post.RemovedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &post, nil
}

func (repo *PostRepository) Insert(ctx context.Context, post *contents.Post) error {
	q := sq.Insert(tablePosts).
		Columns(postColumns()...).
		Values(
			post.ID,
			post.AuthorID,
			post.Content,
			post.VoteCount,
			post.CommentCount,
			post.HotScore,
			post.CreatedAt,
			post.RemovedAt,
		)

	q = q.RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *PostRepository) Find(ctx context.Context, postID string) (*contents.Post, error) {
	q := sq.Select(postColumns()...).
		From(tablePosts).
		Where(sq.Eq{postFieldID: postID})

	q = q.RunWith(repo.db)

	post, err := scanPost(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &contents.PostNotFoundError{ID: postID}
		}

		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	return post, nil
}

func (repo *PostRepository) List(ctx context.Context, params *contents.ListPostsParams) ([]*contents.Post, error) {
	q := sq.Select(postColumns()...).
		From(tablePosts).
		Where(sq.Eq{postFieldRemovedAt: nil})

	if params.CreatedAfter != nil {
		q = q.Where(sq.Gt{postFieldCreatedAt: *params.CreatedAfter})
	}

	switch params.OrderBy {
	case contents.PostOrderHot:
		q = q.OrderBy(postFieldHotScore+" DESC", postFieldCreatedAt+" DESC", postFieldID)
	case contents.PostOrderTop:
		q = q.OrderBy(postFieldVoteCount+" DESC", postFieldCreatedAt+" DESC", postFieldID)
	case contents.PostOrderNewest:
		q = q.OrderBy(postFieldCreatedAt+" DESC", postFieldID)
	default:
		q = q.OrderBy(postFieldCreatedAt+" DESC", postFieldID)
	}

	if params.Limit > 0 {
		q = q.Limit(uint64(params.Limit))
	}

	q = q.RunWith(repo.db)

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	posts := make([]*contents.Post, 0)

	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}

		posts = append(posts, post)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return posts, nil
}

func (repo *PostRepository) AddVotes(ctx context.Context, postID string, delta int) (int, error) {
	q := sq.Update(tablePosts).
		Set(postFieldVoteCount, sq.Expr(postFieldVoteCount+" + ?", delta)).
		Where(sq.Eq{postFieldID: postID, postFieldRemovedAt: nil}).
		Suffix("RETURNING " + postFieldVoteCount)

	q = q.RunWith(repo.db)

	var voteCount int

	err := q.QueryRowContext(ctx).Scan(&voteCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &contents.PostNotFoundError{ID: postID}
		}

		return 0, fmt.Errorf("failed to add votes: %w", err)
	}

	return voteCount, nil
}

func (repo *PostRepository) AddComments(ctx context.Context, postID string, delta int) error {
	q := sq.Update(tablePosts).
		Set(postFieldCommentCount, sq.Expr("MAX(0, "+postFieldCommentCount+" + ?)", delta)).
		Where(sq.Eq{postFieldID: postID})

	return repo.execAffectingPost(ctx, q, postID)
}

func (repo *PostRepository) SetHotScore(ctx context.Context, postID string, score float64) error {
	q := sq.Update(tablePosts).
		Set(postFieldHotScore, score).
		Where(sq.Eq{postFieldID: postID})

	return repo.execAffectingPost(ctx, q, postID)
}

func (repo *PostRepository) MarkRemoved(ctx context.Context, postID string, at time.Time) error {
	q := sq.Update(tablePosts).
		Set(postFieldRemovedAt, at).
		Where(sq.Eq{postFieldID: postID, postFieldRemovedAt: nil})

	return repo.execAffectingPost(ctx, q, postID)
}

func (repo *PostRepository) execAffectingPost(ctx context.Context, q sq.UpdateBuilder, postID string) error {
	result, err := q.RunWith(repo.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec update: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &contents.PostNotFoundError{ID: postID}
	}

	return nil
}
