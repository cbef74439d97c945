package sqlite3

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/agora/contents"
	"github.com/nasermirzaei89/agora/discuss"
	"github.com/nasermirzaei89/agora/ranking"
	"github.com/nasermirzaei89/agora/reputation"
	"github.com/nasermirzaei89/agora/votes"
)

// Repositories binds every ranking repository to one runner, either the pool or a transaction.
type Repositories struct {
	posts      *PostRepository
	comments   *CommentRepository
	votes      *VoteRepository
	reputation *ReputationRepository
}

var _ ranking.Repositories = (*Repositories)(nil)

func NewRepositories(db sq.StdSqlCtx) *Repositories {
	return &Repositories{
		posts:      NewPostRepository(db),
		comments:   NewCommentRepository(db),
		votes:      NewVoteRepository(db),
		reputation: NewReputationRepository(db),
	}
}

func (repos *Repositories) Posts() contents.PostRepository {
	return repos.posts
}

func (repos *Repositories) Comments() discuss.CommentRepository {
	return repos.comments
}

func (repos *Repositories) Votes() votes.Repository {
	return repos.votes
}

func (repos *Repositories) Reputation() reputation.Repository {
	return repos.reputation
}

type Store struct {
	*Repositories

	db *sql.DB
}

var _ ranking.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{
		Repositories: NewRepositories(db),
		db:           db,
	}
}

func (store *Store) WithinTx(ctx context.Context, fn func(repos ranking.Repositories) error) (err error) {
	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(ctx, tx)
			panic(p)
		}
	}()

	err = fn(NewRepositories(tx))
	if err != nil {
		rollback(ctx, tx)

		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func rollback(ctx context.Context, tx *sql.Tx) {
	err := tx.Rollback()
	if err != nil {
		slog.ErrorContext(ctx, "failed to rollback transaction", "error", err)
	}
}
