package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/agora/reputation"
)

const tableReputations = "reputations"

type ReputationRepository struct {
	db sq.StdSqlCtx
}

var _ reputation.Repository = (*ReputationRepository)(nil)

func NewReputationRepository(db sq.StdSqlCtx) *ReputationRepository {
	return &ReputationRepository{db: db}
}

const (
	reputationFieldAuthorID  = "author_id"
	reputationFieldScore     = "score"
	reputationFieldUpdatedAt = "updated_at"
)

func reputationColumns() []string {
	return []string{
		reputationFieldAuthorID,
		reputationFieldScore,
		reputationFieldUpdatedAt,
	}
}

func scanReputation(row sq.RowScanner) (*reputation.Reputation, error) {
	var rep reputation.Reputation

	err := row.Scan(
		&rep.AuthorID,
		&rep.Score,
		&rep.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan reputation row: %w", err)
	}

	return &rep, nil
}

func (repo *ReputationRepository) AddWithFloor(
	ctx context.Context,
	authorID string,
	delta int,
	at time.Time,
) (int, error) {
	query := fmt.Sprintf(`
INSERT INTO %[1]s (author_id, score, updated_at)
VALUES (?, MAX(0, ?), ?)
ON CONFLICT(author_id)
DO UPDATE SET
    score = MAX(0, %[1]s.score + ?),
    updated_at = excluded.updated_at
RETURNING score
`, tableReputations)

	var score int

	err := repo.db.QueryRowContext(ctx, query, authorID, delta, at, delta).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert reputation: %w", err)
	}

	return score, nil
}

func (repo *ReputationRepository) Find(ctx context.Context, authorID string) (*reputation.Reputation, error) {
	q := sq.Select(reputationColumns()...).
		From(tableReputations).
		Where(sq.Eq{reputationFieldAuthorID: authorID}).
		RunWith(repo.db)

	rep, err := scanReputation(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &reputation.ReputationNotFoundError{AuthorID: authorID}
		}

		return nil, fmt.Errorf("failed to find reputation: %w", err)
	}

	return rep, nil
}
