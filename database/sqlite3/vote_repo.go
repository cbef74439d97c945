package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/agora/votes"
)

const tableVotes = "votes"

type VoteRepository struct {
	db sq.StdSqlCtx
}

var _ votes.Repository = (*VoteRepository)(nil)

func NewVoteRepository(db sq.StdSqlCtx) *VoteRepository {
	return &VoteRepository{db: db}
}

const (
	voteFieldVoterID    = "voter_id"
	voteFieldTargetKind = "target_kind"
	voteFieldTargetID   = "target_id"
	voteFieldDirection  = "direction"
	voteFieldCreatedAt  = "created_at"
	voteFieldUpdatedAt  = "updated_at"
)

func voteColumns() []string {
	return []string{
		voteFieldVoterID,
		voteFieldTargetKind,
		voteFieldTargetID,
		voteFieldDirection,
		voteFieldCreatedAt,
		voteFieldUpdatedAt,
	}
}

func scanVote(row sq.RowScanner) (*votes.Vote, error) {
	var vote votes.Vote

	err := row.Scan(
		&vote.VoterID,
		&vote.Target.Kind,
		&vote.Target.ID,
		&vote.Direction,
		&vote.CreatedAt,
		&vote.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan vote row: %w", err)
	}

	return &vote, nil
}

func voteKey(voterID string, target votes.Target) sq.Eq {
	return sq.Eq{
		voteFieldVoterID:    voterID,
		voteFieldTargetKind: target.Kind,
		voteFieldTargetID:   target.ID,
	}
}

func (repo *VoteRepository) Find(ctx context.Context, voterID string, target votes.Target) (*votes.Vote, error) {
	q := sq.Select(voteColumns()...).
		From(tableVotes).
		Where(voteKey(voterID, target))

	q = q.RunWith(repo.db)

	vote, err := scanVote(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &votes.VoteNotFoundError{VoterID: voterID, Target: target}
		}

		return nil, fmt.Errorf("failed to find vote: %w", err)
	}

	return vote, nil
}

func (repo *VoteRepository) ListByVoter(
	ctx context.Context,
	voterID string,
	kind votes.TargetKind,
	targetIDs []string,
) ([]*votes.Vote, error) {
	result := make([]*votes.Vote, 0)

	if len(targetIDs) == 0 {
		return result, nil
	}

	q := sq.Select(voteColumns()...).
		From(tableVotes).
		Where(sq.Eq{
			voteFieldVoterID:    voterID,
			voteFieldTargetKind: kind,
			voteFieldTargetID:   targetIDs,
		}).
		RunWith(repo.db)

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close vote rows", "error", err)
		}
	}()

	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, err
		}

		result = append(result, vote)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate vote rows: %w", err)
	}

	return result, nil
}

func (repo *VoteRepository) Insert(ctx context.Context, vote *votes.Vote) error {
	q := sq.Insert(tableVotes).
		Columns(voteColumns()...).
		Values(
			vote.VoterID,
			vote.Target.Kind,
			vote.Target.ID,
			vote.Direction,
			vote.CreatedAt,
			vote.UpdatedAt,
		).
		RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return &votes.DuplicateVoteError{VoterID: vote.VoterID, Target: vote.Target}
		}

		return fmt.Errorf("failed to insert vote: %w", err)
	}

	return nil
}

func (repo *VoteRepository) UpdateDirection(ctx context.Context, vote *votes.Vote, from votes.Direction) error {
	where := voteKey(vote.VoterID, vote.Target)
	where[voteFieldDirection] = from

	q := sq.Update(tableVotes).
		Set(voteFieldDirection, vote.Direction).
		Set(voteFieldUpdatedAt, vote.UpdatedAt).
		Where(where).
		RunWith(repo.db)

	result, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update vote direction: %w", err)
	}

	return expectOneVote(result, vote.VoterID, vote.Target, from)
}

func (repo *VoteRepository) Delete(ctx context.Context, voterID string, target votes.Target, from votes.Direction) error {
	where := voteKey(voterID, target)
	where[voteFieldDirection] = from

	q := sq.Delete(tableVotes).
		Where(where).
		RunWith(repo.db)

	result, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}

	return expectOneVote(result, voterID, target, from)
}

func expectOneVote(result sql.Result, voterID string, target votes.Target, from votes.Direction) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &votes.ConflictError{VoterID: voterID, Target: target, Expected: from}
	}

	return nil
}
