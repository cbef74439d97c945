package ranking

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	authcontext "github.com/nasermirzaei89/agora/auth/context"
	"github.com/nasermirzaei89/agora/contents"
	"github.com/nasermirzaei89/agora/discuss"
	"github.com/nasermirzaei89/agora/metrics"
	"github.com/nasermirzaei89/agora/reputation"
	"github.com/nasermirzaei89/agora/votes"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

const (
	maxCastAttempts = 5
	// maxHotCandidates bounds how many young posts a hot feed read refreshes.
	maxHotCandidates = 500
	MaxContentLength = 10_000
)

type Engine struct {
	store      Store
	clock      clockwork.Clock
	metrics    *metrics.RankingMetrics
	reputation *reputation.Accumulator
	feedGroup  singleflight.Group
}

func NewEngine(store Store, clock clockwork.Clock, rankingMetrics *metrics.RankingMetrics) *Engine {
	return &Engine{
		store:      store,
		clock:      clock,
		metrics:    rankingMetrics,
		reputation: reputation.NewAccumulator(store.Reputation(), clock),
	}
}

type VoteResult struct {
	Target     votes.Target
	Op         votes.Op
	NewTally   int
	VoterState votes.State
}

func currentActor(ctx context.Context) (string, error) {
	sub := authcontext.GetSubject(ctx)
	if sub == "" || sub == authcontext.Anonymous {
		return "", ErrAnonymousActor
	}

	return sub, nil
}

// CastVote records the actor's vote on target. Casting the direction already stored withdraws it.
func (e *Engine) CastVote(ctx context.Context, target votes.Target, direction votes.Direction) (*VoteResult, error) {
	if !direction.IsValid() {
		return nil, &votes.InvalidDirectionError{Direction: string(direction)}
	}

	return e.applyVote(ctx, target, votes.Cast(direction))
}

// WithdrawVote removes the actor's vote on target, if any.
func (e *Engine) WithdrawVote(ctx context.Context, target votes.Target) (*VoteResult, error) {
	return e.applyVote(ctx, target, votes.Withdraw())
}

func isLedgerConflict(err error) bool {
	var duplicateErr *votes.DuplicateVoteError

	var conflictErr *votes.ConflictError

	return errors.As(err, &duplicateErr) || errors.As(err, &conflictErr)
}

// applyVote re-reads the ledger, plans and applies in one transaction, retrying when a
// concurrent request changed the same vote in between. A lost insert race returns whatever
// the winner stored. Other retries converge on the state the first plan resolved to, so a
// racing duplicate request is never toggled back off.
func (e *Engine) applyVote(ctx context.Context, target votes.Target, action votes.Action) (*VoteResult, error) {
	actorID, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}

	if !target.Kind.IsValid() {
		return nil, &votes.InvalidTargetKindError{Kind: string(target.Kind)}
	}

	timer := prometheus.NewTimer(e.metrics.VoteDuration.WithLabelValues(string(target.Kind)))
	defer timer.ObserveDuration()

	for attempt := 1; attempt <= maxCastAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("failed to apply vote: %w", ctxErr)
		}

		result, intended, err := e.tryApplyVote(ctx, actorID, target, action)
		if err == nil {
			e.metrics.VotesTotal.WithLabelValues(string(target.Kind), result.Op.String()).Inc()

			if result.Op != votes.OpNone {
				e.metrics.ReputationAdjustmentsTotal.WithLabelValues(string(eventVote)).Inc()
			}

			if target.Kind == votes.TargetKindPost && result.Op != votes.OpNone {
				e.refreshRank(ctx, target.ID)
			}

			return result, nil
		}

		if !isLedgerConflict(err) {
			return nil, err
		}

		e.metrics.VoteConflictsTotal.WithLabelValues(string(target.Kind)).Inc()

		var duplicateErr *votes.DuplicateVoteError
		if errors.As(err, &duplicateErr) {
			action = votes.Keep(action.Direction())
		} else {
			action = votes.Converge(intended)
		}

		slog.DebugContext(
			ctx,
			"vote changed concurrently, retrying",
			"voterId", actorID,
			"target", target.String(),
			"attempt", attempt,
			"error", err,
		)
	}

	return nil, ErrTooManyConflicts
}

func (e *Engine) tryApplyVote(
	ctx context.Context,
	actorID string,
	target votes.Target,
	action votes.Action,
) (*VoteResult, votes.State, error) {
	var (
		result   *VoteResult
		intended votes.State
	)

	err := e.store.WithinTx(ctx, func(repos Repositories) error {
		authorID, tally, err := findLiveTarget(ctx, repos, target)
		if err != nil {
			return err
		}

		existing, err := repos.Votes().Find(ctx, actorID, target)
		if err != nil {
			var notFoundErr *votes.VoteNotFoundError
			if !errors.As(err, &notFoundErr) {
				return fmt.Errorf("failed to find existing vote: %w", err)
			}
		}

		transition, err := votes.Plan(existing, action)
		if err != nil {
			return fmt.Errorf("failed to plan vote: %w", err)
		}

		intended = transition.Resulting

		now := e.clock.Now().UTC()

		switch transition.Op {
		case votes.OpNone:
		case votes.OpInsert:
			err = repos.Votes().Insert(ctx, &votes.Vote{
				VoterID:   actorID,
				Target:    target,
				Direction: transition.To,
				CreatedAt: now,
				UpdatedAt: now,
			})
		case votes.OpFlip:
			err = repos.Votes().UpdateDirection(ctx, &votes.Vote{
				VoterID:   actorID,
				Target:    target,
				Direction: transition.To,
				UpdatedAt: now,
			}, transition.From)
		case votes.OpDelete:
			err = repos.Votes().Delete(ctx, actorID, target, transition.From)
		}

		if err != nil {
			return fmt.Errorf("failed to %s vote: %w", transition.Op, err)
		}

		if transition.LedgerDelta != 0 {
			tally, err = addVotes(ctx, repos, target, transition.LedgerDelta)
			if err != nil {
				return err
			}

			err = e.adjustReputation(ctx, repos, authorID, eventVote, VoteReputationDelta(target.Kind, transition.LedgerDelta))
			if err != nil {
				return err
			}
		}

		result = &VoteResult{
			Target:     target,
			Op:         transition.Op,
			NewTally:   tally,
			VoterState: transition.Resulting,
		}

		return nil
	})
	if err != nil {
		return nil, intended, err
	}

	return result, intended, nil
}

// findLiveTarget returns the author and current tally of a target that has not been removed.
func findLiveTarget(ctx context.Context, repos Repositories, target votes.Target) (string, int, error) {
	switch target.Kind {
	case votes.TargetKindPost:
		post, err := repos.Posts().Find(ctx, target.ID)
		if err != nil {
			return "", 0, fmt.Errorf("failed to find post: %w", err)
		}

		if post.IsRemoved() {
			return "", 0, &contents.PostNotFoundError{ID: target.ID}
		}

		return post.AuthorID, post.VoteCount, nil
	case votes.TargetKindComment:
		comment, err := repos.Comments().Find(ctx, target.ID)
		if err != nil {
			return "", 0, fmt.Errorf("failed to find comment: %w", err)
		}

		if comment.IsRemoved() {
			return "", 0, &discuss.CommentNotFoundError{ID: target.ID}
		}

		return comment.AuthorID, comment.VoteCount, nil
	default:
		return "", 0, &votes.InvalidTargetKindError{Kind: string(target.Kind)}
	}
}

func addVotes(ctx context.Context, repos Repositories, target votes.Target, delta int) (int, error) {
	switch target.Kind {
	case votes.TargetKindPost:
		tally, err := repos.Posts().AddVotes(ctx, target.ID, delta)
		if err != nil {
			return 0, fmt.Errorf("failed to add post votes: %w", err)
		}

		return tally, nil
	case votes.TargetKindComment:
		tally, err := repos.Comments().AddVotes(ctx, target.ID, delta)
		if err != nil {
			return 0, fmt.Errorf("failed to add comment votes: %w", err)
		}

		return tally, nil
	default:
		return 0, &votes.InvalidTargetKindError{Kind: string(target.Kind)}
	}
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &InvalidContentError{Reason: "content is empty"}
	}

	if utf8.RuneCountInString(content) > MaxContentLength {
		return &InvalidContentError{Reason: "content is longer than " + strconv.Itoa(MaxContentLength) + " characters"}
	}

	return nil
}

func (e *Engine) adjustReputation(ctx context.Context, repos Repositories, authorID string, ev event, delta int) error {
	acc := reputation.NewAccumulator(repos.Reputation(), e.clock)

	_, err := acc.Adjust(ctx, authorID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust reputation for %s: %w", ev, err)
	}

	return nil
}

func (e *Engine) CreatePost(ctx context.Context, content string) (*contents.Post, error) {
	actorID, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}

	err = validateContent(content)
	if err != nil {
		return nil, err
	}

	post := &contents.Post{
		ID:        uuid.NewString(),
		AuthorID:  actorID,
		Content:   content,
		CreatedAt: e.clock.Now().UTC(),
	}

	err = e.store.WithinTx(ctx, func(repos Repositories) error {
		err := repos.Posts().Insert(ctx, post)
		if err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}

		return e.adjustReputation(ctx, repos, actorID, eventPostCreated, PostCreatedReputation)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	e.metrics.ReputationAdjustmentsTotal.WithLabelValues(string(eventPostCreated)).Inc()

	return post, nil
}

func (e *Engine) CreateComment(ctx context.Context, postID string, content string, replyTo string) (*discuss.Comment, error) {
	actorID, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}

	err = validateContent(content)
	if err != nil {
		return nil, err
	}

	comment := &discuss.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  actorID,
		Content:   content,
		CreatedAt: e.clock.Now().UTC(),
	}

	if replyTo != "" {
		comment.ReplyTo = &replyTo
	}

	err = e.store.WithinTx(ctx, func(repos Repositories) error {
		_, _, err := findLiveTarget(ctx, repos, votes.Target{Kind: votes.TargetKindPost, ID: postID})
		if err != nil {
			return err
		}

		if replyTo != "" {
			parent, err := repos.Comments().Find(ctx, replyTo)
			if err != nil {
				return fmt.Errorf("failed to find parent comment: %w", err)
			}

			if parent.IsRemoved() {
				return &discuss.CommentNotFoundError{ID: replyTo}
			}

			if parent.PostID != postID {
				return &InvalidReplyError{PostID: postID, ReplyTo: replyTo}
			}
		}

		err = repos.Comments().Insert(ctx, comment)
		if err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}

		err = repos.Posts().AddComments(ctx, postID, 1)
		if err != nil {
			return fmt.Errorf("failed to increment comment count: %w", err)
		}

		return e.adjustReputation(ctx, repos, actorID, eventCommentCreated, CommentCreatedReputation)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	e.metrics.ReputationAdjustmentsTotal.WithLabelValues(string(eventCommentCreated)).Inc()

	e.refreshRank(ctx, postID)

	return comment, nil
}

// RemovePost soft deletes the actor's own post.
func (e *Engine) RemovePost(ctx context.Context, postID string) error {
	actorID, err := currentActor(ctx)
	if err != nil {
		return err
	}

	err = e.store.WithinTx(ctx, func(repos Repositories) error {
		authorID, _, err := findLiveTarget(ctx, repos, votes.Target{Kind: votes.TargetKindPost, ID: postID})
		if err != nil {
			return err
		}

		if authorID != actorID {
			return &NotAuthorError{ActorID: actorID, Target: votes.Target{Kind: votes.TargetKindPost, ID: postID}}
		}

		err = repos.Posts().MarkRemoved(ctx, postID, e.clock.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to mark post removed: %w", err)
		}

		return e.adjustReputation(ctx, repos, authorID, eventPostRemoved, PostRemovedReputation)
	})
	if err != nil {
		return fmt.Errorf("failed to remove post: %w", err)
	}

	e.metrics.ReputationAdjustmentsTotal.WithLabelValues(string(eventPostRemoved)).Inc()

	return nil
}

// RemoveComment soft deletes the actor's own comment. Replies stay attached to the tombstone.
func (e *Engine) RemoveComment(ctx context.Context, commentID string) error {
	actorID, err := currentActor(ctx)
	if err != nil {
		return err
	}

	var postID string

	err = e.store.WithinTx(ctx, func(repos Repositories) error {
		comment, err := repos.Comments().Find(ctx, commentID)
		if err != nil {
			return fmt.Errorf("failed to find comment: %w", err)
		}

		if comment.IsRemoved() {
			return &discuss.CommentNotFoundError{ID: commentID}
		}

		if comment.AuthorID != actorID {
			return &NotAuthorError{ActorID: actorID, Target: votes.Target{Kind: votes.TargetKindComment, ID: commentID}}
		}

		postID = comment.PostID

		err = repos.Comments().MarkRemoved(ctx, commentID, e.clock.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to mark comment removed: %w", err)
		}

		err = repos.Posts().AddComments(ctx, comment.PostID, -1)
		if err != nil {
			return fmt.Errorf("failed to decrement comment count: %w", err)
		}

		return e.adjustReputation(ctx, repos, comment.AuthorID, eventCommentRemoved, CommentRemovedReputation)
	})
	if err != nil {
		return fmt.Errorf("failed to remove comment: %w", err)
	}

	e.metrics.ReputationAdjustmentsTotal.WithLabelValues(string(eventCommentRemoved)).Inc()

	e.refreshRank(ctx, postID)

	return nil
}

// RecomputeRank recomputes and stores the hot score of a live post.
func (e *Engine) RecomputeRank(ctx context.Context, postID string) (float64, error) {
	post, err := e.store.Posts().Find(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("failed to find post: %w", err)
	}

	if post.IsRemoved() {
		return 0, &contents.PostNotFoundError{ID: postID}
	}

	score := HotScore(post.VoteCount, post.CommentCount, e.clock.Since(post.CreatedAt))

	err = e.store.Posts().SetHotScore(ctx, postID, score)
	if err != nil {
		return 0, fmt.Errorf("failed to set hot score: %w", err)
	}

	e.metrics.HotScoreRecomputesTotal.WithLabelValues("persisted").Inc()

	return score, nil
}

// refreshRank recomputes after a committed write. The score is a cache, so failures only log.
func (e *Engine) refreshRank(ctx context.Context, postID string) {
	_, err := e.RecomputeRank(ctx, postID)
	if err == nil {
		return
	}

	var notFoundErr *contents.PostNotFoundError
	if errors.As(err, &notFoundErr) {
		return
	}

	slog.WarnContext(ctx, "failed to refresh hot score", "postId", postID, "error", err)
}

func (e *Engine) Reputation(ctx context.Context, authorID string) (int, error) {
	score, err := e.reputation.Get(ctx, authorID)
	if err != nil {
		return 0, fmt.Errorf("failed to get reputation: %w", err)
	}

	return score, nil
}

// ListFeed returns up to limit live posts ranked for feed. Limits are clamped to contents.MaxFeedLimit.
func (e *Engine) ListFeed(ctx context.Context, feed contents.Feed, limit int) ([]*contents.Post, error) {
	if !feed.IsValid() {
		return nil, &contents.InvalidFeedError{Feed: string(feed)}
	}

	limit = contents.ClampLimit(limit, contents.DefaultFeedLimit)

	if feed != contents.FeedHot {
		posts, err := e.store.Posts().List(ctx, &contents.ListPostsParams{OrderBy: feed.Order(), Limit: limit})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s feed: %w", feed, err)
		}

		return posts, nil
	}

	v, err, _ := e.feedGroup.Do("hot:"+strconv.Itoa(limit), func() (any, error) {
		return e.hotFeed(context.WithoutCancel(ctx), limit)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list hot feed: %w", err)
	}

	posts, _ := v.([]*contents.Post)

	return slices.Clone(posts), nil
}

// hotFeed merges the best cached scores with the young posts and rescores every candidate
// against the current clock. Scores that moved by more than HotScoreEpsilon are written back,
// so posts past HotWindow sink in the cached order too.
func (e *Engine) hotFeed(ctx context.Context, limit int) ([]*contents.Post, error) {
	now := e.clock.Now().UTC()
	since := now.Add(-HotWindow)

	cached, err := e.store.Posts().List(ctx, &contents.ListPostsParams{OrderBy: contents.PostOrderHot, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by cached score: %w", err)
	}

	young, err := e.store.Posts().List(ctx, &contents.ListPostsParams{
		OrderBy:      contents.PostOrderNewest,
		Limit:        maxHotCandidates,
		CreatedAfter: &since,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list young posts: %w", err)
	}

	byID := make(map[string]*contents.Post, len(cached)+len(young))
	for _, post := range slices.Concat(cached, young) {
		byID[post.ID] = post
	}

	posts := make([]*contents.Post, 0, len(byID))
	for _, post := range byID {
		post.HotScore = e.rescore(ctx, post, now)
		posts = append(posts, post)
	}

	slices.SortFunc(posts, func(a, b *contents.Post) int {
		return cmp.Or(
			cmp.Compare(b.HotScore, a.HotScore),
			b.CreatedAt.Compare(a.CreatedAt),
			cmp.Compare(a.ID, b.ID),
		)
	})

	if len(posts) > limit {
		posts = posts[:limit]
	}

	return posts, nil
}

// rescore returns the post's hot score at now and persists it when the stored value is off by
// more than HotScoreEpsilon.
func (e *Engine) rescore(ctx context.Context, post *contents.Post, now time.Time) float64 {
	score := HotScore(post.VoteCount, post.CommentCount, now.Sub(post.CreatedAt))

	if math.Abs(score-post.HotScore) <= HotScoreEpsilon {
		e.metrics.HotScoreRecomputesTotal.WithLabelValues("skipped").Inc()

		return score
	}

	err := e.store.Posts().SetHotScore(ctx, post.ID, score)
	if err != nil {
		slog.WarnContext(ctx, "failed to persist hot score", "postId", post.ID, "error", err)

		return score
	}

	e.metrics.HotScoreRecomputesTotal.WithLabelValues("persisted").Inc()

	return score
}
