package ranking_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	authcontext "github.com/nasermirzaei89/agora/auth/context"
	"github.com/nasermirzaei89/agora/contents"
	"github.com/nasermirzaei89/agora/database/sqlite3"
	"github.com/nasermirzaei89/agora/discuss"
	"github.com/nasermirzaei89/agora/metrics"
	"github.com/nasermirzaei89/agora/ranking"
	"github.com/nasermirzaei89/agora/votes"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type fixture struct {
	engine  *ranking.Engine
	store   *sqlite3.Store
	clock   *clockwork.FakeClock
	metrics *metrics.RankingMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	return newFixtureWithStore(t, func(store ranking.Store) ranking.Store { return store })
}

func newFixtureWithStore(t *testing.T, wrap func(store ranking.Store) ranking.Store) *fixture {
	t.Helper()

	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "agora.db") +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"

	db, err := sqlite3.NewDB(ctx, dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	require.NoError(t, sqlite3.MigrateUp(ctx, db))

	store := sqlite3.NewStore(db)
	clock := clockwork.NewFakeClockAt(epoch)
	rankingMetrics := metrics.NewRankingMetrics(prometheus.NewRegistry())

	return &fixture{
		engine:  ranking.NewEngine(wrap(store), clock, rankingMetrics),
		store:   store,
		clock:   clock,
		metrics: rankingMetrics,
	}
}

func as(userID string) context.Context {
	return authcontext.WithSubject(context.Background(), userID)
}

func postTarget(post *contents.Post) votes.Target {
	return votes.Target{Kind: votes.TargetKindPost, ID: post.ID}
}

func (f *fixture) createPost(t *testing.T, authorID string) *contents.Post {
	t.Helper()

	post, err := f.engine.CreatePost(as(authorID), "post by "+authorID)
	require.NoError(t, err)

	return post
}

func (f *fixture) reputation(t *testing.T, authorID string) int {
	t.Helper()

	score, err := f.engine.Reputation(context.Background(), authorID)
	require.NoError(t, err)

	return score
}

func (f *fixture) post(t *testing.T, postID string) *contents.Post {
	t.Helper()

	post, err := f.store.Posts().Find(context.Background(), postID)
	require.NoError(t, err)

	return post
}

func TestEngine_CastVote(t *testing.T) {
	t.Parallel()

	t.Run("up, flip down, withdraw", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")

		assert.Equal(t, 3, f.reputation(t, "alice"))

		result, err := f.engine.CastVote(as("bob"), postTarget(post), votes.DirectionUp)
		require.NoError(t, err)
		assert.Equal(t, votes.OpInsert, result.Op)
		assert.Equal(t, 1, result.NewTally)
		assert.Equal(t, votes.StateUp, result.VoterState)
		assert.Equal(t, 8, f.reputation(t, "alice"))

		result, err = f.engine.CastVote(as("bob"), postTarget(post), votes.DirectionDown)
		require.NoError(t, err)
		assert.Equal(t, votes.OpFlip, result.Op)
		assert.Equal(t, -1, result.NewTally)
		assert.Equal(t, votes.StateDown, result.VoterState)
		assert.Equal(t, 0, f.reputation(t, "alice"))

		result, err = f.engine.WithdrawVote(as("bob"), postTarget(post))
		require.NoError(t, err)
		assert.Equal(t, votes.OpDelete, result.Op)
		assert.Equal(t, 0, result.NewTally)
		assert.Equal(t, votes.StateNone, result.VoterState)
		assert.Equal(t, 5, f.reputation(t, "alice"))

		assert.Equal(t, 0, f.post(t, post.ID).VoteCount)
		assert.InDelta(t, 1.0, testutil.ToFloat64(f.metrics.VotesTotal.WithLabelValues("post", "flip")), 0)
	})

	t.Run("same direction twice toggles off", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")

		_, err := f.engine.CastVote(as("bob"), postTarget(post), votes.DirectionUp)
		require.NoError(t, err)

		result, err := f.engine.CastVote(as("bob"), postTarget(post), votes.DirectionUp)
		require.NoError(t, err)
		assert.Equal(t, votes.OpDelete, result.Op)
		assert.Equal(t, 0, result.NewTally)
		assert.Equal(t, votes.StateNone, result.VoterState)
		assert.Equal(t, 3, f.reputation(t, "alice"))

		_, err = f.store.Votes().Find(context.Background(), "bob", postTarget(post))
		notFoundErr := &votes.VoteNotFoundError{}
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("withdraw without a vote changes nothing", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")

		result, err := f.engine.WithdrawVote(as("bob"), postTarget(post))
		require.NoError(t, err)
		assert.Equal(t, votes.OpNone, result.Op)
		assert.Equal(t, 0, result.NewTally)
		assert.Equal(t, 3, f.reputation(t, "alice"))
	})

	t.Run("authors may vote on their own posts", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")

		result, err := f.engine.CastVote(as("alice"), postTarget(post), votes.DirectionUp)
		require.NoError(t, err)
		assert.Equal(t, 1, result.NewTally)
		assert.Equal(t, 8, f.reputation(t, "alice"))
	})

	t.Run("comment votes weigh one point", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")

		comment, err := f.engine.CreateComment(as("carol"), post.ID, "first", "")
		require.NoError(t, err)
		assert.Equal(t, 1, f.reputation(t, "carol"))

		result, err := f.engine.CastVote(as("bob"), votes.Target{Kind: votes.TargetKindComment, ID: comment.ID}, votes.DirectionUp)
		require.NoError(t, err)
		assert.Equal(t, 1, result.NewTally)
		assert.Equal(t, 2, f.reputation(t, "carol"))
		assert.Equal(t, 3, f.reputation(t, "alice"))
	})

	t.Run("voting refreshes the post hot score", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")

		_, err := f.engine.CastVote(as("bob"), postTarget(post), votes.DirectionUp)
		require.NoError(t, err)

		assert.InDelta(t, ranking.HotScore(1, 0, 0), f.post(t, post.ID).HotScore, 1e-9)
	})

	t.Run("anonymous actor is rejected", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")

		_, err := f.engine.CastVote(context.Background(), postTarget(post), votes.DirectionUp)
		require.ErrorIs(t, err, ranking.ErrAnonymousActor)

		_, err = f.engine.WithdrawVote(authcontext.WithSubject(context.Background(), authcontext.Anonymous), postTarget(post))
		require.ErrorIs(t, err, ranking.ErrAnonymousActor)
	})

	t.Run("invalid direction", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")

		_, err := f.engine.CastVote(as("bob"), postTarget(post), votes.Direction("sideways"))
		invalidDirectionErr := &votes.InvalidDirectionError{}
		require.ErrorAs(t, err, &invalidDirectionErr)
	})

	t.Run("invalid target kind", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.engine.CastVote(as("bob"), votes.Target{Kind: "user", ID: "alice"}, votes.DirectionUp)
		invalidKindErr := &votes.InvalidTargetKindError{}
		require.ErrorAs(t, err, &invalidKindErr)
	})

	t.Run("unknown post", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.engine.CastVote(as("bob"), votes.Target{Kind: votes.TargetKindPost, ID: "missing"}, votes.DirectionUp)
		notFoundErr := &contents.PostNotFoundError{}
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("removed post", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")

		require.NoError(t, f.engine.RemovePost(as("alice"), post.ID))

		_, err := f.engine.CastVote(as("bob"), postTarget(post), votes.DirectionUp)
		notFoundErr := &contents.PostNotFoundError{}
		require.ErrorAs(t, err, &notFoundErr)
	})
}

func TestEngine_CastVoteConcurrently(t *testing.T) {
	t.Parallel()

	t.Run("distinct voters all count", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")

		const voters = 20

		var wg sync.WaitGroup

		errs := make(chan error, voters)

		for i := range voters {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := f.engine.CastVote(as(fmt.Sprintf("voter-%d", i)), postTarget(post), votes.DirectionUp)
				errs <- err
			}()
		}

		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		assert.Equal(t, voters, f.post(t, post.ID).VoteCount)
		assert.Equal(t, 3+voters*ranking.PostVoteWeight, f.reputation(t, "alice"))
	})

	t.Run("one voter racing with itself keeps ledger and tally in step", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")

		const attempts = 9

		var wg sync.WaitGroup

		for range attempts {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, _ = f.engine.CastVote(as("bob"), postTarget(post), votes.DirectionUp)
			}()
		}

		wg.Wait()

		state, err := votes.NewService(f.store.Votes()).State(context.Background(), "bob", postTarget(post))
		require.NoError(t, err)

		tally := f.post(t, post.ID).VoteCount

		switch state {
		case votes.StateUp:
			assert.Equal(t, 1, tally)
			assert.Equal(t, 8, f.reputation(t, "alice"))
		case votes.StateNone:
			assert.Equal(t, 0, tally)
			assert.Equal(t, 3, f.reputation(t, "alice"))
		default:
			t.Fatalf("unexpected state %q", state)
		}
	})
}

// staleStore hands out vote repositories whose Find misses the stored vote a set number of
// times, the way a read racing another writer would.
type staleStore struct {
	ranking.Store

	staleReads atomic.Int32
}

func (store *staleStore) WithinTx(ctx context.Context, fn func(repos ranking.Repositories) error) error {
	return store.Store.WithinTx(ctx, func(repos ranking.Repositories) error {
		return fn(&staleRepositories{Repositories: repos, store: store})
	})
}

type staleRepositories struct {
	ranking.Repositories

	store *staleStore
}

func (repos *staleRepositories) Votes() votes.Repository {
	return &staleVoteRepository{Repository: repos.Repositories.Votes(), store: repos.store}
}

type staleVoteRepository struct {
	votes.Repository

	store *staleStore
}

func (repo *staleVoteRepository) Find(ctx context.Context, voterID string, target votes.Target) (*votes.Vote, error) {
	if repo.store.staleReads.Add(-1) >= 0 {
		return nil, &votes.VoteNotFoundError{VoterID: voterID, Target: target}
	}

	return repo.Repository.Find(ctx, voterID, target)
}

func TestEngine_CastVoteConflicts(t *testing.T) {
	t.Parallel()

	t.Run("duplicate insert converges on the stored vote", func(t *testing.T) {
		t.Parallel()

		stale := &staleStore{}
		f := newFixtureWithStore(t, func(store ranking.Store) ranking.Store {
			stale.Store = store

			return stale
		})

		post := f.createPost(t, "alice")

		_, err := f.engine.CastVote(as("bob"), postTarget(post), votes.DirectionUp)
		require.NoError(t, err)

		stale.staleReads.Store(1)

		result, err := f.engine.CastVote(as("bob"), postTarget(post), votes.DirectionUp)
		require.NoError(t, err)
		assert.Equal(t, votes.OpNone, result.Op)
		assert.Equal(t, 1, result.NewTally)
		assert.Equal(t, votes.StateUp, result.VoterState)
		assert.Equal(t, 8, f.reputation(t, "alice"))
		assert.InDelta(t, 1.0, testutil.ToFloat64(f.metrics.VoteConflictsTotal.WithLabelValues("post")), 0)
	})

	t.Run("duplicate insert returns the opposite stored vote", func(t *testing.T) {
		t.Parallel()

		stale := &staleStore{}
		f := newFixtureWithStore(t, func(store ranking.Store) ranking.Store {
			stale.Store = store

			return stale
		})

		post := f.createPost(t, "alice")

		_, err := f.engine.CastVote(as("bob"), postTarget(post), votes.DirectionDown)
		require.NoError(t, err)

		stale.staleReads.Store(1)

		result, err := f.engine.CastVote(as("bob"), postTarget(post), votes.DirectionUp)
		require.NoError(t, err)
		assert.Equal(t, votes.OpNone, result.Op)
		assert.Equal(t, -1, result.NewTally)
		assert.Equal(t, votes.StateDown, result.VoterState)
		assert.Equal(t, -1, f.post(t, post.ID).VoteCount)
		assert.Equal(t, 0, f.reputation(t, "alice"))
		assert.InDelta(t, 1.0, testutil.ToFloat64(f.metrics.VoteConflictsTotal.WithLabelValues("post")), 0)
	})

	t.Run("gives up after repeated conflicts", func(t *testing.T) {
		t.Parallel()

		stale := &staleStore{}
		f := newFixtureWithStore(t, func(store ranking.Store) ranking.Store {
			stale.Store = store

			return stale
		})

		post := f.createPost(t, "alice")

		_, err := f.engine.CastVote(as("bob"), postTarget(post), votes.DirectionDown)
		require.NoError(t, err)

		stale.staleReads.Store(100)

		_, err = f.engine.CastVote(as("bob"), postTarget(post), votes.DirectionUp)
		require.ErrorIs(t, err, ranking.ErrTooManyConflicts)

		assert.Equal(t, -1, f.post(t, post.ID).VoteCount)
		assert.Equal(t, 0, f.reputation(t, "alice"))
		assert.InDelta(t, 5.0, testutil.ToFloat64(f.metrics.VoteConflictsTotal.WithLabelValues("post")), 0)
	})
}

func TestEngine_Content(t *testing.T) {
	t.Parallel()

	t.Run("create and remove post", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")

		assert.Equal(t, "alice", post.AuthorID)
		assert.Equal(t, epoch, post.CreatedAt)
		assert.Equal(t, 3, f.reputation(t, "alice"))

		err := f.engine.RemovePost(as("bob"), post.ID)
		notAuthorErr := &ranking.NotAuthorError{}
		require.ErrorAs(t, err, &notAuthorErr)
		assert.Equal(t, "bob", notAuthorErr.ActorID)

		require.NoError(t, f.engine.RemovePost(as("alice"), post.ID))
		assert.Equal(t, 0, f.reputation(t, "alice"))

		_, err = contents.NewService(f.store.Posts()).GetPost(context.Background(), post.ID)
		notFoundErr := &contents.PostNotFoundError{}
		require.ErrorAs(t, err, &notFoundErr)

		err = f.engine.RemovePost(as("alice"), post.ID)
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("invalid content", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.engine.CreatePost(as("alice"), "   ")
		invalidContentErr := &ranking.InvalidContentError{}
		require.ErrorAs(t, err, &invalidContentErr)

		_, err = f.engine.CreatePost(context.Background(), "hello")
		require.ErrorIs(t, err, ranking.ErrAnonymousActor)
	})

	t.Run("comments and replies", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")
		other := f.createPost(t, "alice")

		root, err := f.engine.CreateComment(as("bob"), post.ID, "root", "")
		require.NoError(t, err)

		reply, err := f.engine.CreateComment(as("carol"), post.ID, "reply", root.ID)
		require.NoError(t, err)
		require.NotNil(t, reply.ReplyTo)
		assert.Equal(t, root.ID, *reply.ReplyTo)

		assert.Equal(t, 2, f.post(t, post.ID).CommentCount)
		assert.InDelta(t, ranking.HotScore(0, 2, 0), f.post(t, post.ID).HotScore, 1e-9)

		_, err = f.engine.CreateComment(as("carol"), other.ID, "misplaced", root.ID)
		invalidReplyErr := &ranking.InvalidReplyError{}
		require.ErrorAs(t, err, &invalidReplyErr)

		err = f.engine.RemoveComment(as("carol"), root.ID)
		notAuthorErr := &ranking.NotAuthorError{}
		require.ErrorAs(t, err, &notAuthorErr)

		require.NoError(t, f.engine.RemoveComment(as("bob"), root.ID))
		assert.Equal(t, 0, f.reputation(t, "bob"))
		assert.Equal(t, 1, f.post(t, post.ID).CommentCount)

		_, err = f.engine.CreateComment(as("carol"), post.ID, "late reply", root.ID)
		commentNotFoundErr := &discuss.CommentNotFoundError{}
		require.ErrorAs(t, err, &commentNotFoundErr)

		tree, err := discuss.NewService(f.store.Comments(), votes.NewService(f.store.Votes())).CommentTree(context.Background(), post.ID, "")
		require.NoError(t, err)
		require.Len(t, tree, 1)
		assert.True(t, tree[0].Removed)
		assert.Equal(t, discuss.TombstoneContent, tree[0].Content)
		require.Len(t, tree[0].Children, 1)
		assert.Equal(t, reply.ID, tree[0].Children[0].ID)
	})

	t.Run("comment on removed post", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")

		require.NoError(t, f.engine.RemovePost(as("alice"), post.ID))

		_, err := f.engine.CreateComment(as("bob"), post.ID, "too late", "")
		notFoundErr := &contents.PostNotFoundError{}
		require.ErrorAs(t, err, &notFoundErr)
	})
}

func TestEngine_ListFeed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	older := f.createPost(t, "alice")

	for _, voter := range []string{"bob", "carol", "dave"} {
		_, err := f.engine.CastVote(as(voter), postTarget(older), votes.DirectionUp)
		require.NoError(t, err)
	}

	f.clock.Advance(2 * time.Hour)

	newer := f.createPost(t, "bob")

	_, err := f.engine.CastVote(as("carol"), postTarget(newer), votes.DirectionUp)
	require.NoError(t, err)

	ids := func(posts []*contents.Post) []string {
		out := make([]string, 0, len(posts))
		for _, post := range posts {
			out = append(out, post.ID)
		}

		return out
	}

	t.Run("new", func(t *testing.T) {
		posts, err := f.engine.ListFeed(context.Background(), contents.FeedNew, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{newer.ID, older.ID}, ids(posts))
	})

	t.Run("top", func(t *testing.T) {
		posts, err := f.engine.ListFeed(context.Background(), contents.FeedTop, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{older.ID, newer.ID}, ids(posts))
	})

	t.Run("hot", func(t *testing.T) {
		// older: 3 / 4^1.8, newer: 1 / 2^1.8
		posts, err := f.engine.ListFeed(context.Background(), contents.FeedHot, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{newer.ID, older.ID}, ids(posts))

		assert.InDelta(t, ranking.HotScore(3, 0, 2*time.Hour), posts[1].HotScore, 1e-9)
		assert.InDelta(t, ranking.HotScore(3, 0, 2*time.Hour), f.post(t, older.ID).HotScore, 1e-9)
	})

	t.Run("limit", func(t *testing.T) {
		posts, err := f.engine.ListFeed(context.Background(), contents.FeedNew, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{newer.ID}, ids(posts))
	})

	t.Run("unknown feed", func(t *testing.T) {
		_, err := f.engine.ListFeed(context.Background(), contents.Feed("best"), 10)
		invalidFeedErr := &contents.InvalidFeedError{}
		require.ErrorAs(t, err, &invalidFeedErr)
	})
}

func TestEngine_ListFeedHotScoreCache(t *testing.T) {
	t.Parallel()

	upvote := func(t *testing.T, f *fixture, post *contents.Post, n int) {
		t.Helper()

		for i := range n {
			_, err := f.engine.CastVote(as(fmt.Sprintf("voter-%d", i)), postTarget(post), votes.DirectionUp)
			require.NoError(t, err)
		}
	}

	hot := func(t *testing.T, f *fixture) []*contents.Post {
		t.Helper()

		posts, err := f.engine.ListFeed(context.Background(), contents.FeedHot, 10)
		require.NoError(t, err)

		return posts
	}

	t.Run("small change is not written", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")
		upvote(t, f, post, 1)

		stored := f.post(t, post.ID).HotScore
		persisted := testutil.ToFloat64(f.metrics.HotScoreRecomputesTotal.WithLabelValues("persisted"))

		f.clock.Advance(5 * time.Minute)

		posts := hot(t, f)
		require.Len(t, posts, 1)
		assert.InDelta(t, ranking.HotScore(1, 0, 5*time.Minute), posts[0].HotScore, 1e-9)

		assert.InDelta(t, stored, f.post(t, post.ID).HotScore, 0)
		assert.InDelta(t, 1.0, testutil.ToFloat64(f.metrics.HotScoreRecomputesTotal.WithLabelValues("skipped")), 0)
		assert.InDelta(t, persisted, testutil.ToFloat64(f.metrics.HotScoreRecomputesTotal.WithLabelValues("persisted")), 0)
	})

	t.Run("large change is written", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.createPost(t, "alice")
		upvote(t, f, post, 3)

		persisted := testutil.ToFloat64(f.metrics.HotScoreRecomputesTotal.WithLabelValues("persisted"))

		f.clock.Advance(2 * time.Hour)

		hot(t, f)

		assert.InDelta(t, ranking.HotScore(3, 0, 2*time.Hour), f.post(t, post.ID).HotScore, 1e-9)
		assert.InDelta(t, persisted+1, testutil.ToFloat64(f.metrics.HotScoreRecomputesTotal.WithLabelValues("persisted")), 0)
		assert.InDelta(t, 0.0, testutil.ToFloat64(f.metrics.HotScoreRecomputesTotal.WithLabelValues("skipped")), 0)
	})

	t.Run("post past the window decays", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		old := f.createPost(t, "alice")
		upvote(t, f, old, 10)

		f.clock.Advance(25 * time.Hour)

		fresh := f.createPost(t, "bob")
		upvote(t, f, fresh, 1)

		require.Greater(t, f.post(t, old.ID).HotScore, f.post(t, fresh.ID).HotScore)

		posts := hot(t, f)
		require.Len(t, posts, 2)
		assert.Equal(t, fresh.ID, posts[0].ID)
		assert.Equal(t, old.ID, posts[1].ID)
		assert.InDelta(t, ranking.HotScore(10, 0, 25*time.Hour), posts[1].HotScore, 1e-9)

		assert.InDelta(t, ranking.HotScore(10, 0, 25*time.Hour), f.post(t, old.ID).HotScore, 1e-9)
	})
}
