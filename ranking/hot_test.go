package ranking_test

import (
	"testing"
	"time"

	"github.com/nasermirzaei89/agora/ranking"
	"github.com/stretchr/testify/assert"
)

func TestHotScore(t *testing.T) {
	t.Parallel()

	t.Run("fresh post", func(t *testing.T) {
		t.Parallel()

		// (10 + 0.5*5) / 2^1.8
		assert.InDelta(t, 3.59, ranking.HotScore(10, 5, 0), 0.01)
	})

	t.Run("two days later", func(t *testing.T) {
		t.Parallel()

		fresh := ranking.HotScore(10, 5, 0)
		old := ranking.HotScore(10, 5, 48*time.Hour)

		assert.InDelta(t, 0.01, old, 0.005)
		assert.Greater(t, fresh/old, 100.0)
	})

	t.Run("decays monotonically", func(t *testing.T) {
		t.Parallel()

		previous := ranking.HotScore(3, 1, 0)

		for hours := 1; hours <= 72; hours++ {
			current := ranking.HotScore(3, 1, time.Duration(hours)*time.Hour)
			assert.Less(t, current, previous, "age %dh", hours)

			previous = current
		}
	})

	t.Run("negative age counts as zero", func(t *testing.T) {
		t.Parallel()

		assert.InDelta(t, ranking.HotScore(4, 2, 0), ranking.HotScore(4, 2, -time.Hour), 1e-9)
	})

	t.Run("net downvoted post scores negative", func(t *testing.T) {
		t.Parallel()

		assert.Less(t, ranking.HotScore(-3, 0, time.Hour), 0.0)
	})

	t.Run("no activity scores zero", func(t *testing.T) {
		t.Parallel()

		assert.Zero(t, ranking.HotScore(0, 0, time.Hour))
	})
}
