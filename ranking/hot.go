package ranking

import (
	"math"
	"time"
)

const (
	Gravity = 1.8
	// HotWindow is how long after creation a post's hot score is refreshed on feed reads.
	HotWindow = 24 * time.Hour
	// HotScoreEpsilon is the smallest change a feed read persists.
	HotScoreEpsilon = 0.1
)

// HotScore decays (votes + comments/2) with age in hours. Negative ages count as zero.
func HotScore(voteCount, commentCount int, age time.Duration) float64 {
	ageHours := max(age.Hours(), 0)

	return (float64(voteCount) + 0.5*float64(commentCount)) / math.Pow(ageHours+2, Gravity)
}
