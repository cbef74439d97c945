package metrics

import "github.com/prometheus/client_golang/prometheus"

// RankingMetrics holds Prometheus metrics for votes, hot score refreshes and reputation.
type RankingMetrics struct {
	VotesTotal                 *prometheus.CounterVec
	VoteConflictsTotal         *prometheus.CounterVec
	VoteDuration               *prometheus.HistogramVec
	HotScoreRecomputesTotal    *prometheus.CounterVec
	ReputationAdjustmentsTotal *prometheus.CounterVec
}

func NewRankingMetrics(reg prometheus.Registerer) *RankingMetrics {
	m := &RankingMetrics{
		VotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Total number of applied vote transitions, by target kind and ledger operation.",
		}, []string{"kind", "op"}),
		VoteConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vote_conflicts_total",
			Help:      "Total number of vote attempts retried after a concurrent ledger change.",
		}, []string{"kind"}),
		VoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vote_duration_seconds",
			Help:      "Duration of vote processing in seconds, including retries.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"kind"}),
		HotScoreRecomputesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hot_score_recomputes_total",
			Help:      "Total number of hot score recomputations, by whether the result was persisted.",
		}, []string{"result"}),
		ReputationAdjustmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reputation_adjustments_total",
			Help:      "Total number of reputation adjustments, by triggering event.",
		}, []string{"event"}),
	}

	reg.MustRegister(
		m.VotesTotal,
		m.VoteConflictsTotal,
		m.VoteDuration,
		m.HotScoreRecomputesTotal,
		m.ReputationAdjustmentsTotal,
	)

	return m
}
