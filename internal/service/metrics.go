package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
)

// Metric result labels.
const (
	resultSuccess  = "success"
	resultRejected = "rejected"
	resultError    = "error"
	resultHit      = "hit"
	resultMiss     = "miss"

	actionUnknown = "unknown"
)

var (
	// SwapTransitions counts lifecycle operations by action and outcome.
	// "rejected" means a guard refused the operation.
	SwapTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_swap_transitions_total",
			Help: "Total number of swap request lifecycle operations",
		},
		[]string{"action", "result"},
	)

	FeedbackSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_feedback_submissions_total",
			Help: "Total number of feedback submissions",
		},
		[]string{"result"},
	)

	RatingCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_rating_cache_requests_total",
			Help: "Total number of rating cache lookups",
		},
		[]string{"result"},
	)
)

// actionLabel keeps the action label set closed; the action arrives from the
// request path.
func actionLabel(action domain.Action) string {
	if _, ok := domain.Transitions()[action]; ok {
		return string(action)
	}
	return actionUnknown
}
