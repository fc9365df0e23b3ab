package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PostsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_created_total",
			Help: "Total number of posts created",
		},
	)

	PostsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_updated_total",
			Help: "Total number of post content updates",
		},
	)

	PostVisibilityChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_visibility_changes_total",
			Help: "Total number of post visibility changes",
		},
		[]string{"published"},
	)

	OwnershipDenied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ownership_denied_total",
			Help: "Total number of post mutations denied by the ownership check",
		},
	)
)
