package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contentgen_generation_runs_total",
		Help: "Caption generation runs by outcome",
	}, []string{"outcome"})

	reviewRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contentgen_review_runs_total",
		Help: "Review runs by outcome",
	}, []string{"outcome"})

	imageRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contentgen_image_runs_total",
		Help: "Image generation runs by provider and outcome",
	}, []string{"provider", "outcome"})

	providerCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "contentgen_provider_call_seconds",
		Help:    "Wall time of outbound provider calls",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	}, []string{"provider", "call"})
)

const (
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
	outcomeConflict = "conflict"
)
