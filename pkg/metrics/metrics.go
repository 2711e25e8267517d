package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	UploadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "meetings", Name: "uploads_total", Help: "Number of meeting recordings accepted for processing."},
	)
	TranscriptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "meetings", Name: "transcriptions_total", Help: "Number of finished transcriptions by outcome."},
		[]string{"outcome"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "meetings", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "meetings", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(UploadsTotal)
	reg.MustRegister(TranscriptionsTotal)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
