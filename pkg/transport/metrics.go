package transport

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/scq-protocol/scq-go/pkg/wire"
)

// Request results.
const (
	resultOK        = "ok"
	resultTimeout   = "timeout"
	resultCancelled = "cancelled"
	resultClosed    = "closed"
	resultError     = "error"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scq_transport_requests_total",
			Help: "Total number of requests by command and result",
		},
		[]string{"command", "result"},
	)

	requestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scq_transport_request_duration_seconds",
			Help:    "Time from the first send of a request to its outcome",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"command"},
	)

	resendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scq_transport_resends_total",
			Help: "Total number of requests sent again after a timeout",
		},
		[]string{"command"},
	)

	unsolicitedPacketsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scq_transport_unsolicited_packets_total",
			Help: "Total number of inbound packets delivered without a pending request",
		},
	)

	droppedPacketsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scq_transport_dropped_packets_total",
			Help: "Total number of unsolicited packets dropped because the backlog was full",
		},
	)

	malformedPacketsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scq_transport_malformed_packets_total",
			Help: "Total number of inbound packets discarded as malformed",
		},
	)
)

func requestResult(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, ErrResponseTimeout):
		return resultTimeout
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resultCancelled
	case errors.Is(err, ErrSessionClosed):
		return resultClosed
	default:
		return resultError
	}
}

func observeRequest(command wire.Command, elapsed time.Duration, err error) {
	name := command.String()
	requestsTotal.WithLabelValues(name, requestResult(err)).Inc()
	requestDurationSeconds.WithLabelValues(name).Observe(elapsed.Seconds())
}
