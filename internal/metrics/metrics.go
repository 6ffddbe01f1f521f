package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommandsTotal tracks handled slash commands by command and outcome.
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memelord_commands_total",
			Help: "Slash commands handled, by command and status",
		},
		[]string{"command", "status"},
	)

	// SlackRequestsTotal tracks Slack Web API calls by method and outcome.
	SlackRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slack_api_requests_total",
			Help: "Slack Web API requests, by method and status",
		},
		[]string{"method", "status"},
	)

	// SlackRequestDuration tracks Slack Web API call latency in seconds.
	SlackRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slack_api_request_duration_seconds",
			Help:    "Slack Web API request duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method"},
	)
)

// ObserveSlackRequest records one Slack Web API call.
func ObserveSlackRequest(method string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	SlackRequestsTotal.WithLabelValues(method, status).Inc()
	SlackRequestDuration.WithLabelValues(method).Observe(seconds)
}
