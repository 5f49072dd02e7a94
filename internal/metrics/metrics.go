// Package metrics holds the Prometheus collectors of the chat server. They
// register on the default registry and are served by the HTTP transport at
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Transport metrics
	GRPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatroom_grpc_requests_total",
			Help: "Total gRPC requests",
		},
		[]string{"method", "code"},
	)

	GRPCRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatroom_grpc_request_duration_seconds",
			Help:    "gRPC request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatroom_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatroom_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatroom_users_registered_total",
			Help: "Total users registered",
		},
	)

	Logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatroom_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"result"}, // "success" or "failure"
	)

	MessagesPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatroom_messages_posted_total",
			Help: "Total messages accepted into the log",
		},
	)

	StoreFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatroom_store_failures_total",
			Help: "Operations that failed because the store was unavailable",
		},
		[]string{"op"},
	)
)
