package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var authOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "authkit_auth_operations_total",
	Help: "Authentication and account operations by outcome.",
}, []string{"operation", "outcome"})

// observe counts one finished operation by its response status.
func observe(operation string, status int) {
	authOperations.WithLabelValues(operation, outcome(status)).Inc()
}

func outcome(status int) string {
	switch {
	case status == http.StatusAccepted:
		return "delivery_failed"
	case status < 300:
		return "success"
	case status < 500:
		return "rejected"
	default:
		return "error"
	}
}
