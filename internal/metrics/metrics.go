// Package metrics exposes prometheus counters for the auth flows.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Successful authentications by login method.",
	}, []string{"method"})

	LoginFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_failures_total",
		Help: "Failed authentications by reason.",
	}, []string{"reason"})

	HandshakesStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_handshakes_started_total",
		Help: "OAuth handshakes initiated.",
	})

	HandshakeFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_handshake_failures_total",
		Help: "OAuth handshakes aborted, by stage.",
	}, []string{"stage"})
)

// Handler serves the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
