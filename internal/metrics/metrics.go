// Package metrics defines the portal's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login outcome label values.
const (
	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultLocked  = "locked"
	ResultError   = "error"
)

// Metrics aggregates the portal's collectors.
type Metrics struct {
	LoginAttempts *prometheus.CounterVec
	Registrations prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "member_portal_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"result"}),
		Registrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "member_portal_registrations_total",
			Help: "Completed member registrations.",
		}),
	}
}
