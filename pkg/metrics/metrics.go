package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "api_http_requests_total", Help: "HTTP requests"},
		[]string{"method", "path", "status"},
	)
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "lottery_registrations_total", Help: "Registrations by outcome (created, reentry)"},
		[]string{"outcome"},
	)
	ReferralCreditsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "lottery_referral_credits_total", Help: "Referral ticket credits by result"},
		[]string{"result"},
	)
	DrawsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "lottery_draws_total", Help: "Draws executed"},
	)
	DrawPopulation = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lottery_draw_population",
			Help:    "Participants entered into a draw",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "lottery_notifications_total", Help: "Outbound notifications"},
		[]string{"channel", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		APIRequestsTotal, APIRequestDuration, RegistrationsTotal, ReferralCreditsTotal,
		DrawsTotal, DrawPopulation, NotificationsTotal,
	)
}

func Handler() http.Handler { return promhttp.Handler() }
