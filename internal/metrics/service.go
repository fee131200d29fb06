package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		PlayersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_players_registered_total",
			Help: "The total number of players registered.",
		}),
		DraftsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_match_drafts_created_total",
			Help: "The total number of match drafts created.",
		}),
		ResultsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_match_results_submitted_total",
			Help: "The total number of match results submitted.",
		}),
		ResultDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "volley_result_processing_duration_seconds",
			Help:    "The duration of individual result submissions.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_notifications_sent_total",
			Help: "The total number of result notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_notifications_failed_total",
			Help: "The total number of result notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "volley_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.PlayersRegistered,
		s.DraftsCreated,
		s.ResultsSubmitted,
		s.ResultDuration,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncPlayersRegistered() {
	s.PlayersRegistered.Inc()
}

func (s *Service) IncDraftsCreated() {
	s.DraftsCreated.Inc()
}

func (s *Service) IncResultsSubmitted() {
	s.ResultsSubmitted.Inc()
}

func (s *Service) ObserveResultDuration(duration float64) {
	s.ResultDuration.Observe(duration)
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
