package http

import (
	"net/http"

	"github.com/vossvolley/tracker/internal/auth"
	"github.com/vossvolley/tracker/internal/config"
	"github.com/vossvolley/tracker/internal/league"
	"github.com/vossvolley/tracker/internal/metrics"
	"github.com/vossvolley/tracker/internal/notifier"
	"github.com/vossvolley/tracker/internal/pubsub"
)

type Server struct {
	Store          league.LeagueStore
	Auth           auth.AuthService
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
