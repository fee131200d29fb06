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

func NewServer(store league.LeagueStore, authSvc auth.AuthService, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Auth:           authSvc,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Mutating endpoints additionally go through the auth middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("POST /auth/register", Chain(s.RegisterHandler(), paramsMiddleware))
	s.Router.Handle("POST /auth/login", Chain(s.LoginHandler(), paramsMiddleware))

	s.Router.Handle("POST /players", Chain(s.CreatePlayerHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("GET /players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{name}", Chain(s.GetPlayerHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /players/{id}", Chain(s.DeletePlayerHandler(), paramsMiddleware, s.authMiddleware))

	s.Router.Handle("POST /matches", Chain(s.CreateDraftHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("POST /matches/shuffle", Chain(s.ShuffleHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("PUT /matches/{id}/result", Chain(s.SubmitResultHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("DELETE /matches/{id}", Chain(s.DeleteMatchHandler(), paramsMiddleware, s.authMiddleware))

	s.Router.Handle("GET /leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))

	// Pub/Sub push endpoints.
	s.Router.Handle("POST /notify-result", Chain(s.NotifyResultHandler(), paramsMiddleware))
	s.Router.Handle("POST /notify-leaderboard", Chain(s.NotifyLeaderboardHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
