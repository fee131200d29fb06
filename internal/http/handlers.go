package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vossvolley/tracker/internal/auth"
	"github.com/vossvolley/tracker/internal/league"
	"github.com/vossvolley/tracker/internal/matchmaking"
	"github.com/vossvolley/tracker/internal/pubsub"
	"github.com/vossvolley/tracker/internal/volley"
)

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var validation *volley.ValidationError
	var notFound *volley.NotFoundError
	var conflict *volley.ConflictError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &conflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

// matchResponse loads the roster stats and builds the outbound match payload.
func (s *Server) matchResponse(match *volley.Match) (league.MatchResponse, error) {
	ids := make([]string, len(match.Participants))
	for i, p := range match.Participants {
		ids[i] = p.PlayerID
	}

	stats, err := s.Store.SeasonStats(ids, match.MatchType, match.Season)
	if err != nil {
		return league.MatchResponse{}, err
	}

	threshold := s.Cfg.Scoring.IndoorOvertimeThreshold
	if match.MatchType == volley.MatchTypeBeach {
		threshold = s.Cfg.Scoring.BeachOvertimeThreshold
	}
	return league.BuildMatchResponse(match, stats, threshold), nil
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		session, err := s.Auth.Register(req.Username, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, session)
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		session, err := s.Auth.Login(req.Username, req.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, session)
	}
}

func (s *Server) CreatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		player, err := s.Store.CreatePlayer(req.Name)
		if err != nil {
			writeError(w, err)
			return
		}

		s.Metrics.IncPlayersRegistered()
		log.Info("Player registered", "name", player.Name, "id", player.ID)
		respondJSON(w, http.StatusCreated, player)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.ListPlayers()
		if err != nil {
			writeError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, players)
	}
}

func (s *Server) GetPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := s.Store.GetPlayerByName(r.PathValue("name"))
		if err != nil {
			writeError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, player)
	}
}

func (s *Server) DeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Store.DeletePlayer(r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) CreateDraftHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MatchType volley.MatchType `json:"match_type"`
			BlueTeam  []string         `json:"blue_team"`
			RedTeam   []string         `json:"red_team"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		match, err := s.Store.CreateDraft(req.MatchType, req.BlueTeam, req.RedTeam)
		if err != nil {
			writeError(w, err)
			return
		}

		s.Metrics.IncDraftsCreated()
		resp, err := s.matchResponse(match)
		if err != nil {
			writeError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, resp)
	}
}

func (s *Server) SubmitResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			BlueScore *int `json:"blue_score"`
			RedScore  *int `json:"red_score"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.BlueScore == nil || req.RedScore == nil {
			http.Error(w, "Both blue_score and red_score are required", http.StatusBadRequest)
			return
		}

		start := time.Now()
		match, err := s.Store.SubmitResult(r.PathValue("id"), *req.BlueScore, *req.RedScore)
		if err != nil {
			writeError(w, err)
			return
		}
		s.Metrics.IncResultsSubmitted()
		s.Metrics.ObserveResultDuration(time.Since(start).Seconds())

		// The stats are committed at this point. Notification delivery is
		// asynchronous and must not fail the submission.
		if err := s.pubsub.SendMessage(pubsub.EventNotifyResult, pubsub.ResultEvent{MatchID: match.ID}); err != nil {
			log.Error("Failed to publish result event", "error", err, "matchID", match.ID)
		}

		resp, err := s.matchResponse(match)
		if err != nil {
			writeError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := s.Store.GetMatch(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}

		resp, err := s.matchResponse(match)
		if err != nil {
			writeError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := league.FilterAll
		switch r.URL.Query().Get("status") {
		case "draft":
			filter = league.FilterDraft
		case "completed":
			filter = league.FilterCompleted
		case "", "all":
		default:
			http.Error(w, "Invalid status filter", http.StatusBadRequest)
			return
		}

		var from, to *time.Time
		if v := r.URL.Query().Get("from"); v != "" {
			parsed, err := time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, "Invalid 'from' timestamp", http.StatusBadRequest)
				return
			}
			from = &parsed
		}
		if v := r.URL.Query().Get("to"); v != "" {
			parsed, err := time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, "Invalid 'to' timestamp", http.StatusBadRequest)
				return
			}
			to = &parsed
		}

		matches, err := s.Store.ListMatches(filter, from, to)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]league.MatchResponse, 0, len(matches))
		for _, match := range matches {
			mr, err := s.matchResponse(match)
			if err != nil {
				writeError(w, err)
				return
			}
			resp = append(resp, mr)
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Store.DeleteDraft(r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ShuffleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Players []string `json:"players"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if len(req.Players) < 2 {
			writeError(w, volley.NewValidationError("at least two players are required for a shuffle"))
			return
		}

		respondJSON(w, http.StatusOK, matchmaking.Shuffle(req.Players))
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchType := volley.MatchTypeIndoor
		if v := r.URL.Query().Get("match_type"); v != "" {
			matchType = volley.MatchType(v)
			if !matchType.Valid() {
				http.Error(w, "Invalid match type", http.StatusBadRequest)
				return
			}
		}

		season := time.Now().UTC().Year()
		if v := r.URL.Query().Get("season"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "Invalid season", http.StatusBadRequest)
				return
			}
			season = parsed
		}

		rows, err := s.Store.Leaderboard(matchType, season)
		if err != nil {
			writeError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, rows)
	}
}

// decodePushMessage unwraps a Pub/Sub push envelope and returns the raw
// MessagePack payload.
func decodePushMessage(r *http.Request) ([]byte, error) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	log.Debug("Received push message", "body", string(bodyBytes))

	var pubsubMsg struct {
		Subscription string `json:"subscription"`
		Message      struct {
			Data string `json:"data"` // base64-encoded message payload
		} `json:"message"`
	}
	if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wrapper JSON: %w", err)
	}

	rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 data: %w", err)
	}
	return rawData, nil
}

func (s *Server) NotifyResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := decodePushMessage(r)
		if err != nil {
			log.Error("Invalid push message", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)

		var event pubsub.ResultEvent
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		match, err := s.Store.GetMatch(event.MatchID)
		if err != nil {
			writeError(w, err)
			return
		}
		resp, err := s.matchResponse(match)
		if err != nil {
			writeError(w, err)
			return
		}

		if err := s.Notifier.SendResultNotification(&resp, isDryRun); err != nil {
			log.Error("Failed to notify result", "error", err, "matchID", event.MatchID)
			http.Error(w, "Failed to notify result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) NotifyLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := decodePushMessage(r)
		if err != nil {
			log.Error("Invalid push message", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)

		var event pubsub.LeaderboardEvent
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		matchType := volley.MatchType(event.MatchType)
		if !matchType.Valid() {
			http.Error(w, "Invalid match type", http.StatusBadRequest)
			return
		}
		season := event.Season
		if season == 0 {
			season = time.Now().UTC().Year()
		}

		rows, err := s.Store.Leaderboard(matchType, season)
		if err != nil {
			writeError(w, err)
			return
		}

		if err := s.Notifier.SendLeaderboard(rows, isDryRun); err != nil {
			log.Error("Failed to notify leaderboard", "error", err)
			http.Error(w, "Failed to notify leaderboard", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
