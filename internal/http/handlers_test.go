package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vossvolley/tracker/internal/auth"
	"github.com/vossvolley/tracker/internal/config"
	"github.com/vossvolley/tracker/internal/database"
	"github.com/vossvolley/tracker/internal/league"
	"github.com/vossvolley/tracker/internal/metrics"
	"github.com/vossvolley/tracker/internal/notifier"
	"github.com/vossvolley/tracker/internal/pubsub"
	"github.com/vossvolley/tracker/internal/volley"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, notif notifier.Notifier) (*Server, *pubsub.MockPubSubClient, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	cfg := config.Config{
		Scoring: config.ScoringConfig{IndoorOvertimeThreshold: 24, BeachOvertimeThreshold: 20},
	}

	store := league.New(db, league.Thresholds{Indoor: 24, Beach: 20})
	authSvc := auth.New(db, time.Hour)

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	pubsubMock := pubsub.NewMock("TEST")

	server := NewServer(store, authSvc, metricsSvc, metricsHandler, cfg, notif, pubsubMock)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
	}
	return server, pubsubMock, teardown
}

// bearerToken registers a test user and returns a valid session token.
func bearerToken(t *testing.T, s *Server) string {
	t.Helper()
	session, err := s.Auth.Register(fmt.Sprintf("tester-%d", time.Now().UnixNano()), "secret")
	require.NoError(t, err)
	return session.Token
}

func jsonRequest(t *testing.T, method, target string, body any, token string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func createPlayer(t *testing.T, s *Server, token, name string) {
	t.Helper()
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, jsonRequest(t, "POST", "/players", map[string]string{"name": name}, token))
	require.Equal(t, http.StatusCreated, rr.Code)
}

func createDraft(t *testing.T, s *Server, token string, blue, red []string) league.MatchResponse {
	t.Helper()
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, jsonRequest(t, "POST", "/matches", map[string]any{
		"match_type": "indoor",
		"blue_team":  blue,
		"red_team":   red,
	}, token))
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp league.MatchResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestAuthEndpoints(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	t.Run("register", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, jsonRequest(t, "POST", "/auth/register", map[string]string{
			"username": "anna", "password": "hunter2",
		}, ""))
		require.Equal(t, http.StatusCreated, rr.Code)

		var session auth.Session
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&session))
		assert.NotEmpty(t, session.Token)
	})

	t.Run("login", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, jsonRequest(t, "POST", "/auth/login", map[string]string{
			"username": "anna", "password": "hunter2",
		}, ""))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("login with bad password", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, jsonRequest(t, "POST", "/auth/login", map[string]string{
			"username": "anna", "password": "wrong",
		}, ""))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestCreatePlayerHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	token := bearerToken(t, server)

	t.Run("requires auth", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, jsonRequest(t, "POST", "/players", map[string]string{"name": "Anna"}, ""))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("creates player", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, jsonRequest(t, "POST", "/players", map[string]string{"name": "Anna"}, token))
		require.Equal(t, http.StatusCreated, rr.Code)

		var player volley.Player
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&player))
		assert.Equal(t, "Anna", player.Name)
		assert.NotEmpty(t, player.ID)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, jsonRequest(t, "POST", "/players", map[string]string{"name": "Anna"}, token))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, jsonRequest(t, "POST", "/players", map[string]string{"name": ""}, token))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetPlayerHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	token := bearerToken(t, server)
	createPlayer(t, server, token, "Anna")

	t.Run("found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, httptest.NewRequest("GET", "/players/Anna", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("not found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, httptest.NewRequest("GET", "/players/Ghost", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestCreateDraftHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	token := bearerToken(t, server)
	for _, name := range []string{"A", "B", "C", "D"} {
		createPlayer(t, server, token, name)
	}

	t.Run("creates draft", func(t *testing.T) {
		resp := createDraft(t, server, token, []string{"A", "B"}, []string{"C", "D"})
		assert.Equal(t, volley.StatusDraft, resp.Status)
		assert.Nil(t, resp.BlueScore)
		assert.Len(t, resp.BlueTeam, 2)
		assert.Len(t, resp.RedTeam, 2)
	})

	t.Run("missing players are listed", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, jsonRequest(t, "POST", "/matches", map[string]any{
			"match_type": "indoor",
			"blue_team":  []string{"A"},
			"red_team":   []string{"Ghost"},
		}, token))
		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Ghost")
	})
}

func TestSubmitResultHandler(t *testing.T) {
	server, pubsubMock, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	token := bearerToken(t, server)
	for _, name := range []string{"A", "B"} {
		createPlayer(t, server, token, name)
	}
	draft := createDraft(t, server, token, []string{"A"}, []string{"B"})

	t.Run("submits result and publishes event", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, jsonRequest(t, "PUT", "/matches/"+draft.ID+"/result", map[string]int{
			"blue_score": 25, "red_score": 20,
		}, token))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp league.MatchResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, volley.StatusCompleted, resp.Status)
		require.NotNil(t, resp.Winner)
		assert.Equal(t, volley.TeamBlue, *resp.Winner)

		require.Len(t, pubsubMock.SendMessageCalls, 1)
		assert.Equal(t, string(pubsub.EventNotifyResult), pubsubMock.SendMessageCalls[0].Topic)
	})

	t.Run("second submission conflicts", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, jsonRequest(t, "PUT", "/matches/"+draft.ID+"/result", map[string]int{
			"blue_score": 20, "red_score": 25,
		}, token))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("missing scores", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, jsonRequest(t, "PUT", "/matches/"+draft.ID+"/result", map[string]int{
			"blue_score": 25,
		}, token))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListMatchesHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	token := bearerToken(t, server)
	for _, name := range []string{"A", "B"} {
		createPlayer(t, server, token, name)
	}
	createDraft(t, server, token, []string{"A"}, []string{"B"})

	t.Run("lists drafts", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, httptest.NewRequest("GET", "/matches?status=draft", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp []league.MatchResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Len(t, resp, 1)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, httptest.NewRequest("GET", "/matches?status=bogus", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid from timestamp", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, httptest.NewRequest("GET", "/matches?from=yesterday", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestShuffleHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	t.Run("splits pool", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, jsonRequest(t, "POST", "/matches/shuffle", map[string]any{
			"players": []string{"A", "B", "C", "D"},
		}, ""))
		require.Equal(t, http.StatusOK, rr.Code)

		var teams struct {
			Blue []string `json:"blue"`
			Red  []string `json:"red"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&teams))
		assert.Len(t, teams.Blue, 2)
		assert.Len(t, teams.Red, 2)
	})

	t.Run("too few players", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, jsonRequest(t, "POST", "/matches/shuffle", map[string]any{
			"players": []string{"A"},
		}, ""))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLeaderboardHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	token := bearerToken(t, server)
	for _, name := range []string{"A", "B"} {
		createPlayer(t, server, token, name)
	}
	draft := createDraft(t, server, token, []string{"A"}, []string{"B"})
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, jsonRequest(t, "PUT", "/matches/"+draft.ID+"/result", map[string]int{
		"blue_score": 25, "red_score": 20,
	}, token))
	require.Equal(t, http.StatusOK, rr.Code)

	t.Run("returns ranked rows", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, httptest.NewRequest("GET", "/leaderboard?match_type=indoor", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var rows []league.LeaderboardRow
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "A", rows[0].PlayerName)
	})

	t.Run("invalid match type", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, httptest.NewRequest("GET", "/leaderboard?match_type=grass", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

// pushEnvelope wraps a payload the way a Pub/Sub push subscription does.
func pushEnvelope(t *testing.T, payload any) *bytes.Buffer {
	t.Helper()
	packed, err := msgpack.Marshal(payload)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]any{
		"subscription": "test-sub",
		"message": map[string]string{
			"data": base64.StdEncoding.EncodeToString(packed),
		},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestNotifyResultHandler(t *testing.T) {
	notif := notifier.NewMock()
	server, _, teardown := setupTestServer(t, notif)
	defer teardown()
	token := bearerToken(t, server)
	for _, name := range []string{"A", "B"} {
		createPlayer(t, server, token, name)
	}
	draft := createDraft(t, server, token, []string{"A"}, []string{"B"})
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, jsonRequest(t, "PUT", "/matches/"+draft.ID+"/result", map[string]int{
		"blue_score": 25, "red_score": 20,
	}, token))
	require.Equal(t, http.StatusOK, rr.Code)

	t.Run("sends notification", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/notify-result", pushEnvelope(t, pubsub.ResultEvent{MatchID: draft.ID}))
		server.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, notif.SendResultNotificationCalls, 1)
		assert.Equal(t, draft.ID, notif.SendResultNotificationCalls[0].ID)
	})

	t.Run("invalid envelope", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/notify-result", bytes.NewBufferString("not json"))
		server.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown match", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/notify-result", pushEnvelope(t, pubsub.ResultEvent{MatchID: "nope"}))
		server.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestNotifyLeaderboardHandler(t *testing.T) {
	notif := notifier.NewMock()
	server, _, teardown := setupTestServer(t, notif)
	defer teardown()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/notify-leaderboard", pushEnvelope(t, pubsub.LeaderboardEvent{MatchType: "indoor"}))
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, notif.SendLeaderboardCalls, 1)
}
