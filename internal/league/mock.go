package league

import (
	"sync"
	"time"

	"github.com/vossvolley/tracker/internal/volley"
)

// MockStore is a mock implementation of the LeagueStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreatePlayerFunc    func(name string) (*volley.Player, error)
	GetPlayerByNameFunc func(name string) (*volley.Player, error)
	ListPlayersFunc     func() ([]volley.Player, error)
	DeletePlayerFunc    func(playerID string) error
	CreateDraftFunc     func(matchType volley.MatchType, blueRoster, redRoster []string) (*volley.Match, error)
	SubmitResultFunc    func(matchID string, blueScore, redScore int) (*volley.Match, error)
	DeleteDraftFunc     func(matchID string) error
	GetMatchFunc        func(matchID string) (*volley.Match, error)
	ListMatchesFunc     func(filter StatusFilter, from, to *time.Time) ([]*volley.Match, error)
	SeasonStatsFunc     func(playerIDs []string, matchType volley.MatchType, season int) (map[string]volley.PlayerSeasonStats, error)
	LeaderboardFunc     func(matchType volley.MatchType, season int) ([]LeaderboardRow, error)

	// Call records
	SubmitResultCalls []SubmitResultCall
}

// SubmitResultCall holds the arguments for a call to SubmitResult.
type SubmitResultCall struct {
	MatchID   string
	BlueScore int
	RedScore  int
}

// NewMock creates a new mock LeagueStore.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) CreatePlayer(name string) (*volley.Player, error) {
	if m.CreatePlayerFunc != nil {
		return m.CreatePlayerFunc(name)
	}
	return &volley.Player{Name: name}, nil
}

func (m *MockStore) GetPlayerByName(name string) (*volley.Player, error) {
	if m.GetPlayerByNameFunc != nil {
		return m.GetPlayerByNameFunc(name)
	}
	return nil, &volley.NotFoundError{Resource: "player", Missing: []string{name}}
}

func (m *MockStore) ListPlayers() ([]volley.Player, error) {
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) DeletePlayer(playerID string) error {
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(playerID)
	}
	return nil
}

func (m *MockStore) CreateDraft(matchType volley.MatchType, blueRoster, redRoster []string) (*volley.Match, error) {
	if m.CreateDraftFunc != nil {
		return m.CreateDraftFunc(matchType, blueRoster, redRoster)
	}
	return &volley.Match{MatchType: matchType}, nil
}

func (m *MockStore) SubmitResult(matchID string, blueScore, redScore int) (*volley.Match, error) {
	m.mu.Lock()
	m.SubmitResultCalls = append(m.SubmitResultCalls, SubmitResultCall{MatchID: matchID, BlueScore: blueScore, RedScore: redScore})
	m.mu.Unlock()
	if m.SubmitResultFunc != nil {
		return m.SubmitResultFunc(matchID, blueScore, redScore)
	}
	return &volley.Match{ID: matchID, BlueScore: &blueScore, RedScore: &redScore}, nil
}

func (m *MockStore) DeleteDraft(matchID string) error {
	if m.DeleteDraftFunc != nil {
		return m.DeleteDraftFunc(matchID)
	}
	return nil
}

func (m *MockStore) GetMatch(matchID string) (*volley.Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, &volley.NotFoundError{Resource: "match"}
}

func (m *MockStore) ListMatches(filter StatusFilter, from, to *time.Time) ([]*volley.Match, error) {
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(filter, from, to)
	}
	return nil, nil
}

func (m *MockStore) SeasonStats(playerIDs []string, matchType volley.MatchType, season int) (map[string]volley.PlayerSeasonStats, error) {
	if m.SeasonStatsFunc != nil {
		return m.SeasonStatsFunc(playerIDs, matchType, season)
	}
	return map[string]volley.PlayerSeasonStats{}, nil
}

func (m *MockStore) Leaderboard(matchType volley.MatchType, season int) ([]LeaderboardRow, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(matchType, season)
	}
	return nil, nil
}
