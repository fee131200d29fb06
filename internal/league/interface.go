package league

import (
	"time"

	"github.com/vossvolley/tracker/internal/volley"
)

// LeagueStore defines the interface for interacting with the league's data.
type LeagueStore interface {
	// Player registry.
	CreatePlayer(name string) (*volley.Player, error)
	GetPlayerByName(name string) (*volley.Player, error)
	ListPlayers() ([]volley.Player, error)
	DeletePlayer(playerID string) error

	// Match draft/result engine.
	CreateDraft(matchType volley.MatchType, blueRoster, redRoster []string) (*volley.Match, error)
	SubmitResult(matchID string, blueScore, redScore int) (*volley.Match, error)
	DeleteDraft(matchID string) error
	GetMatch(matchID string) (*volley.Match, error)
	ListMatches(filter StatusFilter, from, to *time.Time) ([]*volley.Match, error)

	// Read-side projections.
	SeasonStats(playerIDs []string, matchType volley.MatchType, season int) (map[string]volley.PlayerSeasonStats, error)
	Leaderboard(matchType volley.MatchType, season int) ([]LeaderboardRow, error)
}
