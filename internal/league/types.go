package league

import (
	"database/sql"
	"sync"

	"github.com/vossvolley/tracker/internal/ranking"
	"github.com/vossvolley/tracker/internal/volley"
)

// store handles all database operations for the league.
type store struct {
	db *sql.DB
	mu sync.RWMutex
	ot Thresholds
}

// Thresholds holds the per-type overtime score thresholds. A completed
// match is overtime when both sides reached the threshold.
type Thresholds struct {
	Indoor int
	Beach  int
}

// For reports the threshold for a match type.
func (t Thresholds) For(matchType volley.MatchType) int {
	if matchType == volley.MatchTypeBeach {
		return t.Beach
	}
	return t.Indoor
}

// StatusFilter narrows ListMatches to drafts or completed matches.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterDraft     StatusFilter = "draft"
	FilterCompleted StatusFilter = "completed"
)

// LeaderboardRow pairs one player's raw seasonal counters with the derived
// metrics computed at read time.
type LeaderboardRow struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	volley.PlayerSeasonStats
	ranking.Derived
}

// RosterEntry is one player on a match response roster, carrying the
// derived per-player metrics at the time of the read.
type RosterEntry struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	AvgPoints  float64 `json:"avg_points"`
	Efficiency float64 `json:"efficiency"`
}

// MatchResponse is the outbound representation of a match.
type MatchResponse struct {
	ID         string             `json:"id"`
	MatchType  volley.MatchType   `json:"match_type"`
	Season     int                `json:"season"`
	BlueTeam   []RosterEntry      `json:"blue_team"`
	RedTeam    []RosterEntry      `json:"red_team"`
	BlueScore  *int               `json:"blue_score"`
	RedScore   *int               `json:"red_score"`
	Status     volley.MatchStatus `json:"status"`
	Winner     *volley.TeamColor  `json:"winner"`
	IsOvertime bool               `json:"is_overtime"`
	CreatedAt  int64              `json:"created_at"`
	UpdatedAt  int64              `json:"updated_at"`
}
