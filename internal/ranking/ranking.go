// Package ranking derives leaderboard metrics from a stats snapshot.
// Everything here is a pure function: derived values are recomputed on
// every read and never persisted, so they cannot drift from the counters.
package ranking

import (
	"math"

	"github.com/vossvolley/tracker/internal/volley"
)

// MinRankedGames is how many completed matches a player needs in a season
// before a rank tier is assigned.
const MinRankedGames = 10

// RankUnranked is returned for players below MinRankedGames.
const RankUnranked = "Unranked"

// tiers maps mmr buckets of width 0.1 to tier names, lowest first. A
// player at or above the last bucket is Sensei.
var tiers = []string{
	"Iron I", "Iron II", "Iron III",
	"Bronze I", "Bronze II", "Bronze III",
	"Silver I", "Silver II", "Silver III",
	"Gold I", "Gold II", "Gold III",
	"Platinum I", "Platinum II", "Platinum III",
	"Diamond I", "Diamond II", "Diamond III",
	"Master", "Grandmaster",
}

const tierWidth = 0.1

// Derived holds the read-time projection of a PlayerSeasonStats record.
type Derived struct {
	Played     int     `json:"played"`
	Points     int     `json:"points"`
	WinRate    float64 `json:"winrate"`
	AvgPoints  float64 `json:"avg_points"`
	Efficiency float64 `json:"efficiency"`
	MMR        float64 `json:"mmr"`
	Rank       string  `json:"rank"`
}

// Derive computes every derived metric for one stats record. A regulation
// win is worth 2 points and an overtime loss 1, matching common standings
// conventions.
func Derive(stats volley.PlayerSeasonStats) Derived {
	d := Derived{
		Played: stats.Wins + stats.Losses + stats.OTL,
		Points: stats.Wins*2 + stats.OTL,
	}
	if d.Played > 0 {
		d.WinRate = float64(stats.Wins) / float64(d.Played)
		d.AvgPoints = float64(d.Points) / float64(d.Played)
	}
	if stats.Conceded > 0 {
		d.Efficiency = float64(stats.Scored) / float64(stats.Conceded)
	}
	d.MMR = d.AvgPoints * d.Efficiency
	d.Rank = Rank(d.MMR, d.Played)
	return d
}

// Rank buckets an mmr value into a named tier. Players with fewer than
// MinRankedGames completed matches stay Unranked regardless of mmr.
func Rank(mmr float64, played int) string {
	if played < MinRankedGames {
		return RankUnranked
	}
	idx := int(math.Floor(mmr / tierWidth))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(tiers) {
		return "Sensei"
	}
	return tiers[idx]
}
