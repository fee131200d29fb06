package league

import (
	"sort"

	"github.com/vossvolley/tracker/internal/ranking"
	"github.com/vossvolley/tracker/internal/volley"
)

// BuildMatchResponse maps a match and the participants' current seasonal
// stats to the outbound representation. The per-player metrics are derived
// at read time, so a roster entry always reflects the stats as of the read,
// not as of the match.
func BuildMatchResponse(match *volley.Match, stats map[string]volley.PlayerSeasonStats, otThreshold int) MatchResponse {
	resp := MatchResponse{
		ID:         match.ID,
		MatchType:  match.MatchType,
		Season:     match.Season,
		BlueScore:  match.BlueScore,
		RedScore:   match.RedScore,
		Status:     match.Status(),
		Winner:     match.Winner(),
		IsOvertime: match.IsOvertime(otThreshold),
		CreatedAt:  match.CreatedAt,
		UpdatedAt:  match.UpdatedAt,
	}

	for _, p := range match.Participants {
		derived := ranking.Derive(stats[p.PlayerID])
		entry := RosterEntry{
			ID:         p.PlayerID,
			Name:       p.Name,
			AvgPoints:  derived.AvgPoints,
			Efficiency: derived.Efficiency,
		}
		switch p.Team {
		case volley.TeamBlue:
			resp.BlueTeam = append(resp.BlueTeam, entry)
		case volley.TeamRed:
			resp.RedTeam = append(resp.RedTeam, entry)
		}
	}
	return resp
}

// rankBoard fills in the derived metrics and orders the board by MMR,
// best first, with name as a stable tie-break.
func rankBoard(board []LeaderboardRow) []LeaderboardRow {
	for i := range board {
		board[i].Derived = ranking.Derive(board[i].PlayerSeasonStats)
	}
	sort.SliceStable(board, func(i, j int) bool {
		if board[i].MMR != board[j].MMR {
			return board[i].MMR > board[j].MMR
		}
		return board[i].PlayerName < board[j].PlayerName
	})
	return board
}
