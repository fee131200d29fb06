package notifier

import (
	"github.com/vossvolley/tracker/internal/league"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For completed matches
	SendResultNotification(match *league.MatchResponse, dryRun bool) error
	// For seasonal standings
	SendLeaderboard(rows []league.LeaderboardRow, dryRun bool) error
}
