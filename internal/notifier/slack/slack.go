package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
	"github.com/vossvolley/tracker/internal/league"
	"github.com/vossvolley/tracker/internal/metrics"
	"github.com/vossvolley/tracker/internal/notifier"
	"github.com/vossvolley/tracker/internal/volley"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendResultNotification posts a completed match to the configured channel.
func (s *Notifier) SendResultNotification(match *league.MatchResponse, dryRun bool) error {
	msg := s.formatResultNotification(match)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendLeaderboard posts the seasonal standings to the configured channel.
func (s *Notifier) SendLeaderboard(rows []league.LeaderboardRow, dryRun bool) error {
	msg := s.formatLeaderboard(rows)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func rosterNames(entries []league.RosterEntry) string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return strings.Join(names, " & ")
}

// formatResultNotification creates the Slack message for a finished match using Block Kit.
func (s *Notifier) formatResultNotification(match *league.MatchResponse) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏐 Match finished! 🏐", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s volleyball, season %d", match.MatchType, match.Season)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, false, false), nil, nil))

	if match.BlueScore != nil && match.RedScore != nil {
		winners := rosterNames(match.BlueTeam)
		if match.Winner != nil && *match.Winner == volley.TeamRed {
			winners = rosterNames(match.RedTeam)
		}

		resultHeader := fmt.Sprintf("Result: %s won! 🏆", winners)
		scoreFields := []*slack.TextBlockObject{
			slack.NewTextBlockObject("plain_text", fmt.Sprintf("• %s: %d", rosterNames(match.BlueTeam), *match.BlueScore), true, false),
			slack.NewTextBlockObject("plain_text", fmt.Sprintf("• %s: %d", rosterNames(match.RedTeam), *match.RedScore), true, false),
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultHeader, true, false), scoreFields, nil))

		if match.IsOvertime {
			blocks = append(blocks, slack.NewContextBlock("",
				slack.NewTextBlockObject("plain_text", "Decided in overtime!", true, false)))
		}
	} else {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Result: No scores reported.", true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the seasonal standings.
func (s *Notifier) formatLeaderboard(rows []league.LeaderboardRow) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Season Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(rows) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No stats available yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, row := range rows {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s [%s]\n> Points: %d | Win %%: %.1f%% (%d/%d) | MMR: %.2f",
			rank,
			medal,
			row.PlayerName,
			row.Rank,
			row.Points,
			row.WinRate*100,
			row.Wins,
			row.Played,
			row.MMR,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
