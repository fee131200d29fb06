package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventNotifyResult      EventType = "notify-result"
	EventNotifyLeaderboard EventType = "notify-leaderboard"
)

// ResultEvent is the payload published when a match result is submitted.
type ResultEvent struct {
	MatchID string `msgpack:"match_id"`
}

// LeaderboardEvent is the payload published to request a standings post.
type LeaderboardEvent struct {
	MatchType string `msgpack:"match_type"`
	Season    int    `msgpack:"season"`
}
