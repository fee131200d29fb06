package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	Slack         SlackConfig
	Scoring       ScoringConfig
	Auth          AuthConfig
	ProjectID     string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// ScoringConfig carries the overtime thresholds. A result counts as
// overtime when both sides reach the threshold for the match type. The
// beach threshold is awaiting product confirmation (20 vs 21), which is
// why it is configuration rather than a literal.
type ScoringConfig struct {
	IndoorOvertimeThreshold int
	BeachOvertimeThreshold  int
}

type AuthConfig struct {
	SessionTTLHours int
}
