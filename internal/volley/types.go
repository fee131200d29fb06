package volley

// MatchType represents the kind of volleyball being played.
type MatchType string

const (
	// MatchTypeIndoor represents a regular six-a-side indoor match.
	MatchTypeIndoor MatchType = "indoor"
	// MatchTypeBeach represents a beach volleyball match.
	MatchTypeBeach MatchType = "beach"
)

// Valid reports whether the match type is one of the known values.
func (t MatchType) Valid() bool {
	return t == MatchTypeIndoor || t == MatchTypeBeach
}

// TeamColor identifies one of the two sides of a match.
type TeamColor string

const (
	TeamBlue TeamColor = "blue"
	TeamRed  TeamColor = "red"
)

// MatchStatus is derived from the score columns, never stored.
type MatchStatus string

const (
	// StatusDraft marks a match with assigned teams but no submitted score.
	StatusDraft MatchStatus = "draft"
	// StatusCompleted marks a match whose result has been submitted.
	StatusCompleted MatchStatus = "completed"
)

// Player represents a registered club member.
type Player struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Stats     []PlayerSeasonStats `json:"stats"`
	CreatedAt int64               `json:"created_at"`
	UpdatedAt int64               `json:"updated_at"`
}

// PlayerSeasonStats holds one player's counters for a (match type, season)
// pair. The store is the only writer; derived fields live in the ranking
// package and are computed on read.
type PlayerSeasonStats struct {
	PlayerID      string    `json:"player_id"`
	MatchType     MatchType `json:"match_type"`
	Season        int       `json:"season"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	OTL           int       `json:"otl"`
	Streak        int       `json:"streak"`
	LongestStreak int       `json:"longest_streak"`
	Scored        int       `json:"scored"`
	Conceded      int       `json:"conceded"`
}

// Participant links a player to one side of a match.
type Participant struct {
	PlayerID string    `json:"player_id"`
	Name     string    `json:"name"`
	Team     TeamColor `json:"team"`
}

// Match represents a volleyball match. Both score pointers are nil while the
// match is a draft and both are set once a result has been submitted;
// partial submission is impossible.
type Match struct {
	ID           string        `json:"id"`
	MatchType    MatchType     `json:"match_type"`
	Season       int           `json:"season"`
	BlueScore    *int          `json:"blue_score"`
	RedScore     *int          `json:"red_score"`
	Participants []Participant `json:"participants"`
	CreatedAt    int64         `json:"created_at"`
	UpdatedAt    int64         `json:"updated_at"`
}

// Status reports whether the match is still a draft.
func (m *Match) Status() MatchStatus {
	if m.BlueScore != nil && m.RedScore != nil {
		return StatusCompleted
	}
	return StatusDraft
}

// Winner derives the winning side of a completed match. Scores are compared
// with strict inequality, so an equal score resolves to red; the store logs
// a warning when that happens. Returns nil for drafts.
func (m *Match) Winner() *TeamColor {
	if m.Status() != StatusCompleted {
		return nil
	}
	winner := TeamRed
	if *m.BlueScore > *m.RedScore {
		winner = TeamBlue
	}
	return &winner
}

// IsOvertime reports whether both sides reached the overtime threshold for
// the match type. The thresholds are configuration, not literals.
func (m *Match) IsOvertime(threshold int) bool {
	if m.Status() != StatusCompleted {
		return false
	}
	return *m.BlueScore >= threshold && *m.RedScore >= threshold
}

// Team returns the participants on one side, in insertion order.
func (m *Match) Team(color TeamColor) []Participant {
	var side []Participant
	for _, p := range m.Participants {
		if p.Team == color {
			side = append(side, p)
		}
	}
	return side
}
