package league

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vossvolley/tracker/internal/volley"
)

// New creates a new LeagueStore.
func New(db *sql.DB, ot Thresholds) LeagueStore {
	return &store{
		db: db,
		ot: ot,
	}
}

func (s *store) CreatePlayer(name string) (*volley.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, volley.NewValidationError("player name must not be empty")
	}

	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE name = ?)", name).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check player name: %w", err)
	}
	if exists {
		return nil, &volley.ConflictError{Reason: fmt.Sprintf("player %q already exists", name)}
	}

	now := time.Now().Unix()
	player := &volley.Player{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.Exec("INSERT INTO players (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		player.ID, player.Name, player.CreatedAt, player.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}
	log.Info("Registered new player", "playerID", player.ID, "name", player.Name)
	return player, nil
}

func (s *store) GetPlayerByName(name string) (*volley.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var player volley.Player
	err := s.db.QueryRow("SELECT id, name, created_at, updated_at FROM players WHERE name = ?", name).
		Scan(&player.ID, &player.Name, &player.CreatedAt, &player.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, &volley.NotFoundError{Resource: "player", Missing: []string{name}}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query player: %w", err)
	}

	stats, err := s.statsForPlayer(player.ID)
	if err != nil {
		return nil, err
	}
	player.Stats = stats
	return &player, nil
}

func (s *store) ListPlayers() ([]volley.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, created_at, updated_at FROM players ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []volley.Player
	for rows.Next() {
		var p volley.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range players {
		stats, err := s.statsForPlayer(players[i].ID)
		if err != nil {
			return nil, err
		}
		players[i].Stats = stats
	}
	return players, nil
}

func (s *store) statsForPlayer(playerID string) ([]volley.PlayerSeasonStats, error) {
	rows, err := s.db.Query(`
		SELECT player_id, match_type, season, wins, losses, otl, streak, longest_streak, scored, conceded
		FROM player_stats WHERE player_id = ?
		ORDER BY season DESC, match_type`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player stats: %w", err)
	}
	defer rows.Close()

	var stats []volley.PlayerSeasonStats
	for rows.Next() {
		var st volley.PlayerSeasonStats
		if err := rows.Scan(&st.PlayerID, &st.MatchType, &st.Season, &st.Wins, &st.Losses, &st.OTL,
			&st.Streak, &st.LongestStreak, &st.Scored, &st.Conceded); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// DeletePlayer removes a player and cascades their seasonal stats.
// Players referenced by any match, draft or completed, cannot be deleted:
// completed matches are immutable history and drafts must be resolved first.
func (s *store) DeletePlayer(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check player: %w", err)
	}
	if !exists {
		return &volley.NotFoundError{Resource: "player"}
	}

	var completed, drafts bool
	err := s.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM match_players mp JOIN matches m ON mp.match_id = m.id
			WHERE mp.player_id = ? AND m.blue_score IS NOT NULL
		), EXISTS(
			SELECT 1 FROM match_players mp JOIN matches m ON mp.match_id = m.id
			WHERE mp.player_id = ? AND m.blue_score IS NULL
		)`, playerID, playerID).Scan(&completed, &drafts)
	if err != nil {
		return fmt.Errorf("failed to check player matches: %w", err)
	}
	if completed {
		return &volley.ConflictError{Reason: "player has completed matches and cannot be deleted"}
	}
	if drafts {
		return &volley.ConflictError{Reason: "player is part of an open draft"}
	}

	if _, err := s.db.Exec("DELETE FROM players WHERE id = ?", playerID); err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	log.Info("Deleted player", "playerID", playerID)
	return nil
}

// CreateDraft validates the rosters and persists a match with no score,
// together with one participant row per listed player. All-or-nothing: if
// any named player is unknown, nothing is persisted.
func (s *store) CreateDraft(matchType volley.MatchType, blueRoster, redRoster []string) (*volley.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !matchType.Valid() {
		return nil, volley.NewValidationError("unknown match type %q", matchType)
	}
	if len(blueRoster) == 0 || len(redRoster) == 0 {
		return nil, volley.NewValidationError("both teams must have at least one player")
	}

	names := make(map[string]struct{}, len(blueRoster)+len(redRoster))
	for _, name := range append(append([]string{}, blueRoster...), redRoster...) {
		names[name] = struct{}{}
	}
	if len(names) != len(blueRoster)+len(redRoster) {
		return nil, volley.NewValidationError("players cannot appear on both teams or twice on one team")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	idsByName, err := s.lookupPlayerIDs(tx, names)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if len(idsByName) != len(names) {
		tx.Rollback()
		var missing []string
		for name := range names {
			if _, ok := idsByName[name]; !ok {
				missing = append(missing, name)
			}
		}
		sort.Strings(missing)
		return nil, &volley.NotFoundError{Resource: "players", Missing: missing}
	}

	now := time.Now()
	match := &volley.Match{
		ID:        uuid.NewString(),
		MatchType: matchType,
		Season:    now.UTC().Year(),
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
	}
	_, err = tx.Exec(`
		INSERT INTO matches (id, match_type, season, blue_score, red_score, created_at, updated_at)
		VALUES (?, ?, ?, NULL, NULL, ?, ?)`,
		match.ID, match.MatchType, match.Season, match.CreatedAt, match.UpdatedAt)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to insert match: %w", err)
	}

	addParticipants := func(roster []string, team volley.TeamColor) error {
		for _, name := range roster {
			_, err := tx.Exec("INSERT INTO match_players (match_id, player_id, team) VALUES (?, ?, ?)",
				match.ID, idsByName[name], team)
			if err != nil {
				return fmt.Errorf("failed to insert participant %s: %w", name, err)
			}
			match.Participants = append(match.Participants, volley.Participant{
				PlayerID: idsByName[name],
				Name:     name,
				Team:     team,
			})
		}
		return nil
	}
	if err := addParticipants(blueRoster, volley.TeamBlue); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := addParticipants(redRoster, volley.TeamRed); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit draft: %w", err)
	}
	log.Info("Created match draft", "matchID", match.ID, "type", match.MatchType,
		"blue", len(blueRoster), "red", len(redRoster))
	return match, nil
}

func (s *store) lookupPlayerIDs(tx *sql.Tx, names map[string]struct{}) (map[string]string, error) {
	placeholders := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	for name := range names {
		placeholders = append(placeholders, "?")
		args = append(args, name)
	}
	rows, err := tx.Query(
		fmt.Sprintf("SELECT id, name FROM players WHERE name IN (%s)", strings.Join(placeholders, ",")),
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to look up players: %w", err)
	}
	defer rows.Close()

	idsByName := make(map[string]string, len(names))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		idsByName[name] = id
	}
	return idsByName, rows.Err()
}

// SubmitResult records the final score of a match exactly once and updates
// every participant's seasonal counters in the same transaction. Concurrent
// submissions for the same match serialize on the store lock, so the
// already-submitted check and the score write act as one step.
func (s *store) SubmitResult(matchID string, blueScore, redScore int) (*volley.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if blueScore < 0 || redScore < 0 {
		return nil, volley.NewValidationError("scores must be non-negative")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	var (
		matchType       volley.MatchType
		season          int
		curBlue, curRed sql.NullInt64
	)
	err = tx.QueryRow("SELECT match_type, season, blue_score, red_score FROM matches WHERE id = ?", matchID).
		Scan(&matchType, &season, &curBlue, &curRed)
	if err == sql.ErrNoRows {
		tx.Rollback()
		return nil, &volley.NotFoundError{Resource: "match"}
	}
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to query match: %w", err)
	}
	if curBlue.Valid || curRed.Valid {
		tx.Rollback()
		return nil, &volley.ConflictError{Reason: "match result already submitted"}
	}

	winner := volley.TeamRed
	if blueScore > redScore {
		winner = volley.TeamBlue
	}
	if blueScore == redScore {
		// Inherited tie-break: strict comparison hands equal scores to red.
		log.Warn("Tie score submitted, recording red as winner", "matchID", matchID, "score", blueScore)
	}

	threshold := s.ot.For(matchType)
	isOvertime := blueScore >= threshold && redScore >= threshold

	rows, err := tx.Query("SELECT player_id, team FROM match_players WHERE match_id = ?", matchID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	type participant struct {
		playerID string
		team     volley.TeamColor
	}
	var participants []participant
	for rows.Next() {
		var p participant
		if err := rows.Scan(&p.playerID, &p.team); err != nil {
			rows.Close()
			tx.Rollback()
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, p := range participants {
		won := p.team == winner
		scored, conceded := blueScore, redScore
		if p.team == volley.TeamRed {
			scored, conceded = redScore, blueScore
		}
		if err := applyResult(tx, p.playerID, matchType, season, won, isOvertime, scored, conceded); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	_, err = tx.Exec("UPDATE matches SET blue_score = ?, red_score = ?, updated_at = ? WHERE id = ?",
		blueScore, redScore, time.Now().Unix(), matchID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update match score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit result: %w", err)
	}
	log.Info("Submitted match result", "matchID", matchID, "blue", blueScore, "red", redScore,
		"winner", winner, "overtime", isOvertime)

	return s.getMatchLocked(matchID)
}

// applyResult upserts one player's seasonal counters inside the submission
// transaction. The zeroed row is created lazily on first participation; on
// conflict the counters accumulate and the streak follows the transition
// table: win increments, any other outcome resets to zero.
func applyResult(tx *sql.Tx, playerID string, matchType volley.MatchType, season int, won, isOvertime bool, scored, conceded int) error {
	var wins, losses, otl, streak int
	if won {
		wins, streak = 1, 1
	} else if isOvertime {
		otl = 1
	} else {
		losses = 1
	}

	_, err := tx.Exec(`
		INSERT INTO player_stats (player_id, match_type, season, wins, losses, otl, streak, longest_streak, scored, conceded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id, match_type, season) DO UPDATE SET
			wins = wins + excluded.wins,
			losses = losses + excluded.losses,
			otl = otl + excluded.otl,
			longest_streak = MAX(longest_streak, CASE WHEN excluded.streak > 0 THEN streak + 1 ELSE longest_streak END),
			streak = CASE WHEN excluded.streak > 0 THEN streak + 1 ELSE 0 END,
			scored = scored + excluded.scored,
			conceded = conceded + excluded.conceded;`,
		playerID, matchType, season, wins, losses, otl, streak, streak, scored, conceded)
	if err != nil {
		return fmt.Errorf("failed to update stats for player %s: %w", playerID, err)
	}
	return nil
}

// DeleteDraft removes an unplayed match and its participants. Completed
// matches are immutable history.
func (s *store) DeleteDraft(matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var blue sql.NullInt64
	err := s.db.QueryRow("SELECT blue_score FROM matches WHERE id = ?", matchID).Scan(&blue)
	if err == sql.ErrNoRows {
		return &volley.NotFoundError{Resource: "match"}
	}
	if err != nil {
		return fmt.Errorf("failed to query match: %w", err)
	}
	if blue.Valid {
		return &volley.ConflictError{Reason: "match result already submitted"}
	}

	if _, err := s.db.Exec("DELETE FROM matches WHERE id = ?", matchID); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	log.Info("Deleted match draft", "matchID", matchID)
	return nil
}

func (s *store) GetMatch(matchID string) (*volley.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getMatchLocked(matchID)
}

func (s *store) getMatchLocked(matchID string) (*volley.Match, error) {
	var match volley.Match
	var blue, red sql.NullInt64
	err := s.db.QueryRow(`
		SELECT id, match_type, season, blue_score, red_score, created_at, updated_at
		FROM matches WHERE id = ?`, matchID).
		Scan(&match.ID, &match.MatchType, &match.Season, &blue, &red, &match.CreatedAt, &match.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, &volley.NotFoundError{Resource: "match"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query match: %w", err)
	}
	match.BlueScore = nullableInt(blue)
	match.RedScore = nullableInt(red)

	participants, err := s.participantsFor([]string{match.ID})
	if err != nil {
		return nil, err
	}
	match.Participants = participants[match.ID]
	return &match, nil
}

func (s *store) ListMatches(filter StatusFilter, from, to *time.Time) ([]*volley.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, match_type, season, blue_score, red_score, created_at, updated_at FROM matches"
	var clauses []string
	var args []any
	switch filter {
	case FilterDraft:
		clauses = append(clauses, "blue_score IS NULL")
	case FilterCompleted:
		clauses = append(clauses, "blue_score IS NOT NULL")
	case FilterAll, "":
	default:
		return nil, volley.NewValidationError("unknown status filter %q", filter)
	}
	if from != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, from.Unix())
	}
	if to != nil {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, to.Unix())
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*volley.Match
	var ids []string
	for rows.Next() {
		var m volley.Match
		var blue, red sql.NullInt64
		if err := rows.Scan(&m.ID, &m.MatchType, &m.Season, &blue, &red, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		m.BlueScore = nullableInt(blue)
		m.RedScore = nullableInt(red)
		matches = append(matches, &m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	participants, err := s.participantsFor(ids)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		m.Participants = participants[m.ID]
	}
	return matches, nil
}

// participantsFor loads the rosters for a set of matches in one query.
func (s *store) participantsFor(matchIDs []string) (map[string][]volley.Participant, error) {
	result := make(map[string][]volley.Participant, len(matchIDs))
	if len(matchIDs) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?,", len(matchIDs))
	placeholders = placeholders[:len(placeholders)-1]
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT mp.match_id, mp.player_id, p.name, mp.team
		FROM match_players mp
		JOIN players p ON mp.player_id = p.id
		WHERE mp.match_id IN (%s)
		ORDER BY mp.rowid`, placeholders), ToAnySlice(matchIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var matchID string
		var p volley.Participant
		if err := rows.Scan(&matchID, &p.PlayerID, &p.Name, &p.Team); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		result[matchID] = append(result[matchID], p)
	}
	return result, rows.Err()
}

func (s *store) SeasonStats(playerIDs []string, matchType volley.MatchType, season int) (map[string]volley.PlayerSeasonStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]volley.PlayerSeasonStats, len(playerIDs))
	if len(playerIDs) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?,", len(playerIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := append([]any{matchType, season}, ToAnySlice(playerIDs)...)
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT player_id, match_type, season, wins, losses, otl, streak, longest_streak, scored, conceded
		FROM player_stats
		WHERE match_type = ? AND season = ? AND player_id IN (%s)`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query season stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st volley.PlayerSeasonStats
		if err := rows.Scan(&st.PlayerID, &st.MatchType, &st.Season, &st.Wins, &st.Losses, &st.OTL,
			&st.Streak, &st.LongestStreak, &st.Scored, &st.Conceded); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		result[st.PlayerID] = st
	}
	return result, rows.Err()
}

func (s *store) Leaderboard(matchType volley.MatchType, season int) ([]LeaderboardRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT ps.player_id, p.name, ps.match_type, ps.season, ps.wins, ps.losses, ps.otl,
		       ps.streak, ps.longest_streak, ps.scored, ps.conceded
		FROM player_stats ps
		JOIN players p ON ps.player_id = p.id
		WHERE ps.match_type = ? AND ps.season = ?`, matchType, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var board []LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		if err := rows.Scan(&row.PlayerID, &row.PlayerName, &row.MatchType, &row.Season,
			&row.Wins, &row.Losses, &row.OTL, &row.Streak, &row.LongestStreak,
			&row.Scored, &row.Conceded); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		row.PlayerSeasonStats.PlayerID = row.PlayerID
		board = append(board, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rankBoard(board), nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

// ToAnySlice converts a typed slice to []any for variadic query args.
func ToAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
