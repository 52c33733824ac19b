package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ScoreEntry is one finished 2048 game in a mode's score table.
type ScoreEntry struct {
	ID        int64     `json:"id"`
	GameID    string    `json:"game_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// GameStats aggregates every finished game of one mode.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// defaultTopScores is the leaderboard size when a caller passes no limit.
const defaultTopScores = 10

// Equal scores rank by who got there first.
const leaderboardOrder = "ORDER BY score DESC, id ASC"

const statsColumns = `game_id, COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
	COALESCE(SUM(score), 0), MAX(created_at)`

// SaveScore records the final score of a finished game and returns its
// row id.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	if score < 0 {
		return 0, fmt.Errorf("storage: negative score %d", score)
	}
	res, err := s.db.Exec(`INSERT INTO scores (game_id, score) VALUES (?, ?)`, gameID, score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopScores returns the leaderboard of gameID, best first. A limit of
// zero or less means the default size.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = defaultTopScores
	}
	return s.queryScores(gameID, limit)
}

// AllScores returns every recorded game of gameID, best first.
func (s *Store) AllScores(gameID string) ([]ScoreEntry, error) {
	return s.queryScores(gameID, -1)
}

// queryScores lists scores in leaderboard order. SQLite treats a
// negative LIMIT as no limit.
func (s *Store) queryScores(gameID string, limit int) ([]ScoreEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at FROM scores
		 WHERE game_id = ? `+leaderboardOrder+` LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var (
			e         ScoreEntry
			createdAt any
		)
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan score: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: cannot read scores: %w", err)
	}
	return entries, nil
}

// HighScore is the best recorded score of gameID, or 0 before the first
// finished game.
func (s *Store) HighScore(gameID string) (int, error) {
	stats, err := s.GetGameStats(gameID)
	if err != nil {
		return 0, err
	}
	return stats.HighScore, nil
}

// Rank returns the 1-based leaderboard place a score holds in gameID.
// Earlier games keep their place on ties.
func (s *Store) Rank(gameID string, score int) (int, error) {
	var better int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM scores WHERE game_id = ? AND score > ?`,
		gameID, score,
	).Scan(&better)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot rank score: %w", err)
	}
	return better + 1, nil
}

// ClearScores drops the score table of one mode and reports how many
// games were removed. Reward claims are kept.
func (s *Store) ClearScores(gameID string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM scores WHERE game_id = ?`, gameID)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot read affected rows: %w", err)
	}
	return n, nil
}

// GetGameStats aggregates the finished games of gameID. A mode that was
// never played yields zero stats, not an error.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	row := s.db.QueryRow(`SELECT `+statsColumns+` FROM scores WHERE game_id = ?`, gameID)
	stats, err := scanStats(row)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	// Aggregates without a GROUP BY report a NULL game_id on an empty table.
	stats.GameID = gameID
	return stats, nil
}

// GetAllGamesStats aggregates every mode that has at least one finished
// game, keyed by game id.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(`SELECT ` + statsColumns + ` FROM scores GROUP BY game_id`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	all := make(map[string]*GameStats)
	for rows.Next() {
		stats, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats: %w", err)
		}
		all[stats.GameID] = stats
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: cannot read stats: %w", err)
	}
	return all, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStats(sc scanner) (*GameStats, error) {
	var (
		stats      GameStats
		gameID     sql.NullString
		lastPlayed any
	)
	err := sc.Scan(&gameID, &stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &lastPlayed)
	if errors.Is(err, sql.ErrNoRows) {
		return &stats, nil
	}
	if err != nil {
		return nil, err
	}
	stats.GameID = gameID.String
	stats.LastPlayed = parseTime(lastPlayed)
	return &stats, nil
}
