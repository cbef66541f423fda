package storage

import (
	"fmt"
	"time"
)

// GameRecord is one finished game.
type GameRecord struct {
	ID        int64
	Level     int
	Score     int64
	Unlimited bool
	Duration  time.Duration
	CreatedAt time.Time
}

// LevelStats aggregates the limited-ball games played on one level.
type LevelStats struct {
	Level      int
	GamesCount int
	HighScore  int64
	AvgScore   float64
	LastPlayed time.Time
}

// SaveGame records a finished game. Returns the ID of the inserted record.
func (s *Store) SaveGame(g GameRecord) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO games (level, score, unlimited, duration_ms) VALUES (?, ?, ?, ?)",
		g.Level, g.Score, g.Unlimited, g.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save game: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentGames returns up to limit games for level, newest first.
func (s *Store) RecentGames(level, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, level, score, unlimited, duration_ms, created_at
		 FROM games
		 WHERE level = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		level, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&g.ID, &g.Level, &g.Score, &g.Unlimited, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		g.Duration = time.Duration(durationMS) * time.Millisecond
		g.CreatedAt = parseTime(createdAt)
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return games, nil
}

// LevelStats returns aggregates over the limited-ball games of level.
func (s *Store) LevelStats(level int) (*LevelStats, error) {
	stats := &LevelStats{Level: level}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), MAX(created_at)
		 FROM games WHERE level = ? AND unlimited = 0`,
		level,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}
