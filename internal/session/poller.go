package session

import (
	"time"

	"github.com/vovakirdan/tui-pinball/internal/field"
	"github.com/vovakirdan/tui-pinball/internal/scores"
	"github.com/vovakirdan/tui-pinball/internal/storage"
)

// Display is what a host shows around the table after a poll.
type Display struct {
	State      field.GameState
	Level      int
	Levels     int
	TableName  string
	HighScores scores.List
	Panel      Panel
	Unlimited  bool // Unlimited balls selected for the next game
	ShowFPS    bool
	FPS        float64
	Renderer   string
	// NewHighScore is the score of the last game when it entered the list.
	NewHighScore int64
}

// Poll refreshes the host-side view of the session. Hosts call it on a
// timer, around ten times a second. The first poll that sees the game no
// longer in progress records it and shows the panel again.
func (s *Session) Poll() Display {
	s.mu.Lock()
	defer s.mu.Unlock()

	gs := s.field.GameState()
	if !s.panel.Visible && !gs.IsInProgress() {
		s.gameFinished(gs)
	}

	return Display{
		State:        gs,
		Level:        s.level,
		Levels:       s.tables.NumberOfLevels(),
		TableName:    s.tables.Name(s.level),
		HighScores:   append(scores.List(nil), s.highScores...),
		Panel:        s.panel,
		Unlimited:    s.unlimited,
		ShowFPS:      s.prefs.ShowFPS,
		FPS:          s.driver.AverageFPS(),
		Renderer:     s.dispatcher.ActiveName(),
		NewHighScore: s.lastRecord,
	}
}

// gameFinished runs once per game, on the first poll after it ended.
func (s *Session) gameFinished(gs field.GameState) {
	now := s.now()
	s.endGameTime = &now
	s.panel = Panel{Visible: true, SwitchTable: true, Unlimited: true}

	if !s.startedAt.IsZero() {
		rec := storage.GameRecord{
			Level:     s.level,
			Score:     gs.Score,
			Unlimited: gs.UnlimitedBalls,
			Duration:  now.Sub(s.startedAt),
			CreatedAt: now,
		}
		if _, err := s.store.SaveGame(rec); err != nil {
			s.log.Warn("could not save game", "error", err)
		}
		s.startedAt = time.Time{}
	}
	s.log.Info("game over", "level", s.level, "score", gs.Score, "unlimited", gs.UnlimitedBalls)

	if gs.UnlimitedBalls || !scores.Admits(s.highScores, gs.Score) {
		return
	}
	list, err := s.ledger.RecordScore(s.level, gs.Score)
	if err != nil {
		s.log.Warn("could not save high scores", "level", s.level, "error", err)
	}
	s.highScores = list
	s.lastRecord = gs.Score
}
