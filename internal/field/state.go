package field

// SessionState is the lifecycle phase of a play session.
type SessionState int

const (
	NotStarted SessionState = iota
	InProgress
	Paused
	Ended
)

// String returns a human-readable name for the state.
func (s SessionState) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case InProgress:
		return "in-progress"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// GameState is a consistent copy of the field's session state.
// Returned by Field.GameState() so callers can decide on score and phase
// together without holding the field lock.
type GameState struct {
	State          SessionState
	Score          int64
	UnlimitedBalls bool
	Ball           int // Current ball number, 1-based
	TotalBalls     int
}

// IsInProgress reports whether a game is running, paused or not.
func (g GameState) IsInProgress() bool {
	return g.State == InProgress || g.State == Paused
}

// IsPaused reports whether the running game is paused.
func (g GameState) IsPaused() bool {
	return g.State == Paused
}

// IsEnded reports whether the last game has finished.
func (g GameState) IsEnded() bool {
	return g.State == Ended
}

// start moves to InProgress from NotStarted or Ended.
// Illegal transitions are no-ops so redundant UI events are harmless.
func (g *GameState) start(unlimited bool, balls int) bool {
	if g.State != NotStarted && g.State != Ended {
		return false
	}
	g.State = InProgress
	g.Score = 0
	g.UnlimitedBalls = unlimited
	g.Ball = 1
	g.TotalBalls = balls
	return true
}

// end moves a running or paused game to Ended.
func (g *GameState) end() bool {
	if !g.IsInProgress() {
		return false
	}
	g.State = Ended
	return true
}

// setPaused toggles between InProgress and Paused only.
func (g *GameState) setPaused(paused bool) bool {
	switch {
	case paused && g.State == InProgress:
		g.State = Paused
		return true
	case !paused && g.State == Paused:
		g.State = InProgress
		return true
	}
	return false
}

// addScore adds non-negative points.
func (g *GameState) addScore(points int64) {
	if points > 0 {
		g.Score += points
	}
}

// reset returns to NotStarted with a zero score.
func (g *GameState) reset() {
	*g = GameState{State: NotStarted}
}
