package field

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pinball/internal/core"
)

// MessageDuration is how long an in-table message stays up, in simulated time.
const MessageDuration = 2 * time.Second

// DefaultBallsPerGame is used when Config.BallsPerGame is not positive.
const DefaultBallsPerGame = 3

// Config holds the field's optional collaborators.
type Config struct {
	BallsPerGame int
	MaxStep      time.Duration
	Messages     Resolver // nil shows no messages
	Sounds       Sounds   // nil is silent
	Logger       *log.Logger
}

// Snapshot is a consistent copy of everything a renderer needs.
type Snapshot struct {
	Bodies  []Body
	Size    core.Vec
	State   GameState
	Message string
	SimTime time.Duration
	Steps   uint64
}

// Field is the single shared simulation object. The tick goroutine, the
// poll loop and UI handlers all go through it; every exported method takes
// the lock for its whole duration, so a reader never sees a half-applied
// tick or a transition interleaved with one.
type Field struct {
	mu sync.Mutex

	engine Engine
	clock  *Clock
	cfg    Config

	layout          Layout
	targetTimeRatio float64
	state           GameState

	message     string
	messageLeft time.Duration
}

// New creates a field around engine. ResetForLayout must be called before
// the field has anything to simulate.
func New(engine Engine, cfg Config) *Field {
	if cfg.BallsPerGame <= 0 {
		cfg.BallsPerGame = DefaultBallsPerGame
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Field{
		engine:          engine,
		clock:           NewClock(cfg.MaxStep),
		cfg:             cfg,
		targetTimeRatio: 1,
	}
}

// ResetForLayout rebuilds every body from layout and returns the session to
// NotStarted with a zero score.
func (f *Field) ResetForLayout(layout Layout) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := layout.Validate(); err != nil {
		return err
	}
	if err := f.engine.Load(layout); err != nil {
		return fmt.Errorf("field: load layout: %w", err)
	}
	f.layout = layout
	f.targetTimeRatio = layout.TargetTimeRatio()
	f.state.reset()
	f.clock.Reset()
	f.setMessage("")
	return nil
}

// Settle advances the engine by d regardless of session state, so a fresh
// table has its bodies at rest before the first draw.
func (f *Field) Settle(d time.Duration, maxSubsteps int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock.Advance(d, maxSubsteps, func(dt float64) bool {
		f.engine.Step(dt)
		return true
	})
}

// Tick advances the simulation by elapsed simulated time in at most
// maxSubsteps equal steps. Nothing happens unless a game is in progress
// and not paused.
func (f *Field) Tick(elapsed time.Duration, maxSubsteps int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.State != InProgress {
		return
	}
	_, dt := f.clock.Split(elapsed, maxSubsteps)
	stepDur := time.Duration(dt * float64(time.Second))
	f.clock.Advance(elapsed, maxSubsteps, func(dt float64) bool {
		f.apply(f.engine.Step(dt))
		f.ageMessage(stepDur)
		return f.state.State == InProgress
	})
}

// apply folds one step's events into the session. Caller holds mu.
func (f *Field) apply(ev Events) {
	f.state.addScore(ev.Points)
	if ev.BumperHits > 0 && f.cfg.Sounds != nil {
		f.cfg.Sounds.PlayBumper()
	}
	for i := 0; i < ev.BallsLost; i++ {
		if f.state.UnlimitedBalls {
			f.engine.ServeBall()
			f.setMessage(f.resolve("shoot_again"))
			continue
		}
		if f.state.Ball >= f.state.TotalBalls {
			f.state.end()
			f.setMessage(f.resolve("game_over"))
			return
		}
		f.state.Ball++
		f.engine.ServeBall()
		f.setMessage(f.resolve("ball_lost", f.state.Ball))
	}
}

// StartGame starts a new game from NotStarted or Ended. The bodies are
// rebuilt from the current layout so a previous game leaves no trace.
// Returns false when a game is already running.
func (f *Field) StartGame(unlimited bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.layout == nil || f.state.IsInProgress() {
		return false
	}
	if err := f.engine.Load(f.layout); err != nil {
		f.cfg.Logger.Error("could not start game", "error", fmt.Errorf("field: load layout: %w", err))
		return false
	}
	if !f.state.start(unlimited, f.cfg.BallsPerGame) {
		return false
	}
	f.engine.ServeBall()
	f.setMessage(f.resolve("ball_number", 1))
	return true
}

// EndGame ends a running or paused game. Ending twice is a no-op.
func (f *Field) EndGame() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.state.end() {
		return false
	}
	f.setMessage(f.resolve("game_over"))
	return true
}

// SetPaused moves between InProgress and Paused. Other states are untouched.
func (f *Field) SetPaused(paused bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.setPaused(paused)
}

// Flip forwards flipper input while a game is running.
func (f *Field) Flip(side Side, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.State == InProgress {
		f.engine.Flip(side, active)
	}
}

// Launch fires the plunger while a game is running.
func (f *Field) Launch() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.State == InProgress {
		f.engine.Launch()
	}
}

// Nudge bumps the table while a game is running.
func (f *Field) Nudge() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.State == InProgress {
		f.engine.Nudge()
	}
}

// GameState returns the session state and score as one consistent value.
func (f *Field) GameState() GameState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Score returns the current score.
func (f *Field) Score() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Score
}

// TargetTimeRatio returns simulated seconds per real second for the
// current layout.
func (f *Field) TargetTimeRatio() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.targetTimeRatio
}

// Snapshot copies the drawable state. Renderers work from the copy so the
// lock is not held while drawing.
func (f *Field) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	msg := f.message
	if f.state.State == Paused {
		msg = f.resolve("paused")
	}
	return Snapshot{
		Bodies:  f.engine.Bodies(),
		Size:    f.engine.Size(),
		State:   f.state,
		Message: msg,
		SimTime: f.clock.Elapsed(),
		Steps:   f.clock.Steps(),
	}
}

func (f *Field) resolve(key string, params ...any) string {
	if f.cfg.Messages == nil {
		return ""
	}
	return f.cfg.Messages.Resolve(key, params...)
}

func (f *Field) setMessage(msg string) {
	f.message = msg
	f.messageLeft = MessageDuration
	if msg == "" {
		f.messageLeft = 0
	}
}

func (f *Field) ageMessage(d time.Duration) {
	if f.messageLeft <= 0 {
		return
	}
	f.messageLeft -= d
	if f.messageLeft <= 0 {
		f.message = ""
		f.messageLeft = 0
	}
}
