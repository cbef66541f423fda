// Package session wires the field, tick driver, renderers, high scores and
// preferences into one play session and implements the host-facing actions.
// All methods are meant for the host's UI goroutine; the tick driver runs
// on its own goroutine and only touches the field and the dispatcher.
package session

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pinball/internal/config"
	"github.com/vovakirdan/tui-pinball/internal/driver"
	"github.com/vovakirdan/tui-pinball/internal/field"
	"github.com/vovakirdan/tui-pinball/internal/physics"
	"github.com/vovakirdan/tui-pinball/internal/render"
	"github.com/vovakirdan/tui-pinball/internal/scores"
	"github.com/vovakirdan/tui-pinball/internal/storage"
)

// Layouts is the table source.
type Layouts interface {
	NumberOfLevels() int
	Layout(level int) (field.Layout, error)
	Name(level int) string
}

// Store persists preferences, high scores and game history.
type Store interface {
	scores.Backend
	GetInt(key string, def int64) (int64, error)
	PutInt(key string, v int64) error
	SaveGame(g storage.GameRecord) (int64, error)
}

// Audio is the sound collaborator.
type Audio interface {
	PlayStart()
	PauseMusic()
	PlayBumper()
	SetSoundEnabled(on bool)
	SetMusicEnabled(on bool)
	Close()
}

// Resolver resolves display text.
type Resolver = field.Resolver

// Options configures a Session.
type Options struct {
	Config    config.Config
	Tables    Layouts
	Store     Store
	Engine    field.Engine // Defaults to the built-in physics
	Messages  Resolver
	Audio     Audio // Defaults to silence
	Renderers []render.Renderer
	Logger    *log.Logger
	Now       func() time.Time
}

// Panel is the control panel shown over the table between games and
// while paused.
type Panel struct {
	Visible     bool
	EndGame     bool
	SwitchTable bool
	Unlimited   bool
}

// Session is one table being played.
type Session struct {
	cfg        config.Config
	field      *field.Field
	driver     *driver.Driver
	dispatcher *render.Dispatcher
	ledger     *scores.Ledger
	tables     Layouts
	store      Store
	audio      Audio
	msgs       Resolver
	log        *log.Logger
	now        func() time.Time

	mu          sync.Mutex
	level       int
	prefs       config.Preferences
	unlimited   bool
	panel       Panel
	endGameTime *time.Time // nil while a game is running
	startedAt   time.Time
	highScores  scores.List
	lastRecord  int64 // Score that last entered the list, 0 if none
}

// New builds a session on the level saved as initialLevel.
func New(opts Options) (*Session, error) {
	if opts.Tables == nil || opts.Tables.NumberOfLevels() == 0 {
		return nil, errors.New("session: no tables")
	}
	if opts.Store == nil {
		return nil, errors.New("session: no store")
	}
	if opts.Engine == nil {
		opts.Engine = physics.New()
	}
	if opts.Audio == nil {
		opts.Audio = silent{}
	}
	if opts.Messages == nil {
		opts.Messages = keyResolver{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	cfg := opts.Config

	s := &Session{
		cfg:    cfg,
		tables: opts.Tables,
		store:  opts.Store,
		audio:  opts.Audio,
		msgs:   opts.Messages,
		log:    opts.Logger,
		now:    opts.Now,
		ledger: scores.NewLedger(opts.Store),
	}
	s.field = field.New(opts.Engine, field.Config{
		BallsPerGame: cfg.BallsPerGame,
		Messages:     opts.Messages,
		Sounds:       opts.Audio,
		Logger:       opts.Logger,
	})
	s.dispatcher = render.NewDispatcher(s.field, render.NewRegistry(opts.Renderers...))
	s.driver = driver.New(s.field, s.dispatcher.Draw, driver.Options{
		Interval:    cfg.TickInterval(),
		MaxSubsteps: cfg.MaxSubsteps,
		Logger:      opts.Logger,
	})

	s.level = s.initialLevel()
	if err := s.resetField(); err != nil {
		return nil, err
	}
	s.loadHighScores()

	ended := s.now().Add(-cfg.EndGameDelay())
	s.endGameTime = &ended
	s.panel = Panel{Visible: true, SwitchTable: true, Unlimited: true}

	prefs, err := config.LoadPreferences(opts.Store, cfg.Preferences)
	if err != nil {
		s.log.Warn("some saved preferences were ignored", "error", err)
	}
	s.applyPreferences(prefs, false)
	return s, nil
}

func (s *Session) initialLevel() int {
	n := s.tables.NumberOfLevels()
	level, err := s.store.GetInt(config.KeyInitialLevel, 1)
	if err != nil {
		s.log.Warn("could not read initial level", "error", err)
	}
	if level < 1 || level > int64(n) {
		return 1
	}
	return int(level)
}

// resetField loads the current level and lets it settle. Caller holds mu
// or is constructing the session.
func (s *Session) resetField() error {
	layout, err := s.tables.Layout(s.level)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := s.field.ResetForLayout(layout); err != nil {
		return fmt.Errorf("session: level %d: %w", s.level, err)
	}
	settle := time.Duration(float64(s.cfg.SettleDuration()) * s.field.TargetTimeRatio())
	s.field.Settle(settle, s.cfg.MaxSubsteps)
	return nil
}

func (s *Session) loadHighScores() {
	list, err := s.ledger.Load(s.level)
	if err != nil {
		s.log.Warn("could not read high scores", "level", s.level, "error", err)
	}
	s.highScores = list
}

// quiesce runs fn with the tick driver stopped, restarting it afterwards
// if it was running.
func (s *Session) quiesce(fn func()) {
	wasRunning := s.driver.Running()
	s.driver.Stop()
	fn()
	if wasRunning {
		s.driver.Start()
	}
}

// Start resumes ticking.
func (s *Session) Start() {
	s.driver.ResetFrameRate()
	s.driver.Start()
}

// Close stops ticking and releases the renderer and audio.
func (s *Session) Close() {
	s.driver.Stop()
	s.dispatcher.SetActive(nil)
	s.audio.Close()
}

// StartGame starts a game, or resumes a paused one. Starts are ignored for
// a short delay after a game ends so a stray key does not start the next.
// Returns true when a new game began.
func (s *Session) StartGame() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	gs := s.field.GameState()
	if gs.IsPaused() {
		s.unpause()
		return false
	}
	if s.endGameTime == nil || s.now().Before(s.endGameTime.Add(s.cfg.EndGameDelay())) {
		return false
	}
	if gs.IsInProgress() {
		return false
	}

	s.panel.Visible = false
	var err error
	s.quiesce(func() { err = s.resetField() })
	if err != nil {
		s.log.Error("could not reset table", "error", err)
	}
	if !s.field.StartGame(s.unlimited) {
		s.panel.Visible = true
		return false
	}
	s.audio.PlayStart()
	s.endGameTime = nil
	s.startedAt = s.now()
	s.lastRecord = 0
	s.log.Info("game started", "level", s.level, "unlimited", s.unlimited)
	return true
}

// PauseGame pauses a running game and stops the tick driver.
func (s *Session) PauseGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pause()
}

// pause stops the driver and reports whether the field is paused
// afterwards. Only a game in progress can be paused.
func (s *Session) pause() bool {
	s.audio.PauseMusic()
	if s.field.GameState().IsPaused() {
		return true
	}
	paused := s.field.SetPaused(true)
	s.driver.Stop()
	return paused
}

// pauseWithPanel pauses the game behind the paused panel. If the game ended
// first, the table keeps ticking and the next poll shows the between-games
// panel instead.
func (s *Session) pauseWithPanel() {
	if s.pause() {
		s.showPausedButtons()
		return
	}
	s.driver.Start()
}

// UnpauseGame resumes a paused game.
func (s *Session) UnpauseGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unpause()
}

func (s *Session) unpause() {
	if !s.field.SetPaused(false) {
		return
	}
	s.driver.Start()
	if s.field.GameState().IsInProgress() {
		s.panel.Visible = false
	}
}

// ShowPausedButtons shows the panel with only the end-game button.
func (s *Session) ShowPausedButtons() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showPausedButtons()
}

func (s *Session) showPausedButtons() {
	s.panel = Panel{Visible: true, EndGame: true}
}

// EndGame ends the game from the paused panel.
func (s *Session) EndGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unpause()
	s.field.EndGame()
}

// TogglePause pauses or resumes a game, or starts one when none is running.
func (s *Session) TogglePause() {
	s.mu.Lock()
	gs := s.field.GameState()
	if gs.IsInProgress() {
		if gs.IsPaused() {
			s.unpause()
		} else {
			s.pauseWithPanel()
		}
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.StartGame()
}

// Back pauses a running game and reports true; otherwise it reports false
// so the host can leave.
func (s *Session) Back() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs := s.field.GameState()
	if !gs.IsInProgress() || gs.IsPaused() {
		return false
	}
	s.pauseWithPanel()
	return true
}

// FocusChanged pauses when the terminal loses focus. On regaining it a
// game in progress stays paused behind the paused panel; otherwise the
// table resumes ticking.
func (s *Session) FocusChanged(focused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !focused {
		s.pause()
		return
	}
	if s.field.GameState().IsInProgress() {
		if err := s.dispatcher.Draw(); err != nil {
			s.log.Warn("draw failed", "error", err)
		}
		s.pauseWithPanel()
		return
	}
	s.unpause()
	s.driver.Start()
}

// SwitchTable moves to the next table, wrapping to the first. Ignored
// while a game is in progress.
func (s *Session) SwitchTable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.field.GameState().IsInProgress() {
		return nil
	}

	var err error
	s.quiesce(func() {
		if s.level >= s.tables.NumberOfLevels() {
			s.level = 1
		} else {
			s.level++
		}
		err = s.resetField()
	})
	if err != nil {
		return err
	}
	if err := s.store.PutInt(config.KeyInitialLevel, int64(s.level)); err != nil {
		s.log.Warn("could not save initial level", "error", err)
	}
	s.loadHighScores()
	s.driver.ResetFrameRate()
	s.log.Info("switched table", "level", s.level, "name", s.tables.Name(s.level))
	return nil
}

// ToggleUnlimited flips unlimited balls for the next game. Only possible
// while the toggle is on the panel.
func (s *Session) ToggleUnlimited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel.Visible && s.panel.Unlimited {
		s.unlimited = !s.unlimited
	}
	return s.unlimited
}

// Flip raises a flipper; with linked flippers both sides move together.
func (s *Session) Flip(side field.Side) {
	s.mu.Lock()
	independent := s.prefs.IndependentFlippers
	s.mu.Unlock()

	if independent {
		s.field.Flip(side, true)
		return
	}
	s.field.Flip(field.SideLeft, true)
	s.field.Flip(field.SideRight, true)
}

// Launch fires the plunger.
func (s *Session) Launch() { s.field.Launch() }

// Nudge bumps the table.
func (s *Session) Nudge() { s.field.Nudge() }

// SetRenderer switches to the named renderer and saves the choice.
func (s *Session) SetRenderer(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.prefs
	p.Renderer = name
	return s.applyPreferences(p, true)
}

// CycleRenderer switches to the next registered renderer.
func (s *Session) CycleRenderer() error {
	return s.SetRenderer(s.dispatcher.Registry().Next(s.dispatcher.ActiveName()))
}

// ToggleFPS shows or hides the frame rate.
func (s *Session) ToggleFPS() {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.prefs
	p.ShowFPS = !p.ShowFPS
	s.applyPreferences(p, true)
}

// ApplyPreferences applies and saves p.
func (s *Session) ApplyPreferences(p config.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyPreferences(p, true)
}

// applyPreferences switches renderer (driver quiesced), zoom and audio.
// Unknown renderers fall back to the first registered one. Caller holds mu
// or is constructing the session.
func (s *Session) applyPreferences(p config.Preferences, save bool) error {
	var useErr error
	if p.Renderer != s.dispatcher.ActiveName() || s.dispatcher.Active() == nil {
		s.quiesce(func() {
			useErr = s.dispatcher.Use(p.Renderer)
			if useErr != nil {
				if names := s.dispatcher.Registry().List(); len(names) > 0 {
					s.dispatcher.Use(names[0])
				}
			}
		})
	}
	if useErr != nil {
		p.Renderer = s.dispatcher.ActiveName()
	}
	for _, rd := range s.dispatcher.Registry().All() {
		if z, ok := rd.(render.Zoomer); ok {
			z.SetZoom(p.Zoom)
		}
	}
	if err := s.dispatcher.Draw(); err != nil {
		s.log.Warn("draw failed", "error", err)
	}
	s.audio.SetSoundEnabled(p.Sound)
	s.audio.SetMusicEnabled(p.Music)
	s.prefs = p

	if save {
		if err := config.SavePreferences(s.store, p); err != nil {
			s.log.Warn("could not save preferences", "error", err)
		}
	}
	return useErr
}

// Field returns the shared simulation.
func (s *Session) Field() *field.Field { return s.field }

// Dispatcher returns the renderer dispatcher.
func (s *Session) Dispatcher() *render.Dispatcher { return s.dispatcher }

// Running reports whether the tick driver is running.
func (s *Session) Running() bool { return s.driver.Running() }

// Resolve resolves display text with the session's catalog.
func (s *Session) Resolve(key string, params ...any) string {
	return s.msgs.Resolve(key, params...)
}

// Level returns the current 1-based level.
func (s *Session) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Preferences returns the applied preferences.
func (s *Session) Preferences() config.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// Panel returns the panel state.
func (s *Session) Panel() Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panel
}

// HighScores returns the current level's list.
func (s *Session) HighScores() scores.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(scores.List(nil), s.highScores...)
}

type silent struct{}

func (silent) PlayStart()           {}
func (silent) PauseMusic()          {}
func (silent) PlayBumper()          {}
func (silent) SetSoundEnabled(bool) {}
func (silent) SetMusicEnabled(bool) {}
func (silent) Close()               {}

type keyResolver struct{}

func (keyResolver) Resolve(key string, _ ...any) string { return key }
