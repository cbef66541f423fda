package session_test

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vovakirdan/tui-pinball/internal/config"
	"github.com/vovakirdan/tui-pinball/internal/core"
	"github.com/vovakirdan/tui-pinball/internal/field"
	"github.com/vovakirdan/tui-pinball/internal/render"
	"github.com/vovakirdan/tui-pinball/internal/scores"
	"github.com/vovakirdan/tui-pinball/internal/session"
	"github.com/vovakirdan/tui-pinball/internal/storage"
)

// scriptEngine scores points on every step and loses one ball when drain
// is set. Flips are recorded per side.
type scriptEngine struct {
	mu     sync.Mutex
	points int64
	drain  bool
	flips  map[field.Side]int
	serves int
}

func newScriptEngine() *scriptEngine {
	return &scriptEngine{flips: map[field.Side]int{}}
}

func (e *scriptEngine) Load(field.Layout) error { return nil }
func (e *scriptEngine) ServeBall()              { e.mu.Lock(); e.serves++; e.mu.Unlock() }
func (e *scriptEngine) Launch()                 {}
func (e *scriptEngine) Nudge()                  {}
func (e *scriptEngine) Bodies() []field.Body    { return nil }
func (e *scriptEngine) Size() core.Vec          { return core.V(40, 60) }

func (e *scriptEngine) Flip(side field.Side, active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if active {
		e.flips[side]++
	}
}

func (e *scriptEngine) Step(float64) field.Events {
	e.mu.Lock()
	defer e.mu.Unlock()
	ev := field.Events{Points: e.points}
	if e.drain {
		ev.BallsLost = 1
		e.drain = false
	}
	return ev
}

func (e *scriptEngine) set(points int64, drain bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.points = points
	e.drain = drain
}

type fakeTables struct{}

func (fakeTables) NumberOfLevels() int { return 3 }
func (fakeTables) Name(level int) string {
	return []string{"", "One", "Two", "Three"}[level]
}
func (fakeTables) Layout(level int) (field.Layout, error) {
	if level < 1 || level > 3 {
		return nil, errors.New("no such level")
	}
	return field.Layout{"width": 40.0, "height": 60.0}, nil
}

type fakeAudio struct {
	mu           sync.Mutex
	starts       int
	pauses       int
	sound, music bool
}

func (a *fakeAudio) PlayStart()              { a.mu.Lock(); a.starts++; a.mu.Unlock() }
func (a *fakeAudio) PauseMusic()             { a.mu.Lock(); a.pauses++; a.mu.Unlock() }
func (a *fakeAudio) PlayBumper()             {}
func (a *fakeAudio) SetSoundEnabled(on bool) { a.mu.Lock(); a.sound = on; a.mu.Unlock() }
func (a *fakeAudio) SetMusicEnabled(on bool) { a.mu.Lock(); a.music = on; a.mu.Unlock() }
func (a *fakeAudio) Close()                  {}

type probe struct {
	name  string
	mu    sync.Mutex
	zoom  float64
	draws int
}

func (p *probe) Name() string { return p.name }
func (p *probe) Activate()    {}
func (p *probe) Deactivate()  {}

func (p *probe) SetZoom(z float64) {
	p.mu.Lock()
	p.zoom = z
	p.mu.Unlock()
}
func (p *probe) Draw(field.Snapshot) error {
	p.mu.Lock()
	p.draws++
	p.mu.Unlock()
	return nil
}

var _ = Describe("Session", func() {
	var (
		store   *storage.Store
		engine  *scriptEngine
		audio   *fakeAudio
		styled  *probe
		plain   *probe
		now     time.Time
		cfg     config.Config
		s       *session.Session
		build   func() *session.Session
		advance func(d time.Duration)
		tick    func()
	)

	BeforeEach(func() {
		var err error
		store, err = storage.Open(filepath.Join(GinkgoT().TempDir(), "pinball.db"))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)

		engine = newScriptEngine()
		audio = &fakeAudio{}
		styled = &probe{name: "styled"}
		plain = &probe{name: "plain"}
		now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		cfg = config.Default()
		cfg.BallsPerGame = 1

		advance = func(d time.Duration) { now = now.Add(d) }
		tick = func() { s.Field().Tick(10*time.Millisecond, 4) }
		build = func() *session.Session {
			sess, err := session.New(session.Options{
				Config:    cfg,
				Tables:    fakeTables{},
				Store:     store,
				Engine:    engine,
				Audio:     audio,
				Renderers: []render.Renderer{styled, plain},
				Now:       func() time.Time { return now },
			})
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(sess.Close)
			return sess
		}
	})

	Describe("construction", func() {
		It("starts on the first level with the panel offering a new game", func() {
			s = build()
			Expect(s.Level()).To(Equal(1))
			Expect(s.Panel()).To(Equal(session.Panel{Visible: true, SwitchTable: true, Unlimited: true}))
			Expect(s.Dispatcher().ActiveName()).To(Equal("styled"))
			Expect(s.Field().GameState().State).To(Equal(field.NotStarted))
		})

		It("restores the saved level", func() {
			Expect(store.PutInt(config.KeyInitialLevel, 3)).To(Succeed())
			s = build()
			Expect(s.Level()).To(Equal(3))
		})

		It("ignores a saved level out of range", func() {
			Expect(store.PutInt(config.KeyInitialLevel, 9)).To(Succeed())
			s = build()
			Expect(s.Level()).To(Equal(1))
		})

		It("restores saved preferences", func() {
			Expect(store.PutString(config.KeyRenderer, "plain")).To(Succeed())
			Expect(store.PutString(config.KeyZoom, "2")).To(Succeed())
			Expect(store.PutString(config.KeySound, "false")).To(Succeed())
			s = build()
			Expect(s.Dispatcher().ActiveName()).To(Equal("plain"))
			Expect(styled.zoom).To(Equal(2.0))
			Expect(plain.zoom).To(Equal(2.0))
			Expect(audio.sound).To(BeFalse())
			Expect(audio.music).To(BeTrue())
		})

		It("loads legacy single high scores", func() {
			Expect(store.PutString(scores.LegacyKey(1), "700")).To(Succeed())
			s = build()
			Expect(s.HighScores()).To(Equal(scores.List{700}))
		})

		It("rejects an empty table source", func() {
			_, err := session.New(session.Options{Store: store, Tables: emptyTables{}})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("starting a game", func() {
		BeforeEach(func() { s = build() })

		It("starts immediately after construction", func() {
			Expect(s.StartGame()).To(BeTrue())
			Expect(s.Field().GameState().State).To(Equal(field.InProgress))
			Expect(s.Panel().Visible).To(BeFalse())
			Expect(audio.starts).To(Equal(1))
			Expect(engine.serves).To(Equal(1))
		})

		It("ignores a second start while running", func() {
			Expect(s.StartGame()).To(BeTrue())
			Expect(s.StartGame()).To(BeFalse())
			Expect(audio.starts).To(Equal(1))
		})

		It("resumes instead of restarting when paused", func() {
			s.StartGame()
			s.PauseGame()
			Expect(s.StartGame()).To(BeFalse())
			Expect(s.Field().GameState().State).To(Equal(field.InProgress))
			Expect(s.Running()).To(BeTrue())
		})
	})

	Describe("a game ending", func() {
		BeforeEach(func() {
			s = build()
			Expect(s.StartGame()).To(BeTrue())
			engine.set(10, false)
			tick()
			advance(30 * time.Second)
			engine.set(0, true)
			tick()
			Expect(s.Field().GameState().State).To(Equal(field.Ended))
		})

		It("shows the between-games panel on the next poll", func() {
			d := s.Poll()
			Expect(d.Panel).To(Equal(session.Panel{Visible: true, SwitchTable: true, Unlimited: true}))
			Expect(d.State.Score).To(Equal(int64(20)))
			Expect(d.TableName).To(Equal("One"))
			Expect(d.Levels).To(Equal(3))
		})

		It("records the score once", func() {
			d := s.Poll()
			Expect(d.HighScores).To(Equal(scores.List{20}))
			Expect(d.NewHighScore).To(Equal(int64(20)))

			s.Poll()
			raw, ok, err := store.GetString(scores.Key(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(raw).To(Equal("20"))
		})

		It("saves the game to the history", func() {
			s.Poll()
			s.Poll()
			games, err := store.RecentGames(1, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(games).To(HaveLen(1))
			Expect(games[0].Score).To(Equal(int64(20)))
			Expect(games[0].Duration).To(Equal(30 * time.Second))
			Expect(games[0].Unlimited).To(BeFalse())
		})

		It("ignores a start within the end-game delay", func() {
			s.Poll()
			Expect(s.StartGame()).To(BeFalse())
			advance(cfg.EndGameDelay() - time.Millisecond)
			Expect(s.StartGame()).To(BeFalse())
			advance(time.Millisecond)
			Expect(s.StartGame()).To(BeTrue())
			Expect(s.Field().Score()).To(BeZero())
		})
	})

	Describe("high scores", func() {
		playGame := func(points int64, unlimited bool) {
			advance(time.Hour)
			if s.Poll().Unlimited != unlimited {
				s.ToggleUnlimited()
			}
			Expect(s.StartGame()).To(BeTrue())
			engine.set(points/2, false)
			tick()
			if unlimited {
				s.EndGame()
			} else {
				engine.set(0, true)
				tick()
			}
			s.Poll()
		}

		BeforeEach(func() { s = build() })

		It("keeps the best five in descending order", func() {
			for _, p := range []int64{10, 60, 40, 20, 80, 30} {
				playGame(p, false)
			}
			Expect(s.HighScores()).To(Equal(scores.List{80, 60, 40, 30, 20}))
		})

		It("rejects a tie with the lowest entry of a full list", func() {
			for _, p := range []int64{10, 20, 30, 40, 50, 10} {
				playGame(p, false)
			}
			Expect(s.HighScores()).To(Equal(scores.List{50, 40, 30, 20, 10}))
			Expect(s.Poll().NewHighScore).To(BeZero())
		})

		It("never records unlimited games", func() {
			playGame(100, true)
			Expect(s.HighScores()).To(Equal(scores.List{0}))

			games, err := store.RecentGames(1, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(games).To(HaveLen(1))
			Expect(games[0].Unlimited).To(BeTrue())
		})
	})

	Describe("pausing", func() {
		BeforeEach(func() {
			s = build()
			s.Start()
			Expect(s.StartGame()).To(BeTrue())
		})

		It("pauses on back and leaves only the end-game button", func() {
			Expect(s.Back()).To(BeTrue())
			Expect(s.Field().GameState().State).To(Equal(field.Paused))
			Expect(s.Running()).To(BeFalse())
			Expect(s.Panel()).To(Equal(session.Panel{Visible: true, EndGame: true}))
			Expect(audio.pauses).To(Equal(1))
		})

		It("lets the host leave on back once paused", func() {
			s.Back()
			Expect(s.Back()).To(BeFalse())
		})

		It("toggles between paused and running", func() {
			s.TogglePause()
			Expect(s.Field().GameState().State).To(Equal(field.Paused))
			s.TogglePause()
			Expect(s.Field().GameState().State).To(Equal(field.InProgress))
			Expect(s.Running()).To(BeTrue())
			Expect(s.Panel().Visible).To(BeFalse())
		})

		It("ends the game from the paused panel", func() {
			s.Back()
			s.EndGame()
			Expect(s.Field().GameState().State).To(Equal(field.Ended))
			Expect(s.Running()).To(BeTrue())
			Expect(s.Poll().Panel.SwitchTable).To(BeTrue())
		})

		It("pauses on focus loss and stays paused on focus gain", func() {
			s.FocusChanged(false)
			Expect(s.Field().GameState().State).To(Equal(field.Paused))
			s.FocusChanged(true)
			Expect(s.Field().GameState().State).To(Equal(field.Paused))
			Expect(s.Panel()).To(Equal(session.Panel{Visible: true, EndGame: true}))
		})

		It("pauses a running game when focus returns without a blur", func() {
			s.FocusChanged(true)
			Expect(s.Field().GameState().State).To(Equal(field.Paused))
			Expect(s.Running()).To(BeFalse())
			Expect(s.Panel()).To(Equal(session.Panel{Visible: true, EndGame: true}))
		})

		It("finishes a game ended after focus returned", func() {
			s.FocusChanged(true)
			s.EndGame()
			Expect(s.Field().GameState().State).To(Equal(field.Ended))

			d := s.Poll()
			Expect(d.Panel).To(Equal(session.Panel{Visible: true, SwitchTable: true, Unlimited: true}))
			games, err := store.RecentGames(1, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(games).To(HaveLen(1))

			advance(time.Minute)
			Expect(s.StartGame()).To(BeTrue())
		})

		It("does not advance the table while paused", func() {
			engine.set(5, false)
			s.PauseGame()
			score := s.Field().Score()
			tick()
			Expect(s.Field().Score()).To(Equal(score))
		})
	})

	Describe("between games", func() {
		BeforeEach(func() { s = build() })

		It("resumes ticking on focus gain", func() {
			s.Start()
			s.FocusChanged(false)
			Expect(s.Running()).To(BeFalse())
			s.FocusChanged(true)
			Expect(s.Running()).To(BeTrue())
		})

		It("cycles tables and saves the choice", func() {
			Expect(s.SwitchTable()).To(Succeed())
			Expect(s.SwitchTable()).To(Succeed())
			Expect(s.Level()).To(Equal(3))
			Expect(s.SwitchTable()).To(Succeed())
			Expect(s.Level()).To(Equal(1))

			level, err := store.GetInt(config.KeyInitialLevel, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(level).To(Equal(int64(1)))
		})

		It("loads the high scores of the new table", func() {
			Expect(store.PutString(scores.Key(2), "300,200")).To(Succeed())
			Expect(s.SwitchTable()).To(Succeed())
			Expect(s.HighScores()).To(Equal(scores.List{300, 200}))
		})

		It("resets the frame rate when switching tables", func() {
			cfg.TickRate = 4
			s = build()
			s.Start()
			Eventually(func() float64 { return s.Poll().FPS }).
				WithTimeout(3 * time.Second).
				WithPolling(20 * time.Millisecond).
				Should(BeNumerically(">", 0))

			Expect(s.SwitchTable()).To(Succeed())
			Expect(s.Running()).To(BeTrue())
			Expect(s.Poll().FPS).To(BeZero())
		})

		It("does not switch tables during a game", func() {
			s.StartGame()
			Expect(s.SwitchTable()).To(Succeed())
			Expect(s.Level()).To(Equal(1))
		})

		It("toggles unlimited balls only from the panel", func() {
			Expect(s.ToggleUnlimited()).To(BeTrue())
			Expect(s.StartGame()).To(BeTrue())
			Expect(s.Field().GameState().UnlimitedBalls).To(BeTrue())
			Expect(s.ToggleUnlimited()).To(BeTrue())
		})
	})

	Describe("controls", func() {
		BeforeEach(func() {
			s = build()
			s.StartGame()
		})

		It("moves both flippers when linked", func() {
			s.Flip(field.SideLeft)
			Expect(engine.flips[field.SideLeft]).To(Equal(1))
			Expect(engine.flips[field.SideRight]).To(Equal(1))
		})

		It("moves one flipper when independent", func() {
			p := s.Preferences()
			p.IndependentFlippers = true
			Expect(s.ApplyPreferences(p)).To(Succeed())
			s.Flip(field.SideRight)
			Expect(engine.flips[field.SideLeft]).To(BeZero())
			Expect(engine.flips[field.SideRight]).To(Equal(1))
		})
	})

	Describe("renderers", func() {
		BeforeEach(func() { s = build() })

		It("switches and saves the renderer", func() {
			Expect(s.SetRenderer("plain")).To(Succeed())
			Expect(s.Dispatcher().ActiveName()).To(Equal("plain"))
			raw, _, err := store.GetString(config.KeyRenderer)
			Expect(err).NotTo(HaveOccurred())
			Expect(raw).To(Equal("plain"))
		})

		It("keeps a working renderer when the name is unknown", func() {
			Expect(s.SetRenderer("hologram")).NotTo(Succeed())
			Expect(s.Dispatcher().Active()).NotTo(BeNil())
		})

		It("cycles through the registered renderers", func() {
			Expect(s.CycleRenderer()).To(Succeed())
			Expect(s.Dispatcher().ActiveName()).To(Equal("plain"))
			Expect(s.CycleRenderer()).To(Succeed())
			Expect(s.Dispatcher().ActiveName()).To(Equal("styled"))
		})

		It("draws the active renderer while running", func() {
			s.Start()
			Eventually(func() int {
				styled.mu.Lock()
				defer styled.mu.Unlock()
				return styled.draws
			}).Should(BeNumerically(">", 2))
			Expect(plain.draws).To(BeZero())
		})

		It("saves the frame-rate toggle", func() {
			s.ToggleFPS()
			Expect(s.Poll().ShowFPS).To(BeTrue())
			v, err := store.GetBool(config.KeyShowFPS, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(BeTrue())
		})
	})
})

type emptyTables struct{}

func (emptyTables) NumberOfLevels() int              { return 0 }
func (emptyTables) Name(int) string                  { return "" }
func (emptyTables) Layout(int) (field.Layout, error) { return nil, errors.New("empty") }

var _ = Describe("Handle", func() {
	var (
		s      *session.Session
		engine *scriptEngine
	)

	BeforeEach(func() {
		store, err := storage.Open(filepath.Join(GinkgoT().TempDir(), "pinball.db"))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)
		engine = newScriptEngine()
		s, err = session.New(session.Options{
			Config: config.Default(),
			Tables: fakeTables{},
			Store:  store,
			Engine: engine,
		})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(s.Close)
	})

	It("quits on quit and on back between games", func() {
		Expect(s.Handle(core.ActionQuit)).To(BeTrue())
		Expect(s.Handle(core.ActionBack)).To(BeTrue())
	})

	It("pauses on back during a game instead of quitting", func() {
		Expect(s.Handle(core.ActionStart)).To(BeFalse())
		Expect(s.Handle(core.ActionBack)).To(BeFalse())
		Expect(s.Field().GameState().State).To(Equal(field.Paused))
	})

	It("only switches tables while the button is shown", func() {
		Expect(s.Handle(core.ActionSwitchTable)).To(BeFalse())
		Expect(s.Level()).To(Equal(2))

		s.Handle(core.ActionStart)
		s.Handle(core.ActionPause)
		s.Handle(core.ActionSwitchTable)
		Expect(s.Level()).To(Equal(2))
	})

	It("ends a game only from the paused panel", func() {
		s.Handle(core.ActionStart)
		s.Handle(core.ActionEndGame)
		Expect(s.Field().GameState().State).To(Equal(field.InProgress))
		s.Handle(core.ActionPause)
		s.Handle(core.ActionEndGame)
		Expect(s.Field().GameState().State).To(Equal(field.Ended))
	})

	It("routes flipper keys to the engine", func() {
		s.Handle(core.ActionStart)
		s.Handle(core.ActionRightFlipper)
		Expect(engine.flips[field.SideRight]).To(Equal(1))
	})
})
