package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pinball/internal/audio"
	"github.com/vovakirdan/tui-pinball/internal/config"
	"github.com/vovakirdan/tui-pinball/internal/platform/cell"
	"github.com/vovakirdan/tui-pinball/internal/platform/tui"
	"github.com/vovakirdan/tui-pinball/internal/render"
	"github.com/vovakirdan/tui-pinball/internal/session"
)

var flagTable int

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play pinball in this terminal",
	Long: `Start the table in this terminal.

Controls:
  Z/Left      - Left flipper
  M/Right     - Right flipper
  Space/Down  - Launch the ball
  N/Up        - Nudge the table
  Enter       - Start a game
  P           - Pause/resume
  E           - End the game (while paused)
  T/Tab       - Next table (between games)
  U           - Unlimited balls (between games)
  V           - Switch renderer
  F           - Show frame rate
  Esc         - Pause, or leave when no game is running
  Q/Ctrl+C    - Quit

Terminals only report key presses, so a flipper drops on its own shortly
after each press. Unlimited-ball games never count towards high scores.

Examples:
  pinball play
  pinball play --table 2
  pinball play --renderer plain
  pinball play --renderer cell`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagTable, "table", 0, "Table to start on (1-based, 0 = last played)")
}

func runPlay(_ *cobra.Command, _ []string) {
	e, err := setup()
	if err != nil {
		fail("%v", err)
	}
	defer e.store.Close()

	logger, logFile := openLog(e.cfg.LogPath)
	defer logFile.Close()

	if flagTable > 0 {
		if flagTable > e.tables.NumberOfLevels() {
			fail("no table %d, there are %d", flagTable, e.tables.NumberOfLevels())
		}
		if err := e.store.PutInt(config.KeyInitialLevel, int64(flagTable)); err != nil {
			logger.Warn("could not save table choice", "error", err)
		}
	}

	renderer := flagRenderer
	if renderer == "" {
		prefs, err := config.LoadPreferences(e.store, e.cfg.Preferences)
		if err != nil {
			logger.Warn("some saved preferences were ignored", "error", err)
		}
		renderer = prefs.Renderer
	}

	player := audio.New(logger)
	if err := player.Init(); err != nil {
		logger.Warn("audio disabled", "error", err)
	}

	opts := session.Options{
		Config:   e.cfg,
		Tables:   e.tables,
		Store:    e.store,
		Messages: e.messages,
		Audio:    player,
		Logger:   logger,
	}

	if renderer == render.NameCell {
		err = playCell(opts, logger)
	} else {
		err = playTUI(opts, renderer)
	}
	if err != nil {
		fail("%v", err)
	}
}

// playTUI runs the Bubble Tea host with the styled and plain renderers.
func playTUI(opts session.Options, renderer string) error {
	width, height := terminalSize()
	frames := tui.NewFrameRenderers(width, height)
	opts.Renderers = tui.Renderers(frames)

	sess, err := session.New(opts)
	if err != nil {
		return err
	}
	if flagRenderer != "" {
		if err := sess.SetRenderer(renderer); err != nil {
			sess.Close()
			return fmt.Errorf("renderer %q: %w", renderer, err)
		}
	}
	return tui.Run(sess, opts.Config, frames)
}

// playCell runs the tcell host.
func playCell(opts session.Options, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("cannot create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("cannot initialize screen: %w", err)
	}
	defer screen.Fini()

	opts.Renderers = []render.Renderer{cell.NewRenderer(screen)}
	sess, err := session.New(opts)
	if err != nil {
		return err
	}
	if err := sess.SetRenderer(render.NameCell); err != nil {
		logger.Warn("could not select cell renderer", "error", err)
	}
	return cell.Run(screen, sess, opts.Config)
}
