// pinball is a terminal pinball table.
//
// Usage:
//
//	pinball play             - Play in this terminal
//	pinball tables           - List the tables
//	pinball scores [table]   - Show high scores and recent games
//	pinball history <table>  - Chart recent scores on a table
//	pinball serve            - Start an SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default from config: 60)
//	--db <path>         - Set database path (default: ~/.pinball/pinball.db)
//	--config <path>     - Use a specific config file
//	--renderer <name>   - styled, plain or cell
//	--log <path>        - Log file for the terminal hosts
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-pinball/internal/config"
	"github.com/vovakirdan/tui-pinball/internal/messages"
	"github.com/vovakirdan/tui-pinball/internal/storage"
	"github.com/vovakirdan/tui-pinball/internal/tables"
)

var (
	// Global flags
	flagFPS      int
	flagDBPath   string
	flagConfig   string
	flagRenderer string
	flagLogPath  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pinball",
	Short: "Terminal pinball",
	Long: `Pinball played in your terminal, locally or over SSH.

Available commands:
  play     - Play in this terminal
  tables   - List the tables
  scores   - View high scores and recent games
  history  - Chart recent scores on a table
  serve    - Start SSH server for remote play

Examples:
  pinball play
  pinball play --renderer cell
  pinball scores 2
  pinball history 1
  pinball serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (frames per second, 0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a config YAML")
	rootCmd.PersistentFlags().StringVar(&flagRenderer, "renderer", "", "Renderer: styled, plain or cell")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Log file (default from config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

// env is everything the commands share.
type env struct {
	cfg      config.Config
	tables   *tables.Source
	messages *messages.Catalog
	store    *storage.Store
}

// loadConfig reads the config and applies the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	if flagLogPath != "" {
		cfg.LogPath = flagLogPath
	}
	return cfg, nil
}

// loadTables returns the tables from tables_dir, or the built-in ones.
func loadTables(cfg config.Config) (*tables.Source, error) {
	if cfg.TablesDir == "" {
		return tables.Embedded()
	}
	dir, err := storage.ExpandHome(cfg.TablesDir)
	if err != nil {
		return nil, err
	}
	return tables.LoadDir(dir)
}

// setup loads config, tables and messages and opens the database.
// The caller closes e.store.
func setup() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	src, err := loadTables(cfg)
	if err != nil {
		return nil, err
	}

	msgs := messages.Default()
	if cfg.MessagesPath != "" {
		path, err := storage.ExpandHome(cfg.MessagesPath)
		if err != nil {
			return nil, err
		}
		if msgs, err = messages.LoadFile(path); err != nil {
			return nil, err
		}
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, tables: src, messages: msgs, store: store}, nil
}

// openLog opens the log file of the terminal hosts, which own stdout.
// Falls back to discarding logs when the file cannot be opened.
func openLog(path string) (*log.Logger, io.Closer) {
	discard := log.New(io.Discard)
	if path == "" {
		return discard, io.NopCloser(nil)
	}
	path, err := storage.ExpandHome(path)
	if err != nil {
		return discard, io.NopCloser(nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return discard, io.NopCloser(nil)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return discard, io.NopCloser(nil)
	}
	return log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "pinball",
	}), f
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// fail prints err and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
