// Package config provides YAML-based settings for the pinball table and
// the player preferences persisted between runs.
package config

import "time"

// Config contains all settings read from pinball.yaml.
type Config struct {
	TickRate       int `yaml:"tick_rate"`
	PollIntervalMS int `yaml:"poll_interval_ms"`
	MaxSubsteps    int `yaml:"max_substeps"`
	SettleMS       int `yaml:"settle_ms"`
	BallsPerGame   int `yaml:"balls_per_game"`
	EndGameDelayMS int `yaml:"end_game_delay_ms"`

	DBPath       string `yaml:"db_path"`
	TablesDir    string `yaml:"tables_dir"`
	MessagesPath string `yaml:"messages_path"`
	LogPath      string `yaml:"log_path"`

	Preferences Preferences `yaml:"preferences"`
}

// Preferences are the player's choices. Values here are defaults; the
// saved copy lives in the database.
type Preferences struct {
	ShowFPS             bool    `yaml:"show_fps"`
	Renderer            string  `yaml:"renderer"`
	Zoom                float64 `yaml:"zoom"`
	Sound               bool    `yaml:"sound"`
	Music               bool    `yaml:"music"`
	IndependentFlippers bool    `yaml:"independent_flippers"`
}

// TickInterval returns the period between simulation ticks.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// PollInterval returns the UI poll period.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// SettleDuration returns the simulated time run after a table reset,
// before the table ratio is applied.
func (c Config) SettleDuration() time.Duration {
	return time.Duration(c.SettleMS) * time.Millisecond
}

// EndGameDelay returns how long Start is ignored after a game ends.
func (c Config) EndGameDelay() time.Duration {
	return time.Duration(c.EndGameDelayMS) * time.Millisecond
}

// normalize replaces nonsensical values with defaults.
func (c *Config) normalize() {
	def := Default()
	if c.TickRate <= 0 {
		c.TickRate = def.TickRate
	}
	if c.PollIntervalMS <= 0 {
		c.PollIntervalMS = def.PollIntervalMS
	}
	if c.MaxSubsteps <= 0 {
		c.MaxSubsteps = def.MaxSubsteps
	}
	if c.SettleMS < 0 {
		c.SettleMS = def.SettleMS
	}
	if c.BallsPerGame <= 0 {
		c.BallsPerGame = def.BallsPerGame
	}
	if c.EndGameDelayMS < 0 {
		c.EndGameDelayMS = def.EndGameDelayMS
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.Preferences.Zoom <= 0 {
		c.Preferences.Zoom = 1
	}
	if c.Preferences.Renderer == "" {
		c.Preferences.Renderer = def.Preferences.Renderer
	}
}
