package config

import (
	_ "embed"
)

//go:embed defaults/pinball.yaml
var defaultPinballYAML []byte

// Default returns the built-in settings.
func Default() Config {
	return Config{
		TickRate:       60,
		PollIntervalMS: 100,
		MaxSubsteps:    4,
		SettleMS:       250,
		BallsPerGame:   3,
		EndGameDelayMS: 1000,
		DBPath:         "~/.pinball/pinball.db",
		LogPath:        "~/.pinball/pinball.log",
		Preferences: Preferences{
			Renderer: "styled",
			Zoom:     1.0,
			Sound:    true,
			Music:    true,
		},
	}
}
