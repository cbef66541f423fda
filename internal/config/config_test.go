package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	cfg, err := parse(defaultPinballYAML)
	if err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded default drifted:\n got %+v\nwant %+v", cfg, Default())
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinball.yaml")
	data := "tick_rate: 120\nballs_per_game: 5\npreferences:\n  show_fps: true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.TickRate != 120 || cfg.BallsPerGame != 5 || !cfg.Preferences.ShowFPS {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.PollIntervalMS != 100 || cfg.Preferences.Renderer != "styled" || !cfg.Preferences.Sound {
		t.Errorf("unset keys lost their defaults: %+v", cfg)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("tick_rate: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Error("expected parse error")
	}
	if cfg.TickRate != Default().TickRate {
		t.Error("failed load should still return usable defaults")
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.TickRate != 60 {
		t.Errorf("embedded default tick_rate = %d", cfg.TickRate)
	}

	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", "pinball.yaml"), []byte("tick_rate: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if cfg, _ := Load(""); cfg.TickRate != 30 {
		t.Errorf("local config tick_rate = %d, want 30", cfg.TickRate)
	}

	userDir := filepath.Join(home, ".pinball")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "config.yaml"), []byte("tick_rate: 90\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if cfg, _ := Load(""); cfg.TickRate != 90 {
		t.Errorf("user config tick_rate = %d, want 90", cfg.TickRate)
	}
}

func TestNormalize(t *testing.T) {
	cfg, err := parse([]byte("tick_rate: 0\nmax_substeps: -2\npreferences:\n  zoom: 0\n  renderer: \"\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	if cfg.TickRate != def.TickRate || cfg.MaxSubsteps != def.MaxSubsteps {
		t.Errorf("bad values not replaced: %+v", cfg)
	}
	if cfg.Preferences.Zoom != 1 || cfg.Preferences.Renderer != "styled" {
		t.Errorf("bad preferences not replaced: %+v", cfg.Preferences)
	}
}

func TestDurations(t *testing.T) {
	cfg := Default()
	if cfg.PollInterval() != 100*time.Millisecond {
		t.Errorf("PollInterval() = %v", cfg.PollInterval())
	}
	if cfg.EndGameDelay() != time.Second {
		t.Errorf("EndGameDelay() = %v", cfg.EndGameDelay())
	}
	if cfg.SettleDuration() != 250*time.Millisecond {
		t.Errorf("SettleDuration() = %v", cfg.SettleDuration())
	}
	if cfg.TickInterval() != time.Second/60 {
		t.Errorf("TickInterval() = %v", cfg.TickInterval())
	}
}

type memKV map[string]string

func (m memKV) GetString(key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memKV) PutString(key, value string) error {
	m[key] = value
	return nil
}

func TestPreferencesRoundTrip(t *testing.T) {
	kv := memKV{}
	want := Preferences{ShowFPS: true, Renderer: "plain", Zoom: 1.5, Sound: false, Music: true, IndependentFlippers: true}
	if err := SavePreferences(kv, want); err != nil {
		t.Fatalf("SavePreferences() failed: %v", err)
	}
	got, err := LoadPreferences(kv, Default().Preferences)
	if err != nil {
		t.Fatalf("LoadPreferences() failed: %v", err)
	}
	if got != want {
		t.Errorf("LoadPreferences() = %+v, want %+v", got, want)
	}
}

func TestLoadPreferencesKeepsDefaultsOnBadValues(t *testing.T) {
	kv := memKV{KeyShowFPS: "maybe", KeyZoom: "-3", KeyMusic: "false"}
	defaults := Default().Preferences
	got, err := LoadPreferences(kv, defaults)
	if err == nil {
		t.Error("expected parse errors")
	}
	if got.ShowFPS != defaults.ShowFPS || got.Zoom != defaults.Zoom {
		t.Errorf("bad values overrode defaults: %+v", got)
	}
	if got.Music {
		t.Error("valid value not applied alongside bad ones")
	}
}
