package config

import (
	"errors"
	"fmt"
	"strconv"
)

// Preference keys in the key/value store.
const (
	KeyShowFPS             = "showFPS"
	KeyRenderer            = "renderer"
	KeyZoom                = "zoom"
	KeySound               = "sound"
	KeyMusic               = "music"
	KeyIndependentFlippers = "independentFlippers"
	KeyInitialLevel        = "initialLevel"
)

// KV is the string key/value store preferences are saved in.
type KV interface {
	GetString(key string) (string, bool, error)
	PutString(key, value string) error
}

// LoadPreferences overlays saved preferences on defaults. Values that do
// not parse keep their default and are reported in the joined error.
func LoadPreferences(kv KV, defaults Preferences) (Preferences, error) {
	p := defaults
	var errs []error

	readBool := func(key string, dst *bool) {
		raw, ok, err := kv.GetString(key)
		if err != nil {
			errs = append(errs, err)
			return
		}
		if !ok {
			return
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: preference %s: %w", key, err))
			return
		}
		*dst = v
	}

	readBool(KeyShowFPS, &p.ShowFPS)
	readBool(KeySound, &p.Sound)
	readBool(KeyMusic, &p.Music)
	readBool(KeyIndependentFlippers, &p.IndependentFlippers)

	if raw, ok, err := kv.GetString(KeyRenderer); err != nil {
		errs = append(errs, err)
	} else if ok && raw != "" {
		p.Renderer = raw
	}

	if raw, ok, err := kv.GetString(KeyZoom); err != nil {
		errs = append(errs, err)
	} else if ok {
		if v, err := strconv.ParseFloat(raw, 64); err != nil || v <= 0 {
			errs = append(errs, fmt.Errorf("config: preference %s: bad zoom %q", KeyZoom, raw))
		} else {
			p.Zoom = v
		}
	}

	return p, errors.Join(errs...)
}

// SavePreferences writes every preference to kv.
func SavePreferences(kv KV, p Preferences) error {
	pairs := []struct{ key, value string }{
		{KeyShowFPS, strconv.FormatBool(p.ShowFPS)},
		{KeyRenderer, p.Renderer},
		{KeyZoom, strconv.FormatFloat(p.Zoom, 'g', -1, 64)},
		{KeySound, strconv.FormatBool(p.Sound)},
		{KeyMusic, strconv.FormatBool(p.Music)},
		{KeyIndependentFlippers, strconv.FormatBool(p.IndependentFlippers)},
	}
	for _, pair := range pairs {
		if err := kv.PutString(pair.key, pair.value); err != nil {
			return fmt.Errorf("config: save preferences: %w", err)
		}
	}
	return nil
}
