package field

import (
	"fmt"
	"math"
)

// Layout is an opaque table descriptor. The field only reads
// targetTimeRatio from it; everything else belongs to the engine.
// Values are the plain types produced by a YAML/JSON decoder:
// map[string]any, []any, string, bool, int and float64.
type Layout map[string]any

// Float returns a numeric value, or def when absent or not a number.
func (l Layout) Float(key string, def float64) float64 {
	switch v := l[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	default:
		return def
	}
}

// Int returns an integer value, or def when absent or not a number.
func (l Layout) Int(key string, def int) int {
	f := l.Float(key, math.NaN())
	if math.IsNaN(f) {
		return def
	}
	return int(f)
}

// String returns a string value, or def.
func (l Layout) String(key, def string) string {
	if s, ok := l[key].(string); ok {
		return s
	}
	return def
}

// Map returns a nested layout, or nil.
func (l Layout) Map(key string) Layout {
	switch v := l[key].(type) {
	case map[string]any:
		return Layout(v)
	case Layout:
		return v
	default:
		return nil
	}
}

// List returns the nested layouts found under key. Non-map items are skipped.
func (l Layout) List(key string) []Layout {
	items, ok := l[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Layout, 0, len(items))
	for _, it := range items {
		switch m := it.(type) {
		case map[string]any:
			out = append(out, Layout(m))
		case Layout:
			out = append(out, m)
		}
	}
	return out
}

// TargetTimeRatio returns simulated seconds per real second for the table.
func (l Layout) TargetTimeRatio() float64 {
	r := l.Float("targetTimeRatio", 1)
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 1
	}
	return r
}

// Validate checks the keys every engine relies on.
func (l Layout) Validate() error {
	if l == nil {
		return fmt.Errorf("field: nil layout")
	}
	if l.Float("width", 0) <= 0 || l.Float("height", 0) <= 0 {
		return fmt.Errorf("field: layout needs positive width and height")
	}
	return nil
}
