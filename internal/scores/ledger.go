// Package scores keeps the ranked high-score list of each table level.
package scores

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// MaxEntries is the length of a full high-score list.
const MaxEntries = 5

// List is a descending list of scores. It is never empty: a level with no
// scores holds the single placeholder 0.
type List []int64

// Min returns the lowest score on the list.
func (l List) Min() int64 {
	if len(l) == 0 {
		return 0
	}
	return l[len(l)-1]
}

// Top returns the best score on the list.
func (l List) Top() int64 {
	if len(l) == 0 {
		return 0
	}
	return l[0]
}

// String joins the list the way it is persisted.
func (l List) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, ",")
}

// Backend is the key/value store the ledger writes through to.
type Backend interface {
	GetString(key string) (string, bool, error)
	PutString(key, value string) error
}

// Key returns the persistence key of a level's list.
func Key(level int) string {
	return fmt.Sprintf("highScores.%d", level)
}

// LegacyKey returns the key older versions used for a single best score.
// It is read when Key is absent and never written.
func LegacyKey(level int) string {
	return fmt.Sprintf("highScore.%d", level)
}

// Ledger caches loaded lists and writes every change through to the backend.
type Ledger struct {
	mu      sync.Mutex
	backend Backend
	lists   map[int]List
}

// NewLedger creates a ledger over backend.
func NewLedger(backend Backend) *Ledger {
	return &Ledger{backend: backend, lists: make(map[int]List)}
}

// Load reads the list for level from the backend and caches it.
// Missing or corrupt data yields the placeholder list; the error reports
// read failures only.
func (l *Ledger) Load(level int) (List, error) {
	list, err := l.read(level)
	l.mu.Lock()
	l.lists[level] = list
	l.mu.Unlock()
	return clone(list), err
}

func (l *Ledger) read(level int) (List, error) {
	raw, ok, err := l.backend.GetString(Key(level))
	if err != nil {
		return List{0}, err
	}
	if !ok {
		legacy, ok, err := l.backend.GetString(LegacyKey(level))
		if err != nil {
			return List{0}, err
		}
		if !ok {
			return List{0}, nil
		}
		raw = legacy
	}
	return Parse(raw), nil
}

// Parse decodes a comma-joined list. Any unparseable entry gives the
// placeholder list.
func Parse(raw string) List {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return List{0}
	}
	fields := strings.Split(raw, ",")
	out := make(List, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return List{0}
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}

// Scores returns the cached list for level, loading it if needed.
func (l *Ledger) Scores(level int) List {
	l.mu.Lock()
	list, ok := l.lists[level]
	l.mu.Unlock()
	if ok {
		return clone(list)
	}
	list, _ = l.Load(level)
	return list
}

// Admits reports whether score would enter list: always while there is
// room, otherwise only when it beats the lowest entry. Ties with the lowest
// entry of a full list are rejected.
func Admits(list List, score int64) bool {
	return len(list) < MaxEntries || score > list.Min()
}

// RecordScore inserts score into level's list, replacing the [0]
// placeholder, keeps the best MaxEntries and writes the result through. The
// updated list is cached and returned even when the write fails.
func (l *Ledger) RecordScore(level int, score int64) (List, error) {
	current := l.Scores(level)
	if len(current) == 1 && current[0] == 0 {
		current = nil
	}

	next := make(List, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, score)
	sort.Slice(next, func(i, j int) bool { return next[i] > next[j] })
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}

	l.mu.Lock()
	l.lists[level] = next
	l.mu.Unlock()

	if err := l.backend.PutString(Key(level), next.String()); err != nil {
		return clone(next), fmt.Errorf("scores: save level %d: %w", level, err)
	}
	return clone(next), nil
}

func clone(l List) List {
	return append(List(nil), l...)
}
