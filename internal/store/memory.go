// internal/store/memory.go
//
// Match history: a ledger of finished match results and the leaderboard
// derived from it. Only completed matches are recorded; a match in progress
// is never saved or resumed.
//
// This file defines the Store interface and the in-memory implementation,
// used when no database path is configured and in tests.
//
// Characteristics:
//   - Stores game.Result values keyed by ID in a map.
//   - Concurrency-safe via RWMutex (the history API reads while a match may write).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/desmond0147/Battle-of-Wits/internal/game"
)

// ErrNotFound is returned by Get for an unknown match ID.
var ErrNotFound = errors.New("not found")

// DefaultLimit applies when a caller passes a non-positive limit.
const DefaultLimit = 20

// Store defines the persistence interface for finished matches.
type Store interface {
	// Save records a finished match. Saving an existing ID replaces it.
	Save(ctx context.Context, r game.Result) error

	// Get retrieves a match by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Result, error)

	// Recent lists the latest matches, newest first.
	Recent(ctx context.Context, limit int) ([]game.Result, error)

	// Leaderboard aggregates results per player name (case-insensitive).
	Leaderboard(ctx context.Context, limit int) ([]Standing, error)

	Close() error
}

// Standing is one leaderboard row.
type Standing struct {
	Player string `json:"player"`
	Played int    `json:"played"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Ties   int    `json:"ties"`
	Hits   int    `json:"hits"`
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex           // guards results
	results map[string]game.Result // keyed by Result.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{results: make(map[string]game.Result)}
}

func (m *memory) Save(ctx context.Context, r game.Result) error {
	if r.ID == "" {
		return errors.New("store: result has no id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[r.ID] = r
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.results[id]; ok {
		return &r, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Recent(ctx context.Context, limit int) ([]game.Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	m.mu.RLock()
	out := make([]game.Result, 0, len(m.results))
	for _, r := range m.results {
		out = append(out, r)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].FinishedAt.Equal(out[j].FinishedAt) {
			return out[i].FinishedAt.After(out[j].FinishedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memory) Leaderboard(ctx context.Context, limit int) ([]Standing, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	m.mu.RLock()
	byPlayer := map[string]*Standing{}
	for _, r := range m.results {
		key := strings.ToLower(r.Player)
		s, ok := byPlayer[key]
		if !ok {
			s = &Standing{Player: r.Player}
			byPlayer[key] = s
		}
		// shown name is the byte-wise smallest spelling, as MIN(player) in SQLite
		if r.Player < s.Player {
			s.Player = r.Player
		}
		tally(s, r)
	}
	m.mu.RUnlock()

	out := make([]Standing, 0, len(byPlayer))
	for _, s := range byPlayer {
		out = append(out, *s)
	}
	sortStandings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memory) Close() error { return nil }

// tally folds one result into a standing.
func tally(s *Standing, r game.Result) {
	s.Played++
	s.Hits += r.HumanScore
	switch r.Outcome {
	case game.HumanWin:
		s.Wins++
	case game.AutomatedWin:
		s.Losses++
	default:
		s.Ties++
	}
}

// sortStandings orders by wins, then hits, then fewest games, then name.
func sortStandings(out []Standing) {
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Hits != b.Hits {
			return a.Hits > b.Hits
		}
		if a.Played != b.Played {
			return a.Played < b.Played
		}
		return strings.ToLower(a.Player) < strings.ToLower(b.Player)
	})
}
