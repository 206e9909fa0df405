// Package history holds the immutable historical event table and the
// time-windowing queries that feed feature aggregation. Windows are strictly
// bounded below the target (season, round), so a feature computed from a
// window can never see the race it describes.
package history

import (
	"log/slog"
	"sort"

	"github.com/overcut/podium/internal/model"
)

// RoundKey identifies one race.
type RoundKey struct {
	Season int
	Round  int
}

// Store wraps a time-ordered, read-only event table. Construct once, share
// freely; no method mutates it.
type Store struct {
	records []model.EventRecord // sorted by (Season, Round)
}

// NewStore copies, deduplicates, and time-orders the given records.
// Collector re-runs append corrected rows to the export, so a (season,
// round, driver) key can repeat; the last occurrence wins.
func NewStore(records []model.EventRecord) *Store {
	type key struct {
		season, round int
		driver        string
	}
	seen := make(map[key]int, len(records))
	deduped := make([]model.EventRecord, 0, len(records))
	dropped := 0
	for _, r := range records {
		k := key{r.Season, r.Round, r.DriverCode}
		if i, ok := seen[k]; ok {
			deduped[i] = r
			dropped++
			continue
		}
		seen[k] = len(deduped)
		deduped = append(deduped, r)
	}
	if dropped > 0 {
		slog.Debug("collapsed duplicate history rows", "dropped", dropped)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		if deduped[i].Season != deduped[j].Season {
			return deduped[i].Season < deduped[j].Season
		}
		return deduped[i].Round < deduped[j].Round
	})
	return &Store{records: deduped}
}

// Len returns the number of records in the table.
func (s *Store) Len() int { return len(s.records) }

// Before returns every record strictly before the target:
// season < target season, or same season and round < target round.
// The target race itself is never included, even when present in the table.
func (s *Store) Before(season, round int) Window {
	cut := sort.Search(len(s.records), func(i int) bool {
		r := s.records[i]
		return r.Season > season || (r.Season == season && r.Round >= round)
	})
	return Window(s.records[:cut:cut])
}

// At returns the records of exactly one race, in table order.
func (s *Store) At(season, round int) []model.EventRecord {
	lo := sort.Search(len(s.records), func(i int) bool {
		r := s.records[i]
		return r.Season > season || (r.Season == season && r.Round >= round)
	})
	hi := lo
	for hi < len(s.records) && s.records[hi].Season == season && s.records[hi].Round == round {
		hi++
	}
	return s.records[lo:hi:hi]
}

// Rounds lists every distinct (season, round) in chronological order.
func (s *Store) Rounds() []RoundKey {
	var keys []RoundKey
	for _, r := range s.records {
		k := RoundKey{Season: r.Season, Round: r.Round}
		if len(keys) == 0 || keys[len(keys)-1] != k {
			keys = append(keys, k)
		}
	}
	return keys
}

// Window is a time-ordered subsequence of the event table. An empty window
// is valid: it means "no history" and aggregates over it return defined
// defaults rather than failing.
type Window []model.EventRecord

// Driver narrows the window to one driver's records.
func (w Window) Driver(code string) Window {
	var out Window
	for _, r := range w {
		if r.DriverCode == code {
			out = append(out, r)
		}
	}
	return out
}

// Constructor narrows the window to one constructor's records.
func (w Window) Constructor(name string) Window {
	var out Window
	for _, r := range w {
		if r.Constructor == name {
			out = append(out, r)
		}
	}
	return out
}

// Circuit narrows the window to races at one circuit.
func (w Window) Circuit(name string) Window {
	var out Window
	for _, r := range w {
		if r.CircuitName == name {
			out = append(out, r)
		}
	}
	return out
}

// Last returns the most recent n records, or the whole window if shorter.
func (w Window) Last(n int) Window {
	if n >= len(w) {
		return w
	}
	return w[len(w)-n:]
}
