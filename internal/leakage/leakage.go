// Package leakage guards the feature pipeline against outcome information
// entering the features that predict that same outcome. The forbidden set
// is a fixed, named constant — not configuration — so training and
// inference can never disagree about it. A false negative here produces a
// model that looks perfect on historical data and fails in production, so
// the engine validates its full feature catalog at construction, not just
// at training time.
package leakage

import (
	"fmt"
	"sort"
	"strings"
)

// forbiddenAtPrediction names every outcome-only field: values that do not
// exist until the race being predicted has finished.
var forbiddenAtPrediction = []string{
	"race_position",
	"final_position",
	"position",
	"points",
	"dnf",
	"winner",
	"fastest_lap_time",
	"fastest_lap_rank",
	"race_time",
	"time_retired",
	"laps_completed",
	"podium",
	"points_scored",
	"finished",
	"classified",
}

// Error reports forbidden features found in a candidate set. It halts the
// pipeline run that produced it; it is never recovered automatically.
type Error struct {
	Features []string // sorted
}

func (e *Error) Error() string {
	return fmt.Sprintf("leakage: %d forbidden feature(s) in candidate set: %s",
		len(e.Features), strings.Join(e.Features, ", "))
}

// Validator checks candidate feature names against a forbidden set. The
// set is injected at construction so tests can substitute alternates; use
// Default for the fixed production set.
type Validator struct {
	forbidden map[string]struct{}
}

// New builds a Validator around an explicit forbidden set.
func New(forbidden []string) *Validator {
	set := make(map[string]struct{}, len(forbidden))
	for _, name := range forbidden {
		set[name] = struct{}{}
	}
	return &Validator{forbidden: set}
}

// Default returns a Validator carrying the fixed production forbidden set.
func Default() *Validator {
	return New(forbiddenAtPrediction)
}

// Validate returns a *Error naming every forbidden feature present in
// names, or nil when the intersection is empty.
func (v *Validator) Validate(names []string) error {
	var leaked []string
	for _, name := range names {
		if _, ok := v.forbidden[name]; ok {
			leaked = append(leaked, name)
		}
	}
	if len(leaked) == 0 {
		return nil
	}
	sort.Strings(leaked)
	return &Error{Features: leaked}
}

// Forbidden lists the validator's forbidden set, sorted.
func (v *Validator) Forbidden() []string {
	out := make([]string, 0, len(v.forbidden))
	for name := range v.forbidden {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
