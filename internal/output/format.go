package output

import (
	"fmt"

	"github.com/overcut/podium/internal/model"
)

// Detail selects how much of each batch a destination records.
type Detail int

const (
	// Full keeps the whole field.
	Full Detail = iota
	// Podium keeps only the top three predicted finishers.
	Podium
)

// ParseDetail maps a config string to a Detail.
func ParseDetail(s string) (Detail, error) {
	switch s {
	case "", "full":
		return Full, nil
	case "podium":
		return Podium, nil
	default:
		return Full, fmt.Errorf("output: unknown detail %q", s)
	}
}

// FormatBatch returns a copy of the batch trimmed according to detail.
// Results arrive sorted by predicted position, so the podium is the first
// three rows.
func FormatBatch(b model.PredictionBatch, d Detail) model.PredictionBatch {
	if d == Podium && len(b.Results) > 3 {
		b.Results = b.Results[:3]
	}
	return b
}
