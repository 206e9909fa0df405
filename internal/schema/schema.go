// Package schema reconciles the feature rows the pipeline produces with
// the ordered feature list a model was trained on. Live data rarely covers
// the training columns exactly: missing features are zero-filled and extras
// dropped, in the trained order, and the substitutions are reported for
// diagnostics rather than treated as failures.
package schema

import (
	"errors"
	"sort"

	"github.com/overcut/podium/internal/model"
)

// ErrEmptySchema is returned when no aligned vector can be produced at all.
var ErrEmptySchema = errors.New("schema: empty feature schema")

// Report records what Align had to substitute. Zero-filling is expected
// operational behavior for live data, so the report is logged, not raised.
type Report struct {
	Missing []string // schema names absent from the row, zero-filled, in schema order
	Dropped []string // row keys the schema does not name, sorted
}

// Clean reports whether alignment was exact.
func (r Report) Clean() bool {
	return len(r.Missing) == 0 && len(r.Dropped) == 0
}

// Align produces one value per schema name, in schema order: the row's
// value when present, else zero. The output length always equals the
// schema length. Only an empty schema is an error.
func Align(row model.FeatureRow, s model.FeatureSchema) ([]float32, Report, error) {
	if len(s) == 0 {
		return nil, Report{}, ErrEmptySchema
	}

	vector := make([]float32, len(s))
	var report Report
	named := make(map[string]struct{}, len(s))

	for i, name := range s {
		named[name] = struct{}{}
		v, ok := row[name]
		if !ok {
			report.Missing = append(report.Missing, name)
			continue
		}
		vector[i] = float32(v)
	}

	for key := range row {
		if _, ok := named[key]; !ok {
			report.Dropped = append(report.Dropped, key)
		}
	}
	sort.Strings(report.Dropped)

	return vector, report, nil
}
