package leakage

import (
	"fmt"
	"strings"

	"github.com/overcut/podium/internal/model"
)

// QualityError reports data-quality problems: temporal inconsistencies or
// out-of-range values. Unlike Error it describes corrupt inputs rather than
// a broken catalog.
type QualityError struct {
	Issues []string
}

func (e *QualityError) Error() string {
	return fmt.Sprintf("data quality: %d issue(s): %s",
		len(e.Issues), strings.Join(e.Issues, "; "))
}

// CheckTemporal verifies that no record is from the target race or later.
// Historical stats computed over records that fail this check would leak
// the outcome they are supposed to predict.
func CheckTemporal(records []model.EventRecord, season, round int) error {
	future := 0
	for _, r := range records {
		if r.Season > season || (r.Season == season && r.Round >= round) {
			future++
		}
	}
	if future == 0 {
		return nil
	}
	return &QualityError{Issues: []string{
		fmt.Sprintf("%d record(s) at or after target (%d, %d)", future, season, round),
	}}
}

// rangeChecks bounds the plausible domain of selected features. Only keys
// present in the row are checked, so partial rows pass.
var rangeChecks = []struct {
	name     string
	min, max float64
}{
	{"grid_position", 1, 20},
	{"qualifying_position", 1, 20},
	{"avg_air_temp", -10, 60},
	{"avg_track_temp", -10, 60},
	{"win_rate", 0, 1},
	{"podium_rate", 0, 1},
}

// CheckRanges verifies that a row's values sit inside their physical
// domains, catching corrupt inputs before they skew a prediction.
func CheckRanges(row model.FeatureRow) error {
	var issues []string
	for _, c := range rangeChecks {
		v, ok := row[c.name]
		if !ok {
			continue
		}
		if v < c.min || v > c.max {
			issues = append(issues, fmt.Sprintf("%s=%v outside [%v, %v]", c.name, v, c.min, c.max))
		}
	}
	if len(issues) == 0 {
		return nil
	}
	return &QualityError{Issues: issues}
}
