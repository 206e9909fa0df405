package feature

import (
	"math"
	"testing"

	"github.com/overcut/podium/internal/model"
)

func baseRow() model.FeatureRow {
	return model.FeatureRow{
		"grid_position":             4,
		"qualifying_position":       2,
		"qualifying_time_from_pole": 0.25,
		"avg_air_temp":              22,
		"avg_track_temp":            31,
		"max_rainfall":              0,
		"wins_so_far":               3,
		"points_so_far":             120,
		"podiums_so_far":            6,
		"races_so_far":              12,
		"avg_position_so_far":       4.5,
		"avg_position_last_5":       3.5,
		"win_rate":                  0.25,
		"podium_rate":               0.5,
		"points_per_race":           10,
		"constructor_points_so_far": 200,
		"constructor_wins_so_far":   4,
		"circuit_wins_history":      1,
		"circuit_races_history":     2,
		"circuit_avg_position":      2.5,
	}
}

func TestLogTransforms(t *testing.T) {
	row := baseRow()
	Transform(row)

	if got, want := row["wins_so_far_log"], math.Log1p(3); !almostEqual(got, want) {
		t.Errorf("wins_so_far_log = %v, want %v", got, want)
	}
	if got, want := row["points_so_far_log"], math.Log1p(120); !almostEqual(got, want) {
		t.Errorf("points_so_far_log = %v, want %v", got, want)
	}
	if got, want := row["win_rate_log"], math.Log1p(0.25); !almostEqual(got, want) {
		t.Errorf("win_rate_log = %v, want %v", got, want)
	}
	// log1p is defined at zero.
	zero := model.FeatureRow{}
	Transform(zero)
	if zero["wins_so_far_log"] != 0 {
		t.Errorf("log1p(0) = %v, want 0", zero["wins_so_far_log"])
	}
}

func TestNormalizationUsesFixedBounds(t *testing.T) {
	row := baseRow()
	row["grid_position"] = 10
	row["constructor_points_so_far"] = MaxConstructorSeasonPoints / 2
	Transform(row)

	if !almostEqual(row["grid_position_normalized"], 0.5) {
		t.Errorf("grid_position_normalized = %v, want 0.5", row["grid_position_normalized"])
	}
	if !almostEqual(row["constructor_points_normalized"], 0.5) {
		t.Errorf("constructor_points_normalized = %v, want 0.5", row["constructor_points_normalized"])
	}
}

func TestDifferences(t *testing.T) {
	row := baseRow()
	Transform(row)

	if !almostEqual(row["grid_qualifying_diff"], 2) {
		t.Errorf("grid_qualifying_diff = %v, want 2 (grid penalty)", row["grid_qualifying_diff"])
	}
	if !almostEqual(row["temp_track_air_diff"], 9) {
		t.Errorf("temp_track_air_diff = %v, want 9", row["temp_track_air_diff"])
	}
	if !almostEqual(row["momentum_position"], -1) {
		t.Errorf("momentum_position = %v, want -1 (improving form)", row["momentum_position"])
	}
}

func TestInteractions(t *testing.T) {
	row := baseRow()
	Transform(row)

	if !almostEqual(row["grid_qualifying_interaction"], 4*0.25) {
		t.Errorf("grid_qualifying_interaction = %v, want 1", row["grid_qualifying_interaction"])
	}
	if !almostEqual(row["historical_grid_interaction"], 1*4) {
		t.Errorf("historical_grid_interaction = %v, want 4", row["historical_grid_interaction"])
	}
	if !almostEqual(row["win_rate_constructor_interaction"], 0.25*200) {
		t.Errorf("win_rate_constructor_interaction = %v, want 50", row["win_rate_constructor_interaction"])
	}
	if !almostEqual(row["points_recent_form_interaction"], 10/3.5) {
		t.Errorf("points_recent_form_interaction = %v, want %v", row["points_recent_form_interaction"], 10/3.5)
	}
	if !almostEqual(row["qualifying_gap_grid_interaction"], row["grid_qualifying_interaction"]) {
		t.Error("the two gap-grid interactions must agree")
	}
}

func TestInteractionZeroFormGuard(t *testing.T) {
	row := model.FeatureRow{"points_per_race": 10}
	Transform(row)

	// A zero recent-form average divides against the full grid instead.
	if !almostEqual(row["points_recent_form_interaction"], 10.0/GridPositionMax) {
		t.Errorf("points_recent_form_interaction = %v, want %v",
			row["points_recent_form_interaction"], 10.0/GridPositionMax)
	}
}

func TestComposites(t *testing.T) {
	row := baseRow()
	Transform(row)

	if !almostEqual(row["win_podium_ratio"], 0.5) {
		t.Errorf("win_podium_ratio = %v, want 0.5", row["win_podium_ratio"])
	}
	wantMomentum := (21 - 3.5) + 10 + 0.25*10
	if !almostEqual(row["momentum_score"], wantMomentum) {
		t.Errorf("momentum_score = %v, want %v", row["momentum_score"], wantMomentum)
	}
	if !almostEqual(row["position_consistency"], 1) {
		t.Errorf("position_consistency = %v, want 1", row["position_consistency"])
	}
	wantIndex := 0.25*3 + 0.5*2 + 10
	if !almostEqual(row["performance_index"], wantIndex) {
		t.Errorf("performance_index = %v, want %v", row["performance_index"], wantIndex)
	}
	if !almostEqual(row["grid_advantage"], 17) {
		t.Errorf("grid_advantage = %v, want 17", row["grid_advantage"])
	}
	if !almostEqual(row["estimated_experience"], 12+2*2) {
		t.Errorf("estimated_experience = %v, want 16", row["estimated_experience"])
	}
}

func TestWinPodiumRatioZeroPodiums(t *testing.T) {
	row := model.FeatureRow{"wins_so_far": 0, "podiums_so_far": 0}
	Transform(row)
	if row["win_podium_ratio"] != 0 {
		t.Errorf("win_podium_ratio = %v, want 0 when no podiums", row["win_podium_ratio"])
	}
}

func TestQualifyingAdvantage(t *testing.T) {
	tests := []struct {
		gap  float64
		want float64
	}{
		{0, 1},                      // on pole
		{MaxQualifyingGap / 2, 0.5}, // mid-range
		{MaxQualifyingGap, 0},       // at the bound
		{MaxQualifyingGap * 2, 0},   // clamped beyond the bound
	}
	for _, tt := range tests {
		row := model.FeatureRow{"qualifying_time_from_pole": tt.gap}
		Transform(row)
		if !almostEqual(row["qualifying_advantage"], tt.want) {
			t.Errorf("qualifying_advantage(gap=%v) = %v, want %v", tt.gap, row["qualifying_advantage"], tt.want)
		}
	}
}

func TestBuckets(t *testing.T) {
	tests := []struct {
		name    string
		feature string
		source  string
		value   float64
		want    float64
	}{
		{"rookie at threshold", "experience_level", "races_so_far", 10, 0},
		{"experienced just past", "experience_level", "races_so_far", 11, 1},
		{"experienced at threshold", "experience_level", "races_so_far", 50, 1},
		{"veteran", "experience_level", "races_so_far", 51, 2},
		{"dry", "rain_intensity", "max_rainfall", 0, 0},
		{"light rain", "rain_intensity", "max_rainfall", 0.5, 1},
		{"heavy rain", "rain_intensity", "max_rainfall", 2.0, 2},
		{"close gap", "qualifying_gap_band", "qualifying_time_from_pole", 0.3, 0},
		{"medium gap", "qualifying_gap_band", "qualifying_time_from_pole", 1.0, 1},
		{"far gap", "qualifying_gap_band", "qualifying_time_from_pole", 2.5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := model.FeatureRow{tt.source: tt.value}
			Transform(row)
			if row[tt.feature] != tt.want {
				t.Errorf("%s(%s=%v) = %v, want %v", tt.feature, tt.source, tt.value, row[tt.feature], tt.want)
			}
		})
	}
}

func TestTransformDeterministic(t *testing.T) {
	a := baseRow()
	b := baseRow()
	Transform(a)
	Transform(b)

	if len(a) != len(b) {
		t.Fatalf("diverging row sizes: %d vs %d", len(a), len(b))
	}
	for name, v := range a {
		if b[name] != v {
			t.Errorf("%s: %v vs %v", name, v, b[name])
		}
	}
}
