package feature

import (
	"math"

	"github.com/overcut/podium/internal/model"
)

// logFeatures lists the skewed counts and rates that get a log1p companion.
// The list is fixed: adding or removing a name changes every trained schema.
var logFeatures = []string{
	"wins_so_far",
	"win_rate",
	"points_so_far",
	"podiums_so_far",
	"points_per_race",
	"podium_rate",
	"constructor_wins_so_far",
	"constructor_points_so_far",
	"circuit_wins_history",
}

// Transform derives the engineered features from a row's base values: log
// transforms, fixed-bound normalizations, differences, interactions,
// composite indices, and ordinal buckets. Pure and deterministic — the same
// row always produces the same derived values, with no batch context.
func Transform(row model.FeatureRow) {
	logTransforms(row)
	normalize(row)
	differences(row)
	interactions(row)
	composites(row)
	buckets(row)
}

func logTransforms(row model.FeatureRow) {
	for _, name := range logFeatures {
		v := row[name]
		if v < 0 {
			v = 0
		}
		row[name+"_log"] = math.Log1p(v)
	}
}

func normalize(row model.FeatureRow) {
	row["grid_position_normalized"] = row["grid_position"] / GridPositionMax
	row["constructor_points_normalized"] = row["constructor_points_so_far"] / MaxConstructorSeasonPoints
}

func differences(row model.FeatureRow) {
	row["grid_qualifying_diff"] = row["grid_position"] - row["qualifying_position"]
	row["temp_track_air_diff"] = row["avg_track_temp"] - row["avg_air_temp"]
	// Negative momentum means recent form is better than career form.
	row["momentum_position"] = row["avg_position_last_5"] - row["avg_position_so_far"]
}

func interactions(row model.FeatureRow) {
	grid := row["grid_position"]
	gap := row["qualifying_time_from_pole"]

	row["grid_qualifying_interaction"] = grid * gap
	row["historical_grid_interaction"] = row["circuit_wins_history"] * grid
	row["win_rate_constructor_interaction"] = row["win_rate"] * row["constructor_points_so_far"]

	last5 := row["avg_position_last_5"]
	if last5 == 0 {
		last5 = GridPositionMax
	}
	row["points_recent_form_interaction"] = row["points_per_race"] / last5

	// Trained schemas name both orderings of the same product.
	row["qualifying_gap_grid_interaction"] = gap * grid
}

func composites(row model.FeatureRow) {
	wins := row["wins_so_far"]
	podiums := row["podiums_so_far"]
	if podiums > 0 {
		row["win_podium_ratio"] = wins / podiums
	} else {
		row["win_podium_ratio"] = 0
	}

	last5 := row["avg_position_last_5"]
	row["momentum_score"] = (GridPositionMax + 1 - last5) + row["points_per_race"] + row["win_rate"]*10
	row["position_consistency"] = math.Abs(row["avg_position_so_far"] - last5)
	row["performance_index"] = row["win_rate"]*3 + row["podium_rate"]*2 + row["points_per_race"]
	row["grid_advantage"] = GridPositionMax + 1 - row["grid_position"]

	gap := row["qualifying_time_from_pole"]
	if gap > MaxQualifyingGap {
		gap = MaxQualifyingGap
	}
	row["qualifying_advantage"] = 1 - gap/MaxQualifyingGap

	row["estimated_experience"] = row["races_so_far"] + 2*row["circuit_races_history"]
}

func buckets(row model.FeatureRow) {
	row["experience_level"] = bucket(row["races_so_far"], ExperienceRookieMax, ExperienceRegularMax)
	row["rain_intensity"] = bucket(row["max_rainfall"], RainDryMax, RainLightMax)
	row["qualifying_gap_band"] = bucket(row["qualifying_time_from_pole"], QualifyingGapCloseMax, QualifyingGapMediumMax)
}

// bucket maps v to 0, 1 or 2 against two fixed thresholds.
func bucket(v, lowMax, midMax float64) float64 {
	switch {
	case v <= lowMax:
		return 0
	case v <= midMax:
		return 1
	default:
		return 2
	}
}
