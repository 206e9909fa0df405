// Package feature builds the numeric feature rows consumed by the
// prediction models. A row is assembled in stages — pre-race card values,
// historical aggregates, deterministic transforms, categorical encodings —
// each a pure function so every stage is testable with literal inputs.
//
// All constants here are shared between training and inference. Changing
// any of them invalidates every previously trained model schema.
package feature

// RecentFormWindow is the number of most recent classified races used for
// rolling form statistics.
const RecentFormWindow = 5

// GridPositionMax is the fixed upper bound used to normalize grid and
// qualifying positions. Normalization never derives bounds from the current
// batch: batch-derived bounds change with field size and break
// reproducibility between sessions.
const GridPositionMax = 20

// MidfieldPosition is the domain-neutral default for position averages when
// a driver has no classified history. Rates default to 0 instead; a zero
// win rate is honest for a rookie, a zero position would be out of domain.
const MidfieldPosition = 10.5

// MaxConstructorSeasonPoints is the fixed normalization bound for
// cumulative constructor points: the theoretical maximum a two-car team can
// score in a season under the current points system.
const MaxConstructorSeasonPoints = 1056

// MaxRacePoints is the most one driver can score in a single race
// (25 for the win plus 1 for fastest lap).
const MaxRacePoints = 26

// MaxQualifyingGap caps the gap to pole, in seconds, used by the
// qualifying_advantage composite. Gaps beyond it score zero advantage.
const MaxQualifyingGap = 3.0

// EncodingModulus bounds categorical hash encodings to [0, 1000).
const EncodingModulus = 1000

// Ordinal bucket thresholds. Fixed-threshold ordinals replace the
// data-driven one-hot columns an earlier iteration of the catalog used:
// one-hot columns generated from whatever values appear in a batch produce
// a different column set at inference than at training.
const (
	ExperienceRookieMax  = 10 // races; at most this many -> rookie (0)
	ExperienceRegularMax = 50 // races; at most this many -> experienced (1), beyond -> veteran (2)

	RainDryMax   = 0.1 // mm; at most this much -> dry (0)
	RainLightMax = 1.0 // mm; at most this much -> light (1), beyond -> heavy (2)

	QualifyingGapCloseMax  = 0.5 // seconds behind pole -> close (0)
	QualifyingGapMediumMax = 2.0 // seconds behind pole -> medium (1), beyond -> far (2)
)

// Catalog returns the full ordered list of features the pipeline produces.
// Training records a (possibly reduced) copy of this order as the model
// schema; the engine validates the catalog against the forbidden-feature
// set once at construction so an outcome-derived feature can never be added
// unnoticed.
func Catalog() []string {
	return []string{
		// Pre-race card values.
		"grid_position",
		"qualifying_position",
		"qualifying_best_time",
		"qualifying_time_from_pole",
		"avg_air_temp",
		"avg_track_temp",
		"avg_humidity",
		"avg_wind_speed",
		"max_rainfall",
		"had_rain",
		"circuit_length",

		// Historical aggregates.
		"wins_so_far",
		"points_so_far",
		"podiums_so_far",
		"races_so_far",
		"avg_position_so_far",
		"avg_position_last_5",
		"points_per_race",
		"win_rate",
		"podium_rate",
		"constructor_points_so_far",
		"constructor_wins_so_far",
		"circuit_wins_history",
		"circuit_races_history",
		"circuit_avg_position",

		// Log transforms.
		"wins_so_far_log",
		"win_rate_log",
		"points_so_far_log",
		"podiums_so_far_log",
		"points_per_race_log",
		"podium_rate_log",
		"constructor_wins_so_far_log",
		"constructor_points_so_far_log",
		"circuit_wins_history_log",

		// Fixed-bound normalizations.
		"grid_position_normalized",
		"constructor_points_normalized",

		// Differences and momentum.
		"grid_qualifying_diff",
		"temp_track_air_diff",
		"momentum_position",

		// Categorical encodings.
		"circuit_name_encoded",
		"country_encoded",
		"event_name_encoded",
		"driver_code_encoded",

		// Interactions.
		"grid_qualifying_interaction",
		"historical_grid_interaction",
		"win_rate_constructor_interaction",
		"points_recent_form_interaction",
		"qualifying_gap_grid_interaction",

		// Composite indices.
		"win_podium_ratio",
		"momentum_score",
		"position_consistency",
		"performance_index",
		"grid_advantage",
		"qualifying_advantage",
		"estimated_experience",

		// Ordinal buckets.
		"experience_level",
		"rain_intensity",
		"qualifying_gap_band",
	}
}
