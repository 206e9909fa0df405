package model

import "time"

// PredictionResult is one driver's predicted outcome, each value clipped to
// its valid domain before packaging.
type PredictionResult struct {
	DriverCode   string  `json:"driver_code"`
	Constructor  string  `json:"constructor"`
	GridPosition float64 `json:"grid_position"`

	WinProbability    float64 `json:"win_probability"`    // [0, 1]
	PredictedPosition float64 `json:"predicted_position"` // [1, field size]
	PredictedPoints   float64 `json:"predicted_points"`   // [0, max points per race]

	Defaulted bool `json:"defaulted,omitempty"` // row built from defaulted attributes
}

// PredictionBatch is the engine's output for one race: every entered
// driver's PredictionResult, sorted by predicted position.
type PredictionBatch struct {
	ID           string    `json:"id"`
	Season       int       `json:"season"`
	Round        int       `json:"round"`
	EventName    string    `json:"event_name"`
	ModelVersion string    `json:"model_version"`
	GeneratedAt  time.Time `json:"generated_at"`

	Results []PredictionResult `json:"results"`
}
