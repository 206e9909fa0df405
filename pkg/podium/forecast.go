package podium

import "time"

// Prediction is one driver's predicted outcome, every value clipped to its
// valid domain.
type Prediction struct {
	Driver      string  `json:"driver"`
	Constructor string  `json:"constructor"`
	Grid        float64 `json:"grid"`

	WinProbability    float64 `json:"win_probability"`    // [0, 1]
	PredictedPosition float64 `json:"predicted_position"` // [1, field size]
	PredictedPoints   float64 `json:"predicted_points"`   // [0, max points per race]

	Defaulted bool `json:"defaulted,omitempty"` // built from defaulted attributes
}

// Forecast is the predicted outcome of one race, sorted by predicted
// position. This is the stable public type — internal representations may
// evolve independently without breaking consumers.
type Forecast struct {
	ID           string       `json:"id"`
	Season       int          `json:"season"`
	Round        int          `json:"round"`
	EventName    string       `json:"event_name"`
	ModelVersion string       `json:"model_version"`
	GeneratedAt  time.Time    `json:"generated_at"`
	Predictions  []Prediction `json:"predictions"`
}

// Podium returns the top three predicted finishers, or the whole field when
// fewer than three drivers are entered.
func (f *Forecast) Podium() []Prediction {
	if len(f.Predictions) <= 3 {
		return f.Predictions
	}
	return f.Predictions[:3]
}
