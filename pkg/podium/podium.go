package podium

import (
	"context"
	"fmt"

	"github.com/overcut/podium/internal/bundle"
	"github.com/overcut/podium/internal/engine"
	"github.com/overcut/podium/internal/history"
	"github.com/overcut/podium/internal/metrics"
	"github.com/overcut/podium/internal/model"
)

// Podium is a race outcome predictor. It loads a versioned set of ONNX
// models plus the history they were trained against, and scores entry lists
// with the same feature computation the training pipeline used.
// Safe for concurrent use.
type Podium struct {
	set    *bundle.Set
	engine *engine.Engine
}

// New creates a Podium instance, loading the model set and history. This is
// an expensive operation (ONNX sessions plus a full CSV parse) — create
// once, reuse across requests.
func New(opts ...Option) (*Podium, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	store, err := loadStore(o)
	if err != nil {
		return nil, fmt.Errorf("podium: %w", err)
	}

	set, err := bundle.LoadSet(o.modelDir, o.modelVersion, o.onnxLibrary)
	if err != nil {
		return nil, fmt.Errorf("podium: %w", err)
	}

	eng, err := engine.New(store, set, o.workers)
	if err != nil {
		set.Close()
		return nil, fmt.Errorf("podium: %w", err)
	}

	if o.registerer != nil {
		if err := metrics.Register(o.registerer); err != nil {
			set.Close()
			return nil, fmt.Errorf("podium: %w", err)
		}
	}

	return &Podium{set: set, engine: eng}, nil
}

// Predict scores every entry on the race card. Only results recorded
// strictly before (race.Season, race.Round) feed the features.
func (p *Podium) Predict(ctx context.Context, race Race) (*Forecast, error) {
	batch, err := p.engine.Predict(ctx, cardFromRace(race))
	if err != nil {
		return nil, err
	}
	return forecastFromBatch(batch), nil
}

// Version returns the loaded model set's version.
func (p *Podium) Version() string {
	return p.set.Version
}

// Close releases the ONNX sessions. Must be called when the Podium instance
// is no longer needed.
func (p *Podium) Close() error {
	return p.set.Close()
}

func loadStore(o options) (*history.Store, error) {
	if len(o.records) > 0 {
		recs := make([]model.EventRecord, len(o.records))
		for i, r := range o.records {
			recs[i] = recordToInternal(r)
		}
		return history.NewStore(recs), nil
	}
	if o.historyCSV == "" {
		return nil, fmt.Errorf("no history source: use WithHistoryCSV or WithHistory")
	}
	return history.LoadCSV(o.historyCSV)
}

// cardFromRace converts the public Race to the internal card type.
func cardFromRace(r Race) model.RaceCard {
	card := model.RaceCard{
		Season:        r.Season,
		Round:         r.Round,
		CircuitName:   r.Circuit,
		Country:       r.Country,
		EventName:     r.EventName,
		CircuitLength: r.CircuitLength,
		AirTemp:       r.AirTemp,
		TrackTemp:     r.TrackTemp,
		Humidity:      r.Humidity,
		WindSpeed:     r.WindSpeed,
		Rainfall:      r.Rainfall,
		HadRain:       r.Rain,
		Entries:       make([]model.Entry, len(r.Entries)),
	}
	for i, e := range r.Entries {
		card.Entries[i] = model.Entry{
			DriverCode:         e.Driver,
			DriverNumber:       e.Number,
			Constructor:        e.Constructor,
			GridPosition:       e.Grid,
			QualifyingPosition: e.QualifyingPosition,
			QualifyingBestTime: e.QualifyingBestTime,
		}
	}
	return card
}

func recordToInternal(r Record) model.EventRecord {
	return model.EventRecord{
		Season:             r.Season,
		Round:              r.Round,
		DriverCode:         r.Driver,
		DriverNumber:       r.Number,
		Constructor:        r.Constructor,
		GridPosition:       r.Grid,
		QualifyingPosition: r.QualifyingPosition,
		QualifyingBestTime: r.QualifyingBestTime,
		Position:           r.Position,
		Points:             r.Points,
		Winner:             r.Winner,
		DNF:                r.DNF,
		FastestLapTime:     r.FastestLapTime,
		CircuitName:        r.Circuit,
		Country:            r.Country,
		EventName:          r.EventName,
		CircuitLength:      r.CircuitLength,
		AirTemp:            r.AirTemp,
		TrackTemp:          r.TrackTemp,
		Humidity:           r.Humidity,
		WindSpeed:          r.WindSpeed,
		Rainfall:           r.Rainfall,
		HadRain:            r.Rain,
	}
}

// forecastFromBatch converts the internal PredictionBatch to the public
// Forecast type.
func forecastFromBatch(b *model.PredictionBatch) *Forecast {
	f := &Forecast{
		ID:           b.ID,
		Season:       b.Season,
		Round:        b.Round,
		EventName:    b.EventName,
		ModelVersion: b.ModelVersion,
		GeneratedAt:  b.GeneratedAt,
		Predictions:  make([]Prediction, len(b.Results)),
	}
	for i, r := range b.Results {
		f.Predictions[i] = Prediction{
			Driver:            r.DriverCode,
			Constructor:       r.Constructor,
			Grid:              r.GridPosition,
			WinProbability:    r.WinProbability,
			PredictedPosition: r.PredictedPosition,
			PredictedPoints:   r.PredictedPoints,
			Defaulted:         r.Defaulted,
		}
	}
	return f
}
