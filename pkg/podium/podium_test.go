package podium

import (
	"context"
	"os"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/overcut/podium/internal/model"
)

// skipWithoutModels skips tests that need real ONNX model files. Set
// PODIUM_TEST_MODEL_DIR to a trained model layout to run them.
func skipWithoutModels(t *testing.T) string {
	t.Helper()
	dir := os.Getenv("PODIUM_TEST_MODEL_DIR")
	if dir == "" {
		t.Skip("PODIUM_TEST_MODEL_DIR not set, skipping integration test")
	}
	return dir
}

func historyFixture() []Record {
	rec := func(season, round int, driver, team string, grid, pos float64) Record {
		return Record{
			Season:             season,
			Round:              round,
			Driver:             driver,
			Constructor:        team,
			Grid:               grid,
			QualifyingPosition: grid,
			QualifyingBestTime: 80 + grid/10,
			Position:           pos,
			Points:             12 - pos,
			Winner:             pos == 1,
			Circuit:            "Suzuka",
			Country:            "Japan",
			EventName:          "Japanese Grand Prix",
			CircuitLength:      5.807,
			AirTemp:            19,
			TrackTemp:          27,
			Humidity:           60,
			WindSpeed:          1.8,
		}
	}
	return []Record{
		rec(2023, 1, "VER", "Red Bull Racing", 1, 1),
		rec(2023, 1, "NOR", "McLaren", 2, 3),
		rec(2023, 2, "VER", "Red Bull Racing", 1, 2),
		rec(2023, 2, "NOR", "McLaren", 3, 1),
	}
}

func raceFixture() Race {
	return Race{
		Season:        2023,
		Round:         3,
		Circuit:       "Suzuka",
		Country:       "Japan",
		EventName:     "Japanese Grand Prix",
		CircuitLength: 5.807,
		AirTemp:       19,
		TrackTemp:     27,
		Humidity:      60,
		WindSpeed:     1.8,
		Entries: []Entry{
			{Driver: "VER", Number: 1, Constructor: "Red Bull Racing", Grid: 2, QualifyingPosition: 2, QualifyingBestTime: 89.3},
			{Driver: "NOR", Number: 4, Constructor: "McLaren", Grid: 1, QualifyingPosition: 1, QualifyingBestTime: 89.1},
		},
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := defaultOptions()
	if o.modelDir != "models" {
		t.Errorf("default model dir = %q, want models", o.modelDir)
	}
	if o.workers != runtime.NumCPU() {
		t.Errorf("default workers = %d, want %d", o.workers, runtime.NumCPU())
	}
	if o.registerer != nil {
		t.Error("default registerer should be nil")
	}
}

func TestNewRequiresHistory(t *testing.T) {
	_, err := New(WithModelDir(t.TempDir()))
	if err == nil {
		t.Fatal("expected error when no history source is configured")
	}
}

func TestNewBadModelDir(t *testing.T) {
	_, err := New(
		WithModelDir("/nonexistent/path"),
		WithHistory(historyFixture()),
	)
	if err == nil {
		t.Fatal("expected error for bad model dir, got nil")
	}
}

func TestCardFromRace(t *testing.T) {
	card := cardFromRace(raceFixture())
	if card.Season != 2023 || card.Round != 3 {
		t.Errorf("card race = %d round %d, want 2023 round 3", card.Season, card.Round)
	}
	if card.CircuitName != "Suzuka" || card.EventName != "Japanese Grand Prix" {
		t.Errorf("card context = %q/%q", card.CircuitName, card.EventName)
	}
	if len(card.Entries) != 2 {
		t.Fatalf("card has %d entries, want 2", len(card.Entries))
	}
	if card.Entries[0].DriverCode != "VER" || card.Entries[0].GridPosition != 2 {
		t.Errorf("first entry = %+v", card.Entries[0])
	}
	if card.Entries[1].QualifyingBestTime != 89.1 {
		t.Errorf("second entry best time = %v, want 89.1", card.Entries[1].QualifyingBestTime)
	}
}

func TestRecordToInternal(t *testing.T) {
	recs := historyFixture()
	got := recordToInternal(recs[0])
	if got.DriverCode != "VER" || got.Constructor != "Red Bull Racing" {
		t.Errorf("driver fields = %q/%q", got.DriverCode, got.Constructor)
	}
	if !got.Winner || got.Position != 1 {
		t.Errorf("outcome fields = winner=%v position=%v", got.Winner, got.Position)
	}
	if got.CircuitName != "Suzuka" || got.TrackTemp != 27 {
		t.Errorf("context fields = %q/%v", got.CircuitName, got.TrackTemp)
	}
}

func TestForecastFromBatch(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	batch := &model.PredictionBatch{
		ID:           "b-1",
		Season:       2024,
		Round:        9,
		EventName:    "Canadian Grand Prix",
		ModelVersion: "1.2.0",
		GeneratedAt:  ts,
		Results: []model.PredictionResult{
			{DriverCode: "PIA", Constructor: "McLaren", GridPosition: 2, WinProbability: 0.41, PredictedPosition: 1.3, PredictedPoints: 21.2},
			{DriverCode: "RUS", Constructor: "Mercedes", GridPosition: 1, WinProbability: 0.32, PredictedPosition: 2.1, PredictedPoints: 17.8, Defaulted: true},
		},
	}
	f := forecastFromBatch(batch)
	if f.ID != "b-1" || f.ModelVersion != "1.2.0" || !f.GeneratedAt.Equal(ts) {
		t.Errorf("forecast metadata = %+v", f)
	}
	if len(f.Predictions) != 2 {
		t.Fatalf("forecast has %d predictions, want 2", len(f.Predictions))
	}
	if f.Predictions[0].Driver != "PIA" || f.Predictions[0].WinProbability != 0.41 {
		t.Errorf("first prediction = %+v", f.Predictions[0])
	}
	if !f.Predictions[1].Defaulted {
		t.Error("defaulted flag lost in conversion")
	}
}

func TestForecastPodium(t *testing.T) {
	f := &Forecast{Predictions: []Prediction{
		{Driver: "VER"}, {Driver: "NOR"}, {Driver: "LEC"}, {Driver: "HAM"},
	}}
	top := f.Podium()
	if len(top) != 3 {
		t.Fatalf("podium has %d drivers, want 3", len(top))
	}
	if top[0].Driver != "VER" || top[2].Driver != "LEC" {
		t.Errorf("podium = %v", top)
	}

	small := &Forecast{Predictions: []Prediction{{Driver: "VER"}}}
	if len(small.Podium()) != 1 {
		t.Errorf("small field podium = %v", small.Podium())
	}
}

func TestPredictWithRealModels(t *testing.T) {
	dir := skipWithoutModels(t)

	p, err := New(
		WithModelDir(dir),
		WithHistory(historyFixture()),
		WithWorkers(2),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer p.Close()

	if p.Version() == "" {
		t.Error("Version() is empty")
	}

	f, err := p.Predict(context.Background(), raceFixture())
	if err != nil {
		t.Fatalf("Predict() error: %v", err)
	}
	if len(f.Predictions) != 2 {
		t.Fatalf("got %d predictions, want 2", len(f.Predictions))
	}
	for _, pr := range f.Predictions {
		if pr.WinProbability < 0 || pr.WinProbability > 1 {
			t.Errorf("%s: win probability %v outside [0,1]", pr.Driver, pr.WinProbability)
		}
		if pr.PredictedPosition < 1 || pr.PredictedPosition > 2 {
			t.Errorf("%s: predicted position %v outside the field", pr.Driver, pr.PredictedPosition)
		}
	}
	if f.Predictions[0].PredictedPosition > f.Predictions[1].PredictedPosition {
		t.Error("predictions not sorted by predicted position")
	}
}

func TestConcurrentPredict(t *testing.T) {
	dir := skipWithoutModels(t)

	p, err := New(WithModelDir(dir), WithHistory(historyFixture()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer p.Close()

	const goroutines = 10
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Predict(context.Background(), raceFixture())
			if err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Predict() error: %v", err)
	}
}
