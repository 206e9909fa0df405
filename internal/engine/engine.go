// Package engine orchestrates the window → aggregate → transform → encode →
// align → infer path for one race at a time.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/overcut/podium/internal/bundle"
	"github.com/overcut/podium/internal/feature"
	"github.com/overcut/podium/internal/history"
	"github.com/overcut/podium/internal/leakage"
	"github.com/overcut/podium/internal/metrics"
	"github.com/overcut/podium/internal/model"
	"github.com/overcut/podium/internal/schema"
)

// Engine builds pre-race feature rows and scores them with the loaded
// model set. Safe for concurrent use: the store and the set are read-only
// after construction.
type Engine struct {
	store   *history.Store
	models  *bundle.Set
	workers int
}

// New wires a history store and a model set into an engine. The feature
// catalog is re-checked against the forbidden outcome set here: a catalog
// change that picks up an outcome name must fail construction, not slip
// into inference.
func New(store *history.Store, models *bundle.Set, workers int) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("engine: nil history store")
	}
	if models == nil || models.Win == nil || models.Position == nil || models.Points == nil {
		return nil, fmt.Errorf("engine: incomplete model set")
	}
	if err := leakage.Default().Validate(feature.Catalog()); err != nil {
		return nil, fmt.Errorf("engine: feature catalog: %w", err)
	}
	if workers < 1 {
		workers = 1
	}
	return &Engine{store: store, models: models, workers: workers}, nil
}

// Predict scores every entry on the card. Feature rows are built from
// history strictly before the card's race, so predicting a past race
// replays exactly what was knowable at the time.
func (e *Engine) Predict(ctx context.Context, card model.RaceCard) (*model.PredictionBatch, error) {
	if len(card.Entries) == 0 {
		return nil, fmt.Errorf("engine: race card %d round %d has no entries", card.Season, card.Round)
	}

	window := e.store.Before(card.Season, card.Round)
	n := len(card.Entries)

	entries := make([]model.Entry, n)
	defaulted := make([]bool, n)
	rows := make([]model.FeatureRow, n)

	// Per-driver feature building fans out over a bounded pool; each worker
	// writes only its own indices.
	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	workers := e.workers
	if workers > n {
		workers = n
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				entry, fixed := normalizeEntry(card.Entries[i])
				if fixed {
					slog.Warn("defaulted malformed entry",
						"driver", entry.DriverCode,
						"season", card.Season,
						"round", card.Round)
				}
				row := feature.BuildRow(window, card, entry)
				if err := leakage.CheckRanges(row); err != nil {
					slog.Warn("feature values outside physical range",
						"driver", entry.DriverCode,
						"detail", err.Error())
				}
				entries[i], defaulted[i], rows[i] = entry, fixed, row
			}
		}()
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pWin, err := e.score(rows, e.models.Win)
	if err != nil {
		return nil, err
	}
	pPos, err := e.score(rows, e.models.Position)
	if err != nil {
		return nil, err
	}
	pPts, err := e.score(rows, e.models.Points)
	if err != nil {
		return nil, err
	}

	results := make([]model.PredictionResult, n)
	for i := 0; i < n; i++ {
		results[i] = model.PredictionResult{
			DriverCode:        entries[i].DriverCode,
			Constructor:       entries[i].Constructor,
			GridPosition:      entries[i].GridPosition,
			WinProbability:    clipProbability(pWin[i]),
			PredictedPosition: clipPosition(pPos[i], n),
			PredictedPoints:   clipPoints(pPts[i]),
			Defaulted:         defaulted[i],
		}
		metrics.CountPrediction(defaulted[i])
	}
	sort.SliceStable(results, func(a, b int) bool {
		if results[a].PredictedPosition != results[b].PredictedPosition {
			return results[a].PredictedPosition < results[b].PredictedPosition
		}
		return results[a].DriverCode < results[b].DriverCode
	})

	return &model.PredictionBatch{
		ID:           uuid.NewString(),
		Season:       card.Season,
		Round:        card.Round,
		EventName:    card.EventName,
		ModelVersion: e.models.Version,
		GeneratedAt:  time.Now().UTC(),
		Results:      results,
	}, nil
}

// score aligns every row to one bundle's schema and runs the model over the
// whole field in a single batched call.
func (e *Engine) score(rows []model.FeatureRow, b *bundle.Bundle) ([]float64, error) {
	vecs := make([][]float32, len(rows))
	var first schema.Report
	for i, row := range rows {
		vec, report, err := schema.Align(row, b.Schema)
		if err != nil {
			return nil, fmt.Errorf("engine: align %s: %w", b.Kind, err)
		}
		if i == 0 {
			first = report
		}
		metrics.CountZeroFills(len(report.Missing))
		vecs[i] = vec
	}
	// Every row carries the same key set, so one report describes the batch.
	if !first.Clean() {
		slog.Warn("schema mismatch reconciled",
			"model", string(b.Kind),
			"missing", first.Missing,
			"dropped", first.Dropped)
	}

	start := time.Now()
	outs, err := b.Predict(vecs)
	metrics.ObserveInference(string(b.Kind), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return outs, nil
}

// normalizeEntry repairs malformed pre-race attributes so one driver's bad
// data cannot sink the whole batch. Returns the repaired entry and whether
// anything was defaulted.
func normalizeEntry(e model.Entry) (model.Entry, bool) {
	fixed := false
	if strings.TrimSpace(e.DriverCode) == "" {
		e.DriverCode = "UNK"
		fixed = true
	}
	if e.Constructor == "" {
		fixed = true
	}
	if e.GridPosition < 1 || e.GridPosition > feature.GridPositionMax {
		if e.QualifyingPosition >= 1 && e.QualifyingPosition <= feature.GridPositionMax {
			e.GridPosition = e.QualifyingPosition
		} else {
			e.GridPosition = feature.MidfieldPosition
		}
		fixed = true
	}
	if e.QualifyingPosition < 1 || e.QualifyingPosition > feature.GridPositionMax {
		e.QualifyingPosition = e.GridPosition
		fixed = true
	}
	if e.QualifyingBestTime < 0 {
		e.QualifyingBestTime = 0
		fixed = true
	}
	return e, fixed
}
