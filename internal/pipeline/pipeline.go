// Package pipeline connects the history store, the prediction engine, and
// an output into a runnable whole.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/overcut/podium/internal/engine"
	"github.com/overcut/podium/internal/history"
	"github.com/overcut/podium/internal/leakage"
	"github.com/overcut/podium/internal/model"
	"github.com/overcut/podium/internal/output"
)

// Pipeline drives the engine over race cards assembled from the historical
// table and hands every batch to the output.
type Pipeline struct {
	store  *history.Store
	engine *engine.Engine
	output output.Output
}

// New creates a Pipeline from the given components.
func New(store *history.Store, eng *engine.Engine, out output.Output) *Pipeline {
	return &Pipeline{store: store, engine: eng, output: out}
}

// Predict runs a one-shot prediction for the given season and round. The
// card is assembled from the round's recorded pre-race attributes; its
// features come only from rounds strictly before it, so the target's own
// outcome columns are never consulted even when already filled in.
func (p *Pipeline) Predict(ctx context.Context, season, round int) error {
	card, err := p.card(season, round)
	if err != nil {
		return err
	}
	batch, err := p.engine.Predict(ctx, card)
	if err != nil {
		return fmt.Errorf("pipeline predict: %w", err)
	}
	if err := p.output.Write(ctx, *batch); err != nil {
		return fmt.Errorf("pipeline output: %w", err)
	}
	return nil
}

// Replay predicts every recorded round in order, each from strictly prior
// history. The temporal guard re-checks every window anyway and aborts the
// replay on a violation.
func (p *Pipeline) Replay(ctx context.Context) error {
	rounds := p.store.Rounds()
	if len(rounds) == 0 {
		return fmt.Errorf("pipeline replay: empty history")
	}
	for _, rk := range rounds {
		if err := ctx.Err(); err != nil {
			return err
		}
		window := p.store.Before(rk.Season, rk.Round)
		if err := leakage.CheckTemporal(window, rk.Season, rk.Round); err != nil {
			return fmt.Errorf("pipeline replay %d round %d: %w", rk.Season, rk.Round, err)
		}
		if err := p.Predict(ctx, rk.Season, rk.Round); err != nil {
			return err
		}
		slog.Debug("replayed round", "season", rk.Season, "round", rk.Round)
	}
	return nil
}

// card assembles the pre-race card for a recorded round: session context
// from the round's first record, one entry per driver. Outcome fields are
// never copied.
func (p *Pipeline) card(season, round int) (model.RaceCard, error) {
	records := p.store.At(season, round)
	if len(records) == 0 {
		return model.RaceCard{}, fmt.Errorf("pipeline: no entries recorded for season %d round %d", season, round)
	}
	first := records[0]
	card := model.RaceCard{
		Season:        season,
		Round:         round,
		CircuitName:   first.CircuitName,
		Country:       first.Country,
		EventName:     first.EventName,
		CircuitLength: first.CircuitLength,
		AirTemp:       first.AirTemp,
		TrackTemp:     first.TrackTemp,
		Humidity:      first.Humidity,
		WindSpeed:     first.WindSpeed,
		Rainfall:      first.Rainfall,
		HadRain:       first.HadRain,
	}
	for _, r := range records {
		card.Entries = append(card.Entries, model.Entry{
			DriverCode:         r.DriverCode,
			DriverNumber:       r.DriverNumber,
			Constructor:        r.Constructor,
			GridPosition:       r.GridPosition,
			QualifyingPosition: r.QualifyingPosition,
			QualifyingBestTime: r.QualifyingBestTime,
		})
	}
	return card, nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}
