package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/overcut/podium/internal/bundle"
	"github.com/overcut/podium/internal/config"
	"github.com/overcut/podium/internal/engine"
	"github.com/overcut/podium/internal/history"
	"github.com/overcut/podium/internal/logging"
	"github.com/overcut/podium/internal/metrics"
	"github.com/overcut/podium/internal/output"
	"github.com/overcut/podium/internal/output/async"
	"github.com/overcut/podium/internal/output/file"
	"github.com/overcut/podium/internal/output/multi"
	"github.com/overcut/podium/internal/output/stdout"
	"github.com/overcut/podium/internal/output/webhook"
	"github.com/overcut/podium/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "podium: %v\n", err)
		os.Exit(2)
	}

	logging.Init(cfg.LogFormat, cfg.OutputTarget != "file", logging.ParseLevel(cfg.LogLevel))
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	// Load the historical table.
	store, err := history.LoadCSV(cfg.HistoryCSV)
	if err != nil {
		log.Fatalf("failed to load history: %v", err)
	}

	// Load the versioned model set.
	set, err := bundle.LoadSet(cfg.ModelDir, cfg.ModelVersion, cfg.ONNXLibrary)
	if err != nil {
		log.Fatalf("failed to load models: %v", err)
	}

	eng, err := engine.New(store, set, cfg.Workers)
	if err != nil {
		set.Close()
		log.Fatalf("failed to build engine: %v", err)
	}

	out, err := buildOutput(cfg)
	if err != nil {
		set.Close()
		log.Fatalf("failed to build output: %v", err)
	}

	p := pipeline.New(store, eng, out)
	defer p.Close()
	defer set.Close()

	// Set up graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %v, shutting down...\n", sig)
		cancel()
	}()

	slog.Info("starting", "models", set.Version, "rounds", len(store.Rounds()))

	if cfg.Replay {
		err = p.Replay(ctx)
	} else {
		err = p.Predict(ctx, cfg.Season, cfg.Round)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("pipeline error: %v", err)
	}
}

func buildOutput(cfg *config.Config) (output.Output, error) {
	detail, err := output.ParseDetail(cfg.OutputDetail)
	if err != nil {
		return nil, err
	}
	var out output.Output
	switch cfg.OutputTarget {
	case "file":
		out, err = file.New(cfg.OutputPath, detail)
		if err != nil {
			return nil, err
		}
	case "both":
		f, err := file.New(cfg.OutputPath, detail)
		if err != nil {
			return nil, err
		}
		out = multi.New(stdout.New(detail, cfg.OutputPretty), f)
	case "webhook":
		out = webhook.New(cfg.OutputURL, detail)
	default:
		out = stdout.New(detail, cfg.OutputPretty)
	}
	if cfg.OutputBuffer > 0 {
		out = async.New(out, async.WithBufferSize(cfg.OutputBuffer))
	}
	return out, nil
}
