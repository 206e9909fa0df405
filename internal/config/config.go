// Package config loads process configuration for the podium CLI.
//
// Values layer in order of precedence (low to high): built-in defaults, an
// optional YAML file named by PODIUM_CONFIG, then PODIUM_* environment
// variables. Feature-engineering constants (forbidden features, encoding
// modulus, normalization bounds) are deliberately NOT configurable — they
// live in internal/feature and internal/leakage so training and inference
// can never disagree.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains everything the CLI needs to assemble a pipeline.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the handler: auto, json, text.
	LogFormat string `koanf:"log_format"`

	// ModelDir is the root of the versioned model layout
	// (<dir>/v<semver>/... plus a "current" pointer file).
	ModelDir string `koanf:"model_dir"`
	// ModelVersion pins a version; empty follows the "current" pointer.
	ModelVersion string `koanf:"model_version"`
	// ONNXLibrary overrides the onnxruntime shared-library path.
	ONNXLibrary string `koanf:"onnx_library"`

	// HistoryCSV is the data collector's historical race export.
	HistoryCSV string `koanf:"history_csv"`

	// OutputTarget is "stdout", "file", "both", or "webhook".
	OutputTarget string `koanf:"output_target"`
	// OutputPath is the file path when OutputTarget is "file" or "both".
	OutputPath string `koanf:"output_path"`
	// OutputURL is the endpoint when OutputTarget is "webhook".
	OutputURL string `koanf:"output_url"`
	// OutputPretty indents JSON output for human reading.
	OutputPretty bool `koanf:"output_pretty"`
	// OutputDetail is "full" (whole field) or "podium" (top three only).
	OutputDetail string `koanf:"output_detail"`
	// OutputBuffer > 0 decouples writes from inference through a buffered
	// channel of that capacity; sink errors are then logged, not returned.
	OutputBuffer int `koanf:"output_buffer"`

	// Workers bounds per-driver feature computation concurrency.
	Workers int `koanf:"workers"`

	// Season and Round select the target race for a one-shot prediction.
	Season int `koanf:"season"`
	Round  int `koanf:"round"`
	// Replay predicts every round in the history in order instead of a
	// single target race.
	Replay bool `koanf:"replay"`
}

func defaults() Config {
	return Config{
		LogLevel:     "info",
		LogFormat:    "auto",
		ModelDir:     "models",
		HistoryCSV:   "data/historical_races.csv",
		OutputTarget: "stdout",
		OutputDetail: "full",
		Workers:      runtime.NumCPU(),
	}
}

// Load builds a Config by layering defaults, an optional YAML file, and
// PODIUM_* environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	k := koanf.New(".")

	if path := os.Getenv("PODIUM_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	// PODIUM_MODEL_DIR -> model_dir, matching the koanf tags above.
	envProvider := env.Provider("PODIUM_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "PODIUM_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.OutputTarget {
	case "stdout", "file", "both", "webhook":
	default:
		return fmt.Errorf("config: unknown output_target %q", c.OutputTarget)
	}
	if (c.OutputTarget == "file" || c.OutputTarget == "both") && c.OutputPath == "" {
		return fmt.Errorf("config: output_target=%s requires output_path", c.OutputTarget)
	}
	if c.OutputTarget == "webhook" && c.OutputURL == "" {
		return fmt.Errorf("config: output_target=webhook requires output_url")
	}
	switch c.OutputDetail {
	case "full", "podium":
	default:
		return fmt.Errorf("config: unknown output_detail %q", c.OutputDetail)
	}
	if c.OutputBuffer < 0 {
		return fmt.Errorf("config: output_buffer must be >= 0, got %d", c.OutputBuffer)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be >= 1, got %d", c.Workers)
	}
	if !c.Replay && (c.Season == 0 || c.Round == 0) {
		return fmt.Errorf("config: season and round are required unless replay is set")
	}
	return nil
}
