// Package bundle loads trained model bundles and runs inference over them.
//
// A bundle pairs one exported ONNX model with the ordered feature schema it
// was trained on and the metadata recorded at export time. Model sets live
// in a versioned directory layout:
//
//	models/
//	  current              # names the active version directory, e.g. v1.2.0
//	  v1.2.0/
//	    metadata.json      # version, export time, per-model files and metrics
//	    win_classifier.onnx
//	    position_regressor.onnx
//	    points_regressor.onnx
//	    feature_names_win.json
//	    feature_names_position.json
//	    feature_names_points.json
//
// A Set is loaded once at startup and never mutated afterwards, so it is
// safe to share across concurrent predictions.
package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/overcut/podium/internal/model"
)

// Kind identifies which of the three trained models a bundle holds.
type Kind string

const (
	KindWin      Kind = "win"
	KindPosition Kind = "position"
	KindPoints   Kind = "points"
)

// Runner executes one trained model over a batch of aligned feature
// vectors. Implementations must be safe for concurrent use.
type Runner interface {
	// Run scores rows vectors flattened row-major into flat and returns one
	// value per row: the win probability for the classifier, the raw
	// prediction for the regressors.
	Run(flat []float32, rows int) ([]float64, error)
	Close() error
}

// Meta records training provenance exported alongside a model.
type Meta struct {
	Version   string
	TrainedAt time.Time
	Metrics   map[string]float64
}

// Bundle is one trained model plus the ordered feature schema it expects.
// Immutable after construction.
type Bundle struct {
	Kind   Kind
	Schema model.FeatureSchema
	Meta   Meta

	runner Runner
}

// New wraps a runner with its feature schema and metadata. A bundle that
// expects no features cannot score anything, so an empty schema is rejected.
func New(kind Kind, schema model.FeatureSchema, meta Meta, r Runner) (*Bundle, error) {
	if len(schema) == 0 {
		return nil, fmt.Errorf("bundle: %s: empty feature schema", kind)
	}
	if r == nil {
		return nil, fmt.Errorf("bundle: %s: nil runner", kind)
	}
	return &Bundle{Kind: kind, Schema: schema, Meta: meta, runner: r}, nil
}

// Predict scores one aligned vector per driver. Every vector must already
// be aligned to the bundle's schema.
func (b *Bundle) Predict(vectors [][]float32) ([]float64, error) {
	if len(vectors) == 0 {
		return nil, nil
	}
	width := len(b.Schema)
	flat := make([]float32, 0, len(vectors)*width)
	for i, vec := range vectors {
		if len(vec) != width {
			return nil, fmt.Errorf("bundle: %s: vector %d has %d features, schema expects %d", b.Kind, i, len(vec), width)
		}
		flat = append(flat, vec...)
	}
	outs, err := b.runner.Run(flat, len(vectors))
	if err != nil {
		return nil, fmt.Errorf("bundle: %s: %w", b.Kind, err)
	}
	if len(outs) != len(vectors) {
		return nil, fmt.Errorf("bundle: %s: runner returned %d values for %d rows", b.Kind, len(outs), len(vectors))
	}
	return outs, nil
}

// Close releases the bundle's model session.
func (b *Bundle) Close() error {
	return b.runner.Close()
}

// Set holds the three bundles the prediction engine serves with. Loading is
// all or nothing: the engine never runs on a partial set.
type Set struct {
	Win      *Bundle
	Position *Bundle
	Points   *Bundle
	Version  string
}

// manifest mirrors metadata.json inside a version directory.
type manifest struct {
	Version   string                `json:"version"`
	TrainedAt time.Time             `json:"trained_at"`
	Models    map[string]modelFiles `json:"models"`
}

type modelFiles struct {
	File     string             `json:"file"`
	Features string             `json:"features"`
	Metrics  map[string]float64 `json:"metrics"`
}

// runnerFactory opens the inference session for one model file. Tests
// substitute in-memory runners; LoadSet uses the ONNX session.
type runnerFactory func(modelPath, libPath string, kind Kind, features int) (Runner, error)

// LoadSet loads the model set for version from dir. An empty version
// resolves through the `current` pointer file. libPath overrides the ONNX
// Runtime shared library location; empty means the library shipped
// alongside the models.
func LoadSet(dir, version, libPath string) (*Set, error) {
	return loadSet(dir, version, libPath, newONNXRunner)
}

func loadSet(dir, version, libPath string, open runnerFactory) (*Set, error) {
	if version == "" {
		v, err := currentVersion(dir)
		if err != nil {
			return nil, err
		}
		version = v
	}
	root := filepath.Join(dir, "v"+strings.TrimPrefix(version, "v"))

	m, err := readManifest(filepath.Join(root, "metadata.json"))
	if err != nil {
		return nil, err
	}
	meta := Meta{Version: m.Version, TrainedAt: m.TrainedAt}

	set := &Set{Version: m.Version}
	for _, kind := range []Kind{KindWin, KindPosition, KindPoints} {
		files, ok := m.Models[string(kind)]
		if !ok {
			set.Close()
			return nil, fmt.Errorf("bundle: metadata.json in %s has no %q model entry", root, kind)
		}
		b, err := loadOne(root, kind, files, meta, libPath, open)
		if err != nil {
			set.Close()
			return nil, err
		}
		switch kind {
		case KindWin:
			set.Win = b
		case KindPosition:
			set.Position = b
		case KindPoints:
			set.Points = b
		}
	}
	return set, nil
}

func loadOne(root string, kind Kind, files modelFiles, meta Meta, libPath string, open runnerFactory) (*Bundle, error) {
	if files.File == "" || files.Features == "" {
		return nil, fmt.Errorf("bundle: %s: metadata entry missing file or features name", kind)
	}
	schema, err := readSchema(filepath.Join(root, files.Features))
	if err != nil {
		return nil, fmt.Errorf("bundle: %s: %w", kind, err)
	}
	modelPath := filepath.Join(root, files.File)
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("bundle: %s: model file: %w", kind, err)
	}
	meta.Metrics = files.Metrics
	r, err := open(modelPath, libPath, kind, len(schema))
	if err != nil {
		return nil, fmt.Errorf("bundle: %s: %w", kind, err)
	}
	return New(kind, schema, meta, r)
}

// readSchema parses a feature-names file: a JSON array of feature names in
// the exact order the model was trained on.
func readSchema(path string) (model.FeatureSchema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feature schema: %w", err)
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("parse feature schema %s: %w", filepath.Base(path), err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("feature schema %s is empty", filepath.Base(path))
	}
	return model.FeatureSchema(names), nil
}

func readManifest(path string) (*manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bundle: read metadata: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("bundle: parse %s: %w", path, err)
	}
	if m.Version == "" {
		return nil, fmt.Errorf("bundle: %s has no version", path)
	}
	return &m, nil
}

func currentVersion(dir string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "current"))
	if err != nil {
		return "", fmt.Errorf("bundle: resolve current model version: %w", err)
	}
	v := strings.TrimSpace(string(raw))
	if v == "" {
		return "", fmt.Errorf("bundle: current version pointer in %s is empty", dir)
	}
	return v, nil
}

// Close releases every model session in the set.
func (s *Set) Close() error {
	var errs []error
	for _, b := range []*Bundle{s.Win, s.Position, s.Points} {
		if b != nil {
			if err := b.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
