package podium

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

type options struct {
	modelDir     string
	modelVersion string
	onnxLibrary  string
	historyCSV   string
	records      []Record
	workers      int
	registerer   prometheus.Registerer
}

// Option configures a Podium instance.
type Option func(*options)

// WithModelDir sets the root of the versioned model layout.
// Expects: a "current" pointer file and v<version>/ directories holding
// metadata.json, the three .onnx models, and their feature name lists.
func WithModelDir(dir string) Option {
	return func(o *options) { o.modelDir = dir }
}

// WithModelVersion pins a model version instead of following the "current"
// pointer file.
func WithModelVersion(v string) Option {
	return func(o *options) { o.modelVersion = v }
}

// WithONNXLibrary overrides the onnxruntime shared-library path. By default
// the runtime loads libonnxruntime.so from the model version directory.
func WithONNXLibrary(path string) Option {
	return func(o *options) { o.onnxLibrary = path }
}

// WithHistoryCSV loads history from the data collector's CSV export.
func WithHistoryCSV(path string) Option {
	return func(o *options) { o.historyCSV = path }
}

// WithHistory supplies history records directly, taking precedence over
// WithHistoryCSV. Use this when the caller already holds results in memory.
func WithHistory(records []Record) Option {
	return func(o *options) { o.records = records }
}

// WithWorkers bounds per-driver feature computation concurrency.
// Default: runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRegisterer registers the predictor's Prometheus collectors with reg.
// By default no metrics are registered.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

func defaultOptions() options {
	return options{
		modelDir: "models",
		workers:  runtime.NumCPU(),
	}
}
