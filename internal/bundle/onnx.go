package bundle

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Safe to call multiple
// times; only the first call has any effect.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// onnxRunner wraps a DynamicAdvancedSession for one tabular model taking a
// single float32 input of shape [rows, features].
type onnxRunner struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	features   int64
	width      int64 // columns per row in the output tensor
	col        int64 // column holding the value we report per row
	outDims    int   // rank of the output tensor (1 or 2)
}

// newONNXRunner loads an ONNX model and creates an inference session. It
// validates the model's tensor shapes against the tabular layout the
// exporter produces and against the feature count the schema promises.
func newONNXRunner(modelPath, libPath string, kind Kind, features int) (Runner, error) {
	if libPath == "" {
		// Default to the runtime library shipped alongside the model files.
		libPath = filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}

	if len(inputs) != 1 {
		return nil, fmt.Errorf("onnx: expected a single input tensor, got %d", len(inputs))
	}
	in := inputs[0]
	if len(in.Dimensions) != 2 {
		return nil, fmt.Errorf("onnx: expected 2D input tensor, got %v", in.Dimensions)
	}
	// The second axis is the feature count; exporters usually record it
	// statically, in which case it must agree with the schema.
	if n := in.Dimensions[1]; n > 0 && n != int64(features) {
		return nil, fmt.Errorf("onnx: model expects %d features, schema lists %d", n, features)
	}

	out, err := pickOutput(outputs)
	if err != nil {
		return nil, err
	}
	width, err := outputWidth(kind, out)
	if err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{in.Name},
		[]string{out.Name},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	r := &onnxRunner{
		session:    session,
		inputName:  in.Name,
		outputName: out.Name,
		features:   int64(features),
		width:      width,
		outDims:    len(out.Dimensions),
	}
	if r.width >= 2 {
		// Binary classifier probabilities come out as [P(lose), P(win)].
		r.col = 1
	}
	return r, nil
}

// pickOutput selects the tensor predictions are read from. Classifier
// exports emit a label tensor alongside the probability tensor; regressors
// emit a single value tensor.
func pickOutput(outputs []ort.InputOutputInfo) (ort.InputOutputInfo, error) {
	if len(outputs) == 0 {
		return ort.InputOutputInfo{}, fmt.Errorf("onnx: model has no outputs")
	}
	for _, out := range outputs {
		if strings.Contains(out.Name, "probabilit") {
			return out, nil
		}
	}
	for _, out := range outputs {
		if out.Name != "label" && out.Name != "output_label" {
			return out, nil
		}
	}
	return outputs[0], nil
}

// outputWidth validates the output tensor's shape for the model kind and
// returns the number of columns per row.
func outputWidth(kind Kind, out ort.InputOutputInfo) (int64, error) {
	var width int64
	switch len(out.Dimensions) {
	case 1:
		width = 1
	case 2:
		width = out.Dimensions[1]
	default:
		return 0, fmt.Errorf("onnx: expected 1D or 2D output tensor, got %v", out.Dimensions)
	}
	if width <= 0 {
		return 0, fmt.Errorf("onnx: output tensor %q has dynamic width %v", out.Name, out.Dimensions)
	}
	switch kind {
	case KindWin:
		if width > 2 {
			return 0, fmt.Errorf("onnx: win model emits %d classes per row, want at most 2", width)
		}
	default:
		if width != 1 {
			return 0, fmt.Errorf("onnx: %s model emits %d columns per row, want 1", kind, width)
		}
	}
	return width, nil
}

// Run scores rows feature vectors flattened row-major into flat. ONNX
// Runtime sessions are safe for concurrent Run calls, so no locking is
// needed here.
func (r *onnxRunner) Run(flat []float32, rows int) ([]float64, error) {
	if rows <= 0 {
		return nil, nil
	}
	if int64(len(flat)) != int64(rows)*r.features {
		return nil, fmt.Errorf("onnx: input length %d does not match %d rows of %d features", len(flat), rows, r.features)
	}

	tIn, err := ort.NewTensor(ort.NewShape(int64(rows), r.features), flat)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer tIn.Destroy()

	outShape := ort.NewShape(int64(rows), r.width)
	if r.outDims == 1 {
		outShape = ort.NewShape(int64(rows))
	}
	tOut, err := ort.NewEmptyTensor[float32](outShape)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer tOut.Destroy()

	err = r.session.Run(
		[]ort.Value{tIn},
		[]ort.Value{tOut},
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	data := tOut.GetData()
	if int64(len(data)) < int64(rows)*r.width {
		return nil, fmt.Errorf("onnx: output tensor holds %d values, want %d", len(data), int64(rows)*r.width)
	}
	outs := make([]float64, rows)
	for i := range outs {
		outs[i] = float64(data[int64(i)*r.width+r.col])
	}
	return outs, nil
}

// Close releases the ONNX session resources.
func (r *onnxRunner) Close() error {
	return r.session.Destroy()
}
