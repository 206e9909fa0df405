package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/overcut/podium/internal/model"
	"github.com/overcut/podium/internal/output"
)

// Output writes JSON-encoded prediction batches to stdout, one batch per
// line unless pretty-printing is on.
type Output struct {
	enc    *json.Encoder
	detail output.Detail
}

// New creates a stdout Output with detail-aware trimming and optional
// pretty-printed JSON.
func New(detail output.Detail, pretty bool) *Output {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc, detail: detail}
}

func (o *Output) Write(_ context.Context, batch model.PredictionBatch) error {
	formatted := output.FormatBatch(batch, o.detail)
	if err := o.enc.Encode(formatted); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
