package output

import (
	"context"

	"github.com/overcut/podium/internal/model"
)

// Output defines the interface for prediction-batch destinations.
type Output interface {
	Write(ctx context.Context, batch model.PredictionBatch) error
	Close() error
}
