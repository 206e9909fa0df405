package model

// FeatureRow maps feature names to numeric values for one driver at one
// target event. Rows are built incrementally (aggregate → transform →
// encode) and discarded after alignment.
type FeatureRow map[string]float64

// Names returns the row's feature names in unspecified order.
func (r FeatureRow) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return names
}

// Clone returns an independent copy of the row.
func (r FeatureRow) Clone() FeatureRow {
	out := make(FeatureRow, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FeatureSchema is the ordered feature list recorded with a trained model.
// Order is part of the contract: the model consumes vectors in exactly this
// order, so the schema is immutable and versioned with the model bundle.
type FeatureSchema []string
