package ports

import (
	"context"

	"regdiag/domain/dataset"
	"regdiag/domain/regression"
)

// RegressionAnalyzer is the external collaborator that computes scalar error
// metrics and diagnostics for an evaluation. Implementations perform
// computation only, no I/O.
//
// baseline is required. current is optional: the aggregator passes the sole
// dataset as baseline when no reference exists, and (reference, current) when
// one does. Implementations must return a nil ErrorBias when current is nil
// and a non-nil one otherwise.
type RegressionAnalyzer interface {
	Analyze(ctx context.Context, baseline, current *dataset.Frame, mapping dataset.ColumnMapping) (regression.AnalyzerResult, error)
}
