package analysis

import (
	"context"

	"regdiag/domain/core"
	"regdiag/domain/dataset"
	"regdiag/domain/regression"
	"regdiag/ports"

	"github.com/montanaflynn/stats"
)

// Aggregator orchestrates one regression performance evaluation: a single
// analyzer delegation, the directly computed fit metrics, and distribution
// binning for each dataset present.
type Aggregator struct {
	analyzer ports.RegressionAnalyzer
}

// NewAggregator creates an aggregator delegating to the given analyzer.
func NewAggregator(analyzer ports.RegressionAnalyzer) *Aggregator {
	return &Aggregator{analyzer: analyzer}
}

// Calculate produces the performance record for a current dataset and an
// optional reference dataset. The record's reference-derived fields are set
// if and only if reference is non-nil. The record is assembled once and
// never mutated afterward; failures surface immediately, nothing is masked
// or substituted.
func (a *Aggregator) Calculate(ctx context.Context, current, reference *dataset.Frame, mapping dataset.ColumnMapping) (regression.Result, error) {
	if current == nil {
		return regression.Result{}, core.NewMissingDatasetError("current")
	}
	if err := mapping.Validate(); err != nil {
		return regression.Result{}, err
	}

	// One analyzer invocation, one call shape: without a reference the sole
	// dataset is the analyzer's baseline, otherwise the reference is the
	// baseline and the current dataset rides along for comparison.
	baseline, compared := current, (*dataset.Frame)(nil)
	if reference != nil {
		baseline, compared = reference, current
	}
	delegated, err := a.analyzer.Analyze(ctx, baseline, compared, mapping)
	if err != nil {
		if core.IsDomainError(err) {
			return regression.Result{}, err
		}
		return regression.Result{}, core.NewComputationError("analyzer", err)
	}

	r2, mse, err := fitMetrics(current, mapping)
	if err != nil {
		return regression.Result{}, err
	}

	histogram, binned, err := BinDistributions(current, mapping)
	if err != nil {
		return regression.Result{}, err
	}

	var refHistogram []regression.HistogramBin
	var refBinned []regression.BinnedMAEEntry
	if reference != nil {
		refHistogram, refBinned, err = BinDistributions(reference, mapping)
		if err != nil {
			return regression.Result{}, err
		}
	}

	return regression.Result{
		R2Score:          r2,
		MeanSquaredError: mse,

		MeanError:         delegated.MeanError,
		ErrorHistogram:    histogram,
		RefErrorHistogram: refHistogram,
		MeanAbsError:      delegated.MeanAbsError,
		BinnedMAE:         binned,
		RefBinnedMAE:      refBinned,

		MeanAbsPercError: delegated.MeanAbsPercError,
		AbsErrorMax:      delegated.AbsErrorMax,
		ErrorStd:         delegated.ErrorStd,
		AbsErrorStd:      delegated.AbsErrorStd,
		AbsPercErrorStd:  delegated.AbsPercErrorStd,

		ErrorNormality:   delegated.ErrorNormality,
		Underperformance: delegated.Underperformance,
		ErrorBias:        delegated.ErrorBias,
	}, nil
}

// fitMetrics computes R² and mean squared error over the dataset's valid
// rows. Both are derived in one pass rather than re-assembled from analyzer
// aggregates so they cannot drift from the raw data. A target with zero
// variance makes R² undefined and is reported as an error, never as 0.
func fitMetrics(frame *dataset.Frame, mapping dataset.ColumnMapping) (r2, mse float64, err error) {
	targets, predictions, err := frame.ValidPairs(mapping.Target, mapping.Prediction)
	if err != nil {
		return 0, 0, err
	}
	if len(targets) == 0 {
		return 0, 0, core.NewEmptyDatasetError("fit metrics need at least one valid row")
	}

	mean, _ := stats.Mean(targets)
	ssRes, ssTot := 0.0, 0.0
	for i := range targets {
		residual := targets[i] - predictions[i]
		total := targets[i] - mean
		ssRes += residual * residual
		ssTot += total * total
	}

	mse = ssRes / float64(len(targets))
	if ssTot == 0 {
		return 0, 0, core.NewDegenerateInputError("r2", "target variance is zero")
	}
	return 1 - ssRes/ssTot, mse, nil
}
