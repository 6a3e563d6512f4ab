// Package performance provides the default analyzer: descriptive error
// statistics, an error-normality test, underperformance segmentation, and
// the per-feature error-bias table.
package performance

import (
	"context"
	"math"
	"sort"

	"regdiag/domain/core"
	"regdiag/domain/dataset"
	"regdiag/domain/regression"

	"github.com/montanaflynn/stats"
)

// Tail quantiles separating the underperformance segments from the majority.
const (
	lowerTailQuantile = 0.05
	upperTailQuantile = 0.95
)

// Analyzer computes the delegated metrics over a baseline dataset, plus the
// error-bias comparison when a second dataset is supplied. Pure computation,
// no I/O.
type Analyzer struct{}

// NewAnalyzer creates the default analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze implements ports.RegressionAnalyzer. The scalar metrics and
// diagnostics describe the baseline dataset; ErrorBias is nil when current is
// nil and non-nil otherwise.
func (a *Analyzer) Analyze(ctx context.Context, baseline, current *dataset.Frame, mapping dataset.ColumnMapping) (regression.AnalyzerResult, error) {
	if baseline == nil || baseline.Rows() == 0 {
		return regression.AnalyzerResult{}, core.NewMissingDatasetError("baseline")
	}
	if err := mapping.Validate(); err != nil {
		return regression.AnalyzerResult{}, err
	}

	targets, predictions, err := baseline.ValidPairs(mapping.Target, mapping.Prediction)
	if err != nil {
		return regression.AnalyzerResult{}, err
	}
	if len(targets) == 0 {
		return regression.AnalyzerResult{}, core.NewEmptyDatasetError("analyzer baseline has no valid rows")
	}

	errSeries := make([]float64, len(targets))
	absErrors := make([]float64, len(targets))
	for i := range targets {
		e := targets[i] - predictions[i]
		errSeries[i] = e
		absErrors[i] = math.Abs(e)
	}

	percErrors, err := percentageErrors(targets, predictions)
	if err != nil {
		return regression.AnalyzerResult{}, err
	}

	meanError, _ := stats.Mean(errSeries)
	meanAbsError, _ := stats.Mean(absErrors)
	meanAbsPercError, _ := stats.Mean(percErrors)
	absErrorMax, _ := stats.Max(absErrors)

	result := regression.AnalyzerResult{
		MeanError:        meanError,
		MeanAbsError:     meanAbsError,
		MeanAbsPercError: meanAbsPercError,
		AbsErrorMax:      absErrorMax,
		ErrorStd:         sampleStd(errSeries),
		AbsErrorStd:      sampleStd(absErrors),
		AbsPercErrorStd:  sampleStd(percErrors),
		ErrorNormality:   normalityOfErrors(errSeries),
		Underperformance: segmentErrors(errSeries),
	}

	if current != nil {
		bias, err := errorBias(baseline, current, mapping)
		if err != nil {
			return regression.AnalyzerResult{}, err
		}
		result.ErrorBias = bias
	}
	return result, nil
}

// percentageErrors returns |error/target|*100 per row. Rows whose target is
// zero have no defined percentage error and are skipped; a dataset with no
// nonzero target cannot carry percentage metrics at all.
func percentageErrors(targets, predictions []float64) ([]float64, error) {
	series := make([]float64, 0, len(targets))
	for i := range targets {
		if targets[i] == 0 {
			continue
		}
		series = append(series, math.Abs((targets[i]-predictions[i])/targets[i])*100)
	}
	if len(series) == 0 {
		return nil, core.NewDegenerateInputError("percentage error", "every target value is zero")
	}
	return series, nil
}

// segmentErrors splits the signed errors at the tail quantiles. Errors above
// the upper cut are underestimation (target far above prediction), errors
// below the lower cut are overestimation, the rest are the majority.
func segmentErrors(errSeries []float64) regression.Underperformance {
	low, high := tailCutPoints(errSeries)

	var majority, under, over []float64
	for _, e := range errSeries {
		switch {
		case e < low:
			over = append(over, e)
		case e > high:
			under = append(under, e)
		default:
			majority = append(majority, e)
		}
	}
	return regression.Underperformance{
		Majority:        summarizeSegment(majority),
		Underestimation: summarizeSegment(under),
		Overestimation:  summarizeSegment(over),
	}
}

// tailCutPoints returns the lower and upper tail quantiles of the series.
func tailCutPoints(errSeries []float64) (low, high float64) {
	sorted := append([]float64(nil), errSeries...)
	sort.Float64s(sorted)
	return quantile(sorted, lowerTailQuantile), quantile(sorted, upperTailQuantile)
}

// summarizeSegment reports mean and sample std of one segment. Tail segments
// can be empty for small or near-constant series; empty segments report
// zeros, and single-row segments report zero spread.
func summarizeSegment(segment []float64) regression.ErrorSegment {
	if len(segment) == 0 {
		return regression.ErrorSegment{}
	}
	mean, _ := stats.Mean(segment)
	return regression.ErrorSegment{MeanError: mean, StdError: sampleStd(segment)}
}

// errorBias reports, per feature column present in both frames, the mean
// feature value inside each underperformance segment of each dataset. Each
// dataset is segmented by its own error quantiles.
func errorBias(baseline, current *dataset.Frame, mapping dataset.ColumnMapping) (map[string]regression.ColumnBias, error) {
	bias := make(map[string]regression.ColumnBias)
	for _, feature := range mapping.FeatureColumns(baseline) {
		if !current.HasColumn(feature) {
			continue
		}
		refMajority, refUnder, refOver, err := featureSegmentMeans(baseline, mapping, feature)
		if err != nil {
			return nil, err
		}
		curMajority, curUnder, curOver, err := featureSegmentMeans(current, mapping, feature)
		if err != nil {
			return nil, err
		}
		bias[feature] = regression.ColumnBias{
			FeatureType:     "num",
			RefMajority:     refMajority,
			RefUnder:        refUnder,
			RefOver:         refOver,
			CurrentMajority: curMajority,
			CurrentUnder:    curUnder,
			CurrentOver:     curOver,
		}
	}
	return bias, nil
}

// featureSegmentMeans computes the mean of one feature column within each
// underperformance segment of one frame. Rows with a missing feature value
// are left out of that feature's means only.
func featureSegmentMeans(frame *dataset.Frame, mapping dataset.ColumnMapping, feature string) (majority, under, over float64, err error) {
	rows, err := frame.ValidPairRows(mapping.Target, mapping.Prediction)
	if err != nil {
		return 0, 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, 0, core.NewEmptyDatasetError("error bias needs at least one valid row")
	}

	targets, err := frame.Column(mapping.Target)
	if err != nil {
		return 0, 0, 0, err
	}
	predictions, err := frame.Column(mapping.Prediction)
	if err != nil {
		return 0, 0, 0, err
	}
	values, err := frame.Column(feature)
	if err != nil {
		return 0, 0, 0, err
	}

	errSeries := make([]float64, len(rows))
	for k, i := range rows {
		errSeries[k] = targets[i] - predictions[i]
	}
	low, high := tailCutPoints(errSeries)

	var majorityVals, underVals, overVals []float64
	for k, i := range rows {
		v := values[i]
		if dataset.Missing(v) {
			continue
		}
		switch {
		case errSeries[k] < low:
			overVals = append(overVals, v)
		case errSeries[k] > high:
			underVals = append(underVals, v)
		default:
			majorityVals = append(majorityVals, v)
		}
	}
	return meanOrZero(majorityVals), meanOrZero(underVals), meanOrZero(overVals), nil
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, _ := stats.Mean(values)
	return mean
}

// sampleStd is the n-1 standard deviation. Series shorter than two values
// have no estimable spread and report 0.
func sampleStd(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	std, _ := stats.StandardDeviationSample(series)
	return std
}

// quantile returns the linearly interpolated q-quantile of an ascending
// sorted series. Defined for any non-empty series, unlike rank-based
// percentile rules that reject cut points below one rank.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
