// Package analysis implements the regression performance core: the
// error-distribution binner and the metrics aggregator that assembles one
// performance record per evaluation.
package analysis

import (
	"math"

	"regdiag/domain/core"
	"regdiag/domain/dataset"
	"regdiag/domain/regression"

	"github.com/montanaflynn/stats"
)

// maxTargetBins caps how many target quantization segments are produced for
// high-cardinality targets.
const maxTargetBins = 10

// BinDistributions computes the two error-distribution summaries for one
// dataset: a signed-error histogram with adaptively chosen bin edges, and the
// mean absolute error per target quantization bin. Rows with a missing target
// or prediction are excluded from both summaries. The frame itself is never
// modified; all derived series are private copies.
//
// Both outputs are deterministic for identical input. The histogram counts
// and the binned-MAE counts each sum to the number of valid rows.
func BinDistributions(frame *dataset.Frame, mapping dataset.ColumnMapping) ([]regression.HistogramBin, []regression.BinnedMAEEntry, error) {
	if frame == nil || frame.Rows() == 0 {
		return nil, nil, core.NewEmptyDatasetError("distribution binning needs at least one row")
	}
	targets, predictions, err := frame.ValidPairs(mapping.Target, mapping.Prediction)
	if err != nil {
		return nil, nil, err
	}
	if len(targets) == 0 {
		return nil, nil, core.NewEmptyDatasetError("no rows hold both target and prediction")
	}

	errSeries := make([]float64, len(targets))
	for i := range targets {
		errSeries[i] = targets[i] - predictions[i]
	}

	histogram := errorHistogram(errSeries)
	binned := binnedMAE(targets, predictions)
	return histogram, binned, nil
}

// errorHistogram builds the signed-error histogram. Bin edges follow the
// Doane rule; entries are (left edge, count) in ascending edge order. Bins
// are left-closed, with the top bin also including its upper bound.
func errorHistogram(errSeries []float64) []regression.HistogramBin {
	first, _ := stats.Min(errSeries)
	last, _ := stats.Max(errSeries)

	binWidth := doaneWidth(errSeries, last-first)
	if first == last {
		// Constant error series: one unit-wide bin around the sole value.
		first -= 0.5
		last += 0.5
	}

	binCount := 1
	if binWidth > 0 {
		binCount = int(math.Ceil((last - first) / binWidth))
		if binCount < 1 {
			binCount = 1
		}
	}

	width := (last - first) / float64(binCount)
	counts := make([]int, binCount)
	for _, e := range errSeries {
		idx := int((e - first) / width)
		if idx >= binCount {
			idx = binCount - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}

	bins := make([]regression.HistogramBin, binCount)
	for i, count := range counts {
		bins[i] = regression.HistogramBin{
			LeftEdge: first + float64(i)*width,
			Count:    count,
		}
	}
	return bins
}

// doaneWidth computes the Doane-rule bin width: Sturges' rule widened by a
// skewness term so that heavily skewed error series still get readable bins.
// Returns 0 where the rule is undefined (n <= 2 or zero spread); the caller
// falls back to a single bin.
func doaneWidth(series []float64, spread float64) float64 {
	n := float64(len(series))
	if n <= 2 || spread <= 0 {
		return 0
	}

	mean, _ := stats.Mean(series)
	sigma, _ := stats.StandardDeviation(series)
	if sigma == 0 {
		return 0
	}

	sumCubedDeviations := 0.0
	for _, v := range series {
		deviation := (v - mean) / sigma
		sumCubedDeviations += deviation * deviation * deviation
	}
	g1 := sumCubedDeviations / n
	sigmaG1 := math.Sqrt(6 * (n - 2) / ((n + 1) * (n + 3)))

	return spread / (1 + math.Log2(n) + math.Log2(1+math.Abs(g1)/sigmaG1))
}

// binnedMAE quantizes the target range into min(distinct values, 10)
// equal-width intervals and reports mean absolute error and row count per
// interval. Only intervals holding at least one row are emitted, ascending
// by lower edge.
func binnedMAE(targets, predictions []float64) []regression.BinnedMAEEntry {
	binCount := targetBinCount(targets)
	low, _ := stats.Min(targets)
	high, _ := stats.Max(targets)
	width := (high - low) / float64(binCount)

	sums := make([]float64, binCount)
	counts := make([]int, binCount)
	for i, t := range targets {
		idx := 0
		if width > 0 {
			idx = int((t - low) / width)
			if idx >= binCount {
				idx = binCount - 1
			}
		}
		sums[idx] += math.Abs(targets[i] - predictions[i])
		counts[idx]++
	}

	entries := make([]regression.BinnedMAEEntry, 0, binCount)
	for b := 0; b < binCount; b++ {
		if counts[b] == 0 {
			continue
		}
		interval := regression.TargetInterval{
			Low:  low + float64(b)*width,
			High: low + float64(b+1)*width,
		}
		if b == binCount-1 {
			interval.High = high
		}
		entries = append(entries, regression.BinnedMAEEntry{
			Interval: interval,
			MAE:      sums[b] / float64(counts[b]),
			Count:    counts[b],
		})
	}
	return entries
}

// targetBinCount counts distinct target values, capped at maxTargetBins.
// A target with 3 distinct values gets 3 segments, not 10 arbitrary ones.
func targetBinCount(targets []float64) int {
	distinct := make(map[float64]struct{}, len(targets))
	for _, t := range targets {
		distinct[t] = struct{}{}
	}
	if len(distinct) > maxTargetBins {
		return maxTargetBins
	}
	return len(distinct)
}
