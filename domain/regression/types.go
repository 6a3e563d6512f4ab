// Package regression defines the typed results of regression performance
// evaluation: scalar quality metrics, error-distribution summaries, and the
// aggregate record handed to consumers.
package regression

import "fmt"

// HistogramBin is one bin of the signed-error histogram: the bin's left edge
// and the number of valid rows whose error falls inside it.
type HistogramBin struct {
	LeftEdge float64 `json:"left_edge"`
	Count    int     `json:"count"`
}

// TargetInterval is one quantization bin of the target's value range.
// Intervals are left-closed; the top interval also includes its upper bound.
type TargetInterval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// String renders the interval as a display label.
func (ti TargetInterval) String() string {
	return fmt.Sprintf("[%g, %g]", ti.Low, ti.High)
}

// BinnedMAEEntry is the mean absolute error and row count for one target
// quantization bin. Only bins holding at least one valid row are emitted.
type BinnedMAEEntry struct {
	Interval TargetInterval `json:"interval"`
	MAE      float64        `json:"mae"`
	Count    int            `json:"count"`
}

// ErrorNormality summarizes a normality test over the signed-error series.
type ErrorNormality struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	IsNormal  bool    `json:"is_normal"`
}

// ErrorSegment summarizes the signed error inside one underperformance
// segment.
type ErrorSegment struct {
	MeanError float64 `json:"mean_error"`
	StdError  float64 `json:"std_error"`
}

// Underperformance splits rows by the extreme quantiles of signed error:
// the majority in the middle, underestimation at the top tail (target far
// above prediction) and overestimation at the bottom tail.
type Underperformance struct {
	Majority        ErrorSegment `json:"majority"`
	Underestimation ErrorSegment `json:"underestimation"`
	Overestimation  ErrorSegment `json:"overestimation"`
}

// ColumnBias reports, for one feature column, the column's mean value inside
// each underperformance segment of the reference and current datasets.
type ColumnBias struct {
	FeatureType     string  `json:"feature_type"`
	RefMajority     float64 `json:"ref_majority"`
	RefUnder        float64 `json:"ref_under"`
	RefOver         float64 `json:"ref_over"`
	CurrentMajority float64 `json:"current_majority"`
	CurrentUnder    float64 `json:"current_under"`
	CurrentOver     float64 `json:"current_over"`
}

// AnalyzerResult is the shape every analyzer implementation returns. The
// scalar metrics and diagnostics describe the baseline dataset the analyzer
// was given; ErrorBias is nil unless both datasets were supplied.
type AnalyzerResult struct {
	MeanError        float64               `json:"mean_error"`
	MeanAbsError     float64               `json:"mean_abs_error"`
	MeanAbsPercError float64               `json:"mean_abs_perc_error"`
	AbsErrorMax      float64               `json:"abs_error_max"`
	ErrorStd         float64               `json:"error_std"`
	AbsErrorStd      float64               `json:"abs_error_std"`
	AbsPercErrorStd  float64               `json:"abs_perc_error_std"`
	ErrorNormality   ErrorNormality        `json:"error_normality"`
	Underperformance Underperformance      `json:"underperformance"`
	ErrorBias        map[string]ColumnBias `json:"error_bias,omitempty"`
}

// Result is the aggregate performance record for one evaluation. It is
// assembled once per Calculate invocation and never mutated afterward.
// Reference-derived fields (RefErrorHistogram, RefBinnedMAE, ErrorBias) are
// nil if and only if no reference dataset was supplied.
type Result struct {
	R2Score          float64 `json:"r2_score"`
	MeanSquaredError float64 `json:"mean_squared_error"`

	MeanError         float64          `json:"mean_error"`
	ErrorHistogram    []HistogramBin   `json:"error_histogram"`
	RefErrorHistogram []HistogramBin   `json:"ref_error_histogram,omitempty"`
	MeanAbsError      float64          `json:"mean_abs_error"`
	BinnedMAE         []BinnedMAEEntry `json:"binned_mae"`
	RefBinnedMAE      []BinnedMAEEntry `json:"ref_binned_mae,omitempty"`

	MeanAbsPercError float64 `json:"mean_abs_perc_error"`
	AbsErrorMax      float64 `json:"abs_error_max"`
	ErrorStd         float64 `json:"error_std"`
	AbsErrorStd      float64 `json:"abs_error_std"`
	AbsPercErrorStd  float64 `json:"abs_perc_error_std"`

	ErrorNormality   ErrorNormality        `json:"error_normality"`
	Underperformance Underperformance      `json:"underperformance"`
	ErrorBias        map[string]ColumnBias `json:"error_bias,omitempty"`
}

// HasReference reports whether the record carries reference-derived fields.
func (r Result) HasReference() bool {
	return r.RefErrorHistogram != nil
}
