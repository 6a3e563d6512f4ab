package dataset

import (
	"fmt"
	"math"

	"regdiag/domain/core"
)

// Frame is a column-major numeric table. Every column holds one float64 per
// row; math.NaN marks a missing cell. Frames are built once by a reader (or
// by hand in tests) and treated as read-only by every computation.
type Frame struct {
	columns []string
	data    map[string][]float64
	rows    int
}

// NewFrame creates an empty frame with the given column order. Duplicate or
// blank column names are rejected.
func NewFrame(columns []string) (*Frame, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("frame requires at least one column")
	}
	data := make(map[string][]float64, len(columns))
	ordered := make([]string, 0, len(columns))
	for _, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("column name cannot be empty")
		}
		if _, dup := data[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		data[name] = nil
		ordered = append(ordered, name)
	}
	return &Frame{columns: ordered, data: data}, nil
}

// AppendRow appends one row of values, one per column in column order.
func (f *Frame) AppendRow(values []float64) error {
	if len(values) != len(f.columns) {
		return fmt.Errorf("row has %d values, frame has %d columns", len(values), len(f.columns))
	}
	for i, name := range f.columns {
		f.data[name] = append(f.data[name], values[i])
	}
	f.rows++
	return nil
}

// Rows returns the number of rows, missing cells included.
func (f *Frame) Rows() int {
	if f == nil {
		return 0
	}
	return f.rows
}

// Columns returns the column names in their original order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// HasColumn reports whether the frame holds a column with this name.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.data[name]
	return ok
}

// Column returns the values of one column. The returned slice is the frame's
// backing storage; callers must not modify it.
func (f *Frame) Column(name string) ([]float64, error) {
	values, ok := f.data[name]
	if !ok {
		return nil, core.NewMissingColumnError(name, "requested")
	}
	return values, nil
}

// Missing reports whether a value counts as a missing cell. Both NaN and
// infinities are excluded from every computation.
func Missing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// ValidPairRows returns the indices of rows where both columns hold usable
// values. Row order is preserved.
func (f *Frame) ValidPairRows(targetCol, predictionCol string) ([]int, error) {
	targets, ok := f.data[targetCol]
	if !ok {
		return nil, core.NewMissingColumnError(targetCol, "target")
	}
	predictions, ok := f.data[predictionCol]
	if !ok {
		return nil, core.NewMissingColumnError(predictionCol, "prediction")
	}
	rows := make([]int, 0, f.rows)
	for i := 0; i < f.rows; i++ {
		if Missing(targets[i]) || Missing(predictions[i]) {
			continue
		}
		rows = append(rows, i)
	}
	return rows, nil
}

// ValidPairs returns aligned copies of the target and prediction series with
// rows containing missing values excluded.
func (f *Frame) ValidPairs(targetCol, predictionCol string) (targets, predictions []float64, err error) {
	rows, err := f.ValidPairRows(targetCol, predictionCol)
	if err != nil {
		return nil, nil, err
	}
	tsrc := f.data[targetCol]
	psrc := f.data[predictionCol]
	targets = make([]float64, 0, len(rows))
	predictions = make([]float64, 0, len(rows))
	for _, i := range rows {
		targets = append(targets, tsrc[i])
		predictions = append(predictions, psrc[i])
	}
	return targets, predictions, nil
}
