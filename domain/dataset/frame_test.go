package dataset

import (
	"math"
	"reflect"
	"testing"

	"regdiag/domain/core"
)

func TestNewFrame_RejectsBadColumnSets(t *testing.T) {
	if _, err := NewFrame(nil); err == nil {
		t.Fatalf("expected error for zero columns")
	}
	if _, err := NewFrame([]string{"target", ""}); err == nil {
		t.Fatalf("expected error for blank column name")
	}
	if _, err := NewFrame([]string{"target", "target"}); err == nil {
		t.Fatalf("expected error for duplicate column name")
	}
}

func TestFrame_AppendRowEnforcesWidth(t *testing.T) {
	frame, err := NewFrame([]string{"target", "prediction"})
	if err != nil {
		t.Fatalf("new frame: %v", err)
	}
	if err := frame.AppendRow([]float64{1, 2, 3}); err == nil {
		t.Fatalf("expected error for wide row")
	}
	if err := frame.AppendRow([]float64{1, 2}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if frame.Rows() != 1 {
		t.Fatalf("expected 1 row, got %d", frame.Rows())
	}
}

func TestFrame_ColumnLookup(t *testing.T) {
	frame, err := NewFrame([]string{"target", "prediction"})
	if err != nil {
		t.Fatalf("new frame: %v", err)
	}
	if err := frame.AppendRow([]float64{1, 2}); err != nil {
		t.Fatalf("append: %v", err)
	}

	values, err := frame.Column("target")
	if err != nil {
		t.Fatalf("column: %v", err)
	}
	if len(values) != 1 || values[0] != 1 {
		t.Fatalf("unexpected column values %v", values)
	}

	if _, err := frame.Column("nope"); !core.IsMissingColumnError(err) {
		t.Fatalf("expected missing column error, got %v", err)
	}
	if frame.HasColumn("nope") {
		t.Fatalf("HasColumn must be false for unknown columns")
	}
}

func TestFrame_ValidPairsExcludesMissingRows(t *testing.T) {
	nan := math.NaN()
	frame, err := NewFrame([]string{"target", "prediction"})
	if err != nil {
		t.Fatalf("new frame: %v", err)
	}
	rows := [][]float64{
		{1, 1},
		{nan, 2},
		{3, nan},
		{math.Inf(1), 4},
		{5, 2},
	}
	for _, row := range rows {
		if err := frame.AppendRow(row); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	idx, err := frame.ValidPairRows("target", "prediction")
	if err != nil {
		t.Fatalf("valid pair rows: %v", err)
	}
	if !reflect.DeepEqual(idx, []int{0, 4}) {
		t.Fatalf("expected rows [0 4], got %v", idx)
	}

	targets, predictions, err := frame.ValidPairs("target", "prediction")
	if err != nil {
		t.Fatalf("valid pairs: %v", err)
	}
	if !reflect.DeepEqual(targets, []float64{1, 5}) || !reflect.DeepEqual(predictions, []float64{1, 2}) {
		t.Fatalf("unexpected pairs %v %v", targets, predictions)
	}

	// A fully-missing frame yields an empty, non-nil pair set; emptiness is
	// the caller's error to raise.
	allMissing, err := NewFrame([]string{"target", "prediction"})
	if err != nil {
		t.Fatalf("new frame: %v", err)
	}
	if err := allMissing.AppendRow([]float64{nan, 1}); err != nil {
		t.Fatalf("append: %v", err)
	}
	targets, predictions, err = allMissing.ValidPairs("target", "prediction")
	if err != nil {
		t.Fatalf("valid pairs: %v", err)
	}
	if len(targets) != 0 || len(predictions) != 0 {
		t.Fatalf("expected empty pair set, got %v %v", targets, predictions)
	}
}

func TestFrame_NilSafety(t *testing.T) {
	var frame *Frame
	if frame.Rows() != 0 {
		t.Fatalf("nil frame must report zero rows")
	}
}

func TestColumnMapping_Defaults(t *testing.T) {
	m := NewColumnMapping("", "")
	if m.Target != DefaultTargetColumn || m.Prediction != DefaultPredictionColumn {
		t.Fatalf("blank mapping must fall back to defaults, got %+v", m)
	}
	m = NewColumnMapping("y", "")
	if m.Target != "y" || m.Prediction != DefaultPredictionColumn {
		t.Fatalf("partial mapping wrong: %+v", m)
	}
}

func TestColumnMapping_Validate(t *testing.T) {
	if err := DefaultColumnMapping().Validate(); err != nil {
		t.Fatalf("default mapping must validate: %v", err)
	}
	if err := (ColumnMapping{Target: "y", Prediction: "y"}).Validate(); err == nil {
		t.Fatalf("expected collision error")
	}
	if err := (ColumnMapping{Target: "", Prediction: "p"}).Validate(); err == nil {
		t.Fatalf("expected blank target error")
	}
}

func TestColumnMapping_FeatureColumns(t *testing.T) {
	frame, err := NewFrame([]string{"age", "target", "income", "prediction"})
	if err != nil {
		t.Fatalf("new frame: %v", err)
	}
	features := DefaultColumnMapping().FeatureColumns(frame)
	if !reflect.DeepEqual(features, []string{"age", "income"}) {
		t.Fatalf("expected feature columns [age income], got %v", features)
	}
}
