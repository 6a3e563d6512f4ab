package tabular

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	apperrors "regdiag/internal/errors"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv fixture: %v", err)
	}
	return path
}

func TestReader_CSV(t *testing.T) {
	path := writeTempCSV(t, "target,prediction,age\n1,1,10\n2,,20\noops,5,30\n4.5,2.5,\n")

	frame, err := NewReader().Read(context.Background(), path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if !reflect.DeepEqual(frame.Columns(), []string{"target", "prediction", "age"}) {
		t.Fatalf("unexpected columns %v", frame.Columns())
	}
	if frame.Rows() != 4 {
		t.Fatalf("expected 4 rows, got %d", frame.Rows())
	}

	predictions, err := frame.Column("prediction")
	if err != nil {
		t.Fatalf("column: %v", err)
	}
	if !math.IsNaN(predictions[1]) {
		t.Fatalf("blank cell must read as missing, got %v", predictions[1])
	}
	targets, err := frame.Column("target")
	if err != nil {
		t.Fatalf("column: %v", err)
	}
	if !math.IsNaN(targets[2]) {
		t.Fatalf("non-numeric cell must read as missing, got %v", targets[2])
	}

	pairedTargets, pairedPredictions, err := frame.ValidPairs("target", "prediction")
	if err != nil {
		t.Fatalf("valid pairs: %v", err)
	}
	if !reflect.DeepEqual(pairedTargets, []float64{1, 4.5}) || !reflect.DeepEqual(pairedPredictions, []float64{1, 2.5}) {
		t.Fatalf("unexpected usable pairs %v %v", pairedTargets, pairedPredictions)
	}
}

func TestReader_CSVFailures(t *testing.T) {
	t.Run("file not found", func(t *testing.T) {
		_, err := NewReader().Read(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
		if apperrors.GetCode(err) != apperrors.CodeReadFailed {
			t.Fatalf("expected READ_FAILED, got %v", err)
		}
	})

	t.Run("header only", func(t *testing.T) {
		path := writeTempCSV(t, "target,prediction\n")
		_, err := NewReader().Read(context.Background(), path)
		if apperrors.GetCode(err) != apperrors.CodeInvalidInput {
			t.Fatalf("expected INVALID_INPUT, got %v", err)
		}
	})

	t.Run("duplicate header", func(t *testing.T) {
		path := writeTempCSV(t, "target,target\n1,2\n")
		_, err := NewReader().Read(context.Background(), path)
		if apperrors.GetCode(err) != apperrors.CodeInvalidInput {
			t.Fatalf("expected INVALID_INPUT, got %v", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.txt")
		if err := os.WriteFile(path, []byte("target,prediction\n1,2\n"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		_, err := NewReader().Read(context.Background(), path)
		if apperrors.GetCode(err) != apperrors.CodeInvalidInput {
			t.Fatalf("expected INVALID_INPUT, got %v", err)
		}
	})
}

func writeTempXLSX(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := []struct {
		cell   string
		values []interface{}
	}{
		{"A1", []interface{}{"target", "prediction"}},
		{"A2", []interface{}{1.0, 2.0}},
		{"A3", []interface{}{3.0, "n/a"}},
		{"A4", []interface{}{5.0}},
	}
	for _, row := range rows {
		if err := f.SetSheetRow("Sheet1", row.cell, &row.values); err != nil {
			t.Fatalf("set sheet row %s: %v", row.cell, err)
		}
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestReader_XLSX(t *testing.T) {
	path := writeTempXLSX(t)

	frame, err := NewReader().Read(context.Background(), path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if frame.Rows() != 3 {
		t.Fatalf("expected 3 rows, got %d", frame.Rows())
	}

	predictions, err := frame.Column("prediction")
	if err != nil {
		t.Fatalf("column: %v", err)
	}
	if predictions[0] != 2 {
		t.Fatalf("expected prediction 2, got %v", predictions[0])
	}
	if !math.IsNaN(predictions[1]) {
		t.Fatalf("text cell must read as missing, got %v", predictions[1])
	}
	if !math.IsNaN(predictions[2]) {
		t.Fatalf("short row must pad with missing, got %v", predictions[2])
	}
}

func TestReader_XLSXMissingSheet(t *testing.T) {
	path := writeTempXLSX(t)

	_, err := NewReaderWithSheet("Scores").Read(context.Background(), path)
	if apperrors.GetCode(err) != apperrors.CodeReadFailed {
		t.Fatalf("expected READ_FAILED for unknown sheet, got %v", err)
	}
}
