package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"regdiag/domain/dataset"
	"regdiag/internal"
	apperrors "regdiag/internal/errors"
	"regdiag/ports"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet read from XLSX workbooks unless the caller
// picks another one.
const DefaultSheet = "Sheet1"

// Reader loads CSV and XLSX files into numeric frames. Cells that do not
// parse as numbers become missing values rather than errors; downstream
// computations exclude them row by row.
type Reader struct {
	sheet  string
	logger *internal.Logger
}

var _ ports.DatasetReader = (*Reader)(nil)

// NewReader creates a reader that takes XLSX data from the default sheet.
func NewReader() *Reader {
	return NewReaderWithSheet(DefaultSheet)
}

// NewReaderWithSheet creates a reader bound to a specific XLSX worksheet.
// CSV reads ignore the sheet name.
func NewReaderWithSheet(sheet string) *Reader {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &Reader{
		sheet:  sheet,
		logger: internal.DefaultLogger.WithComponent("DatasetReader"),
	}
}

// Read loads the file at path into a frame. The format is picked by file
// extension: .csv parses as CSV, .xlsx opens as a workbook.
func (r *Reader) Read(ctx context.Context, path string) (*dataset.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.ReadFailed(path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	r.logger.Info("Starting to read %s file: %s", strings.TrimPrefix(ext, "."), path)

	var rows [][]string
	var err error
	switch ext {
	case ".csv":
		rows, err = r.readCSVRows(path)
	case ".xlsx":
		rows, err = r.readSheetRows(path)
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported file type %q, expected .csv or .xlsx", ext))
	}
	if err != nil {
		return nil, err
	}

	frame, err := r.buildFrame(rows)
	if err != nil {
		return nil, err
	}
	r.logger.Info("File processed (%d columns, %d rows)", len(frame.Columns()), frame.Rows())
	return frame, nil
}

func (r *Reader) readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.ReadFailed(path, err)
	}
	defer file.Close()

	readStart := time.Now()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, apperrors.ReadFailed(path, err)
	}
	r.logger.Debug("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

func (r *Reader) readSheetRows(path string) ([][]string, error) {
	openStart := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.ReadFailed(path, err)
	}
	defer f.Close()
	r.logger.Debug("Workbook opened in %.2fms", float64(time.Since(openStart).Nanoseconds())/1e6)

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, apperrors.ReadFailed(path, fmt.Errorf("read sheet %s: %w", r.sheet, err))
	}
	r.logger.Debug("Sheet %s read (%d rows)", r.sheet, len(rows))
	return rows, nil
}

// buildFrame turns raw string rows into a numeric frame. The first row is the
// header; short data rows are padded with missing values.
func (r *Reader) buildFrame(rows [][]string) (*dataset.Frame, error) {
	if len(rows) < 2 {
		return nil, apperrors.InvalidInput("file must have at least a header row and one data row")
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	frame, err := dataset.NewFrame(headers)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("bad header row: %v", err))
	}

	values := make([]float64, len(headers))
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		for j := range headers {
			if j < len(row) {
				values[j] = parseCell(row[j])
			} else {
				values[j] = math.NaN()
			}
		}
		if err := frame.AppendRow(values); err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("bad data row %d: %v", i, err))
		}
	}
	return frame, nil
}

// parseCell converts one cell to a float64, mapping blanks and non-numeric
// text to a missing value.
func parseCell(cell string) float64 {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
