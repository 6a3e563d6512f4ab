package api

import (
	"fmt"
	"math"

	"regdiag/domain/dataset"
)

// DatasetPayload is an inline dataset: column names plus row-major values.
// A JSON null marks a missing cell.
type DatasetPayload struct {
	Columns []string     `json:"columns"`
	Rows    [][]*float64 `json:"rows"`
}

// EvaluateRequest is the body of POST /api/v1/evaluate. Reference and Mapping
// are optional; a missing mapping falls back to the server's configured
// column roles.
type EvaluateRequest struct {
	Current   *DatasetPayload        `json:"current"`
	Reference *DatasetPayload        `json:"reference,omitempty"`
	Mapping   *dataset.ColumnMapping `json:"mapping,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// toFrame materializes the payload as a frame. maxRows > 0 bounds the
// accepted row count.
func (p *DatasetPayload) toFrame(maxRows int) (*dataset.Frame, error) {
	if maxRows > 0 && len(p.Rows) > maxRows {
		return nil, fmt.Errorf("dataset has %d rows, limit is %d", len(p.Rows), maxRows)
	}
	frame, err := dataset.NewFrame(p.Columns)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(p.Columns))
	for i, row := range p.Rows {
		if len(row) != len(p.Columns) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(p.Columns))
		}
		for j, cell := range row {
			if cell == nil {
				values[j] = math.NaN()
			} else {
				values[j] = *cell
			}
		}
		if err := frame.AppendRow(values); err != nil {
			return nil, err
		}
	}
	return frame, nil
}
