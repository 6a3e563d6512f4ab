package ports

import (
	"context"

	"regdiag/domain/dataset"
)

// DatasetReader loads a tabular dataset from an external source into a frame.
// Implementations decide which formats they accept; they must not retain the
// returned frame.
type DatasetReader interface {
	Read(ctx context.Context, path string) (*dataset.Frame, error)
}
