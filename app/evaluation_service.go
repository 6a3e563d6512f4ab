package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"regdiag/domain/core"
	"regdiag/domain/dataset"
	"regdiag/domain/regression"
	"regdiag/internal"
	"regdiag/internal/analysis"
	apperrors "regdiag/internal/errors"
	"regdiag/ports"
)

// EvaluationService handles regression performance evaluation end to end:
// loading datasets through the reader port and aggregating metrics. It is the
// single entry point shared by the HTTP API and the CLI.
type EvaluationService struct {
	reader     ports.DatasetReader
	aggregator *analysis.Aggregator
	logger     *internal.Logger
}

// FileEvaluationRequest names the dataset files to evaluate. ReferencePath is
// optional; when blank the report carries current-only results.
type FileEvaluationRequest struct {
	CurrentPath   string
	ReferencePath string
	Mapping       dataset.ColumnMapping
}

// EvaluationReport is the service-level envelope around one metric result.
type EvaluationReport struct {
	RunID         core.RunID        `json:"run_id"`
	CreatedAt     core.Timestamp    `json:"created_at"`
	CurrentPath   string            `json:"current_path,omitempty"`
	ReferencePath string            `json:"reference_path,omitempty"`
	CurrentRows   int               `json:"current_rows"`
	ReferenceRows int               `json:"reference_rows,omitempty"`
	RuntimeMs     int64             `json:"runtime_ms"`
	Result        regression.Result `json:"result"`
}

// NewEvaluationService creates an evaluation service.
func NewEvaluationService(reader ports.DatasetReader, aggregator *analysis.Aggregator) *EvaluationService {
	return &EvaluationService{
		reader:     reader,
		aggregator: aggregator,
		logger:     internal.DefaultLogger.WithComponent("Evaluation"),
	}
}

// EvaluateFiles loads the named files and evaluates them. The current and
// reference datasets are read concurrently since neither depends on the
// other.
func (s *EvaluationService) EvaluateFiles(ctx context.Context, req FileEvaluationRequest) (*EvaluationReport, error) {
	if req.CurrentPath == "" {
		return nil, apperrors.InvalidInput("current dataset path is required")
	}

	var current, reference *dataset.Frame
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		frame, err := s.reader.Read(gctx, req.CurrentPath)
		if err != nil {
			return fmt.Errorf("current dataset: %w", err)
		}
		current = frame
		return nil
	})
	if req.ReferencePath != "" {
		g.Go(func() error {
			frame, err := s.reader.Read(gctx, req.ReferencePath)
			if err != nil {
				return fmt.Errorf("reference dataset: %w", err)
			}
			reference = frame
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report, err := s.EvaluateFrames(ctx, current, reference, req.Mapping)
	if err != nil {
		return nil, err
	}
	report.CurrentPath = req.CurrentPath
	report.ReferencePath = req.ReferencePath
	return report, nil
}

// EvaluateFrames evaluates already-loaded frames. Reference may be nil.
func (s *EvaluationService) EvaluateFrames(ctx context.Context, current, reference *dataset.Frame, mapping dataset.ColumnMapping) (*EvaluationReport, error) {
	startTime := time.Now()
	runID := core.NewRunID()

	result, err := s.aggregator.Calculate(ctx, current, reference, mapping)
	if err != nil {
		s.logger.Error("Run %s failed: %v", runID, err)
		return nil, err
	}

	report := &EvaluationReport{
		RunID:         runID,
		CreatedAt:     core.Now(),
		CurrentRows:   current.Rows(),
		ReferenceRows: reference.Rows(),
		RuntimeMs:     time.Since(startTime).Milliseconds(),
		Result:        result,
	}
	s.logger.Info("Run %s completed in %dms (%d current rows, %d reference rows)",
		runID, report.RuntimeMs, report.CurrentRows, report.ReferenceRows)
	return report, nil
}
