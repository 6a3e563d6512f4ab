package container

import (
	"fmt"

	"regdiag/adapters/performance"
	"regdiag/adapters/tabular"
	"regdiag/app"
	"regdiag/internal"
	"regdiag/internal/analysis"
	"regdiag/internal/config"
	"regdiag/ports"
)

// Container holds all application dependencies and wires them once, so the
// API server and the CLI assemble the identical evaluation stack.
type Container struct {
	Config *config.Config

	// Ports
	Reader   ports.DatasetReader
	Analyzer ports.RegressionAnalyzer

	// Core
	Aggregator *analysis.Aggregator

	// Services
	Evaluation *app.EvaluationService
}

// New creates a fully wired dependency container.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{Config: cfg}
	c.Reader = tabular.NewReaderWithSheet(cfg.Data.XLSXSheet)
	c.Analyzer = performance.NewAnalyzer()
	c.Aggregator = analysis.NewAggregator(c.Analyzer)
	c.Evaluation = app.NewEvaluationService(c.Reader, c.Aggregator)

	internal.DefaultLogger.WithComponent("Container").
		Debug("Dependencies wired (sheet %q)", cfg.Data.XLSXSheet)
	return c, nil
}
