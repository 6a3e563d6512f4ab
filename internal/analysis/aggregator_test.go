package analysis

import (
	"context"
	"errors"
	"testing"

	"regdiag/domain/core"
	"regdiag/domain/dataset"
	"regdiag/domain/regression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAnalyzer stands in for the analyzer collaborator.
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, baseline, current *dataset.Frame, mapping dataset.ColumnMapping) (regression.AnalyzerResult, error) {
	args := m.Called(ctx, baseline, current, mapping)
	return args.Get(0).(regression.AnalyzerResult), args.Error(1)
}

func delegatedFixture() regression.AnalyzerResult {
	return regression.AnalyzerResult{
		MeanError:        0.4,
		MeanAbsError:     1.2,
		MeanAbsPercError: 38.0,
		AbsErrorMax:      3,
		ErrorStd:         1.8165,
		AbsErrorStd:      1.3038,
		AbsPercErrorStd:  44.5,
		ErrorNormality:   regression.ErrorNormality{Statistic: 1.1, PValue: 0.57, IsNormal: true},
		Underperformance: regression.Underperformance{
			Majority:        regression.ErrorSegment{MeanError: 0.25, StdError: 0.5},
			Underestimation: regression.ErrorSegment{MeanError: 3, StdError: 0},
			Overestimation:  regression.ErrorSegment{MeanError: -2, StdError: 0},
		},
	}
}

func TestAggregator_CalculateKnownCase(t *testing.T) {
	current := makePairFrame(t,
		[]float64{1, 2, 3, 4, 5},
		[]float64{1, 1, 5, 4, 2},
	)
	mapping := dataset.DefaultColumnMapping()

	analyzer := new(MockAnalyzer)
	analyzer.On("Analyze", mock.Anything, current, (*dataset.Frame)(nil), mapping).
		Return(delegatedFixture(), nil)

	result, err := NewAggregator(analyzer).Calculate(context.Background(), current, nil, mapping)
	assert.NoError(t, err)

	// mean((target-prediction)^2) = (0+1+4+0+9)/5 and R² against mean target 3.
	assert.InDelta(t, 2.8, result.MeanSquaredError, 1e-9)
	assert.InDelta(t, -0.4, result.R2Score, 1e-9)

	assert.InDelta(t, 0.4, result.MeanError, 1e-9)
	assert.InDelta(t, 1.2, result.MeanAbsError, 1e-9)
	assert.Equal(t, 5, sumHistogramCounts(result.ErrorHistogram))
	assert.Len(t, result.BinnedMAE, 5)
	assert.Equal(t, 5, sumBinnedCounts(result.BinnedMAE))

	// No reference: every reference-derived field stays absent.
	assert.False(t, result.HasReference())
	assert.Nil(t, result.RefErrorHistogram)
	assert.Nil(t, result.RefBinnedMAE)
	assert.Nil(t, result.ErrorBias)

	analyzer.AssertExpectations(t)
	analyzer.AssertNumberOfCalls(t, "Analyze", 1)
}

func TestAggregator_CalculateWithReference(t *testing.T) {
	current := makePairFrame(t,
		[]float64{1, 2, 3, 4, 5},
		[]float64{1, 1, 5, 4, 2},
	)
	reference := makePairFrame(t,
		[]float64{1, 2, 3, 4},
		[]float64{1, 2, 2, 5},
	)
	mapping := dataset.DefaultColumnMapping()

	delegated := delegatedFixture()
	delegated.ErrorBias = map[string]regression.ColumnBias{
		"feature_a": {FeatureType: "num", RefMajority: 1.5, CurrentMajority: 2.5},
	}

	analyzer := new(MockAnalyzer)
	// With a reference the analyzer sees (reference, current), never the
	// other way around.
	analyzer.On("Analyze", mock.Anything, reference, current, mapping).
		Return(delegated, nil)

	result, err := NewAggregator(analyzer).Calculate(context.Background(), current, reference, mapping)
	assert.NoError(t, err)

	assert.True(t, result.HasReference())
	assert.NotNil(t, result.RefErrorHistogram)
	assert.NotNil(t, result.RefBinnedMAE)
	assert.NotNil(t, result.ErrorBias)
	assert.Equal(t, 4, sumHistogramCounts(result.RefErrorHistogram))
	assert.Equal(t, 4, sumBinnedCounts(result.RefBinnedMAE))

	// Scalar fit metrics still come from the current dataset only.
	assert.InDelta(t, 2.8, result.MeanSquaredError, 1e-9)
	assert.InDelta(t, -0.4, result.R2Score, 1e-9)

	analyzer.AssertExpectations(t)
}

func TestAggregator_MissingCurrentDataset(t *testing.T) {
	analyzer := new(MockAnalyzer)

	_, err := NewAggregator(analyzer).Calculate(context.Background(), nil, nil, dataset.DefaultColumnMapping())
	assert.True(t, core.IsMissingDatasetError(err), "expected missing dataset error, got %v", err)
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAggregator_AnalyzerFailureSurfacesAsComputationError(t *testing.T) {
	current := makePairFrame(t, []float64{1, 2, 3}, []float64{1, 1, 2})
	mapping := dataset.DefaultColumnMapping()

	analyzer := new(MockAnalyzer)
	analyzer.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(regression.AnalyzerResult{}, errors.New("singular moment matrix"))

	_, err := NewAggregator(analyzer).Calculate(context.Background(), current, nil, mapping)
	assert.True(t, core.IsComputationError(err), "expected computation error, got %v", err)
}

func TestAggregator_AnalyzerDomainErrorPassesThrough(t *testing.T) {
	current := makePairFrame(t, []float64{1, 2, 3}, []float64{1, 1, 2})
	mapping := dataset.DefaultColumnMapping()

	analyzer := new(MockAnalyzer)
	analyzer.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(regression.AnalyzerResult{}, core.NewEmptyDatasetError("baseline"))

	_, err := NewAggregator(analyzer).Calculate(context.Background(), current, nil, mapping)
	assert.True(t, core.IsEmptyDatasetError(err), "expected empty dataset error, got %v", err)
	assert.False(t, core.IsComputationError(err), "domain errors must not be re-wrapped")
}

func TestAggregator_ConstantTargetMakesR2Undefined(t *testing.T) {
	current := makePairFrame(t, []float64{2, 2, 2}, []float64{1, 2, 3})
	mapping := dataset.DefaultColumnMapping()

	analyzer := new(MockAnalyzer)
	analyzer.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(delegatedFixture(), nil)

	_, err := NewAggregator(analyzer).Calculate(context.Background(), current, nil, mapping)
	assert.True(t, core.IsComputationError(err), "zero target variance must surface, got %v", err)
}

func TestAggregator_CalculateIsIdempotent(t *testing.T) {
	current := makePairFrame(t,
		[]float64{1, 2, 3, 4, 5},
		[]float64{1, 1, 5, 4, 2},
	)
	mapping := dataset.DefaultColumnMapping()

	analyzer := new(MockAnalyzer)
	analyzer.On("Analyze", mock.Anything, current, (*dataset.Frame)(nil), mapping).
		Return(delegatedFixture(), nil)

	agg := NewAggregator(analyzer)
	first, err := agg.Calculate(context.Background(), current, nil, mapping)
	assert.NoError(t, err)
	second, err := agg.Calculate(context.Background(), current, nil, mapping)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregator_RejectsInvalidMapping(t *testing.T) {
	current := makePairFrame(t, []float64{1, 2}, []float64{1, 2})

	analyzer := new(MockAnalyzer)
	_, err := NewAggregator(analyzer).Calculate(context.Background(), current, nil, dataset.NewColumnMapping("y", "y"))
	assert.Error(t, err)
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
