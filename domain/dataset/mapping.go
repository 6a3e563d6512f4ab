package dataset

import "fmt"

// Default column roles used when the caller supplies no mapping.
const (
	DefaultTargetColumn     = "target"
	DefaultPredictionColumn = "prediction"
)

// ColumnMapping names which columns play the target and prediction roles.
// It is owned by the caller and read-only to every computation.
type ColumnMapping struct {
	Target     string `json:"target"`
	Prediction string `json:"prediction"`
}

// NewColumnMapping creates a mapping, falling back to the default role names
// for blank fields.
func NewColumnMapping(target, prediction string) ColumnMapping {
	if target == "" {
		target = DefaultTargetColumn
	}
	if prediction == "" {
		prediction = DefaultPredictionColumn
	}
	return ColumnMapping{Target: target, Prediction: prediction}
}

// DefaultColumnMapping returns the conventional target/prediction mapping.
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{Target: DefaultTargetColumn, Prediction: DefaultPredictionColumn}
}

// Validate rejects mappings with blank or colliding roles.
func (m ColumnMapping) Validate() error {
	if m.Target == "" {
		return fmt.Errorf("column mapping: target column name is empty")
	}
	if m.Prediction == "" {
		return fmt.Errorf("column mapping: prediction column name is empty")
	}
	if m.Target == m.Prediction {
		return fmt.Errorf("column mapping: target and prediction both map to %q", m.Target)
	}
	return nil
}

// FeatureColumns returns the frame's columns that play neither role, in
// frame order. These are the columns eligible for error-bias segmentation.
func (m ColumnMapping) FeatureColumns(f *Frame) []string {
	var features []string
	for _, name := range f.Columns() {
		if name == m.Target || name == m.Prediction {
			continue
		}
		features = append(features, name)
	}
	return features
}
