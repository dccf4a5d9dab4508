package predict

import (
	"fmt"
	"slices"

	"github.com/diewo77/medicine-recommendation/internal/apperr"
	"github.com/diewo77/medicine-recommendation/internal/knowledge"
)

// Adapter runs the classifier and resolves the class index to a disease name.
type Adapter struct {
	model  Classifier
	tables *knowledge.Tables
}

func NewAdapter(model Classifier, tables *knowledge.Tables) *Adapter {
	return &Adapter{model: model, tables: tables}
}

func (a *Adapter) Predict(features []float64) (string, error) {
	idx, err := a.model.Predict(features)
	if err != nil {
		return "", apperr.ModelError(err)
	}
	name, ok := a.tables.Disease(idx)
	if !ok {
		return "", apperr.ModelError(fmt.Errorf("class index %d not in disease table", idx))
	}
	return name, nil
}

// Verify checks that a model was trained on the same feature order as the
// symptom table and only emits known disease indexes.
func Verify(features []string, classes []int, tables *knowledge.Tables) error {
	if !slices.Equal(features, tables.Symptoms()) {
		return fmt.Errorf("model features do not match the symptom table (%d vs %d)", len(features), tables.NumFeatures())
	}
	for _, c := range classes {
		if _, ok := tables.Disease(c); !ok {
			return fmt.Errorf("model class %d not in disease table", c)
		}
	}
	return nil
}
