// Package predict turns reported symptoms into a disease prediction.
package predict

import (
	"strings"

	"github.com/samber/lo"

	"github.com/diewo77/medicine-recommendation/internal/apperr"
	"github.com/diewo77/medicine-recommendation/internal/knowledge"
)

// Encoder maps symptom names onto the classifier's feature vector.
type Encoder struct {
	tables *knowledge.Tables
}

func NewEncoder(tables *knowledge.Tables) *Encoder {
	return &Encoder{tables: tables}
}

// Normalize trims and lower-cases tokens and drops empty ones.
func Normalize(symptoms []string) []string {
	return lo.FilterMap(symptoms, func(s string, _ int) (string, bool) {
		s = strings.ToLower(strings.TrimSpace(s))
		return s, s != ""
	})
}

// Encode returns a 0/1 vector with one position per known symptom, plus the
// recognised symptoms in input order. Unknown names are dropped; if nothing
// is left the input is rejected.
func (e *Encoder) Encode(symptoms []string) ([]float64, []string, error) {
	valid := lo.Uniq(lo.Filter(symptoms, func(s string, _ int) bool {
		_, ok := e.tables.SymptomIndex(s)
		return ok
	}))
	if len(valid) == 0 {
		return nil, nil, apperr.ErrNoValidSymptoms
	}
	vec := make([]float64, e.tables.NumFeatures())
	for _, s := range valid {
		i, _ := e.tables.SymptomIndex(s)
		vec[i] = 1
	}
	return vec, valid, nil
}
