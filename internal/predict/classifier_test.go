package predict

import (
	"errors"
	"strings"
	"testing"

	"github.com/diewo77/medicine-recommendation/internal/apperr"
	"github.com/diewo77/medicine-recommendation/internal/knowledge"
)

const tinyModel = `{"format":"linear-ovr/v1","features":["a","b"],"classes":[7,3],
"coef":[[1,0],[0,1]],"intercept":[0,0.5]}`

func TestLinearModelArgmax(t *testing.T) {
	m, err := LoadLinearModel(strings.NewReader(tinyModel))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cases := []struct {
		x    []float64
		want int
	}{
		{[]float64{1, 0}, 7},
		{[]float64{0, 1}, 3},
		{[]float64{0, 0}, 3},
	}
	for _, c := range cases {
		got, err := m.Predict(c.x)
		if err != nil || got != c.want {
			t.Errorf("Predict(%v)=%d,%v want %d", c.x, got, err, c.want)
		}
	}
	if _, err := m.Predict([]float64{1}); err == nil {
		t.Errorf("expected dimension error")
	}
}

func TestLoadLinearModelValidates(t *testing.T) {
	bad := []string{
		`{"format":"pickle","features":["a"],"classes":[0],"coef":[[1]],"intercept":[0]}`,
		`{"format":"linear-ovr/v1","features":["a"],"classes":[0,1],"coef":[[1]],"intercept":[0]}`,
		`{"format":"linear-ovr/v1","features":["a","b"],"classes":[0],"coef":[[1]],"intercept":[0]}`,
		`not json`,
	}
	for _, b := range bad {
		if _, err := LoadLinearModel(strings.NewReader(b)); err == nil {
			t.Errorf("expected error for %s", b)
		}
	}
}

func TestEmbeddedModelMatchesTables(t *testing.T) {
	m, err := EmbeddedModel()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	tables := knowledge.NewTables()
	if err := Verify(m.Features(), m.Classes(), tables); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyRejectsMismatch(t *testing.T) {
	tables := knowledge.NewTables()
	if err := Verify([]string{"itching"}, []int{0}, tables); err == nil {
		t.Errorf("short feature list should fail")
	}
	if err := Verify(tables.Symptoms(), []int{0, 99}, tables); err == nil {
		t.Errorf("unknown class should fail")
	}
}

type fixedClassifier struct {
	idx int
	err error
}

func (f fixedClassifier) Predict([]float64) (int, error) { return f.idx, f.err }

func TestAdapter(t *testing.T) {
	tables := knowledge.NewTables()
	m, err := EmbeddedModel()
	if err != nil {
		t.Fatal(err)
	}
	vec, _, _ := NewEncoder(tables).Encode([]string{"itching", "skin_rash"})
	name, err := NewAdapter(m, tables).Predict(vec)
	if err != nil || name != "Fungal infection" {
		t.Fatalf("got %q, %v", name, err)
	}

	if _, err := NewAdapter(fixedClassifier{idx: 99}, tables).Predict(vec); apperr.KindOf(err) != apperr.KindModel {
		t.Errorf("unknown index should be a model error, got %v", err)
	}
	if _, err := NewAdapter(fixedClassifier{err: errors.New("boom")}, tables).Predict(vec); apperr.KindOf(err) != apperr.KindModel {
		t.Errorf("classifier failure should be a model error, got %v", err)
	}
}
