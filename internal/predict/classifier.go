package predict

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"
)

const linearFormat = "linear-ovr/v1"

//go:embed data/model.json
var embeddedModel []byte

// Classifier maps a feature vector to a class index.
type Classifier interface {
	Predict(features []float64) (int, error)
}

// LinearModel is a fitted one-vs-rest linear classifier: the predicted class
// is argmax(coef·x + intercept).
type LinearModel struct {
	features  []string
	classes   []int
	coef      *mat.Dense
	intercept *mat.VecDense
}

type linearArtifact struct {
	Format    string      `json:"format"`
	Features  []string    `json:"features"`
	Classes   []int       `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

// LoadLinearModel decodes a model artifact and checks its dimensions.
func LoadLinearModel(r io.Reader) (*LinearModel, error) {
	var a linearArtifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if a.Format != linearFormat {
		return nil, fmt.Errorf("unsupported model format %q", a.Format)
	}
	nFeatures, nClasses := len(a.Features), len(a.Classes)
	if nFeatures == 0 || nClasses == 0 {
		return nil, fmt.Errorf("model has %d features and %d classes", nFeatures, nClasses)
	}
	if len(a.Coef) != nClasses || len(a.Intercept) != nClasses {
		return nil, fmt.Errorf("model has %d coefficient rows and %d intercepts for %d classes", len(a.Coef), len(a.Intercept), nClasses)
	}
	data := make([]float64, 0, nClasses*nFeatures)
	for i, row := range a.Coef {
		if len(row) != nFeatures {
			return nil, fmt.Errorf("coefficient row %d has %d values, want %d", i, len(row), nFeatures)
		}
		data = append(data, row...)
	}
	return &LinearModel{
		features:  a.Features,
		classes:   a.Classes,
		coef:      mat.NewDense(nClasses, nFeatures, data),
		intercept: mat.NewVecDense(nClasses, a.Intercept),
	}, nil
}

// LoadLinearModelFile loads an artifact from disk.
func LoadLinearModelFile(path string) (*LinearModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadLinearModel(f)
}

// EmbeddedModel loads the artifact shipped with the binary.
func EmbeddedModel() (*LinearModel, error) {
	return LoadLinearModel(bytes.NewReader(embeddedModel))
}

func (m *LinearModel) Features() []string { return m.features }
func (m *LinearModel) Classes() []int     { return m.classes }

func (m *LinearModel) Predict(features []float64) (int, error) {
	_, nFeatures := m.coef.Dims()
	if len(features) != nFeatures {
		return 0, fmt.Errorf("got %d features, model expects %d", len(features), nFeatures)
	}
	scores := mat.NewVecDense(len(m.classes), nil)
	scores.MulVec(m.coef, mat.NewVecDense(nFeatures, features))
	scores.AddVec(scores, m.intercept)

	best := 0
	for i := 1; i < scores.Len(); i++ {
		if scores.AtVec(i) > scores.AtVec(best) {
			best = i
		}
	}
	return m.classes[best], nil
}
