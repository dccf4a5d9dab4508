package knowledge

// Tables holds the fixed symptom and disease indexes used by the classifier.
// It is immutable after construction.
type Tables struct {
	symptoms []string
	index    map[string]int
	diseases map[int]string
}

// NewTables builds the reference tables.
func NewTables() *Tables {
	t := &Tables{
		symptoms: append([]string(nil), symptomNames...),
		index:    make(map[string]int, len(symptomNames)),
		diseases: make(map[int]string, len(diseaseNames)),
	}
	for i, s := range t.symptoms {
		t.index[s] = i
	}
	for k, v := range diseaseNames {
		t.diseases[k] = v
	}
	return t
}

// Symptoms returns the feature names in column order.
func (t *Tables) Symptoms() []string {
	return append([]string(nil), t.symptoms...)
}

func (t *Tables) NumFeatures() int { return len(t.symptoms) }

func (t *Tables) SymptomIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

func (t *Tables) Disease(index int) (string, bool) {
	name, ok := t.diseases[index]
	return name, ok
}
