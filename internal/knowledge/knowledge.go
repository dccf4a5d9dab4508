// Package knowledge holds the static reference data: the symptom and disease
// indexes and the advice tables keyed by disease name.
package knowledge

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/samber/lo"
)

//go:embed data/*.csv
var embedded embed.FS

const (
	descriptionFile = "description.csv"
	precautionsFile = "precautions_df.csv"
	medicationsFile = "medications.csv"
	dietsFile       = "diets.csv"
	workoutFile     = "workout_df.csv"
)

// Placeholders returned when a table has no row for the disease.
const (
	NoDescription = "No description available"
	NoPrecautions = "No precautions available"
	NoMedications = "No medications available"
	NoDiet        = "No diet available"
	NoWorkout     = "No workout available"
)

// Advice is everything known about one disease.
type Advice struct {
	Description string
	Precautions []string
	Medications []string
	Diet        []string
	Workout     []string
}

// Base is the loaded advice tables. Safe for concurrent reads.
type Base struct {
	descriptions map[string][]string
	precautions  map[string][]string
	medications  map[string][]string
	diets        map[string][]string
	workouts     map[string][]string
}

// LoadEmbedded loads the tables compiled into the binary.
func LoadEmbedded() (*Base, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// LoadDir loads the tables from a directory on disk.
func LoadDir(dir string) (*Base, error) {
	return Load(os.DirFS(dir))
}

// Load reads the five advice tables from fsys. Malformed list cells fail the load.
func Load(fsys fs.FS) (*Base, error) {
	b := &Base{
		descriptions: map[string][]string{},
		precautions:  map[string][]string{},
		medications:  map[string][]string{},
		diets:        map[string][]string{},
		workouts:     map[string][]string{},
	}

	if err := eachRow(fsys, descriptionFile, []string{"disease", "description"}, func(row map[string]string) error {
		b.descriptions[row["disease"]] = append(b.descriptions[row["disease"]], row["description"])
		return nil
	}); err != nil {
		return nil, err
	}

	precCols := []string{"disease", "precaution_1", "precaution_2", "precaution_3", "precaution_4"}
	if err := eachRow(fsys, precautionsFile, precCols, func(row map[string]string) error {
		if _, seen := b.precautions[row["disease"]]; seen {
			return nil
		}
		vals := lo.Map(precCols[1:], func(col string, _ int) string { return strings.TrimSpace(row[col]) })
		b.precautions[row["disease"]] = lo.Compact(vals)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRow(fsys, medicationsFile, []string{"disease", "medication"}, listInto(b.medications, "medication")); err != nil {
		return nil, err
	}
	if err := eachRow(fsys, dietsFile, []string{"disease", "diet"}, listInto(b.diets, "diet")); err != nil {
		return nil, err
	}

	if err := eachRow(fsys, workoutFile, []string{"disease", "workout"}, func(row map[string]string) error {
		if w := strings.TrimSpace(row["workout"]); w != "" {
			b.workouts[row["disease"]] = append(b.workouts[row["disease"]], w)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return b, nil
}

func listInto(dst map[string][]string, col string) func(map[string]string) error {
	return func(row map[string]string) error {
		items, err := ParseList(row[col])
		if err != nil {
			return fmt.Errorf("%s for %q: %w", col, row["disease"], err)
		}
		dst[row["disease"]] = append(dst[row["disease"]], items...)
		return nil
	}
}

// eachRow calls fn for every record, keyed by lower-cased header name.
// Extra columns (such as a leading index column) are ignored.
func eachRow(fsys fs.FS, name string, required []string, fn func(map[string]string) error) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read %s header: %w", name, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return fmt.Errorf("%s: missing column %q", name, c)
		}
	}

	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		row := make(map[string]string, len(required))
		for _, c := range required {
			if i := cols[c]; i < len(rec) {
				row[c] = rec[i]
			}
		}
		if err := fn(row); err != nil {
			return fmt.Errorf("%s line %d: %w", name, line, err)
		}
	}
}

// Lookup returns the advice for a disease label, substituting placeholders
// for any table without a matching row.
func (b *Base) Lookup(disease string) Advice {
	a := Advice{
		Description: NoDescription,
		Precautions: []string{NoPrecautions},
		Medications: []string{NoMedications},
		Diet:        []string{NoDiet},
		Workout:     []string{NoWorkout},
	}
	if d := b.descriptions[disease]; len(d) > 0 {
		a.Description = strings.Join(d, " ")
	}
	if p := b.precautions[disease]; len(p) > 0 {
		a.Precautions = clone(p)
	}
	if m := b.medications[disease]; len(m) > 0 {
		a.Medications = clone(m)
	}
	if d := b.diets[disease]; len(d) > 0 {
		a.Diet = clone(d)
	}
	if w := b.workouts[disease]; len(w) > 0 {
		a.Workout = clone(w)
	}
	return a
}

func clone(s []string) []string { return append([]string(nil), s...) }
