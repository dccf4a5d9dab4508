package predict

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/diewo77/medicine-recommendation/internal/apperr"
	"github.com/diewo77/medicine-recommendation/internal/knowledge"
	"github.com/diewo77/medicine-recommendation/internal/models"
)

type memStore struct {
	records []models.PredictionHistory
	err     error
}

func (m *memStore) CreatePrediction(_ context.Context, p *models.PredictionHistory) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, *p)
	return nil
}

func (m *memStore) ListPredictions(_ context.Context, userID string) ([]models.PredictionHistory, error) {
	var out []models.PredictionHistory
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].UserID == userID {
			out = append(out, m.records[i])
		}
	}
	return out, m.err
}

func newTestService(t *testing.T, clf Classifier, store Store) *Service {
	t.Helper()
	tables := knowledge.NewTables()
	kb, err := knowledge.LoadEmbedded()
	if err != nil {
		t.Fatalf("knowledge: %v", err)
	}
	if clf == nil {
		m, err := EmbeddedModel()
		if err != nil {
			t.Fatalf("model: %v", err)
		}
		clf = m
	}
	return NewService(NewEncoder(tables), NewAdapter(clf, tables), kb, store)
}

func TestPredictPersistsOneRecord(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, nil, store)

	res, err := svc.Predict(context.Background(), "u1", []string{" Itching", "skin_rash", "made_up"})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if res.Disease != "Fungal infection" {
		t.Fatalf("disease=%q", res.Disease)
	}
	if len(res.Medications) == 0 || res.Description == "" {
		t.Fatalf("advice missing: %+v", res)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(store.records))
	}
	rec := store.records[0]
	if rec.UserID != "u1" || rec.PredictedDisease != res.Disease {
		t.Errorf("record=%+v", rec)
	}
	if !reflect.DeepEqual([]string(rec.Symptoms), []string{"itching", "skin_rash", "made_up"}) {
		t.Errorf("symptoms=%q", rec.Symptoms)
	}

	// Duplicate submissions create duplicate rows.
	if _, err := svc.Predict(context.Background(), "u1", []string{"itching", "skin_rash"}); err != nil {
		t.Fatal(err)
	}
	if len(store.records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(store.records))
	}
}

func TestPredictFailuresWriteNothing(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, nil, store)
	if _, err := svc.Predict(context.Background(), "u1", []string{"bogus"}); !errors.Is(err, apperr.ErrNoValidSymptoms) {
		t.Fatalf("err=%v", err)
	}

	svc = newTestService(t, fixedClassifier{idx: 999}, store)
	if _, err := svc.Predict(context.Background(), "u1", []string{"cough"}); apperr.KindOf(err) != apperr.KindModel {
		t.Fatalf("err=%v", err)
	}
	if len(store.records) != 0 {
		t.Fatalf("no record expected, got %d", len(store.records))
	}
}

func TestPredictStoreFailureIsInternal(t *testing.T) {
	svc := newTestService(t, nil, &memStore{err: errors.New("db down")})
	_, err := svc.Predict(context.Background(), "u1", []string{"cough"})
	if apperr.KindOf(err) != apperr.KindInternal {
		t.Fatalf("err=%v", err)
	}
}

func TestHistoryNeverNil(t *testing.T) {
	svc := newTestService(t, nil, &memStore{})
	list, err := svc.History(context.Background(), "nobody")
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("list=%v err=%v", list, err)
	}
}
