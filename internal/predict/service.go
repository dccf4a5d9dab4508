package predict

import (
	"context"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/diewo77/medicine-recommendation/internal/apperr"
	"github.com/diewo77/medicine-recommendation/internal/knowledge"
	"github.com/diewo77/medicine-recommendation/internal/models"
)

// Store persists prediction history.
type Store interface {
	CreatePrediction(ctx context.Context, p *models.PredictionHistory) error
	ListPredictions(ctx context.Context, userID string) ([]models.PredictionHistory, error)
}

// Result is the response to a successful prediction.
type Result struct {
	Disease     string
	Description string
	Precautions []string
	Medications []string
	Diet        []string
	Workout     []string
}

// Service runs encode, classify, enrich and persist for one request.
type Service struct {
	encoder *Encoder
	adapter *Adapter
	kb      *knowledge.Base
	store   Store
}

func NewService(encoder *Encoder, adapter *Adapter, kb *knowledge.Base, store Store) *Service {
	return &Service{encoder: encoder, adapter: adapter, kb: kb, store: store}
}

// Predict classifies the symptoms and records one history row. Nothing is
// written when any stage fails.
func (s *Service) Predict(ctx context.Context, userID string, symptoms []string) (*Result, error) {
	entry := log.WithField("user_id", userID)
	submitted := Normalize(symptoms)
	entry.WithField("count", len(submitted)).Debug("prediction received")

	vec, valid, err := s.encoder.Encode(submitted)
	if err != nil {
		return nil, err
	}
	entry.WithField("valid", valid).Debug("symptoms encoded")

	disease, err := s.adapter.Predict(vec)
	if err != nil {
		return nil, err
	}
	entry.WithField("disease", disease).Debug("symptoms classified")

	advice := s.kb.Lookup(disease)
	entry.Debug("advice attached")

	rec := &models.PredictionHistory{
		UserID:           userID,
		Symptoms:         datatypes.NewJSONSlice(submitted),
		PredictedDisease: disease,
		Description:      advice.Description,
		Precautions:      datatypes.NewJSONSlice(advice.Precautions),
		Medications:      datatypes.NewJSONSlice(advice.Medications),
		Diet:             datatypes.NewJSONSlice(advice.Diet),
		Workout:          datatypes.NewJSONSlice(advice.Workout),
	}
	if err := s.store.CreatePrediction(ctx, rec); err != nil {
		return nil, apperr.Internal(err)
	}
	entry.WithField("record_id", rec.ID).Debug("prediction persisted")

	return &Result{
		Disease:     disease,
		Description: advice.Description,
		Precautions: advice.Precautions,
		Medications: advice.Medications,
		Diet:        advice.Diet,
		Workout:     advice.Workout,
	}, nil
}

// History returns the user's past predictions, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]models.PredictionHistory, error) {
	list, err := s.store.ListPredictions(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if list == nil {
		list = []models.PredictionHistory{}
	}
	return list, nil
}
