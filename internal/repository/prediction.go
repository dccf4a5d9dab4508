package repository

import (
	"context"

	"github.com/diewo77/medicine-recommendation/internal/models"
)

// CreatePrediction appends a history record. Records are never updated.
func (r *Repository) CreatePrediction(ctx context.Context, p *models.PredictionHistory) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// ListPredictions returns the user's history, newest first.
func (r *Repository) ListPredictions(ctx context.Context, userID string) ([]models.PredictionHistory, error) {
	var out []models.PredictionHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error
	return out, err
}

func (r *Repository) CountPredictions(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PredictionHistory{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
