package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PredictionHistory is an immutable record of one successful prediction.
type PredictionHistory struct {
	ID               string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID           string                      `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Symptoms         datatypes.JSONSlice[string] `gorm:"not null" json:"symptoms"`
	PredictedDisease string                      `gorm:"size:100;not null" json:"predicted_disease"`
	Description      string                      `gorm:"type:text" json:"description"`
	Medications      datatypes.JSONSlice[string] `json:"medications"`
	Diet             datatypes.JSONSlice[string] `json:"diet"`
	Workout          datatypes.JSONSlice[string] `json:"workout"`
	Precautions      datatypes.JSONSlice[string] `json:"precautions"`
	CreatedAt        time.Time                   `gorm:"index" json:"created_at"`
}

func (PredictionHistory) TableName() string { return "prediction_history" }

func (p *PredictionHistory) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
