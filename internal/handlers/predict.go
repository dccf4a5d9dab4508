package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diewo77/medicine-recommendation/auth"
	"github.com/diewo77/medicine-recommendation/httpx"
	"github.com/diewo77/medicine-recommendation/internal/knowledge"
	"github.com/diewo77/medicine-recommendation/internal/predict"
	"github.com/diewo77/medicine-recommendation/validation"
)

type PredictHandler struct {
	service *predict.Service
	tables  *knowledge.Tables
}

func NewPredictHandler(service *predict.Service, tables *knowledge.Tables) *PredictHandler {
	return &PredictHandler{service: service, tables: tables}
}

type predictRequest struct {
	Symptoms []string `json:"symptoms" binding:"required"`
}

type predictResponse struct {
	Status      string   `json:"status"`
	Disease     string   `json:"disease"`
	Description string   `json:"description"`
	Precautions []string `json:"precautions"`
	Medications []string `json:"medications"`
	Diet        []string `json:"diet"`
	Workout     []string `json:"workout"`
}

func (h *PredictHandler) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, validation.FromBinding(err).Err("No symptoms provided"))
		return
	}
	v := validation.Violations{}
	validation.NonEmptyList("symptoms", req.Symptoms, v)
	if err := v.Err("No symptoms provided"); err != nil {
		httpx.Error(c, err)
		return
	}
	uid, _ := auth.UserIDFromContext(c.Request.Context())
	res, err := h.service.Predict(c.Request.Context(), uid, req.Symptoms)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, predictResponse{
		Status:      "success",
		Disease:     res.Disease,
		Description: res.Description,
		Precautions: res.Precautions,
		Medications: res.Medications,
		Diet:        res.Diet,
		Workout:     res.Workout,
	})
}

// History lists the caller's predictions, newest first.
func (h *PredictHandler) History(c *gin.Context) {
	uid, _ := auth.UserIDFromContext(c.Request.Context())
	list, err := h.service.History(c.Request.Context(), uid)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, list)
}

// Symptoms lists the accepted symptom names in feature order.
func (h *PredictHandler) Symptoms(c *gin.Context) {
	httpx.JSON(c, http.StatusOK, gin.H{"symptoms": h.tables.Symptoms()})
}
