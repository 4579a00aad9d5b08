package handlers

import (
	"context"
	"errors"
	"net/http"

	"bike-probability-api/services"

	"github.com/gin-gonic/gin"
)

// ProbabilityEstimator is implemented by services.Estimator.
type ProbabilityEstimator interface {
	Estimate(ctx context.Context, stationReference string, ridesPerWeek int, pattern string) (*services.EstimationResult, error)
}

type ProbabilityHandler struct {
	estimator ProbabilityEstimator
}

func NewProbabilityHandler(estimator ProbabilityEstimator) *ProbabilityHandler {
	return &ProbabilityHandler{estimator: estimator}
}

type ProbabilityRequest struct {
	HomeStationID   string `json:"home_station_id" binding:"required"`
	RidingFrequency int    `json:"riding_frequency" binding:"required"`
	TimePattern     string `json:"time_pattern" binding:"required"`
}

func (h *ProbabilityHandler) Calculate(c *gin.Context) {
	var req ProbabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.estimator.Estimate(c.Request.Context(), req.HomeStationID, req.RidingFrequency, req.TimePattern)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidParameter):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrStationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrDataUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "historical data unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "probability calculation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
