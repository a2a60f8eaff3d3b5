package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drug-recommendation-server/internal/domain"
)

const serverVersion = "1.0.0"

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"model_loaded": s.recommender.Ready(),
		"timestamp":    time.Now().UTC(),
		"version":      serverVersion,
	})
}

// handlePredict handles drug recommendation requests
func (s *Server) handlePredict(c *gin.Context) {
	var profile domain.PatientProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrInvalidInput,
			"Invalid patient profile",
			err.Error(),
			c.GetString("correlation_id"),
		))
		return
	}

	response, err := s.recommender.Predict(c.Request.Context(), &profile)
	if err != nil {
		if errors.Is(err, domain.ErrNotReady) {
			c.JSON(http.StatusServiceUnavailable, domain.NewAPIError(
				domain.ErrNotReadyCode,
				"Model not loaded, retry shortly",
				"",
				c.GetString("correlation_id"),
			))
			return
		}

		s.logger.WithError(err).Error("Prediction failed")
		c.JSON(http.StatusInternalServerError, domain.NewAPIError(
			domain.ErrInternalServer,
			"Prediction failed",
			err.Error(),
			c.GetString("correlation_id"),
		))
		return
	}

	c.JSON(http.StatusOK, response)
}

// handleGetDrug handles drug info lookups against the loaded index
func (s *Server) handleGetDrug(c *gin.Context) {
	if !s.recommender.Ready() {
		c.JSON(http.StatusServiceUnavailable, domain.NewAPIError(
			domain.ErrNotReadyCode,
			"Model not loaded, retry shortly",
			"",
			c.GetString("correlation_id"),
		))
		return
	}

	name := c.Param("name")
	info, ok := s.recommender.DrugInfo(name)
	if !ok {
		c.JSON(http.StatusNotFound, domain.NewAPIError(
			domain.ErrNotFound,
			"Unknown drug",
			name,
			c.GetString("correlation_id"),
		))
		return
	}

	c.JSON(http.StatusOK, info)
}
