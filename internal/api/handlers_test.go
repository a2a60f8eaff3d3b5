package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drug-recommendation-server/internal/config"
	"github.com/drug-recommendation-server/internal/domain"
)

// stubRecommender implements domain.Recommender for handler tests.
type stubRecommender struct {
	ready    bool
	response *domain.PredictionResponse
	err      error
	drugs    map[string]domain.DrugInfo
}

func (s *stubRecommender) Predict(ctx context.Context, profile *domain.PatientProfile) (*domain.PredictionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *stubRecommender) DrugInfo(name string) (*domain.DrugInfo, bool) {
	info, ok := s.drugs[name]
	if !ok {
		return nil, false
	}
	return &info, true
}

func (s *stubRecommender) Ready() bool {
	return s.ready
}

func testServer(t *testing.T, recommender domain.Recommender) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	viper.Reset()
	t.Cleanup(viper.Reset)

	configManager, err := config.NewManager()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewServer(configManager, recommender, logger)
}

func predictBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(domain.PatientProfile{
		Age:       34,
		Gender:    "female",
		HeartRate: 72,
		BloodType: "O+",
		Symptoms:  []string{"headache"},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestHandleHealth(t *testing.T) {
	server := testServer(t, &stubRecommender{ready: false})

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["model_loaded"])
}

func TestHandlePredict_NotReady(t *testing.T) {
	server := testServer(t, &stubRecommender{err: domain.ErrNotReady})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", predictBody(t))
	req.Header.Set("Content-Type", "application/json")
	server.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.ErrNotReadyCode, apiErr.Code)
}

func TestHandlePredict_Success(t *testing.T) {
	response := &domain.PredictionResponse{
		Recommendations: []domain.DrugRecommendation{
			{
				Name:            "Aspirin",
				Confidence:      0.73,
				Dosage:          "500mg",
				Frequency:       "Every 6 hours as needed",
				Effectiveness:   "Highly Effective",
				SideEffectsRisk: "Low Risk",
				ConditionMatch:  "headache",
			},
		},
		Explanations: []domain.Explanation{
			{Feature: "Drug effectiveness score", Influence: 100.0, Direction: domain.DirectionPositive},
		},
	}
	server := testServer(t, &stubRecommender{ready: true, response: response})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", predictBody(t))
	req.Header.Set("Content-Type", "application/json")
	server.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got domain.PredictionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, "Aspirin", got.Recommendations[0].Name)
	assert.Equal(t, "Highly Effective", got.Recommendations[0].Effectiveness)
}

func TestHandlePredict_MalformedBody(t *testing.T) {
	server := testServer(t, &stubRecommender{ready: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	server.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.ErrInvalidInput, apiErr.Code)
}

func TestHandleGetDrug(t *testing.T) {
	server := testServer(t, &stubRecommender{
		ready: true,
		drugs: map[string]domain.DrugInfo{
			"aspirin": {Effectiveness: "Highly Effective", SideEffects: "Mild Side Effects"},
		},
	})

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/drugs/aspirin", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var info domain.DrugInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "Highly Effective", info.Effectiveness)

	w = httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/drugs/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetDrug_NotReady(t *testing.T) {
	server := testServer(t, &stubRecommender{ready: false})

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/drugs/aspirin", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
