package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors used across the recommendation core.
var (
	// ErrNotReady is returned while the index/classifier load has not
	// completed. The condition is retryable, not fatal.
	ErrNotReady = errors.New("recommendation engine not ready")

	// ErrInsufficientTrainingData is returned by classifier training
	// when too few aggregate examples exist to fit a model.
	ErrInsufficientTrainingData = errors.New("insufficient training data for classifier")
)

// APIError represents a standardized error response
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for different failure scenarios
const (
	ErrNotReadyCode   = "SERVICE_NOT_READY"
	ErrInvalidInput   = "INVALID_INPUT"
	ErrDatasetError   = "DATASET_ERROR"
	ErrNotFound       = "NOT_FOUND"
	ErrRateLimit      = "RATE_LIMIT_EXCEEDED"
	ErrInternalServer = "INTERNAL_SERVER_ERROR"
)

// NewAPIError creates a new APIError with timestamp
func NewAPIError(code, message, details, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}
