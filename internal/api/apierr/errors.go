package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/xctimer/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidUnit       = "INVALID_UNIT"
	CodeInvalidGrade      = "INVALID_GRADE"
	CodeInvalidTime       = "INVALID_TIME"
	CodeInvalidCheckpoint = "INVALID_CHECKPOINT"
	CodeRunnerNotFound    = "RUNNER_NOT_FOUND"
	CodeUnitLocked        = "UNIT_LOCKED"
	CodeInvalidScreen     = "INVALID_SCREEN"
	CodeInvalidDocument   = "INVALID_DOCUMENT"
	CodePersistFailed     = "PERSIST_FAILED"
	CodeQRFailed          = "QR_FAILED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrInvalidUnit):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidUnit, "Unit must be km or miles"}}
	case errors.Is(err, model.ErrInvalidGrade):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidGrade, "Grade must be Freshman, Sophomore, Junior or Senior"}}
	case errors.Is(err, model.ErrInvalidTimeFormat):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTime, "Time must be M:SS or MM:SS"}}
	case errors.Is(err, model.ErrInvalidCheckpoint):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCheckpoint, "Checkpoint is not valid for the session unit"}}
	case errors.Is(err, model.ErrRunnerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRunnerNotFound, "Runner not found"}}
	case errors.Is(err, model.ErrUnitChangeWithTimes):
		return &httpError{http.StatusConflict, APIError{CodeUnitLocked, "Unit cannot change once times are recorded"}}
	case errors.Is(err, model.ErrInvalidScreen):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidScreen, "Unknown screen"}}
	case errors.Is(err, model.ErrInvalidDocument):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDocument, "Session document could not be read"}}
	case errors.Is(err, model.ErrPersistFailed):
		return &httpError{http.StatusInternalServerError, APIError{CodePersistFailed, "Change applied but could not be saved"}}
	case errors.Is(err, model.ErrQRCode):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeQRFailed, "Session cannot be encoded as a QR code"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
