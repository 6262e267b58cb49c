package httputil

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/codegate/gateway-server-go/internal/errors"
)

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteRawJSON relays a pre-encoded JSON body as-is.
func WriteRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error string              `json:"error"`
	Code  apperrors.ErrorCode `json:"code"`
}

// WriteError writes an AppError as an HTTP response with appropriate status code
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		// Wrap unknown errors as internal errors
		appErr = apperrors.Internal("An unexpected error occurred")
	}

	status := statusFromCode(appErr.Code)
	response := ErrorResponse{
		Error: appErr.Message,
		Code:  appErr.Code,
	}

	WriteJSON(w, status, response)
}

// statusFromCode maps ErrorCode to HTTP status code
func statusFromCode(code apperrors.ErrorCode) int {
	switch code {
	// 400 Bad Request
	case apperrors.ErrCodeValidation,
		apperrors.ErrCodeMissingRequired:
		return http.StatusBadRequest

	// 403 Forbidden
	case apperrors.ErrCodeDeviceConflict:
		return http.StatusForbidden

	// 404 Not Found
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound

	// 429 Too Many Requests
	case apperrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests

	// 500 Internal Server Error. Upstream chat failures are deliberately
	// reported as a generic 500 with no upstream detail.
	case apperrors.ErrCodeInternal,
		apperrors.ErrCodeDatabase,
		apperrors.ErrCodeUpstream:
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}
