package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/you-humble/farm-connect/internal/model"
	"github.com/you-humble/farm-connect/platform/logger"
)

const maxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// JSON writes data with the given status code.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error(r.Context(), "encode response", logger.ErrorF(err))
	}
}

// Error maps err to a status code and writes the error body.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, message := Status(err)

	body := ErrorBody{Code: status, Message: message}
	if status == http.StatusBadRequest {
		body.Fields = model.FieldErrors(err)
	}

	if status >= http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.Int("status", status),
			logger.ErrorF(err),
		)
	}

	JSON(w, r, status, body)
}

// Status returns the HTTP status and the client-facing message for err.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, "validation error" // 400
	case errors.Is(err, model.ErrInsufficientStock):
		return http.StatusBadRequest, "insufficient stock for the requested quantity" // 400
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized, "missing or invalid token" // 401
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, "insufficient permissions" // 403
	case errors.Is(err, model.ErrFarmerNotFound):
		return http.StatusNotFound, model.ErrFarmerNotFound.Error() // 404
	case errors.Is(err, model.ErrCropNotFound):
		return http.StatusNotFound, model.ErrCropNotFound.Error() // 404
	case errors.Is(err, model.ErrPurchaseNotFound):
		return http.StatusNotFound, model.ErrPurchaseNotFound.Error() // 404
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, model.ErrNotFound.Error() // 404
	case errors.Is(err, model.ErrConcurrencyConflict):
		return http.StatusConflict, model.ErrConcurrencyConflict.Error() // 409
	case errors.Is(err, model.ErrInvalidTransition):
		return http.StatusConflict, model.ErrInvalidTransition.Error() // 409
	case errors.Is(err, model.ErrOutcomeUnknown):
		return http.StatusGatewayTimeout, "purchase outcome unknown, check your purchases before retrying" // 504
	case errors.Is(err, model.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, "service temporarily unavailable" // 503
	default:
		return http.StatusInternalServerError, "internal server error" // 500
	}
}

// Decode reads a JSON body into target. Malformed input is a validation error.
func Decode(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewFieldError("body", "is required")
		}
		return errors.Join(model.NewFieldError("body", "malformed JSON"), fmt.Errorf("decode: %w", err))
	}

	return nil
}
