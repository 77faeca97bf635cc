package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/farm-connect/internal/model"
	"github.com/you-humble/farm-connect/platform/logger"
)

func TestStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{err: model.NewFieldError("latitude", "is required"), want: http.StatusBadRequest},
		{err: fmt.Errorf("op: %w", model.ErrInsufficientStock), want: http.StatusBadRequest},
		{err: model.ErrUnauthorized, want: http.StatusUnauthorized},
		{err: model.ErrForbidden, want: http.StatusForbidden},
		{err: fmt.Errorf("op: %w", model.ErrCropNotFound), want: http.StatusNotFound},
		{err: model.ErrFarmerNotFound, want: http.StatusNotFound},
		{err: model.ErrConcurrencyConflict, want: http.StatusConflict},
		{err: model.ErrInvalidTransition, want: http.StatusConflict},
		{err: errors.Join(model.ErrOutcomeUnknown, errors.New("deadline")), want: http.StatusGatewayTimeout},
		{err: errors.Join(model.ErrUpstreamUnavailable, errors.New("dial")), want: http.StatusServiceUnavailable},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		got, msg := Status(tt.err)
		assert.Equal(t, tt.want, got, tt.err.Error())
		assert.NotEmpty(t, msg)
	}
}

func TestErrorBody(t *testing.T) {
	t.Parallel()

	logger.SetNopLogger()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/nearby-crops", nil)
	err := fmt.Errorf("nearby: %w", errors.Join(
		model.NewFieldError("latitude", "is required"),
		model.NewFieldError("maxDistance", "must be a positive integer"),
	))

	Error(rec, req, err)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 400, body.Code)
	assert.Equal(t, "validation error", body.Message)
	assert.Equal(t, map[string]string{
		"latitude":    "is required",
		"maxDistance": "must be a positive integer",
	}, body.Fields)
}

func TestInternalErrorHidesDetail(t *testing.T) {
	t.Parallel()

	logger.SetNopLogger()

	rec := httptest.NewRecorder()
	Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestDecode(t *testing.T) {
	t.Parallel()

	var v struct {
		A int `json:"a"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "ok", body: `{"a":1}`},
		{name: "empty", body: ``, wantErr: true},
		{name: "malformed", body: `{"a":`, wantErr: true},
		{name: "wrong type", body: `{"a":"x"}`, wantErr: true},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
		err := Decode(httptest.NewRecorder(), req, &v)
		if tt.wantErr {
			require.ErrorIs(t, err, model.ErrValidation, tt.name)
			assert.Contains(t, model.FieldErrors(err), "body", tt.name)
			continue
		}
		require.NoError(t, err, tt.name)
	}
}
