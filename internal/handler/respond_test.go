package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"not found", domain.ErrProductNotFound, http.StatusNotFound},
		{"invalid", domain.ErrCartEmpty, http.StatusBadRequest},
		{"unauthorized", domain.Unauthorized("op", "login required"), http.StatusUnauthorized},
		{"forbidden", domain.Forbidden("op", "admin only"), http.StatusForbidden},
		{"conflict", domain.Conflict("op", "already exists"), http.StatusConflict},
		{"internal", errors.New("pq: broken pipe"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			RespondError(rec, req, tt.err)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRespondError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondError(rec, req, errors.New("pq: connection to 10.0.0.5 refused"))

	body := decodeErrorBody(t, rec)
	assert.NotContains(t, body.Error, "10.0.0.5")
}

func TestRespondError_ValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)

	var err error
	err = domain.AddFieldError(err, "email", "must be a valid email address")
	err = domain.AddFieldError(err, "phone", "is required")
	RespondError(rec, req, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, domain.EINVALID, body.Code)
	assert.Len(t, body.Fields, 2)
	assert.Equal(t, "is required", body.Fields["phone"])
}

func TestRespondError_InsufficientStockCarriesAvailable(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	productID := uuid.New()

	RespondError(rec, req, &domain.InsufficientStockError{ProductID: productID, Available: 3})

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "insufficient_stock", body.Code)
	assert.Equal(t, productID.String(), body.ProductID)
	require.NotNil(t, body.Available)
	assert.Equal(t, int32(3), *body.Available)
}

func TestRespondError_ProductUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	productID := uuid.New()

	RespondError(rec, req, &domain.ProductUnavailableError{ProductID: productID})

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "product_unavailable", body.Code)
	assert.Equal(t, productID.String(), body.ProductID)
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity": 2, "surprise": true}`))

	var dst struct {
		Quantity int32 `json:"quantity"`
	}
	err := DecodeJSON(req, &dst)
	assert.True(t, domain.IsCode(err, domain.EINVALID))
}

func TestDecodeJSON_ValidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity": 2}`))

	var dst struct {
		Quantity int32 `json:"quantity"`
	}
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, int32(2), dst.Quantity)
}
