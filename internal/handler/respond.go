// Package handler holds shared HTTP response helpers for the storefront and
// admin handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/dkurganov/lavka/internal/middleware"
)

// RespondJSON writes v as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string            `json:"error"`
	Code      string            `json:"code,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	ProductID string            `json:"product_id,omitempty"`
	Available *int32            `json:"available,omitempty"`
}

// RespondError maps a domain error to an HTTP response. Stock and
// availability rejections carry the product ID (and remaining stock) so the
// UI can let the user adjust the cart and consciously resubmit.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	if fields := domain.GetValidationFields(err); fields != nil {
		RespondJSON(w, http.StatusBadRequest, ErrorBody{
			Error:  "validation failed",
			Code:   domain.EINVALID,
			Fields: fields,
		})
		return
	}

	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		available := stockErr.Available
		RespondJSON(w, http.StatusConflict, ErrorBody{
			Error:     "insufficient stock",
			Code:      "insufficient_stock",
			ProductID: stockErr.ProductID.String(),
			Available: &available,
		})
		return
	}

	var unavailableErr *domain.ProductUnavailableError
	if errors.As(err, &unavailableErr) {
		RespondJSON(w, http.StatusConflict, ErrorBody{
			Error:     "product unavailable",
			Code:      "product_unavailable",
			ProductID: unavailableErr.ProductID.String(),
		})
		return
	}

	code := domain.ErrorCode(err)
	if code == domain.EINTERNAL {
		middleware.GetLogger(r.Context()).Error("request failed",
			slog.String("op", domain.ErrorOp(err)),
			slog.String("error", err.Error()))
	}

	RespondJSON(w, statusForCode(code), ErrorBody{
		Error: domain.ErrorMessage(err),
		Code:  code,
	})
}

func statusForCode(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests
	case domain.ENOTIMPL:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodes a request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("request.decode", "invalid JSON body")
	}
	return nil
}
