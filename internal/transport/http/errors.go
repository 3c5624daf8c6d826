package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed        = "method_not_allowed"
	codeNotFound                = "not_found"
	codeInvalidRequestBody      = "invalid_request_body"
	codeVenueRequired           = "venue_id_required"
	codeVenueNotFound           = "venue_not_found"
	codeEmptyOrder              = "empty_order"
	codeTooManyLines            = "too_many_lines"
	codeInvalidPaymentMethod    = "invalid_payment_method"
	codeItemNotFound            = "item_not_found"
	codeItemUnavailable         = "item_unavailable"
	codeTableRequired           = "table_number_required"
	codeRateLimited             = "rate_limited"
	codeInvalidStatus           = "invalid_status"
	codeInvalidStatusTransition = "invalid_status_transition"
	codeOrderNotFound           = "order_not_found"
	codeBellNotFound            = "service_request_not_found"
	codeInvalidID               = "invalid_id"
	codeForbidden               = "forbidden"
	codeInternalError           = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

type rateLimitedResponse struct {
	Error             string `json:"error"`
	Code              string `json:"code"`
	RetryAfterSeconds int    `json:"retry_after_seconds"`
}

func writeRateLimited(w http.ResponseWriter, msg string, retryAfterSeconds int) {
	if retryAfterSeconds < 1 {
		retryAfterSeconds = 1
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(rateLimitedResponse{
		Error:             msg,
		Code:              codeRateLimited,
		RetryAfterSeconds: retryAfterSeconds,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
