package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ikanisa/dinein-malta-sub006/internal/app"
	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

type stubSubmitter struct {
	result app.SubmitOrderResult
	err    error
	gotIn  app.SubmitOrderInput
}

func (s *stubSubmitter) Submit(_ context.Context, in app.SubmitOrderInput) (app.SubmitOrderResult, error) {
	s.gotIn = in
	return s.result, s.err
}

type stubOrderLister struct {
	orders []domain.Order
	err    error
}

func (s *stubOrderLister) ListOrders(_ context.Context, _ string, _ int) ([]domain.Order, error) {
	return s.orders, s.err
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var out errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return out
}

func TestSubmitOrderHandler(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 19, 30, 0, 0, time.UTC)
	sampleOrder := domain.Order{
		ID:            "o1",
		VenueID:       "v1",
		Status:        domain.OrderStatusReceived,
		PaymentMethod: domain.PaymentMethodCash,
		PaymentStatus: domain.PaymentStatusPending,
		TotalAmount:   10.00,
		Lines: []domain.OrderLine{
			{ID: "l1", MenuItemID: "burger", UnitPrice: 5.00, Quantity: 2},
		},
		CreatedAt: now,
	}

	t.Run("returns the server-priced order", func(t *testing.T) {
		t.Parallel()
		submitter := &stubSubmitter{result: app.SubmitOrderResult{Order: sampleOrder, Created: true}}
		handler := HandleOrders(submitter, &stubOrderLister{})

		body := `{"venue_id":"v1","items":[{"id":"burger","quantity":2}],"payment_method":"cash","session_id":"s1","idempotency_key":"abc"}`
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		req.RemoteAddr = "10.0.0.1:52000"
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var got orderResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if got.ID != "o1" || got.TotalAmount != 10.00 {
			t.Fatalf("unexpected response: %+v", got)
		}
		if got.Items[0].LineTotal != 10.00 {
			t.Fatalf("expected line total 10.00, got %v", got.Items[0].LineTotal)
		}
		if submitter.gotIn.ClientIP != "10.0.0.1" {
			t.Fatalf("expected client ip from remote addr, got %q", submitter.gotIn.ClientIP)
		}
	})

	t.Run("client-sent prices are ignored", func(t *testing.T) {
		t.Parallel()
		submitter := &stubSubmitter{result: app.SubmitOrderResult{Order: sampleOrder, Created: true}}
		handler := HandleOrders(submitter, &stubOrderLister{})

		body := `{"venue_id":"v1","items":[{"id":"burger","quantity":2,"price":0.01}],"payment_method":"cash","total_amount":0.02,"session_id":"s1"}`
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var got orderResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if got.TotalAmount != 10.00 {
			t.Fatalf("expected server total 10.00, got %v", got.TotalAmount)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		handler := HandleOrders(&stubSubmitter{}, &stubOrderLister{})

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if got := decodeError(t, rec); got.Code != codeInvalidRequestBody {
			t.Fatalf("expected code %s, got %s", codeInvalidRequestBody, got.Code)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		t.Parallel()
		submitter := &stubSubmitter{err: &domain.RateLimitedError{RetryAfter: 90 * time.Second}}
		handler := HandleOrders(submitter, &stubOrderLister{})

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"venue_id":"v1","items":[{"id":"burger","quantity":1}],"payment_method":"cash"}`))
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
		var got rateLimitedResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if got.Code != codeRateLimited || got.RetryAfterSeconds != 90 {
			t.Fatalf("unexpected response: %+v", got)
		}
	})

	t.Run("service errors map to codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
		}{
			{"venue required", domain.ErrVenueRequired, http.StatusBadRequest, codeVenueRequired},
			{"empty order", domain.ErrEmptyOrder, http.StatusBadRequest, codeEmptyOrder},
			{"too many lines", domain.ErrTooManyLines, http.StatusBadRequest, codeTooManyLines},
			{"invalid payment method", domain.ErrInvalidPaymentMethod, http.StatusBadRequest, codeInvalidPaymentMethod},
			{"item not found", domain.ErrItemNotFound, http.StatusBadRequest, codeItemNotFound},
			{"item unavailable", domain.ErrItemUnavailable, http.StatusBadRequest, codeItemUnavailable},
			{"venue not found", domain.ErrVenueNotFound, http.StatusBadRequest, codeVenueNotFound},
			{"internal", errors.New("boom"), http.StatusInternalServerError, codeInternalError},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				handler := HandleOrders(&stubSubmitter{err: tt.err}, &stubOrderLister{})
				req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"venue_id":"v1"}`))
				rec := httptest.NewRecorder()
				handler(rec, req)

				if rec.Code != tt.wantStatus {
					t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
				}
				if got := decodeError(t, rec); got.Code != tt.wantCode {
					t.Fatalf("expected code %s, got %s", tt.wantCode, got.Code)
				}
			})
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()
		handler := HandleOrders(&stubSubmitter{}, &stubOrderLister{})
		req := httptest.NewRequest(http.MethodDelete, "/orders", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestListOrdersHandler(t *testing.T) {
	t.Parallel()

	t.Run("returns venue orders", func(t *testing.T) {
		t.Parallel()
		lister := &stubOrderLister{orders: []domain.Order{
			{ID: "o1", VenueID: "v1", Status: domain.OrderStatusReceived},
			{ID: "o2", VenueID: "v1", Status: domain.OrderStatusServed},
		}}
		handler := HandleOrders(&stubSubmitter{}, lister)

		req := httptest.NewRequest(http.MethodGet, "/orders?venue_id=v1", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var got ordersResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(got.Orders) != 2 {
			t.Fatalf("expected 2 orders, got %d", len(got.Orders))
		}
	})

	t.Run("missing venue", func(t *testing.T) {
		t.Parallel()
		handler := HandleOrders(&stubSubmitter{}, &stubOrderLister{err: domain.ErrVenueRequired})

		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if got := decodeError(t, rec); got.Code != codeVenueRequired {
			t.Fatalf("expected code %s, got %s", codeVenueRequired, got.Code)
		}
	})
}
