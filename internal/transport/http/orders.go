package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ikanisa/dinein-malta-sub006/internal/app"
	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

// OrderSubmitter is the minimal interface needed to submit orders.
type OrderSubmitter interface {
	Submit(ctx context.Context, in app.SubmitOrderInput) (app.SubmitOrderResult, error)
}

// OrderLister is the minimal interface needed for the vendor order feed.
type OrderLister interface {
	ListOrders(ctx context.Context, venueID string, limit int) ([]domain.Order, error)
}

// HandleOrders serves POST /orders (diner submission) and GET /orders
// (vendor feed).
func HandleOrders(submitter OrderSubmitter, lister OrderLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			submitOrder(w, r, submitter)
		case http.MethodGet:
			listOrders(w, r, lister)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func submitOrder(w http.ResponseWriter, r *http.Request, svc OrderSubmitter) {
	// Unknown fields are dropped on purpose: a tampered payload carrying a
	// price is ignored rather than rejected, and the server recomputes the
	// total either way.
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	lines := make([]app.LineInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, app.LineInput{
			MenuItemID: item.ID,
			Quantity:   item.Quantity,
			Notes:      item.Notes,
		})
	}

	res, err := svc.Submit(r.Context(), app.SubmitOrderInput{
		VenueID:         req.VenueID,
		Lines:           lines,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		TableIdentifier: req.TableNumber,
		IdempotencyKey:  req.IdempotencyKey,
		SessionID:       req.SessionID,
		ClientIP:        clientIP(r),
	})
	if err != nil {
		if rl, ok := domain.IsRateLimited(err); ok {
			writeRateLimited(w, "Too many orders, please wait before trying again", int(rl.RetryAfter.Seconds()))
			return
		}
		switch {
		case errors.Is(err, domain.ErrVenueRequired):
			writeError(w, http.StatusBadRequest, codeVenueRequired, err.Error())
		case errors.Is(err, domain.ErrEmptyOrder):
			writeError(w, http.StatusBadRequest, codeEmptyOrder, err.Error())
		case errors.Is(err, domain.ErrTooManyLines):
			writeError(w, http.StatusBadRequest, codeTooManyLines, err.Error())
		case errors.Is(err, domain.ErrInvalidPaymentMethod):
			writeError(w, http.StatusBadRequest, codeInvalidPaymentMethod, err.Error())
		case errors.Is(err, domain.ErrItemNotFound):
			writeError(w, http.StatusBadRequest, codeItemNotFound, "Item no longer available")
		case errors.Is(err, domain.ErrItemUnavailable):
			writeError(w, http.StatusBadRequest, codeItemUnavailable, "Item no longer available")
		case errors.Is(err, domain.ErrVenueNotFound):
			writeError(w, http.StatusBadRequest, codeVenueNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(res.Order))
}

func listOrders(w http.ResponseWriter, r *http.Request, svc OrderLister) {
	venueID := r.URL.Query().Get("venue_id")
	orders, err := svc.ListOrders(r.Context(), venueID, 0)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVenueRequired):
			writeError(w, http.StatusBadRequest, codeVenueRequired, err.Error())
		case errors.Is(err, domain.ErrVenueNotFound):
			writeError(w, http.StatusNotFound, codeVenueNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, ordersResponse{Orders: out})
}

type createOrderRequest struct {
	VenueID        string             `json:"venue_id"`
	Items          []orderItemRequest `json:"items"`
	PaymentMethod  string             `json:"payment_method"`
	TableNumber    string             `json:"table_number"`
	IdempotencyKey string             `json:"idempotency_key"`
	SessionID      string             `json:"session_id"`
}

type orderItemRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	VenueID       string              `json:"venue_id"`
	TableNumber   string              `json:"table_number,omitempty"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	PaymentStatus string              `json:"payment_status"`
	TotalAmount   float64             `json:"total_amount"`
	Items         []orderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

type orderItemResponse struct {
	MenuItemID string  `json:"menu_item_id"`
	UnitPrice  float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	LineTotal  float64 `json:"line_total"`
	Notes      string  `json:"notes,omitempty"`
}

type ordersResponse struct {
	Orders []orderResponse `json:"orders"`
}

func toOrderResponse(o domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Lines))
	for _, line := range o.Lines {
		items = append(items, orderItemResponse{
			MenuItemID: line.MenuItemID,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
			LineTotal:  line.LineTotal(),
			Notes:      line.Notes,
		})
	}
	return orderResponse{
		ID:            o.ID,
		VenueID:       o.VenueID,
		TableNumber:   o.TableIdentifier,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		TotalAmount:   o.TotalAmount,
		Items:         items,
		CreatedAt:     o.CreatedAt,
	}
}
