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

// BellRinger is the minimal interface needed to raise a service request.
type BellRinger interface {
	Ring(ctx context.Context, in app.RingBellInput) (domain.BellRequest, error)
}

// BellLister is the minimal interface needed for the vendor bell feed.
type BellLister interface {
	ListOpenBells(ctx context.Context, venueID string) ([]domain.BellRequest, error)
}

// HandleBells serves POST /service-requests (diner bell ring) and GET
// /service-requests (vendor feed of open bells).
func HandleBells(ringer BellRinger, lister BellLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			ringBell(w, r, ringer)
		case http.MethodGet:
			listBells(w, r, lister)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func ringBell(w http.ResponseWriter, r *http.Request, svc BellRinger) {
	var req ringBellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	_, err := svc.Ring(r.Context(), app.RingBellInput{
		VenueID:         req.VenueID,
		TableIdentifier: req.TableNumber,
		SessionID:       req.SessionID,
		ClientIP:        clientIP(r),
	})
	if err != nil {
		if rl, ok := domain.IsRateLimited(err); ok {
			writeRateLimited(w, "Too many requests, please wait", int(rl.RetryAfter.Seconds()))
			return
		}
		switch {
		case errors.Is(err, domain.ErrVenueRequired):
			writeError(w, http.StatusBadRequest, codeVenueRequired, err.Error())
		case errors.Is(err, domain.ErrTableRequired):
			writeError(w, http.StatusBadRequest, codeTableRequired, err.Error())
		case errors.Is(err, domain.ErrVenueNotFound):
			writeError(w, http.StatusBadRequest, codeVenueNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, ringBellResponse{Success: true})
}

func listBells(w http.ResponseWriter, r *http.Request, svc BellLister) {
	venueID := r.URL.Query().Get("venue_id")
	bells, err := svc.ListOpenBells(r.Context(), venueID)
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

	out := make([]bellResponse, 0, len(bells))
	for _, b := range bells {
		out = append(out, bellResponse{
			ID:          b.ID,
			VenueID:     b.VenueID,
			TableNumber: b.TableIdentifier,
			Status:      string(b.Status),
			CreatedAt:   b.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, bellsResponse{ServiceRequests: out})
}

type ringBellRequest struct {
	VenueID     string `json:"venue_id"`
	TableNumber string `json:"table_number"`
	SessionID   string `json:"session_id"`
}

type ringBellResponse struct {
	Success bool `json:"success"`
}

type bellResponse struct {
	ID          string    `json:"id"`
	VenueID     string    `json:"venue_id"`
	TableNumber string    `json:"table_number"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type bellsResponse struct {
	ServiceRequests []bellResponse `json:"service_requests"`
}
