package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

// AuditReader is the minimal interface for the operator audit view.
type AuditReader interface {
	Recent(ctx context.Context, venueID string, limit int) ([]domain.AuditEntry, error)
}

// HandleAudit serves GET /admin/audit?venue_id=&limit= for incident review.
func HandleAudit(svc AuditReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		venueID := r.URL.Query().Get("venue_id")
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		entries, err := svc.Recent(r.Context(), venueID, limit)
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

		out := make([]auditEntryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, auditEntryResponse{
				ID:          e.ID,
				EventType:   string(e.EventType),
				SessionHash: e.SessionHash,
				VenueID:     e.VenueID,
				Status:      string(e.Status),
				ReasonCode:  string(e.Reason),
				IPAddress:   e.IPAddress,
				CreatedAt:   e.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, auditResponse{Entries: out})
	}
}

type auditEntryResponse struct {
	ID          string    `json:"id"`
	EventType   string    `json:"event_type"`
	SessionHash string    `json:"session_hash"`
	VenueID     string    `json:"venue_id"`
	Status      string    `json:"status"`
	ReasonCode  string    `json:"reason_code,omitempty"`
	IPAddress   string    `json:"ip_address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type auditResponse struct {
	Entries []auditEntryResponse `json:"entries"`
}
