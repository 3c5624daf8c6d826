package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ikanisa/dinein-malta-sub006/internal/domain"
)

// StatusUpdater is the minimal interface the vendor status endpoints need.
// Every mutation of an order or bell status routes through it, so no surface
// can bypass the state machines.
type StatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, orderID string, next domain.OrderStatus) (domain.OrderStatus, error)
	UpdateBellStatus(ctx context.Context, bellID string, next domain.BellStatus) (domain.BellStatus, error)
}

// HandleOrderStatus serves POST /orders/{id}/status.
func HandleOrderStatus(svc StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		orderID, ok := parseStatusPath(r.URL.Path, "orders")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		status, err := svc.UpdateOrderStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidStatus):
				writeError(w, http.StatusBadRequest, codeInvalidStatus, err.Error())
			case errors.Is(err, domain.ErrInvalidID):
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case errors.Is(err, domain.ErrOrderNotFound):
				writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
			case errors.Is(err, domain.ErrInvalidStatusTransition):
				writeError(w, http.StatusConflict, codeInvalidStatusTransition, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, updateStatusResponse{ID: orderID, Status: string(status)})
	}
}

// HandleBellStatus serves POST /service-requests/{id}/status.
func HandleBellStatus(svc StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		bellID, ok := parseStatusPath(r.URL.Path, "service-requests")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		status, err := svc.UpdateBellStatus(r.Context(), bellID, domain.BellStatus(req.Status))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidStatus):
				writeError(w, http.StatusBadRequest, codeInvalidStatus, err.Error())
			case errors.Is(err, domain.ErrInvalidID):
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case errors.Is(err, domain.ErrBellNotFound):
				writeError(w, http.StatusNotFound, codeBellNotFound, err.Error())
			case errors.Is(err, domain.ErrInvalidStatusTransition):
				writeError(w, http.StatusConflict, codeInvalidStatusTransition, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, updateStatusResponse{ID: bellID, Status: string(status)})
	}
}

func parseStatusPath(path, resource string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != resource || parts[2] != "status" {
		return "", false
	}
	if parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updateStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
