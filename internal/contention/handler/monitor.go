package handler

import (
	"encoding/json"
	"net/http"

	"lockwatch/internal/contention/service"
	httputil "lockwatch/pkg/http"
	"lockwatch/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type MonitorHandler struct {
	service service.MonitorService
	log     *logger.Logger
}

func NewMonitorHandler(service service.MonitorService, log *logger.Logger) *MonitorHandler {
	return &MonitorHandler{
		service: service,
		log:     log,
	}
}

// TriggerPass runs one on-demand monitoring pass. The tenant query
// parameter scopes the pass; absent means system-wide.
func (h *MonitorHandler) TriggerPass(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tenant := r.URL.Query().Get("tenant")

	summary, err := h.service.RunOnce(r.Context(), tenant)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "TriggerPass", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, summary); err != nil {
		h.log.Error("failed to write created response", "handler", "TriggerPass", "operation", "WriteCreated", "error", err)
	}
}

func (h *MonitorHandler) GetSummaries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	tenant := query.Get("tenant")
	minSeverity := query.Get("min_severity")

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetSummaries", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	summaries, total, err := h.service.GetSessionSummaries(r.Context(), tenant, minSeverity, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetSummaries", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, summaries, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetSummaries", "operation", "WritePaginated", "error", err)
	}
}

func (h *MonitorHandler) GetWindows(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tenant := r.URL.Query().Get("tenant")

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetWindows", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	windows, total, err := h.service.GetAnalysisWindows(r.Context(), tenant, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetWindows", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, windows, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetWindows", "operation", "WritePaginated", "error", err)
	}
}

func (h *MonitorHandler) GetDeadlocks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	tenant := query.Get("tenant")
	status := query.Get("status")

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetDeadlocks", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	events, total, err := h.service.GetDeadlocks(r.Context(), tenant, status, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetDeadlocks", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, events, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetDeadlocks", "operation", "WritePaginated", "error", err)
	}
}

// resolveRequest is accepted for forward compatibility; the resolution
// kind is always recorded as manual for operator-initiated calls.
type resolveRequest struct {
	Note string `json:"note,omitempty"`
}

func (h *MonitorHandler) ResolveDeadlock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if r.Body != nil && r.ContentLength > 0 {
		var req resolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
				Error: "Invalid request body",
			}); writeErr != nil {
				h.log.Error("failed to write JSON response", "handler", "ResolveDeadlock", "operation", "WriteJSON", "error", writeErr)
			}
			return
		}
	}

	event, err := h.service.ResolveDeadlock(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ResolveDeadlock", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, event); err != nil {
		h.log.Error("failed to write success response", "handler", "ResolveDeadlock", "operation", "WriteSuccess", "error", err)
	}
}

func (h *MonitorHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/passes", h.TriggerPass)
	router.GET("/api/v1/summaries", h.GetSummaries)
	router.GET("/api/v1/windows", h.GetWindows)
	router.GET("/api/v1/deadlocks", h.GetDeadlocks)
	router.PUT("/api/v1/deadlocks/:id/resolution", h.ResolveDeadlock)
}
