package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"

	httputil "lockwatch/pkg/http"
	"lockwatch/pkg/logger"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Findings  string `json:"findings_store,omitempty"`
	Monitored string `json:"monitored_instance,omitempty"`
}

type HealthHandler struct {
	mongoClient *mongo.Client
	postgres    *sql.DB
	log         *logger.Logger
}

func NewHealthHandler(mongoClient *mongo.Client, postgres *sql.DB, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		mongoClient: mongoClient,
		postgres:    postgres,
		log:         log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

// Ready verifies both backing stores: the findings store holding pass
// results and the monitored instance the sampler reads from.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ready", Findings: "ok", Monitored: "ok"}
	status := http.StatusOK

	if err := h.mongoClient.Ping(ctx, nil); err != nil {
		h.log.Error("Findings store health check failed", "error", err, "path", r.URL.Path)
		resp.Status = "unavailable"
		resp.Findings = "error"
		status = http.StatusServiceUnavailable
	}

	if err := h.postgres.PingContext(ctx); err != nil {
		h.log.Error("Monitored instance health check failed", "error", err, "path", r.URL.Path)
		resp.Status = "unavailable"
		resp.Monitored = "error"
		status = http.StatusServiceUnavailable
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
