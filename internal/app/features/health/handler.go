package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/accessdeck/internal/app/system/apiclient"
	"github.com/dalemusser/accessdeck/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// BackendPath is the backend's unauthenticated health endpoint.
const BackendPath = "/api/v1/health"

// Handler holds dependencies needed for health checks.
type Handler struct {
	API    *apiclient.Client
	Client *mongo.Client // nil when audit persistence is disabled
	Log    *zap.Logger
}

// NewHandler constructs a health Handler. client may be nil.
func NewHandler(api *apiclient.Client, client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{
		API:    api,
		Client: client,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Backend  string `json:"backend"`
	Database string `json:"database"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "backend":"ok", "database":"connected" }
//
// The database is "disabled" when no audit store is configured. When the
// backend or the database does not answer: 503 with "status":"error".
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Backend:  "ok",
		Database: "disabled",
	}

	// Check backend
	if err := h.pingBackend(r.Context()); err != nil {
		h.Log.Error("health-check: backend ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Backend = "unreachable"
		resp.Message = "Backend unavailable"
		resp.Error = apiclient.UserMessage(err)
	}

	// Check database
	if h.Client != nil {
		resp.Database = "connected"
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
		err := h.Client.Ping(ctx, readpref.Primary())
		cancel()
		if err != nil {
			h.Log.Error("health-check: mongo ping failed", zap.Error(err))
			resp.Status = "error"
			resp.Database = "disconnected"
			if resp.Message == "" {
				resp.Message = "Database unavailable"
				resp.Error = err.Error()
			}
		}
	}

	if resp.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handler) pingBackend(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	_, err := h.API.Get(ctx, BackendPath, nil)
	return err
}
