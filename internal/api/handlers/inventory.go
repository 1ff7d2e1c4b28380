package handlers

import (
	"encoding/json"
	"net/http"

	"argus/internal/domain/models"
	"argus/internal/inventory"
	"argus/pkg/logger"
)

// Device agents are capped to keep a malformed report from exhausting
// memory. Real devices report well under this.
const maxReportedApps = 2000

// InventoryHandler handles device inventory reports
type InventoryHandler struct {
	provider *inventory.ReportedProvider
	logger   *logger.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(provider *inventory.ReportedProvider, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		provider: provider,
		logger:   log.WithComponent("inventory-handler"),
	}
}

// InventoryReportRequest is one device's installed app snapshot
type InventoryReportRequest struct {
	DeviceID string                `json:"device_id"`
	Apps     []models.InstalledApp `json:"apps"`
}

// Report handles POST /api/v1/inventory/report
func (h *InventoryHandler) Report(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		respondError(w, http.StatusConflict, "inventory reporting disabled, static inventory configured")
		return
	}

	var req InventoryReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Apps) == 0 {
		respondError(w, http.StatusBadRequest, "apps array is required")
		return
	}
	if len(req.Apps) > maxReportedApps {
		respondError(w, http.StatusBadRequest, "too many apps in report")
		return
	}
	for i := range req.Apps {
		if req.Apps[i].PackageName == "" {
			respondError(w, http.StatusBadRequest, "every app needs a package_name")
			return
		}
	}

	h.provider.Report(req.DeviceID, req.Apps)

	respondJSON(w, http.StatusAccepted, map[string]any{
		"status": "accepted",
		"apps":   len(req.Apps),
	})
}
