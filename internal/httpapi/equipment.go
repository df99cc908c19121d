package httpapi

import (
	"net/http"
	"strings"

	"fueldesk/dashboard-service/internal/models"

	"github.com/shopspring/decimal"
)

type dispenserRequest struct {
	StationID string   `json:"station_id"`
	Name      string   `json:"name"`
	Status    string   `json:"status"`
	FuelTypes []string `json:"fuel_types"`
}

type inventoryRequest struct {
	StationID      string          `json:"station_id"`
	FuelType       string          `json:"fuel_type"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	Capacity       decimal.Decimal `json:"capacity"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
	PricePerUnit   decimal.Decimal `json:"price_per_unit"`
	CostPerUnit    decimal.Decimal `json:"cost_per_unit"`
}

// inventoryView adds the refill flag the inventory screen highlights.
type inventoryView struct {
	models.FuelInventory
	LowStock bool `json:"low_stock"`
}

func (h *Handler) handleDispensers(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	switch r.Method {
	case http.MethodGet:
		dispensers, err := h.store.ListDispensers(r.Context(), scopedStation(r, sess))
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, dispensers)
	case http.MethodPost:
		var req dispenserRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		stationID := ownStation(sess, req.StationID)
		if !isValidUUID(stationID) || strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "station_id and name are required")
			return
		}
		created, err := h.store.CreateDispenser(r.Context(), models.Dispenser{
			StationID: stationID,
			Name:      strings.TrimSpace(req.Name),
			Status:    req.Status,
			FuelTypes: req.FuelTypes,
		})
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		h.recordActivity(r, sess, "dispenser.create", "dispenser", created.ID)
		writeJSON(w, http.StatusOK, created)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleDispenser(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	parts := pathParts(r.URL.Path, "/api/dispensers/")
	if len(parts) != 1 || !isValidUUID(parts[0]) {
		writeError(w, http.StatusBadRequest, "invalid_request", "dispenser_id must be a UUID")
		return
	}
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req dispenserRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.Status == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name and status are required")
		return
	}
	updated, err := h.store.UpdateDispenser(r.Context(), models.Dispenser{
		ID:        parts[0],
		StationID: ownStation(sess, req.StationID),
		Name:      strings.TrimSpace(req.Name),
		Status:    req.Status,
		FuelTypes: req.FuelTypes,
	})
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.recordActivity(r, sess, "dispenser.update", "dispenser", updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleInventory(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	switch r.Method {
	case http.MethodGet:
		items, err := h.store.ListInventory(r.Context(), scopedStation(r, sess))
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		views := make([]inventoryView, 0, len(items))
		for _, item := range items {
			views = append(views, inventoryView{FuelInventory: item, LowStock: item.BelowThreshold()})
		}
		writeJSON(w, http.StatusOK, views)
	case http.MethodPost:
		var req inventoryRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		stationID := ownStation(sess, req.StationID)
		if !isValidUUID(stationID) || strings.TrimSpace(req.FuelType) == "" || !req.Capacity.IsPositive() {
			writeError(w, http.StatusBadRequest, "invalid_request", "station_id, fuel_type and a positive capacity are required")
			return
		}
		created, err := h.store.CreateInventory(r.Context(), req.inventory(stationID))
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		h.recordActivity(r, sess, "inventory.create", "fuel_inventory", created.ID)
		writeJSON(w, http.StatusOK, created)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleInventoryItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	parts := pathParts(r.URL.Path, "/api/inventory/")
	if len(parts) != 1 || !isValidUUID(parts[0]) {
		writeError(w, http.StatusBadRequest, "invalid_request", "inventory_id must be a UUID")
		return
	}
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req inventoryRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if !req.Capacity.IsPositive() {
		writeError(w, http.StatusBadRequest, "invalid_request", "capacity must be positive")
		return
	}
	item := req.inventory(ownStation(sess, req.StationID))
	item.ID = parts[0]
	updated, err := h.store.UpdateInventory(r.Context(), item)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.recordActivity(r, sess, "inventory.update", "fuel_inventory", updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (req inventoryRequest) inventory(stationID string) models.FuelInventory {
	return models.FuelInventory{
		StationID:      stationID,
		FuelType:       strings.TrimSpace(req.FuelType),
		CurrentStock:   req.CurrentStock,
		Capacity:       req.Capacity,
		AlertThreshold: req.AlertThreshold,
		PricePerUnit:   req.PricePerUnit,
		CostPerUnit:    req.CostPerUnit,
	}
}
