package httpapi

import (
	"net/http"
	"strings"

	"fueldesk/dashboard-service/internal/dataaccess"
	"fueldesk/dashboard-service/internal/models"
	"fueldesk/dashboard-service/internal/rbac"
)

type stationRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Status     string `json:"status"`
}

func (req stationRequest) station() models.Station {
	return models.Station{
		Name:       strings.TrimSpace(req.Name),
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		Email:      req.Email,
		Status:     req.Status,
	}
}

func (h *Handler) handleStations(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	switch r.Method {
	case http.MethodGet:
		if rbac.StationScoped(sess.Role) {
			h.renderOwnStation(w, r, sess)
			return
		}
		stations := dataaccess.Stations(h.client, h.fetchOptions(r, sess)...)
		defer stations.Close()
		state := stations.Load()
		if state.Err != nil {
			writeFetchError(w, state.Err)
			return
		}
		writeJSON(w, http.StatusOK, listOrEmpty(state.Data))
	case http.MethodPost:
		var req stationRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
			return
		}
		created, err := h.store.CreateStation(r.Context(), req.station())
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		h.recordActivity(r, sess, "station.create", "station", created.ID)
		writeJSON(w, http.StatusOK, created)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// renderOwnStation lists the single station a scoped profile belongs to.
func (h *Handler) renderOwnStation(w http.ResponseWriter, r *http.Request, sess session) {
	stationID := sess.StationID
	station := dataaccess.Station(h.client, &stationID, h.fetchOptions(r, sess)...)
	defer station.Close()
	state := station.Load(stationID)
	if state.Err != nil {
		writeFetchError(w, state.Err)
		return
	}
	stations := []models.Station{}
	if state.Data != nil {
		stations = append(stations, *state.Data)
	}
	writeJSON(w, http.StatusOK, stations)
}

func (h *Handler) handleStation(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	parts := pathParts(r.URL.Path, "/api/stations/")
	if len(parts) != 1 {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
		return
	}
	stationID := parts[0]
	if !isValidUUID(stationID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "station_id must be a UUID")
		return
	}
	if !canSeeStation(sess, stationID) {
		writeError(w, http.StatusForbidden, "access_denied", "station access denied")
		return
	}

	switch r.Method {
	case http.MethodGet:
		station := dataaccess.Station(h.client, &stationID, h.fetchOptions(r, sess)...)
		defer station.Close()
		state := station.Load(stationID)
		if state.Err != nil {
			writeFetchError(w, state.Err)
			return
		}
		writeJSON(w, http.StatusOK, state.Data)
	case http.MethodPut:
		var req stationRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		if req.Name == "" || req.Status == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "name and status are required")
			return
		}
		station := req.station()
		station.ID = stationID
		updated, err := h.store.UpdateStation(r.Context(), station)
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		h.recordActivity(r, sess, "station.update", "station", stationID)
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := h.store.DeleteStation(r.Context(), stationID); err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		h.recordActivity(r, sess, "station.delete", "station", stationID)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// listOrEmpty returns an empty list for a fetcher that settled without data.
func listOrEmpty[T any](items *[]T) []T {
	if items == nil || *items == nil {
		return []T{}
	}
	return *items
}
