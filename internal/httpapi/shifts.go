package httpapi

import (
	"net/http"
	"strings"

	"fueldesk/dashboard-service/internal/models"
	"fueldesk/dashboard-service/internal/rbac"
	"fueldesk/dashboard-service/internal/store"

	"github.com/shopspring/decimal"
)

type startShiftRequest struct {
	EmployeeID   string          `json:"employee_id"`
	DispenserIDs []string        `json:"dispenser_ids"`
	StartingCash decimal.Decimal `json:"starting_cash"`
	Notes        string          `json:"notes"`
}

type closeShiftRequest struct {
	EndingCash decimal.Decimal `json:"ending_cash"`
	Notes      string          `json:"notes"`
}

type meterReadingRequest struct {
	ShiftID      string          `json:"shift_id"`
	DispenserID  string          `json:"dispenser_id"`
	FuelType     string          `json:"fuel_type"`
	StartReading decimal.Decimal `json:"start_reading"`
}

type closeReadingRequest struct {
	EndReading decimal.Decimal `json:"end_reading"`
}

func (h *Handler) handleShifts(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	switch r.Method {
	case http.MethodGet:
		filter := store.ShiftFilter{
			StationID:  scopedStation(r, sess),
			EmployeeID: strings.TrimSpace(r.URL.Query().Get("employee_id")),
			Status:     strings.TrimSpace(r.URL.Query().Get("status")),
		}
		if sess.Role == rbac.RoleEmployee {
			filter.EmployeeID = sess.ProfileID
		}
		if filter.Status != "" && !models.ValidShiftStatus(filter.Status) {
			writeError(w, http.StatusBadRequest, "invalid_request", "unknown shift status")
			return
		}
		shifts, err := h.store.ListShifts(r.Context(), filter)
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, shifts)
	case http.MethodPost:
		var req startShiftRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		if sess.Role == rbac.RoleEmployee {
			req.EmployeeID = sess.ProfileID
		}
		if !isValidUUID(req.EmployeeID) {
			writeError(w, http.StatusBadRequest, "invalid_request", "employee_id must be a UUID")
			return
		}
		for _, id := range req.DispenserIDs {
			if !isValidUUID(id) {
				writeError(w, http.StatusBadRequest, "invalid_request", "dispenser_ids must be UUIDs")
				return
			}
		}
		if req.StartingCash.IsNegative() {
			writeError(w, http.StatusBadRequest, "invalid_request", "starting_cash cannot be negative")
			return
		}
		employee, err := h.store.GetProfile(r.Context(), req.EmployeeID)
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		if employee.Role != string(rbac.RoleEmployee) || employee.StationID == nil {
			writeError(w, http.StatusUnprocessableEntity, "not_an_employee", "shifts are started for station employees")
			return
		}
		if !canSeeStation(sess, *employee.StationID) {
			writeError(w, http.StatusForbidden, "access_denied", "station access denied")
			return
		}
		shift, err := h.store.StartShift(r.Context(), models.Shift{
			StationID:    *employee.StationID,
			EmployeeID:   employee.ID,
			DispenserIDs: req.DispenserIDs,
			StartingCash: req.StartingCash,
			Notes:        req.Notes,
		})
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		h.recordActivity(r, sess, "shift.start", "shift", shift.ID)
		writeJSON(w, http.StatusOK, shift)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleShiftAction serves POST /api/shifts/{id}/close and /cancel.
func (h *Handler) handleShiftAction(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	parts := pathParts(r.URL.Path, "/api/shifts/")
	if len(parts) != 2 || (parts[1] != "close" && parts[1] != "cancel") {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
		return
	}
	shiftID, action := parts[0], parts[1]
	if !isValidUUID(shiftID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "shift_id must be a UUID")
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req closeShiftRequest
	if action == "close" {
		if !decodeRequest(w, r, &req) {
			return
		}
		if req.EndingCash.IsNegative() {
			writeError(w, http.StatusBadRequest, "invalid_request", "ending_cash cannot be negative")
			return
		}
	}
	shift, err := h.store.GetShift(r.Context(), shiftID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if !h.canOperateShift(sess, shift) {
		writeError(w, http.StatusForbidden, "access_denied", "shift access denied")
		return
	}

	var updated models.Shift
	if action == "close" {
		updated, err = h.store.CloseShift(r.Context(), shiftID, req.EndingCash, req.Notes)
	} else {
		updated, err = h.store.CancelShift(r.Context(), shiftID)
	}
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.recordActivity(r, sess, "shift."+action, "shift", shiftID)
	writeJSON(w, http.StatusOK, updated)
}

// canOperateShift: employees act on their own shifts, admins on shifts of
// their station, super admins on any.
func (h *Handler) canOperateShift(sess session, shift models.Shift) bool {
	if sess.Role == rbac.RoleEmployee && shift.EmployeeID != sess.ProfileID {
		return false
	}
	return canSeeStation(sess, shift.StationID)
}

func (h *Handler) handleMeterReadings(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	switch r.Method {
	case http.MethodGet:
		shiftID := strings.TrimSpace(r.URL.Query().Get("shift_id"))
		if !isValidUUID(shiftID) {
			writeError(w, http.StatusBadRequest, "invalid_request", "shift_id is required")
			return
		}
		if !h.requireShiftAccess(w, r, sess, shiftID) {
			return
		}
		readings, err := h.store.ListMeterReadings(r.Context(), shiftID)
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, readings)
	case http.MethodPost:
		var req meterReadingRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		if !isValidUUID(req.ShiftID) || !isValidUUID(req.DispenserID) || strings.TrimSpace(req.FuelType) == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "shift_id, dispenser_id and fuel_type are required")
			return
		}
		if !h.requireShiftAccess(w, r, sess, req.ShiftID) {
			return
		}
		reading, err := h.store.CreateMeterReading(r.Context(), models.MeterReading{
			ShiftID:      req.ShiftID,
			DispenserID:  req.DispenserID,
			FuelType:     strings.TrimSpace(req.FuelType),
			StartReading: req.StartReading,
		})
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		h.recordActivity(r, sess, "meter_reading.create", "meter_reading", reading.ID)
		writeJSON(w, http.StatusOK, reading)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleMeterReadingClose serves POST /api/meter-readings/{id}/close.
func (h *Handler) handleMeterReadingClose(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	parts := pathParts(r.URL.Path, "/api/meter-readings/")
	if len(parts) != 2 || parts[1] != "close" {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
		return
	}
	if !isValidUUID(parts[0]) {
		writeError(w, http.StatusBadRequest, "invalid_request", "reading_id must be a UUID")
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req closeReadingRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	reading, err := h.store.GetMeterReading(r.Context(), parts[0])
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if !h.requireShiftAccess(w, r, sess, reading.ShiftID) {
		return
	}
	closed, err := h.store.CloseMeterReading(r.Context(), reading.ID, req.EndReading)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.recordActivity(r, sess, "meter_reading.close", "meter_reading", closed.ID)
	writeJSON(w, http.StatusOK, closed)
}

func (h *Handler) requireShiftAccess(w http.ResponseWriter, r *http.Request, sess session, shiftID string) bool {
	shift, err := h.store.GetShift(r.Context(), shiftID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return false
	}
	if !h.canOperateShift(sess, shift) {
		writeError(w, http.StatusForbidden, "access_denied", "shift access denied")
		return false
	}
	return true
}
