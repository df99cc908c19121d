package httpapi

import (
	"net/http"
	"strings"

	"fueldesk/dashboard-service/internal/notify"
	"fueldesk/dashboard-service/internal/store"
)

type testUsersRequest struct {
	StationID string `json:"station_id"`
}

type provisionFailure struct {
	Error responseError `json:"error"`
	store.ProvisionResult
}

func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	entries, err := h.store.ListActivity(r.Context(), store.ActivityFilter{
		StationID: scopedStation(r, sess),
		Action:    strings.TrimSpace(r.URL.Query().Get("action")),
		ProfileID: strings.TrimSpace(r.URL.Query().Get("profile_id")),
	})
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleTestUsers provisions one account per role. A failure is pushed to the
// caller as a notification; accounts created before it are kept.
func (h *Handler) handleTestUsers(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	var req testUsersRequest
	if r.ContentLength != 0 && !decodeRequest(w, r, &req) {
		return
	}
	if req.StationID != "" && !isValidUUID(req.StationID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "station_id must be a UUID")
		return
	}

	result, err := h.store.ProvisionTestUsers(r.Context(), req.StationID)
	if err != nil {
		h.log.Error().Err(err).Int("created", len(result.Users)).Msg("test user provisioning failed")
		h.notes.Push(sess.ProfileID, notify.Notification{
			Level:   notify.LevelError,
			Title:   "Test users",
			Message: result.Message,
		})
		writeJSON(w, http.StatusInternalServerError, provisionFailure{
			Error:           responseError{Code: "provisioning_failed", Message: result.Message},
			ProvisionResult: result,
		})
		return
	}
	h.notes.Push(sess.ProfileID, notify.Notification{
		Level:   notify.LevelInfo,
		Title:   "Test users",
		Message: result.Message,
	})
	h.recordActivity(r, sess, "test_users.provision", "profile", "")
	writeJSON(w, http.StatusOK, result)
}
