package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"fueldesk/dashboard-service/internal/auth"
	"fueldesk/dashboard-service/internal/health"
	"fueldesk/dashboard-service/internal/models"
	"fueldesk/dashboard-service/internal/rbac"
	"fueldesk/dashboard-service/internal/store"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string         `json:"access_token"`
	ExpiresAt   time.Time      `json:"expires_at"`
	Profile     models.Profile `json:"profile"`
	Navigation  []rbac.NavItem `json:"navigation"`
}

type meResponse struct {
	Profile     models.Profile `json:"profile"`
	Role        rbac.Role      `json:"role"`
	RoleName    string         `json:"role_name"`
	Description string         `json:"description"`
	Navigation  []rbac.NavItem `json:"navigation"`
}

type healthResponse struct {
	Status   string       `json:"status"`
	State    health.State `json:"state"`
	Degraded bool         `json:"degraded"`
	Error    string       `json:"error,omitempty"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	user, err := h.store.GetAuthUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
			return
		}
		h.writeStoreError(w, r, err)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}
	profile, err := h.store.GetProfileByUser(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusForbidden, "no_profile", "account has no dashboard profile")
			return
		}
		h.writeStoreError(w, r, err)
		return
	}
	if profile.Status != models.ProfileActive {
		writeError(w, http.StatusForbidden, "profile_inactive", "profile is not active")
		return
	}

	stationID := ""
	if profile.StationID != nil {
		stationID = *profile.StationID
	}
	token, err := h.tokens.Issue(profile.ID, user.ID, profile.Role, stationID)
	if err != nil {
		h.log.Error().Err(err).Msg("issue session token failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	h.recordActivity(r, session{ProfileID: profile.ID, StationID: stationID}, "login", "profile", profile.ID)
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		Profile:     profile,
		Navigation:  rbac.Navigation(rbac.Role(profile.Role)),
	})
}

// handleHealth always answers 200 with the gate status; a degraded backend is
// reported, not treated as down.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	status := health.Status{State: health.StateReady}
	if h.gate != nil {
		status = h.gate.Status()
	}
	label := "ok"
	switch {
	case status.State == health.StateChecking:
		label = "checking"
	case status.Degraded:
		label = "degraded"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   label,
		State:    status.State,
		Degraded: status.Degraded,
		Error:    status.Error,
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	profile, err := h.store.GetProfile(r.Context(), sess.ProfileID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		Profile:     profile,
		Role:        sess.Role,
		RoleName:    rbac.DisplayName(sess.Role),
		Description: rbac.Description(sess.Role),
		Navigation:  rbac.Navigation(sess.Role),
	})
}

func (h *Handler) handleNavigation(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"role":  sess.Role,
		"items": rbac.Navigation(sess.Role),
	})
}

func (h *Handler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.notes.Drain(sess.ProfileID))
}
