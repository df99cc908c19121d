package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"fueldesk/dashboard-service/internal/auth"
	"fueldesk/dashboard-service/internal/health"
	"fueldesk/dashboard-service/internal/models"
	"fueldesk/dashboard-service/internal/rbac"
	"fueldesk/dashboard-service/internal/store"
)

type sessionContextKey struct{}

type session struct {
	ProfileID string
	UserID    string
	Role      rbac.Role
	StationID string
}

func sessionFromContext(ctx context.Context) (session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(session)
	return sess, ok
}

// layout is the shell every non-public route renders inside. It checks, in
// order: a valid session token, the boot health gate, a known role, the
// permission the route needs for the request method, and for writes an
// active profile.
func (h *Handler) layout(rt route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
			return
		}
		claims, err := h.tokens.Validate(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "token_expired", "session expired")
				return
			}
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid session")
			return
		}

		if h.gate != nil && h.gate.Status().State == health.StateChecking {
			writeError(w, http.StatusServiceUnavailable, "checking_backend", "checking backend connection")
			return
		}

		role, ok := rbac.ParseRole(claims.Role)
		if !ok {
			writeError(w, http.StatusForbidden, "unknown_role", "role is not recognised")
			return
		}

		perm, ok := rt.access[r.Method]
		if !ok {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !rbac.Has(role, perm) {
			writeError(w, http.StatusForbidden, "access_denied", "insufficient role")
			return
		}

		sess := session{
			ProfileID: claims.ProfileID,
			UserID:    claims.UserID,
			Role:      role,
			StationID: claims.StationID,
		}
		if rbac.StationScoped(role) && sess.StationID == "" {
			writeError(w, http.StatusForbidden, "station_required", "profile has no station")
			return
		}
		if sess.StationID != "" && !h.limiter.allowStation(sess.StationID) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		if r.Method != http.MethodGet && !h.requireActiveProfile(w, r, sess) {
			return
		}
		annotateRequest(r.Context(), sess)

		ctx := context.WithValue(r.Context(), sessionContextKey{}, sess)
		rt.handle(w, r.WithContext(ctx))
	})
}

// requireActiveProfile re-reads the caller's profile before a write. A token
// stays valid after its profile is deactivated; writes stop immediately.
func (h *Handler) requireActiveProfile(w http.ResponseWriter, r *http.Request, sess session) bool {
	profile, err := h.store.GetProfile(r.Context(), sess.ProfileID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusForbidden, "no_profile", "account has no dashboard profile")
		return false
	}
	if err != nil {
		h.writeStoreError(w, r, err)
		return false
	}
	if profile.Status != models.ProfileActive {
		writeError(w, http.StatusForbidden, "profile_inactive", "profile is not active")
		return false
	}
	return true
}

// scopedStation is the station a request is limited to. Station-scoped roles
// always get their own; super admins may narrow with ?station_id=.
func scopedStation(r *http.Request, sess session) string {
	if rbac.StationScoped(sess.Role) {
		return sess.StationID
	}
	return strings.TrimSpace(r.URL.Query().Get("station_id"))
}

// ownStation pins station-scoped callers to their station whatever the body
// says.
func ownStation(sess session, requested string) string {
	if rbac.StationScoped(sess.Role) {
		return sess.StationID
	}
	return strings.TrimSpace(requested)
}

// canSeeStation reports whether sess may act on records of stationID.
func canSeeStation(sess session, stationID string) bool {
	if !rbac.StationScoped(sess.Role) {
		return true
	}
	return stationID != "" && stationID == sess.StationID
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
