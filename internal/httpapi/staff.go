package httpapi

import (
	"net/http"
	"strings"

	"fueldesk/dashboard-service/internal/dataaccess"
	"fueldesk/dashboard-service/internal/models"
	"fueldesk/dashboard-service/internal/rbac"
	"fueldesk/dashboard-service/internal/store"

	"github.com/shopspring/decimal"
)

type createProfileRequest struct {
	FullName  string           `json:"full_name"`
	Email     string           `json:"email"`
	Password  string           `json:"password"`
	Phone     *string          `json:"phone"`
	StationID string           `json:"station_id"`
	Salary    *decimal.Decimal `json:"salary"`
}

type updateProfileRequest struct {
	FullName  *string          `json:"full_name"`
	Email     *string          `json:"email"`
	Phone     *string          `json:"phone"`
	StationID *string          `json:"station_id"`
	Salary    *decimal.Decimal `json:"salary"`
	Status    *string          `json:"status"`
}

func (h *Handler) handleAdmins(w http.ResponseWriter, r *http.Request) {
	h.handleStaff(w, r, rbac.RoleAdmin)
}

func (h *Handler) handleEmployees(w http.ResponseWriter, r *http.Request) {
	h.handleStaff(w, r, rbac.RoleEmployee)
}

// handleStaff lists or creates profiles of one role. Station-scoped callers
// only see and create staff of their own station.
func (h *Handler) handleStaff(w http.ResponseWriter, r *http.Request, role rbac.Role) {
	sess, _ := sessionFromContext(r.Context())
	switch r.Method {
	case http.MethodGet:
		profiles, err := h.store.ListProfiles(r.Context(), store.ProfileFilter{
			Role:      string(role),
			StationID: scopedStation(r, sess),
		})
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, profiles)
	case http.MethodPost:
		var req createProfileRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		if rbac.StationScoped(sess.Role) {
			req.StationID = sess.StationID
		}
		if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Email) == "" || len(req.Password) < 8 {
			writeError(w, http.StatusBadRequest, "invalid_request", "full_name, email and a password of at least 8 characters are required")
			return
		}
		if !isValidUUID(req.StationID) {
			writeError(w, http.StatusBadRequest, "invalid_request", "station_id must be a UUID")
			return
		}
		stationID := req.StationID
		created, err := h.store.CreateProfile(r.Context(), store.NewProfile{
			Profile: models.Profile{
				FullName:  strings.TrimSpace(req.FullName),
				Role:      string(role),
				StationID: &stationID,
				Email:     req.Email,
				Phone:     req.Phone,
				Salary:    req.Salary,
				Status:    models.ProfileActive,
			},
			Password: req.Password,
		})
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		h.recordActivity(r, sess, string(role)+".create", "profile", created.ID)
		writeJSON(w, http.StatusOK, created)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleProfiles renders the profiles fetcher. Station-scoped callers get the
// rows of their own station only.
func (h *Handler) handleProfiles(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	profiles := dataaccess.Profiles(h.client, h.fetchOptions(r, sess)...)
	defer profiles.Close()
	state := profiles.Load()
	if state.Err != nil {
		writeFetchError(w, state.Err)
		return
	}
	all := listOrEmpty(state.Data)
	if !rbac.StationScoped(sess.Role) {
		writeJSON(w, http.StatusOK, all)
		return
	}
	visible := make([]models.Profile, 0, len(all))
	for _, profile := range all {
		if profile.StationID != nil && *profile.StationID == sess.StationID {
			visible = append(visible, profile)
		}
	}
	writeJSON(w, http.StatusOK, visible)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	parts := pathParts(r.URL.Path, "/api/profiles/")
	if len(parts) != 1 || !isValidUUID(parts[0]) {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id must be a UUID")
		return
	}
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req updateProfileRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	profile, err := h.store.GetProfile(r.Context(), parts[0])
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	target := rbac.Role(profile.Role)
	if target != rbac.RoleEmployee && !rbac.Has(sess.Role, rbac.PermAdminsManage) {
		writeError(w, http.StatusForbidden, "access_denied", "insufficient role")
		return
	}
	if rbac.StationScoped(sess.Role) && (profile.StationID == nil || !canSeeStation(sess, *profile.StationID)) {
		writeError(w, http.StatusForbidden, "access_denied", "station access denied")
		return
	}

	if req.FullName != nil {
		profile.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		profile.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		profile.Phone = req.Phone
	}
	if req.Salary != nil {
		profile.Salary = req.Salary
	}
	if req.Status != nil {
		profile.Status = *req.Status
	}
	if req.StationID != nil {
		if rbac.StationScoped(sess.Role) || !isValidUUID(*req.StationID) {
			writeError(w, http.StatusBadRequest, "invalid_request", "station_id cannot be changed")
			return
		}
		profile.StationID = req.StationID
	}
	if profile.FullName == "" || profile.Email == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "full_name and email are required")
		return
	}

	updated, err := h.store.UpdateProfile(r.Context(), profile)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.recordActivity(r, sess, "profile.update", "profile", updated.ID)
	writeJSON(w, http.StatusOK, updated)
}
