package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"fueldesk/dashboard-service/internal/auth"
	"fueldesk/dashboard-service/internal/backend"
	"fueldesk/dashboard-service/internal/fetch"
	"fueldesk/dashboard-service/internal/health"
	"fueldesk/dashboard-service/internal/models"
	"fueldesk/dashboard-service/internal/notify"
	"fueldesk/dashboard-service/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Handler struct {
	store   store.Store
	client  backend.Client
	tokens  *auth.Manager
	gate    *health.Gate
	notes   *notify.Center
	limiter *RateLimiter
	log     zerolog.Logger
}

type Options struct {
	Store         store.Store
	Client        backend.Client
	Tokens        *auth.Manager
	Gate          *health.Gate
	Notifications *notify.Center
	Limiter       *RateLimiter
	Logger        zerolog.Logger
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewHandler(opts Options) *Handler {
	h := &Handler{
		store:   opts.Store,
		client:  opts.Client,
		tokens:  opts.Tokens,
		gate:    opts.Gate,
		notes:   opts.Notifications,
		limiter: opts.Limiter,
		log:     opts.Logger,
	}
	if h.notes == nil {
		h.notes = notify.NewCenter(notify.Config{}, opts.Logger)
	}
	if h.limiter == nil {
		h.limiter = NewRateLimiter(RateLimitConfig{})
	}
	return h
}

// fetchOptions binds a fetcher to the request: it is canceled with the
// request and its failures are queued for the signed-in profile.
func (h *Handler) fetchOptions(r *http.Request, sess session) []fetch.Option {
	return []fetch.Option{
		fetch.WithContext(r.Context()),
		fetch.WithNotifier(h.notes.For(sess.ProfileID)),
		fetch.WithLogger(h.log.With().Str("profile_id", sess.ProfileID).Logger()),
	}
}

// writeFetchError answers for a fetcher that settled with an error.
func writeFetchError(w http.ResponseWriter, err *backend.Error) {
	if err.Code == backend.CodeNotFound {
		writeError(w, http.StatusNotFound, "not_found", err.Message)
		return
	}
	writeError(w, http.StatusBadGateway, "query_failed", err.Message)
}

var storeErrors = []struct {
	err    error
	status int
	code   string
}{
	{store.ErrNotFound, http.StatusNotFound, "not_found"},
	{store.ErrStationInUse, http.StatusConflict, "station_in_use"},
	{store.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{store.ErrShiftAlreadyActive, http.StatusConflict, "shift_already_active"},
	{store.ErrShiftNotActive, http.StatusConflict, "shift_not_active"},
	{store.ErrReadingClosed, http.StatusConflict, "reading_closed"},
	{store.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{store.ErrReadingBelowStart, http.StatusUnprocessableEntity, "reading_below_start"},
	{store.ErrNegativeReading, http.StatusUnprocessableEntity, "negative_reading"},
	{store.ErrStockOutOfRange, http.StatusUnprocessableEntity, "stock_out_of_range"},
	{store.ErrInvalidStatus, http.StatusUnprocessableEntity, "invalid_status"},
	{store.ErrDispenserNotAssigned, http.StatusUnprocessableEntity, "dispenser_not_assigned"},
	{store.ErrEmptyInvoice, http.StatusUnprocessableEntity, "empty_invoice"},
}

// writeStoreError maps store sentinels to 404/409/422 and backend failures to
// 502. Anything else is a 500.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	for _, known := range storeErrors {
		if errors.Is(err, known.err) {
			writeError(w, known.status, known.code, known.err.Error())
			return
		}
	}
	var backendErr *backend.Error
	if errors.As(err, &backendErr) {
		h.log.Warn().Err(err).Str("code", backendErr.Code).Str("path", r.URL.Path).Msg("backend query failed")
		writeError(w, http.StatusBadGateway, "query_failed", backendErr.Message)
		return
	}
	h.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

// recordActivity appends to the audit trail. Failures are logged and never
// fail the request.
func (h *Handler) recordActivity(r *http.Request, sess session, action, targetType, targetID string) {
	entry := models.ActivityLog{
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		IP:         clientIP(r),
		UserAgent:  r.UserAgent(),
	}
	if sess.ProfileID != "" {
		profileID := sess.ProfileID
		entry.ProfileID = &profileID
	}
	if sess.StationID != "" {
		stationID := sess.StationID
		entry.StationID = &stationID
	}
	if err := h.store.InsertActivity(r.Context(), entry); err != nil {
		h.log.Warn().Err(err).Str("action", action).Msg("activity log write failed")
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON payload")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: responseError{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func isValidUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

// pathParts splits what follows prefix into its segments.
func pathParts(path, prefix string) []string {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}
