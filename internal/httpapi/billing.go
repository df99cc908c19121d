package httpapi

import (
	"net/http"
	"strings"
	"time"

	"fueldesk/dashboard-service/internal/models"
	"fueldesk/dashboard-service/internal/rbac"
	"fueldesk/dashboard-service/internal/store"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type invoiceRequest struct {
	StationID     string               `json:"station_id"`
	CustomerID    string               `json:"customer_id"`
	InvoiceNumber string               `json:"invoice_number"`
	PeriodStart   string               `json:"period_start"`
	PeriodEnd     string               `json:"period_end"`
	DueDate       string               `json:"due_date"`
	Items         []invoiceItemRequest `json:"items"`
}

type invoiceItemRequest struct {
	TransactionID *string         `json:"transaction_id"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
}

func (h *Handler) handleInvoices(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	switch r.Method {
	case http.MethodGet:
		filter := store.InvoiceFilter{
			StationID:  scopedStation(r, sess),
			CustomerID: strings.TrimSpace(r.URL.Query().Get("customer_id")),
			Status:     strings.TrimSpace(r.URL.Query().Get("status")),
		}
		if sess.Role == rbac.RoleCreditCustomer {
			filter.StationID = ""
			filter.CustomerID = sess.ProfileID
		}
		if filter.Status != "" && !models.ValidInvoiceStatus(filter.Status) {
			writeError(w, http.StatusBadRequest, "invalid_request", "unknown invoice status")
			return
		}
		invoices, err := h.store.ListInvoices(r.Context(), filter)
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, invoices)
	case http.MethodPost:
		var req invoiceRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		invoice, msg := req.invoice(ownStation(sess, req.StationID))
		if msg != "" {
			writeError(w, http.StatusBadRequest, "invalid_request", msg)
			return
		}
		created, err := h.store.CreateInvoice(r.Context(), invoice)
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		h.recordActivity(r, sess, "invoice.create", "invoice", created.ID)
		writeJSON(w, http.StatusOK, created)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleInvoice serves GET /api/invoices/{id} and POST
// /api/invoices/{id}/{issue|pay|cancel}.
func (h *Handler) handleInvoice(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	parts := pathParts(r.URL.Path, "/api/invoices/")
	if len(parts) == 0 || len(parts) > 2 {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
		return
	}
	invoiceID := parts[0]
	if !isValidUUID(invoiceID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "invoice_id must be a UUID")
		return
	}
	invoice, err := h.store.GetInvoice(r.Context(), invoiceID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if !canSeeInvoice(sess, invoice) {
		writeError(w, http.StatusNotFound, "not_found", "invoice not found")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, invoice)
	case len(parts) == 2 && r.Method == http.MethodPost:
		action := parts[1]
		switch action {
		case store.ActionIssueInvoice, store.ActionPayInvoice, store.ActionCancelInvoice:
		default:
			writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
			return
		}
		updated, err := h.store.SetInvoiceStatus(r.Context(), invoiceID, action)
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		h.recordActivity(r, sess, "invoice."+action, "invoice", invoiceID)
		writeJSON(w, http.StatusOK, updated)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func canSeeInvoice(sess session, invoice models.Invoice) bool {
	if sess.Role == rbac.RoleCreditCustomer {
		return invoice.CustomerID == sess.ProfileID
	}
	return canSeeStation(sess, invoice.StationID)
}

// invoice validates the request and returns a message describing the first
// problem found.
func (req invoiceRequest) invoice(stationID string) (models.Invoice, string) {
	if !isValidUUID(stationID) || !isValidUUID(req.CustomerID) {
		return models.Invoice{}, "station_id and customer_id must be UUIDs"
	}
	start, errStart := time.Parse(dateLayout, req.PeriodStart)
	end, errEnd := time.Parse(dateLayout, req.PeriodEnd)
	due, errDue := time.Parse(dateLayout, req.DueDate)
	if errStart != nil || errEnd != nil || errDue != nil {
		return models.Invoice{}, "period_start, period_end and due_date must be YYYY-MM-DD"
	}
	if end.Before(start) {
		return models.Invoice{}, "period_end is before period_start"
	}
	if len(req.Items) == 0 {
		return models.Invoice{}, "at least one item is required"
	}
	items := make([]models.InvoiceItem, 0, len(req.Items))
	for _, item := range req.Items {
		if strings.TrimSpace(item.Description) == "" || !item.Quantity.IsPositive() || item.UnitPrice.IsNegative() {
			return models.Invoice{}, "items need a description, a positive quantity and a non-negative unit_price"
		}
		items = append(items, models.InvoiceItem{
			TransactionID: item.TransactionID,
			Description:   strings.TrimSpace(item.Description),
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
		})
	}
	return models.Invoice{
		StationID:     stationID,
		CustomerID:    req.CustomerID,
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		PeriodStart:   start,
		PeriodEnd:     end,
		DueDate:       due,
		Items:         items,
	}, ""
}
