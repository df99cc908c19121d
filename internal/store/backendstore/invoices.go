package backendstore

import (
	"context"
	"fmt"
	"strings"

	"fueldesk/dashboard-service/internal/backend"
	"fueldesk/dashboard-service/internal/models"
	"fueldesk/dashboard-service/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *Store) ListInvoices(ctx context.Context, filter store.InvoiceFilter) ([]models.Invoice, error) {
	q := backend.From(tableInvoices).OrderBy("created_at", true)
	if filter.StationID != "" {
		q = q.Where(backend.Eq("station_id", filter.StationID))
	}
	if filter.CustomerID != "" {
		q = q.Where(backend.Eq("customer_id", filter.CustomerID))
	}
	if filter.Status != "" {
		q = q.Where(backend.Eq("status", filter.Status))
	}
	return backend.List[models.Invoice](ctx, s.client, q)
}

// GetInvoice returns the invoice with its line items.
func (s *Store) GetInvoice(ctx context.Context, invoiceID string) (models.Invoice, error) {
	q := backend.From(tableInvoices).Where(backend.Eq("id", invoiceID))
	invoice, err := backend.One[models.Invoice](ctx, s.client, q)
	if err != nil {
		return models.Invoice{}, notFound(err, "invoice")
	}
	items, err := backend.List[models.InvoiceItem](ctx, s.client,
		backend.From(tableInvoiceItems).Where(backend.Eq("invoice_id", invoiceID)).OrderBy("description", false))
	if err != nil {
		return models.Invoice{}, err
	}
	invoice.Items = items
	return invoice, nil
}

// CreateInvoice stores the invoice and its items together. Line totals and
// the invoice total are computed here; client supplied totals are ignored.
func (s *Store) CreateInvoice(ctx context.Context, invoice models.Invoice) (models.Invoice, error) {
	if len(invoice.Items) == 0 {
		return models.Invoice{}, store.ErrEmptyInvoice
	}
	if invoice.Status == "" {
		invoice.Status = models.InvoiceDraft
	}
	if !models.ValidInvoiceStatus(invoice.Status) {
		return models.Invoice{}, store.ErrInvalidStatus
	}
	if invoice.InvoiceNumber == "" {
		invoice.InvoiceNumber = s.invoiceNumber()
	}
	total := decimal.Zero
	for i := range invoice.Items {
		invoice.Items[i].Total = models.LineTotal(invoice.Items[i].Quantity, invoice.Items[i].UnitPrice)
		total = total.Add(invoice.Items[i].Total)
	}
	invoice.Total = total

	var created models.Invoice
	err := s.client.InTx(ctx, func(tx backend.Client) error {
		var err error
		created, err = backend.InsertAs[models.Invoice](ctx, tx, tableInvoices, backend.Row{
			"station_id":     invoice.StationID,
			"customer_id":    invoice.CustomerID,
			"invoice_number": invoice.InvoiceNumber,
			"period_start":   invoice.PeriodStart,
			"period_end":     invoice.PeriodEnd,
			"due_date":       invoice.DueDate,
			"total":          invoice.Total,
			"status":         invoice.Status,
			"created_at":     s.timestamp(),
		})
		if err != nil {
			return err
		}
		created.Items = make([]models.InvoiceItem, 0, len(invoice.Items))
		for _, item := range invoice.Items {
			stored, err := backend.InsertAs[models.InvoiceItem](ctx, tx, tableInvoiceItems, backend.Row{
				"invoice_id":     created.ID,
				"transaction_id": item.TransactionID,
				"description":    item.Description,
				"quantity":       item.Quantity,
				"unit_price":     item.UnitPrice,
				"total":          item.Total,
			})
			if err != nil {
				return err
			}
			created.Items = append(created.Items, stored)
		}
		return nil
	})
	if err != nil {
		return models.Invoice{}, err
	}
	return created, nil
}

func (s *Store) SetInvoiceStatus(ctx context.Context, invoiceID, action string) (models.Invoice, error) {
	target, ok := store.TargetStatus(action)
	if !ok {
		return models.Invoice{}, store.ErrInvalidTransition
	}
	q := backend.From(tableInvoices).Where(backend.Eq("id", invoiceID))
	invoice, err := backend.One[models.Invoice](ctx, s.client, q)
	if err != nil {
		return models.Invoice{}, notFound(err, "invoice")
	}
	if !store.ValidTransition(action, invoice.Status) {
		return models.Invoice{}, store.ErrInvalidTransition
	}
	rows, err := s.client.Update(ctx, tableInvoices, backend.Row{"status": target},
		backend.Eq("id", invoiceID),
		backend.Eq("status", invoice.Status),
	)
	if err != nil {
		return models.Invoice{}, err
	}
	if len(rows) == 0 {
		return models.Invoice{}, store.ErrInvalidTransition
	}
	return backend.Decode[models.Invoice](rows[0])
}

func (s *Store) invoiceNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", s.timestamp().Format("20060102"), suffix)
}
