package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID            string          `json:"id"`
	StationID     string          `json:"station_id"`
	ShiftID       *string         `json:"shift_id,omitempty"`
	EmployeeID    *string         `json:"employee_id,omitempty"`
	CustomerID    *string         `json:"customer_id,omitempty"`
	VehicleID     *string         `json:"vehicle_id,omitempty"`
	Type          string          `json:"type"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransactionItem references either a fuel inventory row or a product.
type TransactionItem struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	FuelID        *string         `json:"fuel_id,omitempty"`
	ProductID     *string         `json:"product_id,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
}

const (
	TransactionSale   = "sale"
	TransactionRefund = "refund"
	TransactionCredit = "credit"
)

type Vehicle struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	PlateNumber string    `json:"plate_number"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	FuelType    string    `json:"fuel_type"`
	CreatedAt   time.Time `json:"created_at"`
}

type Invoice struct {
	ID            string          `json:"id"`
	StationID     string          `json:"station_id"`
	CustomerID    string          `json:"customer_id"`
	InvoiceNumber string          `json:"invoice_number"`
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	DueDate       time.Time       `json:"due_date"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	Items         []InvoiceItem   `json:"items,omitempty"`
}

type InvoiceItem struct {
	ID            string          `json:"id"`
	InvoiceID     string          `json:"invoice_id"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
}

const (
	InvoiceDraft     = "draft"
	InvoiceIssued    = "issued"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancelled"
)

func ValidInvoiceStatus(status string) bool {
	switch status {
	case InvoiceDraft, InvoiceIssued, InvoicePaid, InvoiceCancelled:
		return true
	default:
		return false
	}
}

// LineTotal is quantity times unit price.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

type Expense struct {
	ID          string          `json:"id"`
	StationID   string          `json:"station_id"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	IncurredOn  time.Time       `json:"incurred_on"`
	RecordedBy  *string         `json:"recorded_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
