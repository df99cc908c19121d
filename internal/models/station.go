package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Station struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Dispenser struct {
	ID        string    `json:"id"`
	StationID string    `json:"station_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	FuelTypes []string  `json:"fuel_types"`
	CreatedAt time.Time `json:"created_at"`
}

type FuelInventory struct {
	ID             string          `json:"id"`
	StationID      string          `json:"station_id"`
	FuelType       string          `json:"fuel_type"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	Capacity       decimal.Decimal `json:"capacity"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
	PricePerUnit   decimal.Decimal `json:"price_per_unit"`
	CostPerUnit    decimal.Decimal `json:"cost_per_unit"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// StockInRange reports whether the current stock sits within [0, capacity].
func (f FuelInventory) StockInRange() bool {
	return !f.CurrentStock.IsNegative() && f.CurrentStock.LessThanOrEqual(f.Capacity)
}

// BelowThreshold reports whether the tank needs a refill alert.
func (f FuelInventory) BelowThreshold() bool {
	return f.CurrentStock.LessThanOrEqual(f.AlertThreshold)
}

type Product struct {
	ID             string          `json:"id"`
	StationID      string          `json:"station_id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Stock          int             `json:"stock"`
	AlertThreshold int             `json:"alert_threshold"`
	Price          decimal.Decimal `json:"price"`
	Cost           decimal.Decimal `json:"cost"`
}

const (
	StationActive   = "active"
	StationInactive = "inactive"
	StationPending  = "pending"
)

const (
	DispenserActive      = "active"
	DispenserInactive    = "inactive"
	DispenserMaintenance = "maintenance"
)

func ValidStationStatus(status string) bool {
	switch status {
	case StationActive, StationInactive, StationPending:
		return true
	default:
		return false
	}
}

func ValidDispenserStatus(status string) bool {
	switch status {
	case DispenserActive, DispenserInactive, DispenserMaintenance:
		return true
	default:
		return false
	}
}
