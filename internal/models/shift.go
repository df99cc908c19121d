package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Shift struct {
	ID           string           `json:"id"`
	StationID    string           `json:"station_id"`
	EmployeeID   string           `json:"employee_id"`
	StartTime    time.Time        `json:"start_time"`
	EndTime      *time.Time       `json:"end_time"`
	DispenserIDs []string         `json:"dispenser_ids"`
	StartingCash decimal.Decimal  `json:"starting_cash"`
	EndingCash   *decimal.Decimal `json:"ending_cash"`
	Notes        string           `json:"notes"`
	Status       string           `json:"status"`
}

// Open reports whether the shift has not been closed yet.
func (s Shift) Open() bool {
	return s.Status == ShiftActive && s.EndTime == nil
}

type MeterReading struct {
	ID           string           `json:"id"`
	ShiftID      string           `json:"shift_id"`
	DispenserID  string           `json:"dispenser_id"`
	FuelType     string           `json:"fuel_type"`
	StartReading decimal.Decimal  `json:"start_reading"`
	EndReading   *decimal.Decimal `json:"end_reading"`
}

// Dispensed is the volume between start and end readings, zero while open.
func (m MeterReading) Dispensed() decimal.Decimal {
	if m.EndReading == nil {
		return decimal.Zero
	}
	return m.EndReading.Sub(m.StartReading)
}

const (
	ShiftActive    = "active"
	ShiftCompleted = "completed"
	ShiftCancelled = "cancelled"
)

func ValidShiftStatus(status string) bool {
	switch status {
	case ShiftActive, ShiftCompleted, ShiftCancelled:
		return true
	default:
		return false
	}
}
