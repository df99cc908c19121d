package store

import (
	"context"

	"fueldesk/dashboard-service/internal/models"

	"github.com/shopspring/decimal"
)

type ProfileFilter struct {
	Role      string
	StationID string
}

type ShiftFilter struct {
	StationID  string
	EmployeeID string
	Status     string
}

type InvoiceFilter struct {
	StationID  string
	CustomerID string
	Status     string
}

type ActivityFilter struct {
	StationID string
	Action    string
	ProfileID string
}

// NewProfile is a profile plus the credentials of the auth user created for it.
type NewProfile struct {
	Profile  models.Profile
	Password string
}

type TestUser struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	ProfileID string `json:"profile_id"`
}

type ProvisionResult struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Users   []TestUser `json:"users"`
}

type Store interface {
	ListStations(ctx context.Context) ([]models.Station, error)
	GetStation(ctx context.Context, stationID string) (models.Station, error)
	CreateStation(ctx context.Context, station models.Station) (models.Station, error)
	UpdateStation(ctx context.Context, station models.Station) (models.Station, error)
	DeleteStation(ctx context.Context, stationID string) error

	ListProfiles(ctx context.Context, filter ProfileFilter) ([]models.Profile, error)
	GetProfile(ctx context.Context, profileID string) (models.Profile, error)
	GetProfileByUser(ctx context.Context, userID string) (models.Profile, error)
	CreateProfile(ctx context.Context, input NewProfile) (models.Profile, error)
	UpdateProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
	GetAuthUserByEmail(ctx context.Context, email string) (models.AuthUser, error)

	ListDispensers(ctx context.Context, stationID string) ([]models.Dispenser, error)
	CreateDispenser(ctx context.Context, dispenser models.Dispenser) (models.Dispenser, error)
	UpdateDispenser(ctx context.Context, dispenser models.Dispenser) (models.Dispenser, error)

	ListInventory(ctx context.Context, stationID string) ([]models.FuelInventory, error)
	CreateInventory(ctx context.Context, item models.FuelInventory) (models.FuelInventory, error)
	UpdateInventory(ctx context.Context, item models.FuelInventory) (models.FuelInventory, error)

	ListShifts(ctx context.Context, filter ShiftFilter) ([]models.Shift, error)
	GetShift(ctx context.Context, shiftID string) (models.Shift, error)
	StartShift(ctx context.Context, shift models.Shift) (models.Shift, error)
	CloseShift(ctx context.Context, shiftID string, endingCash decimal.Decimal, notes string) (models.Shift, error)
	CancelShift(ctx context.Context, shiftID string) (models.Shift, error)

	ListMeterReadings(ctx context.Context, shiftID string) ([]models.MeterReading, error)
	GetMeterReading(ctx context.Context, readingID string) (models.MeterReading, error)
	CreateMeterReading(ctx context.Context, reading models.MeterReading) (models.MeterReading, error)
	CloseMeterReading(ctx context.Context, readingID string, endReading decimal.Decimal) (models.MeterReading, error)

	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, invoiceID string) (models.Invoice, error)
	CreateInvoice(ctx context.Context, invoice models.Invoice) (models.Invoice, error)
	SetInvoiceStatus(ctx context.Context, invoiceID, action string) (models.Invoice, error)

	InsertActivity(ctx context.Context, entry models.ActivityLog) error
	ListActivity(ctx context.Context, filter ActivityFilter) ([]models.ActivityLog, error)

	ProvisionTestUsers(ctx context.Context, stationID string) (ProvisionResult, error)
}
