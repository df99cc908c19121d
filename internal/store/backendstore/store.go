// Package backendstore implements store.Store on top of a backend.Client.
package backendstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fueldesk/dashboard-service/internal/backend"
	"fueldesk/dashboard-service/internal/models"
	"fueldesk/dashboard-service/internal/store"
)

const (
	tableStations      = "stations"
	tableAuthUsers     = "auth_users"
	tableProfiles      = "profiles"
	tableDispensers    = "dispensers"
	tableInventory     = "fuel_inventory"
	tableShifts        = "shifts"
	tableMeterReadings = "meter_readings"
	tableInvoices      = "invoices"
	tableInvoiceItems  = "invoice_items"
	tableActivityLogs  = "activity_logs"
	activityListLimit  = 200
)

type Store struct {
	client backend.Client
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

func New(client backend.Client) *Store {
	return &Store{client: client, now: time.Now}
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// notFound maps a backend not_found onto store.ErrNotFound.
func notFound(err error, what string) error {
	if backend.IsNotFound(err) {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	return err
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func (s *Store) ListStations(ctx context.Context) ([]models.Station, error) {
	q := backend.From(tableStations).OrderBy("name", false)
	return backend.List[models.Station](ctx, s.client, q)
}

func (s *Store) GetStation(ctx context.Context, stationID string) (models.Station, error) {
	q := backend.From(tableStations).Where(backend.Eq("id", stationID))
	station, err := backend.One[models.Station](ctx, s.client, q)
	return station, notFound(err, "station")
}

func (s *Store) CreateStation(ctx context.Context, station models.Station) (models.Station, error) {
	if station.Status == "" {
		station.Status = models.StationPending
	}
	if !models.ValidStationStatus(station.Status) {
		return models.Station{}, store.ErrInvalidStatus
	}
	values := stationRow(station)
	now := s.timestamp()
	values["created_at"] = now
	values["updated_at"] = now
	return backend.InsertAs[models.Station](ctx, s.client, tableStations, values)
}

func (s *Store) UpdateStation(ctx context.Context, station models.Station) (models.Station, error) {
	if !models.ValidStationStatus(station.Status) {
		return models.Station{}, store.ErrInvalidStatus
	}
	values := stationRow(station)
	values["updated_at"] = s.timestamp()
	updated, err := backend.UpdateAs[models.Station](ctx, s.client, tableStations, values, backend.Eq("id", station.ID))
	return updated, notFound(err, "station")
}

// DeleteStation refuses to remove a station that still has dispensers or
// staff attached.
func (s *Store) DeleteStation(ctx context.Context, stationID string) error {
	for _, table := range []string{tableDispensers, tableProfiles} {
		count, err := s.client.Count(ctx, table, backend.Eq("station_id", stationID))
		if err != nil {
			return err
		}
		if count > 0 {
			return store.ErrStationInUse
		}
	}
	deleted, err := s.client.Delete(ctx, tableStations, backend.Eq("id", stationID))
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("station: %w", store.ErrNotFound)
	}
	return nil
}

func stationRow(station models.Station) backend.Row {
	return backend.Row{
		"name":        station.Name,
		"address":     station.Address,
		"city":        station.City,
		"state":       station.State,
		"postal_code": station.PostalCode,
		"phone":       station.Phone,
		"email":       station.Email,
		"status":      station.Status,
	}
}
