package backendstore

import (
	"context"

	"fueldesk/dashboard-service/internal/backend"
	"fueldesk/dashboard-service/internal/models"
	"fueldesk/dashboard-service/internal/store"

	"github.com/shopspring/decimal"
)

func (s *Store) ListShifts(ctx context.Context, filter store.ShiftFilter) ([]models.Shift, error) {
	q := backend.From(tableShifts).OrderBy("start_time", true)
	if filter.StationID != "" {
		q = q.Where(backend.Eq("station_id", filter.StationID))
	}
	if filter.EmployeeID != "" {
		q = q.Where(backend.Eq("employee_id", filter.EmployeeID))
	}
	if filter.Status != "" {
		q = q.Where(backend.Eq("status", filter.Status))
	}
	return backend.List[models.Shift](ctx, s.client, q)
}

func (s *Store) GetShift(ctx context.Context, shiftID string) (models.Shift, error) {
	q := backend.From(tableShifts).Where(backend.Eq("id", shiftID))
	shift, err := backend.One[models.Shift](ctx, s.client, q)
	return shift, notFound(err, "shift")
}

// StartShift opens a shift for an employee who has no other active shift.
func (s *Store) StartShift(ctx context.Context, shift models.Shift) (models.Shift, error) {
	active, err := s.client.Count(ctx, tableShifts,
		backend.Eq("employee_id", shift.EmployeeID),
		backend.Eq("status", models.ShiftActive),
	)
	if err != nil {
		return models.Shift{}, err
	}
	if active > 0 {
		return models.Shift{}, store.ErrShiftAlreadyActive
	}
	dispenserIDs := shift.DispenserIDs
	if dispenserIDs == nil {
		dispenserIDs = []string{}
	}
	for _, dispenserID := range dispenserIDs {
		if err := s.requireStationDispenser(ctx, shift.StationID, dispenserID); err != nil {
			return models.Shift{}, err
		}
	}
	return backend.InsertAs[models.Shift](ctx, s.client, tableShifts, backend.Row{
		"station_id":    shift.StationID,
		"employee_id":   shift.EmployeeID,
		"start_time":    s.timestamp(),
		"end_time":      nil,
		"dispenser_ids": dispenserIDs,
		"starting_cash": shift.StartingCash,
		"ending_cash":   nil,
		"notes":         shift.Notes,
		"status":        models.ShiftActive,
	})
}

func (s *Store) CloseShift(ctx context.Context, shiftID string, endingCash decimal.Decimal, notes string) (models.Shift, error) {
	values := backend.Row{
		"end_time":    s.timestamp(),
		"ending_cash": endingCash,
	}
	if notes != "" {
		values["notes"] = notes
	}
	return s.transitionShift(ctx, shiftID, store.ActionCloseShift, values)
}

func (s *Store) CancelShift(ctx context.Context, shiftID string) (models.Shift, error) {
	return s.transitionShift(ctx, shiftID, store.ActionCancelShift, backend.Row{})
}

// transitionShift applies action only while the shift still has the status
// it was read with, so two concurrent closes cannot both succeed.
func (s *Store) transitionShift(ctx context.Context, shiftID, action string, values backend.Row) (models.Shift, error) {
	shift, err := s.GetShift(ctx, shiftID)
	if err != nil {
		return models.Shift{}, err
	}
	if !store.ValidTransition(action, shift.Status) {
		return models.Shift{}, store.ErrShiftNotActive
	}
	target, _ := store.TargetStatus(action)
	values["status"] = target
	rows, err := s.client.Update(ctx, tableShifts, values,
		backend.Eq("id", shiftID),
		backend.Eq("status", shift.Status),
	)
	if err != nil {
		return models.Shift{}, err
	}
	if len(rows) == 0 {
		return models.Shift{}, store.ErrShiftNotActive
	}
	return backend.Decode[models.Shift](rows[0])
}

// requireStationDispenser fails with ErrDispenserNotAssigned unless the
// dispenser exists at stationID.
func (s *Store) requireStationDispenser(ctx context.Context, stationID, dispenserID string) error {
	n, err := s.client.Count(ctx, tableDispensers,
		backend.Eq("id", dispenserID),
		backend.Eq("station_id", stationID),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrDispenserNotAssigned
	}
	return nil
}

func (s *Store) ListMeterReadings(ctx context.Context, shiftID string) ([]models.MeterReading, error) {
	q := backend.From(tableMeterReadings).OrderBy("fuel_type", false)
	if shiftID != "" {
		q = q.Where(backend.Eq("shift_id", shiftID))
	}
	return backend.List[models.MeterReading](ctx, s.client, q)
}

func (s *Store) GetMeterReading(ctx context.Context, readingID string) (models.MeterReading, error) {
	q := backend.From(tableMeterReadings).Where(backend.Eq("id", readingID))
	reading, err := backend.One[models.MeterReading](ctx, s.client, q)
	return reading, notFound(err, "meter reading")
}

// CreateMeterReading records the opening meter value of a dispenser on an
// active shift.
func (s *Store) CreateMeterReading(ctx context.Context, reading models.MeterReading) (models.MeterReading, error) {
	shift, err := s.GetShift(ctx, reading.ShiftID)
	if err != nil {
		return models.MeterReading{}, err
	}
	if !shift.Open() {
		return models.MeterReading{}, store.ErrShiftNotActive
	}
	if len(shift.DispenserIDs) > 0 && !contains(shift.DispenserIDs, reading.DispenserID) {
		return models.MeterReading{}, store.ErrDispenserNotAssigned
	}
	if err := s.requireStationDispenser(ctx, shift.StationID, reading.DispenserID); err != nil {
		return models.MeterReading{}, err
	}
	if reading.StartReading.IsNegative() {
		return models.MeterReading{}, store.ErrNegativeReading
	}
	return backend.InsertAs[models.MeterReading](ctx, s.client, tableMeterReadings, backend.Row{
		"shift_id":      reading.ShiftID,
		"dispenser_id":  reading.DispenserID,
		"fuel_type":     reading.FuelType,
		"start_reading": reading.StartReading,
		"end_reading":   nil,
	})
}

// CloseMeterReading sets the end reading once. It may not go below the start.
func (s *Store) CloseMeterReading(ctx context.Context, readingID string, endReading decimal.Decimal) (models.MeterReading, error) {
	reading, err := s.GetMeterReading(ctx, readingID)
	if err != nil {
		return models.MeterReading{}, err
	}
	if reading.EndReading != nil {
		return models.MeterReading{}, store.ErrReadingClosed
	}
	if endReading.LessThan(reading.StartReading) {
		return models.MeterReading{}, store.ErrReadingBelowStart
	}
	rows, err := s.client.Update(ctx, tableMeterReadings, backend.Row{"end_reading": endReading},
		backend.Eq("id", readingID),
		backend.IsNull("end_reading"),
	)
	if err != nil {
		return models.MeterReading{}, err
	}
	if len(rows) == 0 {
		return models.MeterReading{}, store.ErrReadingClosed
	}
	return backend.Decode[models.MeterReading](rows[0])
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
