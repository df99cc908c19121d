package backendstore

import (
	"context"

	"fueldesk/dashboard-service/internal/backend"
	"fueldesk/dashboard-service/internal/models"
	"fueldesk/dashboard-service/internal/store"
)

func (s *Store) ListDispensers(ctx context.Context, stationID string) ([]models.Dispenser, error) {
	q := backend.From(tableDispensers).OrderBy("name", false)
	if stationID != "" {
		q = q.Where(backend.Eq("station_id", stationID))
	}
	return backend.List[models.Dispenser](ctx, s.client, q)
}

func (s *Store) CreateDispenser(ctx context.Context, dispenser models.Dispenser) (models.Dispenser, error) {
	if dispenser.Status == "" {
		dispenser.Status = models.DispenserActive
	}
	if !models.ValidDispenserStatus(dispenser.Status) {
		return models.Dispenser{}, store.ErrInvalidStatus
	}
	values := dispenserRow(dispenser)
	values["station_id"] = dispenser.StationID
	values["created_at"] = s.timestamp()
	return backend.InsertAs[models.Dispenser](ctx, s.client, tableDispensers, values)
}

// UpdateDispenser keeps the dispenser on its station; StationID scopes the
// update when set.
func (s *Store) UpdateDispenser(ctx context.Context, dispenser models.Dispenser) (models.Dispenser, error) {
	if !models.ValidDispenserStatus(dispenser.Status) {
		return models.Dispenser{}, store.ErrInvalidStatus
	}
	filters := []backend.Filter{backend.Eq("id", dispenser.ID)}
	if dispenser.StationID != "" {
		filters = append(filters, backend.Eq("station_id", dispenser.StationID))
	}
	updated, err := backend.UpdateAs[models.Dispenser](ctx, s.client, tableDispensers, dispenserRow(dispenser), filters...)
	return updated, notFound(err, "dispenser")
}

func dispenserRow(dispenser models.Dispenser) backend.Row {
	fuelTypes := dispenser.FuelTypes
	if fuelTypes == nil {
		fuelTypes = []string{}
	}
	return backend.Row{
		"name":       dispenser.Name,
		"status":     dispenser.Status,
		"fuel_types": fuelTypes,
	}
}

func (s *Store) ListInventory(ctx context.Context, stationID string) ([]models.FuelInventory, error) {
	q := backend.From(tableInventory).OrderBy("fuel_type", false)
	if stationID != "" {
		q = q.Where(backend.Eq("station_id", stationID))
	}
	return backend.List[models.FuelInventory](ctx, s.client, q)
}

func (s *Store) CreateInventory(ctx context.Context, item models.FuelInventory) (models.FuelInventory, error) {
	if !item.StockInRange() {
		return models.FuelInventory{}, store.ErrStockOutOfRange
	}
	values := inventoryRow(item)
	values["station_id"] = item.StationID
	values["fuel_type"] = item.FuelType
	values["updated_at"] = s.timestamp()
	return backend.InsertAs[models.FuelInventory](ctx, s.client, tableInventory, values)
}

func (s *Store) UpdateInventory(ctx context.Context, item models.FuelInventory) (models.FuelInventory, error) {
	if !item.StockInRange() {
		return models.FuelInventory{}, store.ErrStockOutOfRange
	}
	filters := []backend.Filter{backend.Eq("id", item.ID)}
	if item.StationID != "" {
		filters = append(filters, backend.Eq("station_id", item.StationID))
	}
	values := inventoryRow(item)
	values["updated_at"] = s.timestamp()
	updated, err := backend.UpdateAs[models.FuelInventory](ctx, s.client, tableInventory, values, filters...)
	return updated, notFound(err, "fuel inventory")
}

func inventoryRow(item models.FuelInventory) backend.Row {
	return backend.Row{
		"current_stock":   item.CurrentStock,
		"capacity":        item.Capacity,
		"alert_threshold": item.AlertThreshold,
		"price_per_unit":  item.PricePerUnit,
		"cost_per_unit":   item.CostPerUnit,
	}
}
