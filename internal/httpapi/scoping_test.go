package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"fueldesk/dashboard-service/internal/backend"
	"fueldesk/dashboard-service/internal/backend/backendtest"
	"fueldesk/dashboard-service/internal/models"
	"fueldesk/dashboard-service/internal/store/backendstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Station Alpha: admin profileOne, employees profileTwo (on shift) and
// employeeIdle. Station Beta: admin adminBeta, employee employeeBeta.
const (
	employeeIdle   = "eeeeeeee-0000-0000-0000-000000000001"
	adminBeta      = "77777777-7777-7777-7777-777777777777"
	employeeBeta   = "88888888-8888-8888-8888-888888888888"
	customerOne    = "99999999-9999-9999-9999-999999999999"
	dispenserAlpha = "aaaaaaaa-0000-0000-0000-000000000001"
	dispenserBeta  = "aaaaaaaa-0000-0000-0000-000000000002"
	inventoryAlpha = "bbbbbbbb-0000-0000-0000-000000000001"
	inventoryBeta  = "bbbbbbbb-0000-0000-0000-000000000002"
	shiftAlpha     = "cccccccc-0000-0000-0000-000000000001"
	shiftBeta      = "cccccccc-0000-0000-0000-000000000002"
	readingBeta    = "dddddddd-0000-0000-0000-000000000002"
)

func newStationsEnv(t *testing.T) (testEnv, *backendtest.Fake) {
	t.Helper()
	fake := backendtest.New()
	fake.Seed("stations",
		backend.Row{"id": stationAlpha, "name": "Alpha", "status": "active"},
		backend.Row{"id": stationBeta, "name": "Beta", "status": "active"},
	)
	profile := func(id, name, role, station, email string) backend.Row {
		return backend.Row{
			"id": id, "user_id": "user-" + id, "full_name": name, "role": role,
			"station_id": station, "email": email, "status": "active",
		}
	}
	fake.Seed("profiles",
		profile(profileOne, "Ada Alpha", "admin", stationAlpha, "ada@fueldesk.test"),
		profile(profileTwo, "Eli Alpha", "employee", stationAlpha, "eli@fueldesk.test"),
		profile(employeeIdle, "Ida Alpha", "employee", stationAlpha, "ida@fueldesk.test"),
		profile(adminBeta, "Bea Beta", "admin", stationBeta, "bea@fueldesk.test"),
		profile(employeeBeta, "Ben Beta", "employee", stationBeta, "ben@fueldesk.test"),
		backend.Row{"id": customerOne, "user_id": "user-" + customerOne, "full_name": "Cora Fleet",
			"role": "credit_customer", "email": "cora@fueldesk.test", "status": "active"},
	)
	fake.Seed("dispensers",
		backend.Row{"id": dispenserAlpha, "station_id": stationAlpha, "name": "Pump A", "status": "active", "fuel_types": []string{"diesel"}},
		backend.Row{"id": dispenserBeta, "station_id": stationBeta, "name": "Pump B", "status": "active", "fuel_types": []string{"diesel"}},
	)
	inventory := func(id, station string) backend.Row {
		return backend.Row{
			"id": id, "station_id": station, "fuel_type": "diesel",
			"current_stock": "500", "capacity": "1000", "alert_threshold": "100",
			"price_per_unit": "1.50", "cost_per_unit": "1.20",
		}
	}
	fake.Seed("fuel_inventory", inventory(inventoryAlpha, stationAlpha), inventory(inventoryBeta, stationBeta))
	fake.Seed("shifts",
		backend.Row{"id": shiftAlpha, "station_id": stationAlpha, "employee_id": profileTwo, "status": "active",
			"end_time": nil, "dispenser_ids": []string{}, "starting_cash": "100"},
		backend.Row{"id": shiftBeta, "station_id": stationBeta, "employee_id": employeeBeta, "status": "active",
			"end_time": nil, "dispenser_ids": []string{}, "starting_cash": "100"},
	)
	fake.Seed("meter_readings", backend.Row{
		"id": readingBeta, "shift_id": shiftBeta, "dispenser_id": dispenserBeta,
		"fuel_type": "diesel", "start_reading": "1000", "end_reading": nil,
	})
	return newEnv(t, backendstore.New(fake), fake, nil), fake
}

func rowByID(t *testing.T, fake *backendtest.Fake, table, id string) backend.Row {
	t.Helper()
	for _, row := range fake.Rows(table) {
		if row["id"] == id {
			return row
		}
	}
	t.Fatalf("no %s row %s", table, id)
	return nil
}

func TestCrossStationWritesAreRejected(t *testing.T) {
	inventoryBody := map[string]string{"current_stock": "10", "capacity": "1000"}
	dispenserBody := map[string]string{"name": "Renamed", "status": "maintenance"}

	tests := []struct {
		name       string
		profile    string
		role       string
		station    string
		method     string
		path       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{"inventory of another station", profileOne, "admin", stationAlpha, http.MethodPut,
			"/api/inventory/" + inventoryBeta, inventoryBody, http.StatusNotFound, "not_found"},
		{"inventory with foreign station in body", profileOne, "admin", stationAlpha, http.MethodPut,
			"/api/inventory/" + inventoryBeta, map[string]string{"station_id": stationBeta, "current_stock": "10", "capacity": "1000"},
			http.StatusNotFound, "not_found"},
		{"dispenser of another station", profileOne, "admin", stationAlpha, http.MethodPut,
			"/api/dispensers/" + dispenserBeta, dispenserBody, http.StatusNotFound, "not_found"},
		{"reading on another station's shift", profileOne, "admin", stationAlpha, http.MethodPost,
			"/api/meter-readings", map[string]string{"shift_id": shiftBeta, "dispenser_id": dispenserBeta, "fuel_type": "diesel"},
			http.StatusForbidden, "access_denied"},
		{"reading for another station's dispenser", profileTwo, "employee", stationAlpha, http.MethodPost,
			"/api/meter-readings", map[string]string{"shift_id": shiftAlpha, "dispenser_id": dispenserBeta, "fuel_type": "diesel"},
			http.StatusUnprocessableEntity, "dispenser_not_assigned"},
		{"close reading of another station", profileOne, "admin", stationAlpha, http.MethodPost,
			"/api/meter-readings/" + readingBeta + "/close", map[string]string{"end_reading": "1200"},
			http.StatusForbidden, "access_denied"},
		{"shift with another station's dispenser", profileOne, "admin", stationAlpha, http.MethodPost,
			"/api/shifts", map[string]interface{}{"employee_id": employeeIdle, "dispenser_ids": []string{dispenserAlpha, dispenserBeta}},
			http.StatusUnprocessableEntity, "dispenser_not_assigned"},
		{"shift for another station's employee", profileOne, "admin", stationAlpha, http.MethodPost,
			"/api/shifts", map[string]interface{}{"employee_id": employeeBeta},
			http.StatusForbidden, "access_denied"},
		{"admin edits another admin", profileOne, "admin", stationAlpha, http.MethodPut,
			"/api/profiles/" + adminBeta, map[string]string{"full_name": "Bea B"}, http.StatusForbidden, "access_denied"},
		{"admin edits employee of another station", profileOne, "admin", stationAlpha, http.MethodPut,
			"/api/profiles/" + employeeBeta, map[string]string{"full_name": "Ben B"}, http.StatusForbidden, "access_denied"},
		{"admin moves own employee", profileOne, "admin", stationAlpha, http.MethodPut,
			"/api/profiles/" + profileTwo, map[string]string{"station_id": stationBeta}, http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, fake := newStationsEnv(t)
			resp := env.do(t, tt.method, tt.path, env.token(t, tt.profile, tt.role, tt.station), tt.body)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.Equal(t, tt.wantCode, errorCode(t, resp))
			assert.Empty(t, fake.Rows("activity_logs"))
		})
	}
}

func TestCrossStationRowsStayUntouched(t *testing.T) {
	env, fake := newStationsEnv(t)
	admin := env.token(t, profileOne, "admin", stationAlpha)

	env.do(t, http.MethodPut, "/api/inventory/"+inventoryBeta, admin, map[string]string{"current_stock": "10", "capacity": "1000"})
	env.do(t, http.MethodPut, "/api/dispensers/"+dispenserBeta, admin, map[string]string{"name": "Renamed", "status": "maintenance"})
	env.do(t, http.MethodPost, "/api/meter-readings/"+readingBeta+"/close", admin, map[string]string{"end_reading": "1200"})

	assert.Equal(t, "500", rowByID(t, fake, "fuel_inventory", inventoryBeta)["current_stock"])
	assert.Equal(t, "Pump B", rowByID(t, fake, "dispensers", dispenserBeta)["name"])
	assert.Nil(t, rowByID(t, fake, "meter_readings", readingBeta)["end_reading"])
	assert.Len(t, fake.Rows("meter_readings"), 1)

	env.do(t, http.MethodPost, "/api/shifts", admin, map[string]interface{}{
		"employee_id": employeeIdle, "dispenser_ids": []string{dispenserBeta},
	})
	assert.Len(t, fake.Rows("shifts"), 2)
}

func TestScopedWritesPinOwnStation(t *testing.T) {
	env, fake := newStationsEnv(t)
	admin := env.token(t, profileOne, "admin", stationAlpha)

	resp := env.do(t, http.MethodPost, "/api/dispensers", admin, map[string]interface{}{
		"station_id": stationBeta, "name": "Pump C", "fuel_types": []string{"petrol"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var dispenser models.Dispenser
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dispenser))
	assert.Equal(t, stationAlpha, dispenser.StationID)

	resp = env.do(t, http.MethodPost, "/api/invoices", admin, map[string]interface{}{
		"station_id":   stationBeta,
		"customer_id":  customerOne,
		"period_start": "2026-09-01",
		"period_end":   "2026-09-30",
		"due_date":     "2026-10-15",
		"items": []map[string]string{
			{"description": "Diesel, September", "quantity": "40", "unit_price": "1.50"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var invoice models.Invoice
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &invoice))
	assert.Equal(t, stationAlpha, invoice.StationID)
	assert.Equal(t, stationAlpha, rowByID(t, fake, "invoices", invoice.ID)["station_id"])

	resp = env.do(t, http.MethodPut, "/api/inventory/"+inventoryAlpha, admin, map[string]string{
		"station_id": stationBeta, "current_stock": "250", "capacity": "1000",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var item models.FuelInventory
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &item))
	assert.Equal(t, stationAlpha, item.StationID)
	assert.Equal(t, "250", item.CurrentStock.String())

	resp = env.do(t, http.MethodPut, "/api/profiles/"+profileTwo, admin, map[string]string{"full_name": "Eli Alpha-Ray"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "Eli Alpha-Ray", rowByID(t, fake, "profiles", profileTwo)["full_name"])

	assert.Len(t, fake.Rows("activity_logs"), 4)
}
