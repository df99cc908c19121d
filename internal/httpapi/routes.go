package httpapi

import (
	"net/http"

	"fueldesk/dashboard-service/internal/rbac"
)

// route is one entry of the static route table. Public routes skip the
// layout; every other route lists the permission each method needs.
type route struct {
	pattern string
	public  bool
	access  map[string]rbac.Permission
	handle  http.HandlerFunc
}

func (h *Handler) routeTable() []route {
	return []route{
		{pattern: "/login", public: true, handle: h.handleLogin},
		{pattern: "/healthz", public: true, handle: h.handleHealth},

		{pattern: "/api/me", access: methods(http.MethodGet, rbac.PermSelf), handle: h.handleMe},
		{pattern: "/api/navigation", access: methods(http.MethodGet, rbac.PermSelf), handle: h.handleNavigation},
		{pattern: "/api/notifications", access: methods(http.MethodGet, rbac.PermSelf), handle: h.handleNotifications},

		{pattern: "/api/stations", access: map[string]rbac.Permission{
			http.MethodGet:  rbac.PermStationsRead,
			http.MethodPost: rbac.PermStationsWrite,
		}, handle: h.handleStations},
		{pattern: "/api/stations/", access: map[string]rbac.Permission{
			http.MethodGet:    rbac.PermStationsRead,
			http.MethodPut:    rbac.PermStationsWrite,
			http.MethodDelete: rbac.PermStationsWrite,
		}, handle: h.handleStation},

		{pattern: "/api/admins", access: map[string]rbac.Permission{
			http.MethodGet:  rbac.PermAdminsManage,
			http.MethodPost: rbac.PermAdminsManage,
		}, handle: h.handleAdmins},
		{pattern: "/api/employees", access: map[string]rbac.Permission{
			http.MethodGet:  rbac.PermEmployeesManage,
			http.MethodPost: rbac.PermEmployeesManage,
		}, handle: h.handleEmployees},
		{pattern: "/api/profiles", access: methods(http.MethodGet, rbac.PermProfilesRead), handle: h.handleProfiles},
		{pattern: "/api/profiles/", access: methods(http.MethodPut, rbac.PermEmployeesManage), handle: h.handleProfile},

		{pattern: "/api/dispensers", access: map[string]rbac.Permission{
			http.MethodGet:  rbac.PermDispensersRead,
			http.MethodPost: rbac.PermDispensersWrite,
		}, handle: h.handleDispensers},
		{pattern: "/api/dispensers/", access: methods(http.MethodPut, rbac.PermDispensersWrite), handle: h.handleDispenser},

		{pattern: "/api/inventory", access: map[string]rbac.Permission{
			http.MethodGet:  rbac.PermInventoryRead,
			http.MethodPost: rbac.PermInventoryWrite,
		}, handle: h.handleInventory},
		{pattern: "/api/inventory/", access: methods(http.MethodPut, rbac.PermInventoryWrite), handle: h.handleInventoryItem},

		{pattern: "/api/shifts", access: map[string]rbac.Permission{
			http.MethodGet:  rbac.PermShiftsRead,
			http.MethodPost: rbac.PermShiftsOperate,
		}, handle: h.handleShifts},
		{pattern: "/api/shifts/", access: methods(http.MethodPost, rbac.PermShiftsOperate), handle: h.handleShiftAction},

		{pattern: "/api/meter-readings", access: map[string]rbac.Permission{
			http.MethodGet:  rbac.PermReadingsRead,
			http.MethodPost: rbac.PermReadingsWrite,
		}, handle: h.handleMeterReadings},
		{pattern: "/api/meter-readings/", access: methods(http.MethodPost, rbac.PermReadingsWrite), handle: h.handleMeterReadingClose},

		{pattern: "/api/invoices", access: map[string]rbac.Permission{
			http.MethodGet:  rbac.PermInvoicesRead,
			http.MethodPost: rbac.PermInvoicesWrite,
		}, handle: h.handleInvoices},
		{pattern: "/api/invoices/", access: map[string]rbac.Permission{
			http.MethodGet:  rbac.PermInvoicesRead,
			http.MethodPost: rbac.PermInvoicesWrite,
		}, handle: h.handleInvoice},

		{pattern: "/api/activity", access: methods(http.MethodGet, rbac.PermActivityRead), handle: h.handleActivity},
		{pattern: "/api/admin/test-users", access: methods(http.MethodPost, rbac.PermTestUsers), handle: h.handleTestUsers},
	}
}

func methods(method string, perm rbac.Permission) map[string]rbac.Permission {
	return map[string]rbac.Permission{method: perm}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	for _, rt := range h.routeTable() {
		if rt.public {
			mux.HandleFunc(rt.pattern, rt.handle)
			continue
		}
		mux.Handle(rt.pattern, h.layout(rt))
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})
	return mux
}
