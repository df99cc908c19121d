package rbac

type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon"`
}

var (
	navDashboard = NavItem{Label: "Dashboard", Path: "/dashboard", Icon: "LayoutDashboard"}
	navSettings  = NavItem{Label: "Settings", Path: "/settings", Icon: "Settings"}
	navReports   = NavItem{Label: "Reports", Path: "/reports", Icon: "BarChart3"}
	navInventory = NavItem{Label: "Inventory", Path: "/inventory", Icon: "Package"}
)

var navigation = map[Role][]NavItem{
	RoleSuperAdmin: {
		navDashboard,
		{Label: "Stations", Path: "/stations", Icon: "Building2"},
		{Label: "Admins", Path: "/admins", Icon: "ShieldCheck"},
		{Label: "Employees", Path: "/employees", Icon: "Users"},
		{Label: "Activity", Path: "/activity", Icon: "History"},
		navReports,
		navSettings,
	},
	RoleAdmin: {
		navDashboard,
		{Label: "Employees", Path: "/employees", Icon: "Users"},
		{Label: "Customers", Path: "/customers", Icon: "UserRound"},
		{Label: "Dispensers", Path: "/dispensers", Icon: "Fuel"},
		navInventory,
		{Label: "Finances", Path: "/finances", Icon: "Wallet"},
		navReports,
		navSettings,
	},
	RoleEmployee: {
		navDashboard,
		{Label: "Shifts", Path: "/shifts", Icon: "Clock"},
		{Label: "Meter Readings", Path: "/meter-readings", Icon: "Gauge"},
		{Label: "Sales", Path: "/sales", Icon: "ShoppingCart"},
		navInventory,
	},
	RoleCreditCustomer: {
		navDashboard,
		{Label: "Vehicles", Path: "/vehicles", Icon: "Car"},
		{Label: "Transactions", Path: "/transactions", Icon: "Receipt"},
		{Label: "Invoices", Path: "/invoices", Icon: "FileText"},
	},
}

// Navigation returns a copy of the sidebar entries for r in display order.
// Unknown roles get an empty list.
func Navigation(r Role) []NavItem {
	items := navigation[r]
	out := make([]NavItem, len(items))
	copy(out, items)
	return out
}
