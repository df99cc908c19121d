// Package rbac maps the four dashboard roles to their navigation, their
// descriptions and what they may do. Everything here is static.
package rbac

type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleAdmin          Role = "admin"
	RoleEmployee       Role = "employee"
	RoleCreditCustomer Role = "credit_customer"
)

// Roles lists the closed role set in display order.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleEmployee, RoleCreditCustomer}

// ParseRole matches raw against the role literals exactly.
func ParseRole(raw string) (Role, bool) {
	role := Role(raw)
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleEmployee, RoleCreditCustomer:
		return role, true
	default:
		return "", false
	}
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

var displayNames = map[Role]string{
	RoleSuperAdmin:     "Super Admin",
	RoleAdmin:          "Admin",
	RoleEmployee:       "Employee",
	RoleCreditCustomer: "Credit Customer",
}

var descriptions = map[Role]string{
	RoleSuperAdmin:     "Full access to every station, administrator and system setting.",
	RoleAdmin:          "Manages one station: staff, dispensers, inventory, finances and reports.",
	RoleEmployee:       "Runs shifts at a station: opens and closes shifts and records meter readings.",
	RoleCreditCustomer: "Buys fuel on credit: views vehicles, transactions and invoices.",
}

// DisplayName returns the human-readable role name, or "" for unknown roles.
func DisplayName(r Role) string {
	return displayNames[r]
}

// Description returns the one-line role description, or "" for unknown roles.
func Description(r Role) string {
	return descriptions[r]
}
