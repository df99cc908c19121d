package rbac

type Permission string

const (
	PermStationsRead    Permission = "stations.read"
	PermStationsWrite   Permission = "stations.write"
	PermAdminsManage    Permission = "admins.manage"
	PermEmployeesManage Permission = "employees.manage"
	PermProfilesRead    Permission = "profiles.read"
	PermDispensersRead  Permission = "dispensers.read"
	PermDispensersWrite Permission = "dispensers.write"
	PermInventoryRead   Permission = "inventory.read"
	PermInventoryWrite  Permission = "inventory.write"
	PermShiftsRead      Permission = "shifts.read"
	PermShiftsOperate   Permission = "shifts.operate"
	PermReadingsRead    Permission = "readings.read"
	PermReadingsWrite   Permission = "readings.write"
	PermInvoicesRead    Permission = "invoices.read"
	PermInvoicesWrite   Permission = "invoices.write"
	PermActivityRead    Permission = "activity.read"
	PermTestUsers       Permission = "testusers.provision"
	PermSelf            Permission = "self"
)

func Has(r Role, p Permission) bool {
	switch r {
	case RoleSuperAdmin:
		return true
	case RoleAdmin:
		switch p {
		case PermTestUsers, PermAdminsManage, PermStationsWrite:
			return false
		default:
			return true
		}
	case RoleEmployee:
		switch p {
		case PermSelf, PermStationsRead, PermDispensersRead, PermInventoryRead,
			PermShiftsRead, PermShiftsOperate, PermReadingsRead, PermReadingsWrite:
			return true
		default:
			return false
		}
	case RoleCreditCustomer:
		switch p {
		case PermSelf, PermInvoicesRead:
			return true
		default:
			return false
		}
	default:
		return false
	}
}

// StationScoped reports whether r only sees the station on its profile.
func StationScoped(r Role) bool {
	return r == RoleAdmin || r == RoleEmployee
}
