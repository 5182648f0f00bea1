package constants

import "fmt"

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess = "❌ Hanya admin yang boleh mengakses fitur %s."
)

// Fungsi helper untuk menghasilkan pesan error dinamis
func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleEmployee,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
