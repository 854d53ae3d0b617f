package enums

import "fmt"

// AdminRole is the role_name stored on admin_users.
type AdminRole string

const (
	AdminRoleSuperAdmin AdminRole = "super_admin"
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleStaff      AdminRole = "staff"
)

var validAdminRoles = []AdminRole{
	AdminRoleSuperAdmin,
	AdminRoleAdmin,
	AdminRoleStaff,
}

func (r AdminRole) String() string {
	return string(r)
}

func (r AdminRole) IsValid() bool {
	for _, candidate := range validAdminRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

func ParseAdminRole(value string) (AdminRole, error) {
	for _, candidate := range validAdminRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid admin role %q", value)
}
