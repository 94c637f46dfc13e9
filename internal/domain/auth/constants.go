package auth

const (
	RoleAdmin            = "Admin"
	RoleHR               = "HR"
	RoleHeadOfDepartment = "HeadOfDepartment"
	RoleTrainer          = "Trainer"
	RoleEmployee         = "Employee"
	RoleManagement       = "Management"
)

var Roles = []string{
	RoleAdmin,
	RoleHR,
	RoleHeadOfDepartment,
	RoleTrainer,
	RoleEmployee,
	RoleManagement,
}

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
