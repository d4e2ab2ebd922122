package auth

// Role is the closed set of user types the policy understands. Records in
// user_types carry these names; anything else resolves to RoleUnknown and
// is denied everywhere.
type Role string

const (
	RoleHR       Role = "HR"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
	RoleUnknown  Role = ""
)

var RoleDescriptions = map[Role]string{
	RoleHR:       "Manages human resources",
	RoleManager:  "Oversees department",
	RoleEmployee: "General staff",
}

func ParseRole(name string) Role {
	switch name {
	case string(RoleHR):
		return RoleHR
	case string(RoleManager):
		return RoleManager
	case string(RoleEmployee):
		return RoleEmployee
	default:
		return RoleUnknown
	}
}

func (r Role) Valid() bool {
	return r == RoleHR || r == RoleManager || r == RoleEmployee
}
