package user

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAdvisor  Role = "advisor"
	RoleInvestor Role = "investor"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAdvisor, RoleInvestor:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
