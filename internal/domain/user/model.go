package user

import "errors"

// Role constants for portal accounts. The backend is the source of truth;
// these are the only values the portal routes on.
const (
	RoleAdmin   = "admin"
	RoleTrainer = "trainer"
	RoleMember  = "member"
)

// User is the canonical profile shape consumed by every page. Backend
// responses are normalized into this struct at the client boundary.
type User struct {
	ID    string
	Name  string
	Email string
	Phone string
	Role  string
}

var (
	ErrMissingID   = errors.New("user id is required")
	ErrInvalidRole = errors.New("unknown role")
)

// Validate checks required fields for a User.
// PRE: User struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (u *User) Validate() error {
	if u.ID == "" {
		return ErrMissingID
	}
	if !ValidRole(u.Role) {
		return ErrInvalidRole
	}
	return nil
}

// ValidRole reports whether role is one of the three portal roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTrainer, RoleMember:
		return true
	}
	return false
}

// NormalizeRole maps the backend's role vocabulary onto the portal's.
// The backend has emitted "user" and "member" interchangeably for the
// member role, and "coach" for trainers on older records.
func NormalizeRole(role string) string {
	switch role {
	case "user", "member":
		return RoleMember
	case "coach", "trainer":
		return RoleTrainer
	case "admin", "administrator":
		return RoleAdmin
	}
	return role
}

// HomePath returns the landing route for a role after login.
// Unknown roles land on /login.
func HomePath(role string) string {
	switch role {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleTrainer:
		return "/trainer/dashboard"
	case RoleMember:
		return "/user/dashboard"
	}
	return "/login"
}
