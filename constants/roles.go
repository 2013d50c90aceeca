package constants

// UserRole is the system-wide role on a user account, distinct from
// per-project roles.
type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleMember UserRole = "MEMBER"
)

// ProjectRole is a user's role within a single project. The project owner
// holds OWNER implicitly and is not necessarily materialized as a member row.
type ProjectRole string

const (
	ProjectRoleOwner  ProjectRole = "OWNER"
	ProjectRoleAdmin  ProjectRole = "ADMIN"
	ProjectRoleMember ProjectRole = "MEMBER"
	ProjectRoleGuest  ProjectRole = "GUEST"
)

func (r ProjectRole) Valid() bool {
	switch r {
	case ProjectRoleOwner, ProjectRoleAdmin, ProjectRoleMember, ProjectRoleGuest:
		return true
	}
	return false
}
