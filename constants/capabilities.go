package constants

// Capability is an atomic permission a project role either holds or lacks.
type Capability string

const (
	// Project management
	CapDeleteProject  Capability = "delete_project"
	CapEditProject    Capability = "edit_project"
	CapArchiveProject Capability = "archive_project"

	// User management
	CapInviteUsers     Capability = "invite_users"
	CapRemoveUsers     Capability = "remove_users"
	CapChangeUserRoles Capability = "change_user_roles"

	// Task management
	CapCreateTasks   Capability = "create_tasks"
	CapAssignTasks   Capability = "assign_tasks"
	CapDeleteAnyTask Capability = "delete_any_task"
	CapEditAnyTask   Capability = "edit_any_task"

	// Task interaction
	CapViewAllTasks   Capability = "view_all_tasks"
	CapClaimTasks     Capability = "claim_tasks"
	CapEditOwnTasks   Capability = "edit_own_tasks"
	CapCommentOnTasks Capability = "comment_on_tasks"
)

// AllCapabilities lists every capability, in matrix order.
var AllCapabilities = []Capability{
	CapDeleteProject,
	CapEditProject,
	CapArchiveProject,
	CapInviteUsers,
	CapRemoveUsers,
	CapChangeUserRoles,
	CapCreateTasks,
	CapAssignTasks,
	CapDeleteAnyTask,
	CapEditAnyTask,
	CapViewAllTasks,
	CapClaimTasks,
	CapEditOwnTasks,
	CapCommentOnTasks,
}

// RolePermissions is the fixed role -> capability matrix. It is not
// data-driven: changing it is a code change.
var RolePermissions = map[ProjectRole]map[Capability]bool{
	ProjectRoleOwner: {
		CapDeleteProject:   true,
		CapEditProject:     true,
		CapArchiveProject:  true,
		CapInviteUsers:     true,
		CapRemoveUsers:     true,
		CapChangeUserRoles: true,
		CapCreateTasks:     true,
		CapAssignTasks:     true,
		CapDeleteAnyTask:   true,
		CapEditAnyTask:     true,
		CapViewAllTasks:    true,
		CapClaimTasks:      true,
		CapEditOwnTasks:    true,
		CapCommentOnTasks:  true,
	},
	ProjectRoleAdmin: {
		CapEditProject:     true,
		CapArchiveProject:  true,
		CapInviteUsers:     true,
		CapRemoveUsers:     true,
		CapChangeUserRoles: true,
		CapCreateTasks:     true,
		CapAssignTasks:     true,
		CapDeleteAnyTask:   true,
		CapEditAnyTask:     true,
		CapViewAllTasks:    true,
		CapClaimTasks:      true,
		CapEditOwnTasks:    true,
		CapCommentOnTasks:  true,
	},
	ProjectRoleMember: {
		CapCreateTasks:    true,
		CapViewAllTasks:   true,
		CapClaimTasks:     true,
		CapEditOwnTasks:   true,
		CapCommentOnTasks: true,
	},
	ProjectRoleGuest: {
		CapViewAllTasks:   true,
		CapEditOwnTasks:   true,
		CapCommentOnTasks: true,
	},
}
