package services

import (
	"testing"

	"github.com/Cyberod/Taskify-Backend/constants"
)

// expectedCapabilities is the role -> capability table from the permission
// design, spelled out independently of the production matrix.
var expectedCapabilities = map[constants.ProjectRole]map[constants.Capability]bool{
	constants.ProjectRoleOwner: {
		constants.CapDeleteProject:   true,
		constants.CapEditProject:     true,
		constants.CapArchiveProject:  true,
		constants.CapInviteUsers:     true,
		constants.CapRemoveUsers:     true,
		constants.CapChangeUserRoles: true,
		constants.CapCreateTasks:     true,
		constants.CapAssignTasks:     true,
		constants.CapDeleteAnyTask:   true,
		constants.CapEditAnyTask:     true,
		constants.CapViewAllTasks:    true,
		constants.CapClaimTasks:      true,
		constants.CapEditOwnTasks:    true,
		constants.CapCommentOnTasks:  true,
	},
	constants.ProjectRoleAdmin: {
		constants.CapEditProject:     true,
		constants.CapArchiveProject:  true,
		constants.CapInviteUsers:     true,
		constants.CapRemoveUsers:     true,
		constants.CapChangeUserRoles: true,
		constants.CapCreateTasks:     true,
		constants.CapAssignTasks:     true,
		constants.CapDeleteAnyTask:   true,
		constants.CapEditAnyTask:     true,
		constants.CapViewAllTasks:    true,
		constants.CapClaimTasks:      true,
		constants.CapEditOwnTasks:    true,
		constants.CapCommentOnTasks:  true,
	},
	constants.ProjectRoleMember: {
		constants.CapCreateTasks:    true,
		constants.CapViewAllTasks:   true,
		constants.CapClaimTasks:     true,
		constants.CapEditOwnTasks:   true,
		constants.CapCommentOnTasks: true,
	},
	constants.ProjectRoleGuest: {
		constants.CapViewAllTasks:   true,
		constants.CapEditOwnTasks:   true,
		constants.CapCommentOnTasks: true,
	},
}

func TestPermissionMatrix(t *testing.T) {
	db := openTestDB(t)

	owner := seedUser(t, db, "owner@example.com", constants.UserRoleMember)
	project := seedProject(t, db, "Matrix", owner.ID)

	users := map[constants.ProjectRole]uint{
		constants.ProjectRoleOwner: owner.ID,
	}
	for _, role := range []constants.ProjectRole{
		constants.ProjectRoleAdmin,
		constants.ProjectRoleMember,
		constants.ProjectRoleGuest,
	} {
		u := seedUser(t, db, string(role)+"@example.com", constants.UserRoleMember)
		seedMember(t, db, project.ID, u.ID, role)
		users[role] = u.ID
	}

	for role, userID := range users {
		for _, cap := range constants.AllCapabilities {
			got := HasProjectPermission(db, userID, project, cap)
			want := expectedCapabilities[role][cap]
			if got != want {
				t.Errorf("role %s capability %s: got %v want %v", role, cap, got, want)
			}
		}
	}
}

func TestResolveProjectRole_OwnerBeforeMembership(t *testing.T) {
	db := openTestDB(t)

	owner := seedUser(t, db, "owner@example.com", constants.UserRoleMember)
	project := seedProject(t, db, "P", owner.ID)

	role, ok := ResolveProjectRole(db, owner.ID, project)
	if !ok || role != constants.ProjectRoleOwner {
		t.Fatalf("owner resolution: got (%v, %v)", role, ok)
	}
}

func TestHasPermission_NoRoleHasNothing(t *testing.T) {
	db := openTestDB(t)

	owner := seedUser(t, db, "owner@example.com", constants.UserRoleMember)
	stranger := seedUser(t, db, "stranger@example.com", constants.UserRoleMember)
	project := seedProject(t, db, "P", owner.ID)

	if _, ok := ResolveProjectRole(db, stranger.ID, project); ok {
		t.Fatal("stranger should have no role")
	}
	for _, cap := range constants.AllCapabilities {
		if HasProjectPermission(db, stranger.ID, project, cap) {
			t.Errorf("stranger should not hold %s", cap)
		}
	}
}

func TestHasPermission_RemovedMemberLosesAccessImmediately(t *testing.T) {
	db := openTestDB(t)

	owner := seedUser(t, db, "owner@example.com", constants.UserRoleMember)
	member := seedUser(t, db, "member@example.com", constants.UserRoleMember)
	project := seedProject(t, db, "P", owner.ID)
	seedMember(t, db, project.ID, member.ID, constants.ProjectRoleMember)

	if !HasProjectPermission(db, member.ID, project, constants.CapViewAllTasks) {
		t.Fatal("member should be able to view tasks")
	}

	members := &MemberService{DB: db}
	if err := members.Remove(project.ID, member.ID, owner.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}

	// No caching across calls: the next check re-resolves and fails.
	if HasProjectPermission(db, member.ID, project, constants.CapViewAllTasks) {
		t.Fatal("removed member should lose access immediately")
	}
}

func TestRequireProjectPermission_Denied(t *testing.T) {
	db := openTestDB(t)

	owner := seedUser(t, db, "owner@example.com", constants.UserRoleMember)
	guest := seedUser(t, db, "guest@example.com", constants.UserRoleMember)
	project := seedProject(t, db, "P", owner.ID)
	seedMember(t, db, project.ID, guest.ID, constants.ProjectRoleGuest)

	err := RequireProjectPermission(db, guest.ID, project, constants.CapCreateTasks)
	if kind := kindOf(t, err); kind != KindPermissionDenied {
		t.Fatalf("expected permission denied, got %s", kind)
	}
}

func TestAccessibleProjects_Deduplicated(t *testing.T) {
	db := openTestDB(t)

	owner := seedUser(t, db, "owner@example.com", constants.UserRoleMember)
	other := seedUser(t, db, "other@example.com", constants.UserRoleMember)
	owned := seedProject(t, db, "Owned", owner.ID)
	shared := seedProject(t, db, "Shared", other.ID)
	seedMember(t, db, shared.ID, owner.ID, constants.ProjectRoleMember)

	projects, err := AccessibleProjects(db, owner.ID)
	if err != nil {
		t.Fatalf("accessible projects: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	seen := map[uint]bool{}
	for _, p := range projects {
		if seen[p.ID] {
			t.Fatalf("project %d returned twice", p.ID)
		}
		seen[p.ID] = true
	}
	if !seen[owned.ID] || !seen[shared.ID] {
		t.Fatalf("missing expected projects: %v", seen)
	}
}
