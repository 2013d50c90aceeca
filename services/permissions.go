package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Cyberod/Taskify-Backend/constants"
	"github.com/Cyberod/Taskify-Backend/models"
)

// ResolveProjectRole returns the user's role in a project, or ok=false when
// the user has no access. The owner holds OWNER implicitly; the membership
// table is only consulted when the user is not the owner. Resolution happens
// on every call, so a removed member loses access immediately.
func ResolveProjectRole(db *gorm.DB, userID uint, project *models.Project) (constants.ProjectRole, bool) {
	if project.OwnerID == userID {
		return constants.ProjectRoleOwner, true
	}

	var member models.ProjectMember
	err := db.Where("project_id = ? AND user_id = ?", project.ID, userID).First(&member).Error
	if err != nil {
		return "", false
	}
	return member.Role, true
}

// HasProjectPermission checks the fixed role -> capability matrix. A user
// with no role has no capabilities.
func HasProjectPermission(db *gorm.DB, userID uint, project *models.Project, cap constants.Capability) bool {
	role, ok := ResolveProjectRole(db, userID, project)
	if !ok {
		return false
	}
	return constants.RolePermissions[role][cap]
}

// RequireProjectPermission is the entry-point variant: it fails with
// PermissionDenied instead of returning false.
func RequireProjectPermission(db *gorm.DB, userID uint, project *models.Project, cap constants.Capability) error {
	if !HasProjectPermission(db, userID, project, cap) {
		return errPermissionDenied("you don't have permission to %s in this project", cap)
	}
	return nil
}

// GetProject loads a project or reports NotFound.
func GetProject(db *gorm.DB, projectID uint) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("project not found")
		}
		return nil, err
	}
	return &project, nil
}

// AccessibleProjects returns every project the user owns or is a member of,
// deduplicated, owned projects first.
func AccessibleProjects(db *gorm.DB, userID uint) ([]models.Project, error) {
	var owned []models.Project
	if err := db.Where("owner_id = ?", userID).Order("created_at ASC").Find(&owned).Error; err != nil {
		return nil, err
	}

	var memberOf []models.Project
	err := db.
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Order("projects.created_at ASC").
		Find(&memberOf).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(owned))
	projects := make([]models.Project, 0, len(owned)+len(memberOf))
	for _, p := range owned {
		seen[p.ID] = true
		projects = append(projects, p)
	}
	for _, p := range memberOf {
		if !seen[p.ID] {
			seen[p.ID] = true
			projects = append(projects, p)
		}
	}
	return projects, nil
}
