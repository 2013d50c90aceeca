package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Cyberod/Taskify-Backend/constants"
	"github.com/Cyberod/Taskify-Backend/models"
)

// MemberService manages membership rows. The owner is never a row: owner
// access comes from project.owner_id, so owners cannot be demoted or
// removed here.
type MemberService struct {
	DB *gorm.DB
}

// MemberWithUser joins a membership row with the user's public fields.
type MemberWithUser struct {
	models.ProjectMember
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// List returns the project's members with user details. Any project role
// may look.
func (s *MemberService) List(projectID uint, actorID uint) ([]MemberWithUser, error) {
	project, err := GetProject(s.DB, projectID)
	if err != nil {
		return nil, err
	}
	if _, ok := ResolveProjectRole(s.DB, actorID, project); !ok {
		return nil, errPermissionDenied("you don't have access to this project")
	}

	var members []MemberWithUser
	err = s.DB.Model(&models.ProjectMember{}).
		Select("project_members.*, users.email, users.avatar_url").
		Joins("JOIN users ON users.id = project_members.user_id").
		Where("project_members.project_id = ?", project.ID).
		Order("project_members.joined_at ASC").
		Scan(&members).Error
	return members, err
}

// ChangeRole updates a member's project role. OWNER cannot be granted; the
// owner's implicit role cannot be changed.
func (s *MemberService) ChangeRole(projectID, userID uint, role constants.ProjectRole, actorID uint) (*models.ProjectMember, error) {
	project, err := GetProject(s.DB, projectID)
	if err != nil {
		return nil, err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapChangeUserRoles); err != nil {
		return nil, err
	}

	if !role.Valid() || role == constants.ProjectRoleOwner {
		return nil, errValidation("invalid role %q", role)
	}
	if userID == project.OwnerID {
		return nil, errValidation("the project owner's role cannot be changed")
	}

	var member models.ProjectMember
	err = s.DB.Where("project_id = ? AND user_id = ?", project.ID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("member not found")
		}
		return nil, err
	}

	if err := s.DB.Model(&member).Update("role", role).Error; err != nil {
		return nil, err
	}
	member.Role = role
	return &member, nil
}

// Remove deletes a membership row. Requires REMOVE_USERS, except that
// members may always remove themselves (leave). The owner cannot be
// removed.
func (s *MemberService) Remove(projectID, userID uint, actorID uint) error {
	project, err := GetProject(s.DB, projectID)
	if err != nil {
		return err
	}
	if userID == project.OwnerID {
		return errValidation("the project owner cannot be removed")
	}
	if userID != actorID {
		if err := RequireProjectPermission(s.DB, actorID, project, constants.CapRemoveUsers); err != nil {
			return err
		}
	}

	res := s.DB.Where("project_id = ? AND user_id = ?", project.ID, userID).Delete(&models.ProjectMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound("member not found")
	}
	return nil
}
