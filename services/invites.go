package services

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Cyberod/Taskify-Backend/constants"
	"github.com/Cyberod/Taskify-Backend/models"
	"github.com/Cyberod/Taskify-Backend/utils"
)

// InviteService manages the lifecycle of project invitations: PENDING ->
// ACCEPTED | REJECTED | EXPIRED. Terminal rows are immutable and kept for
// audit; cancellation marks EXPIRED instead of deleting.
type InviteService struct {
	DB       *gorm.DB
	Notifier Notifier
	Clock    Clock
	TTL      time.Duration
	Logger   *slog.Logger
}

// MembershipSummary is returned to a user who just joined a project.
type MembershipSummary struct {
	ProjectID   uint                  `json:"project_id"`
	ProjectName string                `json:"project_name"`
	Role        constants.ProjectRole `json:"role"`
	JoinedAt    time.Time             `json:"joined_at"`
}

// Create issues a PENDING invite for an email address. The invite email is
// best effort: a send failure is reported but does not roll back the invite.
func (s *InviteService) Create(projectID uint, email string, actorID uint) (*models.ProjectInvite, bool, error) {
	project, err := GetProject(s.DB, projectID)
	if err != nil {
		return nil, false, err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapInviteUsers); err != nil {
		return nil, false, err
	}

	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, false, errValidation("a valid email address is required")
	}

	// If the email belongs to an existing user, reject owners and members
	// up front; they already have access.
	var user models.User
	err = s.DB.Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error
	if err == nil {
		if project.OwnerID == user.ID {
			return nil, false, errConflict("cannot invite the project owner - they already have access")
		}
		var count int64
		if err := s.DB.Model(&models.ProjectMember{}).
			Where("project_id = ? AND user_id = ?", project.ID, user.ID).
			Count(&count).Error; err != nil {
			return nil, false, err
		}
		if count > 0 {
			return nil, false, errConflict("user is already a member of this project")
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	var pending int64
	err = s.DB.Model(&models.ProjectInvite{}).
		Where("project_id = ? AND LOWER(email) = ? AND status = ?",
			project.ID, strings.ToLower(email), constants.InviteStatusPending).
		Count(&pending).Error
	if err != nil {
		return nil, false, err
	}
	if pending > 0 {
		return nil, false, errConflict("there is already a pending invite for this email")
	}

	token, err := utils.NewInviteToken()
	if err != nil {
		return nil, false, err
	}

	now := s.Clock.Now()
	invite := models.ProjectInvite{
		ProjectID: project.ID,
		Email:     email,
		Token:     token,
		Status:    constants.InviteStatusPending,
		CreatedAt: now,
		ExpiresAt: now.Add(s.TTL),
	}
	if err := s.DB.Create(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, errConflict("there is already a pending invite for this email")
		}
		return nil, false, err
	}

	sent := s.Notifier.SendInvite(email, token)
	if !sent {
		s.Logger.Warn("invite email failed", "project_id", project.ID, "email", email)
	}
	return &invite, sent, nil
}

// Accept converts a pending invite into a MEMBER membership. Expiry is
// enforced lazily here: a stale invite is marked EXPIRED (an intentional
// write in the failure path) before the error is reported.
func (s *InviteService) Accept(token string, user *models.User) (*MembershipSummary, error) {
	invite, err := s.getByToken(token)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	if now.After(invite.ExpiresAt) {
		if invite.Status == constants.InviteStatusPending {
			if err := s.DB.Model(invite).Update("status", constants.InviteStatusExpired).Error; err != nil {
				return nil, err
			}
		}
		return nil, errExpired("invite has expired")
	}

	if invite.Status != constants.InviteStatusPending {
		return nil, errConflict("invite already %s", strings.ToLower(string(invite.Status)))
	}

	if !strings.EqualFold(user.Email, invite.Email) {
		return nil, errPermissionDenied("this invite was sent to a different email address")
	}

	var existing int64
	err = s.DB.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", invite.ProjectID, user.ID).
		Count(&existing).Error
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		// Idempotent cleanup: consume the token even though joining fails.
		if err := s.DB.Model(invite).Update("status", constants.InviteStatusAccepted).Error; err != nil {
			return nil, err
		}
		return nil, errConflict("you are already a member of this project")
	}

	member := models.ProjectMember{
		ProjectID: invite.ProjectID,
		UserID:    user.ID,
		Role:      constants.ProjectRoleMember,
		JoinedAt:  now,
	}
	if err := s.DB.Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errConflict("you are already a member of this project")
		}
		return nil, err
	}
	if err := s.DB.Model(invite).Update("status", constants.InviteStatusAccepted).Error; err != nil {
		return nil, err
	}

	project, err := GetProject(s.DB, invite.ProjectID)
	if err != nil {
		return nil, err
	}
	return &MembershipSummary{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Role:        member.Role,
		JoinedAt:    member.JoinedAt,
	}, nil
}

// Decline rejects a pending invite. Only PENDING -> REJECTED is allowed.
func (s *InviteService) Decline(token string) (*models.ProjectInvite, error) {
	invite, err := s.getByToken(token)
	if err != nil {
		return nil, err
	}
	if invite.Status != constants.InviteStatusPending {
		return nil, errConflict("invite already %s", strings.ToLower(string(invite.Status)))
	}
	if err := s.DB.Model(invite).Update("status", constants.InviteStatusRejected).Error; err != nil {
		return nil, err
	}
	invite.Status = constants.InviteStatusRejected
	return invite, nil
}

// Cancel withdraws a pending invite. The row is kept with status EXPIRED so
// the invite history stays auditable.
func (s *InviteService) Cancel(inviteID uint, actorID uint) error {
	var invite models.ProjectInvite
	if err := s.DB.First(&invite, inviteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound("invite not found")
		}
		return err
	}

	project, err := GetProject(s.DB, invite.ProjectID)
	if err != nil {
		return err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapInviteUsers); err != nil {
		return err
	}

	if invite.Status != constants.InviteStatusPending {
		return errConflict("can only cancel pending invites")
	}
	return s.DB.Model(&invite).Update("status", constants.InviteStatusExpired).Error
}

// ListForProject returns all invites for a project, newest first.
func (s *InviteService) ListForProject(projectID uint, actorID uint) ([]models.ProjectInvite, error) {
	project, err := GetProject(s.DB, projectID)
	if err != nil {
		return nil, err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapInviteUsers); err != nil {
		return nil, err
	}

	var invites []models.ProjectInvite
	err = s.DB.Where("project_id = ?", project.ID).Order("created_at DESC").Find(&invites).Error
	return invites, err
}

func (s *InviteService) getByToken(token string) (*models.ProjectInvite, error) {
	var invite models.ProjectInvite
	if err := s.DB.Where("token = ?", token).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("invite not found")
		}
		return nil, err
	}
	return &invite, nil
}
