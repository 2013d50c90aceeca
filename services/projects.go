package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Cyberod/Taskify-Backend/constants"
	"github.com/Cyberod/Taskify-Backend/models"
)

// ProjectService owns the project lifecycle. Deleting a project cascades to
// its tasks, members and invites.
type ProjectService struct {
	DB    *gorm.DB
	Clock Clock
}

type ProjectCreate struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

// ProjectUpdate applies only the supplied fields. Completion percentage is
// derived and deliberately absent here.
type ProjectUpdate struct {
	Name        *string                  `json:"name"`
	Description *string                  `json:"description"`
	Status      *constants.ProjectStatus `json:"status"`
	Deadline    *time.Time               `json:"deadline"`
}

func (s *ProjectService) Create(in ProjectCreate, ownerID uint) (*models.Project, error) {
	if in.Name == "" {
		return nil, errValidation("name is required")
	}

	project := models.Project{
		Name:        in.Name,
		Description: in.Description,
		Status:      constants.ProjectStatusActive,
		Deadline:    in.Deadline,
		OwnerID:     ownerID,
		CreatedAt:   s.Clock.Now(),
	}
	if err := s.DB.Create(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errConflict("a project named %q already exists", in.Name)
		}
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) Get(projectID uint, actorID uint) (*models.Project, error) {
	project, err := GetProject(s.DB, projectID)
	if err != nil {
		return nil, err
	}
	if _, ok := ResolveProjectRole(s.DB, actorID, project); !ok {
		return nil, errPermissionDenied("you don't have access to this project")
	}
	return project, nil
}

func (s *ProjectService) List(actorID uint) ([]models.Project, error) {
	return AccessibleProjects(s.DB, actorID)
}

func (s *ProjectService) Update(projectID uint, in ProjectUpdate, actorID uint) (*models.Project, error) {
	project, err := GetProject(s.DB, projectID)
	if err != nil {
		return nil, err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapEditProject); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, errValidation("name cannot be empty")
		}
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, errValidation("invalid status %q", *in.Status)
		}
		updates["status"] = *in.Status
	}
	if in.Deadline != nil {
		updates["deadline"] = *in.Deadline
	}
	if len(updates) == 0 {
		return project, nil
	}

	if err := s.DB.Model(project).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errConflict("a project with that name already exists")
		}
		return nil, err
	}
	if err := s.DB.First(project, project.ID).Error; err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Archive(projectID uint, actorID uint) (*models.Project, error) {
	project, err := GetProject(s.DB, projectID)
	if err != nil {
		return nil, err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapArchiveProject); err != nil {
		return nil, err
	}

	if err := s.DB.Model(project).Update("status", constants.ProjectStatusArchived).Error; err != nil {
		return nil, err
	}
	project.Status = constants.ProjectStatusArchived
	return project, nil
}

func (s *ProjectService) Delete(projectID uint, actorID uint) error {
	project, err := GetProject(s.DB, projectID)
	if err != nil {
		return err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapDeleteProject); err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectInvite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, project.ID).Error
	})
}
