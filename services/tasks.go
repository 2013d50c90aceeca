package services

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/Cyberod/Taskify-Backend/constants"
	"github.com/Cyberod/Taskify-Backend/models"
)

// poolOrder ranks priorities CRITICAL > HIGH > MEDIUM > LOW, then oldest
// first. This ordering is a fairness/urgency policy; keep it exact.
const poolOrder = "CASE priority " +
	"WHEN 'CRITICAL' THEN 0 " +
	"WHEN 'HIGH' THEN 1 " +
	"WHEN 'MEDIUM' THEN 2 " +
	"WHEN 'LOW' THEN 3 " +
	"ELSE 4 END, created_at ASC"

// claimableStatuses are the only states a general-pool task can be claimed
// from.
var claimableStatuses = []constants.TaskStatus{
	constants.TaskStatusNotStarted,
	constants.TaskStatusBlocked,
}

// TaskService owns task creation, the status/assignment state machine and
// the general-pool claim protocol.
type TaskService struct {
	DB     *gorm.DB
	Clock  Clock
	Logger *slog.Logger
}

type TaskCreate struct {
	Title          string                   `json:"title"`
	Description    string                   `json:"description"`
	Priority       constants.TaskPriority   `json:"priority"`
	AssignmentType constants.AssignmentType `json:"assignment_type"`
	DueDate        *time.Time               `json:"due_date"`
	AssigneeID     *uint                    `json:"assignee_id"`
}

// TaskUpdate applies only the supplied fields.
type TaskUpdate struct {
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	Status      *constants.TaskStatus   `json:"status"`
	Priority    *constants.TaskPriority `json:"priority"`
	DueDate     *time.Time              `json:"due_date"`
	AssigneeID  *uint                   `json:"assignee_id"`
}

// TaskFilter narrows project task listings.
type TaskFilter struct {
	Status     *constants.TaskStatus
	AssigneeID *uint
}

// Create validates and persists a new task, then recomputes the project's
// completion percentage.
func (s *TaskService) Create(projectID uint, in TaskCreate, actorID uint) (*models.Task, error) {
	project, err := GetProject(s.DB, projectID)
	if err != nil {
		return nil, err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapCreateTasks); err != nil {
		return nil, err
	}

	if in.Title == "" {
		return nil, errValidation("title is required")
	}
	if in.Priority == "" {
		in.Priority = constants.TaskPriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, errValidation("invalid priority %q", in.Priority)
	}
	if in.AssignmentType == "" {
		in.AssignmentType = constants.AssignmentAdminAssigned
	}
	if !in.AssignmentType.Valid() {
		return nil, errValidation("invalid assignment type %q", in.AssignmentType)
	}

	switch in.AssignmentType {
	case constants.AssignmentGeneralPool:
		if in.AssigneeID != nil {
			return nil, errValidation("general pool tasks cannot have an assignee at creation")
		}
	case constants.AssignmentAdminAssigned:
		if in.AssigneeID != nil {
			if !HasProjectPermission(s.DB, *in.AssigneeID, project, constants.CapViewAllTasks) {
				return nil, errPermissionDenied("assignee does not have access to this project")
			}
		}
	}

	task := models.Task{
		Title:          in.Title,
		Description:    in.Description,
		Status:         constants.TaskStatusNotStarted,
		Priority:       in.Priority,
		AssignmentType: in.AssignmentType,
		DueDate:        in.DueDate,
		ProjectID:      project.ID,
		AssigneeID:     in.AssigneeID,
		CreatorID:      actorID,
		CreatedAt:      s.Clock.Now(),
	}
	if err := s.DB.Create(&task).Error; err != nil {
		return nil, err
	}

	if err := RecalculateCompletion(s.DB, project.ID); err != nil {
		return nil, err
	}
	return &task, nil
}

// Get returns a task to anyone with view access on its project.
func (s *TaskService) Get(taskID uint, actorID uint) (*models.Task, error) {
	task, project, err := s.load(taskID)
	if err != nil {
		return nil, err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapViewAllTasks); err != nil {
		return nil, err
	}
	return task, nil
}

// Claim self-assigns a general-pool task. The decisive write is conditional
// on the task still being unassigned and claimable, so of N concurrent
// claimants exactly one wins; the rest get Conflict.
func (s *TaskService) Claim(taskID uint, actorID uint) (*models.Task, error) {
	task, project, err := s.load(taskID)
	if err != nil {
		return nil, err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapClaimTasks); err != nil {
		return nil, err
	}

	if task.AssignmentType != constants.AssignmentGeneralPool {
		return nil, errValidation("only general pool tasks can be claimed")
	}
	if task.AssigneeID != nil {
		return nil, errConflict("task has already been claimed")
	}
	if task.Status != constants.TaskStatusNotStarted && task.Status != constants.TaskStatusBlocked {
		return nil, errValidation("task is not claimable in status %s", task.Status)
	}

	res := s.DB.Model(&models.Task{}).
		Where("id = ? AND assignee_id IS NULL AND status IN ?", task.ID, claimableStatuses).
		Updates(map[string]any{
			"assignee_id": actorID,
			"status":      constants.TaskStatusInProgress,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race between our read and the conditional write.
		return nil, errConflict("task has already been claimed")
	}

	if err := RecalculateCompletion(s.DB, project.ID); err != nil {
		return nil, err
	}

	task.AssigneeID = &actorID
	task.Status = constants.TaskStatusInProgress
	return task, nil
}

// Update applies a partial update. Actors need EDIT_ANY_TASK, or
// EDIT_OWN_TASKS when they are the assignee. Reassignment additionally
// needs ASSIGN_TASKS.
func (s *TaskService) Update(taskID uint, in TaskUpdate, actorID uint) (*models.Task, error) {
	task, project, err := s.load(taskID)
	if err != nil {
		return nil, err
	}

	canEditAny := HasProjectPermission(s.DB, actorID, project, constants.CapEditAnyTask)
	isAssignee := task.AssigneeID != nil && *task.AssigneeID == actorID
	canEditOwn := isAssignee && HasProjectPermission(s.DB, actorID, project, constants.CapEditOwnTasks)
	if !canEditAny && !canEditOwn {
		return nil, errPermissionDenied("you don't have permission to edit this task")
	}

	updates := map[string]any{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, errValidation("title cannot be empty")
		}
		updates["title"] = *in.Title
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
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, errValidation("invalid priority %q", *in.Priority)
		}
		updates["priority"] = *in.Priority
	}
	if in.DueDate != nil {
		updates["due_date"] = *in.DueDate
	}
	if in.AssigneeID != nil {
		if err := RequireProjectPermission(s.DB, actorID, project, constants.CapAssignTasks); err != nil {
			return nil, err
		}
		if !HasProjectPermission(s.DB, *in.AssigneeID, project, constants.CapViewAllTasks) {
			return nil, errPermissionDenied("assignee does not have access to this project")
		}
		updates["assignee_id"] = *in.AssigneeID
	}
	if len(updates) == 0 {
		return task, nil
	}

	if err := s.DB.Model(task).Updates(updates).Error; err != nil {
		return nil, err
	}

	if in.Status != nil {
		if err := RecalculateCompletion(s.DB, project.ID); err != nil {
			return nil, err
		}
	}

	if err := s.DB.First(task, task.ID).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task and recomputes the project's completion.
func (s *TaskService) Delete(taskID uint, actorID uint) error {
	task, project, err := s.load(taskID)
	if err != nil {
		return err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapDeleteAnyTask); err != nil {
		return err
	}

	if err := s.DB.Delete(&models.Task{}, task.ID).Error; err != nil {
		return err
	}
	return RecalculateCompletion(s.DB, project.ID)
}

// PoolTasks lists the claimable general pool: unassigned general-pool tasks
// in a claimable status, most urgent first.
func (s *TaskService) PoolTasks(projectID uint, actorID uint) ([]models.Task, error) {
	project, err := GetProject(s.DB, projectID)
	if err != nil {
		return nil, err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapViewAllTasks); err != nil {
		return nil, err
	}

	var tasks []models.Task
	err = s.DB.
		Where("project_id = ? AND assignment_type = ? AND assignee_id IS NULL AND status IN ?",
			project.ID, constants.AssignmentGeneralPool, claimableStatuses).
		Order(poolOrder).
		Find(&tasks).Error
	return tasks, err
}

// ListForProject lists a project's tasks with optional status/assignee
// filters.
func (s *TaskService) ListForProject(projectID uint, actorID uint, filter TaskFilter) ([]models.Task, error) {
	project, err := GetProject(s.DB, projectID)
	if err != nil {
		return nil, err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapViewAllTasks); err != nil {
		return nil, err
	}

	q := s.DB.Where("project_id = ?", project.ID)
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.AssigneeID != nil {
		q = q.Where("assignee_id = ?", *filter.AssigneeID)
	}

	var tasks []models.Task
	err = q.Order("created_at ASC").Find(&tasks).Error
	return tasks, err
}

// MyTasks lists every task assigned to the user across projects.
func (s *TaskService) MyTasks(actorID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.Where("assignee_id = ?", actorID).Order(poolOrder).Find(&tasks).Error
	return tasks, err
}

func (s *TaskService) load(taskID uint) (*models.Task, *models.Project, error) {
	var task models.Task
	if err := s.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errNotFound("task not found")
		}
		return nil, nil, err
	}
	project, err := GetProject(s.DB, task.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return &task, project, nil
}
