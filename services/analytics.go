package services

import (
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/Cyberod/Taskify-Backend/constants"
	"github.com/Cyberod/Taskify-Backend/models"
)

// RecalculateCompletion derives a project's completion percentage from its
// task counts and stores it. This is the single writer of
// completion_percentage; task mutation code triggers it and never writes the
// column itself.
func RecalculateCompletion(db *gorm.DB, projectID uint) error {
	var total, completed int64
	if err := db.Model(&models.Task{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Task{}).
		Where("project_id = ? AND status = ?", projectID, constants.TaskStatusCompleted).
		Count(&completed).Error; err != nil {
		return err
	}

	pct := 0.0
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}
	return db.Model(&models.Project{}).Where("id = ?", projectID).
		Update("completion_percentage", pct).Error
}

// ClassifyHealth classifies project risk from completion and deadline. Pure
// function: no I/O, deterministic for a given now.
func ClassifyHealth(completion float64, deadline *time.Time, now time.Time) (constants.HealthStatus, *int, string) {
	if completion >= 100 {
		return constants.HealthCompleted, nil, constants.HealthColorGreen
	}
	if deadline == nil {
		return constants.HealthOnTrack, nil, constants.HealthColorBlue
	}

	days := int(math.Floor(deadline.Sub(now).Hours() / 24))
	switch {
	case days < 0:
		return constants.HealthOverdue, &days, constants.HealthColorRed
	case days <= 7 && completion < 80:
		return constants.HealthAtRisk, &days, constants.HealthColorOrange
	case days <= 14 && completion < 50:
		return constants.HealthAtRisk, &days, constants.HealthColorOrange
	default:
		return constants.HealthOnTrack, &days, constants.HealthColorGreen
	}
}

// AnalyticsService reads task data and derives completion, health and
// contribution views.
type AnalyticsService struct {
	DB    *gorm.DB
	Clock Clock
}

type TaskStatusCount struct {
	NotStarted int64 `json:"not_started"`
	InProgress int64 `json:"in_progress"`
	Blocked    int64 `json:"blocked"`
	Completed  int64 `json:"completed"`
	Total      int64 `json:"total"`
}

type ProjectCompletionStats struct {
	ProjectID            uint                   `json:"project_id"`
	Name                 string                 `json:"name"`
	CompletionPercentage float64                `json:"completion_percentage"`
	TaskCounts           TaskStatusCount        `json:"task_counts"`
	HealthStatus         constants.HealthStatus `json:"health_status"`
	DaysUntilDeadline    *int                   `json:"days_until_deadline"`
	Deadline             *time.Time             `json:"deadline"`
	ColorCode            string                 `json:"color_code"`
}

type UserContribution struct {
	UserID               uint                           `json:"user_id"`
	Email                string                         `json:"email"`
	AssignedTasks        int                            `json:"assigned_tasks"`
	CompletedTasks       int                            `json:"completed_tasks"`
	CompletionPercentage float64                        `json:"completion_percentage"`
	TasksByPriority      map[constants.TaskPriority]int `json:"tasks_by_priority"`
}

type ProjectDashboard struct {
	Stats         ProjectCompletionStats `json:"stats"`
	Contributions []UserContribution     `json:"contributions"`
	MemberCount   int64                  `json:"member_count"`
}

// UserProjectSummary is one project in a user's overall metrics: their role,
// their task counts there and the project's own health.
type UserProjectSummary struct {
	ProjectID                   uint                   `json:"project_id"`
	ProjectName                 string                 `json:"project_name"`
	ProjectHealth               constants.HealthStatus `json:"project_health"`
	Role                        constants.ProjectRole  `json:"role"`
	AssignedTasks               int64                  `json:"assigned_tasks"`
	CompletedTasks              int64                  `json:"completed_tasks"`
	CompletionPercentage        float64                `json:"completion_percentage"`
	ProjectCompletionPercentage float64                `json:"project_completion_percentage"`
}

type UserOverallMetrics struct {
	UserID              uint                 `json:"user_id"`
	Email               string               `json:"email"`
	Name                string               `json:"name"`
	AvatarURL           string               `json:"avatar_url"`
	TotalProjects       int64                `json:"total_projects"`
	ProjectsOwned       int64                `json:"projects_owned"`
	ProjectsAsMember    int64                `json:"projects_as_member"`
	TotalAssignedTasks  int64                `json:"total_assigned_tasks"`
	TotalCompletedTasks int64                `json:"total_completed_tasks"`
	OverallCompletion   float64              `json:"overall_completion_percentage"`
	ProjectSummaries    []UserProjectSummary `json:"project_summaries"`
}

type HealthBuckets struct {
	OnTrack int `json:"on_track"`
	AtRisk  int `json:"at_risk"`
	Overdue int `json:"overdue"`
}

type TeamProductivity struct {
	ActiveProjects      int64              `json:"active_projects"`
	TotalUsers          int64              `json:"total_users"`
	TotalTasks          int64              `json:"total_tasks"`
	CompletedTasks      int64              `json:"completed_tasks"`
	OverallProductivity float64            `json:"overall_productivity"`
	ProjectHealth       HealthBuckets      `json:"project_health"`
	TopContributors     []UserContribution `json:"top_contributors"`
}

// CompletionStats returns completion and status counts for one project.
func (s *AnalyticsService) CompletionStats(projectID uint, actorID uint) (*ProjectCompletionStats, error) {
	project, err := GetProject(s.DB, projectID)
	if err != nil {
		return nil, err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapViewAllTasks); err != nil {
		return nil, err
	}
	return s.statsFor(project)
}

func (s *AnalyticsService) statsFor(project *models.Project) (*ProjectCompletionStats, error) {
	type row struct {
		Status constants.TaskStatus
		N      int64
	}
	var rows []row
	err := s.DB.Model(&models.Task{}).
		Select("status, COUNT(id) AS n").
		Where("project_id = ?", project.ID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var counts TaskStatusCount
	for _, r := range rows {
		counts.Total += r.N
		switch r.Status {
		case constants.TaskStatusNotStarted:
			counts.NotStarted = r.N
		case constants.TaskStatusInProgress:
			counts.InProgress = r.N
		case constants.TaskStatusBlocked:
			counts.Blocked = r.N
		case constants.TaskStatusCompleted:
			counts.Completed = r.N
		}
	}

	health, days, color := ClassifyHealth(project.CompletionPercentage, project.Deadline, s.Clock.Now())
	return &ProjectCompletionStats{
		ProjectID:            project.ID,
		Name:                 project.Name,
		CompletionPercentage: project.CompletionPercentage,
		TaskCounts:           counts,
		HealthStatus:         health,
		DaysUntilDeadline:    days,
		Deadline:             project.Deadline,
		ColorCode:            color,
	}, nil
}

// Contributions returns per-user metrics for every user with at least one
// assigned task in the project.
func (s *AnalyticsService) Contributions(projectID uint, actorID uint) ([]UserContribution, error) {
	project, err := GetProject(s.DB, projectID)
	if err != nil {
		return nil, err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapViewAllTasks); err != nil {
		return nil, err
	}
	return s.contributionsFor(s.DB.Where("project_id = ?", project.ID))
}

// contributionsFor aggregates assigned tasks under the given scope into
// per-user contribution records, highest completion first.
func (s *AnalyticsService) contributionsFor(scope *gorm.DB) ([]UserContribution, error) {
	var tasks []models.Task
	if err := scope.Where("assignee_id IS NOT NULL").Find(&tasks).Error; err != nil {
		return nil, err
	}

	byUser := map[uint]*UserContribution{}
	for _, t := range tasks {
		c, ok := byUser[*t.AssigneeID]
		if !ok {
			c = &UserContribution{
				UserID:          *t.AssigneeID,
				TasksByPriority: map[constants.TaskPriority]int{},
			}
			byUser[*t.AssigneeID] = c
		}
		c.AssignedTasks++
		c.TasksByPriority[t.Priority]++
		if t.Status == constants.TaskStatusCompleted {
			c.CompletedTasks++
		}
	}

	ids := make([]uint, 0, len(byUser))
	for id := range byUser {
		ids = append(ids, id)
	}
	var users []models.User
	if len(ids) > 0 {
		if err := s.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
	}
	emails := make(map[uint]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}

	out := make([]UserContribution, 0, len(byUser))
	for _, c := range byUser {
		if c.AssignedTasks > 0 {
			c.CompletionPercentage = float64(c.CompletedTasks) / float64(c.AssignedTasks) * 100
		}
		c.Email = emails[c.UserID]
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CompletionPercentage != out[j].CompletionPercentage {
			return out[i].CompletionPercentage > out[j].CompletionPercentage
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// Dashboard bundles stats, contributions and member count for one project.
func (s *AnalyticsService) Dashboard(projectID uint, actorID uint) (*ProjectDashboard, error) {
	project, err := GetProject(s.DB, projectID)
	if err != nil {
		return nil, err
	}
	if err := RequireProjectPermission(s.DB, actorID, project, constants.CapViewAllTasks); err != nil {
		return nil, err
	}

	stats, err := s.statsFor(project)
	if err != nil {
		return nil, err
	}
	contributions, err := s.contributionsFor(s.DB.Where("project_id = ?", project.ID))
	if err != nil {
		return nil, err
	}

	var members int64
	if err := s.DB.Model(&models.ProjectMember{}).Where("project_id = ?", project.ID).Count(&members).Error; err != nil {
		return nil, err
	}

	return &ProjectDashboard{
		Stats:         *stats,
		Contributions: contributions,
		MemberCount:   members + 1, // owner is implicit
	}, nil
}

// UserMetrics aggregates one user's activity across every project they own
// or belong to. Users may view their own; system admins may view anyone's.
func (s *AnalyticsService) UserMetrics(targetID uint, actor *models.User) (*UserOverallMetrics, error) {
	if actor.ID != targetID {
		if actor.IsVerified && !actor.OnboardingCompleted {
			return nil, errValidation("complete onboarding to access this feature")
		}
		if actor.Role != constants.UserRoleAdmin {
			return nil, errPermissionDenied("you can only view your own metrics")
		}
	}

	var user models.User
	if err := s.DB.First(&user, targetID).Error; err != nil {
		return nil, errNotFound("user not found")
	}

	out := &UserOverallMetrics{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.DisplayName(),
		AvatarURL: user.AvatarURL,
	}
	if err := s.DB.Model(&models.Project{}).
		Where("owner_id = ?", user.ID).
		Count(&out.ProjectsOwned).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.ProjectMember{}).
		Where("user_id = ?", user.ID).
		Count(&out.ProjectsAsMember).Error; err != nil {
		return nil, err
	}
	out.TotalProjects = out.ProjectsOwned + out.ProjectsAsMember

	if err := s.DB.Model(&models.Task{}).
		Where("assignee_id = ?", user.ID).
		Count(&out.TotalAssignedTasks).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Task{}).
		Where("assignee_id = ? AND status = ?", user.ID, constants.TaskStatusCompleted).
		Count(&out.TotalCompletedTasks).Error; err != nil {
		return nil, err
	}
	if out.TotalAssignedTasks > 0 {
		out.OverallCompletion = round2(float64(out.TotalCompletedTasks) / float64(out.TotalAssignedTasks) * 100)
	}

	summaries, err := s.userProjectSummaries(&user)
	if err != nil {
		return nil, err
	}
	out.ProjectSummaries = summaries
	return out, nil
}

// userProjectSummaries covers owned projects first, then memberships,
// skipping any membership row on a project the user also owns.
func (s *AnalyticsService) userProjectSummaries(user *models.User) ([]UserProjectSummary, error) {
	var owned []models.Project
	if err := s.DB.Where("owner_id = ?", user.ID).Order("created_at ASC").Find(&owned).Error; err != nil {
		return nil, err
	}

	summaries := make([]UserProjectSummary, 0, len(owned))
	for i := range owned {
		summary, err := s.userProjectSummary(user.ID, &owned[i], constants.ProjectRoleOwner)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}

	var memberships []models.ProjectMember
	if err := s.DB.Where("user_id = ?", user.ID).Order("joined_at ASC").Find(&memberships).Error; err != nil {
		return nil, err
	}
	for _, m := range memberships {
		project, err := GetProject(s.DB, m.ProjectID)
		if err != nil {
			return nil, err
		}
		if project.OwnerID == user.ID {
			continue
		}
		summary, err := s.userProjectSummary(user.ID, project, m.Role)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

func (s *AnalyticsService) userProjectSummary(userID uint, project *models.Project, role constants.ProjectRole) (*UserProjectSummary, error) {
	var assigned, completed int64
	if err := s.DB.Model(&models.Task{}).
		Where("project_id = ? AND assignee_id = ?", project.ID, userID).
		Count(&assigned).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Task{}).
		Where("project_id = ? AND assignee_id = ? AND status = ?", project.ID, userID, constants.TaskStatusCompleted).
		Count(&completed).Error; err != nil {
		return nil, err
	}

	pct := 0.0
	if assigned > 0 {
		pct = round2(float64(completed) / float64(assigned) * 100)
	}
	health, _, _ := ClassifyHealth(project.CompletionPercentage, project.Deadline, s.Clock.Now())
	return &UserProjectSummary{
		ProjectID:                   project.ID,
		ProjectName:                 project.Name,
		ProjectHealth:               health,
		Role:                        role,
		AssignedTasks:               assigned,
		CompletedTasks:              completed,
		CompletionPercentage:        pct,
		ProjectCompletionPercentage: project.CompletionPercentage,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TeamProductivity aggregates system-wide metrics. System admin only, and the
// admin must have completed onboarding.
func (s *AnalyticsService) TeamProductivity(actor *models.User, topN int) (*TeamProductivity, error) {
	if actor.Role != constants.UserRoleAdmin {
		return nil, errPermissionDenied("admin access required")
	}
	if actor.IsVerified && !actor.OnboardingCompleted {
		return nil, errValidation("complete onboarding to access admin features")
	}
	if topN <= 0 {
		topN = 5
	}

	out := &TeamProductivity{}
	if err := s.DB.Model(&models.Project{}).
		Where("status = ?", constants.ProjectStatusActive).
		Count(&out.ActiveProjects).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.User{}).
		Where("is_active = ?", true).
		Count(&out.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Task{}).Count(&out.TotalTasks).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Task{}).
		Where("status = ?", constants.TaskStatusCompleted).
		Count(&out.CompletedTasks).Error; err != nil {
		return nil, err
	}
	if out.TotalTasks > 0 {
		out.OverallProductivity = round2(float64(out.CompletedTasks) / float64(out.TotalTasks) * 100)
	}

	var active []models.Project
	if err := s.DB.Where("status = ?", constants.ProjectStatusActive).Find(&active).Error; err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	for _, p := range active {
		health, _, _ := ClassifyHealth(p.CompletionPercentage, p.Deadline, now)
		switch health {
		case constants.HealthOnTrack, constants.HealthCompleted:
			out.ProjectHealth.OnTrack++
		case constants.HealthAtRisk:
			out.ProjectHealth.AtRisk++
		case constants.HealthOverdue:
			out.ProjectHealth.Overdue++
		}
	}

	contributors, err := s.contributionsFor(s.DB.Session(&gorm.Session{}))
	if err != nil {
		return nil, err
	}
	if len(contributors) > topN {
		contributors = contributors[:topN]
	}
	out.TopContributors = contributors
	return out, nil
}
