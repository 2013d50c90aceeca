package models

import (
	"time"

	"github.com/Cyberod/Taskify-Backend/constants"
)

type Task struct {
	ID             uint                     `gorm:"primaryKey" json:"id"`
	Title          string                   `gorm:"size:255;not null" json:"title"`
	Description    string                   `gorm:"type:text" json:"description"`
	Status         constants.TaskStatus     `gorm:"type:varchar(20);not null;default:'NOT_STARTED'" json:"status"`
	Priority       constants.TaskPriority   `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	AssignmentType constants.AssignmentType `gorm:"type:varchar(20);not null;default:'ADMIN_ASSIGNED'" json:"assignment_type"`
	DueDate        *time.Time               `json:"due_date"`
	ProjectID      uint                     `gorm:"index;not null" json:"project_id"`
	AssigneeID     *uint                    `gorm:"index" json:"assignee_id"`
	CreatorID      uint                     `gorm:"index;not null" json:"creator_id"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}
