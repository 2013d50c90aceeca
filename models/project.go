package models

import (
	"time"

	"github.com/Cyberod/Taskify-Backend/constants"
)

type Project struct {
	ID          uint                    `gorm:"primaryKey" json:"id"`
	Name        string                  `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string                  `gorm:"type:text" json:"description"`
	Status      constants.ProjectStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	// CompletionPercentage is derived from task counts and only ever written
	// by the analytics recompute, never by clients.
	CompletionPercentage float64    `gorm:"default:0" json:"completion_percentage"`
	Deadline             *time.Time `json:"deadline"`
	OwnerID              uint       `gorm:"index;not null" json:"owner_id"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type ProjectMember struct {
	ID        uint                  `gorm:"primaryKey" json:"id"`
	ProjectID uint                  `gorm:"not null;uniqueIndex:idx_project_user" json:"project_id"`
	UserID    uint                  `gorm:"not null;uniqueIndex:idx_project_user" json:"user_id"`
	Role      constants.ProjectRole `gorm:"type:varchar(20);not null;default:'MEMBER'" json:"role"`
	JoinedAt  time.Time             `json:"joined_at"`
}
