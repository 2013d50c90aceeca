package models

import (
	"time"

	"github.com/Cyberod/Taskify-Backend/constants"
)

// ProjectInvite is a time-bounded, single-use invitation. Terminal rows are
// kept, never deleted, so the invite history doubles as an audit trail.
type ProjectInvite struct {
	ID        uint                   `gorm:"primaryKey" json:"id"`
	ProjectID uint                   `gorm:"index;not null" json:"project_id"`
	Email     string                 `gorm:"size:255;not null" json:"email"`
	Token     string                 `gorm:"size:255;uniqueIndex;not null" json:"-"`
	Status    constants.InviteStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	CreatedAt time.Time              `json:"created_at"`
	ExpiresAt time.Time              `gorm:"not null" json:"expires_at"`
}
