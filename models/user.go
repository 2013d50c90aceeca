package models

import (
	"time"

	"github.com/Cyberod/Taskify-Backend/constants"
)

type User struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	Email      string             `gorm:"size:64;uniqueIndex;not null" json:"email"`
	Password   string             `gorm:"size:128;not null" json:"-"`
	Role       constants.UserRole `gorm:"type:varchar(20);not null;default:'MEMBER'" json:"role"`
	FirstName  string             `gorm:"size:64" json:"first_name"`
	LastName   string             `gorm:"size:64" json:"last_name"`
	AvatarURL  string             `gorm:"size:256" json:"avatar_url"`
	IsActive   bool               `gorm:"default:true" json:"is_active"`
	IsVerified bool               `gorm:"default:false" json:"is_verified"`
	// OnboardingCompleted flips once the user has supplied their name after
	// verifying their email; some features are gated on it.
	OnboardingCompleted bool      `gorm:"default:false" json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DisplayName is the user's full name, falling back to the email before
// onboarding has supplied one.
func (u *User) DisplayName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Email
}

// EmailCode is a hashed one-time code mailed to a user, either for email
// verification or a password reset. Codes are single use and expire.
type EmailCode struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Purpose     string     `gorm:"type:varchar(20);not null" json:"purpose"`
	CodeHash    string     `gorm:"size:128;not null" json:"-"`
	ExpiresAt   time.Time  `gorm:"not null" json:"expires_at"`
	IsUsed      bool       `gorm:"default:false" json:"is_used"`
	Attempts    int        `gorm:"default:0" json:"attempts"`
	ResendCount int        `gorm:"default:0" json:"resend_count"`
	LastSentAt  *time.Time `json:"last_sent_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

const (
	CodePurposeVerify = "verify"
	CodePurposeReset  = "reset"
)
