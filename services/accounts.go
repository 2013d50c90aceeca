package services

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Cyberod/Taskify-Backend/models"
	"github.com/Cyberod/Taskify-Backend/utils"
)

// AccountService handles registration, login and the OTP flows for email
// verification and password reset. Requests that could reveal whether an
// account exists always produce a generic success-shaped result.
type AccountService struct {
	DB       *gorm.DB
	Notifier Notifier
	Clock    Clock
	Logger   *slog.Logger

	JWTSecret      []byte
	JWTTTL         time.Duration
	OTPTTL         time.Duration
	ResetOTPTTL    time.Duration
	ResendCooldown time.Duration
	MaxResends     int
	MaxOTPAttempts int
}

// Register creates an unverified account and mails a verification code.
func (s *AccountService) Register(email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errValidation("a valid email address is required")
	}
	if len(password) < 8 {
		return nil, errValidation("password must be at least 8 characters")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    email,
		Password: hash,
		IsActive: true,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errConflict("an account with this email already exists")
		}
		return nil, err
	}

	if err := s.issueCode(&user, models.CodePurposeVerify, 0); err != nil {
		s.Logger.Warn("verification email failed", "email", email, "error", err)
	}
	return &user, nil
}

// Login checks credentials and returns a signed JWT. Unknown email and bad
// password produce the same error.
func (s *AccountService) Login(email, password string) (string, *models.User, error) {
	var user models.User
	err := s.DB.Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error
	if err != nil || !utils.CheckPassword(password, user.Password) {
		return "", nil, errUnauthorized("invalid credentials")
	}

	token, err := utils.GenerateJWT(user, s.JWTSecret, s.JWTTTL)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// CompleteOnboarding records the user's name and marks onboarding done.
// Requires a verified email first; completing again just overwrites the name.
func (s *AccountService) CompleteOnboarding(userID uint, firstName, lastName string) (*models.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, errValidation("first and last name are required")
	}

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return nil, errNotFound("account not found")
	}
	if !user.IsVerified {
		return nil, errValidation("email must be verified before completing onboarding")
	}

	err := s.DB.Model(&user).Updates(map[string]any{
		"first_name":           firstName,
		"last_name":            lastName,
		"onboarding_completed": true,
	}).Error
	if err != nil {
		return nil, err
	}
	user.FirstName = firstName
	user.LastName = lastName
	user.OnboardingCompleted = true
	return &user, nil
}

// RequestVerification (re)sends a verification code. The response never
// reveals whether the account exists or is already verified; only the
// resend cooldown surfaces as an error.
func (s *AccountService) RequestVerification(email string) error {
	var user models.User
	err := s.DB.Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error
	if err != nil || user.IsVerified {
		return nil
	}

	active, err := s.activeCode(user.ID, models.CodePurposeVerify)
	if err != nil {
		return err
	}
	resendCount := 0
	if active != nil {
		if active.LastSentAt != nil && s.Clock.Now().Sub(*active.LastSentAt) < s.ResendCooldown {
			return errRateLimited("please wait before requesting another code")
		}
		if active.ResendCount >= s.MaxResends {
			return errRateLimited("too many verification attempts, try again later")
		}
		resendCount = active.ResendCount + 1
		if err := s.DB.Model(active).Update("is_used", true).Error; err != nil {
			return err
		}
	}
	return s.issueCode(&user, models.CodePurposeVerify, resendCount)
}

// ConfirmVerification checks the submitted code and marks the account
// verified.
func (s *AccountService) ConfirmVerification(email, otp string) error {
	var user models.User
	err := s.DB.Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		return errNotFound("account not found")
	}
	if user.IsVerified {
		return errValidation("account already verified")
	}

	if err := s.consumeCode(&user, models.CodePurposeVerify, otp); err != nil {
		return err
	}
	return s.DB.Model(&user).Update("is_verified", true).Error
}

// RequestPasswordReset mails a reset code. Always generic success so
// account existence stays hidden.
func (s *AccountService) RequestPasswordReset(email string) error {
	var user models.User
	err := s.DB.Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		return nil
	}

	active, err := s.activeCode(user.ID, models.CodePurposeReset)
	if err != nil {
		return err
	}
	if active != nil {
		if active.LastSentAt != nil && s.Clock.Now().Sub(*active.LastSentAt) < s.ResendCooldown {
			return errRateLimited("please wait before requesting another code")
		}
		if err := s.DB.Model(active).Update("is_used", true).Error; err != nil {
			return err
		}
	}
	return s.issueCode(&user, models.CodePurposeReset, 0)
}

// ConfirmPasswordReset validates the code and sets the new password.
func (s *AccountService) ConfirmPasswordReset(email, otp, newPassword string) error {
	if len(newPassword) < 8 {
		return errValidation("password must be at least 8 characters")
	}

	var user models.User
	err := s.DB.Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		// Same error as a bad code, so the response shape stays uniform.
		return errValidation("invalid or expired code")
	}

	if err := s.consumeCode(&user, models.CodePurposeReset, otp); err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.DB.Model(&user).Update("password", hash).Error
}

// issueCode creates and mails a fresh OTP for the given purpose.
func (s *AccountService) issueCode(user *models.User, purpose string, resendCount int) error {
	otp, err := utils.GenerateOTP()
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(otp)
	if err != nil {
		return err
	}

	ttl := s.OTPTTL
	if purpose == models.CodePurposeReset {
		ttl = s.ResetOTPTTL
	}
	now := s.Clock.Now()
	code := models.EmailCode{
		UserID:      user.ID,
		Purpose:     purpose,
		CodeHash:    hash,
		ExpiresAt:   now.Add(ttl),
		ResendCount: resendCount,
		LastSentAt:  &now,
		CreatedAt:   now,
	}
	if err := s.DB.Create(&code).Error; err != nil {
		return err
	}

	var sent bool
	if purpose == models.CodePurposeReset {
		sent = s.Notifier.SendPasswordReset(user.Email, otp)
	} else {
		sent = s.Notifier.SendVerification(user.Email, otp)
	}
	if !sent {
		s.Logger.Warn("code email failed", "email", user.Email, "purpose", purpose)
	}
	return nil
}

// activeCode returns the newest unused, unexpired code, or nil.
func (s *AccountService) activeCode(userID uint, purpose string) (*models.EmailCode, error) {
	var code models.EmailCode
	err := s.DB.
		Where("user_id = ? AND purpose = ? AND is_used = ? AND expires_at > ?",
			userID, purpose, false, s.Clock.Now()).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

// consumeCode verifies the OTP against the active code, counting attempts
// and expiring on overuse. A matching code is single use.
func (s *AccountService) consumeCode(user *models.User, purpose, otp string) error {
	code, err := s.activeCode(user.ID, purpose)
	if err != nil {
		return err
	}
	if code == nil {
		return errExpired("invalid or expired code")
	}
	if code.Attempts >= s.MaxOTPAttempts {
		if err := s.DB.Model(code).Update("is_used", true).Error; err != nil {
			return err
		}
		return errRateLimited("too many attempts, request a new code")
	}

	if !utils.CheckPassword(otp, code.CodeHash) {
		if err := s.DB.Model(code).Update("attempts", code.Attempts+1).Error; err != nil {
			return err
		}
		return errValidation("invalid or expired code")
	}

	return s.DB.Model(code).Update("is_used", true).Error
}
