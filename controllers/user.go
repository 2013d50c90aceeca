package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Cyberod/Taskify-Backend/middleware"
	"github.com/Cyberod/Taskify-Backend/models"
	"github.com/Cyberod/Taskify-Backend/services"
)

type UserController struct {
	DB       *gorm.DB
	Accounts *services.AccountService
	Logger   *slog.Logger
}

func (uc *UserController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

type profileUpdate struct {
	AvatarURL *string `json:"avatar_url"`
}

func (uc *UserController) UpdateMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req profileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.AvatarURL != nil {
		if err := uc.DB.Model(user).Update("avatar_url", *req.AvatarURL).Error; err != nil {
			respondError(c, uc.Logger, err)
			return
		}
		user.AvatarURL = *req.AvatarURL
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) OnboardingStatus(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id":              user.ID,
		"email":                user.Email,
		"is_verified":          user.IsVerified,
		"onboarding_completed": user.OnboardingCompleted,
		"requires_onboarding":  !user.OnboardingCompleted,
	})
}

type onboardingRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (uc *UserController) CompleteOnboarding(c *gin.Context) {
	var req onboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := uc.Accounts.CompleteOnboarding(middleware.CurrentUser(c).ID, req.FirstName, req.LastName)
	if err != nil {
		respondError(c, uc.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Onboarding completed",
		"user":    user,
	})
}

func (uc *UserController) GetUsers(c *gin.Context) {
	var users []models.User
	if err := uc.DB.Order("created_at ASC").Find(&users).Error; err != nil {
		respondError(c, uc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
