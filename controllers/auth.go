package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Cyberod/Taskify-Backend/services"
)

type AuthController struct {
	Accounts *services.AccountService
	Logger   *slog.Logger
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.Accounts.Register(req.Email, req.Password)
	if err != nil {
		respondError(c, ac.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered, check your email for a verification code",
		"user":    user,
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := ac.Accounts.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, ac.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

type emailRequest struct {
	Email string `json:"email"`
}

func (ac *AuthController) RequestVerification(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ac.Accounts.RequestVerification(req.Email); err != nil {
		respondError(c, ac.Logger, err)
		return
	}

	// Same body whether or not the account exists.
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a code has been sent"})
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (ac *AuthController) ConfirmVerification(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ac.Accounts.ConfirmVerification(req.Email, req.OTP); err != nil {
		respondError(c, ac.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}

func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ac.Accounts.RequestPasswordReset(req.Email); err != nil {
		respondError(c, ac.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a code has been sent"})
}

type resetRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ac.Accounts.ConfirmPasswordReset(req.Email, req.OTP, req.NewPassword); err != nil {
		respondError(c, ac.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
