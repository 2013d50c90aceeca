package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Cyberod/Taskify-Backend/middleware"
	"github.com/Cyberod/Taskify-Backend/services"
)

type InviteController struct {
	Invites *services.InviteService
	Logger  *slog.Logger
}

func (ic *InviteController) CreateInvite(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invite, sent, err := ic.Invites.Create(projectID, req.Email, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, ic.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"invite":     invite,
		"email_sent": sent,
	})
}

func (ic *InviteController) GetInvites(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	invites, err := ic.Invites.ListForProject(projectID, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, ic.Logger, err)
		return
	}
	c.JSON(http.StatusOK, invites)
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (ic *InviteController) AcceptInvite(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := ic.Invites.Accept(req.Token, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, ic.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Successfully joined the project",
		"membership": summary,
	})
}

func (ic *InviteController) DeclineInvite(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invite, err := ic.Invites.Decline(req.Token)
	if err != nil {
		respondError(c, ic.Logger, err)
		return
	}
	c.JSON(http.StatusOK, invite)
}

func (ic *InviteController) CancelInvite(c *gin.Context) {
	inviteID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ic.Invites.Cancel(inviteID, middleware.CurrentUser(c).ID); err != nil {
		respondError(c, ic.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invite cancelled"})
}
