package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Cyberod/Taskify-Backend/constants"
	"github.com/Cyberod/Taskify-Backend/middleware"
	"github.com/Cyberod/Taskify-Backend/services"
)

type MemberController struct {
	Members *services.MemberService
	Logger  *slog.Logger
}

func (mc *MemberController) GetMembers(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	members, err := mc.Members.List(projectID, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, mc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

type roleChangeRequest struct {
	Role constants.ProjectRole `json:"role"`
}

func (mc *MemberController) ChangeRole(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userID")
	if !ok {
		return
	}

	var req roleChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := mc.Members.ChangeRole(projectID, userID, req.Role, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, mc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (mc *MemberController) RemoveMember(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userID")
	if !ok {
		return
	}

	if err := mc.Members.Remove(projectID, userID, middleware.CurrentUser(c).ID); err != nil {
		respondError(c, mc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}
