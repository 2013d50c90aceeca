package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Cyberod/Taskify-Backend/middleware"
	"github.com/Cyberod/Taskify-Backend/services"
)

type ProjectController struct {
	Projects *services.ProjectService
	Logger   *slog.Logger
}

// parseID converts a path parameter to uint with error handling.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func (pc *ProjectController) CreateProject(c *gin.Context) {
	var req services.ProjectCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := pc.Projects.Create(req, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, pc.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (pc *ProjectController) GetProjects(c *gin.Context) {
	projects, err := pc.Projects.List(middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, pc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (pc *ProjectController) GetProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	project, err := pc.Projects.Get(id, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, pc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (pc *ProjectController) UpdateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.ProjectUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := pc.Projects.Update(id, req, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, pc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (pc *ProjectController) ArchiveProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	project, err := pc.Projects.Archive(id, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, pc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (pc *ProjectController) DeleteProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := pc.Projects.Delete(id, middleware.CurrentUser(c).ID); err != nil {
		respondError(c, pc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
