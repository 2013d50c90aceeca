package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Cyberod/Taskify-Backend/constants"
	"github.com/Cyberod/Taskify-Backend/middleware"
	"github.com/Cyberod/Taskify-Backend/services"
)

type TaskController struct {
	Tasks  *services.TaskService
	Logger *slog.Logger
}

func (tc *TaskController) CreateTask(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.TaskCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := tc.Tasks.Create(projectID, req, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, tc.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (tc *TaskController) GetTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := tc.Tasks.Get(id, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, tc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) GetProjectTasks(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var filter services.TaskFilter
	if raw := c.Query("status"); raw != "" {
		status := constants.TaskStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("assignee_id"); raw != "" {
		id, err := parseQueryID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignee_id filter"})
			return
		}
		filter.AssigneeID = &id
	}

	tasks, err := tc.Tasks.ListForProject(projectID, middleware.CurrentUser(c).ID, filter)
	if err != nil {
		respondError(c, tc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (tc *TaskController) GetPoolTasks(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	tasks, err := tc.Tasks.PoolTasks(projectID, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, tc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (tc *TaskController) GetMyTasks(c *gin.Context) {
	tasks, err := tc.Tasks.MyTasks(middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, tc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (tc *TaskController) ClaimTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := tc.Tasks.Claim(id, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, tc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) UpdateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.TaskUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := tc.Tasks.Update(id, req, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, tc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) DeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := tc.Tasks.Delete(id, middleware.CurrentUser(c).ID); err != nil {
		respondError(c, tc.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
