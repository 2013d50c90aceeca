package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Cyberod/Taskify-Backend/middleware"
	"github.com/Cyberod/Taskify-Backend/services"
)

type AnalyticsController struct {
	Analytics *services.AnalyticsService
	Logger    *slog.Logger
}

func (ac *AnalyticsController) GetCompletion(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	stats, err := ac.Analytics.CompletionStats(projectID, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, ac.Logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (ac *AnalyticsController) GetHealth(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	stats, err := ac.Analytics.CompletionStats(projectID, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, ac.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"project_id":          stats.ProjectID,
		"health_status":       stats.HealthStatus,
		"days_until_deadline": stats.DaysUntilDeadline,
		"color_code":          stats.ColorCode,
	})
}

func (ac *AnalyticsController) GetContributions(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	contributions, err := ac.Analytics.Contributions(projectID, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, ac.Logger, err)
		return
	}
	c.JSON(http.StatusOK, contributions)
}

func (ac *AnalyticsController) GetDashboard(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	dashboard, err := ac.Analytics.Dashboard(projectID, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, ac.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (ac *AnalyticsController) GetMyMetrics(c *gin.Context) {
	user := middleware.CurrentUser(c)

	metrics, err := ac.Analytics.UserMetrics(user.ID, user)
	if err != nil {
		respondError(c, ac.Logger, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (ac *AnalyticsController) GetUserMetrics(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	metrics, err := ac.Analytics.UserMetrics(userID, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, ac.Logger, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (ac *AnalyticsController) GetTeamProductivity(c *gin.Context) {
	topN := 5
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			topN = n
		}
	}

	metrics, err := ac.Analytics.TeamProductivity(middleware.CurrentUser(c), topN)
	if err != nil {
		respondError(c, ac.Logger, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}
