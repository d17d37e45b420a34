package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/projects_backend/models"
	"github.com/mmdatafocus/projects_backend/workflow"
)

func listForecastHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := models.GetForecastEntries(c.Request.Context())
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

func addForecastHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewForecastItem
		if err := c.ShouldBindJSON(&input); err != nil {
			writeBindError(c, err)
			return
		}
		entry, err := models.AddForecastItem(c.Request.Context(), &input)
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusCreated, entry)
	}
}

func deleteForecastHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		item, err := models.DeleteForecastItem(c.Request.Context(), id)
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "forecast item deleted", "item": item})
	}
}

func toggleForecastHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := workflow.ToggleForecastCompletion(c.Request.Context(), id)
		if err != nil {
			writeModelError(c, err)
			return
		}
		message := "forecast toggled"
		if result.ProjectUpdated {
			message = "forecast toggled, project status updated"
		}
		c.JSON(http.StatusOK, gin.H{
			"message":         message,
			"entry":           result.Entry,
			"project_updated": result.ProjectUpdated,
		})
	}
}

// dashboardSegment reads the business-segment filter. The canonical query
// parameter is business_segment; ds is kept as an alias for older clients.
func dashboardSegment(c *gin.Context) string {
	if segment := c.Query("business_segment"); segment != "" {
		return segment
	}
	return c.DefaultQuery("ds", "all")
}

func dashboardMetricsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics, err := models.GetDashboardMetrics(c.Request.Context(), dashboardSegment(c))
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, metrics)
	}
}
