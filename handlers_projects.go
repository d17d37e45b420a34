package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/projects_backend/models"
)

func activeProjectsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := models.GetActiveProjects(c.Request.Context())
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func completedProjectsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := models.GetCompletedProjects(c.Request.Context())
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func projectDetailsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		view, err := models.GetProjectDetails(c.Request.Context(), id)
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func createProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProject
		if err := c.ShouldBindJSON(&input); err != nil {
			writeBindError(c, err)
			return
		}
		project, err := models.CreateProject(c.Request.Context(), &input)
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusCreated, project)
	}
}

// updateProjectHandler applies a partial update; unknown fields are rejected
// rather than ignored.
func updateProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var fields map[string]any
		if err := c.ShouldBindJSON(&fields); err != nil {
			writeBindError(c, err)
			return
		}
		project, err := models.UpdateProjectFields(c.Request.Context(), id, fields)
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

func deleteProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		project, err := models.DeleteProject(c.Request.Context(), id)
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "project deleted", "project": project})
	}
}
