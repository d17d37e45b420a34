package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/projects_backend/models"
)

func listTasksHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		tasks, err := models.GetProjectTasks(c.Request.Context(), id)
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, tasks)
	}
}

func addTaskHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewProjectTask
		if err := c.ShouldBindJSON(&input); err != nil {
			writeBindError(c, err)
			return
		}
		task, err := models.AddProjectTask(c.Request.Context(), id, &input)
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusCreated, task)
	}
}

func updateTaskHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewProjectTask
		if err := c.ShouldBindJSON(&input); err != nil {
			writeBindError(c, err)
			return
		}
		task, err := models.UpdateProjectTask(c.Request.Context(), id, &input)
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

func deleteTaskHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		task, err := models.DeleteProjectTask(c.Request.Context(), id)
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "task deleted", "task": task})
	}
}
