package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/projects_backend/models"
)

func saveMrfHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewMrf
		if err := c.ShouldBindJSON(&input); err != nil {
			writeBindError(c, err)
			return
		}
		request, err := models.SaveMrf(c.Request.Context(), &input)
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, request)
	}
}

func getMrfHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		formNo := strings.TrimSpace(c.Param("formNo"))
		if formNo == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "form number is required"})
			return
		}
		request, err := models.GetMrfByFormNo(c.Request.Context(), formNo)
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, request)
	}
}

func mrfItemsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := models.GetAllMrfItems(c.Request.Context())
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

func mrfItemDetailHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		entry, err := models.GetMrfItem(c.Request.Context(), id)
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

func updateMrfItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.MrfItemUpdate
		if err := c.ShouldBindJSON(&input); err != nil {
			writeBindError(c, err)
			return
		}
		entry, err := models.UpdateMrfItem(c.Request.Context(), id, &input)
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}
