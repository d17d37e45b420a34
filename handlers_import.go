package main

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/projects_backend/models"
)

// respondImportSummary returns 207 when any row was skipped or warned about,
// 200 for a fully clean batch. The counts are always exact either way.
func respondImportSummary(c *gin.Context, summary *models.ImportSummary) {
	status := http.StatusOK
	if len(summary.Warnings) > 0 || summary.WarningsTruncated || summary.Skipped > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, summary)
}

// uploadProjectsHandler ingests a CSV or XLSX export uploaded as a multipart
// "file" field; the extension picks the parser.
func uploadProjectsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
			return
		}
		defer file.Close()

		var rows []map[string]any
		switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
		case ".csv":
			rows, err = models.ParseCsvProjects(file)
		case ".xlsx":
			rows, err = models.ParseXlsxProjects(file)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type, expected .csv or .xlsx"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		summary, err := models.ImportProjects(c.Request.Context(), rows, models.CsvWarningCap)
		if err != nil {
			writeModelError(c, err)
			return
		}
		respondImportSummary(c, summary)
	}
}

// bulkImportHandler ingests a JSON array of row objects, same pipeline as the
// file upload but with the tighter warning cap.
func bulkImportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []map[string]any
		if err := c.ShouldBindJSON(&rows); err != nil {
			writeBindError(c, err)
			return
		}
		if len(rows) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expected a non-empty array of rows"})
			return
		}
		summary, err := models.ImportProjects(c.Request.Context(), rows, models.JsonWarningCap)
		if err != nil {
			writeModelError(c, err)
			return
		}
		respondImportSummary(c, summary)
	}
}
