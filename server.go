package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mmdatafocus/projects_backend/config"
	"github.com/mmdatafocus/projects_backend/middlewares"
	"github.com/mmdatafocus/projects_backend/models"
	"github.com/mmdatafocus/projects_backend/utils"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

// Role sets per mutation surface. Reads only need a session.
var (
	projectEditorRoles  = []string{models.RoleAdministrator, models.RoleDSEngineer}
	forecastEditorRoles = []string{models.RoleAdministrator, models.RoleFinance}
	mrfEditorRoles      = []string{models.RoleAdministrator, models.RoleProcurement}
	importRoles         = []string{models.RoleAdministrator, models.RoleDSEngineer}
	adminOnlyRoles      = []string{models.RoleAdministrator}
)

// Define a struct to represent the rate limiter.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func getRedisClient(redisAddress string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
	return client
}

// writeModelError maps the model error taxonomy onto HTTP statuses.
// Anything outside the known taxonomy is an infrastructure failure: it is
// logged with full context and surfaced as a sanitized 500.
func writeModelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, utils.ErrorDuplicateRecord):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate record"})
	case errors.Is(err, utils.ErrorCapacityExceeded):
		c.JSON(http.StatusBadRequest, gin.H{"error": "capacity exceeded"})
	case errors.Is(err, utils.ErrorInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		config.LogError(config.GetLogger(), "main", "writeModelError", c.FullPath(), c.Request.Method, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Shutdown coordination: SIGTERM triggers a graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP; until DB/Redis are ready, app endpoints
	// return 503.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow the startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate app endpoints on dependency readiness.
		if config.GetDB() == nil || config.GetRedisDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS:
	// - In production, require explicit allowlist via CORS_ALLOWED_ORIGINS.
	// - In non-production, allow all (developer convenience).
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true

	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(middlewares.SessionMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	// Static pages for the office dashboard.
	r.Static("/static", "./static")
	r.StaticFile("/", "./static/index.html")

	api := r.Group("/api")
	api.POST("/register", registerHandler())
	api.POST("/login", loginHandler())

	session := api.Group("")
	session.Use(middlewares.RequireSession())
	session.POST("/logout", logoutHandler())
	session.GET("/profile", profileHandler())
	session.POST("/change-password", changePasswordHandler())

	// Item routes live under /project/:id; collection routes under /projects.
	// Keeping them apart avoids wildcard/static conflicts in the route tree.
	session.GET("/projects", activeProjectsHandler())
	session.GET("/projects/completed", completedProjectsHandler())
	session.GET("/project/:id/details", projectDetailsHandler())
	session.POST("/projects", middlewares.RequireRole(projectEditorRoles...), createProjectHandler())
	session.PUT("/project/:id", middlewares.RequireRole(projectEditorRoles...), updateProjectHandler())
	session.DELETE("/project/:id", middlewares.RequireRole(adminOnlyRoles...), deleteProjectHandler())

	session.POST("/projects/upload", middlewares.RequireRole(importRoles...), uploadProjectsHandler())
	session.POST("/projects/bulk", middlewares.RequireRole(importRoles...), bulkImportHandler())

	session.GET("/project/:id/updates", listUpdatesHandler())
	session.POST("/project/:id/updates", middlewares.RequireRole(projectEditorRoles...), addUpdateHandler())
	session.DELETE("/updates/:id", middlewares.RequireRole(projectEditorRoles...), deleteUpdateHandler())
	session.POST("/updates/:id/toggle", middlewares.RequireRole(projectEditorRoles...), toggleUpdateHandler())
	session.GET("/updates-log", updatesLogHandler())

	session.GET("/forecast", listForecastHandler())
	session.POST("/forecast", middlewares.RequireRole(forecastEditorRoles...), addForecastHandler())
	session.DELETE("/forecast/:id", middlewares.RequireRole(forecastEditorRoles...), deleteForecastHandler())
	session.POST("/forecast/:id/toggle", middlewares.RequireRole(forecastEditorRoles...), toggleForecastHandler())
	session.GET("/dashboard-metrics", dashboardMetricsHandler())

	session.GET("/project/:id/tasks", listTasksHandler())
	session.POST("/project/:id/tasks", middlewares.RequireRole(projectEditorRoles...), addTaskHandler())
	session.PUT("/tasks/:id", middlewares.RequireRole(projectEditorRoles...), updateTaskHandler())
	session.DELETE("/tasks/:id", middlewares.RequireRole(projectEditorRoles...), deleteTaskHandler())

	session.POST("/mrf", middlewares.RequireRole(mrfEditorRoles...), saveMrfHandler())
	session.GET("/mrf-items", mrfItemsHandler())
	session.GET("/mrf/:formNo", getMrfHandler())
	session.GET("/mrf-items/:id", mrfItemDetailHandler())
	session.PUT("/mrf-items/:id", middlewares.RequireRole(mrfEditorRoles...), updateMrfItemHandler())

	r.NoRoute(customNotFoundHandler)

	// Start listening immediately (startup probe is TCP based).
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow disabling migrations
	// on startup and running them as a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping migrations on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/")
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

// Initialize a new RateLimiter instance.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Middleware function to check rate limits.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	key := c.ClientIP()

	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if exists == 0 {
		err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Next()
		return
	}

	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
