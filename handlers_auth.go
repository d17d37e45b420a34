package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/projects_backend/models"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func registerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			writeBindError(c, err)
			return
		}
		user, err := models.RegisterUser(c.Request.Context(), &input)
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input loginRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			writeBindError(c, err)
			return
		}
		info, err := models.Login(c.Request.Context(), input.Username, input.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := models.Logout(c.Request.Context()); err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

func profileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := models.GetProfile(c.Request.Context())
		if err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// changePasswordHandler also revokes every live session for the user, so the
// client must log in again with the new password.
func changePasswordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input changePasswordRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			writeBindError(c, err)
			return
		}
		if _, err := models.ChangePassword(c.Request.Context(), input.OldPassword, input.NewPassword); err != nil {
			writeModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "password changed, please log in again"})
	}
}
