package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func LoginHandler(c *gin.Context) {
	var input loginRequest
	if !bindJSON(c, &input) {
		return
	}

	info, err := models.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func ChangePasswordHandler(c *gin.Context) {
	var input changePasswordRequest
	if !bindJSON(c, &input) {
		return
	}

	user, err := models.ChangePassword(c.Request.Context(), input.OldPassword, input.NewPassword)
	if err != nil {
		respondError(c, "ChangePasswordHandler", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
