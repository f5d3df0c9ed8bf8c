package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateUserHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageUsers); err != nil {
		respondError(c, "CreateUserHandler", err)
		return
	}

	var input models.NewUser
	if !bindJSON(c, &input) {
		return
	}

	user, err := models.CreateUser(ctx, &input)
	if err != nil {
		respondError(c, "CreateUserHandler", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func GetUserHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	user, err := models.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetUserHandler", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func GetUsersHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageUsers); err != nil {
		respondError(c, "GetUsersHandler", err)
		return
	}
	users, err := models.GetAllUsers(ctx)
	if err != nil {
		respondError(c, "GetUsersHandler", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func UpdateUserHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageUsers); err != nil {
		respondError(c, "UpdateUserHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewUser
	if !bindJSON(c, &input) {
		return
	}

	user, err := models.UpdateUser(ctx, id, &input)
	if err != nil {
		respondError(c, "UpdateUserHandler", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func DeleteUserHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageUsers); err != nil {
		respondError(c, "DeleteUserHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	user, err := models.DeleteUser(ctx, id)
	if err != nil {
		respondError(c, "DeleteUserHandler", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
