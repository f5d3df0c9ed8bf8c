package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/gin-gonic/gin"
)

func CreateClientHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageClients); err != nil {
		respondError(c, "CreateClientHandler", err)
		return
	}

	var input models.NewClient
	if !bindJSON(c, &input) {
		return
	}

	client, err := models.CreateClient(ctx, &input)
	if err != nil {
		respondError(c, "CreateClientHandler", err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func GetClientHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	client, err := models.GetClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetClientHandler", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func GetClientsHandler(c *gin.Context) {
	name := c.Query("name")
	clients, err := models.GetClients(c.Request.Context(), utils.NilIfEmpty(name))
	if err != nil {
		respondError(c, "GetClientsHandler", err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func UpdateClientHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageClients); err != nil {
		respondError(c, "UpdateClientHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewClient
	if !bindJSON(c, &input) {
		return
	}

	client, err := models.UpdateClient(ctx, id, &input)
	if err != nil {
		respondError(c, "UpdateClientHandler", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func DeleteClientHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageClients); err != nil {
		respondError(c, "DeleteClientHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	client, err := models.DeleteClient(ctx, id)
	if err != nil {
		respondError(c, "DeleteClientHandler", err)
		return
	}
	c.JSON(http.StatusOK, client)
}
