package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/gin-gonic/gin"
)

func CreateRouteHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageRoutes); err != nil {
		respondError(c, "CreateRouteHandler", err)
		return
	}

	var input models.NewRoute
	if !bindJSON(c, &input) {
		return
	}

	route, err := models.CreateRoute(ctx, &input)
	if err != nil {
		respondError(c, "CreateRouteHandler", err)
		return
	}
	c.JSON(http.StatusCreated, route)
}

func GetRouteHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	route, err := models.GetRoute(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetRouteHandler", err)
		return
	}
	c.JSON(http.StatusOK, route)
}

func GetRoutesHandler(c *gin.Context) {
	name := c.Query("name")
	routes, err := models.GetRoutes(c.Request.Context(), utils.NilIfEmpty(name))
	if err != nil {
		respondError(c, "GetRoutesHandler", err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

func UpdateRouteHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageRoutes); err != nil {
		respondError(c, "UpdateRouteHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewRoute
	if !bindJSON(c, &input) {
		return
	}

	route, err := models.UpdateRoute(ctx, id, &input)
	if err != nil {
		respondError(c, "UpdateRouteHandler", err)
		return
	}
	c.JSON(http.StatusOK, route)
}

func DeleteRouteHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageRoutes); err != nil {
		respondError(c, "DeleteRouteHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	route, err := models.DeleteRoute(ctx, id)
	if err != nil {
		respondError(c, "DeleteRouteHandler", err)
		return
	}
	c.JSON(http.StatusOK, route)
}
