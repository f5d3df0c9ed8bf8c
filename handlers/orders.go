package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateOrderHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageOrders); err != nil {
		respondError(c, "CreateOrderHandler", err)
		return
	}

	var input models.NewOrder
	if !bindJSON(c, &input) {
		return
	}

	order, err := models.CreateOrder(ctx, &input)
	if err != nil {
		respondError(c, "CreateOrderHandler", err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func GetOrderHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	order, err := models.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetOrderHandler", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func GetOrdersHandler(c *gin.Context) {
	var routeId *int
	if v := c.Query("route_id"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid route_id"})
			return
		}
		routeId = &parsed
	}
	var status *models.OrderStatus
	if v := c.Query("status"); v != "" {
		s := models.OrderStatus(v)
		status = &s
	}

	orders, err := models.GetOrders(c.Request.Context(), routeId, status)
	if err != nil {
		respondError(c, "GetOrdersHandler", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type orderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func UpdateOrderStatusHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageOrders); err != nil {
		respondError(c, "UpdateOrderStatusHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	var input orderStatusRequest
	if !bindJSON(c, &input) {
		return
	}

	order, err := models.UpdateOrderStatus(ctx, id, input.Status)
	if err != nil {
		respondError(c, "UpdateOrderStatusHandler", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func DeleteOrderHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageOrders); err != nil {
		respondError(c, "DeleteOrderHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	order, err := models.DeleteOrder(ctx, id)
	if err != nil {
		respondError(c, "DeleteOrderHandler", err)
		return
	}
	c.JSON(http.StatusOK, order)
}
