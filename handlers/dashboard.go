package handlers

import (
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"bitbucket.org/mmdatafocus/distribution_backend/models/reports"
	"github.com/gin-gonic/gin"
)

func dashboardParams(c *gin.Context) (int, time.Time, bool) {
	routeId, err := strconv.Atoi(c.Query("route_id"))
	if err != nil || routeId <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid route_id"})
		return 0, time.Time{}, false
	}

	date := time.Now()
	if v := c.Query("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return 0, time.Time{}, false
		}
		date = parsed
	}
	return routeId, date, true
}

func ProductionDashboardHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionViewDashboard); err != nil {
		respondError(c, "ProductionDashboardHandler", err)
		return
	}

	routeId, date, ok := dashboardParams(c)
	if !ok {
		return
	}

	dashboard, err := reports.GetProductionDashboard(ctx, routeId, date)
	if err != nil {
		respondError(c, "ProductionDashboardHandler", err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func ProductionDashboardExcelHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionViewDashboard); err != nil {
		respondError(c, "ProductionDashboardExcelHandler", err)
		return
	}

	routeId, date, ok := dashboardParams(c)
	if !ok {
		return
	}

	dashboard, err := reports.GetProductionDashboard(ctx, routeId, date)
	if err != nil {
		respondError(c, "ProductionDashboardExcelHandler", err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=production.xlsx")
	if err := reports.WriteProductionDashboardExcel(c.Writer, dashboard); err != nil {
		respondError(c, "ProductionDashboardExcelHandler", err)
	}
}
