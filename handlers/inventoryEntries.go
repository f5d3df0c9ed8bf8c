package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func CreateInventoryEntryHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionCreateEntry); err != nil {
		respondError(c, "CreateInventoryEntryHandler", err)
		return
	}

	var input models.NewInventoryEntry
	if !bindJSON(c, &input) {
		return
	}

	entry, err := models.CreateInventoryEntry(ctx, &input)
	if err != nil {
		respondError(c, "CreateInventoryEntryHandler", err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func GetInventoryEntryHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	entry, err := models.GetInventoryEntry(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetInventoryEntryHandler", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func PaginateInventoryEntriesHandler(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}
	after := utils.NilIfEmpty(c.Query("after"))

	var entryType *models.InventoryEntryType
	if v := c.Query("entry_type"); v != "" {
		t := models.InventoryEntryType(v)
		entryType = &t
	}
	var status *models.InventoryEntryStatus
	if v := c.Query("status"); v != "" {
		s := models.InventoryEntryStatus(v)
		status = &s
	}

	connection, err := models.PaginateInventoryEntries(c.Request.Context(), limit, after, entryType, status)
	if err != nil {
		respondError(c, "PaginateInventoryEntriesHandler", err)
		return
	}
	c.JSON(http.StatusOK, connection)
}

func UpdateInventoryEntryHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionCreateEntry); err != nil {
		respondError(c, "UpdateInventoryEntryHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.UpdateInventoryEntryInput
	if !bindJSON(c, &input) {
		return
	}

	entry, err := models.UpdateInventoryEntry(ctx, id, &input)
	if err != nil {
		respondError(c, "UpdateInventoryEntryHandler", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func DeleteInventoryEntryHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionDeleteEntry); err != nil {
		respondError(c, "DeleteInventoryEntryHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	entry, err := models.DeleteInventoryEntry(ctx, id)
	if err != nil {
		respondError(c, "DeleteInventoryEntryHandler", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func SubmitInventoryEntryHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionSubmitEntry); err != nil {
		respondError(c, "SubmitInventoryEntryHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	entry, err := models.SubmitInventoryEntry(ctx, id)
	if err != nil {
		respondError(c, "SubmitInventoryEntryHandler", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func ApproveInventoryEntryHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionApproveEntry); err != nil {
		respondError(c, "ApproveInventoryEntryHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	entry, err := models.ApproveInventoryEntry(ctx, id)
	if err != nil {
		respondError(c, "ApproveInventoryEntryHandler", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func CompleteInventoryEntryHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionCompleteEntry); err != nil {
		respondError(c, "CompleteInventoryEntryHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	entry, err := models.CompleteInventoryEntry(ctx, id)
	if err != nil {
		respondError(c, "CompleteInventoryEntryHandler", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func CancelInventoryEntryHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionCancelEntry); err != nil {
		respondError(c, "CancelInventoryEntryHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	entry, err := models.CancelInventoryEntry(ctx, id)
	if err != nil {
		respondError(c, "CancelInventoryEntryHandler", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

type batchUpdateRequest struct {
	Ids    []int                       `json:"ids" binding:"required"`
	Status models.InventoryEntryStatus `json:"status" binding:"required"`
}

func BatchUpdateInventoryEntryStatusHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionBatchUpdateEntry); err != nil {
		respondError(c, "BatchUpdateInventoryEntryStatusHandler", err)
		return
	}

	var input batchUpdateRequest
	if !bindJSON(c, &input) {
		return
	}

	entries, err := models.BatchUpdateInventoryEntryStatus(ctx, input.Ids, input.Status)
	if err != nil {
		respondError(c, "BatchUpdateInventoryEntryStatusHandler", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func ValidateInventoryEntryHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	result, err := models.ValidateInventoryEntry(c.Request.Context(), id)
	if err != nil {
		respondError(c, "ValidateInventoryEntryHandler", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type quickAdjustmentRequest struct {
	ProductId int             `json:"product_id" binding:"required"`
	Delta     decimal.Decimal `json:"delta" binding:"required"`
	Reason    string          `json:"reason" binding:"required"`
}

func QuickStockAdjustmentHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionAdjustStock); err != nil {
		respondError(c, "QuickStockAdjustmentHandler", err)
		return
	}

	var input quickAdjustmentRequest
	if !bindJSON(c, &input) {
		return
	}

	entry, err := models.QuickStockAdjustment(ctx, input.ProductId, input.Delta, input.Reason)
	if err != nil {
		respondError(c, "QuickStockAdjustmentHandler", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func GetInventoryEntrySummaryHandler(c *gin.Context) {
	rows, err := models.GetInventoryEntrySummary(c.Request.Context())
	if err != nil {
		respondError(c, "GetInventoryEntrySummaryHandler", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
