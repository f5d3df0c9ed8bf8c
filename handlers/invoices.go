package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateInvoiceHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageInvoices); err != nil {
		respondError(c, "CreateInvoiceHandler", err)
		return
	}

	var input models.NewInvoice
	if !bindJSON(c, &input) {
		return
	}

	invoice, err := models.CreateInvoiceFromOrder(ctx, &input)
	if err != nil {
		respondError(c, "CreateInvoiceHandler", err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func GetInvoiceHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	invoice, err := models.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetInvoiceHandler", err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func GetInvoicesHandler(c *gin.Context) {
	var clientId *int
	if v := c.Query("client_id"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
			return
		}
		clientId = &parsed
	}
	var status *models.InvoiceStatus
	if v := c.Query("status"); v != "" {
		s := models.InvoiceStatus(v)
		status = &s
	}

	invoices, err := models.GetInvoices(c.Request.Context(), clientId, status)
	if err != nil {
		respondError(c, "GetInvoicesHandler", err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

type invoiceStatusRequest struct {
	Status models.InvoiceStatus `json:"status" binding:"required"`
}

func UpdateInvoiceStatusHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageInvoices); err != nil {
		respondError(c, "UpdateInvoiceStatusHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	var input invoiceStatusRequest
	if !bindJSON(c, &input) {
		return
	}

	invoice, err := models.UpdateInvoiceStatus(ctx, id, input.Status)
	if err != nil {
		respondError(c, "UpdateInvoiceStatusHandler", err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func DeleteInvoiceHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageInvoices); err != nil {
		respondError(c, "DeleteInvoiceHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	invoice, err := models.DeleteInvoice(ctx, id)
	if err != nil {
		respondError(c, "DeleteInvoiceHandler", err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}
