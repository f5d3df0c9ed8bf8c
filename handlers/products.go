package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/gin-gonic/gin"
)

func CreateProductHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageProducts); err != nil {
		respondError(c, "CreateProductHandler", err)
		return
	}

	var input models.NewProduct
	if !bindJSON(c, &input) {
		return
	}

	product, err := models.CreateProduct(ctx, &input)
	if err != nil {
		respondError(c, "CreateProductHandler", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func GetProductHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	product, err := models.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetProductHandler", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func GetProductsHandler(c *gin.Context) {
	name := c.Query("name")
	products, err := models.GetProducts(c.Request.Context(), utils.NilIfEmpty(name))
	if err != nil {
		respondError(c, "GetProductsHandler", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func UpdateProductHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageProducts); err != nil {
		respondError(c, "UpdateProductHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewProduct
	if !bindJSON(c, &input) {
		return
	}

	product, err := models.UpdateProduct(ctx, id, &input)
	if err != nil {
		respondError(c, "UpdateProductHandler", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func DeleteProductHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := models.RequirePermission(ctx, models.ActionManageProducts); err != nil {
		respondError(c, "DeleteProductHandler", err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}
	product, err := models.DeleteProduct(ctx, id)
	if err != nil {
		respondError(c, "DeleteProductHandler", err)
		return
	}
	c.JSON(http.StatusOK, product)
}
