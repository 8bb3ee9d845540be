package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/vyaparlabs/gstbooks_backend/models"
)

func CreateProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProduct
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		product, err := models.CreateProduct(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var input models.NewProduct
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		product, err := models.UpdateProduct(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func DeleteProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		product, err := models.DeleteProduct(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func GetProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		product, err := models.GetProduct(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func ListProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := models.ListProducts(c.Request.Context(), c.Query("search"))
		if err != nil {
			respondInternalError(c, "productController.go", "ListProductsHandler", err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

type adjustStockRequest struct {
	Quantity decimal.Decimal         `json:"quantity" binding:"required"`
	Reason   models.AdjustmentReason `json:"reason"`
	Notes    string                  `json:"notes"`
}

func AdjustStockHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var req adjustStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		adjustment, err := models.AdjustStock(c.Request.Context(), &models.NewInventoryAdjustment{
			ProductId: id,
			Quantity:  req.Quantity,
			Reason:    req.Reason,
			Notes:     req.Notes,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, adjustment)
	}
}

func ListInventoryAdjustmentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		adjustments, err := models.ListInventoryAdjustments(c.Request.Context(), queryInt(c, "productId"))
		if err != nil {
			respondInternalError(c, "productController.go", "ListInventoryAdjustmentsHandler", err)
			return
		}
		c.JSON(http.StatusOK, adjustments)
	}
}
