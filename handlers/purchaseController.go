package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vyaparlabs/gstbooks_backend/models"
)

func CreatePurchaseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPurchase
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		purchase, err := models.CreatePurchase(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, purchase)
	}
}

func UpdatePurchaseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var input models.NewPurchase
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		purchase, err := models.UpdatePurchase(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, purchase)
	}
}

func DeletePurchaseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		purchase, err := models.DeletePurchase(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, purchase)
	}
}

func GetPurchaseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		purchase, err := models.GetPurchase(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, purchase)
	}
}

func ListPurchasesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.PurchaseFilter{
			SupplierId: queryInt(c, "supplierId"),
			Status:     models.PaymentStatus(c.Query("status")),
			StartDate:  c.Query("startDate"),
			EndDate:    c.Query("endDate"),
			Search:     c.Query("search"),
		}
		purchases, err := models.ListPurchases(c.Request.Context(), &filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, purchases)
	}
}

func RecordPurchasePaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var req recordPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		purchase, err := models.RecordPurchasePayment(c.Request.Context(), id, req.Amount, req.PaymentMode)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, purchase)
	}
}
