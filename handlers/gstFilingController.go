package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vyaparlabs/gstbooks_backend/models"
)

type calculateFilingRequest struct {
	Month int `json:"month" binding:"required"`
	Year  int `json:"year" binding:"required"`
}

func CalculateFilingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req calculateFilingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month and year are required"})
			return
		}
		filing, err := models.CalculateFiling(c.Request.Context(), req.Month, req.Year)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, filing)
	}
}

func MarkFiledHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		filing, err := models.MarkFiled(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, filing)
	}
}

func ListFilingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filings, err := models.ListFilings(c.Request.Context(), queryInt(c, "year"))
		if err != nil {
			respondInternalError(c, "gstFilingController.go", "ListFilingsHandler", err)
			return
		}
		c.JSON(http.StatusOK, filings)
	}
}

func DeleteFilingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		filing, err := models.DeleteFiling(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, filing)
	}
}
