package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vyaparlabs/gstbooks_backend/models/reports"
)

func Gstr1Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		month, year, ok := monthYearParams(c)
		if !ok {
			return
		}
		report, err := reports.GetGstr1Report(c.Request.Context(), month, year)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func Gstr2Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		month, year, ok := monthYearParams(c)
		if !ok {
			return
		}
		report, err := reports.GetGstr2Report(c.Request.Context(), month, year)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func Gstr3bHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		month, year, ok := monthYearParams(c)
		if !ok {
			return
		}
		report, err := reports.GetGstr3bReport(c.Request.Context(), month, year)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func HsnSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		month, year, ok := monthYearParams(c)
		if !ok {
			return
		}
		report, err := reports.GetHsnSummaryReport(c.Request.Context(), month, year)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
