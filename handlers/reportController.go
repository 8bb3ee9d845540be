package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/vyaparlabs/gstbooks_backend/models/reports"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func GstSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := reports.GetGstSummaryReport(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func GstSummaryExcelHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := reports.GetGstSummaryReport(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			respondError(c, err)
			return
		}
		f, err := reports.GstSummaryExcel(report)
		if err != nil {
			respondInternalError(c, "reportController.go", "GstSummaryExcelHandler", err)
			return
		}
		writeExcel(c, f, "gst-summary.xlsx")
	}
}

func ProfitAndLossHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := reports.GetProfitAndLossReport(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func ProfitAndLossExcelHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := reports.GetProfitAndLossReport(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			respondError(c, err)
			return
		}
		f, err := reports.ProfitAndLossExcel(report)
		if err != nil {
			respondInternalError(c, "reportController.go", "ProfitAndLossExcelHandler", err)
			return
		}
		writeExcel(c, f, "profit-and-loss.xlsx")
	}
}

func writeExcel(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Type", excelContentType)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		respondInternalError(c, "reportController.go", "writeExcel", err)
	}
}
