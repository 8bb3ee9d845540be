package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vyaparlabs/gstbooks_backend/models/reports"
)

func DashboardStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := reports.GetDashboardStats(c.Request.Context())
		if err != nil {
			respondInternalError(c, "dashboardController.go", "DashboardStatsHandler", err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func DashboardChartsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		charts, err := reports.GetDashboardCharts(c.Request.Context())
		if err != nil {
			respondInternalError(c, "dashboardController.go", "DashboardChartsHandler", err)
			return
		}
		c.JSON(http.StatusOK, charts)
	}
}
