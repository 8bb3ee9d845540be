package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vyaparlabs/gstbooks_backend/config"
	"github.com/vyaparlabs/gstbooks_backend/utils"
)

// respondError maps model-layer errors onto the HTTP taxonomy: missing
// records are 404, everything else from the model layer is treated as a
// validation failure.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, utils.ErrorRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// respondInternalError logs the detail and returns a generic message. The
// correlation id ties the log line back to the failing request.
func respondInternalError(c *gin.Context, module string, funcName string, err error) {
	logger := config.GetLogger()
	detail := "request failed"
	if correlationId, ok := utils.GetCorrelationIdFromContext(c.Request.Context()); ok {
		detail = "request failed [" + correlationId + "]"
	}
	config.LogError(logger, module, funcName, detail, nil, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func paramId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

// monthYearParams reads the ?month&year pair the GST views work on.
func monthYearParams(c *gin.Context) (int, int, bool) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month is required"})
		return 0, 0, false
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year is required"})
		return 0, 0, false
	}
	return month, year, true
}
