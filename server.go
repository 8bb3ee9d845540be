package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/vyaparlabs/gstbooks_backend/config"
	"github.com/vyaparlabs/gstbooks_backend/handlers"
	"github.com/vyaparlabs/gstbooks_backend/middlewares"
	"github.com/vyaparlabs/gstbooks_backend/models"
)

const defaultPort = "8080"

// RateLimiter throttles by client IP using a redis counter per window.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	key := c.ClientIP()

	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if exists == 0 {
		err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Next()
		return
	}

	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func getRedisClient(redisAddress string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
}

// registerGstinValidator adds the `gstin` binding tag so request structs
// reject malformed GSTINs before the model layer runs.
func registerGstinValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
			return models.IsValidGstin(fl.Field().String())
		})
	}
}

// customErrorLogger logs only requests that accumulated gin errors.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func registerRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", handlers.RegisterHandler())
		auth.POST("/login", handlers.LoginHandler())
		auth.POST("/forgot-password", handlers.ForgotPasswordHandler())
		auth.POST("/reset-password", handlers.ResetPasswordHandler())
	}

	api := r.Group("/api", middlewares.AuthMiddleware())
	{
		api.GET("/clients", handlers.ListClientsHandler())
		api.POST("/clients", handlers.CreateClientHandler())
		api.GET("/clients/:id", handlers.GetClientHandler())
		api.PUT("/clients/:id", handlers.UpdateClientHandler())
		api.DELETE("/clients/:id", handlers.DeleteClientHandler())
		api.GET("/clients/:id/ledger", handlers.GetClientLedgerHandler())

		api.GET("/suppliers", handlers.ListSuppliersHandler())
		api.POST("/suppliers", handlers.CreateSupplierHandler())
		api.GET("/suppliers/:id", handlers.GetSupplierHandler())
		api.PUT("/suppliers/:id", handlers.UpdateSupplierHandler())
		api.DELETE("/suppliers/:id", handlers.DeleteSupplierHandler())
		api.GET("/suppliers/:id/ledger", handlers.GetSupplierLedgerHandler())

		api.GET("/products", handlers.ListProductsHandler())
		api.POST("/products", handlers.CreateProductHandler())
		api.GET("/products/:id", handlers.GetProductHandler())
		api.PUT("/products/:id", handlers.UpdateProductHandler())
		api.DELETE("/products/:id", handlers.DeleteProductHandler())
		api.POST("/products/:id/adjust-stock", handlers.AdjustStockHandler())
		api.GET("/inventory-adjustments", handlers.ListInventoryAdjustmentsHandler())

		api.GET("/sales", handlers.ListSalesHandler())
		api.POST("/sales", handlers.CreateSaleHandler())
		api.GET("/sales/:id", handlers.GetSaleHandler())
		api.PUT("/sales/:id", handlers.UpdateSaleHandler())
		api.DELETE("/sales/:id", handlers.DeleteSaleHandler())
		api.GET("/sales/:id/invoice", handlers.SaleInvoicePdfHandler())
		api.POST("/sales/:id/payments", handlers.RecordSalePaymentHandler())

		api.GET("/purchases", handlers.ListPurchasesHandler())
		api.POST("/purchases", handlers.CreatePurchaseHandler())
		api.GET("/purchases/:id", handlers.GetPurchaseHandler())
		api.PUT("/purchases/:id", handlers.UpdatePurchaseHandler())
		api.DELETE("/purchases/:id", handlers.DeletePurchaseHandler())
		api.POST("/purchases/:id/payments", handlers.RecordPurchasePaymentHandler())

		api.GET("/expenses", handlers.ListExpensesHandler())
		api.POST("/expenses", handlers.CreateExpenseHandler())
		api.GET("/expenses/:id", handlers.GetExpenseHandler())
		api.PUT("/expenses/:id", handlers.UpdateExpenseHandler())
		api.DELETE("/expenses/:id", handlers.DeleteExpenseHandler())

		api.GET("/gst/gstr1", handlers.Gstr1Handler())
		api.GET("/gst/gstr2", handlers.Gstr2Handler())
		api.GET("/gst/gstr3b", handlers.Gstr3bHandler())
		api.GET("/gst/hsn", handlers.HsnSummaryHandler())

		api.POST("/gstfilings/calculate", handlers.CalculateFilingHandler())
		api.GET("/gstfilings", handlers.ListFilingsHandler())
		api.PUT("/gstfilings/:id/mark-filed", middlewares.AdminMiddleware(), handlers.MarkFiledHandler())
		api.DELETE("/gstfilings/:id", middlewares.AdminMiddleware(), handlers.DeleteFilingHandler())

		api.GET("/tax/income-tax", handlers.IncomeTaxHandler())

		api.GET("/dashboard/stats", handlers.DashboardStatsHandler())
		api.GET("/dashboard/charts", handlers.DashboardChartsHandler())

		api.GET("/reports/gst", handlers.GstSummaryHandler())
		api.GET("/reports/gst/excel", handlers.GstSummaryExcelHandler())
		api.GET("/reports/pnl", handlers.ProfitAndLossHandler())
		api.GET("/reports/pnl/excel", handlers.ProfitAndLossExcelHandler())

		api.POST("/documents", handlers.UploadDocumentHandler())
		api.GET("/documents", handlers.ListDocumentsHandler())
		api.DELETE("/documents/:id", handlers.DeleteDocumentHandler())
		api.GET("/documents/:id/download", handlers.DownloadDocumentHandler())

		api.GET("/settings", handlers.GetSettingsHandler())
		api.PUT("/settings", middlewares.AdminMiddleware(), handlers.UpdateSettingsHandler())

		api.GET("/search", handlers.SearchHandler())
	}
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	registerGstinValidator()

	// Start the HTTP server ASAP; until DB/Redis are ready, app endpoints
	// return 503.
	r := gin.New()
	r.Use(middlewares.CorrelationIdMiddleware())
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil || config.GetRedisDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist; elsewhere allow all.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", "X-Correlation-Id")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	registerRoutes(r)
	r.NoRoute(customNotFoundHandler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running migrations
	// as a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/")
	log.Println("Server started successfully")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
