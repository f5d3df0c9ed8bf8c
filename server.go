package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/handlers"
	"bitbucket.org/mmdatafocus/distribution_backend/middlewares"
	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultPort = "8080"

var tracer = otel.Tracer("distribution-backend")

// RateLimiter throttles by client IP with a fixed redis window.
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
	key := "RateLimit:" + c.ClientIP()

	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if exists == 0 {
		if err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err(); err != nil {
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
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}
	c.Next()
}

func getRedisClient(redisAddress string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
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

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// customErrorLogger logs only requests that collected errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func tracingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+c.FullPath(),
			trace.WithSpanKind(trace.SpanKindServer))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		span.End()
	}
}

func registerRoutes(r *gin.Engine) {
	r.POST("/login", handlers.LoginHandler)

	api := r.Group("/api/v1", middlewares.RequireAuth())
	{
		api.POST("/password", handlers.ChangePasswordHandler)

		api.POST("/users", handlers.CreateUserHandler)
		api.GET("/users", handlers.GetUsersHandler)
		api.GET("/users/:id", handlers.GetUserHandler)
		api.PUT("/users/:id", handlers.UpdateUserHandler)
		api.DELETE("/users/:id", handlers.DeleteUserHandler)

		api.POST("/clients", handlers.CreateClientHandler)
		api.GET("/clients", handlers.GetClientsHandler)
		api.GET("/clients/:id", handlers.GetClientHandler)
		api.PUT("/clients/:id", handlers.UpdateClientHandler)
		api.DELETE("/clients/:id", handlers.DeleteClientHandler)

		api.POST("/products", handlers.CreateProductHandler)
		api.GET("/products", handlers.GetProductsHandler)
		api.GET("/products/:id", handlers.GetProductHandler)
		api.PUT("/products/:id", handlers.UpdateProductHandler)
		api.DELETE("/products/:id", handlers.DeleteProductHandler)

		api.POST("/routes", handlers.CreateRouteHandler)
		api.GET("/routes", handlers.GetRoutesHandler)
		api.GET("/routes/:id", handlers.GetRouteHandler)
		api.PUT("/routes/:id", handlers.UpdateRouteHandler)
		api.DELETE("/routes/:id", handlers.DeleteRouteHandler)

		api.POST("/orders", handlers.CreateOrderHandler)
		api.GET("/orders", handlers.GetOrdersHandler)
		api.GET("/orders/:id", handlers.GetOrderHandler)
		api.PUT("/orders/:id/status", handlers.UpdateOrderStatusHandler)
		api.DELETE("/orders/:id", handlers.DeleteOrderHandler)

		api.POST("/invoices", handlers.CreateInvoiceHandler)
		api.GET("/invoices", handlers.GetInvoicesHandler)
		api.GET("/invoices/:id", handlers.GetInvoiceHandler)
		api.PUT("/invoices/:id/status", handlers.UpdateInvoiceStatusHandler)
		api.DELETE("/invoices/:id", handlers.DeleteInvoiceHandler)

		api.POST("/entries", handlers.CreateInventoryEntryHandler)
		api.GET("/entries", handlers.PaginateInventoryEntriesHandler)
		api.GET("/entries/summary", handlers.GetInventoryEntrySummaryHandler)
		api.GET("/entries/:id", handlers.GetInventoryEntryHandler)
		api.PUT("/entries/:id", handlers.UpdateInventoryEntryHandler)
		api.DELETE("/entries/:id", handlers.DeleteInventoryEntryHandler)
		api.POST("/entries/:id/submit", handlers.SubmitInventoryEntryHandler)
		api.POST("/entries/:id/approve", handlers.ApproveInventoryEntryHandler)
		api.POST("/entries/:id/complete", handlers.CompleteInventoryEntryHandler)
		api.POST("/entries/:id/cancel", handlers.CancelInventoryEntryHandler)
		api.GET("/entries/:id/validate", handlers.ValidateInventoryEntryHandler)
		api.POST("/entries/batch-status", handlers.BatchUpdateInventoryEntryStatusHandler)

		api.POST("/stock-adjustments", handlers.QuickStockAdjustmentHandler)

		api.GET("/dashboard/production", handlers.ProductionDashboardHandler)
		api.GET("/dashboard/production/excel", handlers.ProductionDashboardExcelHandler)
	}
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so the platform considers the revision
	// healthy. Until DB/Redis are ready, app endpoints answer 503.
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production require an explicit allowlist; allow all elsewhere.
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
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

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

	r.Use(tracingMiddleware())
	r.Use(middlewares.AuthMiddleware())
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
	// AutoMigrate can run DDL that blocks tables; allow running migrations as
	// a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	// Set the session isolation level to READ COMMITTED
	for attempt := 1; ; attempt++ {
		err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error
		if err == nil {
			break
		}
		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logger.WithFields(logrus.Fields{
			"field":   "database",
			"attempt": attempt,
		}).Warn("failed to set isolation level; retrying in " + sleep.String() + ": " + err.Error())
		time.Sleep(sleep)
	}

	log.Println("Server started successfully on port " + port)

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

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
