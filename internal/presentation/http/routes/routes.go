package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imranmdl/tile-granite-management-sub002/internal/config"
	domainRepo "github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/handler"
	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/middleware"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/metrics"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health     *handler.HealthHandler
	Inventory  *handler.InventoryHandler
	Costing    *handler.CostingHandler
	Commission *handler.CommissionHandler
	Report     *handler.ReportHandler
	Settings   *handler.SettingsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	// Stop ends background cleanup owned by the router
	Stop <-chan struct{}
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Health)
	if deps.Cfg.Metrics.Enabled {
		path := deps.Cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: deps.Cfg.RateLimit.RequestsPerSecond,
			BurstSize:         deps.Cfg.RateLimit.Burst,
		}, deps.Stop)
		protected.Use(rateLimiter.Middleware())

		if deps.IdempotencyRepo != nil {
			protected.Use(middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}))
		}

		registerInventoryRoutes(protected, h)
		registerCommissionRoutes(protected, h)
		registerReportRoutes(protected, h)
		registerSettingsRoutes(protected, h)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})

	return router
}

func registerInventoryRoutes(rg *gin.RouterGroup, h *Handlers) {
	items := rg.Group("/items")
	{
		items.GET("", h.Inventory.ListItems)
		items.GET("/:id/availability", h.Inventory.Availability)
		items.GET("/:id/summary", h.Inventory.Summary)
		items.GET("/:id/historical-cost", h.Costing.HistoricalCost)
		items.POST("/:id/receipts", h.Inventory.CreateReceipt)
	}

	receipts := rg.Group("/receipts")
	{
		receipts.PUT("/:id", h.Inventory.UpdateReceipt)
		receipts.DELETE("/:id", h.Inventory.DeleteReceipt)
	}

	rg.POST("/costing/landed-cost", h.Costing.PreviewLandedCost)
}

func registerCommissionRoutes(rg *gin.RouterGroup, h *Handlers) {
	commissions := rg.Group("/commissions")
	{
		commissions.POST("/invoices/:id/sync", h.Commission.Sync)
		commissions.POST("/recompute", h.Commission.Recompute)
		commissions.GET("/ledger", h.Commission.ListLedger)
		commissions.GET("/rates", h.Commission.ListRates)

		admin := commissions.Group("")
		admin.Use(middleware.RequireRole(middleware.RoleAdmin))
		{
			admin.PATCH("/invoices/:id/status", h.Commission.SetStatus)
			admin.POST("/rates", h.Commission.CreateRate)
			admin.DELETE("/rates/:id", h.Commission.DeactivateRate)
			admin.POST("/backfill-sales-users", h.Commission.BackfillSalesUsers)
		}
	}
}

func registerReportRoutes(rg *gin.RouterGroup, h *Handlers) {
	reports := rg.Group("/reports")
	{
		reports.GET("/commissions.xlsx", h.Report.CommissionsXLSX)
		reports.GET("/inventory.xlsx", h.Report.InventoryXLSX)

		profit := reports.Group("", middleware.RequireRole(middleware.RoleAdmin))
		{
			profit.GET("/profit", h.Report.ProfitReport)
			profit.GET("/invoices/:id/profit", h.Report.InvoiceProfit)
		}
	}
}

func registerSettingsRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/settings", h.Settings.GetSettings)
	rg.PUT("/settings", middleware.RequireRole(middleware.RoleAdmin), h.Settings.UpdateSetting)
}
