package router

import (
	"time"

	"github.com/lentakristina/finance-backend/internal/config"
	"github.com/lentakristina/finance-backend/internal/handler"
	"github.com/lentakristina/finance-backend/internal/middleware"
	"github.com/lentakristina/finance-backend/internal/savings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsCfg))

	// ====== API ======
	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret

	// register/login (no auth required)
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// everything below requires a valid token
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/me", handler.GetMe)
	protected.POST("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db))

	categoryHandler := handler.NewCategoryHandler(db)
	protected.GET("/categories", categoryHandler.ListCategories)
	protected.POST("/categories", categoryHandler.CreateCategory)
	protected.PUT("/categories/:id", categoryHandler.UpdateCategory)
	protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	goalHandler := handler.NewGoalHandler(db)
	protected.GET("/goals", goalHandler.ListGoals)
	protected.POST("/goals", goalHandler.CreateGoal)
	protected.PUT("/goals/:id", goalHandler.UpdateGoal)
	protected.DELETE("/goals/:id", goalHandler.DeleteGoal)

	coord := savings.NewCoordinator(db, savings.ParseMode(cfg.App.AllocationMode))
	txnHandler := handler.NewTransactionHandler(db, coord)
	protected.POST("/transactions", txnHandler.CreateTransaction)
	protected.GET("/transactions", txnHandler.ListTransactions)

	reportHandler := handler.NewReportHandler(db)
	protected.GET("/transactions/summary", reportHandler.Summary)
	protected.GET("/transactions/summary-current", reportHandler.SummaryCurrent)
	protected.GET("/transactions/insight", reportHandler.Insight)

	protected.GET("/transactions/:id", txnHandler.GetTransaction)
	protected.PUT("/transactions/:id", txnHandler.UpdateTransaction)
	protected.DELETE("/transactions/:id", txnHandler.DeleteTransaction)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	logHandler := handler.NewLogHandler(db)
	protected.GET("/logs", logHandler.ListLogs)

	return r
}
