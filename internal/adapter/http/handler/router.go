package handler

import (
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LedgerSvc      ports.LedgerService
	DashboardSvc   ports.DashboardService
	SettingsSvc    ports.SettingsService
	AdminSvc       ports.AdminService
	AccountRepo    ports.AccountRepository
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check verifies PostgreSQL and Redis connectivity
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// API v1 routes, all behind actor resolution
	actor := middleware.ActorContext(deps.AccountRepo, deps.Logger)
	v1 := r.Group("/api/v1", actor)

	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	staffOnly := middleware.RequireRole(domain.RoleStaff)
	reversalRoles := middleware.RequireRole(domain.RoleStaff, domain.RoleAdmin)

	txHandler := NewTransactionHandler(deps.LedgerSvc)
	dashboardHandler := NewDashboardHandler(deps.DashboardSvc)
	adminHandler := NewAdminHandler(deps.AdminSvc, deps.SettingsSvc)

	transactions := v1.Group("/transactions")
	{
		transactions.POST("", staffOnly, txHandler.Create)
		transactions.DELETE("/:id", reversalRoles, txHandler.Reverse)
		transactions.GET("", dashboardHandler.ListTransactions)
		transactions.GET("/:id", dashboardHandler.GetTransaction)
	}

	dashboard := v1.Group("/dashboard")
	{
		dashboard.GET("/summary", dashboardHandler.GetSummary)
	}

	settings := v1.Group("/settings", adminOnly)
	{
		settings.GET("", adminHandler.GetSettings)
		settings.PUT("", adminHandler.UpdateSettings)
	}

	branches := v1.Group("/branches", adminOnly)
	{
		branches.POST("", adminHandler.CreateBranch)
		branches.GET("", adminHandler.ListBranches)
	}

	accounts := v1.Group("/accounts", adminOnly)
	{
		accounts.POST("", adminHandler.CreateAccount)
		accounts.GET("", adminHandler.ListAccounts)
	}

	return r
}
