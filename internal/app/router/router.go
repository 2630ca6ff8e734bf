// Package router builds the HTTP routing table and its middleware chain.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	audithandler "fundops_backend/internal/feature/audit/transport/handler"
	authentity "fundops_backend/internal/feature/auth/domain/entity"
	authhandler "fundops_backend/internal/feature/auth/transport/handler"
	betahandler "fundops_backend/internal/feature/betas/transport/handler"
	holdinghandler "fundops_backend/internal/feature/holdings/transport/handler"
	instrumenthandler "fundops_backend/internal/feature/instruments/transport/handler"
	marketdatahandler "fundops_backend/internal/feature/marketdata/transport/handler"
	reporthandler "fundops_backend/internal/feature/reports/transport/handler"
	platformhandler "fundops_backend/internal/platform/http/handler"
	jwtmw "fundops_backend/internal/platform/jwt"
	"fundops_backend/internal/platform/rbac"
	"fundops_backend/internal/platform/validation"
)

// Options carries the router-level settings.
type Options struct {
	// AllowedOrigins lists the browser origins admitted by CORS.
	// Empty admits every origin (development).
	AllowedOrigins []string
}

// NewRouter assembles the routing table. Reads require viewer or better,
// writes require operator or better; batch deletion, instrument deletion,
// and the audit trail are admin-only.
func NewRouter(
	opts Options,
	authH *authhandler.AuthHandler,
	reportH *reporthandler.ReportHandler,
	priceH *marketdatahandler.IndexPriceHandler,
	betaH *betahandler.BetaHandler,
	instrumentH *instrumenthandler.InstrumentHandler,
	holdingH *holdinghandler.HoldingHandler,
	auditH *audithandler.AuditHandler,
) *gin.Engine {
	// The request DTOs declare the custom isin rule; it must exist before
	// the first bind.
	if err := validation.RegisterBindingRules(); err != nil {
		panic(err)
	}

	r := gin.Default()
	r.Use(corsMiddleware(opts.AllowedOrigins))

	// Liveness, no auth required
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)

	// Public auth routes
	r.POST("/signup", authH.Signup)
	r.POST("/login", authH.Login)
	r.POST("/refresh", authH.Refresh)
	r.POST("/logout", authH.Logout)

	viewer := rbac.RequireMinRole(authentity.RoleViewer)
	operator := rbac.RequireMinRole(authentity.RoleOperator)
	admin := rbac.RequireRole(authentity.RoleAdmin)

	// Authenticated routes
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		auth.POST("/report-batches", operator, reportH.Upload)
		auth.GET("/report-batches", viewer, reportH.List)
		auth.GET("/report-batches/:id", viewer, reportH.Get)
		auth.POST("/report-batches/:id/reprocess", operator, reportH.Reprocess)
		auth.DELETE("/report-batches/:id", admin, reportH.Delete)

		auth.GET("/index-prices", viewer, priceH.List)
		auth.GET("/index-prices/:id", viewer, priceH.Get)
		auth.POST("/index-prices", operator, priceH.Create)
		auth.PUT("/index-prices/:id", operator, priceH.Update)
		auth.DELETE("/index-prices/:id", operator, priceH.Delete)

		auth.GET("/betas", viewer, betaH.List)
		auth.PUT("/betas", operator, betaH.Upsert)
		auth.DELETE("/betas/:id", operator, betaH.Delete)

		auth.GET("/instruments", viewer, instrumentH.List)
		auth.GET("/instruments/:isin", viewer, instrumentH.Get)
		auth.POST("/instruments", operator, instrumentH.Create)
		auth.PUT("/instruments/:isin", operator, instrumentH.Update)
		auth.DELETE("/instruments/:isin", admin, instrumentH.Delete)

		auth.GET("/holdings", viewer, holdingH.List)
		auth.GET("/holdings/:id", viewer, holdingH.Get)
		auth.POST("/holdings", operator, holdingH.Create)
		auth.PUT("/holdings/:id", operator, holdingH.Update)
		auth.DELETE("/holdings/:id", operator, holdingH.Delete)
		auth.POST("/holdings/import", operator, holdingH.Import)

		auth.GET("/audit", admin, auditH.List)
	}

	return r
}

// corsMiddleware admits the configured front-end origins, or everything
// when none are configured.
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
