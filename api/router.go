// api/router.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Annany2002/nebula-gateway/api/handlers"
	"github.com/Annany2002/nebula-gateway/api/middleware"
	"github.com/Annany2002/nebula-gateway/config"
	"github.com/Annany2002/nebula-gateway/internal/auth"
	"github.com/Annany2002/nebula-gateway/internal/storage"
)

// Routes reachable without a bearer token. Every other route requires one.
func routePolicy() middleware.RoutePolicy {
	return middleware.RoutePolicy{}.
		Public(http.MethodPost, "/register").
		Public(http.MethodPost, "/login").
		Public(http.MethodGet, "/healthz").
		Public(http.MethodGet, "/metrics").
		Protected(http.MethodGet, "/me").
		Protected(http.MethodGet, "/data/:table").
		Protected(http.MethodPost, "/data/:table").
		Protected(http.MethodGet, "/data/:table/:id").
		Protected(http.MethodPut, "/data/:table/:id").
		Protected(http.MethodDelete, "/data/:table/:id").
		Protected(http.MethodPost, "/create-table").
		Protected(http.MethodPost, "/add-fields/:table").
		Protected(http.MethodGet, "/schema")
}

// SetupRouter initializes the Gin router and sets up all routes.
func SetupRouter(db *storage.DB, cfg *config.Config) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	metrics := middleware.NewMetrics()
	metrics.Registry().MustRegister(collectors.NewDBStatsCollector(db.DB, "gateway"))

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration)

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(metrics.Middleware())
	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.RateLimitRPS > 0 {
		router.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))
	}
	router.Use(middleware.MaxBodyBytes(cfg.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.RequestTimeout))
	// Renders every error attached below, including auth failures.
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.PolicyAuth(routePolicy(), tokens))

	builder := db.Builder()
	authHandler := handlers.NewAuthHandler(db, hasher, tokens)
	recordHandler := handlers.NewRecordHandler(db, builder)
	tableHandler := handlers.NewTableHandler(db, builder, db.Schema)
	healthHandler := handlers.NewHealthHandler(db)

	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/metrics", metrics.Handler())

	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)
	router.GET("/me", authHandler.Me)

	data := router.Group("/data")
	{
		data.GET("/:table", recordHandler.ListRecords)
		data.POST("/:table", recordHandler.CreateRecord)
		data.GET("/:table/:id", recordHandler.GetRecord)
		data.PUT("/:table/:id", recordHandler.UpdateRecord)
		data.DELETE("/:table/:id", recordHandler.DeleteRecord)
	}

	router.POST("/create-table", tableHandler.CreateTable)
	router.POST("/add-fields/:table", tableHandler.AddFields)
	router.GET("/schema", tableHandler.Schema)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return router
}
