package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/citlabs/labsched-backend/internal/config"
	"github.com/citlabs/labsched-backend/internal/handler"
	"github.com/citlabs/labsched-backend/internal/middleware"
	"github.com/citlabs/labsched-backend/internal/response"
	"github.com/citlabs/labsched-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Catalog    *handler.CatalogHandler
	Allocation *handler.AllocationHandler
	Snapshot   *handler.SnapshotHandler
	Export     *handler.ExportHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Every authenticated route also checks the token's session against
	// Redis, so a newer login or a logout invalidates older tokens.
	adminJWT := middleware.RequireAdminJWT(authService)
	adminSession := middleware.CheckAdminSession(authService)

	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
		auth.POST("/admin/logout", adminJWT, adminSession, handlers.Auth.Logout)
		auth.GET("/admin/me", adminJWT, adminSession, handlers.Auth.Me)
	}

	// Catalog routes are read-only reference data. They still sit behind
	// admin auth: the scheduling form is an internal tool.
	catalogAPI := router.Group("/api/v1/catalog")
	catalogAPI.Use(adminJWT, adminSession)
	{
		catalogAPI.GET("/regulations", handlers.Catalog.ListRegulations)
		catalogAPI.GET("/departments", handlers.Catalog.ListDepartments)
		catalogAPI.GET("/departments/:id", handlers.Catalog.GetDepartment)
		catalogAPI.GET("/labs", handlers.Catalog.ListLabs)
		catalogAPI.GET("/faculty", handlers.Catalog.ListFaculty)
		catalogAPI.GET("/phases", handlers.Catalog.ListPhases)
		catalogAPI.GET("/cycles", handlers.Catalog.ListCycles)
	}

	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(adminJWT, adminSession)
	{
		adminAPI.POST("/allocations/preview", handlers.Allocation.Preview)
		adminAPI.POST("/allocations/assign-faculty", handlers.Allocation.AssignFaculty)
		adminAPI.POST("/allocations/taken", handlers.Allocation.TakenFaculty)

		adminAPI.GET("/snapshots", handlers.Snapshot.List)
		adminAPI.POST("/snapshots", handlers.Snapshot.Save)
		adminAPI.POST("/snapshots/reorder", handlers.Snapshot.Reorder)
		adminAPI.DELETE("/snapshots/:department_id", handlers.Snapshot.Remove)

		// Export accepts ?token= so browsers can open the download
		// directly without an Authorization header.
		adminAPI.GET("/export/:format", handlers.Export.Download)
	}

	return router
}
