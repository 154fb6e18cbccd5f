package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uidelink/uidelink-backend/internal/config"
	"github.com/uidelink/uidelink-backend/internal/handlers"
	"github.com/uidelink/uidelink-backend/internal/middleware"
)

// HandlerDependencies carries the wired handlers into the router.
type HandlerDependencies struct {
	Scan    *handlers.ScanHandler
	Student *handlers.StudentHandler
	Bus     *handlers.BusHandler
	Route   *handlers.RouteHandler
	Auth    *handlers.AuthHandler
	Stats   *handlers.StatsHandler

	// MetricsHandler serves the Prometheus registry. Nil disables /metrics.
	MetricsHandler http.Handler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "uidelink-backend",
			"status":  "running",
		})
	})

	if deps.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		public.POST("/scan", deps.Scan.ProcessScan)

		students := public.Group("/students")
		{
			students.POST("/identify", deps.Student.Identify)
			students.GET("/summary", deps.Student.Summary)
		}

		public.GET("/leaderboard", deps.Student.Leaderboard)

		routeGroup := public.Group("/routes")
		{
			routeGroup.GET("", deps.Route.GetActiveRoutes)
			routeGroup.GET("/:id/stops", deps.Route.GetRouteStops)
		}

		public.GET("/buses/:qr/schedule", deps.Bus.GetBusSchedule)

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.Auth.Login)
		}
	}

	// Protected admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg))
	{
		buses := admin.Group("/buses")
		{
			buses.GET("", deps.Bus.GetAllBuses)
			buses.POST("", deps.Bus.CreateBus)
			buses.PUT("/:id", deps.Bus.UpdateBus)
		}

		adminRoutes := admin.Group("/routes")
		{
			adminRoutes.POST("", deps.Route.CreateRoute)
			adminRoutes.PUT("/:id", deps.Route.UpdateRoute)
		}

		admin.POST("/stops", deps.Route.CreateStop)

		schedules := admin.Group("/schedules")
		{
			schedules.POST("", deps.Bus.CreateAssignment)
			schedules.PUT("/:id", deps.Bus.UpdateAssignment)
		}

		admin.GET("/stats/daily", deps.Stats.GetDailyStats)
	}

	return router
}
