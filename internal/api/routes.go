package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playpool/cuebot/internal/api/handlers"
	"github.com/playpool/cuebot/internal/config"
	"github.com/playpool/cuebot/internal/cycle"
	"github.com/playpool/cuebot/internal/middleware"
	"github.com/playpool/cuebot/internal/observability"
	"github.com/playpool/cuebot/internal/shotlog"
	"github.com/playpool/cuebot/internal/ws"
)

// Deps are the collaborators the routes need. DB and Hub may be nil; the
// routes that depend on them then answer 503 or are not mounted.
type Deps struct {
	Config   *config.Config
	DB       *sqlx.DB
	Runner   *cycle.Runner
	Recorder *shotlog.Recorder
	Metrics  *observability.Collector
	Hub      *ws.Hub
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, d Deps) {
	cfg := d.Config

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(d.Metrics.GinMiddleware())

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.GET("/config", handlers.GetConfig(cfg))
		v1.POST("/auth/login", handlers.Login(d.DB, cfg))

		v1.POST("/plan", handlers.PlanShot(d.Runner, cfg))
		v1.POST("/execute", handlers.AuthMiddleware(cfg), handlers.ExecuteShot(d.Runner, cfg))

		shots := v1.Group("/shots")
		{
			shots.GET("", handlers.ListShots(d.Recorder))
			shots.GET("/last", handlers.LastPlan(d.Recorder))
		}

		if d.Hub != nil {
			v1.GET("/feed/ws", middleware.WebSocketCORSCheck(cfg), ws.ServeFeed(d.Hub, d.Recorder))
		}
	}
}
