package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playpool/cuebot/internal/api"
	"github.com/playpool/cuebot/internal/bridge"
	"github.com/playpool/cuebot/internal/config"
	"github.com/playpool/cuebot/internal/cycle"
	"github.com/playpool/cuebot/internal/database"
	"github.com/playpool/cuebot/internal/migrations"
	"github.com/playpool/cuebot/internal/observability"
	"github.com/playpool/cuebot/internal/planner"
	"github.com/playpool/cuebot/internal/redis"
	"github.com/playpool/cuebot/internal/shotlog"
	"github.com/playpool/cuebot/internal/strike"
	"github.com/playpool/cuebot/internal/ws"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres and Redis are optional: without them the planner still
	// serves, it just keeps no history and publishes no events.
	var db *sqlx.DB
	if cfg.DatabaseURL != "" {
		conn, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer conn.Close()
		db = conn

		if cfg.MigrateOnStart {
			log.Println("↗ Running DB migrations on startup...")
			if err := migrations.RunMigrations(cfg.DatabaseURL, migrations.DefaultDir); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}
	} else {
		log.Println("[DB] DATABASE_URL not set; shot history disabled")
	}

	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		client, err := redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()
		rdb = client
	} else {
		log.Println("[REDIS] REDIS_URL not set; live feed disabled")
	}

	metrics, err := observability.NewCollector(nil)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	recorder := shotlog.NewRecorder(db, rdb)
	runner := &cycle.Runner{
		Planner:  planner.New(cfg.PlannerParams(), cfg.AimParams()),
		Recorder: recorder,
		Metrics:  metrics,
	}

	if cfg.RobotBridgeURL != "" {
		client, err := bridge.Dial(ctx, cfg.RobotBridgeURL, 10*time.Second)
		if err != nil {
			log.Fatalf("Failed to reach robot bridge at %s: %v", cfg.RobotBridgeURL, err)
		}
		defer client.Close()
		runner.Executor = strike.NewExecutor(client, strike.OptionsFromConfig(cfg))
		log.Printf("[STRIKE] robot bridge connected (%s)", cfg.RobotBridgeURL)
	} else {
		log.Println("[STRIKE] ROBOT_BRIDGE_URL not set; running plan-only")
	}

	var hub *ws.Hub
	if rdb != nil {
		hub = ws.NewHub()
		hub.OnClientCount(metrics.SetFeedClients)
		go hub.Run(ctx)
		ws.StartShotEventSubscriber(ctx, rdb, hub)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, api.Deps{
		Config:   cfg,
		DB:       db,
		Runner:   runner,
		Recorder: recorder,
		Metrics:  metrics,
		Hub:      hub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting cuebot server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
