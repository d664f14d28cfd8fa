// Command cuebot runs one planning cycle against a directory of detector
// CSV files and, with -execute, strikes the selected shot.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/playpool/cuebot/internal/bridge"
	"github.com/playpool/cuebot/internal/config"
	"github.com/playpool/cuebot/internal/cycle"
	"github.com/playpool/cuebot/internal/database"
	"github.com/playpool/cuebot/internal/observability"
	"github.com/playpool/cuebot/internal/planner"
	"github.com/playpool/cuebot/internal/redis"
	"github.com/playpool/cuebot/internal/shotlog"
	"github.com/playpool/cuebot/internal/snapshot"
	"github.com/playpool/cuebot/internal/strike"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg := config.Load()

	dir := flag.String("dir", cfg.SnapshotDir, "directory holding the detector CSV files")
	execute := flag.Bool("execute", false, "strike the selected shot")
	dryRun := flag.Bool("dry-run", false, "execute against the simulated controller instead of the robot bridge")
	record := flag.Bool("record", false, "record the cycle to Postgres and publish it to Redis")
	asJSON := flag.Bool("json", false, "print the result as JSON")
	flag.Parse()
	if *dryRun {
		*execute = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := snapshot.Loader{BallRadius: cfg.BallRadiusMM, Table: cfg.Table()}
	snap, err := loader.Load(*dir)
	if err != nil {
		log.Fatalf("Failed to load snapshot from %s: %v", *dir, err)
	}

	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}
	runner := &cycle.Runner{
		Planner: planner.New(cfg.PlannerParams(), cfg.AimParams()),
		Metrics: metrics,
	}

	if *record {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		rdb, err := redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		runner.Recorder = shotlog.NewRecorder(db, rdb)
	}

	if *execute {
		var ctrl strike.Controller
		switch {
		case *dryRun:
			ctrl = strike.NewSimController()
		case cfg.RobotBridgeURL != "":
			client, err := bridge.Dial(ctx, cfg.RobotBridgeURL, 10*time.Second)
			if err != nil {
				log.Fatalf("Failed to reach robot bridge at %s: %v", cfg.RobotBridgeURL, err)
			}
			defer client.Close()
			ctrl = client
		default:
			log.Fatal("-execute needs ROBOT_BRIDGE_URL or -dry-run")
		}
		runner.Executor = strike.NewExecutor(ctrl, strike.OptionsFromConfig(cfg))
	}

	var res cycle.Result
	if *execute {
		res, err = runner.PlanAndExecute(ctx, "cli", snap)
	} else {
		res, err = runner.Plan(ctx, "cli", snap)
	}

	if *asJSON {
		out := struct {
			cycle.Result
			Error string `json:"error,omitempty"`
		}{Result: res}
		if err != nil {
			out.Error = err.Error()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(out); encErr != nil {
			log.Fatalf("Failed to encode result: %v", encErr)
		}
	} else {
		printResult(res, err)
	}

	if err != nil {
		os.Exit(exitCode(err))
	}
}

func printResult(res cycle.Result, err error) {
	if errors.Is(err, planner.ErrNoFeasibleShot) {
		fmt.Println("No feasible shot.")
		return
	}
	if err != nil && res.Strike == nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	shot, aim := res.Plan.Shot, res.Plan.Aim
	fmt.Printf("Shot:     %s\n", shot)
	fmt.Printf("Distance: %.1f mm\n", aim.Distance)
	fmt.Printf("Contact:  (%.1f, %.1f)\n", aim.Contact.X, aim.Contact.Y)
	fmt.Printf("Pose:     x=%.1f y=%.1f z=%.1f roll=%.1f pitch=%.1f yaw=%.1f\n",
		aim.Pose.X, aim.Pose.Y, aim.Pose.Z, aim.Pose.Roll, aim.Pose.Pitch, aim.Pose.Yaw)
	fmt.Printf("Candidates: direct=%d reflected=%d\n", res.Plan.Direct, res.Plan.Reflected)
	if res.Strike != nil {
		fmt.Printf("Strike:   %s in %s\n", res.Strike.Level.Name, res.Strike.Duration.Round(time.Millisecond))
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

// exitCode is 2 when there was nothing to shoot and 1 for any failure.
func exitCode(err error) int {
	if errors.Is(err, planner.ErrNoFeasibleShot) {
		return 2
	}
	return 1
}
