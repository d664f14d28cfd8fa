package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/playpool/cuebot/internal/planner"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Planner
	BallRadiusMM      float64
	ClearanceRadiusMM float64
	MaxCutAngleDeg    float64

	// Pose
	CueOffsetMM    float64
	StrikeZMM      float64
	StrikeRollDeg  float64
	StrikePitchDeg float64
	HomePose       [6]float64

	// Table (used when a snapshot carries no walls or holes)
	TableWidthMM  float64
	TableHeightMM float64

	// Execution
	RobotBridgeURL       string
	MotionPollMS         int
	MotionTimeoutSeconds int
	StrikePulseMS        int
	StrikePin            int

	// CLI
	SnapshotDir string

	// Security
	JWTSecret         string
	SessionTimeoutMin int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/cuebot?sslmode=disable"),
		MigrateOnStart: getEnv("MIGRATE_ON_START", "false") == "true",

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Planner
		BallRadiusMM:      getEnvFloat("BALL_RADIUS_MM", 15),
		ClearanceRadiusMM: getEnvFloat("CLEARANCE_RADIUS_MM", 30),
		MaxCutAngleDeg:    getEnvFloat("MAX_CUT_ANGLE_DEG", planner.DefaultMaxCutAngle),

		// Pose
		CueOffsetMM:    getEnvFloat("CUE_OFFSET_MM", 18),
		StrikeZMM:      getEnvFloat("STRIKE_Z_MM", 0),
		StrikeRollDeg:  getEnvFloat("STRIKE_ROLL_DEG", 0),
		StrikePitchDeg: getEnvFloat("STRIKE_PITCH_DEG", 0),
		HomePose:       getEnvPose("HOME_POSE", [6]float64{90, 0, 0, 0, -90, 0}),

		// Table
		TableWidthMM:  getEnvFloat("TABLE_WIDTH_MM", 1000),
		TableHeightMM: getEnvFloat("TABLE_HEIGHT_MM", 500),

		// Execution
		RobotBridgeURL:       getEnv("ROBOT_BRIDGE_URL", ""),
		MotionPollMS:         getEnvInt("MOTION_POLL_MS", 20),
		MotionTimeoutSeconds: getEnvInt("MOTION_TIMEOUT_SECONDS", 30),
		StrikePulseMS:        getEnvInt("STRIKE_PULSE_MS", 500),
		StrikePin:            getEnvInt("STRIKE_PIN", 16),

		// CLI
		SnapshotDir: getEnv("SNAPSHOT_DIR", "csv"),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTimeoutMin: getEnvInt("SESSION_TIMEOUT_MINUTES", 30),
	}
}

// PlannerParams returns the planning tunables.
func (c *Config) PlannerParams() planner.Params {
	return planner.Params{
		Clearance:   c.ClearanceRadiusMM,
		Feasibility: planner.Feasibility{MaxCutAngle: c.MaxCutAngleDeg},
	}
}

// AimParams returns how planned shots are turned into tool poses.
func (c *Config) AimParams() planner.AimParams {
	p := planner.DefaultAimParams()
	p.CueOffset = c.CueOffsetMM
	p.StrikeZ = c.StrikeZMM
	p.Roll = c.StrikeRollDeg
	p.Pitch = c.StrikePitchDeg
	return p
}

// Table returns the default table layout.
func (c *Config) Table() planner.Table {
	return planner.RectTable(c.TableWidthMM, c.TableHeightMM)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvPose parses six comma-separated numbers.
func getEnvPose(key string, defaultValue [6]float64) [6]float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	if len(parts) != 6 {
		log.Printf("[CONFIG] %s needs 6 values, got %d; using default", key, len(parts))
		return defaultValue
	}
	var pose [6]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			log.Printf("[CONFIG] %s: bad value %q; using default", key, p)
			return defaultValue
		}
		pose[i] = f
	}
	return pose
}
