package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playpool/cuebot/internal/config"
)

// GetConfig returns the active planning and pose parameters
func GetConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ball_radius_mm":      cfg.BallRadiusMM,
			"planner":             cfg.PlannerParams(),
			"aim":                 cfg.AimParams(),
			"home_pose":           cfg.HomePose,
			"table":               cfg.Table(),
			"execution_available": cfg.RobotBridgeURL != "",
		})
	}
}
