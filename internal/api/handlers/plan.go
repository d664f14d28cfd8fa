package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playpool/cuebot/internal/config"
	"github.com/playpool/cuebot/internal/cycle"
	"github.com/playpool/cuebot/internal/planner"
	"github.com/playpool/cuebot/internal/strike"
)

// PlanShot plans a shot for the posted snapshot without moving the arm
func PlanShot(runner *cycle.Runner, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var snap planner.Snapshot
		if err := c.ShouldBindJSON(&snap); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid snapshot: " + err.Error()})
			return
		}

		res, err := runner.Plan(c.Request.Context(), "api", withDefaults(snap, cfg))
		if err != nil {
			if errors.Is(err, strike.ErrBusy) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(planErrorStatus(err), planErrorBody(err, res.Plan))
			return
		}

		c.JSON(http.StatusOK, res)
	}
}

// ExecuteShot plans a shot and strikes it
func ExecuteShot(runner *cycle.Runner, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var snap planner.Snapshot
		if err := c.ShouldBindJSON(&snap); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid snapshot: " + err.Error()})
			return
		}

		operator, _ := c.Get("operator")
		log.Printf("[STRIKE] execute requested by %v", operator)

		// The strike must finish even if the caller goes away.
		timeout := 4*time.Duration(cfg.MotionTimeoutSeconds)*time.Second + 10*time.Second
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res, err := runner.PlanAndExecute(ctx, "api", withDefaults(snap, cfg))
		switch {
		case err == nil:
			c.JSON(http.StatusOK, res)
		case errors.Is(err, cycle.ErrExecutionUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		case errors.Is(err, strike.ErrBusy):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, cycle.ErrExecution):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "cycle_id": res.CycleID, "plan": res.Plan, "strike": res.Strike})
		default:
			c.JSON(planErrorStatus(err), planErrorBody(err, res.Plan))
		}
	}
}
