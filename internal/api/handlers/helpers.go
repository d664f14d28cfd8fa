package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playpool/cuebot/internal/config"
	"github.com/playpool/cuebot/internal/planner"
)

// withDefaults fills in what a client may leave out of a snapshot: ball
// radii and the table's walls and holes.
func withDefaults(snap planner.Snapshot, cfg *config.Config) planner.Snapshot {
	if snap.CueBall.Radius == 0 {
		snap.CueBall.Radius = cfg.BallRadiusMM
	}
	targets := make([]planner.Ball, len(snap.Targets))
	for i, b := range snap.Targets {
		if b.Radius == 0 {
			b.Radius = cfg.BallRadiusMM
		}
		targets[i] = b
	}
	snap.Targets = targets

	if len(snap.Holes) == 0 || len(snap.Walls) == 0 {
		table := cfg.Table()
		if len(snap.Holes) == 0 {
			snap.Holes = table.Holes
		}
		if len(snap.Walls) == 0 {
			snap.Walls = table.Walls
		}
	}
	return snap
}

// planErrorStatus maps a planning error to an HTTP status.
func planErrorStatus(err error) int {
	switch {
	case errors.Is(err, planner.ErrNoFeasibleShot):
		return http.StatusUnprocessableEntity
	case errors.Is(err, planner.ErrDegenerateInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func planErrorBody(err error, plan planner.Plan) gin.H {
	return gin.H{
		"error":                err.Error(),
		"direct_candidates":    plan.Direct,
		"reflected_candidates": plan.Reflected,
		"rejections":           plan.Rejections,
	}
}
