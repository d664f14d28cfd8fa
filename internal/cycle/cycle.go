// Package cycle runs the snapshot → plan → execute pipeline once, recording
// the outcome. A new plan is refused while a strike is in flight.
package cycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/playpool/cuebot/internal/observability"
	"github.com/playpool/cuebot/internal/planner"
	"github.com/playpool/cuebot/internal/shotlog"
	"github.com/playpool/cuebot/internal/strike"
)

var (
	ErrExecutionUnavailable = errors.New("no robot controller configured")
	ErrExecution            = errors.New("execution failed")
)

// Runner wires the planner to its collaborators. Executor, Recorder and
// Metrics may be nil.
type Runner struct {
	Planner  *planner.Planner
	Executor *strike.Executor
	Recorder *shotlog.Recorder
	Metrics  *observability.Collector
}

// Result is what one cycle produced.
type Result struct {
	CycleID int64          `json:"cycle_id,omitempty"`
	Plan    planner.Plan   `json:"plan"`
	Strike  *strike.Report `json:"strike,omitempty"`
}

// Plan plans a shot for snap without moving the arm.
func (r *Runner) Plan(ctx context.Context, source string, snap planner.Snapshot) (Result, error) {
	if r.Executor != nil && r.Executor.Busy() {
		return Result{}, strike.ErrBusy
	}
	plan, err := r.plan(snap)
	res := Result{Plan: plan}
	res.CycleID = r.record(ctx, shotlog.Entry{Source: source, Snapshot: snap, Plan: plan, PlanErr: err})
	return res, err
}

// PlanAndExecute plans a shot and, when one exists, strikes it.
func (r *Runner) PlanAndExecute(ctx context.Context, source string, snap planner.Snapshot) (Result, error) {
	if r.Executor == nil {
		return Result{}, ErrExecutionUnavailable
	}
	if r.Executor.Busy() {
		return Result{}, strike.ErrBusy
	}

	plan, err := r.plan(snap)
	res := Result{Plan: plan}
	entry := shotlog.Entry{Source: source, Snapshot: snap, Plan: plan, PlanErr: err}
	if err != nil {
		res.CycleID = r.record(ctx, entry)
		return res, err
	}

	report, err := r.Executor.Run(ctx, plan.Aim)
	r.Metrics.ObserveStrike(report, err)
	if errors.Is(err, strike.ErrBusy) {
		return res, err
	}
	res.Strike = &report
	entry.Strike = &report
	entry.StrikeErr = err
	res.CycleID = r.record(ctx, entry)
	if err != nil {
		log.Printf("[STRIKE] %s failed: %v", plan.Shot, err)
		return res, fmt.Errorf("%w: %w", ErrExecution, err)
	}
	return res, nil
}

func (r *Runner) plan(snap planner.Snapshot) (planner.Plan, error) {
	start := time.Now()
	plan, err := r.Planner.Plan(snap)
	took := time.Since(start)
	r.Metrics.ObservePlan(plan, err, took)

	switch {
	case err == nil:
		log.Printf("[PLAN] selected %s (direct=%d reflected=%d rejected=%d took=%s)",
			plan.Shot, plan.Direct, plan.Reflected, len(plan.Rejections), took)
	case errors.Is(err, planner.ErrNoFeasibleShot):
		log.Printf("[PLAN] no feasible shot (targets=%d holes=%d walls=%d rejected=%d)",
			len(snap.Targets), len(snap.Holes), len(snap.Walls), len(plan.Rejections))
	default:
		log.Printf("[PLAN] rejected snapshot: %v", err)
	}
	return plan, err
}

func (r *Runner) record(ctx context.Context, e shotlog.Entry) int64 {
	if r.Recorder == nil {
		return 0
	}
	id, err := r.Recorder.Record(ctx, e)
	if err != nil {
		log.Printf("[SHOTLOG] cycle recorded with errors: %v", err)
	}
	return id
}
