package strike

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/playpool/cuebot/internal/config"
	"github.com/playpool/cuebot/internal/planner"
)

// Options tune the executor's timing and wiring.
type Options struct {
	PollInterval  time.Duration
	MotionTimeout time.Duration
	Pulse         time.Duration
	StrikePin     int
	Home          [6]float64
}

// OptionsFromConfig reads executor options from the service config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		PollInterval:  time.Duration(cfg.MotionPollMS) * time.Millisecond,
		MotionTimeout: time.Duration(cfg.MotionTimeoutSeconds) * time.Second,
		Pulse:         time.Duration(cfg.StrikePulseMS) * time.Millisecond,
		StrikePin:     cfg.StrikePin,
		Home:          cfg.HomePose,
	}
}

// Report describes a completed strike cycle.
type Report struct {
	Level     Level         `json:"level"`
	Pose      planner.Pose  `json:"pose"`
	Distance  float64       `json:"distance"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}

// Executor runs strike cycles against a Controller, one at a time.
type Executor struct {
	ctrl    Controller
	opts    Options
	running atomic.Bool
}

func NewExecutor(ctrl Controller, opts Options) *Executor {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 20 * time.Millisecond
	}
	if opts.MotionTimeout <= 0 {
		opts.MotionTimeout = 30 * time.Second
	}
	return &Executor{ctrl: ctrl, opts: opts}
}

// Busy reports whether a strike cycle is in flight.
func (e *Executor) Busy() bool {
	return e.running.Load()
}

// Run moves to the aim pose, strikes with a power chosen from the aim
// distance and returns home. It fails with ErrBusy instead of queueing
// behind a cycle already in flight. Home is attempted even when the strike
// fails part way or ctx is cancelled; the home move keeps ctx's values but
// not its cancellation, and is bounded by the motion timeout instead.
func (e *Executor) Run(ctx context.Context, aim planner.Aim) (Report, error) {
	if !e.running.CompareAndSwap(false, true) {
		return Report{}, ErrBusy
	}
	defer e.running.Store(false)

	report := Report{Pose: aim.Pose, Distance: aim.Distance, StartedAt: time.Now()}

	err := e.MoveToPose(ctx, aim.Pose)
	if err == nil {
		report.Level, err = e.Strike(ctx, aim.Distance)
	}

	homeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*e.opts.MotionTimeout)
	homeErr := e.ReturnHome(homeCtx)
	cancel()
	if homeErr != nil {
		log.Printf("[STRIKE] return home failed: %v", homeErr)
		if err == nil {
			err = homeErr
		}
	}
	report.Duration = time.Since(report.StartedAt)
	if err != nil {
		return report, err
	}

	log.Printf("[STRIKE] cycle done: level=%q distance=%.1f took=%s", report.Level.Name, report.Distance, report.Duration)
	return report, nil
}

// MoveToPose approaches the pose point-to-point, then settles onto it with
// a linear move.
func (e *Executor) MoveToPose(ctx context.Context, pose planner.Pose) error {
	target := pose.Array()
	if err := e.ctrl.MovePTP(ctx, target); err != nil {
		return fmt.Errorf("ptp move: %w", err)
	}
	if err := e.waitMotion(ctx); err != nil {
		return fmt.Errorf("ptp move: %w", err)
	}
	if err := e.ctrl.MoveLinear(ctx, target); err != nil {
		return fmt.Errorf("linear move: %w", err)
	}
	if err := e.waitMotion(ctx); err != nil {
		return fmt.Errorf("linear move: %w", err)
	}
	return nil
}

// Strike sets the power pins for distance and fires the striker.
func (e *Executor) Strike(ctx context.Context, distance float64) (Level, error) {
	level := LevelFor(distance)
	log.Printf("[STRIKE] distance=%.1f level=%q", distance, level.Name)

	pattern := level.Pattern()
	for _, pin := range PowerPins {
		if err := e.ctrl.SetDigitalOutput(ctx, pin, pattern[pin]); err != nil {
			return level, fmt.Errorf("power pin %d: %w", pin, err)
		}
	}

	for i, on := range []bool{false, true, false} {
		if i > 0 {
			if err := sleep(ctx, e.opts.Pulse); err != nil {
				return level, err
			}
		}
		if err := e.ctrl.SetDigitalOutput(ctx, e.opts.StrikePin, on); err != nil {
			return level, fmt.Errorf("strike pin %d: %w", e.opts.StrikePin, err)
		}
	}

	if err := e.waitMotion(ctx); err != nil {
		return level, fmt.Errorf("strike: %w", err)
	}
	return level, nil
}

// ReturnHome moves the arm to its home joint angles.
func (e *Executor) ReturnHome(ctx context.Context) error {
	if err := e.ctrl.MoveJoints(ctx, e.opts.Home); err != nil {
		return fmt.Errorf("home move: %w", err)
	}
	if err := e.waitMotion(ctx); err != nil {
		return fmt.Errorf("home move: %w", err)
	}
	return nil
}

// waitMotion polls the controller until the current motion completes.
func (e *Executor) waitMotion(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.opts.MotionTimeout)
	defer cancel()

	ticker := time.NewTicker(e.opts.PollInterval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return waitErr(ctx)
		}
		done, err := e.ctrl.MotionDone(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return waitErr(ctx)
		case <-ticker.C:
		}
	}
}

func waitErr(ctx context.Context) error {
	if ctx.Err() == context.DeadlineExceeded {
		return ErrMotionTimeout
	}
	return ctx.Err()
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
