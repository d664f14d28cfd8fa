package cycle

import (
	"context"
	"testing"
	"time"

	"github.com/playpool/cuebot/internal/observability"
	"github.com/playpool/cuebot/internal/planner"
	"github.com/playpool/cuebot/internal/shotlog"
	"github.com/playpool/cuebot/internal/strike"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func straight() planner.Snapshot {
	return planner.Snapshot{
		CueBall: planner.Ball{ID: 0, Position: planner.NewVec2(0, 0), Radius: 15},
		Targets: []planner.Ball{{ID: 1, Position: planner.NewVec2(100, 0), Radius: 15}},
		Holes:   []planner.Hole{{ID: 0, Position: planner.NewVec2(200, 0)}},
	}
}

func newRunner(t *testing.T, sim *strike.SimController) *Runner {
	t.Helper()
	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	r := &Runner{
		Planner:  planner.New(planner.DefaultParams(), planner.DefaultAimParams()),
		Recorder: shotlog.NewRecorder(nil, nil),
		Metrics:  metrics,
	}
	if sim != nil {
		r.Executor = strike.NewExecutor(sim, strike.Options{
			PollInterval:  time.Millisecond,
			MotionTimeout: 50 * time.Millisecond,
			Pulse:         time.Millisecond,
			StrikePin:     16,
		})
	}
	return r
}

func quietSim() *strike.SimController {
	sim := strike.NewSimController()
	sim.Quiet = true
	return sim
}

func TestPlanOnly(t *testing.T) {
	r := newRunner(t, nil)
	res, err := r.Plan(context.Background(), "test", straight())
	require.NoError(t, err)
	require.Equal(t, 1, res.Plan.Shot.Target().ID)
	require.Nil(t, res.Strike)
	require.Equal(t, 1.0, testutil.ToFloat64(r.Metrics.PlanCycles.WithLabelValues("planned", "direct")))
}

func TestPlanNoShot(t *testing.T) {
	r := newRunner(t, nil)
	snap := straight()
	snap.Holes = nil
	_, err := r.Plan(context.Background(), "test", snap)
	require.ErrorIs(t, err, planner.ErrNoFeasibleShot)
}

func TestPlanAndExecute(t *testing.T) {
	sim := quietSim()
	r := newRunner(t, sim)

	res, err := r.PlanAndExecute(context.Background(), "test", straight())
	require.NoError(t, err)
	require.NotNil(t, res.Strike)
	require.Equal(t, "middle", res.Strike.Level.Name)
	require.Equal(t, "ptp", sim.Commands()[0].Op)
	require.Equal(t, 1.0, testutil.ToFloat64(r.Metrics.Strikes.WithLabelValues("middle", "ok")))
}

func TestPlanAndExecuteWithoutController(t *testing.T) {
	r := newRunner(t, nil)
	_, err := r.PlanAndExecute(context.Background(), "test", straight())
	require.ErrorIs(t, err, ErrExecutionUnavailable)
}

func TestPlanAndExecuteNoShotSkipsArm(t *testing.T) {
	sim := quietSim()
	r := newRunner(t, sim)
	snap := straight()
	snap.Holes = nil

	_, err := r.PlanAndExecute(context.Background(), "test", snap)
	require.ErrorIs(t, err, planner.ErrNoFeasibleShot)
	require.Empty(t, sim.Commands())
}

func TestPlanAndExecuteFailure(t *testing.T) {
	sim := quietSim()
	sim.Stuck = true
	r := newRunner(t, sim)

	res, err := r.PlanAndExecute(context.Background(), "test", straight())
	require.ErrorIs(t, err, ErrExecution)
	require.ErrorIs(t, err, strike.ErrMotionTimeout)
	require.NotNil(t, res.Strike)
}
