package shotlog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/playpool/cuebot/internal/models"
	"github.com/playpool/cuebot/internal/planner"
	"github.com/playpool/cuebot/internal/strike"
	"github.com/stretchr/testify/require"
)

func snapshotWith(holes ...planner.Hole) planner.Snapshot {
	return planner.Snapshot{
		CueBall: planner.Ball{ID: 0, Position: planner.NewVec2(0, 0), Radius: 15},
		Targets: []planner.Ball{{ID: 3, Position: planner.NewVec2(100, 0), Radius: 15}},
		Holes:   holes,
	}
}

func planEntry(t *testing.T) Entry {
	t.Helper()
	snap := snapshotWith(planner.Hole{ID: 5, Position: planner.NewVec2(200, 0)})
	plan, err := planner.New(planner.DefaultParams(), planner.DefaultAimParams()).Plan(snap)
	require.NoError(t, err)
	return Entry{Source: "api", Snapshot: snap, Plan: plan}
}

func TestOutcome(t *testing.T) {
	e := planEntry(t)
	require.Equal(t, models.OutcomePlanned, e.Outcome())

	e.Strike = &strike.Report{}
	require.Equal(t, models.OutcomeExecuted, e.Outcome())

	e.StrikeErr = errors.New("estop")
	require.Equal(t, models.OutcomeExecFailed, e.Outcome())

	require.Equal(t, models.OutcomeNoShot, Entry{PlanErr: planner.ErrNoFeasibleShot}.Outcome())
	require.Equal(t, models.OutcomeRejected, Entry{PlanErr: planner.ErrDegenerateInput}.Outcome())
}

func TestNewCyclePlanned(t *testing.T) {
	e := planEntry(t)
	level := strike.LevelFor(e.Plan.Aim.Distance)
	e.Strike = &strike.Report{Level: level}

	row, err := NewCycle(e)
	require.NoError(t, err)

	require.Equal(t, "api", row.Source)
	require.Equal(t, models.OutcomeExecuted, row.Outcome)
	require.Equal(t, "direct", *row.ShotKind)
	require.Nil(t, row.WallID)
	require.Equal(t, int64(3), *row.TargetBall)
	require.Equal(t, int64(5), *row.TargetHole)
	require.InDelta(t, 200.0, *row.TotalDistance, 1e-9)
	require.InDelta(t, e.Plan.Aim.Pose.X, *row.PoseX, 1e-12)
	require.Equal(t, level.Name, *row.StrikeLevel)
	require.Nil(t, row.Error)
	require.Equal(t, 1, row.DirectCandidates)

	var snap planner.Snapshot
	require.NoError(t, json.Unmarshal(row.Snapshot, &snap))
	require.Equal(t, e.Snapshot.Targets, snap.Targets)
}

func TestNewCycleNoShot(t *testing.T) {
	snap := snapshotWith()
	plan, err := planner.New(planner.DefaultParams(), planner.DefaultAimParams()).Plan(snap)
	require.ErrorIs(t, err, planner.ErrNoFeasibleShot)

	row, err := NewCycle(Entry{Source: "cli", Snapshot: snap, Plan: plan, PlanErr: err})
	require.NoError(t, err)
	require.Equal(t, models.OutcomeNoShot, row.Outcome)
	require.Nil(t, row.ShotKind)
	require.Nil(t, row.TotalDistance)
	require.Equal(t, "no feasible shot", *row.Error)
}

func TestNewEvent(t *testing.T) {
	e := planEntry(t)
	ev := NewEvent(e, 42)
	require.Equal(t, models.OutcomePlanned, ev.Type)
	require.Equal(t, int64(42), ev.CycleID)
	require.NotNil(t, ev.Plan)
	require.Empty(t, ev.Error)

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	shot := decoded["plan"].(map[string]any)["shot"].(map[string]any)
	require.Equal(t, "direct", shot["kind"])

	rejected := NewEvent(Entry{Source: "api", PlanErr: planner.ErrDegenerateInput}, 0)
	require.Nil(t, rejected.Plan)
	require.Equal(t, "degenerate input", rejected.Error)
}

func TestRecorderWithoutStores(t *testing.T) {
	r := NewRecorder(nil, nil)
	id, err := r.Record(context.Background(), planEntry(t))
	require.NoError(t, err)
	require.Zero(t, id)

	recent, err := r.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, recent)

	_, ok, err := r.LastPlan(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}
