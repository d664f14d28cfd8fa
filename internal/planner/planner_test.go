package planner

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// boxTable is a 400×200 mm playing area centered so the scenarios below can
// keep the cue ball at the origin.
func boxTable() []Wall {
	return WallsFromPolygon([]Vec2{
		NewVec2(-100, -100),
		NewVec2(300, -100),
		NewVec2(300, 100),
		NewVec2(-100, 100),
	})
}

func scenarioParams() Params {
	return Params{Clearance: 15, Feasibility: Feasibility{MaxCutAngle: DefaultMaxCutAngle}}
}

func TestScenarioStraightDirectShot(t *testing.T) {
	snap := Snapshot{
		CueBall: ball(0, 0, 0),
		Targets: []Ball{ball(1, 100, 0)},
		Holes:   []Hole{{ID: 0, Position: NewVec2(200, 0)}},
	}

	plan, err := New(scenarioParams(), DefaultAimParams()).Plan(snap)
	require.NoError(t, err)

	shot := plan.Shot
	require.False(t, shot.Kind().IsReflected())
	require.Equal(t, NewVec2(100, 0), shot.AimPoint())
	require.InDelta(t, 200.0, shot.TotalDistance(), 1e-9)
	require.InDelta(t, 200.0, Cost(shot, snap.CueBall), 1e-9)
	require.Equal(t, 1, plan.Direct)
	require.Equal(t, 0, plan.Reflected)
}

func TestScenarioBlockedDirectFallsBackToBank(t *testing.T) {
	snap := Snapshot{
		CueBall: ball(0, 0, 0),
		Targets: []Ball{ball(1, 100, 0), ball(2, 50, 0)},
		Holes:   []Hole{{ID: 0, Position: NewVec2(200, 0)}},
		Walls:   boxTable(),
	}
	p := scenarioParams()

	require.Empty(t, EnumerateDirect(snap.CueBall, snap.Targets, snap.Holes, p))

	plan, err := New(p, DefaultAimParams()).Plan(snap)
	require.NoError(t, err)

	shot := plan.Shot
	w, ok := shot.Kind().Wall()
	require.True(t, ok)
	require.Equal(t, 1, shot.Target().ID)
	// bottom and top cushions tie; the bottom one is enumerated first
	require.Equal(t, 0, w.ID)
	require.Equal(t, 2, plan.Reflected)
	require.InDelta(t, 100.0, shot.AimPoint().X, 1e-9)
	require.InDelta(t, -200.0, shot.AimPoint().Y, 1e-9)
	require.InDelta(t, math.Hypot(100, 200)+100, shot.TotalDistance(), 1e-9)
}

func TestScenarioNothingFeasible(t *testing.T) {
	// the hole lies behind the target as seen from the cue ball
	snap := Snapshot{
		CueBall: ball(0, 0, 0),
		Targets: []Ball{ball(1, 100, 0)},
		Holes:   []Hole{{ID: 0, Position: NewVec2(-50, 0)}},
		Walls:   boxTable(),
	}
	p := scenarioParams()

	require.Empty(t, EnumerateDirect(snap.CueBall, snap.Targets, snap.Holes, p))
	require.Empty(t, EnumerateReflected(snap.CueBall, snap.Targets, snap.Holes, snap.Walls, p))

	plan, err := New(p, DefaultAimParams()).Plan(snap)
	require.True(t, errors.Is(err, ErrNoFeasibleShot))
	require.Equal(t, 0, plan.Direct)
	require.Equal(t, 0, plan.Reflected)
}

func TestNoFeasibleShotWithoutWalls(t *testing.T) {
	snap := Snapshot{
		CueBall: ball(0, 0, 0),
		Targets: []Ball{ball(1, 100, 0), ball(2, 50, 0)},
		Holes:   []Hole{{ID: 0, Position: NewVec2(200, 0)}},
	}
	_, err := New(scenarioParams(), DefaultAimParams()).Plan(snap)
	require.ErrorIs(t, err, ErrNoFeasibleShot)

	_, ok := SelectBest(nil, nil, snap.CueBall)
	require.False(t, ok)
}

func TestMirrorShotEqualAngles(t *testing.T) {
	cue := ball(0, 0, 0)
	targets := []Ball{ball(1, 180, 40)}
	holes := []Hole{{ID: 0, Position: NewVec2(300, 100)}}
	walls := boxTable()

	shots := EnumerateReflected(cue, targets, holes, walls, scenarioParams())
	require.NotEmpty(t, shots)

	for _, s := range shots {
		w, ok := s.Kind().Wall()
		require.True(t, ok)

		// the aim point is the mirror of the real target
		m := ReflectPoint(s.Target().Position, w.P1, w.P2)
		require.InDelta(t, m.X, s.AimPoint().X, 1e-9)
		require.InDelta(t, m.Y, s.AimPoint().Y, 1e-9)

		bounce, ok := lineIntersectLine(cue.Position, s.AimPoint(), w.P1, w.P2)
		require.True(t, ok)
		n := w.Direction().LeftNormal()

		incidence := AngleBetween(cue.Position.Minus(bounce), n)
		reflection := AngleBetween(s.Target().Position.Minus(bounce), n)
		if incidence > 90 {
			incidence, reflection = 180-incidence, 180-reflection
		}
		require.InDelta(t, incidence, reflection, 1e-9, "wall %d", w.ID)

		// total distance is the folded path: cue→cushion→target plus target→hole
		folded := cue.Position.DistanceTo(bounce) + bounce.DistanceTo(s.Target().Position) +
			s.Target().Position.DistanceTo(s.Hole().Position)
		require.InDelta(t, folded, s.TotalDistance(), 1e-9)
	}
}

func TestReflectedSkipsWallBehindBalls(t *testing.T) {
	// cue and target on opposite sides of the wall line
	cue := ball(0, 0, 0)
	targets := []Ball{ball(1, 0, 200)}
	holes := []Hole{{ID: 0, Position: NewVec2(100, 300)}}
	walls := []Wall{{ID: 0, P1: NewVec2(-100, 100), P2: NewVec2(100, 100)}}

	require.Empty(t, EnumerateReflected(cue, targets, holes, walls, scenarioParams()))
}

func TestReflectedRequiresBounceOnSegment(t *testing.T) {
	cue := ball(0, 0, 0)
	targets := []Ball{ball(1, 100, 0)}
	holes := []Hole{{ID: 0, Position: NewVec2(200, 0)}}
	// the cue→mirror line crosses y=100 at x=50, past the end of this short cushion
	walls := []Wall{{ID: 0, P1: NewVec2(100, 100), P2: NewVec2(300, 100)}}

	require.Empty(t, EnumerateReflected(cue, targets, holes, walls, scenarioParams()))

	walls[0].P1 = NewVec2(0, 100)
	require.Len(t, EnumerateReflected(cue, targets, holes, walls, scenarioParams()), 1)
}

func TestDirectObstructionUsesOtherTargetsOnly(t *testing.T) {
	cue := ball(0, 0, 0)
	// ball 2 sits beyond the hole; ball 3 is far off the line
	targets := []Ball{ball(1, 100, 0), ball(2, 260, 0), ball(3, 150, 120)}
	holes := []Hole{{ID: 7, Position: NewVec2(200, 0)}}

	shots := EnumerateDirect(cue, targets, holes, scenarioParams())
	// ball 3 is clear of both legs but needs a ~106° cut
	require.Len(t, shots, 1)
	require.Equal(t, 1, shots[0].Target().ID)
	require.Equal(t, 7, shots[0].Hole().ID)
}

func TestDirectRejectsWideCut(t *testing.T) {
	cue := ball(0, 0, 0)
	targets := []Ball{ball(1, 100, 0)}
	// 90° cut
	holes := []Hole{{ID: 0, Position: NewVec2(100, 90)}}

	require.Empty(t, EnumerateDirect(cue, targets, holes, scenarioParams()))

	wide := scenarioParams()
	wide.Feasibility.MaxCutAngle = 91
	require.Len(t, EnumerateDirect(cue, targets, holes, wide), 1)
}

func TestFeasibilityAllows(t *testing.T) {
	f := Feasibility{MaxCutAngle: 45}
	cue, target := NewVec2(0, 0), NewVec2(100, 0)

	require.True(t, f.Allows(cue, target, NewVec2(200, 0)))
	require.True(t, f.Allows(cue, target, NewVec2(200, 99)))   // ~44.7°
	require.False(t, f.Allows(cue, target, NewVec2(200, 101))) // ~45.3°
	require.False(t, f.Allows(cue, target, NewVec2(0, 0)))
	require.False(t, f.Allows(target, target, NewVec2(200, 0)))
}

func TestSelectBestPrefersDirectOverCheaperBank(t *testing.T) {
	cue := ball(0, 0, 0)
	target := ball(1, 100, 0)
	hole := Hole{ID: 0, Position: NewVec2(400, 0)}
	direct := []Shot{newShot(Direct(), cue, target, hole, target.Position)}
	cheap := []Shot{newShot(Reflected(Wall{ID: 3}), cue, target, Hole{ID: 1, Position: NewVec2(110, 0)}, NewVec2(5, 0))}

	best, ok := SelectBest(direct, cheap, cue)
	require.True(t, ok)
	require.False(t, best.Kind().IsReflected())
}

func TestSelectBestTieKeepsEnumerationOrder(t *testing.T) {
	snap := Snapshot{
		CueBall: ball(0, 0, 0),
		Targets: []Ball{ball(1, 100, 0)},
		Holes: []Hole{
			{ID: 4, Position: NewVec2(200, 10)},
			{ID: 2, Position: NewVec2(200, -10)},
		},
	}
	pl := New(scenarioParams(), DefaultAimParams())

	plan, err := pl.Plan(snap)
	require.NoError(t, err)
	require.Equal(t, 4, plan.Shot.Hole().ID)

	snap.Holes[0], snap.Holes[1] = snap.Holes[1], snap.Holes[0]
	plan, err = pl.Plan(snap)
	require.NoError(t, err)
	require.Equal(t, 2, plan.Shot.Hole().ID)
}

func TestSelectBestIsMinimalOverCandidates(t *testing.T) {
	table := RectTable(1000, 500)
	cue := ball(0, 480, 260)
	var targets []Ball
	id := 1
	for x := 100.0; x < 1000; x += 250 {
		for y := 100.0; y < 500; y += 150 {
			targets = append(targets, ball(id, x, y))
			id++
		}
	}
	p := DefaultParams()

	direct := EnumerateDirect(cue, targets, table.Holes, p)
	reflected := EnumerateReflected(cue, targets, table.Holes, table.Walls, p)
	require.NotEmpty(t, direct)
	require.NotEmpty(t, reflected)

	check := func(set []Shot, best Shot) {
		for _, s := range set {
			require.LessOrEqual(t, Cost(best, cue), Cost(s, cue)+1e-9)
		}
	}

	best, ok := SelectBest(direct, reflected, cue)
	require.True(t, ok)
	check(direct, best)

	best, ok = SelectBest(nil, reflected, cue)
	require.True(t, ok)
	require.True(t, best.Kind().IsReflected())
	check(reflected, best)
}

func TestPlanIsDeterministic(t *testing.T) {
	table := RectTable(1000, 500)
	snap := Snapshot{
		CueBall: ball(0, 200, 250),
		Targets: []Ball{ball(1, 600, 240), ball(2, 610, 300), ball(3, 420, 100), ball(4, 820, 400)},
		Holes:   table.Holes,
		Walls:   table.Walls,
	}
	pl := New(DefaultParams(), DefaultAimParams())

	first, err := pl.Plan(snap)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := pl.Plan(snap)
		require.NoError(t, err)
		require.Equal(t, first.Shot, again.Shot)
		require.Equal(t, first.Aim, again.Aim)
	}
}

func TestSanitizeDropsDegenerateInput(t *testing.T) {
	snap := Snapshot{
		CueBall: ball(0, 0, 0),
		Targets: []Ball{
			ball(1, 100, 0),
			ball(2, 100, 0), // duplicate of 1
			ball(3, 0, 0),   // on the cue ball
			{ID: 4, Position: NewVec2(50, 50), Radius: 0},
			ball(5, 200, 50),
		},
		Walls: []Wall{
			{ID: 0, P1: NewVec2(0, 0), P2: NewVec2(0, 0)},
			{ID: 1, P1: NewVec2(0, 0), P2: NewVec2(10, 0)},
		},
	}

	clean, rejected, err := Sanitize(snap)
	require.NoError(t, err)
	require.Len(t, clean.Targets, 2)
	require.Equal(t, 1, clean.Targets[0].ID)
	require.Equal(t, 5, clean.Targets[1].ID)
	require.Len(t, clean.Walls, 1)
	require.Len(t, rejected, 4)

	// the input is untouched
	require.Len(t, snap.Targets, 5)
	require.Len(t, snap.Walls, 2)
}

func TestSanitizeRejectsBadCueBall(t *testing.T) {
	_, _, err := Sanitize(Snapshot{CueBall: Ball{Radius: 0}})
	require.ErrorIs(t, err, ErrDegenerateInput)
}

func TestShotKindString(t *testing.T) {
	require.Equal(t, "direct", Direct().String())
	require.Equal(t, "reflected(wall 2)", Reflected(Wall{ID: 2}).String())

	_, ok := Direct().Wall()
	require.False(t, ok)
}

func TestSanitizeRenumbersDuplicateIDs(t *testing.T) {
	snap := Snapshot{
		CueBall: ball(0, 0, 0),
		Targets: []Ball{ball(0, 100, 0), ball(0, 50, 0), ball(7, 200, 50)},
	}

	clean, _, err := Sanitize(snap)
	require.NoError(t, err)
	require.Equal(t, 1, clean.Targets[0].ID)
	require.Equal(t, 2, clean.Targets[1].ID)
	require.Equal(t, 3, clean.Targets[2].ID)
	require.Equal(t, 0, snap.Targets[0].ID)

	// distinct IDs are kept as given
	snap.Targets = []Ball{ball(4, 100, 0), ball(9, 50, 0)}
	clean, _, err = Sanitize(snap)
	require.NoError(t, err)
	require.Equal(t, 4, clean.Targets[0].ID)
	require.Equal(t, 9, clean.Targets[1].ID)
}

func TestEnumerateDirectSharedIDsStillObstruct(t *testing.T) {
	cue := ball(0, 0, 0)
	targets := []Ball{ball(0, 100, 0), ball(0, 50, 0)}
	holes := []Hole{{ID: 0, Position: NewVec2(200, 0)}}

	require.Empty(t, EnumerateDirect(cue, targets, holes, scenarioParams()))
}

func TestPlanSnapshotWithoutBallIDs(t *testing.T) {
	raw := `{
		"cue_ball": {"position": {"x": 0, "y": 0}, "radius": 15},
		"targets": [
			{"position": {"x": 100, "y": 0}, "radius": 15},
			{"position": {"x": 50, "y": 0}, "radius": 15}
		],
		"holes": [{"position": {"x": 200, "y": 0}}]
	}`
	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))
	snap.Walls = boxTable()

	plan, err := New(scenarioParams(), DefaultAimParams()).Plan(snap)
	require.NoError(t, err)
	require.Equal(t, 0, plan.Direct)
	require.True(t, plan.Shot.Kind().IsReflected())
	require.Equal(t, NewVec2(100, 0), plan.Shot.Target().Position)
	require.Equal(t, 1, plan.Shot.Target().ID)
}
