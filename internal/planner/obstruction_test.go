package planner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ball(id int, x, y float64) Ball {
	return Ball{ID: id, Position: NewVec2(x, y), Radius: 15}
}

func TestIsBlockedNoObstacles(t *testing.T) {
	require.False(t, IsBlocked(NewVec2(0, 0), NewVec2(100, 0), nil, 30))
	require.False(t, IsBlocked(NewVec2(0, 0), NewVec2(100, 0), []Ball{}, 30))
}

func TestIsBlockedObstacleOnSegment(t *testing.T) {
	start, end := NewVec2(0, 0), NewVec2(200, 0)
	for _, x := range []float64{20, 50, 100, 150} {
		for _, y := range []float64{0, 10, -29} {
			require.True(t, IsBlocked(start, end, []Ball{ball(1, x, y)}, 30), "obstacle at (%v,%v)", x, y)
		}
	}
}

func TestIsBlockedIgnoresEndpoints(t *testing.T) {
	start, end := NewVec2(0, 0), NewVec2(100, 0)
	obstacles := []Ball{ball(1, 0, 0), ball(2, 100, 0)}
	require.False(t, IsBlocked(start, end, obstacles, 30))

	// within epsilon still counts as the endpoint
	require.False(t, IsBlocked(start, end, []Ball{ball(3, 100+1e-9, 0)}, 30))
}

func TestIsBlockedClearance(t *testing.T) {
	start, end := NewVec2(0, 0), NewVec2(100, 0)
	require.False(t, IsBlocked(start, end, []Ball{ball(1, 50, 30)}, 30), "distance equal to clearance is clear")
	require.False(t, IsBlocked(start, end, []Ball{ball(1, 50, -45)}, 30))
	require.True(t, IsBlocked(start, end, []Ball{ball(1, 50, 29.9)}, 30))
}

func TestIsBlockedBeyondEnd(t *testing.T) {
	start, end := NewVec2(0, 0), NewVec2(100, 0)
	require.False(t, IsBlocked(start, end, []Ball{ball(1, 150, 0)}, 30))
	require.False(t, IsBlocked(start, end, []Ball{ball(1, 100.5, 5)}, 30))
}

func TestIsBlockedAnyOfMany(t *testing.T) {
	start, end := NewVec2(0, 0), NewVec2(0, 300)
	obstacles := []Ball{ball(1, 100, 100), ball(2, -80, 250), ball(3, 5, 200)}
	require.True(t, IsBlocked(start, end, obstacles, 30))
	require.False(t, IsBlocked(start, end, obstacles[:2], 30))
}
