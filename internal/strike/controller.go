// Package strike drives the arm through one shot: approach, power select,
// strike pulse and homing.
package strike

import (
	"context"
	"errors"
)

var (
	ErrMotionTimeout = errors.New("motion did not complete in time")
	ErrBusy          = errors.New("a strike is already in progress")
)

// Controller is the arm as seen by the executor. Poses are x, y, z, roll,
// pitch, yaw in table millimeters and degrees; joint targets are six axis
// angles in degrees.
type Controller interface {
	// MovePTP starts a point-to-point move to a Cartesian pose.
	MovePTP(ctx context.Context, pose [6]float64) error
	// MoveLinear starts a straight-line move to a Cartesian pose.
	MoveLinear(ctx context.Context, pose [6]float64) error
	// MoveJoints starts a point-to-point move to axis angles.
	MoveJoints(ctx context.Context, joints [6]float64) error
	SetDigitalOutput(ctx context.Context, pin int, on bool) error
	// MotionDone reports whether the last motion command has finished.
	MotionDone(ctx context.Context) (bool, error)
}
