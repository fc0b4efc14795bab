package actuator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDifferentialDriveStraightLine(t *testing.T) {
	body := chassis(1.6, 0.01)
	cfg := DefaultWheelConfig()
	cfg.MaxForce = 3.0
	d := NewDifferentialDrive(0.24, cfg)
	d.AttachTo(body)

	dt := 0.05
	for i := 0; i < 40; i++ {
		d.Command(0.8, 0.8, dt)
	}
	assert.Greater(t, body.State.LinearVelocity.X, 0.1, "equal commands must drive forward")
	assert.InDelta(t, 0, body.State.AngularVelocity, 0.01, "equal commands must not spin the body")
}

func TestDifferentialDriveTurnsInPlace(t *testing.T) {
	body := chassis(1.0, 0.01)
	d := NewDifferentialDrive(0.24, DefaultWheelConfig())
	d.AttachTo(body)

	dt := 1.0 / 120.0
	for i := 0; i < 120; i++ {
		d.Command(-0.6, 0.6, dt)
	}
	// Left wheel backward, right wheel forward: counterclockwise, with
	// the left wheel at +y.
	assert.Greater(t, body.State.AngularVelocity, 0.05)
	assert.Less(t, math.Abs(body.State.LinearVelocity.X), 0.1, "opposite commands mostly cancel translation")
}

func TestDifferentialDriveMountPositions(t *testing.T) {
	d := NewDifferentialDrive(0.3, DefaultWheelConfig())
	assert.InDelta(t, 0.15, d.Left.MountPose().Y, 1e-9)
	assert.InDelta(t, -0.15, d.Right.MountPose().Y, 1e-9)
}
