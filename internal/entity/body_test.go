package entity

import (
	"math"
	"testing"

	"github.com/rmarien/botsim/internal/geom"
	"github.com/rmarien/botsim/internal/material"
)

func testBody(canMove bool, mass, inertia float64) *Body {
	shape := geom.NewPolygon([]geom.Vec2{{X: -0.1, Y: -0.1}, {X: 0.1, Y: -0.1}, {X: 0.1, Y: 0.1}, {X: -0.1, Y: 0.1}})
	return New("test", geom.Pose{}, shape, material.Default(), canMove, DynamicState{Mass: mass, Inertia: inertia})
}

func TestIntegrateSemiImplicit(t *testing.T) {
	b := testBody(true, 2.0, 0.1)
	b.ApplyForce(geom.Vec2{X: 4, Y: 0})
	b.Integrate(0.5)

	// Velocity updates first, then position uses the new velocity.
	if got := b.State.LinearVelocity.X; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("vx = %f, want 1.0", got)
	}
	if got := b.Pose.X; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("x = %f, want 0.5", got)
	}
}

func TestIntegrateTorque(t *testing.T) {
	b := testBody(true, 1.0, 0.5)
	b.ApplyTorque(1.0)
	b.Integrate(0.1)
	if got := b.State.AngularVelocity; math.Abs(got-0.2) > 1e-9 {
		t.Errorf("omega = %f, want 0.2", got)
	}
	if got := b.Pose.Theta; math.Abs(got-0.02) > 1e-9 {
		t.Errorf("theta = %f, want 0.02", got)
	}
}

func TestStaticBodyNeverMoves(t *testing.T) {
	b := testBody(false, 10, 10)
	b.ApplyForce(geom.Vec2{X: 100, Y: 100})
	b.ApplyImpulseAt(geom.Vec2{X: 5, Y: 5}, geom.Vec2{X: 0.1, Y: 0})
	b.Integrate(0.1)
	if b.Pose.X != 0 || b.Pose.Y != 0 || b.State.LinearVelocity.X != 0 {
		t.Errorf("static body moved: pose=%+v vel=%+v", b.Pose, b.State.LinearVelocity)
	}
	if b.InvMass() != 0 || b.InvInertia() != 0 {
		t.Error("static body must report zero inverse mass terms")
	}
}

func TestApplyForceAtProducesTorque(t *testing.T) {
	b := testBody(true, 1.0, 1.0)
	// Force +y at a point +x of the center spins counterclockwise.
	b.ApplyForceAt(geom.Vec2{Y: 1}, geom.Vec2{X: 0.1})
	b.Integrate(0.1)
	if b.State.AngularVelocity <= 0 {
		t.Errorf("omega = %f, want positive", b.State.AngularVelocity)
	}
}

func TestApplyImpulseAt(t *testing.T) {
	b := testBody(true, 2.0, 0.5)
	b.ApplyImpulseAt(geom.Vec2{X: 1}, geom.Vec2{Y: 0.25})

	if got := b.State.LinearVelocity.X; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("vx = %f, want 0.5", got)
	}
	// r x j = (0,0.25) x (1,0) = -0.25; omega = -0.25/0.5.
	if got := b.State.AngularVelocity; math.Abs(got+0.5) > 1e-9 {
		t.Errorf("omega = %f, want -0.5", got)
	}
}

func TestVelocityAt(t *testing.T) {
	b := testBody(true, 1.0, 1.0)
	b.State.AngularVelocity = 2.0
	v := b.VelocityAt(geom.Vec2{X: 0.5})
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Y-1.0) > 1e-9 {
		t.Errorf("velocity at point = %+v, want (0,1)", v)
	}
}

func TestInvMassAlong(t *testing.T) {
	b := testBody(true, 2.0, 0.5)
	// Axis through the center has no rotational term.
	along := b.InvMassAlong(geom.Vec2{}, geom.Vec2{X: 1})
	if math.Abs(along-0.5) > 1e-9 {
		t.Errorf("central InvMassAlong = %f, want 0.5", along)
	}
	// Offset lever arm adds (r x n)^2 / I = 0.04/0.5.
	offset := b.InvMassAlong(geom.Vec2{Y: 0.2}, geom.Vec2{X: 1})
	if math.Abs(offset-(0.5+0.08)) > 1e-9 {
		t.Errorf("offset InvMassAlong = %f, want 0.58", offset)
	}
}

func TestFieldValue(t *testing.T) {
	b := testBody(true, 1, 1)
	b.Material = b.Material.WithField("line_intensity", 0.8)
	if got := b.FieldValue("line_intensity", 0); got != 0.8 {
		t.Errorf("field = %f, want 0.8", got)
	}
	if got := b.FieldValue("missing", 0.3); got != 0.3 {
		t.Errorf("default = %f, want 0.3", got)
	}
}

func TestComponentRegistry(t *testing.T) {
	b := testBody(true, 1, 1)
	b.Attach(fakeComponent("gyro"))
	b.Attach(fakeComponent("wheel"))
	names := []string{}
	for _, c := range b.Components() {
		names = append(names, c.ComponentName())
	}
	if len(names) != 2 || names[0] != "gyro" || names[1] != "wheel" {
		t.Errorf("components = %v", names)
	}
}

type fakeComponent string

func (f fakeComponent) ComponentName() string { return string(f) }
