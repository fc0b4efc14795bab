// Package entity ties geometry, materials and motion together into rigid
// bodies. A Body is owned exclusively by the simulator's body table; motors
// and sensors keep non-owning references to their parent body.
package entity

import (
	"github.com/rmarien/botsim/internal/geom"
	"github.com/rmarien/botsim/internal/material"
)

// DynamicState is the kinematic state of a movable body. Bodies with
// CanMove=false are treated as infinite mass and never integrated.
type DynamicState struct {
	LinearVelocity  geom.Vec2
	AngularVelocity float64
	Mass            float64
	Inertia         float64
}

// Component is anything mountable onto a body (motors, sensors). The body
// only tracks attachment; behavior lives with the component.
type Component interface {
	ComponentName() string
}

// Body is a physical object placed into the simulation.
type Body struct {
	Name     string
	Pose     geom.Pose
	Shape    geom.Shape
	Material material.Material
	CanMove  bool
	State    DynamicState

	pendingForce  geom.Vec2
	pendingTorque float64
	components    []Component
}

// New builds a body with the given geometry. Static bodies keep their mass
// for wheel normal-load purposes but are never integrated.
func New(name string, pose geom.Pose, shape geom.Shape, mat material.Material, canMove bool, state DynamicState) *Body {
	return &Body{
		Name:     name,
		Pose:     pose,
		Shape:    shape,
		Material: mat,
		CanMove:  canMove,
		State:    state,
	}
}

// InvMass returns 1/mass, or 0 for immovable or massless bodies.
func (b *Body) InvMass() float64 {
	if !b.CanMove || b.State.Mass <= 0 {
		return 0
	}
	return 1.0 / b.State.Mass
}

// InvInertia returns 1/inertia, or 0 when the body cannot rotate.
func (b *Body) InvInertia() float64 {
	if !b.CanMove || b.State.Inertia <= 0 {
		return 0
	}
	return 1.0 / b.State.Inertia
}

// ApplyForce accumulates a force through the center of mass for the next
// integration step.
func (b *Body) ApplyForce(force geom.Vec2) {
	b.pendingForce = b.pendingForce.Add(force)
}

// ApplyForceAt accumulates a force applied at a world-space point,
// inducing torque about the center of mass.
func (b *Body) ApplyForceAt(force geom.Vec2, point geom.Vec2) {
	b.pendingForce = b.pendingForce.Add(force)
	r := point.Sub(b.Pose.Position())
	b.pendingTorque += r.Cross(force)
}

// ApplyTorque accumulates a pure torque.
func (b *Body) ApplyTorque(torque float64) {
	b.pendingTorque += torque
}

// ClearAccumulators drops any pending force/torque.
func (b *Body) ClearAccumulators() {
	b.pendingForce = geom.Vec2{}
	b.pendingTorque = 0
}

// Integrate applies accumulated forces to the velocity state and advances
// the pose by one step of semi-implicit Euler. Immovable bodies only clear
// their accumulators.
func (b *Body) Integrate(dt float64) {
	if !b.CanMove {
		b.ClearAccumulators()
		return
	}
	if b.State.Mass > 0 {
		b.State.LinearVelocity = b.State.LinearVelocity.Add(b.pendingForce.Scale(dt / b.State.Mass))
	}
	if b.State.Inertia > 0 {
		b.State.AngularVelocity += b.pendingTorque / b.State.Inertia * dt
	}
	b.Pose = b.Pose.Translated(b.State.LinearVelocity.X*dt, b.State.LinearVelocity.Y*dt)
	if b.State.AngularVelocity != 0 {
		b.Pose = b.Pose.Rotated(b.State.AngularVelocity * dt)
	}
	b.ClearAccumulators()
}

// ApplyImpulseAt changes linear and angular velocity immediately from an
// impulse applied at a world-space point.
func (b *Body) ApplyImpulseAt(impulse geom.Vec2, point geom.Vec2) {
	if !b.CanMove || b.State.Mass <= 0 {
		return
	}
	b.State.LinearVelocity = b.State.LinearVelocity.Add(impulse.Scale(1.0 / b.State.Mass))
	if b.State.Inertia > 0 {
		r := point.Sub(b.Pose.Position())
		b.State.AngularVelocity += r.Cross(impulse) / b.State.Inertia
	}
}

// VelocityAt returns the velocity of a world-space point rigidly attached
// to the body.
func (b *Body) VelocityAt(point geom.Vec2) geom.Vec2 {
	r := point.Sub(b.Pose.Position())
	return geom.Vec2{
		X: b.State.LinearVelocity.X - b.State.AngularVelocity*r.Y,
		Y: b.State.LinearVelocity.Y + b.State.AngularVelocity*r.X,
	}
}

// InvMassAlong returns the effective inverse mass felt by an impulse along
// axis at a world-space contact point.
func (b *Body) InvMassAlong(point geom.Vec2, axis geom.Vec2) float64 {
	r := point.Sub(b.Pose.Position())
	rn := r.Cross(axis)
	return b.InvMass() + rn*rn*b.InvInertia()
}

// BoundingBox returns the body's world-space AABB.
func (b *Body) BoundingBox() geom.AABB {
	return b.Shape.BoundingBox(b.Pose)
}

// Overlaps reports whether two bodies' shapes intersect.
func (b *Body) Overlaps(o *Body) bool {
	return geom.Intersects(b.Shape, b.Pose, o.Shape, o.Pose)
}

// FieldValue reads a named material field signal.
func (b *Body) FieldValue(name string, def float64) float64 {
	return b.Material.FieldValue(name, def)
}

// Attach registers a mounted component. Attaching twice is a no-op.
func (b *Body) Attach(c Component) {
	for _, existing := range b.components {
		if existing == c {
			return
		}
	}
	b.components = append(b.components, c)
}

// Components returns the attached components in attach order.
func (b *Body) Components() []Component {
	out := make([]Component, len(b.components))
	copy(out, b.components)
	return out
}
