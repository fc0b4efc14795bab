package sim

import (
	"math"

	"github.com/rmarien/botsim/internal/entity"
	"github.com/rmarien/botsim/internal/geom"
)

// solveContacts detects overlapping body pairs and resolves them with a
// positional correction, a restitution impulse along the contact normal,
// and Coulomb friction along the tangent. Resolution acts on the bodies'
// center-of-mass linear velocities only; contacts never change angular
// velocity.
func (s *Simulator) solveContacts(dt float64) {
	n := len(s.bodyOrder)
	for i := 0; i < n; i++ {
		a := s.bodies[s.bodyOrder[i]]
		for j := i + 1; j < n; j++ {
			b := s.bodies[s.bodyOrder[j]]
			if !a.CanMove && !b.CanMove {
				continue
			}
			if !a.BoundingBox().Intersects(b.BoundingBox()) {
				continue
			}
			m := geom.Collide(a.Shape, a.Pose, b.Shape, b.Pose)
			if m == nil {
				continue
			}
			s.resolveContact(a, b, m)
		}
	}
}

func (s *Simulator) resolveContact(a, b *entity.Body, m *geom.Manifold) {
	normal := m.Normal
	invA := a.InvMass()
	invB := b.InvMass()
	invSum := invA + invB
	if invSum <= 0 {
		return
	}

	// Positional correction for penetration beyond the slop, capped so a
	// deep overlap resolves over a few ticks.
	if depth := m.Penetration - s.contactSlop; depth > 0 {
		mag := depth * s.contactCorrection / invSum
		mag = math.Min(mag, s.maxPenCorrection)
		if a.CanMove {
			a.Pose.X -= normal.X * mag * invA
			a.Pose.Y -= normal.Y * mag * invA
		}
		if b.CanMove {
			b.Pose.X += normal.X * mag * invB
			b.Pose.Y += normal.Y * mag * invB
		}
	}

	rel := a.State.LinearVelocity.Sub(b.State.LinearVelocity)
	vn := rel.Dot(normal)
	if vn > 0 || math.IsNaN(vn) || math.IsInf(vn, 0) {
		return
	}

	e := math.Max(a.Material.Restitution, b.Material.Restitution)
	e = clampF(e, 0, 1)
	jn := -(1 + e) * vn / invSum
	a.State.LinearVelocity = a.State.LinearVelocity.Sub(normal.Scale(jn * invA))
	b.State.LinearVelocity = b.State.LinearVelocity.Add(normal.Scale(jn * invB))

	// Coulomb friction along the tangent, capped by the normal impulse.
	rel = a.State.LinearVelocity.Sub(b.State.LinearVelocity)
	tangent := normal.Perp()
	vt := rel.Dot(tangent)
	jt := -vt / invSum
	mu := 0.5 * (a.Material.Friction + b.Material.Friction)
	maxJt := mu * math.Abs(jn)
	jt = clampF(jt, -maxJt, maxJt)
	a.State.LinearVelocity = a.State.LinearVelocity.Sub(tangent.Scale(jt * invA))
	b.State.LinearVelocity = b.State.LinearVelocity.Add(tangent.Scale(jt * invB))
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
