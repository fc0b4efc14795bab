package geom

import "math"

// Manifold carries contact info for one colliding pair. The normal is a
// unit vector pointing from shape A toward shape B, penetration is the
// positive overlap depth, and Contact is a representative world-space
// contact point. Manifolds are transient: the solver consumes them within
// the tick that produced them.
type Manifold struct {
	Normal      Vec2
	Penetration float64
	Contact     Vec2
}

// Intersects reports whether two posed shapes overlap. The bounding-box
// reject runs first; the exact test dispatches on the shape pair.
func Intersects(a Shape, poseA Pose, b Shape, poseB Pose) bool {
	if !a.BoundingBox(poseA).Intersects(b.BoundingBox(poseB)) {
		return false
	}
	switch sa := a.(type) {
	case Circle:
		switch sb := b.(type) {
		case Circle:
			return circleCircle(sa, poseA, sb, poseB)
		case Polygon:
			return circlePolygon(sa, poseA, sb, poseB)
		}
	case Polygon:
		switch sb := b.(type) {
		case Circle:
			return circlePolygon(sb, poseB, sa, poseA)
		case Polygon:
			va := sa.WorldVertices(poseA)
			vb := sb.WorldVertices(poseB)
			return satOverlap(va, vb) && satOverlap(vb, va)
		}
	}
	return false
}

// Collide computes the contact manifold for two posed shapes, or nil when
// they do not touch. Absence of a manifold is the only failure mode.
func Collide(a Shape, poseA Pose, b Shape, poseB Pose) *Manifold {
	switch sa := a.(type) {
	case Circle:
		switch sb := b.(type) {
		case Circle:
			return circleCircleManifold(sa, poseA, sb, poseB)
		case Polygon:
			m := circlePolygonManifold(sa, poseA, sb, poseB)
			if m == nil {
				return nil
			}
			// circlePolygonManifold orients polygon->circle; here the
			// circle is A, so flip to keep the A->B convention.
			m.Normal = m.Normal.Neg()
			return m
		}
	case Polygon:
		switch sb := b.(type) {
		case Circle:
			return circlePolygonManifold(sb, poseB, sa, poseA)
		case Polygon:
			return polygonPolygonManifold(sa, poseA, sb, poseB)
		}
	}
	return nil
}

func circleCircle(a Circle, poseA Pose, b Circle, poseB Pose) bool {
	dx := poseA.X - poseB.X
	dy := poseA.Y - poseB.Y
	sum := a.Radius + b.Radius
	return dx*dx+dy*dy <= sum*sum
}

func circlePolygon(c Circle, poseC Pose, p Polygon, poseP Pose) bool {
	center := poseC.Position()
	if p.ContainsPoint(center, poseP) {
		return true
	}
	verts := p.WorldVertices(poseP)
	n := len(verts)
	for i := 0; i < n; i++ {
		if distancePointToSegment(center, verts[i], verts[(i+1)%n]) <= c.Radius {
			return true
		}
	}
	return false
}

func satOverlap(va, vb []Vec2) bool {
	n := len(va)
	for i := 0; i < n; i++ {
		edge := va[(i+1)%n].Sub(va[i])
		axis := edge.Perp().Normalized()
		minA, maxA := project(axis, va)
		minB, maxB := project(axis, vb)
		if maxA < minB || maxB < minA {
			return false
		}
	}
	return true
}

func project(axis Vec2, verts []Vec2) (float64, float64) {
	lo := verts[0].Dot(axis)
	hi := lo
	for _, v := range verts[1:] {
		d := v.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

func circleCircleManifold(a Circle, poseA Pose, b Circle, poseB Pose) *Manifold {
	d := poseB.Position().Sub(poseA.Position())
	distSq := d.Dot(d)
	sum := a.Radius + b.Radius
	if distSq >= sum*sum {
		return nil
	}
	dist := 0.0
	if distSq > 1e-12 {
		dist = math.Sqrt(distSq)
	}
	m := &Manifold{Penetration: sum - dist}
	if dist > 1e-6 {
		m.Normal = d.Scale(1 / dist)
		m.Contact = poseA.Position().Add(m.Normal.Scale(a.Radius))
	} else {
		// Coincident centers: pick a stable arbitrary axis.
		m.Normal = Vec2{1, 0}
		m.Contact = poseA.Position()
	}
	return m
}

// circlePolygonManifold finds the polygon boundary feature nearest the
// circle center; the normal points from that feature to the center, i.e.
// polygon -> circle.
func circlePolygonManifold(c Circle, poseC Pose, p Polygon, poseP Pose) *Manifold {
	verts := p.WorldVertices(poseP)
	center := poseC.Position()
	closestDist := math.Inf(1)
	var closest Vec2
	for _, v := range verts {
		if d := center.Sub(v).Len(); d < closestDist {
			closestDist = d
			closest = v
		}
	}
	n := len(verts)
	for i := 0; i < n; i++ {
		a, b := verts[i], verts[(i+1)%n]
		if d := distancePointToSegment(center, a, b); d < closestDist {
			closestDist = d
			closest = projectPointToSegment(center, a, b)
		}
	}
	penetration := c.Radius - closestDist
	if penetration <= 0 {
		return nil
	}
	return &Manifold{
		Normal:      center.Sub(closest).Normalized(),
		Penetration: penetration,
		Contact:     closest,
	}
}

func polygonPolygonManifold(a Polygon, poseA Pose, b Polygon, poseB Pose) *Manifold {
	va := a.WorldVertices(poseA)
	vb := b.WorldVertices(poseB)

	pen := math.Inf(1)
	var axis, point Vec2
	ok := false

	// Minimum-overlap axis over both shapes' edge normals.
	check := func(v1, v2 []Vec2) bool {
		n := len(v1)
		for i := 0; i < n; i++ {
			normal := v1[(i+1)%n].Sub(v1[i]).Perp()
			min1, max1 := project(normal, v1)
			min2, max2 := project(normal, v2)
			overlap := math.Min(max1, max2) - math.Max(min1, min2)
			l := normal.Len()
			if l > 1e-12 {
				overlap /= l
			}
			if overlap <= 0 {
				return false
			}
			if overlap < pen {
				pen = overlap
				axis = normal.Normalized()
				point = v1[i]
				ok = true
			}
		}
		return true
	}
	if !check(va, vb) || !check(vb, va) || !ok {
		return nil
	}

	// Orient the axis from A to B using the centroid direction.
	if axis.Dot(centroid(vb).Sub(centroid(va))) < 0 {
		axis = axis.Neg()
	}
	return &Manifold{Normal: axis, Penetration: pen, Contact: point}
}
