package geom

import "math"

// Shape is a closed variant over the two convex primitives the engine
// supports. Collision functions dispatch exhaustively on the pair of
// concrete types; adding a shape means updating every switch in collide.go.
type Shape interface {
	Area() float64
	BoundingBox(pose Pose) AABB
	ContainsPoint(pt Vec2, pose Pose) bool

	sealed()
}

// AABB is an axis-aligned bounding box used for the broad-phase reject.
type AABB struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func (b AABB) Intersects(o AABB) bool {
	return !(b.MaxX < o.MinX || b.MinX > o.MaxX || b.MaxY < o.MinY || b.MinY > o.MaxY)
}

func (b AABB) Expand(margin float64) AABB {
	return AABB{b.MinX - margin, b.MinY - margin, b.MaxX + margin, b.MaxY + margin}
}

// Circle is a disc centered on its body's origin.
type Circle struct {
	Radius float64
}

func (c Circle) sealed() {}

func (c Circle) Area() float64 { return math.Pi * c.Radius * c.Radius }

func (c Circle) BoundingBox(pose Pose) AABB {
	return AABB{pose.X - c.Radius, pose.Y - c.Radius, pose.X + c.Radius, pose.Y + c.Radius}
}

func (c Circle) ContainsPoint(pt Vec2, pose Pose) bool {
	dx := pt.X - pose.X
	dy := pt.Y - pose.Y
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// Polygon is a convex polygon given by ordered vertices in body-local
// coordinates. At least three vertices are required; NewPolygon enforces
// this, so a Polygon in the wild is always well formed.
type Polygon struct {
	Vertices []Vec2
}

// NewPolygon copies the vertex list. It panics on fewer than three
// vertices, matching the constructor contract of the config loader which
// validates counts before building shapes.
func NewPolygon(vertices []Vec2) Polygon {
	if len(vertices) < 3 {
		panic("geom: polygon requires at least three vertices")
	}
	vs := make([]Vec2, len(vertices))
	copy(vs, vertices)
	return Polygon{Vertices: vs}
}

func (p Polygon) sealed() {}

func (p Polygon) Area() float64 {
	area := 0.0
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		area += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(area) * 0.5
}

// WorldVertices applies pose to every vertex.
func (p Polygon) WorldVertices(pose Pose) []Vec2 {
	out := make([]Vec2, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = pose.TransformPoint(v)
	}
	return out
}

func (p Polygon) BoundingBox(pose Pose) AABB {
	verts := p.WorldVertices(pose)
	box := AABB{verts[0].X, verts[0].Y, verts[0].X, verts[0].Y}
	for _, v := range verts[1:] {
		box.MinX = math.Min(box.MinX, v.X)
		box.MinY = math.Min(box.MinY, v.Y)
		box.MaxX = math.Max(box.MaxX, v.X)
		box.MaxY = math.Max(box.MaxY, v.Y)
	}
	return box
}

// ContainsPoint uses an even-odd crossing test in the local frame.
func (p Polygon) ContainsPoint(pt Vec2, pose Pose) bool {
	local := pose.Inverse().TransformPoint(pt)
	inside := false
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		if (a.Y <= local.Y && local.Y < b.Y) || (b.Y <= local.Y && local.Y < a.Y) {
			xCross := a.X + (local.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y+1e-12)
			if local.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

func centroid(verts []Vec2) Vec2 {
	if len(verts) == 0 {
		return Vec2{}
	}
	var c Vec2
	for _, v := range verts {
		c = c.Add(v)
	}
	return c.Scale(1.0 / float64(len(verts)))
}

func distancePointToSegment(pt, a, b Vec2) float64 {
	d := b.Sub(a)
	if d.X == 0 && d.Y == 0 {
		return pt.Sub(a).Len()
	}
	t := pt.Sub(a).Dot(d) / d.Dot(d)
	t = math.Max(0, math.Min(1, t))
	return pt.Sub(a.Add(d.Scale(t))).Len()
}

func projectPointToSegment(pt, a, b Vec2) Vec2 {
	d := b.Sub(a)
	if d.X == 0 && d.Y == 0 {
		return a
	}
	t := pt.Sub(a).Dot(d) / d.Dot(d)
	t = math.Max(0, math.Min(1, t))
	return a.Add(d.Scale(t))
}
