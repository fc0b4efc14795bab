package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestVecOps(t *testing.T) {
	v := Vec2{3, 4}
	if v.Len() != 5 {
		t.Errorf("Len = %f, want 5", v.Len())
	}
	if got := v.Dot(Vec2{1, 0}); got != 3 {
		t.Errorf("Dot = %f, want 3", got)
	}
	if got := v.Cross(Vec2{1, 0}); got != -4 {
		t.Errorf("Cross = %f, want -4", got)
	}
	perp := Vec2{1, 0}.Perp()
	if perp.X != 0 || perp.Y != 1 {
		t.Errorf("Perp = %+v, want (0,1)", perp)
	}
	n := v.Normalized()
	if !almostEqual(n.Len(), 1) {
		t.Errorf("Normalized length = %f", n.Len())
	}
	if z := (Vec2{}).Normalized(); z.X != 0 || z.Y != 0 {
		t.Errorf("zero vector normalized = %+v", z)
	}
}

func TestPoseTransformPoint(t *testing.T) {
	p := Pose{X: 1, Y: 2, Theta: math.Pi / 2}
	got := p.TransformPoint(Vec2{1, 0})
	if !almostEqual(got.X, 1) || !almostEqual(got.Y, 3) {
		t.Errorf("TransformPoint = %+v, want (1,3)", got)
	}
}

func TestPoseComposeInverse(t *testing.T) {
	a := Pose{X: 0.3, Y: -0.7, Theta: 0.9}
	b := Pose{X: -1.2, Y: 0.4, Theta: -2.1}

	// Composition agrees with transforming a point through both poses.
	pt := Vec2{0.5, 0.25}
	viaCompose := a.Compose(b).TransformPoint(pt)
	viaChain := a.TransformPoint(b.TransformPoint(pt))
	if !almostEqual(viaCompose.X, viaChain.X) || !almostEqual(viaCompose.Y, viaChain.Y) {
		t.Errorf("compose mismatch: %+v vs %+v", viaCompose, viaChain)
	}

	// a.Inverse() undoes a.
	id := a.Compose(a.Inverse())
	if !almostEqual(id.X, 0) || !almostEqual(id.Y, 0) || !almostEqual(math.Mod(id.Theta, 2*math.Pi), 0) {
		t.Errorf("a*a^-1 = %+v, want identity", id)
	}
}

func TestPoseHeading(t *testing.T) {
	h := Pose{Theta: math.Pi}.Heading()
	if !almostEqual(h.X, -1) || !almostEqual(h.Y, 0) {
		t.Errorf("Heading = %+v, want (-1,0)", h)
	}
}

func TestIsFinite(t *testing.T) {
	if !(Pose{X: 1, Y: 2, Theta: 3}).IsFinite() {
		t.Error("finite pose reported non-finite")
	}
	if (Pose{X: math.NaN()}).IsFinite() {
		t.Error("NaN pose reported finite")
	}
	if (Vec2{Y: math.Inf(1)}).IsFinite() {
		t.Error("Inf vec reported finite")
	}
}
