package device

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rmarien/botsim/internal/entity"
	"github.com/rmarien/botsim/internal/geom"
	"github.com/rmarien/botsim/internal/material"
)

func TestSampleClockCadence(t *testing.T) {
	// 40 Hz clock ticked at 120 Hz fires on every third tick.
	clock := NewSampleClock(40)
	dt := 1.0 / 120.0
	fired := 0
	for i := 0; i < 12; i++ {
		if clock.Due(dt) {
			fired++
		}
	}
	if fired != 4 {
		t.Errorf("fired %d times in 12 ticks, want 4", fired)
	}
}

func TestSampleClockZeroRateFiresAlways(t *testing.T) {
	clock := NewSampleClock(0)
	for i := 0; i < 3; i++ {
		if !clock.Due(0.01) {
			t.Fatal("zero-rate clock must fire every tick")
		}
	}
}

func TestSampleClockReset(t *testing.T) {
	clock := NewSampleClock(10)
	clock.Due(0.09)
	clock.Reset()
	if clock.Due(0.05) {
		t.Error("reset clock fired before a full period elapsed")
	}
	if !clock.Due(0.05) {
		t.Error("clock did not fire after a full period")
	}
}

func TestMountWorldPose(t *testing.T) {
	shape := geom.NewPolygon([]geom.Vec2{{X: -0.1, Y: -0.1}, {X: 0.1, Y: -0.1}, {X: 0.1, Y: 0.1}, {X: -0.1, Y: 0.1}})
	parent := entity.New("chassis", geom.Pose{X: 1, Y: 0, Theta: math.Pi / 2}, shape,
		material.Default(), true, entity.DynamicState{Mass: 1, Inertia: 1})

	m := NewMount("sensor", geom.Pose{X: 0.2})
	m.AttachTo(parent)

	got := m.WorldPose()
	if math.Abs(got.X-1) > 1e-9 || math.Abs(got.Y-0.2) > 1e-9 {
		t.Errorf("world pose = %+v, want (1, 0.2)", got)
	}
	if m.Parent() != parent {
		t.Error("parent not recorded")
	}
	if len(parent.Components()) != 1 {
		t.Error("mount not registered on the parent")
	}
}

func TestMountUnattachedWorldPose(t *testing.T) {
	m := NewMount("loose", geom.Pose{X: 0.3, Y: -0.1})
	got := m.WorldPose()
	if got.X != 0.3 || got.Y != -0.1 {
		t.Errorf("unattached world pose = %+v", got)
	}
}

func TestNoiseProfile(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	quiet := NoiseProfile{Bias: 0.5}
	if got := quiet.Sample(rng); got != 0.5 {
		t.Errorf("zero-std sample = %f, want bias", got)
	}

	noisy := NoiseProfile{StdDev: 0.1}
	a := rand.New(rand.NewSource(42))
	b := rand.New(rand.NewSource(42))
	for i := 0; i < 5; i++ {
		if noisy.Sample(a) != noisy.Sample(b) {
			t.Fatal("same seed must produce identical noise")
		}
	}
}
