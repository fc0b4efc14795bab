package sensor

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmarien/botsim/internal/device"
	"github.com/rmarien/botsim/internal/entity"
	"github.com/rmarien/botsim/internal/geom"
	"github.com/rmarien/botsim/internal/material"
)

// fakeWorld is a minimal deterministic sensing environment.
type fakeWorld struct {
	bodies []*entity.Body
	time   float64
	rng    *rand.Rand
}

func newFakeWorld(bodies ...*entity.Body) *fakeWorld {
	return &fakeWorld{bodies: bodies, rng: rand.New(rand.NewSource(1))}
}

func (w *fakeWorld) Bodies() []*entity.Body { return w.bodies }
func (w *fakeWorld) Time() float64          { return w.time }
func (w *fakeWorld) RNG() *rand.Rand        { return w.rng }

func box(name string, x, y, halfW, halfH float64, canMove bool) *entity.Body {
	shape := geom.NewPolygon([]geom.Vec2{{X: -halfW, Y: -halfH}, {X: halfW, Y: -halfH}, {X: halfW, Y: halfH}, {X: -halfW, Y: halfH}})
	return entity.New(name, geom.Pose{X: x, Y: y}, shape, material.Default(), canMove,
		entity.DynamicState{Mass: 1, Inertia: 1})
}

func quiet(cfg DistanceConfig) DistanceConfig {
	cfg.Noise = device.NoiseProfile{}
	return cfg
}

func TestDistanceHitsWall(t *testing.T) {
	robot := box("robot", 0, 0, 0.05, 0.05, true)
	wall := box("wall", 1.0, 0, 0.05, 0.5, false)
	w := newFakeWorld(robot, wall)

	cfg := quiet(DefaultDistanceConfig())
	cfg.UpdateRateHz = 0 // fire every tick
	s := NewDistance("front", geom.Pose{}, cfg)
	s.AttachTo(robot)

	r := s.Read(w, 0.01)
	require.NotNil(t, r)
	// Wall face is at x=0.95; the march proceeds in 0.01 steps.
	assert.InDelta(t, 0.95, r.Value.(float64), cfg.Step+1e-9)
}

func TestDistanceMissReadsMaxRange(t *testing.T) {
	robot := box("robot", 0, 0, 0.05, 0.05, true)
	w := newFakeWorld(robot)

	cfg := quiet(DefaultDistanceConfig())
	cfg.UpdateRateHz = 0
	s := NewDistance("front", geom.Pose{}, cfg)
	s.AttachTo(robot)

	r := s.Read(w, 0.01)
	require.NotNil(t, r)
	assert.Equal(t, cfg.MaxRange, r.Value.(float64))
}

func TestDistanceIgnoresParent(t *testing.T) {
	// The ray starts inside the parent body; it must not self-detect.
	robot := box("robot", 0, 0, 0.2, 0.2, true)
	w := newFakeWorld(robot)

	cfg := quiet(DefaultDistanceConfig())
	cfg.UpdateRateHz = 0
	s := NewDistance("front", geom.Pose{}, cfg)
	s.AttachTo(robot)

	r := s.Read(w, 0.01)
	require.NotNil(t, r)
	assert.Equal(t, cfg.MaxRange, r.Value.(float64))
}

func TestSampleAndHold(t *testing.T) {
	robot := box("robot", 0, 0, 0.05, 0.05, true)
	wall := box("wall", 1.0, 0, 0.05, 0.5, false)
	w := newFakeWorld(robot, wall)

	cfg := quiet(DefaultDistanceConfig())
	cfg.UpdateRateHz = 40
	s := NewDistance("front", geom.Pose{}, cfg)
	s.AttachTo(robot)

	dt := 1.0 / 120.0
	fresh := 0
	for i := 0; i < 12; i++ {
		if r := s.Read(w, dt); r != nil {
			fresh++
		}
	}
	assert.Equal(t, 4, fresh, "40 Hz sensor at 120 Hz ticks refreshes every third tick")
	assert.NotNil(t, s.LastReading(), "held reading must survive between refreshes")
}

func TestLineDetectsMark(t *testing.T) {
	robot := box("robot", 0, 0, 0.05, 0.05, true)
	mark := box("mark", 0, 0, 0.5, 0.02, false)
	mark.Material = mark.Material.WithField(LineIntensityField, 0.9)
	w := newFakeWorld(robot, mark)

	cfg := DefaultLineConfig()
	cfg.Noise = device.NoiseProfile{}
	cfg.UpdateRateHz = 0
	s := NewLine("line", geom.Pose{X: 0.1}, cfg)
	s.AttachTo(robot)

	r := s.Read(w, 0.01)
	require.NotNil(t, r)
	assert.InDelta(t, 0.9, r.Value.(float64), 1e-9)
}

func TestLineArrayOrdering(t *testing.T) {
	robot := box("robot", 0, 0, 0.01, 0.01, true)
	// Mark covering only y > 0, i.e. the positive lateral offsets.
	mark := box("mark", 0, 0.5, 1.0, 0.5, false)
	mark.Material = mark.Material.WithField(LineIntensityField, 1.0)
	w := newFakeWorld(robot, mark)

	cfg := DefaultLineConfig()
	cfg.Noise = device.NoiseProfile{}
	cfg.UpdateRateHz = 0
	cfg.Count = 3
	cfg.Spacing = 0.04
	// Rotate the mount so array offsets (local x) land on world y.
	s := NewLineArray("array", geom.Pose{Theta: math.Pi / 2}, cfg)
	s.AttachTo(robot)

	r := s.Read(w, 0.01)
	require.NotNil(t, r)
	values := r.Value.([]float64)
	require.Len(t, values, 3)
	assert.Equal(t, 0.0, values[0], "negative offset is off the mark")
	assert.Equal(t, 1.0, values[2], "positive offset is on the mark")
}

func TestBinaryLineThreshold(t *testing.T) {
	robot := box("robot", 0, 0, 0.05, 0.05, true)
	mark := box("mark", 0, 0, 0.5, 0.5, false)
	mark.Material = mark.Material.WithField(LineIntensityField, 0.8)
	w := newFakeWorld(robot, mark)

	cfg := DefaultLineConfig()
	cfg.Noise = device.NoiseProfile{}
	cfg.UpdateRateHz = 0
	s := NewBinaryLine("bin", geom.Pose{}, cfg, 0.5)
	s.AttachTo(robot)

	r := s.Read(w, 0.01)
	require.NotNil(t, r)
	assert.Equal(t, 1.0, r.Value.(float64))

	mark.Material = mark.Material.WithField(LineIntensityField, 0.2)
	r = s.Read(w, 0.01)
	require.NotNil(t, r)
	assert.Equal(t, 0.0, r.Value.(float64))
}

func TestIMUReportsVelocities(t *testing.T) {
	robot := box("robot", 0, 0, 0.05, 0.05, true)
	robot.State.LinearVelocity = geom.Vec2{X: 0.4, Y: -0.2}
	robot.State.AngularVelocity = 1.5
	w := newFakeWorld(robot)

	s := NewIMU("imu", 0, device.NoiseProfile{Bias: 0, StdDev: 1e-9})
	s.AttachTo(robot)

	r := s.Read(w, 0.01)
	require.NotNil(t, r)
	v := r.Value.(VelocityReading)
	assert.InDelta(t, 0.4, v.Linear.X, 1e-3)
	assert.InDelta(t, -0.2, v.Linear.Y, 1e-3)
	assert.InDelta(t, 1.5, v.Angular, 1e-3)
}

func TestEncoderReportsAngularVelocity(t *testing.T) {
	robot := box("robot", 0, 0, 0.05, 0.05, true)
	robot.State.AngularVelocity = -2.0
	w := newFakeWorld(robot)

	s := NewEncoder("enc", 0, device.NoiseProfile{Bias: 0, StdDev: 1e-9})
	s.AttachTo(robot)

	r := s.Read(w, 0.01)
	require.NotNil(t, r)
	assert.InDelta(t, -2.0, r.Value.(float64), 1e-3)
}

func TestUnattachedSensorReadsNil(t *testing.T) {
	w := newFakeWorld()
	s := NewDistance("loose", geom.Pose{}, quiet(DefaultDistanceConfig()))
	assert.Nil(t, s.Read(w, 0.01))
}
