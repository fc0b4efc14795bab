// Package sensor implements the sampling models: ray-marched distance,
// field-sampling line sensors, and IMU/encoder velocity readouts. Every
// sensor is sample-and-hold: Read returns nil on ticks where the sensor's
// own update period has not elapsed, and callers reuse the last reading.
package sensor

import (
	"math/rand"

	"github.com/rmarien/botsim/internal/device"
	"github.com/rmarien/botsim/internal/entity"
	"github.com/rmarien/botsim/internal/geom"
)

// World is the view a sensor needs of the running simulation. Bodies must
// be returned in a deterministic order so that which body a field sample
// hits first, and how many noise draws are taken, never varies between
// identical runs.
type World interface {
	Bodies() []*entity.Body
	Time() float64
	RNG() *rand.Rand
}

// Reading is one sensor sample. Value is a float64, []float64 or
// VelocityReading depending on the sensor type.
type Reading struct {
	Name      string
	Value     any
	Timestamp float64
}

// Sensor is the common surface of all mounted sensors.
type Sensor interface {
	ComponentName() string
	Parent() *entity.Body
	AttachTo(*entity.Body)
	// Read samples the world if the sensor's update period has elapsed;
	// it returns nil when there is no new reading this tick.
	Read(w World, dt float64) *Reading
	LastReading() *Reading
}

// base carries the plumbing every concrete sensor shares.
type base struct {
	device.Mount
	clock device.SampleClock
	noise device.NoiseProfile
	last  *Reading
}

func newBase(name string, mountPose geom.Pose, rateHz float64, noise device.NoiseProfile) base {
	return base{
		Mount: device.NewMount(name, mountPose),
		clock: device.NewSampleClock(rateHz),
		noise: noise,
	}
}

func (b *base) LastReading() *Reading { return b.last }

func (b *base) hold(r *Reading) *Reading {
	b.last = r
	return r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
