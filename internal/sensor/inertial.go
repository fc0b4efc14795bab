package sensor

import (
	"github.com/rmarien/botsim/internal/device"
	"github.com/rmarien/botsim/internal/geom"
)

// VelocityReading is the value type of an IMU sample: the parent body's
// instantaneous velocities with noise, not dead-reckoned integrals.
type VelocityReading struct {
	Linear  geom.Vec2
	Angular float64
}

// IMU reports the parent body's linear and angular velocity.
type IMU struct {
	base
}

func NewIMU(name string, rateHz float64, noise device.NoiseProfile) *IMU {
	if noise == (device.NoiseProfile{}) {
		noise = device.NoiseProfile{StdDev: 0.005}
	}
	return &IMU{base: newBase(name, geom.Pose{}, rateHz, noise)}
}

func (s *IMU) Read(w World, dt float64) *Reading {
	parent := s.Parent()
	if parent == nil || !s.clock.Due(dt) {
		return nil
	}
	rng := w.RNG()
	value := VelocityReading{
		Linear: geom.Vec2{
			X: parent.State.LinearVelocity.X + s.noise.Sample(rng),
			Y: parent.State.LinearVelocity.Y + s.noise.Sample(rng),
		},
		Angular: parent.State.AngularVelocity + s.noise.Sample(rng),
	}
	return s.hold(&Reading{Name: s.ComponentName(), Value: value, Timestamp: w.Time()})
}

// Encoder reports the parent body's angular velocity as a float64.
type Encoder struct {
	base
}

func NewEncoder(name string, rateHz float64, noise device.NoiseProfile) *Encoder {
	if noise == (device.NoiseProfile{}) {
		noise = device.NoiseProfile{StdDev: 0.001}
	}
	return &Encoder{base: newBase(name, geom.Pose{}, rateHz, noise)}
}

func (s *Encoder) Read(w World, dt float64) *Reading {
	parent := s.Parent()
	if parent == nil || !s.clock.Due(dt) {
		return nil
	}
	value := parent.State.AngularVelocity + s.noise.Sample(w.RNG())
	return s.hold(&Reading{Name: s.ComponentName(), Value: value, Timestamp: w.Time()})
}
