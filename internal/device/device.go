// Package device holds the plumbing shared by motors and sensors: mount
// poses relative to a parent body, Gaussian noise profiles, and the
// sample-and-hold clock that rate-limits sensor refreshes.
package device

import (
	"math/rand"

	"github.com/rmarien/botsim/internal/entity"
	"github.com/rmarien/botsim/internal/geom"
)

// NoiseProfile is a bias plus zero-mean Gaussian noise. Samples are drawn
// from the caller-supplied RNG so that one seeded generator per simulator
// keeps runs reproducible.
type NoiseProfile struct {
	Bias   float64
	StdDev float64
}

func (n NoiseProfile) Sample(rng *rand.Rand) float64 {
	if n.StdDev == 0 {
		return n.Bias
	}
	return n.Bias + rng.NormFloat64()*n.StdDev
}

// Mount attaches a named component onto a body at a fixed relative pose.
type Mount struct {
	name      string
	mountPose geom.Pose
	parent    *entity.Body
}

func NewMount(name string, mountPose geom.Pose) Mount {
	return Mount{name: name, mountPose: mountPose}
}

func (m *Mount) ComponentName() string { return m.name }
func (m *Mount) MountPose() geom.Pose  { return m.mountPose }
func (m *Mount) Parent() *entity.Body  { return m.parent }

// AttachTo binds the mount to its parent body and registers it on the
// body's component list. The reference is non-owning.
func (m *Mount) AttachTo(parent *entity.Body) {
	m.parent = parent
	if parent != nil {
		parent.Attach(m)
	}
}

// WorldPose composes the parent pose with the mount pose. An unattached
// mount reports its local pose unchanged.
func (m *Mount) WorldPose() geom.Pose {
	if m.parent == nil {
		return m.mountPose
	}
	return m.parent.Pose.Compose(m.mountPose)
}

// SampleClock implements sample-and-hold timing: Due accumulates dt and
// fires at most once per period. A zero period fires every tick.
type SampleClock struct {
	period  float64
	elapsed float64
}

func NewSampleClock(rateHz float64) SampleClock {
	period := 0.0
	if rateHz > 0 {
		period = 1.0 / rateHz
	}
	return SampleClock{period: period}
}

func (c *SampleClock) Period() float64 { return c.period }

func (c *SampleClock) Due(dt float64) bool {
	if c.period == 0 {
		return true
	}
	c.elapsed += dt
	if c.elapsed >= c.period {
		c.elapsed = 0
		return true
	}
	return false
}

// Reset clears accumulated time, forcing a full period before the next
// sample.
func (c *SampleClock) Reset() { c.elapsed = 0 }
