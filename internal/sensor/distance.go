package sensor

import (
	"github.com/rmarien/botsim/internal/device"
	"github.com/rmarien/botsim/internal/geom"
)

// DistanceConfig parameterizes a ray-marching range finder.
type DistanceConfig struct {
	MaxRange     float64
	Step         float64 // march step length, m
	UpdateRateHz float64
	Noise        device.NoiseProfile
}

// DefaultDistanceConfig mirrors the short-range preset.
func DefaultDistanceConfig() DistanceConfig {
	return DistanceConfig{
		MaxRange:     1.5,
		Step:         0.01,
		UpdateRateHz: 40,
		Noise:        device.NoiseProfile{StdDev: 0.01},
	}
}

// Distance marches a ray from the mount pose along its heading and
// reports the distance to the first body containing the sample point.
// Value is a float64 clamped to [0, MaxRange]; a miss reads MaxRange.
type Distance struct {
	base
	Cfg DistanceConfig
}

func NewDistance(name string, mountPose geom.Pose, cfg DistanceConfig) *Distance {
	return &Distance{base: newBase(name, mountPose, cfg.UpdateRateHz, cfg.Noise), Cfg: cfg}
}

func (s *Distance) Read(w World, dt float64) *Reading {
	if s.Parent() == nil || !s.clock.Due(dt) {
		return nil
	}
	pose := s.WorldPose()
	dir := pose.Heading()
	value := s.Cfg.MaxRange
	if hit, ok := s.rayMarch(w, pose.Position(), dir); ok {
		value = hit
	}
	value = clamp(value+s.noise.Sample(w.RNG()), 0, s.Cfg.MaxRange)
	return s.hold(&Reading{Name: s.ComponentName(), Value: value, Timestamp: w.Time()})
}

// rayMarch steps along the ray in fixed increments and returns the first
// distance at which any body other than the parent contains the point.
func (s *Distance) rayMarch(w World, origin, dir geom.Vec2) (float64, bool) {
	parent := s.Parent()
	bodies := w.Bodies()
	for d := 0.0; d <= s.Cfg.MaxRange; d += s.Cfg.Step {
		pt := origin.Add(dir.Scale(d))
		for _, b := range bodies {
			if b == parent {
				continue
			}
			if b.Shape.ContainsPoint(pt, b.Pose) {
				return d, true
			}
		}
	}
	return 0, false
}
