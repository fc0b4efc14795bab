package sensor

import (
	"github.com/rmarien/botsim/internal/device"
	"github.com/rmarien/botsim/internal/entity"
	"github.com/rmarien/botsim/internal/geom"
)

// LineIntensityField is the material field signal line sensors respond to.
const LineIntensityField = "line_intensity"

// LineConfig parameterizes a reflectance-style line sensor or array.
type LineConfig struct {
	MaxSignal    float64
	UpdateRateHz float64
	Noise        device.NoiseProfile
	Spacing      float64 // lateral spacing between array elements, m
	Count        int     // number of array elements
}

// DefaultLineConfig mirrors the basic five-element reflectance array.
func DefaultLineConfig() LineConfig {
	return LineConfig{
		MaxSignal:    1.0,
		UpdateRateHz: 60,
		Noise:        device.NoiseProfile{StdDev: 0.02},
		Spacing:      0.02,
		Count:        5,
	}
}

// sampleLineIntensity returns the line_intensity of the first body whose
// shape contains the point, or 0 when nothing marks the floor there.
func sampleLineIntensity(w World, pt geom.Vec2) float64 {
	for _, b := range w.Bodies() {
		intensity := b.FieldValue(LineIntensityField, 0)
		if intensity <= 0 {
			continue
		}
		if b.Shape.ContainsPoint(pt, b.Pose) {
			return intensity
		}
	}
	return 0
}

// Line is a single reflectance sensor; Value is a float64 in [0, 1].
type Line struct {
	base
	Cfg LineConfig
}

func NewLine(name string, mountPose geom.Pose, cfg LineConfig) *Line {
	return &Line{base: newBase(name, mountPose, cfg.UpdateRateHz, cfg.Noise), Cfg: cfg}
}

func (s *Line) Read(w World, dt float64) *Reading {
	if s.Parent() == nil || !s.clock.Due(dt) {
		return nil
	}
	pose := s.WorldPose()
	signal := sampleLineIntensity(w, pose.Position())
	value := clamp(signal/s.Cfg.MaxSignal+s.noise.Sample(w.RNG()), 0, 1)
	return s.hold(&Reading{Name: s.ComponentName(), Value: value, Timestamp: w.Time()})
}

// LineArray samples Count points spread laterally around the mount pose;
// Value is a []float64, one normalized intensity per element, ordered from
// the most negative lateral offset to the most positive.
type LineArray struct {
	base
	Cfg     LineConfig
	offsets []geom.Pose
}

func NewLineArray(name string, mountPose geom.Pose, cfg LineConfig) *LineArray {
	if cfg.Count < 1 {
		cfg.Count = 1
	}
	offsets := make([]geom.Pose, cfg.Count)
	for i := range offsets {
		offsets[i] = geom.Pose{X: (float64(i) - float64(cfg.Count-1)/2) * cfg.Spacing}
	}
	return &LineArray{
		base:    newBase(name, mountPose, cfg.UpdateRateHz, cfg.Noise),
		Cfg:     cfg,
		offsets: offsets,
	}
}

// SamplePoints returns the world-space sample points for the current
// parent pose.
func (s *LineArray) SamplePoints() []geom.Vec2 {
	parent := s.Parent()
	if parent == nil {
		return nil
	}
	basePose := parent.Pose.Compose(s.MountPose())
	pts := make([]geom.Vec2, len(s.offsets))
	for i, off := range s.offsets {
		pts[i] = basePose.Compose(off).Position()
	}
	return pts
}

func (s *LineArray) Read(w World, dt float64) *Reading {
	if s.Parent() == nil || !s.clock.Due(dt) {
		return nil
	}
	points := s.SamplePoints()
	values := make([]float64, len(points))
	for i, pt := range points {
		signal := sampleLineIntensity(w, pt)
		values[i] = clamp(signal/s.Cfg.MaxSignal+s.noise.Sample(w.RNG()), 0, 1)
	}
	return s.hold(&Reading{Name: s.ComponentName(), Value: values, Timestamp: w.Time()})
}

// BinaryLine thresholds a single line sample to 0 or 1.
type BinaryLine struct {
	Line
	Threshold float64
}

func NewBinaryLine(name string, mountPose geom.Pose, cfg LineConfig, threshold float64) *BinaryLine {
	return &BinaryLine{Line: *NewLine(name, mountPose, cfg), Threshold: threshold}
}

func (s *BinaryLine) Read(w World, dt float64) *Reading {
	r := s.Line.Read(w, dt)
	if r == nil {
		return nil
	}
	v := 0.0
	if r.Value.(float64) >= s.Threshold {
		v = 1.0
	}
	r.Value = v
	return s.hold(r)
}

var _ entity.Component = (*Line)(nil)
