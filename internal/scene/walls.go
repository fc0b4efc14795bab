package scene

import (
	"fmt"
	"math"
)

// wallMaterial is the surface used for generated boundary and stroke
// walls.
func wallMaterial(color [3]int) MaterialConfig {
	m := DefaultMaterialConfig()
	m.Color = color
	m.Friction = 0.9
	m.Restitution = 0.05
	m.Roughness = 0.7
	m.Thickness = 0.04
	return m
}

func staticBodyConfig(name string, points []Point, color [3]int) BodyConfig {
	edges := make([]Edge, len(points))
	for i := range points {
		edges[i] = Edge{i, (i + 1) % len(points)}
	}
	return BodyConfig{
		Name:     name,
		Points:   points,
		Edges:    edges,
		CanMove:  false,
		Mass:     10,
		Inertia:  10,
		Material: wallMaterial(color),
	}
}

// BoundsWalls generates four thin static rectangles along the environment
// boundary.
func BoundsWalls(b *Bounds) []BodyConfig {
	if b == nil {
		return nil
	}
	const thickness = 0.05
	half := thickness / 2
	color := [3]int{90, 120, 170}
	rect := func(x0, y0, x1, y1 float64) []Point {
		return []Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	}
	return []BodyConfig{
		staticBodyConfig("env_bound_bottom", rect(b.MinX-half, b.MinY-half, b.MaxX+half, b.MinY+half), color),
		staticBodyConfig("env_bound_top", rect(b.MinX-half, b.MaxY-half, b.MaxX+half, b.MaxY+half), color),
		staticBodyConfig("env_bound_left", rect(b.MinX-half, b.MinY-half, b.MinX+half, b.MaxY+half), color),
		staticBodyConfig("env_bound_right", rect(b.MaxX-half, b.MinY-half, b.MaxX+half, b.MaxY+half), color),
	}
}

// StrokeWalls converts "wall" strokes into static rectangles, one per
// segment, extruded to the stroke thickness. "mark" strokes are visual
// only and produce nothing.
func StrokeWalls(strokes []StrokeConfig) []BodyConfig {
	var configs []BodyConfig
	segIdx := 0
	for _, stroke := range strokes {
		if stroke.Kind != "wall" || len(stroke.Points) < 2 {
			continue
		}
		thickness := math.Max(1e-4, stroke.Thickness)
		for i := 0; i+1 < len(stroke.Points); i++ {
			p0, p1 := stroke.Points[i], stroke.Points[i+1]
			dx := p1[0] - p0[0]
			dy := p1[1] - p0[1]
			segLen := math.Hypot(dx, dy)
			if segLen < 1e-6 {
				continue
			}
			nx := -dy / segLen * thickness / 2
			ny := dx / segLen * thickness / 2
			rect := []Point{
				{p0[0] + nx, p0[1] + ny},
				{p1[0] + nx, p1[1] + ny},
				{p1[0] - nx, p1[1] - ny},
				{p0[0] - nx, p0[1] - ny},
			}
			configs = append(configs, staticBodyConfig(fmt.Sprintf("env_wall_%d", segIdx), rect, stroke.Color))
			segIdx++
		}
	}
	return configs
}
