// Package tui renders a running simulation in the terminal: a character
// canvas of the arena plus live telemetry, driven by bubbletea.
package tui

import (
	"github.com/rmarien/botsim/internal/entity"
	"github.com/rmarien/botsim/internal/geom"
)

// canvas is a world-to-character projection of the arena. World
// coordinates map onto a fixed character grid with the vertical axis
// flipped and halved to compensate for cell aspect.
type canvas struct {
	w, h  int
	cells [][]rune
	// world window
	minX, minY, maxX, maxY float64
}

func newCanvas(w, h int, minX, minY, maxX, maxY float64) *canvas {
	cells := make([][]rune, h)
	for i := range cells {
		cells[i] = make([]rune, w)
	}
	c := &canvas{w: w, h: h, cells: cells, minX: minX, minY: minY, maxX: maxX, maxY: maxY}
	c.clear()
	return c
}

func (c *canvas) clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = ' '
		}
	}
}

func (c *canvas) project(p geom.Vec2) (int, int) {
	fx := (p.X - c.minX) / (c.maxX - c.minX)
	fy := (p.Y - c.minY) / (c.maxY - c.minY)
	return int(fx * float64(c.w-1)), int((1 - fy) * float64(c.h-1))
}

func (c *canvas) set(x, y int, r rune) {
	if x >= 0 && x < c.w && y >= 0 && y < c.h {
		c.cells[y][x] = r
	}
}

func (c *canvas) line(x1, y1, x2, y2 int, r rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		c.set(x1, y1, r)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawBody outlines a body's shape. Dynamic bodies get a heading tick
// from their centroid so orientation reads at a glance.
func (c *canvas) drawBody(b *entity.Body, outline, marker rune) {
	switch shape := b.Shape.(type) {
	case geom.Polygon:
		verts := shape.WorldVertices(b.Pose)
		for i := range verts {
			x1, y1 := c.project(verts[i])
			x2, y2 := c.project(verts[(i+1)%len(verts)])
			c.line(x1, y1, x2, y2, outline)
		}
	case geom.Circle:
		// Circles render as their bounding box corners plus center.
		box := shape.BoundingBox(b.Pose)
		x1, y1 := c.project(geom.Vec2{X: box.MinX, Y: box.MinY})
		x2, y2 := c.project(geom.Vec2{X: box.MaxX, Y: box.MaxY})
		c.line(x1, y1, x2, y1, outline)
		c.line(x1, y2, x2, y2, outline)
		c.line(x1, y1, x1, y2, outline)
		c.line(x2, y1, x2, y2, outline)
	}
	if b.CanMove {
		center := b.Pose.Position()
		tip := center.Add(b.Pose.Heading().Scale(0.06))
		cx, cy := c.project(center)
		tx, ty := c.project(tip)
		c.line(cx, cy, tx, ty, '>')
		c.set(cx, cy, marker)
	}
}

func (c *canvas) rows() []string {
	out := make([]string, c.h)
	for i, row := range c.cells {
		out[i] = string(row)
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
