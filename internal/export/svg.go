// Package export renders persisted run telemetry into shareable files.
package export

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rmarien/botsim/internal/trace"
)

var strokeColors = []string{
	"#00ff00", "#00c8ff", "#ff8c00", "#ff4dd2", "#ffee00", "#ff3030",
}

// TracksToSVG renders every body's track from a run as one SVG, each body
// in its own color with a small label at the track start.
func TracksToSVG(records []trace.BodyRecord, width, height int) string {
	byBody := map[string][]trace.BodyRecord{}
	for _, r := range records {
		byBody[r.Body] = append(byBody[r.Body], r)
	}
	if len(byBody) == 0 {
		return ""
	}
	names := make([]string, 0, len(byBody))
	for name := range byBody {
		names = append(names, name)
	}
	sort.Strings(names)

	minX, maxX := records[0].X, records[0].X
	minY, maxY := records[0].Y, records[0].Y
	for _, r := range records {
		minX = min(minX, r.X)
		maxX = max(maxX, r.X)
		minY = min(minY, r.Y)
		maxY = max(maxY, r.Y)
	}
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	toScreen := func(x, y float64) (float64, float64) {
		sx := (x - minX) / rangeX * float64(width)
		sy := float64(height) - (y-minY)/rangeY*float64(height)
		return sx, sy
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, name := range names {
		track := byBody[name]
		if len(track) < 2 {
			continue
		}
		color := strokeColors[i%len(strokeColors)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for j, p := range track {
			x, y := toScreen(p.X, p.Y)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
		x, y := toScreen(track[0].X, track[0].Y)
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-size="10" font-family="monospace">%s</text>
`, x+4, y-4, color, name))
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// WriteTracksSVG renders a run's body tracks to an SVG file.
func WriteTracksSVG(path string, records []trace.BodyRecord, width, height int) error {
	svg := TracksToSVG(records, width, height)
	if svg == "" {
		return fmt.Errorf("export: no track data")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
