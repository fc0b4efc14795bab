package trace

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MotorSummary aggregates one wheel's telemetry over a run.
type MotorSummary struct {
	Motor          string
	Ticks          int
	MeanSlip       float64
	StdSlip        float64
	MaxSlip        float64
	MeanCommand    float64
	MaxImpulse     float64
	MeanNormalLoad float64
}

// Summarize reduces a run's motor telemetry to per-motor statistics,
// sorted by motor name for stable output.
func Summarize(records []Record) []MotorSummary {
	bySlip := map[string][]float64{}
	byCmd := map[string][]float64{}
	byLoad := map[string][]float64{}
	maxImpulse := map[string]float64{}
	maxSlip := map[string]float64{}
	for _, rec := range records {
		for _, m := range rec.Motors {
			bySlip[m.Motor] = append(bySlip[m.Motor], m.SlipRatio)
			byCmd[m.Motor] = append(byCmd[m.Motor], m.Command)
			byLoad[m.Motor] = append(byLoad[m.Motor], m.NormalLoad)
			if v := math.Abs(m.AppliedImpulse); v > maxImpulse[m.Motor] {
				maxImpulse[m.Motor] = v
			}
			if v := math.Abs(m.SlipRatio); v > maxSlip[m.Motor] {
				maxSlip[m.Motor] = v
			}
		}
	}

	names := make([]string, 0, len(bySlip))
	for name := range bySlip {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]MotorSummary, 0, len(names))
	for _, name := range names {
		slips := bySlip[name]
		out = append(out, MotorSummary{
			Motor:          name,
			Ticks:          len(slips),
			MeanSlip:       stat.Mean(slips, nil),
			StdSlip:        stat.StdDev(slips, nil),
			MaxSlip:        maxSlip[name],
			MeanCommand:    stat.Mean(byCmd[name], nil),
			MaxImpulse:     maxImpulse[name],
			MeanNormalLoad: stat.Mean(byLoad[name], nil),
		})
	}
	return out
}

// PathLength integrates the distance a body traveled over its track.
func PathLength(track []BodyRecord) float64 {
	total := 0.0
	for i := 1; i < len(track); i++ {
		total += math.Hypot(track[i].X-track[i-1].X, track[i].Y-track[i-1].Y)
	}
	return total
}
