// Package material describes how bodies interact with the solver and with
// sensors: contact friction, restitution, wheel traction, reflectivity,
// plus an open map of named scalar field signals (for example
// "line_intensity") that field-sampling sensors read.
package material

// Material holds the physical and signal-level attributes of a body.
// Custom carries free-form attributes (color, thickness, ...) that the
// physics never interprets.
type Material struct {
	Friction     float64
	Restitution  float64
	Traction     float64
	Reflectivity float64
	FieldSignals map[string]float64
	Custom       map[string]any
}

// Default mirrors the untextured material the scene loader falls back to.
func Default() Material {
	return Material{
		Friction:     0.6,
		Restitution:  0.1,
		Traction:     0.6,
		Reflectivity: 0.3,
	}
}

// FieldValue returns the named scalar field signal, or def when the
// material does not carry it.
func (m Material) FieldValue(name string, def float64) float64 {
	if v, ok := m.FieldSignals[name]; ok {
		return v
	}
	return def
}

// WithField returns a copy carrying the given field signal.
func (m Material) WithField(name string, value float64) Material {
	fields := make(map[string]float64, len(m.FieldSignals)+1)
	for k, v := range m.FieldSignals {
		fields[k] = v
	}
	fields[name] = value
	m.FieldSignals = fields
	return m
}
