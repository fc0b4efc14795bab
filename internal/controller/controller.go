// Package controller defines the plugin boundary between the engine and
// user robot behavior, plus a per-robot registry with an explicit
// load/replace/clear lifecycle. How controller code gets compiled or
// hot-swapped is a host concern; the engine only invokes Step and contains
// whatever goes wrong inside it.
package controller

// Readings maps local sensor names to their most recent values for one
// robot. Values are float64, []float64 or sensor.VelocityReading. Sensors
// sample on their own cadence: between samples the map holds the last
// value produced, so a sensor is absent only until its first sample.
type Readings map[string]any

// Robot is the handle a controller is constructed with. Controllers
// mutate simulation state only through motor commands; body poses are
// never reachable from here.
type Robot interface {
	ID() string
	// Motor returns a command handle for a motor by its local name.
	Motor(name string) (Motor, bool)
	MotorNames() []string
}

// Motor is the command channel into one actuator.
type Motor interface {
	Command(value, dt float64)
}

// Controller drives one robot each tick. A non-nil error (or a panic,
// which the simulator converts) records a controller fault and suspends
// the controller until the fault is cleared.
type Controller interface {
	Step(readings Readings, dt float64) error
}

// Stateful is implemented by controllers whose internal state belongs in
// snapshots.
type Stateful interface {
	GetState() any
	SetState(state any)
}

// Float pulls a float64 reading, tolerating missing keys.
func Float(r Readings, name string, def float64) float64 {
	if v, ok := r[name]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

// Floats pulls a []float64 reading (line arrays), or nil.
func Floats(r Readings, name string) []float64 {
	if v, ok := r[name]; ok {
		if fs, ok := v.([]float64); ok {
			return fs
		}
	}
	return nil
}
