// Package sim owns the simulation: body/motor/sensor/joint tables, the
// fixed-timestep pipeline, the contact and joint solvers, snapshots and
// per-robot failure containment.
package sim

import (
	"errors"
	"fmt"
)

// Domain errors. Only configuration faults abort a load; everything that
// happens inside Step degrades to sanitization plus a warning, or to a
// recorded per-robot controller error.
var (
	// ErrNotLoaded indicates an operation that needs a loaded scene.
	ErrNotLoaded = errors.New("sim: no scenario loaded")

	// ErrMissingController indicates the referenced controller is not in
	// the registry. Recorded per robot, never fatal: the robot simply has
	// no behavior until a reload succeeds.
	ErrMissingController = errors.New("sim: controller not found")

	// ErrUnknownRobot indicates a robot id that is not part of the scene.
	ErrUnknownRobot = errors.New("sim: unknown robot id")
)

// ConfigError is fatal at load time: the scene references something that
// does not exist (an actuator or sensor naming a missing parent body, an
// unsupported device type).
type ConfigError struct {
	Robot  string
	Device string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Robot != "" {
		return fmt.Sprintf("sim: config error (robot %s, device %s): %s", e.Robot, e.Device, e.Reason)
	}
	return fmt.Sprintf("sim: config error (device %s): %s", e.Device, e.Reason)
}

// ControllerError wraps a fault raised inside one robot's controller. It
// is recorded keyed by robot id; that robot's controller is skipped on
// subsequent ticks until the error is cleared, while physics and all other
// robots continue.
type ControllerError struct {
	Robot string
	Err   error
}

func (e *ControllerError) Error() string {
	return fmt.Sprintf("sim: controller error (robot %s): %v", e.Robot, e.Err)
}

func (e *ControllerError) Unwrap() error { return e.Err }
