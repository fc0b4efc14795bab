package actuator

import (
	"github.com/rmarien/botsim/internal/entity"
	"github.com/rmarien/botsim/internal/geom"
)

// DifferentialDrive wraps two wheel motors mounted symmetrically about the
// body's longitudinal axis, separated by WheelBase.
type DifferentialDrive struct {
	WheelBase float64
	Left      *WheelMotor
	Right     *WheelMotor
}

// NewDifferentialDrive mounts left/right wheels at +-wheelBase/2. Both
// wheels share the config.
func NewDifferentialDrive(wheelBase float64, cfg WheelConfig) *DifferentialDrive {
	half := wheelBase / 2
	return &DifferentialDrive{
		WheelBase: wheelBase,
		Left:      NewWheelMotor("left_wheel", geom.Pose{X: 0, Y: half}, cfg),
		Right:     NewWheelMotor("right_wheel", geom.Pose{X: 0, Y: -half}, cfg),
	}
}

// AttachTo binds both wheels to the same parent body.
func (d *DifferentialDrive) AttachTo(parent *entity.Body) {
	d.Left.AttachTo(parent)
	d.Right.AttachTo(parent)
}

// Command drives both wheels for one tick.
func (d *DifferentialDrive) Command(left, right, dt float64) {
	d.Left.Command(left, dt)
	d.Right.Command(right, dt)
}
