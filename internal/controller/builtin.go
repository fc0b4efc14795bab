package controller

import "math"

func param(params map[string]float64, name string, def float64) float64 {
	if v, ok := params[name]; ok {
		return v
	}
	return def
}

func clamp1(v float64) float64 { return math.Max(-1, math.Min(1, v)) }

// Constant drives every motor with a fixed command. Useful for traction
// experiments and smoke runs.
type Constant struct {
	robot Robot
	value float64
}

func NewConstant(robot Robot, params map[string]float64) *Constant {
	return &Constant{robot: robot, value: param(params, "value", 0.5)}
}

func (c *Constant) Step(readings Readings, dt float64) error {
	for _, name := range c.robot.MotorNames() {
		if m, ok := c.robot.Motor(name); ok {
			m.Command(clamp1(c.value), dt)
		}
	}
	return nil
}

// BangBang is a two-sensor line follower: steer toward whichever side
// still sees the line, slow down on the edges, and search toward the last
// seen side when the line is lost.
type BangBang struct {
	robot        Robot
	forwardSpeed float64
	turnSpeed    float64
	searchTurn   float64
	edgeScale    float64
	lostScale    float64
	lastSeenSide float64
}

func NewBangBang(robot Robot, params map[string]float64) *BangBang {
	return &BangBang{
		robot:        robot,
		forwardSpeed: param(params, "forward_speed", 0.16),
		turnSpeed:    param(params, "turn_speed", 0.5),
		searchTurn:   param(params, "search_turn", 0.45),
		edgeScale:    param(params, "edge_speed_scale", 0.45),
		lostScale:    param(params, "lost_speed_scale", 0.3),
		lastSeenSide: 1,
	}
}

func (c *BangBang) Step(readings Readings, dt float64) error {
	left := Float(readings, "left_line", 0) >= 0.5
	right := Float(readings, "right_line", 0) >= 0.5

	turn := 0.0
	scale := 1.0
	switch {
	case left && !right:
		turn = c.turnSpeed
		scale = c.edgeScale
		c.lastSeenSide = 1
	case right && !left:
		turn = -c.turnSpeed
		scale = c.edgeScale
		c.lastSeenSide = -1
	case left && right:
		// centered, keep straight
	default:
		turn = math.Copysign(c.searchTurn, c.lastSeenSide)
		scale = c.lostScale
	}

	forward := c.forwardSpeed * scale
	c.command("left_motor", clamp1(forward-turn), dt)
	c.command("right_motor", clamp1(forward+turn), dt)
	return nil
}

func (c *BangBang) command(name string, value, dt float64) {
	if m, ok := c.robot.Motor(name); ok {
		m.Command(value, dt)
	}
}

func (c *BangBang) GetState() any {
	return map[string]float64{"last_seen_side": c.lastSeenSide}
}

func (c *BangBang) SetState(state any) {
	if m, ok := state.(map[string]float64); ok {
		if v, ok := m["last_seen_side"]; ok {
			c.lastSeenSide = v
		}
	}
}

// Corridor balances left/right distance sensors to stay centered between
// walls, spinning away when the front range closes up.
type Corridor struct {
	robot       Robot
	baseSpeed   float64
	balanceGain float64
	avoidGain   float64
}

func NewCorridor(robot Robot, params map[string]float64) *Corridor {
	return &Corridor{
		robot:       robot,
		baseSpeed:   param(params, "base_speed", 0.4),
		balanceGain: param(params, "balance_gain", 1.2),
		avoidGain:   param(params, "avoid_gain", 0.9),
	}
}

func (c *Corridor) Step(readings Readings, dt float64) error {
	front := Float(readings, "front_distance", 1.5)
	left := Float(readings, "left_distance", 0.4)
	right := Float(readings, "right_distance", 0.4)

	var leftCmd, rightCmd float64
	if front < 0.25 {
		leftCmd = -0.1
		rightCmd = c.baseSpeed + c.avoidGain
	} else {
		// Larger left clearance means steering left: slow the left side.
		correction := c.balanceGain * (left - right)
		leftCmd = c.baseSpeed - correction
		rightCmd = c.baseSpeed + correction
	}

	if m, ok := c.robot.Motor("left_motor"); ok {
		m.Command(clamp1(leftCmd), dt)
	}
	if m, ok := c.robot.Motor("right_motor"); ok {
		m.Command(clamp1(rightCmd), dt)
	}
	return nil
}
