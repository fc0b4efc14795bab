package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMotor records the last command it received.
type fakeMotor struct {
	last    float64
	stepped bool
}

func (m *fakeMotor) Command(value, dt float64) {
	m.last = value
	m.stepped = true
}

// fakeRobot is a registry-free robot handle with two named motors.
type fakeRobot struct {
	id     string
	motors map[string]*fakeMotor
}

func newFakeRobot() *fakeRobot {
	return &fakeRobot{
		id: "bot",
		motors: map[string]*fakeMotor{
			"left_motor":  {},
			"right_motor": {},
		},
	}
}

func (r *fakeRobot) ID() string { return r.id }

func (r *fakeRobot) Motor(name string) (Motor, bool) {
	m, ok := r.motors[name]
	return m, ok
}

func (r *fakeRobot) MotorNames() []string {
	return []string{"left_motor", "right_motor"}
}

func TestRegistryBuiltins(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"none", "constant", "bang_bang", "corridor"} {
		assert.Contains(t, reg.Names(), name)
	}
}

func TestRegistryUnknown(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.New("does_not_exist", newFakeRobot(), nil)
	assert.ErrorContains(t, err, "unknown controller")
}

func TestRegistryNoneIsNil(t *testing.T) {
	reg := NewRegistry()
	c, err := reg.New("none", newFakeRobot(), nil)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestRegistryReplace(t *testing.T) {
	reg := NewRegistry()
	reg.Register("constant", func(Robot, map[string]float64) Controller { return nil })
	c, err := reg.New("constant", newFakeRobot(), nil)
	require.NoError(t, err)
	assert.Nil(t, c, "registration replaces the builtin factory")
}

func TestConstantDrivesAllMotors(t *testing.T) {
	robot := newFakeRobot()
	c := NewConstant(robot, map[string]float64{"value": 0.7})
	require.NoError(t, c.Step(Readings{}, 0.01))
	assert.Equal(t, 0.7, robot.motors["left_motor"].last)
	assert.Equal(t, 0.7, robot.motors["right_motor"].last)
}

func TestConstantClampsCommand(t *testing.T) {
	robot := newFakeRobot()
	c := NewConstant(robot, map[string]float64{"value": 3})
	require.NoError(t, c.Step(Readings{}, 0.01))
	assert.Equal(t, 1.0, robot.motors["left_motor"].last)
}

func TestBangBangSteersTowardLine(t *testing.T) {
	robot := newFakeRobot()
	c := NewBangBang(robot, nil)

	// Only the left sensor sees the line: slow the left side to turn left.
	require.NoError(t, c.Step(Readings{"left_line": 1.0, "right_line": 0.0}, 0.01))
	left := robot.motors["left_motor"].last
	right := robot.motors["right_motor"].last
	assert.Less(t, left, right)
}

func TestBangBangSearchesTowardLastSeenSide(t *testing.T) {
	robot := newFakeRobot()
	c := NewBangBang(robot, nil)

	require.NoError(t, c.Step(Readings{"left_line": 0.0, "right_line": 1.0}, 0.01))
	turningRight := robot.motors["left_motor"].last > robot.motors["right_motor"].last
	assert.True(t, turningRight)

	// Line lost: keep searching in the direction it was last seen.
	require.NoError(t, c.Step(Readings{"left_line": 0.0, "right_line": 0.0}, 0.01))
	assert.Greater(t, robot.motors["left_motor"].last, robot.motors["right_motor"].last)
}

func TestBangBangCenteredGoesStraight(t *testing.T) {
	robot := newFakeRobot()
	c := NewBangBang(robot, nil)
	require.NoError(t, c.Step(Readings{"left_line": 1.0, "right_line": 1.0}, 0.01))
	assert.Equal(t, robot.motors["left_motor"].last, robot.motors["right_motor"].last)
}

func TestBangBangStateRoundTrip(t *testing.T) {
	c := NewBangBang(newFakeRobot(), nil)
	c.lastSeenSide = -1

	state := c.GetState()
	restored := NewBangBang(newFakeRobot(), nil)
	restored.SetState(state)
	assert.Equal(t, -1.0, restored.lastSeenSide)
}

func TestCorridorBalances(t *testing.T) {
	robot := newFakeRobot()
	c := NewCorridor(robot, nil)

	// More clearance on the left: steer left by slowing the left side.
	require.NoError(t, c.Step(Readings{
		"front_distance": 1.0,
		"left_distance":  0.6,
		"right_distance": 0.2,
	}, 0.01))
	assert.Less(t, robot.motors["left_motor"].last, robot.motors["right_motor"].last)
}

func TestCorridorAvoidsFrontWall(t *testing.T) {
	robot := newFakeRobot()
	c := NewCorridor(robot, nil)
	require.NoError(t, c.Step(Readings{"front_distance": 0.1}, 0.01))
	assert.Less(t, robot.motors["left_motor"].last, 0.0)
	assert.Greater(t, robot.motors["right_motor"].last, 0.0)
}

func TestReadingHelpers(t *testing.T) {
	r := Readings{
		"range": 0.42,
		"array": []float64{0.1, 0.9},
	}
	assert.Equal(t, 0.42, Float(r, "range", -1))
	assert.Equal(t, -1.0, Float(r, "missing", -1))
	assert.Equal(t, -1.0, Float(r, "array", -1), "wrong type falls back to default")
	assert.Equal(t, []float64{0.1, 0.9}, Floats(r, "array"))
	assert.Nil(t, Floats(r, "range"))
}
