package scene

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalRobot() RobotConfig {
	return RobotConfig{
		SpawnPose: Pose3{0.5, 0.5, 0},
		Bodies: []BodyConfig{{
			Name:     "chassis",
			Points:   []Point{{-0.1, -0.08}, {0.1, -0.08}, {0.1, 0.08}, {-0.1, 0.08}},
			CanMove:  true,
			Mass:     1.6,
			Inertia:  0.02,
			Material: DefaultMaterialConfig(),
		}},
		Controller: "none",
	}
}

func minimalScenario() *Scenario {
	return &Scenario{
		Name:  "test_arena",
		World: DefaultWorldConfig(),
		Robots: []ScenarioRobot{
			{ID: "bot", Config: minimalRobot()},
		},
	}
}

func TestScenarioRoundTrip(t *testing.T) {
	sc := minimalScenario()
	sc.World.Bounds = &Bounds{MinX: -1, MinY: -1, MaxX: 1, MaxY: 1}
	sc.World.Seed = 42

	path := filepath.Join(t.TempDir(), "arena.json")
	require.NoError(t, SaveScenario(path, sc))

	loaded, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, sc.Name, loaded.Name)
	assert.Equal(t, sc.World.Seed, loaded.World.Seed)
	require.NotNil(t, loaded.World.Bounds)
	assert.Equal(t, *sc.World.Bounds, *loaded.World.Bounds)
	require.Len(t, loaded.Robots, 1)
	assert.Equal(t, "bot", loaded.Robots[0].ID)
	assert.Equal(t, sc.Robots[0].Config.Bodies[0].Points, loaded.Robots[0].Config.Bodies[0].Points)
}

func TestValidateRejectsBadTimestep(t *testing.T) {
	sc := minimalScenario()
	sc.World.Timestep = 0
	assert.ErrorContains(t, sc.Validate(), "timestep")
}

func TestValidateRejectsDuplicateRobotIDs(t *testing.T) {
	sc := minimalScenario()
	sc.Robots = append(sc.Robots, ScenarioRobot{ID: "bot", Config: minimalRobot()})
	assert.ErrorContains(t, sc.Validate(), "duplicate robot id")
}

func TestValidateRejectsDegeneratePolygon(t *testing.T) {
	sc := minimalScenario()
	sc.Robots[0].Config.Bodies[0].Points = []Point{{0, 0}, {1, 0}}
	assert.ErrorContains(t, sc.Validate(), "at least 3 points")
}

func TestValidateRejectsDanglingJoint(t *testing.T) {
	sc := minimalScenario()
	sc.Robots[0].Config.Joints = []JointConfig{{
		Name: "axle", Parent: "chassis", Child: "missing",
	}}
	assert.ErrorContains(t, sc.Validate(), "unknown body")
}

func TestSpawnOverride(t *testing.T) {
	r := ScenarioRobot{Config: minimalRobot()}
	assert.Equal(t, Pose3{0.5, 0.5, 0}, r.Spawn())

	over := Pose3{2, 3, math.Pi}
	r.SpawnPose = &over
	assert.Equal(t, over, r.Spawn())
}

func TestControllerRefPrecedence(t *testing.T) {
	r := ScenarioRobot{Config: minimalRobot()}
	assert.Equal(t, "none", r.ControllerRef())

	r.Config.Controller = "line_follower"
	assert.Equal(t, "line_follower", r.ControllerRef())

	r.Controller = "manual"
	assert.Equal(t, "manual", r.ControllerRef())
}

func TestEffectiveTraction(t *testing.T) {
	m := DefaultMaterialConfig()
	assert.Equal(t, m.Friction, m.EffectiveTraction())

	tr := 1.2
	m.Traction = &tr
	assert.Equal(t, 1.2, m.EffectiveTraction())
}

func TestBoundsWalls(t *testing.T) {
	walls := BoundsWalls(&Bounds{MinX: -2, MinY: -1, MaxX: 2, MaxY: 1})
	require.Len(t, walls, 4)
	for _, w := range walls {
		assert.False(t, w.CanMove)
		assert.Len(t, w.Points, 4)
	}
	assert.Nil(t, BoundsWalls(nil))
}

func TestStrokeWallsExtrudeSegments(t *testing.T) {
	strokes := []StrokeConfig{
		{Kind: "wall", Thickness: 0.04, Points: []Point{{0, 0}, {1, 0}, {1, 1}}},
		{Kind: "mark", Thickness: 0.04, Points: []Point{{0, 0}, {1, 0}}},
	}
	walls := StrokeWalls(strokes)
	require.Len(t, walls, 2, "two wall segments, marks produce no collision")

	// First segment runs along +x; its rectangle spans y in [-0.02, 0.02].
	for _, p := range walls[0].Points {
		assert.InDelta(t, 0, p[1], 0.02+1e-9)
	}
}

func TestStrokeWallsSkipDegenerateSegments(t *testing.T) {
	strokes := []StrokeConfig{
		{Kind: "wall", Thickness: 0.04, Points: []Point{{0, 0}, {0, 0}}},
	}
	assert.Empty(t, StrokeWalls(strokes))
}

func TestRunSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := &RunSettings{
		Scenario: "arena.json",
		Duration: 5,
		Dt:       1.0 / 240.0,
		Seed:     7,
		Controllers: map[string]string{
			"bot": "line_follower",
		},
		Trace:   true,
		DataDir: "out",
	}
	require.NoError(t, SaveRunSettings(path, cfg))

	loaded, err := LoadRunSettings(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadRunSettingsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenario: arena.json\n"), 0644))

	loaded, err := LoadRunSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "arena.json", loaded.Scenario)
	assert.Equal(t, 10.0, loaded.Duration, "unset keys keep their defaults")
	assert.True(t, loaded.Trace, "trace defaults on")
	assert.Equal(t, ".botsim", loaded.DataDir)
}

func TestRunSettingsApplyControllers(t *testing.T) {
	sc := &Scenario{
		Name:  "pair",
		World: DefaultWorldConfig(),
		Robots: []ScenarioRobot{
			{ID: "alpha", Config: minimalRobot()},
			{Config: minimalRobot()}, // id defaults to robot_2
			{ID: "gamma", Config: minimalRobot(), Controller: "bangbang"},
		},
	}
	cfg := &RunSettings{Controllers: map[string]string{
		"alpha":   "corridor",
		"robot_2": "constant",
		"missing": "corridor",
	}}

	cfg.ApplyControllers(sc)

	assert.Equal(t, "corridor", sc.Robots[0].Controller)
	assert.Equal(t, "constant", sc.Robots[1].Controller)
	assert.Equal(t, "bangbang", sc.Robots[2].Controller, "robots without an entry keep theirs")
}
