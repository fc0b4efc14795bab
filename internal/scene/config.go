// Package scene defines the configuration records the engine consumes:
// world terrain and markings, robot bodies/joints/devices, and scenario
// documents combining them. Files are JSON; the producing editor is out of
// scope, the schema is the contract.
package scene

// Pose3 is (x, y, theta) in meters/radians.
type Pose3 [3]float64

// Point is (x, y) in meters.
type Point [2]float64

// Edge indexes two vertices of a body outline.
type Edge [2]int

// MaterialConfig carries surface properties. Traction is optional and
// falls back to Friction; Custom holds free-form attributes such as
// line_intensity for floor markings.
type MaterialConfig struct {
	Color           [3]int         `json:"color"`
	Roughness       float64        `json:"roughness"`
	Friction        float64        `json:"friction"`
	Traction        *float64       `json:"traction,omitempty"`
	Restitution     float64        `json:"restitution"`
	ReflectLine     float64        `json:"reflect_line"`
	ReflectDistance float64        `json:"reflect_distance"`
	Thickness       float64        `json:"thickness"`
	Custom          map[string]any `json:"custom,omitempty"`
}

// DefaultMaterialConfig mirrors the untextured default surface.
func DefaultMaterialConfig() MaterialConfig {
	return MaterialConfig{
		Color:           [3]int{180, 180, 180},
		Roughness:       0.5,
		Friction:        0.8,
		Restitution:     0.1,
		ReflectLine:     0.5,
		ReflectDistance: 0.5,
		Thickness:       0.02,
	}
}

// BodyConfig describes one rigid body: a convex polygon outline in local
// coordinates plus mass properties and material.
type BodyConfig struct {
	Name     string         `json:"name"`
	Points   []Point        `json:"points"`
	Edges    []Edge         `json:"edges"`
	Pose     Pose3          `json:"pose"`
	CanMove  bool           `json:"can_move"`
	Mass     float64        `json:"mass"`
	Inertia  float64        `json:"inertia"`
	Material MaterialConfig `json:"material"`
}

// JointConfig links two bodies. Type is "rigid" or "hinge"; the solver
// treats both as a distance constraint between the anchors.
type JointConfig struct {
	Name         string  `json:"name"`
	Parent       string  `json:"parent"`
	Child        string  `json:"child"`
	Type         string  `json:"type"`
	AnchorParent Point   `json:"anchor_parent"`
	AnchorChild  Point   `json:"anchor_child"`
	LowerLimit   float64 `json:"lower_limit"`
	UpperLimit   float64 `json:"upper_limit"`
	Stiffness    float64 `json:"stiffness"`
	Damping      float64 `json:"damping"`
}

// ActuatorConfig mounts a motor onto a body. Params carries the wheel
// tunables (max_force, mu_long, mu_lat, wheel_radius, response_time,
// max_wheel_omega, wheel_count, normal_force, lateral_damping, g_equiv).
type ActuatorConfig struct {
	Name      string             `json:"name"`
	Type      string             `json:"type"`
	Body      string             `json:"body"`
	MountPose Pose3              `json:"mount_pose"`
	Params    map[string]float64 `json:"params,omitempty"`
}

// SensorConfig mounts a sensor onto a body. Type is one of "distance",
// "line", "line_array", "binary_line", "imu", "encoder".
type SensorConfig struct {
	Name      string             `json:"name"`
	Type      string             `json:"type"`
	Body      string             `json:"body"`
	MountPose Pose3              `json:"mount_pose"`
	Params    map[string]float64 `json:"params,omitempty"`
}

// RobotConfig is a robot asset: bodies in spawn-relative coordinates plus
// the devices mounted on them and the controller it expects.
type RobotConfig struct {
	SpawnPose  Pose3            `json:"spawn_pose"`
	Bodies     []BodyConfig     `json:"bodies"`
	Joints     []JointConfig    `json:"joints,omitempty"`
	Actuators  []ActuatorConfig `json:"actuators,omitempty"`
	Sensors    []SensorConfig   `json:"sensors,omitempty"`
	Controller string           `json:"controller"`
}

// StrokeConfig is freeform drawn geometry. Kind "wall" becomes collision
// rectangles; "mark" is visual-only and carries a line intensity for
// sensors via its material custom map.
type StrokeConfig struct {
	Kind      string  `json:"kind"`
	Thickness float64 `json:"thickness"`
	Points    []Point `json:"points"`
	Color     [3]int  `json:"color"`
}

// Bounds is the rectangular environment boundary; walls are generated
// along its edges at load time.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// WorldObject names a static body placed into the world.
type WorldObject struct {
	Name string     `json:"name"`
	Body BodyConfig `json:"body"`
}

// WorldConfig describes the environment a scenario runs in.
type WorldConfig struct {
	Name         string        `json:"name"`
	Seed         int64         `json:"seed"`
	Gravity      [2]float64    `json:"gravity"`
	Timestep     float64       `json:"timestep"`
	Terrain      []WorldObject `json:"terrain,omitempty"`
	Drawings     []StrokeConfig `json:"drawings,omitempty"`
	Bounds       *Bounds       `json:"bounds,omitempty"`
	ShapeObjects []WorldObject `json:"shape_objects,omitempty"`
}

// DefaultWorldConfig returns an empty top-down world at 120 Hz.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Name:     "world",
		Gravity:  [2]float64{0, -9.81},
		Timestep: 1.0 / 120.0,
	}
}

// ScenarioRobot is one robot instance in a scenario: its asset config plus
// per-instance identity, spawn and controller override.
type ScenarioRobot struct {
	ID         string      `json:"id"`
	Config     RobotConfig `json:"config"`
	SpawnPose  *Pose3      `json:"spawn_pose,omitempty"`
	Controller string      `json:"controller,omitempty"`
	Role       string      `json:"role,omitempty"`
}

// Scenario is the self-contained document the simulator loads.
type Scenario struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	World       WorldConfig     `json:"world"`
	Robots      []ScenarioRobot `json:"robots"`
}

// Spawn returns the effective spawn pose of a scenario robot.
func (r ScenarioRobot) Spawn() Pose3 {
	if r.SpawnPose != nil {
		return *r.SpawnPose
	}
	return r.Config.SpawnPose
}

// ControllerRef returns the effective controller name of a scenario robot.
func (r ScenarioRobot) ControllerRef() string {
	if r.Controller != "" {
		return r.Controller
	}
	if r.Config.Controller != "" {
		return r.Config.Controller
	}
	return "none"
}

// EffectiveTraction resolves the optional traction value against friction.
func (m MaterialConfig) EffectiveTraction() float64 {
	if m.Traction != nil {
		return *m.Traction
	}
	return m.Friction
}
