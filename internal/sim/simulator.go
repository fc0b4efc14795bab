package sim

import (
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/rmarien/botsim/internal/actuator"
	"github.com/rmarien/botsim/internal/controller"
	"github.com/rmarien/botsim/internal/entity"
	"github.com/rmarien/botsim/internal/geom"
	"github.com/rmarien/botsim/internal/material"
	"github.com/rmarien/botsim/internal/scene"
	"github.com/rmarien/botsim/internal/sensor"
	"github.com/rmarien/botsim/internal/trace"
)

// Stability tunables for the stepping pipeline.
const (
	defaultLinearDamping         = 0.995
	defaultAngularDamping        = 0.995
	defaultMaxLinearSpeed        = 15.0
	defaultMaxAngularSpeed       = 40.0
	defaultContactCorrection     = 0.25
	defaultContactSlop           = 0.002
	defaultMaxPenetrationCorrect = 0.05
	defaultMaxStepTranslation    = 0.5
	multiRobotStepTranslation    = 0.25
	minSpawnSeparation           = 0.05
)

// robotState tracks one loaded robot: its config, spawn pose, which
// entries of the shared tables belong to it, its controller instance and
// any recorded controller fault.
type robotState struct {
	id             string
	cfg            scene.RobotConfig
	controllerName string
	spawn          scene.Pose3
	role           string

	bodies  []Name
	motors  []Name
	sensors []Name

	ctrl         controller.Controller
	ctrlErr      error
	lastReadings controller.Readings
	lastCommands map[string]float64
}

// Simulator owns all simulation state and runs the fixed-timestep
// pipeline. A Simulator is single-threaded; independent instances share
// nothing and may run concurrently.
type Simulator struct {
	logger   *zap.Logger
	registry *controller.Registry

	scenario *scene.Scenario
	dt       float64
	gravity  geom.Vec2
	time     float64
	step     int64
	rng      *rand.Rand

	bodies     map[Name]*entity.Body
	bodyOrder  []Name
	motors     map[Name]*actuator.WheelMotor
	motorOrder []Name
	sensors    map[Name]sensor.Sensor
	sensorOrd  []Name
	joints     []*jointRuntime

	robots     []*robotState
	robotsByID map[string]*robotState
	multi      bool

	lastWarning string

	linearDamping     float64
	angularDamping    float64
	maxLinearSpeed    float64
	maxAngularSpeed   float64
	contactCorrection float64
	contactSlop       float64
	maxPenCorrection  float64
	maxStepTransl     float64

	recorder *trace.Recorder
}

// New builds an empty simulator. A nil registry gets the builtin
// controllers; a nil logger keeps the engine quiet.
func New(registry *controller.Registry, logger *zap.Logger) *Simulator {
	if registry == nil {
		registry = controller.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		logger:     logger,
		registry:   registry,
		rng:        rand.New(rand.NewSource(0)),
		robotsByID: map[string]*robotState{},
	}
}

// LoadOptions tunes scene loading. The zero value loads a top-down scene
// (no in-plane gravity) with terrain included.
type LoadOptions struct {
	// WithGravity applies the world's configured gravity vector. Scenes
	// are top-down by default, where gravity acts out of the plane.
	WithGravity bool
	// IgnoreTerrain skips static terrain bodies, for isolated tests.
	IgnoreTerrain bool
	// SpawnOverrides replaces configured spawn poses by robot id.
	SpawnOverrides map[string]scene.Pose3
}

// Load replaces all simulation state with the given scenario. Bodies,
// joints and devices exist from here until the next Load; there is no
// mid-run structural mutation. A ConfigError aborts the load.
func (s *Simulator) Load(sc *scene.Scenario, opts LoadOptions) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	s.scenario = sc
	s.dt = sc.World.Timestep
	s.gravity = geom.Vec2{}
	if opts.WithGravity {
		s.gravity = geom.Vec2{X: sc.World.Gravity[0], Y: sc.World.Gravity[1]}
	}
	s.time = 0
	s.step = 0
	s.rng = rand.New(rand.NewSource(sc.World.Seed))
	s.lastWarning = ""

	s.bodies = map[Name]*entity.Body{}
	s.bodyOrder = nil
	s.motors = map[Name]*actuator.WheelMotor{}
	s.motorOrder = nil
	s.sensors = map[Name]sensor.Sensor{}
	s.sensorOrd = nil
	s.joints = nil
	s.robots = nil
	s.robotsByID = map[string]*robotState{}
	s.multi = len(sc.Robots) > 1

	s.linearDamping = defaultLinearDamping
	s.angularDamping = defaultAngularDamping
	s.maxLinearSpeed = defaultMaxLinearSpeed
	s.maxAngularSpeed = defaultMaxAngularSpeed
	s.contactCorrection = defaultContactCorrection
	s.contactSlop = defaultContactSlop
	s.maxPenCorrection = defaultMaxPenetrationCorrect
	s.maxStepTransl = defaultMaxStepTranslation
	if s.multi {
		// Tighter clamp with several robots to reduce tunneling through
		// each other's thin chassis edges.
		s.maxStepTransl = multiRobotStepTranslation
	}

	if !opts.IgnoreTerrain {
		for _, obj := range sc.World.Terrain {
			s.addStaticBody(obj.Body)
		}
	}
	for _, cfg := range scene.BoundsWalls(sc.World.Bounds) {
		s.addStaticBody(cfg)
	}
	for _, cfg := range scene.StrokeWalls(sc.World.Drawings) {
		s.addStaticBody(cfg)
	}
	for _, obj := range sc.World.ShapeObjects {
		s.addStaticBody(obj.Body)
	}

	for i, rc := range sc.Robots {
		id := rc.ID
		if id == "" {
			id = fmt.Sprintf("robot_%d", i+1)
		}
		spawn := rc.Spawn()
		if opts.SpawnOverrides != nil {
			if p, ok := opts.SpawnOverrides[id]; ok {
				spawn = p
			}
		}
		if err := s.loadRobot(id, rc, spawn); err != nil {
			return err
		}
	}
	s.checkSpawnSeparation()

	s.logger.Info("scenario loaded",
		zap.String("scenario", sc.Name),
		zap.Int("bodies", len(s.bodyOrder)),
		zap.Int("robots", len(s.robots)),
		zap.Float64("dt", s.dt))
	return nil
}

func (s *Simulator) loadRobot(id string, rc scene.ScenarioRobot, spawn scene.Pose3) error {
	rs := &robotState{
		id:             id,
		cfg:            rc.Config,
		controllerName: rc.ControllerRef(),
		spawn:          spawn,
		role:           rc.Role,
		lastReadings:   controller.Readings{},
		lastCommands:   map[string]float64{},
	}
	for _, bc := range rc.Config.Bodies {
		body := makeBody(bc, &spawn)
		key := Name{Robot: id, Local: bc.Name}
		s.addBody(key, body)
		rs.bodies = append(rs.bodies, key)
	}
	for _, jc := range rc.Config.Joints {
		s.joints = append(s.joints, newJointRuntime(id, jc))
	}
	for _, ac := range rc.Config.Actuators {
		if err := s.attachActuator(rs, ac); err != nil {
			return err
		}
	}
	for _, snc := range rc.Config.Sensors {
		if err := s.attachSensor(rs, snc); err != nil {
			return err
		}
	}
	s.robots = append(s.robots, rs)
	s.robotsByID[id] = rs
	s.instantiateController(rs)
	return nil
}

func (s *Simulator) addBody(key Name, body *entity.Body) {
	s.bodies[key] = body
	s.bodyOrder = append(s.bodyOrder, key)
}

func (s *Simulator) addStaticBody(cfg scene.BodyConfig) {
	body := makeBody(cfg, nil)
	body.CanMove = false
	s.addBody(Name{Local: cfg.Name}, body)
}

func makeBody(cfg scene.BodyConfig, spawn *scene.Pose3) *entity.Body {
	verts := make([]geom.Vec2, len(cfg.Points))
	for i, p := range cfg.Points {
		verts[i] = geom.Vec2{X: p[0], Y: p[1]}
	}
	pose := geom.Pose{X: cfg.Pose[0], Y: cfg.Pose[1], Theta: cfg.Pose[2]}
	if spawn != nil {
		pose = geom.Pose{X: pose.X + spawn[0], Y: pose.Y + spawn[1], Theta: pose.Theta + spawn[2]}
	}
	return entity.New(
		cfg.Name,
		pose,
		geom.NewPolygon(verts),
		makeMaterial(cfg.Material),
		cfg.CanMove,
		entity.DynamicState{Mass: cfg.Mass, Inertia: cfg.Inertia},
	)
}

func makeMaterial(cfg scene.MaterialConfig) material.Material {
	m := material.Material{
		Friction:     cfg.Friction,
		Restitution:  cfg.Restitution,
		Traction:     cfg.EffectiveTraction(),
		Reflectivity: cfg.ReflectLine,
		Custom:       map[string]any{},
	}
	for k, v := range cfg.Custom {
		m.Custom[k] = v
		if f, ok := toFloat(v); ok {
			m = m.WithField(k, f)
		}
	}
	return m
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	}
	return 0, false
}

func (s *Simulator) checkSpawnSeparation() {
	for i := 0; i < len(s.robots); i++ {
		for j := i + 1; j < len(s.robots); j++ {
			a, b := s.robots[i], s.robots[j]
			d := math.Hypot(a.spawn[0]-b.spawn[0], a.spawn[1]-b.spawn[1])
			if d < minSpawnSeparation {
				s.warn(fmt.Sprintf("spawn overlap between %s and %s (d=%.3f m)", a.id, b.id, d))
			}
		}
	}
}

// flatten renders a structured key for external views. Robot-owned names
// carry their prefix only in multi-robot scenes, so single-robot traces
// stay readable.
func (s *Simulator) flatten(key Name) string {
	if key.Robot == "" || !s.multi {
		return key.Local
	}
	return key.String()
}

// --- Accessors --------------------------------------------------------

// Bodies returns every body in deterministic load order. Together with
// Time and RNG this is the world view sensors sample.
func (s *Simulator) Bodies() []*entity.Body {
	out := make([]*entity.Body, len(s.bodyOrder))
	for i, key := range s.bodyOrder {
		out[i] = s.bodies[key]
	}
	return out
}

func (s *Simulator) Time() float64    { return s.time }
func (s *Simulator) StepIndex() int64 { return s.step }
func (s *Simulator) Dt() float64      { return s.dt }
func (s *Simulator) RNG() *rand.Rand  { return s.rng }

// resolve maps a flattened name onto the structured key space. A bare
// local name in a single-robot scene also matches that robot's entries.
func resolve[T any](s *Simulator, table map[Name]T, name string) (T, bool) {
	if v, ok := table[ParseName(name)]; ok {
		return v, true
	}
	if len(s.robots) == 1 {
		if v, ok := table[Name{Robot: s.robots[0].id, Local: name}]; ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Body looks a body up by flattened name.
func (s *Simulator) Body(name string) (*entity.Body, bool) {
	return resolve(s, s.bodies, name)
}

// Motor looks a motor up by flattened name.
func (s *Simulator) Motor(name string) (*actuator.WheelMotor, bool) {
	return resolve(s, s.motors, name)
}

// Sensor looks a sensor up by flattened name.
func (s *Simulator) Sensor(name string) (sensor.Sensor, bool) {
	return resolve(s, s.sensors, name)
}

// RobotIDs lists loaded robots in load order.
func (s *Simulator) RobotIDs() []string {
	out := make([]string, len(s.robots))
	for i, r := range s.robots {
		out[i] = r.id
	}
	return out
}

// LastWarning returns the most recent physics warning of the current
// tick, or "" when the tick was clean.
func (s *Simulator) LastWarning() string { return s.lastWarning }

// LastReadings returns the fresh sensor readings robot rid received on
// the most recent tick.
func (s *Simulator) LastReadings(rid string) controller.Readings {
	if r, ok := s.robotsByID[rid]; ok {
		return r.lastReadings
	}
	return nil
}

// EnableTrace attaches a recorder capturing per-tick telemetry; nil
// disables capture.
func (s *Simulator) EnableTrace(rec *trace.Recorder) { s.recorder = rec }

// Recorder returns the attached trace recorder, if any.
func (s *Simulator) Recorder() *trace.Recorder { return s.recorder }

var _ sensor.World = (*Simulator)(nil)
