package sim

import (
	"errors"

	"go.uber.org/zap"

	"github.com/rmarien/botsim/internal/actuator"
	"github.com/rmarien/botsim/internal/controller"
	"github.com/rmarien/botsim/internal/device"
	"github.com/rmarien/botsim/internal/entity"
	"github.com/rmarien/botsim/internal/geom"
	"github.com/rmarien/botsim/internal/scene"
	"github.com/rmarien/botsim/internal/sensor"
)

func pose3(p scene.Pose3) geom.Pose {
	return geom.Pose{X: p[0], Y: p[1], Theta: p[2]}
}

func (s *Simulator) robotBody(rs *robotState, local string) (*entity.Body, bool) {
	b, ok := s.bodies[Name{Robot: rs.id, Local: local}]
	return b, ok
}

func (s *Simulator) attachActuator(rs *robotState, cfg scene.ActuatorConfig) error {
	parent, ok := s.robotBody(rs, cfg.Body)
	if !ok {
		return &ConfigError{Robot: rs.id, Device: cfg.Name, Reason: "parent body " + cfg.Body + " not found"}
	}
	switch cfg.Type {
	case "wheel", "":
		motor := actuator.NewWheelMotor(cfg.Name, pose3(cfg.MountPose), wheelConfig(rs, cfg, parent))
		motor.AttachTo(parent)
		key := Name{Robot: rs.id, Local: cfg.Name}
		s.motors[key] = motor
		s.motorOrder = append(s.motorOrder, key)
		rs.motors = append(rs.motors, key)
		return nil
	default:
		return &ConfigError{Robot: rs.id, Device: cfg.Name, Reason: "unknown actuator type " + cfg.Type}
	}
}

// wheelConfig merges actuator params over the stock wheel. Traction
// coefficients default to the chassis material so a scene author sets
// them in one place.
func wheelConfig(rs *robotState, cfg scene.ActuatorConfig, parent *entity.Body) actuator.WheelConfig {
	wc := actuator.DefaultWheelConfig()
	wc.MuLong = parent.Material.Traction
	wc.MuLat = parent.Material.Traction
	wc.WheelCount = robotWheelCount(rs)
	p := cfg.Params
	setF(p, "max_force", &wc.MaxForce)
	setF(p, "mu_long", &wc.MuLong)
	setF(p, "mu_lat", &wc.MuLat)
	setF(p, "g_equiv", &wc.GravityEquiv)
	setF(p, "normal_force", &wc.NormalForce)
	setF(p, "lateral_damping", &wc.LateralDamping)
	setF(p, "wheel_radius", &wc.WheelRadius)
	setF(p, "response_time", &wc.ResponseTime)
	setF(p, "max_wheel_omega", &wc.MaxWheelOmega)
	if v, ok := p["wheel_count"]; ok && v >= 1 {
		wc.WheelCount = int(v)
	}
	return wc
}

// robotWheelCount counts the wheel actuators declared on the robot so a
// single body's weight is shared across its wheels.
func robotWheelCount(rs *robotState) int {
	n := 0
	for _, ac := range rs.cfg.Actuators {
		if ac.Type == "wheel" || ac.Type == "" {
			n++
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}

func setF(params map[string]float64, name string, dst *float64) {
	if v, ok := params[name]; ok {
		*dst = v
	}
}

func (s *Simulator) attachSensor(rs *robotState, cfg scene.SensorConfig) error {
	parent, ok := s.robotBody(rs, cfg.Body)
	if !ok {
		return &ConfigError{Robot: rs.id, Device: cfg.Name, Reason: "parent body " + cfg.Body + " not found"}
	}
	sn, err := buildSensor(rs, cfg)
	if err != nil {
		return err
	}
	sn.AttachTo(parent)
	key := Name{Robot: rs.id, Local: cfg.Name}
	s.sensors[key] = sn
	s.sensorOrd = append(s.sensorOrd, key)
	rs.sensors = append(rs.sensors, key)
	return nil
}

func buildSensor(rs *robotState, cfg scene.SensorConfig) (sensor.Sensor, error) {
	mount := pose3(cfg.MountPose)
	p := cfg.Params
	switch cfg.Type {
	case "distance":
		dc := sensor.DefaultDistanceConfig()
		setF(p, "max_range", &dc.MaxRange)
		setF(p, "step", &dc.Step)
		setF(p, "update_rate", &dc.UpdateRateHz)
		setNoise(p, &dc.Noise)
		return sensor.NewDistance(cfg.Name, mount, dc), nil
	case "line":
		lc := lineConfig(p)
		return sensor.NewLine(cfg.Name, mount, lc), nil
	case "line_array":
		lc := lineConfig(p)
		return sensor.NewLineArray(cfg.Name, mount, lc), nil
	case "binary_line":
		lc := lineConfig(p)
		threshold := 0.5
		setF(p, "threshold", &threshold)
		return sensor.NewBinaryLine(cfg.Name, mount, lc, threshold), nil
	case "imu":
		rate, noise := rateAndNoise(p, 100, 0.005)
		imu := sensor.NewIMU(cfg.Name, rate, noise)
		imu.Mount = device.NewMount(cfg.Name, mount)
		return imu, nil
	case "encoder":
		rate, noise := rateAndNoise(p, 100, 0.001)
		enc := sensor.NewEncoder(cfg.Name, rate, noise)
		enc.Mount = device.NewMount(cfg.Name, mount)
		return enc, nil
	default:
		return nil, &ConfigError{Robot: rs.id, Device: cfg.Name, Reason: "unknown sensor type " + cfg.Type}
	}
}

func lineConfig(p map[string]float64) sensor.LineConfig {
	lc := sensor.DefaultLineConfig()
	setF(p, "max_signal", &lc.MaxSignal)
	setF(p, "update_rate", &lc.UpdateRateHz)
	setF(p, "spacing", &lc.Spacing)
	if v, ok := p["count"]; ok && v >= 1 {
		lc.Count = int(v)
	}
	setNoise(p, &lc.Noise)
	return lc
}

func setNoise(p map[string]float64, n *device.NoiseProfile) {
	setF(p, "noise_bias", &n.Bias)
	setF(p, "noise_std", &n.StdDev)
}

func rateAndNoise(p map[string]float64, defaultRate, defaultStd float64) (float64, device.NoiseProfile) {
	rate := defaultRate
	setF(p, "update_rate", &rate)
	noise := device.NoiseProfile{StdDev: defaultStd}
	setNoise(p, &noise)
	return rate, noise
}

// instantiateController builds the robot's controller from the registry.
// Failure here is not fatal to the load: the robot stays in the world
// uncontrolled, with the fault recorded against it.
func (s *Simulator) instantiateController(rs *robotState) {
	ctrl, err := s.registry.New(rs.controllerName, &robotHandle{sim: s, state: rs}, controllerParams(rs))
	if err != nil {
		rs.ctrlErr = &ControllerError{Robot: rs.id, Err: errors.Join(ErrMissingController, err)}
		s.logger.Warn("controller unavailable",
			zap.String("robot", rs.id),
			zap.String("controller", rs.controllerName),
			zap.Error(err))
		return
	}
	rs.ctrl = ctrl
}

func controllerParams(rs *robotState) map[string]float64 {
	// Controllers see the robot's actuator params merged under
	// "<actuator>.<param>" keys, plus nothing robot-global for now.
	out := map[string]float64{}
	for _, ac := range rs.cfg.Actuators {
		for k, v := range ac.Params {
			out[ac.Name+"."+k] = v
		}
	}
	return out
}

// robotHandle is the controller-facing view of one robot. Motor names are
// local; the handle resolves them into the simulator tables.
type robotHandle struct {
	sim   *Simulator
	state *robotState
}

func (h *robotHandle) ID() string { return h.state.id }

func (h *robotHandle) Motor(name string) (controller.Motor, bool) {
	m, ok := h.sim.motors[Name{Robot: h.state.id, Local: name}]
	if !ok {
		return nil, false
	}
	return &trackedMotor{motor: m, state: h.state, name: name}, true
}

func (h *robotHandle) MotorNames() []string {
	out := make([]string, len(h.state.motors))
	for i, key := range h.state.motors {
		out[i] = key.Local
	}
	return out
}

// trackedMotor records the last command per motor for telemetry before
// forwarding it to the wheel.
type trackedMotor struct {
	motor *actuator.WheelMotor
	state *robotState
	name  string
}

func (t *trackedMotor) Command(value, dt float64) {
	t.state.lastCommands[t.name] = value
	t.motor.Command(value, dt)
}
