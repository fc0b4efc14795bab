package sim

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/rmarien/botsim/internal/entity"
	"github.com/rmarien/botsim/internal/geom"
	"github.com/rmarien/botsim/internal/trace"
)

// Step advances the world by one fixed timestep: sensors, controllers,
// integration, joints, contacts, sanitization, telemetry. It returns
// ErrNotLoaded before the first Load.
func (s *Simulator) Step() error {
	if s.scenario == nil {
		return ErrNotLoaded
	}
	dt := s.dt
	s.lastWarning = ""

	prev := s.capturePositions()
	s.readSensors(dt)
	s.runControllers(dt)
	s.integrate(dt)
	s.solveJoints(dt)
	s.solveContacts(dt)
	s.checkStepSanity(prev)
	s.sanitize(dt)

	s.time += dt
	s.step++
	s.record(dt)
	return nil
}

// Run advances n steps, stopping early only on a structural error.
func (s *Simulator) Run(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// readSensors polls every sensor and merges only the fresh readings into
// each robot's reading set, so held values persist between samples.
func (s *Simulator) readSensors(dt float64) {
	for _, rs := range s.robots {
		for _, key := range rs.sensors {
			sn := s.sensors[key]
			if r := sn.Read(s, dt); r != nil {
				rs.lastReadings[key.Local] = r.Value
			}
		}
	}
}

// runControllers steps each robot's controller with its current readings.
// A controller error or panic is recorded against that robot only; the
// rest of the tick proceeds.
func (s *Simulator) runControllers(dt float64) {
	for _, rs := range s.robots {
		if rs.ctrl == nil || rs.ctrlErr != nil {
			continue
		}
		if err := s.stepController(rs, dt); err != nil {
			rs.ctrlErr = &ControllerError{Robot: rs.id, Err: err}
			s.logger.Warn("controller fault",
				zap.String("robot", rs.id),
				zap.Error(err))
		}
	}
}

func (s *Simulator) stepController(rs *robotState, dt float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("controller panic: %v", r)
		}
	}()
	return rs.ctrl.Step(rs.lastReadings, dt)
}

// integrate applies gravity, advances every dynamic body, then applies
// velocity damping.
func (s *Simulator) integrate(dt float64) {
	for _, key := range s.bodyOrder {
		body := s.bodies[key]
		if body.CanMove && (s.gravity.X != 0 || s.gravity.Y != 0) {
			body.ApplyForce(s.gravity.Scale(body.State.Mass))
		}
		body.Integrate(dt)
	}
	for _, key := range s.bodyOrder {
		body := s.bodies[key]
		if !body.CanMove {
			continue
		}
		body.State.LinearVelocity = body.State.LinearVelocity.Scale(s.linearDamping)
		body.State.AngularVelocity *= s.angularDamping
	}
}

// capturePositions snapshots every body position at the start of a tick,
// indexed in bodyOrder.
func (s *Simulator) capturePositions() []geom.Vec2 {
	prev := make([]geom.Vec2, len(s.bodyOrder))
	for i, key := range s.bodyOrder {
		prev[i] = s.bodies[key].Pose.Position()
	}
	return prev
}

// checkStepSanity bounds how far each body moved over the whole tick,
// measured after joints and contacts have run. A hit indicates a blown-up
// solve and is surfaced as a warning; non-finite motion restores the
// previous position.
func (s *Simulator) checkStepSanity(prev []geom.Vec2) {
	for i, key := range s.bodyOrder {
		body := s.bodies[key]
		if !body.CanMove {
			continue
		}
		s.clampStepTranslation(key, body, prev[i])
	}
}

func (s *Simulator) clampStepTranslation(key Name, body *entity.Body, from geom.Vec2) {
	to := body.Pose.Position()
	d := to.Sub(from)
	dist := d.Len()
	if math.IsNaN(dist) || math.IsInf(dist, 0) {
		body.Pose.X = from.X
		body.Pose.Y = from.Y
		s.warn(fmt.Sprintf("non-finite step for %s, position restored", s.flatten(key)))
		return
	}
	if dist <= s.maxStepTransl {
		return
	}
	scaled := from.Add(d.Scale(s.maxStepTransl / dist))
	body.Pose.X = scaled.X
	body.Pose.Y = scaled.Y
	s.warn(fmt.Sprintf("step translation clamped for %s (%.3f m)", s.flatten(key), dist))
}

// sanitize resets non-finite states and clamps runaway speeds.
func (s *Simulator) sanitize(dt float64) {
	for _, key := range s.bodyOrder {
		body := s.bodies[key]
		if !body.CanMove {
			continue
		}
		if !body.Pose.IsFinite() || !body.State.LinearVelocity.IsFinite() || math.IsNaN(body.State.AngularVelocity) || math.IsInf(body.State.AngularVelocity, 0) {
			s.warn(fmt.Sprintf("non-finite state reset for %s", s.flatten(key)))
			body.Pose = geom.Pose{}
			body.State.LinearVelocity = geom.Vec2{}
			body.State.AngularVelocity = 0
			continue
		}
		if v := body.State.LinearVelocity.Len(); v > s.maxLinearSpeed {
			body.State.LinearVelocity = body.State.LinearVelocity.Scale(s.maxLinearSpeed / v)
			s.warn(fmt.Sprintf("linear speed clamped for %s", s.flatten(key)))
		}
		if w := math.Abs(body.State.AngularVelocity); w > s.maxAngularSpeed {
			body.State.AngularVelocity = math.Copysign(s.maxAngularSpeed, body.State.AngularVelocity)
			s.warn(fmt.Sprintf("angular speed clamped for %s", s.flatten(key)))
		}
	}
}

func (s *Simulator) warn(msg string) {
	s.lastWarning = msg
	s.logger.Warn(msg, zap.Int64("step", s.step))
}

// record appends one trace row if a recorder is attached.
func (s *Simulator) record(dt float64) {
	if s.recorder == nil {
		return
	}
	rec := trace.Record{
		Step:    s.step,
		Time:    s.time,
		Dt:      dt,
		Warning: s.lastWarning,
	}
	for _, rs := range s.robots {
		if rs.ctrlErr != nil {
			if rec.ControllerErrors == nil {
				rec.ControllerErrors = map[string]string{}
			}
			rec.ControllerErrors[rs.id] = rs.ctrlErr.Error()
		}
	}
	for _, key := range s.motorOrder {
		m := s.motors[key]
		mr := trace.MotorRecord{
			Step:    s.step,
			Time:    s.time,
			Motor:   s.flatten(key),
			Command: m.LastCommand(),
		}
		if rep := m.LastReport(); rep != nil {
			mr.SlipRatio = rep.SlipRatio
			mr.LateralSlip = rep.LateralSlip
			mr.PreferredSpeed = rep.PreferredSpeed
			mr.ContactSpeed = rep.ContactSpeed
			mr.ContactSpeedAfter = rep.ContactSpeedAfter
			mr.AppliedImpulse = rep.AppliedImpulse
			mr.AppliedLateral = rep.AppliedLateral
			if dt > 0 {
				mr.AppliedForce = rep.AppliedImpulse / dt
			}
			mr.NormalLoad = rep.NormalLoad
		}
		rec.Motors = append(rec.Motors, mr)
	}
	for _, key := range s.bodyOrder {
		body := s.bodies[key]
		if !body.CanMove {
			continue
		}
		rec.Bodies = append(rec.Bodies, trace.BodyRecord{
			Step:  s.step,
			Time:  s.time,
			Body:  s.flatten(key),
			X:     body.Pose.X,
			Y:     body.Pose.Y,
			Theta: body.Pose.Theta,
			VX:    body.State.LinearVelocity.X,
			VY:    body.State.LinearVelocity.Y,
			Omega: body.State.AngularVelocity,
		})
	}
	s.recorder.Append(rec)
}
