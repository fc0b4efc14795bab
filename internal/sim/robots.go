package sim

import (
	"github.com/rmarien/botsim/internal/geom"
	"github.com/rmarien/botsim/internal/scene"
)

// RepositionRobot teleports every body of a robot to its config-relative
// offsets from a new spawn pose. Velocities are optionally zeroed; joint
// constraint state is always dropped so no stale correction carries
// across the teleport. setAsSpawn makes the new pose the target of the
// next ResetToSpawn.
func (s *Simulator) RepositionRobot(robotID string, spawn scene.Pose3, zeroVelocity, setAsSpawn bool) error {
	rs, ok := s.robotsByID[robotID]
	if !ok {
		return ErrUnknownRobot
	}
	for _, bc := range rs.cfg.Bodies {
		body, ok := s.bodies[Name{Robot: robotID, Local: bc.Name}]
		if !ok {
			continue
		}
		body.Pose = geom.Pose{
			X:     bc.Pose[0] + spawn[0],
			Y:     bc.Pose[1] + spawn[1],
			Theta: bc.Pose[2] + spawn[2],
		}
		if zeroVelocity {
			body.State.LinearVelocity = geom.Vec2{}
			body.State.AngularVelocity = 0
			body.ClearAccumulators()
		}
	}
	if setAsSpawn {
		rs.spawn = spawn
	}
	for _, j := range s.joints {
		j.resetLambda()
	}
	return nil
}

// ResetToSpawn returns a robot to its spawn pose with zeroed velocities.
func (s *Simulator) ResetToSpawn(robotID string) error {
	rs, ok := s.robotsByID[robotID]
	if !ok {
		return ErrUnknownRobot
	}
	return s.RepositionRobot(robotID, rs.spawn, true, false)
}

// ReloadController rebuilds a robot's controller from the registry,
// clearing any recorded fault. Used after registering a fixed controller
// factory under the same name.
func (s *Simulator) ReloadController(robotID string) error {
	rs, ok := s.robotsByID[robotID]
	if !ok {
		return ErrUnknownRobot
	}
	rs.ctrl = nil
	rs.ctrlErr = nil
	s.instantiateController(rs)
	return nil
}

// ClearControllerError drops the recorded fault for one robot, or for all
// robots when robotID is empty. The controller resumes on the next tick.
func (s *Simulator) ClearControllerError(robotID string) {
	for _, rs := range s.robots {
		if robotID == "" || rs.id == robotID {
			rs.ctrlErr = nil
		}
	}
}

// ControllerErrors returns the recorded controller faults keyed by robot
// id.
func (s *Simulator) ControllerErrors() map[string]error {
	out := map[string]error{}
	for _, rs := range s.robots {
		if rs.ctrlErr != nil {
			out[rs.id] = rs.ctrlErr
		}
	}
	return out
}

// RobotSpawn returns the current spawn pose of a robot.
func (s *Simulator) RobotSpawn(robotID string) (scene.Pose3, bool) {
	if rs, ok := s.robotsByID[robotID]; ok {
		return rs.spawn, true
	}
	return scene.Pose3{}, false
}

// RobotMotors lists a robot's motor names in declaration order.
func (s *Simulator) RobotMotors(robotID string) []string {
	rs, ok := s.robotsByID[robotID]
	if !ok {
		return nil
	}
	out := make([]string, len(rs.motors))
	for i, key := range rs.motors {
		out[i] = key.Local
	}
	return out
}

// RobotBodies lists a robot's body names in declaration order.
func (s *Simulator) RobotBodies(robotID string) []string {
	rs, ok := s.robotsByID[robotID]
	if !ok {
		return nil
	}
	out := make([]string, len(rs.bodies))
	for i, key := range rs.bodies {
		out[i] = key.Local
	}
	return out
}
