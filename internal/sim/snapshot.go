package sim

import (
	"github.com/rmarien/botsim/internal/controller"
	"github.com/rmarien/botsim/internal/geom"
)

// BodySnapshot is the restorable kinematic state of one body.
type BodySnapshot struct {
	Pose            geom.Pose `json:"pose"`
	LinearVelocity  geom.Vec2 `json:"lin_vel"`
	AngularVelocity float64   `json:"ang_vel"`
}

// Snapshot is a restorable copy of the dynamic world state. Body keys are
// flattened names; structural state (shapes, devices, joints) is not
// captured because it never changes between Loads.
type Snapshot struct {
	Time            float64                 `json:"time"`
	Step            int64                   `json:"step"`
	Bodies          map[string]BodySnapshot `json:"bodies"`
	ControllerState map[string]any          `json:"controller_state,omitempty"`
}

// TakeSnapshot captures poses, velocities and any stateful controller
// state.
func (s *Simulator) TakeSnapshot() *Snapshot {
	snap := &Snapshot{
		Time:   s.time,
		Step:   s.step,
		Bodies: map[string]BodySnapshot{},
	}
	for _, key := range s.bodyOrder {
		body := s.bodies[key]
		snap.Bodies[s.flatten(key)] = BodySnapshot{
			Pose:            body.Pose,
			LinearVelocity:  body.State.LinearVelocity,
			AngularVelocity: body.State.AngularVelocity,
		}
	}
	for _, rs := range s.robots {
		st, ok := rs.ctrl.(controller.Stateful)
		if !ok {
			continue
		}
		if v := st.GetState(); v != nil {
			if snap.ControllerState == nil {
				snap.ControllerState = map[string]any{}
			}
			snap.ControllerState[rs.id] = v
		}
	}
	return snap
}

// ApplySnapshot restores a snapshot taken from the same loaded scene.
// Unknown body keys are ignored; controller state is forwarded to
// stateful controllers.
func (s *Simulator) ApplySnapshot(snap *Snapshot) {
	s.time = snap.Time
	s.step = snap.Step
	for name, bs := range snap.Bodies {
		body, ok := s.Body(name)
		if !ok {
			continue
		}
		body.Pose = bs.Pose
		body.State.LinearVelocity = bs.LinearVelocity
		body.State.AngularVelocity = bs.AngularVelocity
		body.ClearAccumulators()
	}
	for _, rs := range s.robots {
		st, ok := rs.ctrl.(controller.Stateful)
		if !ok || snap.ControllerState == nil {
			continue
		}
		if v, ok := snap.ControllerState[rs.id]; ok {
			st.SetState(v)
		}
	}
}
