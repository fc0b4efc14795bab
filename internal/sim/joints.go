package sim

import (
	"math"

	"github.com/rmarien/botsim/internal/geom"
	"github.com/rmarien/botsim/internal/scene"
)

// jointRuntime is the solver state of one configured joint. Both "rigid"
// and "hinge" joints hold their two anchors together as a distance
// constraint solved position-based with zero compliance; a hinge leaves
// relative rotation free because a single point constraint does not bind
// it.
type jointRuntime struct {
	cfg         scene.JointConfig
	parent      Name
	child       Name
	compliance  float64
	lambdaAccum float64
}

func newJointRuntime(robot string, cfg scene.JointConfig) *jointRuntime {
	return &jointRuntime{
		cfg:    cfg,
		parent: Name{Robot: robot, Local: cfg.Parent},
		child:  Name{Robot: robot, Local: cfg.Child},
	}
}

// resetLambda drops the accumulated constraint impulse. Called on robot
// reposition so stale corrective state does not carry across a teleport.
func (j *jointRuntime) resetLambda() { j.lambdaAccum = 0 }

// targetDistance is zero for coincident anchors unless the limits pin an
// explicit separation.
func (j *jointRuntime) targetDistance() float64 {
	if j.cfg.LowerLimit == j.cfg.UpperLimit {
		return j.cfg.UpperLimit
	}
	return 0
}

func (s *Simulator) solveJoints(dt float64) {
	for _, j := range s.joints {
		s.solveJoint(j, dt)
	}
}

func (s *Simulator) solveJoint(j *jointRuntime, dt float64) {
	a, okA := s.bodies[j.parent]
	b, okB := s.bodies[j.child]
	if !okA || !okB || (!a.CanMove && !b.CanMove) {
		return
	}
	pa := a.Pose.TransformPoint(geom.Vec2{X: j.cfg.AnchorParent[0], Y: j.cfg.AnchorParent[1]})
	pb := b.Pose.TransformPoint(geom.Vec2{X: j.cfg.AnchorChild[0], Y: j.cfg.AnchorChild[1]})
	delta := pb.Sub(pa)
	dist := delta.Len()
	err := dist - j.targetDistance()
	if math.Abs(err) < 1e-5 {
		return
	}
	dir := delta.Scale(1.0 / (dist + 1e-6))

	invA, invB := a.InvMass(), b.InvMass()
	w := invA + invB
	if w == 0 {
		return
	}
	alpha := 1.0 / (j.compliance + 1e-9)
	dlambda := -err * alpha / (w + alpha*dt*dt)
	if math.IsNaN(dlambda) || math.IsInf(dlambda, 0) {
		return
	}
	j.lambdaAccum += dlambda
	corr := clampF(dlambda, -s.maxPenCorrection, s.maxPenCorrection)
	if a.CanMove {
		a.Pose = a.Pose.Translated(-dir.X*corr*invA, -dir.Y*corr*invA)
	}
	if b.CanMove {
		b.Pose = b.Pose.Translated(dir.X*corr*invB, dir.Y*corr*invB)
	}
}
