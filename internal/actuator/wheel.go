// Package actuator implements the traction-limited wheel motor and the
// differential-drive convenience wrapper. A wheel tracks a commanded
// surface speed with impulses capped by a coupled friction circle, so an
// overdriven wheel spins up and slips instead of silently obeying.
package actuator

import (
	"math"

	"github.com/rmarien/botsim/internal/device"
	"github.com/rmarien/botsim/internal/entity"
	"github.com/rmarien/botsim/internal/geom"
)

// TractionReport is per-tick telemetry from one wheel traction solve. It
// is recomputed from scratch every tick and never persisted.
type TractionReport struct {
	SlipRatio         float64
	LateralSlip       float64
	WheelSpeed        float64
	PreferredSpeed    float64
	ContactSpeed      float64
	ContactSpeedAfter float64
	DesiredImpulse    float64
	AppliedImpulse    float64
	AppliedLateral    float64
	NormalLoad        float64
}

// WheelConfig parameterizes a wheel motor.
type WheelConfig struct {
	MaxForce       float64 // drive-force budget, N
	MuLong         float64 // longitudinal traction coefficient
	MuLat          float64 // lateral traction coefficient
	GravityEquiv   float64 // g used to derive normal load from mass
	NormalForce    float64 // explicit normal load; 0 means derive from mass
	LateralDamping float64 // fraction of lateral slip retained per tick
	WheelCount     int     // wheels sharing the body's weight
	WheelRadius    float64
	ResponseTime   float64 // first-order lag toward the commanded speed
	MaxWheelOmega  float64 // rad/s at full command
}

// DefaultWheelConfig mirrors the stock small-robot wheel.
func DefaultWheelConfig() WheelConfig {
	return WheelConfig{
		MaxForce:       2.0,
		MuLong:         0.9,
		MuLat:          0.8,
		GravityEquiv:   9.81,
		LateralDamping: 0.25,
		WheelCount:     2,
		WheelRadius:    0.03,
		ResponseTime:   0.05,
		MaxWheelOmega:  40.0,
	}
}

// WheelMotor drives its parent body along the mount heading. The internal
// angular speed low-pass-filters toward the commanded target and is
// partially fed back from the ground contact speed in proportion to how
// much of the desired impulse traction actually granted.
type WheelMotor struct {
	device.Mount
	Cfg WheelConfig

	angularSpeed float64
	lastCommand  float64
	lastReport   *TractionReport
}

// NewWheelMotor builds an unattached wheel motor. ResponseTime is floored
// to keep the low-pass filter well defined.
func NewWheelMotor(name string, mountPose geom.Pose, cfg WheelConfig) *WheelMotor {
	if cfg.ResponseTime < 1e-4 {
		cfg.ResponseTime = 1e-4
	}
	if cfg.WheelCount < 1 {
		cfg.WheelCount = 1
	}
	return &WheelMotor{Mount: device.NewMount(name, mountPose), Cfg: cfg}
}

func (w *WheelMotor) LastCommand() float64        { return w.lastCommand }
func (w *WheelMotor) LastReport() *TractionReport { return w.lastReport }
func (w *WheelMotor) AngularSpeed() float64       { return w.angularSpeed }

// TargetSurfaceSpeed is the tangential speed the wheel rim is currently
// trying to impose on the ground.
func (w *WheelMotor) TargetSurfaceSpeed() float64 {
	return w.angularSpeed * w.Cfg.WheelRadius
}

// Command drives the wheel with a normalized value in [-1, 1] for one
// tick of length dt, applying traction-limited impulses to the parent.
func (w *WheelMotor) Command(value, dt float64) {
	value = clamp(value, -1, 1)
	w.lastCommand = value
	parent := w.Parent()
	if parent == nil || !parent.CanMove {
		return
	}

	pose := w.WorldPose()
	forward := pose.Heading()
	contact := pose.Position()

	normalLoad := w.Cfg.NormalForce
	if normalLoad <= 0 {
		normalLoad = parent.State.Mass * w.Cfg.GravityEquiv / float64(w.Cfg.WheelCount)
	}

	// First-order response toward the commanded wheel speed.
	blend := math.Min(1, dt/w.Cfg.ResponseTime)
	target := value * w.Cfg.MaxWheelOmega
	w.angularSpeed += (target - w.angularSpeed) * blend

	preferred := w.angularSpeed * w.Cfg.WheelRadius
	driveCap := math.Abs(w.Cfg.MaxForce) * dt

	report := solveTraction(parent, contact, forward, preferred, driveCap, tractionParams{
		muLong:         w.Cfg.MuLong,
		muLat:          w.Cfg.MuLat,
		normalLoad:     normalLoad,
		lateralDamping: w.Cfg.LateralDamping,
		dt:             dt,
	})

	// Feed the achieved contact speed back into the wheel so an
	// overdriven wheel keeps spinning past the ground speed.
	tractionRatio := 0.0
	if math.Abs(report.DesiredImpulse) > 1e-9 {
		tractionRatio = math.Min(1, math.Abs(report.AppliedImpulse)/math.Abs(report.DesiredImpulse))
	}
	groundOmega := report.ContactSpeedAfter / math.Max(w.Cfg.WheelRadius, 1e-6)
	w.angularSpeed = w.angularSpeed*(1-0.4*tractionRatio) + groundOmega*(0.4*tractionRatio)

	w.lastReport = report
}

type tractionParams struct {
	muLong         float64
	muLat          float64
	normalLoad     float64
	lateralDamping float64
	dt             float64
}

// solveTraction tracks a preferred tangential speed at a wheel contact
// point with friction-limited impulses. Lateral slip is corrected first;
// the longitudinal budget shrinks by up to half as the lateral budget is
// consumed (coupled friction circle).
func solveTraction(body *entity.Body, contact, forward geom.Vec2, preferred, driveCap float64, p tractionParams) *TractionReport {
	if !body.CanMove {
		return &TractionReport{WheelSpeed: preferred, PreferredSpeed: preferred, NormalLoad: p.normalLoad}
	}
	normalLoad := math.Max(p.normalLoad, 0)
	damping := clamp(p.lateralDamping, 0, 1)
	lateral := forward.Perp()
	maxLong := math.Max(0, math.Abs(p.muLong)*normalLoad*p.dt)
	maxLat := math.Max(0, math.Abs(p.muLat)*normalLoad*p.dt)
	driveCap = math.Abs(driveCap)

	vc := body.VelocityAt(contact)
	vLong := vc.Dot(forward)
	vLat := vc.Dot(lateral)
	slipDenom := math.Max(math.Abs(preferred), math.Max(math.Abs(vLong), 0.05))
	slipRatio := (preferred - vLong) / slipDenom

	// Lateral slip correction, constraint-like: cancel lateral contact
	// velocity up to the lateral traction budget.
	jLat := 0.0
	if maxLat > 0 && math.Abs(vLat) > 1e-6 {
		if invMassLat := body.InvMassAlong(contact, lateral); invMassLat > 1e-9 {
			targetJ := -vLat / invMassLat * (1 - damping)
			jLat = clamp(targetJ, -maxLat, maxLat)
			body.ApplyImpulseAt(lateral.Scale(jLat), contact)
		}
	}

	// Longitudinal drive toward the preferred speed.
	desired := 0.0
	jDrive := 0.0
	if invMassLong := body.InvMassAlong(contact, forward); invMassLong > 1e-9 {
		desired = (preferred - vLong) / invMassLong
		limit := maxLong
		if maxLong > 0 && maxLat > 0 {
			latRatio := math.Min(1, math.Abs(jLat)/(maxLat+1e-9))
			limit = maxLong * math.Max(0, 1-0.5*latRatio)
		}
		if driveCap > 0 {
			if limit > 0 {
				limit = math.Min(limit, driveCap)
			} else {
				limit = driveCap
			}
		}
		if limit > 0 {
			jDrive = clamp(desired, -limit, limit)
			if jDrive != 0 {
				body.ApplyImpulseAt(forward.Scale(jDrive), contact)
			}
		}
	}

	vAfter := body.VelocityAt(contact).Dot(forward)
	return &TractionReport{
		SlipRatio:         slipRatio,
		LateralSlip:       vLat,
		WheelSpeed:        preferred,
		PreferredSpeed:    preferred,
		ContactSpeed:      vLong,
		ContactSpeedAfter: vAfter,
		DesiredImpulse:    desired,
		AppliedImpulse:    jDrive,
		AppliedLateral:    jLat,
		NormalLoad:        normalLoad,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
