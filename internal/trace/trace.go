// Package trace captures per-tick telemetry: body poses and velocities,
// wheel traction reports and the warnings a tick produced. Records are
// flat so they export straight to CSV.
package trace

// MotorRecord is one wheel's traction telemetry for one tick.
type MotorRecord struct {
	Step              int64   `csv:"step" json:"step"`
	Time              float64 `csv:"time" json:"time"`
	Motor             string  `csv:"motor" json:"motor"`
	Command           float64 `csv:"command" json:"command"`
	SlipRatio         float64 `csv:"slip_ratio" json:"slip_ratio"`
	LateralSlip       float64 `csv:"lateral_slip" json:"lateral_slip"`
	PreferredSpeed    float64 `csv:"preferred_speed" json:"preferred_speed"`
	ContactSpeed      float64 `csv:"contact_speed" json:"contact_speed"`
	ContactSpeedAfter float64 `csv:"contact_speed_after" json:"contact_speed_after"`
	AppliedImpulse    float64 `csv:"applied_longitudinal_impulse" json:"applied_longitudinal_impulse"`
	AppliedLateral    float64 `csv:"applied_lateral_impulse" json:"applied_lateral_impulse"`
	AppliedForce      float64 `csv:"applied_longitudinal_force" json:"applied_longitudinal_force"`
	NormalLoad        float64 `csv:"normal_load" json:"normal_load"`
}

// BodyRecord is one body's kinematic state after one tick.
type BodyRecord struct {
	Step  int64   `csv:"step" json:"step"`
	Time  float64 `csv:"time" json:"time"`
	Body  string  `csv:"body" json:"body"`
	X     float64 `csv:"x" json:"x"`
	Y     float64 `csv:"y" json:"y"`
	Theta float64 `csv:"theta" json:"theta"`
	VX    float64 `csv:"vx" json:"vx"`
	VY    float64 `csv:"vy" json:"vy"`
	Omega float64 `csv:"omega" json:"omega"`
}

// Record is everything captured for one tick.
type Record struct {
	Step             int64             `json:"step"`
	Time             float64           `json:"time"`
	Dt               float64           `json:"dt"`
	Warning          string            `json:"warning,omitempty"`
	ControllerErrors map[string]string `json:"controller_errors,omitempty"`
	Motors           []MotorRecord     `json:"motors,omitempty"`
	Bodies           []BodyRecord      `json:"bodies,omitempty"`
}

// Recorder accumulates records and optionally streams them to a callback.
type Recorder struct {
	records  []Record
	callback func(Record)
}

func NewRecorder() *Recorder { return &Recorder{} }

// OnRecord sets a streaming callback invoked after each append.
func (r *Recorder) OnRecord(fn func(Record)) { r.callback = fn }

func (r *Recorder) Append(rec Record) {
	r.records = append(r.records, rec)
	if r.callback != nil {
		r.callback(rec)
	}
}

// Records returns a copy of the captured log.
func (r *Recorder) Records() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

func (r *Recorder) Len() int { return len(r.records) }

func (r *Recorder) Clear() { r.records = r.records[:0] }

// Motors flattens all per-tick motor records in capture order.
func (r *Recorder) Motors() []MotorRecord {
	var out []MotorRecord
	for _, rec := range r.records {
		out = append(out, rec.Motors...)
	}
	return out
}

// BodyTrack returns the trajectory of one body by flattened name.
func (r *Recorder) BodyTrack(name string) []BodyRecord {
	var out []BodyRecord
	for _, rec := range r.records {
		for _, b := range rec.Bodies {
			if b.Body == name {
				out = append(out, b)
			}
		}
	}
	return out
}
