package sim

import "strings"

// Name is the structured key for bodies and devices: the owning robot id
// (empty for environment objects) plus the local name from the config.
// Structured keys keep multi-robot scenes collision-free without string
// surgery; the flattened "robot/name" form appears only in external views
// such as snapshots and traces.
type Name struct {
	Robot string
	Local string
}

func (n Name) String() string {
	if n.Robot == "" {
		return n.Local
	}
	return n.Robot + "/" + n.Local
}

// ParseName splits a flattened key back into its parts. A key without a
// separator is an environment-level name.
func ParseName(s string) Name {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return Name{Robot: s[:i], Local: s[i+1:]}
	}
	return Name{Local: s}
}
