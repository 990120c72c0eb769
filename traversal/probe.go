package traversal

import (
	"weak"

	"github.com/jakecoffman/cp"
)

// ProbeResult is the outcome of a single sweep. It lives for one ability
// evaluation only.
type ProbeResult struct {
	Hit      bool
	Blocking bool
	Location cp.Vector
	// Body points at the struck body without keeping it alive. Static
	// geometry leaves it zero.
	Body weak.Pointer[cp.Body]
}

// Blocked reports whether the sweep stopped on something solid.
func (r ProbeResult) Blocked() bool {
	return r.Hit && r.Blocking
}

// DynamicBody returns the struck body when the solver simulates it, or nil.
func (r ProbeResult) DynamicBody() *cp.Body {
	body := r.Body.Value()
	if body == nil || body.GetType() != cp.BODY_DYNAMIC {
		return nil
	}
	return body
}

// Probe sweeps a circle of radius along dir for reach units starting at
// origin, skipping self. A zero direction issues no sweep and returns false.
func Probe(q Querier, self *cp.Body, origin, dir cp.Vector, reach, radius float64, filter cp.ShapeFilter) (ProbeResult, bool) {
	if q == nil || dir.LengthSq() == 0 {
		return ProbeResult{}, false
	}
	dir = dir.Normalize()
	return q.Sweep(SweepQuery{
		Origin: origin,
		Target: origin.Add(dir.Mult(reach)),
		Radius: radius,
		Filter: filter,
		Ignore: self,
	}), true
}
