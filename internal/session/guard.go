package session

import "github.com/minevcs/minevcs/internal/domain"

// Guard decides when the pre-sync check runs. It compares each observed
// target with the last one it fired for: an incomplete target disarms it,
// a complete target fires once until it changes.
type Guard struct {
	last  domain.SyncTarget
	armed bool
}

// Observe records t and reports whether the check should fire for it.
func (g *Guard) Observe(t domain.SyncTarget) bool {
	if !t.IsComplete() {
		g.last = domain.SyncTarget{}
		g.armed = false
		return false
	}
	if g.armed && g.last == t {
		return false
	}
	g.last = t
	g.armed = true
	return true
}

// Last returns the most recent complete target, if armed.
func (g *Guard) Last() (domain.SyncTarget, bool) {
	return g.last, g.armed
}
