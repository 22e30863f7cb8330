// Package history keeps a bounded, insertion-ordered record of status lines.
package history

// DefaultCapacity is the number of lines kept when no capacity is configured.
const DefaultCapacity = 200

// History retains the most recent lines up to a fixed capacity. Appending
// beyond capacity evicts the oldest line. It is not safe for concurrent use;
// the owner serializes access.
type History struct {
	capacity int
	lines    []string
}

// New returns an empty History. A non-positive capacity uses DefaultCapacity.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity}
}

// Append adds line as the newest entry.
func (h *History) Append(line string) {
	h.lines = append(h.lines, line)
	if over := len(h.lines) - h.capacity; over > 0 {
		// Shift down instead of reslicing so the backing array does not grow forever.
		n := copy(h.lines, h.lines[over:])
		clear(h.lines[n:])
		h.lines = h.lines[:n]
	}
}

// Lines returns a copy of the retained lines, oldest first.
func (h *History) Lines() []string {
	if len(h.lines) == 0 {
		return nil
	}
	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}

// Len returns the number of retained lines.
func (h *History) Len() int { return len(h.lines) }

// Cap returns the maximum number of retained lines.
func (h *History) Cap() int { return h.capacity }
