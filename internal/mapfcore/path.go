package mapfcore

// Path is an ordered, time-indexed sequence of an agent's occupied cells,
// starting at t = 0.
type Path []Coord

// At returns the agent's position at time t, applying the wait-at-goal
// rule: once t reaches the path's length the agent is considered to sit at
// its last cell forever. Used only by the conflict detector and the
// message-frame codec; it never mutates the path.
func (p Path) At(t int) Coord {
	if len(p) == 0 {
		return Coord{}
	}
	if t < len(p) {
		return p[t]
	}
	return p[len(p)-1]
}

// Len returns the path's SoC contribution: its number of time steps.
func (p Path) Len() int {
	return len(p)
}

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}
