package mapfcore

// ConstraintKind distinguishes a vertex constraint from an edge constraint.
type ConstraintKind int

const (
	// ConstraintVertex forbids an agent from being at Vertex at Time.
	ConstraintVertex ConstraintKind = iota
	// ConstraintEdge forbids the move Vertex -> EdgeTo between Time and Time+1.
	ConstraintEdge
)

// UniversalAgent is the agent_id sentinel meaning "applies to every agent".
const UniversalAgent = -1

// Constraint is a single prohibition attached to a HighLevelNode.
type Constraint struct {
	AgentID int
	Time    int
	Kind    ConstraintKind
	Vertex  Coord
	EdgeTo  Coord
}

// AppliesTo reports whether this constraint binds the given agent.
func (c Constraint) AppliesTo(agentID int) bool {
	return c.AgentID == UniversalAgent || c.AgentID == agentID
}

// ConstraintSet is an unordered, append-only collection of constraints.
// Duplicates are tolerated; callers filter by agent at use time.
type ConstraintSet struct {
	items []Constraint
}

// Add appends a constraint.
func (s *ConstraintSet) Add(c Constraint) {
	s.items = append(s.items, c)
}

// Len returns the number of constraints in the set.
func (s *ConstraintSet) Len() int {
	return len(s.items)
}

// All returns the raw backing slice. Callers must not mutate it.
func (s *ConstraintSet) All() []Constraint {
	return s.items
}

// ForAgent returns the constraints that apply to agentID, universal
// constraints included.
func (s *ConstraintSet) ForAgent(agentID int) []Constraint {
	var out []Constraint
	for _, c := range s.items {
		if c.AppliesTo(agentID) {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns a copy whose backing array is independent of the receiver.
func (s *ConstraintSet) Clone() ConstraintSet {
	items := make([]Constraint, len(s.items))
	copy(items, s.items)
	return ConstraintSet{items: items}
}
