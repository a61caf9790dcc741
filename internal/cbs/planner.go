package cbs

import "github.com/orange-dot/mapf-cbs/internal/mapfcore"

// Planner is the low-level search contract every CBS driver plans against:
// given an agent and the constraints binding it, produce a path or report
// failure. Expressing it as a function type (rather than an interface with
// implementers) lets every driver share the same branching code while
// swapping in the sequential or worker-pool-backed A* search.
type Planner func(agentID int, constraints []mapfcore.Constraint, start, goal mapfcore.Coord) (mapfcore.Path, bool)

// PlanAllPaths replans every agent's path under node's current constraint
// set, starting from a plan that has none replanned yet (used for root
// construction). It returns false if any agent has no feasible path.
func PlanAllPaths(inst *mapfcore.Instance, node *Node, plan Planner) bool {
	for agent := 0; agent < inst.NumAgents(); agent++ {
		constraints := node.Constraints.ForAgent(agent)
		path, ok := plan(agent, constraints, inst.Starts[agent], inst.Goals[agent])
		if !ok {
			return false
		}
		node.Paths[agent] = path
	}
	node.ComputeSoC()
	return true
}

// BuildRoot constructs the CBS root node: one planner call per agent under
// an empty constraint set. Returns nil if any agent is unreachable, per
// spec's "root: if any fails, the instance is declared unsolvable".
func BuildRoot(inst *mapfcore.Instance, plan Planner) *Node {
	root := NewNode(inst.NumAgents())
	root.ID = 0
	root.ParentID = -1
	if !PlanAllPaths(inst, root, plan) {
		return nil
	}
	return root
}

// BuildChildren produces up to two children of node for the given
// conflict, one per involved agent, each carrying exactly one new
// constraint and a replanned path for that agent. A child whose replan
// fails is omitted.
func BuildChildren(inst *mapfcore.Instance, node *Node, conflict *Conflict, plan Planner) []*Node {
	agents := [2]int{conflict.AgentA, conflict.AgentB}
	children := make([]*Node, 0, 2)

	for _, agent := range agents {
		child := node.Clone()
		child.Constraints.Add(constraintFor(node, conflict, agent))

		constraints := child.Constraints.ForAgent(agent)
		path, ok := plan(agent, constraints, inst.Starts[agent], inst.Goals[agent])
		if !ok {
			continue
		}
		child.Paths[agent] = path
		child.ComputeSoC()
		children = append(children, child)
	}
	return children
}

// constraintFor builds the single constraint a child adds for agent,
// following spec §4.6: a vertex conflict forbids the shared cell at the
// conflict time; an edge conflict forbids that agent's own traversal
// (from -> to), which is the reverse leg for the second agent.
func constraintFor(node *Node, conflict *Conflict, agent int) mapfcore.Constraint {
	if conflict.Kind == VertexConflict {
		return mapfcore.Constraint{
			AgentID: agent,
			Time:    conflict.Time,
			Kind:    mapfcore.ConstraintVertex,
			Vertex:  conflict.Position,
		}
	}

	from := conflict.Position
	to := conflict.EdgeTo
	if agent == conflict.AgentB {
		from = node.Paths[agent].At(conflict.Time)
		to = node.Paths[agent].At(conflict.Time + 1)
	}
	return mapfcore.Constraint{
		AgentID: agent,
		Time:    conflict.Time,
		Kind:    mapfcore.ConstraintEdge,
		Vertex:  from,
		EdgeTo:  to,
	}
}
