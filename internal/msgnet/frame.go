package msgnet

import "github.com/orange-dot/mapf-cbs/internal/mapfcore"

// Frame is the wire representation of a CBS tree node: an 8-int header,
// a cost, path data, and constraint data, matching the four-message shape
// of the original protocol's send_serialized_node (header, cost, paths,
// constraints) collapsed into one struct since Comm.Send ships a frame
// atomically rather than as four separate wire messages.
type Frame struct {
	NodeID            int
	ParentID          int
	Depth             int
	NumAgents         int
	ConstraintCount   int
	PathIntCount      int
	ConstraintIntCount int
	AuxValue          int
	Cost              float64
	PathData          []int
	ConstraintData    []int
}

// EncodeNode flattens node into a Frame ready for transmission. Path data
// is laid out per agent as [length, x0, y0, x1, y1, ...]; constraint data
// as seven ints per constraint: agent_id, time, kind, vertex.x, vertex.y,
// edge_to.x, edge_to.y.
func EncodeNode(nodeID, parentID, depth, numAgents int, cost float64, paths map[int]mapfcore.Path, constraints []mapfcore.Constraint) Frame {
	var pathData []int
	for agent := 0; agent < numAgents; agent++ {
		p := paths[agent]
		pathData = append(pathData, p.Len())
		for _, c := range p {
			pathData = append(pathData, c.X, c.Y)
		}
	}

	constraintData := make([]int, 0, len(constraints)*7)
	for _, c := range constraints {
		constraintData = append(constraintData,
			c.AgentID, c.Time, int(c.Kind),
			c.Vertex.X, c.Vertex.Y,
			c.EdgeTo.X, c.EdgeTo.Y,
		)
	}

	return Frame{
		NodeID:             nodeID,
		ParentID:           parentID,
		Depth:              depth,
		NumAgents:          numAgents,
		ConstraintCount:    len(constraints),
		PathIntCount:       len(pathData),
		ConstraintIntCount: len(constraintData),
		Cost:               cost,
		PathData:           pathData,
		ConstraintData:     constraintData,
	}
}

// DecodeNode reconstructs the paths and constraints carried by f. It is
// the exact inverse of EncodeNode; round-tripping a Frame through
// EncodeNode/DecodeNode must reproduce the original paths and constraints.
func DecodeNode(f Frame) (paths map[int]mapfcore.Path, constraints []mapfcore.Constraint) {
	paths = make(map[int]mapfcore.Path, f.NumAgents)
	cursor := 0
	for agent := 0; agent < f.NumAgents; agent++ {
		length := f.PathData[cursor]
		cursor++
		path := make(mapfcore.Path, length)
		for j := 0; j < length; j++ {
			path[j] = mapfcore.Coord{X: f.PathData[cursor], Y: f.PathData[cursor+1]}
			cursor += 2
		}
		paths[agent] = path
	}

	constraints = make([]mapfcore.Constraint, 0, f.ConstraintCount)
	cursor = 0
	for i := 0; i < f.ConstraintCount; i++ {
		constraints = append(constraints, mapfcore.Constraint{
			AgentID: f.ConstraintData[cursor],
			Time:    f.ConstraintData[cursor+1],
			Kind:    mapfcore.ConstraintKind(f.ConstraintData[cursor+2]),
			Vertex:  mapfcore.Coord{X: f.ConstraintData[cursor+3], Y: f.ConstraintData[cursor+4]},
			EdgeTo:  mapfcore.Coord{X: f.ConstraintData[cursor+5], Y: f.ConstraintData[cursor+6]},
		})
		cursor += 7
	}
	return paths, constraints
}
