package llmanager

import (
	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
	"github.com/orange-dot/mapf-cbs/internal/msgnet"
)

// request is a decoded LL_REQUEST: replan agentID from start to goal under
// constraints. RequestID lets the requester match responses when several
// requests are outstanding.
type request struct {
	RequestID   int
	AgentID     int
	Start, Goal mapfcore.Coord
	Constraints []mapfcore.Constraint
}

// response is a decoded LL_RESPONSE.
type response struct {
	RequestID int
	Path      mapfcore.Path
	Found     bool
}

// encodeRequest packs a request into a Frame, reusing the constraint wire
// layout from EncodeNode/DecodeNode (seven ints per constraint) and
// stashing the scalar fields in the frame's header ints since a request
// carries no path data of its own.
func encodeRequest(requestID, agentID int, start, goal mapfcore.Coord, constraints []mapfcore.Constraint) msgnet.Frame {
	constraintData := make([]int, 0, len(constraints)*7)
	for _, c := range constraints {
		constraintData = append(constraintData,
			c.AgentID, c.Time, int(c.Kind),
			c.Vertex.X, c.Vertex.Y,
			c.EdgeTo.X, c.EdgeTo.Y,
		)
	}
	return msgnet.Frame{
		NodeID:             requestID,
		ParentID:           agentID,
		Depth:              start.X,
		NumAgents:          start.Y,
		ConstraintCount:    len(constraints),
		ConstraintIntCount: len(constraintData),
		AuxValue:           goal.X,
		Cost:               float64(goal.Y),
		ConstraintData:     constraintData,
	}
}

func decodeRequest(f msgnet.Frame) request {
	constraints := make([]mapfcore.Constraint, 0, f.ConstraintCount)
	cursor := 0
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
	return request{
		RequestID:   f.NodeID,
		AgentID:     f.ParentID,
		Start:       mapfcore.Coord{X: f.Depth, Y: f.NumAgents},
		Goal:        mapfcore.Coord{X: f.AuxValue, Y: int(f.Cost)},
		Constraints: constraints,
	}
}

// encodeResponse packs a path into the frame's path-data layout, reusing
// the [length, x0, y0, ...] convention from EncodeNode.
func encodeResponse(requestID int, path mapfcore.Path, found bool) msgnet.Frame {
	pathData := make([]int, 0, 1+path.Len()*2)
	pathData = append(pathData, path.Len())
	for _, c := range path {
		pathData = append(pathData, c.X, c.Y)
	}
	aux := 0
	if found {
		aux = 1
	}
	return msgnet.Frame{
		NodeID:       requestID,
		AuxValue:     aux,
		PathIntCount: len(pathData),
		PathData:     pathData,
	}
}

func decodeResponse(f msgnet.Frame) response {
	length := 0
	var path mapfcore.Path
	if len(f.PathData) > 0 {
		length = f.PathData[0]
		path = make(mapfcore.Path, length)
		cursor := 1
		for i := 0; i < length; i++ {
			path[i] = mapfcore.Coord{X: f.PathData[cursor], Y: f.PathData[cursor+1]}
			cursor += 2
		}
	}
	return response{RequestID: f.NodeID, Path: path, Found: f.AuxValue != 0}
}
