package cbs

import "github.com/orange-dot/mapf-cbs/internal/msgnet"

// EncodeFrame flattens node into a msgnet.Frame for transmission between
// ranks. aux carries a driver-specific hint (an incumbent bound for the
// coordinator/worker driver, a parent id for provenance, or zero).
func EncodeFrame(node *Node, aux int) msgnet.Frame {
	f := msgnet.EncodeNode(node.ID, node.ParentID, node.Depth, len(node.Paths), node.Cost, node.Paths, node.Constraints.All())
	f.AuxValue = aux
	return f
}

// DecodeFrame reconstructs a Node from a received frame, keeping the
// sender's NodeID. The centralized coordinator renumbers nodes on receipt;
// decentralized peers keep the sender's id, which is unique per rank.
func DecodeFrame(f msgnet.Frame) *Node {
	paths, constraints := msgnet.DecodeNode(f)
	node := &Node{
		ID:       f.NodeID,
		ParentID: f.ParentID,
		Depth:    f.Depth,
		Cost:     f.Cost,
		Paths:    paths,
	}
	for _, c := range constraints {
		node.Constraints.Add(c)
	}
	return node
}
