package tree

import (
	"github.com/pbanos/adstrat/feature"
)

/*
Node is a node of the tree
*/
type Node struct {
	// An ID to identify the node
	ID string
	// The ID for the parent of the node in the tree
	ParentID string
	// The constraint the node imposes on records. Records satisfying it
	// continue down the node with MatchID, the rest down the node with
	// MismatchID. Leaves have no criterion.
	Criterion *feature.Criterion
	// The ID of the node for records satisfying the criterion
	MatchID string
	// The ID of the node for records not satisfying the criterion
	MismatchID string
	// The prediction for records reaching a leaf node. It is
	// feature.Unknown for internal nodes.
	Prediction feature.Label
}

/*
NewLeaf takes a label and returns a leaf node predicting it
*/
func NewLeaf(prediction feature.Label) *Node {
	return &Node{Prediction: prediction}
}

/*
IsLeaf returns whether the node is a leaf, that is, a node without criterion
nor children.
*/
func (n *Node) IsLeaf() bool {
	return n.Criterion == nil && n.MatchID == "" && n.MismatchID == ""
}

/*
SubtreeIDs returns the IDs of the nodes directly under this node: none for
a leaf, the match and mismatch children for an internal node.
*/
func (n *Node) SubtreeIDs() []string {
	var ids []string
	if n.MatchID != "" {
		ids = append(ids, n.MatchID)
	}
	if n.MismatchID != "" {
		ids = append(ids, n.MismatchID)
	}
	return ids
}
