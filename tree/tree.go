package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/adstrat/dataset"
	"github.com/pbanos/adstrat/feature"
)

// Tree represents a binary decision tree predicting clicks. It is
// composed of a NodeStore where all its nodes are stored and the id
// for the root node of the tree.
type Tree struct {
	NodeStore
	RootID string
}

// TreeError represents an error related with the structure of a tree
type TreeError string

/*
ErrNodeNotFound is the error returned when a node referenced by the tree
cannot be found on its NodeStore.
*/
const ErrNodeNotFound = TreeError("node not found")

/*
ErrMalformedNode is the error returned when traversing a node that is
neither a leaf with a valid prediction nor an internal node with both
children.
*/
const ErrMalformedNode = TreeError("malformed node")

func (te TreeError) Error() string {
	return string(te)
}

// New takes the ID for the root Node and a NodeStore and returns a tree
// composed of the nodes in the NodeStore connected to the node with the
// given root ID.
func New(rootID string, nodeStore NodeStore) *Tree {
	return &Tree{nodeStore, rootID}
}

// Predict takes a record and returns the label predicted for it by the
// tree and an error if the prediction could not be made. Starting at the
// root, records satisfying a node's criterion descend to its match child
// and the rest to its mismatch child, until a leaf is reached.
func (t *Tree) Predict(ctx context.Context, r feature.Record) (feature.Label, error) {
	if t == nil {
		return feature.Unknown, fmt.Errorf("nil tree cannot predict records")
	}
	n, err := t.node(ctx, t.RootID)
	if err != nil {
		return feature.Unknown, fmt.Errorf("predicting record: %w", err)
	}
	for !n.IsLeaf() {
		if n.Criterion == nil || n.MatchID == "" || n.MismatchID == "" {
			return feature.Unknown, fmt.Errorf("predicting record: node %v: %w", n.ID, ErrMalformedNode)
		}
		nextID := n.MismatchID
		if n.Criterion.SatisfiedBy(r) {
			nextID = n.MatchID
		}
		n, err = t.node(ctx, nextID)
		if err != nil {
			return feature.Unknown, fmt.Errorf("predicting record: %w", err)
		}
	}
	if !n.Prediction.Valid() {
		return feature.Unknown, fmt.Errorf("predicting record: leaf %v with prediction %v: %w", n.ID, n.Prediction, ErrMalformedNode)
	}
	return n.Prediction, nil
}

/*
Test takes a context.Context and a Dataset and returns the prediction
success rate of the tree over the records in the dataset, or an error
if a prediction could not be made.
*/
func (t *Tree) Test(ctx context.Context, ds dataset.Dataset) (float64, error) {
	if len(ds) == 0 {
		return 0.0, nil
	}
	var result float64
	for _, r := range ds {
		p, err := t.Predict(ctx, r)
		if err != nil {
			return 0.0, err
		}
		if p == r.Click {
			result += 1.0
		}
	}
	return result / float64(len(ds)), nil
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true.
// If the given context times out or is cancelled, the context
// error is returned. If a node cannot be retrieved from the
// tree's node store, the obtained error is returned. If the
// call to the function returns an error, the traversing is
// aborted and the error is returned. Otherwise, when the
// traversing is over, nil is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	n, err := t.node(ctx, t.RootID)
	if err != nil {
		return err
	}
	return t.traverse(ctx, n, bottomup, f)
}

func (t *Tree) traverse(ctx context.Context, n *Node, bottomup bool, f func(context.Context, *Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		err = f(ctx, n)
		if err != nil {
			return err
		}
	}
	for _, snID := range n.SubtreeIDs() {
		sn, err := t.node(ctx, snID)
		if err != nil {
			return err
		}
		err = t.traverse(ctx, sn, bottomup, f)
		if err != nil {
			return err
		}
	}
	if bottomup {
		return f(ctx, n)
	}
	return nil
}

// Depth returns the number of nodes in the longest path from the
// root of the tree to a leaf.
func (t *Tree) Depth(ctx context.Context) (int, error) {
	n, err := t.node(ctx, t.RootID)
	if err != nil {
		return 0, err
	}
	return t.depth(ctx, n)
}

func (t *Tree) depth(ctx context.Context, n *Node) (int, error) {
	var result int
	for _, snID := range n.SubtreeIDs() {
		sn, err := t.node(ctx, snID)
		if err != nil {
			return 0, err
		}
		d, err := t.depth(ctx, sn)
		if err != nil {
			return 0, err
		}
		if d > result {
			result = d
		}
	}
	return result + 1, nil
}

func (t *Tree) node(ctx context.Context, id string) (*Node, error) {
	n, err := t.NodeStore.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("retrieving node %v: %w", id, err)
	}
	if n == nil {
		return nil, fmt.Errorf("node %v: %w", id, ErrNodeNotFound)
	}
	return n, nil
}

func (t *Tree) String() string {
	return t.subtreeString(t.RootID, "")
}

func (t *Tree) subtreeString(nodeID, branch string) string {
	n, err := t.NodeStore.Get(context.TODO(), nodeID)
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err.Error())
	}
	if n == nil {
		return fmt.Sprintf("ERROR: node %s not found\n", nodeID)
	}
	result := fmt.Sprintf("[%s]%s\n", nodeID, branch)
	if n.Criterion != nil {
		result = fmt.Sprintf("%s{ %v }\n", result, n.Criterion)
	}
	if n.IsLeaf() {
		return fmt.Sprintf("%s{ click=%v }\n \n", result, n.Prediction)
	}
	result = fmt.Sprintf("%s|\n", result)
	subtrees := []struct{ id, branch string }{{n.MatchID, " yes"}, {n.MismatchID, " no"}}
	for i, st := range subtrees {
		for j, line := range strings.Split(t.subtreeString(st.id, st.branch), "\n") {
			if len(line) > 0 {
				if j == 0 {
					result = fmt.Sprintf("%s|__%s\n", result, line)
				} else {
					if i == len(subtrees)-1 {
						result = fmt.Sprintf("%s   %s\n", result, line)
					} else {
						result = fmt.Sprintf("%s|  %s\n", result, line)
					}
				}
			}
		}
	}
	return result
}
