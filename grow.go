package adstrat

import (
	"context"
	"fmt"

	"github.com/pbanos/adstrat/dataset"
	"github.com/pbanos/adstrat/feature"
	"github.com/pbanos/adstrat/tree"
)

/*
Grow takes a context, a node store, a dataset and a slice of attributes
and returns a tree grown on the node store to predict the click label of
the records in the dataset splitting on the given attributes, or an
error if the nodes cannot be created on the store or the context is
cancelled. Every record must be labelled as clicked or not: an error
wrapping ErrUnlabelledRecord is returned otherwise, so leaves never
predict feature.Unknown.

The tree is grown top-down:
  * an empty dataset produces no tree: Grow returns nil and no error.
  * a dataset whose records share a label produces a leaf with that label.
  * without attributes, a leaf with the majority label is produced.
  * otherwise the partition with the lowest weighted impurity is chosen
  and, if both its sides hold records, an internal node splitting on it
  is created, whose children are grown from each side with the same
  attributes. A partition with an empty side produces a majority leaf.
*/
func Grow(ctx context.Context, ns tree.NodeStore, ds dataset.Dataset, attrs []feature.Attribute) (*tree.Tree, error) {
	if len(ds) == 0 {
		return nil, nil
	}
	if err := validateLabels(ds); err != nil {
		return nil, fmt.Errorf("growing tree: %w", err)
	}
	rootID, err := develop(ctx, ns, "", ds, attrs)
	if err != nil {
		return nil, fmt.Errorf("growing tree: %w", err)
	}
	return tree.New(rootID, ns), nil
}

func develop(ctx context.Context, ns tree.NodeStore, parentID string, ds dataset.Dataset, attrs []feature.Attribute) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if label, ok := ds.Uniform(); ok {
		return createLeaf(ctx, ns, parentID, label)
	}
	if len(attrs) == 0 {
		return createLeaf(ctx, ns, parentID, ds.Majority())
	}
	p := bestPartition(ds, attrs)
	if p == nil || p.Degenerate() {
		return createLeaf(ctx, ns, parentID, ds.Majority())
	}
	c := feature.NewCriterion(p.Attribute, p.Value)
	n := &tree.Node{ParentID: parentID, Criterion: &c, Prediction: feature.Unknown}
	err := ns.Create(ctx, n)
	if err != nil {
		return "", fmt.Errorf("creating node for %v: %w", c, err)
	}
	n.MatchID, err = develop(ctx, ns, n.ID, p.Match, attrs)
	if err != nil {
		return "", err
	}
	n.MismatchID, err = develop(ctx, ns, n.ID, p.Mismatch, attrs)
	if err != nil {
		return "", err
	}
	err = ns.Store(ctx, n)
	if err != nil {
		return "", fmt.Errorf("storing node %v: %w", n.ID, err)
	}
	return n.ID, nil
}

func createLeaf(ctx context.Context, ns tree.NodeStore, parentID string, label feature.Label) (string, error) {
	n := tree.NewLeaf(label)
	n.ParentID = parentID
	err := ns.Create(ctx, n)
	if err != nil {
		return "", fmt.Errorf("creating leaf: %w", err)
	}
	return n.ID, nil
}
