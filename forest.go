package adstrat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pbanos/adstrat/dataset"
	"github.com/pbanos/adstrat/feature"
	"github.com/pbanos/adstrat/queue"
	"github.com/pbanos/adstrat/tree"
)

// SubsetSize is the number of attributes each tree of a forest can split on.
const SubsetSize = 3

// ForestError represents an error training or querying a forest
type ForestError string

/*
ErrInvalidTreeCount is the error returned when training a forest with
less than one tree.
*/
const ErrInvalidTreeCount = ForestError("invalid tree count")

/*
ErrNotEnoughAttributes is the error returned when training a forest with
less attributes than SubsetSize.
*/
const ErrNotEnoughAttributes = ForestError("not enough attributes")

/*
ErrTreeIndexOutOfRange is the error returned when querying a tree of a
forest by an index outside of it.
*/
const ErrTreeIndexOutOfRange = ForestError("tree index out of range")

/*
ErrAbsentTree is the error returned when predicting with a tree of a
forest that could not be grown because its bootstrap sample was empty.
*/
const ErrAbsentTree = ForestError("absent tree")

/*
ErrUnlabelledRecord is the error returned when growing trees from a
dataset holding records whose click label is not known.
*/
const ErrUnlabelledRecord = ForestError("unlabelled record")

func (fe ForestError) Error() string {
	return string(fe)
}

/*
Forest is an ensemble of decision trees predicting clicks by majority
vote. Trees are kept in the order they were planned in; a nil entry is
an absent tree, that does not vote.
*/
type Forest struct {
	trees     []*tree.Tree
	nodeStore tree.NodeStore
}

/*
Train takes a context, a dataset, a slice of attributes, a number of
trees and options and returns a forest of that many trees grown from the
dataset, or an error.

For every tree, a bootstrap sample with as many records as the dataset is
drawn with replacement, and the attributes are shuffled and truncated to
their first SubsetSize. All samples and subsets are drawn in tree order
from the generator in the options before any tree is grown, so the
resulting forest only depends on the generator and not on the number of
workers growing the trees.

An error wrapping ErrInvalidTreeCount is returned if treeCount is below 1,
one wrapping ErrNotEnoughAttributes if less than SubsetSize attributes are
given, and errors wrapping feature.ErrUnknownAttribute or
feature.ErrDuplicateAttribute if the attributes are invalid or repeated.
A dataset with a record whose click is neither feature.Click nor
feature.NoClick is rejected with an error wrapping ErrUnlabelledRecord.
If growing a tree fails, the error is returned and nodes already created
are left in the node store.
*/
func Train(ctx context.Context, ds dataset.Dataset, attrs []feature.Attribute, treeCount int, opts ...Option) (*Forest, error) {
	if treeCount < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTreeCount, treeCount)
	}
	err := validateAttributes(attrs)
	if err != nil {
		return nil, err
	}
	err = validateLabels(ds)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	tasks := plan(ds, attrs, treeCount, o.Rand)
	q := queue.New()
	defer q.Stop(ctx)
	for _, t := range tasks {
		err = q.Push(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("queueing tree %d: %w", t.Index, err)
		}
	}
	o.Logger.Logf("Growing %d trees from %d records with %d workers...", treeCount, len(ds), o.Workers)
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errs := make(chan error, o.Workers)
	var wg sync.WaitGroup
	wg.Add(o.Workers)
	for i := 0; i < o.Workers; i++ {
		go func() {
			defer wg.Done()
			if err := Work(wctx, o.NodeStore, q, o.Logger); err != nil {
				errs <- err
				cancel()
			}
		}()
	}
	wg.Wait()
	close(errs)
	if err, ok := <-errs; ok {
		return nil, fmt.Errorf("training forest: %w", err)
	}
	f := &Forest{trees: make([]*tree.Tree, treeCount), nodeStore: o.NodeStore}
	for _, t := range tasks {
		f.trees[t.Index] = t.Tree
	}
	return f, nil
}

func validateAttributes(attrs []feature.Attribute) error {
	seen := make(map[feature.Attribute]bool, len(attrs))
	for _, a := range attrs {
		if !a.Valid() {
			return fmt.Errorf("%w %v", feature.ErrUnknownAttribute, a)
		}
		if seen[a] {
			return fmt.Errorf("%w %v", feature.ErrDuplicateAttribute, a)
		}
		seen[a] = true
	}
	if len(attrs) < SubsetSize {
		return fmt.Errorf("%w: got %d, need at least %d", ErrNotEnoughAttributes, len(attrs), SubsetSize)
	}
	return nil
}

func validateLabels(ds dataset.Dataset) error {
	for i, r := range ds {
		if !r.Click.Valid() {
			return fmt.Errorf("%w: record %d has click %v", ErrUnlabelledRecord, i, r.Click)
		}
	}
	return nil
}

func plan(ds dataset.Dataset, attrs []feature.Attribute, treeCount int, r Rand) []*queue.Task {
	tasks := make([]*queue.Task, treeCount)
	for i := range tasks {
		tasks[i] = &queue.Task{
			Index:      i,
			Sample:     bootstrap(ds, r),
			Attributes: attributeSubset(attrs, r),
		}
	}
	return tasks
}

func bootstrap(ds dataset.Dataset, r Rand) dataset.Dataset {
	sample := make(dataset.Dataset, len(ds))
	for i := range sample {
		sample[i] = ds[r.Intn(len(ds))]
	}
	return sample
}

func attributeSubset(attrs []feature.Attribute, r Rand) []feature.Attribute {
	subset := append([]feature.Attribute(nil), attrs...)
	shuffleAttributes(subset, r)
	return subset[:SubsetSize]
}

func shuffleAttributes(attrs []feature.Attribute, r Rand) {
	for len(attrs) > 0 {
		n := len(attrs)
		randIndex := r.Intn(n)
		attrs[n-1], attrs[randIndex] = attrs[randIndex], attrs[n-1]
		attrs = attrs[:n-1]
	}
}

// Len returns the number of trees in the forest, absent ones included.
func (f *Forest) Len() int {
	return len(f.trees)
}

// Tree returns the i-th tree of the forest, or nil if it is absent or
// the index is out of range.
func (f *Forest) Tree(i int) *tree.Tree {
	if i < 0 || i >= len(f.trees) {
		return nil
	}
	return f.trees[i]
}

/*
Votes takes a context and a record and returns the number of trees of
the forest that predict a click for it and the number of trees that
voted, that is, the trees that are not absent.
*/
func (f *Forest) Votes(ctx context.Context, r feature.Record) (clicks, voters int, err error) {
	for i, t := range f.trees {
		if t == nil {
			continue
		}
		l, err := t.Predict(ctx, r)
		if err != nil {
			return 0, 0, fmt.Errorf("predicting with tree %d: %w", i, err)
		}
		voters++
		if l == feature.Click {
			clicks++
		}
	}
	return clicks, voters, nil
}

/*
Predict takes a context and a record and returns feature.Click if more
than half of the trees voting predict a click for the record, and
feature.NoClick otherwise. Ties, as well as a forest without any tree
to vote, result in feature.NoClick.
*/
func (f *Forest) Predict(ctx context.Context, r feature.Record) (feature.Label, error) {
	clicks, voters, err := f.Votes(ctx, r)
	if err != nil {
		return feature.Unknown, err
	}
	if clicks*2 > voters {
		return feature.Click, nil
	}
	return feature.NoClick, nil
}

/*
Test takes a context.Context and a Dataset and returns the prediction
success rate of the forest over the records in the dataset, or an error
if a prediction could not be made.
*/
func (f *Forest) Test(ctx context.Context, ds dataset.Dataset) (float64, error) {
	if len(ds) == 0 {
		return 0.0, nil
	}
	var result float64
	for _, r := range ds {
		p, err := f.Predict(ctx, r)
		if err != nil {
			return 0.0, err
		}
		if p == r.Click {
			result += 1.0
		}
	}
	return result / float64(len(ds)), nil
}

/*
PredictWithTree takes a context, a record and the index of a tree in the
forest and returns the prediction of that tree alone for the record. An
error wrapping ErrTreeIndexOutOfRange is returned for indexes outside the
forest and one wrapping ErrAbsentTree for absent trees.
*/
func (f *Forest) PredictWithTree(ctx context.Context, r feature.Record, i int) (feature.Label, error) {
	if i < 0 || i >= len(f.trees) {
		return feature.Unknown, fmt.Errorf("%w: %d not in [0, %d)", ErrTreeIndexOutOfRange, i, len(f.trees))
	}
	t := f.trees[i]
	if t == nil {
		return feature.Unknown, fmt.Errorf("tree %d: %w", i, ErrAbsentTree)
	}
	return t.Predict(ctx, r)
}

/*
Close takes a context and deletes every node of the forest's trees from
its node store, then closes the store. The forest cannot be used
afterwards.
*/
func (f *Forest) Close(ctx context.Context) error {
	for i, t := range f.trees {
		if t == nil {
			continue
		}
		err := t.Traverse(ctx, true, func(ctx context.Context, n *tree.Node) error {
			return f.nodeStore.Delete(ctx, n)
		})
		if err != nil {
			return fmt.Errorf("deleting tree %d: %w", i, err)
		}
		f.trees[i] = nil
	}
	return f.nodeStore.Close(ctx)
}

func (f *Forest) String() string {
	var b strings.Builder
	for i, t := range f.trees {
		fmt.Fprintf(&b, "Tree %d:\n", i)
		if t == nil {
			b.WriteString("(absent)\n")
			continue
		}
		b.WriteString(t.String())
	}
	return b.String()
}
