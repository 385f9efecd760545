package queue

import (
	"fmt"
	"strconv"

	"github.com/pbanos/adstrat/dataset"
	"github.com/pbanos/adstrat/feature"
	"github.com/pbanos/adstrat/tree"
)

// Task represents a tree of a forest to be grown.
type Task struct {
	// The position of the tree in the forest
	Index int
	// The bootstrap sample of training data
	// the tree is grown from.
	Sample dataset.Dataset
	// The subset of attributes the tree can
	// split on.
	Attributes []feature.Attribute
	// The grown tree, set by the worker that
	// completes the task. It is nil until then,
	// and stays nil when the sample was empty.
	Tree *tree.Tree
}

// ID returns a string that identifies the
// task, its index.
func (t *Task) ID() string {
	return strconv.Itoa(t.Index)
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %d: %d records, attributes %v}", t.Index, len(t.Sample), t.Attributes)
}
