package adstrat

import (
	"github.com/pbanos/adstrat/dataset"
	"github.com/pbanos/adstrat/feature"
)

/*
Partition represents the split of a dataset into the records taking a
value for an attribute (Match) and the rest (Mismatch), along with the
weighted Gini impurity of the split.
*/
type Partition struct {
	Attribute feature.Attribute
	Value     string
	Match     dataset.Dataset
	Mismatch  dataset.Dataset
	impurity  float64
}

// Impurity returns the weighted impurity of the partition
func (p *Partition) Impurity() float64 {
	return p.impurity
}

// Degenerate returns whether one of the sides of the partition is empty
func (p *Partition) Degenerate() bool {
	return len(p.Match) == 0 || len(p.Mismatch) == 0
}

/*
bestPartition takes a dataset and a slice of attributes and returns the
partition with the lowest weighted impurity among every attribute and
every distinct value the attribute takes in the dataset. Attributes are
tried in the given order and values in increasing order; a later
candidate only replaces the best one found so far if its impurity is
strictly lower. The result is nil if no candidate improves on an
impurity of 1.0, which only happens for an empty dataset or attribute
slice.
*/
func bestPartition(ds dataset.Dataset, attrs []feature.Attribute) *Partition {
	var best *Partition
	bestImpurity := 1.0
	for _, a := range attrs {
		for _, v := range ds.Values(a) {
			match, mismatch := ds.Split(a, v)
			impurity := dataset.WeightedImpurity(match, mismatch, len(ds))
			if impurity < bestImpurity {
				bestImpurity = impurity
				best = &Partition{a, v, match, mismatch, impurity}
			}
		}
	}
	return best
}
