package dataset

import (
	"fmt"
	"sort"

	"github.com/pbanos/adstrat/feature"
)

/*
Dataset represents an ordered collection of records.

Its Impurity method returns the Gini impurity of the dataset for the click
label: a measure of how mixed clicks and non-clicks are in it.

Its Split method takes an attribute and a value and returns the records
that take that value for the attribute and those that do not.

Its Values method returns the distinct values an attribute takes across
the dataset.
*/
type Dataset []feature.Record

/*
New takes a slice of records and returns a dataset built with them. The
records are copied so later changes to the slice do not affect the
dataset.
*/
func New(records []feature.Record) Dataset {
	return append(Dataset(nil), records...)
}

/*
Count returns the number of records in the dataset
*/
func (ds Dataset) Count() int {
	return len(ds)
}

/*
CountClicks returns the number of records in the dataset labelled as
clicked.
*/
func (ds Dataset) CountClicks() int {
	var count int
	for _, r := range ds {
		if r.Click == feature.Click {
			count++
		}
	}
	return count
}

/*
Impurity returns the Gini impurity of the dataset: 1 - (p1² + p0²) where
p1 is the fraction of records labelled as clicked and p0 = 1 - p1. An
empty dataset has an impurity of 0.
*/
func (ds Dataset) Impurity() float64 {
	if len(ds) == 0 {
		return 0.0
	}
	pClick := float64(ds.CountClicks()) / float64(len(ds))
	pNoClick := 1.0 - pClick
	return 1.0 - (pClick*pClick + pNoClick*pNoClick)
}

/*
Split takes an attribute and a value and partitions the dataset into the
records whose value for the attribute equals the given value (match) and
the rest (mismatch). Both sides preserve the relative order of the records
in the dataset.
*/
func (ds Dataset) Split(a feature.Attribute, value string) (match, mismatch Dataset) {
	return ds.SubsetWith(feature.NewCriterion(a, value))
}

/*
SubsetWith takes a criterion and partitions the dataset into the records
that satisfy it and those that do not, preserving their relative order.
*/
func (ds Dataset) SubsetWith(c feature.Criterion) (satisfying, rest Dataset) {
	satisfying = Dataset{}
	rest = Dataset{}
	for _, r := range ds {
		if c.SatisfiedBy(r) {
			satisfying = append(satisfying, r)
		} else {
			rest = append(rest, r)
		}
	}
	return satisfying, rest
}

/*
WeightedImpurity takes the two sides of a split and the size of the split
dataset and returns the impurity of the split, that is, the impurity of
each side weighted by its share of the total.
*/
func WeightedImpurity(match, mismatch Dataset, total int) float64 {
	if total == 0 {
		return 0.0
	}
	n := float64(total)
	return float64(len(match))/n*match.Impurity() + float64(len(mismatch))/n*mismatch.Impurity()
}

/*
Values takes an attribute and returns the distinct values the records in
the dataset take for it, sorted in increasing order.
*/
func (ds Dataset) Values(a feature.Attribute) []string {
	encountered := make(map[string]bool)
	result := []string{}
	for _, r := range ds {
		v := a.ValueOf(r)
		if !encountered[v] {
			encountered[v] = true
			result = append(result, v)
		}
	}
	sort.Strings(result)
	return result
}

/*
Uniform returns the label shared by every record in the dataset and true,
or false if the dataset is empty or holds records with different labels.
*/
func (ds Dataset) Uniform() (feature.Label, bool) {
	if len(ds) == 0 {
		return feature.Unknown, false
	}
	first := ds[0].Click
	for _, r := range ds[1:] {
		if r.Click != first {
			return feature.Unknown, false
		}
	}
	return first, true
}

/*
Majority returns the label of the majority of records in the dataset:
Click if at least half of them are labelled as clicked, NoClick otherwise.
Ties favour Click.
*/
func (ds Dataset) Majority() feature.Label {
	if ds.CountClicks()*2 >= len(ds) {
		return feature.Click
	}
	return feature.NoClick
}

/*
Labelled returns the records of the dataset whose click label is known,
in the same order.
*/
func (ds Dataset) Labelled() Dataset {
	result := make(Dataset, 0, len(ds))
	for _, r := range ds {
		if r.Click.Valid() {
			result = append(result, r)
		}
	}
	return result
}

func (ds Dataset) String() string {
	return fmt.Sprintf("[ %d ]", len(ds))
}
