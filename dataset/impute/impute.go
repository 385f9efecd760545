/*
Package impute fills the missing values of datasets: ages equal to
feature.MissingAge and empty categorical values.
*/
package impute

import (
	"fmt"
	"sort"

	"github.com/pbanos/adstrat/dataset"
	"github.com/pbanos/adstrat/feature"
)

/*
Imputation holds the values that replace missing ones: the age
and, for each attribute, a categorical value.
*/
type Imputation struct {
	Age    int
	Values map[feature.Attribute]string
}

/*
Impute takes a dataset and returns a copy of it with its missing values
filled with an imputation computed from the dataset itself. The given
dataset is not modified.
*/
func Impute(ds dataset.Dataset) dataset.Dataset {
	return Compute(ds).Apply(ds)
}

/*
Compute takes a dataset and returns the imputation for it:
  * the mean of the known ages, truncated to an integer, or 0 if no age
  is known.
  * for every attribute, its most frequent non-empty value, the smallest
  one in lexicographical order among equally frequent values. Attributes
  with no known value get the empty string.
*/
func Compute(ds dataset.Dataset) *Imputation {
	var sum, count int
	for _, r := range ds {
		if r.Age != feature.MissingAge {
			sum += r.Age
			count++
		}
	}
	imp := &Imputation{Values: make(map[feature.Attribute]string)}
	if count > 0 {
		imp.Age = int(float64(sum) / float64(count))
	}
	for _, a := range feature.Attributes() {
		imp.Values[a] = mode(ds, a)
	}
	return imp
}

func mode(ds dataset.Dataset, a feature.Attribute) string {
	frequency := make(map[string]int)
	for _, r := range ds {
		if v := a.ValueOf(r); v != "" {
			frequency[v]++
		}
	}
	values := make([]string, 0, len(frequency))
	for v := range frequency {
		values = append(values, v)
	}
	sort.Strings(values)
	var result string
	var max int
	for _, v := range values {
		if frequency[v] > max {
			max = frequency[v]
			result = v
		}
	}
	return result
}

/*
Apply takes a dataset and returns a copy of it with its missing values
replaced by those in the imputation.
*/
func (imp *Imputation) Apply(ds dataset.Dataset) dataset.Dataset {
	result := make(dataset.Dataset, len(ds))
	for i, r := range ds {
		result[i] = imp.ApplyTo(r)
	}
	return result
}

// ApplyTo takes a record and returns a copy of it with its missing
// values replaced by those in the imputation.
func (imp *Imputation) ApplyTo(r feature.Record) feature.Record {
	if r.Age == feature.MissingAge {
		r.Age = imp.Age
	}
	for a, v := range imp.Values {
		if a.ValueOf(r) == "" {
			r = r.With(a, v)
		}
	}
	return r
}

func (imp *Imputation) String() string {
	return fmt.Sprintf("{age=%d gender=%s deviceType=%s adPosition=%s browsingHistory=%s timeOfDay=%s}",
		imp.Age, imp.Values[feature.Gender], imp.Values[feature.DeviceType], imp.Values[feature.AdPosition],
		imp.Values[feature.BrowsingHistory], imp.Values[feature.TimeOfDay])
}
