package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pbanos/adstrat/feature"
)

func labelled(labels ...feature.Label) Dataset {
	ds := Dataset{}
	for _, l := range labels {
		ds = append(ds, feature.Record{Click: l})
	}
	return ds
}

func TestImpurity(t *testing.T) {
	tests := []struct {
		name string
		ds   Dataset
		want float64
	}{
		{"empty", Dataset{}, 0.0},
		{"all clicks", labelled(1, 1, 1), 0.0},
		{"no clicks", labelled(0, 0), 0.0},
		{"even", labelled(1, 0, 1, 0), 0.5},
		{"one in four", labelled(1, 0, 0, 0), 0.375},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.ds.Impurity(), 1e-9)
		})
	}
}

func TestImpurityBounds(t *testing.T) {
	for n := 1; n <= 12; n++ {
		for clicks := 0; clicks <= n; clicks++ {
			ds := Dataset{}
			for i := 0; i < n; i++ {
				l := feature.NoClick
				if i < clicks {
					l = feature.Click
				}
				ds = append(ds, feature.Record{Click: l})
			}
			imp := ds.Impurity()
			assert.GreaterOrEqual(t, imp, 0.0)
			assert.LessOrEqual(t, imp, 0.5)
			_, uniform := ds.Uniform()
			assert.Equal(t, uniform, imp == 0.0, "n=%d clicks=%d", n, clicks)
		}
	}
}

func TestSplit(t *testing.T) {
	ds := Dataset{
		{Age: 1, Gender: "Male", Click: feature.Click},
		{Age: 2, Gender: "Female", Click: feature.NoClick},
		{Age: 3, Gender: "Male", Click: feature.NoClick},
		{Age: 4, Gender: "Non-Binary", Click: feature.Click},
		{Age: 5, Gender: "Male", Click: feature.Click},
	}
	match, mismatch := ds.Split(feature.Gender, "Male")
	assert.Equal(t, []int{1, 3, 5}, ages(match))
	assert.Equal(t, []int{2, 4}, ages(mismatch))

	match, mismatch = ds.Split(feature.Gender, "Unknown")
	assert.Empty(t, match)
	assert.Equal(t, ds, mismatch)
}

func TestSplitCompleteness(t *testing.T) {
	ds := Dataset{
		{Gender: "Male", DeviceType: "Mobile"},
		{Gender: "Female", DeviceType: "Desktop"},
		{Gender: "Female", DeviceType: "Mobile"},
		{Gender: "", DeviceType: "Tablet"},
	}
	for _, a := range feature.Attributes() {
		for _, v := range append(ds.Values(a), "absent") {
			match, mismatch := ds.Split(a, v)
			assert.Equal(t, len(ds), len(match)+len(mismatch))
			for _, r := range match {
				assert.Equal(t, v, a.ValueOf(r))
			}
			for _, r := range mismatch {
				assert.NotEqual(t, v, a.ValueOf(r))
			}
		}
	}
}

func TestWeightedImpurity(t *testing.T) {
	left := labelled(1, 1)
	right := labelled(1, 0)
	assert.InDelta(t, 0.25, WeightedImpurity(left, right, 4), 1e-9)
	assert.InDelta(t, 0.0, WeightedImpurity(Dataset{}, Dataset{}, 0), 1e-9)
}

func TestValues(t *testing.T) {
	ds := Dataset{
		{TimeOfDay: "Night"},
		{TimeOfDay: "Morning"},
		{TimeOfDay: "Night"},
		{TimeOfDay: "Afternoon"},
	}
	assert.Equal(t, []string{"Afternoon", "Morning", "Night"}, ds.Values(feature.TimeOfDay))
}

func TestUniform(t *testing.T) {
	l, ok := labelled(1, 1).Uniform()
	assert.True(t, ok)
	assert.Equal(t, feature.Click, l)

	_, ok = labelled(1, 0).Uniform()
	assert.False(t, ok)

	_, ok = Dataset{}.Uniform()
	assert.False(t, ok)
}

func TestMajority(t *testing.T) {
	assert.Equal(t, feature.Click, labelled(1, 1, 0).Majority())
	assert.Equal(t, feature.NoClick, labelled(1, 0, 0).Majority())
	assert.Equal(t, feature.Click, labelled(1, 0).Majority(), "ties favour clicks")
	assert.Equal(t, feature.NoClick, labelled(1, 0, 0, 0, 0).Majority())
}

func TestNewCopies(t *testing.T) {
	records := []feature.Record{{Age: 1}}
	ds := New(records)
	records[0].Age = 2
	assert.Equal(t, 1, ds[0].Age)
}

func ages(ds Dataset) []int {
	result := []int{}
	for _, r := range ds {
		result = append(result, r.Age)
	}
	return result
}

func TestLabelled(t *testing.T) {
	ds := labelled(feature.Click, feature.Unknown, feature.NoClick, feature.Unknown)
	got := ds.Labelled()
	assert.Equal(t, labelled(feature.Click, feature.NoClick), got)
	assert.Len(t, ds, 4)
}
