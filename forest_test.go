package adstrat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/adstrat/dataset"
	"github.com/pbanos/adstrat/feature"
	"github.com/pbanos/adstrat/tree"
)

// scriptedRand returns its values in a loop, reduced modulo n.
type scriptedRand struct {
	values []int
	next   int
}

func (sr *scriptedRand) Intn(n int) int {
	v := sr.values[sr.next%len(sr.values)] % n
	sr.next++
	return v
}

func trainingRecords() dataset.Dataset {
	return dataset.Dataset{
		{Age: 25, Gender: "Male", DeviceType: "Desktop", AdPosition: "Bottom", BrowsingHistory: "News", TimeOfDay: "Morning", Click: feature.Click},
		{Age: 47, Gender: "Female", DeviceType: "Tablet", AdPosition: "Side", BrowsingHistory: "Education", TimeOfDay: "Afternoon", Click: feature.NoClick},
	}
}

func largerRecords() dataset.Dataset {
	genders := []string{"Male", "Female", "Non-Binary"}
	devices := []string{"Mobile", "Desktop", "Tablet"}
	positions := []string{"Top", "Side", "Bottom"}
	histories := []string{"News", "Shopping", "Education", "Entertainment", "Social Media"}
	times := []string{"Morning", "Afternoon", "Evening", "Night"}
	var ds dataset.Dataset
	for i := 0; i < 60; i++ {
		r := feature.Record{
			Age:             18 + i%40,
			Gender:          genders[i%len(genders)],
			DeviceType:      devices[(i/3)%len(devices)],
			AdPosition:      positions[(i/2)%len(positions)],
			BrowsingHistory: histories[i%len(histories)],
			TimeOfDay:       times[(i/5)%len(times)],
			Click:           feature.NoClick,
		}
		if r.AdPosition == "Top" || (r.DeviceType == "Mobile" && r.TimeOfDay == "Night") {
			r.Click = feature.Click
		}
		ds = append(ds, r)
	}
	return ds
}

func leafTree(t *testing.T, ns tree.NodeStore, l feature.Label) *tree.Tree {
	n := tree.NewLeaf(l)
	require.NoError(t, ns.Create(context.Background(), n))
	return tree.New(n.ID, ns)
}

func TestTrain_EndToEnd(t *testing.T) {
	ctx := context.Background()
	ds := trainingRecords()
	f, err := Train(ctx, ds, feature.Attributes(), 1, WithRand(&scriptedRand{values: []int{0, 1}}))
	require.NoError(t, err)
	defer f.Close(ctx)
	require.Equal(t, 1, f.Len())
	require.NotNil(t, f.Tree(0))

	for _, r := range ds {
		l, err := f.Predict(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, r.Click, l, "record %v", r)

		l, err = f.PredictWithTree(ctx, r, 0)
		require.NoError(t, err)
		assert.Equal(t, r.Click, l, "record %v", r)
	}
}

func TestTrain_ConfigurationErrors(t *testing.T) {
	ctx := context.Background()
	ds := trainingRecords()

	_, err := Train(ctx, ds, feature.Attributes(), 0)
	assert.ErrorIs(t, err, ErrInvalidTreeCount)

	_, err = Train(ctx, ds, []feature.Attribute{feature.Gender, feature.TimeOfDay}, 3)
	assert.ErrorIs(t, err, ErrNotEnoughAttributes)

	_, err = Train(ctx, ds, []feature.Attribute{feature.Gender, feature.TimeOfDay, feature.Gender}, 3)
	assert.ErrorIs(t, err, feature.ErrDuplicateAttribute)

	_, err = Train(ctx, ds, []feature.Attribute{feature.Gender, feature.TimeOfDay, feature.Attribute(42)}, 3)
	assert.ErrorIs(t, err, feature.ErrUnknownAttribute)
}

func TestTrain_UnlabelledRecords(t *testing.T) {
	ctx := context.Background()
	ds := trainingRecords()
	ds = append(ds, ds[1].With(feature.Gender, "Male"))
	ds[2].Click = feature.Unknown

	ns := tree.NewMemoryNodeStore()
	_, err := Train(ctx, ds, feature.Attributes(), 1, WithSeed(1), WithNodeStore(ns))
	assert.ErrorIs(t, err, ErrUnlabelledRecord)
	n, err := ns.Get(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, n, "no node is created for a rejected dataset")

	onlyUnknown := dataset.Dataset{{Age: 30, Gender: "Female", Click: feature.Unknown}}
	_, err = Train(ctx, onlyUnknown, feature.Attributes(), 3, WithSeed(1))
	assert.ErrorIs(t, err, ErrUnlabelledRecord)
}

func TestTrain_EmptyDatasetGivesAbsentTrees(t *testing.T) {
	ctx := context.Background()
	f, err := Train(ctx, dataset.Dataset{}, feature.Attributes(), 3, WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())
	for i := 0; i < f.Len(); i++ {
		assert.Nil(t, f.Tree(i))
	}
	l, err := f.Predict(ctx, trainingRecords()[0])
	require.NoError(t, err)
	assert.Equal(t, feature.NoClick, l)

	_, err = f.PredictWithTree(ctx, trainingRecords()[0], 1)
	assert.ErrorIs(t, err, ErrAbsentTree)
	assert.NoError(t, f.Close(ctx))
}

func TestTrain_SameResultForAnyWorkerCount(t *testing.T) {
	ctx := context.Background()
	ds := largerRecords()
	single, err := Train(ctx, ds, feature.Attributes(), 8, WithSeed(42))
	require.NoError(t, err)
	defer single.Close(ctx)
	parallel, err := Train(ctx, ds, feature.Attributes(), 8, WithSeed(42), WithWorkers(4))
	require.NoError(t, err)
	defer parallel.Close(ctx)

	require.Equal(t, single.Len(), parallel.Len())
	for i := 0; i < single.Len(); i++ {
		sd, err := single.Tree(i).Depth(ctx)
		require.NoError(t, err)
		pd, err := parallel.Tree(i).Depth(ctx)
		require.NoError(t, err)
		assert.Equal(t, sd, pd, "depth of tree %d", i)
		for _, r := range ds {
			sl, err := single.PredictWithTree(ctx, r, i)
			require.NoError(t, err)
			pl, err := parallel.PredictWithTree(ctx, r, i)
			require.NoError(t, err)
			assert.Equal(t, sl, pl, "tree %d on %v", i, r)
		}
	}
}

func TestTrain_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Train(ctx, largerRecords(), feature.Attributes(), 2, WithSeed(3))
	assert.Error(t, err)
}

func TestForest_Idempotent(t *testing.T) {
	ctx := context.Background()
	ds := largerRecords()
	f, err := Train(ctx, ds, feature.Attributes(), 5, WithSeed(7))
	require.NoError(t, err)
	defer f.Close(ctx)
	for _, r := range ds {
		first, err := f.Predict(ctx, r)
		require.NoError(t, err)
		second, err := f.Predict(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestForest_MajorityTie(t *testing.T) {
	ctx := context.Background()
	ns := tree.NewMemoryNodeStore()
	tests := []struct {
		name  string
		votes []feature.Label
		want  feature.Label
	}{
		{"tie", []feature.Label{feature.Click, feature.Click, feature.NoClick, feature.NoClick}, feature.NoClick},
		{"majority", []feature.Label{feature.Click, feature.Click, feature.Click, feature.NoClick}, feature.Click},
		{"minority", []feature.Label{feature.Click, feature.NoClick, feature.NoClick, feature.NoClick}, feature.NoClick},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Forest{nodeStore: ns}
			for _, v := range tt.votes {
				f.trees = append(f.trees, leafTree(t, ns, v))
			}
			l, err := f.Predict(ctx, feature.Record{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, l)
		})
	}
}

func TestForest_AbsentTreesAbstain(t *testing.T) {
	ctx := context.Background()
	ns := tree.NewMemoryNodeStore()
	f := &Forest{trees: []*tree.Tree{nil, leafTree(t, ns, feature.Click), nil}, nodeStore: ns}
	clicks, voters, err := f.Votes(ctx, feature.Record{})
	require.NoError(t, err)
	assert.Equal(t, 1, clicks)
	assert.Equal(t, 1, voters)
	l, err := f.Predict(ctx, feature.Record{})
	require.NoError(t, err)
	assert.Equal(t, feature.Click, l)
}

func TestForest_Test(t *testing.T) {
	ctx := context.Background()
	ns := tree.NewMemoryNodeStore()
	f := &Forest{trees: []*tree.Tree{leafTree(t, ns, feature.Click)}, nodeStore: ns}
	ds := dataset.Dataset{
		{Click: feature.Click},
		{Click: feature.Click},
		{Click: feature.Click},
		{Click: feature.NoClick},
	}
	rate, err := f.Test(ctx, ds)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, rate, 1e-9)

	rate, err = f.Test(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)
}

func TestForest_PredictWithTreeOutOfRange(t *testing.T) {
	ctx := context.Background()
	ns := tree.NewMemoryNodeStore()
	f := &Forest{trees: []*tree.Tree{leafTree(t, ns, feature.Click)}, nodeStore: ns}
	for _, i := range []int{-1, 1, 100} {
		_, err := f.PredictWithTree(ctx, feature.Record{}, i)
		assert.ErrorIs(t, err, ErrTreeIndexOutOfRange)
	}
	assert.Nil(t, f.Tree(5))
}

func TestForest_Close(t *testing.T) {
	ctx := context.Background()
	ns := tree.NewMemoryNodeStore()
	f, err := Train(ctx, trainingRecords(), feature.Attributes(), 2, WithSeed(5), WithNodeStore(ns))
	require.NoError(t, err)
	var ids []string
	for i := 0; i < f.Len(); i++ {
		if tr := f.Tree(i); tr != nil {
			ids = append(ids, tr.RootID)
		}
	}
	require.NotEmpty(t, ids)
	require.NoError(t, f.Close(ctx))
	for _, id := range ids {
		n, err := ns.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, n)
	}
}

func TestPlan(t *testing.T) {
	ds := trainingRecords()
	tasks := plan(ds, feature.Attributes(), 2, &scriptedRand{values: []int{0}})
	require.Len(t, tasks, 2)
	for i, task := range tasks {
		assert.Equal(t, i, task.Index)
		assert.Equal(t, dataset.Dataset{ds[0], ds[0]}, task.Sample)
		assert.Equal(t, []feature.Attribute{feature.DeviceType, feature.AdPosition, feature.BrowsingHistory}, task.Attributes)
	}
}
