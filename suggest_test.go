package adstrat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/adstrat/feature"
)

type predictorFunc func(feature.Record) (feature.Label, error)

func (pf predictorFunc) Predict(_ context.Context, r feature.Record) (feature.Label, error) {
	return pf(r)
}

var placements = []string{"Top", "Side", "Bottom"}

func TestSuggest_FirstMatch(t *testing.T) {
	var seen []string
	p := predictorFunc(func(r feature.Record) (feature.Label, error) {
		seen = append(seen, r.AdPosition)
		if r.AdPosition == "Bottom" {
			return feature.Click, nil
		}
		return feature.NoClick, nil
	})
	r := feature.Record{Gender: "Male", AdPosition: "Top"}
	placement, ok, err := Suggest(context.Background(), r, placements, p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bottom", placement)
	assert.Equal(t, []string{"Side", "Bottom"}, seen)
	assert.Equal(t, "Top", r.AdPosition)
}

func TestSuggest_StopsAtFirstClick(t *testing.T) {
	p := predictorFunc(func(r feature.Record) (feature.Label, error) {
		return feature.Click, nil
	})
	placement, ok, err := Suggest(context.Background(), feature.Record{AdPosition: "Side"}, placements, p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Top", placement)
}

func TestSuggest_None(t *testing.T) {
	p := predictorFunc(func(r feature.Record) (feature.Label, error) {
		if r.AdPosition == "Top" {
			return feature.Click, nil
		}
		return feature.NoClick, nil
	})
	placement, ok, err := Suggest(context.Background(), feature.Record{AdPosition: "Top"}, placements, p)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, placement)
}

func TestSuggest_PredictorError(t *testing.T) {
	boom := errors.New("boom")
	p := predictorFunc(func(feature.Record) (feature.Label, error) {
		return feature.Unknown, boom
	})
	_, ok, err := Suggest(context.Background(), feature.Record{AdPosition: "Top"}, placements, p)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}

func TestSuggest_WithForest(t *testing.T) {
	ctx := context.Background()
	ds := trainingRecords()
	f, err := Train(ctx, ds, feature.Attributes(), 1, WithRand(&scriptedRand{values: []int{0, 1}}))
	require.NoError(t, err)
	defer f.Close(ctx)
	// The tree splits on "adPosition is Bottom", so only Bottom gets a click.
	placement, ok, err := Suggest(ctx, ds[1], placements, f)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bottom", placement)

	placement, ok, err = Suggest(ctx, ds[0], placements, f)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, placement)
}
