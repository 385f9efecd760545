package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/adstrat/feature"
	featurejson "github.com/pbanos/adstrat/feature/json"
	"github.com/pbanos/adstrat/tree"
)

func TestNodeEncodeDecoder(t *testing.T) {
	ned := NewNodeEncodeDecoder(featurejson.NewCriteriaEncodeDecoder())
	c := feature.NewCriterion(feature.BrowsingHistory, "Social Media")
	nodes := []*tree.Node{
		{ID: "1", Criterion: &c, MatchID: "2", MismatchID: "3", Prediction: feature.Unknown},
		{ID: "2", ParentID: "1", Prediction: feature.NoClick},
		{ID: "3", ParentID: "1", Prediction: feature.Click},
	}
	for _, n := range nodes {
		data, err := ned.Encode(n)
		require.NoError(t, err)
		decoded, err := ned.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, n, decoded)
	}
}

func TestNodeEncodeDecoder_Format(t *testing.T) {
	ned := NewNodeEncodeDecoder(featurejson.NewCriteriaEncodeDecoder())
	data, err := ned.Encode(&tree.Node{ID: "7", ParentID: "3", Prediction: feature.NoClick})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"7","pId":"3","pred":0}`, string(data))
}

func TestNodeEncodeDecoder_DecodeErrors(t *testing.T) {
	ned := NewNodeEncodeDecoder(featurejson.NewCriteriaEncodeDecoder())
	_, err := ned.Decode([]byte(`{"id":"1","c":{"a":"colour","v":"red"},"m":"2","mm":"3"}`))
	assert.ErrorIs(t, err, feature.ErrUnknownAttribute)

	_, err = ned.Decode([]byte(`{"id":"1","pred":5}`))
	assert.Error(t, err)

	_, err = ned.Decode([]byte(`not json`))
	assert.Error(t, err)
}
