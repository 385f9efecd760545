package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/adstrat/feature"
)

/*
CriteriaEncodeDecoder is an interface for objects
that allow encoding criteria into slices of
bytes and decoding them back to criteria.
*/
type CriteriaEncodeDecoder interface {

	//Encode receives a feature.Criterion
	//and returns a slice of bytes with the criterion
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(feature.Criterion) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a feature.Criterion decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (feature.Criterion, error)
}

type jsonCriteriaEncodeDecoder struct{}

type jsonCriterion struct {
	Attribute string `json:"a"`
	Value     string `json:"v"`
}

// NewCriteriaEncodeDecoder returns a CriteriaEncodeDecoder
// that marshals and unmarshals criteria into/from slices of
// bytes as JSON.
// Specifically, criteria are encoded as a JSON object
// with an "a" property set to the name of the attribute
// of the criterion and a "v" property with the value the
// attribute is constrained to.
func NewCriteriaEncodeDecoder() CriteriaEncodeDecoder {
	return jsonCriteriaEncodeDecoder{}
}

func (jsonCriteriaEncodeDecoder) Encode(c feature.Criterion) ([]byte, error) {
	if !c.Attribute.Valid() {
		return nil, fmt.Errorf("encoding criterion: invalid attribute %v", c.Attribute)
	}
	return json.Marshal(&jsonCriterion{
		Attribute: c.Attribute.Name(),
		Value:     c.Value,
	})
}

func (jsonCriteriaEncodeDecoder) Decode(data []byte) (feature.Criterion, error) {
	jc := &jsonCriterion{}
	err := json.Unmarshal(data, jc)
	if err != nil {
		return feature.Criterion{}, err
	}
	a, err := feature.ParseAttribute(jc.Attribute)
	if err != nil {
		return feature.Criterion{}, fmt.Errorf("decoding criterion: %w", err)
	}
	return feature.NewCriterion(a, jc.Value), nil
}
