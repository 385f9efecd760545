package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/adstrat/feature"
	featurejson "github.com/pbanos/adstrat/feature/json"
	"github.com/pbanos/adstrat/tree"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding nodes into slices of
bytes and decoding them back to nodes.
*/
type NodeEncodeDecoder interface {

	//Encode receives a *tree.Node
	//and returns a slice of bytes with the node
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Node) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Node decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Node, error)
}

type nodeEncodeDecoder struct {
	featurejson.CriteriaEncodeDecoder
}

type node struct {
	ID         string           `json:"id"`
	ParentID   string           `json:"pId,omitempty"`
	Criterion  *json.RawMessage `json:"c,omitempty"`
	MatchID    string           `json:"m,omitempty"`
	MismatchID string           `json:"mm,omitempty"`
	Prediction *feature.Label   `json:"pred,omitempty"`
}

/*
NewNodeEncodeDecoder returns a NodeEncodeDecoder that uses the
given CriteriaEncodeDecoder to encode/decode nodes' criteria.
Nodes are encoded as JSON objects with the following properties:
  * "id": the ID of the node
  * "pId": the ID of the parent node, if any
  * "c": the criterion of an internal node
  * "m" and "mm": the IDs of the match and mismatch children of an
  internal node
  * "pred": the prediction of a leaf node
*/
func NewNodeEncodeDecoder(ced featurejson.CriteriaEncodeDecoder) NodeEncodeDecoder {
	return &nodeEncodeDecoder{ced}
}

func (ned *nodeEncodeDecoder) Encode(n *tree.Node) ([]byte, error) {
	jn := &node{
		ID:         n.ID,
		ParentID:   n.ParentID,
		MatchID:    n.MatchID,
		MismatchID: n.MismatchID,
	}
	if n.Criterion != nil {
		c, err := ned.CriteriaEncodeDecoder.Encode(*n.Criterion)
		if err != nil {
			return nil, fmt.Errorf("encoding node %v: %v", n.ID, err)
		}
		rc := json.RawMessage(c)
		jn.Criterion = &rc
	}
	if n.Prediction.Valid() {
		p := n.Prediction
		jn.Prediction = &p
	}
	return json.Marshal(jn)
}

func (ned *nodeEncodeDecoder) Decode(data []byte) (*tree.Node, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	n := &tree.Node{
		ID:         jn.ID,
		ParentID:   jn.ParentID,
		MatchID:    jn.MatchID,
		MismatchID: jn.MismatchID,
		Prediction: feature.Unknown,
	}
	if jn.Criterion != nil {
		c, err := ned.CriteriaEncodeDecoder.Decode(*jn.Criterion)
		if err != nil {
			return nil, fmt.Errorf("unmarshalling node %v: %v", n.ID, err)
		}
		n.Criterion = &c
	}
	if jn.Prediction != nil {
		if !jn.Prediction.Valid() {
			return nil, fmt.Errorf("unmarshalling node %v: invalid prediction %v", n.ID, *jn.Prediction)
		}
		n.Prediction = *jn.Prediction
	}
	return n, nil
}
