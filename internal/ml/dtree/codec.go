package dtree

import (
	"encoding/json"
	"errors"
	"fmt"
)

const modelSchemaV1 = "quarry.model.dtree.v1"

// Marshal serializes a fitted tree with stable field names so the model
// artifact can be read back by the serving side.
func Marshal(t *Tree) ([]byte, error) {
	if t == nil || t.Root == nil {
		return nil, errors.New("tree is not fitted")
	}
	payload := modelPayload{
		Schema:   modelSchemaV1,
		Features: t.Features,
		Classes:  t.Classes,
		Root:     nodePayloadFromDomain(t.Root),
	}
	return json.Marshal(payload)
}

func Unmarshal(raw []byte) (*Tree, error) {
	var payload modelPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if payload.Schema != modelSchemaV1 {
		return nil, fmt.Errorf("unsupported model schema %q", payload.Schema)
	}
	if payload.Root == nil {
		return nil, errors.New("model has no root node")
	}
	return &Tree{
		Features: payload.Features,
		Classes:  payload.Classes,
		Root:     nodeFromPayload(payload.Root),
	}, nil
}

type modelPayload struct {
	Schema   string       `json:"schema"`
	Features int          `json:"features"`
	Classes  []string     `json:"classes"`
	Root     *nodePayload `json:"root"`
}

type nodePayload struct {
	Leaf      bool         `json:"leaf,omitempty"`
	Class     string       `json:"class,omitempty"`
	Samples   int          `json:"samples"`
	Feature   int          `json:"feature,omitempty"`
	Threshold float64      `json:"threshold,omitempty"`
	Left      *nodePayload `json:"left,omitempty"`
	Right     *nodePayload `json:"right,omitempty"`
}

func nodePayloadFromDomain(n *Node) *nodePayload {
	if n == nil {
		return nil
	}
	return &nodePayload{
		Leaf:      n.Leaf,
		Class:     n.Class,
		Samples:   n.Samples,
		Feature:   n.Feature,
		Threshold: n.Threshold,
		Left:      nodePayloadFromDomain(n.Left),
		Right:     nodePayloadFromDomain(n.Right),
	}
}

func nodeFromPayload(p *nodePayload) *Node {
	if p == nil {
		return nil
	}
	return &Node{
		Leaf:      p.Leaf,
		Class:     p.Class,
		Samples:   p.Samples,
		Feature:   p.Feature,
		Threshold: p.Threshold,
		Left:      nodeFromPayload(p.Left),
		Right:     nodeFromPayload(p.Right),
	}
}
