package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wireDocument mirrors the JSON shape from spec §6. Node content is decoded
// lazily (RawMessage) since its shape depends on the sibling "type" field.
type wireDocument struct {
	ID    string               `json:"id"`
	Name  string               `json:"name"`
	Nodes map[string]wireNode  `json:"nodes"`
	Edges []wireEdge           `json:"edges"`
}

type wireNode struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

type wireEdge struct {
	ID           string `json:"id"`
	SourceID     string `json:"sourceId"`
	TargetID     string `json:"targetId"`
	SourceHandle string `json:"sourceHandle"`
}

type wireExpressionContent struct {
	// Expressions is decoded manually to preserve declared order; see
	// decodeOrderedPairs. encoding/json's map[string]string would randomize
	// assignment order, and spec §4.E requires later expressions to observe
	// earlier ones.
	Expressions json.RawMessage `json:"expressions"`
}

type wireInputColumn struct {
	ID    string `json:"id"`
	Field string `json:"field"`
}

type wireOutputColumn struct {
	ID    string `json:"id"`
	Field string `json:"field"`
}

type wireDecisionTableContent struct {
	HitPolicy string              `json:"hitPolicy"`
	Inputs    []wireInputColumn   `json:"inputs"`
	Outputs   []wireOutputColumn  `json:"outputs"`
	Rules     []map[string]string `json:"rules"`
}

type wireStatement struct {
	ID        string `json:"id"`
	Condition string `json:"condition"`
	IsDefault bool   `json:"isDefault"`
}

type wireSwitchContent struct {
	HitPolicy  string          `json:"hitPolicy"`
	Statements []wireStatement `json:"statements"`
}

// orderedPair is one (key, value) entry from a JSON object, in the order it
// appeared on the wire.
type orderedPair struct {
	Key   string
	Value string
}

// decodeOrderedPairs walks a JSON object's token stream to recover key
// order, the same technique internal/value/json.go uses for Value decoding.
func decodeOrderedPairs(data json.RawMessage) ([]orderedPair, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var pairs []orderedPair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string object key, got %v", keyTok)
		}
		var val string
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("decoding value for key %q: %w", key, err)
		}
		pairs = append(pairs, orderedPair{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return pairs, nil
}
