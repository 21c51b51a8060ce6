package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/iancoleman/strcase"
)

// Codec encodes request bodies and decodes response bodies. Go field names
// travel as snake_case on the wire ("ShortenedURL" <-> "shortened_url");
// wire types therefore carry no json tags.
type Codec struct{}

// Marshal encodes v as JSON with every object key converted to snake_case.
// Object keys come out sorted, so equal values produce identical bytes.
func (Codec) Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	tree, err := decodeTree(raw)
	if err != nil {
		return nil, err
	}
	return json.Marshal(renameKeys(tree, strcase.ToSnake))
}

// Unmarshal decodes snake_case JSON into v. Keys are converted to
// lowerCamelCase first and then matched case-insensitively against the
// exported field names of v.
func (Codec) Unmarshal(data []byte, v any) error {
	tree, err := decodeTree(data)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(renameKeys(tree, strcase.ToLowerCamel))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func decodeTree(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level JSON value")
	}
	return tree, nil
}

func renameKeys(node any, rename func(string) string) any {
	switch n := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, v := range n {
			out[rename(k)] = renameKeys(v, rename)
		}
		return out
	case []any:
		for i, v := range n {
			n[i] = renameKeys(v, rename)
		}
		return n
	default:
		return node
	}
}
