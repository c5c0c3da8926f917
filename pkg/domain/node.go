package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ChildrenKey is the JSON key under which a node's descendants are serialized.
// Level specs may not use it as a field name.
const ChildrenKey = "children"

// Fields is the insertion-ordered attribute map of a node.
// The zero value is not usable; use NewFields.
type Fields struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewFields creates an empty attribute map.
func NewFields() *Fields {
	return &Fields{m: orderedmap.New[string, any]()}
}

// Set stores value under key. Re-setting an existing key keeps its position.
func (f *Fields) Set(key string, value any) {
	f.m.Set(key, value)
}

// Get returns the value stored under key.
func (f *Fields) Get(key string) (any, bool) {
	return f.m.Get(key)
}

// Has reports whether key is present.
func (f *Fields) Has(key string) bool {
	_, ok := f.m.Get(key)
	return ok
}

// Delete removes key; it is a no-op for absent keys.
func (f *Fields) Delete(key string) {
	f.m.Delete(key)
}

// Len returns the number of attributes.
func (f *Fields) Len() int {
	return f.m.Len()
}

// Keys returns the attribute names in insertion order.
func (f *Fields) Keys() []string {
	keys := make([]string, 0, f.m.Len())
	for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Range calls fn for each attribute in insertion order until fn returns false.
func (f *Fields) Range(fn func(key string, value any) bool) {
	for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Map returns an unordered copy of the attributes.
func (f *Fields) Map() map[string]any {
	out := make(map[string]any, f.m.Len())
	f.Range(func(k string, v any) bool {
		out[k] = v
		return true
	})
	return out
}

// MarshalJSON encodes the attributes as a JSON object, preserving order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	return f.m.MarshalJSON()
}

// Node is one generated tree node.
type Node struct {
	// ID is the creation ordinal of the node within its build (1-based, pre-order).
	// It is not part of the serialized form.
	ID int

	// Level is the zero-based depth the node was generated at.
	Level int

	Fields   *Fields
	Children []*Node
}

// MarshalJSON encodes the node as its attributes followed by a "children" member
// when the node has descendants.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	var err error
	if n.Fields != nil {
		n.Fields.Range(func(key string, value any) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			err = writeMember(&buf, key, value)
			return err == nil
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal node %d: %w", n.ID, err)
	}

	if len(n.Children) > 0 {
		if !first {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, ChildrenKey, n.Children); err != nil {
			return nil, fmt.Errorf("failed to marshal children of node %d: %w", n.ID, err)
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("key %q: %w", key, err)
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}
