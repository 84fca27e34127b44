package document

import (
	"fmt"
	"strconv"
)

// Kind identifies the shape of a node in a parsed document tree.
type Kind int

const (
	// Invalid is the kind of the zero node returned for missing paths.
	Invalid Kind = iota
	Mapping
	Sequence
	Scalar
)

// Node is a format-independent view over a decoded YAML or JSON document.
// Mappings remember the order keys appeared in the source, which is what
// lets callers walk paths in document order instead of map-iteration order.
//
// Navigation is total: looking up a missing key or an out-of-range index
// returns the shared zero node, so callers can chain lookups without
// nil checks.
type Node struct {
	kind   Kind
	keys   []string
	fields map[string]*Node
	items  []*Node
	value  interface{}
}

// zero is returned for every failed lookup.
var zero = &Node{}

// NewMapping creates an empty mapping node.
func NewMapping() *Node {
	return &Node{
		kind:   Mapping,
		fields: make(map[string]*Node),
	}
}

// NewSequence creates an empty sequence node.
func NewSequence() *Node {
	return &Node{kind: Sequence}
}

// NewScalar creates a scalar node holding v.
func NewScalar(v interface{}) *Node {
	return &Node{kind: Scalar, value: v}
}

// Kind returns the node's kind. The zero node reports Invalid.
func (n *Node) Kind() Kind {
	if n == nil {
		return Invalid
	}
	return n.kind
}

// IsZero reports whether the node represents a missing value.
func (n *Node) IsZero() bool {
	return n == nil || n.kind == Invalid
}

// Set adds or replaces a key in a mapping node. Re-setting an existing key
// keeps its original position in the key order.
func (n *Node) Set(key string, child *Node) {
	if n.kind != Mapping {
		return
	}
	if _, exists := n.fields[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = child
}

// Append adds an item to a sequence node.
func (n *Node) Append(child *Node) {
	if n.kind != Sequence {
		return
	}
	n.items = append(n.items, child)
}

// Get returns the child at the given key path, or the zero node if any
// segment is missing or the node is not a mapping.
func (n *Node) Get(keys ...string) *Node {
	cur := n
	for _, key := range keys {
		if cur == nil || cur.kind != Mapping {
			return zero
		}
		child, ok := cur.fields[key]
		if !ok {
			return zero
		}
		cur = child
	}
	if cur == nil {
		return zero
	}
	return cur
}

// Has reports whether a mapping node contains the key.
func (n *Node) Has(key string) bool {
	if n == nil || n.kind != Mapping {
		return false
	}
	_, ok := n.fields[key]
	return ok
}

// Keys returns mapping keys in document order. Nil for non-mappings.
func (n *Node) Keys() []string {
	if n == nil || n.kind != Mapping {
		return nil
	}
	keys := make([]string, len(n.keys))
	copy(keys, n.keys)
	return keys
}

// Index returns the i-th item of a sequence, or the zero node.
func (n *Node) Index(i int) *Node {
	if n == nil || n.kind != Sequence || i < 0 || i >= len(n.items) {
		return zero
	}
	return n.items[i]
}

// Len returns the number of items in a sequence or keys in a mapping.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.kind {
	case Sequence:
		return len(n.items)
	case Mapping:
		return len(n.keys)
	default:
		return 0
	}
}

// Items returns the items of a sequence node. Nil for non-sequences.
func (n *Node) Items() []*Node {
	if n == nil || n.kind != Sequence {
		return nil
	}
	items := make([]*Node, len(n.items))
	copy(items, n.items)
	return items
}

// Str returns the node's value as a string. Non-string scalars are
// formatted; mappings, sequences and missing nodes return "".
func (n *Node) Str() string {
	if n == nil || n.kind != Scalar || n.value == nil {
		return ""
	}
	switch v := n.value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Bool returns the node's value as a bool, or false.
func (n *Node) Bool() bool {
	if n == nil || n.kind != Scalar {
		return false
	}
	b, _ := n.value.(bool)
	return b
}

// Value returns the underlying scalar value, or nil.
func (n *Node) Value() interface{} {
	if n == nil || n.kind != Scalar {
		return nil
	}
	return n.value
}

// StringSlice converts a sequence of scalars to a string slice.
func (n *Node) StringSlice() []string {
	if n == nil || n.kind != Sequence {
		return nil
	}
	out := make([]string, 0, len(n.items))
	for _, item := range n.items {
		out = append(out, item.Str())
	}
	return out
}

// Interface converts the subtree to plain Go values: map[string]interface{}
// for mappings (key order is lost), []interface{} for sequences, and the
// raw value for scalars. Used when handing data to JSON encoders.
func (n *Node) Interface() interface{} {
	if n == nil {
		return nil
	}
	switch n.kind {
	case Mapping:
		out := make(map[string]interface{}, len(n.keys))
		for _, key := range n.keys {
			out[key] = n.fields[key].Interface()
		}
		return out
	case Sequence:
		out := make([]interface{}, 0, len(n.items))
		for _, item := range n.items {
			out = append(out, item.Interface())
		}
		return out
	case Scalar:
		return n.value
	default:
		return nil
	}
}
