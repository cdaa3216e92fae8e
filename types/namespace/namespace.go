// Package namespace implements the nested result tree produced by a parse.
// A Namespace maps unqualified keys to values or to child namespaces;
// dotted paths such as "db.pool.size" address leaves through the chain of
// children, which Resolve creates on demand.
package namespace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/napalu/nestopt/errs"
	"github.com/napalu/nestopt/types/orderedmap"
)

// Separator splits a destination into path segments
const Separator = "."

// Namespace is one node of the result tree. Keys keep insertion order.
type Namespace struct {
	attrs *orderedmap.OrderedMap[string, any]
}

// New returns an empty Namespace
func New() *Namespace {
	return &Namespace{attrs: orderedmap.NewOrderedMap[string, any]()}
}

// FromMap builds a Namespace from m; nested maps become child namespaces.
// Map keys are visited in sorted order since Go maps carry none.
func FromMap(m map[string]any) *Namespace {
	ns := New()
	ns.Merge(m)
	return ns
}

// Get returns the value stored directly under key
func (n *Namespace) Get(key string) (any, bool) {
	return n.attrs.Get(key)
}

// Set stores v directly under key
func (n *Namespace) Set(key string, v any) {
	n.attrs.Set(key, v)
}

// Has reports whether key is stored directly on n
func (n *Namespace) Has(key string) bool {
	return n.attrs.Has(key)
}

// Delete removes key from n
func (n *Namespace) Delete(key string) {
	n.attrs.Delete(key)
}

// Keys returns the keys of n in insertion order
func (n *Namespace) Keys() []string {
	return n.attrs.Keys()
}

// Len returns the number of keys of n
func (n *Namespace) Len() int {
	return n.attrs.Count()
}

// Resolve walks dest through every segment but the last and returns the
// deepest container along with the final segment. Missing intermediate
// nodes are created; an intermediate holding nil is replaced by a node.
// An intermediate holding any other non-namespace value is reported as
// errs.ErrDestinationConflict and nothing is modified.
func (n *Namespace) Resolve(dest string) (*Namespace, string, error) {
	if !strings.Contains(dest, Separator) {
		return n, dest, nil
	}

	parts := strings.Split(dest, Separator)
	// check the whole chain before creating anything
	cur := n
	for i, part := range parts[:len(parts)-1] {
		v, ok := cur.attrs.Get(part)
		if !ok || v == nil {
			break
		}
		child, isNs := v.(*Namespace)
		if !isNs {
			return nil, "", errs.ErrDestinationConflict.WithArgs(strings.Join(parts[:i+1], Separator), dest)
		}
		cur = child
	}

	cur = n
	for _, part := range parts[:len(parts)-1] {
		v, _ := cur.attrs.Get(part)
		child, isNs := v.(*Namespace)
		if !isNs {
			child = New()
			cur.attrs.Set(part, child)
		}
		cur = child
	}

	return cur, parts[len(parts)-1], nil
}

// Lookup returns the value at dest without creating any node
func (n *Namespace) Lookup(dest string) (any, bool) {
	cur := n
	parts := strings.Split(dest, Separator)
	for _, part := range parts[:len(parts)-1] {
		v, ok := cur.attrs.Get(part)
		if !ok {
			return nil, false
		}
		child, isNs := v.(*Namespace)
		if !isNs {
			return nil, false
		}
		cur = child
	}
	return cur.attrs.Get(parts[len(parts)-1])
}

// HasPath reports whether a value is stored at dest
func (n *Namespace) HasPath(dest string) bool {
	_, ok := n.Lookup(dest)
	return ok
}

// SetPath stores v at dest, creating intermediate nodes as needed
func (n *Namespace) SetPath(dest string, v any) error {
	node, key, err := n.Resolve(dest)
	if err != nil {
		return err
	}
	node.Set(key, v)
	return nil
}

// Merge copies m into n. Nested maps are merged into existing child
// namespaces, or into new ones; every other value overwrites.
func (n *Namespace) Merge(m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := m[k].(type) {
		case map[string]any:
			child, ok := n.childOrNil(k)
			if !ok {
				child = New()
				n.Set(k, child)
			}
			child.Merge(v)
		case *Namespace:
			child, ok := n.childOrNil(k)
			if !ok {
				n.Set(k, v)
				continue
			}
			child.Merge(v.ToMap())
		default:
			n.Set(k, v)
		}
	}
}

func (n *Namespace) childOrNil(key string) (*Namespace, bool) {
	v, _ := n.attrs.Get(key)
	child, ok := v.(*Namespace)
	return child, ok
}

// ToMap converts n recursively to plain maps
func (n *Namespace) ToMap() map[string]any {
	m := make(map[string]any, n.Len())
	for it := n.attrs.Front(); it != nil; it = it.Next() {
		if child, ok := it.Value.(*Namespace); ok {
			m[*it.Key] = child.ToMap()
			continue
		}
		m[*it.Key] = it.Value
	}
	return m
}

// MarshalJSON encodes n as an object in insertion order
func (n *Namespace) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for it := n.attrs.Front(); it != nil; it = it.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(*it.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(it.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", *it.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String renders n as Namespace(key=value, ...) with strings quoted
func (n *Namespace) String() string {
	var sb strings.Builder
	sb.WriteString("Namespace(")
	first := true
	for it := n.attrs.Front(); it != nil; it = it.Next() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(*it.Key)
		sb.WriteByte('=')
		sb.WriteString(repr(it.Value))
	}
	sb.WriteByte(')')
	return sb.String()
}

func repr(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case string:
		return "'" + strings.ReplaceAll(t, "'", `\'`) + "'"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case *Namespace:
		return t.String()
	case []any:
		items := make([]string, len(t))
		for i, item := range t {
			items[i] = repr(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return fmt.Sprint(t)
	}
}
