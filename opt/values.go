// SPDX-License-Identifier: MIT

package opt

import (
	"fmt"
	"strings"
)

// Values is an ordered tree of named entries addressed by dotted keys such
// as "odometry.pose". Insertion order is kept at every level.
type Values[T any] struct {
	keys     []string
	leaves   map[string]T
	children map[string]*Values[T]
}

// Item is one leaf of a Values tree with its full dotted key.
type Item[T any] struct {
	Key   string
	Value T
}

// NewValues returns an empty tree.
func NewValues[T any]() *Values[T] {
	return &Values[T]{
		leaves:   make(map[string]T),
		children: make(map[string]*Values[T]),
	}
}

func splitKey(key string) ([]string, error) {
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%q: %w", key, ErrBadKey)
		}
	}
	return parts, nil
}

// parent returns the tree holding the last segment of parts, creating
// intermediate levels when create is set.
func (v *Values[T]) parent(parts []string, create bool) (*Values[T], error) {
	cur := v
	for _, p := range parts[:len(parts)-1] {
		if _, leaf := cur.leaves[p]; leaf {
			return nil, ErrKeyConflict
		}
		child, ok := cur.children[p]
		if !ok {
			if !create {
				return nil, ErrKeyNotFound
			}
			child = NewValues[T]()
			cur.children[p] = child
			cur.keys = append(cur.keys, p)
		}
		cur = child
	}
	return cur, nil
}

// Set stores val under key, creating intermediate levels.
func (v *Values[T]) Set(key string, val T) error {
	parts, err := splitKey(key)
	if err != nil {
		return fmt.Errorf("Values.Set: %w", err)
	}
	p, err := v.parent(parts, true)
	if err != nil {
		return fmt.Errorf("Values.Set(%s): %w", key, err)
	}
	last := parts[len(parts)-1]
	if _, ok := p.children[last]; ok {
		return fmt.Errorf("Values.Set(%s): %w", key, ErrKeyConflict)
	}
	if _, ok := p.leaves[last]; !ok {
		p.keys = append(p.keys, last)
	}
	p.leaves[last] = val
	return nil
}

// SetValues stores sub as the subtree under key. The subtree is not copied.
func (v *Values[T]) SetValues(key string, sub *Values[T]) error {
	parts, err := splitKey(key)
	if err != nil {
		return fmt.Errorf("Values.SetValues: %w", err)
	}
	p, err := v.parent(parts, true)
	if err != nil {
		return fmt.Errorf("Values.SetValues(%s): %w", key, err)
	}
	last := parts[len(parts)-1]
	if _, ok := p.leaves[last]; ok {
		return fmt.Errorf("Values.SetValues(%s): %w", key, ErrKeyConflict)
	}
	if _, ok := p.children[last]; !ok {
		p.keys = append(p.keys, last)
	}
	p.children[last] = sub
	return nil
}

// Get returns the leaf under key.
func (v *Values[T]) Get(key string) (T, bool) {
	var zero T
	parts, err := splitKey(key)
	if err != nil {
		return zero, false
	}
	p, err := v.parent(parts, false)
	if err != nil {
		return zero, false
	}
	val, ok := p.leaves[parts[len(parts)-1]]
	return val, ok
}

// Sub returns the subtree under key.
func (v *Values[T]) Sub(key string) (*Values[T], bool) {
	parts, err := splitKey(key)
	if err != nil {
		return nil, false
	}
	p, err := v.parent(parts, false)
	if err != nil {
		return nil, false
	}
	sub, ok := p.children[parts[len(parts)-1]]
	return sub, ok
}

// Keys returns the top-level keys in insertion order.
func (v *Values[T]) Keys() []string { return append([]string(nil), v.keys...) }

// KeysRecursive returns the dotted keys of all leaves, depth first.
func (v *Values[T]) KeysRecursive() []string {
	items := v.ItemsRecursive()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key
	}
	return out
}

// ItemsRecursive returns all leaves with their dotted keys, depth first.
func (v *Values[T]) ItemsRecursive() []Item[T] {
	var out []Item[T]
	v.collect("", &out)
	return out
}

func (v *Values[T]) collect(prefix string, out *[]Item[T]) {
	for _, k := range v.keys {
		if val, ok := v.leaves[k]; ok {
			*out = append(*out, Item[T]{Key: prefix + k, Value: val})
			continue
		}
		v.children[k].collect(prefix+k+".", out)
	}
}

// Len returns the number of leaves in the tree.
func (v *Values[T]) Len() int {
	n := len(v.leaves)
	for _, c := range v.children {
		n += c.Len()
	}
	return n
}
