package netedit

import (
	"fmt"
	"strings"
)

// CheckFunc is a semantic rule evaluated after the value kind accepted the text
type CheckFunc[E any] func(e E, value string) bool

// PositionFunc resolves a positional attribute into network coordinates
type PositionFunc[E any] func(e E) (Position, error)

// ApplyFunc runs after a value has been stored
type ApplyFunc[E any] func(e E, old, value string)

// Descriptor holds everything the store needs to handle one key
type Descriptor[E any] struct {
	Key      Attr
	Kind     ValueKind
	Default  string
	Optional bool
	ReadOnly bool

	check    CheckFunc[E]
	position PositionFunc[E]
	onApply  ApplyFunc[E]
}

// requirement must hold while its key is enabled
type requirement[E any] struct {
	holds  func(e E) bool
	reason string
}

// Kind is the descriptor table and conflict table of one element kind
type Kind[E any] struct {
	tag            Tag
	order          []Attr
	descriptors    map[Attr]*Descriptor[E]
	exclusive      [][]Attr
	requireOne     [][]Attr
	requires       map[Attr]requirement[E]
	defaultEnabled EnabledSet
	onChange       func(e E)
}

// Tag returns the element kind this table describes
func (k *Kind[E]) Tag() Tag {
	return k.tag
}

// Keys returns the applicable keys in table order
func (k *Kind[E]) Keys() []Attr {
	keys := make([]Attr, len(k.order))
	copy(keys, k.order)
	return keys
}

// Descriptor looks up the descriptor of key
func (k *Kind[E]) Descriptor(key Attr) (*Descriptor[E], bool) {
	d, ok := k.descriptors[key]
	return d, ok
}

// DefaultEnabled returns the optional keys enabled on a fresh element
func (k *Kind[E]) DefaultEnabled() EnabledSet {
	return k.defaultEnabled
}

// cascadeEnable returns current with key enabled and its exclusive partners disabled
func (k *Kind[E]) cascadeEnable(current EnabledSet, key Attr) EnabledSet {
	next := current.With(key)
	for _, group := range k.exclusive {
		if !containsAttr(group, key) {
			continue
		}
		for _, other := range group {
			if other != key {
				next = next.Without(other)
			}
		}
	}
	return next
}

// checkTransition verifies that moving from current to next keeps the enabled set consistent
func (k *Kind[E]) checkTransition(e E, current, next EnabledSet) (Attr, string, bool) {
	for _, group := range k.exclusive {
		var on []string
		for _, key := range group {
			if next.Has(key) {
				on = append(on, key.String())
			}
		}
		if len(on) > 1 {
			return group[0], fmt.Sprintf("attributes %s are mutually exclusive", strings.Join(on, ", ")), false
		}
	}
	for _, group := range k.requireOne {
		if anyEnabled(current, group) && !anyEnabled(next, group) {
			return group[0], fmt.Sprintf("at least one of %s must stay enabled", joinAttrs(group)), false
		}
	}
	for key, req := range k.requires {
		if next.Has(key) && !current.Has(key) && !req.holds(e) {
			return key, req.reason, false
		}
	}
	return AttrNone, "", true
}

// checkInitial verifies the enabled set an element is constructed with
func (k *Kind[E]) checkInitial(e E, enabled EnabledSet) (Attr, string, bool) {
	if key, reason, ok := k.checkTransition(e, 0, enabled); !ok {
		return key, reason, false
	}
	for _, group := range k.requireOne {
		if !anyEnabled(enabled, group) {
			return group[0], fmt.Sprintf("one of %s must be enabled", joinAttrs(group)), false
		}
	}
	return AttrNone, "", true
}

// Schema returns a non-generic description of the table
func (k *Kind[E]) Schema() Schema {
	s := Schema{Tag: k.tag}
	for _, key := range k.order {
		d := k.descriptors[key]
		s.Attributes = append(s.Attributes, AttributeInfo{
			Key:        key,
			Kind:       d.Kind,
			Default:    d.Default,
			Optional:   d.Optional,
			Enabled:    !d.Optional || k.defaultEnabled.Has(key),
			ReadOnly:   d.ReadOnly,
			Positional: d.position != nil,
		})
	}
	for _, g := range k.exclusive {
		s.Exclusive = append(s.Exclusive, append([]Attr(nil), g...))
	}
	for _, g := range k.requireOne {
		s.RequireOneOf = append(s.RequireOneOf, append([]Attr(nil), g...))
	}
	for _, key := range k.order {
		if req, ok := k.requires[key]; ok {
			s.Requires = append(s.Requires, Requirement{Key: key, Reason: req.reason})
		}
	}
	return s
}

// AttributeInfo describes one key of a Schema
type AttributeInfo struct {
	Key        Attr
	Kind       ValueKind
	Default    string
	Optional   bool
	Enabled    bool
	ReadOnly   bool
	Positional bool
}

// Requirement describes a consistency rule attached to an optional key
type Requirement struct {
	Key    Attr
	Reason string
}

// Schema is the type independent view of an element kind
type Schema struct {
	Tag          Tag
	Attributes   []AttributeInfo
	Exclusive    [][]Attr
	RequireOneOf [][]Attr
	Requires     []Requirement
}

// Attribute looks up the info of key
func (s Schema) Attribute(key Attr) (AttributeInfo, bool) {
	for _, a := range s.Attributes {
		if a.Key == key {
			return a, true
		}
	}
	return AttributeInfo{}, false
}

func containsAttr(list []Attr, key Attr) bool {
	for _, k := range list {
		if k == key {
			return true
		}
	}
	return false
}

func anyEnabled(set EnabledSet, group []Attr) bool {
	for _, key := range group {
		if set.Has(key) {
			return true
		}
	}
	return false
}

func joinAttrs(keys []Attr) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
