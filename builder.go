package netedit

import "fmt"

// KindBuilder assembles a Kind with a fluent interface
type KindBuilder[E any] struct {
	kind    *Kind[E]
	current *Descriptor[E]
	errs    []error
}

// NewKind starts a descriptor table for tag
func NewKind[E any](tag Tag) *KindBuilder[E] {
	return &KindBuilder[E]{
		kind: &Kind[E]{
			tag:         tag,
			descriptors: make(map[Attr]*Descriptor[E]),
			requires:    make(map[Attr]requirement[E]),
		},
	}
}

// Attr adds key to the table and makes it the target of the following calls
func (b *KindBuilder[E]) Attr(key Attr, kind ValueKind) *KindBuilder[E] {
	if _, exists := b.kind.descriptors[key]; exists {
		b.errs = append(b.errs, fmt.Errorf("attribute '%s' declared twice", key))
	}
	d := &Descriptor[E]{Key: key, Kind: kind}
	b.kind.descriptors[key] = d
	b.kind.order = append(b.kind.order, key)
	b.current = d
	return b
}

// Default sets the value used when the element is constructed without one
func (b *KindBuilder[E]) Default(value string) *KindBuilder[E] {
	if d := b.target("Default"); d != nil {
		d.Default = value
	}
	return b
}

// Optional marks the current key as one that can be enabled and disabled
func (b *KindBuilder[E]) Optional() *KindBuilder[E] {
	if d := b.target("Optional"); d != nil {
		d.Optional = true
	}
	return b
}

// Enabled marks the current optional key as enabled on fresh elements
func (b *KindBuilder[E]) Enabled() *KindBuilder[E] {
	if d := b.target("Enabled"); d != nil {
		b.kind.defaultEnabled = b.kind.defaultEnabled.With(d.Key)
	}
	return b
}

// ReadOnly rejects every edit of the current key
func (b *KindBuilder[E]) ReadOnly() *KindBuilder[E] {
	if d := b.target("ReadOnly"); d != nil {
		d.ReadOnly = true
	}
	return b
}

// Check attaches a semantic rule to the current key
func (b *KindBuilder[E]) Check(check CheckFunc[E]) *KindBuilder[E] {
	if d := b.target("Check"); d != nil {
		d.check = check
	}
	return b
}

// Position gives the current key a positional interpretation
func (b *KindBuilder[E]) Position(position PositionFunc[E]) *KindBuilder[E] {
	if d := b.target("Position"); d != nil {
		d.position = position
	}
	return b
}

// OnApply attaches a hook run after the current key changed
func (b *KindBuilder[E]) OnApply(fn ApplyFunc[E]) *KindBuilder[E] {
	if d := b.target("OnApply"); d != nil {
		d.onApply = fn
	}
	return b
}

// Exclusive declares keys of which at most one may be enabled
func (b *KindBuilder[E]) Exclusive(keys ...Attr) *KindBuilder[E] {
	b.kind.exclusive = append(b.kind.exclusive, keys)
	return b
}

// RequireOneOf declares keys of which at least one must be enabled
func (b *KindBuilder[E]) RequireOneOf(keys ...Attr) *KindBuilder[E] {
	b.kind.requireOne = append(b.kind.requireOne, keys)
	return b
}

// Requires attaches a rule that must hold when key becomes enabled
func (b *KindBuilder[E]) Requires(key Attr, holds func(e E) bool, reason string) *KindBuilder[E] {
	b.kind.requires[key] = requirement[E]{holds: holds, reason: reason}
	return b
}

// OnChange attaches a hook run after any attribute or enabled set change
func (b *KindBuilder[E]) OnChange(fn func(e E)) *KindBuilder[E] {
	b.kind.onChange = fn
	return b
}

// Build validates and returns the table. It panics on a malformed table.
func (b *KindBuilder[E]) Build() *Kind[E] {
	if err := b.validate(); err != nil {
		panic(fmt.Sprintf("Failed to build kind %s: %v", b.kind.tag, err))
	}
	return b.kind
}

func (b *KindBuilder[E]) target(call string) *Descriptor[E] {
	if b.current == nil {
		b.errs = append(b.errs, fmt.Errorf("%s called before Attr", call))
	}
	return b.current
}

func (b *KindBuilder[E]) validate() error {
	if len(b.errs) > 0 {
		return b.errs[0]
	}
	if _, ok := b.kind.descriptors[AttrID]; !ok {
		return fmt.Errorf("kind has no '%s' attribute", AttrID)
	}
	for _, key := range b.kind.order {
		d := b.kind.descriptors[key]
		if d.Default == "" {
			continue
		}
		if _, err := canonical(d.Kind, d.Default); err != nil {
			return fmt.Errorf("default of '%s': %w", key, err)
		}
	}
	groups := append(append([][]Attr(nil), b.kind.exclusive...), b.kind.requireOne...)
	for _, group := range groups {
		if len(group) < 2 {
			return fmt.Errorf("conflict group %v needs at least two attributes", group)
		}
		for _, key := range group {
			if err := b.checkOptional(key); err != nil {
				return err
			}
		}
	}
	for key := range b.kind.requires {
		if err := b.checkOptional(key); err != nil {
			return err
		}
	}
	return nil
}

func (b *KindBuilder[E]) checkOptional(key Attr) error {
	d, ok := b.kind.descriptors[key]
	if !ok {
		return fmt.Errorf("conflict table references unknown attribute '%s'", key)
	}
	if !d.Optional {
		return fmt.Errorf("attribute '%s' in conflict table is not optional", key)
	}
	return nil
}
