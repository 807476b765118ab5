package netedit

import (
	"fmt"
	"time"
)

// Change is a reversible step recorded in an UndoList
type Change interface {
	Redo()
	Undo()
	Description() string
}

// AttributeChange replaces the value of one attribute. It is immutable once created.
type AttributeChange struct {
	target    changeTarget
	key       Attr
	old       string
	new       string
	timestamp time.Time
}

func newAttributeChange(target changeTarget, key Attr, old, value string) *AttributeChange {
	return &AttributeChange{
		target:    target,
		key:       key,
		old:       old,
		new:       value,
		timestamp: time.Now(),
	}
}

// Key returns the changed attribute
func (c *AttributeChange) Key() Attr {
	return c.key
}

// Old returns the value before the change
func (c *AttributeChange) Old() string {
	return c.old
}

// New returns the value after the change
func (c *AttributeChange) New() string {
	return c.new
}

// Timestamp returns when the change was created
func (c *AttributeChange) Timestamp() time.Time {
	return c.timestamp
}

// Redo applies the new value
func (c *AttributeChange) Redo() {
	c.target.applyAttribute(c.key, c.new)
}

// Undo restores the old value
func (c *AttributeChange) Undo() {
	c.target.applyAttribute(c.key, c.old)
}

// Description names the change for undo menus
func (c *AttributeChange) Description() string {
	return fmt.Sprintf("change %s '%s' %s: '%s' -> '%s'", c.target.Tag(), c.target.ID(), c.key, c.old, c.new)
}

// EnableChange replaces the enabled set of an element, cascade included
type EnableChange struct {
	target    changeTarget
	old       EnabledSet
	new       EnabledSet
	timestamp time.Time
}

func newEnableChange(target changeTarget, old, next EnabledSet) *EnableChange {
	return &EnableChange{
		target:    target,
		old:       old,
		new:       next,
		timestamp: time.Now(),
	}
}

// Old returns the enabled set before the change
func (c *EnableChange) Old() EnabledSet {
	return c.old
}

// New returns the enabled set after the change
func (c *EnableChange) New() EnabledSet {
	return c.new
}

// Timestamp returns when the change was created
func (c *EnableChange) Timestamp() time.Time {
	return c.timestamp
}

// Redo applies the new enabled set
func (c *EnableChange) Redo() {
	c.target.applyEnabled(c.new)
}

// Undo restores the old enabled set
func (c *EnableChange) Undo() {
	c.target.applyEnabled(c.old)
}

// Description names the change for undo menus
func (c *EnableChange) Description() string {
	return fmt.Sprintf("toggle %s '%s' attributes: enabled %s, disabled %s",
		c.target.Tag(), c.target.ID(), joinAttrs((c.new &^ c.old).Keys()), joinAttrs((c.old &^ c.new).Keys()))
}
