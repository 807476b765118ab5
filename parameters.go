package netedit

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
)

// Parameters is a user defined key/value map kept in key order
type Parameters struct {
	m *treemap.Map
}

// NewParameters creates a parameter map from a plain map
func NewParameters(values map[string]string) *Parameters {
	p := &Parameters{m: treemap.NewWithStringComparator()}
	for k, v := range values {
		p.m.Put(k, v)
	}
	return p
}

// ParseParameters parses the "key=value|key=value" form
func ParseParameters(s string) (*Parameters, error) {
	p := NewParameters(nil)
	if strings.TrimSpace(s) == "" {
		return p, nil
	}
	for _, pair := range strings.Split(s, "|") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q has no value", pair)
		}
		if !IsValidID(key) {
			return nil, fmt.Errorf("invalid parameter key %q", key)
		}
		if !IsValidAttributeText(value) {
			return nil, fmt.Errorf("invalid parameter value %q", value)
		}
		p.m.Put(key, value)
	}
	return p, nil
}

// Get returns the value stored for key
func (p *Parameters) Get(key string) (string, bool) {
	v, ok := p.m.Get(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Len returns the number of parameters
func (p *Parameters) Len() int {
	return p.m.Size()
}

// Map returns a copy of the parameters
func (p *Parameters) Map() map[string]string {
	result := make(map[string]string, p.m.Size())
	it := p.m.Iterator()
	for it.Next() {
		result[it.Key().(string)] = it.Value().(string)
	}
	return result
}

// String renders the parameters sorted by key
func (p *Parameters) String() string {
	var b strings.Builder
	it := p.m.Iterator()
	for it.Next() {
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(it.Key().(string))
		b.WriteByte('=')
		b.WriteString(it.Value().(string))
	}
	return b.String()
}
