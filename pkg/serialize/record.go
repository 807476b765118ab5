// Package serialize writes the elements of a net to YAML or msgpack and
// reads them back through the validating constructors.
package serialize

import (
	"strings"

	"github.com/anggasct/netedit"
)

// Sections in the order they are written. Persons come first so stops can refer to them.
const (
	SectionPersons = "persons"
)

// ElementSections lists the element tags a document may contain
var ElementSections = []netedit.Tag{
	netedit.TagE1Instant,
	netedit.TagPersonStopEdge,
	netedit.TagPersonStopBusStop,
}

// Field is one written attribute
type Field struct {
	Key   netedit.Attr
	Kind  netedit.ValueKind
	Value string
}

// Record is the serializable view of one element: its enabled attributes in table order
type Record struct {
	Tag        netedit.Tag
	Fields     []Field
	Parameters map[string]string
}

// RecordOf collects the attributes of c that are written to files.
// Disabled, empty and editor-only attributes are left out.
func RecordOf(c netedit.AttributeCarrier) Record {
	r := Record{Tag: c.Tag()}
	schema := c.Schema()
	for _, info := range schema.Attributes {
		if info.Key == netedit.AttrSelected || !c.IsAttributeEnabled(info.Key) {
			continue
		}
		if info.Kind == netedit.KindParameters {
			if params := c.Parameters(); len(params) > 0 {
				r.Parameters = params
			}
			continue
		}
		value, err := c.GetAttribute(info.Key)
		if err != nil || value == "" {
			continue
		}
		r.Fields = append(r.Fields, Field{Key: info.Key, Kind: info.Kind, Value: value})
	}
	return r
}

// Map converts the record into plain values keyed by attribute name
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.Fields)+1)
	for _, f := range r.Fields {
		m[f.Key.String()] = f.native()
	}
	if len(r.Parameters) > 0 {
		m[netedit.AttrParameters.String()] = r.Parameters
	}
	return m
}

// native converts a canonical value to the closest plain Go value
func (f Field) native() any {
	switch f.Kind {
	case netedit.KindFloat, netedit.KindTime:
		if v, err := netedit.ParseFloat(f.Value); err == nil {
			return v
		}
	case netedit.KindBool:
		if v, err := netedit.ParseBool(f.Value); err == nil {
			return v
		}
	case netedit.KindList:
		return strings.Fields(f.Value)
	}
	return f.Value
}

// Records returns the records of every element of tag, sorted by id
func Records(net *netedit.Net, tag netedit.Tag) []Record {
	elements := net.Elements(tag)
	records := make([]Record, 0, len(elements))
	for _, e := range elements {
		records = append(records, RecordOf(e))
	}
	return records
}
