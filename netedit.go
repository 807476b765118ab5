// Package netedit provides the attribute editing core of a traffic network
// editor: elements expose their properties by symbolic key, validate edits
// against per-kind descriptor tables, record every change in an undo list
// and toggle optional attributes with deterministic conflict resolution.
package netedit

// Carriers returns every registered element of the net, grouped by tag and sorted by id
func (n *Net) Carriers() []AttributeCarrier {
	var result []AttributeCarrier
	for _, tag := range n.Tags() {
		result = append(result, n.Elements(tag)...)
	}
	return result
}

// SchemaFor returns the schema of a built-in element kind
func SchemaFor(tag Tag) (Schema, bool) {
	switch tag {
	case TagE1Instant:
		return E1InstantSchema(), true
	case TagPersonStopEdge:
		return PersonStopEdgeSchema(), true
	case TagPersonStopBusStop:
		return PersonStopBusStopSchema(), true
	}
	return Schema{}, false
}

// Tags lists the built-in element kinds
func Tags() []Tag {
	return []Tag{TagE1Instant, TagPersonStopEdge, TagPersonStopBusStop}
}
