package netedit

import "fmt"

// Attr identifies one editable property of an element
type Attr int

const (
	// AttrNone is the zero key and never applies to any element
	AttrNone Attr = iota
	AttrID
	AttrLane
	AttrEdge
	AttrBusStop
	AttrPosition
	AttrStartPos
	AttrEndPos
	AttrFile
	AttrVTypes
	AttrName
	AttrFriendlyPos
	AttrDuration
	AttrUntil
	AttrActType
	AttrParameters
	AttrBlockMovement
	AttrSelected
	AttrParent

	attrCount
)

var attrNames = [...]string{
	AttrNone:          "",
	AttrID:            "id",
	AttrLane:          "lane",
	AttrEdge:          "edge",
	AttrBusStop:       "busStop",
	AttrPosition:      "pos",
	AttrStartPos:      "startPos",
	AttrEndPos:        "endPos",
	AttrFile:          "file",
	AttrVTypes:        "vTypes",
	AttrName:          "name",
	AttrFriendlyPos:   "friendlyPos",
	AttrDuration:      "duration",
	AttrUntil:         "until",
	AttrActType:       "actType",
	AttrParameters:    "parameters",
	AttrBlockMovement: "blockMovement",
	AttrSelected:      "selected",
	AttrParent:        "parent",
}

// String returns the attribute name as written in network files
func (a Attr) String() string {
	if a > AttrNone && a < attrCount {
		return attrNames[a]
	}
	return fmt.Sprintf("Attr(%d)", int(a))
}

// ParseAttr resolves an attribute name to its key
func ParseAttr(name string) (Attr, bool) {
	for i := AttrNone + 1; i < attrCount; i++ {
		if attrNames[i] == name {
			return i, true
		}
	}
	return AttrNone, false
}

// Tag identifies an element kind
type Tag string

const (
	TagE1Instant         Tag = "e1Instant"
	TagPersonStopEdge    Tag = "personStopEdge"
	TagPersonStopBusStop Tag = "personStopBusStop"
)

// EnabledSet is a bitmask of attribute keys
type EnabledSet uint64

// Has reports whether key is in the set
func (s EnabledSet) Has(key Attr) bool {
	return s&(1<<uint(key)) != 0
}

// With returns the set with key added
func (s EnabledSet) With(key Attr) EnabledSet {
	return s | 1<<uint(key)
}

// Without returns the set with key removed
func (s EnabledSet) Without(key Attr) EnabledSet {
	return s &^ (1 << uint(key))
}

// Keys lists the keys in the set in ascending order
func (s EnabledSet) Keys() []Attr {
	var keys []Attr
	for k := AttrNone + 1; k < attrCount; k++ {
		if s.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}
