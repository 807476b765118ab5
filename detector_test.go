package netedit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_Construction(t *testing.T) {
	n, observer := newTestNet(t)

	d, err := NewDetectorE1Instant(n, DetectorE1InstantSpec{
		ID:         "det0",
		Lane:       "E0_0",
		Pos:        12.5,
		File:       "out.xml",
		VTypes:     []string{"bus", "truck"},
		Parameters: map[string]string{"z": "1", "a": "2"},
	})
	require.NoError(t, err)
	assert.Empty(t, observer.Added)
	_, ok := n.Element(TagE1Instant, "det0")
	assert.False(t, ok)

	require.NoError(t, n.Add(d))
	assert.Equal(t, []string{"det0"}, observer.Added)

	values := map[Attr]string{}
	for _, key := range d.Keys() {
		v, err := d.GetAttribute(key)
		require.NoError(t, err)
		values[key] = v
	}
	assert.Equal(t, map[Attr]string{
		AttrID:            "det0",
		AttrLane:          "E0_0",
		AttrPosition:      "12.5",
		AttrFile:          "out.xml",
		AttrVTypes:        "bus truck",
		AttrName:          "",
		AttrFriendlyPos:   "false",
		AttrParameters:    "a=2|z=1",
		AttrBlockMovement: "false",
		AttrSelected:      "false",
	}, values)
	assert.Equal(t, Position{X: 12.5}, d.PositionInView())
	assert.True(t, d.IsElementValid())
}

func TestDetector_ConstructionErrors(t *testing.T) {
	n, _ := newTestNet(t)
	newTestDetector(t, n)

	tests := []struct {
		name string
		spec DetectorE1InstantSpec
	}{
		{"empty id", DetectorE1InstantSpec{Lane: "E0_0"}},
		{"duplicate id", DetectorE1InstantSpec{ID: "det0", Lane: "E0_0"}},
		{"unknown lane", DetectorE1InstantSpec{ID: "det1", Lane: "E9_0"}},
		{"bad file", DetectorE1InstantSpec{ID: "det1", Lane: "E0_0", File: "a;b"}},
		{"bad vType", DetectorE1InstantSpec{ID: "det1", Lane: "E0_0", VTypes: []string{"c@r"}}},
		{"bad parameter key", DetectorE1InstantSpec{ID: "det1", Lane: "E0_0", Parameters: map[string]string{"a b": "1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDetectorE1Instant(n, tt.spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidValue))
		})
	}
}

func TestDetector_PositionOutOfLane(t *testing.T) {
	n, _ := newTestNet(t)
	d := newTestDetector(t, n)
	undo := n.UndoList()

	require.NoError(t, d.SetAttribute(AttrPosition, "150", undo))
	assert.False(t, d.IsElementValid())
	assert.Equal(t, "position out of lane (150)", d.Problem())
	assert.Equal(t, Position{X: 100}, d.PositionInView())

	require.NoError(t, d.FixProblem(undo))
	assert.True(t, d.IsElementValid())
	assert.Equal(t, "100", d.Value(AttrPosition))
	assert.Equal(t, "fix e1Instant 'det0'", undo.UndoDescription())

	require.NoError(t, undo.Undo())
	assert.Equal(t, "150", d.Value(AttrPosition))
}

func TestDetector_FriendlyPos(t *testing.T) {
	n, _ := newTestNet(t)
	d := newTestDetector(t, n)
	undo := n.UndoList()

	require.NoError(t, d.SetAttribute(AttrFriendlyPos, "true", undo))
	require.NoError(t, d.SetAttribute(AttrPosition, "150", undo))

	assert.True(t, d.IsPositionFixed())
	assert.True(t, d.IsElementValid())
	assert.Empty(t, d.Problem())
	pos, err := d.GetAttributePosition(AttrPosition)
	require.NoError(t, err)
	assert.Equal(t, Position{X: 100}, pos)

	// nothing to fix, nothing recorded
	before := undo.Len()
	require.NoError(t, d.FixProblem(undo))
	assert.Equal(t, before, undo.Len())

	require.NoError(t, d.SetAttribute(AttrFriendlyPos, "false", undo))
	assert.False(t, d.IsElementValid())
}

func TestDetector_NegativePosition(t *testing.T) {
	n, _ := newTestNet(t)
	d := newTestDetector(t, n)
	undo := n.UndoList()

	require.NoError(t, d.SetAttribute(AttrPosition, "-10", undo))
	assert.True(t, d.IsElementValid())
	assert.Equal(t, Position{X: 90}, d.PositionInView())
	v, err := d.GetAttributeFloat(AttrPosition)
	require.NoError(t, err)
	assert.Equal(t, -10.0, v)

	require.NoError(t, d.SetAttribute(AttrPosition, "-150", undo))
	assert.Equal(t, "position out of lane (-150)", d.Problem())
	require.NoError(t, d.FixProblem(undo))
	assert.Equal(t, "0", d.Value(AttrPosition))
}

func TestDetector_LaneChange(t *testing.T) {
	n, observer := newTestNet(t)
	d := newTestDetector(t, n)

	require.NoError(t, d.SetAttribute(AttrLane, "E0_1", n.UndoList()))
	assert.Equal(t, "E0_1", d.Lane().ID())
	assert.Equal(t, Position{X: 10, Y: 3.2}, d.PositionInView())

	last := observer.LastChange()
	require.NotNil(t, last)
	assert.Equal(t, AttrLane, last.Key)
	assert.Equal(t, "E0_0", last.Old)
	assert.Equal(t, "E0_1", last.New)
	assert.Same(t, d, last.Element)
}

func TestDetector_Rename(t *testing.T) {
	n, _ := newTestNet(t)
	d := newTestDetector(t, n)
	undo := n.UndoList()

	require.NoError(t, d.SetAttribute(AttrID, "det1", undo))
	assert.Equal(t, "det1", d.ID())
	e, ok := n.Element(TagE1Instant, "det1")
	require.True(t, ok)
	assert.Same(t, d, e)
	_, ok = n.Element(TagE1Instant, "det0")
	assert.False(t, ok)

	require.NoError(t, undo.Undo())
	_, ok = n.Element(TagE1Instant, "det0")
	assert.True(t, ok)
	_, ok = n.Element(TagE1Instant, "det1")
	assert.False(t, ok)
}

func TestDetector_RenameToTakenID(t *testing.T) {
	n, observer := newTestNet(t)
	d := newTestDetector(t, n)
	other, err := NewDetectorE1Instant(n, DetectorE1InstantSpec{ID: "det1", Lane: "E1_0"})
	require.NoError(t, err)
	require.NoError(t, n.Add(other))

	assert.False(t, d.IsValid(AttrID, "det1"))
	err = d.SetAttribute(AttrID, "det1", n.UndoList())
	assert.True(t, errors.Is(err, ErrInvalidValue))
	assert.Equal(t, "det0", d.ID())
	require.Len(t, observer.Rejections, 1)
	assert.Equal(t, AttrID, observer.Rejections[0].Key)

	// a detector may keep its own id
	assert.True(t, d.IsValid(AttrID, "det0"))
}

func TestDetector_Schema(t *testing.T) {
	schema := E1InstantSchema()
	assert.Equal(t, TagE1Instant, schema.Tag)
	assert.Empty(t, schema.Exclusive)
	assert.Empty(t, schema.RequireOneOf)

	var keys []Attr
	for _, info := range schema.Attributes {
		keys = append(keys, info.Key)
		assert.False(t, info.Optional, "%s", info.Key)
	}
	assert.Equal(t, []Attr{
		AttrID, AttrLane, AttrPosition, AttrFile, AttrVTypes, AttrName,
		AttrFriendlyPos, AttrParameters, AttrBlockMovement, AttrSelected,
	}, keys)

	pos, ok := schema.Attribute(AttrPosition)
	require.True(t, ok)
	assert.True(t, pos.Positional)
	assert.Equal(t, KindFloat, pos.Kind)
}
