package netedit

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNet_AddAndRemove(t *testing.T) {
	n, observer := newTestNet(t)
	d := newTestDetector(t, n)

	err := n.Add(d)
	assert.True(t, errors.Is(err, ErrDuplicateID))

	e, ok := n.Element(TagE1Instant, "det0")
	require.True(t, ok)
	assert.Same(t, d, e)

	require.NoError(t, n.Remove(d))
	_, ok = n.Element(TagE1Instant, "det0")
	assert.False(t, ok)
	assert.Equal(t, []string{"det0"}, observer.Removed)

	assert.Error(t, n.Remove(d))
}

func TestNet_Elements(t *testing.T) {
	n, _ := newTestNet(t)
	for _, id := range []string{"c", "a", "b"} {
		d, err := NewDetectorE1Instant(n, DetectorE1InstantSpec{ID: id, Lane: "E1_0"})
		require.NoError(t, err)
		require.NoError(t, n.Add(d))
	}
	newTestEdgeStop(t, n)

	var ids []string
	for _, e := range n.Elements(TagE1Instant) {
		ids = append(ids, e.ID())
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Empty(t, n.Elements(TagPersonStopBusStop))

	assert.Equal(t, []Tag{TagE1Instant, TagPersonStopEdge}, n.Tags())

	ids = nil
	for _, e := range n.Carriers() {
		ids = append(ids, string(e.Tag())+"/"+e.ID())
	}
	assert.Equal(t, []string{"e1Instant/a", "e1Instant/b", "e1Instant/c", "personStopEdge/stop0"}, ids)
}

func TestNet_Problems(t *testing.T) {
	n, _ := newTestNet(t)
	d := newTestDetector(t, n)
	ps := newTestEdgeStop(t, n)
	assert.Empty(t, n.Problems())

	require.NoError(t, ps.SetAttribute(AttrEndPos, "120", n.UndoList()))
	require.NoError(t, d.SetAttribute(AttrPosition, "101", n.UndoList()))

	assert.Equal(t, []string{
		"e1Instant 'det0': position out of lane (101)",
		"personStopEdge 'stop0': end position out of edge (120)",
	}, n.Problems())
}

func TestNet_Persons(t *testing.T) {
	n, _ := newTestNet(t)
	require.NoError(t, n.AddPerson(Person{ID: "alice", Depart: "0"}))

	err := n.AddPerson(Person{ID: "alice"})
	assert.True(t, errors.Is(err, ErrDuplicateID))
	err = n.AddPerson(Person{ID: "bad id"})
	assert.True(t, errors.Is(err, ErrInvalidValue))

	assert.Equal(t, []Person{{ID: "alice", Depart: "0"}, {ID: "p0", Depart: "10"}}, n.Persons())
	p, ok := n.Person("p0")
	assert.True(t, ok)
	assert.Equal(t, "10", p.Depart)
	_, ok = n.Person("nobody")
	assert.False(t, ok)
}

func TestNet_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	n, _ := newTestNet(t, WithLogger(logger))
	assert.Same(t, logger, n.Logger())

	d := newTestDetector(t, n)
	require.NoError(t, d.SetAttribute(AttrID, "det1", n.UndoList()))
	_, _ = d.GetAttribute(AttrBusStop)

	out := buf.String()
	assert.Contains(t, out, "element added")
	assert.Contains(t, out, "element renamed")
	assert.Contains(t, out, "attribute defect")
}

func TestNet_Observers(t *testing.T) {
	n, observer := newTestNet(t)
	extra := NewTestObserver()
	n.AddObserver(extra)

	d := newTestDetector(t, n)
	require.NoError(t, d.SetAttribute(AttrName, "x", n.UndoList()))
	assert.Equal(t, 1, extra.ChangeCount())

	n.RemoveObserver(extra)
	require.NoError(t, d.SetAttribute(AttrName, "y", n.UndoList()))
	assert.Equal(t, 1, extra.ChangeCount())
	assert.Equal(t, 2, observer.ChangeCount())

	require.NoError(t, n.UndoList().Undo())
	assert.Len(t, observer.Undone, 1)
	assert.Empty(t, extra.Undone)
}

func TestNet_AddDropsRedoOfRename(t *testing.T) {
	n, _ := newTestNet(t)
	d := newTestDetector(t, n)
	undo := n.UndoList()

	require.NoError(t, d.SetAttribute(AttrID, "X", undo))
	require.NoError(t, undo.Undo())

	other, err := NewDetectorE1Instant(n, DetectorE1InstantSpec{ID: "X", Lane: "E1_0"})
	require.NoError(t, err)
	require.NoError(t, n.Add(other))

	assert.True(t, errors.Is(undo.Redo(), ErrNothingToRedo))
	assert.Equal(t, "det0", d.ID())
	e, ok := n.Element(TagE1Instant, "X")
	require.True(t, ok)
	assert.Same(t, other, e)
	assert.Len(t, n.Elements(TagE1Instant), 2)
}

func TestNet_AddDropsUndoOfRename(t *testing.T) {
	n, _ := newTestNet(t)
	d := newTestDetector(t, n)
	undo := n.UndoList()

	require.NoError(t, d.SetAttribute(AttrID, "X", undo))
	other, err := NewDetectorE1Instant(n, DetectorE1InstantSpec{ID: "det0", Lane: "E1_0"})
	require.NoError(t, err)
	require.NoError(t, n.Add(other))

	assert.True(t, errors.Is(undo.Undo(), ErrNothingToUndo))
	e, _ := n.Element(TagE1Instant, "det0")
	assert.Same(t, other, e)
	e, _ = n.Element(TagE1Instant, "X")
	assert.Same(t, d, e)
}

func TestNet_AddInsideOpenGroup(t *testing.T) {
	n, _ := newTestNet(t)
	d := newTestDetector(t, n)
	undo := n.UndoList()

	undo.Begin("edit")
	require.NoError(t, d.SetAttribute(AttrID, "X", undo))
	other, err := NewDetectorE1Instant(n, DetectorE1InstantSpec{ID: "det0", Lane: "E1_0"})
	require.NoError(t, err)
	require.NoError(t, n.Add(other))
	require.NoError(t, undo.End())

	assert.Equal(t, 0, undo.Len())
	assert.Equal(t, "X", d.ID())
}

func TestNet_RemoveDropsHistory(t *testing.T) {
	n, observer := newTestNet(t)
	d := newTestDetector(t, n)
	undo := n.UndoList()

	require.NoError(t, d.SetAttribute(AttrPosition, "20", undo))
	require.NoError(t, n.Remove(d))

	assert.True(t, errors.Is(undo.Undo(), ErrNothingToUndo))
	assert.Equal(t, "20", d.Value(AttrPosition))
	assert.Equal(t, 1, observer.ChangeCount())
}

func TestNet_AddRemovedElement(t *testing.T) {
	n, _ := newTestNet(t)
	d := newTestDetector(t, n)
	require.NoError(t, n.Remove(d))

	err := n.Add(d)
	assert.True(t, errors.Is(err, ErrElementRemoved))
	_, ok := n.Element(TagE1Instant, "det0")
	assert.False(t, ok)
}

func TestNet_RenameKeepsOtherEntry(t *testing.T) {
	n, observer := newTestNet(t)
	d := newTestDetector(t, n)
	other, err := NewDetectorE1Instant(n, DetectorE1InstantSpec{ID: "det1", Lane: "E1_0"})
	require.NoError(t, err)
	require.NoError(t, n.Add(other))

	n.rename(d, "det0", "det1")

	e, _ := n.Element(TagE1Instant, "det1")
	assert.Same(t, other, e)
	e, _ = n.Element(TagE1Instant, "det0")
	assert.Same(t, d, e)
	require.Len(t, observer.Errors, 1)
	assert.True(t, errors.Is(observer.Errors[0], ErrDuplicateID))
}
