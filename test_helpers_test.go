package netedit

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestObserver is a mock observer for testing that captures all observer events
type TestObserver struct {
	mutex      sync.RWMutex
	Changes    []ChangeEvent
	Toggles    []ToggleEvent
	Rejections []RejectionEvent
	Undone     []*ChangeGroup
	Redone     []*ChangeGroup
	Added      []string
	Removed    []string
	Errors     []error
}

type ChangeEvent struct {
	Element AttributeCarrier
	Key     Attr
	Old     string
	New     string
}

type ToggleEvent struct {
	Element AttributeCarrier
	Old     EnabledSet
	New     EnabledSet
}

type RejectionEvent struct {
	Key   Attr
	Value string
	Err   error
}

// NewTestObserver creates a new test observer
func NewTestObserver() *TestObserver {
	return &TestObserver{}
}

func (o *TestObserver) OnAttributeChanged(element AttributeCarrier, key Attr, old, value string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Changes = append(o.Changes, ChangeEvent{Element: element, Key: key, Old: old, New: value})
}

func (o *TestObserver) OnAttributeToggled(element AttributeCarrier, old, enabled EnabledSet) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Toggles = append(o.Toggles, ToggleEvent{Element: element, Old: old, New: enabled})
}

func (o *TestObserver) OnValidationFailed(element AttributeCarrier, key Attr, value string, err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Rejections = append(o.Rejections, RejectionEvent{Key: key, Value: value, Err: err})
}

func (o *TestObserver) OnUndo(group *ChangeGroup) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Undone = append(o.Undone, group)
}

func (o *TestObserver) OnRedo(group *ChangeGroup) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Redone = append(o.Redone, group)
}

func (o *TestObserver) OnElementAdded(element AttributeCarrier) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Added = append(o.Added, element.ID())
}

func (o *TestObserver) OnElementRemoved(element AttributeCarrier) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Removed = append(o.Removed, element.ID())
}

func (o *TestObserver) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Errors = append(o.Errors, err)
}

// Helper methods for test assertions
func (o *TestObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Changes = nil
	o.Toggles = nil
	o.Rejections = nil
	o.Undone = nil
	o.Redone = nil
	o.Added = nil
	o.Removed = nil
	o.Errors = nil
}

func (o *TestObserver) ChangeCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Changes)
}

func (o *TestObserver) LastChange() *ChangeEvent {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.Changes) == 0 {
		return nil
	}
	return &o.Changes[len(o.Changes)-1]
}

// Test network - a straight 100m edge "E0" with a pedestrian lane and a car
// lane, a second edge "E1" and a bus stop "bs0" covering [20, 40] of E0_1

type testLane struct {
	id     string
	edge   string
	y      float64
	length float64
	allow  string
}

func (l *testLane) ID() string      { return l.id }
func (l *testLane) Edge() string    { return l.edge }
func (l *testLane) Length() float64 { return l.length }

func (l *testLane) PositionAt(offset float64) Position {
	return Position{X: clamp(offset, 0, l.length), Y: l.y}
}

func (l *testLane) Allows(vClass string) bool {
	return l.allow == "" || l.allow == vClass
}

type testEdge struct {
	id     string
	lanes  []string
	length float64
}

func (e *testEdge) ID() string      { return e.id }
func (e *testEdge) Length() float64 { return e.length }
func (e *testEdge) Lanes() []string { return e.lanes }

type testStop struct {
	id         string
	lane       *testLane
	start, end float64
}

func (s *testStop) ID() string        { return s.id }
func (s *testStop) Lane() string      { return s.lane.id }
func (s *testStop) StartPos() float64 { return s.start }
func (s *testStop) EndPos() float64   { return s.end }
func (s *testStop) Center() Position  { return s.lane.PositionAt((s.start + s.end) / 2) }

type testSpatial struct {
	lanes map[string]*testLane
	edges map[string]*testEdge
	stops map[string]*testStop
}

func (s *testSpatial) Lane(id string) (Lane, bool) {
	l, ok := s.lanes[id]
	if !ok {
		return nil, false
	}
	return l, true
}

func (s *testSpatial) Edge(id string) (Edge, bool) {
	e, ok := s.edges[id]
	if !ok {
		return nil, false
	}
	return e, true
}

func (s *testSpatial) StoppingPlace(id string) (StoppingPlace, bool) {
	st, ok := s.stops[id]
	if !ok {
		return nil, false
	}
	return st, true
}

func newTestSpatial() *testSpatial {
	s := &testSpatial{
		lanes: make(map[string]*testLane),
		edges: make(map[string]*testEdge),
		stops: make(map[string]*testStop),
	}
	addEdge := func(id string, length float64, allow ...string) {
		e := &testEdge{id: id, length: length}
		for i, a := range allow {
			l := &testLane{id: fmt.Sprintf("%s_%d", id, i), edge: id, y: float64(i) * 3.2, length: length, allow: a}
			s.lanes[l.id] = l
			e.lanes = append(e.lanes, l.id)
		}
		s.edges[id] = e
	}
	addEdge("E0", 100, "passenger", "pedestrian")
	addEdge("E1", 50, "")
	s.stops["bs0"] = &testStop{id: "bs0", lane: s.lanes["E0_1"], start: 20, end: 40}
	return s
}

// newTestNet creates a net over the test network with person "p0" and an observer
func newTestNet(t *testing.T, opts ...Option) (*Net, *TestObserver) {
	t.Helper()
	observer := NewTestObserver()
	n := NewNet(newTestSpatial(), append([]Option{WithObserver(observer)}, opts...)...)
	require.NoError(t, n.AddPerson(Person{ID: "p0", Depart: "10"}))
	return n, observer
}

// newTestDetector creates and registers detector "det0" at pos 10 of E0_0
func newTestDetector(t *testing.T, n *Net) *DetectorE1Instant {
	t.Helper()
	d, err := NewDetectorE1Instant(n, DetectorE1InstantSpec{
		ID:   "det0",
		Lane: "E0_0",
		Pos:  10,
		File: "det0.xml",
	})
	require.NoError(t, err)
	require.NoError(t, n.Add(d))
	return d
}

// newTestEdgeStop creates and registers stop "stop0" of p0 ending at 50 on E0 with a 20s duration
func newTestEdgeStop(t *testing.T, n *Net) *PersonStop {
	t.Helper()
	ps, err := NewPersonStopOverEdge(n, "stop0", "p0", StopParameters{
		Edge:     "E0",
		EndPos:   50,
		Duration: 20,
	})
	require.NoError(t, err)
	require.NoError(t, n.Add(ps))
	return ps
}
