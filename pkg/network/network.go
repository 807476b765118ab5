// Package network provides an in-memory road network that resolves lane,
// edge and stopping place references for attribute carriers.
package network

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/anggasct/netedit"
)

// Lane is a lane with a polyline shape
type Lane struct {
	id     string
	edge   string
	shape  []netedit.Position
	length float64
	allow  []string
}

// ID returns the lane id
func (l *Lane) ID() string { return l.id }

// Edge returns the id of the edge the lane belongs to
func (l *Lane) Edge() string { return l.edge }

// Length returns the lane length
func (l *Lane) Length() float64 { return l.length }

// Shape returns a copy of the lane geometry
func (l *Lane) Shape() []netedit.Position {
	return append([]netedit.Position(nil), l.shape...)
}

// Allows reports whether vClass may use the lane. An empty allow list permits everything.
func (l *Lane) Allows(vClass string) bool {
	if len(l.allow) == 0 {
		return true
	}
	for _, a := range l.allow {
		if a == vClass || a == "all" {
			return true
		}
	}
	return false
}

// PositionAt walks the shape to offset, clamped to the lane
func (l *Lane) PositionAt(offset float64) netedit.Position {
	if len(l.shape) == 0 {
		return netedit.Position{}
	}
	if offset <= 0 || len(l.shape) == 1 {
		return l.shape[0]
	}
	// shape length may differ from the declared length
	offset *= shapeLength(l.shape) / l.length
	for i := 1; i < len(l.shape); i++ {
		a, b := l.shape[i-1], l.shape[i]
		seg := distance(a, b)
		if offset <= seg {
			t := offset / seg
			return netedit.Position{
				X: a.X + (b.X-a.X)*t,
				Y: a.Y + (b.Y-a.Y)*t,
				Z: a.Z + (b.Z-a.Z)*t,
			}
		}
		offset -= seg
	}
	return l.shape[len(l.shape)-1]
}

// Edge is a directed road holding lanes
type Edge struct {
	id     string
	lanes  []string
	length float64
}

// ID returns the edge id
func (e *Edge) ID() string { return e.id }

// Length returns the length of the edge's first lane
func (e *Edge) Length() float64 { return e.length }

// Lanes returns the lane ids from the rightmost lane
func (e *Edge) Lanes() []string { return append([]string(nil), e.lanes...) }

// StoppingPlace is a bus stop on a lane
type StoppingPlace struct {
	id       string
	lane     *Lane
	startPos float64
	endPos   float64
}

// ID returns the stopping place id
func (s *StoppingPlace) ID() string { return s.id }

// Lane returns the id of the lane the stopping place is on
func (s *StoppingPlace) Lane() string { return s.lane.id }

// StartPos returns the start offset on the lane
func (s *StoppingPlace) StartPos() float64 { return s.startPos }

// EndPos returns the end offset on the lane
func (s *StoppingPlace) EndPos() float64 { return s.endPos }

// Center returns the network position of the middle of the stopping place
func (s *StoppingPlace) Center() netedit.Position {
	return s.lane.PositionAt((s.startPos + s.endPos) / 2)
}

// Network implements netedit.SpatialReference
type Network struct {
	lanes map[string]*Lane
	edges map[string]*Edge
	stops map[string]*StoppingPlace
}

// New creates an empty network
func New() *Network {
	return &Network{
		lanes: make(map[string]*Lane),
		edges: make(map[string]*Edge),
		stops: make(map[string]*StoppingPlace),
	}
}

// LaneSpec describes one lane of an edge
type LaneSpec struct {
	Shape  []netedit.Position
	Length float64
	Allow  []string
}

// AddEdge adds an edge whose lanes are named <edge>_<index>
func (n *Network) AddEdge(id string, lanes ...LaneSpec) (*Edge, error) {
	if !netedit.IsValidID(id) {
		return nil, fmt.Errorf("invalid edge id '%s'", id)
	}
	if _, exists := n.edges[id]; exists {
		return nil, fmt.Errorf("edge '%s' already exists", id)
	}
	if len(lanes) == 0 {
		return nil, fmt.Errorf("edge '%s' has no lanes", id)
	}
	edge := &Edge{id: id}
	for i, spec := range lanes {
		if len(spec.Shape) < 2 {
			return nil, fmt.Errorf("lane %d of edge '%s' needs at least two shape points", i, id)
		}
		length := spec.Length
		if length <= 0 {
			length = shapeLength(spec.Shape)
		}
		if length <= 0 {
			return nil, fmt.Errorf("lane %d of edge '%s' has zero length", i, id)
		}
		lane := &Lane{
			id:     fmt.Sprintf("%s_%d", id, i),
			edge:   id,
			shape:  append([]netedit.Position(nil), spec.Shape...),
			length: length,
			allow:  spec.Allow,
		}
		edge.lanes = append(edge.lanes, lane.id)
		n.lanes[lane.id] = lane
	}
	edge.length = n.lanes[edge.lanes[0]].length
	n.edges[id] = edge
	return edge, nil
}

// AddStoppingPlace adds a bus stop covering [startPos, endPos] of lane
func (n *Network) AddStoppingPlace(id, lane string, startPos, endPos float64) (*StoppingPlace, error) {
	if !netedit.IsValidID(id) {
		return nil, fmt.Errorf("invalid stopping place id '%s'", id)
	}
	if _, exists := n.stops[id]; exists {
		return nil, fmt.Errorf("stopping place '%s' already exists", id)
	}
	l, ok := n.lanes[lane]
	if !ok {
		return nil, fmt.Errorf("stopping place '%s': lane '%s' not found", id, lane)
	}
	if startPos < 0 || endPos > l.length || startPos >= endPos {
		return nil, fmt.Errorf("stopping place '%s': invalid range [%v, %v] on lane of length %v", id, startPos, endPos, l.length)
	}
	s := &StoppingPlace{id: id, lane: l, startPos: startPos, endPos: endPos}
	n.stops[id] = s
	return s, nil
}

// Lane implements netedit.SpatialReference
func (n *Network) Lane(id string) (netedit.Lane, bool) {
	l, ok := n.lanes[id]
	if !ok {
		return nil, false
	}
	return l, true
}

// Edge implements netedit.SpatialReference
func (n *Network) Edge(id string) (netedit.Edge, bool) {
	e, ok := n.edges[id]
	if !ok {
		return nil, false
	}
	return e, true
}

// StoppingPlace implements netedit.SpatialReference
func (n *Network) StoppingPlace(id string) (netedit.StoppingPlace, bool) {
	s, ok := n.stops[id]
	if !ok {
		return nil, false
	}
	return s, true
}

// EdgeIDs returns all edge ids, sorted
func (n *Network) EdgeIDs() []string {
	ids := make([]string, 0, len(n.edges))
	for id := range n.edges {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ParseShape parses "x,y x,y ..." into positions
func ParseShape(s string) ([]netedit.Position, error) {
	var shape []netedit.Position
	for _, point := range strings.Fields(s) {
		p, err := netedit.ParsePosition(point)
		if err != nil {
			return nil, err
		}
		shape = append(shape, p)
	}
	return shape, nil
}

func distance(a, b netedit.Position) float64 {
	return math.Sqrt((b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y) + (b.Z-a.Z)*(b.Z-a.Z))
}

func shapeLength(shape []netedit.Position) float64 {
	var total float64
	for i := 1; i < len(shape); i++ {
		total += distance(shape[i-1], shape[i])
	}
	return total
}
