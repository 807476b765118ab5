package netedit

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/emirpasic/gods/sets/treeset"
)

// Lane is the read-only view of a network lane
type Lane interface {
	ID() string
	Edge() string
	Length() float64
	// PositionAt resolves an offset from the lane start, clamped to the lane
	PositionAt(offset float64) Position
	Allows(vClass string) bool
}

// Edge is the read-only view of a network edge
type Edge interface {
	ID() string
	Length() float64
	// Lanes lists lane ids from the rightmost lane
	Lanes() []string
}

// StoppingPlace is the read-only view of a bus stop
type StoppingPlace interface {
	ID() string
	Lane() string
	StartPos() float64
	EndPos() float64
	Center() Position
}

// SpatialReference resolves network references used by positional attributes
type SpatialReference interface {
	Lane(id string) (Lane, bool)
	Edge(id string) (Edge, bool)
	StoppingPlace(id string) (StoppingPlace, bool)
}

// Person is a demand element person stops belong to
type Person struct {
	ID     string `mapstructure:"id"`
	Depart string `mapstructure:"depart"`
}

// Net owns the elements being edited together with their collaborators
type Net struct {
	spatial   SpatialReference
	elements  map[Tag]map[string]AttributeCarrier
	persons   map[string]Person
	undo      *UndoList
	observers *ObserverManager
	logger    *log.Logger
	strict    bool
}

// Option configures a Net
type Option func(*Net)

// WithLogger replaces the default logger
func WithLogger(logger *log.Logger) Option {
	return func(n *Net) {
		n.logger = logger
	}
}

// WithUndoLimit bounds the number of undoable groups
func WithUndoLimit(limit int) Option {
	return func(n *Net) {
		n.undo.limit = limit
	}
}

// WithStrict makes structural errors such as unknown keys panic
func WithStrict(strict bool) Option {
	return func(n *Net) {
		n.strict = strict
	}
}

// WithObserver registers an observer at construction
func WithObserver(observer Observer) Option {
	return func(n *Net) {
		n.observers.AddObserver(observer)
	}
}

// NewNet creates an empty net over the given spatial reference
func NewNet(spatial SpatialReference, opts ...Option) *Net {
	observers := NewObserverManager()
	undo := NewUndoList(0)
	undo.observers = observers
	n := &Net{
		spatial:   spatial,
		elements:  make(map[Tag]map[string]AttributeCarrier),
		persons:   make(map[string]Person),
		undo:      undo,
		observers: observers,
		logger:    log.NewWithOptions(io.Discard, log.Options{Prefix: "netedit"}),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Spatial returns the spatial reference provider
func (n *Net) Spatial() SpatialReference {
	return n.spatial
}

// UndoList returns the undo list edits of this net are recorded in
func (n *Net) UndoList() *UndoList {
	return n.undo
}

// Logger returns the net logger
func (n *Net) Logger() *log.Logger {
	return n.logger
}

// AddObserver registers an observer
func (n *Net) AddObserver(observer Observer) {
	n.observers.AddObserver(observer)
}

// RemoveObserver unregisters an observer
func (n *Net) RemoveObserver(observer Observer) {
	n.observers.RemoveObserver(observer)
}

// AddPerson registers a person person stops can refer to
func (n *Net) AddPerson(p Person) error {
	if !IsValidID(p.ID) {
		return &AttributeError{Code: ErrCodeInvalidValue, Tag: "person", ElementID: p.ID, Key: AttrID, Value: p.ID, Message: "invalid person id"}
	}
	if _, exists := n.persons[p.ID]; exists {
		return NewDuplicateIDError("person", p.ID)
	}
	n.persons[p.ID] = p
	return nil
}

// Person looks up a registered person
func (n *Net) Person(id string) (Person, bool) {
	p, ok := n.persons[id]
	return p, ok
}

// Persons returns the registered persons sorted by id
func (n *Net) Persons() []Person {
	result := make([]Person, 0, len(n.persons))
	for _, p := range n.persons {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Add registers an element under its tag and id and drops the undo history.
// Removed elements are rejected.
func (n *Net) Add(element AttributeCarrier) error {
	if r, ok := element.(interface{ isRemoved() bool }); ok && r.isRemoved() {
		return NewElementRemovedError(element.Tag(), element.ID())
	}
	byID := n.elements[element.Tag()]
	if byID == nil {
		byID = make(map[string]AttributeCarrier)
		n.elements[element.Tag()] = byID
	}
	if _, exists := byID[element.ID()]; exists {
		return NewDuplicateIDError(element.Tag(), element.ID())
	}
	byID[element.ID()] = element
	n.undo.forget()
	n.logger.Debug("element added", "tag", element.Tag(), "id", element.ID())
	n.observers.NotifyElementAdded(element)
	return nil
}

// Remove unregisters an element and drops the undo history. Every later
// access to the element fails.
func (n *Net) Remove(element AttributeCarrier) error {
	byID := n.elements[element.Tag()]
	if byID == nil || byID[element.ID()] != element {
		return &AttributeError{Code: ErrCodeUnknownKey, Tag: element.Tag(), ElementID: element.ID(), Message: "element is not part of this net"}
	}
	delete(byID, element.ID())
	n.undo.forget()
	n.logger.Debug("element removed", "tag", element.Tag(), "id", element.ID())
	n.observers.NotifyElementRemoved(element)
	if d, ok := element.(interface{ detach() }); ok {
		d.detach()
	}
	return nil
}

// Element looks up an element by tag and id
func (n *Net) Element(tag Tag, id string) (AttributeCarrier, bool) {
	e, ok := n.elements[tag][id]
	return e, ok
}

// Elements returns the elements of tag sorted by id
func (n *Net) Elements(tag Tag) []AttributeCarrier {
	byID := n.elements[tag]
	result := make([]AttributeCarrier, 0, len(byID))
	for _, e := range byID {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID() < result[j].ID()
	})
	return result
}

// Tags returns the tags that have at least one element, sorted
func (n *Net) Tags() []Tag {
	var tags []Tag
	for tag, byID := range n.elements {
		if len(byID) > 0 {
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Problems lists "<tag> '<id>': <problem>" for every invalid element, sorted
func (n *Net) Problems() []string {
	problems := treeset.NewWithStringComparator()
	for _, byID := range n.elements {
		for _, e := range byID {
			if !e.IsElementValid() {
				problems.Add(string(e.Tag()) + " '" + e.ID() + "': " + e.Problem())
			}
		}
	}
	result := make([]string, 0, problems.Size())
	for _, v := range problems.Values() {
		result = append(result, v.(string))
	}
	return result
}

// idAvailable reports whether id can be used by self
func (n *Net) idAvailable(tag Tag, id string, self AttributeCarrier) bool {
	existing, ok := n.elements[tag][id]
	return !ok || existing == self
}

// rename moves a registered element to its new id
func (n *Net) rename(element AttributeCarrier, old, id string) {
	byID := n.elements[element.Tag()]
	if byID == nil || byID[old] != element || old == id {
		return
	}
	if other, taken := byID[id]; taken && other != element {
		n.defect(NewDuplicateIDError(element.Tag(), id))
		return
	}
	delete(byID, old)
	byID[id] = element
	n.logger.Debug("element renamed", "tag", element.Tag(), "from", old, "to", id)
}

// defect reports a structural error. Strict nets panic.
func (n *Net) defect(err error) {
	n.logger.Error("attribute defect", "err", err)
	n.observers.NotifyError(err)
	if n.strict {
		panic(err)
	}
}
