package netedit

// AttributeCarrier is the editing contract shared by every element kind
type AttributeCarrier interface {
	Tag() Tag
	ID() string
	Keys() []Attr
	Schema() Schema

	GetAttribute(key Attr) (string, error)
	GetAttributeFloat(key Attr) (float64, error)
	GetAttributePosition(key Attr) (Position, error)
	IsValid(key Attr, value string) bool
	SetAttribute(key Attr, value string, undo *UndoList) error

	IsAttributeEnabled(key Attr) bool
	EnableAttribute(key Attr, undo *UndoList) error
	DisableAttribute(key Attr, undo *UndoList) error

	Parameters() map[string]string

	IsElementValid() bool
	Problem() string
	FixProblem(undo *UndoList) error
}

// changeTarget is what change commands replay against
type changeTarget interface {
	Tag() Tag
	ID() string
	applyAttribute(key Attr, value string)
	applyEnabled(set EnabledSet)
}

// Store keeps the canonical text of every attribute of one element
type Store[E AttributeCarrier] struct {
	kind    *Kind[E]
	owner   E
	net     *Net
	values  map[Attr]string
	enabled EnabledSet
	removed bool
}

// NewStore creates a store for owner. Every key of kind starts at its default.
func NewStore[E AttributeCarrier](kind *Kind[E], owner E, net *Net) *Store[E] {
	s := &Store[E]{
		kind:    kind,
		owner:   owner,
		net:     net,
		values:  make(map[Attr]string, len(kind.order)),
		enabled: kind.defaultEnabled,
	}
	for _, key := range kind.order {
		s.values[key] = kind.descriptors[key].Default
	}
	return s
}

// Init loads the construction values and validates the complete attribute set.
// Nothing is stored when an error is returned.
func (s *Store[E]) Init(values map[Attr]string, enabled EnabledSet) error {
	staged := make(map[Attr]string, len(s.values))
	for k, v := range s.values {
		staged[k] = v
	}
	for key, value := range values {
		d, ok := s.kind.descriptors[key]
		if !ok {
			return NewUnknownKeyError(s.kind.tag, values[AttrID], key)
		}
		canon, err := canonical(d.Kind, value)
		if err != nil {
			return NewInvalidValueError(s.kind.tag, values[AttrID], key, value)
		}
		staged[key] = canon
	}
	previous, previousEnabled := s.values, s.enabled
	s.values, s.enabled = staged, enabled
	for _, key := range s.kind.order {
		d := s.kind.descriptors[key]
		value := staged[key]
		if _, err := canonical(d.Kind, value); err != nil || (d.check != nil && !d.check(s.owner, value)) {
			s.values, s.enabled = previous, previousEnabled
			return NewInvalidValueError(s.kind.tag, staged[AttrID], key, value)
		}
	}
	if key, reason, ok := s.kind.checkInitial(s.owner, enabled); !ok {
		s.values, s.enabled = previous, previousEnabled
		return NewDependencyConflictError(s.kind.tag, staged[AttrID], key, reason)
	}
	for _, key := range s.kind.order {
		if d := s.kind.descriptors[key]; d.onApply != nil {
			d.onApply(s.owner, previous[key], staged[key])
		}
	}
	if s.kind.onChange != nil {
		s.kind.onChange(s.owner)
	}
	return nil
}

// Tag returns the element kind
func (s *Store[E]) Tag() Tag {
	return s.kind.tag
}

// ID returns the current value of the id attribute
func (s *Store[E]) ID() string {
	return s.values[AttrID]
}

// Keys returns the applicable keys in table order
func (s *Store[E]) Keys() []Attr {
	return s.kind.Keys()
}

// Schema describes the element kind
func (s *Store[E]) Schema() Schema {
	return s.kind.Schema()
}

// GetAttribute returns the canonical text of key
func (s *Store[E]) GetAttribute(key Attr) (string, error) {
	if _, err := s.descriptor(key); err != nil {
		return "", err
	}
	return s.values[key], nil
}

// GetAttributeFloat returns the numeric interpretation of key
func (s *Store[E]) GetAttributeFloat(key Attr) (float64, error) {
	d, err := s.descriptor(key)
	if err != nil {
		return 0, err
	}
	if !d.Kind.IsNumeric() {
		return 0, NewNotNumericError(s.kind.tag, s.ID(), key)
	}
	if d.Kind == KindTime {
		return ParseTime(s.values[key])
	}
	return ParseFloat(s.values[key])
}

// GetAttributePosition returns the network position key refers to
func (s *Store[E]) GetAttributePosition(key Attr) (Position, error) {
	d, err := s.descriptor(key)
	if err != nil {
		return Position{}, err
	}
	if d.position == nil {
		return Position{}, NewNotPositionalError(s.kind.tag, s.ID(), key)
	}
	return d.position(s.owner)
}

// IsValid reports whether value would be accepted for key. It never mutates.
func (s *Store[E]) IsValid(key Attr, value string) bool {
	d, ok := s.kind.descriptors[key]
	if !ok || s.removed {
		return false
	}
	return s.valid(d, value)
}

func (s *Store[E]) valid(d *Descriptor[E], value string) bool {
	if d.ReadOnly {
		return false
	}
	if _, err := canonical(d.Kind, value); err != nil {
		return false
	}
	return d.check == nil || d.check(s.owner, value)
}

// SetAttribute validates value, records the change in undo and applies it.
// A nil undo list applies the change without recording it.
func (s *Store[E]) SetAttribute(key Attr, value string, undo *UndoList) error {
	d, err := s.descriptor(key)
	if err != nil {
		return err
	}
	if !s.valid(d, value) {
		verr := NewInvalidValueError(s.kind.tag, s.ID(), key, value)
		s.net.observers.NotifyValidationFailed(s.owner, key, value, verr)
		return verr
	}
	canon, _ := canonical(d.Kind, value)
	old := s.values[key]
	if canon == old {
		return nil
	}
	undo.Add(newAttributeChange(s, key, old, canon))
	return nil
}

// IsAttributeEnabled reports whether key takes part in the element configuration
func (s *Store[E]) IsAttributeEnabled(key Attr) bool {
	d, ok := s.kind.descriptors[key]
	if !ok || s.removed {
		return false
	}
	return !d.Optional || s.enabled.Has(key)
}

// EnableAttribute enables key and disables every attribute exclusive with it
// as a single undo step.
func (s *Store[E]) EnableAttribute(key Attr, undo *UndoList) error {
	d, err := s.toggleable(key)
	if err != nil {
		return err
	}
	if s.enabled.Has(d.Key) {
		return nil
	}
	return s.transition(key, s.kind.cascadeEnable(s.enabled, key), undo)
}

// DisableAttribute disables key as a single undo step
func (s *Store[E]) DisableAttribute(key Attr, undo *UndoList) error {
	d, err := s.toggleable(key)
	if err != nil {
		return err
	}
	if !s.enabled.Has(d.Key) {
		return nil
	}
	return s.transition(key, s.enabled.Without(key), undo)
}

func (s *Store[E]) transition(key Attr, next EnabledSet, undo *UndoList) error {
	if conflictKey, reason, ok := s.kind.checkTransition(s.owner, s.enabled, next); !ok {
		if conflictKey == AttrNone {
			conflictKey = key
		}
		cerr := NewDependencyConflictError(s.kind.tag, s.ID(), conflictKey, reason)
		s.net.observers.NotifyValidationFailed(s.owner, key, "", cerr)
		return cerr
	}
	undo.Add(newEnableChange(s, s.enabled, next))
	return nil
}

func (s *Store[E]) toggleable(key Attr) (*Descriptor[E], error) {
	d, err := s.descriptor(key)
	if err != nil {
		return nil, err
	}
	if !d.Optional {
		return nil, NewDependencyConflictError(s.kind.tag, s.ID(), key, "attribute cannot be enabled or disabled")
	}
	return d, nil
}

// Enabled returns the current enabled set of optional keys
func (s *Store[E]) Enabled() EnabledSet {
	return s.enabled
}

// Value returns the stored text of key without any checks
func (s *Store[E]) Value(key Attr) string {
	return s.values[key]
}

// Float returns the numeric value of key, zero if it does not parse
func (s *Store[E]) Float(key Attr) float64 {
	v, _ := s.GetAttributeFloat(key)
	return v
}

// Bool returns the boolean value of key, false if it does not parse
func (s *Store[E]) Bool(key Attr) bool {
	v, _ := ParseBool(s.values[key])
	return v
}

// Parameters returns a copy of the user parameters
func (s *Store[E]) Parameters() map[string]string {
	p, err := ParseParameters(s.values[AttrParameters])
	if err != nil {
		return map[string]string{}
	}
	return p.Map()
}

func (s *Store[E]) descriptor(key Attr) (*Descriptor[E], error) {
	if s.removed {
		return nil, NewElementRemovedError(s.kind.tag, s.ID())
	}
	d, ok := s.kind.descriptors[key]
	if !ok {
		err := NewUnknownKeyError(s.kind.tag, s.ID(), key)
		s.net.defect(err)
		return nil, err
	}
	return d, nil
}

// applyAttribute stores an already validated value. Only change commands call it;
// removed elements ignore it.
func (s *Store[E]) applyAttribute(key Attr, value string) {
	if s.removed {
		return
	}
	old := s.values[key]
	s.values[key] = value
	if d := s.kind.descriptors[key]; d.onApply != nil {
		d.onApply(s.owner, old, value)
	}
	if s.kind.onChange != nil {
		s.kind.onChange(s.owner)
	}
	s.net.observers.NotifyAttributeChanged(s.owner, key, old, value)
}

// applyEnabled replaces the enabled set. Only change commands call it;
// removed elements ignore it.
func (s *Store[E]) applyEnabled(set EnabledSet) {
	if s.removed {
		return
	}
	old := s.enabled
	s.enabled = set
	if s.kind.onChange != nil {
		s.kind.onChange(s.owner)
	}
	s.net.observers.NotifyAttributeToggled(s.owner, old, set)
}

func (s *Store[E]) detach() {
	s.removed = true
}

func (s *Store[E]) isRemoved() bool {
	return s.removed
}
