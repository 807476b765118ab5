package netedit

import (
	"fmt"
)

// StopParameters is the typed stop definition a person stop is built from and mirrors
type StopParameters struct {
	Edge        string            `mapstructure:"edge"`
	BusStop     string            `mapstructure:"busStop"`
	StartPos    float64           `mapstructure:"startPos"`
	EndPos      float64           `mapstructure:"endPos"`
	Duration    float64           `mapstructure:"duration"`
	Until       float64           `mapstructure:"until"`
	ActType     string            `mapstructure:"actType"`
	FriendlyPos bool              `mapstructure:"friendlyPos"`
	Parameters  map[string]string `mapstructure:"parameters"`
	// Set holds the optional attributes given explicitly: duration, until, startPos
	Set EnabledSet `mapstructure:"-"`
}

// PersonStop is a stop of a person plan, either on an edge or at a bus stop
type PersonStop struct {
	*Store[*PersonStop]

	net    *Net
	params StopParameters
}

func personStopCommon(b *KindBuilder[*PersonStop]) *KindBuilder[*PersonStop] {
	return b.
		Attr(AttrID, KindID).
		Check(func(ps *PersonStop, v string) bool {
			return ps.net.idAvailable(ps.Tag(), v, ps)
		}).
		OnApply(func(ps *PersonStop, old, v string) {
			ps.net.rename(ps, old, v)
		}).
		Attr(AttrParent, KindID).ReadOnly().
		Check(func(ps *PersonStop, v string) bool {
			_, ok := ps.net.Person(v)
			return ok
		})
}

func personStopTiming(b *KindBuilder[*PersonStop]) *KindBuilder[*PersonStop] {
	return b.
		Attr(AttrDuration, KindTime).Default("0").Optional().Enabled().
		Attr(AttrUntil, KindTime).Default("0").Optional().
		Attr(AttrActType, KindString).
		Attr(AttrParameters, KindParameters).
		Attr(AttrSelected, KindBool).Default("false").
		Exclusive(AttrDuration, AttrUntil).
		RequireOneOf(AttrDuration, AttrUntil).
		OnChange(func(ps *PersonStop) {
			ps.refreshParameters()
		})
}

var personStopEdgeKind = personStopTiming(personStopCommon(NewKind[*PersonStop](TagPersonStopEdge)).
	Attr(AttrEdge, KindID).
	Check(func(ps *PersonStop, v string) bool {
		_, ok := ps.net.spatial.Edge(v)
		return ok
	}).
	Attr(AttrStartPos, KindFloat).Default("0").Optional().
	Check(func(ps *PersonStop, v string) bool {
		start, _ := ParseFloat(v)
		return !ps.IsAttributeEnabled(AttrStartPos) || ps.Bool(AttrFriendlyPos) || start < ps.Float(AttrEndPos)
	}).
	Attr(AttrEndPos, KindFloat).Default("0").
	Check(func(ps *PersonStop, v string) bool {
		end, _ := ParseFloat(v)
		return !ps.IsAttributeEnabled(AttrStartPos) || ps.Bool(AttrFriendlyPos) || ps.Float(AttrStartPos) < end
	}).
	Position(func(ps *PersonStop) (Position, error) {
		lane := ps.firstAllowedLane()
		if lane == nil {
			return Position{}, fmt.Errorf("edge '%s' has no lanes", ps.Value(AttrEdge))
		}
		return lane.PositionAt(ps.fixedPosition(ps.Float(AttrEndPos), lane.Length())), nil
	}).
	Attr(AttrFriendlyPos, KindBool).Default("false").
	Check(func(ps *PersonStop, v string) bool {
		friendly, _ := ParseBool(v)
		return friendly || !ps.IsAttributeEnabled(AttrStartPos) || ps.Float(AttrStartPos) < ps.Float(AttrEndPos)
	}).
	Requires(AttrStartPos, func(ps *PersonStop) bool {
		return ps.Bool(AttrFriendlyPos) || ps.Float(AttrStartPos) < ps.Float(AttrEndPos)
	}, "startPos must be smaller than endPos")).
	Build()

var personStopBusStopKind = personStopTiming(personStopCommon(NewKind[*PersonStop](TagPersonStopBusStop)).
	Attr(AttrBusStop, KindID).
	Check(func(ps *PersonStop, v string) bool {
		_, ok := ps.net.spatial.StoppingPlace(v)
		return ok
	}).
	Position(func(ps *PersonStop) (Position, error) {
		stop, ok := ps.net.spatial.StoppingPlace(ps.Value(AttrBusStop))
		if !ok {
			return Position{}, fmt.Errorf("bus stop '%s' not found", ps.Value(AttrBusStop))
		}
		return stop.Center(), nil
	})).
	Build()

// PersonStopEdgeSchema describes the attributes of person stops on edges
func PersonStopEdgeSchema() Schema {
	return personStopEdgeKind.Schema()
}

// PersonStopBusStopSchema describes the attributes of person stops at bus stops
func PersonStopBusStopSchema() Schema {
	return personStopBusStopKind.Schema()
}

// NewPersonStopOverEdge validates params and creates a stop of person on params.Edge
func NewPersonStopOverEdge(net *Net, id, person string, params StopParameters) (*PersonStop, error) {
	ps := &PersonStop{net: net}
	ps.Store = NewStore(personStopEdgeKind, ps, net)
	values := stopValues(id, person, params)
	values[AttrEdge] = params.Edge
	values[AttrStartPos] = FormatFloat(params.StartPos)
	values[AttrEndPos] = FormatFloat(params.EndPos)
	values[AttrFriendlyPos] = FormatBool(params.FriendlyPos)
	if err := ps.Init(values, stopEnabled(params)); err != nil {
		return nil, err
	}
	return ps, nil
}

// NewPersonStopOverBusStop validates params and creates a stop of person at params.BusStop
func NewPersonStopOverBusStop(net *Net, id, person string, params StopParameters) (*PersonStop, error) {
	ps := &PersonStop{net: net}
	ps.Store = NewStore(personStopBusStopKind, ps, net)
	values := stopValues(id, person, params)
	values[AttrBusStop] = params.BusStop
	if err := ps.Init(values, stopEnabled(params)&^EnabledSet(0).With(AttrStartPos)); err != nil {
		return nil, err
	}
	return ps, nil
}

func stopValues(id, person string, params StopParameters) map[Attr]string {
	return map[Attr]string{
		AttrID:         id,
		AttrParent:     person,
		AttrDuration:   FormatFloat(params.Duration),
		AttrUntil:      FormatFloat(params.Until),
		AttrActType:    params.ActType,
		AttrParameters: NewParameters(params.Parameters).String(),
	}
}

// stopEnabled defaults to a duration stop when no timing was given
func stopEnabled(params StopParameters) EnabledSet {
	set := params.Set
	if !set.Has(AttrDuration) && !set.Has(AttrUntil) {
		set = set.With(AttrDuration)
	}
	return set
}

// StopParameters returns the typed view of the current attributes
func (ps *PersonStop) StopParameters() StopParameters {
	p := ps.params
	p.Parameters = ps.Parameters()
	return p
}

// Person returns the id of the person this stop belongs to
func (ps *PersonStop) Person() string {
	return ps.Value(AttrParent)
}

// Begin returns the departure of the parent person
func (ps *PersonStop) Begin() string {
	p, _ := ps.net.Person(ps.Person())
	return p.Depart
}

// IsElementValid reports whether the stop can be written out as is
func (ps *PersonStop) IsElementValid() bool {
	return ps.Problem() == ""
}

// Problem describes why the stop is invalid, empty when it is valid
func (ps *PersonStop) Problem() string {
	if ps.Tag() != TagPersonStopEdge || ps.params.FriendlyPos {
		return ""
	}
	edge, ok := ps.net.spatial.Edge(ps.params.Edge)
	if !ok {
		return fmt.Sprintf("edge '%s' not found", ps.params.Edge)
	}
	if ps.params.EndPos < 0 || ps.params.EndPos > edge.Length() {
		return fmt.Sprintf("end position out of edge (%s)", ps.Value(AttrEndPos))
	}
	if ps.params.Set.Has(AttrStartPos) && ps.params.StartPos < 0 {
		return fmt.Sprintf("start position out of edge (%s)", ps.Value(AttrStartPos))
	}
	return ""
}

// FixProblem moves the stop back into its edge as one undo step
func (ps *PersonStop) FixProblem(undo *UndoList) error {
	if ps.IsElementValid() {
		return nil
	}
	edge, ok := ps.net.spatial.Edge(ps.params.Edge)
	if !ok {
		return NewInvalidValueError(ps.Tag(), ps.ID(), AttrEdge, ps.params.Edge)
	}
	end := clamp(ps.params.EndPos, 0, edge.Length())
	start := clamp(ps.params.StartPos, 0, edge.Length())
	return undo.Group(fmt.Sprintf("fix %s '%s'", ps.Tag(), ps.ID()), func() error {
		if ps.params.Set.Has(AttrStartPos) && start >= end {
			if err := ps.DisableAttribute(AttrStartPos, undo); err != nil {
				return err
			}
		}
		if ps.IsAttributeEnabled(AttrStartPos) {
			if err := ps.SetAttribute(AttrStartPos, FormatFloat(start), undo); err != nil {
				return err
			}
		}
		return ps.SetAttribute(AttrEndPos, FormatFloat(end), undo)
	})
}

// PositionInView returns where the stop is drawn
func (ps *PersonStop) PositionInView() Position {
	key := AttrEndPos
	if ps.Tag() == TagPersonStopBusStop {
		key = AttrBusStop
	}
	pos, _ := ps.GetAttributePosition(key)
	return pos
}

// firstAllowedLane returns the first lane of the stop edge pedestrians may use
func (ps *PersonStop) firstAllowedLane() Lane {
	edge, ok := ps.net.spatial.Edge(ps.Value(AttrEdge))
	if !ok {
		return nil
	}
	var first Lane
	for _, id := range edge.Lanes() {
		lane, ok := ps.net.spatial.Lane(id)
		if !ok {
			continue
		}
		if first == nil {
			first = lane
		}
		if lane.Allows("pedestrian") {
			return lane
		}
	}
	return first
}

func (ps *PersonStop) fixedPosition(pos, length float64) float64 {
	if ps.Bool(AttrFriendlyPos) {
		return clamp(pos, 0, length)
	}
	return pos
}

func (ps *PersonStop) refreshParameters() {
	p := StopParameters{
		Duration: ps.Float(AttrDuration),
		Until:    ps.Float(AttrUntil),
		ActType:  ps.Value(AttrActType),
		Set:      ps.Enabled(),
	}
	if ps.Tag() == TagPersonStopEdge {
		p.Edge = ps.Value(AttrEdge)
		p.StartPos = ps.Float(AttrStartPos)
		p.EndPos = ps.Float(AttrEndPos)
		p.FriendlyPos = ps.Bool(AttrFriendlyPos)
	} else {
		p.BusStop = ps.Value(AttrBusStop)
	}
	ps.params = p
}
