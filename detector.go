package netedit

import (
	"fmt"
	"strings"
)

// DetectorE1InstantSpec holds the construction values of an instant induction loop
type DetectorE1InstantSpec struct {
	ID            string            `mapstructure:"id"`
	Lane          string            `mapstructure:"lane"`
	Pos           float64           `mapstructure:"pos"`
	File          string            `mapstructure:"file"`
	VTypes        []string          `mapstructure:"vTypes"`
	Name          string            `mapstructure:"name"`
	FriendlyPos   bool              `mapstructure:"friendlyPos"`
	Parameters    map[string]string `mapstructure:"parameters"`
	BlockMovement bool              `mapstructure:"blockMovement"`
}

// DetectorE1Instant is an instant induction loop placed on a lane
type DetectorE1Instant struct {
	*Store[*DetectorE1Instant]

	net      *Net
	lane     Lane
	geometry Position
}

var e1InstantKind = NewKind[*DetectorE1Instant](TagE1Instant).
	Attr(AttrID, KindID).
	Check(func(d *DetectorE1Instant, v string) bool {
		return d.net.idAvailable(TagE1Instant, v, d)
	}).
	OnApply(func(d *DetectorE1Instant, old, v string) {
		d.net.rename(d, old, v)
	}).
	Attr(AttrLane, KindID).
	Check(func(d *DetectorE1Instant, v string) bool {
		_, ok := d.net.spatial.Lane(v)
		return ok
	}).
	OnApply(func(d *DetectorE1Instant, _, v string) {
		d.lane, _ = d.net.spatial.Lane(v)
	}).
	Attr(AttrPosition, KindFloat).Default("0").
	Position(func(d *DetectorE1Instant) (Position, error) {
		if d.lane == nil {
			return Position{}, fmt.Errorf("lane '%s' not found", d.Value(AttrLane))
		}
		return d.geometry, nil
	}).
	Attr(AttrFile, KindString).
	Check(func(_ *DetectorE1Instant, v string) bool {
		return IsValidFilename(v)
	}).
	Attr(AttrVTypes, KindList).
	Attr(AttrName, KindString).
	Attr(AttrFriendlyPos, KindBool).Default("false").
	Attr(AttrParameters, KindParameters).
	Attr(AttrBlockMovement, KindBool).Default("false").
	Attr(AttrSelected, KindBool).Default("false").
	OnChange(func(d *DetectorE1Instant) {
		d.updateGeometry()
	}).
	Build()

// E1InstantSchema describes the attributes of instant induction loops
func E1InstantSchema() Schema {
	return e1InstantKind.Schema()
}

// NewDetectorE1Instant validates spec and creates a detector of net.
// The detector still has to be registered with Net.Add.
func NewDetectorE1Instant(net *Net, spec DetectorE1InstantSpec) (*DetectorE1Instant, error) {
	d := &DetectorE1Instant{net: net}
	d.Store = NewStore(e1InstantKind, d, net)
	values := map[Attr]string{
		AttrID:            spec.ID,
		AttrLane:          spec.Lane,
		AttrPosition:      FormatFloat(spec.Pos),
		AttrFile:          spec.File,
		AttrVTypes:        strings.Join(spec.VTypes, " "),
		AttrName:          spec.Name,
		AttrFriendlyPos:   FormatBool(spec.FriendlyPos),
		AttrParameters:    NewParameters(spec.Parameters).String(),
		AttrBlockMovement: FormatBool(spec.BlockMovement),
	}
	if err := d.Init(values, e1InstantKind.DefaultEnabled()); err != nil {
		return nil, err
	}
	return d, nil
}

// Lane returns the lane the detector is placed on
func (d *DetectorE1Instant) Lane() Lane {
	return d.lane
}

// IsPositionFixed reports whether the position is corrected into the lane
func (d *DetectorE1Instant) IsPositionFixed() bool {
	return d.Bool(AttrFriendlyPos)
}

// effectivePosition resolves negative positions relative to the lane end
func (d *DetectorE1Instant) effectivePosition() float64 {
	pos := d.Float(AttrPosition)
	if d.lane == nil {
		return pos
	}
	if pos < 0 {
		pos += d.lane.Length()
	}
	if d.IsPositionFixed() {
		pos = clamp(pos, 0, d.lane.Length())
	}
	return pos
}

// IsElementValid reports whether the detector can be written out as is
func (d *DetectorE1Instant) IsElementValid() bool {
	return d.Problem() == ""
}

// Problem describes why the detector is invalid, empty when it is valid
func (d *DetectorE1Instant) Problem() string {
	if d.lane == nil || d.IsPositionFixed() {
		return ""
	}
	pos := d.effectivePosition()
	if pos < 0 || pos > d.lane.Length() {
		return fmt.Sprintf("position out of lane (%s)", d.Value(AttrPosition))
	}
	return ""
}

// FixProblem moves the detector back into its lane
func (d *DetectorE1Instant) FixProblem(undo *UndoList) error {
	if d.IsElementValid() {
		return nil
	}
	fixed := clamp(d.effectivePosition(), 0, d.lane.Length())
	return undo.Group(fmt.Sprintf("fix %s '%s'", TagE1Instant, d.ID()), func() error {
		return d.SetAttribute(AttrPosition, FormatFloat(fixed), undo)
	})
}

// PositionInView returns the precomputed network position of the detector
func (d *DetectorE1Instant) PositionInView() Position {
	return d.geometry
}

func (d *DetectorE1Instant) updateGeometry() {
	if d.lane == nil {
		return
	}
	d.geometry = d.lane.PositionAt(d.effectivePosition())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
