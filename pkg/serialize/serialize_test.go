package serialize

import (
	"bytes"
	"strings"
	"testing"

	"github.com/anggasct/netedit"
	"github.com/anggasct/netedit/pkg/network"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNetwork = `
edges:
  - id: E0
    lanes:
      - shape: "0,0 100,0"
stoppingPlaces:
  - id: bs0
    lane: E0_0
    startPos: 10
    endPos: 30
`

const testElements = `persons:
  - id: p0
    depart: "0"
e1Instant:
  - id: det0
    lane: E0_0
    pos: 12.5
    file: out.xml
    vTypes: [bus, car]
    friendlyPos: false
    parameters:
      owner: city
    blockMovement: false
personStopEdge:
  - id: stop0
    parent: p0
    edge: E0
    startPos: 5
    endPos: 50
    friendlyPos: false
    until: "1:00:00"
personStopBusStop:
  - id: stop1
    parent: p0
    busStop: bs0
    duration: 30
`

func newNet(t *testing.T) *netedit.Net {
	t.Helper()
	spatial, err := network.Parse([]byte(testNetwork))
	require.NoError(t, err)
	return netedit.NewNet(spatial)
}

func TestReadYAML(t *testing.T) {
	n := newNet(t)
	require.NoError(t, ReadYAML(strings.NewReader(testElements), n))

	e, ok := n.Element(netedit.TagE1Instant, "det0")
	require.True(t, ok)
	pos, err := e.GetAttribute(netedit.AttrPosition)
	require.NoError(t, err)
	assert.Equal(t, "12.5", pos)
	vtypes, _ := e.GetAttribute(netedit.AttrVTypes)
	assert.Equal(t, "bus car", vtypes)
	assert.Equal(t, map[string]string{"owner": "city"}, e.Parameters())

	stop, ok := n.Element(netedit.TagPersonStopEdge, "stop0")
	require.True(t, ok)
	assert.True(t, stop.IsAttributeEnabled(netedit.AttrUntil))
	assert.False(t, stop.IsAttributeEnabled(netedit.AttrDuration))
	assert.True(t, stop.IsAttributeEnabled(netedit.AttrStartPos))
	until, _ := stop.GetAttribute(netedit.AttrUntil)
	assert.Equal(t, "3600", until)

	bus, ok := n.Element(netedit.TagPersonStopBusStop, "stop1")
	require.True(t, ok)
	assert.True(t, bus.IsAttributeEnabled(netedit.AttrDuration))
	assert.False(t, bus.IsAttributeEnabled(netedit.AttrUntil))
}

func TestYAMLRoundTrip(t *testing.T) {
	n := newNet(t)
	require.NoError(t, ReadYAML(strings.NewReader(testElements), n))

	first, err := MarshalYAML(n)
	require.NoError(t, err)

	again := newNet(t)
	require.NoError(t, ReadYAML(bytes.NewReader(first), again))
	second, err := MarshalYAML(again)
	require.NoError(t, err)

	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Fatalf("round trip changed the document (-first +second):\n%s", diff)
	}
	assert.Contains(t, string(first), "until: 3600")
	assert.NotContains(t, string(first), "selected")
}

func TestYAMLKeyOrder(t *testing.T) {
	n := newNet(t)
	require.NoError(t, ReadYAML(strings.NewReader(testElements), n))

	out, err := MarshalYAML(n)
	require.NoError(t, err)
	text := string(out)

	assert.Less(t, strings.Index(text, "persons:"), strings.Index(text, "e1Instant:"))
	assert.Less(t, strings.Index(text, "id: det0"), strings.Index(text, "lane: E0_0"))
	assert.Less(t, strings.Index(text, "lane: E0_0"), strings.Index(text, "pos: 12.5"))
}

func TestMsgpackRoundTrip(t *testing.T) {
	n := newNet(t)
	require.NoError(t, ReadYAML(strings.NewReader(testElements), n))

	var buf bytes.Buffer
	require.NoError(t, WriteMsgpack(&buf, n))

	again := newNet(t)
	require.NoError(t, ReadMsgpack(&buf, again))

	if diff := cmp.Diff(Document(n), Document(again)); diff != "" {
		t.Fatalf("msgpack round trip diff (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown section", "vehicles: []\n"},
		{"unknown field", "e1Instant:\n  - {id: d, lane: E0_0, file: f, speed: 3}\n"},
		{"missing lane", "e1Instant:\n  - {id: d, lane: nope, file: f}\n"},
		{"missing person", "personStopEdge:\n  - {id: s, parent: ghost, edge: E0, endPos: 10}\n"},
		{"both timings", "persons:\n  - {id: p}\npersonStopEdge:\n  - {id: s, parent: p, edge: E0, endPos: 10, duration: 1, until: 2}\n"},
		{"duplicate id", "e1Instant:\n  - {id: d, lane: E0_0, file: f}\n  - {id: d, lane: E0_0, file: f}\n"},
		{"not a list", "e1Instant: {id: d}\n"},
		{"edge field on bus stop", "persons:\n  - {id: p}\npersonStopBusStop:\n  - {id: s, parent: p, busStop: bs0, endPos: 20}\n"},
		{"bus stop field on edge stop", "persons:\n  - {id: p}\npersonStopEdge:\n  - {id: s, parent: p, edge: E0, endPos: 10, busStop: bs0}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newNet(t)
			assert.Error(t, ReadYAML(strings.NewReader(tt.doc), n))
		})
	}
}

func TestRecordOf(t *testing.T) {
	n := newNet(t)
	d, err := netedit.NewDetectorE1Instant(n, netedit.DetectorE1InstantSpec{ID: "d", Lane: "E0_0", Pos: 3, File: "f"})
	require.NoError(t, err)

	r := RecordOf(d)
	assert.Equal(t, netedit.TagE1Instant, r.Tag)
	var keys []string
	for _, f := range r.Fields {
		keys = append(keys, f.Key.String())
	}
	assert.Equal(t, []string{"id", "lane", "pos", "file", "friendlyPos", "blockMovement"}, keys)
	assert.Nil(t, r.Parameters)
	assert.Equal(t, 3.0, r.Map()["pos"])
}

func TestReadEmpty(t *testing.T) {
	n := newNet(t)
	assert.NoError(t, ReadYAML(strings.NewReader(""), n))
	assert.Empty(t, n.Carriers())
}
