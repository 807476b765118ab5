package netedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBool(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", "yes", "on", "x", " True "} {
		v, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"0", "false", "no", "off", "-"} {
		v, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	for _, s := range []string{"", "2", "maybe", "y"} {
		_, err := ParseBool(s)
		assert.Error(t, err, s)
	}
}

func TestParseFloat(t *testing.T) {
	v, err := ParseFloat(" 1.5e2 ")
	require.NoError(t, err)
	assert.Equal(t, 150.0, v)

	for _, s := range []string{"", "abc", "NaN", "inf", "-Inf", "1,5"} {
		_, err := ParseFloat(s)
		assert.Error(t, err, s)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		err  bool
	}{
		{"0", 0, false},
		{"12.5", 12.5, false},
		{"2:05", 125, false},
		{"1:02:03", 3723, false},
		{"1:00:00:01", 86401, false},
		{"0:59.5", 59.5, false},
		{"25:00:00", 90000, false},
		{"-1", 0, true},
		{"1:60", 0, true},
		{"1:60:00", 0, true},
		{"1:24:00:00", 0, true},
		{"1:2:3:4:5", 0, true},
		{"a:00", 0, true},
		{"1:-5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		kind ValueKind
		in   string
		want string
		err  bool
	}{
		{KindString, "free text", "free text", false},
		{KindString, "a<b", "", true},
		{KindID, "E0_0", "E0_0", false},
		{KindID, "", "", true},
		{KindID, "a,b", "", true},
		{KindFloat, "007.50", "7.5", false},
		{KindFloat, "-0.0", "-0", false},
		{KindFloat, "1e3", "1000", false},
		{KindBool, "ON", "true", false},
		{KindBool, "-", "false", false},
		{KindTime, "1:00", "60", false},
		{KindList, "", "", false},
		{KindList, "a\tb  c", "a b c", false},
		{KindList, "a;b", "", true},
		{KindParameters, "", "", false},
		{KindParameters, "k=v", "k=v", false},
		{KindParameters, "k=", "k=", false},
		{KindParameters, "=v", "", true},
		{ValueKind(99), "x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.in, func(t *testing.T) {
			got, err := canonical(tt.kind, tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// canonical text is a fixed point
			again, err := canonical(tt.kind, got)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestValueKind(t *testing.T) {
	assert.True(t, KindFloat.IsNumeric())
	assert.True(t, KindTime.IsNumeric())
	assert.False(t, KindBool.IsNumeric())
	assert.False(t, KindList.IsNumeric())
	assert.Equal(t, "ValueKind(42)", ValueKind(42).String())
}

func TestIsValidID(t *testing.T) {
	for _, s := range []string{"a", "E0_0", "bus.stop-1", "#1"} {
		assert.True(t, IsValidID(s), s)
	}
	for _, s := range []string{"", "a b", "a|b", "a/b", "a'b", "a:b", "a,b", "a\tb"} {
		assert.False(t, IsValidID(s), s)
	}
	assert.True(t, IsValidFilename("out/det 1.xml"))
	assert.False(t, IsValidFilename("out|det.xml"))
	assert.True(t, IsValidAttributeText("x/y:z"))
	assert.False(t, IsValidAttributeText("x&y"))
}

func TestParameters(t *testing.T) {
	p, err := ParseParameters("speed=13.9|color=red|speed=10")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, "color=red|speed=10", p.String())

	v, ok := p.Get("speed")
	assert.True(t, ok)
	assert.Equal(t, "10", v)
	_, ok = p.Get("missing")
	assert.False(t, ok)

	m := p.Map()
	m["color"] = "blue"
	v, _ = p.Get("color")
	assert.Equal(t, "red", v)

	empty, err := ParseParameters("  ")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, "", empty.String())

	for _, s := range []string{"a", "a=1|", "a b=1", "a=x<y"} {
		_, err := ParseParameters(s)
		assert.Error(t, err, s)
	}

	assert.Equal(t, "a=1|b=2", NewParameters(map[string]string{"b": "2", "a": "1"}).String())
}

func TestPosition(t *testing.T) {
	assert.Equal(t, "1.5,2", Position{X: 1.5, Y: 2}.String())
	assert.Equal(t, "1,2,3", Position{X: 1, Y: 2, Z: 3}.String())

	p, err := ParsePosition("1.5,2")
	require.NoError(t, err)
	assert.Equal(t, Position{X: 1.5, Y: 2}, p)

	p, err = ParsePosition("1,2,3")
	require.NoError(t, err)
	assert.Equal(t, Position{X: 1, Y: 2, Z: 3}, p)

	for _, s := range []string{"", "1", "1,2,3,4", "a,b"} {
		_, err := ParsePosition(s)
		assert.Error(t, err, s)
	}
}

func TestEnabledSet(t *testing.T) {
	var s EnabledSet
	s = s.With(AttrUntil).With(AttrDuration)
	assert.True(t, s.Has(AttrDuration))
	assert.Equal(t, []Attr{AttrDuration, AttrUntil}, s.Keys())

	s = s.Without(AttrDuration)
	assert.False(t, s.Has(AttrDuration))
	assert.Equal(t, []Attr{AttrUntil}, s.Keys())
	assert.Nil(t, EnabledSet(0).Keys())
}

func TestAttrNames(t *testing.T) {
	for key := AttrNone + 1; key < attrCount; key++ {
		parsed, ok := ParseAttr(key.String())
		require.True(t, ok, key.String())
		assert.Equal(t, key, parsed)
	}
	_, ok := ParseAttr("")
	assert.False(t, ok)
	_, ok = ParseAttr("speed")
	assert.False(t, ok)
	assert.Equal(t, "pos", AttrPosition.String())
	assert.Equal(t, "Attr(0)", AttrNone.String())
}
