package serialize

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/anggasct/netedit"
	"github.com/mitchellh/mapstructure"
)

// stopTiming holds the fields both person stop layouts share
type stopTiming struct {
	ID         string            `mapstructure:"id"`
	Person     string            `mapstructure:"parent"`
	Duration   float64           `mapstructure:"duration"`
	Until      float64           `mapstructure:"until"`
	ActType    string            `mapstructure:"actType"`
	Parameters map[string]string `mapstructure:"parameters"`
}

func (r stopTiming) params() netedit.StopParameters {
	return netedit.StopParameters{
		Duration:   r.Duration,
		Until:      r.Until,
		ActType:    r.ActType,
		Parameters: r.Parameters,
	}
}

// edgeStopRecord is the file layout of a person stop on an edge
type edgeStopRecord struct {
	stopTiming  `mapstructure:",squash"`
	Edge        string  `mapstructure:"edge"`
	StartPos    float64 `mapstructure:"startPos"`
	EndPos      float64 `mapstructure:"endPos"`
	FriendlyPos bool    `mapstructure:"friendlyPos"`
}

// busStopRecord is the file layout of a person stop at a bus stop
type busStopRecord struct {
	stopTiming `mapstructure:",squash"`
	BusStop    string `mapstructure:"busStop"`
}

// Load adds the persons and elements of a decoded document to net.
// Every element goes through its validating constructor.
func Load(net *netedit.Net, doc map[string]any) error {
	known := map[string]bool{SectionPersons: true}
	for _, tag := range ElementSections {
		known[string(tag)] = true
	}
	var unknown []string
	for section := range doc {
		if !known[section] {
			unknown = append(unknown, section)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown sections %v", unknown)
	}

	if raw, ok := doc[SectionPersons]; ok {
		var persons []netedit.Person
		if err := decode(raw, &persons, nil); err != nil {
			return fmt.Errorf("%s: %w", SectionPersons, err)
		}
		for _, p := range persons {
			if err := net.AddPerson(p); err != nil {
				return err
			}
		}
	}

	for _, tag := range ElementSections {
		raw, ok := doc[string(tag)]
		if !ok {
			continue
		}
		items, ok := raw.([]any)
		if !ok {
			return fmt.Errorf("%s: expected a list, got %T", tag, raw)
		}
		for i, item := range items {
			element, err := loadElement(net, tag, item)
			if err != nil {
				return fmt.Errorf("%s[%d]: %w", tag, i, err)
			}
			if err := net.Add(element); err != nil {
				return fmt.Errorf("%s[%d]: %w", tag, i, err)
			}
		}
	}
	return nil
}

func loadElement(net *netedit.Net, tag netedit.Tag, item any) (netedit.AttributeCarrier, error) {
	switch tag {
	case netedit.TagE1Instant:
		var spec netedit.DetectorE1InstantSpec
		if err := decode(item, &spec, nil); err != nil {
			return nil, err
		}
		return netedit.NewDetectorE1Instant(net, spec)
	case netedit.TagPersonStopEdge:
		var rec edgeStopRecord
		var md mapstructure.Metadata
		if err := decode(item, &rec, &md); err != nil {
			return nil, err
		}
		params := rec.params()
		params.Edge = rec.Edge
		params.StartPos = rec.StartPos
		params.EndPos = rec.EndPos
		params.FriendlyPos = rec.FriendlyPos
		params.Set = optionalKeys(md.Keys)
		return netedit.NewPersonStopOverEdge(net, rec.ID, rec.Person, params)
	case netedit.TagPersonStopBusStop:
		var rec busStopRecord
		var md mapstructure.Metadata
		if err := decode(item, &rec, &md); err != nil {
			return nil, err
		}
		params := rec.params()
		params.BusStop = rec.BusStop
		params.Set = optionalKeys(md.Keys)
		return netedit.NewPersonStopOverBusStop(net, rec.ID, rec.Person, params)
	}
	return nil, fmt.Errorf("unsupported element %s", tag)
}

// optionalKeys marks the optional stop attributes that were present in the file
func optionalKeys(decoded []string) netedit.EnabledSet {
	var set netedit.EnabledSet
	for _, name := range decoded {
		key, ok := netedit.ParseAttr(name)
		if !ok {
			continue
		}
		switch key {
		case netedit.AttrDuration, netedit.AttrUntil, netedit.AttrStartPos:
			set = set.With(key)
		}
	}
	return set
}

func decode(input, output any, md *mapstructure.Metadata) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       attributeTextHook,
		Metadata:         md,
		Result:           output,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// attributeTextHook accepts clock times and the boolean spellings of network files
func attributeTextHook(from, to reflect.Type, data any) (any, error) {
	text, ok := data.(string)
	if !ok || from.Kind() != reflect.String {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Float64:
		if strings.Contains(text, ":") {
			return netedit.ParseTime(text)
		}
	case reflect.Bool:
		return netedit.ParseBool(text)
	}
	return data, nil
}
