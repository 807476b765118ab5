package netedit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind determines how the text of an attribute is parsed and normalised
type ValueKind int

const (
	KindString ValueKind = iota
	KindID
	KindFloat
	KindBool
	KindTime
	KindList
	KindParameters
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindID:
		return "id"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindList:
		return "list"
	case KindParameters:
		return "parameters"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// IsNumeric reports whether values of this kind have a float interpretation
func (k ValueKind) IsNumeric() bool {
	return k == KindFloat || k == KindTime
}

const (
	invalidIDChars        = " \t\n\r@$%^&/|\\{}*'\";:<>,"
	invalidAttributeChars = "\t\n\r&|\\'\";<>"
	invalidFilenameChars  = "\t\n\r@$%^&|{}*'\";<>"
)

// IsValidID reports whether s can be used as an element or type id
func IsValidID(s string) bool {
	return s != "" && !strings.ContainsAny(s, invalidIDChars)
}

// IsValidAttributeText reports whether s can be written as a free text attribute
func IsValidAttributeText(s string) bool {
	return !strings.ContainsAny(s, invalidAttributeChars)
}

// IsValidFilename reports whether s can be used as an output file name
func IsValidFilename(s string) bool {
	return !strings.ContainsAny(s, invalidFilenameChars)
}

// ParseBool accepts the boolean spellings used by network files
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on", "x":
		return true, nil
	case "0", "false", "no", "off", "-":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool %q", s)
}

// ParseFloat parses a finite float
func ParseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

// ParseTime parses seconds or a [[D:]H:]M:S clock value into seconds
func ParseTime(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ":") {
		v, err := ParseFloat(s)
		if err != nil {
			return 0, err
		}
		if v < 0 {
			return 0, fmt.Errorf("negative time %q", s)
		}
		return v, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) > 4 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	factors := []float64{1, 60, 3600, 86400}
	// upper bounds for seconds, minutes and hours below a larger component
	limits := []float64{60, 60, 24}
	var total float64
	for i := range parts {
		v, err := ParseFloat(parts[len(parts)-1-i])
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", s, err)
		}
		if v < 0 {
			return 0, fmt.Errorf("negative time component in %q", s)
		}
		if i < len(parts)-1 && v >= limits[i] {
			return 0, fmt.Errorf("time component out of range in %q", s)
		}
		total += v * factors[i]
	}
	return total, nil
}

// FormatFloat renders a float in canonical attribute form
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatBool renders a bool in canonical attribute form
func FormatBool(v bool) string {
	return strconv.FormatBool(v)
}

// canonical parses text according to kind and returns its normalised form
func canonical(kind ValueKind, text string) (string, error) {
	switch kind {
	case KindString:
		if !IsValidAttributeText(text) {
			return "", fmt.Errorf("invalid characters in %q", text)
		}
		return text, nil
	case KindID:
		if !IsValidID(text) {
			return "", fmt.Errorf("invalid id %q", text)
		}
		return text, nil
	case KindFloat:
		v, err := ParseFloat(text)
		if err != nil {
			return "", err
		}
		return FormatFloat(v), nil
	case KindBool:
		v, err := ParseBool(text)
		if err != nil {
			return "", err
		}
		return FormatBool(v), nil
	case KindTime:
		v, err := ParseTime(text)
		if err != nil {
			return "", err
		}
		return FormatFloat(v), nil
	case KindList:
		fields := strings.Fields(text)
		for _, f := range fields {
			if !IsValidID(f) {
				return "", fmt.Errorf("invalid list entry %q", f)
			}
		}
		return strings.Join(fields, " "), nil
	case KindParameters:
		p, err := ParseParameters(text)
		if err != nil {
			return "", err
		}
		return p.String(), nil
	}
	return "", fmt.Errorf("unsupported value kind %v", kind)
}

// Position is a point in network coordinates
type Position struct {
	X float64
	Y float64
	Z float64
}

// String renders the position as "x,y" or "x,y,z" when z is set
func (p Position) String() string {
	if p.Z == 0 {
		return FormatFloat(p.X) + "," + FormatFloat(p.Y)
	}
	return FormatFloat(p.X) + "," + FormatFloat(p.Y) + "," + FormatFloat(p.Z)
}

// ParsePosition parses "x,y" or "x,y,z"
func ParsePosition(s string) (Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return Position{}, fmt.Errorf("invalid position %q", s)
	}
	var coords [3]float64
	for i, part := range parts {
		v, err := ParseFloat(part)
		if err != nil {
			return Position{}, fmt.Errorf("invalid position %q: %w", s, err)
		}
		coords[i] = v
	}
	return Position{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}
