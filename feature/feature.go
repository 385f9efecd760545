package feature

import (
	"fmt"
	"strings"
)

/*
Attribute identifies one of the categorical properties of a Record that a
tree can split on. The set of attributes is closed: only the constants
declared below are valid, and each one maps to exactly one accessor on
Record.
*/
type Attribute int

// The categorical attributes of a Record.
const (
	Gender Attribute = iota
	DeviceType
	AdPosition
	BrowsingHistory
	TimeOfDay
)

// AttributeError represents an error in the configuration of attributes
type AttributeError string

/*
ErrUnknownAttribute is returned when parsing an attribute name that does
not correspond to any Attribute.
*/
const ErrUnknownAttribute = AttributeError("unknown attribute")

/*
ErrDuplicateAttribute is returned when a list of attribute names refers to
the same attribute more than once.
*/
const ErrDuplicateAttribute = AttributeError("duplicate attribute")

func (ae AttributeError) Error() string {
	return string(ae)
}

var attributeNames = [...]string{
	Gender:          "gender",
	DeviceType:      "deviceType",
	AdPosition:      "adPosition",
	BrowsingHistory: "browsingHistory",
	TimeOfDay:       "timeOfDay",
}

var accessors = [...]func(*Record) *string{
	Gender:          func(r *Record) *string { return &r.Gender },
	DeviceType:      func(r *Record) *string { return &r.DeviceType },
	AdPosition:      func(r *Record) *string { return &r.AdPosition },
	BrowsingHistory: func(r *Record) *string { return &r.BrowsingHistory },
	TimeOfDay:       func(r *Record) *string { return &r.TimeOfDay },
}

/*
Attributes returns a slice with every Attribute in declaration order.
*/
func Attributes() []Attribute {
	return []Attribute{Gender, DeviceType, AdPosition, BrowsingHistory, TimeOfDay}
}

/*
ParseAttribute takes an attribute name and returns the corresponding
Attribute. Names are matched ignoring case and underscores, so
"deviceType", "devicetype" and "device_type" all refer to DeviceType.
An error wrapping ErrUnknownAttribute is returned for any other name.
*/
func ParseAttribute(name string) (Attribute, error) {
	normalized := normalizeName(name)
	for a, an := range attributeNames {
		if normalizeName(an) == normalized {
			return Attribute(a), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownAttribute, name)
}

/*
ParseAttributes takes an ordered slice of attribute names and returns the
corresponding attributes in the same order, or an error if any name is
unknown or refers to an attribute already in the list.
*/
func ParseAttributes(names []string) ([]Attribute, error) {
	result := make([]Attribute, 0, len(names))
	seen := make(map[Attribute]bool)
	for _, name := range names {
		a, err := ParseAttribute(name)
		if err != nil {
			return nil, err
		}
		if seen[a] {
			return nil, fmt.Errorf("%w %q", ErrDuplicateAttribute, name)
		}
		seen[a] = true
		result = append(result, a)
	}
	return result, nil
}

/*
Name returns the name of the attribute
*/
func (a Attribute) Name() string {
	if !a.Valid() {
		return fmt.Sprintf("attribute(%d)", int(a))
	}
	return attributeNames[a]
}

/*
Valid returns whether the attribute is one of the declared constants
*/
func (a Attribute) Valid() bool {
	return a >= 0 && int(a) < len(attributeNames)
}

/*
ValueOf returns the value the given record takes for the attribute. Invalid
attributes have no value and yield the empty string.
*/
func (a Attribute) ValueOf(r Record) string {
	if !a.Valid() {
		return ""
	}
	return *accessors[a](&r)
}

func (a Attribute) String() string {
	return a.Name()
}

func normalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}
