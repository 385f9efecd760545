/*
Package inputsample reads records whose values are requested
and read one by one from an io.Reader, typically a terminal.
*/
package inputsample

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pbanos/adstrat/feature"
)

/*
ValueRequester represents a way to ask
for values and reject the given values.
*/
type ValueRequester interface {
	// RequestValueFor asks for the value of the field
	// with the given name, among the given choices
	// (any value is accepted when there are none).
	RequestValueFor(name string, choices []string) error
	// RejectValueFor reports the given value is not
	// valid for the field with the given name.
	RejectValueFor(name, value string) error
}

/*
Reader reads records from an io.Reader, requesting each of their values
with a ValueRequester before reading it.
*/
type Reader struct {
	scanner        *bufio.Scanner
	requester      ValueRequester
	undefinedValue string
	choices        map[feature.Attribute][]string
}

/*
New takes an io.Reader, a ValueRequester and an undefinedValue coding
string and returns a Reader.

The parsing expects each value to be presented ending with the
'\n' character, that is in new lines. Also, the undefinedValue
string followed by the '\n' character will be interpreted as an
undefined value.
*/
func New(r io.Reader, requester ValueRequester, undefinedValue string) *Reader {
	return &Reader{
		scanner:        bufio.NewScanner(r),
		requester:      requester,
		undefinedValue: undefinedValue,
		choices:        make(map[feature.Attribute][]string),
	}
}

/*
WithChoices takes a map of attributes to the values they accept and
returns the reader, restricting the values it accepts for those
attributes. Values for attributes not in the map are not restricted.
*/
func (rr *Reader) WithChoices(choices map[feature.Attribute][]string) *Reader {
	for a, cs := range choices {
		rr.choices[a] = cs
	}
	return rr
}

/*
Read requests and reads the age and the value of every attribute of a
record, and returns the record or an error.

Lines will be read from the reader until a line containing a valid
non-negative integer is found for the age, or a line with an accepted
value for each attribute. Non accepted values will be rejected with
the ValueRequester's RejectValueFor method. An undefined age is read
as feature.MissingAge and an undefined attribute value as the empty
string. The click label of the record is feature.Unknown.
*/
func (rr *Reader) Read() (feature.Record, error) {
	r := feature.Record{Click: feature.Unknown}
	age, err := rr.readAge()
	if err != nil {
		return r, err
	}
	r.Age = age
	for _, a := range feature.Attributes() {
		v, err := rr.readAttribute(a)
		if err != nil {
			return r, err
		}
		r = r.With(a, v)
	}
	return r, nil
}

func (rr *Reader) readAge() (int, error) {
	err := rr.requester.RequestValueFor("age", nil)
	if err != nil {
		return 0, err
	}
	for rr.scanner.Scan() {
		line := strings.TrimSpace(rr.scanner.Text())
		if line == rr.undefinedValue {
			return feature.MissingAge, nil
		}
		age, err := strconv.Atoi(line)
		if err == nil && age >= 0 {
			return age, nil
		}
		err = rr.requester.RejectValueFor("age", line)
		if err != nil {
			return 0, err
		}
	}
	return 0, rr.eof()
}

func (rr *Reader) readAttribute(a feature.Attribute) (string, error) {
	choices := rr.choices[a]
	err := rr.requester.RequestValueFor(a.Name(), choices)
	if err != nil {
		return "", err
	}
	for rr.scanner.Scan() {
		line := strings.TrimSpace(rr.scanner.Text())
		if line == rr.undefinedValue {
			return "", nil
		}
		if accepts(choices, line) {
			return line, nil
		}
		err = rr.requester.RejectValueFor(a.Name(), line)
		if err != nil {
			return "", err
		}
	}
	return "", rr.eof()
}

func (rr *Reader) eof() error {
	if err := rr.scanner.Err(); err != nil {
		return err
	}
	return fmt.Errorf("EOF when requesting value")
}

func accepts(choices []string, value string) bool {
	if len(choices) == 0 {
		return value != ""
	}
	for _, c := range choices {
		if c == value {
			return true
		}
	}
	return false
}
