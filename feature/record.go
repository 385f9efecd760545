package feature

import "fmt"

/*
Label is the binary outcome of displaying an ad: whether it was clicked.
Unknown marks a record whose outcome is yet to be predicted.
*/
type Label int

// Possible values of a Label
const (
	Unknown Label = -1
	NoClick Label = 0
	Click   Label = 1
)

/*
MissingAge is the age ingestion assigns to records with no age value.
Imputation replaces it with the mean of the known ages.
*/
const MissingAge = -1

/*
Record is a visitor/context observation for a displayed ad. It is a value
type: methods that modify a record return a modified copy.
*/
type Record struct {
	Age             int
	Gender          string
	DeviceType      string
	AdPosition      string
	BrowsingHistory string
	TimeOfDay       string
	Click           Label
}

/*
ValueFor returns the value of the record for the given attribute
*/
func (r Record) ValueFor(a Attribute) string {
	return a.ValueOf(r)
}

/*
With takes an attribute and a value and returns a copy of the record in
which the attribute takes the given value. The receiver is not modified.
Invalid attributes leave the copy unchanged.
*/
func (r Record) With(a Attribute, value string) Record {
	if a.Valid() {
		*accessors[a](&r) = value
	}
	return r
}

/*
Valid returns whether the label is one of Click or NoClick
*/
func (l Label) Valid() bool {
	return l == Click || l == NoClick
}

func (l Label) String() string {
	switch l {
	case Click:
		return "1"
	case NoClick:
		return "0"
	case Unknown:
		return "?"
	}
	return fmt.Sprintf("label(%d)", int(l))
}

func (r Record) String() string {
	return fmt.Sprintf("[age=%d gender=%s deviceType=%s adPosition=%s browsingHistory=%s timeOfDay=%s click=%v]",
		r.Age, r.Gender, r.DeviceType, r.AdPosition, r.BrowsingHistory, r.TimeOfDay, r.Click)
}
