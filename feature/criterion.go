package feature

import "fmt"

/*
Criterion represents an equality constraint on an attribute: a record
satisfies it when its value for the attribute is exactly the criterion's
value.
*/
type Criterion struct {
	Attribute Attribute
	Value     string
}

/*
NewCriterion takes an attribute and a value and returns a Criterion
constraining the attribute to the value.
*/
func NewCriterion(a Attribute, value string) Criterion {
	return Criterion{a, value}
}

/*
SatisfiedBy receives a record and returns a boolean indicating if the
record's value for the criterion's attribute equals the criterion value.
*/
func (c Criterion) SatisfiedBy(r Record) bool {
	return c.Attribute.ValueOf(r) == c.Value
}

func (c Criterion) String() string {
	return fmt.Sprintf("%s is %s", c.Attribute.Name(), c.Value)
}
