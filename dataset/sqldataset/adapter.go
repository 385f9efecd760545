package sqldataset

import (
	"context"
	"database/sql"

	"github.com/pbanos/adstrat/feature"
)

// Row is a record as stored in the records table
type Row struct {
	Age sql.NullInt64
	// References to the discreteValues table, indexed by feature.Attribute
	Values []sql.NullInt64
	Click  sql.NullInt64
}

/*
Adapter is an interface providing the methods
needed to read and write datasets on a database backend.
*/
type Adapter interface {
	// CreateTables ensures the discreteValues and records
	// tables exist on the database
	CreateTables(context.Context) error

	// AddDiscreteValues inserts the given values on the
	// discreteValues table, returning the number of inserted
	// values and an error if not all of them could be inserted
	AddDiscreteValues(context.Context, []string) (int, error)
	// ListDiscreteValues returns the values in the discreteValues
	// table indexed by their id
	ListDiscreteValues(context.Context) (map[int]string, error)

	// AddRows inserts the given rows on the records table,
	// returning the number of inserted rows and an error if
	// not all of them could be inserted
	AddRows(context.Context, []*Row) (int, error)
	// IterateOnRows calls the lambda with the index and
	// contents of each row in the records table, in insertion
	// order, until it returns false or an error
	IterateOnRows(context.Context, func(int, *Row) (bool, error)) error
	// CountRows returns the number of rows in the records table
	CountRows(context.Context) (int, error)

	// Close releases the connection to the database
	Close() error
}

// AttributeColumns holds the name of the column for each attribute,
// indexed by feature.Attribute
var AttributeColumns = []string{
	feature.Gender:          "gender",
	feature.DeviceType:      "device_type",
	feature.AdPosition:      "ad_position",
	feature.BrowsingHistory: "browsing_history",
	feature.TimeOfDay:       "time_of_day",
}

// Columns returns the names of the columns of the records table in the
// order adapters read and write them: age, the attribute columns and click.
func Columns() []string {
	columns := append([]string{"age"}, AttributeColumns...)
	return append(columns, "click")
}

// NewRow returns a row with every column NULL
func NewRow() *Row {
	return &Row{Values: make([]sql.NullInt64, len(AttributeColumns))}
}

// Args returns the values of the row as arguments for a statement
// inserting it, in the order of Columns.
func (r *Row) Args() []interface{} {
	args := make([]interface{}, 0, len(r.Values)+2)
	args = append(args, r.Age)
	for _, v := range r.Values {
		args = append(args, v)
	}
	return append(args, r.Click)
}

// ScanDest returns pointers to the fields of the row to scan a query
// result on, in the order of Columns.
func (r *Row) ScanDest() []interface{} {
	dest := make([]interface{}, 0, len(r.Values)+2)
	dest = append(dest, &r.Age)
	for i := range r.Values {
		dest = append(dest, &r.Values[i])
	}
	return append(dest, &r.Click)
}
