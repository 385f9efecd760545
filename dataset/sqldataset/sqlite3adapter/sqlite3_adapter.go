/*
Package sqlite3adapter provides an implementation of the
Adapter interface in the sqldataset package that works
over an SQLite3 database file.
*/
package sqlite3adapter

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/adstrat/dataset/sqldataset"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

const (
	discreteValueTableCreateStmt = `CREATE TABLE IF NOT EXISTS discreteValues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT UNIQUE NOT NULL)`

	// MaxDiscreteValueInsertionsPerStatement is the maximum number
	// of discrete values that are added with a single insert command
	// by the AddDiscreteValues method of the adapter.
	// Trying to add more will result in making more insertion commands
	MaxDiscreteValueInsertionsPerStatement = 10

	// MaxRowInsertionsPerStatement is the maximum number
	// of rows that are added with a single insert command
	// by the AddRows method of the adapter.
	// Trying to add more will result in making more insertion commands
	MaxRowInsertionsPerStatement = 10
)

type adapter struct {
	db *sql.DB
}

/*
New takes a path to an SQLite3 database file and returns an Adapter that works
on the file's database or an error if it fails to open as an sqlite3 database.
*/
func New(path string) (sqldataset.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func (a *adapter) CreateTables(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, "PRAGMA foreign_keys=ON")
	if err != nil {
		return err
	}
	_, err = a.db.ExecContext(ctx, discreteValueTableCreateStmt)
	if err != nil {
		return fmt.Errorf("running discreteValues creation statement: %v", err)
	}
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString(`CREATE TABLE IF NOT EXISTS records("id" INTEGER PRIMARY KEY AUTOINCREMENT, "age" INTEGER NULL, `)
	for _, c := range sqldataset.AttributeColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`"%s" INTEGER NULL REFERENCES discreteValues(id), `, c))
	}
	createStmtBuf.WriteString(`"click" INTEGER NULL)`)
	_, err = a.db.ExecContext(ctx, createStmtBuf.String())
	if err != nil {
		return fmt.Errorf("ensuring records table exists: %v", err)
	}
	return nil
}

func (a *adapter) AddDiscreteValues(ctx context.Context, values []string) (int, error) {
	var n int
	for len(values) > 0 {
		chunk := values
		if len(chunk) > MaxDiscreteValueInsertionsPerStatement {
			chunk = chunk[:MaxDiscreteValueInsertionsPerStatement]
		}
		stmt := "INSERT INTO discreteValues (value) VALUES (?)" + strings.Repeat(", (?)", len(chunk)-1)
		args := make([]interface{}, 0, len(chunk))
		for _, v := range chunk {
			args = append(args, v)
		}
		_, err := a.db.ExecContext(ctx, stmt, args...)
		if err != nil {
			return n, fmt.Errorf("inserting %d values after %d: %v", len(chunk), n, err)
		}
		n += len(chunk)
		values = values[len(chunk):]
	}
	return n, nil
}

func (a *adapter) ListDiscreteValues(ctx context.Context) (map[int]string, error) {
	rows, err := a.db.QueryContext(ctx, "SELECT id, value FROM discreteValues")
	if err != nil {
		return nil, fmt.Errorf("querying discrete values: %v", err)
	}
	defer rows.Close()
	result := make(map[int]string)
	for rows.Next() {
		var id int
		var value string
		err = rows.Scan(&id, &value)
		if err != nil {
			return nil, fmt.Errorf("scanning discrete value: %v", err)
		}
		result[id] = value
	}
	return result, rows.Err()
}

func (a *adapter) AddRows(ctx context.Context, rows []*sqldataset.Row) (int, error) {
	columns := quotedColumns()
	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(sqldataset.Columns())), ", ") + ")"
	var n int
	for len(rows) > 0 {
		chunk := rows
		if len(chunk) > MaxRowInsertionsPerStatement {
			chunk = chunk[:MaxRowInsertionsPerStatement]
		}
		stmt := fmt.Sprintf("INSERT INTO records (%s) VALUES %s%s", columns, rowPlaceholder, strings.Repeat(", "+rowPlaceholder, len(chunk)-1))
		var args []interface{}
		for _, r := range chunk {
			args = append(args, r.Args()...)
		}
		_, err := a.db.ExecContext(ctx, stmt, args...)
		if err != nil {
			return n, fmt.Errorf("inserting %d rows after %d: %v", len(chunk), n, err)
		}
		n += len(chunk)
		rows = rows[len(chunk):]
	}
	return n, nil
}

func (a *adapter) IterateOnRows(ctx context.Context, lambda func(int, *sqldataset.Row) (bool, error)) error {
	rows, err := a.db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM records ORDER BY id", quotedColumns()))
	if err != nil {
		return fmt.Errorf("querying records: %v", err)
	}
	defer rows.Close()
	for i := 0; rows.Next(); i++ {
		r := sqldataset.NewRow()
		err = rows.Scan(r.ScanDest()...)
		if err != nil {
			return fmt.Errorf("scanning record %d: %v", i, err)
		}
		ok, err := lambda(i, r)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return rows.Err()
}

func (a *adapter) CountRows(ctx context.Context) (int, error) {
	var count int
	err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting records: %v", err)
	}
	return count, nil
}

func (a *adapter) Close() error {
	return a.db.Close()
}

func quotedColumns() string {
	columns := sqldataset.Columns()
	for i, c := range columns {
		columns[i] = fmt.Sprintf(`"%s"`, c)
	}
	return strings.Join(columns, ", ")
}
