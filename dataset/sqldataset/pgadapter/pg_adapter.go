/*
Package pgadapter provides an implementation of the
Adapter interface in the sqldataset package that works
over a PostgreSQL database.
*/
package pgadapter

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/adstrat/dataset/sqldataset"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"
)

const (
	discreteValueTableCreateStmt = `CREATE TABLE IF NOT EXISTS discreteValues (
		id SERIAL PRIMARY KEY,
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
New takes a PostgreSQL database connection URL and returns an Adapter that
works on the database or an error if it fails to connect to it.
*/
func New(url string) (sqldataset.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to PostgreSQL: %v", err)
	}
	return &adapter{db}, nil
}

func (a *adapter) CreateTables(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, discreteValueTableCreateStmt)
	if err != nil {
		return fmt.Errorf("running discreteValues creation statement: %v", err)
	}
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString(`CREATE TABLE IF NOT EXISTS records("id" SERIAL PRIMARY KEY, "age" INTEGER NULL, `)
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
		var stmt bytes.Buffer
		stmt.WriteString("INSERT INTO discreteValues (value) VALUES ")
		args := make([]interface{}, 0, len(chunk))
		for i, v := range chunk {
			if i > 0 {
				stmt.WriteString(", ")
			}
			stmt.WriteString(fmt.Sprintf("($%d)", i+1))
			args = append(args, v)
		}
		_, err := a.db.ExecContext(ctx, stmt.String(), args...)
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
	var n int
	for len(rows) > 0 {
		chunk := rows
		if len(chunk) > MaxRowInsertionsPerStatement {
			chunk = chunk[:MaxRowInsertionsPerStatement]
		}
		var stmt bytes.Buffer
		stmt.WriteString(fmt.Sprintf("INSERT INTO records (%s) VALUES ", columns))
		var args []interface{}
		for i, r := range chunk {
			if i > 0 {
				stmt.WriteString(", ")
			}
			placeholders := make([]string, 0, len(sqldataset.Columns()))
			for _, arg := range r.Args() {
				args = append(args, arg)
				placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
			}
			stmt.WriteString("(" + strings.Join(placeholders, ", ") + ")")
		}
		_, err := a.db.ExecContext(ctx, stmt.String(), args...)
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
