package sqldataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pbanos/adstrat/dataset"
	"github.com/pbanos/adstrat/feature"
)

/*
Write takes a context, an Adapter and a dataset and stores the records in
the dataset on the adapter's database, creating the tables if needed and
appending to the records already there. It returns the number of records
written and an error if not all of them could be written.
*/
func Write(ctx context.Context, a Adapter, ds dataset.Dataset) (int, error) {
	err := a.CreateTables(ctx)
	if err != nil {
		return 0, err
	}
	ids, err := ensureDiscreteValues(ctx, a, ds)
	if err != nil {
		return 0, err
	}
	rows := make([]*Row, 0, len(ds))
	for _, r := range ds {
		rows = append(rows, toRow(r, ids))
	}
	n, err := a.AddRows(ctx, rows)
	if err != nil {
		return n, fmt.Errorf("writing records: %v", err)
	}
	return n, nil
}

/*
Read takes a context and an Adapter and returns the dataset of records
stored on the adapter's database, in insertion order, or an error.
*/
func Read(ctx context.Context, a Adapter) (dataset.Dataset, error) {
	values, err := a.ListDiscreteValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing discrete values: %v", err)
	}
	ds := dataset.Dataset{}
	err = a.IterateOnRows(ctx, func(i int, row *Row) (bool, error) {
		r, err := fromRow(row, values)
		if err != nil {
			return false, fmt.Errorf("reading record %d: %v", i, err)
		}
		ds = append(ds, r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// Count takes a context and an Adapter and returns the number of records
// stored on the adapter's database.
func Count(ctx context.Context, a Adapter) (int, error) {
	return a.CountRows(ctx)
}

func ensureDiscreteValues(ctx context.Context, a Adapter, ds dataset.Dataset) (map[string]int, error) {
	ids, err := discreteValueIDs(ctx, a)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, r := range ds {
		for _, attr := range feature.Attributes() {
			v := attr.ValueOf(r)
			if _, ok := ids[v]; !ok && v != "" {
				ids[v] = 0
				missing = append(missing, v)
			}
		}
	}
	if len(missing) == 0 {
		return ids, nil
	}
	_, err = a.AddDiscreteValues(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("adding discrete values: %v", err)
	}
	return discreteValueIDs(ctx, a)
}

func discreteValueIDs(ctx context.Context, a Adapter) (map[string]int, error) {
	values, err := a.ListDiscreteValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing discrete values: %v", err)
	}
	ids := make(map[string]int, len(values))
	for id, v := range values {
		ids[v] = id
	}
	return ids, nil
}

func toRow(r feature.Record, ids map[string]int) *Row {
	row := NewRow()
	if r.Age != feature.MissingAge {
		row.Age = sql.NullInt64{Int64: int64(r.Age), Valid: true}
	}
	for _, attr := range feature.Attributes() {
		if v := attr.ValueOf(r); v != "" {
			row.Values[attr] = sql.NullInt64{Int64: int64(ids[v]), Valid: true}
		}
	}
	if r.Click.Valid() {
		row.Click = sql.NullInt64{Int64: int64(r.Click), Valid: true}
	}
	return row
}

func fromRow(row *Row, values map[int]string) (feature.Record, error) {
	r := feature.Record{Age: feature.MissingAge, Click: feature.Unknown}
	if row.Age.Valid {
		r.Age = int(row.Age.Int64)
	}
	for _, attr := range feature.Attributes() {
		id := row.Values[attr]
		if !id.Valid {
			continue
		}
		v, ok := values[int(id.Int64)]
		if !ok {
			return r, fmt.Errorf("unknown discrete value id %d for %v", id.Int64, attr)
		}
		r = r.With(attr, v)
	}
	if row.Click.Valid {
		r.Click = feature.Label(row.Click.Int64)
		if !r.Click.Valid() {
			return r, fmt.Errorf("invalid click value %d", row.Click.Int64)
		}
	}
	return r, nil
}
