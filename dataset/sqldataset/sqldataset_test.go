package sqldataset_test

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/adstrat/dataset"
	"github.com/pbanos/adstrat/dataset/sqldataset"
	"github.com/pbanos/adstrat/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/adstrat/feature"
)

func records(n int) dataset.Dataset {
	genders := []string{"Male", "Female", ""}
	times := []string{"Morning", "Night", "Evening", "Afternoon"}
	ds := dataset.Dataset{}
	for i := 0; i < n; i++ {
		r := feature.Record{
			Age:             20 + i,
			Gender:          genders[i%len(genders)],
			DeviceType:      "Mobile",
			AdPosition:      "Top",
			BrowsingHistory: "News",
			TimeOfDay:       times[i%len(times)],
			Click:           feature.Label(i % 2),
		}
		if i%5 == 0 {
			r.Age = feature.MissingAge
		}
		ds = append(ds, r)
	}
	return ds
}

func TestSQLite3RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir, err := ioutil.TempDir("", "adstrat-sqldataset")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	a, err := sqlite3adapter.New(filepath.Join(dir, "records.db"))
	require.NoError(t, err)
	defer a.Close()

	ds := records(23)
	n, err := sqldataset.Write(ctx, a, ds)
	require.NoError(t, err)
	assert.Equal(t, 23, n)

	read, err := sqldataset.Read(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, ds, read)

	more := records(2)
	_, err = sqldataset.Write(ctx, a, more)
	require.NoError(t, err)
	count, err := sqldataset.Count(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 25, count)

	values, err := a.ListDiscreteValues(ctx)
	require.NoError(t, err)
	assert.Len(t, values, 9, "values are stored once")
}

func TestSQLite3IterateStops(t *testing.T) {
	ctx := context.Background()
	dir, err := ioutil.TempDir("", "adstrat-sqldataset")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	a, err := sqlite3adapter.New(filepath.Join(dir, "records.db"))
	require.NoError(t, err)
	defer a.Close()
	_, err = sqldataset.Write(ctx, a, records(5))
	require.NoError(t, err)

	var seen int
	err = a.IterateOnRows(ctx, func(i int, _ *sqldataset.Row) (bool, error) {
		seen++
		return i < 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, seen)
}
