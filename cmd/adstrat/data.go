package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/adstrat/dataset"
	"github.com/pbanos/adstrat/dataset/csv"
	"github.com/pbanos/adstrat/dataset/mongodataset"
	"github.com/pbanos/adstrat/dataset/sqldataset"
	"github.com/pbanos/adstrat/dataset/sqldataset/pgadapter"
	"github.com/pbanos/adstrat/dataset/sqldataset/sqlite3adapter"
)

const dataLocationHelp = "path to a CSV (.csv) or SQLite3 (.db) file, a PostgreSQL DB connection URL (postgresql://...) or a MongoDB connection URL (mongodb://...)"

type dataKind int

const (
	csvData dataKind = iota
	sqlite3Data
	postgreSQLData
	mongoData
)

func kindOf(location string) dataKind {
	switch {
	case strings.HasPrefix(location, "postgresql://"), strings.HasPrefix(location, "postgres://"):
		return postgreSQLData
	case strings.HasPrefix(location, "mongodb://"):
		return mongoData
	case strings.HasSuffix(location, ".db"):
		return sqlite3Data
	}
	return csvData
}

func (rcc *rootCmdConfig) sqlAdapter(location string) (sqldataset.Adapter, error) {
	if kindOf(location) == postgreSQLData {
		rcc.Logf("Creating PostgreSQL adapter for url %s...", location)
		return pgadapter.New(location)
	}
	rcc.Logf("Creating SQLite3 adapter for file %s...", location)
	return sqlite3adapter.New(location)
}

/*
readDataset takes a context and the location of a dataset and returns
the dataset read from it, or an error. The location is read as CSV from
STDIN when empty.
*/
func (rcc *rootCmdConfig) readDataset(ctx context.Context, location string) (dataset.Dataset, error) {
	switch kindOf(location) {
	case postgreSQLData, sqlite3Data:
		adapter, err := rcc.sqlAdapter(location)
		if err != nil {
			return nil, err
		}
		defer adapter.Close()
		return sqldataset.Read(ctx, adapter)
	case mongoData:
		rcc.Logf("Connecting to MongoDB at %s...", location)
		store, err := mongodataset.Dial(location)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Dataset(ctx)
	}
	if location == "" {
		rcc.Logf("Reading dataset from STDIN...")
	} else {
		rcc.Logf("Opening %s to read dataset...", location)
	}
	return csv.ReadDatasetFromFilePath(location)
}

/*
writeDataset takes a context, the location of a dataset and a dataset
and writes the dataset on the location, or returns an error. The dataset
is written as CSV to STDOUT when the location is empty.
*/
func (rcc *rootCmdConfig) writeDataset(ctx context.Context, location string, ds dataset.Dataset) error {
	switch kindOf(location) {
	case postgreSQLData, sqlite3Data:
		adapter, err := rcc.sqlAdapter(location)
		if err != nil {
			return err
		}
		defer adapter.Close()
		_, err = sqldataset.Write(ctx, adapter, ds)
		return err
	case mongoData:
		rcc.Logf("Connecting to MongoDB at %s...", location)
		store, err := mongodataset.Dial(location)
		if err != nil {
			return err
		}
		defer store.Close()
		_, err = store.Write(ctx, ds)
		return err
	}
	f := os.Stdout
	if location != "" {
		rcc.Logf("Creating %s to dump dataset...", location)
		var err error
		f, err = os.Create(location)
		if err != nil {
			return fmt.Errorf("creating %s: %v", location, err)
		}
		defer f.Close()
	}
	return csv.WriteDataset(f, ds)
}
