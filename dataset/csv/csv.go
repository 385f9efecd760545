/*
Package csv reads and writes datasets of ad impressions as CSV.

The first row of the CSV content is a header naming the columns. The
columns read are age, click and one for each feature.Attribute, named
after it either in snake_case (device_type) or in camelCase (deviceType).
Other columns, such as an id or a visitor's full name, are ignored.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pbanos/adstrat/dataset"
	"github.com/pbanos/adstrat/feature"
)

/*
Writer is an interface for a CSV stream to which records
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given records
	// and will return the actually written number of
	// records and an error (if not all records could be
	// written)
	Write([]feature.Record) (int, error)
	// Count returns the total number of records written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count int
	w     *csv.Writer
}

type column func(r *feature.Record, value string) error

var header = []string{"age", "gender", "device_type", "ad_position", "browsing_history", "time_of_day", "click"}

/*
ReadDataset takes an io.Reader for a CSV stream and returns the dataset
of records parsed from it or an error.

An empty age is read as feature.MissingAge and an empty categorical value
as the empty string, to be filled by imputation. An empty click is read
as feature.NoClick and a '?' click as feature.Unknown.
*/
func ReadDataset(reader io.Reader) (dataset.Dataset, error) {
	ds := dataset.Dataset{}
	err := ReadDatasetByRecord(reader, func(_ int, r feature.Record) (bool, error) {
		ds = append(ds, r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

/*
ReadDatasetByRecord takes an io.Reader for a CSV stream and a lambda
function on an integer and a feature.Record that returns a boolean value.
It parses the records from the reader and for each it calls the lambda
function with the record and its index as parameters. If the lambda
function returns true, it will continue processing the next record,
otherwise it will stop. An error is returned if something goes wrong
when reading the stream or parsing a record.
*/
func ReadDatasetByRecord(reader io.Reader, lambda func(int, feature.Record) (bool, error)) error {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	h, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	columns := parseHeader(h)
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		record, err := parseRow(row, columns)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, record)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadDatasetFromFilePath takes a filepath string, opens the file to which
the filepath points to and uses ReadDataset to return the dataset in it
or an error. STDIN is read when the filepath is empty.
*/
func ReadDatasetFromFilePath(filepath string) (dataset.Dataset, error) {
	f := os.Stdin
	if filepath != "" {
		var err error
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("opening dataset: %v", err)
		}
		defer f.Close()
	}
	ds, err := ReadDataset(f)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return ds, nil
}

/*
NewWriter takes an io.Writer and returns a Writer that will write any
records on it, after writing the header row.
*/
func NewWriter(writer io.Writer) (Writer, error) {
	w := csv.NewWriter(writer)
	err := w.Write(header)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{w: w}, nil
}

/*
WriteDataset takes a writer and a dataset and dumps to the writer the
dataset in CSV format. It returns an error if something went wrong when
writing to the writer.
*/
func WriteDataset(writer io.Writer, ds dataset.Dataset) error {
	cw, err := NewWriter(writer)
	if err != nil {
		return err
	}
	_, err = cw.Write(ds)
	if err != nil {
		return err
	}
	return cw.Flush()
}

func parseHeader(h []string) []column {
	columns := make([]column, len(h))
	for i, name := range h {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "age":
			columns[i] = parseAge
		case "click":
			columns[i] = parseClick
		default:
			a, err := feature.ParseAttribute(strings.TrimSpace(name))
			if err != nil {
				continue
			}
			columns[i] = func(r *feature.Record, value string) error {
				*r = r.With(a, value)
				return nil
			}
		}
	}
	return columns
}

func parseRow(row []string, columns []column) (feature.Record, error) {
	r := feature.Record{Age: feature.MissingAge, Click: feature.NoClick}
	for i, c := range columns {
		if c == nil || i >= len(row) {
			continue
		}
		err := c(&r, strings.TrimSpace(row[i]))
		if err != nil {
			return r, err
		}
	}
	return r, nil
}

func parseAge(r *feature.Record, value string) error {
	if value == "" {
		r.Age = feature.MissingAge
		return nil
	}
	age, err := strconv.Atoi(value)
	if err != nil {
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil {
			return fmt.Errorf("converting age %q to int: %v", value, err)
		}
		if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
			return fmt.Errorf("converting age %q to int: out of range", value)
		}
		age = int(f)
	}
	r.Age = age
	return nil
}

func parseClick(r *feature.Record, value string) error {
	switch value {
	case "", "0":
		r.Click = feature.NoClick
	case "1":
		r.Click = feature.Click
	case "?":
		r.Click = feature.Unknown
	default:
		return fmt.Errorf("invalid click value %q", value)
	}
	return nil
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(records []feature.Record) (int, error) {
	for n, r := range records {
		err := cw.WriteRecord(r)
		if err != nil {
			return n, err
		}
	}
	return len(records), nil
}

func (cw *csvWriter) WriteRecord(r feature.Record) error {
	age := ""
	if r.Age != feature.MissingAge {
		age = strconv.Itoa(r.Age)
	}
	row := []string{age, r.Gender, r.DeviceType, r.AdPosition, r.BrowsingHistory, r.TimeOfDay, r.Click.String()}
	err := cw.w.Write(row)
	if err != nil {
		return fmt.Errorf("writing CSV row for record %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
