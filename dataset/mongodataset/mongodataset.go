/*
Package mongodataset reads and writes datasets of records on a MongoDB
collection.
*/
package mongodataset

import (
	"context"
	"fmt"

	"github.com/pbanos/adstrat/dataset"
	"github.com/pbanos/adstrat/feature"
	mgo "gopkg.in/mgo.v2"
)

// DefaultCollection is the name of the collection records are kept in
// unless told otherwise
const DefaultCollection = "records"

/*
Store gives access to the records in a MongoDB collection.
*/
type Store struct {
	session     *mgo.Session
	collection  string
	ownsSession bool
}

type document struct {
	Age             *int   `bson:"age,omitempty"`
	Gender          string `bson:"gender,omitempty"`
	DeviceType      string `bson:"device_type,omitempty"`
	AdPosition      string `bson:"ad_position,omitempty"`
	BrowsingHistory string `bson:"browsing_history,omitempty"`
	TimeOfDay       string `bson:"time_of_day,omitempty"`
	Click           *int   `bson:"click,omitempty"`
}

var indexedFields = []string{"gender", "device_type", "ad_position", "browsing_history", "time_of_day", "click"}

/*
Open takes a MongoDB database session and the name of a collection and
returns a Store for the records in that collection of the default
database for the session, or an error if its indexes cannot be ensured.
Closing the store does not close the session.
*/
func Open(session *mgo.Session, collection string) (*Store, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	s := &Store{session: session, collection: collection}
	err := s.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return s, nil
}

/*
Dial takes a MongoDB connection URL, connects to it and returns a Store
for the DefaultCollection of the database in the URL, or an error. Closing
the store closes the connection.
*/
func Dial(url string) (*Store, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %v", err)
	}
	s, err := Open(session, DefaultCollection)
	if err != nil {
		session.Close()
		return nil, err
	}
	s.ownsSession = true
	return s, nil
}

// Write takes a context and a slice of records and inserts them in the
// collection. It returns the number of records written and an error.
func (s *Store) Write(ctx context.Context, records []feature.Record) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		docs = append(docs, toDocument(r))
	}
	err := s.records().Insert(docs...)
	if err != nil {
		return 0, fmt.Errorf("inserting records: %v", err)
	}
	return len(records), nil
}

/*
Read takes a context and returns a channel on which the records in the
collection are sent, in natural order, and a channel on which an error
is sent if reading fails or the context is cancelled. Both channels are
closed when reading is over.
*/
func (s *Store) Read(ctx context.Context) (<-chan feature.Record, <-chan error) {
	records := make(chan feature.Record)
	errs := make(chan error, 1)
	go func() {
		defer close(records)
		defer close(errs)
		iter := s.records().Find(nil).Iter()
		var doc document
		for iter.Next(&doc) {
			select {
			case <-ctx.Done():
				iter.Close()
				errs <- ctx.Err()
				return
			case records <- fromDocument(doc):
			}
			doc = document{}
		}
		if err := iter.Close(); err != nil {
			errs <- err
		}
	}()
	return records, errs
}

// Dataset takes a context and returns the dataset with all the records
// in the collection, or an error.
func (s *Store) Dataset(ctx context.Context) (dataset.Dataset, error) {
	ds := dataset.Dataset{}
	records, errs := s.Read(ctx)
	for r := range records {
		ds = append(ds, r)
	}
	if err := <-errs; err != nil {
		return nil, fmt.Errorf("reading records: %v", err)
	}
	return ds, nil
}

// Count returns the number of records in the collection
func (s *Store) Count(context.Context) (int, error) {
	return s.records().Count()
}

// Close closes the session of the store if it was opened with Dial
func (s *Store) Close() {
	if s.ownsSession {
		s.session.Close()
	}
}

func (s *Store) ensureIndexes() error {
	for _, field := range indexedFields {
		index := mgo.Index{
			Key:        []string{field},
			Background: true,
			Sparse:     true,
		}
		err := s.records().EnsureIndex(index)
		if err != nil {
			return fmt.Errorf("ensuring index on %s: %v", field, err)
		}
	}
	return nil
}

func (s *Store) records() *mgo.Collection {
	return s.session.DB("").C(s.collection)
}

func toDocument(r feature.Record) *document {
	doc := &document{
		Gender:          r.Gender,
		DeviceType:      r.DeviceType,
		AdPosition:      r.AdPosition,
		BrowsingHistory: r.BrowsingHistory,
		TimeOfDay:       r.TimeOfDay,
	}
	if r.Age != feature.MissingAge {
		age := r.Age
		doc.Age = &age
	}
	if r.Click.Valid() {
		click := int(r.Click)
		doc.Click = &click
	}
	return doc
}

func fromDocument(doc document) feature.Record {
	r := feature.Record{
		Age:             feature.MissingAge,
		Gender:          doc.Gender,
		DeviceType:      doc.DeviceType,
		AdPosition:      doc.AdPosition,
		BrowsingHistory: doc.BrowsingHistory,
		TimeOfDay:       doc.TimeOfDay,
		Click:           feature.Unknown,
	}
	if doc.Age != nil {
		r.Age = *doc.Age
	}
	if doc.Click != nil && feature.Label(*doc.Click).Valid() {
		r.Click = feature.Label(*doc.Click)
	}
	return r
}
