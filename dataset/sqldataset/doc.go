/*
Package sqldataset reads and writes datasets on SQL databases through
Adapters.

The datasets use 2 database tables:
  * One for storing the values of categorical attributes (discreteValues)
  * One for the records (records)

Records are stored on the records table with their age and click label
as integers and their categorical values as references to values in the
discreteValues table. Missing ages, empty categorical values and unknown
labels are stored as NULL.
*/
package sqldataset
