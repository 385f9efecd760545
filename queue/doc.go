/*
Package queue defines the tasks to be performed to grow the trees
of a forest, as well as an interface for a Queue to manage them.

It also provides an in-memory implementation of the Queue interface
*/
package queue
