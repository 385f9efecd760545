package adstrat

import (
	"math/rand"
	"time"

	"github.com/pbanos/adstrat/tree"
)

/*
Rand is the source of randomness used to draw the bootstrap samples and
attribute subsets of a forest. *rand.Rand satisfies it.
*/
type Rand interface {
	// Intn returns a number in [0,n)
	Intn(n int) int
}

// Logger is the interface used to report progress while training.
type Logger interface {
	Logf(format string, a ...interface{})
}

// Options holds training options.
type Options struct {
	// Rand is the generator all randomness is drawn from.
	// Defaults to a generator seeded from the clock.
	Rand Rand
	// Workers is the number of goroutines growing trees
	// concurrently. Defaults to 1.
	Workers int
	// NodeStore is the store where the nodes of the trees
	// are created. Defaults to an in-memory store.
	NodeStore tree.NodeStore
	// Logger receives progress messages. Defaults to
	// discarding them.
	Logger Logger
}

// Option is a configuration function.
type Option func(*Options)

// WithRand sets the generator the forest draws its randomness from.
// Injecting a seeded generator makes training reproducible.
func WithRand(r Rand) Option {
	return func(o *Options) {
		o.Rand = r
	}
}

// WithSeed makes training draw its randomness from a generator seeded
// with the given seed.
func WithSeed(seed int64) Option {
	return func(o *Options) {
		o.Rand = rand.New(rand.NewSource(seed))
	}
}

// WithWorkers sets the number of goroutines growing trees. Values
// below 1 are ignored.
func WithWorkers(workers int) Option {
	return func(o *Options) {
		if workers > 0 {
			o.Workers = workers
		}
	}
}

// WithNodeStore sets the node store where the nodes of the forest's
// trees are created. The forest takes ownership of it: closing the
// forest closes the store.
func WithNodeStore(ns tree.NodeStore) Option {
	return func(o *Options) {
		o.NodeStore = ns
	}
}

// WithLogger sets the logger training progress is reported to.
func WithLogger(l Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

type nopLogger struct{}

func (nopLogger) Logf(string, ...interface{}) {}

func newOptions(opts []Option) *Options {
	o := &Options{Workers: 1}
	for _, opt := range opts {
		opt(o)
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.NodeStore == nil {
		o.NodeStore = tree.NewMemoryNodeStore()
	}
	if o.Logger == nil {
		o.Logger = nopLogger{}
	}
	return o
}
