/*
Package config provides the configuration for training forests and
suggesting placements, parsed from YAML documents.
*/
package config

import (
	"fmt"
	"io/ioutil"

	"github.com/pbanos/adstrat/feature"
	featurejson "github.com/pbanos/adstrat/feature/json"
	"github.com/pbanos/adstrat/tree"
	treejson "github.com/pbanos/adstrat/tree/json"
	"github.com/pbanos/adstrat/tree/redisstore"
	yaml "gopkg.in/yaml.v2"
)

// DefaultTrees is the number of trees of a forest unless configured otherwise
const DefaultTrees = 10

// DefaultPlacements are the ad placements suggestions are chosen from
// unless configured otherwise
var DefaultPlacements = []string{"Top", "Side", "Bottom"}

// The kinds of node stores that can be configured
const (
	MemoryStore = "memory"
	RedisStore  = "redis"
)

/*
Config holds the settings for training a forest and using it to suggest
ad placements.
*/
type Config struct {
	// Names of the attributes trees can split on
	Attributes []string `yaml:"attributes"`
	// Number of trees in the forest
	Trees int `yaml:"trees"`
	// Candidate ad placements, in order of preference
	Placements []string `yaml:"placements"`
	// Seed for the random generator. Training is not
	// reproducible when it is not set.
	Seed *int64 `yaml:"seed,omitempty"`
	// Number of goroutines growing trees
	Workers int `yaml:"workers"`
	// Where the nodes of the trees are kept
	Store Store `yaml:"store"`
}

// Store holds the settings for the node store of a forest
type Store struct {
	Type     string `yaml:"type"`
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

/*
Default returns a configuration using every attribute, DefaultTrees
trees, the DefaultPlacements, a single worker and an in-memory node store.
*/
func Default() *Config {
	attrs := feature.Attributes()
	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		names = append(names, a.Name())
	}
	return &Config{
		Attributes: names,
		Trees:      DefaultTrees,
		Placements: append([]string(nil), DefaultPlacements...),
		Workers:    1,
		Store:      Store{Type: MemoryStore, Prefix: "adstrat"},
	}
}

/*
Read takes a slice of bytes with a YAML document and returns the
configuration in it or an error. Settings missing from the document take
their default values. Unknown settings and invalid values are errors.
*/
func Read(data []byte) (*Config, error) {
	c := Default()
	err := yaml.UnmarshalStrict(data, c)
	if err != nil {
		return nil, fmt.Errorf("parsing yml config: %v", err)
	}
	err = c.Validate()
	if err != nil {
		return nil, err
	}
	return c, nil
}

/*
ReadFile takes a filepath string, reads its contents and uses Read to
parse it and return a configuration or an error.
*/
func ReadFile(filepath string) (*Config, error) {
	data, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading config yml file %s: %v", filepath, err)
	}
	c, err := Read(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config yml file %s: %w", filepath, err)
	}
	return c, nil
}

// Validate returns an error describing the first invalid setting of the
// configuration, or nil.
func (c *Config) Validate() error {
	if _, err := c.ParseAttributes(); err != nil {
		return err
	}
	if c.Trees < 1 {
		return fmt.Errorf("invalid number of trees %d: must be at least 1", c.Trees)
	}
	if len(c.Placements) == 0 {
		return fmt.Errorf("no placements configured")
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid number of workers %d: must be at least 1", c.Workers)
	}
	switch c.Store.Type {
	case MemoryStore:
	case RedisStore:
		if c.Store.Addr == "" {
			return fmt.Errorf("redis store requires an addr")
		}
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	return nil
}

// ParseAttributes returns the configured attributes, or an error if any
// of them is unknown or repeated.
func (c *Config) ParseAttributes() ([]feature.Attribute, error) {
	attrs, err := feature.ParseAttributes(c.Attributes)
	if err != nil {
		return nil, fmt.Errorf("configured attributes: %w", err)
	}
	return attrs, nil
}

// Open returns a new node store as configured, or an error if it cannot
// be reached.
func (s Store) Open() (tree.NodeStore, error) {
	switch s.Type {
	case "", MemoryStore:
		return tree.NewMemoryNodeStore(), nil
	case RedisStore:
		ned := treejson.NewNodeEncodeDecoder(featurejson.NewCriteriaEncodeDecoder())
		return redisstore.Open(s.Addr, s.Password, s.DB, s.Prefix, ned)
	}
	return nil, fmt.Errorf("unknown store type %q", s.Type)
}

// Marshal returns the configuration as a YAML document
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
