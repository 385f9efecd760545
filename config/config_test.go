package config

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/adstrat/feature"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	attrs, err := c.ParseAttributes()
	require.NoError(t, err)
	assert.Equal(t, feature.Attributes(), attrs)
	assert.Equal(t, DefaultTrees, c.Trees)
	assert.Equal(t, []string{"Top", "Side", "Bottom"}, c.Placements)
	assert.Nil(t, c.Seed)
	assert.Equal(t, MemoryStore, c.Store.Type)
}

func TestRead(t *testing.T) {
	c, err := Read([]byte(`
attributes: [gender, device_type, timeOfDay]
trees: 25
placements: [Side, Top]
seed: 42
workers: 4
store:
  type: redis
  addr: localhost:6379
  db: 2
  prefix: forest
`))
	require.NoError(t, err)
	attrs, err := c.ParseAttributes()
	require.NoError(t, err)
	assert.Equal(t, []feature.Attribute{feature.Gender, feature.DeviceType, feature.TimeOfDay}, attrs)
	assert.Equal(t, 25, c.Trees)
	assert.Equal(t, []string{"Side", "Top"}, c.Placements)
	require.NotNil(t, c.Seed)
	assert.Equal(t, int64(42), *c.Seed)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, Store{Type: RedisStore, Addr: "localhost:6379", DB: 2, Prefix: "forest"}, c.Store)
}

func TestRead_KeepsDefaults(t *testing.T) {
	c, err := Read([]byte("trees: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Trees)
	assert.Equal(t, Default().Attributes, c.Attributes)
	assert.Equal(t, DefaultPlacements, c.Placements)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown attribute", "attributes: [gender, colour]"},
		{"duplicate attribute", "attributes: [gender, Gender]"},
		{"no trees", "trees: 0"},
		{"no placements", "placements: []"},
		{"no workers", "workers: 0"},
		{"unknown store", "store: {type: etcd}"},
		{"redis without addr", "store: {type: redis}"},
		{"unknown setting", "depth: 3"},
		{"malformed", "trees: [3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read([]byte(tt.doc))
			assert.Error(t, err)
		})
	}

	_, err := Read([]byte("attributes: [gender, colour]"))
	assert.ErrorIs(t, err, feature.ErrUnknownAttribute)
}

func TestReadFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "adstrat-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "adstrat.yml")
	require.NoError(t, ioutil.WriteFile(path, []byte("trees: 7\nseed: 1\n"), 0644))

	c, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Trees)

	_, err = ReadFile(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}

func TestMarshal(t *testing.T) {
	c := Default()
	data, err := c.Marshal()
	require.NoError(t, err)
	read, err := Read(data)
	require.NoError(t, err)
	assert.Equal(t, c, read)
}

func TestStoreOpen(t *testing.T) {
	ns, err := Store{Type: MemoryStore}.Open()
	require.NoError(t, err)
	assert.NoError(t, ns.Close(context.Background()))

	_, err = Store{Type: "etcd"}.Open()
	assert.Error(t, err)

	addr := os.Getenv("ADSTRAT_REDIS_ADDR")
	if addr == "" {
		t.Skip("ADSTRAT_REDIS_ADDR not set")
	}
	ns, err = Store{Type: RedisStore, Addr: addr, Prefix: "adstrat-config-test"}.Open()
	require.NoError(t, err)
	assert.NoError(t, ns.Close(context.Background()))
}
