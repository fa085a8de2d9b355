package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
)

func TestLoad_DefaultValues(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", c.Log.Level)
	assert.False(t, c.Log.Console)
	assert.Equal(t, 20, c.Sim.MaxTurns)
	assert.Equal(t, 1, c.Sim.Runs)
	assert.Equal(t, uint64(1), c.Sim.Seed)
	assert.Equal(t, "HBK-4P", c.Sim.Red)
	assert.Equal(t, "HBK-4G", c.Sim.Blue)
	assert.Equal(t, "mekstation.db", c.Store.Path)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, event.ClusterStandard, c.Rules().Cluster())
}

func TestLoad_MissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, 20, c.Sim.MaxTurns)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mekstation.json")
	cfg := `{
		"log": { "level": "debug", "console": true },
		"sim": { "runs": 50, "seed": 99, "blue": "AS7-D", "clusterTable": "expected" },
		"catalog": { "dsn": "postgres://localhost/units" }
	}`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Log.Console)
	assert.Equal(t, 50, c.Sim.Runs)
	assert.Equal(t, uint64(99), c.Sim.Seed)
	assert.Equal(t, "HBK-4P", c.Sim.Red)
	assert.Equal(t, "AS7-D", c.Sim.Blue)
	assert.Equal(t, event.ClusterExpected, c.Rules().ClusterTable)
	assert.Equal(t, "postgres://localhost/units", c.Catalog.DSN)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mekstation.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sim:\n  maxTurns: 8\nstore:\n  path: /tmp/games.db\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, c.Sim.MaxTurns)
	assert.Equal(t, "/tmp/games.db", c.Store.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MEKSTATION_SIM_MAXTURNS", "5")
	t.Setenv("MEKSTATION_STORE_PATH", "env.db")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, c.Sim.MaxTurns)
	assert.Equal(t, "env.db", c.Store.Path)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sim": `), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_UnknownClusterTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sim": {"clusterTable": "lucky"}}`), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown cluster table")
}
