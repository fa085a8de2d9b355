package db

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/ingestion"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

func TestNormalizeTechBase(t *testing.T) {
	assert.Equal(t, "Clan", normalizeTechBase("Clan"))
	assert.Equal(t, "Mixed", normalizeTechBase("Mixed (Clan Chassis)"))
	assert.Equal(t, "Inner Sphere", normalizeTechBase("Inner Sphere"))
	assert.Equal(t, "Inner Sphere", normalizeTechBase(""))
}

func TestEraFromYear(t *testing.T) {
	assert.Equal(t, "", eraFromYear(0))
	assert.Equal(t, "Star League", eraFromYear(2750))
	assert.Equal(t, "Late Succession Wars", eraFromYear(3025))
	assert.Equal(t, "Clan Invasion", eraFromYear(3050))
	assert.Equal(t, "ilClan", eraFromYear(3151))
}

const catalogMTF = `chassis:Locust
model:LCT-1V
mul id:1932
Config:Biped
techbase:Inner Sphere
era:2499
Mass:20
Engine:160 Fusion Engine
Heat Sinks:10 Single
Walk MP:8
Armor:Standard(Inner Sphere)
CT armor:10
HD armor:8

Center Torso:
Fusion Engine
Fusion Engine
Fusion Engine
Gyro
Gyro
Gyro
Gyro
Fusion Engine
Fusion Engine
Fusion Engine
Medium Laser
-Empty-
`

// The catalog needs a live postgres; point MEKSTATION_TEST_DSN at a
// scratch database to run it.
func TestCatalog(t *testing.T) {
	dsn := os.Getenv("MEKSTATION_TEST_DSN")
	if dsn == "" {
		t.Skip("MEKSTATION_TEST_DSN not set")
	}
	ctx := context.Background()
	c, err := ConnectCatalog(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	require.NoError(t, c.Migrate(ctx))

	d, err := ingestion.Parse(strings.NewReader(catalogMTF))
	require.NoError(t, err)
	conv, err := ingestion.ToSpec(d, "lct")
	require.NoError(t, err)
	require.NoError(t, c.Upsert(ctx, d, conv))
	require.NoError(t, c.Upsert(ctx, d, conv))

	s, err := c.Spec(ctx, "LCT-1V", "red")
	require.NoError(t, err)
	assert.Equal(t, "red", s.ID)
	assert.Equal(t, 20, s.Tonnage)
	assert.Equal(t, unit.Biped, s.Config)
	assert.Len(t, s.Weapons, 1)

	entries, err := c.List(ctx, "locust")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "LCT-1V", entries[0].Model)
	assert.Equal(t, "Age of War", entries[0].Era)
	assert.Positive(t, entries[0].BattleValue)

	_, err = c.Spec(ctx, "NOPE-1", "x")
	assert.ErrorIs(t, err, ErrUnknownModel)
}
