package game

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/blockplay/internal/config"
	"github.com/annel0/blockplay/internal/platformer"
	"github.com/annel0/blockplay/internal/world"
	"github.com/annel0/blockplay/internal/world/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	landPath := filepath.Join(dir, "land.txt")
	require.NoError(t, os.WriteFile(landPath, []byte("0 0 0 0\n0 1 1 0\n0 0 0 0\n"), 0o644))

	cfg := config.Default()
	cfg.World.LandPath = landPath
	cfg.World.MapPath = filepath.Join(dir, "map.dat")
	cfg.World.Seed = 7
	return cfg
}

func TestBootstrap_FileBackend(t *testing.T) {
	cfg := testConfig(t)

	res, err := Bootstrap(cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	defer res.Close()

	s := res.Session
	assert.Equal(t, 14, s.Land().Len())
	assert.Equal(t, entity.StartPosition(s.Land().Extents(), cfg.Player.StartZ), s.Player().Position())
	require.NotNil(t, s.Level())
	assert.NotNil(t, s.Level().Hero())

	ctx := context.Background()
	require.NoError(t, s.Apply(ctx, CmdSaveMap))
	assert.FileExists(t, cfg.World.MapPath)
	require.NoError(t, s.Apply(ctx, CmdLoadMap))
	assert.Equal(t, 14, s.Land().Len())
}

func TestBootstrap_BadgerBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.World.MapBackend = config.MapBackendBadger
	cfg.World.BadgerDir = ""

	res, err := Bootstrap(cfg, prometheus.NewRegistry())
	require.NoError(t, err)

	s := res.Session
	ctx := context.Background()
	require.NoError(t, s.Apply(ctx, CmdSaveMap))
	require.NoError(t, s.Apply(ctx, CmdDestroy))
	require.NoError(t, s.Apply(ctx, CmdLoadMap))
	assert.Equal(t, 14, s.Land().Len())

	assert.NoError(t, res.Close())
}

func TestBootstrap_MissingLand(t *testing.T) {
	cfg := testConfig(t)
	cfg.World.LandPath = filepath.Join(t.TempDir(), "absent.txt")

	_, err := Bootstrap(cfg, prometheus.NewRegistry())
	var loadErr *world.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBootstrap_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.World.MapBackend = "tape"

	_, err := Bootstrap(cfg, prometheus.NewRegistry())
	assert.Error(t, err)
}

func TestLoadLevel(t *testing.T) {
	level, err := LoadLevel(config.PlatformerConfig{MirrorOffset: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, level.MirrorOffset)

	gravity := 3
	level, err = LoadLevel(config.PlatformerConfig{Gravity: &gravity})
	require.NoError(t, err)
	assert.Equal(t, 3, level.Gravity)

	dir := t.TempDir()
	path := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: tiny
visible: {x: 0, y: 0, w: 100, h: 100}
barriers:
  - rect: {x: 0, y: 90, w: 100, h: 10}
actors:
  - name: hero
    movement: character
    hero: true
    rect: {x: 10, y: 10, w: 10, h: 10}
`), 0o644))

	level, err = LoadLevel(config.PlatformerConfig{LevelFormat: config.LevelFormatYAML, LevelPath: path})
	require.NoError(t, err)
	assert.Equal(t, "tiny", level.Name)
	assert.Len(t, level.Barriers(), 1)
	assert.Equal(t, platformer.DefaultGravity, level.Hero().Heavy)

	_, err = LoadLevel(config.PlatformerConfig{LevelFormat: "svg"})
	assert.Error(t, err)
}
