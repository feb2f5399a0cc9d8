package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dargueta/zxdisk/drivers/cpm"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig__Defaults(t *testing.T) {
	cfg, err := loadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Params.BlockSize)
	assert.Equal(t, 1, cfg.Params.ReservedTracks)
	assert.Equal(t, 2, cfg.Params.DirectoryBlocks)
	assert.Equal(t, log.WarnLevel, cfg.LogLevel)
	assert.Equal(t, "plus3", cfg.Geometry)
}

func TestLoadConfig__Precedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "zxdisk.yaml")
	err := os.WriteFile(
		configPath,
		[]byte("block-size: 2048\nreserved-tracks: 2\nlog-level: info\n"),
		0o600,
	)
	require.NoError(t, err)

	t.Setenv("ZXDISK_RESERVED_TRACKS", "0")
	t.Setenv("ZXDISK_GEOMETRY", "cpc-data")

	cfg, err := loadConfig(configPath, map[string]any{keyLogLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, 2048, cfg.Params.BlockSize, "from the config file")
	assert.Equal(t, 0, cfg.Params.ReservedTracks, "environment beats config file")
	assert.Equal(t, 2, cfg.Params.DirectoryBlocks, "default")
	assert.Equal(t, "cpc-data", cfg.Geometry)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel, "override beats everything")
}

func TestLoadConfig__Errors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	_, err = loadConfig("", map[string]any{keyLogLevel: "loud"})
	assert.Error(t, err)
}

func TestFlagString(t *testing.T) {
	assert.Equal(t, "---", flagString(cpm.FileInfo{}))
	assert.Equal(t, "R-A", flagString(cpm.FileInfo{ReadOnly: true, Archived: true}))
}

func TestConfigVolumeParameters__ReservedTracksFromGeometry(t *testing.T) {
	cfg, err := loadConfig("", nil)
	require.NoError(t, err)

	params, err := cfg.VolumeParameters("cpc-data")
	require.NoError(t, err)
	assert.Equal(t, 0, params.ReservedTracks)
	assert.Equal(t, 1024, params.BlockSize)
	assert.Equal(t, 2, params.DirectoryBlocks)

	params, err = cfg.VolumeParameters("cpc-system")
	require.NoError(t, err)
	assert.Equal(t, 2, params.ReservedTracks)

	params, err = cfg.VolumeParameters("plus3")
	require.NoError(t, err)
	assert.Equal(t, 1, params.ReservedTracks)
}

func TestConfigVolumeParameters__ExplicitReservedTracks(t *testing.T) {
	t.Setenv("ZXDISK_RESERVED_TRACKS", "3")
	cfg, err := loadConfig("", map[string]any{keyDirectoryBlocks: 4})
	require.NoError(t, err)

	for _, slug := range []string{"plus3", "cpc-data", "cpc-system"} {
		params, err := cfg.VolumeParameters(slug)
		require.NoError(t, err, slug)
		assert.Equal(t, 3, params.ReservedTracks, slug)
		assert.Equal(t, 4, params.DirectoryBlocks, slug)
	}
}

func TestConfigVolumeParameters__UnknownGeometry(t *testing.T) {
	cfg, err := loadConfig("", nil)
	require.NoError(t, err)

	_, err = cfg.VolumeParameters("eight-inch-floppy")
	assert.Error(t, err)
}
