package main

import (
	"fmt"
	"strings"

	"github.com/dargueta/zxdisk/disks"
	"github.com/dargueta/zxdisk/drivers/cpm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Setting keys. Each can come from a flag, a ZXDISK_* environment variable
// (dashes become underscores), or the config file, in that order of priority.
const (
	keyBlockSize       = "block-size"
	keyReservedTracks  = "reserved-tracks"
	keyDirectoryBlocks = "directory-blocks"
	keyLogLevel        = "log-level"
	keyGeometry        = "geometry"
)

// Config holds the settings shared by all commands.
type Config struct {
	Params   cpm.Parameters
	LogLevel log.Level
	Geometry string

	// reservedTracksSet is true if the reserved track count was given
	// explicitly instead of coming from the disk geometry.
	reservedTracksSet bool
}

// loadConfig merges the built-in defaults, the environment, `configFile` (if not
// empty), and `overrides`, which take precedence over everything else.
func loadConfig(configFile string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ZXDISK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// The reserved track count has no default here; it depends on the geometry
	// and is filled in by VolumeParameters.
	defaults := cpm.DefaultParameters()
	v.SetDefault(keyBlockSize, defaults.BlockSize)
	v.SetDefault(keyDirectoryBlocks, defaults.DirectoryBlocks)
	v.SetDefault(keyLogLevel, "warn")
	v.SetDefault(keyGeometry, "plus3")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", configFile, err)
		}
		log.Debugf("using config file %s", v.ConfigFileUsed())
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	level, err := log.ParseLevel(v.GetString(keyLogLevel))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Params: cpm.Parameters{
			BlockSize:       v.GetInt(keyBlockSize),
			ReservedTracks:  defaults.ReservedTracks,
			DirectoryBlocks: v.GetInt(keyDirectoryBlocks),
		},
		LogLevel: level,
		Geometry: v.GetString(keyGeometry),
	}
	if v.Get(keyReservedTracks) != nil {
		cfg.Params.ReservedTracks = v.GetInt(keyReservedTracks)
		cfg.reservedTracksSet = true
	}
	return cfg, nil
}

// VolumeParameters returns the CP/M layout for a disk with the geometry named
// by `slug`. The number of reserved tracks comes from the geometry unless it
// was set explicitly.
func (cfg *Config) VolumeParameters(slug string) (cpm.Parameters, error) {
	geometry, err := disks.GetPredefinedDiskGeometry(slug)
	if err != nil {
		return cpm.Parameters{}, err
	}

	params := cpm.ParametersFromGeometry(geometry)
	params.BlockSize = cfg.Params.BlockSize
	params.DirectoryBlocks = cfg.Params.DirectoryBlocks
	if cfg.reservedTracksSet {
		params.ReservedTracks = cfg.Params.ReservedTracks
	}
	return params, nil
}
