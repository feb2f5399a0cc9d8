package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var config *Config

func main() {
	app := cli.App{
		Name:  "zxdisk",
		Usage: "Inspect and build CPC / Spectrum +3 disk images",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Read settings from `FILE` (any format viper understands)",
				EnvVars: []string{"ZXDISK_CONFIG"},
			},
			&cli.StringFlag{
				Name:  keyLogLevel,
				Usage: "Log level: panic, fatal, error, warn, info, debug, trace",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Shorthand for --log-level=debug",
			},
			&cli.IntFlag{
				Name:  keyBlockSize,
				Usage: "CP/M allocation block size in bytes",
			},
			&cli.IntFlag{
				Name:  keyReservedTracks,
				Usage: "Number of tracks before the CP/M directory",
			},
			&cli.IntFlag{
				Name:  keyDirectoryBlocks,
				Usage: "Number of blocks taken up by the CP/M directory",
			},
		},
		Before: setUp,
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "Show the disk and track information blocks of an image",
				Action:    showInfo,
				ArgsUsage: "IMAGE",
			},
			{
				Name:      "dir",
				Usage:     "List the files in the CP/M directory of an image",
				Action:    listDirectory,
				ArgsUsage: "IMAGE",
				Flags:     []cli.Flag{geometryFlag()},
			},
			{
				Name:      "extract",
				Usage:     "Copy a file out of an image",
				Action:    extractFile,
				ArgsUsage: "IMAGE NAME [OUTPUT]",
				Flags: []cli.Flag{
					geometryFlag(),
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "Keep the +3DOS header and padding",
					},
				},
			},
			{
				Name:      "blank",
				Usage:     "Create a freshly formatted image",
				Action:    createBlankImage,
				ArgsUsage: "OUTPUT",
				Flags:     []cli.Flag{geometryFlag()},
			},
			{
				Name:   "geometries",
				Usage:  "List the predefined disk formats",
				Action: listGeometries,
			},
			{
				Name:      "pack",
				Usage:     "Compress an image with RLE8 and gzip",
				Action:    packImage,
				ArgsUsage: "INPUT OUTPUT",
			},
			{
				Name:      "unpack",
				Usage:     "Expand an image compressed by the pack command",
				Action:    unpackImage,
				ArgsUsage: "INPUT OUTPUT",
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func geometryFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  keyGeometry,
		Usage: "Disk format, one of those listed by the geometries command",
	}
}

// setUp loads the configuration and sets up logging before any command runs.
func setUp(ctx *cli.Context) error {
	overrides := map[string]any{}
	for _, key := range []string{keyBlockSize, keyReservedTracks, keyDirectoryBlocks} {
		if ctx.IsSet(key) {
			overrides[key] = ctx.Int(key)
		}
	}
	if ctx.IsSet(keyLogLevel) {
		overrides[keyLogLevel] = ctx.String(keyLogLevel)
	}
	if ctx.Bool("verbose") {
		overrides[keyLogLevel] = "debug"
	}

	var err error
	config, err = loadConfig(ctx.String("config"), overrides)
	if err != nil {
		return err
	}

	log.SetOutput(os.Stderr)
	log.SetLevel(config.LogLevel)
	return nil
}
