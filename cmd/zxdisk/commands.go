package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dargueta/zxdisk/disks"
	"github.com/dargueta/zxdisk/disks/mv"
	"github.com/dargueta/zxdisk/drivers/cpm"
	"github.com/dargueta/zxdisk/utilities/compression"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func requireArgs(ctx *cli.Context, min, max int) error {
	if ctx.NArg() < min || ctx.NArg() > max {
		return cli.Exit(
			fmt.Sprintf("usage: zxdisk %s %s", ctx.Command.Name, ctx.Command.ArgsUsage), 1)
	}
	return nil
}

func openImage(path string) (*mv.Disk, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	disk, err := mv.ReadDisk(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := disk.Validate(); err != nil {
		log.Warnf("%s: %s", path, err)
	}
	return disk, nil
}

// geometrySlug returns the geometry given on the command line, falling back to
// the configured one.
func geometrySlug(ctx *cli.Context) string {
	if ctx.IsSet(keyGeometry) {
		return ctx.String(keyGeometry)
	}
	return config.Geometry
}

func openVolume(ctx *cli.Context, path string) (*cpm.Volume, error) {
	params, err := config.VolumeParameters(geometrySlug(ctx))
	if err != nil {
		return nil, err
	}

	disk, err := openImage(path)
	if err != nil {
		return nil, err
	}
	return cpm.NewVolume(disk, params)
}

func showInfo(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1, 1); err != nil {
		return err
	}

	disk, err := openImage(ctx.Args().First())
	if err != nil {
		return err
	}

	out := ctx.App.Writer
	fmt.Fprintf(out, "Descriptor: %q\n", disk.DIB.Descriptor)
	fmt.Fprintf(out, "Creator:    %q\n", disk.DIB.CreatorName)
	fmt.Fprintf(out, "Tracks:     %d x %d bytes, %d side(s)\n",
		disk.DIB.TrackCount, disk.DIB.TrackSize, disk.DIB.SideCount)

	table := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "TRACK\tSIDE\tSECTORS\tSIZE\tGAP3\tFILLER\tIDS")
	for _, track := range disk.Tracks {
		ids := make([]string, 0, len(track.TIB.SIBs))
		for _, sib := range track.TIB.SIBs {
			ids = append(ids, fmt.Sprintf("%02X", sib.SectorID))
		}
		fmt.Fprintf(
			table,
			"%d\t%d\t%d\t%d\t%#02x\t%#02x\t%s\n",
			track.Number(),
			track.Side(),
			track.TIB.SectorCount(),
			track.TIB.SectorSize,
			track.TIB.Gap3Length,
			track.TIB.FillerByte,
			strings.Join(ids, " "),
		)
	}
	return table.Flush()
}

func flagString(info cpm.FileInfo) string {
	flags := []byte("---")
	if info.ReadOnly {
		flags[0] = 'R'
	}
	if info.SystemFile {
		flags[1] = 'S'
	}
	if info.Archived {
		flags[2] = 'A'
	}
	return string(flags)
}

func listDirectory(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1, 1); err != nil {
		return err
	}

	vol, err := openVolume(ctx, ctx.Args().First())
	if err != nil {
		return err
	}

	infos, err := vol.List()
	if err != nil {
		return err
	}

	table := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "USER\tNAME\tSIZE\tFLAGS\t+3DOS\tBLOCKS")
	for _, info := range infos {
		header := "-"
		if info.Header != nil {
			header = fmt.Sprintf("type %d", info.Header.FileType())
		}
		fmt.Fprintf(
			table,
			"%d\t%s\t%d\t%s\t%s\t%v\n",
			info.User,
			info.Name,
			info.Size,
			flagString(info),
			header,
			info.Blocks,
		)
	}
	if err := table.Flush(); err != nil {
		return err
	}

	alloc, err := vol.AllocationMap()
	if alloc == nil {
		return err
	} else if err != nil {
		log.Warnf("directory is inconsistent: %s", err)
	}
	fmt.Fprintf(
		ctx.App.Writer,
		"%d file(s), %d of %d blocks free\n",
		len(infos),
		alloc.FreeBlocks(),
		alloc.TotalBlocks,
	)
	return nil
}

func extractFile(ctx *cli.Context) error {
	if err := requireArgs(ctx, 2, 3); err != nil {
		return err
	}

	vol, err := openVolume(ctx, ctx.Args().Get(0))
	if err != nil {
		return err
	}

	name := ctx.Args().Get(1)
	var data []byte
	if ctx.Bool("raw") {
		data, err = vol.ReadFile(name)
	} else {
		data, err = vol.ReadFileData(name)
	}
	if err != nil {
		return err
	}

	outputPath := ctx.Args().Get(2)
	if outputPath == "" {
		outputPath = strings.ToLower(name)
	}
	log.Infof("writing %d bytes to %s", len(data), outputPath)
	return os.WriteFile(outputPath, data, 0o644)
}

func createBlankImage(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1, 1); err != nil {
		return err
	}

	geometry, err := disks.GetPredefinedDiskGeometry(geometrySlug(ctx))
	if err != nil {
		return err
	}

	disk, err := mv.NewDiskFromGeometry(geometry)
	if err != nil {
		return err
	}

	output, err := os.Create(ctx.Args().First())
	if err != nil {
		return err
	}
	defer output.Close()

	n, err := disk.WriteTo(output)
	if err != nil {
		return err
	}
	log.Infof("wrote %d-byte %s image", n, geometry.Name)
	return nil
}

func listGeometries(ctx *cli.Context) error {
	table := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "SLUG\tNAME\tTRACKS\tSECTORS\tSIZE\tFIRST ID")
	for _, slug := range disks.PredefinedSlugs() {
		geometry, err := disks.GetPredefinedDiskGeometry(slug)
		if err != nil {
			return err
		}
		fmt.Fprintf(
			table,
			"%s\t%s\t%d\t%d\t%d\t%#02x\n",
			slug,
			geometry.Name,
			geometry.TotalDataTracks*geometry.Heads,
			geometry.SectorsPerTrack,
			geometry.AddressUnitsPerSector,
			geometry.FirstSectorID,
		)
	}
	return table.Flush()
}

type streamFunc func(input *os.File, output *os.File) (int64, error)

func convertFile(ctx *cli.Context, convert streamFunc) error {
	if err := requireArgs(ctx, 2, 2); err != nil {
		return err
	}

	input, err := os.Open(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := os.Create(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	defer output.Close()

	n, err := convert(input, output)
	if err != nil {
		return err
	}
	log.Infof("%s: processed %d bytes", ctx.Command.Name, n)
	return nil
}

func packImage(ctx *cli.Context) error {
	return convertFile(ctx, func(input *os.File, output *os.File) (int64, error) {
		return compression.CompressImage(input, output)
	})
}

func unpackImage(ctx *cli.Context) error {
	return convertFile(ctx, func(input *os.File, output *os.File) (int64, error) {
		return compression.DecompressImage(input, output)
	})
}
