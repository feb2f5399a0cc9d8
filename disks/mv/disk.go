package mv

import (
	"fmt"

	"github.com/dargueta/zxdisk"
	"github.com/dargueta/zxdisk/disks"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

// Disk is a complete image: the DIB and its tracks, in file order.
type Disk struct {
	DIB    *DiskInformationBlock
	Tracks []*Track
}

// NewDisk creates a blank image template with the default geometry. Each track
// gets a single placeholder sector, filled with DefaultPlaceholderFiller and
// sized to take up the rest of the track after the TIB slot.
func NewDisk() *Disk {
	disk := &Disk{DIB: NewDiskInformationBlock()}
	placeholderSize := int(disk.DIB.TrackSize) - TrackInformationSlotSize

	disk.Tracks = make([]*Track, 0, disk.DIB.TrackCount)
	for i := 0; i < int(disk.DIB.TrackCount); i++ {
		track := NewTrack(i+1, 1)
		track.NewEmptySector(placeholderSize, DefaultPlaceholderFiller)
		disk.Tracks = append(disk.Tracks, track)
	}
	return disk
}

// NewDiskFromGeometry creates a freshly formatted single-sided image: every
// track gets SectorsPerTrack sectors numbered from FirstSectorID (1 if unset),
// filled with DefaultFillerByte.
func NewDiskFromGeometry(geometry disks.DiskGeometry) (*Disk, error) {
	sectorSize := int(geometry.AddressUnitsPerSector)
	if sectorSize == 0 || sectorSize%sizeUnit != 0 {
		return nil, zxdisk.ErrInvalidArgument.WithMessagef(
			"sector size must be a non-zero multiple of %d, got %d", sizeUnit, sectorSize)
	}
	if geometry.SectorsPerTrack > MaxSIBsPerSlot {
		return nil, zxdisk.ErrValueOutOfRange.WithMessagef(
			"at most %d sectors fit on a track, got %d", MaxSIBsPerSlot, geometry.SectorsPerTrack)
	}

	if geometry.Heads != 1 {
		return nil, zxdisk.ErrInvalidArgument.WithMessagef(
			"only single-sided images can be created, geometry %q has %d heads",
			geometry.Slug,
			geometry.Heads,
		)
	}

	trackSize := TrackInformationSlotSize + sectorSize*int(geometry.SectorsPerTrack)
	if trackSize > 0xffff || geometry.TotalDataTracks > 0xff {
		return nil, zxdisk.ErrValueOutOfRange.WithMessagef(
			"geometry %q needs %d tracks of %d bytes",
			geometry.Slug,
			geometry.TotalDataTracks,
			trackSize,
		)
	}

	firstID := int(geometry.FirstSectorID)
	if firstID == 0 {
		firstID = 1
	}

	disk := &Disk{
		DIB: &DiskInformationBlock{
			Descriptor: DefaultDiskDescriptor,
			TrackCount: uint8(geometry.TotalDataTracks),
			SideCount:  1,
			TrackSize:  uint16(trackSize),
		},
		Tracks: make([]*Track, 0, geometry.TotalDataTracks),
	}

	for number := 1; number <= int(geometry.TotalDataTracks); number++ {
		track := NewTrack(number, 1)
		track.TIB.SectorSize = sectorSize
		track.TIB.FillerByte = DefaultFillerByte
		track.TIB.AddEmptySIBs(int(geometry.SectorsPerTrack))
		for i, sib := range track.TIB.SIBs {
			sib.SectorID = uint8(firstID + i)
			track.AddSector(&Sector{SectorSize: sectorSize, FillerByte: DefaultFillerByte}, nil)
		}
		disk.Tracks = append(disk.Tracks, track)
	}
	return disk, nil
}

// DecodeDisk decodes a complete image.
//
// The track area is cut into `TrackCount` regions of `TrackSize` bytes each. If
// the image is truncated, track slots with no data or only part of their data
// are skipped, so the returned disk will have fewer tracks than the DIB says.
func DecodeDisk(data []byte) (*Disk, error) {
	dib, err := DecodeDiskInformationBlock(data)
	if err != nil {
		return nil, err
	}

	disk := &Disk{
		DIB:    dib,
		Tracks: make([]*Track, 0, dib.TrackCount),
	}
	trackArea := data[DiskInformationBlockSize:]

	for i := 1; i <= int(dib.TrackCount); i++ {
		start, end := dib.TrackRange(i)
		if end > len(trackArea) {
			log.Warnf(
				"image truncated: track slot %d needs bytes [%d, %d) of %d, skipping",
				i, start, end, len(trackArea))
			continue
		}

		track, err := DecodeTrack(trackArea[start:end])
		if err != nil {
			return nil, fmt.Errorf("track slot %d: %w", i, err)
		}
		disk.Tracks = append(disk.Tracks, track)
	}

	log.Debugf("decoded %d of %d tracks", len(disk.Tracks), dib.TrackCount)
	return disk, nil
}

// Track returns the track at 1-based position `number` in the image, or nil if
// there's no such track.
func (disk *Disk) Track(number int) *Track {
	if number < 1 || number > len(disk.Tracks) {
		return nil
	}
	return disk.Tracks[number-1]
}

// Data returns the sector payloads of every track, in image order.
func (disk *Disk) Data() []byte {
	var output []byte
	for _, track := range disk.Tracks {
		output = append(output, track.Data()...)
	}
	return output
}

// Encode returns the DIB followed by every track. Tracks aren't padded to
// TrackSize; a well-formed disk has tracks that are exactly that size already.
// Use Validate to check.
func (disk *Disk) Encode() ([]byte, error) {
	output := make([]byte, 0, disk.DIB.ImageSize())
	output = append(output, disk.DIB.Encode()...)

	for i, track := range disk.Tracks {
		trackData, err := track.Encode()
		if err != nil {
			return nil, fmt.Errorf("track slot %d: %w", i+1, err)
		}
		output = append(output, trackData...)
	}
	return output, nil
}

// Validate checks the invariants an image must satisfy to be read back
// identically once encoded. All violations are returned, not just the first.
func (disk *Disk) Validate() error {
	var result *multierror.Error

	if len(disk.Tracks) != int(disk.DIB.TrackCount) {
		result = multierror.Append(
			result,
			zxdisk.ErrInvariantViolation.WithMessagef(
				"disk information block says %d tracks, disk has %d",
				disk.DIB.TrackCount,
				len(disk.Tracks),
			),
		)
	}

	for i, track := range disk.Tracks {
		if len(track.TIB.SIBs) > len(track.Sectors) {
			result = multierror.Append(
				result,
				zxdisk.ErrInvariantViolation.WithMessagef(
					"track slot %d: %d sector information blocks but %d sectors",
					i+1,
					len(track.TIB.SIBs),
					len(track.Sectors),
				),
			)
		}
		if len(track.Sectors) > MaxSIBsPerSlot {
			result = multierror.Append(
				result,
				zxdisk.ErrValueOutOfRange.WithMessagef(
					"track slot %d: %d sectors, at most %d allowed",
					i+1,
					len(track.Sectors),
					MaxSIBsPerSlot,
				),
			)
		}
		if size := track.EncodedSize(); size != int(disk.DIB.TrackSize) {
			result = multierror.Append(
				result,
				zxdisk.ErrInvariantViolation.WithMessagef(
					"track slot %d: encodes to %d bytes, track size is %d",
					i+1,
					size,
					disk.DIB.TrackSize,
				),
			)
		}
		for j, sib := range track.TIB.SIBs {
			if !IsEncodableSectorSize(sib.SectorSize) {
				result = multierror.Append(
					result,
					zxdisk.ErrValueOutOfRange.WithMessagef(
						"track slot %d: sector %d has size %d, which a SIB can't hold",
						i+1,
						j,
						sib.SectorSize,
					),
				)
			}
		}
		for j, sector := range track.Sectors {
			if j < len(track.TIB.SIBs) && track.TIB.SIBs[j].SectorSize != sector.SectorSize {
				result = multierror.Append(
					result,
					zxdisk.ErrInvariantViolation.WithMessagef(
						"track slot %d: sector %d holds %d bytes, its SIB says %d",
						i+1,
						j,
						sector.SectorSize,
						track.TIB.SIBs[j].SectorSize,
					),
				)
			}
		}
	}

	return result.ErrorOrNil()
}
