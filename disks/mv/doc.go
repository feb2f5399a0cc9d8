// Package mv decodes and encodes "MV - CPCEMU" floppy disk images, the format
// produced by CPC and Spectrum +3 emulators.
//
// An image is a 256-byte Disk Information Block (DIB) followed by one region
// per track, each `track_size` bytes long. A track region begins with a
// 256-byte slot holding the Track Information Block (TIB) and its Sector
// Information Blocks (SIBs), followed by the sector payloads in SIB order:
//
//	DIB (256) | TIB+SIBs (256) sector... | TIB+SIBs (256) sector... | ...
//
// All in-memory values are the "true" ones: track and side numbers start at 1
// and sizes are in bytes. The on-disk forms (zero-based numbers, sizes divided
// by 256, a sector count derived from the SIB list) only exist while a record
// is being encoded or decoded.
package mv

const (
	// DiskInformationBlockSize is the size of the DIB at the start of an image.
	DiskInformationBlockSize = 0x100

	// TrackInformationSlotSize is the fixed window a TIB and its SIBs occupy at
	// the start of each track. Sector data always begins right after it.
	TrackInformationSlotSize = 0x100

	// TrackInformationHeaderSize is the size of a TIB without its SIBs.
	TrackInformationHeaderSize = 24

	// SectorInformationBlockSize is the size of a single SIB.
	SectorInformationBlockSize = 8

	// MaxSIBsPerSlot is the largest number of SIBs that fits in the TIB slot.
	MaxSIBsPerSlot = (TrackInformationSlotSize - TrackInformationHeaderSize) / SectorInformationBlockSize

	// sizeUnit is the granularity sizes are stored with on disk.
	sizeUnit = 256

	// maxSectorSize is the largest size a one-byte size class can express.
	maxSectorSize = 0xff * sizeUnit
)

// IsEncodableSectorSize returns true if `size` can be stored in a SIB without
// losing anything, i.e. it's a multiple of 256 that fits in a size class.
func IsEncodableSectorSize(size int) bool {
	return size >= 0 && size <= maxSectorSize && size%sizeUnit == 0
}

const (
	DefaultDiskDescriptor  = "MV - CPCEMU Disk-File\r\nDisk-Info\r\n"
	DefaultTrackDescriptor = "Track-Info\r\n\x00"

	DefaultTrackCount = 0x28
	DefaultSideCount  = 1
	DefaultTrackSize  = 0x0180
	DefaultGap3Length = 78

	// DefaultFillerByte marks erased sector space on a formatted disk.
	DefaultFillerByte = 0xe5

	// DefaultPlaceholderFiller fills the placeholder sector of each track in a
	// blank image created with NewDisk.
	DefaultPlaceholderFiller = 0xff
)

// Field widths of the text fields.
const (
	diskDescriptorWidth  = 34
	creatorNameWidth     = 14
	trackDescriptorWidth = 13
)
