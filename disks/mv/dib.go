package mv

import (
	"bytes"
	"encoding/binary"

	"github.com/dargueta/zxdisk"
	"github.com/dargueta/zxdisk/utilities/fixedwidth"
	"github.com/noxer/bytewriter"
)

// RawDiskInformationBlock is the on-disk representation of the DIB.
type RawDiskInformationBlock struct {
	Descriptor  [diskDescriptorWidth]byte
	CreatorName [creatorNameWidth]byte
	TrackCount  uint8
	SideCount   uint8
	TrackSize   uint16
	// Reserved must be null when writing and is ignored when reading. (The
	// extended format keeps a track size table here, which this format
	// doesn't have.)
	Reserved [204]uint8
}

// DiskInformationBlock describes the overall geometry of an image.
type DiskInformationBlock struct {
	Descriptor  string
	CreatorName string
	TrackCount  uint8
	SideCount   uint8
	// TrackSize is the size of every track region in bytes, including its
	// 256-byte TIB slot.
	TrackSize uint16
}

// NewDiskInformationBlock returns a DIB with the default descriptor and a
// 40-track, single-sided geometry.
func NewDiskInformationBlock() *DiskInformationBlock {
	return &DiskInformationBlock{
		Descriptor: DefaultDiskDescriptor,
		TrackCount: DefaultTrackCount,
		SideCount:  DefaultSideCount,
		TrackSize:  DefaultTrackSize,
	}
}

// DecodeDiskInformationBlock decodes the first 256 bytes of `data`.
func DecodeDiskInformationBlock(data []byte) (*DiskInformationBlock, error) {
	if len(data) < DiskInformationBlockSize {
		return nil, zxdisk.ErrTruncatedRecord.WithMessagef(
			"disk information block needs %d bytes, got %d",
			DiskInformationBlockSize,
			len(data),
		)
	}

	raw := RawDiskInformationBlock{}
	err := binary.Read(
		bytes.NewReader(data[:DiskInformationBlockSize]), binary.LittleEndian, &raw)
	if err != nil {
		return nil, zxdisk.ErrTruncatedRecord.Wrap(err)
	}

	return &DiskInformationBlock{
		Descriptor:  fixedwidth.Trim(raw.Descriptor[:]),
		CreatorName: fixedwidth.Trim(raw.CreatorName[:]),
		TrackCount:  raw.TrackCount,
		SideCount:   raw.SideCount,
		TrackSize:   raw.TrackSize,
	}, nil
}

// Raw converts the DIB to its on-disk form. Text fields are null-padded, and
// silently truncated if they're too long.
func (dib *DiskInformationBlock) Raw() RawDiskInformationBlock {
	raw := RawDiskInformationBlock{
		TrackCount: dib.TrackCount,
		SideCount:  dib.SideCount,
		TrackSize:  dib.TrackSize,
	}
	copy(raw.Descriptor[:], fixedwidth.Pad(dib.Descriptor, diskDescriptorWidth, 0))
	copy(raw.CreatorName[:], fixedwidth.Pad(dib.CreatorName, creatorNameWidth, 0))
	return raw
}

// Encode returns the 256-byte on-disk form of the DIB.
func (dib *DiskInformationBlock) Encode() []byte {
	output := make([]byte, DiskInformationBlockSize)
	raw := dib.Raw()
	binary.Write(bytewriter.New(output), binary.LittleEndian, &raw)
	return output
}

// TrackRange returns the byte offsets [start, end) of 1-based track `number`
// relative to the end of the DIB.
func (dib *DiskInformationBlock) TrackRange(number int) (int, int) {
	start := (number - 1) * int(dib.TrackSize)
	return start, start + int(dib.TrackSize)
}

// ImageSize returns the size of a complete image with this geometry.
func (dib *DiskInformationBlock) ImageSize() int {
	return DiskInformationBlockSize + int(dib.TrackCount)*int(dib.TrackSize)
}
