package mv

import (
	"bytes"
	"encoding/binary"

	"github.com/dargueta/zxdisk"
	"github.com/dargueta/zxdisk/utilities/fixedwidth"
	"github.com/noxer/bytewriter"
)

// RawTrackInformationHeader is the on-disk representation of a TIB without its
// SIBs.
type RawTrackInformationHeader struct {
	Descriptor [trackDescriptorWidth]byte
	Unused     [3]uint8
	// TrackNumber and SideNumber are zero-based.
	TrackNumber uint8
	SideNumber  uint8
	Unused2     [2]uint8
	// SizeClass is the track's nominal sector size divided by 256.
	SizeClass   uint8
	SectorCount uint8
	Gap3Length  uint8
	FillerByte  uint8
}

// TrackInformationBlock is the header at the beginning of every track.
//
// There's no sector count field; the number of sectors is always the length of
// SIBs.
type TrackInformationBlock struct {
	Descriptor string
	// Number is the 1-based track number.
	Number int
	// Side is the 1-based side number.
	Side int
	// SectorSize is the nominal size of the track's sectors, in bytes. It can
	// differ from the sizes in the SIBs; nothing checks that they agree.
	SectorSize int
	Gap3Length uint8
	FillerByte uint8
	SIBs       []*SectorInformationBlock
}

// NewTrackInformationBlock returns a TIB for track 1, side 1 with no sectors.
func NewTrackInformationBlock() *TrackInformationBlock {
	return &TrackInformationBlock{
		Descriptor: DefaultTrackDescriptor,
		Number:     1,
		Side:       1,
		Gap3Length: DefaultGap3Length,
		FillerByte: DefaultFillerByte,
		SIBs:       []*SectorInformationBlock{},
	}
}

// DecodeTrackInformationBlock decodes a TIB and the SIBs following it. Bytes
// after the last SIB are ignored.
func DecodeTrackInformationBlock(data []byte) (*TrackInformationBlock, error) {
	if len(data) < TrackInformationHeaderSize {
		return nil, zxdisk.ErrTruncatedRecord.WithMessagef(
			"track information block needs %d bytes, got %d",
			TrackInformationHeaderSize,
			len(data),
		)
	}

	raw := RawTrackInformationHeader{}
	err := binary.Read(
		bytes.NewReader(data[:TrackInformationHeaderSize]), binary.LittleEndian, &raw)
	if err != nil {
		return nil, zxdisk.ErrTruncatedRecord.Wrap(err)
	}

	sibs, err := DecodeSectorInformationBlocks(
		data[TrackInformationHeaderSize:], int(raw.SectorCount))
	if err != nil {
		return nil, err
	}

	return &TrackInformationBlock{
		Descriptor: fixedwidth.Trim(raw.Descriptor[:]),
		Number:     int(raw.TrackNumber) + 1,
		Side:       int(raw.SideNumber) + 1,
		SectorSize: int(raw.SizeClass) * sizeUnit,
		Gap3Length: raw.Gap3Length,
		FillerByte: raw.FillerByte,
		SIBs:       sibs,
	}, nil
}

// SectorCount returns the number of sectors in the track.
func (tib *TrackInformationBlock) SectorCount() int {
	return len(tib.SIBs)
}

// SlotSize returns the size of the window the TIB occupies at the start of its
// track, regardless of how many SIBs it has.
func (tib *TrackInformationBlock) SlotSize() int {
	return TrackInformationSlotSize
}

// EncodedSize returns the number of bytes Encode will produce.
func (tib *TrackInformationBlock) EncodedSize() int {
	return TrackInformationHeaderSize + SectorInformationBlockSize*len(tib.SIBs)
}

// AddSIB appends a SIB. If `assignTrackData` is true, the SIB's track, side,
// and size are overwritten with the TIB's.
func (tib *TrackInformationBlock) AddSIB(sib *SectorInformationBlock, assignTrackData bool) {
	if assignTrackData {
		sib.Track = tib.Number
		sib.Side = tib.Side
		sib.SectorSize = tib.SectorSize
	}
	tib.SIBs = append(tib.SIBs, sib)
}

// AddEmptySIBs appends `count` SIBs inheriting the TIB's track, side, and
// sector size. Sector IDs continue sequentially from the current SIB count.
func (tib *TrackInformationBlock) AddEmptySIBs(count int) {
	for i := 0; i < count; i++ {
		sib := NewSectorInformationBlock()
		sib.SectorID = uint8(len(tib.SIBs) + 1)
		tib.AddSIB(sib, true)
	}
}

// FillSIBs ensures the TIB has exactly `count` SIBs, appending empty ones as
// needed. It's an error for the TIB to already have more than `count`; SIBs are
// never removed.
func (tib *TrackInformationBlock) FillSIBs(count int) error {
	current := len(tib.SIBs)
	if current > count {
		return zxdisk.ErrInvariantViolation.WithMessagef(
			"track %d has %d sector information blocks, more than the %d requested",
			tib.Number,
			current,
			count,
		)
	}
	tib.AddEmptySIBs(count - current)
	return nil
}

// Raw converts the TIB header to its on-disk form. The descriptor is truncated
// or null-padded to 13 bytes.
func (tib *TrackInformationBlock) Raw() RawTrackInformationHeader {
	raw := RawTrackInformationHeader{
		TrackNumber: uint8(tib.Number - 1),
		SideNumber:  uint8(tib.Side - 1),
		SizeClass:   uint8(tib.SectorSize / sizeUnit),
		SectorCount: uint8(len(tib.SIBs)),
		Gap3Length:  tib.Gap3Length,
		FillerByte:  tib.FillerByte,
	}
	copy(raw.Descriptor[:], fixedwidth.Pad(tib.Descriptor, trackDescriptorWidth, 0))
	return raw
}

// Encode returns the TIB header followed by its SIBs. The result is not padded
// to the slot size; see Track.Encode for that.
func (tib *TrackInformationBlock) Encode() []byte {
	output := make([]byte, tib.EncodedSize())
	writer := bytewriter.New(output)

	raw := tib.Raw()
	binary.Write(writer, binary.LittleEndian, &raw)
	for _, sib := range tib.SIBs {
		writer.Write(sib.Encode())
	}
	return output
}
