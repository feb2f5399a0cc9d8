package mv

import (
	"bytes"
	"encoding/binary"

	"github.com/dargueta/zxdisk"
	"github.com/noxer/bytewriter"
)

// RawSectorInformationBlock is the on-disk representation of a SIB.
type RawSectorInformationBlock struct {
	// Track is the zero-based track (cylinder) number, C in FDC terms.
	Track uint8
	// Side is the zero-based side (head) number, H in FDC terms.
	Side uint8
	// SectorID is the sector ID, R in FDC terms. It's stored as-is, so +3
	// sectors are usually 1-9 and CPC data sectors 0xC1-0xC9.
	SectorID uint8
	// SizeClass is the sector size divided by 256.
	SizeClass uint8
	// FDCStatus holds the FDC status registers 1 and 2 captured when the
	// sector was read.
	FDCStatus [2]uint8
	// Reserved must be null when writing and is ignored when reading.
	Reserved [2]uint8
}

// SectorInformationBlock describes one sector of a track.
type SectorInformationBlock struct {
	// Track is the 1-based track number.
	Track int
	// Side is the 1-based side number.
	Side int
	// SectorID is the ID recorded in the sector's address mark.
	SectorID uint8
	// SectorSize is the size of the sector's data, in bytes.
	SectorSize int
	// FDC holds the two FDC status bytes.
	FDC [2]uint8
}

// NewSectorInformationBlock returns a SIB for sector 1 of track 1, side 1 with
// no data.
func NewSectorInformationBlock() *SectorInformationBlock {
	return &SectorInformationBlock{
		Track:    1,
		Side:     1,
		SectorID: 1,
	}
}

// NewEmptySIBList creates `count` default SIBs with sector IDs 1 through
// `count`.
func NewEmptySIBList(count int) []*SectorInformationBlock {
	list := make([]*SectorInformationBlock, count)
	for i := range list {
		sib := NewSectorInformationBlock()
		sib.SectorID = uint8(i + 1)
		list[i] = sib
	}
	return list
}

// DecodeSectorInformationBlock decodes the first eight bytes of `data`.
func DecodeSectorInformationBlock(data []byte) (*SectorInformationBlock, error) {
	if len(data) < SectorInformationBlockSize {
		return nil, zxdisk.ErrTruncatedRecord.WithMessagef(
			"sector information block needs %d bytes, got %d",
			SectorInformationBlockSize,
			len(data),
		)
	}

	raw := RawSectorInformationBlock{}
	err := binary.Read(
		bytes.NewReader(data[:SectorInformationBlockSize]), binary.LittleEndian, &raw)
	if err != nil {
		return nil, zxdisk.ErrTruncatedRecord.Wrap(err)
	}

	return &SectorInformationBlock{
		Track:      int(raw.Track) + 1,
		Side:       int(raw.Side) + 1,
		SectorID:   raw.SectorID,
		SectorSize: int(raw.SizeClass) * sizeUnit,
		FDC:        raw.FDCStatus,
	}, nil
}

// DecodeSectorInformationBlocks decodes consecutive SIBs from `data`. If `count`
// is negative, as many whole records as fit in `data` are decoded and any
// trailing partial record is ignored. Otherwise exactly `count` records are
// decoded and `data` must be large enough to hold them; any bytes past the last
// one are ignored.
func DecodeSectorInformationBlocks(data []byte, count int) ([]*SectorInformationBlock, error) {
	if count < 0 {
		count = len(data) / SectorInformationBlockSize
	} else if count*SectorInformationBlockSize > len(data) {
		return nil, zxdisk.ErrTruncatedRecord.WithMessagef(
			"%d sector information blocks need %d bytes, got %d",
			count,
			count*SectorInformationBlockSize,
			len(data),
		)
	}

	list := make([]*SectorInformationBlock, 0, count)
	for i := 0; i < count; i++ {
		start := i * SectorInformationBlockSize
		sib, err := DecodeSectorInformationBlock(data[start : start+SectorInformationBlockSize])
		if err != nil {
			return nil, err
		}
		list = append(list, sib)
	}
	return list, nil
}

// Raw converts the SIB to its on-disk form. Numbers outside the range a byte
// can hold are truncated to their low byte, and sizes are rounded down to a
// multiple of 256.
func (sib *SectorInformationBlock) Raw() RawSectorInformationBlock {
	return RawSectorInformationBlock{
		Track:     uint8(sib.Track - 1),
		Side:      uint8(sib.Side - 1),
		SectorID:  sib.SectorID,
		SizeClass: uint8(sib.SectorSize / sizeUnit),
		FDCStatus: sib.FDC,
	}
}

// Encode returns the eight-byte on-disk form of the SIB.
func (sib *SectorInformationBlock) Encode() []byte {
	output := make([]byte, SectorInformationBlockSize)
	raw := sib.Raw()
	binary.Write(bytewriter.New(output), binary.LittleEndian, &raw)
	return output
}

// Clone returns an independent copy of the SIB.
func (sib *SectorInformationBlock) Clone() *SectorInformationBlock {
	dup := *sib
	return &dup
}
