package mv

import (
	"bytes"

	"github.com/dargueta/zxdisk"
)

// Sector is the payload of a single sector. It has no header of its own; its
// size comes from the SIB it's paired with.
type Sector struct {
	// SectorSize is the capacity of the sector, in bytes.
	SectorSize int
	// FillerByte is used to pad Data up to SectorSize when encoding, and marks
	// unused space at the end of the sector.
	FillerByte uint8
	// Data is the raw payload. It may be shorter or longer than SectorSize.
	Data []byte
}

// NewSector creates a sector holding a copy of `data`.
func NewSector(data []byte, sectorSize int, fillerByte uint8) *Sector {
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)
	return &Sector{
		SectorSize: sectorSize,
		FillerByte: fillerByte,
		Data:       dataCopy,
	}
}

// DecodeSectors slices consecutive sector payloads out of `data`, one per SIB,
// sized according to each SIB. It fails if `data` is too short to hold all of
// them. Trailing bytes are ignored.
func DecodeSectors(
	sibs []*SectorInformationBlock, data []byte, fillerByte uint8,
) ([]*Sector, error) {
	sectors := make([]*Sector, 0, len(sibs))
	offset := 0

	for i, sib := range sibs {
		end := offset + sib.SectorSize
		if end > len(data) {
			return nil, zxdisk.ErrTruncatedRecord.WithMessagef(
				"sector %d (ID %#02x) needs bytes [%d, %d) but only %d are available",
				i,
				sib.SectorID,
				offset,
				end,
				len(data),
			)
		}
		sectors = append(sectors, NewSector(data[offset:end], sib.SectorSize, fillerByte))
		offset = end
	}
	return sectors, nil
}

// Encode returns exactly SectorSize bytes: the data padded with the filler
// byte, or cut short if it's too long.
func (sector *Sector) Encode() []byte {
	if len(sector.Data) >= sector.SectorSize {
		output := make([]byte, sector.SectorSize)
		copy(output, sector.Data)
		return output
	}

	output := make([]byte, 0, sector.SectorSize)
	output = append(output, sector.Data...)
	return append(
		output, bytes.Repeat([]byte{sector.FillerByte}, sector.SectorSize-len(sector.Data))...)
}

// RealData returns the data that would actually be stored on the disk: the
// first SectorSize bytes with any trailing run of filler bytes removed. A
// sector consisting entirely of filler gives an empty slice.
func (sector *Sector) RealData() []byte {
	data := sector.Data
	if len(data) > sector.SectorSize {
		data = data[:sector.SectorSize]
	}

	last := len(data) - 1
	for last >= 0 && data[last] == sector.FillerByte {
		last--
	}

	output := make([]byte, last+1)
	copy(output, data)
	return output
}

// IsBlank returns true if the sector holds nothing but filler.
func (sector *Sector) IsBlank() bool {
	return len(sector.RealData()) == 0
}
