package mv

import (
	"github.com/dargueta/zxdisk"
)

// Track is a TIB together with the payloads of its sectors. Sectors[i] is
// described by TIB.SIBs[i].
type Track struct {
	TIB     *TrackInformationBlock
	Sectors []*Sector
}

// NewTrack creates an empty track with the given 1-based track and side
// numbers.
func NewTrack(number, side int) *Track {
	tib := NewTrackInformationBlock()
	tib.Number = number
	tib.Side = side
	return &Track{
		TIB:     tib,
		Sectors: []*Sector{},
	}
}

// DecodeTrack decodes a whole track region: the 256-byte TIB slot followed by
// sector payloads. Anything in the slot after the last SIB is skipped, as is
// anything after the last sector.
func DecodeTrack(data []byte) (*Track, error) {
	if len(data) < TrackInformationSlotSize {
		return nil, zxdisk.ErrTruncatedRecord.WithMessagef(
			"track needs at least %d bytes for its information block, got %d",
			TrackInformationSlotSize,
			len(data),
		)
	}

	tib, err := DecodeTrackInformationBlock(data[:TrackInformationSlotSize])
	if err != nil {
		return nil, err
	}

	sectors, err := DecodeSectors(tib.SIBs, data[TrackInformationSlotSize:], tib.FillerByte)
	if err != nil {
		return nil, zxdisk.ErrTruncatedRecord.WithMessagef("track %d: %s", tib.Number, err)
	}

	return &Track{TIB: tib, Sectors: sectors}, nil
}

// Number returns the 1-based track number.
func (track *Track) Number() int {
	return track.TIB.Number
}

// Side returns the 1-based side number.
func (track *Track) Side() int {
	return track.TIB.Side
}

// AddSector appends a sector. If `sib` isn't nil it's appended to the TIB as
// well; otherwise a SIB is created when the track is encoded.
func (track *Track) AddSector(sector *Sector, sib *SectorInformationBlock) {
	track.Sectors = append(track.Sectors, sector)
	if sib != nil {
		track.TIB.AddSIB(sib, false)
	}
}

// NewEmptySector appends a sector with no data and returns it.
func (track *Track) NewEmptySector(size int, fillerByte uint8) *Sector {
	sector := &Sector{SectorSize: size, FillerByte: fillerByte, Data: []byte{}}
	track.AddSector(sector, nil)
	return sector
}

// SectorByID returns the sector whose SIB has the given ID, or nil if there
// isn't one.
func (track *Track) SectorByID(id uint8) *Sector {
	for i, sib := range track.TIB.SIBs {
		if sib.SectorID == id && i < len(track.Sectors) {
			return track.Sectors[i]
		}
	}
	return nil
}

// Data returns the payloads of all sectors concatenated, filler included.
func (track *Track) Data() []byte {
	var output []byte
	for _, sector := range track.Sectors {
		output = append(output, sector.Data...)
	}
	return output
}

// RealData concatenates the payloads of all sectors with the trailing filler of
// each removed. See Sector.RealData.
func (track *Track) RealData() []byte {
	var output []byte
	for _, sector := range track.Sectors {
		output = append(output, sector.RealData()...)
	}
	return output
}

// Encode returns the TIB padded with nulls to fill its 256-byte slot, followed
// by every sector's payload.
//
// Missing SIBs are added first so the TIB describes every sector. It's an
// error for there to be more SIBs than sectors, more SIBs than fit in the
// slot, or a SIB whose size can't be stored as a size class. The track is left
// untouched if encoding fails.
func (track *Track) Encode() ([]byte, error) {
	if err := track.checkEncodable(); err != nil {
		return nil, err
	}

	err := track.TIB.FillSIBs(len(track.Sectors))
	if err != nil {
		return nil, err
	}

	output := make([]byte, TrackInformationSlotSize, track.EncodedSize())
	copy(output, track.TIB.Encode())
	for _, sector := range track.Sectors {
		output = append(output, sector.Encode()...)
	}
	return output, nil
}

func (track *Track) checkEncodable() error {
	tib := track.TIB
	if len(tib.SIBs) > len(track.Sectors) {
		return zxdisk.ErrInvariantViolation.WithMessagef(
			"track %d has %d sector information blocks but only %d sectors",
			tib.Number,
			len(tib.SIBs),
			len(track.Sectors),
		)
	}

	if len(track.Sectors) > MaxSIBsPerSlot {
		return zxdisk.ErrValueOutOfRange.WithMessagef(
			"track %d has %d sectors but at most %d fit in the information block",
			tib.Number,
			len(track.Sectors),
			MaxSIBsPerSlot,
		)
	}

	for i, sib := range tib.SIBs {
		if !IsEncodableSectorSize(sib.SectorSize) {
			return zxdisk.ErrValueOutOfRange.WithMessagef(
				"track %d, sector %d (ID %#02x): size %d isn't a multiple of %d up to %d",
				tib.Number,
				i,
				sib.SectorID,
				sib.SectorSize,
				sizeUnit,
				maxSectorSize,
			)
		}
	}

	// SIBs added by FillSIBs take the TIB's size.
	if len(tib.SIBs) < len(track.Sectors) && !IsEncodableSectorSize(tib.SectorSize) {
		return zxdisk.ErrValueOutOfRange.WithMessagef(
			"track %d: sector size %d isn't a multiple of %d up to %d",
			tib.Number,
			tib.SectorSize,
			sizeUnit,
			maxSectorSize,
		)
	}
	return nil
}

// EncodedSize returns the number of bytes Encode will produce.
func (track *Track) EncodedSize() int {
	size := TrackInformationSlotSize
	for _, sector := range track.Sectors {
		size += sector.SectorSize
	}
	return size
}
