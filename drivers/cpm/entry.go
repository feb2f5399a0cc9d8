// Package cpm implements the CP/M 2.2 directory as found on Spectrum +3 and
// Amstrad CPC disks, and a read-only view of the files it describes.
package cpm

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/dargueta/zxdisk"
	"github.com/dargueta/zxdisk/utilities/fixedwidth"
	"github.com/noxer/bytewriter"
)

// EntrySize is the size of a single raw directory entry, in bytes.
const EntrySize = 32

// MaxPointers is the number of block pointers in one directory entry.
const MaxPointers = 16

// RecordSize is the size of a CP/M record, the unit LastBytes is counted in.
const RecordSize = 128

// StatusUnused marks a directory entry that isn't in use. Freshly formatted
// directories are full of these, since 0xE5 is also the usual filler byte.
const StatusUnused = 0xe5

const (
	filenameWidth  = 8
	extensionWidth = 3
)

// RawEntry is the on-disk representation of a directory entry.
type RawEntry struct {
	// Status is the user number (0-15) of the file owning the entry, or
	// StatusUnused.
	Status uint8
	// Filename is the stem of the file name right-padded with spaces. The high
	// bit of each byte is an attribute flag, not part of the character.
	Filename [filenameWidth]byte
	// Extension is the file extension right-padded with spaces. The high bits
	// of the three bytes are the read-only, system, and archived flags, in
	// that order.
	Extension [extensionWidth]byte
	// ExtentLow, S1, and ExtentHigh are EX, S1, and S2 in CP/M terms.
	ExtentLow  uint8
	S1         uint8
	ExtentHigh uint8
	// RecordCount is the number of 128-byte records used in this extent.
	RecordCount uint8
	// Pointers are the numbers of the blocks holding the data of this extent.
	// Unused pointers are null.
	Pointers [MaxPointers]uint8
}

// Entry is a decoded directory entry. One file can span several entries
// (extents) if it needs more than 16 blocks.
type Entry struct {
	Status uint8
	// Filename is the stem of the file name, without padding or flag bits.
	Filename string
	// Extension is the file extension, without padding or flag bits.
	Extension string
	// FilenameFlags holds the high bits of the eight filename bytes. Their
	// meaning depends on the operating system (e.g. ZSDOS uses the second as
	// "public").
	FilenameFlags [filenameWidth]bool
	ReadOnly      bool
	SystemFile    bool
	Archived      bool
	ExtentLow     uint8
	S1            uint8
	ExtentHigh    uint8
	// LastBytes is the number of records used in this extent.
	LastBytes uint8
	// Pointers holds the block pointers up to and including the last non-zero
	// one. An entry with no blocks has an empty list.
	Pointers []uint8
}

// NewEntry creates an entry for user 0 with no attributes set.
func NewEntry(filename, extension string, lastBytes uint8, pointers []uint8) *Entry {
	pointersCopy := make([]uint8, len(pointers))
	copy(pointersCopy, pointers)
	return &Entry{
		Filename:  filename,
		Extension: extension,
		LastBytes: lastBytes,
		Pointers:  pointersCopy,
	}
}

// NewRawEntryFromBytes deserializes 32 bytes into a RawEntry for further
// processing.
func NewRawEntryFromBytes(data []byte) (RawEntry, error) {
	raw := RawEntry{}
	if len(data) < EntrySize {
		return raw, zxdisk.ErrTruncatedRecord.WithMessagef(
			"directory entry needs %d bytes, got %d", EntrySize, len(data))
	}

	err := binary.Read(bytes.NewReader(data[:EntrySize]), binary.LittleEndian, &raw)
	if err != nil {
		return raw, zxdisk.ErrTruncatedRecord.Wrap(err)
	}
	return raw, nil
}

// NewEntryFromRaw splits flags from characters and trims the padding and unused
// pointers off a raw entry.
func NewEntryFromRaw(raw *RawEntry) *Entry {
	filename, filenameFlags := fixedwidth.SplitHighBits(raw.Filename[:])
	extension, extensionFlags := fixedwidth.SplitHighBits(raw.Extension[:])

	entry := &Entry{
		Status:     raw.Status,
		Filename:   fixedwidth.Trim(filename),
		Extension:  fixedwidth.Trim(extension),
		ReadOnly:   extensionFlags[0],
		SystemFile: extensionFlags[1],
		Archived:   extensionFlags[2],
		ExtentLow:  raw.ExtentLow,
		S1:         raw.S1,
		ExtentHigh: raw.ExtentHigh,
		LastBytes:  raw.RecordCount,
	}
	copy(entry.FilenameFlags[:], filenameFlags)

	last := len(raw.Pointers) - 1
	for last >= 0 && raw.Pointers[last] == 0 {
		last--
	}
	entry.Pointers = make([]uint8, last+1)
	copy(entry.Pointers, raw.Pointers[:last+1])
	return entry
}

// DecodeEntry decodes the first 32 bytes of `data`.
func DecodeEntry(data []byte) (*Entry, error) {
	raw, err := NewRawEntryFromBytes(data)
	if err != nil {
		return nil, err
	}
	return NewEntryFromRaw(&raw), nil
}

// FilenameBytes returns the filename padded with spaces to eight bytes, with
// the filename flags merged in.
func (entry *Entry) FilenameBytes() []byte {
	field := fixedwidth.Pad(entry.Filename, filenameWidth, ' ')
	return fixedwidth.MergeHighBits(field, entry.FilenameFlags[:]...)
}

// ExtensionBytes returns the extension padded with spaces to three bytes, with
// the read-only, system, and archived flags merged in.
func (entry *Entry) ExtensionBytes() []byte {
	field := fixedwidth.Pad(entry.Extension, extensionWidth, ' ')
	return fixedwidth.MergeHighBits(field, entry.ReadOnly, entry.SystemFile, entry.Archived)
}

// Raw converts the entry to its on-disk form. Names that are too long are
// truncated; more than 16 pointers is an error.
func (entry *Entry) Raw() (RawEntry, error) {
	raw := RawEntry{
		Status:      entry.Status,
		ExtentLow:   entry.ExtentLow,
		S1:          entry.S1,
		ExtentHigh:  entry.ExtentHigh,
		RecordCount: entry.LastBytes,
	}

	if len(entry.Pointers) > MaxPointers {
		return raw, zxdisk.ErrValueOutOfRange.WithMessagef(
			"%s has %d block pointers, at most %d fit in an entry",
			entry.Name(),
			len(entry.Pointers),
			MaxPointers,
		)
	}

	copy(raw.Filename[:], entry.FilenameBytes())
	copy(raw.Extension[:], entry.ExtensionBytes())
	copy(raw.Pointers[:], entry.Pointers)
	return raw, nil
}

// Encode returns the 32-byte on-disk form of the entry.
func (entry *Entry) Encode() ([]byte, error) {
	raw, err := entry.Raw()
	if err != nil {
		return nil, err
	}

	output := make([]byte, EntrySize)
	binary.Write(bytewriter.New(output), binary.LittleEndian, &raw)
	return output, nil
}

// Name returns the file name in STEM.EXT form, or just STEM if there's no
// extension.
func (entry *Entry) Name() string {
	if entry.Extension == "" {
		return entry.Filename
	}
	return entry.Filename + "." + entry.Extension
}

// IsUnused returns true if the entry doesn't belong to any file.
func (entry *Entry) IsUnused() bool {
	return entry.Status == StatusUnused
}

// ExtentNumber returns the position of this entry within its file, starting
// from 0.
func (entry *Entry) ExtentNumber() int {
	return int(entry.ExtentHigh)*32 + int(entry.ExtentLow&0x1f)
}

// BlockCount returns the number of non-zero block pointers.
func (entry *Entry) BlockCount() int {
	count := 0
	for _, pointer := range entry.Pointers {
		if pointer != 0 {
			count++
		}
	}
	return count
}

// Size returns the number of bytes used by this extent, rounded up to a whole
// record.
func (entry *Entry) Size() int {
	return int(entry.LastBytes) * RecordSize
}

// LegacySize computes the size assuming every block but the last is full and
// LastBytes counts 256-byte units in the last one. Real directories rarely agree
// with it; prefer Size.
func (entry *Entry) LegacySize(blockSize int) int {
	blocks := entry.BlockCount()
	if blocks == 0 {
		return 0
	}
	return (blocks-1)*blockSize + int(entry.LastBytes)*0x100
}

func (entry *Entry) String() string {
	return fmt.Sprintf("<cpm.Entry %d:%s>", entry.Status, entry.Name())
}
