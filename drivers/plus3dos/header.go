// Package plus3dos implements the 128-byte header +3DOS puts in front of files
// it writes to disk.
package plus3dos

import (
	"bytes"
	"encoding/binary"

	"github.com/dargueta/zxdisk"
	"github.com/noxer/bytewriter"
)

const (
	// HeaderSize is the size of the header, which is counted in Length.
	HeaderSize = 128

	Signature      = "PLUS3DOS"
	DefaultSoftEOF = 0x1a
	DefaultIssue   = 1
	DefaultVersion = 0

	checksumOffset = HeaderSize - 1
)

// The file types found in the first byte of the BASIC header.
const (
	FileTypeProgram      = 0
	FileTypeNumericArray = 1
	FileTypeCharArray    = 2
	FileTypeCode         = 3
)

// RawHeader is the on-disk representation of the header.
type RawHeader struct {
	Signature [8]byte
	SoftEOF   uint8
	Issue     uint8
	Version   uint8
	// Length is the size of the whole file, this header included.
	Length uint32
	// BasicHeader is the header +3 BASIC would have written to tape.
	BasicHeader [8]byte
	Reserved    [104]uint8
	// Checksum is the sum of the preceding 127 bytes, modulo 256.
	Checksum uint8
}

// Header is a +3DOS file header. The checksum isn't kept up to date
// automatically; call MakeChecksum after changing anything.
type Header struct {
	SoftEOF     uint8
	Issue       uint8
	Version     uint8
	Length      uint32
	BasicHeader [8]byte
	Checksum    uint8
}

// NewHeader creates a header for an empty file. Its checksum is zero.
func NewHeader() *Header {
	return &Header{
		SoftEOF: DefaultSoftEOF,
		Issue:   DefaultIssue,
		Version: DefaultVersion,
	}
}

// DecodeHeader decodes the first 128 bytes of `data`. The checksum isn't
// verified; see CheckChecksum.
func DecodeHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, zxdisk.ErrTruncatedRecord.WithMessagef(
			"+3DOS header needs %d bytes, got %d", HeaderSize, len(data))
	}

	raw := RawHeader{}
	err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &raw)
	if err != nil {
		return nil, zxdisk.ErrTruncatedRecord.Wrap(err)
	}

	if string(raw.Signature[:]) != Signature {
		return nil, zxdisk.ErrInvalidSignature.WithMessagef(
			"expected %q, got %q", Signature, raw.Signature[:])
	}

	return &Header{
		SoftEOF:     raw.SoftEOF,
		Issue:       raw.Issue,
		Version:     raw.Version,
		Length:      raw.Length,
		BasicHeader: raw.BasicHeader,
		Checksum:    raw.Checksum,
	}, nil
}

// HasHeader returns true if `data` begins with the +3DOS signature.
func HasHeader(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Signature))
}

// Encode returns the 128-byte on-disk form of the header, using the stored
// checksum as-is.
func (h *Header) Encode() []byte {
	raw := RawHeader{
		SoftEOF:     h.SoftEOF,
		Issue:       h.Issue,
		Version:     h.Version,
		Length:      h.Length,
		BasicHeader: h.BasicHeader,
		Checksum:    h.Checksum,
	}
	copy(raw.Signature[:], Signature)

	output := make([]byte, HeaderSize)
	binary.Write(bytewriter.New(output), binary.LittleEndian, &raw)
	return output
}

// ComputeChecksum returns what the checksum should be for the current field
// values, without storing it.
func (h *Header) ComputeChecksum() uint8 {
	sum := 0
	for _, b := range h.Encode()[:checksumOffset] {
		sum += int(b)
	}
	return uint8(sum % 256)
}

// MakeChecksum recomputes the checksum and stores it in the header.
func (h *Header) MakeChecksum() {
	h.Checksum = h.ComputeChecksum()
}

// CheckChecksum returns true if the stored checksum is correct. A mismatch
// isn't necessarily fatal; callers decide what to do about it.
func (h *Header) CheckChecksum() bool {
	return h.Checksum == h.ComputeChecksum()
}

// DataLength returns the size of the file without this header.
func (h *Header) DataLength() int {
	if h.Length < HeaderSize {
		return 0
	}
	return int(h.Length) - HeaderSize
}

// FileType returns the type of file from the BASIC header, one of the FileType
// constants.
func (h *Header) FileType() uint8 {
	return h.BasicHeader[0]
}
