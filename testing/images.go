package testing

import (
	"bytes"
	_ "embed"
	"io"
	"testing"

	"github.com/dargueta/zxdisk/utilities/compression"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// Plus3ImageSize is the size of the uncompressed Plus3Image.
const Plus3ImageSize = 0x100 + 40*0x1300

// Plus3Image is a compressed 40-track +3 image with nine 512-byte sectors per
// track. The first track is reserved; the directory at the start of the second
// holds four files:
//
//	HOLA         2 records, block 2, +3DOS BASIC program
//	SINUS.BAK    3 records, block 3, no header
//	CAPTURE.SCR  55 records, blocks 4-10, +3DOS code file
//	SINUS        3 records, block 11, +3DOS BASIC program
//
//go:embed testdata/plus3.dsk.rle.gz
var Plus3Image []byte

// LoadDiskImageBytes decompresses a disk image and fails the test immediately
// if it doesn't come out to `expectedSize` bytes.
func LoadDiskImageBytes(t *testing.T, compressedImageBytes []byte, expectedSize int) []byte {
	require.Greater(t, len(compressedImageBytes), 0, "compressed image is empty")

	imageBytes, err := compression.DecompressImageToBytes(bytes.NewReader(compressedImageBytes))
	require.NoError(t, err)
	require.Equal(t, expectedSize, len(imageBytes), "uncompressed image is wrong size")
	return imageBytes
}

// LoadDiskImage takes a compressed disk image and returns a stream to access the
// uncompressed data.
//
//   - Writes to the stream do not affect `compressedImageBytes`.
//   - While the stream can be written to, its size is fixed to `expectedSize`.
//     Attempting to write past the end of this buffer will trigger an error.
func LoadDiskImage(
	t *testing.T, compressedImageBytes []byte, expectedSize int,
) io.ReadWriteSeeker {
	return bytesextra.NewReadWriteSeeker(
		LoadDiskImageBytes(t, compressedImageBytes, expectedSize))
}

// LoadPlus3Image returns the uncompressed contents of Plus3Image.
func LoadPlus3Image(t *testing.T) []byte {
	return LoadDiskImageBytes(t, Plus3Image, Plus3ImageSize)
}
