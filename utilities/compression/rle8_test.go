package compression_test

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	c "github.com/dargueta/zxdisk/utilities/compression"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rle8TestCase struct {
	Name           string
	Input          []byte
	ExpectedOutput []byte
}

func TestCompressRLE8__Basic(t *testing.T) {
	tests := []rle8TestCase{
		{"empty", []byte{}, []byte{}},
		{"run with two only", []byte{4, 4}, []byte{4, 4, 0}},
		{"no runs", []byte{0, 1, 2, 3, 4}, []byte{0, 1, 2, 3, 4}},
		{"two at end", []byte{6, 1, 3, 0, 0}, []byte{6, 1, 3, 0, 0, 0}},
		{"three at end", []byte{6, 1, 0, 0, 0}, []byte{6, 1, 0, 0, 1}},
		{"short run", []byte{9, 5, 5, 5, 5, 5, 3, 7}, []byte{9, 5, 5, 3, 3, 7}},
		{
			"adjacent runs",
			[]byte{9, 5, 5, 5, 5, 5, 5, 3, 3, 3, 3, 7, 2, 6},
			[]byte{9, 5, 5, 4, 3, 3, 2, 7, 2, 6},
		},
		{
			"filler sector",
			bytes.Repeat([]byte{0xe5}, 512),
			[]byte{0xe5, 0xe5, 255, 0xe5, 0xe5, 253},
		},
		{"257", bytes.Repeat([]byte{8}, 257), []byte{8, 8, 255}},
		{"258", bytes.Repeat([]byte{8}, 258), []byte{8, 8, 255, 8}},
		{"259", bytes.Repeat([]byte{8}, 259), []byte{8, 8, 255, 8, 8, 0}},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			outputBuffer := make([]byte, len(test.ExpectedOutput)*2)
			n, err := c.CompressRLE8(bytes.NewReader(test.Input), bytewriter.New(outputBuffer))
			require.NoError(t, err)
			assert.EqualValues(t, len(test.ExpectedOutput), n, "bytes written is wrong")
			assert.Equal(t, test.ExpectedOutput, outputBuffer[:n])
		})
	}
}

func TestRLE8RoundTrip__CompletelyRandom(t *testing.T) {
	originalData := make([]byte, 1852)
	rand.Read(originalData)
	runRoundTripTestCase(t, originalData)
}

func TestRLE8RoundTrip__EntirelyNulls(t *testing.T) {
	runRoundTripTestCase(t, make([]byte, 571))
}

func TestRLE8RoundTrip__EntirelyNonNullRun(t *testing.T) {
	runRoundTripTestCase(t, bytes.Repeat([]byte{182}, 934))
}

func TestRLE8RoundTrip__Empty(t *testing.T) {
	runRoundTripTestCase(t, []byte{})
}

func TestRLE8Decompress__MissingRepeatCount(t *testing.T) {
	data := []byte{9, 1, 4, 4}
	decompressed := make([]byte, 16)

	_, err := c.DecompressRLE8(bytes.NewReader(data), bytewriter.New(decompressed))
	require.Error(t, err, "read with missing repeat count should've failed")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func runRoundTripTestCase(t *testing.T, originalData []byte) {
	// Random input can come out larger than it went in.
	compressedBuffer := make([]byte, len(originalData)*2)

	n, err := c.CompressRLE8(bytes.NewReader(originalData), bytewriter.New(compressedBuffer))
	require.NoError(t, err, "compression failed")
	t.Logf("compressed %d to %d", len(originalData), n)

	outputBuffer := make([]byte, len(originalData))
	n, err = c.DecompressRLE8(
		bytes.NewReader(compressedBuffer[:n]), bytewriter.New(outputBuffer))
	require.NoError(t, err, "decompression failed")
	assert.EqualValues(t, len(originalData), n, "decompressed size is wrong")
	assert.Equal(t, originalData, outputBuffer)
}
